package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort string

	KeywordFile  string
	MonitorTitle string

	FeishuWebhookURL   string
	DingTalkWebhookURL string

	// DeepSeek 走 OpenAI 兼容协议，未配置 key 时退回模板建议
	DeepSeekAPIKey  string
	DeepSeekBaseURL string
	DeepSeekModel   string

	// 外部爬虫服务地址，为空则跳过
	HotNewsURL  string
	WeiboCookie string

	EnableBaidu    bool
	EnableZhihu    bool
	EnableWeibo    bool
	EnableExternal bool
	EnableAI       bool
	PrioritizeCore bool

	RequestTimeout time.Duration

	// 为空表示不启用进程内定时，由外部触发
	CronSpec string
}

func Load() *Config {
	// .env 不覆盖已有环境变量
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using system environment variables")
	}

	cfg := &Config{
		AppPort:            getEnv("APP_PORT", "9000"),
		KeywordFile:        getEnv("KEYWORD_FILE", "config/frequency_words.txt"),
		MonitorTitle:       getEnv("MONITOR_TITLE", "普拉提热点监控"),
		FeishuWebhookURL:   getEnv("FEISHU_WEBHOOK_URL", ""),
		DingTalkWebhookURL: getEnv("DINGTALK_WEBHOOK_URL", ""),
		DeepSeekAPIKey:     getEnv("DEEPSEEK_API_KEY", ""),
		DeepSeekBaseURL:    getEnv("DEEPSEEK_BASE_URL", "https://api.deepseek.com/v1"),
		DeepSeekModel:      getEnv("DEEPSEEK_MODEL", "deepseek-chat"),
		HotNewsURL:         getEnv("HOT_NEWS_URL", ""),
		WeiboCookie:        getEnv("WEIBO_COOKIE", ""),
		EnableBaidu:        getEnvBool("ENABLE_BAIDU", true),
		EnableZhihu:        getEnvBool("ENABLE_ZHIHU", true),
		EnableWeibo:        getEnvBool("ENABLE_WEIBO", false),
		EnableExternal:     getEnvBool("ENABLE_EXTERNAL", true),
		EnableAI:           getEnvBool("ENABLE_AI", true),
		PrioritizeCore:     getEnvBool("PRIORITIZE_CORE", true),
		RequestTimeout:     getEnvDuration("REQUEST_TIMEOUT", 15*time.Second),
		CronSpec:           getEnv("CRON_SPEC", ""),
	}

	log.Printf("config loaded: port=%s keywords=%s webhook=%v cron=%q",
		cfg.AppPort, cfg.KeywordFile, cfg.WebhookURL() != "", cfg.CronSpec)
	return cfg
}

// WebhookURL 优先飞书，其次钉钉；都没有时返回空串（仅打印模式）
func (c *Config) WebhookURL() string {
	if c.FeishuWebhookURL != "" {
		return c.FeishuWebhookURL
	}
	return c.DingTalkWebhookURL
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

// getEnvDuration 支持 "15s" 这类写法，也兼容纯数字（按秒）
func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil && n > 0 {
		return time.Duration(n) * time.Second
	}
	return def
}

// Now returns current time, 方便后续做可测试封装
func Now() time.Time {
	return time.Now()
}
