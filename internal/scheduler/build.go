package scheduler

import (
	"net/http"

	"github.com/LJTian/HotWatch/internal/advisor"
	"github.com/LJTian/HotWatch/internal/collector"
	"github.com/LJTian/HotWatch/internal/config"
	"github.com/LJTian/HotWatch/internal/metrics"
	"github.com/LJTian/HotWatch/internal/notifier"
	"github.com/LJTian/HotWatch/internal/processor"
)

// NewRunner 按配置组装各数据源、建议与推送，cmd/collect 与 cmd/api 共用
func NewRunner(cfg *config.Config, m *metrics.Metrics) *Runner {
	client := &http.Client{Timeout: cfg.RequestTimeout}

	sources := Sources{
		Baidu: &collector.BaiduHotFetcher{Timeout: cfg.RequestTimeout},
		Zhihu: &collector.ZhihuHotFetcher{Client: client},
		Weibo: &collector.WeiboSearchFetcher{Cookie: cfg.WeiboCookie, Client: client},
	}
	// 外部爬虫未配置时保持 nil，运行时打印提示后跳过
	if cfg.HotNewsURL != "" {
		sources.External = &collector.ExternalFetcher{Source: collector.NewHotNewsClient(cfg.HotNewsURL)}
	}

	var adv advisor.Advisor
	if cfg.EnableAI {
		adv = advisor.New(cfg.DeepSeekAPIKey, cfg.DeepSeekBaseURL, cfg.DeepSeekModel)
	}

	return &Runner{
		Config: RunConfig{
			KeywordFile:    cfg.KeywordFile,
			EnableBaidu:    cfg.EnableBaidu,
			EnableZhihu:    cfg.EnableZhihu,
			EnableWeibo:    cfg.EnableWeibo,
			EnableExternal: cfg.EnableExternal,
			EnableAI:       cfg.EnableAI,
			PrioritizeCore: cfg.PrioritizeCore,
		},
		Sources:   sources,
		Formatter: &processor.Formatter{Title: cfg.MonitorTitle, Now: config.Now},
		Advisor:   adv,
		Notifier:  notifier.New(cfg.WebhookURL(), cfg.RequestTimeout),
		Metrics:   m,
	}
}
