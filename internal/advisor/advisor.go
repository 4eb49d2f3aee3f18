package advisor

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/LJTian/HotWatch/internal/processor"
)

// Advisor 根据本轮命中给出一句内容建议；失败时返回空串，不影响推送
type Advisor interface {
	Suggest(ctx context.Context, matches []processor.Match) string
}

// TemplateAdvisor 纯规则的建议文案，不访问网络
type TemplateAdvisor struct{}

func (TemplateAdvisor) Suggest(_ context.Context, matches []processor.Match) string {
	if len(matches) == 0 {
		return ""
	}
	top := matches[0]
	if len(matches) == 1 {
		return fmt.Sprintf("「%s」正在升温，建议围绕「%s」做一条科普短视频，标题直接引用热点。", top.Title, top.Keyword)
	}
	return fmt.Sprintf("本轮共 %d 条相关热点，优先跟进「%s」，可结合「%s」出一期合集图文。",
		len(matches), top.Title, top.Keyword)
}

const llmTimeout = 30 * time.Second

// LLMAdvisor 调用 OpenAI 兼容接口（默认 DeepSeek）生成建议，任何失败都退回 Fallback
type LLMAdvisor struct {
	model    llms.Model
	Fallback Advisor
}

// New 按配置构造 Advisor：未配置 key 或客户端初始化失败时使用模板建议
func New(apiKey, baseURL, model string) Advisor {
	fallback := TemplateAdvisor{}
	if strings.TrimSpace(apiKey) == "" {
		log.Printf("advisor: DEEPSEEK_API_KEY not set, using template suggestions")
		return fallback
	}

	opts := []openai.Option{
		openai.WithToken(apiKey),
		openai.WithModel(model),
	}
	if strings.TrimSpace(baseURL) != "" {
		opts = append(opts, openai.WithBaseURL(baseURL))
	}
	llm, err := openai.New(opts...)
	if err != nil {
		log.Printf("advisor: init llm client failed: %v, using template suggestions", err)
		return fallback
	}
	log.Printf("advisor: llm ready model=%s", model)
	return &LLMAdvisor{model: llm, Fallback: fallback}
}

// NewLLMAdvisor 直接注入模型，方便测试
func NewLLMAdvisor(model llms.Model, fallback Advisor) *LLMAdvisor {
	return &LLMAdvisor{model: model, Fallback: fallback}
}

func (a *LLMAdvisor) Suggest(ctx context.Context, matches []processor.Match) string {
	if len(matches) == 0 {
		return ""
	}
	if a.model == nil {
		return a.fallback(ctx, matches)
	}

	ctx, cancel := context.WithTimeout(ctx, llmTimeout)
	defer cancel()

	out, err := llms.GenerateFromSinglePrompt(ctx, a.model, buildPrompt(matches),
		llms.WithTemperature(0.7),
		llms.WithMaxTokens(200),
	)
	if err != nil {
		log.Printf("advisor: llm suggest failed: %v, using fallback", err)
		return a.fallback(ctx, matches)
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return a.fallback(ctx, matches)
	}
	return out
}

func (a *LLMAdvisor) fallback(ctx context.Context, matches []processor.Match) string {
	if a.Fallback == nil {
		return ""
	}
	return a.Fallback.Suggest(ctx, matches)
}

func buildPrompt(matches []processor.Match) string {
	var b strings.Builder
	b.WriteString("你是一名健身内容运营。以下是今天命中的热点话题：\n")
	for i, m := range matches {
		fmt.Fprintf(&b, "%d. %s（关键词：%s）\n", i+1, m.Title, m.Keyword)
	}
	b.WriteString("请用一到两句中文给出今天最值得跟进的内容选题建议，不要使用列表。")
	return b.String()
}
