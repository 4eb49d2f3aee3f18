package processor

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// IdeaLibrary 没有命中热点时随机挑一条作内容灵感，%s 为第一个监控关键词
var IdeaLibrary = []string{
	"拍一条「%s 新手常见的 3 个错误」短视频，配动作对比",
	"做一期「%s 一周打卡计划」图文，适合收藏转发",
	"分享一个学员的 %s 前后对比故事，突出真实变化",
	"整理「%s 常见问题 Q&A」，回答评论区高频提问",
	"发起「%s 居家 10 分钟」挑战，邀请粉丝跟练打卡",
}

var sourceLabels = map[string]string{
	"baidu":    "百度热搜",
	"zhihu":    "知乎热榜",
	"weibo":    "微博搜索",
	"external": "外部爬虫",
}

// SourceLabel 数据源展示名，未登记的原样返回
func SourceLabel(source string) string {
	if l, ok := sourceLabels[source]; ok {
		return l
	}
	return source
}

// Formatter 把匹配结果渲染成一条纯文本消息
type Formatter struct {
	Title string
	Now   func() time.Time
	Rand  *rand.Rand
}

func (f *Formatter) Format(matches []Match, kws []string, suggestion string) string {
	if len(matches) == 0 {
		return f.formatIdea(kws)
	}

	var b strings.Builder
	f.writeHeader(&b)
	fmt.Fprintf(&b, "🔥 发现 %d 条相关热点：\n\n", len(matches))

	hits := make(map[string]int)
	order := make([]string, 0, len(kws))
	for i, m := range matches {
		fmt.Fprintf(&b, "%d. [%s] %s", i+1, SourceLabel(m.Source), m.Title)
		if m.IsCore {
			b.WriteString(" ⭐核心")
		}
		b.WriteString("\n")
		fmt.Fprintf(&b, "   🔑 关键词：%s\n", m.Keyword)
		if m.URL != "" {
			fmt.Fprintf(&b, "   🔗 %s\n", m.URL)
		}
		if hits[m.Keyword] == 0 {
			order = append(order, m.Keyword)
		}
		hits[m.Keyword]++
	}

	b.WriteString("\n")
	fmt.Fprintf(&b, "🔍 监控关键词：%s\n", strings.Join(kws, ", "))
	summary := make([]string, 0, len(order))
	for _, kw := range order {
		summary = append(summary, fmt.Sprintf("%s×%d", kw, hits[kw]))
	}
	fmt.Fprintf(&b, "🏷 命中关键词：%s\n", strings.Join(summary, ", "))

	if suggestion != "" {
		fmt.Fprintf(&b, "\n💡 AI 建议：%s\n", suggestion)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (f *Formatter) formatIdea(kws []string) string {
	var b strings.Builder
	f.writeHeader(&b)
	b.WriteString("📭 今日暂无匹配热点，以下内容灵感供参考：\n\n")

	topic := "普拉提"
	if len(kws) > 0 {
		topic = kws[0]
	}
	fmt.Fprintf(&b, "💡 内容灵感：%s\n\n", fmt.Sprintf(IdeaLibrary[f.pick(len(IdeaLibrary))], topic))
	fmt.Fprintf(&b, "🔍 监控关键词：%s", strings.Join(kws, ", "))
	return b.String()
}

func (f *Formatter) writeHeader(b *strings.Builder) {
	now := time.Now
	if f.Now != nil {
		now = f.Now
	}
	title := f.Title
	if title == "" {
		title = "热点监控"
	}
	fmt.Fprintf(b, "【%s】%s\n\n", title, now().Format("2006-01-02 15:04:05"))
}

func (f *Formatter) pick(n int) int {
	if f.Rand != nil {
		return f.Rand.Intn(n)
	}
	return rand.Intn(n)
}
