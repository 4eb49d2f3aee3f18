package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/LJTian/HotWatch/internal/advisor"
	"github.com/LJTian/HotWatch/internal/collector"
	"github.com/LJTian/HotWatch/internal/keywords"
	"github.com/LJTian/HotWatch/internal/metrics"
	"github.com/LJTian/HotWatch/internal/notifier"
	"github.com/LJTian/HotWatch/internal/processor"
)

// RunConfig 单次运行的开关，显式传入而不是全局变量
type RunConfig struct {
	KeywordFile string

	EnableBaidu    bool
	EnableZhihu    bool
	EnableWeibo    bool
	EnableExternal bool
	EnableAI       bool
	PrioritizeCore bool
}

// Sources 各数据源实现，nil 表示不可用
type Sources struct {
	Baidu    collector.Fetcher
	Zhihu    collector.Fetcher
	Weibo    collector.Fetcher
	External collector.Fetcher
}

// Report 一次运行的全部产物，运行结束即丢弃
type Report struct {
	ID        string
	StartedAt time.Time
	Duration  time.Duration
	Keywords  []string
	Results   []collector.Result
	Matches   []processor.Match
	Message   string
	Delivered bool
	// Skipped 表示已有一轮在执行，本次未运行
	Skipped   bool
}

// Runner 串行执行：加载关键词 → 逐个抓取 → 聚合 → 建议 → 格式化 → 推送
type Runner struct {
	Config    RunConfig
	Sources   Sources
	Formatter *processor.Formatter
	Advisor   advisor.Advisor
	Notifier  notifier.Notifier
	Metrics   *metrics.Metrics
}

func (r *Runner) Run(ctx context.Context) Report {
	rep := Report{ID: uuid.NewString(), StartedAt: time.Now()}
	log.Printf("=== run %s start ===", rep.ID)

	rep.Keywords = keywords.Load(r.Config.KeywordFile)
	core, scene := keywords.Split(rep.Keywords)
	log.Printf("keywords: core=%v scene=%v", core, scene)

	for _, f := range r.fetchers() {
		res := safeFetch(ctx, f, rep.Keywords)
		r.Metrics.ObserveFetch(f.Name(), res.Status.String())
		switch res.Status {
		case collector.StatusFailed:
			log.Printf("fetch %s error: %v", f.Name(), res.Err)
		case collector.StatusEmpty:
			log.Printf("fetch %s got 0 matches", f.Name())
		default:
			log.Printf("fetch %s matched %d items", f.Name(), len(res.Items))
		}
		rep.Results = append(rep.Results, res)
	}

	rep.Matches = processor.Aggregate(rep.Results, rep.Keywords, r.Config.PrioritizeCore)

	suggestion := ""
	if r.Config.EnableAI && r.Advisor != nil && len(rep.Matches) > 0 {
		suggestion = r.Advisor.Suggest(ctx, rep.Matches)
	}

	formatter := r.Formatter
	if formatter == nil {
		formatter = &processor.Formatter{}
	}
	rep.Message = formatter.Format(rep.Matches, rep.Keywords, suggestion)
	log.Printf("message:\n%s", rep.Message)

	n := r.Notifier
	if n == nil {
		n = notifier.LogOnly{}
	}
	rep.Delivered = n.Notify(ctx, rep.Message)

	rep.Duration = time.Since(rep.StartedAt)
	r.Metrics.ObserveRun(len(rep.Matches), rep.Delivered)
	log.Printf("=== run %s done: matches=%d delivered=%v elapsed=%s ===",
		rep.ID, len(rep.Matches), rep.Delivered, rep.Duration.Round(time.Millisecond))
	return rep
}

func (r *Runner) fetchers() []collector.Fetcher {
	candidates := []struct {
		name    string
		enabled bool
		f       collector.Fetcher
	}{
		{"baidu", r.Config.EnableBaidu, r.Sources.Baidu},
		{"zhihu", r.Config.EnableZhihu, r.Sources.Zhihu},
		{"weibo", r.Config.EnableWeibo, r.Sources.Weibo},
		{"external", r.Config.EnableExternal, r.Sources.External},
	}

	out := make([]collector.Fetcher, 0, len(candidates))
	for _, c := range candidates {
		if !c.enabled {
			log.Printf("source %s disabled", c.name)
			continue
		}
		if c.f == nil {
			log.Printf("source %s not available, skipping", c.name)
			continue
		}
		out = append(out, c.f)
	}
	return out
}

// safeFetch 兜底 panic，保证定时任务总能走到推送
func safeFetch(ctx context.Context, f collector.Fetcher, kws []string) (res collector.Result) {
	defer func() {
		if p := recover(); p != nil {
			res = collector.Result{
				Source: f.Name(),
				Status: collector.StatusFailed,
				Err:    fmt.Errorf("%s: panic: %v", f.Name(), p),
			}
		}
	}()
	return f.Fetch(ctx, kws)
}
