package processor

import (
	"sort"
	"strings"

	"github.com/LJTian/HotWatch/internal/collector"
	"github.com/LJTian/HotWatch/internal/keywords"
)

// Match 消息格式化前的中间结构，只在一次运行内存在
type Match struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Source  string `json:"source"`
	Keyword string `json:"keyword"`
	IsCore  bool   `json:"isCore"`
}

// Aggregate 按数据源顺序拼接各源命中结果；prioritizeCore 时核心词命中排在前面，其余保持原顺序
func Aggregate(results []collector.Result, kws []string, prioritizeCore bool) []Match {
	out := make([]Match, 0, 16)
	for _, r := range results {
		if r.Status != collector.StatusOK {
			continue
		}
		for _, it := range r.Items {
			out = append(out, Match{
				Title:   strings.TrimSpace(it.Title),
				URL:     it.URL,
				Source:  it.Source,
				Keyword: it.Keyword,
				IsCore:  keywords.IsCore(kws, it.Keyword),
			})
		}
	}

	if prioritizeCore {
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].IsCore && !out[j].IsCore
		})
	}
	return out
}
