package collector

import (
	"context"
	"strings"
)

// NewsItem 命中关键词的一条热点
type NewsItem struct {
	Title  string
	URL    string
	Source string
	// Keyword 是第一个命中的关键词（按关键词列表顺序）
	Keyword  string
	HotScore float64
	RawData  map[string]any
}

type Status int

const (
	// StatusOK 请求成功且有命中
	StatusOK Status = iota
	// StatusEmpty 请求成功但没有命中
	StatusEmpty
	// StatusFailed 网络、状态码或解析失败
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusEmpty:
		return "empty"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result 单个数据源一次抓取的结果，用来区分“没有命中”和“源不可用”
type Result struct {
	Source string
	Status Status
	Items  []NewsItem
	Err    error
}

func succeeded(source string, items []NewsItem) Result {
	if len(items) == 0 {
		return Result{Source: source, Status: StatusEmpty}
	}
	return Result{Source: source, Status: StatusOK, Items: items}
}

func failed(source string, err error) Result {
	return Result{Source: source, Status: StatusFailed, Err: err}
}

// Fetcher 抽象每一个数据源。Fetch 不返回 error，所有失败都体现在 Result 中。
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context, keywords []string) Result
}

// MatchFirst 大小写敏感的子串匹配，按关键词顺序取第一个命中
func MatchFirst(text string, keywords []string) (string, bool) {
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(text, kw) {
			return kw, true
		}
	}
	return "", false
}
