package collector

import (
	"context"
	"fmt"
	"html"
	"log"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
)

const (
	baiduBoardURL   = "https://top.baidu.com/board?tab=realtime"
	baiduMaxItems   = 8
	baiduDefTimeout = 15 * time.Second
)

// 页面 class 带哈希后缀，容器失配时退回按标题 class 标记正则提取
var baiduTitleRe = regexp.MustCompile(`class="[^"]*c-single-text-ellipsis[^"]*"[^>]*>\s*([^<]+?)\s*<`)

// BaiduHotFetcher 抓取百度实时热搜榜，按关键词过滤标题
type BaiduHotFetcher struct {
	// URL 为空时使用线上热搜榜地址
	URL     string
	Timeout time.Duration
}

func (b *BaiduHotFetcher) Name() string {
	return "baidu_hot"
}

type boardEntry struct {
	title string
	heat  int
}

func (b *BaiduHotFetcher) Fetch(ctx context.Context, keywords []string) Result {
	log.Println("fetch Baidu Hot Search...")

	if err := ctx.Err(); err != nil {
		return failed(b.Name(), err)
	}

	entries, err := b.board(ctx)
	if err != nil {
		log.Printf("fetch Baidu Hot Search failed: %v", err)
		return failed(b.Name(), err)
	}
	if len(entries) == 0 {
		log.Printf("fetch Baidu Hot Search got 0 items")
	}

	results := make([]NewsItem, 0, baiduMaxItems)
	for _, e := range entries {
		kw, ok := MatchFirst(e.title, keywords)
		if !ok {
			continue
		}
		results = append(results, NewsItem{
			Title:    e.title,
			URL:      "https://www.baidu.com/s?wd=" + url.QueryEscape(e.title),
			Source:   "baidu",
			Keyword:  kw,
			HotScore: float64(e.heat),
			RawData:  map[string]any{"heat": e.heat},
		})
		if len(results) >= baiduMaxItems {
			break
		}
	}
	return succeeded(b.Name(), results)
}

func (b *BaiduHotFetcher) board(ctx context.Context) ([]boardEntry, error) {
	target := b.URL
	if target == "" {
		target = baiduBoardURL
	}
	timeout := b.Timeout
	if timeout <= 0 {
		timeout = baiduDefTimeout
	}

	c := colly.NewCollector(
		colly.UserAgent("Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
	)
	c.SetRequestTimeout(timeout)
	// colly 的 Visit 不接收 context，取消信号经由 transport 传到请求上
	c.WithTransport(ctxTransport{ctx: ctx, base: http.DefaultTransport})

	var (
		entries []boardEntry
		body    []byte
	)
	seen := make(map[string]bool)

	c.OnResponse(func(r *colly.Response) {
		body = r.Body
	})

	// 页面结构可能调整，此处基于当前的 DOM 结构做“尽力而为”的解析
	c.OnHTML("div.category-wrap_iQLoo", func(e *colly.HTMLElement) {
		title := strings.TrimSpace(e.ChildText("div.c-single-text-ellipsis"))
		if title == "" || seen[title] {
			return
		}
		seen[title] = true
		entries = append(entries, boardEntry{
			title: title,
			heat:  parseInt(e.ChildText("div.hot-index_1Bl1a")),
		})
	})

	if err := c.Visit(target); err != nil {
		return nil, fmt.Errorf("baidu: visit %s: %w", target, err)
	}

	if len(entries) == 0 && len(body) > 0 {
		entries = parseBaiduTitles(string(body))
	}
	return entries, nil
}

type ctxTransport struct {
	ctx  context.Context
	base http.RoundTripper
}

func (t ctxTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return t.base.RoundTrip(req.WithContext(t.ctx))
}

// parseBaiduTitles 直接用正则从 HTML 中提取标题
func parseBaiduTitles(page string) []boardEntry {
	seen := make(map[string]bool)
	var list []boardEntry
	for _, m := range baiduTitleRe.FindAllStringSubmatch(page, -1) {
		title := strings.TrimSpace(html.UnescapeString(m[1]))
		if title == "" || seen[title] {
			continue
		}
		seen[title] = true
		list = append(list, boardEntry{title: title})
	}
	return list
}

func parseInt(s string) int {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return 0
	}
	// 去掉可能的“万”等单位，只保留数字部分
	end := 0
	for ; end < len(s); end++ {
		if s[end] < '0' || s[end] > '9' {
			break
		}
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}
