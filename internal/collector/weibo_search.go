package collector

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	weiboSearchURL     = "https://s.weibo.com/weibo"
	weiboMaxItems      = 5
	weiboMaxQueries    = 5
	weiboMaxBodyBytes  = 2 << 20 // 2MB，防止超大 HTML
	weiboDefTimeout    = 15 * time.Second
	weiboMaxTitleRunes = 60
)

// WeiboSearchFetcher 按关键词请求微博搜索页。
// 搜索页需要登录态，原始 HTML 中出现关键词只算弱信号。
type WeiboSearchFetcher struct {
	URL    string
	Cookie string
	Client *http.Client
}

func (w *WeiboSearchFetcher) Name() string {
	return "weibo_search"
}

func (w *WeiboSearchFetcher) Fetch(ctx context.Context, keywords []string) Result {
	log.Println("fetch Weibo search...")

	queries := keywords
	if len(queries) > weiboMaxQueries {
		queries = queries[:weiboMaxQueries]
	}

	results := make([]NewsItem, 0, weiboMaxItems)
	for _, kw := range queries {
		if kw == "" {
			continue
		}
		pageURL := w.searchURL(kw)
		body, err := w.httpGet(ctx, pageURL)
		if err != nil {
			log.Printf("fetch Weibo search %q failed: %v", kw, err)
			return failed(w.Name(), err)
		}
		if !bytes.Contains(body, []byte(kw)) {
			continue
		}
		results = append(results, NewsItem{
			Title:   weiboCardTitle(body, kw),
			URL:     pageURL,
			Source:  "weibo",
			Keyword: kw,
			RawData: map[string]any{"signal": "weak"},
		})
		if len(results) >= weiboMaxItems {
			break
		}
	}
	return succeeded(w.Name(), results)
}

func (w *WeiboSearchFetcher) searchURL(kw string) string {
	base := w.URL
	if base == "" {
		base = weiboSearchURL
	}
	return base + "?q=" + url.QueryEscape(kw)
}

func (w *WeiboSearchFetcher) httpGet(ctx context.Context, target string) ([]byte, error) {
	client := w.Client
	if client == nil {
		client = &http.Client{Timeout: weiboDefTimeout}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("weibo: build request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	if w.Cookie != "" {
		req.Header.Set("Cookie", w.Cookie)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weibo: fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("weibo: unexpected status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, weiboMaxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("weibo: read body: %w", err)
	}
	return body, nil
}

// weiboCardTitle 取第一条包含关键词的微博正文作标题，找不到则用通用标题
func weiboCardTitle(body []byte, kw string) string {
	fallback := "微博搜索「" + kw + "」有相关讨论"

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return fallback
	}

	title := ""
	doc.Find("p.txt").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		t := strings.Join(strings.Fields(s.Text()), " ")
		if strings.Contains(t, kw) {
			title = t
			return false
		}
		return true
	})
	if title == "" {
		return fallback
	}
	if rs := []rune(title); len(rs) > weiboMaxTitleRunes {
		title = string(rs[:weiboMaxTitleRunes]) + "…"
	}
	return title
}
