package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

const (
	zhihuHotURL          = "https://www.zhihu.com/api/v3/feed/topstory/hot-lists/total?limit=50&desktop=true"
	zhihuMaxItems        = 5
	zhihuMaxResponseByte = 2 << 20 // 2MB
	zhihuDefTimeout      = 10 * time.Second
)

// ZhihuHotFetcher 通过知乎热榜 JSON 接口抓取问题标题
type ZhihuHotFetcher struct {
	URL    string
	Client *http.Client
}

func (z *ZhihuHotFetcher) Name() string {
	return "zhihu_hot"
}

type zhihuHotResp struct {
	Data []struct {
		DetailText string `json:"detail_text"`
		Target     struct {
			Title string `json:"title"`
			URL   string `json:"url"`
		} `json:"target"`
	} `json:"data"`
}

func (z *ZhihuHotFetcher) Fetch(ctx context.Context, keywords []string) Result {
	log.Println("fetch Zhihu Hot List...")

	data, err := z.hotList(ctx)
	if err != nil {
		log.Printf("fetch Zhihu Hot List failed: %v", err)
		return failed(z.Name(), err)
	}

	results := make([]NewsItem, 0, zhihuMaxItems)
	for i, d := range data.Data {
		title := strings.TrimSpace(d.Target.Title)
		kw, ok := MatchFirst(title, keywords)
		if !ok {
			continue
		}
		results = append(results, NewsItem{
			Title:    title,
			URL:      zhihuQuestionURL(d.Target.URL),
			Source:   "zhihu",
			Keyword:  kw,
			HotScore: float64(len(data.Data) - i),
			RawData: map[string]any{
				"rank": i + 1,
				"heat": d.DetailText,
			},
		})
		if len(results) >= zhihuMaxItems {
			break
		}
	}
	return succeeded(z.Name(), results)
}

func (z *ZhihuHotFetcher) hotList(ctx context.Context) (*zhihuHotResp, error) {
	target := z.URL
	if target == "" {
		target = zhihuHotURL
	}
	client := z.Client
	if client == nil {
		client = &http.Client{Timeout: zhihuDefTimeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("zhihu: build request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("zhihu: fetch hot list: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("zhihu: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, zhihuMaxResponseByte))
	if err != nil {
		return nil, fmt.Errorf("zhihu: read hot list: %w", err)
	}

	var data zhihuHotResp
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("zhihu: unmarshal hot list: %w", err)
	}
	return &data, nil
}

// zhihuQuestionURL 把 api.zhihu.com/questions/ID 转成网页链接
func zhihuQuestionURL(apiURL string) string {
	const apiPrefix = "https://api.zhihu.com/questions/"
	if strings.HasPrefix(apiURL, apiPrefix) {
		return "https://www.zhihu.com/question/" + strings.TrimPrefix(apiURL, apiPrefix)
	}
	if apiURL != "" {
		return apiURL
	}
	return "https://www.zhihu.com/hot"
}
