package collector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

const (
	externalMaxItems      = 8
	externalMaxBodyBytes  = 4 << 20
	externalClientTimeout = 20 * time.Second
)

// ErrNoHotNewsSource 未配置外部爬虫时返回
var ErrNoHotNewsSource = errors.New("external hot news source not configured")

// HotNewsSource 外部爬虫的边界：只负责产出热点条目，不关心关键词
type HotNewsSource interface {
	FetchHotNews(ctx context.Context) ([]NewsItem, error)
}

// ExternalFetcher 把外部爬虫的输出按关键词过滤，接入与内置数据源相同的流程
type ExternalFetcher struct {
	Source HotNewsSource
}

func (x *ExternalFetcher) Name() string {
	return "external"
}

func (x *ExternalFetcher) Fetch(ctx context.Context, keywords []string) Result {
	if x.Source == nil {
		log.Printf("external crawler unavailable, skipping")
		return failed(x.Name(), ErrNoHotNewsSource)
	}

	items, err := x.Source.FetchHotNews(ctx)
	if err != nil {
		log.Printf("fetch external hot news failed: %v", err)
		return failed(x.Name(), err)
	}

	results := make([]NewsItem, 0, externalMaxItems)
	for _, it := range items {
		kw, ok := MatchFirst(it.Title, keywords)
		if !ok {
			continue
		}
		it.Keyword = kw
		if it.Source == "" {
			it.Source = "external"
		}
		results = append(results, it)
		if len(results) >= externalMaxItems {
			break
		}
	}
	return succeeded(x.Name(), results)
}

// HotNewsClient 通过 HTTP 拉取外部爬虫服务的 JSON 输出
type HotNewsClient struct {
	URL    string
	Client *http.Client
}

func NewHotNewsClient(url string) *HotNewsClient {
	return &HotNewsClient{
		URL:    url,
		Client: &http.Client{Timeout: externalClientTimeout},
	}
}

type externalItem struct {
	Title    string  `json:"title"`
	URL      string  `json:"url"`
	Source   string  `json:"source"`
	HotScore float64 `json:"hot_score"`
}

func (h *HotNewsClient) FetchHotNews(ctx context.Context) ([]NewsItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("external: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	client := h.Client
	if client == nil {
		client = &http.Client{Timeout: externalClientTimeout}
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("external: fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("external: unexpected status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, externalMaxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("external: read body: %w", err)
	}

	list, err := decodeExternalItems(body)
	if err != nil {
		return nil, fmt.Errorf("external: decode: %w", err)
	}

	out := make([]NewsItem, 0, len(list))
	for _, it := range list {
		title := strings.TrimSpace(it.Title)
		if title == "" {
			continue
		}
		out = append(out, NewsItem{
			Title:    title,
			URL:      it.URL,
			Source:   it.Source,
			HotScore: it.HotScore,
		})
	}
	return out, nil
}

// decodeExternalItems 兼容裸数组和 {"items": [...]} 两种格式
func decodeExternalItems(body []byte) ([]externalItem, error) {
	var list []externalItem
	if err := json.Unmarshal(body, &list); err == nil {
		return list, nil
	}
	var wrapped struct {
		Items []externalItem `json:"items"`
	}
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return nil, err
	}
	return wrapped.Items, nil
}
