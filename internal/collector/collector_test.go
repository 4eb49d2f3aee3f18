package collector

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestMatchFirst(t *testing.T) {
	cases := []struct {
		text     string
		keywords []string
		want     string
		ok       bool
	}{
		{"热门话题：普拉提训练", []string{"普拉提"}, "普拉提", true},
		{"热门话题：普拉提训练", []string{"瑜伽"}, "", false},
		{"热门话题：普拉提训练", []string{"训练", "普拉提"}, "训练", true},
		{"Pilates class", []string{"pilates"}, "", false},
		{"Pilates class", []string{"", "Pilates"}, "Pilates", true},
		{"", []string{"普拉提"}, "", false},
	}

	for _, c := range cases {
		got, ok := MatchFirst(c.text, c.keywords)
		if got != c.want || ok != c.ok {
			t.Fatalf("MatchFirst(%q, %v) = %q,%v want %q,%v", c.text, c.keywords, got, ok, c.want, c.ok)
		}
	}
}

func boardHTML(titles ...string) string {
	var b strings.Builder
	b.WriteString("<html><body>")
	for i, t := range titles {
		fmt.Fprintf(&b, `<div class="category-wrap_iQLoo"><a href="/s?wd=%d"><div class="c-single-text-ellipsis"> %s </div></a><div class="hot-index_1Bl1a">%d</div></div>`, i, t, 1000-i)
	}
	b.WriteString("</body></html>")
	return b.String()
}

func htmlServer(t *testing.T, status int, page string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(page))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestBaiduHotFetcherMatchesBoardTitles(t *testing.T) {
	srv := htmlServer(t, http.StatusOK, boardHTML("普拉提新手教程", "今日天气", "健身房体态矫正"))

	f := &BaiduHotFetcher{URL: srv.URL, Timeout: 2 * time.Second}
	res := f.Fetch(context.Background(), []string{"普拉提", "体态矫正"})

	if res.Status != StatusOK {
		t.Fatalf("status = %v, err = %v", res.Status, res.Err)
	}
	if len(res.Items) != 2 {
		t.Fatalf("expected 2 matches, got %d: %+v", len(res.Items), res.Items)
	}
	if res.Items[0].Title != "普拉提新手教程" || res.Items[0].Keyword != "普拉提" {
		t.Fatalf("unexpected first item: %+v", res.Items[0])
	}
	if res.Items[0].HotScore != 1000 {
		t.Fatalf("heat not parsed: %+v", res.Items[0])
	}
	if res.Items[1].Keyword != "体态矫正" || res.Items[1].Source != "baidu" {
		t.Fatalf("unexpected second item: %+v", res.Items[1])
	}
}

func TestBaiduHotFetcherCapsResults(t *testing.T) {
	titles := make([]string, 0, 12)
	for i := 0; i < 12; i++ {
		titles = append(titles, fmt.Sprintf("普拉提话题%d", i))
	}
	srv := htmlServer(t, http.StatusOK, boardHTML(titles...))

	res := (&BaiduHotFetcher{URL: srv.URL}).Fetch(context.Background(), []string{"普拉提"})
	if len(res.Items) != baiduMaxItems {
		t.Fatalf("expected cap %d, got %d", baiduMaxItems, len(res.Items))
	}
}

func TestBaiduHotFetcherRegexFallback(t *testing.T) {
	page := `<html><body><ul><li><span class="title c-single-text-ellipsis">产后修复指南</span></li>` +
		`<li><span class="c-single-text-ellipsis">股市行情</span></li></ul></body></html>`
	srv := htmlServer(t, http.StatusOK, page)

	res := (&BaiduHotFetcher{URL: srv.URL}).Fetch(context.Background(), []string{"产后修复"})
	if res.Status != StatusOK || len(res.Items) != 1 || res.Items[0].Title != "产后修复指南" {
		t.Fatalf("regex fallback failed: %+v", res)
	}
}

func TestBaiduHotFetcherNoMatchIsEmptyNotFailed(t *testing.T) {
	srv := htmlServer(t, http.StatusOK, boardHTML("今日天气"))

	res := (&BaiduHotFetcher{URL: srv.URL}).Fetch(context.Background(), []string{"普拉提"})
	if res.Status != StatusEmpty || res.Err != nil || len(res.Items) != 0 {
		t.Fatalf("expected empty result, got %+v", res)
	}
}

func TestBaiduHotFetcherServerErrorFails(t *testing.T) {
	srv := htmlServer(t, http.StatusInternalServerError, "oops")

	res := (&BaiduHotFetcher{URL: srv.URL}).Fetch(context.Background(), []string{"普拉提"})
	if res.Status != StatusFailed || res.Err == nil || len(res.Items) != 0 {
		t.Fatalf("expected failed result, got %+v", res)
	}
}

func TestBaiduHotFetcherStopsOnCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(100*time.Millisecond, cancel)

	start := time.Now()
	res := (&BaiduHotFetcher{URL: srv.URL, Timeout: 10 * time.Second}).Fetch(ctx, []string{"普拉提"})
	if res.Status != StatusFailed || res.Err == nil {
		t.Fatalf("expected failed result after cancel, got %+v", res)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("fetch ignored cancellation, took %v", elapsed)
	}
}

func TestParseInt(t *testing.T) {
	cases := map[string]int{"4,963,210": 4963210, " 12万": 12, "": 0, "abc": 0}
	for in, want := range cases {
		if got := parseInt(in); got != want {
			t.Fatalf("parseInt(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestZhihuHotFetcherDecodesTargets(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[
			{"detail_text":"500 万热度","target":{"title":"普拉提真的能改善体态吗？","url":"https://api.zhihu.com/questions/123"}},
			{"detail_text":"300 万热度","target":{"title":"今天吃什么","url":"https://api.zhihu.com/questions/456"}},
			{"detail_text":"100 万热度","target":{"title":"产后修复有哪些误区","url":""}}
		]}`))
	}))
	defer srv.Close()

	f := &ZhihuHotFetcher{URL: srv.URL, Client: srv.Client()}
	res := f.Fetch(context.Background(), []string{"产后修复", "普拉提"})
	if res.Status != StatusOK || len(res.Items) != 2 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.Items[0].URL != "https://www.zhihu.com/question/123" || res.Items[0].Keyword != "普拉提" {
		t.Fatalf("unexpected first item: %+v", res.Items[0])
	}
	if res.Items[1].URL != "https://www.zhihu.com/hot" || res.Items[1].Keyword != "产后修复" {
		t.Fatalf("unexpected second item: %+v", res.Items[1])
	}
}

func TestZhihuHotFetcherFailures(t *testing.T) {
	badJSON := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data": [`))
	}))
	defer badJSON.Close()

	forbidden := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer forbidden.Close()

	closed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	closedURL := closed.URL
	closed.Close()

	for name, url := range map[string]string{"bad json": badJSON.URL, "403": forbidden.URL, "unreachable": closedURL} {
		f := &ZhihuHotFetcher{URL: url, Client: &http.Client{Timeout: 2 * time.Second}}
		res := f.Fetch(context.Background(), []string{"普拉提"})
		if res.Status != StatusFailed || res.Err == nil || len(res.Items) != 0 {
			t.Fatalf("%s: expected failed result, got %+v", name, res)
		}
	}
}

func TestWeiboSearchFetcherWeakSignal(t *testing.T) {
	var queries []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		queries = append(queries, q)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		switch q {
		case "普拉提":
			_, _ = w.Write([]byte(`<div class="card"><p class="txt">今天第一次上 普拉提 课，
				核心好酸</p></div>`))
		case "健身":
			_, _ = w.Write([]byte(`<script>var q = "健身";</script>`))
		default:
			_, _ = w.Write([]byte(`<p class="txt">nothing here</p>`))
		}
	}))
	defer srv.Close()

	f := &WeiboSearchFetcher{URL: srv.URL, Client: srv.Client()}
	res := f.Fetch(context.Background(), []string{"普拉提", "健身", "瑜伽"})
	if res.Status != StatusOK || len(res.Items) != 2 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.Items[0].Title != "今天第一次上 普拉提 课， 核心好酸" {
		t.Fatalf("card title = %q", res.Items[0].Title)
	}
	if res.Items[1].Title != "微博搜索「健身」有相关讨论" {
		t.Fatalf("fallback title = %q", res.Items[1].Title)
	}
	if len(queries) != 3 {
		t.Fatalf("expected one request per keyword, got %v", queries)
	}
}

func TestWeiboSearchFetcherLimitsQueriesAndFailsOnError(t *testing.T) {
	count := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		count++
		_, _ = w.Write([]byte("empty"))
	}))
	defer srv.Close()

	kws := []string{"a", "b", "c", "d", "e", "f", "g"}
	res := (&WeiboSearchFetcher{URL: srv.URL, Client: srv.Client()}).Fetch(context.Background(), kws)
	if res.Status != StatusEmpty || count != weiboMaxQueries {
		t.Fatalf("status=%v requests=%d", res.Status, count)
	}

	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer down.Close()
	res = (&WeiboSearchFetcher{URL: down.URL, Client: down.Client()}).Fetch(context.Background(), kws)
	if res.Status != StatusFailed || res.Err == nil {
		t.Fatalf("expected failed result, got %+v", res)
	}
}

type stubSource struct {
	items []NewsItem
	err   error
}

func (s stubSource) FetchHotNews(context.Context) ([]NewsItem, error) {
	return s.items, s.err
}

func TestExternalFetcher(t *testing.T) {
	f := &ExternalFetcher{Source: stubSource{items: []NewsItem{
		{Title: "普拉提大会开幕", URL: "https://example.com/1"},
		{Title: "无关新闻"},
		{Title: "健身热潮", Source: "douyin"},
	}}}
	res := f.Fetch(context.Background(), []string{"普拉提", "健身"})
	if res.Status != StatusOK || len(res.Items) != 2 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.Items[0].Source != "external" || res.Items[1].Source != "douyin" || res.Items[1].Keyword != "健身" {
		t.Fatalf("unexpected items: %+v", res.Items)
	}

	res = (&ExternalFetcher{Source: stubSource{err: errors.New("boom")}}).Fetch(context.Background(), []string{"普拉提"})
	if res.Status != StatusFailed {
		t.Fatalf("expected failure, got %+v", res)
	}

	res = (&ExternalFetcher{}).Fetch(context.Background(), []string{"普拉提"})
	if res.Status != StatusFailed || !errors.Is(res.Err, ErrNoHotNewsSource) {
		t.Fatalf("expected ErrNoHotNewsSource, got %+v", res)
	}
}

func TestHotNewsClientAcceptsBothShapes(t *testing.T) {
	bodies := []string{
		`[{"title":" 普拉提 ","url":"u1","source":"xhs","hot_score":3},{"title":""}]`,
		`{"items":[{"title":"普拉提","url":"u1","source":"xhs","hot_score":3}]}`,
	}
	for _, body := range bodies {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body))
		}))
		items, err := NewHotNewsClient(srv.URL).FetchHotNews(context.Background())
		srv.Close()
		if err != nil {
			t.Fatalf("FetchHotNews(%s) error: %v", body, err)
		}
		if len(items) != 1 || items[0].Title != "普拉提" || items[0].Source != "xhs" || items[0].HotScore != 3 {
			t.Fatalf("unexpected items for %s: %+v", body, items)
		}
	}
}

func TestHotNewsClientWithoutHTTPClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"title":"普拉提"}]`))
	}))
	defer srv.Close()

	items, err := (&HotNewsClient{URL: srv.URL}).FetchHotNews(context.Background())
	if err != nil || len(items) != 1 {
		t.Fatalf("FetchHotNews() = %+v, %v", items, err)
	}
}
