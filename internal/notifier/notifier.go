package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 10 * time.Second

// Notifier 投递格式化好的消息，返回是否成功
type Notifier interface {
	Notify(ctx context.Context, message string) bool
}

type textPayload struct {
	MsgType string      `json:"msg_type"`
	Content textContent `json:"content"`
}

type textContent struct {
	Text string `json:"text"`
}

// SendToFeishu POST 文本消息到机器人 webhook，仅 HTTP 200 视为成功。
// 任何错误都转成 false，不重试。
func SendToFeishu(ctx context.Context, client *http.Client, webhookURL, message string) bool {
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}

	body, err := json.Marshal(textPayload{MsgType: "text", Content: textContent{Text: message}})
	if err != nil {
		log.Printf("notify: marshal payload: %v", err)
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(body))
	if err != nil {
		log.Printf("notify: build request: %v", err)
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		log.Printf("notify: post webhook: %v", err)
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64*1024))

	if resp.StatusCode != http.StatusOK {
		log.Printf("notify: webhook status %d", resp.StatusCode)
		return false
	}
	return true
}

// Platform 根据 webhook 地址猜测平台名，仅用于日志
func Platform(webhookURL string) string {
	switch {
	case strings.Contains(webhookURL, "feishu"), strings.Contains(webhookURL, "larksuite"):
		return "飞书"
	case strings.Contains(webhookURL, "dingtalk"):
		return "钉钉"
	default:
		return "机器人"
	}
}

// Webhook 推送到配置的机器人地址
type Webhook struct {
	URL    string
	Client *http.Client
}

func (w *Webhook) Notify(ctx context.Context, message string) bool {
	platform := Platform(w.URL)
	if SendToFeishu(ctx, w.Client, w.URL, message) {
		log.Printf("✅ 消息已成功发送到%s", platform)
		return true
	}
	log.Printf("❌ 发送到%s失败，请检查 Webhook 地址", platform)
	return false
}

// LogOnly 未配置 webhook 时只打印消息
type LogOnly struct{}

func (LogOnly) Notify(_ context.Context, message string) bool {
	log.Printf("webhook not configured, log only:\n%s", message)
	return false
}

// New 有地址时返回 Webhook，否则退化为仅打印
func New(webhookURL string, timeout time.Duration) Notifier {
	if webhookURL == "" {
		return LogOnly{}
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Webhook{URL: webhookURL, Client: &http.Client{Timeout: timeout}}
}
