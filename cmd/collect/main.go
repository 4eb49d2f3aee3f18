package main

import (
	"context"
	"log"

	"github.com/LJTian/HotWatch/internal/config"
	"github.com/LJTian/HotWatch/internal/metrics"
	"github.com/LJTian/HotWatch/internal/scheduler"
)

// 只执行一轮监控后退出：适合由外部定时器（如 CI 定时任务）触发。
// 任何数据源或推送失败都只记录日志，进程总是正常退出。
func main() {
	log.Println("=== 热点监控开始 ===")
	cfg := config.Load()

	if cfg.WebhookURL() == "" {
		log.Println("warn: 未配置 FEISHU_WEBHOOK_URL / DINGTALK_WEBHOOK_URL，本轮仅打印消息")
	}

	runner := scheduler.NewRunner(cfg, metrics.New())
	rep := runner.Run(context.Background())

	log.Printf("=== 热点监控结束 matches=%d delivered=%v ===", len(rep.Matches), rep.Delivered)
}
