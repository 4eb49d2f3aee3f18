package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/LJTian/HotWatch/internal/api"
	"github.com/LJTian/HotWatch/internal/config"
	"github.com/LJTian/HotWatch/internal/metrics"
	"github.com/LJTian/HotWatch/internal/scheduler"
)

// 常驻模式：提供手动触发接口与 /metrics；配置了 CRON_SPEC 时同时按计划执行
func main() {
	cfg := config.Load()

	m := metrics.New()
	// 定时与手动触发共用，保证同一时间只有一轮
	job := scheduler.NewExclusive(scheduler.NewRunner(cfg, m))

	var s *scheduler.Scheduler
	if cfg.CronSpec != "" {
		var err error
		s, err = scheduler.New(cfg.CronSpec, job)
		if err != nil {
			log.Fatalf("init scheduler failed: %v", err)
		}
		s.Start()
		log.Printf("scheduler started with spec %q", cfg.CronSpec)
	} else {
		log.Println("CRON_SPEC empty, runs only on POST /api/v1/run")
	}

	r := gin.Default()
	api.NewServer(job, m).RegisterRoutes(r)

	srv := &http.Server{Addr: ":" + cfg.AppPort, Handler: r}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		log.Printf("starting api server at %s ...", srv.Addr)
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("server exit: %v", err)
		}
	case <-ctx.Done():
		log.Println("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("server shutdown: %v", err)
		}
	}

	if s != nil {
		// 等待正在执行的一轮推送完成
		s.Stop()
	}
	log.Println("api server stopped")
}
