package scheduler

import (
	"context"
	"log"
	"sync"

	"github.com/robfig/cron/v3"
)

// Job 一次完整的监控流程
type Job interface {
	Run(ctx context.Context) Report
}

// Exclusive 保证同一时间只有一轮在跑：定时触发和手动触发共用同一个实例。
// 已有一轮在执行时直接返回 Skipped 的 Report，不排队。
type Exclusive struct {
	job     Job
	running sync.Mutex
}

func NewExclusive(job Job) *Exclusive {
	return &Exclusive{job: job}
}

func (e *Exclusive) Run(ctx context.Context) Report {
	if !e.running.TryLock() {
		log.Println("monitor job already running, skip")
		return Report{Skipped: true}
	}
	defer e.running.Unlock()
	return e.job.Run(ctx)
}

// Scheduler 进程内定时触发；每次触发都是独立的一轮，不保留状态
type Scheduler struct {
	cron *cron.Cron
	job  Job
}

func New(spec string, job Job) (*Scheduler, error) {
	// 上一轮未结束时跳过本次触发
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))

	s := &Scheduler{
		cron: c,
		job:  job,
	}

	_, err := c.AddFunc(spec, s.runOnce)
	if err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop 停止调度并等待正在执行的一轮结束
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// RunOnce 对外暴露的单次执行入口，方便手动触发
func (s *Scheduler) RunOnce(ctx context.Context) Report {
	return s.job.Run(ctx)
}

func (s *Scheduler) runOnce() {
	log.Println("cron: start monitor job...")
	rep := s.job.Run(context.Background())
	if rep.Skipped {
		return
	}
	log.Printf("cron: monitor job %s done", rep.ID)
}
