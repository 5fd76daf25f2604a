package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/ashish-singh09/disasterwatch/internal/aggregator"
)

// Runner 执行一次聚合
type Runner interface {
	Aggregate(ctx context.Context) *aggregator.Result
}

// Sink 接收每一轮聚合结果，例如打印到标准输出
type Sink func(*aggregator.Result)

type Scheduler struct {
	cron    *cron.Cron
	runner  Runner
	sink    Sink
	timeout time.Duration
}

// New 按 cron 表达式定期聚合；上一轮未结束时跳过本轮
func New(spec string, runner Runner, sink Sink, timeout time.Duration) (*Scheduler, error) {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))

	s := &Scheduler{
		cron:    c,
		runner:  runner,
		sink:    sink,
		timeout: timeout,
	}

	if _, err := c.AddFunc(spec, s.runOnce); err != nil {
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
func (s *Scheduler) RunOnce() {
	s.runOnce()
}

func (s *Scheduler) runOnce() {
	ctx := context.Background()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	slog.Info("start collect job...")
	res := s.runner.Aggregate(ctx)
	if s.sink != nil {
		s.sink(res)
	}
	slog.Info("collect job done", "run_id", res.RunID, "sources", len(res.Sources), "failed", len(res.Errors))
}
