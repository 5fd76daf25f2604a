package main

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ashish-singh09/disasterwatch/internal/aggregator"
	"github.com/ashish-singh09/disasterwatch/internal/collector"
	"github.com/ashish-singh09/disasterwatch/internal/config"
	"github.com/ashish-singh09/disasterwatch/internal/logger"
	"github.com/ashish-singh09/disasterwatch/internal/processor"
	"github.com/ashish-singh09/disasterwatch/internal/scheduler"
)

// 命令行采集入口：未配置 CRON_SPEC 时只执行一轮，否则按周期执行直到收到退出信号。
// 结果写到标准输出，日志写到标准错误。
func main() {
	log := logger.NewWithWriter(os.Stderr, "collect", os.Getenv("LOG_LEVEL"))
	slog.SetDefault(log)

	cfg, err := config.Load()
	if err != nil {
		log.Error("load config failed", "error", err)
		os.Exit(1)
	}

	p := processor.NewProcessor(cfg.SeverityStrategy, cfg.URLMode, processor.NewScorer(cfg.SentimentModel))
	agg := aggregator.New(collector.FromConfig(cfg, p), aggregator.Options{
		Timeout:     cfg.FetchTimeout,
		Concurrency: cfg.FetchConcurrency,
		Logger:      log,
	})

	sink := func(res *aggregator.Result) {
		if err := writeResult(os.Stdout, res, cfg.OutputFormat, cfg.ResponseMode); err != nil {
			log.Error("write result failed", "error", err)
		}
	}

	s, err := scheduler.New(scheduleSpec(cfg.CronSpec), agg, sink, agg.Budget())
	if err != nil {
		log.Error("init scheduler failed", "spec", cfg.CronSpec, "error", err)
		os.Exit(1)
	}

	if cfg.CronSpec == "" {
		s.RunOnce()
		return
	}

	log.Info("collect scheduled", "spec", cfg.CronSpec)
	s.Start()
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	s.Stop()
}

// scheduleSpec 单次模式下仍需要一个合法表达式来构造调度器
func scheduleSpec(spec string) string {
	if spec == "" {
		return "@every 1h"
	}
	return spec
}

func writeResult(w io.Writer, res *aggregator.Result, format string, mode config.ResponseMode) error {
	if format == "table" {
		return writeTable(w, res)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if mode == config.ResponseGrouped {
		return enc.Encode(res.Items)
	}
	return enc.Encode(res.Flatten())
}
