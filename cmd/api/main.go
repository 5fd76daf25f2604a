package main

import (
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/ashish-singh09/disasterwatch/internal/aggregator"
	"github.com/ashish-singh09/disasterwatch/internal/api"
	"github.com/ashish-singh09/disasterwatch/internal/collector"
	"github.com/ashish-singh09/disasterwatch/internal/config"
	"github.com/ashish-singh09/disasterwatch/internal/logger"
	"github.com/ashish-singh09/disasterwatch/internal/processor"
)

func main() {
	log := logger.New("api")
	slog.SetDefault(log)

	cfg, err := config.Load()
	if err != nil {
		log.Error("load config failed", "error", err)
		os.Exit(1)
	}
	if cfg.NewsAPIKey == "" {
		log.Warn("NEWS_API_KEY not set, News API source will return no items")
	}

	p := processor.NewProcessor(cfg.SeverityStrategy, cfg.URLMode, processor.NewScorer(cfg.SentimentModel))
	agg := aggregator.New(collector.FromConfig(cfg, p), aggregator.Options{
		Timeout:     cfg.FetchTimeout,
		Concurrency: cfg.FetchConcurrency,
		Logger:      log,
	})

	r := gin.Default()
	api.NewServer(agg, cfg).RegisterRoutes(r)

	addr := ":" + cfg.AppPort
	log.Info("starting api server", "addr", addr, "path", cfg.APIPath)
	if err := r.Run(addr); err != nil {
		log.Error("server exit", "error", err)
		os.Exit(1)
	}
}
