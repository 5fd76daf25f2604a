package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/ashish-singh09/disasterwatch/internal/processor"
)

// ResponseMode 决定新闻接口返回扁平数组还是按来源分组
type ResponseMode string

const (
	ResponseList    ResponseMode = "list"
	ResponseGrouped ResponseMode = "grouped"
)

// Config 进程启动时加载一次，之后只读
type Config struct {
	AppPort      string
	APIPath      string
	ResponseMode ResponseMode

	NewsAPIKey string

	SeverityStrategy processor.Strategy
	SentimentModel   processor.Model
	URLMode          processor.URLMode

	FetchTimeout     time.Duration
	FetchConcurrency int
	UserAgent        string

	CronSpec     string
	OutputFormat string

	SourcesFile string
	Sources     Sources
}

// Sources 各数据源的地址与查询参数，可由 SOURCES_FILE 指定的 YAML 覆盖
type Sources struct {
	NewsAPI   NewsAPISource   `yaml:"newsapi"`
	RSS       RSSSource       `yaml:"rss"`
	ReliefWeb ReliefWebSource `yaml:"reliefweb"`
	HTML      HTMLSource      `yaml:"html"`
}

type NewsAPISource struct {
	Disabled bool   `yaml:"disabled"`
	URL      string `yaml:"url"`
	Query    string `yaml:"query"`
	PageSize int    `yaml:"page_size"`
}

type RSSSource struct {
	Disabled bool   `yaml:"disabled"`
	URL      string `yaml:"url"`
}

type ReliefWebSource struct {
	Disabled bool   `yaml:"disabled"`
	URL      string `yaml:"url"`
	AppName  string `yaml:"app_name"`
	Query    string `yaml:"query"`
	PageSize int    `yaml:"page_size"`
	MaxPages int    `yaml:"max_pages"`
}

type HTMLSource struct {
	Disabled bool   `yaml:"disabled"`
	URL      string `yaml:"url"`
	Selector string `yaml:"selector"`
}

// DefaultSources 与线上数据源一致的默认值
func DefaultSources() Sources {
	return Sources{
		NewsAPI: NewsAPISource{
			URL:   "https://newsapi.org/v2/everything",
			Query: "disaster",
		},
		RSS: RSSSource{
			URL: "https://news.google.com/rss/search?q=disaster",
		},
		ReliefWeb: ReliefWebSource{
			URL:      "https://api.reliefweb.int/v1/reports",
			AppName:  "disasterwatch",
			PageSize: 20,
			MaxPages: 2,
		},
		HTML: HTMLSource{
			URL:      "https://www.ndtv.com/topic/disaster",
			Selector: "div.news_Itm-cont",
		},
	}
}

// Load 依次读取 .env、环境变量以及可选的数据源 YAML
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("load .env failed", "error", err)
	}

	strategy, err := processor.ParseStrategy(getEnv("SEVERITY_STRATEGY", string(processor.StrategyKeyword)))
	if err != nil {
		return nil, fmt.Errorf("SEVERITY_STRATEGY: %w", err)
	}
	model, err := processor.ParseModel(getEnv("SENTIMENT_MODEL", string(processor.ModelVader)))
	if err != nil {
		return nil, fmt.Errorf("SENTIMENT_MODEL: %w", err)
	}
	urlMode, err := processor.ParseURLMode(getEnv("URL_MODE", string(processor.URLModeLabel)))
	if err != nil {
		return nil, fmt.Errorf("URL_MODE: %w", err)
	}

	cfg := &Config{
		AppPort:          getEnv("APP_PORT", "5000"),
		APIPath:          getEnv("API_PATH", "/api/disaster-news"),
		ResponseMode:     ResponseMode(strings.ToLower(getEnv("RESPONSE_MODE", string(ResponseList)))),
		NewsAPIKey:       os.Getenv("NEWS_API_KEY"),
		SeverityStrategy: strategy,
		SentimentModel:   model,
		URLMode:          urlMode,
		FetchTimeout:     getDuration("FETCH_TIMEOUT", 10*time.Second),
		FetchConcurrency: getInt("FETCH_CONCURRENCY", 4),
		UserAgent:        getEnv("USER_AGENT", "DisasterWatchBot/1.0"),
		CronSpec:         strings.TrimSpace(os.Getenv("CRON_SPEC")),
		OutputFormat:     strings.ToLower(getEnv("OUTPUT_FORMAT", "json")),
		SourcesFile:      os.Getenv("SOURCES_FILE"),
		Sources:          DefaultSources(),
	}

	if cfg.SourcesFile != "" {
		if err := loadSources(cfg.SourcesFile, &cfg.Sources); err != nil {
			return nil, err
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	slog.Info("config loaded",
		"port", cfg.AppPort,
		"path", cfg.APIPath,
		"mode", cfg.ResponseMode,
		"strategy", cfg.SeverityStrategy,
		"sentiment_model", cfg.SentimentModel,
		"url_mode", cfg.URLMode,
		"timeout", cfg.FetchTimeout,
		"news_api_key_set", cfg.NewsAPIKey != "",
	)
	return cfg, nil
}

func (c *Config) validate() error {
	if !strings.HasPrefix(c.APIPath, "/") {
		return fmt.Errorf("API_PATH must start with '/', got %q", c.APIPath)
	}
	switch c.ResponseMode {
	case ResponseList, ResponseGrouped:
	default:
		return fmt.Errorf("RESPONSE_MODE must be list or grouped, got %q", c.ResponseMode)
	}
	switch c.OutputFormat {
	case "json", "table":
	default:
		return fmt.Errorf("OUTPUT_FORMAT must be json or table, got %q", c.OutputFormat)
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("FETCH_TIMEOUT must be positive")
	}
	if c.FetchConcurrency <= 0 {
		return fmt.Errorf("FETCH_CONCURRENCY must be positive")
	}
	return nil
}

// loadSources 只覆盖 YAML 中出现的字段，其余保持默认
func loadSources(path string, dst *Sources) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read sources file: %w", err)
	}
	if err := yaml.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("parse sources file %s: %w", path, err)
	}
	return nil
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("invalid int env, using default", "key", key, "value", v)
		return def
	}
	return n
}

func getDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("invalid duration env, using default", "key", key, "value", v)
		return def
	}
	return d
}
