package collector

import (
	"net/http"

	"github.com/ashish-singh09/disasterwatch/internal/config"
	"github.com/ashish-singh09/disasterwatch/internal/processor"
)

// FromConfig 按配置注册全部未被禁用的采集器，顺序即结果中的来源顺序
func FromConfig(cfg *config.Config, p *processor.Processor) []Fetcher {
	client := &http.Client{Timeout: cfg.FetchTimeout}
	src := cfg.Sources

	fetchers := make([]Fetcher, 0, 4)
	if !src.NewsAPI.Disabled {
		fetchers = append(fetchers, &NewsAPIFetcher{
			APIKey:    cfg.NewsAPIKey,
			BaseURL:   src.NewsAPI.URL,
			Query:     src.NewsAPI.Query,
			PageSize:  src.NewsAPI.PageSize,
			UserAgent: cfg.UserAgent,
			Client:    client,
			Processor: p,
		})
	}
	if !src.RSS.Disabled {
		fetchers = append(fetchers, &RSSFetcher{
			FeedURL:   src.RSS.URL,
			UserAgent: cfg.UserAgent,
			Client:    client,
			Processor: p,
		})
	}
	if !src.ReliefWeb.Disabled {
		fetchers = append(fetchers, &ReliefWebFetcher{
			BaseURL:   src.ReliefWeb.URL,
			AppName:   src.ReliefWeb.AppName,
			Query:     src.ReliefWeb.Query,
			PageSize:  src.ReliefWeb.PageSize,
			MaxPages:  src.ReliefWeb.MaxPages,
			UserAgent: cfg.UserAgent,
			Client:    client,
			Processor: p,
		})
	}
	if !src.HTML.Disabled {
		fetchers = append(fetchers, &NDTVFetcher{
			PageURL:   src.HTML.URL,
			Selector:  src.HTML.Selector,
			UserAgent: cfg.UserAgent,
			Timeout:   cfg.FetchTimeout,
			Processor: p,
		})
	}
	return fetchers
}
