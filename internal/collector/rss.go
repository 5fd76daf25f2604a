package collector

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mmcdole/gofeed"

	"github.com/ashish-singh09/disasterwatch/internal/processor"
)

const (
	RSSDefaultURL       = "https://news.google.com/rss/search?q=disaster"
	rssMaxResponseBytes = 4 << 20 // 4MB
)

// RSSFetcher 读取 Google News 的关键词搜索 RSS
type RSSFetcher struct {
	FeedURL   string
	UserAgent string
	Client    *http.Client
	Processor *processor.Processor
}

func (r *RSSFetcher) Name() string {
	return "Google News"
}

func (r *RSSFetcher) Fetch(ctx context.Context) ([]NewsItem, error) {
	feedURL := r.FeedURL
	if feedURL == "" {
		feedURL = RSSDefaultURL
	}
	slog.Debug("fetch Google News RSS...", "url", feedURL)

	header := http.Header{}
	header.Set("User-Agent", userAgentOrDefault(r.UserAgent))

	body, err := fetchBody(ctx, clientOrDefault(r.Client), r.Name(), feedURL, header, rssMaxResponseBytes)
	if err != nil {
		return nil, err
	}

	feed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		return nil, &FetchError{Source: r.Name(), Kind: KindParse, Err: fmt.Errorf("parse feed: %w", err)}
	}

	return r.items(feed), nil
}

func (r *RSSFetcher) items(feed *gofeed.Feed) []NewsItem {
	p := processorOrDefault(r.Processor)
	results := make([]NewsItem, 0, len(feed.Items))
	for _, it := range feed.Items {
		if it == nil {
			continue
		}
		// 摘要优先，没有时退回正文
		text := it.Description
		if strings.TrimSpace(text) == "" {
			text = it.Content
		}
		if item, ok := buildItem(p, r.Name(), it.Title, htmlText(text), it.Link); ok {
			results = append(results, item)
		}
	}

	if len(results) == 0 {
		slog.Debug("Google News RSS got 0 relevant items", "entries", len(feed.Items))
	}
	return results
}
