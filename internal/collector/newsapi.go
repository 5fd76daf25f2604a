package collector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/ashish-singh09/disasterwatch/internal/processor"
)

const (
	NewsAPIDefaultURL       = "https://newsapi.org/v2/everything"
	newsAPIMaxResponseBytes = 2 << 20 // 2MB
	newsAPIRemovedTitle     = "[Removed]"
)

// NewsAPIFetcher 通过 newsapi.org 的 everything 接口按关键词检索新闻
type NewsAPIFetcher struct {
	APIKey    string
	BaseURL   string
	Query     string
	PageSize  int
	UserAgent string
	Client    *http.Client
	Processor *processor.Processor
}

func (n *NewsAPIFetcher) Name() string {
	return "News API"
}

type newsAPIResp struct {
	Status   string `json:"status"`
	Code     string `json:"code"`
	Message  string `json:"message"`
	Articles []struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Title       string `json:"title"`
		Description string `json:"description"`
		Content     string `json:"content"`
		URL         string `json:"url"`
	} `json:"articles"`
}

func (n *NewsAPIFetcher) Fetch(ctx context.Context) ([]NewsItem, error) {
	// 没有 key 时远端必然拒绝，直接降级
	if strings.TrimSpace(n.APIKey) == "" {
		return nil, &FetchError{Source: n.Name(), Kind: KindConfig, Err: errors.New("NEWS_API_KEY not configured")}
	}

	reqURL, err := n.requestURL()
	if err != nil {
		return nil, &FetchError{Source: n.Name(), Kind: KindConfig, Err: err}
	}
	slog.Debug("fetch News API...", "url", reqURL)

	header := http.Header{}
	header.Set("X-Api-Key", n.APIKey)
	header.Set("User-Agent", userAgentOrDefault(n.UserAgent))

	body, err := fetchBody(ctx, clientOrDefault(n.Client), n.Name(), reqURL, header, newsAPIMaxResponseBytes)
	if err != nil {
		// 错误响应体里带有 code/message，补充进错误信息
		if fe, ok := AsFetchError(err); ok && fe.Kind == KindStatus {
			var data newsAPIResp
			if json.Unmarshal(body, &data) == nil && data.Message != "" {
				fe.Err = fmt.Errorf("%s: %s", data.Code, data.Message)
			}
		}
		return nil, err
	}

	var data newsAPIResp
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, &FetchError{Source: n.Name(), Kind: KindParse, Err: fmt.Errorf("unmarshal articles: %w", err)}
	}
	if data.Status != "" && data.Status != "ok" {
		return nil, &FetchError{Source: n.Name(), Kind: KindStatus, Err: fmt.Errorf("%s: %s", data.Code, data.Message)}
	}

	p := processorOrDefault(n.Processor)
	results := make([]NewsItem, 0, len(data.Articles))
	for _, a := range data.Articles {
		if a.Title == newsAPIRemovedTitle {
			continue
		}
		text := a.Description
		if strings.TrimSpace(text) == "" {
			text = a.Content
		}
		if item, ok := buildItem(p, n.Name(), a.Title, htmlText(text), a.URL); ok {
			results = append(results, item)
		}
	}

	slog.Debug("News API done", "articles", len(data.Articles), "kept", len(results))
	return results, nil
}

func (n *NewsAPIFetcher) requestURL() (string, error) {
	base := n.BaseURL
	if base == "" {
		base = NewsAPIDefaultURL
	}
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	q := u.Query()
	query := n.Query
	if query == "" {
		query = "disaster"
	}
	q.Set("q", query)
	if n.PageSize > 0 {
		q.Set("pageSize", strconv.Itoa(n.PageSize))
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}
