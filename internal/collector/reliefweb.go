package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/ashish-singh09/disasterwatch/internal/processor"
)

const (
	ReliefWebDefaultURL       = "https://api.reliefweb.int/v1/reports"
	reliefWebMaxResponseBytes = 2 << 20 // 2MB
	reliefWebDefaultPageSize  = 20
	reliefWebDefaultMaxPages  = 2
	reliefWebDefaultAppName   = "disasterwatch"
	reliefWebNodeURL          = "https://reliefweb.int/node/"
)

// ReliefWebFetcher 分页读取 ReliefWeb 的报告列表，只使用标题做判断
type ReliefWebFetcher struct {
	BaseURL   string
	AppName   string
	Query     string
	PageSize  int
	MaxPages  int
	UserAgent string
	Client    *http.Client
	Processor *processor.Processor
}

func (r *ReliefWebFetcher) Name() string {
	return "ReliefWeb"
}

type reliefWebResp struct {
	TotalCount int `json:"totalCount"`
	Count      int `json:"count"`
	Data       []struct {
		// 接口里 id 是字符串形式的数字
		ID     json.Number `json:"id"`
		Href   string      `json:"href"`
		Fields struct {
			Title string `json:"title"`
			URL   string `json:"url"`
		} `json:"fields"`
	} `json:"data"`
}

func (r *ReliefWebFetcher) Fetch(ctx context.Context) ([]NewsItem, error) {
	pageSize := r.PageSize
	if pageSize <= 0 {
		pageSize = reliefWebDefaultPageSize
	}
	maxPages := r.MaxPages
	if maxPages <= 0 {
		maxPages = reliefWebDefaultMaxPages
	}

	client := clientOrDefault(r.Client)
	p := processorOrDefault(r.Processor)
	header := http.Header{}
	header.Set("User-Agent", userAgentOrDefault(r.UserAgent))
	header.Set("Accept", "application/json")

	results := make([]NewsItem, 0, pageSize)
	for page := 0; page < maxPages; page++ {
		offset := page * pageSize
		data, err := r.fetchPage(ctx, client, header, pageSize, offset)
		if err != nil {
			if page == 0 {
				return nil, err
			}
			// 已拿到的页照常返回，后续页失败只记日志
			slog.Warn("ReliefWeb page failed, keep earlier pages", "offset", offset, "error", err)
			break
		}

		for _, d := range data.Data {
			link := d.Fields.URL
			if link == "" && d.ID != "" {
				link = reliefWebNodeURL + d.ID.String()
			}
			if item, ok := buildItem(p, r.Name(), d.Fields.Title, "", link); ok {
				results = append(results, item)
			}
		}

		if len(data.Data) < pageSize || (data.TotalCount > 0 && offset+len(data.Data) >= data.TotalCount) {
			break
		}
	}

	return results, nil
}

func (r *ReliefWebFetcher) fetchPage(ctx context.Context, client *http.Client, header http.Header, limit, offset int) (*reliefWebResp, error) {
	reqURL, err := r.pageURL(limit, offset)
	if err != nil {
		return nil, &FetchError{Source: r.Name(), Kind: KindConfig, Err: err}
	}
	slog.Debug("fetch ReliefWeb reports...", "offset", offset, "limit", limit)

	body, err := fetchBody(ctx, client, r.Name(), reqURL, header, reliefWebMaxResponseBytes)
	if err != nil {
		return nil, err
	}

	var data reliefWebResp
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, &FetchError{Source: r.Name(), Kind: KindParse, Err: fmt.Errorf("unmarshal reports: %w", err)}
	}
	return &data, nil
}

func (r *ReliefWebFetcher) pageURL(limit, offset int) (string, error) {
	base := r.BaseURL
	if base == "" {
		base = ReliefWebDefaultURL
	}
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}

	appName := r.AppName
	if appName == "" {
		appName = reliefWebDefaultAppName
	}

	q := u.Query()
	q.Set("appname", appName)
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))
	q.Set("preset", "latest")
	q.Add("fields[include][]", "title")
	q.Add("fields[include][]", "url")
	if r.Query != "" {
		q.Set("query[value]", r.Query)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}
