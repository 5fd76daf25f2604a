package collector

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/ashish-singh09/disasterwatch/internal/processor"
)

// NewsItem 统一采集后的基础结构，构造后不再修改
type NewsItem struct {
	Title                 string             `json:"title"`
	URL                   string             `json:"url"`
	Source                string             `json:"source"`
	SentimentPolarity     *float64           `json:"sentimentPolarity,omitempty"`
	SentimentSubjectivity *float64           `json:"sentimentSubjectivity,omitempty"`
	Severity              processor.Severity `json:"severity"`
}

// Fetcher 抽象每一个数据源
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context) ([]NewsItem, error)
}

// ErrorKind 采集失败的类别
type ErrorKind string

const (
	KindTransport ErrorKind = "transport"
	KindStatus    ErrorKind = "status"
	KindParse     ErrorKind = "parse"
	KindConfig    ErrorKind = "config"
)

// FetchError 单个数据源的失败信息，Status 只在 KindStatus 时有值
type FetchError struct {
	Source string
	Kind   ErrorKind
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: %s error (status %d): %v", e.Source, e.Kind, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %s error: %v", e.Source, e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// AsFetchError 取出错误链中的 FetchError
func AsFetchError(err error) (*FetchError, bool) {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

const (
	defaultClientTimeout = 10 * time.Second
	defaultUserAgent     = "DisasterWatchBot/1.0"
)

var defaultProcessor = processor.NewProcessor(processor.StrategyKeyword, processor.URLModeLabel, nil)

func clientOrDefault(c *http.Client) *http.Client {
	if c != nil {
		return c
	}
	return &http.Client{Timeout: defaultClientTimeout}
}

func processorOrDefault(p *processor.Processor) *processor.Processor {
	if p != nil {
		return p
	}
	return defaultProcessor
}

func userAgentOrDefault(ua string) string {
	if ua != "" {
		return ua
	}
	return defaultUserAgent
}

// fetchBody 发起 GET 请求并读取至多 limit 字节。
// 非 2xx 时同时返回 body 与 KindStatus 错误，调用方可从 body 中取出服务端的错误信息。
func fetchBody(ctx context.Context, client *http.Client, source, rawURL string, header http.Header, limit int64) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &FetchError{Source: source, Kind: KindConfig, Err: fmt.Errorf("build request: %w", err)}
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, &FetchError{Source: source, Kind: KindTransport, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, limit))
	if err != nil {
		return nil, &FetchError{Source: source, Kind: KindTransport, Err: fmt.Errorf("read body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return body, &FetchError{
			Source: source,
			Kind:   KindStatus,
			Status: resp.StatusCode,
			Err:    errors.New(http.StatusText(resp.StatusCode)),
		}
	}
	return body, nil
}

// buildItem 过滤不相关内容并完成分类与链接清洗；返回 false 表示丢弃
func buildItem(p *processor.Processor, name, title, body, rawURL string) (NewsItem, bool) {
	title = collapseSpaces(title)
	if title == "" || strings.TrimSpace(rawURL) == "" {
		return NewsItem{}, false
	}

	a := p.Analyze(title, body)
	if !a.Relevant {
		return NewsItem{}, false
	}

	link, source := p.Link(rawURL, name)
	if !isAbsoluteURL(link) {
		return NewsItem{}, false
	}

	item := NewsItem{
		Title:    title,
		URL:      link,
		Source:   source,
		Severity: a.Severity,
	}
	if a.Sentiment != nil {
		pol, subj := a.Sentiment.Polarity, a.Sentiment.Subjectivity
		item.SentimentPolarity = &pol
		item.SentimentSubjectivity = &subj
	}
	return item, true
}

func isAbsoluteURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && u.Scheme != "" && u.Host != ""
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// htmlText 去掉 RSS 摘要等字段里的 HTML 标签，只留文本
func htmlText(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || !strings.Contains(s, "<") {
		return collapseSpaces(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return collapseSpaces(s)
	}
	return collapseSpaces(doc.Text())
}
