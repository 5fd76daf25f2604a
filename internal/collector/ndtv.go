package collector

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"github.com/ashish-singh09/disasterwatch/internal/processor"
)

const (
	NDTVDefaultURL      = "https://www.ndtv.com/topic/disaster"
	NDTVDefaultSelector = "div.news_Itm-cont"
)

// NDTVFetcher 抓取 NDTV 灾害专题列表页。
// 页面结构变更时只需要调整 Selector 或本文件。
type NDTVFetcher struct {
	PageURL   string
	Selector  string
	UserAgent string
	Timeout   time.Duration
	Processor *processor.Processor
}

func (n *NDTVFetcher) Name() string {
	return "NDTV"
}

func (n *NDTVFetcher) Fetch(ctx context.Context) ([]NewsItem, error) {
	pageURL := n.PageURL
	if pageURL == "" {
		pageURL = NDTVDefaultURL
	}
	selector := n.Selector
	if selector == "" {
		selector = NDTVDefaultSelector
	}
	slog.Debug("fetch NDTV topic page...", "url", pageURL)

	c := colly.NewCollector(
		colly.UserAgent(userAgentOrDefault(n.UserAgent)),
	)
	c.SetRequestTimeout(n.requestTimeout(ctx))

	// colly 不感知 context，发请求前检查一次
	c.OnRequest(func(r *colly.Request) {
		if ctx.Err() != nil {
			r.Abort()
		}
	})

	status := 0
	c.OnError(func(r *colly.Response, err error) {
		if r != nil {
			status = r.StatusCode
		}
	})

	p := processorOrDefault(n.Processor)
	results := make([]NewsItem, 0, 20)

	c.OnHTML(selector, func(e *colly.HTMLElement) {
		if item, ok := n.itemFromSelection(p, e.DOM, e.Request.AbsoluteURL); ok {
			results = append(results, item)
		}
	})

	if err := c.Visit(pageURL); err != nil {
		if ctx.Err() != nil {
			return nil, &FetchError{Source: n.Name(), Kind: KindTransport, Err: ctx.Err()}
		}
		if status != 0 && status != http.StatusOK {
			return nil, &FetchError{Source: n.Name(), Kind: KindStatus, Status: status, Err: err}
		}
		return nil, &FetchError{Source: n.Name(), Kind: KindTransport, Err: err}
	}
	if ctx.Err() != nil {
		return nil, &FetchError{Source: n.Name(), Kind: KindTransport, Err: ctx.Err()}
	}

	if len(results) == 0 {
		slog.Debug("NDTV topic page got 0 relevant items")
	}
	return results, nil
}

// itemFromSelection 从单个列表块中取第一个链接的文本与地址
func (n *NDTVFetcher) itemFromSelection(p *processor.Processor, sel *goquery.Selection, resolve func(string) string) (NewsItem, bool) {
	a := sel.Find("a").First()
	if a.Length() == 0 {
		return NewsItem{}, false
	}
	href, ok := a.Attr("href")
	href = strings.TrimSpace(href)
	if !ok || href == "" {
		return NewsItem{}, false
	}
	if resolve != nil {
		if abs := resolve(href); abs != "" {
			href = abs
		}
	}
	return buildItem(p, n.Name(), a.Text(), "", href)
}

func (n *NDTVFetcher) requestTimeout(ctx context.Context) time.Duration {
	timeout := n.Timeout
	if timeout <= 0 {
		timeout = defaultClientTimeout
	}
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			timeout = left
		}
	}
	if timeout <= 0 {
		// 已经超时，给一个极短的超时让请求立即失败
		timeout = time.Millisecond
	}
	return timeout
}
