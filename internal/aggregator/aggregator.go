package aggregator

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ashish-singh09/disasterwatch/internal/collector"
)

const defaultTimeout = 10 * time.Second

// Result 一次聚合的结果：按来源分组，来源顺序与采集器注册顺序一致
type Result struct {
	RunID   string
	Sources []string
	Items   map[string][]collector.NewsItem
	Errors  map[string]error
}

// Flatten 按来源顺序拼接全部新闻
func (r *Result) Flatten() []collector.NewsItem {
	total := 0
	for _, items := range r.Items {
		total += len(items)
	}
	out := make([]collector.NewsItem, 0, total)
	for _, name := range r.Sources {
		out = append(out, r.Items[name]...)
	}
	return out
}

// Options 控制单个数据源的超时与并发数
type Options struct {
	Timeout     time.Duration
	Concurrency int
	Logger      *slog.Logger
}

// Aggregator 并发调用全部采集器，单个来源失败不影响其它来源
type Aggregator struct {
	fetchers []collector.Fetcher
	opts     Options
	logger   *slog.Logger
}

func New(fetchers []collector.Fetcher, opts Options) *Aggregator {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.Concurrency <= 0 || opts.Concurrency > len(fetchers) {
		opts.Concurrency = len(fetchers)
	}
	l := opts.Logger
	if l == nil {
		l = slog.Default()
	}
	return &Aggregator{fetchers: fetchers, opts: opts, logger: l}
}

// Aggregate 等所有来源都结束后返回；失败的来源对应空列表，错误记录在 Result.Errors
func (a *Aggregator) Aggregate(ctx context.Context) *Result {
	res := &Result{
		RunID:   uuid.NewString(),
		Sources: make([]string, 0, len(a.fetchers)),
		Items:   make(map[string][]collector.NewsItem, len(a.fetchers)),
		Errors:  make(map[string]error),
	}
	fetchers := make([]collector.Fetcher, 0, len(a.fetchers))
	for _, f := range a.fetchers {
		name := f.Name()
		if _, dup := res.Items[name]; dup {
			a.logger.Warn("duplicate source name, skipped", "source", name)
			continue
		}
		fetchers = append(fetchers, f)
		res.Sources = append(res.Sources, name)
		res.Items[name] = []collector.NewsItem{}
	}

	log := a.logger.With("run_id", res.RunID)
	log.Info("start aggregate", "sources", len(res.Sources))
	start := time.Now()

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		sem = make(chan struct{}, max(a.opts.Concurrency, 1))
	)

	for _, f := range fetchers {
		fetcher := f
		name := fetcher.Name()
		wg.Add(1)
		go func() {
			defer wg.Done()
			acquired := false
			select {
			case sem <- struct{}{}:
				acquired = true
				defer func() { <-sem }()
			case <-ctx.Done():
			}
			// 排队期间整轮已结束的来源不再启动
			if !acquired || ctx.Err() != nil {
				err := &collector.FetchError{
					Source: name,
					Kind:   collector.KindTransport,
					Err:    fmt.Errorf("round ended before source started: %w", ctx.Err()),
				}
				logFailure(log, name, err, 0)
				mu.Lock()
				res.Errors[name] = err
				mu.Unlock()
				return
			}

			began := time.Now()
			items, err := a.fetchOne(ctx, fetcher)
			if err != nil {
				logFailure(log, name, err, time.Since(began))
				mu.Lock()
				res.Errors[name] = err
				mu.Unlock()
				return
			}

			log.Info("source done", "source", name, "items", len(items), "duration", time.Since(began))
			if len(items) == 0 {
				return
			}
			mu.Lock()
			res.Items[name] = items
			mu.Unlock()
		}()
	}
	wg.Wait()

	log.Info("aggregate done", "items", totalItems(res), "failed", len(res.Errors), "duration", time.Since(start))
	return res
}

// Budget 一整轮所需的时间上限：按并发数分批，每批最多一个单源超时，再留半个超时的余量
func (a *Aggregator) Budget() time.Duration {
	n := len(a.fetchers)
	if n == 0 {
		return a.opts.Timeout
	}
	batches := (n + a.opts.Concurrency - 1) / a.opts.Concurrency
	return time.Duration(batches)*a.opts.Timeout + a.opts.Timeout/2
}

type outcome struct {
	items []collector.NewsItem
	err   error
}

// fetchOne 给单个来源加超时，并把 panic 转成错误。
// 不响应 context 的采集器也会在超时后被放弃，其 goroutine 自行结束。
func (a *Aggregator) fetchOne(parent context.Context, f collector.Fetcher) ([]collector.NewsItem, error) {
	ctx, cancel := context.WithTimeout(parent, a.opts.Timeout)
	defer cancel()

	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("%s: panic: %v", f.Name(), r)}
			}
		}()
		items, err := f.Fetch(ctx)
		done <- outcome{items: items, err: err}
	}()

	select {
	case o := <-done:
		if o.err != nil {
			return nil, o.err
		}
		return o.items, nil
	case <-ctx.Done():
		reason := fmt.Errorf("gave up after %s: %w", a.opts.Timeout, ctx.Err())
		if parent.Err() != nil {
			reason = fmt.Errorf("round ended: %w", parent.Err())
		}
		return nil, &collector.FetchError{
			Source: f.Name(),
			Kind:   collector.KindTransport,
			Err:    reason,
		}
	}
}

func logFailure(log *slog.Logger, name string, err error, d time.Duration) {
	attrs := []any{"source", name, "duration", d, "error", err}
	if fe, ok := collector.AsFetchError(err); ok {
		attrs = append(attrs, "kind", fe.Kind)
		if fe.Status != 0 {
			attrs = append(attrs, "status", fe.Status)
		}
	}
	log.Warn("source failed", attrs...)
}

func totalItems(r *Result) int {
	n := 0
	for _, items := range r.Items {
		n += len(items)
	}
	return n
}
