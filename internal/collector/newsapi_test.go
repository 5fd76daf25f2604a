package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashish-singh09/disasterwatch/internal/processor"
)

const newsAPIPayload = `{
  "status": "ok",
  "totalResults": 4,
  "articles": [
    {"source": {"name": "Example"}, "title": "Massive flood hits Assam", "description": "Rivers overflow after rain", "url": "https://www.example.com/a?utm_source=newsapi"},
    {"source": {"name": "Example"}, "title": "Local bakery wins award", "description": "Best bread in town", "url": "https://www.example.com/b"},
    {"source": {"name": ""}, "title": "[Removed]", "description": "[Removed]", "url": "https://removed.com"},
    {"source": {"name": "Other"}, "title": "Update", "description": "", "content": "Wildfire spreads near the ridge", "url": "https://b.example.org/x#comments"}
  ]
}`

func TestNewsAPIFetcherFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))
		assert.Equal(t, "disaster", r.URL.Query().Get("q"))
		assert.Equal(t, "50", r.URL.Query().Get("pageSize"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(newsAPIPayload))
	}))
	defer srv.Close()

	f := &NewsAPIFetcher{
		APIKey:    "test-key",
		BaseURL:   srv.URL,
		PageSize:  50,
		Client:    srv.Client(),
		Processor: keywordProcessor(processor.URLModeLabel),
	}
	items, err := f.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)

	require.Equal(t, "Massive flood hits Assam", items[0].Title)
	require.Equal(t, "https://www.example.com/a", items[0].URL)
	require.Equal(t, "example.com", items[0].Source)
	require.Equal(t, processor.SeverityHigh, items[0].Severity)
	require.Nil(t, items[0].SentimentPolarity)

	// description 为空时使用 content
	require.Equal(t, "Update", items[1].Title)
	require.Equal(t, "https://b.example.org/x", items[1].URL)
	require.Equal(t, "b.example.org", items[1].Source)
	require.Equal(t, processor.SeverityMedium, items[1].Severity)
}

func TestNewsAPIFetcherMissingKey(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	f := &NewsAPIFetcher{BaseURL: srv.URL, Client: srv.Client()}
	items, err := f.Fetch(context.Background())
	require.Nil(t, items)

	fe, ok := AsFetchError(err)
	require.True(t, ok)
	require.Equal(t, KindConfig, fe.Kind)
	require.Equal(t, "News API", fe.Source)
	require.Zero(t, hits.Load())
}

func TestNewsAPIFetcherRemoteError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"status":"error","code":"apiKeyInvalid","message":"Your API key is invalid"}`))
	}))
	defer srv.Close()

	f := &NewsAPIFetcher{APIKey: "bad", BaseURL: srv.URL, Client: srv.Client()}
	items, err := f.Fetch(context.Background())
	require.Nil(t, items)

	fe, ok := AsFetchError(err)
	require.True(t, ok)
	require.Equal(t, KindStatus, fe.Kind)
	require.Equal(t, http.StatusUnauthorized, fe.Status)
	require.Contains(t, err.Error(), "apiKeyInvalid")
}

func TestNewsAPIFetcherMalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"ok","articles":[`))
	}))
	defer srv.Close()

	f := &NewsAPIFetcher{APIKey: "k", BaseURL: srv.URL, Client: srv.Client()}
	_, err := f.Fetch(context.Background())
	fe, ok := AsFetchError(err)
	require.True(t, ok)
	require.Equal(t, KindParse, fe.Kind)
}

func TestNewsAPIFetcherTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	f := &NewsAPIFetcher{APIKey: "k", BaseURL: url}
	_, err := f.Fetch(context.Background())
	fe, ok := AsFetchError(err)
	require.True(t, ok)
	require.Equal(t, KindTransport, fe.Kind)
}
