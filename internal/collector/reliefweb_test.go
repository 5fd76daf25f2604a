package collector

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashish-singh09/disasterwatch/internal/processor"
)

func TestReliefWebFetcherPaginates(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		q := r.URL.Query()
		assert.Equal(t, "disasterwatch", q.Get("appname"))
		assert.Equal(t, "2", q.Get("limit"))
		assert.ElementsMatch(t, []string{"title", "url"}, q["fields[include][]"])

		w.Header().Set("Content-Type", "application/json")
		switch q.Get("offset") {
		case "0":
			_, _ = w.Write([]byte(`{"totalCount":3,"count":2,"data":[
				{"id":"101","href":"https://api.reliefweb.int/v1/reports/101","fields":{"title":"Bangladesh: Floods - Jun 2024","url":"https://reliefweb.int/report/bangladesh/floods?ref=api"}},
				{"id":"102","fields":{"title":"Annual report on school enrolment","url":"https://reliefweb.int/report/102"}}
			]}`))
		case "2":
			_, _ = w.Write([]byte(`{"totalCount":3,"count":1,"data":[
				{"id":"42","fields":{"title":"Earthquake response update"}}
			]}`))
		default:
			t.Errorf("unexpected offset %q", q.Get("offset"))
		}
	}))
	defer srv.Close()

	f := &ReliefWebFetcher{
		BaseURL:   srv.URL,
		PageSize:  2,
		MaxPages:  5,
		Client:    srv.Client(),
		Processor: keywordProcessor(processor.URLModeClean),
	}
	items, err := f.Fetch(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 2, hits.Load())
	require.Len(t, items, 2)

	require.Equal(t, "Bangladesh: Floods - Jun 2024", items[0].Title)
	require.Equal(t, "https://reliefweb.int/report/bangladesh/floods", items[0].URL)
	require.Equal(t, "ReliefWeb", items[0].Source)
	require.Equal(t, processor.SeverityHigh, items[0].Severity)

	// 没有 url 字段时回退到 node 链接
	require.Equal(t, "https://reliefweb.int/node/42", items[1].URL)
}

func TestReliefWebFetcherStopsAtMaxPages(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := hits.Add(1)
		fmt.Fprintf(w, `{"totalCount":100,"count":1,"data":[{"id":"%d","fields":{"title":"Cyclone bulletin %d"}}]}`, n, n)
	}))
	defer srv.Close()

	f := &ReliefWebFetcher{BaseURL: srv.URL, Query: "cyclone", PageSize: 1, MaxPages: 2, Client: srv.Client()}
	items, err := f.Fetch(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 2, hits.Load())
	require.Len(t, items, 2)
}

func TestReliefWebFetcherFirstPageFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	f := &ReliefWebFetcher{BaseURL: srv.URL, Client: srv.Client()}
	items, err := f.Fetch(context.Background())
	require.Nil(t, items)
	fe, ok := AsFetchError(err)
	require.True(t, ok)
	require.Equal(t, KindStatus, fe.Kind)
	require.Equal(t, http.StatusServiceUnavailable, fe.Status)
}

func TestReliefWebFetcherKeepsEarlierPages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("offset") != "0" {
			_, _ = w.Write([]byte(`not json`))
			return
		}
		_, _ = w.Write([]byte(`{"totalCount":10,"count":1,"data":[{"id":"7","fields":{"title":"Drought alert for the Sahel"}}]}`))
	}))
	defer srv.Close()

	f := &ReliefWebFetcher{BaseURL: srv.URL, PageSize: 1, MaxPages: 3, Client: srv.Client()}
	items, err := f.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "https://reliefweb.int/node/7", items[0].URL)
	require.Equal(t, processor.SeverityLow, items[0].Severity)
}
