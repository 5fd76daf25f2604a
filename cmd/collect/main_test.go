package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/require"

	"github.com/ashish-singh09/disasterwatch/internal/aggregator"
	"github.com/ashish-singh09/disasterwatch/internal/collector"
	"github.com/ashish-singh09/disasterwatch/internal/config"
	"github.com/ashish-singh09/disasterwatch/internal/processor"
)

func sample() *aggregator.Result {
	return &aggregator.Result{
		RunID:   "run-42",
		Sources: []string{"Google News", "NDTV", "News API"},
		Items: map[string][]collector.NewsItem{
			"Google News": {{Title: "Earthquake strikes off coast", URL: "https://news.example.com/q", Source: "Google News", Severity: processor.SeverityHigh}},
			"NDTV":        {},
			"News API":    {},
		},
		Errors: map[string]error{"News API": errors.New("NEWS_API_KEY not configured")},
	}
}

func TestWriteResultJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeResult(&buf, sample(), "json", config.ResponseList))

	var items []collector.NewsItem
	require.NoError(t, json.Unmarshal(buf.Bytes(), &items))
	require.Len(t, items, 1)
	require.Equal(t, "Earthquake strikes off coast", items[0].Title)

	buf.Reset()
	require.NoError(t, writeResult(&buf, sample(), "json", config.ResponseGrouped))
	var grouped map[string][]collector.NewsItem
	require.NoError(t, json.Unmarshal(buf.Bytes(), &grouped))
	require.Len(t, grouped, 3)
}

func TestWriteResultTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeResult(&buf, sample(), "table", config.ResponseList))

	out := buf.String()
	require.Contains(t, out, "run run-42: 3 sources, 1 failed")
	require.Contains(t, out, "Earthquake strikes off coast")
	require.Contains(t, out, "(no items)")
	require.Contains(t, out, "(failed: NEWS_API_KEY not configured)")
}

func TestCellPadsByDisplayWidth(t *testing.T) {
	require.Equal(t, 10, runewidth.StringWidth(cell("abc", 10)))
	require.Equal(t, 10, runewidth.StringWidth(cell("地震造成严重破坏的报道", 10)))
	require.True(t, strings.HasSuffix(strings.TrimRight(cell("a very long headline here", 8), " "), "…"))
}

func TestScheduleSpec(t *testing.T) {
	require.Equal(t, "@every 1h", scheduleSpec(""))
	require.Equal(t, "*/5 * * * *", scheduleSpec("*/5 * * * *"))
}
