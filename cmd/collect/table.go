package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/ashish-singh09/disasterwatch/internal/aggregator"
)

const (
	colSource   = 14
	colSeverity = 16
	colTitle    = 60
)

// writeTable 按显示宽度对齐输出，标题中的中日文字符按双宽计算
func writeTable(w io.Writer, res *aggregator.Result) error {
	if err := writeTableHeader(w, res); err != nil {
		return err
	}

	row := func(source, severity, title, link string) error {
		_, err := fmt.Fprintf(w, "%s  %s  %s  %s\n",
			cell(source, colSource),
			cell(severity, colSeverity),
			cell(title, colTitle),
			link,
		)
		return err
	}

	if err := row("SOURCE", "SEVERITY", "TITLE", "URL"); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, strings.Repeat("-", colSource+colSeverity+colTitle+10)); err != nil {
		return err
	}

	for _, name := range res.Sources {
		items := res.Items[name]
		if fetchErr, failed := res.Errors[name]; failed {
			if err := row(name, "-", "(failed: "+fetchErr.Error()+")", ""); err != nil {
				return err
			}
			continue
		}
		if len(items) == 0 {
			if err := row(name, "-", "(no items)", ""); err != nil {
				return err
			}
			continue
		}
		for _, it := range items {
			if err := row(name, string(it.Severity), it.Title, it.URL); err != nil {
				return err
			}
		}
	}
	return nil
}

func cell(s string, width int) string {
	return runewidth.FillRight(runewidth.Truncate(s, width, "…"), width)
}

func writeTableHeader(w io.Writer, res *aggregator.Result) error {
	_, err := fmt.Fprintf(w, "run %s: %d sources, %d failed\n", res.RunID, len(res.Sources), len(res.Errors))
	return err
}
