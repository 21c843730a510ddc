// Package io loads dataset bundles and writes result artifacts.
package io

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/searchlens/searchlens/internal/domain/search"
)

// dateLayouts accepted for row dates, tried in order.
var dateLayouts = []string{"2006-01-02", time.RFC3339}

type rowWire struct {
	Query       string  `json:"query"`
	Page        string  `json:"page"`
	Device      string  `json:"device"`
	Country     string  `json:"country"`
	Date        string  `json:"date"`
	Clicks      int64   `json:"clicks"`
	Impressions int64   `json:"impressions"`
	Position    float64 `json:"position"`
}

type bundleWire struct {
	Views         map[string][]rowWire                          `json:"views"`
	PageSpeed     map[string]map[string]search.PageSpeedMetrics `json:"pagespeed"`
	IndexCoverage []search.CoverageRow                          `json:"index_coverage"`
	Sitemaps      []search.Sitemap                              `json:"sitemaps"`
}

// LoadBundle reads a dataset bundle from a JSON file. Malformed input is a
// fatal configuration error for the caller; missing views are not.
func LoadBundle(path string) (*search.Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset bundle: %w", err)
	}
	return DecodeBundle(data)
}

// DecodeBundle parses a dataset bundle from JSON bytes.
func DecodeBundle(data []byte) (*search.Bundle, error) {
	var wire bundleWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("malformed dataset bundle: %w", err)
	}

	bundle := &search.Bundle{
		Views:         make(map[string][]search.Row, len(wire.Views)),
		PageSpeed:     wire.PageSpeed,
		IndexCoverage: wire.IndexCoverage,
		Sitemaps:      wire.Sitemaps,
	}

	for view, rows := range wire.Views {
		converted := make([]search.Row, 0, len(rows))
		for i, w := range rows {
			row, err := w.toRow()
			if err != nil {
				return nil, fmt.Errorf("malformed dataset bundle: view %q row %d: %w", view, i, err)
			}
			converted = append(converted, row)
		}
		bundle.Views[view] = converted
	}

	return bundle, nil
}

func (w rowWire) toRow() (search.Row, error) {
	row := search.Row{
		Query:       w.Query,
		Page:        w.Page,
		Device:      search.Device(strings.ToUpper(w.Device)),
		Country:     w.Country,
		Clicks:      w.Clicks,
		Impressions: w.Impressions,
		Position:    w.Position,
	}

	if w.Clicks < 0 {
		return row, fmt.Errorf("negative clicks %d", w.Clicks)
	}
	if w.Impressions < 0 {
		return row, fmt.Errorf("negative impressions %d", w.Impressions)
	}

	if w.Date != "" {
		var parseErr error
		for _, layout := range dateLayouts {
			t, err := time.Parse(layout, w.Date)
			if err == nil {
				row.Date = t
				parseErr = nil
				break
			}
			parseErr = err
		}
		if parseErr != nil {
			return row, fmt.Errorf("unparseable date %q: %w", w.Date, parseErr)
		}
	}

	return row, nil
}
