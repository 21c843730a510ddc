// Package search defines the GSC performance data model consumed by the
// analysis engine: raw dimension rows, the per-run dataset bundle, and the
// grouping aggregator shared by the detectors.
package search

import "time"

// Device identifies the device segment of a row.
type Device string

const (
	DeviceMobile  Device = "MOBILE"
	DeviceDesktop Device = "DESKTOP"
	DeviceTablet  Device = "TABLET"
)

// Row is one observed search-performance fact. Which dimension fields are
// populated depends on the view the row belongs to; unset dimensions are
// zero-valued.
type Row struct {
	Query       string    `json:"query,omitempty"`
	Page        string    `json:"page,omitempty"`
	Device      Device    `json:"device,omitempty"`
	Country     string    `json:"country,omitempty"`
	Date        time.Time `json:"date,omitempty"`
	Clicks      int64     `json:"clicks"`
	Impressions int64     `json:"impressions"`
	Position    float64   `json:"position"`
}

// CTR returns clicks/impressions and whether the ratio is defined.
// Zero impressions means no signal, never a division.
func (r Row) CTR() (float64, bool) {
	if r.Impressions == 0 {
		return 0, false
	}
	return float64(r.Clicks) / float64(r.Impressions), true
}

// View names within a Bundle.
const (
	ViewQueries     = "queries"
	ViewPages       = "pages"
	ViewQueryPage   = "query_page"
	ViewPageDevice  = "page_device"
	ViewPageTrends  = "page_trends"
	ViewQueryTrends = "query_trends"
)

// PageSpeedMetrics holds the Core Web Vitals extracted for one url×strategy
// measurement. Nil pointers mean the field service did not report the metric.
// A non-empty Err marks the measurement as failed; failed entries are
// excluded from aggregation but never abort a run.
type PageSpeedMetrics struct {
	LCPMs    *float64 `json:"lcp_ms,omitempty"`
	INPMs    *float64 `json:"inp_ms,omitempty"`
	CLSScore *float64 `json:"cls_score,omitempty"`
	Err      string   `json:"error,omitempty"`
}

// CoverageRow is one index-coverage status bucket.
type CoverageRow struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// Sitemap summarizes one submitted sitemap.
type Sitemap struct {
	Path     string `json:"path"`
	Errors   int64  `json:"errors"`
	Warnings int64  `json:"warnings"`
}

// Bundle is the full per-run dataset: search-analytics views keyed by view
// name plus the external technical tables. A run owns its bundle; nothing in
// the engine mutates it.
type Bundle struct {
	Views         map[string][]Row                       `json:"views"`
	PageSpeed     map[string]map[string]PageSpeedMetrics `json:"pagespeed,omitempty"`
	IndexCoverage []CoverageRow                          `json:"index_coverage,omitempty"`
	Sitemaps      []Sitemap                              `json:"sitemaps,omitempty"`
}

// View returns the rows for a named view. A missing view yields nil, which
// every detector treats as an empty section rather than an error.
func (b *Bundle) View(name string) []Row {
	if b == nil || b.Views == nil {
		return nil
	}
	return b.Views[name]
}
