package analysis

import (
	"sort"

	"github.com/searchlens/searchlens/internal/domain/search"
)

// CWVFailure records one url×strategy measurement that exceeds a
// needs-improvement bound.
type CWVFailure struct {
	URL            string                  `json:"url"`
	Strategy       string                  `json:"strategy"`
	FailingMetrics []string                `json:"failing_metrics"`
	Metrics        search.PageSpeedMetrics `json:"metrics"`
}

// CWVMetricSummary aggregates the failing values of one metric.
type CWVMetricSummary struct {
	Average      float64 `json:"average"`
	Worst        float64 `json:"worst"`
	FailingCount int     `json:"failing_count"`
}

// CWVReport classifies Core Web Vitals across all measured pages.
type CWVReport struct {
	OverallStatus string                      `json:"overall_status"`
	FailingPages  []CWVFailure                `json:"failing_pages"`
	MetricSummary map[string]CWVMetricSummary `json:"metric_summary"`
}

// poorFailingFraction is the failing-instance share at or above which the
// overall status becomes "poor". The numerator counts url×strategy
// instances against a distinct-URL denominator, so it can exceed 1.
const poorFailingFraction = 0.25

// analyzeCoreWebVitals thresholds each url×strategy measurement against
// the fixed bands. A metric fails only above its needs-improvement bound;
// the good/needs-improvement distinction below that does not drive
// classification. Measurements carrying an error are excluded but never
// abort the run.
func (a *Analyzer) analyzeCoreWebVitals(pagespeed map[string]map[string]search.PageSpeedMetrics) CWVReport {
	report := CWVReport{
		OverallStatus: "unknown",
		FailingPages:  make([]CWVFailure, 0),
		MetricSummary: make(map[string]CWVMetricSummary),
	}
	if len(pagespeed) == 0 {
		return report
	}

	urls := make([]string, 0, len(pagespeed))
	for url := range pagespeed {
		urls = append(urls, url)
	}
	sort.Strings(urls)

	cfg := a.cfg.CWV
	failingValues := map[string][]float64{"lcp": nil, "inp": nil, "cls": nil}

	for _, url := range urls {
		strategies := make([]string, 0, len(pagespeed[url]))
		for strategy := range pagespeed[url] {
			strategies = append(strategies, strategy)
		}
		sort.Strings(strategies)

		for _, strategy := range strategies {
			metrics := pagespeed[url][strategy]
			if metrics.Err != "" {
				continue
			}

			var failures []string
			if metrics.LCPMs != nil && *metrics.LCPMs > cfg.LCP.NeedsImprovement {
				failures = append(failures, "LCP")
				failingValues["lcp"] = append(failingValues["lcp"], *metrics.LCPMs)
			}
			if metrics.INPMs != nil && *metrics.INPMs > cfg.INP.NeedsImprovement {
				failures = append(failures, "INP")
				failingValues["inp"] = append(failingValues["inp"], *metrics.INPMs)
			}
			if metrics.CLSScore != nil && *metrics.CLSScore > cfg.CLS.NeedsImprovement {
				failures = append(failures, "CLS")
				failingValues["cls"] = append(failingValues["cls"], *metrics.CLSScore)
			}

			if len(failures) > 0 {
				report.FailingPages = append(report.FailingPages, CWVFailure{
					URL:            url,
					Strategy:       strategy,
					FailingMetrics: failures,
					Metrics:        metrics,
				})
			}
		}
	}

	for metric, values := range failingValues {
		if len(values) == 0 {
			continue
		}
		var sum, worst float64
		for _, v := range values {
			sum += v
			if v > worst {
				worst = v
			}
		}
		report.MetricSummary[metric] = CWVMetricSummary{
			Average:      sum / float64(len(values)),
			Worst:        worst,
			FailingCount: len(values),
		}
	}

	failingFraction := float64(len(report.FailingPages)) / float64(len(pagespeed))
	switch {
	case len(report.FailingPages) == 0:
		report.OverallStatus = "good"
	case failingFraction < poorFailingFraction:
		report.OverallStatus = "needs_improvement"
	default:
		report.OverallStatus = "poor"
	}

	return report
}
