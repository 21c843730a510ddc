// Package analysis turns a raw GSC dataset bundle into ranked, thresholded
// SEO findings: cannibalization cases, content-quality signals, ranking
// opportunities, trend classification, device gaps, and Core Web Vitals
// status. The engine is deterministic: re-running on an unchanged bundle
// produces identical results, and every detector tolerates missing views by
// emitting an empty section.
package analysis

import (
	"github.com/rs/zerolog/log"

	"github.com/searchlens/searchlens/internal/config"
	"github.com/searchlens/searchlens/internal/domain/search"
)

// Result is the full analysis record handed to reporting consumers. All
// lists carry the per-detector ordering; consumers slice top-N themselves
// where no cap is specified.
type Result struct {
	Cannibalization  []CannibalizationCase `json:"cannibalization"`
	ContentQuality   QualityReport         `json:"content_quality"`
	Opportunities    OpportunityReport     `json:"opportunities"`
	Trends           TrendReport           `json:"trends"`
	Technical        TechnicalReport       `json:"technical"`
	DeviceComparison DeviceReport          `json:"device_comparison"`
	CWV              CWVReport             `json:"cwv"`
}

// Analyzer runs the detector suite against a dataset bundle. It holds no
// state between runs; each Run reads only its own bundle.
type Analyzer struct {
	cfg *config.AnalysisConfig
}

// New creates an analyzer. A nil config uses the stock thresholds.
func New(cfg *config.AnalysisConfig) *Analyzer {
	if cfg == nil {
		cfg = config.DefaultAnalysisConfig()
	}
	return &Analyzer{cfg: cfg}
}

// Run executes every detector sequentially against the bundle and assembles
// the result record. Detectors are independently fault-tolerant: a missing
// view empties its section without touching the others.
func (a *Analyzer) Run(bundle *search.Bundle) *Result {
	result := &Result{}

	result.Cannibalization = a.detectCannibalization(bundle.View(search.ViewQueryPage))
	log.Debug().Int("cases", len(result.Cannibalization)).Msg("cannibalization detection complete")

	declining := a.detectDecliningPages(bundle.View(search.ViewPageTrends))
	result.ContentQuality = a.analyzeContentQuality(bundle.View(search.ViewPages), declining)
	log.Debug().
		Int("low_ctr", result.ContentQuality.Summary.LowCTRCount).
		Int("zero_click", result.ContentQuality.Summary.ZeroClickCount).
		Int("declining", result.ContentQuality.Summary.DecliningCount).
		Float64("quality_score", result.ContentQuality.Summary.QualityScore).
		Msg("content quality analysis complete")

	result.Opportunities = a.findOpportunities(bundle.View(search.ViewQueries), result.ContentQuality.LowCTRPages)
	log.Debug().
		Int("striking_distance", len(result.Opportunities.StrikingDistance)).
		Int("featured_snippets", len(result.Opportunities.FeaturedSnippets)).
		Int("quick_wins", len(result.Opportunities.QuickWins)).
		Msg("opportunity analysis complete")

	result.Trends = a.analyzeTrends(bundle.View(search.ViewPageTrends))
	log.Debug().
		Str("trend", result.Trends.OverallTrend).
		Float64("growth_rate", result.Trends.GrowthRate).
		Str("volatility", result.Trends.Volatility).
		Msg("trend analysis complete")

	var coverage []search.CoverageRow
	var sitemaps []search.Sitemap
	if bundle != nil {
		coverage = bundle.IndexCoverage
		sitemaps = bundle.Sitemaps
	}
	result.Technical = a.analyzeTechnical(coverage, sitemaps)

	result.DeviceComparison = a.analyzeDevices(bundle.View(search.ViewPageDevice))
	log.Debug().Int("problematic_pages", len(result.DeviceComparison.ProblematicPages)).Msg("device comparison complete")

	var pagespeed map[string]map[string]search.PageSpeedMetrics
	if bundle != nil {
		pagespeed = bundle.PageSpeed
	}
	result.CWV = a.analyzeCoreWebVitals(pagespeed)
	log.Debug().
		Str("status", result.CWV.OverallStatus).
		Int("failing_pages", len(result.CWV.FailingPages)).
		Msg("core web vitals analysis complete")

	return result
}
