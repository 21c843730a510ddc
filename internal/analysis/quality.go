package analysis

import "github.com/searchlens/searchlens/internal/domain/search"

// LowCTRPage is a page with plenty of impressions but almost no clicks.
type LowCTRPage struct {
	Page        string  `json:"page"`
	Clicks      int64   `json:"clicks"`
	Impressions int64   `json:"impressions"`
	CTR         float64 `json:"ctr"`
	Position    float64 `json:"position"`
}

// ZeroClickPage is a page shown to searchers but never clicked.
type ZeroClickPage struct {
	Page        string  `json:"page"`
	Impressions int64   `json:"impressions"`
	Position    float64 `json:"position"`
}

// QualitySummary rolls the issue counts into a single 0-100 score.
type QualitySummary struct {
	TotalPagesAnalyzed int     `json:"total_pages_analyzed"`
	LowCTRCount        int     `json:"low_ctr_count"`
	ZeroClickCount     int     `json:"zero_click_count"`
	DecliningCount     int     `json:"declining_count"`
	QualityScore       float64 `json:"quality_score"`
}

// QualityReport groups the content-quality signals for one run.
// LowImpressionPages is reserved in the output contract and stays empty.
type QualityReport struct {
	LowCTRPages        []LowCTRPage    `json:"low_ctr_pages"`
	ZeroClickPages     []ZeroClickPage `json:"zero_click_pages"`
	DecliningPages     []DecliningPage `json:"declining_pages"`
	LowImpressionPages []LowCTRPage    `json:"low_impression_pages"`
	Summary            QualitySummary  `json:"summary"`
}

// analyzeContentQuality flags low-CTR and zero-click pages from the pages
// view, folds in the declining pages detected from the trend view, and
// scores the result. Input order of the pages view is preserved.
func (a *Analyzer) analyzeContentQuality(pages []search.Row, declining []DecliningPage) QualityReport {
	report := QualityReport{
		LowCTRPages:        make([]LowCTRPage, 0),
		ZeroClickPages:     make([]ZeroClickPage, 0),
		DecliningPages:     declining,
		LowImpressionPages: make([]LowCTRPage, 0),
	}
	if report.DecliningPages == nil {
		report.DecliningPages = make([]DecliningPage, 0)
	}

	lowCTR := a.cfg.LowCTR
	zeroClick := a.cfg.ZeroClick
	for _, r := range pages {
		pageCTR, defined := r.CTR()
		if defined && r.Impressions >= lowCTR.MinImpressions && pageCTR <= lowCTR.MaxCTR {
			report.LowCTRPages = append(report.LowCTRPages, LowCTRPage{
				Page:        r.Page,
				Clicks:      r.Clicks,
				Impressions: r.Impressions,
				CTR:         pageCTR,
				Position:    r.Position,
			})
		}
		if r.Impressions > zeroClick.MinImpressions && r.Clicks == 0 {
			report.ZeroClickPages = append(report.ZeroClickPages, ZeroClickPage{
				Page:        r.Page,
				Impressions: r.Impressions,
				Position:    r.Position,
			})
		}
	}

	report.Summary = QualitySummary{
		TotalPagesAnalyzed: len(pages),
		LowCTRCount:        len(report.LowCTRPages),
		ZeroClickCount:     len(report.ZeroClickPages),
		DecliningCount:     len(report.DecliningPages),
	}
	report.Summary.QualityScore = qualityScore(
		report.Summary.TotalPagesAnalyzed,
		report.Summary.LowCTRCount,
		report.Summary.ZeroClickCount,
		report.Summary.DecliningCount,
	)

	return report
}

// qualityScore is a heuristic weighted-penalty model, not a calibrated
// index: each issue class deducts a capped share of 100 points. The caps
// and multipliers are fixed by the scoring contract.
func qualityScore(totalPages, lowCTRCount, zeroClickCount, decliningCount int) float64 {
	if totalPages == 0 {
		return 0
	}

	n := float64(totalPages)
	score := 100.0
	score -= min64(20, float64(lowCTRCount)/n*100)
	score -= min64(15, float64(zeroClickCount)/n*50)
	score -= min64(15, float64(decliningCount)/n*50)

	if score < 0 {
		return 0
	}
	return score
}

func min64(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
