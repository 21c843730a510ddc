package analysis

import (
	"sort"
	"strings"

	"github.com/searchlens/searchlens/internal/domain/ctr"
	"github.com/searchlens/searchlens/internal/domain/search"
)

// StrikingDistanceQuery is a query just outside page 1 whose traffic is
// projected at the fixed reference position.
type StrikingDistanceQuery struct {
	Query           string  `json:"query"`
	Position        float64 `json:"position"`
	Impressions     int64   `json:"impressions"`
	Clicks          int64   `json:"clicks"`
	PotentialClicks float64 `json:"potential_clicks"`
	ClickIncrease   float64 `json:"click_increase"`
}

// SnippetCandidate is a question-form query already on page 1 that could
// win a featured snippet.
type SnippetCandidate struct {
	Query       string  `json:"query"`
	Position    float64 `json:"position"`
	Impressions int64   `json:"impressions"`
	Clicks      int64   `json:"clicks"`
}

// QuickWin is a low-effort fix derived from a low-CTR page.
type QuickWin struct {
	Type                      string  `json:"type"`
	Page                      string  `json:"page"`
	CurrentCTR                float64 `json:"current_ctr"`
	ExpectedCTR               float64 `json:"expected_ctr"`
	Impressions               int64   `json:"impressions"`
	PotentialAdditionalClicks float64 `json:"potential_additional_clicks"`
}

// ContentGap is reserved in the output contract; no detector fills it yet.
type ContentGap struct {
	Query       string `json:"query"`
	Impressions int64  `json:"impressions"`
}

// OpportunityReport groups the ranking opportunities for one run.
type OpportunityReport struct {
	StrikingDistance []StrikingDistanceQuery `json:"striking_distance"`
	FeaturedSnippets []SnippetCandidate      `json:"featured_snippet_opportunities"`
	QuickWins        []QuickWin              `json:"quick_wins"`
	ContentGaps      []ContentGap            `json:"content_gaps"`
}

// questionWords are matched as raw prefixes of the lowercased query, so
// "is" also matches "island"; the wider net is accepted.
var questionWords = []string{"what", "how", "why", "when", "where", "who", "is", "can", "does"}

const maxStrikingDistance = 20
const maxSnippetCandidates = 10
const maxQuickWinInputs = 10

// findOpportunities flags striking-distance queries and featured-snippet
// candidates from the queries view, and derives quick wins from the
// low-CTR pages found by the quality pass.
func (a *Analyzer) findOpportunities(queries []search.Row, lowCTRPages []LowCTRPage) OpportunityReport {
	report := OpportunityReport{
		StrikingDistance: make([]StrikingDistanceQuery, 0),
		FeaturedSnippets: make([]SnippetCandidate, 0),
		QuickWins:        make([]QuickWin, 0),
		ContentGaps:      make([]ContentGap, 0),
	}

	sd := a.cfg.StrikingDistance
	referenceCTR := ctr.EstimateForPosition(sd.ReferencePosition)
	for _, r := range queries {
		if r.Position < sd.MinPosition || r.Position > sd.MaxPosition || r.Impressions < sd.MinImpressions {
			continue
		}
		potential := float64(r.Impressions) * referenceCTR
		report.StrikingDistance = append(report.StrikingDistance, StrikingDistanceQuery{
			Query:           r.Query,
			Position:        r.Position,
			Impressions:     r.Impressions,
			Clicks:          r.Clicks,
			PotentialClicks: potential,
			// Not clamped: negative means the query already out-performs
			// the reference position's click curve.
			ClickIncrease: potential - float64(r.Clicks),
		})
	}
	sort.SliceStable(report.StrikingDistance, func(i, j int) bool {
		return report.StrikingDistance[i].ClickIncrease > report.StrikingDistance[j].ClickIncrease
	})
	if len(report.StrikingDistance) > maxStrikingDistance {
		report.StrikingDistance = report.StrikingDistance[:maxStrikingDistance]
	}

	for _, r := range queries {
		if !isQuestionQuery(r.Query) {
			continue
		}
		// Position 1 is skipped: it may already own the snippet.
		if r.Position < 2 || r.Position > 10 || r.Impressions <= 50 {
			continue
		}
		report.FeaturedSnippets = append(report.FeaturedSnippets, SnippetCandidate{
			Query:       r.Query,
			Position:    r.Position,
			Impressions: r.Impressions,
			Clicks:      r.Clicks,
		})
	}
	sort.SliceStable(report.FeaturedSnippets, func(i, j int) bool {
		return report.FeaturedSnippets[i].Impressions > report.FeaturedSnippets[j].Impressions
	})
	if len(report.FeaturedSnippets) > maxSnippetCandidates {
		report.FeaturedSnippets = report.FeaturedSnippets[:maxSnippetCandidates]
	}

	inputs := lowCTRPages
	if len(inputs) > maxQuickWinInputs {
		inputs = inputs[:maxQuickWinInputs]
	}
	for _, page := range inputs {
		expected := ctr.EstimateForPosition(page.Position)
		report.QuickWins = append(report.QuickWins, QuickWin{
			Type:                      "meta_optimization",
			Page:                      page.Page,
			CurrentCTR:                page.CTR,
			ExpectedCTR:               expected,
			Impressions:               page.Impressions,
			PotentialAdditionalClicks: float64(page.Impressions) * (expected - page.CTR),
		})
	}

	return report
}

func isQuestionQuery(query string) bool {
	lower := strings.ToLower(query)
	for _, w := range questionWords {
		if strings.HasPrefix(lower, w) {
			return true
		}
	}
	return false
}
