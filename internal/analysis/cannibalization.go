package analysis

import (
	"sort"

	"github.com/searchlens/searchlens/internal/domain/ctr"
	"github.com/searchlens/searchlens/internal/domain/search"
)

// PageShare is one page's slice of a cannibalized query.
type PageShare struct {
	Page        string  `json:"page"`
	Clicks      int64   `json:"clicks"`
	Impressions int64   `json:"impressions"`
	Position    float64 `json:"position"`
	CTR         float64 `json:"ctr"`
}

// CannibalizationCase quantifies the consolidation opportunity for a query
// served by multiple pages.
type CannibalizationCase struct {
	Query                        string      `json:"query"`
	PagesAffected                int         `json:"pages_affected"`
	Pages                        []PageShare `json:"pages"`
	TotalImpressions             int64       `json:"total_impressions"`
	TotalClicks                  int64       `json:"total_clicks"`
	CurrentAvgPosition           float64     `json:"current_avg_position"`
	BestPosition                 float64     `json:"best_position"`
	PositionImprovementPotential float64     `json:"position_improvement_potential"`
	CurrentCTR                   float64     `json:"current_ctr"`
	PotentialCTR                 float64     `json:"potential_ctr"`
	PotentialAdditionalClicks    float64     `json:"potential_additional_clicks"`
	Priority                     string      `json:"priority"`
}

// detectCannibalization finds queries served by two or more pages with
// enough impressions to matter, and estimates the clicks recoverable by
// consolidating onto the best-ranking page.
func (a *Analyzer) detectCannibalization(rows []search.Row) []CannibalizationCase {
	cases := make([]CannibalizationCase, 0)
	if len(rows) == 0 {
		return cases
	}

	byQuery := make(map[string][]search.Row)
	stats := make(map[string]*search.Totals)
	for _, r := range rows {
		byQuery[r.Query] = append(byQuery[r.Query], r)
		t, ok := stats[r.Query]
		if !ok {
			t = &search.Totals{}
			stats[r.Query] = t
		}
		t.Add(r)
		t.AddDistinct(r.Page)
	}

	queries := make([]string, 0, len(stats))
	for q := range stats {
		queries = append(queries, q)
	}
	sort.Strings(queries)

	cfg := a.cfg.Cannibalization
	for _, query := range queries {
		t := stats[query]
		if t.DistinctCount() < cfg.MinPages || t.Impressions < cfg.MinImpressions {
			continue
		}

		avgPosition, ok := t.AvgPosition()
		if !ok {
			// Zero total impressions; the weighted average is undefined.
			continue
		}

		pages := make([]PageShare, 0, len(byQuery[query]))
		bestPosition := byQuery[query][0].Position
		for _, r := range byQuery[query] {
			rowCTR, _ := r.CTR()
			pages = append(pages, PageShare{
				Page:        r.Page,
				Clicks:      r.Clicks,
				Impressions: r.Impressions,
				Position:    r.Position,
				CTR:         rowCTR,
			})
			if r.Position < bestPosition {
				bestPosition = r.Position
			}
		}
		sort.SliceStable(pages, func(i, j int) bool {
			return pages[i].Clicks > pages[j].Clicks
		})

		currentCTR, _ := t.CTR()
		potentialCTR := ctr.EstimateForPosition(bestPosition)
		potentialClicks := float64(t.Impressions) * potentialCTR
		additional := potentialClicks - float64(t.Clicks)
		if additional < 0 {
			additional = 0
		}

		priority := "medium"
		if t.Impressions > cfg.HighPriorityFloor {
			priority = "high"
		}

		cases = append(cases, CannibalizationCase{
			Query:                        query,
			PagesAffected:                len(pages),
			Pages:                        pages,
			TotalImpressions:             t.Impressions,
			TotalClicks:                  t.Clicks,
			CurrentAvgPosition:           avgPosition,
			BestPosition:                 bestPosition,
			PositionImprovementPotential: avgPosition - bestPosition,
			CurrentCTR:                   currentCTR,
			PotentialCTR:                 potentialCTR,
			PotentialAdditionalClicks:    additional,
			Priority:                     priority,
		})
	}

	sort.SliceStable(cases, func(i, j int) bool {
		return cases[i].PotentialAdditionalClicks > cases[j].PotentialAdditionalClicks
	})

	return cases
}
