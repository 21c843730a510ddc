package analysis

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/searchlens/searchlens/internal/domain/search"
)

func TestFindOpportunities_StrikingDistance(t *testing.T) {
	a := New(nil)

	queries := []search.Row{
		// Position 15, 100 impressions: potential = 100 * ctr(7) = 4.0
		{Query: "almost there", Clicks: 5, Impressions: 100, Position: 15},
		// Outside the band
		{Query: "page one", Clicks: 50, Impressions: 500, Position: 5},
		{Query: "deep", Clicks: 1, Impressions: 500, Position: 25},
		// In band but too few impressions
		{Query: "thin", Clicks: 1, Impressions: 49, Position: 12},
	}

	report := a.findOpportunities(queries, nil)
	require.Len(t, report.StrikingDistance, 1)

	sd := report.StrikingDistance[0]
	assert.Equal(t, "almost there", sd.Query)
	assert.Equal(t, 4.0, sd.PotentialClicks)
	// Already over-performing the reference curve: negative, not clamped
	assert.Equal(t, -1.0, sd.ClickIncrease)
}

func TestFindOpportunities_StrikingDistanceBandInclusive(t *testing.T) {
	a := New(nil)

	queries := []search.Row{
		{Query: "at eleven", Clicks: 0, Impressions: 50, Position: 11},
		{Query: "at twenty", Clicks: 0, Impressions: 50, Position: 20},
		{Query: "at ten", Clicks: 0, Impressions: 50, Position: 10},
		{Query: "at twenty one", Clicks: 0, Impressions: 50, Position: 21},
	}

	report := a.findOpportunities(queries, nil)
	require.Len(t, report.StrikingDistance, 2)
	found := []string{report.StrikingDistance[0].Query, report.StrikingDistance[1].Query}
	assert.ElementsMatch(t, []string{"at eleven", "at twenty"}, found)
}

func TestFindOpportunities_StrikingDistanceCap(t *testing.T) {
	a := New(nil)

	queries := make([]search.Row, 0, 30)
	for i := 0; i < 30; i++ {
		queries = append(queries, search.Row{
			Query:       fmt.Sprintf("query %02d", i),
			Clicks:      0,
			Impressions: int64(100 + i),
			Position:    15,
		})
	}

	report := a.findOpportunities(queries, nil)
	assert.Len(t, report.StrikingDistance, 20)
	// Largest click increase first
	assert.Equal(t, "query 29", report.StrikingDistance[0].Query)
}

func TestFindOpportunities_FeaturedSnippets(t *testing.T) {
	a := New(nil)

	queries := []search.Row{
		{Query: "how to lace shoes", Clicks: 10, Impressions: 300, Position: 4},
		{Query: "what is gore-tex", Clicks: 5, Impressions: 200, Position: 7},
		// Position 1 may already own the snippet
		{Query: "why run", Clicks: 50, Impressions: 900, Position: 1},
		// Not a question form
		{Query: "trail shoes", Clicks: 10, Impressions: 400, Position: 5},
		// Too few impressions (needs > 50)
		{Query: "when to replace shoes", Clicks: 2, Impressions: 50, Position: 6},
	}

	report := a.findOpportunities(queries, nil)
	require.Len(t, report.FeaturedSnippets, 2)
	// Sorted by impressions descending
	assert.Equal(t, "how to lace shoes", report.FeaturedSnippets[0].Query)
	assert.Equal(t, "what is gore-tex", report.FeaturedSnippets[1].Query)
}

func TestIsQuestionQuery_PrefixMatch(t *testing.T) {
	assert.True(t, isQuestionQuery("How to train"))
	assert.True(t, isQuestionQuery("DOES it fit"))
	// Raw prefix match: "is" matches "island" by contract
	assert.True(t, isQuestionQuery("island hiking boots"))
	assert.False(t, isQuestionQuery("trail runners"))
}

func TestFindOpportunities_QuickWins(t *testing.T) {
	a := New(nil)

	lowCTR := []LowCTRPage{
		{Page: "/dull-title", Clicks: 5, Impressions: 1000, CTR: 0.005, Position: 4},
	}

	report := a.findOpportunities(nil, lowCTR)
	require.Len(t, report.QuickWins, 1)

	qw := report.QuickWins[0]
	assert.Equal(t, "meta_optimization", qw.Type)
	assert.Equal(t, "/dull-title", qw.Page)
	// Expected CTR at the page's own position (rank 4)
	assert.Equal(t, 0.08, qw.ExpectedCTR)
	assert.InDelta(t, 1000*(0.08-0.005), qw.PotentialAdditionalClicks, 1e-9)
}

func TestFindOpportunities_QuickWinsCappedInputs(t *testing.T) {
	a := New(nil)

	lowCTR := make([]LowCTRPage, 15)
	for i := range lowCTR {
		lowCTR[i] = LowCTRPage{Page: fmt.Sprintf("/p%d", i), Impressions: 600, CTR: 0.01, Position: 5}
	}

	report := a.findOpportunities(nil, lowCTR)
	assert.Len(t, report.QuickWins, 10)
}

func TestFindOpportunities_EmptyInputs(t *testing.T) {
	a := New(nil)

	report := a.findOpportunities(nil, nil)
	assert.Empty(t, report.StrikingDistance)
	assert.Empty(t, report.FeaturedSnippets)
	assert.Empty(t, report.QuickWins)
	assert.Empty(t, report.ContentGaps)
	assert.NotNil(t, report.ContentGaps, "reserved list must exist, empty")
}
