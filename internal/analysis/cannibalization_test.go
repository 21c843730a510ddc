package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/searchlens/searchlens/internal/domain/search"
)

func TestDetectCannibalization_TwoPages(t *testing.T) {
	a := New(nil)

	rows := []search.Row{
		{Query: "running shoes", Page: "/a", Clicks: 50, Impressions: 600, Position: 3},
		{Query: "running shoes", Page: "/b", Clicks: 20, Impressions: 500, Position: 8},
	}

	cases := a.detectCannibalization(rows)
	require.Len(t, cases, 1)

	c := cases[0]
	assert.Equal(t, "running shoes", c.Query)
	assert.Equal(t, 2, c.PagesAffected)
	assert.Equal(t, int64(1100), c.TotalImpressions)
	assert.Equal(t, int64(70), c.TotalClicks)
	assert.Equal(t, float64(3), c.BestPosition)
	assert.InDelta(t, 5.27, c.CurrentAvgPosition, 0.01)
	assert.InDelta(t, c.CurrentAvgPosition-3, c.PositionImprovementPotential, 1e-9)
	assert.GreaterOrEqual(t, c.PotentialAdditionalClicks, 0.0)

	// Potential CTR estimated at the best position (rank 3)
	assert.Equal(t, 0.11, c.PotentialCTR)

	// 1100 impressions > 1000 floor
	assert.Equal(t, "high", c.Priority)

	// Pages sorted by clicks descending
	assert.Equal(t, "/a", c.Pages[0].Page)
	assert.Equal(t, "/b", c.Pages[1].Page)
}

func TestDetectCannibalization_SinglePageNeverFlagged(t *testing.T) {
	a := New(nil)

	rows := []search.Row{
		{Query: "solo query", Page: "/only", Clicks: 500, Impressions: 50000, Position: 2},
	}

	assert.Empty(t, a.detectCannibalization(rows))
}

func TestDetectCannibalization_ImpressionThresholdInclusive(t *testing.T) {
	a := New(nil)

	// Exactly 100 total impressions qualifies (>=, not >)
	rows := []search.Row{
		{Query: "edge", Page: "/a", Clicks: 1, Impressions: 60, Position: 5},
		{Query: "edge", Page: "/b", Clicks: 1, Impressions: 40, Position: 9},
	}
	cases := a.detectCannibalization(rows)
	require.Len(t, cases, 1)
	assert.Equal(t, "medium", cases[0].Priority)

	// One impression short misses the cut
	rows[1].Impressions = 39
	assert.Empty(t, a.detectCannibalization(rows))
}

func TestDetectCannibalization_SortedByOpportunity(t *testing.T) {
	a := New(nil)

	rows := []search.Row{
		{Query: "small", Page: "/a", Clicks: 5, Impressions: 100, Position: 4},
		{Query: "small", Page: "/b", Clicks: 2, Impressions: 100, Position: 9},
		{Query: "big", Page: "/c", Clicks: 10, Impressions: 5000, Position: 2},
		{Query: "big", Page: "/d", Clicks: 5, Impressions: 5000, Position: 12},
	}

	cases := a.detectCannibalization(rows)
	require.Len(t, cases, 2)
	assert.Equal(t, "big", cases[0].Query)
	assert.GreaterOrEqual(t, cases[0].PotentialAdditionalClicks, cases[1].PotentialAdditionalClicks)
}

func TestDetectCannibalization_EmptyInput(t *testing.T) {
	a := New(nil)
	assert.Empty(t, a.detectCannibalization(nil))
}

func TestDetectCannibalization_Deterministic(t *testing.T) {
	a := New(nil)

	rows := []search.Row{
		{Query: "q1", Page: "/a", Clicks: 10, Impressions: 300, Position: 3},
		{Query: "q1", Page: "/b", Clicks: 8, Impressions: 200, Position: 6},
		{Query: "q2", Page: "/c", Clicks: 10, Impressions: 300, Position: 3},
		{Query: "q2", Page: "/d", Clicks: 8, Impressions: 200, Position: 6},
	}

	first := a.detectCannibalization(rows)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, a.detectCannibalization(rows))
	}
}
