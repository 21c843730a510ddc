package analysis

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/searchlens/searchlens/internal/domain/search"
)

func TestRun_EmptyBundle(t *testing.T) {
	a := New(nil)

	result := a.Run(&search.Bundle{})

	assert.Empty(t, result.Cannibalization)
	assert.Empty(t, result.ContentQuality.LowCTRPages)
	assert.Equal(t, float64(0), result.ContentQuality.Summary.QualityScore)
	assert.Empty(t, result.Opportunities.StrikingDistance)
	assert.Equal(t, "stable", result.Trends.OverallTrend)
	assert.Empty(t, result.Technical.IndexingIssues)
	assert.Empty(t, result.DeviceComparison.ProblematicPages)
	assert.Equal(t, "unknown", result.CWV.OverallStatus)
}

func TestRun_NilBundle(t *testing.T) {
	a := New(nil)

	// A nil bundle behaves like an empty one, no panics
	result := a.Run(nil)
	assert.Empty(t, result.Cannibalization)
	assert.Equal(t, "unknown", result.CWV.OverallStatus)
}

func TestRun_EmptySectionsSerializeAsLists(t *testing.T) {
	a := New(nil)

	data, err := json.Marshal(a.Run(&search.Bundle{}))
	require.NoError(t, err)

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.JSONEq(t, "[]", string(decoded["cannibalization"]))

	var quality map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(decoded["content_quality"], &quality))
	assert.JSONEq(t, "[]", string(quality["low_ctr_pages"]))
	assert.JSONEq(t, "[]", string(quality["zero_click_pages"]))
}

func TestRun_Deterministic(t *testing.T) {
	a := New(nil)

	date := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	bundle := &search.Bundle{
		Views: map[string][]search.Row{
			search.ViewQueries: {
				{Query: "how to wax skis", Clicks: 2, Impressions: 400, Position: 14},
				{Query: "ski wax guide", Clicks: 1, Impressions: 300, Position: 16},
			},
			search.ViewPages: {
				{Page: "/wax", Clicks: 3, Impressions: 700, Position: 9},
				{Page: "/edges", Clicks: 0, Impressions: 150, Position: 20},
			},
			search.ViewQueryPage: {
				{Query: "ski wax", Page: "/wax", Clicks: 10, Impressions: 800, Position: 4},
				{Query: "ski wax", Page: "/wax-guide", Clicks: 4, Impressions: 600, Position: 9},
			},
			search.ViewPageTrends: {
				{Page: "/wax", Date: date, Clicks: 30},
				{Page: "/wax", Date: date.AddDate(0, 0, 40), Clicks: 5},
			},
			search.ViewPageDevice: {
				{Page: "/wax", Device: search.DeviceMobile, Clicks: 1, Impressions: 100, Position: 16},
				{Page: "/wax", Device: search.DeviceDesktop, Clicks: 9, Impressions: 100, Position: 5},
			},
		},
	}

	first, err := json.Marshal(a.Run(bundle))
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := json.Marshal(a.Run(bundle))
		require.NoError(t, err)
		assert.Equal(t, string(first), string(again))
	}
}

func TestRun_SectionsAreIndependent(t *testing.T) {
	a := New(nil)

	// Only the query/page view is present; every other section still
	// renders, empty.
	bundle := &search.Bundle{
		Views: map[string][]search.Row{
			search.ViewQueryPage: {
				{Query: "split query", Page: "/a", Clicks: 8, Impressions: 900, Position: 3},
				{Query: "split query", Page: "/b", Clicks: 6, Impressions: 700, Position: 7},
			},
		},
	}

	result := a.Run(bundle)
	assert.Len(t, result.Cannibalization, 1)
	assert.Empty(t, result.ContentQuality.LowCTRPages)
	assert.Empty(t, result.Opportunities.StrikingDistance)
	assert.Equal(t, "stable", result.Trends.OverallTrend)
}
