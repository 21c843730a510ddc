package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/searchlens/searchlens/internal/domain/search"
)

func TestAnalyzeContentQuality_LowCTRAndZeroClick(t *testing.T) {
	a := New(nil)

	pages := []search.Row{
		// Low CTR: 500 impressions, 1% CTR
		{Page: "/low-ctr", Clicks: 5, Impressions: 500, Position: 6},
		// Zero clicks on 150 impressions
		{Page: "/zero", Clicks: 0, Impressions: 150, Position: 12},
		// Healthy page
		{Page: "/fine", Clicks: 80, Impressions: 1000, Position: 2},
		// High impressions but healthy CTR
		{Page: "/also-fine", Clicks: 100, Impressions: 2000, Position: 4},
	}

	report := a.analyzeContentQuality(pages, nil)

	require.Len(t, report.LowCTRPages, 1)
	assert.Equal(t, "/low-ctr", report.LowCTRPages[0].Page)
	assert.Equal(t, 0.01, report.LowCTRPages[0].CTR)
	assert.Equal(t, float64(6), report.LowCTRPages[0].Position)

	require.Len(t, report.ZeroClickPages, 1)
	assert.Equal(t, "/zero", report.ZeroClickPages[0].Page)

	assert.Equal(t, 4, report.Summary.TotalPagesAnalyzed)
	assert.Equal(t, 1, report.Summary.LowCTRCount)
	assert.Equal(t, 1, report.Summary.ZeroClickCount)
	assert.Equal(t, 0, report.Summary.DecliningCount)
}

func TestAnalyzeContentQuality_ZeroClickBoundary(t *testing.T) {
	a := New(nil)

	// Exactly 100 impressions does not qualify (>, not >=)
	pages := []search.Row{
		{Page: "/boundary", Clicks: 0, Impressions: 100, Position: 8},
		{Page: "/over", Clicks: 0, Impressions: 101, Position: 8},
	}

	report := a.analyzeContentQuality(pages, nil)
	require.Len(t, report.ZeroClickPages, 1)
	assert.Equal(t, "/over", report.ZeroClickPages[0].Page)
}

func TestQualityScore_EmptySite(t *testing.T) {
	assert.Equal(t, float64(0), qualityScore(0, 0, 0, 0))
}

func TestQualityScore_LowCTRPenaltyCapped(t *testing.T) {
	// 20 low-CTR pages out of 100: ratio 0.2, penalty min(20, 20) = 20
	assert.Equal(t, float64(80), qualityScore(100, 20, 0, 0))

	// 50 low-CTR pages out of 100 still only costs 20 points
	assert.Equal(t, float64(80), qualityScore(100, 50, 0, 0))
}

func TestQualityScore_AllPenalties(t *testing.T) {
	// 10/100 low CTR: -10; 10/100 zero click: -5; 10/100 declining: -5
	assert.Equal(t, float64(80), qualityScore(100, 10, 10, 10))
}

func TestQualityScore_FlooredAtZero(t *testing.T) {
	score := qualityScore(1, 1, 1, 1)
	assert.GreaterOrEqual(t, score, float64(0))
	// Max penalties: 20 + 15 + 15 = 50
	assert.Equal(t, float64(50), score)
}

func TestQualityScore_PerfectSite(t *testing.T) {
	assert.Equal(t, float64(100), qualityScore(50, 0, 0, 0))
}

func TestAnalyzeContentQuality_EmptyPagesView(t *testing.T) {
	a := New(nil)

	report := a.analyzeContentQuality(nil, nil)
	assert.Empty(t, report.LowCTRPages)
	assert.Empty(t, report.ZeroClickPages)
	assert.Equal(t, float64(0), report.Summary.QualityScore)
}

func TestAnalyzeContentQuality_CarriesDecliningPages(t *testing.T) {
	a := New(nil)

	declining := []DecliningPage{{Page: "/fading", PreviousClicks: 100, RecentClicks: 40, ChangePercent: -60}}
	report := a.analyzeContentQuality([]search.Row{{Page: "/fine", Clicks: 10, Impressions: 100, Position: 3}}, declining)

	require.Len(t, report.DecliningPages, 1)
	assert.Equal(t, 1, report.Summary.DecliningCount)
}
