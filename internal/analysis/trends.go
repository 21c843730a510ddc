package analysis

import (
	"math"
	"sort"
	"time"

	"github.com/searchlens/searchlens/internal/domain/search"
)

// TrendReport classifies overall click growth and day-to-day volatility.
// SeasonalPatterns and RecentChanges are reserved in the output contract.
type TrendReport struct {
	OverallTrend     string   `json:"overall_trend"`
	GrowthRate       float64  `json:"growth_rate"`
	Volatility       string   `json:"volatility"`
	SeasonalPatterns []string `json:"seasonal_patterns"`
	RecentChanges    []string `json:"recent_changes"`
}

// DecliningPage is a page whose recent-window clicks dropped past the
// decline threshold relative to the previous window.
type DecliningPage struct {
	Page           string  `json:"page"`
	PreviousClicks int64   `json:"previous_clicks"`
	RecentClicks   int64   `json:"recent_clicks"`
	ChangePercent  float64 `json:"change_percent"`
}

const maxDecliningPages = 20

// growthWindowDays is the 30v30 comparison width for the overall trend.
const growthWindowDays = 30

// volatilityWindow is the rolling-mean width for volatility detection.
const volatilityWindow = 7

type dailyTotal struct {
	day    string
	clicks int64
}

// analyzeTrends aggregates the date view into daily click totals, compares
// the last 30 days against the preceding 30, and measures deviation from a
// 7-day rolling mean. With fewer than 60 days of data the previous window
// collapses onto the recent one, reporting 0% growth; that degenerate case
// is part of the contract.
func (a *Analyzer) analyzeTrends(rows []search.Row) TrendReport {
	report := TrendReport{
		OverallTrend:     "stable",
		GrowthRate:       0,
		Volatility:       "low",
		SeasonalPatterns: make([]string, 0),
		RecentChanges:    make([]string, 0),
	}
	if len(rows) == 0 {
		return report
	}

	byDay := make(map[string]int64)
	for _, r := range rows {
		byDay[r.Date.Format("2006-01-02")] += r.Clicks
	}
	daily := make([]dailyTotal, 0, len(byDay))
	for day, clicks := range byDay {
		daily = append(daily, dailyTotal{day: day, clicks: clicks})
	}
	sort.Slice(daily, func(i, j int) bool { return daily[i].day < daily[j].day })

	if len(daily) > growthWindowDays {
		last30 := sumClicks(daily[len(daily)-growthWindowDays:])
		prev30 := last30
		if len(daily) > 2*growthWindowDays {
			prev30 = sumClicks(daily[len(daily)-2*growthWindowDays : len(daily)-growthWindowDays])
		}

		if prev30 > 0 {
			report.GrowthRate = float64(last30-prev30) / float64(prev30) * 100
		}

		switch {
		case report.GrowthRate > a.cfg.Trend.GrowthThresholdPct:
			report.OverallTrend = "growing"
		case report.GrowthRate < -a.cfg.Trend.GrowthThresholdPct:
			report.OverallTrend = "declining"
		}
	}

	if len(daily) > volatilityWindow {
		var deviationSum float64
		deviations := 0
		for i := volatilityWindow - 1; i < len(daily); i++ {
			var windowSum int64
			for j := i - volatilityWindow + 1; j <= i; j++ {
				windowSum += daily[j].clicks
			}
			rollingMean := float64(windowSum) / volatilityWindow
			deviationSum += math.Abs(float64(daily[i].clicks) - rollingMean)
			deviations++
		}
		meanDeviation := deviationSum / float64(deviations)
		meanClicks := float64(sumClicks(daily)) / float64(len(daily))

		if meanClicks > 0 {
			ratio := meanDeviation / meanClicks
			switch {
			case ratio > a.cfg.Trend.VolatilityHigh:
				report.Volatility = "high"
			case ratio > a.cfg.Trend.VolatilityMedium:
				report.Volatility = "medium"
			}
		}
	}

	return report
}

// detectDecliningPages splits the date range at max date minus the decline
// window, sums clicks per page on each side, and flags pages past the
// decline threshold. Pages under the noise floor in the previous window are
// ignored. Most severe declines sort first.
func (a *Analyzer) detectDecliningPages(rows []search.Row) []DecliningPage {
	declining := make([]DecliningPage, 0)
	if len(rows) == 0 {
		return declining
	}

	var maxDate time.Time
	for _, r := range rows {
		if r.Date.After(maxDate) {
			maxDate = r.Date
		}
	}
	cutoff := maxDate.AddDate(0, 0, -a.cfg.Decline.WindowDays)

	recent := make(map[string]int64)
	previous := make(map[string]int64)
	for _, r := range rows {
		if r.Date.After(cutoff) {
			recent[r.Page] += r.Clicks
		} else {
			previous[r.Page] += r.Clicks
		}
	}

	pages := make([]string, 0, len(recent))
	for page := range recent {
		if _, ok := previous[page]; ok {
			pages = append(pages, page)
		}
	}
	sort.Strings(pages)

	for _, page := range pages {
		prev := previous[page]
		if prev <= a.cfg.Decline.NoiseFloor {
			continue
		}
		changePct := float64(recent[page]-prev) / float64(prev) * 100
		if changePct < a.cfg.Decline.ThresholdPct {
			declining = append(declining, DecliningPage{
				Page:           page,
				PreviousClicks: prev,
				RecentClicks:   recent[page],
				ChangePercent:  changePct,
			})
		}
	}

	sort.SliceStable(declining, func(i, j int) bool {
		return declining[i].ChangePercent < declining[j].ChangePercent
	})
	if len(declining) > maxDecliningPages {
		declining = declining[:maxDecliningPages]
	}

	return declining
}

func sumClicks(daily []dailyTotal) int64 {
	var sum int64
	for _, d := range daily {
		sum += d.clicks
	}
	return sum
}
