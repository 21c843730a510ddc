package analysis

import (
	"math"
	"sort"

	"github.com/searchlens/searchlens/internal/domain/search"
)

// DeviceGapRecord is a page whose mobile rank diverges from its desktop
// rank past the configured gap.
type DeviceGapRecord struct {
	Page            string  `json:"page"`
	MobilePosition  float64 `json:"mobile_position"`
	DesktopPosition float64 `json:"desktop_position"`
	PositionGap     float64 `json:"position_gap"`
	MobileClicks    int64   `json:"mobile_clicks"`
	DesktopClicks   int64   `json:"desktop_clicks"`
}

// DeviceTotals sums clicks and impressions for one device segment.
type DeviceTotals struct {
	Clicks      int64 `json:"clicks"`
	Impressions int64 `json:"impressions"`
}

// DeviceReport compares mobile and desktop performance per page plus an
// overall per-device totals summary.
type DeviceReport struct {
	ProblematicPages []DeviceGapRecord              `json:"problematic_pages"`
	DeviceSummary    map[search.Device]DeviceTotals `json:"device_summary"`
}

const maxDeviceGapPages = 20

// analyzeDevices pivots the page×device view into per-page mobile and
// desktop columns. Pages missing either device's data are skipped, not
// treated as a zero gap. Flagged pages sort by absolute gap, largest first.
func (a *Analyzer) analyzeDevices(rows []search.Row) DeviceReport {
	report := DeviceReport{
		ProblematicPages: make([]DeviceGapRecord, 0),
		DeviceSummary:    make(map[search.Device]DeviceTotals),
	}
	if len(rows) == 0 {
		return report
	}

	type deviceCell struct {
		totals search.Totals
	}
	pivot := make(map[string]map[search.Device]*deviceCell)
	for _, r := range rows {
		cells, ok := pivot[r.Page]
		if !ok {
			cells = make(map[search.Device]*deviceCell)
			pivot[r.Page] = cells
		}
		cell, ok := cells[r.Device]
		if !ok {
			cell = &deviceCell{}
			cells[r.Device] = cell
		}
		cell.totals.Add(r)

		summary := report.DeviceSummary[r.Device]
		summary.Clicks += r.Clicks
		summary.Impressions += r.Impressions
		report.DeviceSummary[r.Device] = summary
	}

	pages := make([]string, 0, len(pivot))
	for page := range pivot {
		pages = append(pages, page)
	}
	sort.Strings(pages)

	for _, page := range pages {
		mobile, hasMobile := pivot[page][search.DeviceMobile]
		desktop, hasDesktop := pivot[page][search.DeviceDesktop]
		if !hasMobile || !hasDesktop {
			continue
		}
		mobilePos, mobileOK := mobile.totals.AvgPosition()
		desktopPos, desktopOK := desktop.totals.AvgPosition()
		if !mobileOK || !desktopOK {
			continue
		}

		gap := mobilePos - desktopPos
		if math.Abs(gap) < a.cfg.DeviceGap.PositionGap {
			continue
		}
		report.ProblematicPages = append(report.ProblematicPages, DeviceGapRecord{
			Page:            page,
			MobilePosition:  mobilePos,
			DesktopPosition: desktopPos,
			PositionGap:     gap,
			MobileClicks:    mobile.totals.Clicks,
			DesktopClicks:   desktop.totals.Clicks,
		})
	}

	sort.SliceStable(report.ProblematicPages, func(i, j int) bool {
		return math.Abs(report.ProblematicPages[i].PositionGap) > math.Abs(report.ProblematicPages[j].PositionGap)
	})
	if len(report.ProblematicPages) > maxDeviceGapPages {
		report.ProblematicPages = report.ProblematicPages[:maxDeviceGapPages]
	}

	return report
}
