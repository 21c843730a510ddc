package analysis

import (
	"strings"

	"github.com/searchlens/searchlens/internal/domain/search"
)

// IndexingIssue is one concerning index-coverage status and its reach.
type IndexingIssue struct {
	Issue        string `json:"issue"`
	AffectedURLs int64  `json:"affected_urls"`
	Severity     string `json:"severity"`
}

// SitemapIssue is a submitted sitemap carrying errors.
type SitemapIssue struct {
	Sitemap  string `json:"sitemap"`
	Errors   int64  `json:"errors"`
	Warnings int64  `json:"warnings"`
}

// TechnicalReport groups technical SEO issues. CrawlIssues and
// SecurityIssues are reserved in the output contract.
type TechnicalReport struct {
	IndexingIssues []IndexingIssue `json:"indexing_issues"`
	SitemapIssues  []SitemapIssue  `json:"sitemap_issues"`
	CrawlIssues    []string        `json:"crawl_issues"`
	SecurityIssues []string        `json:"security_issues"`
}

// concerningStatuses are the index-coverage buckets worth surfacing, in
// reporting order.
var concerningStatuses = []string{
	"Error",
	"Excluded by noindex tag",
	"Blocked by robots.txt",
}

// analyzeTechnical surfaces index-coverage statuses that block traffic and
// sitemaps with submission errors.
func (a *Analyzer) analyzeTechnical(coverage []search.CoverageRow, sitemaps []search.Sitemap) TechnicalReport {
	report := TechnicalReport{
		IndexingIssues: make([]IndexingIssue, 0),
		SitemapIssues:  make([]SitemapIssue, 0),
		CrawlIssues:    make([]string, 0),
		SecurityIssues: make([]string, 0),
	}

	for _, status := range concerningStatuses {
		var count int64
		for _, row := range coverage {
			if row.Status == status {
				count += row.Count
			}
		}
		if count == 0 {
			continue
		}
		severity := "medium"
		if strings.Contains(status, "Error") {
			severity = "high"
		}
		report.IndexingIssues = append(report.IndexingIssues, IndexingIssue{
			Issue:        status,
			AffectedURLs: count,
			Severity:     severity,
		})
	}

	for _, sitemap := range sitemaps {
		if sitemap.Errors == 0 {
			continue
		}
		path := sitemap.Path
		if path == "" {
			path = "Unknown"
		}
		report.SitemapIssues = append(report.SitemapIssues, SitemapIssue{
			Sitemap:  path,
			Errors:   sitemap.Errors,
			Warnings: sitemap.Warnings,
		})
	}

	return report
}
