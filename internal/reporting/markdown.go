package reporting

import (
	"fmt"
	"strings"
	"time"

	"rfa-explorer/internal/idhash"
)

// RenderMarkdown renders report as Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder
	s := r.Summary

	// Header
	sb.WriteString("# RFA Allocations Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Source: %s | Projects: %d | Dataset: %s\n\n",
		r.Source, r.Table.Total, idhash.ShortID(r.DatasetID)))

	// Summary
	sb.WriteString("## Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Total Allocation (BERA) | %s |\n", formatAmount(s.TotalAllocation)))
	sb.WriteString(fmt.Sprintf("| Average Allocation (BERA) | %s |\n", formatAmount(s.AverageAllocation)))
	sb.WriteString(fmt.Sprintf("| Confirmed Projects | %d |\n", s.KnownCount))
	sb.WriteString(fmt.Sprintf("| Unconfirmed Projects | %d |\n", s.UnknownCount))
	if r.BeraPrice > 0 {
		sb.WriteString(fmt.Sprintf("| BERA Price (USD) | %.4f |\n", r.BeraPrice))
		sb.WriteString(fmt.Sprintf("| Total Allocation (USD) | %.2f |\n", s.TotalUSD))
		sb.WriteString(fmt.Sprintf("| Average Allocation (USD) | %.2f |\n", s.AverageUSD))
	} else {
		sb.WriteString("| BERA Price (USD) | unavailable |\n")
	}
	sb.WriteString("\n")

	// Tiers
	sb.WriteString("## Allocation Tiers\n\n")
	sb.WriteString("| Tier | Range (BERA) | Projects |\n")
	sb.WriteString("|------|--------------|----------|\n")
	sb.WriteString(fmt.Sprintf("| Large | >= 100,000 | %d |\n", s.Tiers.Large))
	sb.WriteString(fmt.Sprintf("| Medium | 50,000 - 100,000 | %d |\n", s.Tiers.Medium))
	sb.WriteString(fmt.Sprintf("| Small | < 50,000 | %d |\n", s.Tiers.Small))
	sb.WriteString("\n")

	// Distribution
	sb.WriteString("## Top Allocations\n\n")
	if len(s.Top) > 0 {
		sb.WriteString("| # | Project | BERA | Share |\n")
		sb.WriteString("|---|---------|------|-------|\n")
		for i, sh := range s.Top {
			sb.WriteString(fmt.Sprintf("| %d | %s | %s | %.2f%% |\n",
				i+1, mdEscape(sh.Name), formatAmount(sh.Amount), sh.Percentage))
		}
		if s.Others.Count > 0 {
			sb.WriteString(fmt.Sprintf("| | Others (%d projects) | %s | %.2f%% |\n",
				s.Others.Count, formatAmount(s.Others.Total), s.Others.Percentage))
		}
	} else {
		sb.WriteString("No confirmed allocations.\n")
	}
	sb.WriteString("\n")

	// Wrappers
	sb.WriteString("## BGT Wrappers\n\n")
	if len(r.Wrappers) > 0 {
		sb.WriteString("| Token | Price (USD) | Premium |\n")
		sb.WriteString("|-------|-------------|---------|\n")
		for _, w := range r.Wrappers {
			premium := "n/a"
			if w.PremiumPercent != nil {
				premium = fmt.Sprintf("%+.2f%%", *w.PremiumPercent)
			}
			sb.WriteString(fmt.Sprintf("| %s | %.4f | %s |\n", w.Name, w.LatestPrice, premium))
		}
	}
	sb.WriteString("\n")

	// Full table
	sb.WriteString("## All Projects\n\n")
	if len(r.Table.Rows) > 0 {
		sb.WriteString("| Rank | Project | BERA | USD |\n")
		sb.WriteString("|------|---------|------|-----|\n")
		for _, row := range r.Table.Rows {
			rank := "-"
			if row.Rank != nil {
				rank = fmt.Sprintf("%d", *row.Rank)
			}
			amount := "TBA"
			if row.Project.Known() {
				amount = formatAmount(row.Project.BeraAmount)
			}
			usd := "-"
			if row.USDValue != nil {
				usd = fmt.Sprintf("%.2f", *row.USDValue)
			}
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n",
				rank, mdEscape(row.Project.ProjectName), amount, usd))
		}
	} else {
		sb.WriteString("No projects available.\n")
	}

	return sb.String()
}

// mdEscape keeps table cells intact.
func mdEscape(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
