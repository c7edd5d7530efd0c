package reporting

import (
	"fmt"
	"strings"

	"rfa-explorer/internal/explorer"
)

// RenderCSV renders table rows as CSV string.
// Unranked rows and unknown USD values are left empty.
func RenderCSV(rows []explorer.TableRow) string {
	var sb strings.Builder

	// Header
	sb.WriteString("rank,project_name,twitter_handle,bera_amount,usd_value\n")

	// Rows
	for _, r := range rows {
		rank := ""
		if r.Rank != nil {
			rank = fmt.Sprintf("%d", *r.Rank)
		}
		usd := ""
		if r.USDValue != nil {
			usd = fmt.Sprintf("%.2f", *r.USDValue)
		}
		sb.WriteString(fmt.Sprintf("%s,%s,%s,%s,%s\n",
			rank,
			csvField(r.Project.ProjectName),
			csvField(r.Project.TwitterHandle),
			formatAmount(r.Project.BeraAmount),
			usd,
		))
	}

	return sb.String()
}

// csvField quotes s when it contains a separator, quote or newline.
func csvField(s string) string {
	if !strings.ContainsAny(s, ",\"\r\n") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func formatAmount(f float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.6f", f), "0"), ".")
}
