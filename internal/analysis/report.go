package analysis

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/shopspring/decimal"
)

// Report builds a markdown spending report.
func Report(s Summary, months []MonthTotal, currency string) string {
	var sb strings.Builder
	sb.WriteString("# Spending report\n\n")

	if s.Count == 0 {
		sb.WriteString("_No expenses recorded._\n")
		return sb.String()
	}

	money := func(d decimal.Decimal) string {
		return currency + d.StringFixed(2)
	}

	sb.WriteString("| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(&sb, "| Expenses | %d |\n", s.Count)
	fmt.Fprintf(&sb, "| Total | %s |\n", money(s.Total))
	fmt.Fprintf(&sb, "| Average | %s |\n", money(s.Average))
	fmt.Fprintf(&sb, "| Smallest | %s |\n", money(s.Min))
	fmt.Fprintf(&sb, "| Largest | %s |\n", money(s.Max))
	fmt.Fprintf(&sb, "| Top category | %s |\n", escapeCell(s.TopCategory))

	sb.WriteString("\n## By category\n\n| Category | Count | Total |\n|---|---:|---:|\n")
	for _, c := range s.Categories {
		fmt.Fprintf(&sb, "| %s | %d | %s |\n", escapeCell(c.Category), c.Count, money(c.Total))
	}

	if len(months) > 0 {
		sb.WriteString("\n## By month\n\n| Month | Count | Total |\n|---|---:|---:|\n")
		for _, m := range months {
			fmt.Fprintf(&sb, "| %s | %d | %s |\n", m.Month, m.Count, money(m.Total))
		}
	}
	return sb.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// RenderMarkdown renders md for the terminal, falling back to the raw text
// when glamour cannot build a renderer.
func RenderMarkdown(md string, width int) string {
	if width < 20 {
		width = 20
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	var rendered string
	if err == nil {
		rendered, err = renderer.Render(md)
	}
	if err != nil {
		return md
	}
	return rendered
}
