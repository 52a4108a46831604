package analysis

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

var (
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	barStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

const (
	barRune     = "█"
	minBarWidth = 10
)

// Bar is one row of a horizontal bar chart.
type Bar struct {
	Label string
	Value decimal.Decimal
}

func CategoryBars(s Summary) []Bar {
	bars := make([]Bar, len(s.Categories))
	for i, c := range s.Categories {
		bars[i] = Bar{Label: c.Category, Value: c.Total}
	}
	return bars
}

func MonthlyBars(months []MonthTotal) []Bar {
	bars := make([]Bar, len(months))
	for i, m := range months {
		bars[i] = Bar{Label: m.Month, Value: m.Total}
	}
	return bars
}

// RenderBars draws bars scaled to the largest value so that each line fits
// in width columns.
func RenderBars(bars []Bar, width int, currency string) string {
	if len(bars) == 0 {
		return ""
	}

	labelWidth, valueWidth := 0, 0
	largest := decimal.Zero
	values := make([]string, len(bars))
	for i, b := range bars {
		labelWidth = max(labelWidth, lipgloss.Width(b.Label))
		values[i] = currency + b.Value.StringFixed(2)
		valueWidth = max(valueWidth, lipgloss.Width(values[i]))
		if b.Value.GreaterThan(largest) {
			largest = b.Value
		}
	}

	barWidth := max(width-labelWidth-valueWidth-2, minBarWidth)

	var sb strings.Builder
	for i, b := range bars {
		n := 0
		if largest.IsPositive() {
			n = int(b.Value.Div(largest).Mul(decimal.NewFromInt(int64(barWidth))).IntPart())
		}
		if n == 0 && b.Value.IsPositive() {
			n = 1
		}
		label := b.Label + strings.Repeat(" ", labelWidth-lipgloss.Width(b.Label))
		fmt.Fprintf(&sb, "%s %s%s %s\n",
			labelStyle.Render(label),
			barStyle.Render(strings.Repeat(barRune, n)),
			strings.Repeat(" ", barWidth-n),
			valueStyle.Render(values[i]),
		)
	}
	return sb.String()
}
