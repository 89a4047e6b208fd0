// Package components provides the cards, bars and charts the spendcast
// dashboard is built from.
package components

import (
	"strings"

	"github.com/theirongolddev/spendcast/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Tone picks the color of a metric value and its delta.
type Tone int

const (
	ToneNeutral  Tone = iota
	ToneMore          // spending grew
	ToneLess          // spending fell
	ToneForecast      // a forecast figure
)

func (tn Tone) color(t theme.Theme) lipgloss.Color {
	switch tn {
	case ToneMore:
		return t.More
	case ToneLess:
		return t.Less
	case ToneForecast:
		return t.Forecast
	default:
		return t.TextPrimary
	}
}

// SpendTone compares two expense totals. Expenses are negative, so a lower
// total is more spending.
func SpendTone(current, previous float64) Tone {
	switch {
	case current < previous:
		return ToneMore
	case current > previous:
		return ToneLess
	default:
		return ToneNeutral
	}
}

// ToneStyle colors secondary text by tone. Neutral text is dimmed.
func ToneStyle(tn Tone) lipgloss.Style {
	t := theme.Active
	if tn == ToneNeutral {
		return lipgloss.NewStyle().Foreground(t.TextDim)
	}
	return lipgloss.NewStyle().Foreground(tn.color(t))
}

// Metric is one card of a MetricCardRow.
type Metric struct {
	Label, Value, Delta string
	Tone                Tone
}

// LayoutRow distributes totalWidth into n widths that sum to exactly totalWidth.
// First items absorb the remainder from integer division.
func LayoutRow(totalWidth, n int) []int {
	if n <= 0 {
		return nil
	}
	widths := make([]int, n)
	for i := range widths {
		widths[i] = totalWidth / n
		if i < totalWidth%n {
			widths[i]++
		}
	}
	return widths
}

// frame is the rounded card border. outerWidth includes the border.
func frame(outerWidth int, border lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Width(max(outerWidth-2, 10)).
		Padding(0, 1)
}

// MetricCard renders a label over a bold value, with an optional delta.
// Value and delta take the metric's tone; neutral deltas are dimmed.
func MetricCard(m Metric, outerWidth int) string {
	t := theme.Active

	label := lipgloss.NewStyle().Foreground(t.TextMuted).Render(m.Label)
	value := lipgloss.NewStyle().Foreground(m.Tone.color(t)).Bold(true).Render(m.Value)
	content := label + "\n" + value

	if m.Delta != "" {
		content += "\n" + ToneStyle(m.Tone).Render(m.Delta)
	}
	return frame(outerWidth, t.Border).Render(content)
}

// MetricCardRow renders cards side by side, summing to totalWidth.
func MetricCardRow(cards []Metric, totalWidth int) string {
	if len(cards) == 0 {
		return ""
	}
	widths := LayoutRow(totalWidth, len(cards))
	rendered := make([]string, len(cards))
	for i, c := range cards {
		rendered[i] = MetricCard(c, widths[i])
	}
	return CardRow(rendered)
}

// ContentCard renders a bordered card with an optional title.
func ContentCard(title, body string, outerWidth int) string {
	t := theme.Active
	return frame(outerWidth, t.Border).Render(withTitle(title, t.TextMuted, body))
}

// WarningCard lists non-fatal problems in the warning color. It renders
// nothing when lines is empty.
func WarningCard(title string, lines []string, outerWidth int) string {
	if len(lines) == 0 {
		return ""
	}
	t := theme.Active
	body := lipgloss.NewStyle().Foreground(t.Warning).Render(strings.Join(lines, "\n"))
	return frame(outerWidth, t.Warning).Render(withTitle(title, t.Warning, body))
}

func withTitle(title string, color lipgloss.Color, body string) string {
	if title == "" {
		return body
	}
	return lipgloss.NewStyle().Foreground(color).Bold(true).Render(title) + "\n" + body
}

// CardRow joins pre-rendered cards horizontally, top aligned.
func CardRow(cards []string) string {
	if len(cards) == 0 {
		return ""
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

// CardInnerWidth is the text width inside a card of outerWidth
// (border and padding removed).
func CardInnerWidth(outerWidth int) int {
	return max(outerWidth-4, 10)
}
