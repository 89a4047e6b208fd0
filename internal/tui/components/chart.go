package components

import (
	"math"
	"strings"

	"github.com/theirongolddev/spendcast/internal/chart"
	"github.com/theirongolddev/spendcast/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Sparkline renders a unicode sparkline from the magnitudes of values.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}

	blocks := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	peak := 0.0
	for _, v := range values {
		peak = math.Max(peak, math.Abs(v))
	}
	if peak == 0 {
		peak = 1
	}

	style := lipgloss.NewStyle().Foreground(color)

	var buf strings.Builder
	buf.Grow(len(values) * 4) // UTF-8 block chars are up to 3 bytes
	for _, v := range values {
		idx := int(math.Abs(v) / peak * float64(len(blocks)-1))
		idx = min(max(idx, 0), len(blocks)-1)
		buf.WriteRune(blocks[idx])
	}

	return style.Render(buf.String())
}

// Plot draws p with the active theme. It returns a muted placeholder when
// the plot is empty or does not fit.
func Plot(p chart.Plot) string {
	t := theme.Active

	canvas := chart.Draw(p)
	if len(canvas.Rows) == 0 {
		if p.Kind == chart.None {
			return ""
		}
		return lipgloss.NewStyle().Foreground(t.TextDim).Render("Not enough room or data to chart")
	}

	axis := lipgloss.NewStyle().Foreground(t.TextDim)
	marker := lipgloss.NewStyle().Foreground(t.Marker)
	styles := make([]lipgloss.Style, len(p.Series))
	for i := range styles {
		styles[i] = lipgloss.NewStyle().Foreground(t.SeriesColor(i))
	}

	return canvas.Render(func(owner int, s string) string {
		switch {
		case owner == chart.Marker:
			return marker.Render(s)
		case owner >= 0 && owner < len(styles):
			return styles[owner].Render(s)
		case owner == chart.Empty:
			return s
		default:
			return axis.Render(s)
		}
	})
}

// Legend lists series names in their chart colors.
func Legend(series []chart.Series) string {
	t := theme.Active
	parts := make([]string, 0, len(series))
	for i, s := range series {
		parts = append(parts, lipgloss.NewStyle().Foreground(t.SeriesColor(i)).Render("■ "+s.Name))
	}
	return strings.Join(parts, "   ")
}
