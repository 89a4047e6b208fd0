package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/theirongolddev/spendcast/internal/chart"
	"github.com/theirongolddev/spendcast/internal/tui/theme"
)

func init() {
	lipgloss.SetColorProfile(termenv.TrueColor)
}

func TestCardRowHeightMatchesTallest(t *testing.T) {
	theme.SetActive("flexoki-dark")

	shortCard := ContentCard("Short", "Content", 22)
	tallCard := ContentCard("Tall", "Line 1\nLine 2\nLine 3\nLine 4\nLine 5", 22)

	shortLines := len(strings.Split(shortCard, "\n"))
	tallLines := len(strings.Split(tallCard, "\n"))
	if shortLines >= tallLines {
		t.Fatal("short card should be shorter than tall card")
	}

	lines := strings.Split(CardRow([]string{tallCard, shortCard}), "\n")
	if len(lines) != tallLines {
		t.Fatalf("joined height = %d, want %d", len(lines), tallLines)
	}
	for i, line := range lines {
		if w := lipgloss.Width(line); w != 44 {
			t.Fatalf("line %d width = %d, want 44", i, w)
		}
	}
}

func TestLayoutRowSumsToTotal(t *testing.T) {
	for _, n := range []int{1, 3, 4, 7} {
		sum := 0
		for _, w := range LayoutRow(101, n) {
			sum += w
		}
		if sum != 101 {
			t.Fatalf("LayoutRow(101, %d) sums to %d", n, sum)
		}
	}
	if LayoutRow(10, 0) != nil {
		t.Fatalf("LayoutRow(10, 0) should be nil")
	}
}

func TestMetricCardRowWidth(t *testing.T) {
	row := MetricCardRow([]Metric{
		{Label: "Fun", Value: "-120.00"},
		{Label: "Necessities", Value: "-900.00", Delta: "+3.0%"},
	}, 60)
	for i, line := range strings.Split(row, "\n") {
		if w := lipgloss.Width(line); w != 60 {
			t.Fatalf("line %d width = %d, want 60", i, w)
		}
	}
}

func TestTabIdxByKey(t *testing.T) {
	cases := map[rune]int{'f': TabForecast, 'm': TabMonthly, 's': TabQuery, 'x': TabSettings, 'z': -1}
	for key, want := range cases {
		if got := TabIdxByKey(key); got != want {
			t.Fatalf("TabIdxByKey(%q) = %d, want %d", key, got, want)
		}
	}
}

func TestPlotPlaceholderWhenTooSmall(t *testing.T) {
	p := chart.Plot{Kind: chart.Line, Series: []chart.Series{{Name: "a", Values: []float64{1, 2}}}, Marker: -1, Width: 5, Height: 2}
	if got := Plot(p); !strings.Contains(got, "Not enough room") {
		t.Fatalf("Plot(small) = %q", got)
	}
	p.Kind = chart.None
	if got := Plot(p); got != "" {
		t.Fatalf("Plot(none) = %q, want empty", got)
	}
}

func TestSparklineUsesMagnitude(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)
	defer lipgloss.SetColorProfile(termenv.TrueColor)
	if got := Sparkline([]float64{-8, -4, 0}, theme.Active.Series[0]); got != "█▄▁" {
		t.Fatalf("Sparkline = %q, want █▄▁", got)
	}
}

func TestSpendTone(t *testing.T) {
	cases := []struct {
		current, previous float64
		want              Tone
	}{
		{-120, -100, ToneMore},
		{-80, -100, ToneLess},
		{-100, -100, ToneNeutral},
	}
	for _, c := range cases {
		if got := SpendTone(c.current, c.previous); got != c.want {
			t.Fatalf("SpendTone(%v, %v) = %d, want %d", c.current, c.previous, got, c.want)
		}
	}
}

func TestToneColors(t *testing.T) {
	th := theme.Active
	if ToneMore.color(th) != th.More || ToneLess.color(th) != th.Less {
		t.Fatal("spend tones do not use More/Less")
	}
	if ToneForecast.color(th) != th.Forecast || ToneNeutral.color(th) != th.TextPrimary {
		t.Fatal("forecast or neutral tone color wrong")
	}
}

func TestMetricCardKeepsContentWithTone(t *testing.T) {
	card := MetricCard(Metric{Label: "Next Month", Value: "-1,200.00", Delta: "+20.0% vs last month", Tone: ToneMore}, 30)
	for _, want := range []string{"Next Month", "-1,200.00", "+20.0%"} {
		if !strings.Contains(card, want) {
			t.Fatalf("card missing %q:\n%s", want, card)
		}
	}
}

func TestWarningCard(t *testing.T) {
	if got := WarningCard("Warnings", nil, 40); got != "" {
		t.Fatalf("empty WarningCard = %q, want empty", got)
	}
	card := WarningCard("Warnings", []string{"Fun: forecasting failed", "Rent: not enough history"}, 40)
	if !strings.Contains(card, "Rent: not enough history") {
		t.Fatalf("card = %q", card)
	}
	if h := lipgloss.Height(card); h != 5 {
		t.Fatalf("height = %d, want 5 (border, title, two lines)", h)
	}
}
