package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/spendcast/internal/chart"
	"github.com/theirongolddev/spendcast/internal/cli"
	"github.com/theirongolddev/spendcast/internal/model"
	"github.com/theirongolddev/spendcast/internal/pipeline"
	"github.com/theirongolddev/spendcast/internal/tui/components"
	"github.com/theirongolddev/spendcast/internal/tui/theme"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// forecastState tracks the Forecast tab.
type forecastState struct {
	table table.Model
}

func newForecastState() forecastState {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Month", Width: 9},
			{Title: "Type", Width: 16},
			{Title: "Total", Width: 14},
			{Title: "Source", Width: 11},
		}),
		table.WithHeight(8),
		table.WithFocused(true),
	)
	t.SetStyles(tableStyles())
	return forecastState{table: t}
}

// tableStyles themes a bubbles table.
func tableStyles() table.Styles {
	t := theme.Active
	s := table.DefaultStyles()
	s.Header = s.Header.
		Foreground(t.Accent).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(t.Border).
		BorderBottom(true)
	s.Cell = s.Cell.Foreground(t.TextPrimary)
	s.Selected = s.Selected.Foreground(t.TextPrimary).Background(t.Selection)
	return s
}

func (f *forecastState) setRows(c model.Composed) {
	rows := make([]table.Row, 0, len(c.Points))
	for _, p := range c.Points {
		rows = append(rows, table.Row{
			model.FormatMonth(p.Month),
			p.Type,
			cli.FormatAmount(p.Total),
			string(p.Source),
		})
	}
	f.table.SetRows(rows)
	f.table.GotoTop()
}

func (a App) updateForecastKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch msg.String() {
	case "j", "k", "up", "down", "pgup", "pgdown", "g", "G", "ctrl+d", "ctrl+u":
		var cmd tea.Cmd
		a.fc.table, cmd = a.fc.table.Update(msg)
		return a, cmd, true
	}
	return a, nil, false
}

func (a App) renderForecastTab(cw int) string {
	r := a.result
	if r == nil {
		return ""
	}

	types := r.Composed.Types()
	last, next := monthTotal(r, r.Composed.Transition, model.SourceHistorical), nextMonthTotal(r)
	metrics := []components.Metric{
		{Label: "Types", Value: fmt.Sprintf("%d", len(types)), Delta: strings.Join(types, ", ")},
		{Label: "History", Value: fmt.Sprintf("%d pts", r.Composed.Count(model.SourceHistorical)), Delta: "through " + cli.FormatMonth(r.Composed.Transition)},
		{Label: "Forecast", Value: fmt.Sprintf("%d pts", r.Composed.Count(model.SourceForecast)), Delta: fmt.Sprintf("%d months ahead", a.cfg.Forecast.HorizonMonths), Tone: components.ToneForecast},
		{Label: "Next Month", Value: cli.FormatAmount(next), Delta: cli.FormatChange(next, last) + " vs last month", Tone: components.SpendTone(next, last)},
	}

	var b strings.Builder
	b.WriteString(components.MetricCardRow(metrics, cw))
	b.WriteString("\n")

	inner := components.CardInnerWidth(cw)
	p := chart.FromComposed(r.Composed, chart.Line)
	p.Width = inner
	p.Height = 14
	body := components.Plot(p)
	if body != "" {
		body += "\n" + components.Legend(p.Series)
	}
	b.WriteString(components.ContentCard(forecastTitle(a.cfg.Forecast.Categories), body, cw))
	b.WriteString("\n")

	if warn := components.WarningCard("Warnings", forecastWarnings(r), cw); warn != "" {
		b.WriteString(warn)
		b.WriteString("\n")
	}

	b.WriteString(components.ContentCard("Historical + Forecast", a.fc.table.View(), cw))
	return b.String()
}

// forecastTitle matches the CLI chart title for the configured allow-list.
func forecastTitle(categories []string) string {
	names := append(append([]string(nil), categories...), pipeline.OthersType)
	return fmt.Sprintf("Historical + Forecasted Totals by Type (%s)", strings.Join(names, ", "))
}

func nextMonthTotal(r *pipeline.Result) float64 {
	return monthTotal(r, model.NextMonth(r.Composed.Transition), model.SourceForecast)
}

// monthTotal sums every type's src point for month m.
func monthTotal(r *pipeline.Result, m time.Time, src model.Source) float64 {
	total := 0.0
	for _, p := range r.Composed.Points {
		if p.Source == src && p.Month.Equal(m) {
			total += p.Total
		}
	}
	return total
}

func forecastWarnings(r *pipeline.Result) []string {
	var lines []string
	for _, f := range r.Failures {
		lines = append(lines, fmt.Sprintf("%s: forecasting failed: %v", f.Type, f.Err))
	}
	for _, s := range r.Skipped {
		lines = append(lines, fmt.Sprintf("%s: not enough history to forecast", s))
	}
	return lines
}
