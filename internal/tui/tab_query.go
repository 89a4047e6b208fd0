package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/spendcast/internal/chart"
	"github.com/theirongolddev/spendcast/internal/config"
	"github.com/theirongolddev/spendcast/internal/model"
	"github.com/theirongolddev/spendcast/internal/store"
	"github.com/theirongolddev/spendcast/internal/tui/components"
	"github.com/theirongolddev/spendcast/internal/tui/theme"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	queryTimeout    = 30 * time.Second
	queryHistoryLen = 20
	maxColumnWidth  = 28
)

var errNoSQL = errors.New("SQL engine unavailable")

// QueryMsg carries the outcome of an ad-hoc query.
type QueryMsg struct {
	SQL     string
	Result  *model.QueryResult
	Err     error
	History []store.HistoryEntry
}

// queryState tracks the Query tab.
type queryState struct {
	editor  textarea.Model
	editing bool
	table   table.Model

	result  *model.QueryResult
	err     error
	running bool
	lastSQL string

	kind chart.Kind
	x    string // empty picks the first text column
	y    string // empty plots every numeric column

	history []store.HistoryEntry
	histPos int
}

func newQueryState(defaultSQL string) queryState {
	ed := textarea.New()
	ed.Placeholder = "SELECT * FROM data"
	ed.ShowLineNumbers = false
	ed.CharLimit = 0
	ed.SetHeight(4)
	ed.SetValue(defaultSQL)
	ed.Blur()

	t := table.New(table.WithHeight(8), table.WithFocused(true))
	t.SetStyles(tableStyles())

	return queryState{editor: ed, table: t, histPos: -1}
}

func (a App) updateQueryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	q := &a.query
	switch msg.String() {
	case "i", "enter":
		q.editing = true
		return a, q.editor.Focus(), true
	case "ctrl+r":
		m, cmd := a.runQuery()
		return m, cmd, true
	case "c":
		q.kind = q.kind.Next()
		return a, nil, true
	case "x":
		q.x = cycleColumn(q.result, q.x, false)
		return a, nil, true
	case "y":
		q.y = cycleColumn(q.result, q.y, true)
		return a, nil, true
	case "h":
		if len(q.history) > 0 {
			q.histPos = (q.histPos + 1) % len(q.history)
			q.editor.SetValue(q.history[q.histPos].SQL)
		}
		return a, nil, true
	case "j", "k", "up", "down", "pgup", "pgdown", "g", "G":
		var cmd tea.Cmd
		q.table, cmd = q.table.Update(msg)
		return a, cmd, true
	}
	return a, nil, false
}

func (a App) updateQueryEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.query.editing = false
		a.query.editor.Blur()
		return a, nil
	case "ctrl+r":
		a.query.editing = false
		a.query.editor.Blur()
		return a.runQuery()
	}
	var cmd tea.Cmd
	a.query.editor, cmd = a.query.editor.Update(msg)
	return a, cmd
}

func (a App) runQuery() (tea.Model, tea.Cmd) {
	sqlText := strings.TrimSpace(a.query.editor.Value())
	if sqlText == "" || a.query.running {
		return a, nil
	}
	a.query.running = true
	a.query.histPos = -1
	return a, tea.Batch(runQueryCmd(a.db, a.cfg, sqlText), a.spinner.Tick)
}

// runQueryCmd imports the export if it changed, runs sqlText and records it.
func runQueryCmd(db *store.DB, cfg config.Config, sqlText string) tea.Cmd {
	return func() tea.Msg {
		msg := QueryMsg{SQL: sqlText}
		if db == nil {
			msg.Err = errNoSQL
			return msg
		}

		ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
		defer cancel()

		if _, err := db.Import(ctx, cfg.Data.Path, store.ImportOptionsFromConfig(cfg)); err != nil {
			msg.Err = err
			return msg
		}

		msg.Result, msg.Err = db.Query(ctx, sqlText, cfg.Query.RowLimit)
		rows := 0
		if msg.Result != nil {
			rows = len(msg.Result.Rows)
		}
		_ = db.SaveQuery(ctx, sqlText, rows, msg.Err != nil)
		msg.History, _ = db.RecentQueries(ctx, queryHistoryLen)
		return msg
	}
}

func (a App) applyQuery(msg QueryMsg) App {
	q := &a.query
	q.running = false
	q.lastSQL = msg.SQL
	if msg.History != nil {
		q.history = msg.History
	}
	q.err = msg.Err
	if msg.Err != nil {
		return a
	}

	q.result = msg.Result
	if q.result.Column(q.x) < 0 {
		q.x = ""
	}
	if i := q.result.Column(q.y); i < 0 || !q.result.Numeric[i] {
		q.y = ""
	}

	// Clear rows before swapping columns so the table never renders a row
	// wider than its column set.
	q.table.SetRows(nil)
	q.table.SetColumns(resultColumns(q.result))
	q.table.SetRows(resultRows(q.result))
	q.table.GotoTop()
	return a
}

// cycleColumn advances to the next column name. For numeric it walks the
// numeric columns and then back to "" (the first numeric column).
func cycleColumn(res *model.QueryResult, current string, numeric bool) string {
	if res == nil {
		return current
	}
	var names []string
	if numeric {
		names = append([]string{""}, res.NumericColumns()...)
	} else {
		names = res.Columns
	}
	if len(names) == 0 {
		return current
	}
	for i, n := range names {
		if strings.EqualFold(n, current) {
			return names[(i+1)%len(names)]
		}
	}
	return names[0]
}

func resultColumns(res *model.QueryResult) []table.Column {
	cols := make([]table.Column, len(res.Columns))
	for i, name := range res.Columns {
		w := lipgloss.Width(name)
		for r := range res.Rows {
			w = max(w, lipgloss.Width(res.Cell(r, i)))
		}
		cols[i] = table.Column{Title: name, Width: min(w, maxColumnWidth)}
	}
	return cols
}

func resultRows(res *model.QueryResult) []table.Row {
	rows := make([]table.Row, len(res.Rows))
	for r := range res.Rows {
		row := make(table.Row, len(res.Columns))
		for c := range res.Columns {
			row[c] = res.Cell(r, c)
		}
		rows[r] = row
	}
	return rows
}

func (a App) renderQueryTab(cw int) string {
	t := theme.Active
	q := a.query

	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	errStyle := lipgloss.NewStyle().Foreground(t.Marker)

	var b strings.Builder

	editorTitle := "SQL"
	if q.editing {
		editorTitle = "SQL (editing)"
	}
	b.WriteString(components.ContentCard(editorTitle, q.editor.View(), cw))
	b.WriteString("\n")

	if q.err != nil {
		b.WriteString(components.ContentCard("Result", errStyle.Render("Query failed: "+q.err.Error()), cw))
		return b.String()
	}
	if q.result == nil {
		hint := "Press ctrl+r to run. Tables: data, monthly, type_shares."
		if q.running {
			hint = a.spinner.View() + " Running..."
		}
		b.WriteString(components.ContentCard("Result", mutedStyle.Render(hint), cw))
		return b.String()
	}

	if q.kind != chart.None {
		if share, ok := chart.SharePlot(q.result); ok {
			b.WriteString(components.ContentCard(chart.ShareTitle, renderPlot(share, cw), cw))
			b.WriteString("\n")
		}
		b.WriteString(components.ContentCard(a.queryChartTitle(), a.renderQueryChart(cw), cw))
		b.WriteString("\n")
	}

	title := fmt.Sprintf("Result · %d rows", len(q.result.Rows))
	if q.result.Truncated {
		title += fmt.Sprintf(" (limited to %d)", a.cfg.Query.RowLimit)
	}
	b.WriteString(components.ContentCard(title, q.table.View(), cw))
	return b.String()
}

func (a App) queryChartTitle() string {
	q := a.query
	y := q.y
	if y == "" {
		y = "auto"
	}
	x := q.x
	if x == "" {
		x = "auto"
	}
	return fmt.Sprintf("Chart · %s · x=%s y=%s", q.kind, x, y)
}

func (a App) renderQueryChart(cw int) string {
	q := a.query
	t := theme.Active

	var ys []string
	if q.y != "" {
		ys = []string{q.y}
	}
	axes, err := chart.QueryAxes(q.result, q.x, ys)
	if err != nil {
		return lipgloss.NewStyle().Foreground(t.TextDim).Render(err.Error())
	}

	return renderPlot(chart.FromQuery(q.result, q.kind, axes), cw)
}

func renderPlot(p chart.Plot, cw int) string {
	p.Width = components.CardInnerWidth(cw)
	p.Height = 12
	out := components.Plot(p)
	if out == "" {
		return ""
	}
	return out + "\n" + components.Legend(p.Series)
}
