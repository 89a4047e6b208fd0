// Package tui provides the interactive Bubble Tea dashboard for spendcast.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/spendcast/internal/cli"
	"github.com/theirongolddev/spendcast/internal/config"
	"github.com/theirongolddev/spendcast/internal/model"
	"github.com/theirongolddev/spendcast/internal/pipeline"
	"github.com/theirongolddev/spendcast/internal/source"
	"github.com/theirongolddev/spendcast/internal/store"
	"github.com/theirongolddev/spendcast/internal/tui/components"
	"github.com/theirongolddev/spendcast/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// DataLoadedMsg is sent when loading and the first pipeline run finish.
type DataLoadedMsg struct {
	Load     *pipeline.LoadResult
	Result   *pipeline.Result
	Err      error
	LoadTime time.Duration
}

// ProgressMsg reports file parsing progress.
type ProgressMsg struct {
	Current int
	Total   int
}

// ForecastMsg is sent when a re-run after a settings change completes.
type ForecastMsg struct {
	Result *pipeline.Result
	Err    error
}

// App is the root Bubble Tea model.
type App struct {
	cfg config.Config
	db  *store.DB

	// Data
	load     *pipeline.LoadResult
	result   *pipeline.Result
	loaded   bool
	loadErr  error
	loadTime time.Duration
	running  bool

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool

	// Per-tab state
	fc       forecastState
	monthly  monthlyState
	query    queryState
	settings settingsState

	// Loading, channel-based progress subscription
	spinner     spinner.Model
	progress    int
	progressMax int
	loadSub     chan tea.Msg
}

const (
	minTerminalWidth = 80
	maxContentWidth  = 180
	minContentHeight = 5
)

// NewApp creates the dashboard. db backs the Query tab and may be nil, in
// which case the tab reports that SQL is unavailable.
func NewApp(cfg config.Config, db *store.DB) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent)

	return App{
		cfg:     cfg,
		db:      db,
		spinner: sp,
		loadSub: make(chan tea.Msg, 1),
		fc:      newForecastState(),
		query:   newQueryState(cfg.Query.DefaultSQL),
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		loadDataCmd(a.cfg, a.loadSub),
		a.spinner.Tick,
	)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.resize()
		return a, nil

	case tea.MouseMsg:
		if !a.loaded || a.showHelp {
			return a, nil
		}
		if msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress && msg.Y == 0 {
			if tab := a.tabAtX(msg.X); tab >= 0 {
				a.activeTab = tab
			}
		}
		return a, nil

	case tea.KeyMsg:
		return a.updateKey(msg)

	case ProgressMsg:
		a.progress = msg.Current
		a.progressMax = msg.Total
		return a, waitForLoadMsg(a.loadSub)

	case DataLoadedMsg:
		a.loaded = true
		a.loadTime = msg.LoadTime
		a.loadErr = msg.Err
		a.load = msg.Load
		a.setResult(msg.Result)
		return a, nil

	case ForecastMsg:
		a.running = false
		if msg.Err != nil {
			a.settings.saveErr = msg.Err
			return a, nil
		}
		a.setResult(msg.Result)
		return a, nil

	case QueryMsg:
		return a.applyQuery(msg), nil

	case spinner.TickMsg:
		if !a.loaded || a.query.running || a.running {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	// Cursor blinks and other editor messages.
	if a.activeTab == components.TabQuery && a.query.editing {
		var cmd tea.Cmd
		a.query.editor, cmd = a.query.editor.Update(msg)
		return a, cmd
	}
	if a.activeTab == components.TabSettings && a.settings.editing {
		var cmd tea.Cmd
		a.settings.input, cmd = a.settings.input.Update(msg)
		return a, cmd
	}

	return a, nil
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return a, tea.Quit
	}

	if !a.loaded {
		return a, nil
	}
	if a.loadErr != nil {
		if key == "q" || key == "esc" {
			return a, tea.Quit
		}
		return a, nil
	}

	// Text entry modes take every key.
	if a.activeTab == components.TabQuery && a.query.editing {
		return a.updateQueryEditor(msg)
	}
	if a.activeTab == components.TabSettings && a.settings.editing {
		return a.updateSettingsInput(msg)
	}

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	if key == "q" {
		return a, tea.Quit
	}

	switch a.activeTab {
	case components.TabForecast:
		if m, cmd, ok := a.updateForecastKey(msg); ok {
			return m, cmd
		}
	case components.TabMonthly:
		if m, cmd, ok := a.updateMonthlyKey(msg); ok {
			return m, cmd
		}
	case components.TabQuery:
		if m, cmd, ok := a.updateQueryKey(msg); ok {
			return m, cmd
		}
	case components.TabSettings:
		if m, cmd, ok := a.updateSettingsKey(msg); ok {
			return m, cmd
		}
	}

	switch key {
	case "left", "shift+tab":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
	case "right", "tab":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
	default:
		if len(msg.Runes) == 1 {
			if idx := components.TabIdxByKey(msg.Runes[0]); idx >= 0 {
				a.activeTab = idx
			}
		}
	}
	return a, nil
}

func (a *App) setResult(r *pipeline.Result) {
	a.result = r
	if r == nil {
		return
	}
	a.fc.setRows(r.Composed)
	a.monthly.shares = pipeline.MonthlyShares(r.Historical)
	a.monthly.offset = 0
}

func (a *App) resize() {
	cw := a.contentWidth()
	a.fc.table.SetWidth(components.CardInnerWidth(cw))
	a.fc.table.SetHeight(max(5, a.height/3))
	a.query.editor.SetWidth(components.CardInnerWidth(cw) - 2)
	a.query.table.SetWidth(components.CardInnerWidth(cw))
	a.query.table.SetHeight(max(5, a.height/3))
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if !a.loaded {
		return a.viewLoading()
	}
	if a.loadErr != nil {
		return a.viewError()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  spendcast needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Padding(2, 4)

	logoStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Bold(true)
	subtitleStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	countStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ spendcast"))
	b.WriteString(subtitleStyle.Render(" · Expense Forecasts"))
	b.WriteString("\n\n")

	if a.progressMax > 0 {
		barW := min(max(a.width-30, 20), 40)
		pct := float64(a.progress) / float64(a.progressMax)
		b.WriteString(a.spinner.View())
		b.WriteString(subtitleStyle.Render(" Reading exports\n\n"))
		b.WriteString(components.ProgressBar(pct, barW))
		b.WriteString("\n")
		b.WriteString(countStyle.Render(cli.FormatNumber(int64(a.progress))))
		b.WriteString(subtitleStyle.Render(" / "))
		b.WriteString(countStyle.Render(cli.FormatNumber(int64(a.progressMax))))
	} else {
		b.WriteString(a.spinner.View())
		b.WriteString(subtitleStyle.Render(" Loading " + a.cfg.Data.Path + "..."))
	}

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()))
}

func (a App) viewError() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Marker).
		Padding(1, 3).
		MaxWidth(a.width - 4)

	titleStyle := lipgloss.NewStyle().Foreground(t.Marker).Bold(true)
	bodyStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	hintStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	var b strings.Builder
	b.WriteString(titleStyle.Render("Could not load expenses"))
	b.WriteString("\n\n")
	b.WriteString(bodyStyle.Render(a.loadErr.Error()))
	if errors.Is(a.loadErr, source.ErrNoRows) {
		b.WriteString("\n\n")
		b.WriteString(hintStyle.Render("Check the column names and delimiter with `spendcast setup`."))
	}
	b.WriteString("\n\n")
	b.WriteString(hintStyle.Render("[q] quit"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()))
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Padding(1, 3)

	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Key).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	sections := []struct {
		title    string
		bindings []struct{ key, desc string }
	}{
		{"Navigation", []struct{ key, desc string }{
			{"f m s x", "Jump to tab (arrows from Query)"},
			{"← →", "Previous / Next tab"},
			{"j k", "Scroll tables and lists"},
		}},
		{"Query", []struct{ key, desc string }{
			{"i", "Edit SQL"},
			{"ctrl+r", "Run query"},
			{"Esc", "Leave editor"},
			{"c", "Cycle chart type"},
			{"x y", "Cycle x / y column"},
			{"h", "Load previous query"},
		}},
		{"General", []struct{ key, desc string }{
			{"Enter", "Edit setting"},
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n")
	for _, s := range sections {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(s.title))
		b.WriteString("\n")
		for _, bind := range s.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-10s", bind.key)),
				descStyle.Render(bind.desc))
		}
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()))
}

func (a App) viewMain() string {
	w := a.width
	cw := a.contentWidth()
	h := a.height

	header := components.RenderTabBar(a.activeTab, w)

	info := fmt.Sprintf("%s · %s rows · %.1fs",
		a.cfg.Data.Path,
		cli.FormatNumber(int64(len(a.loadRows()))),
		a.loadTime.Seconds())
	if a.running || a.query.running {
		info = a.spinner.View() + " " + info
	}
	statusBar := components.RenderStatusBar(w, a.statusHints(), info)

	contentH := max(h-lipgloss.Height(header)-lipgloss.Height(statusBar), minContentHeight)

	var content string
	switch a.activeTab {
	case components.TabForecast:
		content = a.renderForecastTab(cw)
	case components.TabMonthly:
		content = a.renderMonthlyTab(cw, contentH)
	case components.TabQuery:
		content = a.renderQueryTab(cw)
	case components.TabSettings:
		content = a.renderSettingsTab(cw)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = lipgloss.PlaceHorizontal(w, lipgloss.Center, content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
}

func (a App) statusHints() string {
	switch a.activeTab {
	case components.TabQuery:
		if a.query.editing {
			return "[ctrl+r]run  [esc]done"
		}
		return "[i]edit  [ctrl+r]run  [c]hart  [x/y]axes  [?]help  [q]uit"
	case components.TabSettings:
		if a.settings.editing {
			return "[enter]save  [esc]cancel"
		}
	}
	return ""
}

func (a App) loadRows() []model.Row {
	if a.load == nil {
		return nil
	}
	return a.load.Rows
}

// loadDataCmd loads the export and runs the pipeline in a background
// goroutine, streaming ProgressMsg updates and a final DataLoadedMsg.
func loadDataCmd(cfg config.Config, sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		go func() {
			start := time.Now()

			// Non-blocking send so workers aren't stalled.
			progressFn := func(current, total int) {
				select {
				case sub <- ProgressMsg{Current: current, Total: total}:
				default:
				}
			}

			load, err := pipeline.Load(cfg.Data.Path, pipeline.SourceOptions(cfg.Data), progressFn)
			if err != nil {
				sub <- DataLoadedMsg{Err: err, LoadTime: time.Since(start)}
				return
			}

			result, err := runPipeline(context.Background(), load.Rows, cfg.Forecast)
			sub <- DataLoadedMsg{Load: load, Result: result, Err: err, LoadTime: time.Since(start)}
		}()

		return <-sub
	}
}

// waitForLoadMsg blocks until the next message arrives from the loader goroutine.
func waitForLoadMsg(sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-sub
	}
}

// rerunCmd recomputes forecasts from already loaded rows.
func rerunCmd(rows []model.Row, fc config.ForecastConfig) tea.Cmd {
	return func() tea.Msg {
		result, err := runPipeline(context.Background(), rows, fc)
		return ForecastMsg{Result: result, Err: err}
	}
}

func runPipeline(ctx context.Context, rows []model.Row, fc config.ForecastConfig) (*pipeline.Result, error) {
	opts, err := pipeline.OptionsFromConfig(fc)
	if err != nil {
		return nil, err
	}
	return pipeline.Run(ctx, rows, opts)
}

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes follow RenderTabBar: one leading space and three between tabs.
func (a App) tabAtX(x int) int {
	pos := 1
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW + 3
	}
	return -1
}

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}
