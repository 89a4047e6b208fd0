package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/spendcast/internal/cli"
	"github.com/theirongolddev/spendcast/internal/config"
	"github.com/theirongolddev/spendcast/internal/forecast"
	"github.com/theirongolddev/spendcast/internal/tui/components"
	"github.com/theirongolddev/spendcast/internal/tui/theme"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	settingsFieldTheme = iota
	settingsFieldCategories
	settingsFieldHorizon
	settingsFieldMinHistory
	settingsFieldModel
	settingsFieldRowLimit
	settingsFieldCount // sentinel
)

// settingsState tracks the settings tab state.
type settingsState struct {
	cursor  int
	editing bool
	input   textinput.Model
	saved   bool  // flash "saved" message briefly
	saveErr error // non-nil if last save or re-run failed
}

func newSettingsInput() textinput.Model {
	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 50
	return ti
}

func (a App) updateSettingsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch msg.String() {
	case "j", "down":
		if a.settings.cursor < settingsFieldCount-1 {
			a.settings.cursor++
		}
		return a, nil, true
	case "k", "up":
		if a.settings.cursor > 0 {
			a.settings.cursor--
		}
		return a, nil, true
	case "enter":
		m, cmd := a.settingsStartEdit()
		return m, cmd, true
	}
	return a, nil, false
}

func (a App) settingsStartEdit() (tea.Model, tea.Cmd) {
	a.settings.editing = true
	a.settings.saved = false

	ti := newSettingsInput()
	ti.SetValue(settingsValue(a.cfg, a.settings.cursor))

	switch a.settings.cursor {
	case settingsFieldTheme:
		ti.Placeholder = strings.Join(theme.Names(), ", ")
	case settingsFieldCategories:
		ti.Placeholder = "Fun, Necessities"
	case settingsFieldHorizon:
		ti.Placeholder = "12 (months)"
	case settingsFieldMinHistory:
		ti.Placeholder = "12 (months)"
	case settingsFieldModel:
		ti.Placeholder = "sarima, seasonal-naive"
	case settingsFieldRowLimit:
		ti.Placeholder = "500"
	}

	ti.Focus()
	a.settings.input = ti
	return a, textinput.Blink
}

func (a App) updateSettingsInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.settings.editing = false
		rerun, err := a.settingsSave()
		a.settings.saveErr = err
		a.settings.saved = err == nil
		if err == nil && rerun {
			a.running = true
			return a, tea.Batch(rerunCmd(a.loadRows(), a.cfg.Forecast), a.spinner.Tick)
		}
		return a, nil
	case "esc":
		a.settings.editing = false
		return a, nil
	}

	var cmd tea.Cmd
	a.settings.input, cmd = a.settings.input.Update(msg)
	return a, cmd
}

func settingsValue(cfg config.Config, field int) string {
	switch field {
	case settingsFieldTheme:
		return cfg.Appearance.Theme
	case settingsFieldCategories:
		return strings.Join(cfg.Forecast.Categories, ", ")
	case settingsFieldHorizon:
		return strconv.Itoa(cfg.Forecast.HorizonMonths)
	case settingsFieldMinHistory:
		return strconv.Itoa(cfg.Forecast.MinHistory)
	case settingsFieldModel:
		return cfg.Forecast.Model
	case settingsFieldRowLimit:
		return strconv.Itoa(cfg.Query.RowLimit)
	}
	return ""
}

// applySetting parses val into field of cfg. It reports whether the
// forecast must be recomputed.
func applySetting(cfg *config.Config, field int, val string) (bool, error) {
	switch field {
	case settingsFieldTheme:
		if !theme.Known(val) {
			return false, fmt.Errorf("unknown theme %q", val)
		}
		cfg.Appearance.Theme = val
		return false, nil
	case settingsFieldCategories:
		var cats []string
		for _, c := range strings.Split(val, ",") {
			if c = strings.TrimSpace(c); c != "" {
				cats = append(cats, c)
			}
		}
		cfg.Forecast.Categories = cats
		return true, nil
	case settingsFieldHorizon, settingsFieldMinHistory, settingsFieldRowLimit:
		n, err := strconv.Atoi(val)
		if err != nil || n < 1 {
			return false, fmt.Errorf("want a positive number, got %q", val)
		}
		switch field {
		case settingsFieldHorizon:
			cfg.Forecast.HorizonMonths = n
		case settingsFieldMinHistory:
			cfg.Forecast.MinHistory = n
		default:
			cfg.Query.RowLimit = n
			return false, nil
		}
		return true, nil
	case settingsFieldModel:
		next := cfg.Forecast
		next.Model = val
		if _, err := forecast.FromConfig(next); err != nil {
			return false, err
		}
		cfg.Forecast.Model = val
		return true, nil
	}
	return false, nil
}

// settingsSave applies the edited value to the running config and to the
// config file. Flags and environment overrides are not written back.
func (a *App) settingsSave() (bool, error) {
	val := strings.TrimSpace(a.settings.input.Value())

	rerun, err := applySetting(&a.cfg, a.settings.cursor, val)
	if err != nil {
		return false, err
	}
	if a.settings.cursor == settingsFieldTheme {
		theme.SetActive(a.cfg.Appearance.Theme)
		a.fc.table.SetStyles(tableStyles())
		a.query.table.SetStyles(tableStyles())
	}

	onDisk, err := config.LoadFile(config.ConfigPath())
	if err != nil {
		return rerun, err
	}
	if _, err := applySetting(&onDisk, a.settings.cursor, val); err != nil {
		return rerun, err
	}
	return rerun, config.Save(onDisk)
}

func (a App) renderSettingsTab(cw int) string {
	t := theme.Active

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	selectedStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Highlight).Bold(true)
	selectedLabelStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Highlight).Bold(true)
	accentStyle := lipgloss.NewStyle().Foreground(t.AccentBright)
	greenStyle := lipgloss.NewStyle().Foreground(t.Saved)
	markerStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Highlight)

	labels := []string{"Theme", "Categories", "Horizon (months)", "Min History", "Model", "Query Row Limit"}

	var formBody strings.Builder
	for i, label := range labels {
		value := settingsValue(a.cfg, i)

		if a.settings.editing && i == a.settings.cursor {
			formBody.WriteString(markerStyle.Render("▸ "))
			formBody.WriteString(accentStyle.Render(fmt.Sprintf("%-18s ", label)))
			formBody.WriteString(a.settings.input.View())
			formBody.WriteString("\n")
			continue
		}

		if i == a.settings.cursor {
			marker := markerStyle.Render("▸ ")
			lbl := selectedLabelStyle.Render(fmt.Sprintf("%-18s ", label+":"))
			val := selectedStyle.Render(value)
			formBody.WriteString(marker + lbl + val)
			used := lipgloss.Width(marker) + lipgloss.Width(lbl) + lipgloss.Width(val)
			if pad := components.CardInnerWidth(cw) - used; pad > 0 {
				formBody.WriteString(lipgloss.NewStyle().Background(t.Highlight).Render(strings.Repeat(" ", pad)))
			}
		} else {
			formBody.WriteString("  ")
			formBody.WriteString(labelStyle.Render(fmt.Sprintf("%-18s ", label+":")))
			formBody.WriteString(valueStyle.Render(value))
		}
		formBody.WriteString("\n")
	}

	if a.settings.saveErr != nil {
		warnStyle := lipgloss.NewStyle().Foreground(t.Warning)
		formBody.WriteString("\n")
		formBody.WriteString(warnStyle.Render(fmt.Sprintf("Save failed: %s", a.settings.saveErr)))
	} else if a.settings.saved {
		formBody.WriteString("\n")
		formBody.WriteString(greenStyle.Render("Saved!"))
	}

	formBody.WriteString("\n")
	formBody.WriteString(labelStyle.Render("[j/k] navigate  [Enter] edit  [Esc] cancel"))

	var infoBody strings.Builder
	infoBody.WriteString(labelStyle.Render("Input file:   ") + valueStyle.Render(a.cfg.Data.Path) + "\n")
	if a.load != nil {
		infoBody.WriteString(labelStyle.Render("Rows loaded:  ") + valueStyle.Render(cli.FormatNumber(int64(len(a.load.Rows)))) + "\n")
		infoBody.WriteString(labelStyle.Render("Rows skipped: ") + valueStyle.Render(cli.FormatNumber(int64(a.load.Skipped))) + "\n")
	}
	infoBody.WriteString(labelStyle.Render("Load time:    ") + valueStyle.Render(fmt.Sprintf("%.1fs", a.loadTime.Seconds())) + "\n")
	infoBody.WriteString(labelStyle.Render("Config file:  ") + valueStyle.Render(config.ConfigPath()))

	var b strings.Builder
	b.WriteString(components.ContentCard("Settings", formBody.String(), cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("General", infoBody.String(), cw))

	return b.String()
}
