// Package theme defines color themes for the spendcast dashboard.
package theme

import "github.com/charmbracelet/lipgloss"

// Theme maps dashboard roles to colors. Series is the chart palette, one
// color per type in plot order.
type Theme struct {
	Name string

	Border       lipgloss.Color
	BorderAccent lipgloss.Color // help and loading frames
	Selection    lipgloss.Color // selected table row background
	Highlight    lipgloss.Color // settings cursor background

	TextDim     lipgloss.Color
	TextMuted   lipgloss.Color
	TextPrimary lipgloss.Color

	Accent       lipgloss.Color
	AccentBright lipgloss.Color
	Key          lipgloss.Color // key names in help and bars

	Forecast lipgloss.Color // forecast values and rows
	Marker   lipgloss.Color // transition marker and errors
	Warning  lipgloss.Color
	Saved    lipgloss.Color
	Less     lipgloss.Color // spending fell
	More     lipgloss.Color // spending grew

	Series []lipgloss.Color
}

// Active is the currently selected theme.
var Active = FlexokiDark

// FlexokiDark is the default theme, warm and paper-like.
var FlexokiDark = Theme{
	Name:         "flexoki-dark",
	Border:       "#403E3C",
	BorderAccent: "#3AA99F",
	Selection:    "#282726",
	Highlight:    "#343331",
	TextDim:      "#575653",
	TextMuted:    "#878580",
	TextPrimary:  "#FFFCF0",
	Accent:       "#3AA99F",
	AccentBright: "#5BC8BE",
	Key:          "#24837B",
	Forecast:     "#8B7EC8",
	Marker:       "#D14D41",
	Warning:      "#DA702C",
	Saved:        "#A3B859",
	Less:         "#879A39",
	More:         "#D14D41",
	Series:       []lipgloss.Color{"#4385BE", "#DA702C", "#879A39", "#CE5D97", "#D0A215", "#24837B"},
}

// CatppuccinMocha is a soft pastel theme.
var CatppuccinMocha = Theme{
	Name:         "catppuccin-mocha",
	Border:       "#585B70",
	BorderAccent: "#89B4FA",
	Selection:    "#45475A",
	Highlight:    "#585B70",
	TextDim:      "#6C7086",
	TextMuted:    "#A6ADC8",
	TextPrimary:  "#CDD6F4",
	Accent:       "#89B4FA",
	AccentBright: "#B4D0FB",
	Key:          "#94E2D5",
	Forecast:     "#CBA6F7",
	Marker:       "#F38BA8",
	Warning:      "#FAB387",
	Saved:        "#C6F6C1",
	Less:         "#A6E3A1",
	More:         "#F38BA8",
	Series:       []lipgloss.Color{"#89B4FA", "#FAB387", "#A6E3A1", "#F5C2E7", "#F9E2AF", "#94E2D5"},
}

// TokyoNight is a cool blue and purple theme.
var TokyoNight = Theme{
	Name:         "tokyo-night",
	Border:       "#565F89",
	BorderAccent: "#7AA2F7",
	Selection:    "#343A52",
	Highlight:    "#414868",
	TextDim:      "#565F89",
	TextMuted:    "#A9B1D6",
	TextPrimary:  "#C0CAF5",
	Accent:       "#7AA2F7",
	AccentBright: "#A9C1FF",
	Key:          "#7DCFFF",
	Forecast:     "#BB9AF7",
	Marker:       "#F7768E",
	Warning:      "#FF9E64",
	Saved:        "#B9E87A",
	Less:         "#9ECE6A",
	More:         "#F7768E",
	Series:       []lipgloss.Color{"#7AA2F7", "#FF9E64", "#9ECE6A", "#73DACA", "#E0AF68", "#7DCFFF"},
}

// Terminal sticks to the 16 ANSI colors.
var Terminal = Theme{
	Name:         "terminal",
	Border:       "8",
	BorderAccent: "6",
	Selection:    "8",
	Highlight:    "8",
	TextDim:      "8",
	TextMuted:    "7",
	TextPrimary:  "15",
	Accent:       "6",
	AccentBright: "14",
	Key:          "6",
	Forecast:     "13",
	Marker:       "1",
	Warning:      "3",
	Saved:        "10",
	Less:         "2",
	More:         "1",
	Series:       []lipgloss.Color{"4", "3", "2", "5", "11", "6"},
}

// All available themes, in the order the settings tab offers them.
var All = []Theme{FlexokiDark, CatppuccinMocha, TokyoNight, Terminal}

// ByName returns a theme by its name, defaulting to FlexokiDark.
func ByName(name string) Theme {
	for _, t := range All {
		if t.Name == name {
			return t
		}
	}
	return FlexokiDark
}

// Names lists theme names in display order.
func Names() []string {
	names := make([]string, len(All))
	for i, t := range All {
		names[i] = t.Name
	}
	return names
}

// Known reports whether name is a defined theme.
func Known(name string) bool {
	for _, t := range All {
		if t.Name == name {
			return true
		}
	}
	return false
}

// SetActive sets the active theme by name.
func SetActive(name string) {
	Active = ByName(name)
}

// SeriesColor returns the chart color for series index i.
func (t Theme) SeriesColor(i int) lipgloss.Color {
	if len(t.Series) == 0 {
		return t.TextPrimary
	}
	if i < 0 {
		i = -i
	}
	return t.Series[i%len(t.Series)]
}
