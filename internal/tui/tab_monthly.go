package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/spendcast/internal/cli"
	"github.com/theirongolddev/spendcast/internal/pipeline"
	"github.com/theirongolddev/spendcast/internal/tui/components"
	"github.com/theirongolddev/spendcast/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// monthlyState tracks the Monthly tab.
type monthlyState struct {
	shares []pipeline.MonthShare
	offset int // months scrolled past, newest first
}

// monthBlock is one month's shares with its combined total.
type monthBlock struct {
	month  time.Time
	total  decimal.Decimal
	shares []pipeline.MonthShare
}

// monthBlocks groups shares by month, newest first.
func monthBlocks(shares []pipeline.MonthShare) []monthBlock {
	var blocks []monthBlock
	for _, s := range shares {
		if n := len(blocks); n == 0 || !blocks[n-1].month.Equal(s.Month) {
			blocks = append(blocks, monthBlock{month: s.Month})
		}
		b := &blocks[len(blocks)-1]
		b.total = b.total.Add(s.Total)
		b.shares = append(b.shares, s)
	}
	for i, j := 0, len(blocks)-1; i < j; i, j = i+1, j-1 {
		blocks[i], blocks[j] = blocks[j], blocks[i]
	}
	return blocks
}

func (a App) updateMonthlyKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	n := len(monthBlocks(a.monthly.shares))
	switch msg.String() {
	case "j", "down":
		if a.monthly.offset < n-1 {
			a.monthly.offset++
		}
		return a, nil, true
	case "k", "up":
		if a.monthly.offset > 0 {
			a.monthly.offset--
		}
		return a, nil, true
	case "g":
		a.monthly.offset = 0
		return a, nil, true
	case "G":
		a.monthly.offset = max(n-1, 0)
		return a, nil, true
	}
	return a, nil, false
}

func (a App) renderMonthlyTab(cw, h int) string {
	t := theme.Active
	blocks := monthBlocks(a.monthly.shares)
	if len(blocks) == 0 {
		return components.ContentCard("Monthly", "No historical data", cw)
	}

	var types []string
	if a.result != nil {
		types = pipeline.SortedTypes(a.result.Historical)
	}
	colorIdx := make(map[string]int, len(types))
	for i, typ := range types {
		colorIdx[typ] = i
	}

	monthStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Bold(true)
	totalStyle := lipgloss.NewStyle().Foreground(t.TextMuted)

	inner := components.CardInnerWidth(cw)
	labelW := 14
	barW := max(inner-labelW-22, 10)

	var body strings.Builder
	lines := 0
	for i := a.monthly.offset; i < len(blocks); i++ {
		blk := blocks[i]
		need := len(blk.shares) + 2
		if lines > 0 && lines+need > h-4 {
			break
		}

		header := monthStyle.Render(cli.FormatMonth(blk.month)) + "  " +
			totalStyle.Render(cli.FormatDecimal(blk.total))
		if i+1 < len(blocks) {
			prev := blocks[i+1]
			cur, before := blk.total.InexactFloat64(), prev.total.InexactFloat64()
			header += "  " + components.ToneStyle(components.SpendTone(cur, before)).Render(cli.FormatChange(cur, before)+" vs "+cli.FormatMonth(prev.month))
		}
		body.WriteString(header)
		body.WriteString("\n")

		for _, s := range blk.shares {
			body.WriteString(components.ShareBar(s.Type, s.Percent, colorIdx[s.Type], labelW, barW))
			body.WriteString("  ")
			body.WriteString(totalStyle.Render(cli.FormatDecimal(s.Total)))
			body.WriteString("\n")
		}
		body.WriteString("\n")
		lines += need
	}

	title := fmt.Sprintf("Share of Monthly Spend (%d/%d)", a.monthly.offset+1, len(blocks))
	return components.ContentCard(title, strings.TrimRight(body.String(), "\n"), cw)
}
