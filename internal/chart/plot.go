package chart

import (
	"math"
	"strings"
)

// Cell owners besides series indexes.
const (
	Empty  = -1
	Axis   = -2
	Marker = -3
)

// Series is one named line or bar set. NaN values are gaps.
type Series struct {
	Name   string
	Values []float64
}

// Plot describes a chart to draw.
type Plot struct {
	Kind   Kind
	Labels []string // x-axis labels, one per point
	Series []Series
	Marker int // x index of a vertical marker line, -1 for none
	Width  int
	Height int
}

// Cell is one character position on the canvas.
type Cell struct {
	Rune  rune
	Owner int // series index, or Empty, Axis, Marker
}

// Canvas is a drawn plot: one gutter label and one cell row per line,
// followed by the x axis and its labels.
type Canvas struct {
	Gutter []string
	Rows   [][]Cell
	Axis   string
	XLabel string
	Width  int // gutter plus plot area
}

// Draw renders p onto a canvas. It returns an empty canvas when there is
// nothing to draw or the area is too small.
func Draw(p Plot) Canvas {
	n := 0
	for _, s := range p.Series {
		n = max(n, len(s.Values))
	}
	if p.Kind == None || n == 0 || p.Width < 12 || p.Height < 4 {
		return Canvas{}
	}

	minV, maxV := math.Inf(1), math.Inf(-1)
	for _, s := range p.Series {
		for _, v := range s.Values {
			if math.IsNaN(v) {
				continue
			}
			minV = math.Min(minV, v)
			maxV = math.Max(maxV, v)
		}
	}
	if math.IsInf(minV, 1) {
		return Canvas{}
	}

	plotH := p.Height - 2
	sc := newScale(minV, maxV, p.Kind != Line, plotH)

	gutterW := 0
	ticks := sc.ticks()
	for _, t := range ticks {
		gutterW = max(gutterW, len(FormatLabel(t)))
	}
	gutterW++
	plotW := p.Width - gutterW - 1
	if plotW < 4 {
		return Canvas{}
	}

	grid := make([][]Cell, plotH)
	for r := range grid {
		grid[r] = make([]Cell, plotW)
		for c := range grid[r] {
			grid[r][c] = Cell{Rune: ' ', Owner: Empty}
		}
	}
	set := func(r, c int, ch rune, owner int) {
		if r >= 0 && r < plotH && c >= 0 && c < plotW {
			grid[r][c] = Cell{Rune: ch, Owner: owner}
		}
	}

	zeroRow := -1
	if sc.lo < 0 && sc.hi > 0 {
		zeroRow = sc.row(0)
		for c := 0; c < plotW; c++ {
			set(zeroRow, c, '┄', Axis)
		}
	}
	base := sc.row(math.Max(sc.lo, math.Min(0, sc.hi)))

	var col func(i int) int
	switch p.Kind {
	case Bar:
		col = drawBars(p, n, plotW, sc, base, set)
	default:
		col = drawLines(p, n, plotW, sc, base, set)
	}

	if p.Marker >= 0 && p.Marker < n {
		c := col(p.Marker)
		for r := 0; r < plotH; r++ {
			if grid[r][c].Owner == Empty || grid[r][c].Owner == Axis {
				set(r, c, '┊', Marker)
			}
		}
	}

	gutter := make([]string, plotH)
	for _, t := range ticks {
		gutter[sc.row(t)] = FormatLabel(t)
	}
	for r := range gutter {
		gutter[r] = strings.Repeat(" ", gutterW-len(gutter[r])) + gutter[r]
	}

	return Canvas{
		Gutter: gutter,
		Rows:   grid,
		Axis:   strings.Repeat(" ", gutterW) + "└" + strings.Repeat("─", plotW),
		XLabel: strings.Repeat(" ", gutterW+1) + xLabels(p.Labels, n, plotW, col),
		Width:  gutterW + 1 + plotW,
	}
}

func drawLines(p Plot, n, plotW int, sc scale, base int, set func(r, c int, ch rune, owner int)) func(int) int {
	col := func(i int) int {
		if n <= 1 {
			return 0
		}
		return i * (plotW - 1) / (n - 1)
	}

	for si, s := range p.Series {
		for i := 0; i < len(s.Values); i++ {
			v := s.Values[i]
			if math.IsNaN(v) {
				continue
			}
			c0 := col(i)
			if i+1 < len(s.Values) && !math.IsNaN(s.Values[i+1]) {
				next := s.Values[i+1]
				c1 := col(i + 1)
				for c := c0; c <= c1; c++ {
					frac := 0.0
					if c1 > c0 {
						frac = float64(c-c0) / float64(c1-c0)
					}
					r := sc.row(v + (next-v)*frac)
					if p.Kind == Area {
						fill(r, base, c, si, set)
					}
					set(r, c, '·', si)
				}
			} else if p.Kind == Area {
				fill(sc.row(v), base, c0, si, set)
			}
		}
		// Points go last so joins never hide them.
		for i, v := range s.Values {
			if !math.IsNaN(v) {
				set(sc.row(v), col(i), '●', si)
			}
		}
	}
	return col
}

func fill(r, base, c, owner int, set func(r, c int, ch rune, owner int)) {
	lo, hi := min(r, base), max(r, base)
	for y := lo; y <= hi; y++ {
		set(y, c, '░', owner)
	}
}

func drawBars(p Plot, n, plotW int, sc scale, base int, set func(r, c int, ch rune, owner int)) func(int) int {
	groups := len(p.Series)
	slot := plotW / n
	barW := 1
	if slot > 1 {
		barW = max(1, (slot-1)/groups)
	}
	barW = min(barW, 6)

	col := func(i int) int {
		if slot < 1 {
			return i * (plotW - 1) / max(1, n-1)
		}
		return i*slot + (barW*groups)/2
	}

	for si, s := range p.Series {
		for i, v := range s.Values {
			if math.IsNaN(v) {
				continue
			}
			start := col(i) - (barW*groups)/2 + si*barW
			if slot < 1 {
				start = col(i)
			}
			r := sc.row(v)
			lo, hi := min(r, base), max(r, base)
			for c := start; c < start+barW; c++ {
				for y := lo; y <= hi; y++ {
					set(y, c, '█', si)
				}
			}
		}
	}
	return col
}

// xLabels spreads labels along the axis without overlap and always shows
// the last one.
func xLabels(labels []string, n, plotW int, col func(int) int) string {
	if len(labels) != n || n == 0 {
		return ""
	}
	buf := []rune(strings.Repeat(" ", plotW))

	position := func(i int) (int, []rune) {
		lbl := []rune(labels[i])
		if len(lbl) > plotW {
			lbl = lbl[:plotW]
		}
		pos := col(i) - len(lbl)/2
		return min(max(pos, 0), plotW-len(lbl)), lbl
	}

	finalPos, finalLbl := position(n - 1)
	lastEnd := -2
	for i := 0; i < n-1; i++ {
		pos, lbl := position(i)
		if pos <= lastEnd+1 || pos+len(lbl) >= finalPos {
			continue
		}
		copy(buf[pos:], lbl)
		lastEnd = pos + len(lbl) - 1
	}
	if finalPos > lastEnd+1 {
		copy(buf[finalPos:], finalLbl)
	}
	return strings.TrimRight(string(buf), " ")
}

// Render joins the canvas into text. style is called for each run of cells
// sharing an owner, and for the gutter and axes with Axis.
func (c Canvas) Render(style func(owner int, s string) string) string {
	if len(c.Rows) == 0 {
		return ""
	}
	if style == nil {
		style = func(_ int, s string) string { return s }
	}

	var b strings.Builder
	for r, row := range c.Rows {
		b.WriteString(style(Axis, c.Gutter[r]+"│"))
		start := 0
		for i := 1; i <= len(row); i++ {
			if i == len(row) || row[i].Owner != row[start].Owner {
				var run strings.Builder
				for _, cell := range row[start:i] {
					run.WriteRune(cell.Rune)
				}
				b.WriteString(style(row[start].Owner, run.String()))
				start = i
			}
		}
		b.WriteString("\n")
	}
	b.WriteString(style(Axis, c.Axis))
	if c.XLabel != "" {
		b.WriteString("\n")
		b.WriteString(style(Axis, c.XLabel))
	}
	return b.String()
}

// String renders without styling.
func (c Canvas) String() string { return c.Render(nil) }
