package chart

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/theirongolddev/spendcast/internal/model"
)

// ErrNoNumeric is returned when a query result has nothing to plot.
var ErrNoNumeric = errors.New("no numeric column to plot")

// FromComposed builds one series per type over the union of months, with
// the marker on the transition month.
func FromComposed(c model.Composed, kind Kind) Plot {
	months := c.Months()
	index := make(map[int64]int, len(months))
	labels := make([]string, len(months))
	for i, m := range months {
		index[m.Unix()] = i
		labels[i] = model.FormatMonth(m)
	}

	var series []Series
	for _, t := range c.Types() {
		values := nanSlice(len(months))
		for _, p := range c.ForType(t) {
			values[index[p.Month.Unix()]] = p.Total
		}
		series = append(series, Series{Name: t, Values: values})
	}

	marker := -1
	if i, ok := index[c.Transition.Unix()]; ok && !c.Transition.IsZero() {
		marker = i
	}

	return Plot{Kind: kind, Labels: labels, Series: series, Marker: marker}
}

// Axes are the resolved columns of a query plot.
type Axes struct {
	X  string
	Ys []string
}

// QueryAxes resolves the x and y columns for a result. An empty x picks the
// first column. Empty ys picks the first numeric column.
func QueryAxes(res *model.QueryResult, x string, ys []string) (Axes, error) {
	if len(res.Columns) == 0 {
		return Axes{}, ErrNoNumeric
	}

	xi := 0
	if x != "" {
		if xi = res.Column(x); xi < 0 {
			return Axes{}, fmt.Errorf("unknown x column %q", x)
		}
	}

	var out []string
	for _, y := range ys {
		yi := res.Column(y)
		if yi < 0 {
			return Axes{}, fmt.Errorf("unknown y column %q", y)
		}
		if !res.Numeric[yi] {
			return Axes{}, fmt.Errorf("y column %q is not numeric", y)
		}
		out = append(out, res.Columns[yi])
	}
	if len(out) == 0 {
		if cols := res.NumericColumns(); len(cols) > 0 {
			out = cols[:1]
		}
	}
	if len(out) == 0 {
		return Axes{}, ErrNoNumeric
	}
	return Axes{X: res.Columns[xi], Ys: out}, nil
}

// IsShareResult reports whether res looks like the type_shares view.
func IsShareResult(res *model.QueryResult) bool {
	pi := res.Column("percent_share")
	return res.Column("month") >= 0 && res.Column("type") >= 0 && pi >= 0 && res.Numeric[pi]
}

// ShareTitle heads the plot built by SharePlot.
const ShareTitle = "Share of Each Type by Month (%)"

// SharePlot pivots a share result into a bar plot with one series per type
// over months. ok is false when res is not a share result.
func SharePlot(res *model.QueryResult) (p Plot, ok bool) {
	if !IsShareResult(res) {
		return Plot{}, false
	}
	mi, ti, pi := res.Column("month"), res.Column("type"), res.Column("percent_share")

	var months, types []string
	seenM := map[string]int{}
	seenT := map[string]int{}
	for r := range res.Rows {
		m, t := res.Cell(r, mi), res.Cell(r, ti)
		if _, ok := seenM[m]; !ok {
			seenM[m] = 0
			months = append(months, m)
		}
		if _, ok := seenT[t]; !ok {
			seenT[t] = 0
			types = append(types, t)
		}
	}
	sort.Strings(months)
	sort.Strings(types)
	for i, m := range months {
		seenM[m] = i
	}
	for i, t := range types {
		seenT[t] = i
	}

	series := make([]Series, len(types))
	for i, t := range types {
		series[i] = Series{Name: t, Values: nanSlice(len(months))}
	}
	for r := range res.Rows {
		series[seenT[res.Cell(r, ti)]].Values[seenM[res.Cell(r, mi)]] = res.Float(r, pi)
	}

	return Plot{Kind: Bar, Labels: months, Series: series, Marker: -1}, true
}

// FromQuery plots the axes columns of a query result. Bar charts sort by
// the first y descending.
func FromQuery(res *model.QueryResult, kind Kind, axes Axes) Plot {
	xi := res.Column(axes.X)
	yis := make([]int, len(axes.Ys))
	for i, y := range axes.Ys {
		yis[i] = res.Column(y)
	}

	order := make([]int, len(res.Rows))
	for i := range order {
		order[i] = i
	}
	if kind == Bar && len(yis) > 0 {
		sort.SliceStable(order, func(a, b int) bool {
			return res.Float(order[a], yis[0]) > res.Float(order[b], yis[0])
		})
	}

	labels := make([]string, len(order))
	series := make([]Series, len(yis))
	for s, yi := range yis {
		series[s] = Series{Name: res.Columns[yi], Values: make([]float64, len(order))}
	}
	for i, r := range order {
		labels[i] = res.Cell(r, xi)
		for s, yi := range yis {
			if res.Rows[r][yi] == nil {
				series[s].Values[i] = math.NaN()
				continue
			}
			series[s].Values[i] = res.Float(r, yi)
		}
	}

	return Plot{Kind: kind, Labels: labels, Series: series, Marker: -1}
}

func nanSlice(n int) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = math.NaN()
	}
	return v
}
