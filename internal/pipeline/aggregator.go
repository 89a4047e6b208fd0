package pipeline

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/spendcast/internal/model"
)

// Aggregate groups classified rows by (type, month) and sums their amounts.
// Each series is sorted ascending by month. Gaps are left as gaps.
func Aggregate(rows []model.Row) map[string]model.Series {
	type key struct {
		typ   string
		month time.Time
	}
	sums := make(map[key]decimal.Decimal)
	for _, r := range rows {
		k := key{typ: r.Category, month: model.TruncateMonth(r.Month)}
		sums[k] = sums[k].Add(r.Amount)
	}

	out := make(map[string]model.Series)
	for k, total := range sums {
		s := out[k.typ]
		s.Type = k.typ
		s.Points = append(s.Points, model.Point{Month: k.month, Total: total})
		out[k.typ] = s
	}
	for t, s := range out {
		sort.Slice(s.Points, func(i, j int) bool {
			return s.Points[i].Month.Before(s.Points[j].Month)
		})
		out[t] = s
	}
	return out
}

// SortedTypes returns the keys of a series map in ascending order.
func SortedTypes[V any](m map[string]V) []string {
	types := make([]string, 0, len(m))
	for t := range m {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Regularize expands a series onto a gap-free monthly grid from its first to
// its last observed month. Missing months get zero so the axis is continuous
// for seasonal models.
func Regularize(s model.Series) []model.Point {
	if len(s.Points) == 0 {
		return nil
	}

	byMonth := make(map[time.Time]decimal.Decimal, len(s.Points))
	for _, p := range s.Points {
		byMonth[p.Month] = byMonth[p.Month].Add(p.Total)
	}

	first := s.Points[0].Month
	last := s.Points[len(s.Points)-1].Month
	n := model.MonthsBetween(first, last) + 1

	out := make([]model.Point, 0, n)
	for m := first; !m.After(last); m = model.NextMonth(m) {
		out = append(out, model.Point{Month: m, Total: byMonth[m]})
	}
	return out
}

// MonthShare is one type's slice of a month's combined total.
type MonthShare struct {
	Month   time.Time
	Type    string
	Total   decimal.Decimal
	Percent float64 // 0-100
}

// MonthlyShares computes, for each month with data, every type's share of
// the month's combined total. Output is sorted by (month, type).
func MonthlyShares(series map[string]model.Series) []MonthShare {
	monthTotals := make(map[time.Time]decimal.Decimal)
	for _, s := range series {
		for _, p := range s.Points {
			monthTotals[p.Month] = monthTotals[p.Month].Add(p.Total)
		}
	}

	var out []MonthShare
	for _, t := range SortedTypes(series) {
		for _, p := range series[t].Points {
			share := MonthShare{Month: p.Month, Type: t, Total: p.Total}
			if mt := monthTotals[p.Month]; !mt.IsZero() {
				share.Percent = p.Total.Div(mt).Mul(decimal.NewFromInt(100)).Round(2).InexactFloat64()
			}
			out = append(out, share)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Month.Equal(out[j].Month) {
			return out[i].Month.Before(out[j].Month)
		}
		return out[i].Type < out[j].Type
	})
	return out
}
