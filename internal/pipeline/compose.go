package pipeline

import (
	"sort"

	"github.com/theirongolddev/spendcast/internal/model"
)

// Compose merges each type's history with its forecast into one table
// sorted by (type, month). Types with no history are left out; types with
// no forecast are history-only. Transition is the latest historical month
// across all types.
func Compose(historical map[string]model.Series, forecasts map[string][]model.ForecastPoint) model.Composed {
	var out model.Composed

	for _, t := range SortedTypes(historical) {
		s := historical[t]
		if len(s.Points) == 0 {
			continue
		}

		for _, p := range s.Points {
			out.Points = append(out.Points, model.ComposedPoint{
				Month:  p.Month,
				Type:   t,
				Total:  p.Total.InexactFloat64(),
				Source: model.SourceHistorical,
			})
			if p.Month.After(out.Transition) {
				out.Transition = p.Month
			}
		}

		last := s.Points[len(s.Points)-1].Month
		for _, fp := range forecasts[t] {
			if !fp.Month.After(last) {
				continue
			}
			out.Points = append(out.Points, model.ComposedPoint{
				Month:  fp.Month,
				Type:   t,
				Total:  fp.Total,
				Source: model.SourceForecast,
			})
		}
	}

	sort.SliceStable(out.Points, func(i, j int) bool {
		a, b := out.Points[i], out.Points[j]
		if a.Type != b.Type {
			return a.Type < b.Type
		}
		return a.Month.Before(b.Month)
	})
	return out
}
