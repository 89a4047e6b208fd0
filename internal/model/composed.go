package model

import "time"

// Source tags where a composed point came from.
type Source string

const (
	SourceHistorical Source = "historical"
	SourceForecast   Source = "forecast"
)

// ComposedPoint is one row of the historical + forecast table.
type ComposedPoint struct {
	Month  time.Time
	Type   string
	Total  float64
	Source Source
}

// Composed is the final artifact handed to the presenters. It is sorted by
// (type, month) and Transition holds the latest historical month.
type Composed struct {
	Points     []ComposedPoint
	Transition time.Time
}

// Types returns the distinct types in output order.
func (c Composed) Types() []string {
	var types []string
	for i, p := range c.Points {
		if i == 0 || c.Points[i-1].Type != p.Type {
			types = append(types, p.Type)
		}
	}
	return types
}

// ForType returns the contiguous segment for one type.
func (c Composed) ForType(t string) []ComposedPoint {
	start, end := -1, -1
	for i, p := range c.Points {
		if p.Type != t {
			if start >= 0 {
				break
			}
			continue
		}
		if start < 0 {
			start = i
		}
		end = i + 1
	}
	if start < 0 {
		return nil
	}
	return c.Points[start:end]
}

// Months returns the distinct months across all types, ascending.
func (c Composed) Months() []time.Time {
	seen := make(map[time.Time]struct{})
	var months []time.Time
	for _, p := range c.Points {
		if _, ok := seen[p.Month]; ok {
			continue
		}
		seen[p.Month] = struct{}{}
		months = append(months, p.Month)
	}
	sortMonths(months)
	return months
}

// Count returns the number of points per source.
func (c Composed) Count(src Source) int {
	n := 0
	for _, p := range c.Points {
		if p.Source == src {
			n++
		}
	}
	return n
}
