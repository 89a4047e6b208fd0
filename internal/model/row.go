package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Row is one loaded record: a month, its raw category and a signed amount.
// Expenses are negative.
type Row struct {
	Month    time.Time
	Category string
	Amount   decimal.Decimal
}

// Point is one monthly total within a series.
type Point struct {
	Month time.Time
	Total decimal.Decimal
}

// Series is the monthly history of a single type.
// Months are strictly increasing with no duplicates.
type Series struct {
	Type   string
	Points []Point
}

// Len returns the number of observed months.
func (s Series) Len() int { return len(s.Points) }

// Last returns the most recent observed month.
func (s Series) Last() (time.Time, bool) {
	if len(s.Points) == 0 {
		return time.Time{}, false
	}
	return s.Points[len(s.Points)-1].Month, true
}

// ForecastPoint is a predicted monthly total for a type.
type ForecastPoint struct {
	Month time.Time
	Type  string
	Total float64
}
