package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// QueryResult holds the rows returned by an ad-hoc SQL query.
type QueryResult struct {
	Columns []string
	Rows    [][]any
	Numeric []bool // per column: every non-null value is a number

	Truncated bool // more rows were available than the limit
}

// Column returns the index of a column by case-insensitive name, or -1.
func (r *QueryResult) Column(name string) int {
	for i, c := range r.Columns {
		if strings.EqualFold(c, name) {
			return i
		}
	}
	return -1
}

// NumericColumns returns the names of numeric columns in order.
func (r *QueryResult) NumericColumns() []string {
	var cols []string
	for i, c := range r.Columns {
		if r.Numeric[i] {
			cols = append(cols, c)
		}
	}
	return cols
}

// Float returns the numeric value of a cell. Nulls and text read as 0.
func (r *QueryResult) Float(row, col int) float64 {
	switch v := r.Rows[row][col].(type) {
	case int64:
		return float64(v)
	case float64:
		return v
	case string:
		f, _ := strconv.ParseFloat(v, 64)
		return f
	}
	return 0
}

// Cell renders a value for display.
func (r *QueryResult) Cell(row, col int) string {
	switch v := r.Rows[row][col].(type) {
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case time.Time:
		return v.Format("2006-01-02")
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}

// NormalizeMonth rewrites a "month" column to YYYY-MM and drops rows whose
// month cannot be parsed. It is a no-op when there is no such column.
func (r *QueryResult) NormalizeMonth() {
	col := r.Column("month")
	if col < 0 {
		return
	}
	kept := r.Rows[:0]
	for _, row := range r.Rows {
		if NormalizeMonthCell(row, col) {
			kept = append(kept, row)
		}
	}
	r.Rows = kept
	r.Numeric[col] = false
}

// NormalizeMonthCell rewrites row[col] to YYYY-MM in place. It reports
// false when the cell is not a month.
func NormalizeMonthCell(row []any, col int) bool {
	var (
		m  time.Time
		ok bool
	)
	switch v := row[col].(type) {
	case time.Time:
		m, ok = TruncateMonth(v), true
	case string:
		m, ok = ParseMonth(v)
	case []byte:
		m, ok = ParseMonth(string(v))
	}
	if ok {
		row[col] = FormatMonth(m)
	}
	return ok
}
