package model

import "testing"

func TestNormalizeMonth(t *testing.T) {
	r := &QueryResult{
		Columns: []string{"Month", "total"},
		Numeric: []bool{false, true},
		Rows: [][]any{
			{"2023-01-01", float64(-10)},
			{nil, float64(-5)},
			{"garbage", float64(-1)},
			{[]byte("2023-02-15"), int64(-3)},
		},
	}

	r.NormalizeMonth()

	if len(r.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(r.Rows))
	}
	if got := r.Cell(0, 0); got != "2023-01" {
		t.Fatalf("row 0 month = %q, want 2023-01", got)
	}
	if got := r.Cell(1, 0); got != "2023-02" {
		t.Fatalf("row 1 month = %q, want 2023-02", got)
	}
	if got := r.Float(1, 1); got != -3 {
		t.Fatalf("row 1 total = %v, want -3", got)
	}
}

func TestNormalizeMonthWithoutColumn(t *testing.T) {
	r := &QueryResult{
		Columns: []string{"category"},
		Numeric: []bool{false},
		Rows:    [][]any{{"Fun"}},
	}
	r.NormalizeMonth()
	if len(r.Rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(r.Rows))
	}
	if cols := r.NumericColumns(); len(cols) != 0 {
		t.Fatalf("NumericColumns() = %v, want none", cols)
	}
}
