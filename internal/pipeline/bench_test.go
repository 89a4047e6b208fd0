package pipeline

import (
	"context"
	"testing"

	"github.com/theirongolddev/spendcast/internal/forecast"
	"github.com/theirongolddev/spendcast/internal/model"
)

func benchRows() []model.Row {
	var rows []model.Row
	for _, c := range []string{"Fun", "Necessities", "Rent", "Travel", "Groceries"} {
		for day := 0; day < 20; day++ {
			rows = append(rows, monthlyRows(month(2020, 1), c, 48)...)
		}
	}
	return rows
}

func BenchmarkAggregate(b *testing.B) {
	rows := ClassifyRows(benchRows(), NewAllowList("Fun", "Necessities"))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Aggregate(rows)
	}
}

func BenchmarkRun(b *testing.B) {
	rows := benchRows()
	opts := defaultOptions(forecast.DefaultSARIMA())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Run(context.Background(), rows, opts); err != nil {
			b.Fatal(err)
		}
	}
}
