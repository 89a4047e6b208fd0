package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/spendcast/internal/forecast"
	"github.com/theirongolddev/spendcast/internal/model"
)

func month(year int, m time.Month) time.Time {
	return time.Date(year, m, 1, 0, 0, 0, 0, time.UTC)
}

func row(t time.Time, category string, amount int64) model.Row {
	return model.Row{Month: t, Category: category, Amount: decimal.NewFromInt(amount)}
}

// monthlyRows returns one row per month for n months starting at start.
func monthlyRows(start time.Time, category string, n int) []model.Row {
	rows := make([]model.Row, n)
	m := start
	for i := range rows {
		rows[i] = row(m, category, -int64(30+i*5))
		m = model.NextMonth(m)
	}
	return rows
}

// stubModel returns a constant forecast, or fails for listed types' lengths.
type stubModel struct {
	value float64
	fail  map[int]bool // history lengths that fail
	panic bool
}

func (stubModel) Name() string { return "stub" }

func (m stubModel) Fit(_ context.Context, history []float64, horizon int) ([]float64, error) {
	if m.panic {
		panic("boom")
	}
	if m.fail[len(history)] {
		return nil, errors.New("did not converge")
	}
	out := make([]float64, horizon)
	for i := range out {
		out[i] = m.value
	}
	return out, nil
}

var _ forecast.Model = stubModel{}

func defaultOptions(m forecast.Model) Options {
	return Options{
		AllowList:  NewAllowList("Fun", "Necessities"),
		Horizon:    12,
		MinHistory: 12,
		Model:      m,
	}
}
