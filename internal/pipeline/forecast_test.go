package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/theirongolddev/spendcast/internal/model"
)

func TestForecast_TwelvePointsStartAfterLastMonth(t *testing.T) {
	s := Aggregate(monthlyRows(month(2023, 1), "Fun", 12))["Fun"]

	got, err := Forecast(context.Background(), s, ForecastOptions{Horizon: 12, MinHistory: 12, Model: stubModel{value: -40}})
	if err != nil {
		t.Fatalf("Forecast: %v", err)
	}
	if len(got) != 12 {
		t.Fatalf("points = %d, want 12", len(got))
	}
	if !got[0].Month.Equal(month(2024, 1)) {
		t.Fatalf("first forecast = %v, want 2024-01", got[0].Month)
	}
	if !got[11].Month.Equal(month(2024, 12)) {
		t.Fatalf("last forecast = %v, want 2024-12", got[11].Month)
	}
	for i := 1; i < len(got); i++ {
		if !got[i].Month.Equal(model.NextMonth(got[i-1].Month)) {
			t.Fatalf("forecast months not consecutive at %d", i)
		}
	}
}

func TestForecast_BelowMinHistorySkips(t *testing.T) {
	s := Aggregate(monthlyRows(month(2023, 1), "Fun", 5))["Fun"]

	got, err := Forecast(context.Background(), s, ForecastOptions{Horizon: 12, MinHistory: 12, Model: stubModel{}})
	if err != nil {
		t.Fatalf("Forecast: %v", err)
	}
	if got != nil {
		t.Fatalf("points = %d, want none", len(got))
	}

	got, err = Forecast(context.Background(), model.Series{Type: "Empty"}, ForecastOptions{Horizon: 12, MinHistory: 1, Model: stubModel{}})
	if err != nil || got != nil {
		t.Fatalf("empty series: got %v, %v; want nil, nil", got, err)
	}
}

func TestForecast_GapsRegularizedBeforeFit(t *testing.T) {
	rows := monthlyRows(month(2023, 1), "Fun", 12)
	rows = append(rows[:3], rows[4:]...) // drop April

	s := Aggregate(rows)["Fun"]
	if s.Len() != 11 {
		t.Fatalf("observed = %d, want 11", s.Len())
	}

	// 11 observations fail the threshold even though the grid spans 12.
	got, err := Forecast(context.Background(), s, ForecastOptions{Horizon: 3, MinHistory: 12, Model: stubModel{}})
	if err != nil || got != nil {
		t.Fatalf("got %v, %v; want skip", got, err)
	}

	// The model sees the 12-month grid.
	m := stubModel{fail: map[int]bool{11: true}}
	got, err = Forecast(context.Background(), s, ForecastOptions{Horizon: 3, MinHistory: 11, Model: m})
	if err != nil {
		t.Fatalf("Forecast: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("points = %d, want 3", len(got))
	}
}

func TestForecast_FailureIsFitFailure(t *testing.T) {
	s := Aggregate(monthlyRows(month(2023, 1), "Fun", 12))["Fun"]

	_, err := Forecast(context.Background(), s, ForecastOptions{
		Horizon: 12, MinHistory: 12, Model: stubModel{fail: map[int]bool{12: true}},
	})
	var ff *FitFailure
	if !errors.As(err, &ff) {
		t.Fatalf("err = %v, want *FitFailure", err)
	}
	if ff.Type != "Fun" {
		t.Fatalf("Type = %q, want Fun", ff.Type)
	}
}

func TestForecast_PanicRecovered(t *testing.T) {
	s := Aggregate(monthlyRows(month(2023, 1), "Fun", 12))["Fun"]

	_, err := Forecast(context.Background(), s, ForecastOptions{Horizon: 12, MinHistory: 12, Model: stubModel{panic: true}})
	var ff *FitFailure
	if !errors.As(err, &ff) {
		t.Fatalf("err = %v, want *FitFailure", err)
	}
}

func TestForecastAll_IsolatesFailures(t *testing.T) {
	rows := append(monthlyRows(month(2022, 1), "Fun", 24), monthlyRows(month(2023, 1), "Necessities", 12)...)
	series := Aggregate(rows)

	// Necessities has 12 grid points and fails; Fun has 24 and succeeds.
	m := stubModel{value: -1, fail: map[int]bool{12: true}}
	forecasts, failures, err := ForecastAll(context.Background(), series, ForecastOptions{
		Horizon: 6, MinHistory: 12, Workers: 2, Model: m,
	})
	if err != nil {
		t.Fatalf("ForecastAll: %v", err)
	}

	if len(failures) != 1 || failures[0].Type != "Necessities" {
		t.Fatalf("failures = %+v, want one for Necessities", failures)
	}
	if len(forecasts["Fun"]) != 6 {
		t.Fatalf("Fun forecasts = %d, want 6", len(forecasts["Fun"]))
	}
	if _, ok := forecasts["Necessities"]; ok {
		t.Fatal("failed type has forecasts")
	}
}

func TestForecastAll_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	series := Aggregate(monthlyRows(month(2023, 1), "Fun", 12))
	_, _, err := ForecastAll(ctx, series, ForecastOptions{Horizon: 12, MinHistory: 12, Model: ctxModel{}})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

type ctxModel struct{}

func (ctxModel) Name() string { return "ctx" }

func (ctxModel) Fit(ctx context.Context, _ []float64, horizon int) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return make([]float64, horizon), nil
}
