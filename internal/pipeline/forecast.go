package pipeline

import (
	"context"
	"fmt"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/theirongolddev/spendcast/internal/forecast"
	"github.com/theirongolddev/spendcast/internal/model"
)

// FitFailure records a type whose model fit or prediction failed. It is a
// warning: the type keeps its history and gets no forecast.
type FitFailure struct {
	Type string
	Err  error
}

func (f *FitFailure) Error() string {
	return fmt.Sprintf("forecasting failed for type %q: %v", f.Type, f.Err)
}

func (f *FitFailure) Unwrap() error { return f.Err }

// ForecastOptions configures the per-type forecast stage.
type ForecastOptions struct {
	Horizon    int
	MinHistory int
	Workers    int // 0 uses GOMAXPROCS
	Model      forecast.Model
}

// Forecast projects one series Horizon months past its last observation.
// A series shorter than MinHistory is skipped and returns nil, nil. Model
// errors and panics come back as *FitFailure.
func Forecast(ctx context.Context, s model.Series, opts ForecastOptions) (points []model.ForecastPoint, err error) {
	if s.Len() < opts.MinHistory || s.Len() == 0 {
		return nil, nil
	}

	grid := Regularize(s)
	history := make([]float64, len(grid))
	for i, p := range grid {
		history[i] = p.Total.InexactFloat64()
	}

	defer func() {
		if r := recover(); r != nil {
			points = nil
			err = &FitFailure{Type: s.Type, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	values, err := opts.Model.Fit(ctx, history, opts.Horizon)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &FitFailure{Type: s.Type, Err: err}
	}
	if len(values) != opts.Horizon {
		return nil, &FitFailure{
			Type: s.Type,
			Err:  fmt.Errorf("%s returned %d values, want %d", opts.Model.Name(), len(values), opts.Horizon),
		}
	}

	last, _ := s.Last()
	month := model.NextMonth(last)
	points = make([]model.ForecastPoint, len(values))
	for i, v := range values {
		points[i] = model.ForecastPoint{Month: month, Type: s.Type, Total: v}
		month = model.NextMonth(month)
	}
	return points, nil
}

// ForecastAll runs Forecast for every type on a bounded pool. Each type
// writes only its own result slot, so one type's failure never touches
// another's. Failures come back sorted by type; only context cancellation
// is returned as an error.
func ForecastAll(ctx context.Context, series map[string]model.Series, opts ForecastOptions) (map[string][]model.ForecastPoint, []FitFailure, error) {
	types := SortedTypes(series)

	type outcome struct {
		points []model.ForecastPoint
		err    error
	}
	results := make([]outcome, len(types))

	workers := opts.Workers
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, t := range types {
		g.Go(func() error {
			pts, err := Forecast(gctx, series[t], opts)
			if err != nil && gctx.Err() != nil {
				return gctx.Err()
			}
			results[i] = outcome{points: pts, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	forecasts := make(map[string][]model.ForecastPoint, len(types))
	var failures []FitFailure
	for i, t := range types {
		r := results[i]
		if r.err != nil {
			failures = append(failures, FitFailure{Type: t, Err: unwrapFailure(r.err)})
			continue
		}
		if len(r.points) > 0 {
			forecasts[t] = r.points
		}
	}
	sort.Slice(failures, func(i, j int) bool { return failures[i].Type < failures[j].Type })
	return forecasts, failures, nil
}

func unwrapFailure(err error) error {
	if f, ok := err.(*FitFailure); ok {
		return f.Err
	}
	return err
}
