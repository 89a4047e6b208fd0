// Package pipeline turns loaded rows into the composed historical and
// forecast series: classify, aggregate, forecast per type, compose.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/theirongolddev/spendcast/internal/config"
	"github.com/theirongolddev/spendcast/internal/forecast"
	"github.com/theirongolddev/spendcast/internal/model"
)

// ErrInvalidOptions is wrapped by Run when Options cannot be used.
var ErrInvalidOptions = errors.New("invalid pipeline options")

// Options are the run parameters. Nothing in the pipeline is hardcoded.
type Options struct {
	AllowList  AllowList
	Horizon    int
	MinHistory int
	Workers    int
	Model      forecast.Model
}

// OptionsFromConfig builds Options from the forecast config section.
func OptionsFromConfig(cfg config.ForecastConfig) (Options, error) {
	m, err := forecast.FromConfig(cfg)
	if err != nil {
		return Options{}, err
	}
	return Options{
		AllowList:  NewAllowList(cfg.Categories...),
		Horizon:    cfg.HorizonMonths,
		MinHistory: cfg.MinHistory,
		Workers:    cfg.Workers,
		Model:      m,
	}, nil
}

func (o Options) validate() error {
	switch {
	case o.Horizon < 1:
		return fmt.Errorf("%w: horizon %d", ErrInvalidOptions, o.Horizon)
	case o.MinHistory < 1:
		return fmt.Errorf("%w: min history %d", ErrInvalidOptions, o.MinHistory)
	case o.Model == nil:
		return fmt.Errorf("%w: no forecast model", ErrInvalidOptions)
	}
	return nil
}

// Result is the output of a pipeline run.
type Result struct {
	Historical map[string]model.Series
	Forecasts  map[string][]model.ForecastPoint
	Composed   model.Composed
	Failures   []FitFailure
	Skipped    []string // types below MinHistory
}

// Run executes classify, aggregate, forecast and compose over rows.
// Per-type fit failures are reported in Result.Failures, not as an error.
func Run(ctx context.Context, rows []model.Row, opts Options) (*Result, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	historical := Aggregate(ClassifyRows(rows, opts.AllowList))

	forecasts, failures, err := ForecastAll(ctx, historical, ForecastOptions{
		Horizon:    opts.Horizon,
		MinHistory: opts.MinHistory,
		Workers:    opts.Workers,
		Model:      opts.Model,
	})
	if err != nil {
		return nil, err
	}

	var skipped []string
	for _, t := range SortedTypes(historical) {
		if historical[t].Len() < opts.MinHistory {
			skipped = append(skipped, t)
		}
	}

	return &Result{
		Historical: historical,
		Forecasts:  forecasts,
		Composed:   Compose(historical, forecasts),
		Failures:   failures,
		Skipped:    skipped,
	}, nil
}
