// Package forecast holds the time-series models used to project monthly
// totals. Models are black boxes over a regular monthly grid: they receive
// equally spaced history and return exactly horizon future values.
package forecast

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/theirongolddev/spendcast/internal/config"
)

var (
	// ErrTooShort means the history cannot support the model's orders.
	ErrTooShort = errors.New("history too short for model")
	// ErrNotFinite means the fit or a prediction produced NaN or Inf.
	ErrNotFinite = errors.New("non-finite fit")
)

// Model projects a regular monthly series forward.
type Model interface {
	Name() string
	Fit(ctx context.Context, history []float64, horizon int) ([]float64, error)
}

// FromConfig builds the model named in the forecast config.
func FromConfig(cfg config.ForecastConfig) (Model, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Model)) {
	case "", "sarima":
		m := DefaultSARIMA()
		if o := cfg.SARIMA.Order; len(o) == 3 {
			m.P, m.D, m.Q = o[0], o[1], o[2]
		}
		if o := cfg.SARIMA.SeasonalOrder; len(o) == 4 {
			m.SP, m.SD, m.SQ, m.S = o[0], o[1], o[2], o[3]
		}
		if cfg.SARIMA.MaxIterations > 0 {
			m.MaxIter = cfg.SARIMA.MaxIterations
		}
		if err := m.validate(); err != nil {
			return nil, err
		}
		return m, nil
	case "seasonal-naive", "naive":
		period := 12
		if o := cfg.SARIMA.SeasonalOrder; len(o) == 4 && o[3] > 0 {
			period = o[3]
		}
		return SeasonalNaive{Period: period}, nil
	default:
		return nil, fmt.Errorf("unknown forecast model %q (want sarima or seasonal-naive)", cfg.Model)
	}
}

func checkInput(history []float64, horizon int) error {
	if horizon < 1 {
		return fmt.Errorf("horizon must be positive, got %d", horizon)
	}
	if len(history) == 0 {
		return ErrTooShort
	}
	for i, v := range history {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("history[%d] = %v: %w", i, v, ErrNotFinite)
		}
	}
	return nil
}

func allFinite(xs []float64) bool {
	for _, v := range xs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
