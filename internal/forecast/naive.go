package forecast

import "context"

// SeasonalNaive repeats the last observed season. With less than one full
// season of history it repeats the last value.
type SeasonalNaive struct {
	Period int
}

var _ Model = SeasonalNaive{}

func (SeasonalNaive) Name() string { return "seasonal-naive" }

func (m SeasonalNaive) Fit(ctx context.Context, history []float64, horizon int) ([]float64, error) {
	if err := checkInput(history, horizon); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	n := len(history)
	out := make([]float64, horizon)
	if m.Period < 1 || n < m.Period {
		for i := range out {
			out[i] = history[n-1]
		}
		return out, nil
	}
	for i := range out {
		out[i] = history[n-m.Period+i%m.Period]
	}
	return out, nil
}
