package forecast

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/optimize"
)

// SARIMA is a seasonal ARIMA(p,d,q)(P,D,Q)s model without a trend term,
// fitted by conditional sum of squares with zero pre-sample values.
// Coefficients are kept inside (-1, 1) through a tanh transform. The fit is
// deterministic: Nelder-Mead starts from zero and runs single-threaded.
type SARIMA struct {
	P, D, Q    int
	SP, SD, SQ int
	S          int
	MaxIter    int
}

var _ Model = SARIMA{}

// DefaultSARIMA returns the (1,1,1)(1,0,1,12) configuration.
func DefaultSARIMA() SARIMA {
	return SARIMA{P: 1, D: 1, Q: 1, SP: 1, SD: 0, SQ: 1, S: 12, MaxIter: 2000}
}

func (m SARIMA) Name() string {
	return fmt.Sprintf("sarima(%d,%d,%d)(%d,%d,%d,%d)", m.P, m.D, m.Q, m.SP, m.SD, m.SQ, m.S)
}

func (m SARIMA) validate() error {
	for _, v := range []int{m.P, m.D, m.Q, m.SP, m.SD, m.SQ, m.S} {
		if v < 0 {
			return fmt.Errorf("sarima orders must be non-negative: %s", m.Name())
		}
	}
	if (m.SP > 0 || m.SD > 0 || m.SQ > 0) && m.S < 2 {
		return fmt.Errorf("sarima seasonal period must be at least 2 when seasonal terms are set: %s", m.Name())
	}
	return nil
}

func (m SARIMA) numParams() int { return m.P + m.Q + m.SP + m.SQ }

// Fit estimates the model on history and returns horizon predictions.
func (m SARIMA) Fit(ctx context.Context, history []float64, horizon int) ([]float64, error) {
	if err := m.validate(); err != nil {
		return nil, err
	}
	if err := checkInput(history, horizon); err != nil {
		return nil, err
	}

	// Differencing stack: each level remembers the series it came from.
	type level struct {
		base []float64
		lag  int
	}
	var stack []level
	w := history
	for i := 0; i < m.D; i++ {
		stack = append(stack, level{base: w, lag: 1})
		w = difference(w, 1)
	}
	for i := 0; i < m.SD; i++ {
		stack = append(stack, level{base: w, lag: m.S})
		w = difference(w, m.S)
	}
	if len(w) <= m.numParams()+1 {
		return nil, fmt.Errorf("%d points after differencing, %d parameters: %w", len(w), m.numParams(), ErrTooShort)
	}

	params, err := m.estimate(ctx, w)
	if err != nil {
		return nil, err
	}

	ar, ma := m.polynomials(params)
	resid := residuals(w, ar, ma)
	if !allFinite(resid) {
		return nil, ErrNotFinite
	}

	pred := predict(w, resid, ar, ma, horizon)
	for i := len(stack) - 1; i >= 0; i-- {
		pred = integrate(stack[i].base, pred, stack[i].lag)
	}
	if !allFinite(pred) {
		return nil, ErrNotFinite
	}
	return pred, nil
}

func (m SARIMA) estimate(ctx context.Context, w []float64) ([]float64, error) {
	n := m.numParams()
	if n == 0 {
		return nil, nil
	}

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			ar, ma := m.polynomials(x)
			var css float64
			for _, e := range residuals(w, ar, ma) {
				css += e * e
			}
			if math.IsNaN(css) {
				return math.Inf(1)
			}
			return css
		},
		Status: func() (optimize.Status, error) {
			if err := ctx.Err(); err != nil {
				return optimize.Failure, err
			}
			return optimize.NotTerminated, nil
		},
	}

	settings := &optimize.Settings{MajorIterations: m.MaxIter}
	res, err := optimize.Minimize(problem, make([]float64, n), settings, &optimize.NelderMead{})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("sarima fit: %w", err)
	}
	if math.IsNaN(res.F) || math.IsInf(res.F, 0) || !allFinite(res.X) {
		return nil, ErrNotFinite
	}
	return res.X, nil
}

// polynomials expands the transformed parameters into AR and MA lag
// coefficients. ar[k] multiplies w[t-k] and ma[k] multiplies e[t-k]; index 0
// is unused.
func (m SARIMA) polynomials(x []float64) (ar, ma []float64) {
	coef := func(i int) float64 { return math.Tanh(x[i]) }

	next := 0
	take := func(k int) []float64 {
		out := make([]float64, k)
		for i := range out {
			out[i] = coef(next)
			next++
		}
		return out
	}
	phi := take(m.P)
	theta := take(m.Q)
	sphi := take(m.SP)
	stheta := take(m.SQ)

	step := m.S
	if step < 1 {
		step = 1
	}

	// (1 - sum phi B^i)(1 - sum PHI B^is) = 1 - sum ar_k B^k
	arPoly := polyMul(lagPoly(phi, 1, -1), lagPoly(sphi, step, -1))
	ar = make([]float64, len(arPoly))
	for k := 1; k < len(arPoly); k++ {
		ar[k] = -arPoly[k]
	}

	// (1 + sum theta B^i)(1 + sum THETA B^is) = 1 + sum ma_k B^k
	ma = polyMul(lagPoly(theta, 1, 1), lagPoly(stheta, step, 1))
	ma[0] = 0
	return ar, ma
}

func residuals(w, ar, ma []float64) []float64 {
	e := make([]float64, len(w))
	for t := range w {
		v := w[t]
		for k := 1; k < len(ar) && k <= t; k++ {
			v -= ar[k] * w[t-k]
		}
		for k := 1; k < len(ma) && k <= t; k++ {
			v -= ma[k] * e[t-k]
		}
		e[t] = v
	}
	return e
}

// predict extends w by horizon steps with future shocks set to zero.
func predict(w, resid, ar, ma []float64, horizon int) []float64 {
	n := len(w)
	ext := make([]float64, n, n+horizon)
	copy(ext, w)
	for h := 0; h < horizon; h++ {
		t := n + h
		var v float64
		for k := 1; k < len(ar) && k <= t; k++ {
			v += ar[k] * ext[t-k]
		}
		for k := 1; k < len(ma) && k <= t; k++ {
			if t-k < n {
				v += ma[k] * resid[t-k]
			}
		}
		ext = append(ext, v)
	}
	return ext[n:]
}
