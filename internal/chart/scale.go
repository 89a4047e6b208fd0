package chart

import (
	"fmt"
	"math"
)

// TickStep picks a round tick interval giving about five ticks over span.
func TickStep(span float64) float64 {
	if span <= 0 || math.IsNaN(span) || math.IsInf(span, 0) {
		return 1
	}
	rough := span / 5
	exp := math.Floor(math.Log10(rough))
	base := math.Pow(10, exp)
	frac := rough / base

	switch {
	case frac < 1.5:
		return base
	case frac < 3.5:
		return 2 * base
	default:
		return 5 * base
	}
}

// FormatLabel renders an axis value compactly: 1.5k, -2M, 0.25.
func FormatLabel(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	unit := func(div float64, suffix string) string {
		if v == math.Trunc(v/div)*div {
			return fmt.Sprintf("%s%.0f%s", sign, v/div, suffix)
		}
		return fmt.Sprintf("%s%.1f%s", sign, v/div, suffix)
	}
	switch {
	case v >= 1e9:
		return unit(1e9, "B")
	case v >= 1e6:
		return unit(1e6, "M")
	case v >= 1e3:
		return unit(1e3, "k")
	case v >= 1 || v == 0:
		return fmt.Sprintf("%s%.0f", sign, v)
	default:
		return fmt.Sprintf("%s%.2f", sign, v)
	}
}

type scale struct {
	lo, hi float64
	step   float64
	rows   int
}

func newScale(minV, maxV float64, includeZero bool, rows int) scale {
	if includeZero {
		minV = math.Min(minV, 0)
		maxV = math.Max(maxV, 0)
	}
	if minV == maxV {
		minV, maxV = minV-1, maxV+1
	}

	step := TickStep(maxV - minV)
	lo := math.Floor(minV/step) * step
	hi := math.Ceil(maxV/step) * step
	for (hi-lo)/step > float64(max(2, rows/2)) {
		step *= 2
		lo = math.Floor(minV/step) * step
		hi = math.Ceil(maxV/step) * step
	}
	return scale{lo: lo, hi: hi, step: step, rows: rows}
}

// row maps a value to a canvas row, 0 at the top.
func (s scale) row(v float64) int {
	if s.rows <= 1 {
		return 0
	}
	r := int(math.Round((s.hi - v) / (s.hi - s.lo) * float64(s.rows-1)))
	return min(max(r, 0), s.rows-1)
}

func (s scale) ticks() []float64 {
	var out []float64
	for v := s.lo; v <= s.hi+s.step/2; v += s.step {
		out = append(out, math.Round(v/s.step)*s.step)
	}
	return out
}
