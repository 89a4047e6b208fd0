package forecast

// difference returns x[t] - x[t-lag] for t >= lag.
func difference(x []float64, lag int) []float64 {
	if len(x) <= lag {
		return nil
	}
	out := make([]float64, len(x)-lag)
	for t := lag; t < len(x); t++ {
		out[t-lag] = x[t] - x[t-lag]
	}
	return out
}

// integrate undoes difference for values that continue base.
func integrate(base, diffs []float64, lag int) []float64 {
	ext := make([]float64, len(base), len(base)+len(diffs))
	copy(ext, base)
	for _, d := range diffs {
		ext = append(ext, d+ext[len(ext)-lag])
	}
	return ext[len(base):]
}

// polyMul multiplies two lag polynomials given as coefficient slices where
// index k is the coefficient of B^k.
func polyMul(a, b []float64) []float64 {
	out := make([]float64, len(a)+len(b)-1)
	for i, x := range a {
		if x == 0 {
			continue
		}
		for j, y := range b {
			out[i+j] += x * y
		}
	}
	return out
}

// lagPoly builds 1 + sign*(c1 B^step + c2 B^{2 step} + ...).
func lagPoly(coefs []float64, step int, sign float64) []float64 {
	p := make([]float64, len(coefs)*step+1)
	p[0] = 1
	for i, c := range coefs {
		p[(i+1)*step] = sign * c
	}
	return p
}
