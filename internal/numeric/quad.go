package numeric

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate"
)

// CumTrapz returns the running trapezoidal integral of y over x, starting
// at zero, with len(x) entries.
func CumTrapz(x, y []float64) []float64 {
	n := len(x)
	if len(y) < n {
		n = len(y)
	}
	out := make([]float64, n)
	for i := 1; i < n; i++ {
		out[i] = out[i-1] + 0.5*(x[i]-x[i-1])*(y[i]+y[i-1])
	}
	return out
}

// Trapz integrates sampled y over x.
func Trapz(x, y []float64) float64 {
	if len(x) < 2 {
		return 0
	}
	return integrate.Trapezoidal(x, y)
}

// Linspace returns n evenly spaced values in [lo, hi].
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{lo}
	}
	return floats.Span(make([]float64, n), lo, hi)
}

// Logspace returns n values evenly spaced in log between lo and hi (both > 0).
func Logspace(lo, hi float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{lo}
	}
	return floats.LogSpan(make([]float64, n), lo, hi)
}

// Diff returns the first differences of x.
func Diff(x []float64) []float64 {
	if len(x) < 2 {
		return nil
	}
	out := make([]float64, len(x)-1)
	for i := range out {
		out[i] = x[i+1] - x[i]
	}
	return out
}
