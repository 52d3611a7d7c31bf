package numeric

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/diff/fd"
)

type RootOptions struct {
	XTol    float64
	RTol    float64
	MaxIter int
}

// DefaultRootOptions mirrors the usual brentq defaults.
func DefaultRootOptions() RootOptions {
	return RootOptions{
		XTol:    2e-12,
		RTol:    4 * 2.220446049250313e-16,
		MaxIter: 100,
	}
}

// Brent finds a root of f in [lo, hi] with Brent's method. f(lo) and
// f(hi) must differ in sign.
func Brent(f func(float64) float64, lo, hi float64) (float64, error) {
	return BrentWith(f, lo, hi, DefaultRootOptions())
}

func BrentWith(f func(float64) float64, lo, hi float64, opts RootOptions) (float64, error) {
	a, b := lo, hi
	fa, fb := f(a), f(b)
	if math.IsNaN(fa) || math.IsNaN(fb) {
		return math.NaN(), &ConvergenceError{Method: "brent", Lo: lo, Hi: hi, X: math.NaN(), Reason: "NaN at bracket end"}
	}
	if fa == 0 {
		return a, nil
	}
	if fb == 0 {
		return b, nil
	}
	if (fa > 0) == (fb > 0) {
		return math.NaN(), fmt.Errorf("%w: f(%g)=%g, f(%g)=%g", ErrNoSignChange, a, fa, b, fb)
	}

	c, fc := b, fb
	var d, e float64
	for iter := 0; iter < opts.MaxIter; iter++ {
		if (fb > 0) == (fc > 0) {
			c, fc = a, fa
			d = b - a
			e = d
		}
		if math.Abs(fc) < math.Abs(fb) {
			a, b, c = b, c, b
			fa, fb, fc = fb, fc, fb
		}

		tol := opts.RTol*math.Abs(b) + 0.5*opts.XTol
		xm := 0.5 * (c - b)
		if math.Abs(xm) <= tol || fb == 0 {
			return b, nil
		}

		if math.Abs(e) >= tol && math.Abs(fa) > math.Abs(fb) {
			s := fb / fa
			var p, q float64
			if a == c {
				p = 2 * xm * s
				q = 1 - s
			} else {
				q = fa / fc
				r := fb / fc
				p = s * (2*xm*q*(q-r) - (b-a)*(r-1))
				q = (q - 1) * (r - 1) * (s - 1)
			}
			if p > 0 {
				q = -q
			}
			p = math.Abs(p)
			if 2*p < math.Min(3*xm*q-math.Abs(tol*q), math.Abs(e*q)) {
				e = d
				d = p / q
			} else {
				d = xm
				e = d
			}
		} else {
			d = xm
			e = d
		}

		a, fa = b, fb
		if math.Abs(d) > tol {
			b += d
		} else {
			b += math.Copysign(tol, xm)
		}
		fb = f(b)
		if math.IsNaN(fb) {
			return math.NaN(), &ConvergenceError{Method: "brent", Iterations: iter + 1, Lo: lo, Hi: hi, X: b, Reason: "NaN inside bracket"}
		}
	}

	return b, &ConvergenceError{Method: "brent", Iterations: opts.MaxIter, Lo: lo, Hi: hi, X: b}
}

// Newton runs Newton's method from x0 with a central finite-difference
// derivative. Convergence is relative: |dx| <= XTol + RTol*|x|.
func Newton(f func(float64) float64, x0 float64) (float64, error) {
	opts := RootOptions{XTol: 1.48e-8, RTol: 1e-10, MaxIter: 50}
	return NewtonWith(f, x0, opts)
}

func NewtonWith(f func(float64) float64, x0 float64, opts RootOptions) (float64, error) {
	x := x0
	for iter := 0; iter < opts.MaxIter; iter++ {
		fx := f(x)
		if fx == 0 {
			return x, nil
		}
		if math.IsNaN(fx) {
			return x, &ConvergenceError{Method: "newton", Iterations: iter, Lo: x0, Hi: x0, X: x, Reason: "NaN residual"}
		}

		step := 1e-6 * math.Max(1, math.Abs(x))
		dfx := fd.Derivative(f, x, &fd.Settings{Formula: fd.Central, Step: step})
		if dfx == 0 || math.IsNaN(dfx) || math.IsInf(dfx, 0) {
			return x, &ConvergenceError{Method: "newton", Iterations: iter, Lo: x0, Hi: x0, X: x, Reason: "zero derivative"}
		}

		next := x - fx/dfx
		if math.Abs(next-x) <= opts.XTol+opts.RTol*math.Abs(next) {
			return next, nil
		}
		x = next
	}
	return x, &ConvergenceError{Method: "newton", Iterations: opts.MaxIter, Lo: x0, Hi: x0, X: x}
}

// ExpandBracket widens [lo, hi] geometrically by factor until f changes
// sign, keeping both ends positive when lo > 0.
func ExpandBracket(f func(float64) float64, lo, hi, factor float64, tries int) (float64, float64, error) {
	if factor <= 1 {
		factor = 1.6
	}
	flo, fhi := f(lo), f(hi)
	for i := 0; i < tries; i++ {
		if (flo > 0) != (fhi > 0) {
			return lo, hi, nil
		}
		if math.Abs(flo) < math.Abs(fhi) {
			if lo > 0 {
				lo /= factor
			} else {
				lo -= factor * (hi - lo)
			}
			flo = f(lo)
		} else {
			if lo > 0 {
				hi *= factor
			} else {
				hi += factor * (hi - lo)
			}
			fhi = f(hi)
		}
	}
	if (flo > 0) != (fhi > 0) {
		return lo, hi, nil
	}
	return lo, hi, fmt.Errorf("%w: no root found expanding to [%g, %g]", ErrNoSignChange, lo, hi)
}
