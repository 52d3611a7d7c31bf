package rotation

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"

	"github.com/san-kum/binhab/internal/numeric"
)

var ErrFit = errors.New("rotation: period law fit failed")

// PeriodLaw is the empirical spin-down P(t) = A t^B + C with t in Gyr and
// P in days.
type PeriodLaw struct {
	A, B, C float64
}

func (l PeriodLaw) Period(t float64) float64 {
	return l.A*math.Pow(t, l.B) + l.C
}

// Derivative is dP/dt in days per Gyr.
func (l PeriodLaw) Derivative(t float64) float64 {
	return l.A * l.B * math.Pow(t, l.B-1)
}

// Age inverts the law. Periods at or below C map to age 0.
func (l PeriodLaw) Age(period float64) float64 {
	x := (period - l.C) / l.A
	if period-l.C <= 0 || x <= 0 || l.B == 0 {
		return 0
	}
	return math.Pow(x, 1/l.B)
}

func (l PeriodLaw) Valid() bool {
	return l.A != 0 && l.B != 0 && !math.IsNaN(l.A+l.B+l.C) && !math.IsInf(l.A+l.B+l.C, 0)
}

func (l PeriodLaw) String() string {
	return fmt.Sprintf("P(t) = %.4g t^%.4g + %.4g", l.A, l.B, l.C)
}

// chiSquare is the sum of squared residuals relative to the model.
func chiSquare(ages, periods []float64, l PeriodLaw) float64 {
	var sum float64
	for i, t := range ages {
		m := l.Period(t)
		if m == 0 || math.IsNaN(m) {
			return math.MaxFloat64
		}
		r := (m - periods[i]) / m
		sum += r * r
	}
	if math.IsNaN(sum) || math.IsInf(sum, 0) {
		return math.MaxFloat64
	}
	return sum
}

// linearFit solves for A and C at fixed B by least squares on residuals
// relative to the data.
func linearFit(ages, periods []float64, b float64) (PeriodLaw, bool) {
	n := len(ages)
	design := mat.NewDense(n, 2, nil)
	rhs := mat.NewVecDense(n, nil)
	for i, t := range ages {
		w := 1 / periods[i]
		design.Set(i, 0, math.Pow(t, b)*w)
		design.Set(i, 1, w)
		rhs.SetVec(i, 1)
	}
	var x mat.VecDense
	if err := x.SolveVec(design, rhs); err != nil {
		return PeriodLaw{}, false
	}
	l := PeriodLaw{A: x.AtVec(0), B: b, C: x.AtVec(1)}
	return l, l.Valid()
}

// FitPeriodLaw fits P(t) = A t^B + C to (age, period) samples by minimising
// the squared residuals relative to the model. B is scanned on a coarse grid
// with A and C solved linearly at each node; the best node then seeds a
// Nelder-Mead polish of all three parameters.
func FitPeriodLaw(ages, periods []float64) (PeriodLaw, error) {
	if len(ages) != len(periods) {
		return PeriodLaw{}, fmt.Errorf("%w: %d ages but %d periods", ErrFit, len(ages), len(periods))
	}
	if len(ages) < 3 {
		return PeriodLaw{}, fmt.Errorf("%w: need at least 3 samples, got %d", ErrFit, len(ages))
	}
	for i, t := range ages {
		if t <= 0 || periods[i] <= 0 {
			return PeriodLaw{}, fmt.Errorf("%w: non-positive sample (%g, %g)", ErrFit, t, periods[i])
		}
	}

	best, bestChi := PeriodLaw{}, math.Inf(1)
	for _, b := range numeric.Linspace(-3, 3, 121) {
		if math.Abs(b) < 1e-6 {
			continue
		}
		l, ok := linearFit(ages, periods, b)
		if !ok {
			continue
		}
		if chi := chiSquare(ages, periods, l); chi < bestChi {
			best, bestChi = l, chi
		}
	}
	if math.IsInf(bestChi, 1) {
		return PeriodLaw{}, fmt.Errorf("%w: no power index gives a finite residual", ErrFit)
	}

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			return chiSquare(ages, periods, PeriodLaw{A: x[0], B: x[1], C: x[2]})
		},
	}
	res, err := optimize.Minimize(problem, []float64{best.A, best.B, best.C}, nil, &optimize.NelderMead{})
	if err == nil && res != nil && res.F < bestChi {
		if l := (PeriodLaw{A: res.X[0], B: res.X[1], C: res.X[2]}); l.Valid() {
			best = l
		}
	}
	return best, nil
}
