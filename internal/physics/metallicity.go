package physics

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/binhab/internal/numeric"
)

// HeliumFraction returns (X, Y) for metal fraction z using Y = 0.2485 + 1.78 Z.
func HeliumFraction(z float64) (x, y float64) {
	y = 0.2485 + 1.78*z
	return 1 - y - z, y
}

// XSun is the solar hydrogen fraction consistent with ZSun.
var XSun, _ = HeliumFraction(ZSun)

// FeHToZ converts [Fe/H] to Z for hydrogen fraction x and
// alpha-enhancement slope a.
func FeHToZ(feh, x, a float64) float64 {
	return ZSun * (x / XSun) * math.Pow(10, a*feh)
}

// ZFromFeH returns the mean and standard deviation of Z over the
// plausible range of hydrogen fraction (0.700-0.739) and slope (0.9-1.0).
func ZFromFeH(feh float64) (mean, std float64) {
	const n = 100
	xs := floats.Span(make([]float64, n), 0.700, 0.739)
	as := floats.Span(make([]float64, n), 0.9, 1.0)
	zs := make([]float64, 0, n*n)
	for _, x := range xs {
		for _, a := range as {
			zs = append(zs, FeHToZ(feh, x, a))
		}
	}
	return stat.MeanStdDev(zs, nil)
}

// FeHFromZ inverts the mean of ZFromFeH by Newton iteration from solar.
func FeHFromZ(z float64) (float64, error) {
	return numeric.Newton(func(feh float64) float64 {
		m, _ := ZFromFeH(feh)
		return m - z
	}, 0)
}
