package physics

import (
	"math"
	"sort"
)

// SurfaceGravity converts a tabulated log10(g) in cgs to m/s^2.
func SurfaceGravity(logg float64) float64 {
	return math.Pow(10, logg) / 100
}

// Radius returns the stellar radius in solar radii from the hydrostatic
// relation R = sqrt(G M / g), with mass in solar masses and g in m/s^2.
func Radius(mass, gravity float64) float64 {
	return math.Sqrt(G*mass*MSun/gravity) / RSun
}

// Luminosity from radius (Rsun) and effective temperature (K), in Lsun.
func Luminosity(radius, teff float64) float64 {
	return radius * radius * math.Pow(teff/TSun, 4)
}

// MoICoefficient returns k^2 = I/(M R^2) from a linear fit to main-sequence
// models; stars above 1.259 Msun use the constant 0.224^2.
func MoICoefficient(mass float64) float64 {
	if mass > 1.259 {
		return 0.224 * 0.224
	}
	return -0.1577705*mass + 0.2339366
}

// GyrationRadius is sqrt(I/(M R^2)).
func GyrationRadius(mass float64) float64 {
	return math.Sqrt(MoICoefficient(mass))
}

// DissipationTime is the convective friction time of Zahn (2008) in
// seconds for mass, radius and luminosity in solar units.
func DissipationTime(mass, radius, lum float64) float64 {
	return 3.48 * math.Cbrt(mass*MSun*math.Pow(radius*RSun, 2)/(lum*LSun))
}

// BreakupPeriod is the shortest rotation period, in days, before the
// equator becomes unbound.
func BreakupPeriod(mass, radius float64) float64 {
	r := radius * RSun
	w := math.Sqrt(G * mass * MSun / (r * r * r))
	return 2 * math.Pi / w / Day
}

// ConvectiveTurnoverTime in days, Cranmer & Saar (2011).
func ConvectiveTurnoverTime(teff float64) float64 {
	return 314.241*math.Exp(-teff/1952.5)*math.Exp(-math.Pow(teff/6250, 18)) + 0.002
}

// Main-sequence lifetimes, log10(M/Msun) against log10(t/yr) (Zombeck).
var msLifetimes = [][2]float64{
	{-0.11, 10.28},
	{-0.02, 9.83},
	{0.08, 9.60},
	{0.17, 9.24},
	{0.26, 8.93},
	{0.36, 8.62},
}

// MainSequenceDuration in Gyr. Inside the tabulated mass range the table is
// interpolated in log-log; outside it the t ~ 10 M^-2.5 Gyr scaling is used.
func MainSequenceDuration(mass float64) float64 {
	lm := math.Log10(mass)
	lo, hi := msLifetimes[0], msLifetimes[len(msLifetimes)-1]
	if lm < lo[0] || lm > hi[0] {
		return 10 * math.Pow(mass, -2.5)
	}
	i := sort.Search(len(msLifetimes), func(i int) bool { return msLifetimes[i][0] >= lm })
	if msLifetimes[i][0] == lm {
		return math.Pow(10, msLifetimes[i][1]) / 1e9
	}
	a, b := msLifetimes[i-1], msLifetimes[i]
	lt := a[1] + (lm-a[0])*(b[1]-a[1])/(b[0]-a[0])
	return math.Pow(10, lt) / 1e9
}

// EccentricityFactors returns Hut's f2(e) and f5(e).
func EccentricityFactors(e float64) (f2, f5 float64) {
	e2 := e * e
	e4 := e2 * e2
	f2 = 1 + 7.5*e2 + 45.0/8.0*e4 + 5.0/16.0*e4*e2
	f5 = 1 + 3*e2 + 3.0/8.0*e4
	return f2, f5
}

// PseudoSynchronousRate is the spin rate n f2 / ((1-e^2)^1.5 f5) at which
// the equilibrium tide exerts no torque (Hut 1981).
func PseudoSynchronousRate(n, e float64) float64 {
	f2, f5 := EccentricityFactors(e)
	return n * f2 / (math.Pow(1-e*e, 1.5) * f5)
}
