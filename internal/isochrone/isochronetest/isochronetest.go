// Package isochronetest writes synthetic Padova-format isochrone tables for
// tests. The tables follow a smooth analytic model calibrated so that a
// 1 Msun star of solar metallicity at 4.56 Gyr has T = 5780 K and L = 1 Lsun.
package isochronetest

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/san-kum/binhab/internal/physics"
)

// Siblings is the usual metallicity set for tests.
var Siblings = []float64{0.0100, 0.0152, 0.0200}

// LogAges are the tabulated log10(age/yr) values.
var LogAges = func() []float64 {
	var out []float64
	for i := 0; i <= 70; i++ {
		out = append(out, math.Round((6.6+0.05*float64(i))*100)/100)
	}
	return out
}()

// Masses are the tabulated initial masses, including a few outside the
// [0.1, 2.0] window the loader keeps.
var Masses = func() []float64 {
	var out []float64
	for i := 8; i <= 210; i++ {
		out = append(out, float64(i)/100)
	}
	return out
}()

// MaxMass is the most massive star still present at age (Gyr).
func MaxMass(age float64) float64 {
	return math.Min(2.10, math.Pow(10/age, 0.4))
}

func preMS(age float64) float64 {
	return 1 + math.Pow(0.005/age, 1.5)
}

func LogL(m, age, z float64) float64 {
	return 4*math.Log10(m) + 0.15*(age-physics.SolarAge)/physics.SolarAge +
		2*math.Log10(preMS(age)) - 0.25*math.Log10(z/physics.ZSun)
}

func LogT(m, age, z float64) float64 {
	return math.Log10(physics.TSun) + 0.55*math.Log10(m) -
		0.02*(age-physics.SolarAge)/physics.SolarAge - 0.04*math.Log10(z/physics.ZSun)
}

func Luminosity(m, age, z float64) float64  { return math.Pow(10, LogL(m, age, z)) }
func Temperature(m, age, z float64) float64 { return math.Pow(10, LogT(m, age, z)) }

// Radius in Rsun from the Stefan-Boltzmann law.
func Radius(m, age, z float64) float64 {
	return math.Sqrt(Luminosity(m, age, z)) / math.Pow(Temperature(m, age, z)/physics.TSun, 2)
}

// LogG in cgs.
func LogG(m, age, z float64) float64 {
	r := Radius(m, age, z) * physics.RSun
	return math.Log10(physics.G * m * physics.MSun / (r * r) * 100)
}

// WriteGrid writes one table per metallicity into dir.
func WriteGrid(dir string, zs []float64) error {
	for _, z := range zs {
		if _, err := WriteTable(dir, z); err != nil {
			return err
		}
	}
	return nil
}

// WriteTable writes the 16-column table for z and returns its path.
func WriteTable(dir string, z float64) (string, error) {
	path := filepath.Join(dir, fmt.Sprintf("Padova-Z%.4f.dat", z))
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "# synthetic isochrones Z=%.4f\n", z)
	fmt.Fprintln(w, "# Z log(age/yr) M_ini M_act logL/Lo logTe logG mbol U B V R I J H K")
	for _, la := range LogAges {
		age := math.Pow(10, la) / 1e9
		for _, m := range Masses {
			if m > MaxMass(age) {
				break
			}
			logL, logT := LogL(m, age, z), LogT(m, age, z)
			mbol := 4.77 - 2.5*logL
			fmt.Fprintf(w, "%.4f %.2f %.5f %.5f %.6f %.6f %.6f %.4f", z, la, m, m*(1-0.0005*age), logL, logT, LogG(m, age, z), mbol)
			for k := 0; k < 8; k++ {
				fmt.Fprintf(w, " %.4f", mbol+0.1*float64(k)-2*(logT-3.7619)*float64(k-4))
			}
			fmt.Fprintln(w)
		}
	}
	if err := w.Flush(); err != nil {
		return "", err
	}
	return path, nil
}
