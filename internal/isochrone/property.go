package isochrone

import (
	"fmt"
	"strings"
)

// Property selects one interpolated stellar quantity.
type Property int

const (
	Mass Property = iota // remaining (actual) mass, Msun
	Luminosity
	LogLuminosity
	Radius
	LogGravity
	Temperature
	LogTemperature
	Mbol
	BandU
	BandB
	BandV
	BandR
	BandI
	BandJ
	BandH
	BandK

	numProperties
)

var propertyNames = [numProperties]string{
	Mass:           "mass",
	Luminosity:     "luminosity",
	LogLuminosity:  "logl",
	Radius:         "radius",
	LogGravity:     "logg",
	Temperature:    "temperature",
	LogTemperature: "logt",
	Mbol:           "mbol",
	BandU:          "u",
	BandB:          "b",
	BandV:          "v",
	BandR:          "r",
	BandI:          "i",
	BandJ:          "j",
	BandH:          "h",
	BandK:          "k",
}

func (p Property) String() string {
	if p < 0 || p >= numProperties {
		return fmt.Sprintf("Property(%d)", int(p))
	}
	return propertyNames[p]
}

func (p Property) Valid() bool {
	return p >= 0 && p < numProperties
}

// ParseProperty accepts the names printed by String, case-insensitively.
func ParseProperty(name string) (Property, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for i, n := range propertyNames {
		if n == key {
			return Property(i), nil
		}
	}
	return 0, fmt.Errorf("unknown property: %s", name)
}

func Properties() []Property {
	out := make([]Property, numProperties)
	for i := range out {
		out[i] = Property(i)
	}
	return out
}
