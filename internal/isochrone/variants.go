package isochrone

import (
	"fmt"
	"sort"
)

// Variant names a precomputed set of metallicities.
type Variant string

const (
	VariantFull     Variant = "full"
	VariantCoarse   Variant = "coarse"
	VariantSiblings Variant = "siblings"
	VariantSolar    Variant = "solar"
)

var variantZs = map[Variant][]float64{
	VariantFull: {
		0.0001, 0.0002, 0.0004, 0.0006, 0.0008,
		0.0010, 0.0020, 0.0030, 0.0040, 0.0050, 0.0060, 0.0070, 0.0080, 0.0090,
		0.0100,
		0.0125, 0.0150, 0.0175, 0.0200, 0.0225, 0.0250, 0.0275, 0.0300,
		0.0325, 0.0350, 0.0375, 0.0400, 0.0425, 0.0450, 0.0475, 0.0500,
		0.0525, 0.0550, 0.0575, 0.0600,
	},
	VariantCoarse: {
		0.0001, 0.0010, 0.0050, 0.0100, 0.0152, 0.0200, 0.0300, 0.0400, 0.0500, 0.0600,
	},
	VariantSiblings: {0.0100, 0.0152, 0.0200},
	VariantSolar:    {0.0152},
}

// selection order when no variant is preferred: most specific first
var variantOrder = []Variant{VariantSiblings, VariantCoarse, VariantFull}

func ParseVariant(name string) (Variant, error) {
	v := Variant(name)
	if _, ok := variantZs[v]; !ok {
		return "", fmt.Errorf("unknown isochrone variant: %s", name)
	}
	return v, nil
}

// Metallicities returns a copy of the variant's Z values.
func (v Variant) Metallicities() []float64 {
	zs := variantZs[v]
	out := make([]float64, len(zs))
	copy(out, zs)
	return out
}

func (v Variant) contains(z float64) bool {
	zs := variantZs[v]
	i := sort.SearchFloat64s(zs, z)
	return i < len(zs) && zs[i] == z
}

func (v Variant) brackets(z float64) bool {
	_, _, ok := bracketIn(variantZs[v], z)
	return ok
}

func bracketIn(zs []float64, z float64) (float64, float64, bool) {
	// first value strictly above z
	i := sort.Search(len(zs), func(i int) bool { return zs[i] > z })
	if i == 0 || i == len(zs) {
		return 0, 0, false
	}
	return zs[i-1], zs[i], true
}

// Bracket returns the largest tabulated Z <= z and the smallest tabulated
// Z > z on the full grid.
func Bracket(z float64) (float64, float64, error) {
	lo, hi, ok := bracketIn(variantZs[VariantFull], z)
	if !ok {
		return 0, 0, &DataError{Op: "bracket", Z: z, Err: ErrNoBracket}
	}
	return lo, hi, nil
}

// ChooseVariant picks the grid to load for z. A variant listing z exactly
// wins, the preferred one first; otherwise the preferred variant is used if
// it brackets z, and then the remaining variants from most to least
// specific.
func ChooseVariant(z float64, preferred Variant) (Variant, error) {
	if preferred != "" && preferred.contains(z) {
		return preferred, nil
	}
	for _, v := range variantOrder {
		if v.contains(z) {
			return v, nil
		}
	}
	if preferred != "" && preferred.brackets(z) {
		return preferred, nil
	}
	for _, v := range variantOrder {
		if v.brackets(z) {
			return v, nil
		}
	}
	return "", &DataError{Op: "choose grid", Z: z, Err: ErrNoBracket}
}
