// Package isochrone loads Padova isochrone tables and holds them as a
// read-only [Grid].
//
// A table covers one metallicity Z. Its rows are grouped into age slices
// (log10 of the age in years) in file order; within a slice every
// [Property] is a piecewise-linear function of initial mass restricted to
// [MinMass, MaxMass] solar masses. The radius column is not tabulated and
// is derived from log g and mass.
//
// A Grid is built once per run by [Loader.Load] and may be shared between
// goroutines afterwards.
package isochrone
