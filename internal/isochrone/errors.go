package isochrone

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingTable indicates a metallicity whose table file does not exist.
	ErrMissingTable = errors.New("isochrone: table file not found")

	// ErrNoBracket indicates a metallicity outside every configured grid.
	ErrNoBracket = errors.New("isochrone: metallicity not bracketed by any grid")

	// ErrMalformed indicates a table that cannot be turned into age slices.
	ErrMalformed = errors.New("isochrone: malformed table")

	// ErrInvalidGrid indicates an empty or unordered metallicity list.
	ErrInvalidGrid = errors.New("isochrone: metallicities must be non-empty and strictly increasing")
)

// DataError is the fatal error class of the grid store: a required table
// is absent or unreadable, or no grid covers the requested metallicity.
type DataError struct {
	Op   string
	Z    float64
	Path string
	Err  error
}

func (e *DataError) Error() string {
	if errors.Is(e.Err, ErrNoBracket) {
		return fmt.Sprintf("isochrone: %s: no isochrone found for Z = %.5f", e.Op, e.Z)
	}
	if e.Path != "" {
		return fmt.Sprintf("isochrone: %s %s (Z=%.4f): %v", e.Op, e.Path, e.Z, e.Err)
	}
	return fmt.Sprintf("isochrone: %s (Z=%.4f): %v", e.Op, e.Z, e.Err)
}

func (e *DataError) Unwrap() error {
	return e.Err
}
