package numeric

import (
	"errors"
	"fmt"
)

// ErrNoSignChange is returned when a bracket does not straddle a root.
var ErrNoSignChange = errors.New("numeric: function has the same sign at both ends of the bracket")

// ConvergenceError reports a root finder that stopped without meeting its
// tolerance.
type ConvergenceError struct {
	Method     string
	Iterations int
	Lo, Hi     float64
	X          float64
	Reason     string
}

func (e *ConvergenceError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("numeric: %s did not converge after %d iterations in [%g, %g] (x=%g): %s",
			e.Method, e.Iterations, e.Lo, e.Hi, e.X, e.Reason)
	}
	return fmt.Sprintf("numeric: %s did not converge after %d iterations in [%g, %g] (x=%g)",
		e.Method, e.Iterations, e.Lo, e.Hi, e.X)
}

// Failed reports whether err is a convergence failure or an invalid
// bracket, i.e. whether retrying with other starting conditions makes sense.
func Failed(err error) bool {
	var ce *ConvergenceError
	return errors.As(err, &ce) || errors.Is(err, ErrNoSignChange)
}
