// Package numeric holds the scalar root finders and quadrature helpers the
// stellar models are built on.
//
// Bracketed problems (Parker wind, habitable-zone distances) go through
// [Brent]; problems with only an initial guess (corona temperature) go
// through [Newton]. Both report failure as a *[ConvergenceError] so callers
// can retry with a wider bracket or a different guess before giving up.
package numeric
