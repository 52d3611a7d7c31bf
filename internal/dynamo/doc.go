// Package dynamo provides the time-stepping primitives used by the spin
// evolution code.
//
// The package defines the fundamental interfaces and types for numerical
// integration of ordinary differential equations (ODEs):
//
//   - [State]: vector representing system state (angular velocities)
//   - [System]: interface for ODE systems (dX/dt = f(X, t))
//   - [Integrator]: numerical stepper interface
//   - [Simulator]: orchestrates a run between a start and end time
//
// # Example
//
//	sys := rotation.NewSpinSystem(primary, secondary, geom, params)
//	sim := dynamo.New(sys, integrators.NewRK4())
//	result, _ := sim.Run(ctx, x0, cfg)
//
// Time is measured in the unit the System uses; the rotation code
// integrates in Gyr.
//
// # Thread Safety
//
// Simulator instances are NOT thread-safe. Independent evaluations that
// only read shared data may be fanned out with [ParallelFor].
package dynamo
