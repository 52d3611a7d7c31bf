// Package rotation evolves the spin of the two stars of a close binary.
//
// Each star's angular velocity changes under three additive terms:
//
//   - the equilibrium tide raised by the companion (Hut 1981), with the
//     Zahn (2008) convective dissipation time
//   - magnetic braking by the stellar wind, cubic in the spin below the
//     saturation rate and linear above it
//   - spin-up from the contraction of the moment of inertia
//
// Alternatively the wind and contraction terms can be replaced by the
// empirical period law P(t) = a t^b + c fitted to the spin-down a single
// star would follow under its own wind ([BrakingFitted]).
//
// [SpinSystem] implements [dynamo.System] with state (Omega1, Omega2) in
// rad/s and time in Gyr, so any integrator from the integrators package can
// drive it. [Evolve] sets up initial periods and step sizes and runs the
// integration.
package rotation
