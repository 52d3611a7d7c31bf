// Package wind models the stellar wind of low-mass stars.
//
// The model follows Griessmeier et al. (2007): a reference solar-wind
// velocity and density at 1 AU that decay as power laws of age, an
// isothermal Parker wind whose corona temperature is tuned so the Parker
// velocity at 1 AU matches the reference, and a mass-loss rate scaled with
// the stellar surface area.
//
// Velocities are in m/s, number densities in m^-3, distances in AU, ages in
// Gyr, masses and radii in solar units.
package wind
