// Package interaction follows the radiation and plasma environment of a
// circumbinary planet.
//
// For every sample of a spin evolution it evaluates XUV luminosities and
// fluxes, and stellar-wind ram pressure and particle flux, for three
// scenarios:
//
//   - tidal: both stars at their rotational ages
//   - nt: both stars at their true age (no tidal interaction)
//   - s: the primary alone, at its single-star habitable zone
//
// Distances are the inner and outer habitable zone edges and the planet
// orbit (the Earth-equivalent distance for the single scenario). Fluxes
// are integrated into fluences, and the fluences into the atmospheric mass
// a planet loses by the reference age.
//
// Units: XUV fluxes in PEL, wind pressure in Pa, particle fluxes in units
// of the present solar wind flux at the Earth (SWPEL), times in Gyr.
package interaction
