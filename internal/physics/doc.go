// Package physics collects the constants and closed-form stellar relations
// shared by the isochrone, wind, habitable-zone and rotation code.
//
// Units are SI unless a name says otherwise. Stellar masses, radii and
// luminosities passed between packages are in solar units; ages are in Gyr.
package physics
