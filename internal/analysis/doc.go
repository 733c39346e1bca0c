// Package analysis turns recorded runs into numbers and text plots.
//
//   - [PowerSpectrum], [DominantFrequency]: spectra of a sampled series
//   - [Radial]: distribution of distances from the origin
//   - [Divergence]: sensitivity to a small initial perturbation
//   - [Sweep]: steady-state radii across a range of one force parameter
//   - [SeparationPortrait]: pair distance against its rate of change
//
// A pair of opposite charges oscillates through each other; its separation
// spectrum peaks at the oscillation frequency:
//
//	r := analysis.Separation(result, 0, 1)
//	f := analysis.DominantFrequency(r, 1/frameTime)
package analysis
