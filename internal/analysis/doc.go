// Package analysis characterizes the snapshot series of a finished run.
//
//   - [Describe]: mean, spread and range of a series
//   - [PowerSpectrum]: magnitude spectrum of a detrended series
//   - [DominantPeriod]: strongest periodic component, in ticks
//   - [Autocorrelation]: normalized self-similarity at a lag
//
// Snapshots are published every few ticks, so periods are reported by
// scaling spectrum bins with the publication interval:
//
//	period, ok := analysis.DominantPeriod(flux, metrics.PublishPeriod)
package analysis
