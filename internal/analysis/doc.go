// Package analysis extracts periodic structure from recorded runs.
//
//   - [PowerSpectrum] and [DominantFrequency]: spectral content of a sampled series
//   - [Crossings]: interpolated upward crossings of a threshold
//   - [Apexes]: turning points such as the top of each bounce
//   - [NewPhasePortrait]: a 2D trajectory, rendered with [PhasePortrait.ASCII]
//
// # Pendulum period
//
// The period of a swinging bob is the inverse of the dominant frequency of
// its horizontal position:
//
//	tr, _ := storage.TrackOf(frames, bobID)
//	f := analysis.DominantFrequency(tr.X, dt)
//	period := 1 / f
package analysis
