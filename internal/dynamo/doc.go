// Package dynamo provides the core primitives for integrating the unit
// harmonic oscillator x' = v, v' = -x.
//
//   - [Sample]: one (position, velocity) phase point
//   - [Trajectory]: per-run, append-only sequence of samples and times
//   - [Scheme]: closed set of fixed-step integration schemes
//   - [Config]: initial condition and time span for one run
//   - [Energy]: the conserved quantity 0.5*x^2 + 0.5*v^2
//
// # Ownership
//
// A Trajectory belongs to the run that created it. Nothing else appends to
// it while the run is in progress, and it is not modified after the run
// returns, so finished trajectories may be shared freely between goroutines.
package dynamo
