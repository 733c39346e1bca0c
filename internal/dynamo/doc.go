// Package dynamo provides the core primitives shared by the charged-particle
// simulation.
//
// The package defines the value types every other package builds on:
//
//   - [Vec2]: immutable 2D vector
//   - [IntegrationParams]: time step, particle count, sub-steps per frame
//   - [ForceParams]: softening, coefficient, boundary strength, damping
//   - [Viewport]: window size and world-space bounds
//
// Parameter records are plain values passed explicitly into each call. They
// are validated once, at configuration time, through their Validate methods;
// the stepping hot path assumes validated input.
//
// # Thread Safety
//
// All types in this package are values and safe to copy between goroutines.
// [ParallelFor] is the only concurrent helper.
package dynamo
