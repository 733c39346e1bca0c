// Package physics implements the charged-particle force model and the
// ensemble stepper.
//
// A step has three phases that must run in order:
//
//  1. reset every force accumulator to the particle's [BoundaryForce]
//  2. for every index pair i < j, compute [PairForce] once, add it to i and
//     subtract it from j
//  3. integrate every particle over the time step and apply velocity damping
//
// Phase 2 evaluates n(n-1)/2 pairs and keeps the two contributions of a pair
// exact negations of each other regardless of evaluation order.
//
// [Advance] is the serial entry point; [Serial] and [Parallel] implement
// [Stepper] for callers that select a strategy by name. [Frame] runs the
// configured number of sub-steps between two renders.
//
// # Energy
//
// The softened pair law has a closed-form potential, so the ensemble reports
// kinetic, potential and total energy for drift monitoring:
//
//	e := physics.NewEnsemble(seeds)
//	physics.Advance(e, fp, ip)
//	drift := e.Energy(fp)
package physics
