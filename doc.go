// Package playrho provides a deterministic 2D rigid body physics engine
// built around an impulse based, iterative constraint solver.
//
// A World owns bodies, fixtures, joints and contacts. Each call to
// World.Step partitions the awake bodies into islands connected by touching
// contacts and joints, integrates velocities under the persistent
// accelerations set on each body, solves the velocity constraints with warm
// starting, integrates positions, and corrects residual penetration with a
// nonlinear Gauss-Seidel pass. Islands whose bodies stay below the sleep
// tolerances long enough are put to sleep and cost nothing until something
// wakes them.
//
// All quantities use MKS units: meters, kilograms, seconds and radians.
// Tuning constants assume objects are roughly between 0.1 and 10 meters.
package playrho
