package playrho

import "math"

func assert(a bool) {
	if !a {
		panic("assert")
	}
}

const maxFloat = math.MaxFloat64
const epsilon = math.SmallestNonzeroFloat64

// Global tuning constants based on meters-kilograms-seconds (MKS) units.
// Solver tunables that users may want to vary per world live in SolverConf;
// the constants below are structural and fixed.

// Collision

// The maximum number of contact points between two convex shapes. Do
// not change this value.
const maxManifoldPoints = 2

// The maximum number of vertices on a convex polygon.
const maxPolygonVertices = 8

// This is used to fatten AABBs in the broad-phase. This allows proxies
// to move by a small amount without triggering a pair update.
// This is in meters.
const aabbExtension = 0.1

// This is used to fatten AABBs in the broad-phase. This is used to predict
// the future position based on the current displacement.
// This is a dimensionless multiplier.
const aabbMultiplier = 2.0

// A small length used as a collision and constraint tolerance. Usually it is
// chosen to be numerically significant, but visually insignificant.
const linearSlop = 0.005

// A small angle used as a collision and constraint tolerance. Usually it is
// chosen to be numerically significant, but visually insignificant.
const angularSlop = 2.0 / 180.0 * math.Pi

// The radius of the polygon shape skin. This should not be modified. Making
// this smaller means polygons will have an insufficient buffer for continuous
// collision. Making it larger may create artifacts for vertex collision.
const polygonRadius = 2.0 * linearSlop

// Dynamics

// The maximum linear velocity of a body per step. This limit is very large
// and is used to prevent numerical problems. You shouldn't need to adjust it.
const maxTranslation = 2.0
const maxTranslationSquared = maxTranslation * maxTranslation

// The maximum angular velocity of a body per step.
const maxRotation = 0.5 * math.Pi
const maxRotationSquared = maxRotation * maxRotation
