package playrho

import (
	"math"

	"github.com/setanarut/vec"
)

const nullFeature uint8 = math.MaxUint8

const (
	contactFeatureVertex uint8 = 0
	contactFeatureFace   uint8 = 1
)

// ContactFeature identifies the features that intersect to form a contact
// point. This must be 4 bytes or less.
type ContactFeature struct {
	IndexA uint8 // feature index on shapeA
	IndexB uint8 // feature index on shapeB
	TypeA  uint8 // the feature type on shapeA
	TypeB  uint8 // the feature type on shapeB
}

// ContactID facilitates warm starting by identifying contact points across
// manifold updates.
type ContactID ContactFeature

// Key packs the id for quick comparison.
func (id ContactID) Key() uint32 {
	var key uint32
	key |= uint32(id.IndexA)
	key |= uint32(id.IndexB) << 8
	key |= uint32(id.TypeA) << 16
	key |= uint32(id.TypeB) << 24
	return key
}

func (id *ContactID) SetKey(key uint32) {
	id.IndexA = uint8(key & 0xFF)
	id.IndexB = uint8(key >> 8 & 0xFF)
	id.TypeA = uint8(key >> 16 & 0xFF)
	id.TypeB = uint8(key >> 24 & 0xFF)
}

// ManifoldPoint is a contact point belonging to a contact manifold. It holds
// details related to the geometry and dynamics of the contact points.
// The local point usage depends on the manifold type:
//   - ManifoldCircles: the local center of circleB
//   - ManifoldFaceA: the local center of circleB or the clip point of polygonB
//   - ManifoldFaceB: the clip point of polygonA
//
// This structure is stored across time steps, so we keep it small.
// Note: the impulses are used for internal caching and may not provide
// reliable contact forces, especially for high speed collisions.
type ManifoldPoint struct {
	LocalPoint     vec.Vec2  // usage depends on manifold type
	NormalImpulse  float64   // the non-penetration impulse
	TangentImpulse float64   // the friction impulse
	Id             ContactID // uniquely identifies a contact point between two shapes
}

// Manifold types. The local point usage depends on the type:
//   - ManifoldCircles: the local center of circleA
//   - ManifoldFaceA: the center of faceA
//   - ManifoldFaceB: the center of faceB
//
// Similarly the local normal usage:
//   - ManifoldCircles: not used
//   - ManifoldFaceA: the normal on polygonA
//   - ManifoldFaceB: the normal on polygonB
const (
	ManifoldCircles uint8 = iota
	ManifoldFaceA
	ManifoldFaceB
)

// Manifold describes the contact surface for two touching convex shapes.
// Contacts are stored this way so that position correction can account for
// movement, which is critical for continuous physics.
type Manifold struct {
	Points      [maxManifoldPoints]ManifoldPoint // the points of contact
	LocalNormal vec.Vec2                         // not used for ManifoldCircles
	LocalPoint  vec.Vec2                         // usage depends on manifold type
	Type        uint8
	PointCount  int // the number of manifold points
}

// WorldManifold is used to compute the current state of a contact manifold.
type WorldManifold struct {
	Normal      vec.Vec2                       // world vector pointing from A to B
	Points      [maxManifoldPoints]vec.Vec2    // world contact points (points of intersection)
	Separations [maxManifoldPoints]float64     // a negative value indicates overlap, in meters
}

// Initialize evaluates the manifold in world coordinates using the current
// transforms and shape radii.
func (wm *WorldManifold) Initialize(manifold *Manifold, xfA Transform, radiusA float64, xfB Transform, radiusB float64) {
	if manifold.PointCount == 0 {
		return
	}

	switch manifold.Type {
	case ManifoldCircles:
		wm.Normal = vec.Vec2{X: 1.0, Y: 0.0}
		pointA := TransformVec2Mul(xfA, manifold.LocalPoint)
		pointB := TransformVec2Mul(xfB, manifold.Points[0].LocalPoint)
		if Vec2DistanceSquared(pointA, pointB) > epsilon*epsilon {
			wm.Normal = pointB.Sub(pointA)
			Normalize(&wm.Normal)
		}

		cA := pointA.Add(wm.Normal.Scale(radiusA))
		cB := pointB.Sub(wm.Normal.Scale(radiusB))

		wm.Points[0] = cA.Add(cB).Scale(0.5)
		wm.Separations[0] = cB.Sub(cA).Dot(wm.Normal)

	case ManifoldFaceA:
		wm.Normal = RotVec2Mul(xfA.Q, manifold.LocalNormal)
		planePoint := TransformVec2Mul(xfA, manifold.LocalPoint)

		for i := 0; i < manifold.PointCount; i++ {
			clipPoint := TransformVec2Mul(xfB, manifold.Points[i].LocalPoint)
			cA := clipPoint.Add(wm.Normal.Scale(radiusA - clipPoint.Sub(planePoint).Dot(wm.Normal)))
			cB := clipPoint.Sub(wm.Normal.Scale(radiusB))
			wm.Points[i] = cA.Add(cB).Scale(0.5)
			wm.Separations[i] = cB.Sub(cA).Dot(wm.Normal)
		}

	case ManifoldFaceB:
		wm.Normal = RotVec2Mul(xfB.Q, manifold.LocalNormal)
		planePoint := TransformVec2Mul(xfB, manifold.LocalPoint)

		for i := 0; i < manifold.PointCount; i++ {
			clipPoint := TransformVec2Mul(xfA, manifold.Points[i].LocalPoint)
			cB := clipPoint.Add(wm.Normal.Scale(radiusB - clipPoint.Sub(planePoint).Dot(wm.Normal)))
			cA := clipPoint.Sub(wm.Normal.Scale(radiusA))
			wm.Points[i] = cA.Add(cB).Scale(0.5)
			wm.Separations[i] = cA.Sub(cB).Dot(wm.Normal)
		}

		// Ensure normal points from A to B.
		wm.Normal = wm.Normal.Neg()
	}
}

// ClipVertex is used for computing contact manifolds.
type ClipVertex struct {
	V  vec.Vec2
	Id ContactID
}

// RayCastInput describes a ray extending from P1 to P1 + MaxFraction*(P2-P1).
type RayCastInput struct {
	P1, P2      vec.Vec2
	MaxFraction float64
}

// RayCastOutput reports a hit at P1 + Fraction*(P2-P1), where P1 and P2 come
// from RayCastInput.
type RayCastOutput struct {
	Normal   vec.Vec2
	Fraction float64
}

// AABB is an axis aligned bounding box.
type AABB struct {
	LowerBound vec.Vec2 // the lower vertex
	UpperBound vec.Vec2 // the upper vertex
}

// GetCenter returns the center of the AABB.
func (bb AABB) GetCenter() vec.Vec2 {
	return bb.LowerBound.Add(bb.UpperBound).Scale(0.5)
}

// GetExtents returns the half-widths of the AABB.
func (bb AABB) GetExtents() vec.Vec2 {
	return bb.UpperBound.Sub(bb.LowerBound).Scale(0.5)
}

// GetPerimeter returns the perimeter length.
func (bb AABB) GetPerimeter() float64 {
	wx := bb.UpperBound.X - bb.LowerBound.X
	wy := bb.UpperBound.Y - bb.LowerBound.Y
	return 2.0 * (wx + wy)
}

// CombineInPlace grows this AABB to contain another.
func (bb *AABB) CombineInPlace(aabb AABB) {
	bb.LowerBound = Vec2Min(bb.LowerBound, aabb.LowerBound)
	bb.UpperBound = Vec2Max(bb.UpperBound, aabb.UpperBound)
}

// CombineTwoInPlace sets this AABB to the union of two others.
func (bb *AABB) CombineTwoInPlace(aabb1, aabb2 AABB) {
	bb.LowerBound = Vec2Min(aabb1.LowerBound, aabb2.LowerBound)
	bb.UpperBound = Vec2Max(aabb1.UpperBound, aabb2.UpperBound)
}

// Contains reports whether this AABB contains the provided AABB.
func (bb AABB) Contains(aabb AABB) bool {
	return bb.LowerBound.X <= aabb.LowerBound.X &&
		bb.LowerBound.Y <= aabb.LowerBound.Y &&
		aabb.UpperBound.X <= bb.UpperBound.X &&
		aabb.UpperBound.Y <= bb.UpperBound.Y
}

func (bb AABB) IsValid() bool {
	d := bb.UpperBound.Sub(bb.LowerBound)
	return d.X >= 0.0 && d.Y >= 0.0 && Vec2IsValid(bb.LowerBound) && Vec2IsValid(bb.UpperBound)
}

// RayCast intersects a ray with the AABB.
// From Real-time Collision Detection, p179.
func (bb AABB) RayCast(output *RayCastOutput, input RayCastInput) bool {
	tmin := -maxFloat
	tmax := maxFloat

	p := [2]float64{input.P1.X, input.P1.Y}
	d := [2]float64{input.P2.X - input.P1.X, input.P2.Y - input.P1.Y}
	lower := [2]float64{bb.LowerBound.X, bb.LowerBound.Y}
	upper := [2]float64{bb.UpperBound.X, bb.UpperBound.Y}

	var normal vec.Vec2

	for i := 0; i < 2; i++ {
		if math.Abs(d[i]) < epsilon {
			// Parallel.
			if p[i] < lower[i] || upper[i] < p[i] {
				return false
			}
		} else {
			invD := 1.0 / d[i]
			t1 := (lower[i] - p[i]) * invD
			t2 := (upper[i] - p[i]) * invD

			// Sign of the normal vector.
			s := -1.0
			if t1 > t2 {
				t1, t2 = t2, t1
				s = 1.0
			}

			// Push the min up
			if t1 > tmin {
				normal = vec.Vec2{}
				if i == 0 {
					normal.X = s
				} else {
					normal.Y = s
				}
				tmin = t1
			}

			// Pull the max down
			tmax = math.Min(tmax, t2)

			if tmin > tmax {
				return false
			}
		}
	}

	// Does the ray start inside the box?
	// Does the ray intersect beyond the max fraction?
	if tmin < 0.0 || input.MaxFraction < tmin {
		return false
	}

	output.Fraction = tmin
	output.Normal = normal
	return true
}

// TestOverlapBoundingBoxes reports whether two AABBs overlap.
func TestOverlapBoundingBoxes(a, b AABB) bool {
	d1 := b.LowerBound.Sub(a.UpperBound)
	d2 := a.LowerBound.Sub(b.UpperBound)

	if d1.X > 0.0 || d1.Y > 0.0 {
		return false
	}
	if d2.X > 0.0 || d2.Y > 0.0 {
		return false
	}
	return true
}

// ClipSegmentToLine performs Sutherland-Hodgman clipping.
func ClipSegmentToLine(vOut []ClipVertex, vIn []ClipVertex, normal vec.Vec2, offset float64, vertexIndexA int) int {
	// Start with no output points
	numOut := 0

	// Calculate the distance of end points to the line
	distance0 := normal.Dot(vIn[0].V) - offset
	distance1 := normal.Dot(vIn[1].V) - offset

	// If the points are behind the plane
	if distance0 <= 0.0 {
		vOut[numOut] = vIn[0]
		numOut++
	}
	if distance1 <= 0.0 {
		vOut[numOut] = vIn[1]
		numOut++
	}

	// If the points are on different sides of the plane
	if distance0*distance1 < 0.0 {
		// Find intersection point of edge and plane
		interp := distance0 / (distance0 - distance1)
		vOut[numOut].V = vIn[0].V.Add(vIn[1].V.Sub(vIn[0].V).Scale(interp))

		// VertexA is hitting edgeB.
		vOut[numOut].Id.IndexA = uint8(vertexIndexA)
		vOut[numOut].Id.IndexB = vIn[0].Id.IndexB
		vOut[numOut].Id.TypeA = contactFeatureVertex
		vOut[numOut].Id.TypeB = contactFeatureFace
		numOut++
	}

	return numOut
}

// TestOverlapShapes reports whether two shape children overlap under the
// given transforms, by evaluating their contact manifold.
func TestOverlapShapes(shapeA Shape, indexA int, shapeB Shape, indexB int, xfA Transform, xfB Transform) bool {
	var manifold Manifold
	EvaluateShapes(&manifold, shapeA, indexA, shapeB, indexB, xfA, xfB)
	return manifold.PointCount > 0
}
