package playrho

import "github.com/setanarut/vec"

// MassData holds the mass properties computed for a shape.
type MassData struct {
	// The mass of the shape, usually in kilograms.
	Mass float64

	// The position of the shape's centroid relative to the shape's origin.
	Center vec.Vec2

	// The rotational inertia of the shape about the local origin.
	I float64
}

// ShapeType discriminates the concrete shape kinds. The ordering matters:
// contact creation normalizes a mixed pair so the higher type comes first,
// putting the polygon of a polygon-circle pair in the reference role.
type ShapeType uint8

const (
	ShapeTypeCircle ShapeType = iota
	ShapeTypePolygon
	shapeTypeCount
)

// Shape is the geometry collaborator consumed by fixtures. Shapes used for
// simulation are cloned when a fixture is created, so user-held shape values
// can be reused or mutated freely afterwards. A shape may encapsulate one or
// more child primitives.
type Shape interface {
	// Clone returns a deep copy of the concrete shape.
	Clone() Shape

	// GetType returns the shape kind, usable to down cast to the concrete
	// shape.
	GetType() ShapeType

	// GetRadius returns the shape skin radius.
	GetRadius() float64

	// GetChildCount returns the number of child primitives.
	GetChildCount() int

	// TestPoint tests a world point for containment. Only works for convex
	// shapes.
	TestPoint(xf Transform, p vec.Vec2) bool

	// RayCast casts a ray against a child shape under the given transform.
	RayCast(output *RayCastOutput, input RayCastInput, transform Transform, childIndex int) bool

	// ComputeAABB computes the axis aligned bounding box for a child shape
	// under the given world transform.
	ComputeAABB(aabb *AABB, xf Transform, childIndex int)

	// ComputeMass computes the mass properties of this shape using its
	// dimensions and the given density in kilograms per meter squared.
	// The inertia tensor is computed about the local origin.
	ComputeMass(massData *MassData, density float64)
}
