package playrho

import (
	"math"

	"github.com/setanarut/vec"
)

// CircleShape is a solid circle with a local center offset.
type CircleShape struct {
	Radius float64

	// P is the local position of the circle center.
	P vec.Vec2
}

func MakeCircleShape(radius float64) CircleShape {
	return CircleShape{Radius: radius}
}

func NewCircleShape(radius float64) *CircleShape {
	res := MakeCircleShape(radius)
	return &res
}

func (shape *CircleShape) Clone() Shape {
	clone := *shape
	return &clone
}

func (shape *CircleShape) GetType() ShapeType {
	return ShapeTypeCircle
}

func (shape *CircleShape) GetRadius() float64 {
	return shape.Radius
}

func (shape *CircleShape) GetChildCount() int {
	return 1
}

func (shape *CircleShape) TestPoint(transform Transform, p vec.Vec2) bool {
	center := transform.P.Add(RotVec2Mul(transform.Q, shape.P))
	d := p.Sub(center)
	return d.Dot(d) <= shape.Radius*shape.Radius
}

// RayCast solves the quadratic for the segment/circle intersection.
// Collision Detection in Interactive 3D Environments, section 3.1.2:
//
//	x = s + a * r
//	norm(x) = radius
func (shape *CircleShape) RayCast(output *RayCastOutput, input RayCastInput, transform Transform, childIndex int) bool {
	position := transform.P.Add(RotVec2Mul(transform.Q, shape.P))
	s := input.P1.Sub(position)
	b := s.Dot(s) - shape.Radius*shape.Radius

	r := input.P2.Sub(input.P1)
	c := s.Dot(r)
	rr := r.Dot(r)
	sigma := c*c - rr*b

	// Check for negative discriminant and short segment.
	if sigma < 0.0 || rr < epsilon {
		return false
	}

	// Find the point of intersection of the line with the circle.
	a := -(c + math.Sqrt(sigma))

	// Is the intersection point on the segment?
	if 0.0 <= a && a <= input.MaxFraction*rr {
		a /= rr
		output.Fraction = a
		output.Normal = s.Add(r.Scale(a))
		Normalize(&output.Normal)
		return true
	}

	return false
}

func (shape *CircleShape) ComputeAABB(aabb *AABB, transform Transform, childIndex int) {
	p := transform.P.Add(RotVec2Mul(transform.Q, shape.P))
	aabb.LowerBound = vec.Vec2{X: p.X - shape.Radius, Y: p.Y - shape.Radius}
	aabb.UpperBound = vec.Vec2{X: p.X + shape.Radius, Y: p.Y + shape.Radius}
}

func (shape *CircleShape) ComputeMass(massData *MassData, density float64) {
	massData.Mass = density * math.Pi * shape.Radius * shape.Radius
	massData.Center = shape.P

	// inertia about the local origin
	massData.I = massData.Mass * (0.5*shape.Radius*shape.Radius + shape.P.Dot(shape.P))
}
