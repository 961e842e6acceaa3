package playrho

import "github.com/setanarut/vec"

// PolygonShape is a solid convex polygon. It is assumed that the interior of
// the polygon is to the left of each edge. Polygons have a maximum number of
// vertices equal to maxPolygonVertices.
type PolygonShape struct {
	Centroid vec.Vec2
	Vertices [maxPolygonVertices]vec.Vec2
	Normals  [maxPolygonVertices]vec.Vec2
	Count    int
}

func MakePolygonShape() PolygonShape {
	return PolygonShape{}
}

func NewPolygonShape() *PolygonShape {
	return &PolygonShape{}
}

func (poly *PolygonShape) GetVertex(index int) vec.Vec2 {
	assert(0 <= index && index < poly.Count)
	return poly.Vertices[index]
}

func (poly *PolygonShape) Clone() Shape {
	clone := *poly
	return &clone
}

func (poly *PolygonShape) GetType() ShapeType {
	return ShapeTypePolygon
}

func (poly *PolygonShape) GetRadius() float64 {
	return polygonRadius
}

func (poly *PolygonShape) GetChildCount() int {
	return 1
}

// SetAsBox builds an axis-aligned box centered on the local origin from
// half-width and half-height extents.
func (poly *PolygonShape) SetAsBox(hx, hy float64) {
	poly.Count = 4
	poly.Vertices[0] = vec.Vec2{X: -hx, Y: -hy}
	poly.Vertices[1] = vec.Vec2{X: hx, Y: -hy}
	poly.Vertices[2] = vec.Vec2{X: hx, Y: hy}
	poly.Vertices[3] = vec.Vec2{X: -hx, Y: hy}
	poly.Normals[0] = vec.Vec2{X: 0.0, Y: -1.0}
	poly.Normals[1] = vec.Vec2{X: 1.0, Y: 0.0}
	poly.Normals[2] = vec.Vec2{X: 0.0, Y: 1.0}
	poly.Normals[3] = vec.Vec2{X: -1.0, Y: 0.0}
	poly.Centroid = vec.Vec2{}
}

// SetAsBoxFromCenterAndAngle builds a box positioned and rotated in the local
// frame.
func (poly *PolygonShape) SetAsBoxFromCenterAndAngle(hx, hy float64, center vec.Vec2, angle float64) {
	poly.SetAsBox(hx, hy)
	poly.Centroid = center

	xf := MakeTransform()
	xf.P = center
	xf.Q.Set(angle)

	// Transform vertices and normals.
	for i := 0; i < poly.Count; i++ {
		poly.Vertices[i] = TransformVec2Mul(xf, poly.Vertices[i])
		poly.Normals[i] = RotVec2Mul(xf.Q, poly.Normals[i])
	}
}

func computeCentroid(vs []vec.Vec2, count int) vec.Vec2 {
	assert(count >= 3)

	c := vec.Vec2{}
	area := 0.0

	// pRef is the reference point for forming triangles.
	// Its location doesn't change the result (except for rounding error).
	pRef := vec.Vec2{}
	for i := 0; i < count; i++ {
		pRef = pRef.Add(vs[i])
	}
	pRef = pRef.Scale(1.0 / float64(count))

	inv3 := 1.0 / 3.0

	for i := 0; i < count; i++ {
		// Triangle vertices.
		p1 := pRef
		p2 := vs[i]
		p3 := vs[0]
		if i+1 < count {
			p3 = vs[i+1]
		}

		e1 := p2.Sub(p1)
		e2 := p3.Sub(p1)

		triangleArea := 0.5 * e1.Cross(e2)
		area += triangleArea

		// Area weighted centroid
		c = c.Add(p1.Add(p2).Add(p3).Scale(triangleArea * inv3))
	}

	assert(area > epsilon)
	return c.Scale(1.0 / area)
}

// Set builds a convex hull from the given points. The count must be in the
// range [3, maxPolygonVertices]. Points may be reordered, even if they form a
// convex polygon, and collinear points are handled but not removed.
func (poly *PolygonShape) Set(vertices []vec.Vec2) {
	count := len(vertices)
	assert(3 <= count && count <= maxPolygonVertices)
	if count < 3 {
		poly.SetAsBox(1.0, 1.0)
		return
	}

	n := count
	if n > maxPolygonVertices {
		n = maxPolygonVertices
	}

	// Perform welding and copy vertices into a local buffer.
	var ps [maxPolygonVertices]vec.Vec2
	tempCount := 0

	for i := 0; i < n; i++ {
		v := vertices[i]

		unique := true
		for j := 0; j < tempCount; j++ {
			if Vec2DistanceSquared(v, ps[j]) < (0.5*linearSlop)*(0.5*linearSlop) {
				unique = false
				break
			}
		}

		if unique {
			ps[tempCount] = v
			tempCount++
		}
	}

	n = tempCount
	if n < 3 {
		// Polygon is degenerate.
		assert(false)
		poly.SetAsBox(1.0, 1.0)
		return
	}

	// Create the convex hull using the gift wrapping algorithm.

	// Find the right most point on the hull.
	i0 := 0
	x0 := ps[0].X
	for i := 1; i < n; i++ {
		x := ps[i].X
		if x > x0 || (x == x0 && ps[i].Y < ps[i0].Y) {
			i0 = i
			x0 = x
		}
	}

	var hull [maxPolygonVertices]int
	m := 0
	ih := i0

	for {
		assert(m < maxPolygonVertices)
		hull[m] = ih

		ie := 0
		for j := 1; j < n; j++ {
			if ie == ih {
				ie = j
				continue
			}

			r := ps[ie].Sub(ps[hull[m]])
			v := ps[j].Sub(ps[hull[m]])
			c := r.Cross(v)
			if c < 0.0 {
				ie = j
			}

			// Collinearity check
			if c == 0.0 && Vec2LengthSquared(v) > Vec2LengthSquared(r) {
				ie = j
			}
		}

		m++
		ih = ie

		if ie == i0 {
			break
		}
	}

	if m < 3 {
		// Polygon is degenerate.
		assert(false)
		poly.SetAsBox(1.0, 1.0)
		return
	}

	poly.Count = m

	for i := 0; i < m; i++ {
		poly.Vertices[i] = ps[hull[i]]
	}

	// Compute normals. Ensure the edges have non-zero length.
	for i := 0; i < m; i++ {
		i1 := i
		i2 := 0
		if i+1 < m {
			i2 = i + 1
		}

		edge := poly.Vertices[i2].Sub(poly.Vertices[i1])
		assert(Vec2LengthSquared(edge) > epsilon*epsilon)
		poly.Normals[i] = CrossVec2Scalar(edge, 1.0)
		Normalize(&poly.Normals[i])
	}

	poly.Centroid = computeCentroid(poly.Vertices[:], m)
}

func (poly *PolygonShape) TestPoint(xf Transform, p vec.Vec2) bool {
	pLocal := RotVec2MulT(xf.Q, p.Sub(xf.P))

	for i := 0; i < poly.Count; i++ {
		dot := poly.Normals[i].Dot(pLocal.Sub(poly.Vertices[i]))
		if dot > 0.0 {
			return false
		}
	}

	return true
}

func (poly *PolygonShape) RayCast(output *RayCastOutput, input RayCastInput, xf Transform, childIndex int) bool {
	// Put the ray into the polygon's frame of reference.
	p1 := RotVec2MulT(xf.Q, input.P1.Sub(xf.P))
	p2 := RotVec2MulT(xf.Q, input.P2.Sub(xf.P))
	d := p2.Sub(p1)

	lower := 0.0
	upper := input.MaxFraction

	index := -1

	for i := 0; i < poly.Count; i++ {
		// p = p1 + a * d
		// dot(normal, p - v) = 0
		// dot(normal, p1 - v) + a * dot(normal, d) = 0
		numerator := poly.Normals[i].Dot(poly.Vertices[i].Sub(p1))
		denominator := poly.Normals[i].Dot(d)

		if denominator == 0.0 {
			if numerator < 0.0 {
				return false
			}
		} else {
			// Note: we want this predicate without division:
			// lower < numerator / denominator, where denominator < 0
			// Since denominator < 0, we have to flip the inequality:
			// lower < numerator / denominator <==> denominator * lower > numerator.
			if denominator < 0.0 && numerator < lower*denominator {
				// The segment enters this half-space.
				lower = numerator / denominator
				index = i
			} else if denominator > 0.0 && numerator < upper*denominator {
				// The segment exits this half-space.
				upper = numerator / denominator
			}
		}

		if upper < lower {
			return false
		}
	}

	assert(0.0 <= lower && lower <= input.MaxFraction)

	if index >= 0 {
		output.Fraction = lower
		output.Normal = RotVec2Mul(xf.Q, poly.Normals[index])
		return true
	}

	return false
}

func (poly *PolygonShape) ComputeAABB(aabb *AABB, xf Transform, childIndex int) {
	lower := TransformVec2Mul(xf, poly.Vertices[0])
	upper := lower

	for i := 1; i < poly.Count; i++ {
		v := TransformVec2Mul(xf, poly.Vertices[i])
		lower = Vec2Min(lower, v)
		upper = Vec2Max(upper, v)
	}

	r := vec.Vec2{X: polygonRadius, Y: polygonRadius}
	aabb.LowerBound = lower.Sub(r)
	aabb.UpperBound = upper.Add(r)
}

func (poly *PolygonShape) ComputeMass(massData *MassData, density float64) {
	// Polygon mass, centroid, and inertia.
	// Let rho be the polygon density in mass per unit area.
	// Then:
	// mass = rho * int(dA)
	// centroid.x = (1/mass) * rho * int(x * dA)
	// centroid.y = (1/mass) * rho * int(y * dA)
	// I = rho * int((x*x + y*y) * dA)
	//
	// We can compute these integrals by summing all the integrals
	// for each triangle of the polygon, integrating over the (u,v)
	// coordinates of each triangle with Jacobian D = cross(e1, e2)
	// and triangle centroid (1/3) * (p1 + p2 + p3).

	assert(poly.Count >= 3)

	center := vec.Vec2{}
	area := 0.0
	I := 0.0

	// s is the reference point for forming triangles.
	// Its location doesn't change the result (except for rounding error).
	s := vec.Vec2{}
	for i := 0; i < poly.Count; i++ {
		s = s.Add(poly.Vertices[i])
	}
	s = s.Scale(1.0 / float64(poly.Count))

	kInv3 := 1.0 / 3.0

	for i := 0; i < poly.Count; i++ {
		// Triangle vertices.
		e1 := poly.Vertices[i].Sub(s)
		e2 := poly.Vertices[0].Sub(s)
		if i+1 < poly.Count {
			e2 = poly.Vertices[i+1].Sub(s)
		}

		D := e1.Cross(e2)

		triangleArea := 0.5 * D
		area += triangleArea

		// Area weighted centroid
		center = center.Add(e1.Add(e2).Scale(triangleArea * kInv3))

		ex1, ey1 := e1.X, e1.Y
		ex2, ey2 := e2.X, e2.Y

		intx2 := ex1*ex1 + ex2*ex1 + ex2*ex2
		inty2 := ey1*ey1 + ey2*ey1 + ey2*ey2

		I += (0.25 * kInv3 * D) * (intx2 + inty2)
	}

	// Total mass
	massData.Mass = density * area

	// Center of mass
	assert(area > epsilon)
	center = center.Scale(1.0 / area)
	massData.Center = center.Add(s)

	// Inertia tensor relative to the local origin (point s).
	massData.I = density * I

	// Shift to center of mass then to original body origin.
	massData.I += massData.Mass * (massData.Center.Dot(massData.Center) - center.Dot(center))
}

// Validate reports whether the polygon is convex with a counter-clockwise
// winding. This is a geometric check, not a numerical robustness guarantee.
func (poly *PolygonShape) Validate() bool {
	for i := 0; i < poly.Count; i++ {
		i1 := i
		i2 := 0
		if i < poly.Count-1 {
			i2 = i1 + 1
		}

		p := poly.Vertices[i1]
		e := poly.Vertices[i2].Sub(p)

		for j := 0; j < poly.Count; j++ {
			if j == i1 || j == i2 {
				continue
			}

			v := poly.Vertices[j].Sub(p)
			if e.Cross(v) < 0.0 {
				return false
			}
		}
	}

	return true
}
