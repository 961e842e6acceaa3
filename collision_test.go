package playrho_test

import (
	"math"
	"testing"

	"github.com/onsi/gomega"
	"github.com/setanarut/vec"

	playrho "github.com/LoneBoco/PlayRho"
)

func TestCollideCircles(t *testing.T) {
	g := gomega.NewWithT(t)

	a := playrho.NewCircleShape(0.5)
	b := playrho.NewCircleShape(0.5)

	xfA := playrho.MakeTransform()
	xfB := playrho.MakeTransform()
	xfB.P = vec.Vec2{X: 0.8}

	var manifold playrho.Manifold
	playrho.CollideCircles(&manifold, a, xfA, b, xfB)

	g.Expect(manifold.PointCount).To(gomega.Equal(1))
	g.Expect(manifold.Type).To(gomega.Equal(playrho.ManifoldCircles))

	// Separated circles produce no points.
	xfB.P = vec.Vec2{X: 2.0}
	playrho.CollideCircles(&manifold, a, xfA, b, xfB)
	g.Expect(manifold.PointCount).To(gomega.BeZero())
}

func TestCollidePolygonAndCircle(t *testing.T) {
	g := gomega.NewWithT(t)

	poly := playrho.NewPolygonShape()
	poly.SetAsBox(1.0, 1.0)
	circle := playrho.NewCircleShape(0.5)

	xfA := playrho.MakeTransform()
	xfB := playrho.MakeTransform()
	xfB.P = vec.Vec2{X: 1.25}

	var manifold playrho.Manifold
	playrho.CollidePolygonAndCircle(&manifold, poly, xfA, circle, xfB)

	g.Expect(manifold.PointCount).To(gomega.Equal(1))

	var wm playrho.WorldManifold
	wm.Initialize(&manifold, xfA, poly.GetRadius(), xfB, circle.GetRadius())
	g.Expect(wm.Normal.X).To(gomega.BeNumerically("~", 1.0, 1e-9))
}

func TestCollidePolygonsDeepOverlap(t *testing.T) {
	g := gomega.NewWithT(t)

	a := playrho.NewPolygonShape()
	a.SetAsBox(1.0, 1.0)
	b := playrho.NewPolygonShape()
	b.SetAsBox(1.0, 1.0)

	xfA := playrho.MakeTransform()
	xfB := playrho.MakeTransform()
	xfB.P = vec.Vec2{X: 1.5}

	var manifold playrho.Manifold
	playrho.CollidePolygons(&manifold, a, xfA, b, xfB)

	// Face contact between two boxes carries two points.
	g.Expect(manifold.PointCount).To(gomega.Equal(2))

	var wm playrho.WorldManifold
	wm.Initialize(&manifold, xfA, a.GetRadius(), xfB, b.GetRadius())
	g.Expect(math.Abs(wm.Normal.X)).To(gomega.BeNumerically("~", 1.0, 1e-9))
	g.Expect(wm.Separations[0]).To(gomega.BeNumerically("<", 0.0))
}

func TestEvaluateShapesMixedPair(t *testing.T) {
	g := gomega.NewWithT(t)

	circle := playrho.NewCircleShape(0.5)
	poly := playrho.NewPolygonShape()
	poly.SetAsBox(1.0, 1.0)

	xfCircle := playrho.MakeTransform()
	xfCircle.P = vec.Vec2{X: 1.25}
	xfPoly := playrho.MakeTransform()

	// Circle first: the evaluation swaps roles and reports a FaceB manifold
	// so the normal still points from shape A to shape B.
	var manifold playrho.Manifold
	playrho.EvaluateShapes(&manifold, circle, 0, poly, 0, xfCircle, xfPoly)
	g.Expect(manifold.PointCount).To(gomega.Equal(1))
	g.Expect(manifold.Type).To(gomega.Equal(playrho.ManifoldFaceB))

	var wm playrho.WorldManifold
	wm.Initialize(&manifold, xfCircle, circle.GetRadius(), xfPoly, poly.GetRadius())
	g.Expect(wm.Normal.X).To(gomega.BeNumerically("~", -1.0, 1e-9))
}

func TestPolygonComputeMass(t *testing.T) {
	g := gomega.NewWithT(t)

	poly := playrho.NewPolygonShape()
	poly.SetAsBox(1.0, 2.0)

	var md playrho.MassData
	poly.ComputeMass(&md, 3.0)

	g.Expect(md.Mass).To(gomega.BeNumerically("~", 24.0, 1e-9))
	g.Expect(md.Center.X).To(gomega.BeNumerically("~", 0.0, 1e-9))
	g.Expect(md.Center.Y).To(gomega.BeNumerically("~", 0.0, 1e-9))

	// Box inertia about the centroid: m*(w^2+h^2)/12.
	expected := 24.0 * (4.0 + 16.0) / 12.0
	g.Expect(md.I).To(gomega.BeNumerically("~", expected, 1e-9))
}

func TestShapeTestPoint(t *testing.T) {
	g := gomega.NewWithT(t)

	poly := playrho.NewPolygonShape()
	poly.SetAsBox(1.0, 1.0)
	xf := playrho.MakeTransform()

	g.Expect(poly.TestPoint(xf, vec.Vec2{X: 0.5, Y: 0.5})).To(gomega.BeTrue())
	g.Expect(poly.TestPoint(xf, vec.Vec2{X: 1.5, Y: 0.0})).To(gomega.BeFalse())

	circle := playrho.NewCircleShape(1.0)
	g.Expect(circle.TestPoint(xf, vec.Vec2{X: 0.5, Y: 0.0})).To(gomega.BeTrue())
	g.Expect(circle.TestPoint(xf, vec.Vec2{X: 1.5, Y: 0.0})).To(gomega.BeFalse())
}

func TestAABBOverlap(t *testing.T) {
	g := gomega.NewWithT(t)

	a := playrho.AABB{LowerBound: vec.Vec2{}, UpperBound: vec.Vec2{X: 1.0, Y: 1.0}}
	b := playrho.AABB{LowerBound: vec.Vec2{X: 0.5, Y: 0.5}, UpperBound: vec.Vec2{X: 2.0, Y: 2.0}}
	c := playrho.AABB{LowerBound: vec.Vec2{X: 2.0, Y: 2.0}, UpperBound: vec.Vec2{X: 3.0, Y: 3.0}}

	g.Expect(playrho.TestOverlapBoundingBoxes(a, b)).To(gomega.BeTrue())
	g.Expect(playrho.TestOverlapBoundingBoxes(a, c)).To(gomega.BeFalse())
}
