package playrho

import (
	"math"

	"github.com/setanarut/vec"
)

type velocityConstraintPoint struct {
	rA             vec.Vec2
	rB             vec.Vec2
	normalImpulse  float64
	tangentImpulse float64
	normalMass     float64
	tangentMass    float64
	velocityBias   float64
}

type contactVelocityConstraint struct {
	points             [maxManifoldPoints]velocityConstraintPoint
	normal             vec.Vec2
	normalMass         Mat22
	k                  Mat22
	indexA             int
	indexB             int
	invMassA, invMassB float64
	invIA, invIB       float64
	friction           float64
	restitution        float64
	tangentSpeed       float64
	pointCount         int
	contactIndex       int
}

type contactPositionConstraint struct {
	localPoints                [maxManifoldPoints]vec.Vec2
	localNormal                vec.Vec2
	localPoint                 vec.Vec2
	indexA                     int
	indexB                     int
	invMassA, invMassB         float64
	localCenterA, localCenterB vec.Vec2
	invIA, invIB               float64
	manifoldType               uint8
	radiusA, radiusB           float64
	pointCount                 int
}

type contactSolverDef struct {
	Step       timeStep
	Contacts   []*Contact
	Count      int
	Positions  []position
	Velocities []velocity
	Conf       SolverConf
}

// contactSolver solves the velocity and position constraints of a batch of
// contacts. Solver debugging is normally disabled because the block solver
// sometimes has to deal with a poorly conditioned effective mass matrix.
type contactSolver struct {
	step                timeStep
	positions           []position
	velocities          []velocity
	positionConstraints []contactPositionConstraint
	velocityConstraints []contactVelocityConstraint
	contacts            []*Contact
	count               int
	conf                SolverConf
}

func newContactSolver(def *contactSolverDef) *contactSolver {
	solver := &contactSolver{
		step:                def.Step,
		count:               def.Count,
		positionConstraints: make([]contactPositionConstraint, def.Count),
		velocityConstraints: make([]contactVelocityConstraint, def.Count),
		positions:           def.Positions,
		velocities:          def.Velocities,
		contacts:            def.Contacts,
		conf:                def.Conf,
	}

	// Initialize position independent portions of the constraints.
	for i := 0; i < solver.count; i++ {
		contact := solver.contacts[i]

		fixtureA := contact.GetFixtureA()
		fixtureB := contact.GetFixtureB()
		shapeA := fixtureA.GetShape()
		shapeB := fixtureB.GetShape()
		radiusA := shapeA.GetRadius()
		radiusB := shapeB.GetRadius()
		bodyA := fixtureA.GetBody()
		bodyB := fixtureB.GetBody()
		manifold := contact.GetManifold()

		pointCount := manifold.PointCount
		assert(pointCount > 0)

		vc := &solver.velocityConstraints[i]
		vc.friction = contact.GetFriction()
		vc.restitution = contact.GetRestitution()
		vc.tangentSpeed = contact.GetTangentSpeed()
		vc.indexA = bodyA.islandIndex
		vc.indexB = bodyB.islandIndex
		vc.invMassA = bodyA.invMass
		vc.invMassB = bodyB.invMass
		vc.invIA = bodyA.invI
		vc.invIB = bodyB.invI
		vc.contactIndex = i
		vc.pointCount = pointCount
		vc.k.SetZero()
		vc.normalMass.SetZero()

		pc := &solver.positionConstraints[i]
		pc.indexA = bodyA.islandIndex
		pc.indexB = bodyB.islandIndex
		pc.invMassA = bodyA.invMass
		pc.invMassB = bodyB.invMass
		pc.localCenterA = bodyA.sweep.LocalCenter
		pc.localCenterB = bodyB.sweep.LocalCenter
		pc.invIA = bodyA.invI
		pc.invIB = bodyB.invI
		pc.localNormal = manifold.LocalNormal
		pc.localPoint = manifold.LocalPoint
		pc.pointCount = pointCount
		pc.radiusA = radiusA
		pc.radiusB = radiusB
		pc.manifoldType = manifold.Type

		for j := 0; j < pointCount; j++ {
			cp := &manifold.Points[j]
			vcp := &vc.points[j]

			if solver.step.WarmStarting {
				vcp.normalImpulse = solver.step.DtRatio * cp.NormalImpulse
				vcp.tangentImpulse = solver.step.DtRatio * cp.TangentImpulse
			} else {
				vcp.normalImpulse = 0.0
				vcp.tangentImpulse = 0.0
			}

			vcp.rA = vec.Vec2{}
			vcp.rB = vec.Vec2{}
			vcp.normalMass = 0.0
			vcp.tangentMass = 0.0
			vcp.velocityBias = 0.0

			pc.localPoints[j] = cp.LocalPoint
		}
	}

	return solver
}

// initializeVelocityConstraints computes the position dependent portions of
// the velocity constraints.
func (solver *contactSolver) initializeVelocityConstraints() {
	for i := 0; i < solver.count; i++ {
		vc := &solver.velocityConstraints[i]
		pc := &solver.positionConstraints[i]

		radiusA := pc.radiusA
		radiusB := pc.radiusB
		manifold := solver.contacts[vc.contactIndex].GetManifold()

		indexA := vc.indexA
		indexB := vc.indexB

		mA := vc.invMassA
		mB := vc.invMassB
		iA := vc.invIA
		iB := vc.invIB
		localCenterA := pc.localCenterA
		localCenterB := pc.localCenterB

		cA := solver.positions[indexA].C
		aA := solver.positions[indexA].A
		vA := solver.velocities[indexA].V
		wA := solver.velocities[indexA].W

		cB := solver.positions[indexB].C
		aB := solver.positions[indexB].A
		vB := solver.velocities[indexB].V
		wB := solver.velocities[indexB].W

		assert(manifold.PointCount > 0)

		xfA := MakeTransform()
		xfB := MakeTransform()
		xfA.Q.Set(aA)
		xfB.Q.Set(aB)
		xfA.P = cA.Sub(RotVec2Mul(xfA.Q, localCenterA))
		xfB.P = cB.Sub(RotVec2Mul(xfB.Q, localCenterB))

		var worldManifold WorldManifold
		worldManifold.Initialize(manifold, xfA, radiusA, xfB, radiusB)

		vc.normal = worldManifold.Normal

		pointCount := vc.pointCount
		for j := 0; j < pointCount; j++ {
			vcp := &vc.points[j]

			vcp.rA = worldManifold.Points[j].Sub(cA)
			vcp.rB = worldManifold.Points[j].Sub(cB)

			rnA := vcp.rA.Cross(vc.normal)
			rnB := vcp.rB.Cross(vc.normal)

			kNormal := mA + mB + iA*rnA*rnA + iB*rnB*rnB

			if kNormal > 0.0 {
				vcp.normalMass = 1.0 / kNormal
			} else {
				vcp.normalMass = 0.0
			}

			tangent := CrossVec2Scalar(vc.normal, 1.0)

			rtA := vcp.rA.Cross(tangent)
			rtB := vcp.rB.Cross(tangent)

			kTangent := mA + mB + iA*rtA*rtA + iB*rtB*rtB

			if kTangent > 0.0 {
				vcp.tangentMass = 1.0 / kTangent
			} else {
				vcp.tangentMass = 0.0
			}

			// Setup a velocity bias for restitution.
			vcp.velocityBias = 0.0
			vRel := vc.normal.Dot(
				vB.Add(CrossScalarVec2(wB, vcp.rB)).Sub(vA).Sub(CrossScalarVec2(wA, vcp.rA)))
			if vRel < -solver.conf.VelocityThreshold {
				vcp.velocityBias = -vc.restitution * vRel
			}
		}

		// If we have two points, then prepare the block solver.
		if vc.pointCount == 2 {
			vcp1 := &vc.points[0]
			vcp2 := &vc.points[1]

			rn1A := vcp1.rA.Cross(vc.normal)
			rn1B := vcp1.rB.Cross(vc.normal)
			rn2A := vcp2.rA.Cross(vc.normal)
			rn2B := vcp2.rB.Cross(vc.normal)

			k11 := mA + mB + iA*rn1A*rn1A + iB*rn1B*rn1B
			k22 := mA + mB + iA*rn2A*rn2A + iB*rn2B*rn2B
			k12 := mA + mB + iA*rn1A*rn2A + iB*rn1B*rn2B

			// Ensure a reasonable condition number.
			const maxConditionNumber = 1000.0
			if k11*k11 < maxConditionNumber*(k11*k22-k12*k12) {
				// K is safe to invert.
				vc.k.Ex = vec.Vec2{X: k11, Y: k12}
				vc.k.Ey = vec.Vec2{X: k12, Y: k22}
				vc.normalMass = vc.k.GetInverse()
			} else {
				// The constraints are redundant, just use one.
				vc.pointCount = 1
			}
		}
	}
}

func (solver *contactSolver) warmStart() {
	for i := 0; i < solver.count; i++ {
		vc := &solver.velocityConstraints[i]

		indexA := vc.indexA
		indexB := vc.indexB
		mA := vc.invMassA
		iA := vc.invIA
		mB := vc.invMassB
		iB := vc.invIB
		pointCount := vc.pointCount

		vA := solver.velocities[indexA].V
		wA := solver.velocities[indexA].W
		vB := solver.velocities[indexB].V
		wB := solver.velocities[indexB].W

		normal := vc.normal
		tangent := CrossVec2Scalar(normal, 1.0)

		for j := 0; j < pointCount; j++ {
			vcp := &vc.points[j]
			p := normal.Scale(vcp.normalImpulse).Add(tangent.Scale(vcp.tangentImpulse))
			wA -= iA * vcp.rA.Cross(p)
			vA = vA.Sub(p.Scale(mA))
			wB += iB * vcp.rB.Cross(p)
			vB = vB.Add(p.Scale(mB))
		}

		solver.velocities[indexA].V = vA
		solver.velocities[indexA].W = wA
		solver.velocities[indexB].V = vB
		solver.velocities[indexB].W = wB
	}
}

func (solver *contactSolver) solveVelocityConstraints() {
	for i := 0; i < solver.count; i++ {
		vc := &solver.velocityConstraints[i]

		indexA := vc.indexA
		indexB := vc.indexB
		mA := vc.invMassA
		iA := vc.invIA
		mB := vc.invMassB
		iB := vc.invIB
		pointCount := vc.pointCount

		vA := solver.velocities[indexA].V
		wA := solver.velocities[indexA].W
		vB := solver.velocities[indexB].V
		wB := solver.velocities[indexB].W

		normal := vc.normal
		tangent := CrossVec2Scalar(normal, 1.0)
		friction := vc.friction

		assert(pointCount == 1 || pointCount == 2)

		// Solve tangent constraints first because non-penetration is more
		// important than friction.
		for j := 0; j < pointCount; j++ {
			vcp := &vc.points[j]

			// Relative velocity at contact
			dv := vB.Add(CrossScalarVec2(wB, vcp.rB)).Sub(vA).Sub(CrossScalarVec2(wA, vcp.rA))

			// Compute tangent force
			vt := dv.Dot(tangent) - vc.tangentSpeed
			lambda := vcp.tangentMass * (-vt)

			// Clamp the accumulated force
			maxFriction := friction * vcp.normalImpulse
			newImpulse := FloatClamp(vcp.tangentImpulse+lambda, -maxFriction, maxFriction)
			lambda = newImpulse - vcp.tangentImpulse
			vcp.tangentImpulse = newImpulse

			// Apply contact impulse
			p := tangent.Scale(lambda)

			vA = vA.Sub(p.Scale(mA))
			wA -= iA * vcp.rA.Cross(p)

			vB = vB.Add(p.Scale(mB))
			wB += iB * vcp.rB.Cross(p)
		}

		// Solve normal constraints
		if pointCount == 1 {
			vcp := &vc.points[0]

			// Relative velocity at contact
			dv := vB.Add(CrossScalarVec2(wB, vcp.rB)).Sub(vA).Sub(CrossScalarVec2(wA, vcp.rA))

			// Compute normal impulse
			vn := dv.Dot(normal)
			lambda := -vcp.normalMass * (vn - vcp.velocityBias)

			// Clamp the accumulated impulse
			newImpulse := math.Max(vcp.normalImpulse+lambda, 0.0)
			lambda = newImpulse - vcp.normalImpulse
			vcp.normalImpulse = newImpulse

			// Apply contact impulse
			p := normal.Scale(lambda)
			vA = vA.Sub(p.Scale(mA))
			wA -= iA * vcp.rA.Cross(p)

			vB = vB.Add(p.Scale(mB))
			wB += iB * vcp.rB.Cross(p)
		} else {
			// Build the mini LCP for this contact patch
			//
			// vn = A * x + b, vn >= 0, x >= 0 and vn_i * x_i = 0 with i = 1..2
			//
			// A = J * W * JT and J = ( -n, -r1 x n, n, r2 x n )
			// b = vn0 - velocityBias
			//
			// The system is solved using the "Total enumeration method"
			// (s. Murty). The complementary constraint vn_i * x_i implies
			// that we must have in any solution either vn_i = 0 or x_i = 0.
			// So for the 2D contact problem the cases vn1 = 0 and vn2 = 0,
			// x1 = 0 and x2 = 0, x1 = 0 and vn2 = 0, x2 = 0 and vn1 = 0 need
			// to be tested. The first valid solution that satisfies the
			// problem is chosen.
			//
			// In order to account for the accumulated impulse 'a' (because
			// of the iterative nature of the solver which only requires that
			// the accumulated impulse is clamped and not the incremental
			// impulse) we change the impulse variable (x_i):
			//
			// x = a + d
			//
			// a := old total impulse
			// x := new total impulse
			// d := incremental impulse
			//
			// vn = A * d + b
			//    = A * (x - a) + b
			//    = A * x + b - A * a
			//    = A * x + b'
			// b' = b - A * a;

			cp1 := &vc.points[0]
			cp2 := &vc.points[1]

			a := vec.Vec2{X: cp1.normalImpulse, Y: cp2.normalImpulse}
			assert(a.X >= 0.0 && a.Y >= 0.0)

			// Relative velocity at contact
			dv1 := vB.Add(CrossScalarVec2(wB, cp1.rB)).Sub(vA).Sub(CrossScalarVec2(wA, cp1.rA))
			dv2 := vB.Add(CrossScalarVec2(wB, cp2.rB)).Sub(vA).Sub(CrossScalarVec2(wA, cp2.rA))

			// Compute normal velocity
			vn1 := dv1.Dot(normal)
			vn2 := dv2.Dot(normal)

			b := vec.Vec2{
				X: vn1 - cp1.velocityBias,
				Y: vn2 - cp2.velocityBias,
			}

			// Compute b'
			b = b.Sub(Mat22Vec2Mul(vc.k, a))

			for {
				// Case 1: vn = 0
				//
				// 0 = A * x + b'
				// x = -inv(A) * b'
				x := Mat22Vec2Mul(vc.normalMass, b).Neg()

				if x.X >= 0.0 && x.Y >= 0.0 {
					// Get the incremental impulse
					d := x.Sub(a)

					// Apply incremental impulse
					p1 := normal.Scale(d.X)
					p2 := normal.Scale(d.Y)
					vA = vA.Sub(p1.Add(p2).Scale(mA))
					wA -= iA * (cp1.rA.Cross(p1) + cp2.rA.Cross(p2))

					vB = vB.Add(p1.Add(p2).Scale(mB))
					wB += iB * (cp1.rB.Cross(p1) + cp2.rB.Cross(p2))

					// Accumulate
					cp1.normalImpulse = x.X
					cp2.normalImpulse = x.Y
					break
				}

				// Case 2: vn1 = 0 and x2 = 0
				//
				//   0 = a11 * x1 + a12 * 0 + b1'
				// vn2 = a21 * x1 + a22 * 0 + b2'
				x.X = -cp1.normalMass * b.X
				x.Y = 0.0
				vn2 = vc.k.Ex.Y*x.X + b.Y
				if x.X >= 0.0 && vn2 >= 0.0 {
					// Get the incremental impulse
					d := x.Sub(a)

					// Apply incremental impulse
					p1 := normal.Scale(d.X)
					p2 := normal.Scale(d.Y)
					vA = vA.Sub(p1.Add(p2).Scale(mA))
					wA -= iA * (cp1.rA.Cross(p1) + cp2.rA.Cross(p2))

					vB = vB.Add(p1.Add(p2).Scale(mB))
					wB += iB * (cp1.rB.Cross(p1) + cp2.rB.Cross(p2))

					// Accumulate
					cp1.normalImpulse = x.X
					cp2.normalImpulse = x.Y
					break
				}

				// Case 3: vn2 = 0 and x1 = 0
				//
				// vn1 = a11 * 0 + a12 * x2 + b1'
				//   0 = a21 * 0 + a22 * x2 + b2'
				x.X = 0.0
				x.Y = -cp2.normalMass * b.Y
				vn1 = vc.k.Ey.X*x.Y + b.X
				if x.Y >= 0.0 && vn1 >= 0.0 {
					// Resubstitute for the incremental impulse
					d := x.Sub(a)

					// Apply incremental impulse
					p1 := normal.Scale(d.X)
					p2 := normal.Scale(d.Y)
					vA = vA.Sub(p1.Add(p2).Scale(mA))
					wA -= iA * (cp1.rA.Cross(p1) + cp2.rA.Cross(p2))

					vB = vB.Add(p1.Add(p2).Scale(mB))
					wB += iB * (cp1.rB.Cross(p1) + cp2.rB.Cross(p2))

					// Accumulate
					cp1.normalImpulse = x.X
					cp2.normalImpulse = x.Y
					break
				}

				// Case 4: x1 = 0 and x2 = 0
				//
				// vn1 = b1
				// vn2 = b2
				x.X = 0.0
				x.Y = 0.0
				vn1 = b.X
				vn2 = b.Y
				if vn1 >= 0.0 && vn2 >= 0.0 {
					// Resubstitute for the incremental impulse
					d := x.Sub(a)

					// Apply incremental impulse
					p1 := normal.Scale(d.X)
					p2 := normal.Scale(d.Y)
					vA = vA.Sub(p1.Add(p2).Scale(mA))
					wA -= iA * (cp1.rA.Cross(p1) + cp2.rA.Cross(p2))

					vB = vB.Add(p1.Add(p2).Scale(mB))
					wB += iB * (cp1.rB.Cross(p1) + cp2.rB.Cross(p2))

					// Accumulate
					cp1.normalImpulse = x.X
					cp2.normalImpulse = x.Y
					break
				}

				// No solution, give up. This is hit sometimes, but it
				// doesn't seem to matter.
				break
			}
		}

		solver.velocities[indexA].V = vA
		solver.velocities[indexA].W = wA
		solver.velocities[indexB].V = vB
		solver.velocities[indexB].W = wB
	}
}

func (solver *contactSolver) storeImpulses() {
	for i := 0; i < solver.count; i++ {
		vc := &solver.velocityConstraints[i]
		manifold := solver.contacts[vc.contactIndex].GetManifold()

		for j := 0; j < vc.pointCount; j++ {
			manifold.Points[j].NormalImpulse = vc.points[j].normalImpulse
			manifold.Points[j].TangentImpulse = vc.points[j].tangentImpulse
		}
	}
}

type positionSolverManifold struct {
	normal     vec.Vec2
	point      vec.Vec2
	separation float64
}

func (psm *positionSolverManifold) initialize(pc *contactPositionConstraint, xfA Transform, xfB Transform, index int) {
	assert(pc.pointCount > 0)

	switch pc.manifoldType {
	case ManifoldCircles:
		pointA := TransformVec2Mul(xfA, pc.localPoint)
		pointB := TransformVec2Mul(xfB, pc.localPoints[0])
		psm.normal = pointB.Sub(pointA)
		Normalize(&psm.normal)
		psm.point = pointA.Add(pointB).Scale(0.5)
		psm.separation = pointB.Sub(pointA).Dot(psm.normal) - pc.radiusA - pc.radiusB

	case ManifoldFaceA:
		psm.normal = RotVec2Mul(xfA.Q, pc.localNormal)
		planePoint := TransformVec2Mul(xfA, pc.localPoint)

		clipPoint := TransformVec2Mul(xfB, pc.localPoints[index])
		psm.separation = clipPoint.Sub(planePoint).Dot(psm.normal) - pc.radiusA - pc.radiusB
		psm.point = clipPoint

	case ManifoldFaceB:
		psm.normal = RotVec2Mul(xfB.Q, pc.localNormal)
		planePoint := TransformVec2Mul(xfB, pc.localPoint)

		clipPoint := TransformVec2Mul(xfA, pc.localPoints[index])
		psm.separation = clipPoint.Sub(planePoint).Dot(psm.normal) - pc.radiusA - pc.radiusB
		psm.point = clipPoint

		// Ensure normal points from A to B
		psm.normal = psm.normal.Neg()
	}
}

// solvePositionConstraints is the sequential NGS position solver. It reports
// whether the maximum penetration is within tolerance.
func (solver *contactSolver) solvePositionConstraints() bool {
	minSeparation := 0.0

	for i := 0; i < solver.count; i++ {
		pc := &solver.positionConstraints[i]

		indexA := pc.indexA
		indexB := pc.indexB
		localCenterA := pc.localCenterA
		mA := pc.invMassA
		iA := pc.invIA
		localCenterB := pc.localCenterB
		mB := pc.invMassB
		iB := pc.invIB
		pointCount := pc.pointCount

		cA := solver.positions[indexA].C
		aA := solver.positions[indexA].A

		cB := solver.positions[indexB].C
		aB := solver.positions[indexB].A

		// Solve normal constraints
		for j := 0; j < pointCount; j++ {
			xfA := MakeTransform()
			xfB := MakeTransform()

			xfA.Q.Set(aA)
			xfB.Q.Set(aB)
			xfA.P = cA.Sub(RotVec2Mul(xfA.Q, localCenterA))
			xfB.P = cB.Sub(RotVec2Mul(xfB.Q, localCenterB))

			var psm positionSolverManifold
			psm.initialize(pc, xfA, xfB, j)
			normal := psm.normal

			point := psm.point
			separation := psm.separation

			rA := point.Sub(cA)
			rB := point.Sub(cB)

			// Track max constraint error.
			minSeparation = math.Min(minSeparation, separation)

			// Prevent large corrections and allow slop.
			c := FloatClamp(
				solver.conf.Baumgarte*(separation+solver.conf.LinearSlop),
				-solver.conf.MaxLinearCorrection, 0.0)

			// Compute the effective mass.
			rnA := rA.Cross(normal)
			rnB := rB.Cross(normal)
			k := mA + mB + iA*rnA*rnA + iB*rnB*rnB

			// Compute normal impulse
			impulse := 0.0
			if k > 0.0 {
				impulse = -c / k
			}

			p := normal.Scale(impulse)

			cA = cA.Sub(p.Scale(mA))
			aA -= iA * rA.Cross(p)

			cB = cB.Add(p.Scale(mB))
			aB += iB * rB.Cross(p)
		}

		solver.positions[indexA].C = cA
		solver.positions[indexA].A = aA

		solver.positions[indexB].C = cB
		solver.positions[indexB].A = aB
	}

	// We can't expect minSeparation >= -linearSlop because we don't push
	// the separation above -linearSlop.
	return minSeparation >= -3.0*solver.conf.LinearSlop
}
