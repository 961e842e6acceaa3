package playrho

import (
	"math"

	"github.com/setanarut/vec"
)

/*
Position Correction Notes
=========================
Baumgarte feeds a fraction of the position error back into the velocity
error. It is cheap but artificially affects momentum, which shows up as
false bounce and jitter in long chains. Nonlinear Gauss-Seidel (NGS)
recomputes the position error, Jacobians, and effective masses for each
constraint after integration and corrects positions directly, leaving
momentum untouched. The sequential solver here uses NGS for positions
with the Baumgarte factor applied per constraint, and terminates early
once the remaining error falls within the slop tolerance.
*/

// island is a connected set of awake bodies with the contacts and joints
// between them. Each island is solved independently. Body state is copied
// into compact position and velocity arrays so the constraint loops touch
// contiguous memory.
type island struct {
	listener ContactListener

	bodies   []*Body
	contacts []*Contact
	joints   []Joint

	positions  []position
	velocities []velocity

	bodyCount    int
	contactCount int
	jointCount   int

	bodyCapacity    int
	contactCapacity int
	jointCapacity   int
}

func newIsland(bodyCapacity int, contactCapacity int, jointCapacity int, listener ContactListener) *island {
	return &island{
		listener: listener,

		bodies:   make([]*Body, bodyCapacity),
		contacts: make([]*Contact, contactCapacity),
		joints:   make([]Joint, jointCapacity),

		positions:  make([]position, bodyCapacity),
		velocities: make([]velocity, bodyCapacity),

		bodyCapacity:    bodyCapacity,
		contactCapacity: contactCapacity,
		jointCapacity:   jointCapacity,
	}
}

func (isl *island) clear() {
	isl.bodyCount = 0
	isl.contactCount = 0
	isl.jointCount = 0
}

func (isl *island) addBody(body *Body) {
	assert(isl.bodyCount < isl.bodyCapacity)
	body.islandIndex = isl.bodyCount
	isl.bodies[isl.bodyCount] = body
	isl.bodyCount++
}

func (isl *island) addContact(contact *Contact) {
	assert(isl.contactCount < isl.contactCapacity)
	isl.contacts[isl.contactCount] = contact
	isl.contactCount++
}

func (isl *island) addJoint(joint Joint) {
	assert(isl.jointCount < isl.jointCapacity)
	isl.joints[isl.jointCount] = joint
	isl.jointCount++
}

// solve runs the velocity and position phases for the island and reports
// how many bodies were put to sleep.
func (isl *island) solve(step timeStep, gravity vec.Vec2, conf SolverConf, allowSleep bool) int {
	h := step.Dt

	// Integrate velocities and apply damping. Initialize the body state.
	for i := 0; i < isl.bodyCount; i++ {
		b := isl.bodies[i]

		c := b.sweep.C
		a := b.sweep.A
		v := b.velocity.Linear
		w := b.velocity.Angular

		// Store positions for continuous collision.
		b.sweep.C0 = b.sweep.C
		b.sweep.A0 = b.sweep.A

		if b.IsAccelerable() {
			// Integrate velocities. Accelerations are persistent, so
			// gravity simply adds to whatever the user set.
			v = v.Add(gravity.Scale(b.gravityScale).Add(b.linearAcceleration).Scale(h))
			w += h * b.angularAcceleration

			// Apply damping.
			// ODE: dv/dt + c * v = 0
			// Solution: v(t) = v0 * exp(-c * t)
			// Pade approximation:
			// v2 = v1 * 1 / (1 + c * dt)
			v = v.Scale(1.0 / (1.0 + h*b.linearDamping))
			w *= 1.0 / (1.0 + h*b.angularDamping)
		}

		isl.positions[i] = position{C: c, A: a}
		isl.velocities[i] = velocity{V: v, W: w}
	}

	data := solverData{
		Step:       step,
		Positions:  isl.positions,
		Velocities: isl.velocities,
		Conf:       conf,
	}

	// Initialize velocity constraints.
	solver := newContactSolver(&contactSolverDef{
		Step:       step,
		Contacts:   isl.contacts,
		Count:      isl.contactCount,
		Positions:  isl.positions,
		Velocities: isl.velocities,
		Conf:       conf,
	})
	solver.initializeVelocityConstraints()

	if step.WarmStarting {
		solver.warmStart()
	}

	for i := 0; i < isl.jointCount; i++ {
		isl.joints[i].InitVelocityConstraints(data)
	}

	// Solve velocity constraints.
	for i := 0; i < step.VelocityIterations; i++ {
		for j := 0; j < isl.jointCount; j++ {
			isl.joints[j].SolveVelocityConstraints(data)
		}

		solver.solveVelocityConstraints()
	}

	// Store impulses for warm starting.
	solver.storeImpulses()

	// Integrate positions.
	for i := 0; i < isl.bodyCount; i++ {
		c := isl.positions[i].C
		a := isl.positions[i].A
		v := isl.velocities[i].V
		w := isl.velocities[i].W

		// Check for large velocities.
		translation := v.Scale(h)
		if Vec2LengthSquared(translation) > maxTranslationSquared {
			ratio := maxTranslation / translation.Mag()
			v = v.Scale(ratio)
		}

		rotation := h * w
		if rotation*rotation > maxRotationSquared {
			ratio := maxRotation / math.Abs(rotation)
			w *= ratio
		}

		// Integrate.
		c = c.Add(v.Scale(h))
		a += h * w

		isl.positions[i] = position{C: c, A: a}
		isl.velocities[i] = velocity{V: v, W: w}
	}

	// Solve position constraints.
	positionSolved := false
	for i := 0; i < step.PositionIterations; i++ {
		contactsOkay := solver.solvePositionConstraints()

		jointsOkay := true
		for j := 0; j < isl.jointCount; j++ {
			jointOkay := isl.joints[j].SolvePositionConstraints(data)
			jointsOkay = jointsOkay && jointOkay
		}

		if contactsOkay && jointsOkay {
			// Exit early if the position errors are small.
			positionSolved = true
			break
		}
	}

	// Copy state buffers back to the bodies.
	for i := 0; i < isl.bodyCount; i++ {
		body := isl.bodies[i]
		body.sweep.C = isl.positions[i].C
		body.sweep.A = isl.positions[i].A
		body.velocity.Linear = isl.velocities[i].V
		body.velocity.Angular = isl.velocities[i].W
		body.synchronizeTransform()
	}

	isl.report(solver.velocityConstraints)

	slept := 0
	if allowSleep {
		minUnderActiveTime := maxFloat

		linTolSqr := conf.LinearSleepTolerance * conf.LinearSleepTolerance
		angTolSqr := conf.AngularSleepTolerance * conf.AngularSleepTolerance

		for i := 0; i < isl.bodyCount; i++ {
			b := isl.bodies[i]
			if !b.IsSpeedable() {
				continue
			}

			if !b.IsSleepingAllowed() || b.IsBullet() ||
				b.velocity.Angular*b.velocity.Angular > angTolSqr ||
				Vec2LengthSquared(b.velocity.Linear) > linTolSqr {
				b.underActiveTime = 0.0
				minUnderActiveTime = 0.0
			} else {
				b.underActiveTime += h
				minUnderActiveTime = math.Min(minUnderActiveTime, b.underActiveTime)
			}
		}

		if minUnderActiveTime >= conf.TimeToSleep && positionSolved {
			for i := 0; i < isl.bodyCount; i++ {
				b := isl.bodies[i]
				if b.IsAwake() && b.IsSpeedable() {
					slept++
				}
				b.SetAwake(false)
			}
		}
	}

	return slept
}

func (isl *island) report(constraints []contactVelocityConstraint) {
	if isl.listener == nil {
		return
	}

	for i := 0; i < isl.contactCount; i++ {
		c := isl.contacts[i]

		vc := &constraints[i]

		var impulse ContactImpulse
		impulse.Count = vc.pointCount

		for j := 0; j < vc.pointCount; j++ {
			impulse.NormalImpulses[j] = vc.points[j].normalImpulse
			impulse.TangentImpulses[j] = vc.points[j].tangentImpulse
		}

		isl.listener.PostSolve(c, &impulse)
	}
}
