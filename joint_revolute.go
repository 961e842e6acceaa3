package playrho

import (
	"math"

	"github.com/setanarut/vec"
)

// RevoluteJointDef describes a revolute joint: an anchor point where the
// bodies are joined. The definition uses local anchor points so that the
// initial configuration can violate the constraint slightly. The initial
// relative angle is needed for joint limits.
// The local anchor points are measured from the body's origin rather than
// the center of mass because:
// 1. you might not know where the center of mass will be.
// 2. if you add/remove shapes from a body and recompute the mass,
//    the joints will be broken.
type RevoluteJointDef struct {
	JointDef

	// The local anchor point relative to bodyA's origin.
	LocalAnchorA vec.Vec2

	// The local anchor point relative to bodyB's origin.
	LocalAnchorB vec.Vec2

	// The bodyB angle minus bodyA angle in the reference state (radians).
	ReferenceAngle float64

	// A flag to enable joint limits.
	EnableLimit bool

	// The lower angle for the joint limit (radians).
	LowerAngle float64

	// The upper angle for the joint limit (radians).
	UpperAngle float64

	// A flag to enable the joint motor.
	EnableMotor bool

	// The desired motor speed, usually in radians per second.
	MotorSpeed float64

	// The maximum motor torque used to achieve the desired motor speed,
	// usually in N-m.
	MaxMotorTorque float64
}

// DefaultRevoluteJointDef returns a revolute joint definition with the
// default values. Each call builds a fresh value.
func DefaultRevoluteJointDef() RevoluteJointDef {
	return RevoluteJointDef{}
}

// Initialize sets the bodies, local anchors and reference angle from a world
// anchor point.
func (def *RevoluteJointDef) Initialize(bodyA *Body, bodyB *Body, anchor vec.Vec2) {
	def.BodyA = bodyA
	def.BodyB = bodyB
	def.LocalAnchorA = bodyA.GetLocalPoint(anchor)
	def.LocalAnchorB = bodyB.GetLocalPoint(anchor)
	def.ReferenceAngle = bodyB.GetAngle() - bodyA.GetAngle()
}

func (def RevoluteJointDef) createJoint() Joint {
	if !def.isValid() ||
		!Vec2IsValid(def.LocalAnchorA) ||
		!Vec2IsValid(def.LocalAnchorB) ||
		!IsValid(def.ReferenceAngle) ||
		!IsValid(def.LowerAngle) || !IsValid(def.UpperAngle) ||
		def.LowerAngle > def.UpperAngle ||
		!IsValid(def.MotorSpeed) ||
		!IsValid(def.MaxMotorTorque) || def.MaxMotorTorque < 0.0 {
		return nil
	}
	return newRevoluteJoint(def)
}

// RevoluteJoint constrains two bodies to share a common point while they are
// free to rotate about the point. The relative rotation about the shared
// point is the joint angle. A joint limit restricts the relative rotation to
// a lower and upper angle. A motor drives the relative rotation with a
// bounded torque.
//
// Point-to-point constraint
// C = p2 - p1
// Cdot = v2 - v1
//      = v2 + cross(w2, r2) - v1 - cross(w1, r1)
// J = [-I -r1_skew I r2_skew ]
//
// Motor constraint
// Cdot = w2 - w1
// J = [0 0 -1 0 0 1]
// K = invI1 + invI2
type RevoluteJoint struct {
	*jointCore

	// Solver shared
	localAnchorA vec.Vec2
	localAnchorB vec.Vec2
	impulse      Vec3
	motorImpulse float64

	enableMotor    bool
	maxMotorTorque float64
	motorSpeed     float64

	enableLimit    bool
	referenceAngle float64
	lowerAngle     float64
	upperAngle     float64

	// Solver temp
	indexA       int
	indexB       int
	rA           vec.Vec2
	rB           vec.Vec2
	localCenterA vec.Vec2
	localCenterB vec.Vec2
	invMassA     float64
	invMassB     float64
	invIA        float64
	invIB        float64
	mass         Mat33   // effective mass for point-to-point constraint
	motorMass    float64 // effective mass for motor/limit angular constraint
	limitState   LimitState
}

func newRevoluteJoint(def RevoluteJointDef) *RevoluteJoint {
	return &RevoluteJoint{
		jointCore:      makeJointCore(def.JointDef, RevoluteJointType),
		localAnchorA:   def.LocalAnchorA,
		localAnchorB:   def.LocalAnchorB,
		referenceAngle: def.ReferenceAngle,
		lowerAngle:     def.LowerAngle,
		upperAngle:     def.UpperAngle,
		maxMotorTorque: def.MaxMotorTorque,
		motorSpeed:     def.MotorSpeed,
		enableLimit:    def.EnableLimit,
		enableMotor:    def.EnableMotor,
		limitState:     InactiveLimit,
	}
}

// Def returns a definition that recreates this joint.
func (joint *RevoluteJoint) Def() RevoluteJointDef {
	def := DefaultRevoluteJointDef()
	def.BodyA = joint.bodyA
	def.BodyB = joint.bodyB
	def.CollideConnected = joint.collideConnected
	def.UserData = joint.userData
	def.LocalAnchorA = joint.localAnchorA
	def.LocalAnchorB = joint.localAnchorB
	def.ReferenceAngle = joint.referenceAngle
	def.EnableLimit = joint.enableLimit
	def.LowerAngle = joint.lowerAngle
	def.UpperAngle = joint.upperAngle
	def.EnableMotor = joint.enableMotor
	def.MotorSpeed = joint.motorSpeed
	def.MaxMotorTorque = joint.maxMotorTorque
	return def
}

func (joint *RevoluteJoint) GetLocalAnchorA() vec.Vec2 {
	return joint.localAnchorA
}

func (joint *RevoluteJoint) GetLocalAnchorB() vec.Vec2 {
	return joint.localAnchorB
}

func (joint *RevoluteJoint) GetReferenceAngle() float64 {
	return joint.referenceAngle
}

func (joint *RevoluteJoint) GetAnchorA() vec.Vec2 {
	return joint.bodyA.GetWorldPoint(joint.localAnchorA)
}

func (joint *RevoluteJoint) GetAnchorB() vec.Vec2 {
	return joint.bodyB.GetWorldPoint(joint.localAnchorB)
}

func (joint *RevoluteJoint) GetReactionForce(invDt float64) vec.Vec2 {
	return vec.Vec2{X: joint.impulse.X, Y: joint.impulse.Y}.Scale(invDt)
}

func (joint *RevoluteJoint) GetReactionTorque(invDt float64) float64 {
	return invDt * joint.impulse.Z
}

// GetJointAngle returns the current relative angle in radians.
func (joint *RevoluteJoint) GetJointAngle() float64 {
	return joint.bodyB.sweep.A - joint.bodyA.sweep.A - joint.referenceAngle
}

// GetJointSpeed returns the current relative angular speed in radians per
// second.
func (joint *RevoluteJoint) GetJointSpeed() float64 {
	return joint.bodyB.velocity.Angular - joint.bodyA.velocity.Angular
}

func (joint *RevoluteJoint) IsMotorEnabled() bool {
	return joint.enableMotor
}

func (joint *RevoluteJoint) EnableMotor(flag bool) {
	if flag != joint.enableMotor {
		joint.bodyA.SetAwake(true)
		joint.bodyB.SetAwake(true)
		joint.enableMotor = flag
	}
}

// GetMotorTorque returns the motor torque given the inverse time step.
func (joint *RevoluteJoint) GetMotorTorque(invDt float64) float64 {
	return invDt * joint.motorImpulse
}

func (joint *RevoluteJoint) GetMotorSpeed() float64 {
	return joint.motorSpeed
}

func (joint *RevoluteJoint) SetMotorSpeed(speed float64) {
	if speed != joint.motorSpeed {
		joint.bodyA.SetAwake(true)
		joint.bodyB.SetAwake(true)
		joint.motorSpeed = speed
	}
}

func (joint *RevoluteJoint) GetMaxMotorTorque() float64 {
	return joint.maxMotorTorque
}

func (joint *RevoluteJoint) SetMaxMotorTorque(torque float64) {
	if torque != joint.maxMotorTorque {
		joint.bodyA.SetAwake(true)
		joint.bodyB.SetAwake(true)
		joint.maxMotorTorque = torque
	}
}

func (joint *RevoluteJoint) IsLimitEnabled() bool {
	return joint.enableLimit
}

func (joint *RevoluteJoint) EnableLimit(flag bool) {
	if flag != joint.enableLimit {
		joint.bodyA.SetAwake(true)
		joint.bodyB.SetAwake(true)
		joint.enableLimit = flag
		joint.impulse.Z = 0.0
	}
}

func (joint *RevoluteJoint) GetLowerLimit() float64 {
	return joint.lowerAngle
}

func (joint *RevoluteJoint) GetUpperLimit() float64 {
	return joint.upperAngle
}

func (joint *RevoluteJoint) SetLimits(lower float64, upper float64) {
	assert(lower <= upper)

	if lower != joint.lowerAngle || upper != joint.upperAngle {
		joint.bodyA.SetAwake(true)
		joint.bodyB.SetAwake(true)
		joint.impulse.Z = 0.0
		joint.lowerAngle = lower
		joint.upperAngle = upper
	}
}

func (joint *RevoluteJoint) GetLimitState() LimitState {
	return joint.limitState
}

func (joint *RevoluteJoint) InitVelocityConstraints(data solverData) {
	joint.indexA = joint.bodyA.islandIndex
	joint.indexB = joint.bodyB.islandIndex
	joint.localCenterA = joint.bodyA.sweep.LocalCenter
	joint.localCenterB = joint.bodyB.sweep.LocalCenter
	joint.invMassA = joint.bodyA.invMass
	joint.invMassB = joint.bodyB.invMass
	joint.invIA = joint.bodyA.invI
	joint.invIB = joint.bodyB.invI

	aA := data.Positions[joint.indexA].A
	vA := data.Velocities[joint.indexA].V
	wA := data.Velocities[joint.indexA].W

	aB := data.Positions[joint.indexB].A
	vB := data.Velocities[joint.indexB].V
	wB := data.Velocities[joint.indexB].W

	qA := MakeRotFromAngle(aA)
	qB := MakeRotFromAngle(aB)

	joint.rA = RotVec2Mul(qA, joint.localAnchorA.Sub(joint.localCenterA))
	joint.rB = RotVec2Mul(qB, joint.localAnchorB.Sub(joint.localCenterB))

	// J = [-I -r1_skew I r2_skew]
	//     [ 0       -1 0       1]
	// r_skew = [-ry; rx]
	//
	// K = [ mA+r1y^2*iA+mB+r2y^2*iB,  -r1y*iA*r1x-r2y*iB*r2x,          -r1y*iA-r2y*iB]
	//     [  -r1y*iA*r1x-r2y*iB*r2x, mA+r1x^2*iA+mB+r2x^2*iB,           r1x*iA+r2x*iB]
	//     [          -r1y*iA-r2y*iB,           r1x*iA+r2x*iB,                   iA+iB]

	mA := joint.invMassA
	mB := joint.invMassB
	iA := joint.invIA
	iB := joint.invIB

	fixedRotation := iA+iB == 0.0

	joint.mass.Ex.X = mA + mB + joint.rA.Y*joint.rA.Y*iA + joint.rB.Y*joint.rB.Y*iB
	joint.mass.Ey.X = -joint.rA.Y*joint.rA.X*iA - joint.rB.Y*joint.rB.X*iB
	joint.mass.Ez.X = -joint.rA.Y*iA - joint.rB.Y*iB
	joint.mass.Ex.Y = joint.mass.Ey.X
	joint.mass.Ey.Y = mA + mB + joint.rA.X*joint.rA.X*iA + joint.rB.X*joint.rB.X*iB
	joint.mass.Ez.Y = joint.rA.X*iA + joint.rB.X*iB
	joint.mass.Ex.Z = joint.mass.Ez.X
	joint.mass.Ey.Z = joint.mass.Ez.Y
	joint.mass.Ez.Z = iA + iB

	joint.motorMass = iA + iB
	if joint.motorMass > 0.0 {
		joint.motorMass = 1.0 / joint.motorMass
	}

	if !joint.enableMotor || fixedRotation {
		joint.motorImpulse = 0.0
	}

	if joint.enableLimit && !fixedRotation {
		jointAngle := aB - aA - joint.referenceAngle
		if math.Abs(joint.upperAngle-joint.lowerAngle) < 2.0*angularSlop {
			joint.limitState = EqualLimits
		} else if jointAngle <= joint.lowerAngle {
			if joint.limitState != AtLowerLimit {
				joint.impulse.Z = 0.0
			}
			joint.limitState = AtLowerLimit
		} else if jointAngle >= joint.upperAngle {
			if joint.limitState != AtUpperLimit {
				joint.impulse.Z = 0.0
			}
			joint.limitState = AtUpperLimit
		} else {
			joint.limitState = InactiveLimit
			joint.impulse.Z = 0.0
		}
	} else {
		joint.limitState = InactiveLimit
	}

	if data.Step.WarmStarting {
		// Scale impulses to support a variable time step.
		joint.impulse = Vec3MulScalar(data.Step.DtRatio, joint.impulse)
		joint.motorImpulse *= data.Step.DtRatio

		p := vec.Vec2{X: joint.impulse.X, Y: joint.impulse.Y}

		vA = vA.Sub(p.Scale(mA))
		wA -= iA * (joint.rA.Cross(p) + joint.motorImpulse + joint.impulse.Z)

		vB = vB.Add(p.Scale(mB))
		wB += iB * (joint.rB.Cross(p) + joint.motorImpulse + joint.impulse.Z)
	} else {
		joint.impulse.SetZero()
		joint.motorImpulse = 0.0
	}

	data.Velocities[joint.indexA].V = vA
	data.Velocities[joint.indexA].W = wA
	data.Velocities[joint.indexB].V = vB
	data.Velocities[joint.indexB].W = wB
}

func (joint *RevoluteJoint) SolveVelocityConstraints(data solverData) {
	vA := data.Velocities[joint.indexA].V
	wA := data.Velocities[joint.indexA].W
	vB := data.Velocities[joint.indexB].V
	wB := data.Velocities[joint.indexB].W

	mA := joint.invMassA
	mB := joint.invMassB
	iA := joint.invIA
	iB := joint.invIB

	fixedRotation := iA+iB == 0.0

	// Solve motor constraint.
	if joint.enableMotor && joint.limitState != EqualLimits && !fixedRotation {
		cdot := wB - wA - joint.motorSpeed
		impulse := -joint.motorMass * cdot
		oldImpulse := joint.motorImpulse
		maxImpulse := data.Step.Dt * joint.maxMotorTorque
		joint.motorImpulse = FloatClamp(joint.motorImpulse+impulse, -maxImpulse, maxImpulse)
		impulse = joint.motorImpulse - oldImpulse

		wA -= iA * impulse
		wB += iB * impulse
	}

	// Solve limit constraint.
	if joint.enableLimit && joint.limitState != InactiveLimit && !fixedRotation {
		cdot1 := vB.Add(CrossScalarVec2(wB, joint.rB)).Sub(vA).Sub(CrossScalarVec2(wA, joint.rA))
		cdot2 := wB - wA
		cdot := Vec3{X: cdot1.X, Y: cdot1.Y, Z: cdot2}

		impulse := joint.mass.Solve33(cdot).Neg()

		if joint.limitState == EqualLimits {
			joint.impulse = Vec3Add(joint.impulse, impulse)
		} else if joint.limitState == AtLowerLimit {
			newImpulse := joint.impulse.Z + impulse.Z
			if newImpulse < 0.0 {
				rhs := cdot1.Neg().Add(vec.Vec2{X: joint.mass.Ez.X, Y: joint.mass.Ez.Y}.Scale(joint.impulse.Z))
				reduced := joint.mass.Solve22(rhs)
				impulse.X = reduced.X
				impulse.Y = reduced.Y
				impulse.Z = -joint.impulse.Z
				joint.impulse.X += reduced.X
				joint.impulse.Y += reduced.Y
				joint.impulse.Z = 0.0
			} else {
				joint.impulse = Vec3Add(joint.impulse, impulse)
			}
		} else if joint.limitState == AtUpperLimit {
			newImpulse := joint.impulse.Z + impulse.Z
			if newImpulse > 0.0 {
				rhs := cdot1.Neg().Add(vec.Vec2{X: joint.mass.Ez.X, Y: joint.mass.Ez.Y}.Scale(joint.impulse.Z))
				reduced := joint.mass.Solve22(rhs)
				impulse.X = reduced.X
				impulse.Y = reduced.Y
				impulse.Z = -joint.impulse.Z
				joint.impulse.X += reduced.X
				joint.impulse.Y += reduced.Y
				joint.impulse.Z = 0.0
			} else {
				joint.impulse = Vec3Add(joint.impulse, impulse)
			}
		}

		p := vec.Vec2{X: impulse.X, Y: impulse.Y}

		vA = vA.Sub(p.Scale(mA))
		wA -= iA * (joint.rA.Cross(p) + impulse.Z)

		vB = vB.Add(p.Scale(mB))
		wB += iB * (joint.rB.Cross(p) + impulse.Z)
	} else {
		// Solve point-to-point constraint
		cdot := vB.Add(CrossScalarVec2(wB, joint.rB)).Sub(vA).Sub(CrossScalarVec2(wA, joint.rA))
		impulse := joint.mass.Solve22(cdot.Neg())

		joint.impulse.X += impulse.X
		joint.impulse.Y += impulse.Y

		vA = vA.Sub(impulse.Scale(mA))
		wA -= iA * joint.rA.Cross(impulse)

		vB = vB.Add(impulse.Scale(mB))
		wB += iB * joint.rB.Cross(impulse)
	}

	data.Velocities[joint.indexA].V = vA
	data.Velocities[joint.indexA].W = wA
	data.Velocities[joint.indexB].V = vB
	data.Velocities[joint.indexB].W = wB
}

func (joint *RevoluteJoint) SolvePositionConstraints(data solverData) bool {
	cA := data.Positions[joint.indexA].C
	aA := data.Positions[joint.indexA].A
	cB := data.Positions[joint.indexB].C
	aB := data.Positions[joint.indexB].A

	qA := MakeRotFromAngle(aA)
	qB := MakeRotFromAngle(aB)

	angularError := 0.0
	positionError := 0.0

	fixedRotation := joint.invIA+joint.invIB == 0.0

	// Solve angular limit constraint.
	if joint.enableLimit && joint.limitState != InactiveLimit && !fixedRotation {
		angle := aB - aA - joint.referenceAngle
		limitImpulse := 0.0

		if joint.limitState == EqualLimits {
			// Prevent large angular corrections
			c := FloatClamp(angle-joint.lowerAngle, -data.Conf.MaxAngularCorrection, data.Conf.MaxAngularCorrection)
			limitImpulse = -joint.motorMass * c
			angularError = math.Abs(c)
		} else if joint.limitState == AtLowerLimit {
			c := angle - joint.lowerAngle
			angularError = -c

			// Prevent large angular corrections and allow some slop.
			c = FloatClamp(c+angularSlop, -data.Conf.MaxAngularCorrection, 0.0)
			limitImpulse = -joint.motorMass * c
		} else if joint.limitState == AtUpperLimit {
			c := angle - joint.upperAngle
			angularError = c

			// Prevent large angular corrections and allow some slop.
			c = FloatClamp(c-angularSlop, 0.0, data.Conf.MaxAngularCorrection)
			limitImpulse = -joint.motorMass * c
		}

		aA -= joint.invIA * limitImpulse
		aB += joint.invIB * limitImpulse
	}

	// Solve point-to-point constraint.
	{
		qA.Set(aA)
		qB.Set(aB)
		rA := RotVec2Mul(qA, joint.localAnchorA.Sub(joint.localCenterA))
		rB := RotVec2Mul(qB, joint.localAnchorB.Sub(joint.localCenterB))

		c := cB.Add(rB).Sub(cA).Sub(rA)
		positionError = c.Mag()

		mA := joint.invMassA
		mB := joint.invMassB
		iA := joint.invIA
		iB := joint.invIB

		var k Mat22
		k.Ex.X = mA + mB + iA*rA.Y*rA.Y + iB*rB.Y*rB.Y
		k.Ex.Y = -iA*rA.X*rA.Y - iB*rB.X*rB.Y
		k.Ey.X = k.Ex.Y
		k.Ey.Y = mA + mB + iA*rA.X*rA.X + iB*rB.X*rB.X

		impulse := k.Solve(c).Neg()

		cA = cA.Sub(impulse.Scale(mA))
		aA -= iA * rA.Cross(impulse)

		cB = cB.Add(impulse.Scale(mB))
		aB += iB * rB.Cross(impulse)
	}

	data.Positions[joint.indexA].C = cA
	data.Positions[joint.indexA].A = aA
	data.Positions[joint.indexB].C = cB
	data.Positions[joint.indexB].A = aB

	return positionError <= data.Conf.LinearSlop && angularError <= angularSlop
}
