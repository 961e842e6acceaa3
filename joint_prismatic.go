package playrho

import (
	"math"

	"github.com/setanarut/vec"
)

// PrismaticJointDef describes a prismatic joint: a line of motion given by
// an axis and an anchor point. The definition uses local anchor points and a
// local axis so that the initial configuration can violate the constraint
// slightly. The joint translation is zero when the local anchor points
// coincide in world space.
type PrismaticJointDef struct {
	JointDef

	// The local anchor point relative to bodyA's origin.
	LocalAnchorA vec.Vec2

	// The local anchor point relative to bodyB's origin.
	LocalAnchorB vec.Vec2

	// The local translation unit axis in bodyA.
	LocalAxisA vec.Vec2

	// The constrained angle between the bodies: bodyB_angle - bodyA_angle.
	ReferenceAngle float64

	// Enable/disable the joint limit.
	EnableLimit bool

	// The lower translation limit, usually in meters.
	LowerTranslation float64

	// The upper translation limit, usually in meters.
	UpperTranslation float64

	// Enable/disable the joint motor.
	EnableMotor bool

	// The maximum motor force, usually in N.
	MaxMotorForce float64

	// The desired motor speed in meters per second.
	MotorSpeed float64
}

// DefaultPrismaticJointDef returns a prismatic joint definition with the
// x axis as the line of motion. Each call builds a fresh value.
func DefaultPrismaticJointDef() PrismaticJointDef {
	return PrismaticJointDef{
		LocalAxisA: vec.Vec2{X: 1.0, Y: 0.0},
	}
}

// Initialize sets the bodies, anchors, axis, and reference angle from a
// world anchor point and a world axis.
func (def *PrismaticJointDef) Initialize(bodyA *Body, bodyB *Body, anchor vec.Vec2, axis vec.Vec2) {
	def.BodyA = bodyA
	def.BodyB = bodyB
	def.LocalAnchorA = bodyA.GetLocalPoint(anchor)
	def.LocalAnchorB = bodyB.GetLocalPoint(anchor)
	def.LocalAxisA = bodyA.GetLocalVector(axis)
	def.ReferenceAngle = bodyB.GetAngle() - bodyA.GetAngle()
}

func (def PrismaticJointDef) createJoint() Joint {
	if !def.isValid() ||
		!Vec2IsValid(def.LocalAnchorA) ||
		!Vec2IsValid(def.LocalAnchorB) ||
		!Vec2IsValid(def.LocalAxisA) ||
		Vec2LengthSquared(def.LocalAxisA) == 0.0 ||
		!IsValid(def.ReferenceAngle) ||
		!IsValid(def.LowerTranslation) || !IsValid(def.UpperTranslation) ||
		def.LowerTranslation > def.UpperTranslation ||
		!IsValid(def.MotorSpeed) ||
		!IsValid(def.MaxMotorForce) || def.MaxMotorForce < 0.0 {
		return nil
	}
	return newPrismaticJoint(def)
}

// PrismaticJoint provides one degree of freedom: translation along an axis
// fixed in bodyA. Relative rotation is prevented. A joint limit restricts
// the range of motion and a joint motor drives the motion or models joint
// friction.
//
// Linear constraint (point-to-line)
// d = pB - pA = xB + rB - xA - rA
// C = dot(perp, d)
// Cdot = dot(d, cross(wA, perp)) + dot(perp, vB + cross(wB, rB) - vA - cross(wA, rA))
// J = [-perp, -cross(d + rA, perp), perp, cross(rB, perp)]
//
// Angular constraint
// C = aB - aA + a_initial
// Cdot = wB - wA
// J = [0 0 -1 0 0 1]
//
// Motor/Limit linear constraint
// C = dot(ax1, d)
// J = [-ax1 -cross(d+rA,ax1) ax1 cross(rB,ax1)]
//
// The block solver folds the joint limit into a 3x3 system so the limit
// stays stiff even when the mass has poor distribution. The accumulated
// limit impulse is clamped, then the first two rows are re-solved:
// f2(1:2) = invK(1:2,1:2) * (-Cdot(1:2) - K(1:2,3) * (f2(3) - f1(3))) + f1(1:2)
type PrismaticJoint struct {
	*jointCore

	// Solver shared
	localAnchorA     vec.Vec2
	localAnchorB     vec.Vec2
	localXAxisA      vec.Vec2
	localYAxisA      vec.Vec2
	referenceAngle   float64
	impulse          Vec3
	motorImpulse     float64
	lowerTranslation float64
	upperTranslation float64
	maxMotorForce    float64
	motorSpeed       float64
	enableLimit      bool
	enableMotor      bool
	limitState       LimitState

	// Solver temp
	indexA       int
	indexB       int
	localCenterA vec.Vec2
	localCenterB vec.Vec2
	invMassA     float64
	invMassB     float64
	invIA        float64
	invIB        float64
	axis, perp   vec.Vec2
	s1, s2       float64
	a1, a2       float64
	k            Mat33
	motorMass    float64
}

func newPrismaticJoint(def PrismaticJointDef) *PrismaticJoint {
	axis := def.LocalAxisA
	Normalize(&axis)

	return &PrismaticJoint{
		jointCore:        makeJointCore(def.JointDef, PrismaticJointType),
		localAnchorA:     def.LocalAnchorA,
		localAnchorB:     def.LocalAnchorB,
		localXAxisA:      axis,
		localYAxisA:      CrossScalarVec2(1.0, axis),
		referenceAngle:   def.ReferenceAngle,
		lowerTranslation: def.LowerTranslation,
		upperTranslation: def.UpperTranslation,
		maxMotorForce:    def.MaxMotorForce,
		motorSpeed:       def.MotorSpeed,
		enableLimit:      def.EnableLimit,
		enableMotor:      def.EnableMotor,
		limitState:       InactiveLimit,
	}
}

// Def returns a definition that recreates this joint.
func (joint *PrismaticJoint) Def() PrismaticJointDef {
	def := DefaultPrismaticJointDef()
	def.BodyA = joint.bodyA
	def.BodyB = joint.bodyB
	def.CollideConnected = joint.collideConnected
	def.UserData = joint.userData
	def.LocalAnchorA = joint.localAnchorA
	def.LocalAnchorB = joint.localAnchorB
	def.LocalAxisA = joint.localXAxisA
	def.ReferenceAngle = joint.referenceAngle
	def.EnableLimit = joint.enableLimit
	def.LowerTranslation = joint.lowerTranslation
	def.UpperTranslation = joint.upperTranslation
	def.EnableMotor = joint.enableMotor
	def.MaxMotorForce = joint.maxMotorForce
	def.MotorSpeed = joint.motorSpeed
	return def
}

func (joint *PrismaticJoint) GetLocalAnchorA() vec.Vec2 {
	return joint.localAnchorA
}

func (joint *PrismaticJoint) GetLocalAnchorB() vec.Vec2 {
	return joint.localAnchorB
}

// GetLocalAxisA returns the local joint axis relative to bodyA.
func (joint *PrismaticJoint) GetLocalAxisA() vec.Vec2 {
	return joint.localXAxisA
}

func (joint *PrismaticJoint) GetReferenceAngle() float64 {
	return joint.referenceAngle
}

func (joint *PrismaticJoint) GetAnchorA() vec.Vec2 {
	return joint.bodyA.GetWorldPoint(joint.localAnchorA)
}

func (joint *PrismaticJoint) GetAnchorB() vec.Vec2 {
	return joint.bodyB.GetWorldPoint(joint.localAnchorB)
}

func (joint *PrismaticJoint) GetReactionForce(invDt float64) vec.Vec2 {
	return joint.perp.Scale(joint.impulse.X).
		Add(joint.axis.Scale(joint.motorImpulse + joint.impulse.Z)).
		Scale(invDt)
}

func (joint *PrismaticJoint) GetReactionTorque(invDt float64) float64 {
	return invDt * joint.impulse.Y
}

// GetJointTranslation returns the current joint translation in meters.
func (joint *PrismaticJoint) GetJointTranslation() float64 {
	pA := joint.bodyA.GetWorldPoint(joint.localAnchorA)
	pB := joint.bodyB.GetWorldPoint(joint.localAnchorB)
	axis := joint.bodyA.GetWorldVector(joint.localXAxisA)

	return pB.Sub(pA).Dot(axis)
}

// GetJointSpeed returns the current joint translation speed in meters per
// second.
func (joint *PrismaticJoint) GetJointSpeed() float64 {
	bA := joint.bodyA
	bB := joint.bodyB

	rA := RotVec2Mul(bA.xf.Q, joint.localAnchorA.Sub(bA.sweep.LocalCenter))
	rB := RotVec2Mul(bB.xf.Q, joint.localAnchorB.Sub(bB.sweep.LocalCenter))
	p1 := bA.sweep.C.Add(rA)
	p2 := bB.sweep.C.Add(rB)
	d := p2.Sub(p1)
	axis := RotVec2Mul(bA.xf.Q, joint.localXAxisA)

	vA := bA.velocity.Linear
	vB := bB.velocity.Linear
	wA := bA.velocity.Angular
	wB := bB.velocity.Angular

	return d.Dot(CrossScalarVec2(wA, axis)) +
		axis.Dot(vB.Add(CrossScalarVec2(wB, rB)).Sub(vA).Sub(CrossScalarVec2(wA, rA)))
}

func (joint *PrismaticJoint) IsLimitEnabled() bool {
	return joint.enableLimit
}

func (joint *PrismaticJoint) EnableLimit(flag bool) {
	if flag != joint.enableLimit {
		joint.bodyA.SetAwake(true)
		joint.bodyB.SetAwake(true)
		joint.enableLimit = flag
		joint.impulse.Z = 0.0
	}
}

func (joint *PrismaticJoint) GetLowerLimit() float64 {
	return joint.lowerTranslation
}

func (joint *PrismaticJoint) GetUpperLimit() float64 {
	return joint.upperTranslation
}

func (joint *PrismaticJoint) SetLimits(lower float64, upper float64) {
	assert(lower <= upper)
	if lower != joint.lowerTranslation || upper != joint.upperTranslation {
		joint.bodyA.SetAwake(true)
		joint.bodyB.SetAwake(true)
		joint.lowerTranslation = lower
		joint.upperTranslation = upper
		joint.impulse.Z = 0.0
	}
}

func (joint *PrismaticJoint) GetLimitState() LimitState {
	return joint.limitState
}

func (joint *PrismaticJoint) IsMotorEnabled() bool {
	return joint.enableMotor
}

func (joint *PrismaticJoint) EnableMotor(flag bool) {
	if flag != joint.enableMotor {
		joint.bodyA.SetAwake(true)
		joint.bodyB.SetAwake(true)
		joint.enableMotor = flag
	}
}

func (joint *PrismaticJoint) GetMotorSpeed() float64 {
	return joint.motorSpeed
}

func (joint *PrismaticJoint) SetMotorSpeed(speed float64) {
	if speed != joint.motorSpeed {
		joint.bodyA.SetAwake(true)
		joint.bodyB.SetAwake(true)
		joint.motorSpeed = speed
	}
}

func (joint *PrismaticJoint) GetMaxMotorForce() float64 {
	return joint.maxMotorForce
}

func (joint *PrismaticJoint) SetMaxMotorForce(force float64) {
	if force != joint.maxMotorForce {
		joint.bodyA.SetAwake(true)
		joint.bodyB.SetAwake(true)
		joint.maxMotorForce = force
	}
}

// GetMotorForce returns the motor force given the inverse time step.
func (joint *PrismaticJoint) GetMotorForce(invDt float64) float64 {
	return invDt * joint.motorImpulse
}

func (joint *PrismaticJoint) InitVelocityConstraints(data solverData) {
	joint.indexA = joint.bodyA.islandIndex
	joint.indexB = joint.bodyB.islandIndex
	joint.localCenterA = joint.bodyA.sweep.LocalCenter
	joint.localCenterB = joint.bodyB.sweep.LocalCenter
	joint.invMassA = joint.bodyA.invMass
	joint.invMassB = joint.bodyB.invMass
	joint.invIA = joint.bodyA.invI
	joint.invIB = joint.bodyB.invI

	cA := data.Positions[joint.indexA].C
	aA := data.Positions[joint.indexA].A
	vA := data.Velocities[joint.indexA].V
	wA := data.Velocities[joint.indexA].W

	cB := data.Positions[joint.indexB].C
	aB := data.Positions[joint.indexB].A
	vB := data.Velocities[joint.indexB].V
	wB := data.Velocities[joint.indexB].W

	qA := MakeRotFromAngle(aA)
	qB := MakeRotFromAngle(aB)

	// Compute the effective masses.
	rA := RotVec2Mul(qA, joint.localAnchorA.Sub(joint.localCenterA))
	rB := RotVec2Mul(qB, joint.localAnchorB.Sub(joint.localCenterB))
	d := cB.Sub(cA).Add(rB).Sub(rA)

	mA := joint.invMassA
	mB := joint.invMassB
	iA := joint.invIA
	iB := joint.invIB

	// Compute motor Jacobian and effective mass.
	{
		joint.axis = RotVec2Mul(qA, joint.localXAxisA)
		joint.a1 = d.Add(rA).Cross(joint.axis)
		joint.a2 = rB.Cross(joint.axis)

		joint.motorMass = mA + mB + iA*joint.a1*joint.a1 + iB*joint.a2*joint.a2
		if joint.motorMass > 0.0 {
			joint.motorMass = 1.0 / joint.motorMass
		}
	}

	// Prismatic constraint.
	{
		joint.perp = RotVec2Mul(qA, joint.localYAxisA)

		joint.s1 = d.Add(rA).Cross(joint.perp)
		joint.s2 = rB.Cross(joint.perp)

		k11 := mA + mB + iA*joint.s1*joint.s1 + iB*joint.s2*joint.s2
		k12 := iA*joint.s1 + iB*joint.s2
		k13 := iA*joint.s1*joint.a1 + iB*joint.s2*joint.a2
		k22 := iA + iB
		if k22 == 0.0 {
			// For bodies with fixed rotation.
			k22 = 1.0
		}
		k23 := iA*joint.a1 + iB*joint.a2
		k33 := mA + mB + iA*joint.a1*joint.a1 + iB*joint.a2*joint.a2

		joint.k.Ex = Vec3{X: k11, Y: k12, Z: k13}
		joint.k.Ey = Vec3{X: k12, Y: k22, Z: k23}
		joint.k.Ez = Vec3{X: k13, Y: k23, Z: k33}
	}

	// Compute motor and limit terms.
	if joint.enableLimit {
		jointTranslation := joint.axis.Dot(d)
		if math.Abs(joint.upperTranslation-joint.lowerTranslation) < 2.0*data.Conf.LinearSlop {
			joint.limitState = EqualLimits
		} else if jointTranslation <= joint.lowerTranslation {
			if joint.limitState != AtLowerLimit {
				joint.limitState = AtLowerLimit
				joint.impulse.Z = 0.0
			}
		} else if jointTranslation >= joint.upperTranslation {
			if joint.limitState != AtUpperLimit {
				joint.limitState = AtUpperLimit
				joint.impulse.Z = 0.0
			}
		} else {
			joint.limitState = InactiveLimit
			joint.impulse.Z = 0.0
		}
	} else {
		joint.limitState = InactiveLimit
		joint.impulse.Z = 0.0
	}

	if !joint.enableMotor {
		joint.motorImpulse = 0.0
	}

	if data.Step.WarmStarting {
		// Account for variable time step.
		joint.impulse = Vec3MulScalar(data.Step.DtRatio, joint.impulse)
		joint.motorImpulse *= data.Step.DtRatio

		p := joint.perp.Scale(joint.impulse.X).Add(joint.axis.Scale(joint.motorImpulse + joint.impulse.Z))
		lA := joint.impulse.X*joint.s1 + joint.impulse.Y + (joint.motorImpulse+joint.impulse.Z)*joint.a1
		lB := joint.impulse.X*joint.s2 + joint.impulse.Y + (joint.motorImpulse+joint.impulse.Z)*joint.a2

		vA = vA.Sub(p.Scale(mA))
		wA -= iA * lA

		vB = vB.Add(p.Scale(mB))
		wB += iB * lB
	} else {
		joint.impulse.SetZero()
		joint.motorImpulse = 0.0
	}

	data.Velocities[joint.indexA].V = vA
	data.Velocities[joint.indexA].W = wA
	data.Velocities[joint.indexB].V = vB
	data.Velocities[joint.indexB].W = wB
}

func (joint *PrismaticJoint) SolveVelocityConstraints(data solverData) {
	vA := data.Velocities[joint.indexA].V
	wA := data.Velocities[joint.indexA].W
	vB := data.Velocities[joint.indexB].V
	wB := data.Velocities[joint.indexB].W

	mA := joint.invMassA
	mB := joint.invMassB
	iA := joint.invIA
	iB := joint.invIB

	// Solve linear motor constraint.
	if joint.enableMotor && joint.limitState != EqualLimits {
		cdot := joint.axis.Dot(vB.Sub(vA)) + joint.a2*wB - joint.a1*wA
		impulse := joint.motorMass * (joint.motorSpeed - cdot)
		oldImpulse := joint.motorImpulse
		maxImpulse := data.Step.Dt * joint.maxMotorForce
		joint.motorImpulse = FloatClamp(joint.motorImpulse+impulse, -maxImpulse, maxImpulse)
		impulse = joint.motorImpulse - oldImpulse

		p := joint.axis.Scale(impulse)
		lA := impulse * joint.a1
		lB := impulse * joint.a2

		vA = vA.Sub(p.Scale(mA))
		wA -= iA * lA

		vB = vB.Add(p.Scale(mB))
		wB += iB * lB
	}

	var cdot1 vec.Vec2
	cdot1.X = joint.perp.Dot(vB.Sub(vA)) + joint.s2*wB - joint.s1*wA
	cdot1.Y = wB - wA

	if joint.enableLimit && joint.limitState != InactiveLimit {
		// Solve prismatic and limit constraint in block form.
		cdot2 := joint.axis.Dot(vB.Sub(vA)) + joint.a2*wB - joint.a1*wA
		cdot := Vec3{X: cdot1.X, Y: cdot1.Y, Z: cdot2}

		f1 := joint.impulse
		df := joint.k.Solve33(cdot.Neg())
		joint.impulse = Vec3Add(joint.impulse, df)

		if joint.limitState == AtLowerLimit {
			joint.impulse.Z = math.Max(joint.impulse.Z, 0.0)
		} else if joint.limitState == AtUpperLimit {
			joint.impulse.Z = math.Min(joint.impulse.Z, 0.0)
		}

		// f2(1:2) = invK(1:2,1:2) * (-Cdot(1:2) - K(1:2,3) * (f2(3) - f1(3))) + f1(1:2)
		b := cdot1.Neg().Sub(vec.Vec2{X: joint.k.Ez.X, Y: joint.k.Ez.Y}.Scale(joint.impulse.Z - f1.Z))
		f2r := joint.k.Solve22(b).Add(vec.Vec2{X: f1.X, Y: f1.Y})
		joint.impulse.X = f2r.X
		joint.impulse.Y = f2r.Y

		df = Vec3Sub(joint.impulse, f1)

		p := joint.perp.Scale(df.X).Add(joint.axis.Scale(df.Z))
		lA := df.X*joint.s1 + df.Y + df.Z*joint.a1
		lB := df.X*joint.s2 + df.Y + df.Z*joint.a2

		vA = vA.Sub(p.Scale(mA))
		wA -= iA * lA

		vB = vB.Add(p.Scale(mB))
		wB += iB * lB
	} else {
		// Limit is inactive, just solve the prismatic constraint in block
		// form.
		df := joint.k.Solve22(cdot1.Neg())
		joint.impulse.X += df.X
		joint.impulse.Y += df.Y

		p := joint.perp.Scale(df.X)
		lA := df.X*joint.s1 + df.Y
		lB := df.X*joint.s2 + df.Y

		vA = vA.Sub(p.Scale(mA))
		wA -= iA * lA

		vB = vB.Add(p.Scale(mB))
		wB += iB * lB
	}

	data.Velocities[joint.indexA].V = vA
	data.Velocities[joint.indexA].W = wA
	data.Velocities[joint.indexB].V = vB
	data.Velocities[joint.indexB].W = wB
}

// A velocity based solver computes reaction forces (impulses) using the
// velocity constraint solver. Under this context, the position solver is not
// there to resolve forces; it is only there to cope with integration error.
// The pseudo impulses in the position solver therefore have no physical
// meaning. The active state comes from fresh position data because the joint
// might push past the limit even when the velocity solver indicates the
// limit is inactive.
func (joint *PrismaticJoint) SolvePositionConstraints(data solverData) bool {
	cA := data.Positions[joint.indexA].C
	aA := data.Positions[joint.indexA].A
	cB := data.Positions[joint.indexB].C
	aB := data.Positions[joint.indexB].A

	qA := MakeRotFromAngle(aA)
	qB := MakeRotFromAngle(aB)

	mA := joint.invMassA
	mB := joint.invMassB
	iA := joint.invIA
	iB := joint.invIB

	// Compute fresh Jacobians
	rA := RotVec2Mul(qA, joint.localAnchorA.Sub(joint.localCenterA))
	rB := RotVec2Mul(qB, joint.localAnchorB.Sub(joint.localCenterB))
	d := cB.Add(rB).Sub(cA).Sub(rA)

	axis := RotVec2Mul(qA, joint.localXAxisA)
	a1 := d.Add(rA).Cross(axis)
	a2 := rB.Cross(axis)
	perp := RotVec2Mul(qA, joint.localYAxisA)

	s1 := d.Add(rA).Cross(perp)
	s2 := rB.Cross(perp)

	var impulse Vec3
	var c1 vec.Vec2
	c1.X = perp.Dot(d)
	c1.Y = aB - aA - joint.referenceAngle

	linearError := math.Abs(c1.X)
	angularError := math.Abs(c1.Y)

	active := false
	c2 := 0.0
	if joint.enableLimit {
		translation := axis.Dot(d)
		if math.Abs(joint.upperTranslation-joint.lowerTranslation) < 2.0*data.Conf.LinearSlop {
			// Prevent large corrections.
			c2 = FloatClamp(translation, -data.Conf.MaxLinearCorrection, data.Conf.MaxLinearCorrection)
			linearError = math.Max(linearError, math.Abs(translation))
			active = true
		} else if translation <= joint.lowerTranslation {
			// Prevent large linear corrections and allow some slop.
			c2 = FloatClamp(translation-joint.lowerTranslation+data.Conf.LinearSlop, -data.Conf.MaxLinearCorrection, 0.0)
			linearError = math.Max(linearError, joint.lowerTranslation-translation)
			active = true
		} else if translation >= joint.upperTranslation {
			// Prevent large linear corrections and allow some slop.
			c2 = FloatClamp(translation-joint.upperTranslation-data.Conf.LinearSlop, 0.0, data.Conf.MaxLinearCorrection)
			linearError = math.Max(linearError, translation-joint.upperTranslation)
			active = true
		}
	}

	if active {
		k11 := mA + mB + iA*s1*s1 + iB*s2*s2
		k12 := iA*s1 + iB*s2
		k13 := iA*s1*a1 + iB*s2*a2
		k22 := iA + iB
		if k22 == 0.0 {
			// For fixed rotation
			k22 = 1.0
		}
		k23 := iA*a1 + iB*a2
		k33 := mA + mB + iA*a1*a1 + iB*a2*a2

		var k Mat33
		k.Ex = Vec3{X: k11, Y: k12, Z: k13}
		k.Ey = Vec3{X: k12, Y: k22, Z: k23}
		k.Ez = Vec3{X: k13, Y: k23, Z: k33}

		c := Vec3{X: c1.X, Y: c1.Y, Z: c2}

		impulse = k.Solve33(c.Neg())
	} else {
		k11 := mA + mB + iA*s1*s1 + iB*s2*s2
		k12 := iA*s1 + iB*s2
		k22 := iA + iB
		if k22 == 0.0 {
			k22 = 1.0
		}

		var k Mat22
		k.Ex = vec.Vec2{X: k11, Y: k12}
		k.Ey = vec.Vec2{X: k12, Y: k22}

		impulse1 := k.Solve(c1.Neg())
		impulse.X = impulse1.X
		impulse.Y = impulse1.Y
		impulse.Z = 0.0
	}

	p := perp.Scale(impulse.X).Add(axis.Scale(impulse.Z))
	lA := impulse.X*s1 + impulse.Y + impulse.Z*a1
	lB := impulse.X*s2 + impulse.Y + impulse.Z*a2

	cA = cA.Sub(p.Scale(mA))
	aA -= iA * lA
	cB = cB.Add(p.Scale(mB))
	aB += iB * lB

	data.Positions[joint.indexA].C = cA
	data.Positions[joint.indexA].A = aA
	data.Positions[joint.indexB].C = cB
	data.Positions[joint.indexB].A = aB

	return linearError <= data.Conf.LinearSlop && angularError <= angularSlop
}
