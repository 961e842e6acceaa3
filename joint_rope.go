package playrho

import (
	"math"

	"github.com/setanarut/vec"
)

// RopeJointDef describes a rope joint. It requires two body anchor points
// and a maximum length.
// Note: by default the connected bodies do not collide; see CollideConnected.
type RopeJointDef struct {
	JointDef

	// The local anchor point relative to bodyA's origin.
	LocalAnchorA vec.Vec2

	// The local anchor point relative to bodyB's origin.
	LocalAnchorB vec.Vec2

	// The maximum length of the rope. This must be larger than the linear
	// slop or the joint has no effect.
	MaxLength float64
}

// DefaultRopeJointDef returns a rope joint definition with the default
// anchors. Each call builds a fresh value.
func DefaultRopeJointDef() RopeJointDef {
	return RopeJointDef{
		LocalAnchorA: vec.Vec2{X: -1.0, Y: 0.0},
		LocalAnchorB: vec.Vec2{X: 1.0, Y: 0.0},
	}
}

func (def RopeJointDef) createJoint() Joint {
	if !def.isValid() ||
		!Vec2IsValid(def.LocalAnchorA) ||
		!Vec2IsValid(def.LocalAnchorB) ||
		!IsValid(def.MaxLength) || def.MaxLength < 0.0 {
		return nil
	}
	return newRopeJoint(def)
}

// RopeJoint enforces a maximum distance between two points on two bodies.
// It has no other effect. Changing the maximum length during the simulation
// causes non-physical behavior; use a distance joint to control length
// dynamically.
//
// Limit:
// C = norm(pB - pA) - L
// u = (pB - pA) / norm(pB - pA)
// Cdot = dot(u, vB + cross(wB, rB) - vA - cross(wA, rA))
// J = [-u -cross(rA, u) u cross(rB, u)]
// K = J * invM * JT
//   = invMassA + invIA * cross(rA, u)^2 + invMassB + invIB * cross(rB, u)^2
type RopeJoint struct {
	*jointCore

	// Solver shared
	localAnchorA vec.Vec2
	localAnchorB vec.Vec2
	maxLength    float64
	length       float64
	impulse      float64

	// Solver temp
	indexA       int
	indexB       int
	u            vec.Vec2
	rA           vec.Vec2
	rB           vec.Vec2
	localCenterA vec.Vec2
	localCenterB vec.Vec2
	invMassA     float64
	invMassB     float64
	invIA        float64
	invIB        float64
	mass         float64
	state        LimitState
}

func newRopeJoint(def RopeJointDef) *RopeJoint {
	return &RopeJoint{
		jointCore:    makeJointCore(def.JointDef, RopeJointType),
		localAnchorA: def.LocalAnchorA,
		localAnchorB: def.LocalAnchorB,
		maxLength:    def.MaxLength,
		state:        InactiveLimit,
	}
}

// Def returns a definition that recreates this joint.
func (joint *RopeJoint) Def() RopeJointDef {
	def := DefaultRopeJointDef()
	def.BodyA = joint.bodyA
	def.BodyB = joint.bodyB
	def.CollideConnected = joint.collideConnected
	def.UserData = joint.userData
	def.LocalAnchorA = joint.localAnchorA
	def.LocalAnchorB = joint.localAnchorB
	def.MaxLength = joint.maxLength
	return def
}

func (joint *RopeJoint) GetLocalAnchorA() vec.Vec2 {
	return joint.localAnchorA
}

func (joint *RopeJoint) GetLocalAnchorB() vec.Vec2 {
	return joint.localAnchorB
}

func (joint *RopeJoint) SetMaxLength(length float64) {
	joint.maxLength = length
}

func (joint *RopeJoint) GetMaxLength() float64 {
	return joint.maxLength
}

// GetLength returns the rope length measured at the last solve.
func (joint *RopeJoint) GetLength() float64 {
	return joint.length
}

func (joint *RopeJoint) GetLimitState() LimitState {
	return joint.state
}

func (joint *RopeJoint) GetAnchorA() vec.Vec2 {
	return joint.bodyA.GetWorldPoint(joint.localAnchorA)
}

func (joint *RopeJoint) GetAnchorB() vec.Vec2 {
	return joint.bodyB.GetWorldPoint(joint.localAnchorB)
}

func (joint *RopeJoint) GetReactionForce(invDt float64) vec.Vec2 {
	return joint.u.Scale(invDt * joint.impulse)
}

func (joint *RopeJoint) GetReactionTorque(invDt float64) float64 {
	return 0.0
}

func (joint *RopeJoint) InitVelocityConstraints(data solverData) {
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

	joint.rA = RotVec2Mul(qA, joint.localAnchorA.Sub(joint.localCenterA))
	joint.rB = RotVec2Mul(qB, joint.localAnchorB.Sub(joint.localCenterB))
	joint.u = cB.Add(joint.rB).Sub(cA).Sub(joint.rA)

	joint.length = joint.u.Mag()

	c := joint.length - joint.maxLength
	if c > 0.0 {
		joint.state = AtUpperLimit
	} else {
		joint.state = InactiveLimit
	}

	if joint.length > data.Conf.LinearSlop {
		joint.u = joint.u.Scale(1.0 / joint.length)
	} else {
		joint.u = vec.Vec2{}
		joint.mass = 0.0
		joint.impulse = 0.0
		return
	}

	// Compute effective mass.
	crA := joint.rA.Cross(joint.u)
	crB := joint.rB.Cross(joint.u)
	invMass := joint.invMassA + joint.invIA*crA*crA + joint.invMassB + joint.invIB*crB*crB

	if invMass != 0.0 {
		joint.mass = 1.0 / invMass
	} else {
		joint.mass = 0.0
	}

	if data.Step.WarmStarting {
		// Scale the impulse to support a variable time step.
		joint.impulse *= data.Step.DtRatio

		p := joint.u.Scale(joint.impulse)
		vA = vA.Sub(p.Scale(joint.invMassA))
		wA -= joint.invIA * joint.rA.Cross(p)
		vB = vB.Add(p.Scale(joint.invMassB))
		wB += joint.invIB * joint.rB.Cross(p)
	} else {
		joint.impulse = 0.0
	}

	data.Velocities[joint.indexA].V = vA
	data.Velocities[joint.indexA].W = wA
	data.Velocities[joint.indexB].V = vB
	data.Velocities[joint.indexB].W = wB
}

func (joint *RopeJoint) SolveVelocityConstraints(data solverData) {
	vA := data.Velocities[joint.indexA].V
	wA := data.Velocities[joint.indexA].W
	vB := data.Velocities[joint.indexB].V
	wB := data.Velocities[joint.indexB].W

	// Cdot = dot(u, v + cross(w, r))
	vpA := vA.Add(CrossScalarVec2(wA, joint.rA))
	vpB := vB.Add(CrossScalarVec2(wB, joint.rB))
	c := joint.length - joint.maxLength
	cdot := joint.u.Dot(vpB.Sub(vpA))

	// Predictive constraint.
	if c < 0.0 {
		cdot += data.Step.InvDt * c
	}

	impulse := -joint.mass * cdot
	oldImpulse := joint.impulse
	joint.impulse = math.Min(0.0, joint.impulse+impulse)
	impulse = joint.impulse - oldImpulse

	p := joint.u.Scale(impulse)
	vA = vA.Sub(p.Scale(joint.invMassA))
	wA -= joint.invIA * joint.rA.Cross(p)
	vB = vB.Add(p.Scale(joint.invMassB))
	wB += joint.invIB * joint.rB.Cross(p)

	data.Velocities[joint.indexA].V = vA
	data.Velocities[joint.indexA].W = wA
	data.Velocities[joint.indexB].V = vB
	data.Velocities[joint.indexB].W = wB
}

func (joint *RopeJoint) SolvePositionConstraints(data solverData) bool {
	cA := data.Positions[joint.indexA].C
	aA := data.Positions[joint.indexA].A
	cB := data.Positions[joint.indexB].C
	aB := data.Positions[joint.indexB].A

	qA := MakeRotFromAngle(aA)
	qB := MakeRotFromAngle(aB)

	rA := RotVec2Mul(qA, joint.localAnchorA.Sub(joint.localCenterA))
	rB := RotVec2Mul(qB, joint.localAnchorB.Sub(joint.localCenterB))
	u := cB.Add(rB).Sub(cA).Sub(rA)

	length := Normalize(&u)
	c := length - joint.maxLength

	c = FloatClamp(c, 0.0, data.Conf.MaxLinearCorrection)

	impulse := -joint.mass * c
	p := u.Scale(impulse)

	cA = cA.Sub(p.Scale(joint.invMassA))
	aA -= joint.invIA * rA.Cross(p)
	cB = cB.Add(p.Scale(joint.invMassB))
	aB += joint.invIB * rB.Cross(p)

	data.Positions[joint.indexA].C = cA
	data.Positions[joint.indexA].A = aA
	data.Positions[joint.indexB].C = cB
	data.Positions[joint.indexB].A = aB

	return length-joint.maxLength < data.Conf.LinearSlop
}
