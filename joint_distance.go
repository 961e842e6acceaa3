package playrho

import (
	"math"

	"github.com/setanarut/vec"
)

// DistanceJointDef describes a distance joint: an anchor point on each body
// and the non-zero rest length between them. The definition uses local
// anchor points so that the initial configuration can violate the constraint
// slightly. Do not use a zero or very short length.
type DistanceJointDef struct {
	JointDef

	// The local anchor point relative to bodyA's origin.
	LocalAnchorA vec.Vec2

	// The local anchor point relative to bodyB's origin.
	LocalAnchorB vec.Vec2

	// The natural length between the anchor points.
	Length float64

	// The mass-spring-damper frequency in Hertz. A value of 0 disables
	// softness.
	FrequencyHz float64

	// The damping ratio. 0 = no damping, 1 = critical damping.
	DampingRatio float64
}

// DefaultDistanceJointDef returns a distance joint definition with unit
// length and a rigid (non-soft) constraint. Each call builds a fresh value.
func DefaultDistanceJointDef() DistanceJointDef {
	return DistanceJointDef{Length: 1.0}
}

// Initialize sets the bodies, local anchors and rest length from world
// anchor points.
func (def *DistanceJointDef) Initialize(bodyA *Body, bodyB *Body, anchorA vec.Vec2, anchorB vec.Vec2) {
	def.BodyA = bodyA
	def.BodyB = bodyB
	def.LocalAnchorA = bodyA.GetLocalPoint(anchorA)
	def.LocalAnchorB = bodyB.GetLocalPoint(anchorB)
	def.Length = anchorB.Sub(anchorA).Mag()
}

func (def DistanceJointDef) createJoint() Joint {
	if !def.isValid() ||
		!Vec2IsValid(def.LocalAnchorA) ||
		!Vec2IsValid(def.LocalAnchorB) ||
		!IsValid(def.Length) || def.Length <= 0.0 ||
		!IsValid(def.FrequencyHz) || def.FrequencyHz < 0.0 ||
		!IsValid(def.DampingRatio) || def.DampingRatio < 0.0 {
		return nil
	}
	return newDistanceJoint(def)
}

// DistanceJoint constrains two points on two bodies to remain at a fixed
// distance from each other. You can view this as a massless, rigid rod.
// A non-zero frequency turns the rod into a soft spring.
//
// C = norm(pB - pA) - L
// u = (pB - pA) / norm(pB - pA)
// Cdot = dot(u, vB + cross(wB, rB) - vA - cross(wA, rA))
// J = [-u -cross(rA, u) u cross(rB, u)]
// K = J * invM * JT
//   = invMassA + invIA * cross(rA, u)^2 + invMassB + invIB * cross(rB, u)^2
type DistanceJoint struct {
	*jointCore

	frequencyHz  float64
	dampingRatio float64
	bias         float64

	// Solver shared
	localAnchorA vec.Vec2
	localAnchorB vec.Vec2
	gamma        float64
	impulse      float64
	length       float64

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
}

func newDistanceJoint(def DistanceJointDef) *DistanceJoint {
	return &DistanceJoint{
		jointCore:    makeJointCore(def.JointDef, DistanceJointType),
		localAnchorA: def.LocalAnchorA,
		localAnchorB: def.LocalAnchorB,
		length:       def.Length,
		frequencyHz:  def.FrequencyHz,
		dampingRatio: def.DampingRatio,
	}
}

// Def returns a definition that recreates this joint.
func (joint *DistanceJoint) Def() DistanceJointDef {
	def := DefaultDistanceJointDef()
	def.BodyA = joint.bodyA
	def.BodyB = joint.bodyB
	def.CollideConnected = joint.collideConnected
	def.UserData = joint.userData
	def.LocalAnchorA = joint.localAnchorA
	def.LocalAnchorB = joint.localAnchorB
	def.Length = joint.length
	def.FrequencyHz = joint.frequencyHz
	def.DampingRatio = joint.dampingRatio
	return def
}

func (joint *DistanceJoint) GetLocalAnchorA() vec.Vec2 {
	return joint.localAnchorA
}

func (joint *DistanceJoint) GetLocalAnchorB() vec.Vec2 {
	return joint.localAnchorB
}

func (joint *DistanceJoint) SetLength(length float64) {
	joint.length = length
}

func (joint *DistanceJoint) GetLength() float64 {
	return joint.length
}

func (joint *DistanceJoint) SetFrequency(hz float64) {
	joint.frequencyHz = hz
}

func (joint *DistanceJoint) GetFrequency() float64 {
	return joint.frequencyHz
}

func (joint *DistanceJoint) SetDampingRatio(ratio float64) {
	joint.dampingRatio = ratio
}

func (joint *DistanceJoint) GetDampingRatio() float64 {
	return joint.dampingRatio
}

func (joint *DistanceJoint) GetAnchorA() vec.Vec2 {
	return joint.bodyA.GetWorldPoint(joint.localAnchorA)
}

func (joint *DistanceJoint) GetAnchorB() vec.Vec2 {
	return joint.bodyB.GetWorldPoint(joint.localAnchorB)
}

func (joint *DistanceJoint) GetReactionForce(invDt float64) vec.Vec2 {
	return joint.u.Scale(invDt * joint.impulse)
}

func (joint *DistanceJoint) GetReactionTorque(invDt float64) float64 {
	return 0.0
}

func (joint *DistanceJoint) InitVelocityConstraints(data solverData) {
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

	// Handle singularity.
	length := joint.u.Mag()
	if length > data.Conf.LinearSlop {
		joint.u = joint.u.Scale(1.0 / length)
	} else {
		joint.u = vec.Vec2{}
	}

	crAu := joint.rA.Cross(joint.u)
	crBu := joint.rB.Cross(joint.u)
	invMass := joint.invMassA + joint.invIA*crAu*crAu + joint.invMassB + joint.invIB*crBu*crBu

	// Compute the effective mass matrix.
	if invMass != 0.0 {
		joint.mass = 1.0 / invMass
	} else {
		joint.mass = 0.0
	}

	if joint.frequencyHz > 0.0 {
		c := length - joint.length

		// Frequency
		omega := 2.0 * math.Pi * joint.frequencyHz

		// Damping coefficient
		d := 2.0 * joint.mass * joint.dampingRatio * omega

		// Spring stiffness
		k := joint.mass * omega * omega

		// magic formulas
		h := data.Step.Dt
		joint.gamma = h * (d + h*k)
		if joint.gamma != 0.0 {
			joint.gamma = 1.0 / joint.gamma
		} else {
			joint.gamma = 0.0
		}
		joint.bias = c * h * k * joint.gamma

		invMass += joint.gamma
		if invMass != 0.0 {
			joint.mass = 1.0 / invMass
		} else {
			joint.mass = 0.0
		}
	} else {
		joint.gamma = 0.0
		joint.bias = 0.0
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

func (joint *DistanceJoint) SolveVelocityConstraints(data solverData) {
	vA := data.Velocities[joint.indexA].V
	wA := data.Velocities[joint.indexA].W
	vB := data.Velocities[joint.indexB].V
	wB := data.Velocities[joint.indexB].W

	// Cdot = dot(u, v + cross(w, r))
	vpA := vA.Add(CrossScalarVec2(wA, joint.rA))
	vpB := vB.Add(CrossScalarVec2(wB, joint.rB))
	cdot := joint.u.Dot(vpB.Sub(vpA))

	impulse := -joint.mass * (cdot + joint.bias + joint.gamma*joint.impulse)
	joint.impulse += impulse

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

func (joint *DistanceJoint) SolvePositionConstraints(data solverData) bool {
	if joint.frequencyHz > 0.0 {
		// There is no position correction for soft distance constraints.
		return true
	}

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
	c := length - joint.length
	c = FloatClamp(c, -data.Conf.MaxLinearCorrection, data.Conf.MaxLinearCorrection)

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

	return math.Abs(c) < data.Conf.LinearSlop
}
