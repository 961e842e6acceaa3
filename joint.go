package playrho

import "github.com/setanarut/vec"

// JointType identifies the concrete joint kind.
type JointType uint8

const (
	UnknownJointType JointType = iota
	RevoluteJointType
	PrismaticJointType
	DistanceJointType
	RopeJointType
)

// LimitState describes the state of a joint limit.
type LimitState uint8

const (
	InactiveLimit LimitState = iota
	AtLowerLimit
	AtUpperLimit
	EqualLimits
)

// JointEdge connects bodies and joints together in a joint graph where each
// body is a node and each joint is an edge. A joint edge belongs to a doubly
// linked list maintained in each attached body. Each joint has two joint
// edges, one for each attached body.
type JointEdge struct {
	Other *Body // the other body attached
	Joint Joint
	Prev  *JointEdge
	Next  *JointEdge
}

// JointDef holds the fields common to all joint definitions.
type JointDef struct {
	// The first attached body.
	BodyA *Body

	// The second attached body.
	BodyB *Body

	// Set this flag to true if the attached bodies should collide.
	CollideConnected bool

	// Use this to attach application specific data to your joints.
	UserData interface{}
}

func (def JointDef) isValid() bool {
	return def.BodyA != nil && def.BodyB != nil && def.BodyA != def.BodyB
}

// JointDefInterface is implemented by all concrete joint definitions and
// consumed by World.CreateJoint.
type JointDefInterface interface {
	GetBodyA() *Body
	GetBodyB() *Body
	IsCollideConnected() bool

	// createJoint builds the unlinked joint, or returns nil when the
	// definition holds invalid values.
	createJoint() Joint
}

func (def JointDef) GetBodyA() *Body {
	return def.BodyA
}

func (def JointDef) GetBodyB() *Body {
	return def.BodyB
}

func (def JointDef) IsCollideConnected() bool {
	return def.CollideConnected
}

// Joint constrains two bodies together. All concrete joints implement the
// same three-phase solve contract driven by the island solver: initialize,
// iterate velocity constraints, then iterate position constraints until
// SolvePositionConstraints reports the error is within tolerance.
type Joint interface {
	core() *jointCore

	GetType() JointType
	GetBodyA() *Body
	GetBodyB() *Body

	// GetAnchorA returns the anchor point on body A in world coordinates.
	GetAnchorA() vec.Vec2

	// GetAnchorB returns the anchor point on body B in world coordinates.
	GetAnchorB() vec.Vec2

	// GetReactionForce returns the reaction force on body B at the joint
	// anchor, in Newtons.
	GetReactionForce(invDt float64) vec.Vec2

	// GetReactionTorque returns the reaction torque on body B, in N*m.
	GetReactionTorque(invDt float64) float64

	GetNext() Joint
	GetUserData() interface{}
	SetUserData(data interface{})
	IsCollideConnected() bool

	// IsEnabled reports whether both attached bodies are enabled.
	IsEnabled() bool

	// ShiftOrigin shifts any points stored in world coordinates.
	ShiftOrigin(newOrigin vec.Vec2)

	InitVelocityConstraints(data solverData)
	SolveVelocityConstraints(data solverData)
	SolvePositionConstraints(data solverData) bool
}

// jointCore carries the bookkeeping shared by all joints. Concrete joints
// embed it by pointer so the world and island reach the plumbing through
// core().
type jointCore struct {
	jointType JointType
	prev      Joint
	next      Joint
	edgeA     JointEdge
	edgeB     JointEdge
	bodyA     *Body
	bodyB     *Body

	index      int
	islandFlag bool

	collideConnected bool
	userData         interface{}
}

func makeJointCore(def JointDef, jointType JointType) *jointCore {
	assert(def.isValid())

	return &jointCore{
		jointType:        jointType,
		bodyA:            def.BodyA,
		bodyB:            def.BodyB,
		collideConnected: def.CollideConnected,
		userData:         def.UserData,
	}
}

func (j *jointCore) core() *jointCore {
	return j
}

func (j *jointCore) GetType() JointType {
	return j.jointType
}

func (j *jointCore) GetBodyA() *Body {
	return j.bodyA
}

func (j *jointCore) GetBodyB() *Body {
	return j.bodyB
}

func (j *jointCore) GetNext() Joint {
	return j.next
}

func (j *jointCore) GetUserData() interface{} {
	return j.userData
}

func (j *jointCore) SetUserData(data interface{}) {
	j.userData = data
}

func (j *jointCore) IsCollideConnected() bool {
	return j.collideConnected
}

func (j *jointCore) IsEnabled() bool {
	return j.bodyA.IsEnabled() && j.bodyB.IsEnabled()
}

// ShiftOrigin is a no-op for joints that store no world coordinates.
func (j *jointCore) ShiftOrigin(newOrigin vec.Vec2) {}
