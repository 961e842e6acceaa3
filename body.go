package playrho

import (
	"math"

	"github.com/setanarut/vec"
)

// BodyType classifies how a body participates in the simulation.
//
//	Static: zero mass, zero velocity, may be manually moved
//	Kinematic: zero mass, non-zero velocity set by user, moved by solver
//	Dynamic: positive mass, velocity determined by forces, moved by solver
type BodyType uint8

const (
	StaticBody BodyType = iota
	KinematicBody
	DynamicBody
)

// Velocity bundles the linear and angular velocity of a body.
type Velocity struct {
	Linear  vec.Vec2
	Angular float64
}

// Acceleration bundles the linear and angular acceleration of a body.
// Accelerations are persistent: they stay in effect until changed.
type Acceleration struct {
	Linear  vec.Vec2
	Angular float64
}

// BodyDef holds all the data needed to construct a rigid body.
// Definitions can be reused safely. Fixtures are added after construction.
type BodyDef struct {
	// The body type: static, kinematic, or dynamic.
	// Note: if a dynamic body would have zero mass, the mass is set to one.
	Type BodyType

	// The world position of the body. Avoid creating bodies at the origin
	// since this can lead to many overlapping shapes.
	Position vec.Vec2

	// The world angle of the body in radians.
	Angle float64

	// The linear velocity of the body's origin in world co-ordinates.
	LinearVelocity vec.Vec2

	// The angular velocity of the body.
	AngularVelocity float64

	// The initial linear acceleration of the body. Accelerations persist
	// until changed, so constant thrust needs no per-step re-application.
	LinearAcceleration vec.Vec2

	// The initial angular acceleration of the body.
	AngularAcceleration float64

	// Linear damping is used to reduce the linear velocity. The damping
	// parameter can be larger than 1 but the damping effect becomes
	// sensitive to the time step when the damping parameter is large.
	// Units are 1/time.
	LinearDamping float64

	// Angular damping is used to reduce the angular velocity.
	// Units are 1/time.
	AngularDamping float64

	// Set this flag to false if this body should never fall asleep.
	// Note that this increases CPU usage.
	AllowSleep bool

	// Is this body initially awake or sleeping?
	Awake bool

	// Should this body be prevented from rotating? Useful for characters.
	FixedRotation bool

	// Is this a fast moving body that should be prevented from tunneling
	// through other moving bodies? All bodies are prevented from tunneling
	// through kinematic and static bodies. This setting is only considered
	// on dynamic bodies.
	Bullet bool

	// Does this body start out enabled?
	Enabled bool

	// Use this to store application specific body data.
	UserData interface{}

	// Scale the gravity applied to this body.
	GravityScale float64
}

// DefaultBodyDef returns a body definition with the default values.
// Each call builds a fresh value.
func DefaultBodyDef() BodyDef {
	return BodyDef{
		Type:         StaticBody,
		AllowSleep:   true,
		Awake:        true,
		Enabled:      true,
		GravityScale: 1.0,
	}
}

func (def BodyDef) isValid() bool {
	return Vec2IsValid(def.Position) &&
		IsValid(def.Angle) &&
		Vec2IsValid(def.LinearVelocity) &&
		IsValid(def.AngularVelocity) &&
		Vec2IsValid(def.LinearAcceleration) &&
		IsValid(def.AngularAcceleration) &&
		IsValid(def.LinearDamping) && def.LinearDamping >= 0.0 &&
		IsValid(def.AngularDamping) && def.AngularDamping >= 0.0
}

const (
	bodyIslandFlag        uint32 = 0x0001
	bodyAwakeFlag         uint32 = 0x0002
	bodyAutoSleepFlag     uint32 = 0x0004
	bodyImpenetrableFlag  uint32 = 0x0008
	bodyFixedRotationFlag uint32 = 0x0010
	bodyEnabledFlag       uint32 = 0x0020
)

// Body is a rigid body. Only speedable bodies can be awake or hold non-zero
// velocities; only accelerable bodies can hold non-zero accelerations or
// accumulate under-active time.
type Body struct {
	bodyType BodyType

	flags uint32

	islandIndex int

	xf    Transform // the body origin transform
	sweep Sweep     // the swept motion for CCD hooks

	velocity Velocity

	linearAcceleration  vec.Vec2
	angularAcceleration float64

	world *World
	prev  *Body
	next  *Body

	fixtureList  *Fixture // linked list
	fixtureCount int

	jointList   *JointEdge   // linked list
	contactList *ContactEdge // linked list

	mass, invMass float64

	// Rotational inertia about the center of mass.
	i, invI float64

	linearDamping  float64
	angularDamping float64
	gravityScale   float64

	// Time in seconds the body has been below the sleep activity thresholds.
	underActiveTime float64

	userData interface{}
}

func newBody(def *BodyDef, world *World) *Body {
	assert(def.isValid())

	body := &Body{}

	if def.Bullet {
		body.flags |= bodyImpenetrableFlag
	}
	if def.FixedRotation {
		body.flags |= bodyFixedRotationFlag
	}
	if def.AllowSleep {
		body.flags |= bodyAutoSleepFlag
	}
	if def.Enabled {
		body.flags |= bodyEnabledFlag
	}

	body.bodyType = def.Type

	// Only speedable bodies can be awake. Bodies that disallow sleeping
	// stay awake regardless of the requested initial state.
	if body.IsSpeedable() && (def.Awake || !def.AllowSleep) {
		body.flags |= bodyAwakeFlag
	}

	body.world = world

	body.xf.P = def.Position
	body.xf.Q.Set(def.Angle)

	body.sweep.LocalCenter = vec.Vec2{}
	body.sweep.C0 = body.xf.P
	body.sweep.C = body.xf.P
	body.sweep.A0 = def.Angle
	body.sweep.A = def.Angle
	body.sweep.Alpha0 = 0.0

	body.SetVelocity(Velocity{Linear: def.LinearVelocity, Angular: def.AngularVelocity})
	body.SetAcceleration(def.LinearAcceleration, def.AngularAcceleration)

	body.linearDamping = def.LinearDamping
	body.angularDamping = def.AngularDamping
	body.gravityScale = def.GravityScale

	if body.bodyType == DynamicBody {
		body.mass = 1.0
		body.invMass = 1.0
	}

	body.userData = def.UserData

	return body
}

func (body *Body) GetType() BodyType {
	return body.bodyType
}

// IsSpeedable reports whether this body can hold non-zero velocity.
// Kinematic and dynamic bodies are speedable.
func (body *Body) IsSpeedable() bool {
	return body.bodyType != StaticBody
}

// IsAccelerable reports whether this body responds to forces and
// accelerations. Only dynamic bodies are accelerable.
func (body *Body) IsAccelerable() bool {
	return body.bodyType == DynamicBody
}

func (body *Body) GetTransform() Transform {
	return body.xf
}

func (body *Body) GetPosition() vec.Vec2 {
	return body.xf.P
}

func (body *Body) GetAngle() float64 {
	return body.sweep.A
}

func (body *Body) GetWorldCenter() vec.Vec2 {
	return body.sweep.C
}

func (body *Body) GetLocalCenter() vec.Vec2 {
	return body.sweep.LocalCenter
}

// SetVelocity sets the body velocity. Non-zero velocities are silently
// ignored on non-speedable bodies; setting a non-zero velocity wakes the
// body and resets its under-active time.
func (body *Body) SetVelocity(v Velocity) {
	if v.Linear != (vec.Vec2{}) || v.Angular != 0.0 {
		if !body.IsSpeedable() {
			return
		}
		body.setAwakeFlag()
		body.ResetUnderActiveTime()
	}
	body.velocity = v
}

func (body *Body) GetVelocity() Velocity {
	return body.velocity
}

func (body *Body) SetLinearVelocity(v vec.Vec2) {
	body.SetVelocity(Velocity{Linear: v, Angular: body.velocity.Angular})
}

func (body *Body) GetLinearVelocity() vec.Vec2 {
	return body.velocity.Linear
}

func (body *Body) SetAngularVelocity(w float64) {
	body.SetVelocity(Velocity{Linear: body.velocity.Linear, Angular: w})
}

func (body *Body) GetAngularVelocity() float64 {
	return body.velocity.Angular
}

// SetAcceleration sets the persistent acceleration of this body. Non-zero
// accelerations are silently ignored on non-accelerable bodies. The body is
// woken when the new acceleration increases its activity: a larger
// magnitude, a changed linear direction, or an angular sign flip.
func (body *Body) SetAcceleration(linear vec.Vec2, angular float64) {
	assert(Vec2IsValid(linear))
	assert(IsValid(angular))

	if body.linearAcceleration == linear && body.angularAcceleration == angular {
		// no change, bail...
		return
	}

	if !body.IsAccelerable() {
		if linear != (vec.Vec2{}) || angular != 0.0 {
			// non-accelerable bodies can only be set to zero acceleration
			return
		}
	} else {
		if body.angularAcceleration < angular ||
			Vec2LengthSquared(body.linearAcceleration) < Vec2LengthSquared(linear) ||
			math.Atan2(body.linearAcceleration.Y, body.linearAcceleration.X) != math.Atan2(linear.Y, linear.X) ||
			math.Signbit(body.angularAcceleration) != math.Signbit(angular) {
			body.setAwakeFlag()
			body.ResetUnderActiveTime()
		}
	}

	body.linearAcceleration = linear
	body.angularAcceleration = angular
}

func (body *Body) GetLinearAcceleration() vec.Vec2 {
	return body.linearAcceleration
}

func (body *Body) GetAngularAcceleration() float64 {
	return body.angularAcceleration
}

// GetMass returns the body mass in kilograms. Non-accelerable bodies report
// zero.
func (body *Body) GetMass() float64 {
	return body.mass
}

func (body *Body) GetInvMass() float64 {
	return body.invMass
}

// GetInertia returns the rotational inertia of the body about the body
// origin.
func (body *Body) GetInertia() float64 {
	return body.i + body.mass*body.sweep.LocalCenter.Dot(body.sweep.LocalCenter)
}

func (body *Body) GetMassData(data *MassData) {
	data.Mass = body.mass
	data.I = body.GetInertia()
	data.Center = body.sweep.LocalCenter
}

func (body *Body) GetWorldPoint(localPoint vec.Vec2) vec.Vec2 {
	return TransformVec2Mul(body.xf, localPoint)
}

func (body *Body) GetWorldVector(localVector vec.Vec2) vec.Vec2 {
	return RotVec2Mul(body.xf.Q, localVector)
}

func (body *Body) GetLocalPoint(worldPoint vec.Vec2) vec.Vec2 {
	return TransformVec2MulT(body.xf, worldPoint)
}

func (body *Body) GetLocalVector(worldVector vec.Vec2) vec.Vec2 {
	return RotVec2MulT(body.xf.Q, worldVector)
}

func (body *Body) GetLinearVelocityFromWorldPoint(worldPoint vec.Vec2) vec.Vec2 {
	return body.velocity.Linear.Add(
		CrossScalarVec2(body.velocity.Angular, worldPoint.Sub(body.sweep.C)),
	)
}

func (body *Body) GetLinearVelocityFromLocalPoint(localPoint vec.Vec2) vec.Vec2 {
	return body.GetLinearVelocityFromWorldPoint(body.GetWorldPoint(localPoint))
}

func (body *Body) GetLinearDamping() float64 {
	return body.linearDamping
}

func (body *Body) SetLinearDamping(linearDamping float64) {
	body.linearDamping = linearDamping
}

func (body *Body) GetAngularDamping() float64 {
	return body.angularDamping
}

func (body *Body) SetAngularDamping(angularDamping float64) {
	body.angularDamping = angularDamping
}

func (body *Body) GetGravityScale() float64 {
	return body.gravityScale
}

func (body *Body) SetGravityScale(scale float64) {
	body.gravityScale = scale
}

// SetBullet marks this body as impenetrable for continuous collision.
func (body *Body) SetBullet(flag bool) {
	if flag {
		body.flags |= bodyImpenetrableFlag
	} else {
		body.flags &^= bodyImpenetrableFlag
	}
}

func (body *Body) IsBullet() bool {
	return body.flags&bodyImpenetrableFlag != 0
}

func (body *Body) setAwakeFlag() {
	body.flags |= bodyAwakeFlag
}

// SetAwake wakes or sleeps the body. Waking a non-speedable body has no
// effect. Putting a body to sleep zeroes its velocity; its persistent
// acceleration is kept.
func (body *Body) SetAwake(flag bool) {
	if flag {
		if !body.IsSpeedable() {
			return
		}
		body.setAwakeFlag()
		body.ResetUnderActiveTime()
	} else {
		body.flags &^= bodyAwakeFlag
		body.underActiveTime = 0.0
		body.velocity = Velocity{}
	}
}

func (body *Body) IsAwake() bool {
	return body.flags&bodyAwakeFlag != 0
}

// GetUnderActiveTime returns how long the body has been below the sleep
// activity thresholds, in seconds.
func (body *Body) GetUnderActiveTime() float64 {
	return body.underActiveTime
}

func (body *Body) SetUnderActiveTime(value float64) {
	if value == 0.0 || body.IsAccelerable() {
		body.underActiveTime = value
	}
}

func (body *Body) ResetUnderActiveTime() {
	body.underActiveTime = 0.0
}

func (body *Body) IsEnabled() bool {
	return body.flags&bodyEnabledFlag != 0
}

func (body *Body) IsFixedRotation() bool {
	return body.flags&bodyFixedRotationFlag != 0
}

// SetSleepingAllowed controls whether this body can fall asleep. Disallowing
// sleep wakes the body.
func (body *Body) SetSleepingAllowed(flag bool) {
	if flag {
		body.flags |= bodyAutoSleepFlag
	} else {
		body.flags &^= bodyAutoSleepFlag
		body.SetAwake(true)
	}
}

func (body *Body) IsSleepingAllowed() bool {
	return body.flags&bodyAutoSleepFlag != 0
}

func (body *Body) GetFixtureList() *Fixture {
	return body.fixtureList
}

func (body *Body) GetJointList() *JointEdge {
	return body.jointList
}

// GetContactList returns the body's contact edge list. Be careful with this
// list: it changes during the time step as contacts are created and
// destroyed.
func (body *Body) GetContactList() *ContactEdge {
	return body.contactList
}

func (body *Body) GetNext() *Body {
	return body.next
}

func (body *Body) SetUserData(data interface{}) {
	body.userData = data
}

func (body *Body) GetUserData() interface{} {
	return body.userData
}

func (body *Body) GetWorld() *World {
	return body.world
}

// ApplyForce applies a force at a world point. The force persists as an
// acceleration until changed. If the force is not applied at the center of
// mass, it generates a torque and affects the angular acceleration.
func (body *Body) ApplyForce(force vec.Vec2, point vec.Vec2) {
	if !body.IsAccelerable() {
		return
	}

	torque := point.Sub(body.sweep.C).Cross(force)
	body.SetAcceleration(
		body.linearAcceleration.Add(force.Scale(body.invMass)),
		body.angularAcceleration+torque*body.invI,
	)
}

// ApplyForceToCenter applies a force to the center of mass. The force
// persists as an acceleration until changed.
func (body *Body) ApplyForceToCenter(force vec.Vec2) {
	if !body.IsAccelerable() {
		return
	}

	body.SetAcceleration(
		body.linearAcceleration.Add(force.Scale(body.invMass)),
		body.angularAcceleration,
	)
}

// ApplyTorque applies a torque. The torque persists as an angular
// acceleration until changed.
func (body *Body) ApplyTorque(torque float64) {
	if !body.IsAccelerable() {
		return
	}

	body.SetAcceleration(
		body.linearAcceleration,
		body.angularAcceleration+torque*body.invI,
	)
}

// ApplyLinearImpulse applies an impulse at a world point, immediately
// modifying the velocity. This wakes the body.
func (body *Body) ApplyLinearImpulse(impulse vec.Vec2, point vec.Vec2) {
	if !body.IsAccelerable() {
		return
	}

	v := body.velocity
	v.Linear = v.Linear.Add(impulse.Scale(body.invMass))
	v.Angular += body.invI * point.Sub(body.sweep.C).Cross(impulse)
	body.SetVelocity(v)
}

// ApplyLinearImpulseToCenter applies an impulse to the center of mass. This
// wakes the body.
func (body *Body) ApplyLinearImpulseToCenter(impulse vec.Vec2) {
	if !body.IsAccelerable() {
		return
	}

	v := body.velocity
	v.Linear = v.Linear.Add(impulse.Scale(body.invMass))
	body.SetVelocity(v)
}

// ApplyAngularImpulse applies an angular impulse, immediately modifying the
// angular velocity. This wakes the body.
func (body *Body) ApplyAngularImpulse(impulse float64) {
	if !body.IsAccelerable() {
		return
	}

	v := body.velocity
	v.Angular += body.invI * impulse
	body.SetVelocity(v)
}

func (body *Body) synchronizeTransform() {
	body.xf.Q.Set(body.sweep.A)
	body.xf.P = body.sweep.C.Sub(RotVec2Mul(body.xf.Q, body.sweep.LocalCenter))
}

// Advance moves the sweep forward to the new safe time. This is a hook for
// continuous collision and doesn't sync the broad-phase.
func (body *Body) Advance(alpha float64) {
	body.sweep.Advance(alpha)
	body.sweep.C = body.sweep.C0
	body.sweep.A = body.sweep.A0
	body.synchronizeTransform()
}

// SetType changes the body type. This wakes the body, recomputes its mass
// data and destroys its contacts. No-ops while the world is stepping.
func (body *Body) SetType(bodyType BodyType) {
	if body.world != nil && body.world.IsLocked() {
		return
	}

	if body.bodyType == bodyType {
		return
	}

	body.bodyType = bodyType

	body.ResetMassData()

	if body.bodyType == StaticBody {
		body.velocity = Velocity{}
		body.sweep.A0 = body.sweep.A
		body.sweep.C0 = body.sweep.C
		body.flags &^= bodyAwakeFlag
		body.synchronizeFixtures()
	}

	body.SetAwake(true)

	if !body.IsAccelerable() {
		body.linearAcceleration = vec.Vec2{}
		body.angularAcceleration = 0.0
	}

	// Delete the attached contacts.
	ce := body.contactList
	for ce != nil {
		ce0 := ce
		ce = ce.Next
		body.world.contactManager.Destroy(ce0.Contact)
	}
	body.contactList = nil

	// Touch the proxies so that new contacts will be created (when
	// appropriate).
	broadPhase := body.world.contactManager.broadPhase
	for f := body.fixtureList; f != nil; f = f.next {
		for i := 0; i < f.proxyCount; i++ {
			broadPhase.TouchProxy(f.proxies[i].ProxyId)
		}
	}
}

// CreateFixtureFromDef creates a fixture and attaches it to this body. If
// the density is non-zero, this updates the mass of the body. Returns nil
// and creates nothing if the world is stepping or the definition holds
// invalid values.
func (body *Body) CreateFixtureFromDef(def *FixtureDef) *Fixture {
	if body.world.IsLocked() {
		return nil
	}
	if !def.isValid() {
		return nil
	}

	fixture := &Fixture{filter: DefaultFilter()}
	fixture.create(body, def)

	if body.flags&bodyEnabledFlag != 0 {
		broadPhase := body.world.contactManager.broadPhase
		fixture.createProxies(broadPhase, body.xf)
	}

	fixture.next = body.fixtureList
	body.fixtureList = fixture
	body.fixtureCount++

	fixture.body = body

	// Adjust mass properties if needed.
	if fixture.density > 0.0 {
		body.ResetMassData()
	}

	// Let the world know we have a new fixture. This will cause new
	// contacts to be created at the beginning of the next time step.
	body.world.flags |= worldNewFixtureFlag

	return fixture
}

// CreateFixture creates a fixture from a shape and density, using the
// default values for the remaining definition fields.
func (body *Body) CreateFixture(shape Shape, density float64) *Fixture {
	def := DefaultFixtureDef()
	def.Shape = shape
	def.Density = density

	return body.CreateFixtureFromDef(&def)
}

// DestroyFixture removes a fixture from this body, destroying all contacts
// associated with it. This recomputes the body mass. No-ops while the world
// is stepping.
func (body *Body) DestroyFixture(fixture *Fixture) {
	if fixture == nil {
		return
	}
	if body.world.IsLocked() {
		return
	}

	assert(fixture.body == body)

	// Remove the fixture from this body's singly linked list.
	assert(body.fixtureCount > 0)
	node := &body.fixtureList
	found := false
	for *node != nil {
		if *node == fixture {
			*node = fixture.next
			found = true
			break
		}
		node = &(*node).next
	}

	// You tried to remove a fixture that is not attached to this body.
	assert(found)

	// Destroy any contacts associated with the fixture.
	edge := body.contactList
	for edge != nil {
		c := edge.Contact
		edge = edge.Next

		if fixture == c.GetFixtureA() || fixture == c.GetFixtureB() {
			// This destroys the contact and removes it from
			// this body's contact list.
			body.world.contactManager.Destroy(c)
		}
	}

	if body.flags&bodyEnabledFlag != 0 {
		broadPhase := body.world.contactManager.broadPhase
		fixture.destroyProxies(broadPhase)
	}

	fixture.body = nil
	fixture.next = nil
	fixture.destroy()

	body.fixtureCount--

	body.ResetMassData()
}

// ResetMassData recomputes the mass data from the fixtures, normally called
// automatically on fixture changes. Dynamic bodies whose fixtures carry no
// density fall back to unit mass so they stay movable.
func (body *Body) ResetMassData() {
	// Compute mass data from shapes. Each shape has its own density.
	body.mass = 0.0
	body.invMass = 0.0
	body.i = 0.0
	body.invI = 0.0
	body.sweep.LocalCenter = vec.Vec2{}

	// Non-accelerable bodies have zero mass.
	if !body.IsAccelerable() {
		body.sweep.C0 = body.xf.P
		body.sweep.C = body.xf.P
		body.sweep.A0 = body.sweep.A
		return
	}

	// Accumulate mass over all fixtures.
	localCenter := vec.Vec2{}
	for f := body.fixtureList; f != nil; f = f.next {
		if f.density == 0.0 {
			continue
		}

		var massData MassData
		f.GetMassData(&massData)
		body.mass += massData.Mass
		localCenter = localCenter.Add(massData.Center.Scale(massData.Mass))
		body.i += massData.I
	}

	// Compute center of mass.
	if body.mass > 0.0 {
		body.invMass = 1.0 / body.mass
		localCenter = localCenter.Scale(body.invMass)
	} else {
		// Force all dynamic bodies to have a positive mass.
		body.mass = 1.0
		body.invMass = 1.0
	}

	if body.i > 0.0 && body.flags&bodyFixedRotationFlag == 0 {
		// Center the inertia about the center of mass.
		body.i -= body.mass * localCenter.Dot(localCenter)
		if body.i > 0.0 {
			body.invI = 1.0 / body.i
		} else {
			body.i = 0.0
		}
	} else {
		body.i = 0.0
		body.invI = 0.0
	}

	// Move center of mass.
	oldCenter := body.sweep.C
	body.sweep.LocalCenter = localCenter
	body.sweep.C0 = TransformVec2Mul(body.xf, body.sweep.LocalCenter)
	body.sweep.C = body.sweep.C0

	// Update center of mass velocity.
	body.velocity.Linear = body.velocity.Linear.Add(
		CrossScalarVec2(body.velocity.Angular, body.sweep.C.Sub(oldCenter)),
	)
}

// SetMassData overrides the mass properties computed from the fixtures.
// This changes the center of mass position. Non-positive mass falls back to
// unit mass. No-ops on non-dynamic bodies or while the world is stepping.
func (body *Body) SetMassData(massData *MassData) {
	if body.world.IsLocked() {
		return
	}
	if body.bodyType != DynamicBody {
		return
	}

	body.invMass = 0.0
	body.i = 0.0
	body.invI = 0.0

	body.mass = massData.Mass
	if body.mass <= 0.0 {
		body.mass = 1.0
	}
	body.invMass = 1.0 / body.mass

	if massData.I > 0.0 && body.flags&bodyFixedRotationFlag == 0 {
		body.i = massData.I - body.mass*massData.Center.Dot(massData.Center)
		if body.i > 0.0 {
			body.invI = 1.0 / body.i
		} else {
			body.i = 0.0
		}
	}

	// Move center of mass.
	oldCenter := body.sweep.C
	body.sweep.LocalCenter = massData.Center
	body.sweep.C0 = TransformVec2Mul(body.xf, body.sweep.LocalCenter)
	body.sweep.C = body.sweep.C0

	// Update center of mass velocity.
	body.velocity.Linear = body.velocity.Linear.Add(
		CrossScalarVec2(body.velocity.Angular, body.sweep.C.Sub(oldCenter)),
	)
}

// ShouldCollide reports whether this body should collide with another.
// At least one body must be accelerable, and no joint connecting the two may
// disable collision.
func (body *Body) ShouldCollide(other *Body) bool {
	if !body.IsAccelerable() && !other.IsAccelerable() {
		return false
	}

	// Does a joint prevent collision?
	for jn := body.jointList; jn != nil; jn = jn.Next {
		if jn.Other == other && !jn.Joint.IsCollideConnected() {
			return false
		}
	}

	return true
}

// SetTransform sets the position of the body's origin and its rotation.
// Manipulating a body's transform may cause non-physical behavior.
// No-ops while the world is stepping.
func (body *Body) SetTransform(position vec.Vec2, angle float64) {
	if body.world.IsLocked() {
		return
	}

	body.xf.Q.Set(angle)
	body.xf.P = position

	body.sweep.C = TransformVec2Mul(body.xf, body.sweep.LocalCenter)
	body.sweep.A = angle
	body.sweep.C0 = body.sweep.C
	body.sweep.A0 = angle

	broadPhase := body.world.contactManager.broadPhase
	for f := body.fixtureList; f != nil; f = f.next {
		f.synchronize(broadPhase, body.xf, body.xf)
	}
}

func (body *Body) synchronizeFixtures() {
	xf1 := MakeTransform()
	xf1.Q.Set(body.sweep.A0)
	xf1.P = body.sweep.C0.Sub(RotVec2Mul(xf1.Q, body.sweep.LocalCenter))

	broadPhase := body.world.contactManager.broadPhase
	for f := body.fixtureList; f != nil; f = f.next {
		f.synchronize(broadPhase, xf1, body.xf)
	}
}

// SetEnabled enables or disables the body. A disabled body keeps its
// fixtures but has no broad-phase proxies and no contacts. Enabling an
// already enabled body has no effect. No-ops while the world is stepping.
func (body *Body) SetEnabled(flag bool) {
	if body.world.IsLocked() {
		return
	}

	if flag == body.IsEnabled() {
		return
	}

	if flag {
		body.flags |= bodyEnabledFlag

		// Create all proxies. Contacts are created the next time step.
		broadPhase := body.world.contactManager.broadPhase
		for f := body.fixtureList; f != nil; f = f.next {
			f.createProxies(broadPhase, body.xf)
		}
	} else {
		body.flags &^= bodyEnabledFlag

		// Destroy all proxies.
		broadPhase := body.world.contactManager.broadPhase
		for f := body.fixtureList; f != nil; f = f.next {
			f.destroyProxies(broadPhase)
		}

		// Destroy the attached contacts.
		ce := body.contactList
		for ce != nil {
			ce0 := ce
			ce = ce.Next
			body.world.contactManager.Destroy(ce0.Contact)
		}
		body.contactList = nil
	}
}

// SetFixedRotation locks the body rotation, zeroing its angular velocity and
// recomputing the mass data.
func (body *Body) SetFixedRotation(flag bool) {
	if body.IsFixedRotation() == flag {
		return
	}

	if flag {
		body.flags |= bodyFixedRotationFlag
	} else {
		body.flags &^= bodyFixedRotationFlag
	}

	body.velocity.Angular = 0.0

	body.ResetMassData()
}
