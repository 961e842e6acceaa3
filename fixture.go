package playrho

import "github.com/setanarut/vec"

// Filter holds contact filtering data.
type Filter struct {
	// The collision category bits. Normally you would just set one bit.
	CategoryBits uint16

	// The collision mask bits. This states the categories that this
	// shape would accept for collision.
	MaskBits uint16

	// Collision groups allow a certain group of objects to never collide
	// (negative) or always collide (positive). Zero means no collision group.
	// Non-zero group filtering always wins against the mask bits.
	GroupIndex int16
}

// DefaultFilter returns the filter accepting everything in category one.
func DefaultFilter() Filter {
	return Filter{
		CategoryBits: 0x0001,
		MaskBits:     0xFFFF,
		GroupIndex:   0,
	}
}

// FixtureDef is used to create a fixture. Definitions can be reused safely.
type FixtureDef struct {
	// The shape, this must be set. The shape will be cloned, so you
	// can reuse the same shape value across fixtures.
	Shape Shape

	// Use this to store application specific fixture data.
	UserData interface{}

	// The friction coefficient, usually in the range [0,1].
	Friction float64

	// The restitution (elasticity) usually in the range [0,1].
	Restitution float64

	// The density, usually in kg/m^2.
	Density float64

	// A sensor shape collects contact information but never generates a
	// collision response.
	IsSensor bool

	// Contact filtering data.
	Filter Filter
}

// DefaultFixtureDef returns a fixture definition with the default values.
// Each call builds a fresh value.
func DefaultFixtureDef() FixtureDef {
	return FixtureDef{
		Friction: 0.2,
		Filter:   DefaultFilter(),
	}
}

func (def FixtureDef) isValid() bool {
	if def.Shape == nil {
		return false
	}
	if !IsValid(def.Density) || def.Density < 0.0 {
		return false
	}
	if !IsValid(def.Friction) || def.Friction < 0.0 {
		return false
	}
	if !IsValid(def.Restitution) {
		return false
	}
	return true
}

// FixtureProxy connects a fixture child to the broad-phase.
type FixtureProxy struct {
	AABB       AABB
	Fixture    *Fixture
	ChildIndex int
	ProxyId    int
}

// Fixture attaches a shape to a body for collision detection. A fixture
// inherits its transform from its parent and holds the non-geometric data
// such as friction, density and collision filters.
// Fixtures are created via Body.CreateFixture and cannot be reused.
type Fixture struct {
	density float64

	next *Fixture
	body *Body

	shape Shape

	friction    float64
	restitution float64

	proxies    []FixtureProxy
	proxyCount int

	filter Filter

	isSensor bool

	userData interface{}
}

func (fix *Fixture) GetType() ShapeType {
	return fix.shape.GetType()
}

// GetShape returns the fixture's cloned shape. Manipulating the shape may
// lead to non-physical behavior because the proxies are not refreshed.
func (fix *Fixture) GetShape() Shape {
	return fix.shape
}

func (fix *Fixture) IsSensor() bool {
	return fix.isSensor
}

func (fix *Fixture) GetFilterData() Filter {
	return fix.filter
}

func (fix *Fixture) GetUserData() interface{} {
	return fix.userData
}

func (fix *Fixture) SetUserData(data interface{}) {
	fix.userData = data
}

func (fix *Fixture) GetBody() *Body {
	return fix.body
}

// GetNext returns the next fixture in the parent body's fixture list.
func (fix *Fixture) GetNext() *Fixture {
	return fix.next
}

func (fix *Fixture) SetDensity(density float64) {
	assert(IsValid(density) && density >= 0.0)
	fix.density = density
}

func (fix *Fixture) GetDensity() float64 {
	return fix.density
}

func (fix *Fixture) GetFriction() float64 {
	return fix.friction
}

// SetFriction sets the friction coefficient. This will not change the
// friction of existing contacts.
func (fix *Fixture) SetFriction(friction float64) {
	fix.friction = friction
}

func (fix *Fixture) GetRestitution() float64 {
	return fix.restitution
}

// SetRestitution sets the restitution coefficient. This will not change the
// restitution of existing contacts.
func (fix *Fixture) SetRestitution(restitution float64) {
	fix.restitution = restitution
}

// TestPoint tests a world point for containment in this fixture.
func (fix *Fixture) TestPoint(p vec.Vec2) bool {
	return fix.shape.TestPoint(fix.body.GetTransform(), p)
}

// RayCast casts a ray against a child shape of this fixture.
func (fix *Fixture) RayCast(output *RayCastOutput, input RayCastInput, childIndex int) bool {
	return fix.shape.RayCast(output, input, fix.body.GetTransform(), childIndex)
}

// GetMassData computes the mass data for the fixture's shape at its density.
func (fix *Fixture) GetMassData(massData *MassData) {
	fix.shape.ComputeMass(massData, fix.density)
}

// GetAABB returns the tight AABB of a fixture child. It may be out of date
// for fast moving bodies.
func (fix *Fixture) GetAABB(childIndex int) AABB {
	assert(0 <= childIndex && childIndex < fix.proxyCount)
	return fix.proxies[childIndex].AABB
}

func (fix *Fixture) create(body *Body, def *FixtureDef) {
	fix.userData = def.UserData
	fix.friction = def.Friction
	fix.restitution = def.Restitution

	fix.body = body
	fix.next = nil

	fix.filter = def.Filter
	fix.isSensor = def.IsSensor

	fix.shape = def.Shape.Clone()

	// Reserve proxy space
	childCount := fix.shape.GetChildCount()
	fix.proxies = make([]FixtureProxy, childCount)
	for i := 0; i < childCount; i++ {
		fix.proxies[i].ProxyId = nullProxy
	}
	fix.proxyCount = 0

	fix.density = def.Density
}

func (fix *Fixture) destroy() {
	// The proxies must be destroyed before calling this.
	assert(fix.proxyCount == 0)

	fix.proxies = nil
	fix.shape = nil
}

func (fix *Fixture) createProxies(broadPhase BroadPhase, xf Transform) {
	assert(fix.proxyCount == 0)

	// Create proxies in the broad-phase.
	fix.proxyCount = fix.shape.GetChildCount()

	for i := 0; i < fix.proxyCount; i++ {
		proxy := &fix.proxies[i]
		fix.shape.ComputeAABB(&proxy.AABB, xf, i)
		proxy.ProxyId = broadPhase.CreateProxy(proxy.AABB, proxy)
		proxy.Fixture = fix
		proxy.ChildIndex = i
	}
}

func (fix *Fixture) destroyProxies(broadPhase BroadPhase) {
	for i := 0; i < fix.proxyCount; i++ {
		proxy := &fix.proxies[i]
		broadPhase.DestroyProxy(proxy.ProxyId)
		proxy.ProxyId = nullProxy
	}

	fix.proxyCount = 0
}

func (fix *Fixture) synchronize(broadPhase BroadPhase, transform1, transform2 Transform) {
	if fix.proxyCount == 0 {
		return
	}

	for i := 0; i < fix.proxyCount; i++ {
		proxy := &fix.proxies[i]

		// Compute an AABB that covers the swept shape (may miss some
		// rotation effect).
		var aabb1, aabb2 AABB
		fix.shape.ComputeAABB(&aabb1, transform1, proxy.ChildIndex)
		fix.shape.ComputeAABB(&aabb2, transform2, proxy.ChildIndex)

		proxy.AABB.CombineTwoInPlace(aabb1, aabb2)

		displacement := transform2.P.Sub(transform1.P)

		broadPhase.MoveProxy(proxy.ProxyId, proxy.AABB, displacement)
	}
}

// SetFilterData sets the contact filtering data. This will not update
// contacts until the next time step when either parent body is active.
func (fix *Fixture) SetFilterData(filter Filter) {
	fix.filter = filter
	fix.Refilter()
}

// Refilter flags associated contacts for re-filtering and touches the
// broad-phase proxies so new pairs may be created.
func (fix *Fixture) Refilter() {
	if fix.body == nil {
		return
	}

	for edge := fix.body.GetContactList(); edge != nil; edge = edge.Next {
		contact := edge.Contact
		if contact.GetFixtureA() == fix || contact.GetFixtureB() == fix {
			contact.FlagForFiltering()
		}
	}

	world := fix.body.GetWorld()
	if world == nil {
		return
	}

	broadPhase := world.contactManager.broadPhase
	for i := 0; i < fix.proxyCount; i++ {
		broadPhase.TouchProxy(fix.proxies[i].ProxyId)
	}
}

// SetSensor sets whether this fixture is a sensor, waking the parent body.
func (fix *Fixture) SetSensor(sensor bool) {
	if sensor != fix.isSensor {
		fix.body.SetAwake(true)
		fix.isSensor = sensor
	}
}
