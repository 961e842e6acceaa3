package playrho

import "math"

// MixFriction is the friction mixing law. The idea is to allow either
// fixture to drive the friction to zero. For example, anything slides on
// ice.
func MixFriction(friction1, friction2 float64) float64 {
	return math.Sqrt(friction1 * friction2)
}

// MixRestitution is the restitution mixing law. The idea is to allow for
// anything to bounce off an inelastic surface. For example, a superball
// bounces on anything.
func MixRestitution(restitution1, restitution2 float64) float64 {
	if restitution1 > restitution2 {
		return restitution1
	}
	return restitution2
}

// EvaluateShapes computes the manifold for a pair of shape children under
// the given transforms, dispatching on the shape types. Mixed pairs given in
// circle-polygon order are evaluated swapped and reported with a faceB
// manifold.
func EvaluateShapes(manifold *Manifold, shapeA Shape, indexA int, shapeB Shape, indexB int, xfA Transform, xfB Transform) {
	switch a := shapeA.(type) {
	case *CircleShape:
		switch b := shapeB.(type) {
		case *CircleShape:
			CollideCircles(manifold, a, xfA, b, xfB)
		case *PolygonShape:
			CollidePolygonAndCircle(manifold, b, xfB, a, xfA)
			if manifold.PointCount > 0 {
				manifold.Type = ManifoldFaceB
			}
		default:
			assert(false)
		}
	case *PolygonShape:
		switch b := shapeB.(type) {
		case *CircleShape:
			CollidePolygonAndCircle(manifold, a, xfA, b, xfB)
		case *PolygonShape:
			CollidePolygons(manifold, a, xfA, b, xfB)
		default:
			assert(false)
		}
	default:
		assert(false)
	}
}

// ContactEdge connects bodies and contacts together in a contact graph
// where each body is a node and each contact is an edge. A contact edge
// belongs to a doubly linked list maintained in each attached body. Each
// contact has two contact edges, one for each attached body.
type ContactEdge struct {
	Other   *Body // the other body attached
	Contact *Contact
	Prev    *ContactEdge
	Next    *ContactEdge
}

const (
	// Used when crawling the contact graph when forming islands.
	contactIslandFlag uint32 = 0x0001

	// Set when the shapes are touching.
	contactTouchingFlag uint32 = 0x0002

	// This contact can be disabled (by user).
	contactEnabledFlag uint32 = 0x0004

	// This contact needs filtering because a fixture filter was changed.
	contactFilterFlag uint32 = 0x0008

	// This bullet contact had a time of impact event.
	contactBulletHitFlag uint32 = 0x0010
)

// Contact manages the collision between two fixtures. A contact exists for
// each overlapping AABB in the broad-phase (except if filtered), so a
// contact may exist that has no touching points. The manifold evaluation
// dispatches on the shape types of the two fixtures.
type Contact struct {
	flags uint32

	// World list pointers.
	prev *Contact
	next *Contact

	// Nodes for connecting bodies.
	nodeA ContactEdge
	nodeB ContactEdge

	fixtureA *Fixture
	fixtureB *Fixture

	indexA int
	indexB int

	manifold Manifold

	friction     float64
	restitution  float64
	tangentSpeed float64
}

// newContact builds an unlinked contact. Mixed shape pairs are normalized so
// the polygon fixture comes first, matching the manifold conventions of the
// pair evaluators.
func newContact(fixtureA *Fixture, indexA int, fixtureB *Fixture, indexB int) *Contact {
	if fixtureA.GetType() < fixtureB.GetType() {
		fixtureA, fixtureB = fixtureB, fixtureA
		indexA, indexB = indexB, indexA
	}

	contact := &Contact{
		flags:    contactEnabledFlag,
		fixtureA: fixtureA,
		fixtureB: fixtureB,
		indexA:   indexA,
		indexB:   indexB,
	}

	contact.friction = MixFriction(fixtureA.friction, fixtureB.friction)
	contact.restitution = MixRestitution(fixtureA.restitution, fixtureB.restitution)

	return contact
}

// GetManifold returns the contact manifold. Do not modify it unless you
// understand the internals of the solver.
func (contact *Contact) GetManifold() *Manifold {
	return &contact.manifold
}

// GetWorldManifold computes the world manifold from the current body
// transforms.
func (contact *Contact) GetWorldManifold(worldManifold *WorldManifold) {
	bodyA := contact.fixtureA.GetBody()
	bodyB := contact.fixtureB.GetBody()
	shapeA := contact.fixtureA.GetShape()
	shapeB := contact.fixtureB.GetShape()

	worldManifold.Initialize(&contact.manifold,
		bodyA.GetTransform(), shapeA.GetRadius(),
		bodyB.GetTransform(), shapeB.GetRadius())
}

// IsTouching reports whether the shapes are touching.
func (contact *Contact) IsTouching() bool {
	return contact.flags&contactTouchingFlag != 0
}

// SetEnabled enables or disables this contact. The contact is re-enabled
// automatically each time step, so this only persists within the current
// PreSolve callback.
func (contact *Contact) SetEnabled(flag bool) {
	if flag {
		contact.flags |= contactEnabledFlag
	} else {
		contact.flags &^= contactEnabledFlag
	}
}

func (contact *Contact) IsEnabled() bool {
	return contact.flags&contactEnabledFlag != 0
}

// GetNext returns the next contact in the world's contact list.
func (contact *Contact) GetNext() *Contact {
	return contact.next
}

func (contact *Contact) GetFixtureA() *Fixture {
	return contact.fixtureA
}

func (contact *Contact) GetChildIndexA() int {
	return contact.indexA
}

func (contact *Contact) GetFixtureB() *Fixture {
	return contact.fixtureB
}

func (contact *Contact) GetChildIndexB() int {
	return contact.indexB
}

// SetFriction overrides the default friction mixture. This persists until
// ResetFriction or a new contact.
func (contact *Contact) SetFriction(friction float64) {
	contact.friction = friction
}

func (contact *Contact) GetFriction() float64 {
	return contact.friction
}

// ResetFriction restores the default friction mixture.
func (contact *Contact) ResetFriction() {
	contact.friction = MixFriction(contact.fixtureA.friction, contact.fixtureB.friction)
}

// SetRestitution overrides the default restitution mixture. This persists
// until ResetRestitution or a new contact.
func (contact *Contact) SetRestitution(restitution float64) {
	contact.restitution = restitution
}

func (contact *Contact) GetRestitution() float64 {
	return contact.restitution
}

// ResetRestitution restores the default restitution mixture.
func (contact *Contact) ResetRestitution() {
	contact.restitution = MixRestitution(contact.fixtureA.restitution, contact.fixtureB.restitution)
}

// SetTangentSpeed sets the desired tangent speed for a conveyor belt
// behavior, in meters per second.
func (contact *Contact) SetTangentSpeed(speed float64) {
	contact.tangentSpeed = speed
}

func (contact *Contact) GetTangentSpeed() float64 {
	return contact.tangentSpeed
}

// FlagForFiltering marks the contact for re-filtering at the next update.
func (contact *Contact) FlagForFiltering() {
	contact.flags |= contactFilterFlag
}

// Evaluate computes the manifold for the contact's shape pair.
func (contact *Contact) Evaluate(manifold *Manifold, xfA Transform, xfB Transform) {
	EvaluateShapes(manifold,
		contact.fixtureA.GetShape(), contact.indexA,
		contact.fixtureB.GetShape(), contact.indexB,
		xfA, xfB)
}

// update recomputes the contact manifold and touching status, preserving
// accumulated impulses across matching contact ids for warm starting.
// Do not assume the fixture AABBs are overlapping or are valid.
func (contact *Contact) update(listener ContactListener) {
	oldManifold := contact.manifold

	// Re-enable this contact.
	contact.flags |= contactEnabledFlag

	touching := false
	wasTouching := contact.flags&contactTouchingFlag != 0

	sensorA := contact.fixtureA.IsSensor()
	sensorB := contact.fixtureB.IsSensor()
	sensor := sensorA || sensorB

	bodyA := contact.fixtureA.GetBody()
	bodyB := contact.fixtureB.GetBody()
	xfA := bodyA.GetTransform()
	xfB := bodyB.GetTransform()

	if sensor {
		shapeA := contact.fixtureA.GetShape()
		shapeB := contact.fixtureB.GetShape()
		touching = TestOverlapShapes(shapeA, contact.indexA, shapeB, contact.indexB, xfA, xfB)

		// Sensors don't generate manifolds.
		contact.manifold.PointCount = 0
	} else {
		contact.Evaluate(&contact.manifold, xfA, xfB)
		touching = contact.manifold.PointCount > 0

		// Match old contact ids to new contact ids and copy the
		// stored impulses to warm start the solver.
		for i := 0; i < contact.manifold.PointCount; i++ {
			mp2 := &contact.manifold.Points[i]
			mp2.NormalImpulse = 0.0
			mp2.TangentImpulse = 0.0
			id2 := mp2.Id

			for j := 0; j < oldManifold.PointCount; j++ {
				mp1 := &oldManifold.Points[j]

				if mp1.Id.Key() == id2.Key() {
					mp2.NormalImpulse = mp1.NormalImpulse
					mp2.TangentImpulse = mp1.TangentImpulse
					break
				}
			}
		}

		if touching != wasTouching {
			bodyA.SetAwake(true)
			bodyB.SetAwake(true)
		}
	}

	if touching {
		contact.flags |= contactTouchingFlag
	} else {
		contact.flags &^= contactTouchingFlag
	}

	if !wasTouching && touching && listener != nil {
		listener.BeginContact(contact)
	}

	if wasTouching && !touching && listener != nil {
		listener.EndContact(contact)
	}

	if !sensor && touching && listener != nil {
		listener.PreSolve(contact, oldManifold)
	}
}
