package playrho

import "github.com/setanarut/vec"

// DestructionListener is notified when a joint or fixture is about to be
// destroyed implicitly, for example when its parent body is destroyed. This
// gives the application a chance to nullify references to the doomed object.
type DestructionListener interface {
	// SayGoodbyeToJoint is called when a joint is about to be destroyed
	// due to the destruction of one of its attached bodies.
	SayGoodbyeToJoint(joint Joint)

	// SayGoodbyeToFixture is called when a fixture is about to be
	// destroyed due to the destruction of its parent body.
	SayGoodbyeToFixture(fixture *Fixture)
}

// ContactFilter lets the application reject collisions between fixture
// pairs.
type ContactFilter interface {
	// ShouldCollide reports whether contact calculations should be
	// performed between these two fixtures. This is called when a contact
	// is created and on re-filter, not per step.
	ShouldCollide(fixtureA *Fixture, fixtureB *Fixture) bool
}

// DefaultContactFilter implements the group and category filtering logic.
type DefaultContactFilter struct{}

func (DefaultContactFilter) ShouldCollide(fixtureA *Fixture, fixtureB *Fixture) bool {
	filterA := fixtureA.GetFilterData()
	filterB := fixtureB.GetFilterData()

	if filterA.GroupIndex == filterB.GroupIndex && filterA.GroupIndex != 0 {
		return filterA.GroupIndex > 0
	}

	return filterA.MaskBits&filterB.CategoryBits != 0 &&
		filterA.CategoryBits&filterB.MaskBits != 0
}

// ContactImpulse carries the impulses applied by the contact solver, for use
// in PostSolve. Impulses are matched one-to-one with the manifold points.
type ContactImpulse struct {
	NormalImpulses  [maxManifoldPoints]float64
	TangentImpulses [maxManifoldPoints]float64
	Count           int
}

// ContactListener receives contact lifecycle events. The events fire inside
// the time step, so the world is locked: do not create or destroy entities
// from a callback.
type ContactListener interface {
	// BeginContact is called when two fixtures begin to touch.
	BeginContact(contact *Contact)

	// EndContact is called when two fixtures cease to touch.
	EndContact(contact *Contact)

	// PreSolve is called after a contact is updated but before it goes to
	// the solver. The old manifold allows detecting changes such as new
	// points; a contact disabled here stays disabled for the current step
	// only. Sensors do not get PreSolve events.
	PreSolve(contact *Contact, oldManifold Manifold)

	// PostSolve is called after the solver has finished with a contact,
	// with the impulses it applied.
	PostSolve(contact *Contact, impulse *ContactImpulse)
}

// QueryCallback is invoked for each fixture found in an AABB query. Return
// false to terminate the query.
type QueryCallback func(fixture *Fixture) bool

// RayCastCallback is invoked for each fixture hit by a ray cast. The return
// value controls how the ray cast proceeds:
//
//	-1 to ignore this fixture and continue
//	0 to terminate the ray cast
//	fraction to clip the ray to this hit point
//	1 to continue without clipping
type RayCastCallback func(fixture *Fixture, point vec.Vec2, normal vec.Vec2, fraction float64) float64
