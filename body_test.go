package playrho_test

import (
	"math"
	"testing"

	"github.com/onsi/gomega"
	"github.com/setanarut/vec"

	playrho "github.com/LoneBoco/PlayRho"
)

func TestBodyTypePredicates(t *testing.T) {
	g := gomega.NewWithT(t)

	world := playrho.NewWorld(vec.Vec2{})

	def := playrho.DefaultBodyDef()
	static := world.CreateBody(&def)

	def.Type = playrho.KinematicBody
	kinematic := world.CreateBody(&def)

	def.Type = playrho.DynamicBody
	dynamic := world.CreateBody(&def)

	g.Expect(static.IsSpeedable()).To(gomega.BeFalse())
	g.Expect(static.IsAccelerable()).To(gomega.BeFalse())

	g.Expect(kinematic.IsSpeedable()).To(gomega.BeTrue())
	g.Expect(kinematic.IsAccelerable()).To(gomega.BeFalse())

	g.Expect(dynamic.IsSpeedable()).To(gomega.BeTrue())
	g.Expect(dynamic.IsAccelerable()).To(gomega.BeTrue())
}

func TestBodySetVelocityIgnoredForStatic(t *testing.T) {
	g := gomega.NewWithT(t)

	world := playrho.NewWorld(vec.Vec2{})
	def := playrho.DefaultBodyDef()
	body := world.CreateBody(&def)

	body.SetLinearVelocity(vec.Vec2{X: 3.0, Y: 0.0})
	body.SetAngularVelocity(2.0)

	g.Expect(body.GetLinearVelocity()).To(gomega.Equal(vec.Vec2{}))
	g.Expect(body.GetAngularVelocity()).To(gomega.BeZero())

	// Zero velocity on a static body is always accepted.
	body.SetVelocity(playrho.Velocity{})
	g.Expect(body.GetVelocity()).To(gomega.Equal(playrho.Velocity{}))
}

func TestBodyUnitMassFallback(t *testing.T) {
	g := gomega.NewWithT(t)

	world := playrho.NewWorld(vec.Vec2{})
	def := playrho.DefaultBodyDef()
	def.Type = playrho.DynamicBody
	body := world.CreateBody(&def)

	// A dynamic body with no fixtures has unit mass.
	g.Expect(body.GetMass()).To(gomega.Equal(1.0))

	// Zero density fixtures don't contribute, falling back to unit mass.
	shape := playrho.NewCircleShape(0.5)
	body.CreateFixture(shape, 0.0)
	g.Expect(body.GetMass()).To(gomega.Equal(1.0))
	g.Expect(body.GetInvMass()).To(gomega.Equal(1.0))

	// A dense fixture gives the expected mass.
	body.DestroyFixture(body.GetFixtureList())
	body.CreateFixture(shape, 2.0)
	expected := 2.0 * math.Pi * 0.5 * 0.5
	g.Expect(body.GetMass()).To(gomega.BeNumerically("~", expected, 1e-12))
}

func TestBodyNonDynamicHasNoMass(t *testing.T) {
	g := gomega.NewWithT(t)

	world := playrho.NewWorld(vec.Vec2{})
	def := playrho.DefaultBodyDef()
	def.Type = playrho.KinematicBody
	body := world.CreateBody(&def)

	shape := playrho.NewCircleShape(0.5)
	body.CreateFixture(shape, 5.0)

	g.Expect(body.GetMass()).To(gomega.BeZero())
	g.Expect(body.GetInvMass()).To(gomega.BeZero())
}

func TestBodySleepZeroesVelocityKeepsAcceleration(t *testing.T) {
	g := gomega.NewWithT(t)

	world := playrho.NewWorld(vec.Vec2{})
	def := playrho.DefaultBodyDef()
	def.Type = playrho.DynamicBody
	body := world.CreateBody(&def)

	body.SetLinearVelocity(vec.Vec2{X: 1.0, Y: 2.0})
	body.ApplyForceToCenter(vec.Vec2{X: 4.0, Y: 0.0})

	body.SetAwake(false)

	g.Expect(body.IsAwake()).To(gomega.BeFalse())
	g.Expect(body.GetLinearVelocity()).To(gomega.Equal(vec.Vec2{}))
	g.Expect(body.GetLinearAcceleration()).To(gomega.Equal(vec.Vec2{X: 4.0, Y: 0.0}))
}

func TestBodySetAccelerationWakeHeuristic(t *testing.T) {
	g := gomega.NewWithT(t)

	world := playrho.NewWorld(vec.Vec2{})
	def := playrho.DefaultBodyDef()
	def.Type = playrho.DynamicBody
	body := world.CreateBody(&def)

	body.SetAwake(false)
	g.Expect(body.IsAwake()).To(gomega.BeFalse())

	// A larger acceleration wakes the body.
	body.SetAcceleration(vec.Vec2{X: 1.0, Y: 0.0}, 0.0)
	g.Expect(body.IsAwake()).To(gomega.BeTrue())

	// Setting the same acceleration again must not wake.
	body.SetAwake(false)
	body.SetAcceleration(vec.Vec2{X: 1.0, Y: 0.0}, 0.0)
	g.Expect(body.IsAwake()).To(gomega.BeFalse())

	// Shrinking the acceleration along the same direction must not wake.
	body.SetAcceleration(vec.Vec2{X: 0.5, Y: 0.0}, 0.0)
	g.Expect(body.IsAwake()).To(gomega.BeFalse())

	// Changing the direction wakes.
	body.SetAcceleration(vec.Vec2{X: 0.0, Y: 0.5}, 0.0)
	g.Expect(body.IsAwake()).To(gomega.BeTrue())
}

func TestBodyShouldCollide(t *testing.T) {
	g := gomega.NewWithT(t)

	world := playrho.NewWorld(vec.Vec2{})

	def := playrho.DefaultBodyDef()
	staticA := world.CreateBody(&def)
	staticB := world.CreateBody(&def)

	def.Type = playrho.DynamicBody
	dynamicA := world.CreateBody(&def)
	dynamicB := world.CreateBody(&def)

	// At least one body must be dynamic.
	g.Expect(staticA.ShouldCollide(staticB)).To(gomega.BeFalse())
	g.Expect(dynamicA.ShouldCollide(staticA)).To(gomega.BeTrue())
	g.Expect(dynamicA.ShouldCollide(dynamicB)).To(gomega.BeTrue())

	// A joint with collideConnected false suppresses collision.
	jd := playrho.DefaultDistanceJointDef()
	jd.Initialize(dynamicA, dynamicB, dynamicA.GetPosition(), dynamicB.GetPosition().Add(vec.Vec2{X: 1.0}))
	joint := world.CreateJoint(&jd)
	g.Expect(joint).NotTo(gomega.BeNil())
	g.Expect(dynamicA.ShouldCollide(dynamicB)).To(gomega.BeFalse())

	world.DestroyJoint(joint)
	g.Expect(dynamicA.ShouldCollide(dynamicB)).To(gomega.BeTrue())
}

func TestBodySetTransform(t *testing.T) {
	g := gomega.NewWithT(t)

	world := playrho.NewWorld(vec.Vec2{})
	def := playrho.DefaultBodyDef()
	def.Type = playrho.DynamicBody
	body := world.CreateBody(&def)
	body.CreateFixture(playrho.NewCircleShape(0.5), 1.0)

	body.SetTransform(vec.Vec2{X: 3.0, Y: 4.0}, 0.5)

	g.Expect(body.GetPosition()).To(gomega.Equal(vec.Vec2{X: 3.0, Y: 4.0}))
	g.Expect(body.GetAngle()).To(gomega.Equal(0.5))
}

func TestBodySetFixedRotation(t *testing.T) {
	g := gomega.NewWithT(t)

	world := playrho.NewWorld(vec.Vec2{})
	def := playrho.DefaultBodyDef()
	def.Type = playrho.DynamicBody
	body := world.CreateBody(&def)
	body.CreateFixture(playrho.NewCircleShape(0.5), 1.0)

	body.SetAngularVelocity(3.0)
	body.SetFixedRotation(true)

	g.Expect(body.IsFixedRotation()).To(gomega.BeTrue())
	g.Expect(body.GetAngularVelocity()).To(gomega.BeZero())
	g.Expect(body.GetInertia()).To(gomega.BeZero())
}

func TestBodyCreateFixtureRejectsInvalidDef(t *testing.T) {
	g := gomega.NewWithT(t)

	world := playrho.NewWorld(vec.Vec2{})
	def := playrho.DefaultBodyDef()
	body := world.CreateBody(&def)

	fd := playrho.DefaultFixtureDef()
	// Missing shape.
	g.Expect(body.CreateFixtureFromDef(&fd)).To(gomega.BeNil())

	fd.Shape = playrho.NewCircleShape(0.5)
	fd.Density = -1.0
	g.Expect(body.CreateFixtureFromDef(&fd)).To(gomega.BeNil())

	fd.Density = 1.0
	g.Expect(body.CreateFixtureFromDef(&fd)).NotTo(gomega.BeNil())
}

func TestBodyCreateRejectsInvalidDef(t *testing.T) {
	g := gomega.NewWithT(t)

	world := playrho.NewWorld(vec.Vec2{})

	def := playrho.DefaultBodyDef()
	def.Position = vec.Vec2{X: math.NaN()}
	g.Expect(world.CreateBody(&def)).To(gomega.BeNil())

	def = playrho.DefaultBodyDef()
	def.Angle = math.Inf(1)
	g.Expect(world.CreateBody(&def)).To(gomega.BeNil())
}

func TestBodySetEnabledIdempotent(t *testing.T) {
	g := gomega.NewWithT(t)

	world := playrho.NewWorld(vec.Vec2{})
	def := playrho.DefaultBodyDef()
	def.Type = playrho.DynamicBody
	body := world.CreateBody(&def)
	body.CreateFixture(playrho.NewCircleShape(0.5), 1.0)

	g.Expect(body.IsEnabled()).To(gomega.BeTrue())
	g.Expect(world.GetProxyCount()).To(gomega.Equal(1))

	// Re-enabling an enabled body must not duplicate proxies.
	body.SetEnabled(true)
	g.Expect(world.GetProxyCount()).To(gomega.Equal(1))

	body.SetEnabled(false)
	g.Expect(body.IsEnabled()).To(gomega.BeFalse())
	g.Expect(world.GetProxyCount()).To(gomega.BeZero())

	body.SetEnabled(true)
	g.Expect(world.GetProxyCount()).To(gomega.Equal(1))
}

func TestBodySetTypeToStatic(t *testing.T) {
	g := gomega.NewWithT(t)

	world := playrho.NewWorld(vec.Vec2{})
	def := playrho.DefaultBodyDef()
	def.Type = playrho.DynamicBody
	def.LinearVelocity = vec.Vec2{X: 3.0}
	def.AngularVelocity = 1.0
	body := world.CreateBody(&def)
	body.CreateFixture(playrho.NewCircleShape(0.5), 1.0)

	body.SetType(playrho.StaticBody)

	g.Expect(body.GetType()).To(gomega.Equal(playrho.StaticBody))
	g.Expect(body.GetVelocity()).To(gomega.Equal(playrho.Velocity{}))
	g.Expect(body.GetMass()).To(gomega.BeZero())
	g.Expect(body.GetContactList()).To(gomega.BeNil())
}
