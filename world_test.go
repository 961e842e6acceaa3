package playrho_test

import (
	"testing"

	"github.com/onsi/gomega"
	"github.com/setanarut/vec"

	playrho "github.com/LoneBoco/PlayRho"
)

type recordingListener struct {
	begins int
	ends   int
	pre    int
	post   int
}

func (l *recordingListener) BeginContact(contact *playrho.Contact) { l.begins++ }
func (l *recordingListener) EndContact(contact *playrho.Contact)   { l.ends++ }
func (l *recordingListener) PreSolve(contact *playrho.Contact, oldManifold playrho.Manifold) {
	l.pre++
}
func (l *recordingListener) PostSolve(contact *playrho.Contact, impulse *playrho.ContactImpulse) {
	l.post++
}

type goodbyeListener struct {
	joints   int
	fixtures int
}

func (l *goodbyeListener) SayGoodbyeToJoint(joint playrho.Joint)        { l.joints++ }
func (l *goodbyeListener) SayGoodbyeToFixture(fixture *playrho.Fixture) { l.fixtures++ }

func TestWorldBodyBookkeeping(t *testing.T) {
	g := gomega.NewWithT(t)

	world := playrho.NewWorld(vec.Vec2{})
	g.Expect(world.GetBodyCount()).To(gomega.BeZero())
	g.Expect(world.GetBodyList()).To(gomega.BeNil())

	def := playrho.DefaultBodyDef()
	first := world.CreateBody(&def)
	second := world.CreateBody(&def)

	g.Expect(world.GetBodyCount()).To(gomega.Equal(2))
	g.Expect(world.GetBodyList()).To(gomega.Equal(second))
	g.Expect(second.GetNext()).To(gomega.Equal(first))

	world.DestroyBody(second)
	g.Expect(world.GetBodyCount()).To(gomega.Equal(1))
	g.Expect(world.GetBodyList()).To(gomega.Equal(first))
}

func TestWorldDestroyBodyCascades(t *testing.T) {
	g := gomega.NewWithT(t)

	world := playrho.NewWorld(vec.Vec2{})
	goodbye := &goodbyeListener{}
	world.SetDestructionListener(goodbye)

	bodyA := makeDynamicCircle(world, vec.Vec2{X: -1.0}, 0.2)
	bodyB := makeDynamicCircle(world, vec.Vec2{X: 1.0}, 0.2)

	jd := playrho.DefaultDistanceJointDef()
	jd.Initialize(bodyA, bodyB, bodyA.GetPosition(), bodyB.GetPosition())
	world.CreateJoint(&jd)

	world.DestroyBody(bodyA)

	g.Expect(goodbye.joints).To(gomega.Equal(1))
	g.Expect(goodbye.fixtures).To(gomega.Equal(1))
	g.Expect(world.GetJointCount()).To(gomega.BeZero())
	g.Expect(bodyB.GetJointList()).To(gomega.BeNil())
	g.Expect(world.GetProxyCount()).To(gomega.Equal(1))
}

func TestWorldContactLifecycle(t *testing.T) {
	g := gomega.NewWithT(t)

	world := playrho.NewWorld(vec.Vec2{Y: -10.0})
	listener := &recordingListener{}
	world.SetContactListener(listener)

	gd := playrho.DefaultBodyDef()
	gd.Position = vec.Vec2{Y: -1.0}
	ground := world.CreateBody(&gd)
	box := playrho.NewPolygonShape()
	box.SetAsBox(10.0, 1.0)
	ground.CreateFixture(box, 0.0)

	bd := playrho.DefaultBodyDef()
	bd.Type = playrho.DynamicBody
	bd.Position = vec.Vec2{Y: 1.0}
	ball := world.CreateBody(&bd)
	ball.CreateFixture(playrho.NewCircleShape(0.5), 1.0)

	conf := playrho.DefaultStepConf()
	for i := 0; i < 120; i++ {
		world.Step(conf)
	}

	// The ball fell onto the ground and rests there.
	g.Expect(listener.begins).To(gomega.BeNumerically(">=", 1))
	g.Expect(listener.pre).To(gomega.BeNumerically(">", 0))
	g.Expect(listener.post).To(gomega.BeNumerically(">", 0))
	g.Expect(world.GetContactCount()).To(gomega.Equal(1))
	g.Expect(world.GetContactList().IsTouching()).To(gomega.BeTrue())
	g.Expect(ball.GetPosition().Y).To(gomega.BeNumerically("~", 0.5, 0.05))

	// Removing the ball fires EndContact.
	world.DestroyBody(ball)
	g.Expect(listener.ends).To(gomega.Equal(listener.begins))
	g.Expect(world.GetContactCount()).To(gomega.BeZero())
}

func TestWorldLockedMutationsIgnored(t *testing.T) {
	g := gomega.NewWithT(t)

	world := playrho.NewWorld(vec.Vec2{})

	bodyA := makeDynamicCircle(world, vec.Vec2{X: -0.1}, 0.2)
	bodyB := makeDynamicCircle(world, vec.Vec2{X: 0.1}, 0.2)
	_ = bodyB

	var created *playrho.Body
	listener := &lockedMutator{}
	listener.onBegin = func() {
		// The world is stepping: topology mutations are ignored.
		def := playrho.DefaultBodyDef()
		created = world.CreateBody(&def)
		g.Expect(world.IsLocked()).To(gomega.BeTrue())
		world.DestroyBody(bodyA)
	}
	world.SetContactListener(listener)

	before := world.GetBodyCount()
	conf := playrho.DefaultStepConf()
	world.Step(conf)

	g.Expect(created).To(gomega.BeNil())
	g.Expect(world.GetBodyCount()).To(gomega.Equal(before))
	g.Expect(world.IsLocked()).To(gomega.BeFalse())
}

type lockedMutator struct {
	onBegin func()
}

func (l *lockedMutator) BeginContact(contact *playrho.Contact) {
	if l.onBegin != nil {
		l.onBegin()
		l.onBegin = nil
	}
}
func (l *lockedMutator) EndContact(contact *playrho.Contact)                               {}
func (l *lockedMutator) PreSolve(contact *playrho.Contact, oldManifold playrho.Manifold)   {}
func (l *lockedMutator) PostSolve(contact *playrho.Contact, impulse *playrho.ContactImpulse) {}

func TestWorldStepStats(t *testing.T) {
	g := gomega.NewWithT(t)

	world := playrho.NewWorld(vec.Vec2{})

	makeDynamicCircle(world, vec.Vec2{X: -0.1}, 0.2)
	makeDynamicCircle(world, vec.Vec2{X: 0.1}, 0.2)
	makeDynamicCircle(world, vec.Vec2{X: 10.0}, 0.2)

	conf := playrho.DefaultStepConf()
	stats := world.Step(conf)

	g.Expect(stats.ContactsAdded).To(gomega.Equal(1))
	g.Expect(stats.Proxies).To(gomega.Equal(3))
	// The overlapping pair forms one island, the lone circle another.
	g.Expect(stats.IslandCount).To(gomega.Equal(2))

	stats = world.Step(conf)
	g.Expect(stats.ContactsUpdated).To(gomega.Equal(1))
}

func TestWorldQueryAABB(t *testing.T) {
	g := gomega.NewWithT(t)

	world := playrho.NewWorld(vec.Vec2{})
	body := makeDynamicCircle(world, vec.Vec2{X: 5.0, Y: 5.0}, 0.5)
	makeDynamicCircle(world, vec.Vec2{X: -5.0, Y: -5.0}, 0.5)

	var found []*playrho.Fixture
	world.QueryAABB(func(fixture *playrho.Fixture) bool {
		found = append(found, fixture)
		return true
	}, playrho.AABB{
		LowerBound: vec.Vec2{X: 4.0, Y: 4.0},
		UpperBound: vec.Vec2{X: 6.0, Y: 6.0},
	})

	g.Expect(found).To(gomega.HaveLen(1))
	g.Expect(found[0].GetBody()).To(gomega.Equal(body))
}

func TestWorldRayCast(t *testing.T) {
	g := gomega.NewWithT(t)

	world := playrho.NewWorld(vec.Vec2{})
	body := makeDynamicCircle(world, vec.Vec2{X: 5.0}, 0.5)

	var hit *playrho.Fixture
	var hitPoint vec.Vec2
	var hitNormal vec.Vec2
	world.RayCast(func(fixture *playrho.Fixture, point vec.Vec2, normal vec.Vec2, fraction float64) float64 {
		hit = fixture
		hitPoint = point
		hitNormal = normal
		return fraction
	}, vec.Vec2{}, vec.Vec2{X: 10.0})

	g.Expect(hit).NotTo(gomega.BeNil())
	g.Expect(hit.GetBody()).To(gomega.Equal(body))
	g.Expect(hitPoint.X).To(gomega.BeNumerically("~", 4.5, 1e-6))
	g.Expect(hitNormal.X).To(gomega.BeNumerically("~", -1.0, 1e-6))
}

func TestWorldShiftOrigin(t *testing.T) {
	g := gomega.NewWithT(t)

	world := playrho.NewWorld(vec.Vec2{})
	body := makeDynamicCircle(world, vec.Vec2{X: 10.0, Y: 10.0}, 0.5)

	world.ShiftOrigin(vec.Vec2{X: 10.0, Y: 10.0})

	g.Expect(body.GetPosition()).To(gomega.Equal(vec.Vec2{}))
}

func TestWorldSetAllowSleepingWakesAll(t *testing.T) {
	g := gomega.NewWithT(t)

	world := playrho.NewWorld(vec.Vec2{})
	body := makeDynamicCircle(world, vec.Vec2{}, 0.5)
	body.SetAwake(false)

	world.SetAllowSleeping(false)
	g.Expect(body.IsAwake()).To(gomega.BeTrue())
}
