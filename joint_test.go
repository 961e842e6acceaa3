package playrho_test

import (
	"math"
	"testing"

	"github.com/onsi/gomega"
	"github.com/setanarut/vec"

	playrho "github.com/LoneBoco/PlayRho"
)

func stepTimes(world *playrho.World, conf playrho.StepConf, n int) {
	for i := 0; i < n; i++ {
		world.Step(conf)
	}
}

func makeDynamicCircle(world *playrho.World, position vec.Vec2, radius float64) *playrho.Body {
	def := playrho.DefaultBodyDef()
	def.Type = playrho.DynamicBody
	def.Position = position
	body := world.CreateBody(&def)
	body.CreateFixture(playrho.NewCircleShape(radius), 1.0)
	return body
}

func TestCreateJointRejectsInvalidDefs(t *testing.T) {
	g := gomega.NewWithT(t)

	world := playrho.NewWorld(vec.Vec2{})
	bodyA := makeDynamicCircle(world, vec.Vec2{X: -1.0}, 0.2)
	bodyB := makeDynamicCircle(world, vec.Vec2{X: 1.0}, 0.2)

	// A joint needs two distinct bodies.
	rd := playrho.DefaultRopeJointDef()
	rd.BodyA = bodyA
	rd.BodyB = bodyA
	g.Expect(world.CreateJoint(&rd)).To(gomega.BeNil())

	rd.BodyB = bodyB
	rd.MaxLength = -1.0
	g.Expect(world.CreateJoint(&rd)).To(gomega.BeNil())

	dd := playrho.DefaultDistanceJointDef()
	dd.BodyA = bodyA
	dd.BodyB = bodyB
	dd.Length = 0.0
	g.Expect(world.CreateJoint(&dd)).To(gomega.BeNil())

	vd := playrho.DefaultRevoluteJointDef()
	vd.BodyA = bodyA
	vd.BodyB = bodyB
	vd.LowerAngle = 1.0
	vd.UpperAngle = -1.0
	g.Expect(world.CreateJoint(&vd)).To(gomega.BeNil())

	pd := playrho.DefaultPrismaticJointDef()
	pd.BodyA = bodyA
	pd.BodyB = bodyB
	pd.LocalAxisA = vec.Vec2{}
	g.Expect(world.CreateJoint(&pd)).To(gomega.BeNil())
}

func TestJointLinkedIntoGraph(t *testing.T) {
	g := gomega.NewWithT(t)

	world := playrho.NewWorld(vec.Vec2{})
	bodyA := makeDynamicCircle(world, vec.Vec2{X: -1.0}, 0.2)
	bodyB := makeDynamicCircle(world, vec.Vec2{X: 1.0}, 0.2)

	jd := playrho.DefaultDistanceJointDef()
	jd.Initialize(bodyA, bodyB, bodyA.GetPosition(), bodyB.GetPosition())
	joint := world.CreateJoint(&jd)

	g.Expect(joint).NotTo(gomega.BeNil())
	g.Expect(world.GetJointCount()).To(gomega.Equal(1))
	g.Expect(world.GetJointList()).To(gomega.Equal(joint))

	g.Expect(bodyA.GetJointList()).NotTo(gomega.BeNil())
	g.Expect(bodyA.GetJointList().Other).To(gomega.Equal(bodyB))
	g.Expect(bodyB.GetJointList()).NotTo(gomega.BeNil())
	g.Expect(bodyB.GetJointList().Other).To(gomega.Equal(bodyA))

	world.DestroyJoint(joint)

	g.Expect(world.GetJointCount()).To(gomega.BeZero())
	g.Expect(world.GetJointList()).To(gomega.BeNil())
	g.Expect(bodyA.GetJointList()).To(gomega.BeNil())
	g.Expect(bodyB.GetJointList()).To(gomega.BeNil())
}

func TestRopeJointPullsBodiesTogether(t *testing.T) {
	g := gomega.NewWithT(t)

	world := playrho.NewWorld(vec.Vec2{})
	bodyA := makeDynamicCircle(world, vec.Vec2{X: -1.0}, 0.2)
	bodyB := makeDynamicCircle(world, vec.Vec2{X: 1.0}, 0.2)

	jd := playrho.DefaultRopeJointDef()
	jd.BodyA = bodyA
	jd.BodyB = bodyB
	jd.LocalAnchorA = vec.Vec2{}
	jd.LocalAnchorB = vec.Vec2{}
	jd.MaxLength = 1.0
	joint := world.CreateJoint(&jd)
	g.Expect(joint).NotTo(gomega.BeNil())

	conf := playrho.DefaultStepConf()
	stepTimes(world, conf, 60)

	// The rope is taut, so the bodies are pulled towards each other.
	distance := bodyB.GetPosition().Sub(bodyA.GetPosition()).Mag()
	g.Expect(distance).To(gomega.BeNumerically("<", 2.0))
	g.Expect(distance).To(gomega.BeNumerically(">", 0.0))

	// A rope only pulls, never pushes.
	rope := joint.(*playrho.RopeJoint)
	g.Expect(rope.GetMaxLength()).To(gomega.Equal(1.0))
}

func TestRopeJointDefaultDefNeverPushes(t *testing.T) {
	g := gomega.NewWithT(t)

	world := playrho.NewWorld(vec.Vec2{})
	bodyA := makeDynamicCircle(world, vec.Vec2{X: -1.0}, 0.2)
	bodyB := makeDynamicCircle(world, vec.Vec2{X: 1.0}, 0.2)

	// Default anchors (-1,0)/(+1,0) and max length zero: the rope is
	// over-stretched from the first step and reels the bodies in.
	jd := playrho.DefaultRopeJointDef()
	jd.BodyA = bodyA
	jd.BodyB = bodyB
	joint := world.CreateJoint(&jd)
	g.Expect(joint).NotTo(gomega.BeNil())

	conf := playrho.DefaultStepConf()
	stepTimes(world, conf, 60)

	g.Expect(bodyA.GetPosition().X).To(gomega.BeNumerically(">", -1.0))
	g.Expect(bodyB.GetPosition().X).To(gomega.BeNumerically("<", 1.0))

	// All impulses act along the x axis, so the off-axis state is
	// untouched, not merely small.
	g.Expect(bodyA.GetPosition().Y).To(gomega.BeZero())
	g.Expect(bodyB.GetPosition().Y).To(gomega.BeZero())
	g.Expect(bodyA.GetAngle()).To(gomega.BeZero())
	g.Expect(bodyB.GetAngle()).To(gomega.BeZero())
}

func TestJointDefRoundTrip(t *testing.T) {
	g := gomega.NewWithT(t)

	world := playrho.NewWorld(vec.Vec2{})
	bodyA := makeDynamicCircle(world, vec.Vec2{X: -1.0}, 0.2)
	bodyB := makeDynamicCircle(world, vec.Vec2{X: 1.0}, 0.2)

	jd := playrho.DefaultRopeJointDef()
	jd.BodyA = bodyA
	jd.BodyB = bodyB
	jd.CollideConnected = true
	jd.LocalAnchorA = vec.Vec2{X: 0.25, Y: -0.5}
	jd.LocalAnchorB = vec.Vec2{X: -0.25, Y: 0.5}
	jd.MaxLength = 3.0

	joint := world.CreateJoint(&jd).(*playrho.RopeJoint)
	g.Expect(joint.Def()).To(gomega.Equal(jd))
}

func TestDistanceJointHoldsLength(t *testing.T) {
	g := gomega.NewWithT(t)

	world := playrho.NewWorld(vec.Vec2{})
	bodyA := makeDynamicCircle(world, vec.Vec2{X: -1.0}, 0.2)
	bodyB := makeDynamicCircle(world, vec.Vec2{X: 1.0}, 0.2)

	jd := playrho.DefaultDistanceJointDef()
	jd.BodyA = bodyA
	jd.BodyB = bodyB
	jd.Length = 1.0
	joint := world.CreateJoint(&jd).(*playrho.DistanceJoint)
	g.Expect(joint.GetLength()).To(gomega.Equal(1.0))

	conf := playrho.DefaultStepConf()
	stepTimes(world, conf, 120)

	distance := joint.GetAnchorB().Sub(joint.GetAnchorA()).Mag()
	g.Expect(distance).To(gomega.BeNumerically("~", 1.0, 0.05))
}

func TestRevoluteJointPendulum(t *testing.T) {
	g := gomega.NewWithT(t)

	world := playrho.NewWorld(vec.Vec2{Y: -10.0})

	gd := playrho.DefaultBodyDef()
	ground := world.CreateBody(&gd)

	bob := makeDynamicCircle(world, vec.Vec2{X: 1.0}, 0.1)
	bob.SetSleepingAllowed(false)

	jd := playrho.DefaultRevoluteJointDef()
	jd.Initialize(ground, bob, vec.Vec2{})
	joint := world.CreateJoint(&jd).(*playrho.RevoluteJoint)
	g.Expect(joint).NotTo(gomega.BeNil())

	conf := playrho.DefaultStepConf()
	stepTimes(world, conf, 90)

	// The bob swings down but stays on the circle around the anchor.
	g.Expect(bob.GetPosition().X).To(gomega.BeNumerically("<", 1.0))
	g.Expect(bob.GetPosition().Y).To(gomega.BeNumerically("<", 0.05))
	radius := bob.GetPosition().Mag()
	g.Expect(radius).To(gomega.BeNumerically("~", 1.0, 0.05))
}

func TestRevoluteJointAccessors(t *testing.T) {
	g := gomega.NewWithT(t)

	world := playrho.NewWorld(vec.Vec2{})
	bodyA := makeDynamicCircle(world, vec.Vec2{}, 0.2)
	bodyB := makeDynamicCircle(world, vec.Vec2{X: 1.0}, 0.2)

	jd := playrho.DefaultRevoluteJointDef()
	jd.Initialize(bodyA, bodyB, vec.Vec2{X: 0.5})
	joint := world.CreateJoint(&jd).(*playrho.RevoluteJoint)

	g.Expect(joint.IsLimitEnabled()).To(gomega.BeFalse())
	joint.EnableLimit(true)
	joint.SetLimits(-0.25*math.Pi, 0.25*math.Pi)
	g.Expect(joint.IsLimitEnabled()).To(gomega.BeTrue())
	g.Expect(joint.GetLowerLimit()).To(gomega.Equal(-0.25 * math.Pi))
	g.Expect(joint.GetUpperLimit()).To(gomega.Equal(0.25 * math.Pi))

	g.Expect(joint.IsMotorEnabled()).To(gomega.BeFalse())
	joint.EnableMotor(true)
	joint.SetMotorSpeed(2.0)
	joint.SetMaxMotorTorque(10.0)
	g.Expect(joint.IsMotorEnabled()).To(gomega.BeTrue())
	g.Expect(joint.GetMotorSpeed()).To(gomega.Equal(2.0))
	g.Expect(joint.GetMaxMotorTorque()).To(gomega.Equal(10.0))

	g.Expect(joint.GetJointAngle()).To(gomega.BeZero())
}

func TestPrismaticJointConstrainsToAxis(t *testing.T) {
	g := gomega.NewWithT(t)

	world := playrho.NewWorld(vec.Vec2{Y: -10.0})

	gd := playrho.DefaultBodyDef()
	ground := world.CreateBody(&gd)

	slider := makeDynamicCircle(world, vec.Vec2{X: 1.0, Y: 0.0}, 0.2)
	slider.SetSleepingAllowed(false)

	// Horizontal axis: gravity cannot move the body off the axis.
	jd := playrho.DefaultPrismaticJointDef()
	jd.Initialize(ground, slider, slider.GetPosition(), vec.Vec2{X: 1.0})
	joint := world.CreateJoint(&jd).(*playrho.PrismaticJoint)
	g.Expect(joint).NotTo(gomega.BeNil())

	conf := playrho.DefaultStepConf()
	stepTimes(world, conf, 60)

	g.Expect(math.Abs(slider.GetPosition().Y)).To(gomega.BeNumerically("<", 0.01))
	g.Expect(slider.GetAngle()).To(gomega.BeNumerically("~", 0.0, 0.01))
}

func TestJointCollideConnected(t *testing.T) {
	g := gomega.NewWithT(t)

	world := playrho.NewWorld(vec.Vec2{})
	bodyA := makeDynamicCircle(world, vec.Vec2{X: -0.1}, 0.2)
	bodyB := makeDynamicCircle(world, vec.Vec2{X: 0.1}, 0.2)

	// The overlapping circles touch after one step.
	conf := playrho.DefaultStepConf()
	world.Step(conf)
	g.Expect(world.GetContactCount()).To(gomega.Equal(1))
	g.Expect(world.GetContactList().IsTouching()).To(gomega.BeTrue())

	// A joint with collideConnected false removes the contact.
	jd := playrho.DefaultDistanceJointDef()
	jd.BodyA = bodyA
	jd.BodyB = bodyB
	jd.Length = 0.2
	world.CreateJoint(&jd)
	world.Step(conf)
	g.Expect(world.GetContactCount()).To(gomega.BeZero())
}
