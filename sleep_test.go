package playrho_test

import (
	"testing"

	"github.com/onsi/gomega"
	"github.com/setanarut/vec"

	playrho "github.com/LoneBoco/PlayRho"
)

func TestBodyFallsAsleepWhenUnderActive(t *testing.T) {
	g := gomega.NewWithT(t)

	world := playrho.NewWorld(vec.Vec2{})
	body := makeDynamicCircle(world, vec.Vec2{}, 0.5)

	conf := playrho.DefaultStepConf()
	solver := world.GetSolverConf()

	// The body is motionless, so its under-active time accumulates until it
	// crosses the sleep threshold.
	steps := int(solver.TimeToSleep/conf.Dt) + 2
	for i := 0; i < steps; i++ {
		world.Step(conf)
	}

	g.Expect(body.IsAwake()).To(gomega.BeFalse())
	g.Expect(body.GetUnderActiveTime()).To(gomega.BeZero())
	g.Expect(body.GetLinearVelocity()).To(gomega.Equal(vec.Vec2{}))
}

func TestMovingBodyStaysAwake(t *testing.T) {
	g := gomega.NewWithT(t)

	world := playrho.NewWorld(vec.Vec2{})
	body := makeDynamicCircle(world, vec.Vec2{}, 0.5)
	body.SetLinearVelocity(vec.Vec2{X: 1.0})

	conf := playrho.DefaultStepConf()
	for i := 0; i < 60; i++ {
		world.Step(conf)
	}

	g.Expect(body.IsAwake()).To(gomega.BeTrue())
	g.Expect(body.GetUnderActiveTime()).To(gomega.BeZero())
}

func TestSleepDisallowedKeepsBodyAwake(t *testing.T) {
	g := gomega.NewWithT(t)

	world := playrho.NewWorld(vec.Vec2{})
	body := makeDynamicCircle(world, vec.Vec2{}, 0.5)
	body.SetSleepingAllowed(false)

	conf := playrho.DefaultStepConf()
	for i := 0; i < 60; i++ {
		world.Step(conf)
	}

	g.Expect(body.IsAwake()).To(gomega.BeTrue())
}

func TestIslandSleepsAndWakesAsOne(t *testing.T) {
	g := gomega.NewWithT(t)

	world := playrho.NewWorld(vec.Vec2{})

	// Two bodies joined into one island.
	bodyA := makeDynamicCircle(world, vec.Vec2{X: -1.0}, 0.2)
	bodyB := makeDynamicCircle(world, vec.Vec2{X: 1.0}, 0.2)

	jd := playrho.DefaultDistanceJointDef()
	jd.Initialize(bodyA, bodyB, bodyA.GetPosition(), bodyB.GetPosition())
	world.CreateJoint(&jd)

	conf := playrho.DefaultStepConf()
	for i := 0; i < 60; i++ {
		world.Step(conf)
	}

	g.Expect(bodyA.IsAwake()).To(gomega.BeFalse())
	g.Expect(bodyB.IsAwake()).To(gomega.BeFalse())

	// An impulse on one body wakes it; the island solver drags the other
	// body back in on the next step.
	bodyA.ApplyLinearImpulseToCenter(vec.Vec2{X: 0.1})
	g.Expect(bodyA.IsAwake()).To(gomega.BeTrue())

	world.Step(conf)
	g.Expect(bodyB.IsAwake()).To(gomega.BeTrue())
}

func TestImpenetrableBodyNeverSleeps(t *testing.T) {
	g := gomega.NewWithT(t)

	world := playrho.NewWorld(vec.Vec2{})
	body := makeDynamicCircle(world, vec.Vec2{}, 0.5)
	body.SetBullet(true)

	conf := playrho.DefaultStepConf()
	for i := 0; i < 120; i++ {
		world.Step(conf)
	}

	g.Expect(body.IsAwake()).To(gomega.BeTrue())
}
