package playrho_test

import (
	"fmt"
	"testing"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/setanarut/vec"

	playrho "github.com/LoneBoco/PlayRho"
)

// buildStack creates a small scene: a ground box, a column of boxes and a
// circle resting on top, plus a pendulum, covering contacts and joints in
// one trace.
func buildStack() (*playrho.World, []*playrho.Body) {
	world := playrho.NewWorld(vec.Vec2{Y: -10.0})
	tracked := make([]*playrho.Body, 0, 5)

	gd := playrho.DefaultBodyDef()
	gd.Position = vec.Vec2{Y: -1.0}
	ground := world.CreateBody(&gd)
	groundBox := playrho.NewPolygonShape()
	groundBox.SetAsBox(20.0, 1.0)
	ground.CreateFixture(groundBox, 0.0)

	for i := 0; i < 3; i++ {
		bd := playrho.DefaultBodyDef()
		bd.Type = playrho.DynamicBody
		bd.Position = vec.Vec2{X: 0.0, Y: 0.5 + 1.1*float64(i)}
		body := world.CreateBody(&bd)
		box := playrho.NewPolygonShape()
		box.SetAsBox(0.5, 0.5)
		body.CreateFixture(box, 1.0)
		tracked = append(tracked, body)
	}

	cd := playrho.DefaultBodyDef()
	cd.Type = playrho.DynamicBody
	cd.Position = vec.Vec2{X: 0.0, Y: 4.0}
	circle := world.CreateBody(&cd)
	circle.CreateFixture(playrho.NewCircleShape(0.5), 1.0)
	tracked = append(tracked, circle)

	pd := playrho.DefaultBodyDef()
	pd.Type = playrho.DynamicBody
	pd.Position = vec.Vec2{X: 6.0, Y: 4.0}
	bob := world.CreateBody(&pd)
	bob.CreateFixture(playrho.NewCircleShape(0.2), 1.0)
	tracked = append(tracked, bob)

	jd := playrho.DefaultRevoluteJointDef()
	jd.Initialize(ground, bob, vec.Vec2{X: 5.0, Y: 4.0})
	world.CreateJoint(&jd)

	return world, tracked
}

func traceStack(steps int) string {
	world, tracked := buildStack()
	conf := playrho.DefaultStepConf()

	output := ""
	for i := 0; i < steps; i++ {
		world.Step(conf)
		for j, body := range tracked {
			position := body.GetPosition()
			angle := body.GetAngle()
			output += fmt.Sprintf("%v(%d): %.17g %.17g %.17g\n", i, j, position.X, position.Y, angle)
		}
	}
	return output
}

// TestWorldDeterminism runs the same scene twice and requires bit-identical
// traces. The step pipeline has no iteration-order or time dependent inputs,
// so any divergence is a bug.
func TestWorldDeterminism(t *testing.T) {
	first := traceStack(180)
	second := traceStack(180)

	if first != second {
		diff := difflib.UnifiedDiff{
			A:        difflib.SplitLines(first),
			B:        difflib.SplitLines(second),
			FromFile: "FirstRun",
			ToFile:   "SecondRun",
			Context:  0,
		}
		text, _ := difflib.GetUnifiedDiffString(diff)
		t.Fatalf("traces diverged:\n%s", text)
	}
}

// TestStackSettles checks the end state of the trace scene: the column
// settles onto the ground and comes to rest.
func TestStackSettles(t *testing.T) {
	world, tracked := buildStack()
	conf := playrho.DefaultStepConf()

	for i := 0; i < 600; i++ {
		world.Step(conf)
	}

	// Bottom box of the column rests on the ground.
	bottom := tracked[0]
	if got := bottom.GetPosition().Y; got < 0.4 || got > 0.6 {
		t.Fatalf("bottom box should rest near y=0.5, got %v", got)
	}
	if !bottomIsStill(bottom) {
		t.Fatalf("bottom box should be at rest, velocity %v", bottom.GetVelocity())
	}
}

func bottomIsStill(body *playrho.Body) bool {
	v := body.GetVelocity()
	return v.Linear.Mag() < 0.1 && v.Angular < 0.1
}
