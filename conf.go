package playrho

import (
	"fmt"
	"math"
	"os"

	"github.com/setanarut/vec"
	"gopkg.in/yaml.v3"
)

// StepConf describes one simulation step: the time delta and the iteration
// counts for the velocity and position phases.
type StepConf struct {
	Dt                 float64 `yaml:"dt"`
	VelocityIterations int     `yaml:"velocity_iterations"`
	PositionIterations int     `yaml:"position_iterations"`
	WarmStarting       bool    `yaml:"warm_starting"`
}

// DefaultStepConf returns a fresh step configuration at 60 Hz. Each call
// builds a new value so callers can tweak it without affecting others.
func DefaultStepConf() StepConf {
	return StepConf{
		Dt:                 1.0 / 60.0,
		VelocityIterations: 8,
		PositionIterations: 3,
		WarmStarting:       true,
	}
}

func (conf StepConf) Validate() error {
	if !IsValid(conf.Dt) || conf.Dt < 0.0 {
		return fmt.Errorf("step conf: dt must be finite and non-negative, got %v", conf.Dt)
	}
	if conf.VelocityIterations < 0 {
		return fmt.Errorf("step conf: velocity_iterations must be non-negative, got %d", conf.VelocityIterations)
	}
	if conf.PositionIterations < 0 {
		return fmt.Errorf("step conf: position_iterations must be non-negative, got %d", conf.PositionIterations)
	}
	return nil
}

// SolverConf carries the constraint solver tolerances and the sleep
// thresholds. Defaults match the usual MKS tuning.
type SolverConf struct {
	// LinearSlop is the collision and constraint tolerance in meters.
	LinearSlop float64 `yaml:"linear_slop"`

	// MaxLinearCorrection limits position correction per iteration to
	// prevent overshoot.
	MaxLinearCorrection float64 `yaml:"max_linear_correction"`

	// MaxAngularCorrection limits angular correction per iteration.
	MaxAngularCorrection float64 `yaml:"max_angular_correction"`

	// Baumgarte controls how fast positional overlap is resolved. Values
	// close to 1 often lead to overshoot.
	Baumgarte float64 `yaml:"baumgarte"`

	// VelocityThreshold is the relative normal speed below which a
	// collision is treated as inelastic.
	VelocityThreshold float64 `yaml:"velocity_threshold"`

	// TimeToSleep is how long a body must be under-active before it may
	// fall asleep, in seconds.
	TimeToSleep float64 `yaml:"time_to_sleep"`

	// LinearSleepTolerance is the linear speed above which a body counts
	// as active.
	LinearSleepTolerance float64 `yaml:"linear_sleep_tolerance"`

	// AngularSleepTolerance is the angular speed above which a body counts
	// as active.
	AngularSleepTolerance float64 `yaml:"angular_sleep_tolerance"`
}

// DefaultSolverConf returns a fresh solver configuration.
func DefaultSolverConf() SolverConf {
	return SolverConf{
		LinearSlop:            linearSlop,
		MaxLinearCorrection:   0.2,
		MaxAngularCorrection:  8.0 / 180.0 * math.Pi,
		Baumgarte:             0.2,
		VelocityThreshold:     1.0,
		TimeToSleep:           0.5,
		LinearSleepTolerance:  0.01,
		AngularSleepTolerance: 2.0 / 180.0 * math.Pi,
	}
}

func (conf SolverConf) Validate() error {
	checks := []struct {
		name  string
		value float64
	}{
		{"linear_slop", conf.LinearSlop},
		{"max_linear_correction", conf.MaxLinearCorrection},
		{"max_angular_correction", conf.MaxAngularCorrection},
		{"baumgarte", conf.Baumgarte},
		{"velocity_threshold", conf.VelocityThreshold},
		{"time_to_sleep", conf.TimeToSleep},
		{"linear_sleep_tolerance", conf.LinearSleepTolerance},
		{"angular_sleep_tolerance", conf.AngularSleepTolerance},
	}
	for _, c := range checks {
		if !IsValid(c.value) || c.value < 0.0 {
			return fmt.Errorf("solver conf: %s must be finite and non-negative, got %v", c.name, c.value)
		}
	}
	return nil
}

// LoadStepConf reads a step configuration from a YAML file. Fields absent
// from the file keep their defaults.
func LoadStepConf(path string) (StepConf, error) {
	conf := DefaultStepConf()
	data, err := os.ReadFile(path)
	if err != nil {
		return conf, fmt.Errorf("reading step conf: %w", err)
	}
	if err := yaml.Unmarshal(data, &conf); err != nil {
		return conf, fmt.Errorf("parsing step conf: %w", err)
	}
	if err := conf.Validate(); err != nil {
		return conf, err
	}
	return conf, nil
}

// LoadSolverConf reads a solver configuration from a YAML file. Fields
// absent from the file keep their defaults.
func LoadSolverConf(path string) (SolverConf, error) {
	conf := DefaultSolverConf()
	data, err := os.ReadFile(path)
	if err != nil {
		return conf, fmt.Errorf("reading solver conf: %w", err)
	}
	if err := yaml.Unmarshal(data, &conf); err != nil {
		return conf, fmt.Errorf("parsing solver conf: %w", err)
	}
	if err := conf.Validate(); err != nil {
		return conf, err
	}
	return conf, nil
}

// timeStep is the per-step view handed to the solver internals.
type timeStep struct {
	Dt                 float64 // time step
	InvDt              float64 // inverse time step (0 if dt == 0)
	DtRatio            float64 // dt * inv_dt0
	VelocityIterations int
	PositionIterations int
	WarmStarting       bool
}

// position holds solver position state for a body.
type position struct {
	C vec.Vec2
	A float64
}

// velocity holds solver velocity state for a body.
type velocity struct {
	V vec.Vec2
	W float64
}

// solverData bundles the step context given to constraints.
type solverData struct {
	Step       timeStep
	Positions  []position
	Velocities []velocity
	Conf       SolverConf
}

// StepStats reports per-step solver diagnostics.
type StepStats struct {
	IslandCount     int
	BodiesSlept     int
	ContactsAdded   int
	ContactsUpdated int
	Proxies         int
}
