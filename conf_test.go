package playrho_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/onsi/gomega"
	"github.com/setanarut/vec"

	playrho "github.com/LoneBoco/PlayRho"
)

func writeTempConf(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "conf.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadStepConf(t *testing.T) {
	g := gomega.NewWithT(t)

	path := writeTempConf(t, "dt: 0.0125\nvelocity_iterations: 12\n")
	conf, err := playrho.LoadStepConf(path)

	g.Expect(err).NotTo(gomega.HaveOccurred())
	g.Expect(conf.Dt).To(gomega.Equal(0.0125))
	g.Expect(conf.VelocityIterations).To(gomega.Equal(12))

	// Absent fields keep their defaults.
	defaults := playrho.DefaultStepConf()
	g.Expect(conf.PositionIterations).To(gomega.Equal(defaults.PositionIterations))
	g.Expect(conf.WarmStarting).To(gomega.Equal(defaults.WarmStarting))
}

func TestLoadStepConfRejectsInvalid(t *testing.T) {
	g := gomega.NewWithT(t)

	path := writeTempConf(t, "dt: -1.0\n")
	_, err := playrho.LoadStepConf(path)
	g.Expect(err).To(gomega.HaveOccurred())

	path = writeTempConf(t, "dt: [nonsense\n")
	_, err = playrho.LoadStepConf(path)
	g.Expect(err).To(gomega.HaveOccurred())

	_, err = playrho.LoadStepConf(filepath.Join(t.TempDir(), "missing.yaml"))
	g.Expect(err).To(gomega.HaveOccurred())
}

func TestLoadSolverConf(t *testing.T) {
	g := gomega.NewWithT(t)

	path := writeTempConf(t, "baumgarte: 0.3\ntime_to_sleep: 1.0\n")
	conf, err := playrho.LoadSolverConf(path)

	g.Expect(err).NotTo(gomega.HaveOccurred())
	g.Expect(conf.Baumgarte).To(gomega.Equal(0.3))
	g.Expect(conf.TimeToSleep).To(gomega.Equal(1.0))

	defaults := playrho.DefaultSolverConf()
	g.Expect(conf.LinearSlop).To(gomega.Equal(defaults.LinearSlop))
	g.Expect(conf.VelocityThreshold).To(gomega.Equal(defaults.VelocityThreshold))
}

func TestSolverConfValidate(t *testing.T) {
	g := gomega.NewWithT(t)

	conf := playrho.DefaultSolverConf()
	g.Expect(conf.Validate()).To(gomega.Succeed())

	conf.MaxLinearCorrection = -0.1
	g.Expect(conf.Validate()).NotTo(gomega.Succeed())
}

func TestWorldSetSolverConfIgnoresInvalid(t *testing.T) {
	g := gomega.NewWithT(t)

	world := playrho.NewWorld(vec.Vec2{})

	conf := playrho.DefaultSolverConf()
	conf.TimeToSleep = 2.0
	world.SetSolverConf(conf)
	g.Expect(world.GetSolverConf().TimeToSleep).To(gomega.Equal(2.0))

	conf.Baumgarte = -1.0
	world.SetSolverConf(conf)
	g.Expect(world.GetSolverConf().TimeToSleep).To(gomega.Equal(2.0))
	g.Expect(world.GetSolverConf().Baumgarte).To(gomega.Equal(playrho.DefaultSolverConf().Baumgarte))
}
