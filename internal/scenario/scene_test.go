package scenario

import (
	"math"
	"testing"

	"github.com/san-kum/mechsim/internal/config"
	"github.com/san-kum/mechsim/internal/control"
	"github.com/san-kum/mechsim/internal/screen"
)

func mustScene(t *testing.T, cfg *config.Config) *Scene {
	t.Helper()
	s, err := New(cfg)
	if err != nil {
		t.Fatalf("build %s: %v", cfg.Scenario, err)
	}
	return s
}

func TestParseKind(t *testing.T) {
	for _, name := range config.Scenarios {
		k, err := ParseKind(name)
		if err != nil {
			t.Errorf("%s: %v", name, err)
		}
		if k.String() != name {
			t.Errorf("expected %s, got %s", name, k)
		}
	}
	if _, err := ParseKind("orbit"); err == nil {
		t.Error("expected error for unknown scenario")
	}
}

func TestEveryPresetBuildsAndSteps(t *testing.T) {
	for _, scenario := range config.Scenarios {
		for _, name := range config.ListPresets(scenario) {
			t.Run(scenario+"/"+name, func(t *testing.T) {
				s := mustScene(t, config.GetPreset(scenario, name))
				var in control.InputState
				for i := 0; i < 120; i++ {
					s.Update(in, s.Dt())
				}
				for _, b := range s.Frame().Bodies {
					if math.IsNaN(b.Position.X) || math.IsNaN(b.Position.Y) {
						t.Fatalf("body %d diverged", b.ID)
					}
				}
				if s.World().StepCount() != 120 {
					t.Errorf("expected 120 steps, got %d", s.World().StepCount())
				}
			})
		}
	}
}

func TestWalls(t *testing.T) {
	s := mustScene(t, config.DefaultConfig())
	if len(s.Walls()) != 4 {
		t.Fatalf("expected 4 walls, got %d", len(s.Walls()))
	}

	cfg := config.DefaultConfig()
	cfg.Walls.Enabled = false
	if n := len(mustScene(t, cfg).Walls()); n != 0 {
		t.Errorf("expected no walls, got %d", n)
	}
}

func TestFreeBallStaysInside(t *testing.T) {
	s := mustScene(t, config.DefaultConfig())
	var in control.InputState
	for i := 0; i < 600; i++ {
		s.Update(in, s.Dt())
	}
	p := s.Frame().Bodies[0].Position
	if !p.InBounds(800, 600) {
		t.Errorf("ball escaped to %v", p)
	}
}

func TestScreenConventionOnInput(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Gravity = 0
	cfg.Walls.Enabled = false
	cfg.Bodies = []config.BodyConfig{{Type: config.TypeCircle, X: 100, Y: 100, VY: 60, Mass: 1, Radius: 5}}
	s := mustScene(t, cfg)

	var in control.InputState
	for i := 0; i < 60; i++ {
		s.Update(in, 1.0/60)
	}
	b := s.Frame().Bodies[0]
	if math.Abs(b.Position.Y-160) > 1e-9 {
		t.Errorf("positive screen vy should move down the screen, got y=%g", b.Position.Y)
	}
	if b.Velocity.Y != 60 {
		t.Errorf("expected screen vy 60, got %g", b.Velocity.Y)
	}
}

func TestPerBodyAcceleration(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Gravity = 0
	cfg.Walls.Enabled = false
	cfg.Bodies = []config.BodyConfig{{Type: config.TypeCircle, X: 100, Y: 100, AX: 30, Mass: 2, Radius: 5}}
	s := mustScene(t, cfg)
	s.Update(control.InputState{}, 0.1)

	b := s.Frame().Bodies[0]
	if math.Abs(b.Velocity.X-3) > 1e-12 || b.Velocity.Y != 0 {
		t.Errorf("expected velocity (3,0), got %v", b.Velocity)
	}
	if math.Abs(b.Acceleration.X-30) > 1e-12 {
		t.Errorf("expected acceleration 30, got %v", b.Acceleration)
	}
}

func TestPauseAndReset(t *testing.T) {
	s := mustScene(t, config.GetPreset(config.ScenarioFree, "three_balls"))
	start := s.Frame()

	paused := control.InputState{Paused: true}
	s.Update(paused, s.Dt())
	if s.World().StepCount() != 0 {
		t.Error("paused scene advanced")
	}

	for i := 0; i < 30; i++ {
		s.Update(control.InputState{}, s.Dt())
	}
	if s.Frame().Bodies[0].Position == start.Bodies[0].Position {
		t.Error("scene did not move")
	}

	if err := s.Reset(); err != nil {
		t.Fatal(err)
	}
	if s.World().StepCount() != 0 || s.Frame().Bodies[0].Position != start.Bodies[0].Position {
		t.Error("reset did not restore the initial state")
	}
}

func TestCentripetalToggle(t *testing.T) {
	s := mustScene(t, config.ForScenario(config.ScenarioCentripetal))
	if s.Tracker() == nil {
		t.Fatal("centripetal scene without tracker")
	}
	center, ok := s.Center()
	if !ok || center != (screenPoint(400, 300)) {
		t.Errorf("unexpected centre %v", center)
	}

	var in control.InputState
	for i := 0; i < 100; i++ {
		s.Update(in, s.Dt())
		r := s.Frame().Bodies[0].Position.Dist(center)
		if math.Abs(r-200) > 10 {
			t.Fatalf("step %d: radius %g", i, r)
		}
	}

	in.HandleKey("c")
	s.Update(in, s.Dt())
	v := s.Focus().Velocity()
	for i := 0; i < 30; i++ {
		s.Update(in, s.Dt())
	}
	if s.Focus().Velocity() != v {
		t.Error("velocity changed with the tracker off")
	}
	if s.Tracker().Enabled() {
		t.Error("tracker still enabled")
	}
}

func TestPendulumAngle(t *testing.T) {
	s := mustScene(t, config.ForScenario(config.ScenarioPendulum))
	if got := s.PendulumAngle(); math.Abs(got-math.Pi/2) > 1e-9 {
		t.Errorf("expected pi/2, got %g", got)
	}
	if len(s.Pins()) != 1 {
		t.Fatalf("expected one pin, got %d", len(s.Pins()))
	}

	var in control.InputState
	for i := 0; i < 600; i++ {
		s.Update(in, s.Dt())
		if sep := s.Pins()[0].Separation(); sep > 2.5 {
			t.Fatalf("step %d: pin separation %g", i, sep)
		}
	}
}

func TestSlopeBlocksSkipUniformGravity(t *testing.T) {
	s := mustScene(t, config.ForScenario(config.ScenarioSlope))
	s.Update(control.InputState{}, s.Dt())

	block := s.Focus()
	got := block.Acceleration()
	want := s.projector.TangentialAcceleration()
	if math.Abs(got[0]-want[0]) > 1e-9 || math.Abs(got[1]-want[1]) > 1e-9 {
		t.Errorf("expected only the tangential pull %v, got %v", want, got)
	}
}

func TestCarDrivesRight(t *testing.T) {
	s := mustScene(t, config.ForScenario(config.ScenarioCar))
	if len(s.Motors()) != 2 || len(s.Pins()) != 2 {
		t.Fatalf("expected 2 motors and 2 pins, got %d and %d", len(s.Motors()), len(s.Pins()))
	}
	x0 := s.Frame().Bodies[0].Position.X

	var in control.InputState
	for i := 0; i < 180; i++ {
		s.Update(in, s.Dt())
	}
	chassis, _ := s.Frame().Body(s.Focus().ID())
	if chassis.Position.X-x0 < 60 {
		t.Errorf("car moved only %g px", chassis.Position.X-x0)
	}
	for _, p := range s.Pins() {
		if p.Separation() > 10 {
			t.Errorf("wheel drifted %g px from its pin", p.Separation())
		}
	}
}

func TestArrows(t *testing.T) {
	s := mustScene(t, config.ForScenario(config.ScenarioCentripetal))
	s.Update(control.InputState{}, s.Dt())
	f := s.Frame()

	if got := s.Arrows(f, control.InputState{}); len(got) != 1 || got[0].Kind != "centripetal" {
		t.Errorf("expected only the centripetal arrow, got %+v", got)
	}

	in := control.InputState{ShowVelocity: true, ShowAcceleration: true}
	kinds := map[string]int{}
	for _, a := range s.Arrows(f, in) {
		kinds[a.Kind]++
	}
	if kinds["velocity"] != 1 || kinds["acceleration"] != 1 || kinds["centripetal"] != 1 {
		t.Errorf("unexpected arrows %v", kinds)
	}

	in.HandleKey("c")
	for _, a := range s.Arrows(f, in) {
		if a.Kind == "centripetal" && !s.Tracker().Enabled() {
			t.Error("centripetal arrow drawn while disabled")
		}
	}
}

func TestInvalidConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Bodies[0].Radius = -1
	if _, err := New(cfg); err == nil {
		t.Error("expected error")
	}
	if _, err := New(nil); err == nil {
		t.Error("expected error for nil config")
	}
}

func TestFailedResetKeepsScene(t *testing.T) {
	s := mustScene(t, config.GetPreset(config.ScenarioFree, "three_balls"))
	world, focus := s.World(), s.Focus()
	s.Update(control.InputState{}, s.Dt())

	s.cfg.Bodies[1].Radius = -1
	if err := s.Reset(); err == nil {
		t.Fatal("expected reset to fail")
	}
	if s.World() != world || s.Focus() != focus {
		t.Error("failed reset replaced the world")
	}
	if got := len(s.World().Bodies()); got != 3 {
		t.Errorf("bodies = %d, want 3", got)
	}
	if s.World().StepCount() != 1 {
		t.Errorf("step count = %d, want 1", s.World().StepCount())
	}
}

// A polygon's vertices are offsets from (x, y) even though the body sits on
// the polygon's centroid.
func TestPolygonVerticesStayWhereConfigured(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Gravity = 0
	cfg.Bodies = []config.BodyConfig{{
		Type: config.TypePolygon, X: 300, Y: 200, Mass: 1,
		Vertices: [][2]float64{{0, 0}, {30, 0}, {0, 30}},
	}}
	s := mustScene(t, cfg)

	shapes := s.World().Shapes()
	var verts []screen.Point
	for _, sh := range shapes {
		if sh.Body() == s.Focus() {
			for _, v := range sh.WorldVertices() {
				verts = append(verts, s.Space().ToScreen(v))
			}
		}
	}
	want := []screen.Point{{X: 300, Y: 200}, {X: 330, Y: 200}, {X: 300, Y: 230}}
	if len(verts) != len(want) {
		t.Fatalf("vertices = %v", verts)
	}
	for _, w := range want {
		found := false
		for _, v := range verts {
			if v.Dist(w) < 1e-9 {
				found = true
			}
		}
		if !found {
			t.Errorf("vertex %v missing from %v", w, verts)
		}
	}

	centre := s.Space().ToScreen(s.Focus().Position())
	if centre.Dist(screenPoint(310, 210)) > 1e-9 {
		t.Errorf("body at %v, want the centroid (310, 210)", centre)
	}
}

func screenPoint(x, y float64) screen.Point { return screen.Point{X: x, Y: y} }
