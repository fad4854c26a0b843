package config

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Scenario != ScenarioFree {
		t.Errorf("expected scenario free, got %s", cfg.Scenario)
	}
	if cfg.Dt <= 0 {
		t.Error("dt should be positive")
	}
	if !cfg.Walls.Enabled {
		t.Error("walls should be on by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
	if got := cfg.Steps(); got != 600 {
		t.Errorf("expected 600 steps, got %d", got)
	}
}

func TestEveryPresetValidates(t *testing.T) {
	for scenario, byName := range Presets {
		for name, cfg := range byName {
			if cfg.Scenario != scenario {
				t.Errorf("%s/%s: scenario field is %s", scenario, name, cfg.Scenario)
			}
			if err := cfg.Validate(); err != nil {
				t.Errorf("%s/%s: %v", scenario, name, err)
			}
		}
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset(ScenarioFree, "three_balls")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if len(cfg.Bodies) != 3 {
		t.Fatalf("expected 3 bodies, got %d", len(cfg.Bodies))
	}

	cfg.Bodies[0].Mass = 99
	again := GetPreset(ScenarioFree, "three_balls")
	if again.Bodies[0].Mass == 99 {
		t.Error("GetPreset returned shared state")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if GetPreset(ScenarioPendulum, "nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if GetPreset("nonexistent", "default") != nil {
		t.Error("expected nil for nonexistent scenario")
	}
}

func TestListPresets(t *testing.T) {
	got := ListPresets(ScenarioFree)
	want := []string{"default", "drop", "three_balls"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("presets mismatch (-want +got):\n%s", diff)
	}
	if ListPresets("nonexistent") != nil {
		t.Error("expected nil for nonexistent scenario")
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	orig := GetPreset(ScenarioFree, "drop")
	if err := Save(path, orig); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(orig, loaded); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	doc := "scenario: pendulum\npendulum:\n  bob: [400, 450]\n"
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Pendulum.Bob != [2]float64{400, 450} {
		t.Errorf("bob not loaded: %v", cfg.Pendulum.Bob)
	}
	if cfg.Pendulum.Mass != 1 || cfg.Dt != DefaultDt {
		t.Errorf("defaults lost: mass %g dt %g", cfg.Pendulum.Mass, cfg.Dt)
	}
	if len(cfg.Bodies) != 0 {
		t.Errorf("expected no free bodies, got %d", len(cfg.Bodies))
	}
	if err := cfg.Validate(); err != nil {
		t.Error(err)
	}
}

func TestValidateCollectsEveryProblem(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Scenario = "orbit"
	cfg.Dt = 0
	cfg.Bodies = []BodyConfig{
		{Type: TypeCircle, Mass: -1, Radius: 5},
		{Type: "blob", Mass: 1},
		{Type: TypeSegment, Vertices: [][2]float64{{0, 0}}},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	msg := err.Error()
	for _, want := range []string{"unknown scenario", "dt must be positive", "bodies[0]", "bodies[1]", "bodies[2]"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error %q does not mention %q", msg, want)
		}
	}
}

func TestBodyConfigValidate(t *testing.T) {
	tests := []struct {
		name string
		body BodyConfig
		ok   bool
	}{
		{"circle", BodyConfig{Type: TypeCircle, Mass: 1, Radius: 3}, true},
		{"static circle without mass", BodyConfig{Type: TypeCircle, Static: true, Radius: 3}, true},
		{"zero radius", BodyConfig{Type: TypeCircle, Mass: 1}, false},
		{"box", BodyConfig{Type: TypeBox, Mass: 1, Width: 2, Height: 2}, true},
		{"flat box", BodyConfig{Type: TypeBox, Mass: 1, Width: 2}, false},
		{"triangle", BodyConfig{Type: TypePolygon, Mass: 1, Vertices: [][2]float64{{0, 0}, {1, 0}, {0, 1}}}, true},
		{"segment", BodyConfig{Type: TypeSegment, Vertices: [][2]float64{{0, 0}, {1, 0}}}, true},
		{"bouncy", BodyConfig{Type: TypeCircle, Mass: 1, Radius: 1, Elasticity: 2}, false},
		{"nan", BodyConfig{Type: TypeCircle, Mass: 1, Radius: 1, X: math.NaN()}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.body.Validate()
			if (err == nil) != tt.ok {
				t.Errorf("expected ok=%v, got %v", tt.ok, err)
			}
		})
	}
}

func TestBlockOnSlope(t *testing.T) {
	from, to := [2]float64{0, 0}, [2]float64{100, 0}
	b := BlockOnSlope(from, to, 50, 20, 10, 5, 1)
	if b.X != 50 || b.Y != -10 || b.Angle != 0 {
		t.Errorf("expected (50,-10) at angle 0, got (%g,%g) at %g", b.X, b.Y, b.Angle)
	}
}
