package storage

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/san-kum/mechsim/internal/config"
	"github.com/san-kum/mechsim/internal/screen"
	"github.com/san-kum/mechsim/internal/sim"
)

func sampleFrames() []screen.Frame {
	return []screen.Frame{
		{Step: 0, Time: 0, Bodies: []screen.BodyView{
			{ID: 1, Label: "ball", Position: screen.Point{X: 100, Y: 50}, Velocity: screen.Point{X: 2.5}},
			{ID: 2, Position: screen.Point{X: 300, Y: 400}, Angle: 0.25},
		}},
		{Step: 10, Time: 0.5, Bodies: []screen.BodyView{
			{ID: 1, Label: "ball", Position: screen.Point{X: 101.25, Y: 60}, Velocity: screen.Point{X: 2.5, Y: 40},
				Force: screen.Point{Y: 981}, Acceleration: screen.Point{Y: 981}},
			{ID: 2, Position: screen.Point{X: 300, Y: 400}, Angle: 0.5},
		}},
	}
}

func TestSaveAndLoad(t *testing.T) {
	store := New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}

	cfg := config.GetPreset(config.ScenarioFree, "three_balls")
	result := &sim.Result{
		Frames:     sampleFrames(),
		Metrics:    map[string]float64{"kinetic_energy": 12.5},
		StepsTaken: 10,
	}

	runID, err := store.Save(cfg, result)
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	meta, err := store.Load(runID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if meta.Scenario != config.ScenarioFree || meta.Steps != 10 || meta.Frames != 2 {
		t.Errorf("unexpected metadata %+v", meta)
	}
	if diff := cmp.Diff([]BodyInfo{{ID: 1, Label: "ball"}, {ID: 2}}, meta.Bodies); diff != "" {
		t.Errorf("bodies (-want +got):\n%s", diff)
	}
	if meta.Metrics["kinetic_energy"] != 12.5 {
		t.Errorf("metric = %v", meta.Metrics["kinetic_energy"])
	}

	frames, err := store.LoadFrames(runID)
	if err != nil {
		t.Fatalf("load frames: %v", err)
	}
	if diff := cmp.Diff(sampleFrames(), frames); diff != "" {
		t.Errorf("frames (-want +got):\n%s", diff)
	}

	loaded, err := store.LoadConfig(runID)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if diff := cmp.Diff(cfg, loaded); diff != "" {
		t.Errorf("config (-want +got):\n%s", diff)
	}
}

func TestSaveTwiceInOneSecond(t *testing.T) {
	store := New(t.TempDir())
	cfg := config.DefaultConfig()
	res := &sim.Result{Frames: sampleFrames()}

	a, err := store.Save(cfg, res)
	if err != nil {
		t.Fatal(err)
	}
	b, err := store.Save(cfg, res)
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Fatalf("run ids collide: %s", a)
	}

	runs, err := store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Errorf("expected 2 runs, got %d", len(runs))
	}
}

func TestListMissingDir(t *testing.T) {
	store := New(t.TempDir() + "/missing")
	runs, err := store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}

func TestTrackOf(t *testing.T) {
	tr, err := TrackOf(sampleFrames(), 1)
	if err != nil {
		t.Fatal(err)
	}
	want := Track{
		Times: []float64{0, 0.5},
		X:     []float64{100, 101.25},
		Y:     []float64{50, 60},
		VX:    []float64{2.5, 2.5},
		VY:    []float64{0, 40},
	}
	if diff := cmp.Diff(want, tr); diff != "" {
		t.Errorf("track (-want +got):\n%s", diff)
	}
	if s := tr.Speed(); s[0] != 2.5 {
		t.Errorf("speed[0] = %v", s[0])
	}

	if _, err := TrackOf(sampleFrames(), 9); err == nil {
		t.Error("expected error for unknown body")
	}
}

func TestWriteJSON(t *testing.T) {
	meta := &RunMetadata{Scenario: "free", Dt: 0.5, Duration: 0.5, Steps: 1}
	var buf bytes.Buffer
	if err := WriteJSON(&buf, NewExport(meta, sampleFrames())); err != nil {
		t.Fatal(err)
	}

	var got ExportData
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]float64{0, 0.5}, got.Times); diff != "" {
		t.Errorf("times (-want +got):\n%s", diff)
	}
	if len(got.Frames) != 2 || got.Frames[1].Bodies[0].Position.X != 101.25 {
		t.Errorf("unexpected frames %+v", got.Frames)
	}
}
