package analysis

import (
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func sine(freq, dt float64, n int) ([]float64, []float64) {
	times := make([]float64, n)
	values := make([]float64, n)
	for i := range values {
		times[i] = float64(i) * dt
		values[i] = 10 + 3*math.Sin(2*math.Pi*freq*times[i])
	}
	return times, values
}

func TestDominantFrequency(t *testing.T) {
	dt := 1.0 / 60
	_, values := sine(0.5, dt, 600)

	got := DominantFrequency(values, dt)
	if math.Abs(got-0.5) > 0.05 {
		t.Errorf("dominant frequency = %v, want 0.5", got)
	}
}

func TestDominantFrequencyFlat(t *testing.T) {
	flat := []float64{4, 4, 4, 4, 4, 4, 4, 4}
	if got := DominantFrequency(flat, 0.1); got != 0 {
		t.Errorf("flat series frequency = %v", got)
	}
	if got := DominantFrequency([]float64{1, 2, 3}, 0); got != 0 {
		t.Errorf("zero dt frequency = %v", got)
	}
}

func TestPowerSpectrumRemovesMean(t *testing.T) {
	ps := PowerSpectrum([]float64{5, 5, 5, 5})
	if len(ps) != 2 {
		t.Fatalf("len = %d", len(ps))
	}
	if ps[0] > 1e-9 {
		t.Errorf("DC bin = %v, want 0", ps[0])
	}
	if len(PowerSpectrum([]float64{1})) != 0 {
		t.Error("single sample should give empty spectrum")
	}
}

func TestCrossingsAndPeriod(t *testing.T) {
	times, values := sine(0.5, 0.01, 1000)
	c := Crossings(times, values, 10)
	if len(c) < 4 {
		t.Fatalf("expected several crossings, got %v", c)
	}
	if p := MeanPeriod(c); math.Abs(p-2) > 0.01 {
		t.Errorf("period = %v, want 2", p)
	}
	if MeanPeriod(c[:1]) != 0 {
		t.Error("one crossing has no period")
	}
}

func TestCrossingsInterpolate(t *testing.T) {
	got := Crossings([]float64{0, 1, 2}, []float64{-1, 1, 3}, 0)
	if diff := cmp.Diff([]float64{0.5}, got); diff != "" {
		t.Errorf("crossings (-want +got):\n%s", diff)
	}
}

func TestApexes(t *testing.T) {
	ys := []float64{500, 300, 200, 300, 500, 350, 250, 250, 400}
	if diff := cmp.Diff([]int{2, 6}, Apexes(ys)); diff != "" {
		t.Errorf("apexes (-want +got):\n%s", diff)
	}
}

func TestPhasePortraitASCII(t *testing.T) {
	_, xs := sine(1, 0.01, 200)
	_, vs := sine(1, 0.01, 150)
	p := NewPhasePortrait("x", xs, "vx", vs)
	if len(p.Points) != 150 {
		t.Fatalf("points = %d", len(p.Points))
	}

	out := p.ASCII(40, 10)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 10 {
		t.Fatalf("rows = %d", len(lines))
	}
	if !strings.Contains(out, "•") {
		t.Error("no points plotted")
	}
	if (&PhasePortrait{}).ASCII(40, 10) != "" {
		t.Error("empty portrait should render nothing")
	}
}
