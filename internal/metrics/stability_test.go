package metrics

import (
	"testing"

	"github.com/san-kum/mechsim/internal/dynamo"
)

func TestPinDrift(t *testing.T) {
	w := newWorld(t)
	bob := ball(t, w, dynamo.V(100, 0), dynamo.Vec2{}, 1)
	pin, err := dynamo.NewPinJoint(w.StaticBody(), bob, dynamo.Vec2{})
	if err != nil {
		t.Fatal(err)
	}
	w.AddConstraint(pin)
	g, _ := dynamo.NewUniformField(dynamo.V(0, -981))
	w.RegisterForceGenerator(g)

	m := NewPinDrift()
	worst := 0.0
	for i := 0; i < 120; i++ {
		w.Step(1.0 / 60)
		m.Observe(w)
		if s := pin.Separation(); s > worst {
			worst = s
		}
	}
	if m.Value() != worst {
		t.Errorf("expected %g, got %g", worst, m.Value())
	}
	if m.Value() == 0 {
		t.Error("expected some drift under gravity")
	}
	m.Reset()
	if m.Value() != 0 {
		t.Error("reset failed")
	}
}

func TestRadiusDeviation(t *testing.T) {
	w := newWorld(t)
	b := ball(t, w, dynamo.V(200, 0), dynamo.V(0, 100), 2)
	tr, _ := dynamo.NewCentripetalTracker(b, dynamo.Vec2{})
	w.RegisterForceGenerator(tr)

	m := NewRadiusDeviation()
	for i := 0; i < 200; i++ {
		m.Observe(w)
		w.Step(1.0 / 60)
	}
	if m.Value() <= 0 || m.Value() > 0.05 {
		t.Errorf("expected small positive deviation, got %g", m.Value())
	}

	tr.SetEnabled(false)
	before := m.Value()
	for i := 0; i < 200; i++ {
		w.Step(1.0 / 60)
		m.Observe(w)
	}
	if m.Value() != before {
		t.Error("disabled tracker was sampled")
	}
}

func TestMaxPenetration(t *testing.T) {
	w := newWorld(t)
	ball(t, w, dynamo.V(0, 0), dynamo.Vec2{}, 1)
	ball(t, w, dynamo.V(8, 0), dynamo.Vec2{}, 1)

	m := NewMaxPenetration()
	w.Step(1.0 / 60)
	m.Observe(w)
	if m.Value() != 2 {
		t.Errorf("expected depth 2, got %g", m.Value())
	}
}

func TestMomentum(t *testing.T) {
	w := newWorld(t)
	ball(t, w, dynamo.V(0, 0), dynamo.V(3, 0), 2)
	ball(t, w, dynamo.V(100, 0), dynamo.V(-2, 0), 3)

	m := NewMomentum()
	m.Observe(w)
	if m.Value() != 0 {
		t.Errorf("expected zero momentum, got %g", m.Value())
	}
	if m.Name() != "momentum" {
		t.Errorf("unexpected name %s", m.Name())
	}
}
