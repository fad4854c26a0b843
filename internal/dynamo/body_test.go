package dynamo

import (
	"math"
	"testing"
)

func TestApplyForceAtWorldPoint(t *testing.T) {
	w, _ := NewWorld(DefaultConfig())
	b, _ := w.AddBody(BodyDef{Mass: 1})
	b.ApplyForceAtWorldPoint(V(0, 10), V(2, 0))
	if b.Torque() != 20 {
		t.Errorf("expected torque 20, got %g", b.Torque())
	}
	if b.Force() != V(0, 10) {
		t.Errorf("expected force (0,10), got %v", b.Force())
	}
}

func TestStaticBodyIgnoresForces(t *testing.T) {
	w, _ := NewWorld(DefaultConfig())
	s := w.StaticBody()
	s.ApplyForce(V(1, 1))
	s.ApplyTorque(3)
	s.ApplyImpulse(V(5, 5), V(1, 0))
	s.SetVelocity(V(1, 0))
	if s.Force() != (Vec2{}) || s.Torque() != 0 || s.Velocity() != (Vec2{}) {
		t.Error("static body accumulated state")
	}
	if !math.IsInf(s.Mass(), 1) || s.InvMass() != 0 {
		t.Errorf("static mass %g, inverse %g", s.Mass(), s.InvMass())
	}
}

func TestFramesRoundTrip(t *testing.T) {
	w, _ := NewWorld(DefaultConfig())
	b, _ := w.AddBody(BodyDef{Position: V(3, 4), Angle: 0.7, Mass: 1})
	p := V(-2, 5)
	if got := b.WorldToLocal(b.LocalToWorld(p)); !near(got, p) {
		t.Errorf("round trip %v -> %v", p, got)
	}
	if got := b.LocalToWorld(Vec2{}); !near(got, b.Position()) {
		t.Errorf("origin maps to %v", got)
	}
}

func TestVelocityAtWorldPoint(t *testing.T) {
	w, _ := NewWorld(DefaultConfig())
	b, _ := w.AddBody(BodyDef{Velocity: V(1, 0), AngularVelocity: 2, Mass: 1})
	if got := b.VelocityAtWorldPoint(V(0, 1)); !near(got, V(-1, 0)) {
		t.Errorf("expected (-1,0), got %v", got)
	}
}

func TestAppliedForceSurvivesStep(t *testing.T) {
	w, _ := NewWorld(DefaultConfig())
	b, _ := w.AddBody(BodyDef{Mass: 2})
	g, _ := NewUniformField(V(0, -5))
	w.RegisterForceGenerator(g)
	w.Step(0.01)

	if b.Force() != (Vec2{}) {
		t.Errorf("accumulator not cleared: %v", b.Force())
	}
	if b.AppliedForce() != V(0, -10) {
		t.Errorf("expected applied force (0,-10), got %v", b.AppliedForce())
	}
	if b.Acceleration() != V(0, -5) {
		t.Errorf("expected acceleration (0,-5), got %v", b.Acceleration())
	}
	if st := b.State(); st.Force != b.AppliedForce() {
		t.Errorf("state force %v", st.Force)
	}
}
