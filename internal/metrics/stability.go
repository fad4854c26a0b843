package metrics

import (
	"math"

	"github.com/san-kum/mechsim/internal/dynamo"
)

// PinDrift is the largest anchor separation seen on any pin joint, in
// kernel units.
type PinDrift struct {
	name string
	max  float64
}

func NewPinDrift() *PinDrift {
	return &PinDrift{name: "pin_drift"}
}

func (p *PinDrift) Name() string { return p.name }

func (p *PinDrift) Observe(w *dynamo.World) {
	for _, c := range w.Constraints() {
		if pin, ok := c.(*dynamo.PinJoint); ok {
			p.max = math.Max(p.max, pin.Separation())
		}
	}
}

func (p *PinDrift) Value() float64 { return p.max }
func (p *PinDrift) Reset()         { p.max = 0 }

// RadiusDeviation is the largest relative change of a tracked body's
// distance from its centripetal centre. Only enabled trackers are sampled.
type RadiusDeviation struct {
	name    string
	initial map[*dynamo.CentripetalTracker]float64
	max     float64
}

func NewRadiusDeviation() *RadiusDeviation {
	return &RadiusDeviation{
		name:    "radius_deviation",
		initial: make(map[*dynamo.CentripetalTracker]float64),
	}
}

func (r *RadiusDeviation) Name() string { return r.name }

func (r *RadiusDeviation) Observe(w *dynamo.World) {
	for _, g := range w.ForceGenerators() {
		tr, ok := g.(*dynamo.CentripetalTracker)
		if !ok || !tr.Enabled() {
			continue
		}
		radius := tr.Body().Position().Sub(tr.Center()).Len()
		r0, seen := r.initial[tr]
		if !seen {
			r.initial[tr] = radius
			continue
		}
		if r0 > 0 {
			r.max = math.Max(r.max, math.Abs(radius-r0)/r0)
		}
	}
}

func (r *RadiusDeviation) Value() float64 { return r.max }

func (r *RadiusDeviation) Reset() {
	r.max = 0
	r.initial = make(map[*dynamo.CentripetalTracker]float64)
}

// MaxPenetration is the deepest contact seen over the run.
type MaxPenetration struct {
	name string
	max  float64
}

func NewMaxPenetration() *MaxPenetration {
	return &MaxPenetration{name: "max_penetration"}
}

func (m *MaxPenetration) Name() string { return m.name }

func (m *MaxPenetration) Observe(w *dynamo.World) {
	m.max = math.Max(m.max, w.MaxPenetration())
}

func (m *MaxPenetration) Value() float64 { return m.max }
func (m *MaxPenetration) Reset()         { m.max = 0 }
