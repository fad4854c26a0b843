package metrics

import (
	"math"

	"github.com/san-kum/mechsim/internal/dynamo"
)

// KineticEnergy averages the world's kinetic energy over the run.
type KineticEnergy struct {
	name    string
	total   float64
	last    float64
	samples int
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy"}
}

func (k *KineticEnergy) Name() string { return k.name }

func (k *KineticEnergy) Observe(w *dynamo.World) {
	k.last = w.KineticEnergy()
	k.total += k.last
	k.samples++
}

func (k *KineticEnergy) Value() float64 {
	if k.samples == 0 {
		return 0
	}
	return k.total / float64(k.samples)
}

// Last is the most recent sample.
func (k *KineticEnergy) Last() float64 { return k.last }

func (k *KineticEnergy) Reset() {
	k.total = 0
	k.last = 0
	k.samples = 0
}

// MechanicalEnergy is kinetic energy plus the potential of a uniform field
// with acceleration g, measured from the origin.
func MechanicalEnergy(w *dynamo.World, g dynamo.Vec2) float64 {
	e := w.KineticEnergy()
	for _, b := range w.Bodies() {
		if b.IsStatic() {
			continue
		}
		e -= b.Mass() * g.Dot(b.Position())
	}
	return e
}

// EnergyDrift tracks the largest relative change of mechanical energy from
// the first sample.
type EnergyDrift struct {
	name     string
	gravity  dynamo.Vec2
	initial  float64
	maxDrift float64
	samples  int
}

func NewEnergyDrift(gravity dynamo.Vec2) *EnergyDrift {
	return &EnergyDrift{
		name:    "energy_drift",
		gravity: gravity,
	}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(w *dynamo.World) {
	energy := MechanicalEnergy(w, e.gravity)
	if e.samples == 0 {
		e.initial = energy
	}
	e.samples++

	if e.initial != 0 {
		drift := math.Abs(energy-e.initial) / math.Abs(e.initial)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initial = 0
	e.maxDrift = 0
	e.samples = 0
}
