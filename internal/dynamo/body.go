package dynamo

import "math"

type BodyType int

const (
	DynamicBody BodyType = iota
	StaticBody
)

func (t BodyType) String() string {
	switch t {
	case DynamicBody:
		return "dynamic"
	case StaticBody:
		return "static"
	default:
		return "unknown"
	}
}

// BodyDef describes a body to spawn with World.AddBody.
type BodyDef struct {
	Type            BodyType
	Label           string
	Position        Vec2
	Velocity        Vec2
	Angle           float64
	AngularVelocity float64
	// Mass is required for dynamic bodies and ignored for static ones.
	Mass float64
	// Inertia overrides the moment computed from attached shapes when positive.
	Inertia       float64
	FixedRotation bool
}

func (d BodyDef) validate() error {
	if d.Type != DynamicBody && d.Type != StaticBody {
		return configError("body type", "unknown type %d", d.Type)
	}
	if !finiteVec(d.Position) || !finiteVec(d.Velocity) || !isFinite(d.Angle, d.AngularVelocity) {
		return configError("body state", "position, velocity and angle must be finite")
	}
	if d.Type == StaticBody {
		return nil
	}
	if !isFinite(d.Mass) || d.Mass <= 0 {
		return configError("mass", "must be positive and finite, got %g", d.Mass)
	}
	if !isFinite(d.Inertia) || d.Inertia < 0 {
		return configError("inertia", "must be non-negative and finite, got %g", d.Inertia)
	}
	return nil
}

// Body is a rigid body owned by a World. Its origin is its centre of mass.
type Body struct {
	id    int
	label string
	typ   BodyType
	world *World

	position        Vec2
	velocity        Vec2
	angle           float64
	angularVelocity float64

	mass, invMass       float64
	inertia, invInertia float64
	inertiaOverride     bool
	fixedRotation       bool

	force  Vec2
	torque float64

	// net generator force of the last completed step, kept for display
	appliedForce  Vec2
	appliedTorque float64

	shapes []*Shape
}

func newBody(id int, def BodyDef) *Body {
	b := &Body{
		id:              id,
		label:           def.Label,
		typ:             def.Type,
		position:        def.Position,
		velocity:        def.Velocity,
		angle:           def.Angle,
		angularVelocity: def.AngularVelocity,
		fixedRotation:   def.FixedRotation,
	}
	if def.Type == StaticBody {
		b.velocity = Vec2{}
		b.angularVelocity = 0
		return b
	}
	b.mass = def.Mass
	b.invMass = 1 / def.Mass
	if def.Inertia > 0 {
		b.inertiaOverride = true
		b.inertia = def.Inertia
	}
	b.updateInertia()
	return b
}

func (b *Body) ID() int             { return b.id }
func (b *Body) Label() string       { return b.label }
func (b *Body) Type() BodyType      { return b.typ }
func (b *Body) IsStatic() bool      { return b.typ == StaticBody }
func (b *Body) Position() Vec2      { return b.position }
func (b *Body) Velocity() Vec2      { return b.velocity }
func (b *Body) Angle() float64      { return b.angle }
func (b *Body) InvMass() float64    { return b.invMass }
func (b *Body) Inertia() float64    { return b.inertia }
func (b *Body) InvInertia() float64 { return b.invInertia }

func (b *Body) AngularVelocity() float64 { return b.angularVelocity }

// Mass returns +Inf for static bodies.
func (b *Body) Mass() float64 {
	if b.IsStatic() {
		return math.Inf(1)
	}
	return b.mass
}

// Force returns the force accumulated so far in the current step.
func (b *Body) Force() Vec2 { return b.force }

// Torque returns the torque accumulated so far in the current step.
func (b *Body) Torque() float64 { return b.torque }

// AppliedForce returns the net generator force of the last completed step.
func (b *Body) AppliedForce() Vec2 { return b.appliedForce }

// Acceleration returns the linear acceleration implied by AppliedForce.
func (b *Body) Acceleration() Vec2 { return b.appliedForce.Mul(b.invMass) }

// Shapes returns a copy of the shapes attached to the body.
func (b *Body) Shapes() []*Shape {
	out := make([]*Shape, len(b.shapes))
	copy(out, b.shapes)
	return out
}

// SetVelocity overwrites the linear velocity; ignored on static bodies.
func (b *Body) SetVelocity(v Vec2) {
	if b.IsStatic() || !finiteVec(v) {
		return
	}
	b.velocity = v
}

// SetAngularVelocity overwrites the angular velocity; ignored on static bodies.
func (b *Body) SetAngularVelocity(w float64) {
	if b.IsStatic() || !isFinite(w) {
		return
	}
	b.angularVelocity = w
}

// LocalToWorld maps a body-local point into world space.
func (b *Body) LocalToWorld(p Vec2) Vec2 {
	return b.position.Add(Rotate(p, b.angle))
}

// WorldToLocal maps a world point into the body frame.
func (b *Body) WorldToLocal(p Vec2) Vec2 {
	return Rotate(p.Sub(b.position), -b.angle)
}

// VelocityAtWorldPoint returns the velocity of the material point at p.
func (b *Body) VelocityAtWorldPoint(p Vec2) Vec2 {
	return b.velocityAt(p.Sub(b.position))
}

func (b *Body) velocityAt(r Vec2) Vec2 {
	return b.velocity.Add(CrossSV(b.angularVelocity, r))
}

// ApplyForce adds f at the centre of mass.
func (b *Body) ApplyForce(f Vec2) {
	if b.IsStatic() || !finiteVec(f) {
		return
	}
	b.force = b.force.Add(f)
}

// ApplyForceAtWorldPoint adds f to the force accumulator and the torque
// cross(p-position, f) to the torque accumulator. Static bodies ignore it.
func (b *Body) ApplyForceAtWorldPoint(f, p Vec2) {
	if b.IsStatic() || !finiteVec(f) || !finiteVec(p) {
		return
	}
	b.force = b.force.Add(f)
	b.torque += Cross(p.Sub(b.position), f)
}

// ApplyTorque adds t to the torque accumulator.
func (b *Body) ApplyTorque(t float64) {
	if b.IsStatic() || !isFinite(t) {
		return
	}
	b.torque += t
}

// ApplyImpulse changes momentum instantly as if j acted at world point p.
func (b *Body) ApplyImpulse(j, p Vec2) {
	if b.IsStatic() || !finiteVec(j) || !finiteVec(p) {
		return
	}
	b.applyImpulse(j, p.Sub(b.position))
}

func (b *Body) applyImpulse(j, r Vec2) {
	b.velocity = b.velocity.Add(j.Mul(b.invMass))
	b.angularVelocity += b.invInertia * Cross(r, j)
}

func (b *Body) applyAngularImpulse(j float64) {
	b.angularVelocity += b.invInertia * j
}

func (b *Body) integrateVelocity(dt float64) {
	if b.IsStatic() {
		return
	}
	b.velocity = b.velocity.Add(b.force.Mul(b.invMass * dt))
	b.angularVelocity += b.torque * b.invInertia * dt
}

func (b *Body) integratePosition(dt float64) {
	if b.IsStatic() {
		return
	}
	b.position = b.position.Add(b.velocity.Mul(dt))
	b.angle += b.angularVelocity * dt
}

func (b *Body) clearForces() {
	b.appliedForce = b.force
	b.appliedTorque = b.torque
	b.force = Vec2{}
	b.torque = 0
}

// updateInertia spreads the body mass over its shapes by area and sums
// their moments about the body origin.
func (b *Body) updateInertia() {
	if b.IsStatic() {
		b.inertia, b.invInertia = 0, 0
		return
	}
	if !b.inertiaOverride {
		total := 0.0
		for _, s := range b.shapes {
			total += s.Area()
		}
		b.inertia = 0
		if total > 0 {
			for _, s := range b.shapes {
				if a := s.Area(); a > 0 {
					b.inertia += s.moment(b.mass * a / total)
				}
			}
		}
	}
	b.invInertia = 0
	if b.inertia > 0 && !b.fixedRotation {
		b.invInertia = 1 / b.inertia
	}
}
