package dynamo

import (
	"fmt"
	"math"
)

// Config tunes the solver. The zero value is not usable; start from
// DefaultConfig.
type Config struct {
	// Iterations is the number of constraint passes per step.
	Iterations int `yaml:"iterations" json:"iterations"`
	// PenetrationSlop is the overlap left uncorrected to avoid jitter.
	PenetrationSlop float64 `yaml:"penetration_slop" json:"penetration_slop"`
	// CorrectionPercent is the share of the remaining overlap removed per step.
	CorrectionPercent float64 `yaml:"correction_percent" json:"correction_percent"`
	// PinBias is the Baumgarte factor used by pin joints.
	PinBias float64 `yaml:"pin_bias" json:"pin_bias"`
}

func DefaultConfig() Config {
	return Config{
		Iterations:        8,
		PenetrationSlop:   0.01,
		CorrectionPercent: 0.8,
		PinBias:           0.2,
	}
}

func (c Config) Validate() error {
	if c.Iterations < 1 {
		return configError("iterations", "must be at least 1, got %d", c.Iterations)
	}
	if !isFinite(c.PenetrationSlop) || c.PenetrationSlop < 0 {
		return configError("penetration slop", "must be non-negative, got %g", c.PenetrationSlop)
	}
	if !isFinite(c.CorrectionPercent) || c.CorrectionPercent < 0 || c.CorrectionPercent > 1 {
		return configError("correction percent", "must lie in [0,1], got %g", c.CorrectionPercent)
	}
	if !isFinite(c.PinBias) || c.PinBias < 0 || c.PinBias > 1 {
		return configError("pin bias", "must lie in [0,1], got %g", c.PinBias)
	}
	return nil
}

// World owns every body, shape, constraint and force generator and advances
// them with Step. It is not safe for concurrent use.
type World struct {
	cfg         Config
	static      *Body
	bodies      []*Body
	shapes      []*Shape
	constraints []Constraint
	generators  []ForceGenerator
	contacts    []Contact

	locked bool
	nextID int
	time   float64
	steps  int
}

func NewWorld(cfg Config) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	w := &World{cfg: cfg}
	w.static = newBody(w.allocID(), BodyDef{Type: StaticBody, Label: "static"})
	w.static.world = w
	return w, nil
}

func (w *World) allocID() int {
	id := w.nextID
	w.nextID++
	return id
}

func (w *World) Config() Config { return w.cfg }

// StaticBody returns the world's built-in immovable body. It anchors walls
// and pin joints and is not listed by Bodies.
func (w *World) StaticBody() *Body { return w.static }

// Locked reports whether a step is in progress.
func (w *World) Locked() bool { return w.locked }

// Time is the simulated time accumulated by Step.
func (w *World) Time() float64 { return w.time }

func (w *World) StepCount() int { return w.steps }

func (w *World) AddBody(def BodyDef) (*Body, error) {
	if w.locked {
		return nil, ErrWorldLocked
	}
	if err := def.validate(); err != nil {
		return nil, err
	}
	b := newBody(w.allocID(), def)
	b.world = w
	w.bodies = append(w.bodies, b)
	return b, nil
}

// RemoveBody detaches b together with its shapes and any constraint that
// references it.
func (w *World) RemoveBody(b *Body) error {
	if w.locked {
		return ErrWorldLocked
	}
	if b == nil || b.world != w || b == w.static {
		return ErrUnknownBody
	}
	idx := -1
	for i, x := range w.bodies {
		if x == b {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrUnknownBody
	}
	w.bodies = append(w.bodies[:idx], w.bodies[idx+1:]...)

	shapes := w.shapes[:0]
	for _, s := range w.shapes {
		if s.body != b {
			shapes = append(shapes, s)
		}
	}
	w.shapes = shapes

	constraints := w.constraints[:0]
	for _, c := range w.constraints {
		ca, cb := c.Bodies()
		if ca != b && cb != b {
			constraints = append(constraints, c)
		}
	}
	w.constraints = constraints
	b.world = nil
	return nil
}

func (w *World) AddShape(b *Body, s *Shape) error {
	if w.locked {
		return ErrWorldLocked
	}
	if s == nil {
		return configError("shape", "is nil")
	}
	if b == nil || b.world != w {
		return ErrUnknownBody
	}
	if s.body != nil {
		return configError("shape", "already attached to body %d", s.body.id)
	}
	if s.kind == SegmentShape && !b.IsStatic() {
		return configErrorWrap("shape", ErrStaticSegmentOnly, "body %d is dynamic", b.id)
	}
	s.body = b
	b.shapes = append(b.shapes, s)
	b.updateInertia()
	s.update()
	w.shapes = append(w.shapes, s)
	return nil
}

func (w *World) AddConstraint(c Constraint) error {
	if w.locked {
		return ErrWorldLocked
	}
	if c == nil {
		return configError("constraint", "is nil")
	}
	a, b := c.Bodies()
	if a.world != w || b.world != w {
		return ErrUnknownBody
	}
	w.constraints = append(w.constraints, c)
	return nil
}

func (w *World) RegisterForceGenerator(g ForceGenerator) error {
	if w.locked {
		return ErrWorldLocked
	}
	if g == nil {
		return configError("force generator", "is nil")
	}
	w.generators = append(w.generators, g)
	return nil
}

// Bodies returns the bodies added with AddBody, in insertion order.
func (w *World) Bodies() []*Body {
	out := make([]*Body, len(w.bodies))
	copy(out, w.bodies)
	return out
}

func (w *World) Shapes() []*Shape {
	out := make([]*Shape, len(w.shapes))
	copy(out, w.shapes)
	return out
}

func (w *World) Constraints() []Constraint {
	out := make([]Constraint, len(w.constraints))
	copy(out, w.constraints)
	return out
}

func (w *World) ForceGenerators() []ForceGenerator {
	out := make([]ForceGenerator, len(w.generators))
	copy(out, w.generators)
	return out
}

// Contacts returns the contacts detected during the last step.
func (w *World) Contacts() []Contact {
	out := make([]Contact, len(w.contacts))
	copy(out, w.contacts)
	return out
}

// Step advances the world by dt. A non-positive or non-finite dt, or a
// re-entrant call, leaves the world untouched.
func (w *World) Step(dt float64) {
	if w.locked || !isFinite(dt) || dt <= 0 {
		return
	}
	w.locked = true
	defer func() { w.locked = false }()

	for _, g := range w.generators {
		if g.Enabled() {
			g.Apply(w, dt)
		}
	}

	for _, b := range w.bodies {
		b.integrateVelocity(dt)
	}

	w.detect()
	for i := range w.contacts {
		w.resolveContact(&w.contacts[i])
	}

	for _, c := range w.constraints {
		c.prepare(dt)
	}
	for i := 0; i < w.cfg.Iterations; i++ {
		for _, c := range w.constraints {
			c.solve(w, dt)
		}
	}

	for _, b := range w.bodies {
		b.integratePosition(dt)
		b.clearForces()
	}

	w.time += dt
	w.steps++
}

func (w *World) detect() {
	w.contacts = w.contacts[:0]
	for _, s := range w.shapes {
		s.update()
	}
	for _, p := range sweepAndPrune(w.shapes) {
		if c, ok := Collide(p.a, p.b); ok {
			w.contacts = append(w.contacts, c)
		}
	}
}

// BodyState is a read-only copy of one body's state.
type BodyState struct {
	ID              int     `json:"id"`
	Label           string  `json:"label,omitempty"`
	Static          bool    `json:"static,omitempty"`
	Position        Vec2    `json:"position"`
	Velocity        Vec2    `json:"velocity"`
	Angle           float64 `json:"angle"`
	AngularVelocity float64 `json:"angular_velocity"`
	Force           Vec2    `json:"force"`
	Acceleration    Vec2    `json:"acceleration"`
}

// State captures b's current state.
func (b *Body) State() BodyState {
	return BodyState{
		ID:              b.id,
		Label:           b.label,
		Static:          b.IsStatic(),
		Position:        b.position,
		Velocity:        b.velocity,
		Angle:           b.angle,
		AngularVelocity: b.angularVelocity,
		Force:           b.appliedForce,
		Acceleration:    b.Acceleration(),
	}
}

// Snapshot returns the state of every body in insertion order.
func (w *World) Snapshot() []BodyState {
	out := make([]BodyState, len(w.bodies))
	for i, b := range w.bodies {
		out[i] = b.State()
	}
	return out
}

// KineticEnergy sums translational and rotational kinetic energy.
func (w *World) KineticEnergy() float64 {
	ke := 0.0
	for _, b := range w.bodies {
		if b.IsStatic() {
			continue
		}
		ke += 0.5*b.mass*b.velocity.LenSqr() + 0.5*b.inertia*b.angularVelocity*b.angularVelocity
	}
	return ke
}

// Momentum sums linear momentum over dynamic bodies.
func (w *World) Momentum() Vec2 {
	var p Vec2
	for _, b := range w.bodies {
		if !b.IsStatic() {
			p = p.Add(b.velocity.Mul(b.mass))
		}
	}
	return p
}

func (w *World) String() string {
	return fmt.Sprintf("world{bodies=%d shapes=%d constraints=%d generators=%d t=%.3f}",
		len(w.bodies), len(w.shapes), len(w.constraints), len(w.generators), w.time)
}

// MaxPenetration returns the deepest contact of the last step.
func (w *World) MaxPenetration() float64 {
	m := 0.0
	for _, c := range w.contacts {
		m = math.Max(m, c.Depth)
	}
	return m
}
