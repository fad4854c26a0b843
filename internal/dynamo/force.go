package dynamo

// ForceGenerator contributes forces and torques to body accumulators at the
// start of every step. Generators own no physics state.
type ForceGenerator interface {
	Enabled() bool
	Apply(w *World, dt float64)
}

// Toggle is an embeddable enable flag. The zero value is enabled.
type Toggle struct {
	disabled bool
}

func (t *Toggle) Enabled() bool      { return !t.disabled }
func (t *Toggle) SetEnabled(on bool) { t.disabled = !on }

// Flip inverts the flag and returns the new state.
func (t *Toggle) Flip() bool {
	t.disabled = !t.disabled
	return !t.disabled
}

// UniformField applies mass*accel to its bodies, or to every dynamic body
// when none were given. It cannot be disabled.
type UniformField struct {
	accel  Vec2
	bodies []*Body
}

func NewUniformField(accel Vec2, bodies ...*Body) (*UniformField, error) {
	if !finiteVec(accel) {
		return nil, configError("field acceleration", "must be finite")
	}
	for i, b := range bodies {
		if b == nil || b.IsStatic() {
			return nil, configError("field target", "body %d must be dynamic", i)
		}
	}
	return &UniformField{accel: accel, bodies: bodies}, nil
}

func (f *UniformField) Enabled() bool      { return true }
func (f *UniformField) Acceleration() Vec2 { return f.accel }

func (f *UniformField) Apply(w *World, dt float64) {
	targets := f.bodies
	if len(targets) == 0 {
		targets = w.bodies
	}
	for _, b := range targets {
		b.ApplyForce(f.accel.Mul(b.mass))
	}
}

// CentripetalTracker pulls one body toward a fixed centre with magnitude
// m|v|^2/r, keeping it on its current circle. At r == 0 it applies nothing.
type CentripetalTracker struct {
	Toggle
	body   *Body
	center Vec2
	last   Vec2
}

func NewCentripetalTracker(body *Body, center Vec2) (*CentripetalTracker, error) {
	if body == nil || body.IsStatic() {
		return nil, configError("centripetal body", "must be a dynamic body")
	}
	if !finiteVec(center) {
		return nil, configError("centripetal center", "must be finite")
	}
	return &CentripetalTracker{body: body, center: center}, nil
}

func (c *CentripetalTracker) Body() *Body  { return c.body }
func (c *CentripetalTracker) Center() Vec2 { return c.center }

// LastForce returns the force applied on the most recent enabled step, or
// zero while disabled.
func (c *CentripetalTracker) LastForce() Vec2 {
	if !c.Enabled() {
		return Vec2{}
	}
	return c.last
}

func (c *CentripetalTracker) Apply(w *World, dt float64) {
	dir, r := normalize(c.center.Sub(c.body.position))
	if r == 0 {
		c.last = Vec2{}
		return
	}
	f := dir.Mul(c.body.mass * c.body.velocity.LenSqr() / r)
	c.body.ApplyForce(f)
	c.last = f
}

// SlopeGravityProjector applies the component of gravity along a segment's
// tangent to bodies whose centre projects onto the segment. Bodies past
// either end receive the full gravity vector.
type SlopeGravityProjector struct {
	Toggle
	slope   *Shape
	gravity Vec2
	bodies  []*Body
}

func NewSlopeGravityProjector(slope *Shape, gravity Vec2, bodies ...*Body) (*SlopeGravityProjector, error) {
	if slope == nil || slope.kind != SegmentShape {
		return nil, configError("slope", "must be a segment shape")
	}
	if !finiteVec(gravity) {
		return nil, configError("slope gravity", "must be finite")
	}
	for i, b := range bodies {
		if b == nil || b.IsStatic() {
			return nil, configError("slope target", "body %d must be dynamic", i)
		}
	}
	return &SlopeGravityProjector{slope: slope, gravity: gravity, bodies: bodies}, nil
}

// Tangent returns the unit direction from the slope's first to second
// endpoint in world space.
func (s *SlopeGravityProjector) Tangent() Vec2 {
	a, b := s.slope.WorldEndpoints()
	t, _ := normalize(b.Sub(a))
	return t
}

// TangentialAcceleration is the acceleration a body on the slope receives.
func (s *SlopeGravityProjector) TangentialAcceleration() Vec2 {
	t := s.Tangent()
	return t.Mul(s.gravity.Dot(t))
}

func (s *SlopeGravityProjector) Apply(w *World, dt float64) {
	a, b := s.slope.WorldEndpoints()
	t, length := normalize(b.Sub(a))
	if length == 0 {
		return
	}
	along := t.Mul(s.gravity.Dot(t))

	targets := s.bodies
	if len(targets) == 0 {
		targets = w.bodies
	}
	for _, body := range targets {
		if body.IsStatic() {
			continue
		}
		proj := body.position.Sub(a).Dot(t)
		if proj < 0 || proj > length {
			body.ApplyForce(s.gravity.Mul(body.mass))
			continue
		}
		body.ApplyForce(along.Mul(body.mass))
	}
}
