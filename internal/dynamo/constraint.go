package dynamo

import "math"

// Constraint couples two bodies. The set of implementations is closed:
// PinJoint and Motor.
type Constraint interface {
	Bodies() (a, b *Body)
	prepare(dt float64)
	solve(w *World, dt float64)
}

// PinJoint holds one point of body A coincident with one point of body B.
type PinJoint struct {
	a, b           *Body
	localA, localB Vec2
}

// NewPinJoint pins a and b together at a shared world-space anchor.
func NewPinJoint(a, b *Body, anchor Vec2) (*PinJoint, error) {
	if err := checkPair("pin joint", a, b); err != nil {
		return nil, err
	}
	if !finiteVec(anchor) {
		return nil, configError("pin joint anchor", "must be finite")
	}
	return &PinJoint{
		a:      a,
		b:      b,
		localA: a.WorldToLocal(anchor),
		localB: b.WorldToLocal(anchor),
	}, nil
}

// NewPinJointLocal pins body-local anchors. The anchors must coincide in
// world space when the joint is created.
func NewPinJointLocal(a, b *Body, localA, localB Vec2) (*PinJoint, error) {
	if err := checkPair("pin joint", a, b); err != nil {
		return nil, err
	}
	if !finiteVec(localA) || !finiteVec(localB) {
		return nil, configError("pin joint anchor", "must be finite")
	}
	if d := b.LocalToWorld(localB).Sub(a.LocalToWorld(localA)).Len(); d > pinTolerance {
		return nil, configError("pin joint anchor", "anchors are %g apart, want coincident", d)
	}
	return &PinJoint{a: a, b: b, localA: localA, localB: localB}, nil
}

const pinTolerance = 1e-6

func checkPair(what string, a, b *Body) error {
	if a == nil || b == nil {
		return configError(what, "both bodies are required")
	}
	if a == b {
		return configError(what, "bodies must differ")
	}
	if a.IsStatic() && b.IsStatic() {
		return configError(what, "at least one body must be dynamic")
	}
	return nil
}

func (j *PinJoint) Bodies() (a, b *Body) { return j.a, j.b }

// AnchorA returns the anchor on body A in world space.
func (j *PinJoint) AnchorA() Vec2 { return j.a.LocalToWorld(j.localA) }

// AnchorB returns the anchor on body B in world space.
func (j *PinJoint) AnchorB() Vec2 { return j.b.LocalToWorld(j.localB) }

// Separation is the current world-space distance between the anchors.
func (j *PinJoint) Separation() float64 { return j.AnchorB().Sub(j.AnchorA()).Len() }

func (j *PinJoint) prepare(dt float64) {}

// solve applies the impulse that drives the relative anchor velocity to the
// Baumgarte target -beta*C/dt, using the exact 2x2 effective mass.
func (j *PinJoint) solve(w *World, dt float64) {
	a, b := j.a, j.b
	ra := Rotate(j.localA, a.angle)
	rb := Rotate(j.localB, b.angle)
	C := b.position.Add(rb).Sub(a.position.Add(ra))
	vrel := b.velocityAt(rb).Sub(a.velocityAt(ra))

	ima, imb := a.invMass, b.invMass
	iia, iib := a.invInertia, b.invInertia
	k11 := ima + imb + iia*ra[1]*ra[1] + iib*rb[1]*rb[1]
	k12 := -iia*ra[0]*ra[1] - iib*rb[0]*rb[1]
	k22 := ima + imb + iia*ra[0]*ra[0] + iib*rb[0]*rb[0]
	det := k11*k22 - k12*k12
	if math.Abs(det) < epsilon {
		return
	}

	rhs := C.Mul(-w.cfg.PinBias / dt).Sub(vrel)
	p := Vec2{
		(k22*rhs[0] - k12*rhs[1]) / det,
		(-k12*rhs[0] + k11*rhs[1]) / det,
	}
	a.applyImpulse(p.Mul(-1), ra)
	b.applyImpulse(p, rb)
}

// Motor drives the relative angular velocity of B with respect to A toward
// Rate. A positive MaxTorque caps the impulse applied per step.
type Motor struct {
	a, b      *Body
	rate      float64
	maxTorque float64
	accum     float64
	maxImp    float64
}

func NewMotor(a, b *Body, rate, maxTorque float64) (*Motor, error) {
	if err := checkPair("motor", a, b); err != nil {
		return nil, err
	}
	if !isFinite(rate) {
		return nil, configError("motor rate", "must be finite")
	}
	if !isFinite(maxTorque) || maxTorque < 0 {
		return nil, configError("motor max torque", "must be non-negative, got %g", maxTorque)
	}
	return &Motor{a: a, b: b, rate: rate, maxTorque: maxTorque}, nil
}

func (m *Motor) Bodies() (a, b *Body) { return m.a, m.b }
func (m *Motor) Rate() float64        { return m.rate }
func (m *Motor) MaxTorque() float64   { return m.maxTorque }

// SetRate changes the target relative angular rate.
func (m *Motor) SetRate(rate float64) {
	if isFinite(rate) {
		m.rate = rate
	}
}

func (m *Motor) prepare(dt float64) {
	m.accum = 0
	m.maxImp = math.Inf(1)
	if m.maxTorque > 0 {
		m.maxImp = m.maxTorque * dt
	}
}

func (m *Motor) solve(w *World, dt float64) {
	k := m.a.invInertia + m.b.invInertia
	if k == 0 {
		return
	}
	wrel := m.b.angularVelocity - m.a.angularVelocity - m.rate
	j := -wrel / k
	old := m.accum
	m.accum = clamp(old+j, -m.maxImp, m.maxImp)
	j = m.accum - old
	m.a.applyAngularImpulse(-j)
	m.b.applyAngularImpulse(j)
}
