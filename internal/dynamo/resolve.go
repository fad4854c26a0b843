package dynamo

import "math"

// resolveContact applies the normal and friction impulses for one contact
// and then pushes the bodies apart by a fraction of the residual overlap.
// Separating contacts receive no impulse but are still corrected.
func (w *World) resolveContact(c *Contact) {
	applyContactImpulse(c)
	w.correctPosition(c)
}

// applyContactImpulse uses restitution min(eA, eB) and friction min(fA, fB).
func applyContactImpulse(c *Contact) {
	a, b := c.ShapeA.body, c.ShapeB.body
	n := c.Normal
	ra := c.Point.Sub(a.position)
	rb := c.Point.Sub(b.position)

	rv := b.velocityAt(rb).Sub(a.velocityAt(ra))
	vn := rv.Dot(n)
	if vn > 0 {
		return
	}

	raN, rbN := Cross(ra, n), Cross(rb, n)
	k := a.invMass + b.invMass + raN*raN*a.invInertia + rbN*rbN*b.invInertia
	if k <= 0 {
		return
	}

	ma, mb := c.ShapeA.material, c.ShapeB.material
	e := math.Min(ma.Elasticity, mb.Elasticity)
	j := -(1 + e) * vn / k
	impulse := n.Mul(j)
	a.applyImpulse(impulse.Mul(-1), ra)
	b.applyImpulse(impulse, rb)

	if mu := math.Min(ma.Friction, mb.Friction); mu > 0 {
		rv = b.velocityAt(rb).Sub(a.velocityAt(ra))
		t, l := normalize(rv.Sub(n.Mul(rv.Dot(n))))
		if l > 0 {
			raT, rbT := Cross(ra, t), Cross(rb, t)
			kt := a.invMass + b.invMass + raT*raT*a.invInertia + rbT*rbT*b.invInertia
			if kt > 0 {
				jt := clamp(-rv.Dot(t)/kt, -mu*j, mu*j)
				ft := t.Mul(jt)
				a.applyImpulse(ft.Mul(-1), ra)
				b.applyImpulse(ft, rb)
			}
		}
	}
}

func (w *World) correctPosition(c *Contact) {
	a, b := c.ShapeA.body, c.ShapeB.body
	im := a.invMass + b.invMass
	if im <= 0 {
		return
	}
	excess := math.Max(c.Depth-w.cfg.PenetrationSlop, 0)
	if excess == 0 {
		return
	}
	corr := c.Normal.Mul(excess / im * w.cfg.CorrectionPercent)
	if !a.IsStatic() {
		a.position = a.position.Sub(corr.Mul(a.invMass))
	}
	if !b.IsStatic() {
		b.position = b.position.Add(corr.Mul(b.invMass))
	}
}
