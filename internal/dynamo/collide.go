package dynamo

import "math"

// Contact is a single overlap between two shapes. Normal is a unit vector
// pointing from ShapeA toward ShapeB.
type Contact struct {
	ShapeA, ShapeB *Shape
	Point          Vec2
	Normal         Vec2
	Depth          float64
}

func (c Contact) flipped() Contact {
	return Contact{
		ShapeA: c.ShapeB,
		ShapeB: c.ShapeA,
		Point:  c.Point,
		Normal: c.Normal.Mul(-1),
		Depth:  c.Depth,
	}
}

// featureTolerance is the fraction of a polygon's extent within which
// vertices count as equally deep and are averaged into one contact point.
const featureTolerance = 0.01

// Collide runs the narrow phase for one pair. Both shapes must be attached
// and their world cache current.
func Collide(a, b *Shape) (Contact, bool) {
	switch a.kind {
	case CircleShape:
		switch b.kind {
		case CircleShape:
			return circleCircle(a, b)
		case SegmentShape:
			c, ok := circleSegment(a, b)
			return c.flipped(), ok
		case PolygonShape:
			c, ok := circlePolygon(a, b)
			return c.flipped(), ok
		}
	case SegmentShape:
		switch b.kind {
		case CircleShape:
			return circleSegment(b, a)
		case PolygonShape:
			c, ok := polygonSegment(b, a)
			return c.flipped(), ok
		}
	case PolygonShape:
		switch b.kind {
		case CircleShape:
			return circlePolygon(b, a)
		case SegmentShape:
			return polygonSegment(a, b)
		case PolygonShape:
			return polygonPolygon(a, b)
		}
	}
	return Contact{}, false
}

func circleCircle(a, b *Shape) (Contact, bool) {
	d := b.wCenter.Sub(a.wCenter)
	rsum := a.radius + b.radius
	dist := d.Len()
	if dist >= rsum {
		return Contact{}, false
	}
	n := Vec2{0, 1}
	if dist > epsilon {
		n = d.Mul(1 / dist)
	}
	depth := rsum - dist
	return Contact{
		ShapeA: a,
		ShapeB: b,
		Point:  a.wCenter.Add(n.Mul(a.radius - depth/2)),
		Normal: n,
		Depth:  depth,
	}, true
}

// circleSegment returns a contact with the normal pointing from the segment
// to the circle.
func circleSegment(c, s *Shape) (Contact, bool) {
	center := c.wCenter
	ab := s.wB.Sub(s.wA)
	q := s.wA
	if l2 := ab.LenSqr(); l2 > epsilon {
		t := clamp(center.Sub(s.wA).Dot(ab)/l2, 0, 1)
		q = s.wA.Add(ab.Mul(t))
	}
	d := center.Sub(q)
	r := c.radius + s.thickness/2
	dist := d.Len()
	if dist >= r {
		return Contact{}, false
	}
	n, _ := normalize(Perp(ab))
	if dist > epsilon {
		n = d.Mul(1 / dist)
	} else if n == (Vec2{}) {
		n = Vec2{0, 1}
	}
	depth := r - dist
	return Contact{
		ShapeA: s,
		ShapeB: c,
		Point:  center.Sub(n.Mul(c.radius - depth/2)),
		Normal: n,
		Depth:  depth,
	}, true
}

// circlePolygon returns a contact with the normal pointing from the polygon
// to the circle.
func circlePolygon(c, p *Shape) (Contact, bool) {
	center := c.wCenter
	r := c.radius
	n := len(p.wVerts)

	sep, face := math.Inf(-1), 0
	for i := 0; i < n; i++ {
		s := p.wNormals[i].Dot(center.Sub(p.wVerts[i]))
		if s > r {
			return Contact{}, false
		}
		if s > sep {
			sep, face = s, i
		}
	}

	v1, v2 := p.wVerts[face], p.wVerts[(face+1)%n]
	normal := p.wNormals[face]
	var depth float64

	switch {
	case sep < epsilon:
		depth = r - sep
	case center.Sub(v1).Dot(v2.Sub(v1)) <= 0:
		d, dist := normalize(center.Sub(v1))
		if dist > r {
			return Contact{}, false
		}
		if dist > 0 {
			normal = d
		}
		depth = r - dist
	case center.Sub(v2).Dot(v1.Sub(v2)) <= 0:
		d, dist := normalize(center.Sub(v2))
		if dist > r {
			return Contact{}, false
		}
		if dist > 0 {
			normal = d
		}
		depth = r - dist
	default:
		depth = r - sep
	}

	return Contact{
		ShapeA: p,
		ShapeB: c,
		Point:  center.Sub(normal.Mul(r - depth/2)),
		Normal: normal,
		Depth:  depth,
	}, true
}

// polygonSegment treats the segment as a thick two-vertex polygon and runs a
// separating-axis test. The normal points from the polygon to the segment.
func polygonSegment(p, s *Shape) (Contact, bool) {
	r := s.thickness / 2
	seg := []Vec2{s.wA, s.wB}

	faceSep, face := math.Inf(-1), 0
	for i, n := range p.wNormals {
		sep := minProjection(seg, n, p.wVerts[i]) - r
		if sep > 0 {
			return Contact{}, false
		}
		if sep > faceSep {
			faceSep, face = sep, i
		}
	}

	tangent, _ := normalize(s.wB.Sub(s.wA))
	if minProjection(p.wVerts, tangent, s.wB)-r > 0 ||
		minProjection(p.wVerts, tangent.Mul(-1), s.wA)-r > 0 {
		return Contact{}, false
	}

	sn := Perp(tangent)
	if sn.Dot(p.wCenter.Sub(s.wA)) < 0 {
		sn = sn.Mul(-1)
	}
	segSep := minProjection(p.wVerts, sn, s.wA) - r
	if segSep > 0 {
		return Contact{}, false
	}

	if faceSep > 0.98*segSep+0.001 {
		n := p.wNormals[face]
		depth := -faceSep
		q := deepest(seg, n, p.wVerts[face], p.extent)
		return Contact{
			ShapeA: p,
			ShapeB: s,
			Point:  q.Sub(n.Mul(r)).Add(n.Mul(depth / 2)),
			Normal: n,
			Depth:  depth,
		}, true
	}

	depth := -segSep
	q := deepest(p.wVerts, sn, s.wA, p.extent)
	return Contact{
		ShapeA: p,
		ShapeB: s,
		Point:  q.Add(sn.Mul(depth / 2)),
		Normal: sn.Mul(-1),
		Depth:  depth,
	}, true
}

// polygonPolygon picks the reference face with the least penetration,
// preferring a's faces on near ties.
func polygonPolygon(a, b *Shape) (Contact, bool) {
	sepA, faceA := maxSeparation(a, b)
	if sepA > 0 {
		return Contact{}, false
	}
	sepB, faceB := maxSeparation(b, a)
	if sepB > 0 {
		return Contact{}, false
	}

	if sepB > 0.98*sepA+0.001 {
		n := b.wNormals[faceB]
		depth := -sepB
		q := deepest(a.wVerts, n, b.wVerts[faceB], a.extent)
		return Contact{
			ShapeA: a,
			ShapeB: b,
			Point:  q.Add(n.Mul(depth / 2)),
			Normal: n.Mul(-1),
			Depth:  depth,
		}, true
	}

	n := a.wNormals[faceA]
	depth := -sepA
	q := deepest(b.wVerts, n, a.wVerts[faceA], b.extent)
	return Contact{
		ShapeA: a,
		ShapeB: b,
		Point:  q.Add(n.Mul(depth / 2)),
		Normal: n,
		Depth:  depth,
	}, true
}

// maxSeparation returns the largest separation of b's vertices from any face
// of a, and that face's index.
func maxSeparation(a, b *Shape) (float64, int) {
	best, face := math.Inf(-1), 0
	for i, n := range a.wNormals {
		sep := minProjection(b.wVerts, n, a.wVerts[i])
		if sep > best {
			best, face = sep, i
		}
	}
	return best, face
}

func minProjection(pts []Vec2, n, origin Vec2) float64 {
	m := math.Inf(1)
	for _, p := range pts {
		m = math.Min(m, n.Dot(p.Sub(origin)))
	}
	return m
}

// deepest averages the points lying furthest against n relative to the plane
// through origin, within a tolerance scaled by extent.
func deepest(pts []Vec2, n, origin Vec2, extent float64) Vec2 {
	m := minProjection(pts, n, origin)
	tol := featureTolerance * extent
	var sum Vec2
	count := 0
	for _, p := range pts {
		if n.Dot(p.Sub(origin)) <= m+tol {
			sum = sum.Add(p)
			count++
		}
	}
	return sum.Mul(1 / float64(count))
}
