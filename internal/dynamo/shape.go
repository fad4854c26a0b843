package dynamo

import (
	"math"
)

type ShapeKind int

const (
	CircleShape ShapeKind = iota
	SegmentShape
	PolygonShape
)

func (k ShapeKind) String() string {
	switch k {
	case CircleShape:
		return "circle"
	case SegmentShape:
		return "segment"
	case PolygonShape:
		return "polygon"
	default:
		return "unknown"
	}
}

// Material holds the surface coefficients used by the contact resolver.
type Material struct {
	Elasticity float64 `yaml:"elasticity" json:"elasticity"`
	Friction   float64 `yaml:"friction" json:"friction"`
}

func (m Material) validate() error {
	if !isFinite(m.Elasticity) || m.Elasticity < 0 || m.Elasticity > 1 {
		return configError("elasticity", "must lie in [0,1], got %g", m.Elasticity)
	}
	if !isFinite(m.Friction) || m.Friction < 0 {
		return configError("friction", "must be non-negative, got %g", m.Friction)
	}
	return nil
}

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min, Max Vec2
}

func (a AABB) Overlaps(b AABB) bool {
	return a.Min[0] <= b.Max[0] && b.Min[0] <= a.Max[0] &&
		a.Min[1] <= b.Max[1] && b.Min[1] <= a.Max[1]
}

// Shape is the collision geometry attached to exactly one body. Geometry is
// stored in the body frame.
type Shape struct {
	kind     ShapeKind
	body     *Body
	material Material
	group    int

	radius float64
	offset Vec2

	a, b      Vec2
	thickness float64

	verts    []Vec2
	normals  []Vec2
	centroid Vec2
	area     float64
	extent   float64

	// world-space cache, refreshed by update
	wCenter  Vec2
	wA, wB   Vec2
	wVerts   []Vec2
	wNormals []Vec2
	bounds   AABB
}

// NewCircle builds a circle of the given radius centred at offset in the
// body frame.
func NewCircle(radius float64, offset Vec2, mat Material) (*Shape, error) {
	if !isFinite(radius) || radius <= 0 {
		return nil, configError("radius", "must be positive, got %g", radius)
	}
	if !finiteVec(offset) {
		return nil, configError("offset", "must be finite")
	}
	if err := mat.validate(); err != nil {
		return nil, err
	}
	return &Shape{
		kind:     CircleShape,
		material: mat,
		radius:   radius,
		offset:   offset,
		area:     math.Pi * radius * radius,
		extent:   radius,
	}, nil
}

// NewSegment builds a wall from a to b with the given thickness. Segments
// may only be attached to static bodies.
func NewSegment(a, b Vec2, thickness float64, mat Material) (*Shape, error) {
	if !finiteVec(a) || !finiteVec(b) {
		return nil, configError("segment", "endpoints must be finite")
	}
	if b.Sub(a).Len() < epsilon {
		return nil, configErrorWrap("segment", ErrDegenerateGeometry, "endpoints coincide")
	}
	if !isFinite(thickness) || thickness < 0 {
		return nil, configError("thickness", "must be non-negative, got %g", thickness)
	}
	if err := mat.validate(); err != nil {
		return nil, err
	}
	return &Shape{
		kind:      SegmentShape,
		material:  mat,
		a:         a,
		b:         b,
		thickness: thickness,
		extent:    b.Sub(a).Len()/2 + thickness/2,
	}, nil
}

// NewPolygon builds a convex polygon. Clockwise input is reversed; collinear,
// degenerate or non-convex input is rejected. The vertices are shifted so
// their centroid sits on the body origin; Centroid reports the shift.
func NewPolygon(verts []Vec2, mat Material) (*Shape, error) {
	n := len(verts)
	if n < 3 {
		return nil, configErrorWrap("polygon", ErrDegenerateGeometry, "needs at least 3 vertices, got %d", n)
	}
	vs := make([]Vec2, n)
	for i, v := range verts {
		if !finiteVec(v) {
			return nil, configError("polygon", "vertex %d is not finite", i)
		}
		vs[i] = v
	}

	area := signedArea(vs)
	if math.Abs(area) < epsilon {
		return nil, configErrorWrap("polygon", ErrDegenerateGeometry, "zero area")
	}
	if area < 0 {
		for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
			vs[i], vs[j] = vs[j], vs[i]
		}
		area = -area
	}

	c := centroid(vs, area)
	for i := range vs {
		vs[i] = vs[i].Sub(c)
	}

	normals := make([]Vec2, n)
	extent := 0.0
	for i := range vs {
		prev, cur, next := vs[(i+n-1)%n], vs[i], vs[(i+1)%n]
		if Cross(cur.Sub(prev), next.Sub(cur)) <= epsilon {
			return nil, configError("polygon", "vertex %d breaks strict convexity", i)
		}
		edge, _ := normalize(next.Sub(cur))
		normals[i] = Vec2{edge[1], -edge[0]}
		extent = math.Max(extent, cur.Len())
	}

	if err := mat.validate(); err != nil {
		return nil, err
	}
	return &Shape{
		kind:     PolygonShape,
		material: mat,
		verts:    vs,
		normals:  normals,
		centroid: c,
		area:     area,
		extent:   extent,
	}, nil
}

// NewBox builds a w x h rectangle centred on the body origin.
func NewBox(w, h float64, mat Material) (*Shape, error) {
	if !isFinite(w, h) || w <= 0 || h <= 0 {
		return nil, configError("box", "width and height must be positive, got %gx%g", w, h)
	}
	hw, hh := w/2, h/2
	return NewPolygon([]Vec2{{-hw, -hh}, {hw, -hh}, {hw, hh}, {-hw, hh}}, mat)
}

// centroid of a counter-clockwise polygon with the given positive area.
func centroid(vs []Vec2, area float64) Vec2 {
	var sum Vec2
	for i := range vs {
		a, b := vs[i], vs[(i+1)%len(vs)]
		sum = sum.Add(a.Add(b).Mul(Cross(a, b)))
	}
	return sum.Mul(1 / (6 * area))
}

func signedArea(vs []Vec2) float64 {
	sum := 0.0
	for i := range vs {
		sum += Cross(vs[i], vs[(i+1)%len(vs)])
	}
	return sum / 2
}

func (s *Shape) Kind() ShapeKind        { return s.kind }
func (s *Shape) Body() *Body            { return s.body }
func (s *Shape) Material() Material     { return s.material }
func (s *Shape) Radius() float64        { return s.radius }
func (s *Shape) Offset() Vec2           { return s.offset }
func (s *Shape) Thickness() float64     { return s.thickness }
func (s *Shape) Endpoints() (a, b Vec2) { return s.a, s.b }
func (s *Shape) Group() int             { return s.group }

// SetGroup assigns a collision group. Shapes sharing a non-zero group never
// collide with each other.
func (s *Shape) SetGroup(g int) { s.group = g }

// Vertices returns a copy of the polygon vertices in the body frame.
func (s *Shape) Vertices() []Vec2 {
	out := make([]Vec2, len(s.verts))
	copy(out, s.verts)
	return out
}

// Centroid is the offset subtracted from a polygon's input vertices. A body
// placed at input-origin + Rotate(Centroid, angle) keeps the vertices where
// they were given.
func (s *Shape) Centroid() Vec2 { return s.centroid }

// Area is zero for segments.
func (s *Shape) Area() float64 { return s.area }

// moment returns the second moment about the body origin for the given mass.
// For polygons the origin is the centroid.
func (s *Shape) moment(mass float64) float64 {
	switch s.kind {
	case CircleShape:
		return 0.5*mass*s.radius*s.radius + mass*s.offset.LenSqr()
	case PolygonShape:
		num, den := 0.0, 0.0
		for i := range s.verts {
			a, b := s.verts[i], s.verts[(i+1)%len(s.verts)]
			c := Cross(a, b)
			num += c * (a.Dot(a) + a.Dot(b) + b.Dot(b))
			den += c
		}
		if den == 0 {
			return 0
		}
		return mass / 6 * num / den
	default:
		return 0
	}
}

// WorldCenter returns the circle centre or the body position for other kinds.
func (s *Shape) WorldCenter() Vec2 {
	if s.body == nil {
		return s.offset
	}
	if s.kind == CircleShape {
		return s.body.LocalToWorld(s.offset)
	}
	return s.body.position
}

// WorldEndpoints returns the segment endpoints in world space.
func (s *Shape) WorldEndpoints() (a, b Vec2) {
	if s.body == nil {
		return s.a, s.b
	}
	return s.body.LocalToWorld(s.a), s.body.LocalToWorld(s.b)
}

// WorldVertices returns the polygon vertices in world space.
func (s *Shape) WorldVertices() []Vec2 {
	out := make([]Vec2, len(s.verts))
	for i, v := range s.verts {
		if s.body == nil {
			out[i] = v
		} else {
			out[i] = s.body.LocalToWorld(v)
		}
	}
	return out
}

// BoundingBox returns the world-space AABB as of the last update.
func (s *Shape) BoundingBox() AABB {
	s.update()
	return s.bounds
}

func (s *Shape) update() {
	if s.body == nil {
		return
	}
	switch s.kind {
	case CircleShape:
		s.wCenter = s.body.LocalToWorld(s.offset)
		r := Vec2{s.radius, s.radius}
		s.bounds = AABB{Min: s.wCenter.Sub(r), Max: s.wCenter.Add(r)}
	case SegmentShape:
		s.wA, s.wB = s.WorldEndpoints()
		h := s.thickness / 2
		s.bounds = AABB{
			Min: Vec2{math.Min(s.wA[0], s.wB[0]) - h, math.Min(s.wA[1], s.wB[1]) - h},
			Max: Vec2{math.Max(s.wA[0], s.wB[0]) + h, math.Max(s.wA[1], s.wB[1]) + h},
		}
	case PolygonShape:
		if len(s.wVerts) != len(s.verts) {
			s.wVerts = make([]Vec2, len(s.verts))
			s.wNormals = make([]Vec2, len(s.verts))
		}
		s.wCenter = s.body.position
		lo := Vec2{math.Inf(1), math.Inf(1)}
		hi := Vec2{math.Inf(-1), math.Inf(-1)}
		for i, v := range s.verts {
			w := s.body.LocalToWorld(v)
			s.wVerts[i] = w
			s.wNormals[i] = Rotate(s.normals[i], s.body.angle)
			lo = Vec2{math.Min(lo[0], w[0]), math.Min(lo[1], w[1])}
			hi = Vec2{math.Max(hi[0], w[0]), math.Max(hi[1], w[1])}
		}
		s.bounds = AABB{Min: lo, Max: hi}
	}
}
