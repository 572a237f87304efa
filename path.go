package bota

import (
	"fmt"
	"math"
)

// SegmentKind identifies a path drawing command.
type SegmentKind uint8

const (
	SegMoveTo  SegmentKind = iota // start a new subpath at P[0]
	SegLineTo                     // straight line to P[0]
	SegQuadTo                     // quadratic curve, control P[0], end P[1]
	SegCubicTo                    // cubic curve, controls P[0] P[1], end P[2]
	SegClose                      // close the current subpath
)

// Segment is a single drawing command in source units. Only the first
// N points of P are meaningful, where N depends on Kind.
type Segment struct {
	Kind SegmentKind
	P    [3]Vec2
}

// Path is an immutable outline in source space. Derived data (flattened
// subpaths, bounds, area) is computed once at construction and reused by
// every render and hit test.
type Path struct {
	segs     []Segment
	subpaths [][]Vec2
	bounds   Rect
	area     float64
}

// degenerateArea is the absolute area below which a path encloses nothing.
const degenerateArea = 1e-9

// NewPath builds a Path from segments. A drawing command before any MoveTo
// starts implicitly at the origin.
func NewPath(segs []Segment) *Path {
	p := &Path{segs: segs}
	p.flatten()
	p.computeBounds()
	p.computeArea()
	return p
}

// Segments returns the drawing commands. The slice must not be modified.
func (p *Path) Segments() []Segment { return p.segs }

// Subpaths returns the flattened polylines, one per subpath. Closing edges
// are implicit. The slices must not be modified.
func (p *Path) Subpaths() [][]Vec2 { return p.subpaths }

// Bounds returns the axis-aligned bounds of the flattened outline.
func (p *Path) Bounds() Rect { return p.bounds }

// Area returns the summed absolute area of all subpaths.
func (p *Path) Area() float64 { return p.area }

// Degenerate reports whether the path encloses no area. Degenerate paths
// render as strokes only and never match a hit test.
func (p *Path) Degenerate() bool { return p.area < degenerateArea }

// Validate returns ErrDegenerateGeometry for a path that encloses no area.
func (p *Path) Validate() error {
	if p.Degenerate() {
		return fmt.Errorf("path with %d segments: %w", len(p.segs), ErrDegenerateGeometry)
	}
	return nil
}

// flatten converts curves into polylines.
func (p *Path) flatten() {
	var cur []Vec2
	var pen, start Vec2

	flush := func() {
		if len(cur) > 0 {
			p.subpaths = append(p.subpaths, cur)
		}
		cur = nil
	}

	for _, s := range p.segs {
		switch s.Kind {
		case SegMoveTo:
			flush()
			pen, start = s.P[0], s.P[0]
			cur = []Vec2{pen}
		case SegLineTo:
			if cur == nil {
				cur = []Vec2{pen}
			}
			pen = s.P[0]
			cur = append(cur, pen)
		case SegQuadTo:
			if cur == nil {
				cur = []Vec2{pen}
			}
			cur = appendQuad(cur, pen, s.P[0], s.P[1])
			pen = s.P[1]
		case SegCubicTo:
			if cur == nil {
				cur = []Vec2{pen}
			}
			cur = appendCubic(cur, pen, s.P[0], s.P[1], s.P[2])
			pen = s.P[2]
		case SegClose:
			flush()
			pen = start
		}
	}
	flush()
}

// curveSteps picks a subdivision count from the control polygon length.
func curveSteps(length float64) int {
	n := int(math.Ceil(math.Sqrt(length) * 2))
	if n < 4 {
		return 4
	}
	if n > 64 {
		return 64
	}
	return n
}

func dist(a, b Vec2) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

func appendQuad(dst []Vec2, p0, p1, p2 Vec2) []Vec2 {
	n := curveSteps(dist(p0, p1) + dist(p1, p2))
	for i := 1; i <= n; i++ {
		dst = append(dst, quadAt(p0, p1, p2, float64(i)/float64(n)))
	}
	return dst
}

func appendCubic(dst []Vec2, p0, p1, p2, p3 Vec2) []Vec2 {
	n := curveSteps(dist(p0, p1) + dist(p1, p2) + dist(p2, p3))
	for i := 1; i <= n; i++ {
		dst = append(dst, cubicAt(p0, p1, p2, p3, float64(i)/float64(n)))
	}
	return dst
}

// computeBounds takes the exact extent of every segment, curve extrema
// included, so the bounds contain everything a rasterizer fills.
func (p *Path) computeBounds() {
	var bb boundsAcc
	var pen, start Vec2
	open := false
	begin := func() {
		if !open {
			bb.add(pen)
			open = true
		}
	}
	for _, s := range p.segs {
		switch s.Kind {
		case SegMoveTo:
			pen, start = s.P[0], s.P[0]
			bb.add(pen)
			open = true
		case SegLineTo:
			begin()
			pen = s.P[0]
			bb.add(pen)
		case SegQuadTo:
			begin()
			for _, t := range quadExtrema(pen, s.P[0], s.P[1]) {
				bb.add(quadAt(pen, s.P[0], s.P[1], t))
			}
			pen = s.P[1]
			bb.add(pen)
		case SegCubicTo:
			begin()
			for _, t := range cubicExtrema(pen, s.P[0], s.P[1], s.P[2]) {
				bb.add(cubicAt(pen, s.P[0], s.P[1], s.P[2], t))
			}
			pen = s.P[2]
			bb.add(pen)
		case SegClose:
			pen = start
			open = false
		}
	}
	p.bounds = bb.rect()
}

type boundsAcc struct {
	minX, minY, maxX, maxY float64
	any                    bool
}

func (b *boundsAcc) add(v Vec2) {
	if !b.any {
		b.minX, b.minY, b.maxX, b.maxY = v.X, v.Y, v.X, v.Y
		b.any = true
		return
	}
	b.minX = math.Min(b.minX, v.X)
	b.minY = math.Min(b.minY, v.Y)
	b.maxX = math.Max(b.maxX, v.X)
	b.maxY = math.Max(b.maxY, v.Y)
}

func (b *boundsAcc) rect() Rect {
	return Rect{X: b.minX, Y: b.minY, Width: b.maxX - b.minX, Height: b.maxY - b.minY}
}

func quadAt(p0, p1, p2 Vec2, t float64) Vec2 {
	mt := 1 - t
	return Vec2{
		X: mt*mt*p0.X + 2*mt*t*p1.X + t*t*p2.X,
		Y: mt*mt*p0.Y + 2*mt*t*p1.Y + t*t*p2.Y,
	}
}

func cubicAt(p0, p1, p2, p3 Vec2, t float64) Vec2 {
	mt := 1 - t
	a, b, c, d := mt*mt*mt, 3*mt*mt*t, 3*mt*t*t, t*t*t
	return Vec2{
		X: a*p0.X + b*p1.X + c*p2.X + d*p3.X,
		Y: a*p0.Y + b*p1.Y + c*p2.Y + d*p3.Y,
	}
}

// quadExtrema returns the parameters in (0, 1) where either coordinate of
// the quadratic has a zero derivative.
func quadExtrema(p0, p1, p2 Vec2) []float64 {
	var ts []float64
	for _, c := range [][3]float64{{p0.X, p1.X, p2.X}, {p0.Y, p1.Y, p2.Y}} {
		den := c[0] - 2*c[1] + c[2]
		if den == 0 {
			continue
		}
		if t := (c[0] - c[1]) / den; t > 0 && t < 1 {
			ts = append(ts, t)
		}
	}
	return ts
}

// cubicExtrema returns the parameters in (0, 1) where either coordinate of
// the cubic has a zero derivative.
func cubicExtrema(p0, p1, p2, p3 Vec2) []float64 {
	var ts []float64
	for _, c := range [][4]float64{{p0.X, p1.X, p2.X, p3.X}, {p0.Y, p1.Y, p2.Y, p3.Y}} {
		// B'(t)/3 = a*t^2 + b*t + k
		a := -c[0] + 3*c[1] - 3*c[2] + c[3]
		b := 2 * (c[0] - 2*c[1] + c[2])
		k := c[1] - c[0]
		for _, t := range quadraticRoots(a, b, k) {
			if t > 0 && t < 1 {
				ts = append(ts, t)
			}
		}
	}
	return ts
}

// quadraticRoots solves a*t^2 + b*t + c = 0, degrading to the linear case.
func quadraticRoots(a, b, c float64) []float64 {
	if math.Abs(a) < 1e-12 {
		if b == 0 {
			return nil
		}
		return []float64{-c / b}
	}
	disc := b*b - 4*a*c
	if disc < 0 {
		return nil
	}
	sq := math.Sqrt(disc)
	return []float64{(-b + sq) / (2 * a), (-b - sq) / (2 * a)}
}

func (p *Path) computeArea() {
	total := 0.0
	for _, sp := range p.subpaths {
		total += math.Abs(signedArea(sp))
	}
	p.area = total
}

// signedArea is the shoelace area of a polyline with an implicit closing edge.
func signedArea(pts []Vec2) float64 {
	if len(pts) < 3 {
		return 0
	}
	sum := 0.0
	j := len(pts) - 1
	for i := range pts {
		sum += (pts[j].X + pts[i].X) * (pts[j].Y - pts[i].Y)
		j = i
	}
	return sum / 2
}

// PathBuilder accumulates segments for NewPath.
type PathBuilder struct {
	segs []Segment
}

// MoveTo starts a new subpath.
func (b *PathBuilder) MoveTo(x, y float64) *PathBuilder {
	b.segs = append(b.segs, Segment{Kind: SegMoveTo, P: [3]Vec2{{x, y}}})
	return b
}

// LineTo adds a straight line.
func (b *PathBuilder) LineTo(x, y float64) *PathBuilder {
	b.segs = append(b.segs, Segment{Kind: SegLineTo, P: [3]Vec2{{x, y}}})
	return b
}

// QuadTo adds a quadratic curve.
func (b *PathBuilder) QuadTo(cx, cy, x, y float64) *PathBuilder {
	b.segs = append(b.segs, Segment{Kind: SegQuadTo, P: [3]Vec2{{cx, cy}, {x, y}}})
	return b
}

// CubicTo adds a cubic curve.
func (b *PathBuilder) CubicTo(c1x, c1y, c2x, c2y, x, y float64) *PathBuilder {
	b.segs = append(b.segs, Segment{Kind: SegCubicTo, P: [3]Vec2{{c1x, c1y}, {c2x, c2y}, {x, y}}})
	return b
}

// Close closes the current subpath.
func (b *PathBuilder) Close() *PathBuilder {
	b.segs = append(b.segs, Segment{Kind: SegClose})
	return b
}

// Path returns the built Path. The builder may be reused afterwards.
func (b *PathBuilder) Path() *Path {
	segs := b.segs
	b.segs = nil
	return NewPath(segs)
}

// RectPath returns a closed rectangular path. Handy for tests and overlays.
func RectPath(x, y, w, h float64) *Path {
	var b PathBuilder
	return b.MoveTo(x, y).LineTo(x+w, y).LineTo(x+w, y+h).LineTo(x, y+h).Close().Path()
}
