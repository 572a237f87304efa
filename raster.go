package bota

import (
	"image"
	"image/draw"
	"math"
	"sync"

	"golang.org/x/image/vector"
)

// Bitmap is an offscreen raster owned by a Rasterizer. Release returns it to
// the rasterizer's pool; the bitmap must not be used afterwards.
type Bitmap interface {
	Width() int
	Height() int
	Release()
}

// Rasterizer turns paths into pixels for pixel-perfect hit testing.
//
// NewBitmap returns an opaque black bitmap. FillPath fills p in colour c
// after transforming it by m (source units to bitmap pixels). ReadPixel
// returns the colour at (x, y), or black outside the bitmap.
type Rasterizer interface {
	NewBitmap(w, h int) Bitmap
	FillPath(b Bitmap, p *Path, m [6]float64, c Color)
	ReadPixel(b Bitmap, x, y int) Color
}

// PathSink receives transformed drawing commands from WalkPath.
type PathSink interface {
	MoveTo(x, y float64)
	LineTo(x, y float64)
	QuadTo(cx, cy, x, y float64)
	CubicTo(c1x, c1y, c2x, c2y, x, y float64)
	Close()
}

// WalkPath replays p through m into sink. A drawing command with no open
// subpath starts one at the current point.
func WalkPath(p *Path, m [6]float64, sink PathSink) {
	var pen, start Vec2
	open := false
	ensure := func() {
		if !open {
			x, y := transformPoint(m, pen.X, pen.Y)
			sink.MoveTo(x, y)
			start = pen
			open = true
		}
	}
	for _, s := range p.segs {
		switch s.Kind {
		case SegMoveTo:
			pen, start = s.P[0], s.P[0]
			x, y := transformPoint(m, pen.X, pen.Y)
			sink.MoveTo(x, y)
			open = true
		case SegLineTo:
			ensure()
			pen = s.P[0]
			x, y := transformPoint(m, pen.X, pen.Y)
			sink.LineTo(x, y)
		case SegQuadTo:
			ensure()
			cx, cy := transformPoint(m, s.P[0].X, s.P[0].Y)
			pen = s.P[1]
			x, y := transformPoint(m, pen.X, pen.Y)
			sink.QuadTo(cx, cy, x, y)
		case SegCubicTo:
			ensure()
			c1x, c1y := transformPoint(m, s.P[0].X, s.P[0].Y)
			c2x, c2y := transformPoint(m, s.P[1].X, s.P[1].Y)
			pen = s.P[2]
			x, y := transformPoint(m, pen.X, pen.Y)
			sink.CubicTo(c1x, c1y, c2x, c2y, x, y)
		case SegClose:
			if open {
				sink.Close()
			}
			pen = start
			open = false
		}
	}
}

// --- x/image/vector backend ---

// VectorRasterizer is the default headless Rasterizer, backed by
// golang.org/x/image/vector. Bitmaps are pooled by power-of-two size so
// repeated taps do not allocate after warmup. Not safe for concurrent use.
type VectorRasterizer struct {
	z       *vector.Rasterizer
	buckets map[uint64][]*image.RGBA
}

// NewVectorRasterizer creates an empty VectorRasterizer.
func NewVectorRasterizer() *VectorRasterizer {
	return &VectorRasterizer{z: vector.NewRasterizer(0, 0)}
}

type vectorBitmap struct {
	img   *image.RGBA
	w, h  int
	owner *VectorRasterizer
}

func (b *vectorBitmap) Width() int  { return b.w }
func (b *vectorBitmap) Height() int { return b.h }

func (b *vectorBitmap) Release() {
	if b.owner == nil || b.img == nil {
		return
	}
	b.owner.release(b.img)
	b.img = nil
}

// poolKey packs power-of-two width and height into a single uint64.
func poolKey(w, h int) uint64 {
	return uint64(w)<<32 | uint64(h)
}

// nextPowerOfTwo returns the smallest power of two >= n (minimum 1).
func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << int(math.Ceil(math.Log2(float64(n))))
}

// NewBitmap implements Rasterizer.
func (r *VectorRasterizer) NewBitmap(w, h int) Bitmap {
	w, h = max(w, 1), max(h, 1)
	pw, ph := nextPowerOfTwo(w), nextPowerOfTwo(h)
	key := poolKey(pw, ph)

	var img *image.RGBA
	if stack := r.buckets[key]; len(stack) > 0 {
		img = stack[len(stack)-1]
		r.buckets[key] = stack[:len(stack)-1]
	} else {
		img = image.NewRGBA(image.Rect(0, 0, pw, ph))
	}
	draw.Draw(img, img.Bounds(), image.Black, image.Point{}, draw.Src)
	return &vectorBitmap{img: img, w: w, h: h, owner: r}
}

func (r *VectorRasterizer) release(img *image.RGBA) {
	if r.buckets == nil {
		r.buckets = make(map[uint64][]*image.RGBA)
	}
	b := img.Bounds()
	key := poolKey(b.Dx(), b.Dy())
	r.buckets[key] = append(r.buckets[key], img)
}

// pooled returns the number of idle bitmaps held by the pool.
func (r *VectorRasterizer) pooled() int {
	n := 0
	for _, s := range r.buckets {
		n += len(s)
	}
	return n
}

// vectorSink adapts vector.Rasterizer to PathSink. The rasterizer does not
// close subpaths itself, so open ones are closed before the next MoveTo and
// in finish.
type vectorSink struct {
	z    *vector.Rasterizer
	open bool
}

func (s *vectorSink) MoveTo(x, y float64) {
	s.finish()
	s.z.MoveTo(float32(x), float32(y))
	s.open = true
}

func (s *vectorSink) LineTo(x, y float64) { s.z.LineTo(float32(x), float32(y)) }

func (s *vectorSink) QuadTo(cx, cy, x, y float64) {
	s.z.QuadTo(float32(cx), float32(cy), float32(x), float32(y))
}

func (s *vectorSink) CubicTo(c1x, c1y, c2x, c2y, x, y float64) {
	s.z.CubeTo(float32(c1x), float32(c1y), float32(c2x), float32(c2y), float32(x), float32(y))
}

func (s *vectorSink) Close() {
	s.z.ClosePath()
	s.open = false
}

func (s *vectorSink) finish() {
	if s.open {
		s.z.ClosePath()
		s.open = false
	}
}

// FillPath implements Rasterizer.
func (r *VectorRasterizer) FillPath(b Bitmap, p *Path, m [6]float64, c Color) {
	vb, ok := b.(*vectorBitmap)
	if !ok || vb.img == nil {
		return
	}
	r.z.Reset(vb.w, vb.h)
	r.z.DrawOp = draw.Over
	sink := &vectorSink{z: r.z}
	WalkPath(p, m, sink)
	sink.finish()
	r.z.Draw(vb.img, image.Rect(0, 0, vb.w, vb.h), image.NewUniform(c.toRGBA()), image.Point{})
}

// ReadPixel implements Rasterizer.
func (r *VectorRasterizer) ReadPixel(b Bitmap, x, y int) Color {
	vb, ok := b.(*vectorBitmap)
	if !ok || vb.img == nil || x < 0 || y < 0 || x >= vb.w || y >= vb.h {
		return ColorBlack
	}
	px := vb.img.RGBAAt(x, y)
	return Color{
		R: float64(px.R) / 255,
		G: float64(px.G) / 255,
		B: float64(px.B) / 255,
		A: float64(px.A) / 255,
	}
}

// defaultRasterizers backs PixelPerfect strategies with no Rasterizer set.
var defaultRasterizers = sync.Pool{
	New: func() any { return NewVectorRasterizer() },
}
