package bota

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// --- White image singleton (no sync.Once; drawing is single-threaded) ---

var whiteImage *ebiten.Image

// ensureWhiteSubImage returns the centre pixel of a lazily created 3x3
// white image. Sampling the centre avoids bleeding at the edges.
func ensureWhiteSubImage() *ebiten.Image {
	if whiteImage == nil {
		whiteImage = ebiten.NewImage(3, 3)
		whiteImage.Fill(color.White)
	}
	return whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
}

// EbitenCanvas draws paths onto an ebiten image by tessellating them with
// ebiten/v2/vector and submitting DrawTriangles calls. Vertex and index
// buffers are reused across calls.
type EbitenCanvas struct {
	Target    *ebiten.Image
	AntiAlias bool

	verts []ebiten.Vertex
	inds  []uint16
}

// NewEbitenCanvas returns a canvas drawing onto target with anti-aliasing.
func NewEbitenCanvas(target *ebiten.Image) *EbitenCanvas {
	return &EbitenCanvas{Target: target, AntiAlias: true}
}

// ebitenSink adapts vector.Path to PathSink.
type ebitenSink struct{ p *vector.Path }

func (s ebitenSink) MoveTo(x, y float64) { s.p.MoveTo(float32(x), float32(y)) }
func (s ebitenSink) LineTo(x, y float64) { s.p.LineTo(float32(x), float32(y)) }
func (s ebitenSink) QuadTo(cx, cy, x, y float64) {
	s.p.QuadTo(float32(cx), float32(cy), float32(x), float32(y))
}
func (s ebitenSink) CubicTo(c1x, c1y, c2x, c2y, x, y float64) {
	s.p.CubicTo(float32(c1x), float32(c1y), float32(c2x), float32(c2y), float32(x), float32(y))
}
func (s ebitenSink) Close() { s.p.Close() }

// Clear implements Canvas.
func (c *EbitenCanvas) Clear(col Color) {
	if c.Target == nil {
		return
	}
	c.Target.Fill(col.toRGBA())
}

// FillPath implements Canvas.
func (c *EbitenCanvas) FillPath(p *Path, m [6]float64, col Color) {
	if c.Target == nil {
		return
	}
	var vp vector.Path
	WalkPath(p, m, ebitenSink{&vp})
	c.verts, c.inds = vp.AppendVerticesAndIndicesForFilling(c.verts[:0], c.inds[:0])
	c.submit(col)
}

// StrokePath implements Canvas. width is in source units and is scaled by m.
func (c *EbitenCanvas) StrokePath(p *Path, m [6]float64, width float64, col Color) {
	if c.Target == nil {
		return
	}
	var vp vector.Path
	WalkPath(p, m, ebitenSink{&vp})
	op := &vector.StrokeOptions{
		Width:    float32(width * UniformScale(m)),
		LineJoin: vector.LineJoinRound,
		LineCap:  vector.LineCapRound,
	}
	c.verts, c.inds = vp.AppendVerticesAndIndicesForStroke(c.verts[:0], c.inds[:0], op)
	c.submit(col)
}

func (c *EbitenCanvas) submit(col Color) {
	if len(c.inds) == 0 {
		return
	}
	for i := range c.verts {
		v := &c.verts[i]
		v.SrcX, v.SrcY = 1, 1
		v.ColorR = float32(col.R)
		v.ColorG = float32(col.G)
		v.ColorB = float32(col.B)
		v.ColorA = float32(col.A)
	}
	op := &ebiten.DrawTrianglesOptions{
		FillRule:  ebiten.FillRuleNonZero,
		AntiAlias: c.AntiAlias,
	}
	c.Target.DrawTriangles(c.verts, c.inds, ensureWhiteSubImage(), op)
}
