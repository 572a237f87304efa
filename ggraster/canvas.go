// Package ggraster draws bota maps and hit-test bitmaps with the pure-Go
// gogpu/gg renderer. It needs no window or GPU, so it suits snapshot tools,
// servers and tests.
package ggraster

import (
	"image"
	"io"

	"github.com/eltonkola/bota"
	"github.com/gogpu/gg"
)

// Canvas is a bota.Canvas backed by a gg.Context.
type Canvas struct {
	ctx *gg.Context
}

// NewCanvas creates a w x h canvas. Dimensions below 1 are raised to 1.
func NewCanvas(w, h int) *Canvas {
	return &Canvas{ctx: gg.NewContext(max(w, 1), max(h, 1))}
}

// Context exposes the underlying gg context for extra drawing.
func (c *Canvas) Context() *gg.Context { return c.ctx }

// Width returns the canvas width in pixels.
func (c *Canvas) Width() int { return c.ctx.Width() }

// Height returns the canvas height in pixels.
func (c *Canvas) Height() int { return c.ctx.Height() }

// Clear implements bota.Canvas.
func (c *Canvas) Clear(col bota.Color) {
	c.ctx.ClearWithColor(toGG(col))
}

// FillPath implements bota.Canvas. Paths fill with the nonzero rule.
func (c *Canvas) FillPath(p *bota.Path, m [6]float64, col bota.Color) {
	fillPath(c.ctx, p, m, col)
}

// StrokePath implements bota.Canvas. width is in path units and is scaled
// by m like the geometry.
func (c *Canvas) StrokePath(p *bota.Path, m [6]float64, width float64, col bota.Color) {
	w := width * bota.UniformScale(m)
	if w <= 0 || col.A <= 0 {
		return
	}
	c.ctx.ClearPath()
	bota.WalkPath(p, m, sink{c.ctx})
	c.ctx.SetColor(toGG(col))
	c.ctx.SetLineWidth(w)
	c.ctx.SetLineJoin(gg.LineJoinRound)
	c.ctx.SetLineCap(gg.LineCapRound)
	if err := c.ctx.Stroke(); err != nil {
		bota.Logger().Warn("ggraster: stroke failed", "error", err)
	}
	c.ctx.ClearPath()
}

// Image returns the rendered pixels.
func (c *Canvas) Image() image.Image {
	c.flush()
	return c.ctx.Image()
}

// EncodePNG writes the canvas to w as PNG.
func (c *Canvas) EncodePNG(w io.Writer) error {
	c.flush()
	return c.ctx.EncodePNG(w)
}

// Close releases the context.
func (c *Canvas) Close() error {
	return c.ctx.Close()
}

func (c *Canvas) flush() {
	if err := c.ctx.FlushGPU(); err != nil {
		bota.Logger().Warn("ggraster: flush failed", "error", err)
	}
}

func fillPath(ctx *gg.Context, p *bota.Path, m [6]float64, col bota.Color) {
	if col.A <= 0 {
		return
	}
	ctx.ClearPath()
	bota.WalkPath(p, m, sink{ctx})
	ctx.SetColor(toGG(col))
	ctx.SetFillRule(gg.FillRuleNonZero)
	if err := ctx.Fill(); err != nil {
		bota.Logger().Warn("ggraster: fill failed", "error", err)
	}
	ctx.ClearPath()
}

// sink adapts gg.Context to bota.PathSink. The context transform stays at
// identity; WalkPath has already applied the matrix.
type sink struct{ ctx *gg.Context }

func (s sink) MoveTo(x, y float64) { s.ctx.MoveTo(x, y) }
func (s sink) LineTo(x, y float64) { s.ctx.LineTo(x, y) }

func (s sink) QuadTo(cx, cy, x, y float64) { s.ctx.QuadraticTo(cx, cy, x, y) }

func (s sink) CubicTo(c1x, c1y, c2x, c2y, x, y float64) {
	s.ctx.CubicTo(c1x, c1y, c2x, c2y, x, y)
}

func (s sink) Close() { s.ctx.ClosePath() }

func toGG(c bota.Color) gg.RGBA {
	return gg.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}
