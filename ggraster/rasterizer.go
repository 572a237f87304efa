package ggraster

import (
	"github.com/eltonkola/bota"
	"github.com/gogpu/gg"
)

// Rasterizer is a bota.Rasterizer that fills hit-test bitmaps with gg.
// Contexts are reused per exact size. Not safe for concurrent use.
type Rasterizer struct {
	free map[[2]int][]*gg.Context
}

// NewRasterizer creates an empty Rasterizer.
func NewRasterizer() *Rasterizer {
	return &Rasterizer{free: make(map[[2]int][]*gg.Context)}
}

type bitmap struct {
	ctx   *gg.Context
	owner *Rasterizer
}

func (b *bitmap) Width() int  { return b.ctx.Width() }
func (b *bitmap) Height() int { return b.ctx.Height() }

func (b *bitmap) Release() {
	if b.owner == nil || b.ctx == nil {
		return
	}
	key := [2]int{b.ctx.Width(), b.ctx.Height()}
	b.owner.free[key] = append(b.owner.free[key], b.ctx)
	b.ctx = nil
}

// NewBitmap implements bota.Rasterizer.
func (r *Rasterizer) NewBitmap(w, h int) bota.Bitmap {
	w, h = max(w, 1), max(h, 1)
	key := [2]int{w, h}
	var ctx *gg.Context
	if stack := r.free[key]; len(stack) > 0 {
		ctx = stack[len(stack)-1]
		r.free[key] = stack[:len(stack)-1]
	} else {
		ctx = gg.NewContext(w, h)
	}
	ctx.ClearWithColor(gg.Black)
	return &bitmap{ctx: ctx, owner: r}
}

// FillPath implements bota.Rasterizer.
func (r *Rasterizer) FillPath(b bota.Bitmap, p *bota.Path, m [6]float64, c bota.Color) {
	bm, ok := b.(*bitmap)
	if !ok || bm.ctx == nil {
		return
	}
	fillPath(bm.ctx, p, m, c)
}

// ReadPixel implements bota.Rasterizer.
func (r *Rasterizer) ReadPixel(b bota.Bitmap, x, y int) bota.Color {
	bm, ok := b.(*bitmap)
	if !ok || bm.ctx == nil || x < 0 || y < 0 || x >= bm.ctx.Width() || y >= bm.ctx.Height() {
		return bota.ColorBlack
	}
	if err := bm.ctx.FlushGPU(); err != nil {
		bota.Logger().Warn("ggraster: flush failed", "error", err)
	}
	px := bm.ctx.ResizeTarget().GetPixel(x, y)
	return bota.Color{R: px.R, G: px.G, B: px.B, A: px.A}
}

// Close releases every pooled context.
func (r *Rasterizer) Close() error {
	for key, stack := range r.free {
		for _, ctx := range stack {
			if err := ctx.Close(); err != nil {
				return err
			}
		}
		delete(r.free, key)
	}
	return nil
}
