package bota

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
)

// EbitenRasterizer rasterizes hit-test bitmaps on the GPU through ebiten
// and reads pixels back. It is only usable while the ebiten game loop is
// running; headless code should use VectorRasterizer. Offscreen images are
// pooled by power-of-two size.
type EbitenRasterizer struct {
	canvas  EbitenCanvas
	buckets map[uint64][]*ebiten.Image
	pix     [4]byte
}

// NewEbitenRasterizer creates an EbitenRasterizer.
func NewEbitenRasterizer() *EbitenRasterizer {
	return &EbitenRasterizer{canvas: EbitenCanvas{AntiAlias: true}}
}

type ebitenBitmap struct {
	img   *ebiten.Image
	w, h  int
	owner *EbitenRasterizer
}

func (b *ebitenBitmap) Width() int  { return b.w }
func (b *ebitenBitmap) Height() int { return b.h }

func (b *ebitenBitmap) Release() {
	if b.owner == nil || b.img == nil {
		return
	}
	// Cleared on next NewBitmap, not here.
	bounds := b.img.Bounds()
	key := poolKey(bounds.Dx(), bounds.Dy())
	if b.owner.buckets == nil {
		b.owner.buckets = make(map[uint64][]*ebiten.Image)
	}
	b.owner.buckets[key] = append(b.owner.buckets[key], b.img)
	b.img = nil
}

// NewBitmap implements Rasterizer.
func (r *EbitenRasterizer) NewBitmap(w, h int) Bitmap {
	w, h = max(w, 1), max(h, 1)
	pw, ph := nextPowerOfTwo(w), nextPowerOfTwo(h)
	key := poolKey(pw, ph)

	var img *ebiten.Image
	if stack := r.buckets[key]; len(stack) > 0 {
		img = stack[len(stack)-1]
		r.buckets[key] = stack[:len(stack)-1]
	} else {
		img = ebiten.NewImageWithOptions(
			image.Rect(0, 0, pw, ph),
			&ebiten.NewImageOptions{Unmanaged: true},
		)
	}
	img.Fill(ColorBlack.toRGBA())
	return &ebitenBitmap{img: img, w: w, h: h, owner: r}
}

// FillPath implements Rasterizer.
func (r *EbitenRasterizer) FillPath(b Bitmap, p *Path, m [6]float64, c Color) {
	eb, ok := b.(*ebitenBitmap)
	if !ok || eb.img == nil {
		return
	}
	r.canvas.Target = eb.img
	r.canvas.FillPath(p, m, c)
	r.canvas.Target = nil
}

// ReadPixel implements Rasterizer.
func (r *EbitenRasterizer) ReadPixel(b Bitmap, x, y int) Color {
	eb, ok := b.(*ebitenBitmap)
	if !ok || eb.img == nil || x < 0 || y < 0 || x >= eb.w || y >= eb.h {
		return ColorBlack
	}
	sub := eb.img.SubImage(image.Rect(x, y, x+1, y+1)).(*ebiten.Image)
	sub.ReadPixels(r.pix[:])
	return Color{
		R: float64(r.pix[0]) / 255,
		G: float64(r.pix[1]) / 255,
		B: float64(r.pix[2]) / 255,
		A: float64(r.pix[3]) / 255,
	}
}
