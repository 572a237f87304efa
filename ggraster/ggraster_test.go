package ggraster

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/eltonkola/bota"
)

var identity = [6]float64{1, 0, 0, 1, 0, 0}

func TestRasterizerFillAndRead(t *testing.T) {
	r := NewRasterizer()
	defer r.Close()

	b := r.NewBitmap(20, 20)
	defer b.Release()

	if b.Width() != 20 || b.Height() != 20 {
		t.Fatalf("size = %dx%d, want 20x20", b.Width(), b.Height())
	}
	if c := r.ReadPixel(b, 10, 10); c.R != 0 || c.G != 0 || c.B != 0 {
		t.Errorf("fresh bitmap pixel = %+v, want black", c)
	}

	r.FillPath(b, bota.RectPath(5, 5, 10, 10), identity, bota.ColorWhite)

	if c := r.ReadPixel(b, 10, 10); c.R < 0.5 {
		t.Errorf("inside pixel = %+v, want white", c)
	}
	if c := r.ReadPixel(b, 1, 1); c.R > 0.5 {
		t.Errorf("outside pixel = %+v, want black", c)
	}
	if c := r.ReadPixel(b, -1, 40); c != bota.ColorBlack {
		t.Errorf("out of range pixel = %+v, want black", c)
	}
}

func TestRasterizerAppliesMatrix(t *testing.T) {
	r := NewRasterizer()
	defer r.Close()

	b := r.NewBitmap(40, 40)
	defer b.Release()

	// Unit square scaled by 10 and shifted to (20, 20).
	m := [6]float64{10, 0, 0, 10, 20, 20}
	r.FillPath(b, bota.RectPath(0, 0, 1, 1), m, bota.ColorWhite)

	if c := r.ReadPixel(b, 25, 25); c.R < 0.5 {
		t.Errorf("pixel (25,25) = %+v, want white", c)
	}
	if c := r.ReadPixel(b, 5, 5); c.R > 0.5 {
		t.Errorf("pixel (5,5) = %+v, want black", c)
	}
}

func TestRasterizerReusesReleasedBitmaps(t *testing.T) {
	r := NewRasterizer()
	defer r.Close()

	b := r.NewBitmap(8, 8)
	r.FillPath(b, bota.RectPath(0, 0, 8, 8), identity, bota.ColorWhite)
	b.Release()
	b.Release() // second release is a no-op

	if n := len(r.free[[2]int{8, 8}]); n != 1 {
		t.Fatalf("pooled = %d, want 1", n)
	}

	b2 := r.NewBitmap(8, 8)
	defer b2.Release()
	if n := len(r.free[[2]int{8, 8}]); n != 0 {
		t.Errorf("pooled after reuse = %d, want 0", n)
	}
	if c := r.ReadPixel(b2, 4, 4); c.R > 0.5 {
		t.Errorf("reused bitmap not cleared: %+v", c)
	}
}

func TestPixelPerfectWithGG(t *testing.T) {
	ds, err := bota.LoadShapes(20, 20, []bota.RawEntity{
		{ID: "A", Name: "Alpha", Paths: []string{"M0 0 H10 V10 H0 Z"}},
		{ID: "B", Name: "Beta", Paths: []string{"M5 5 H15 V15 H5 Z"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	r := NewRasterizer()
	defer r.Close()
	strategy := bota.PixelPerfect{Rasterizer: r}

	tests := []struct {
		p    bota.Vec2
		want string
	}{
		{bota.Vec2{X: 7.5, Y: 7.5}, "B"},
		{bota.Vec2{X: 2, Y: 2}, "A"},
		{bota.Vec2{X: 12, Y: 12}, "B"},
		{bota.Vec2{X: 18, Y: 2}, ""},
	}
	for _, tt := range tests {
		got := bota.HitTest(tt.p, ds.Entities(), strategy)
		id := ""
		if got != nil {
			id = got.ID
		}
		if id != tt.want {
			t.Errorf("HitTest(%v) = %q, want %q", tt.p, id, tt.want)
		}
	}
}

func TestCanvasRendersMap(t *testing.T) {
	ds, err := bota.LoadShapes(20, 20, []bota.RawEntity{
		{ID: "A", Paths: []string{"M0 0 H10 V10 H0 Z"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	vp := bota.NewViewport(20, 20)
	vp.Resize(100, 100)

	c := NewCanvas(100, 100)
	defer c.Close()

	style := bota.DefaultStyle()
	style.Highlight = bota.RGB(0xff0000)
	style.Background = bota.ColorWhite
	r := bota.NewRenderer(style)
	r.Render(c, ds, vp, bota.NewSelection("A"))

	img := c.Image()
	if got := img.Bounds().Dx(); got != 100 {
		t.Fatalf("image width = %d, want 100", got)
	}
	// Entity A covers the top-left quarter of the display.
	cr, cg, _, _ := img.At(25, 25).RGBA()
	if cr>>8 < 200 || cg>>8 > 60 {
		t.Errorf("highlighted pixel = %d,%d, want red", cr>>8, cg>>8)
	}
	br, bg, _, _ := img.At(75, 75).RGBA()
	if br>>8 < 250 || bg>>8 < 250 {
		t.Errorf("background pixel = %d,%d, want white", br>>8, bg>>8)
	}

	var buf bytes.Buffer
	if err := c.EncodePNG(&buf); err != nil {
		t.Fatalf("EncodePNG: %v", err)
	}
	if _, err := png.Decode(&buf); err != nil {
		t.Fatalf("decode: %v", err)
	}
}

func TestCanvasSkipsInvisibleStroke(t *testing.T) {
	c := NewCanvas(10, 10)
	defer c.Close()
	c.Clear(bota.ColorWhite)
	c.StrokePath(bota.RectPath(1, 1, 8, 8), identity, 0, bota.ColorBlack)

	r, _, _, _ := c.Image().At(1, 1).RGBA()
	if r>>8 != 255 {
		t.Errorf("zero-width stroke drew: red = %d", r>>8)
	}
}
