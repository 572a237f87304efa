package bota

import (
	"math"
	"testing"

	"github.com/tanema/gween/ease"
)

func newTestViewport(w, h float64) *Viewport {
	v := NewViewport(2000, 1000)
	v.Resize(w, h)
	return v
}

func TestFitScale(t *testing.T) {
	tests := []struct {
		name   string
		iw, ih float64
		w, h   float64
		want   float64
		ok     bool
	}{
		{"width bound", 2000, 1000, 1000, 800, 0.5, true},
		{"height bound", 2000, 1000, 4000, 500, 0.5, true},
		{"square", 20, 20, 400, 400, 20, true},
		{"zero display", 20, 20, 0, 0, 0, false},
		{"zero width", 20, 20, 0, 400, 0, false},
		{"zero intrinsic", 0, 20, 400, 400, 0, false},
		{"negative", 20, 20, -5, 400, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewViewport(tt.iw, tt.ih)
			v.Resize(tt.w, tt.h)
			got, ok := v.FitScale()
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			assertNear(t, "fit", got, tt.want)
		})
	}
}

func TestViewportInitialViewIsCentred(t *testing.T) {
	v := newTestViewport(1000, 800)
	// fit 0.5: the 2000x1000 source becomes 1000x500, letterboxed by 150.
	tl, _ := v.SourceToScreen(0, 0)
	br, _ := v.SourceToScreen(2000, 1000)
	assertNear(t, "tl.x", tl.X, 0)
	assertNear(t, "tl.y", tl.Y, 150)
	assertNear(t, "br.x", br.X, 1000)
	assertNear(t, "br.y", br.Y, 650)

	vis, ok := v.VisibleSource()
	if !ok {
		t.Fatal("VisibleSource not ok")
	}
	assertNear(t, "vis.y", vis.Y, -300)
	assertNear(t, "vis.h", vis.Height, 1600)
}

func TestViewportScenarioTap(t *testing.T) {
	v := NewViewport(20, 20)
	v.Resize(400, 400)
	p, ok := v.ScreenToSource(150, 150)
	if !ok {
		t.Fatal("ScreenToSource not ok")
	}
	assertNear(t, "x", p.X, 7.5)
	assertNear(t, "y", p.Y, 7.5)
}

func TestViewportRoundTrip(t *testing.T) {
	v := newTestViewport(800, 600)
	v.ApplyZoom(3.7, 123, 456)
	v.ApplyPan(-40, 25)

	for _, p := range []Vec2{{0, 0}, {2000, 1000}, {1234.5, 67.25}, {-50, 3000}} {
		s, _ := v.SourceToScreen(p.X, p.Y)
		back, _ := v.ScreenToSource(s.X, s.Y)
		assertNearTol(t, "x", back.X, p.X, 1e-9)
		assertNearTol(t, "y", back.Y, p.Y, 1e-9)
	}
}

func TestViewportCanonicalFormula(t *testing.T) {
	v := newTestViewport(800, 600)
	v.SetState(2, Vec2{X: 30, Y: -20})
	// screen = C + k*(p - I/2) + offset with k = 0.4*2.
	k := 0.8
	p := Vec2{X: 300, Y: 700}
	want := Vec2{X: 400 + k*(300-1000) + 30, Y: 300 + k*(700-500) - 20}
	got, _ := v.SourceToScreen(p.X, p.Y)
	assertNear(t, "x", got.X, want.X)
	assertNear(t, "y", got.Y, want.Y)

	m, ok := v.Matrix()
	if !ok {
		t.Fatal("Matrix not ok")
	}
	assertNear(t, "a", m[0], k)
	assertNear(t, "d", m[3], k)
}

func TestApplyZoomKeepsPivotFixed(t *testing.T) {
	tests := []struct {
		name   string
		factor float64
		px, py float64
	}{
		{"centre", 2, 400, 300},
		{"corner", 2, 10, 10},
		{"off centre zoom in", 5, 600, 120},
		{"fractional", 1.1, 333, 222},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newTestViewport(800, 600)
			before, _ := v.ScreenToSource(tt.px, tt.py)
			v.ApplyZoom(tt.factor, tt.px, tt.py)
			assertNear(t, "scale", v.Scale(), tt.factor)
			after, _ := v.ScreenToSource(tt.px, tt.py)
			assertNearTol(t, "x", after.X, before.X, 1e-9)
			assertNearTol(t, "y", after.Y, before.Y, 1e-9)
		})
	}
}

func TestViewportRoundTripAtTinyScale(t *testing.T) {
	v := newTestViewport(800, 600)
	v.MinScale = 1e-8
	// fit is 0.4, so k = 0.4 * 1e-7.
	v.ApplyZoom(1e-7, 400, 300)
	assertNear(t, "scale", v.Scale(), 1e-7)

	for _, p := range []Vec2{{0, 0}, {2000, 1000}, {1234.5, 67.25}} {
		s, ok := v.SourceToScreen(p.X, p.Y)
		if !ok {
			t.Fatal("SourceToScreen not ok")
		}
		back, ok := v.ScreenToSource(s.X, s.Y)
		if !ok {
			t.Fatal("ScreenToSource not ok")
		}
		assertNearTol(t, "x", back.X, p.X, 1e-3)
		assertNearTol(t, "y", back.Y, p.Y, 1e-3)
	}
}

func TestApplyZoomClampsScale(t *testing.T) {
	v := newTestViewport(800, 600)
	v.ApplyZoom(1e6, 400, 300)
	assertNear(t, "max", v.Scale(), DefaultMaxScale)
	v.ApplyZoom(1e-9, 400, 300)
	assertNear(t, "min", v.Scale(), DefaultMinScale)

	v.ApplyZoom(0, 400, 300)
	v.ApplyZoom(-2, 400, 300)
	v.ApplyZoom(math.NaN(), 400, 300)
	assertNear(t, "ignored", v.Scale(), DefaultMinScale)
}

func TestApplyZoomCustomLimits(t *testing.T) {
	v := newTestViewport(800, 600)
	v.MinScale, v.MaxScale = 1, 4
	v.ApplyZoom(10, 400, 300)
	assertNear(t, "max", v.Scale(), 4)
	v.ApplyZoom(0.01, 400, 300)
	assertNear(t, "min", v.Scale(), 1)
}

func TestOffsetClamp(t *testing.T) {
	v := newTestViewport(800, 600)

	// At scale 1 the map cannot move.
	v.ApplyPan(100, -100)
	if v.Offset() != (Vec2{}) {
		t.Errorf("offset at scale 1 = %+v, want zero", v.Offset())
	}

	v.ApplyZoom(3, 400, 300)
	max := v.MaxOffset()
	assertNear(t, "maxX", max.X, 800)
	assertNear(t, "maxY", max.Y, 600)

	v.ApplyPan(5000, -5000)
	assertNear(t, "x", v.Offset().X, 800)
	assertNear(t, "y", v.Offset().Y, -600)

	// Zooming back out pulls the offset in.
	v.ApplyZoom(1.0/3, 400, 300)
	assertNear(t, "scale", v.Scale(), 1)
	if v.Offset() != (Vec2{}) {
		t.Errorf("offset after zoom out = %+v, want zero", v.Offset())
	}

	// Below scale 1 the limit is zero.
	v.ApplyZoom(0.5, 0, 0)
	if v.Offset() != (Vec2{}) {
		t.Errorf("offset at scale 0.5 = %+v, want zero", v.Offset())
	}
}

func TestOffsetStaysBoundedOverSequence(t *testing.T) {
	v := newTestViewport(640, 480)
	ops := []func(){
		func() { v.ApplyZoom(2.5, 10, 470) },
		func() { v.ApplyPan(-300, 90) },
		func() { v.ApplyZoom(0.7, 600, 20) },
		func() { v.ApplyPan(1e4, 1e4) },
		func() { v.ApplyZoom(40, 320, 240) },
		func() { v.Resize(320, 900) },
		func() { v.ApplyPan(-1e5, 3) },
		func() { v.ApplyZoom(0.01, 0, 0) },
	}
	for i, op := range ops {
		op()
		s := v.Scale()
		if s < DefaultMinScale || s > DefaultMaxScale {
			t.Fatalf("op %d: scale %v out of range", i, s)
		}
		m := v.MaxOffset()
		off := v.Offset()
		if math.Abs(off.X) > m.X+epsilon || math.Abs(off.Y) > m.Y+epsilon {
			t.Fatalf("op %d: offset %+v exceeds %+v", i, off, m)
		}
	}
}

func TestDegenerateDisplay(t *testing.T) {
	v := NewViewport(20, 20)
	if _, ok := v.ScreenToSource(1, 1); ok {
		t.Error("ScreenToSource ok before Resize")
	}
	if _, ok := v.SourceToScreen(1, 1); ok {
		t.Error("SourceToScreen ok before Resize")
	}
	if _, ok := v.Matrix(); ok {
		t.Error("Matrix ok before Resize")
	}
	v.ApplyZoom(2, 0, 0)
	v.ApplyPan(5, 5)
	if v.Scale() != 1 || v.Offset() != (Vec2{}) {
		t.Errorf("degenerate display changed view: scale %v offset %+v", v.Scale(), v.Offset())
	}
}

func TestResizeThroughZeroRestoresView(t *testing.T) {
	v := newTestViewport(800, 400)
	v.ApplyZoom(4, 100, 100)
	v.ApplyPan(-50, 30)
	scale, off := v.Scale(), v.Offset()
	before, _ := v.Matrix()

	v.Resize(0, 0)
	if _, ok := v.FitScale(); ok {
		t.Fatal("fit scale at 0x0")
	}
	v.Resize(800, 400)

	if v.Scale() != scale || v.Offset() != off {
		t.Errorf("state = %v %+v, want %v %+v", v.Scale(), v.Offset(), scale, off)
	}
	after, _ := v.Matrix()
	assertMatrix(t, "matrix", after, before)
}

func TestResizeClampsOffset(t *testing.T) {
	v := newTestViewport(800, 600)
	v.ApplyZoom(2, 400, 300)
	v.ApplyPan(400, 300)
	v.Resize(200, 100)
	max := v.MaxOffset()
	assertNear(t, "x", v.Offset().X, max.X)
	assertNear(t, "y", v.Offset().Y, max.Y)
}

func TestResetAndSetState(t *testing.T) {
	v := newTestViewport(800, 600)
	v.SetState(2, Vec2{X: 1000, Y: -1})
	assertNear(t, "scale", v.Scale(), 2)
	assertNear(t, "x", v.Offset().X, 400)
	assertNear(t, "y", v.Offset().Y, -1)

	v.SetState(-1, Vec2{})
	assertNear(t, "scale unchanged", v.Scale(), 2)

	v.AnimateZoom(2, 1, nil)
	v.Reset()
	if v.Scale() != 1 || v.Offset() != (Vec2{}) || v.Animating() {
		t.Errorf("Reset left scale %v offset %+v animating %v", v.Scale(), v.Offset(), v.Animating())
	}
}

func TestAnimateZoom(t *testing.T) {
	v := newTestViewport(800, 600)
	v.AnimateZoom(2, 0.5, ease.Linear)
	if !v.Animating() {
		t.Fatal("expected animation")
	}
	if !v.Update(0.25) {
		t.Error("Update should report a change mid-animation")
	}
	assertNearTol(t, "mid", v.Scale(), 1.5, 1e-6)
	for i := 0; i < 10 && v.Animating(); i++ {
		v.Update(0.25)
	}
	if v.Animating() {
		t.Fatal("animation did not finish")
	}
	assertNearTol(t, "end", v.Scale(), 2, 1e-6)
	// Zoom about the centre keeps the offset at zero.
	assertNearTol(t, "x", v.Offset().X, 0, 1e-6)
	if v.Update(0.25) {
		t.Error("Update reported a change with no animation")
	}
}

func TestAnimatePan(t *testing.T) {
	v := newTestViewport(800, 600)
	v.SetState(3, Vec2{})
	v.AnimatePan(100, -60, 0.4, ease.Linear)
	v.Update(0.2)
	assertNearTol(t, "mid x", v.Offset().X, 50, 1e-3)
	assertNearTol(t, "mid y", v.Offset().Y, -30, 1e-3)
	v.Update(0.2)
	v.Update(0.2)
	if v.Animating() {
		t.Fatal("pan animation did not finish")
	}
	assertNearTol(t, "x", v.Offset().X, 100, 1e-3)
	assertNearTol(t, "y", v.Offset().Y, -60, 1e-3)
}

func TestAnimatePanComposesWithClamp(t *testing.T) {
	v := newTestViewport(800, 600)
	v.AnimatePan(500, 0, 0.1, ease.Linear)
	v.Update(1)
	if v.Offset() != (Vec2{}) {
		t.Errorf("pan at scale 1 moved the map: %+v", v.Offset())
	}
}
