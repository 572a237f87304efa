package bota

import (
	"math"
	"testing"
)

func newTestGestures(t *testing.T) (*Gestures, *Viewport, *recordingSink) {
	t.Helper()
	ds := overlapDataset(t)
	vp := NewViewport(ds.Width, ds.Height)
	vp.Resize(400, 400)
	g := NewGestures(vp, ds, nil)
	sink := &recordingSink{}
	g.SetEventSink(sink)
	return g, vp, sink
}

// frame feeds pointer samples and closes the frame.
func frame(g *Gestures, evs ...PointerEvent) {
	for _, ev := range evs {
		g.Pointer(ev)
	}
	g.EndFrame()
}

func press(id int, x, y float64) PointerEvent { return PointerEvent{ID: id, X: x, Y: y, Pressed: true} }
func release(id int, x, y float64) PointerEvent { return PointerEvent{ID: id, X: x, Y: y} }

func TestTapResolvesEntity(t *testing.T) {
	g, _, sink := newTestGestures(t)
	var clicks []ClickContext
	g.OnEntityClick(func(ctx ClickContext) { clicks = append(clicks, ctx) })

	frame(g, press(0, 150, 150))
	if len(clicks) != 0 {
		t.Fatal("click fired on press")
	}
	frame(g, release(0, 150, 150))

	if len(clicks) != 1 {
		t.Fatalf("clicks = %d, want 1", len(clicks))
	}
	c := clicks[0]
	if c.Entity.ID != "B" || c.PointerID != 0 {
		t.Errorf("click = %+v, want B from pointer 0", c)
	}
	assertNear(t, "source.x", c.Source.X, 7.5)
	assertNear(t, "source.y", c.Source.Y, 7.5)

	if sink.count(EventEntityClick) != 1 {
		t.Fatalf("sink events = %+v", sink.events)
	}
	ev := sink.events[0]
	if ev.EntityID != "B" || ev.ScreenX != 150 || ev.Scale != 1 {
		t.Errorf("event = %+v", ev)
	}
	assertNear(t, "event source", ev.SourceX, 7.5)
}

func TestTapOnEmptyAreaIsSilent(t *testing.T) {
	g, _, sink := newTestGestures(t)
	fired := false
	g.OnEntityClick(func(ClickContext) { fired = true })

	frame(g, press(0, 390, 20))
	frame(g, release(0, 390, 20))
	if fired || len(sink.events) != 0 {
		t.Errorf("tap on sea fired: %v %+v", fired, sink.events)
	}
}

func TestTapWithinDeadZone(t *testing.T) {
	g, vp, _ := newTestGestures(t)
	vp.ApplyZoom(2, 200, 200)
	var got []ClickContext
	g.OnEntityClick(func(ctx ClickContext) { got = append(got, ctx) })

	frame(g, press(0, 200, 200))
	frame(g, press(0, 202, 201))
	frame(g, release(0, 202, 201))

	if len(got) != 1 {
		t.Fatalf("clicks = %d, want 1", len(got))
	}
	// The tap resolves at the release point.
	if got[0].ScreenX != 202 || got[0].ScreenY != 201 {
		t.Errorf("tap at %v,%v, want 202,201", got[0].ScreenX, got[0].ScreenY)
	}
	if vp.Offset() != (Vec2{}) {
		t.Errorf("dead zone movement panned: %+v", vp.Offset())
	}
}

func TestDragPans(t *testing.T) {
	g, vp, sink := newTestGestures(t)
	vp.ApplyZoom(2, 200, 200)
	fired := false
	g.OnEntityClick(func(ClickContext) { fired = true })

	frame(g, press(0, 100, 100))
	frame(g, press(0, 102, 100))
	if vp.Offset().X != 0 {
		t.Fatalf("panned inside dead zone: %+v", vp.Offset())
	}
	frame(g, press(0, 110, 100))
	assertNear(t, "after crossing", vp.Offset().X, 10)
	frame(g, press(0, 130, 95))
	assertNear(t, "x", vp.Offset().X, 30)
	assertNear(t, "y", vp.Offset().Y, -5)
	frame(g, release(0, 130, 95))

	if fired {
		t.Error("drag produced a click")
	}
	if n := sink.count(EventPan); n != 2 {
		t.Errorf("pan events = %d, want 2", n)
	}
}

func TestDragAtFitScaleDoesNotMove(t *testing.T) {
	g, vp, sink := newTestGestures(t)
	frame(g, press(0, 100, 100))
	frame(g, press(0, 200, 150))
	frame(g, release(0, 200, 150))
	if vp.Offset() != (Vec2{}) {
		t.Errorf("offset = %+v, want zero at scale 1", vp.Offset())
	}
	if n := sink.count(EventPan); n != 0 {
		t.Errorf("pan events = %d, want 0 when clamped", n)
	}
}

func TestPinchZoomsAboutCentroid(t *testing.T) {
	g, vp, sink := newTestGestures(t)
	fired := false
	g.OnEntityClick(func(ClickContext) { fired = true })

	pivot := Vec2{150, 150}
	before, _ := vp.ScreenToSource(pivot.X, pivot.Y)

	frame(g, press(1, 100, 150), press(2, 200, 150))
	frame(g, press(1, 50, 150), press(2, 250, 150))
	assertNear(t, "scale", vp.Scale(), 2)

	after, _ := vp.ScreenToSource(pivot.X, pivot.Y)
	assertNear(t, "pivot x", after.X, before.X)
	assertNear(t, "pivot y", after.Y, before.Y)

	frame(g, release(1, 50, 150), release(2, 250, 150))
	if fired {
		t.Error("pinch release produced a click")
	}
	if sink.count(EventZoom) != 1 {
		t.Errorf("zoom events = %d, want 1", sink.count(EventZoom))
	}
}

func TestPinchCentroidPans(t *testing.T) {
	g, vp, _ := newTestGestures(t)
	vp.ApplyZoom(4, 200, 200)

	frame(g, press(1, 150, 200), press(2, 250, 200))
	frame(g, press(1, 170, 210), press(2, 270, 210))
	assertNear(t, "scale", vp.Scale(), 4)
	assertNear(t, "x", vp.Offset().X, 20)
	assertNear(t, "y", vp.Offset().Y, 10)
}

func TestPinchedPointerNeverTapsAfterPartnerLifts(t *testing.T) {
	g, _, _ := newTestGestures(t)
	fired := false
	g.OnEntityClick(func(ClickContext) { fired = true })

	frame(g, press(1, 150, 150), press(2, 160, 150))
	frame(g, release(2, 160, 150))
	frame(g, release(1, 150, 150))
	if fired {
		t.Error("finger from a pinch tapped")
	}
}

func TestWheelZoom(t *testing.T) {
	g, vp, sink := newTestGestures(t)
	before, _ := vp.ScreenToSource(100, 300)
	g.Wheel(WheelEvent{X: 100, Y: 300, DY: 2})
	assertNear(t, "scale", vp.Scale(), 1.1*1.1)
	after, _ := vp.ScreenToSource(100, 300)
	assertNear(t, "pivot x", after.X, before.X)

	g.Wheel(WheelEvent{X: 100, Y: 300, DY: -2})
	assertNearTol(t, "scale back", vp.Scale(), 1, 1e-12)

	g.Wheel(WheelEvent{DY: 0})
	g.Wheel(WheelEvent{DY: math.Inf(1)})
	if n := sink.count(EventZoom); n != 2 {
		t.Errorf("zoom events = %d, want 2", n)
	}

	g.WheelZoomStep = 2
	g.Wheel(WheelEvent{X: 200, Y: 200, DY: 1})
	assertNearTol(t, "custom step", vp.Scale(), 2, 1e-12)
}

func TestHoverEnterLeave(t *testing.T) {
	g, _, sink := newTestGestures(t)
	g.Hover = true
	var log []string
	g.OnEntityEnter(func(ctx HoverContext) { log = append(log, "+"+ctx.Entity.ID) })
	g.OnEntityLeave(func(ctx HoverContext) { log = append(log, "-"+ctx.Entity.ID) })

	frame(g, release(0, 50, 50))
	frame(g, release(0, 60, 60))
	frame(g, release(0, 150, 150))
	frame(g, release(0, 390, 390))

	want := []string{"+A", "-A", "+B", "-B"}
	if len(log) != len(want) {
		t.Fatalf("hover log = %v, want %v", log, want)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Fatalf("hover log = %v, want %v", log, want)
		}
	}
	if sink.count(EventEntityEnter) != 2 || sink.count(EventEntityLeave) != 2 {
		t.Errorf("sink = %+v", sink.events)
	}
}

func TestHoverDisabledAndTouchIgnored(t *testing.T) {
	g, _, _ := newTestGestures(t)
	entered := 0
	g.OnEntityEnter(func(HoverContext) { entered++ })

	frame(g, release(0, 50, 50))
	g.Hover = true
	frame(g, release(3, 150, 150))
	if entered != 0 {
		t.Errorf("enter fired %d times", entered)
	}
}

func TestCallbackHandleRemove(t *testing.T) {
	g, _, _ := newTestGestures(t)
	var a, b int
	ha := g.OnEntityClick(func(ClickContext) { a++ })
	g.OnEntityClick(func(ClickContext) { b++ })

	frame(g, press(0, 150, 150))
	frame(g, release(0, 150, 150))
	ha.Remove()
	ha.Remove()
	frame(g, press(0, 150, 150))
	frame(g, release(0, 150, 150))

	if a != 1 || b != 2 {
		t.Errorf("a = %d, b = %d, want 1 and 2", a, b)
	}
	CallbackHandle{}.Remove()
}

func TestHandlersRemovingThemselvesDuringDispatch(t *testing.T) {
	g, _, _ := newTestGestures(t)
	g.Hover = true
	var once, other, enterOnce, leaveOnce int
	var h, he, hl CallbackHandle
	h = g.OnEntityClick(func(ClickContext) { once++; h.Remove() })
	g.OnEntityClick(func(ClickContext) { other++ })
	he = g.OnEntityEnter(func(HoverContext) { enterOnce++; he.Remove() })
	hl = g.OnEntityLeave(func(HoverContext) { leaveOnce++; hl.Remove() })

	for i := 0; i < 2; i++ {
		frame(g, press(0, 150, 150))
		frame(g, release(0, 150, 150))
	}
	frame(g, release(0, 50, 50))
	frame(g, release(0, 390, 390))
	frame(g, release(0, 50, 50))
	frame(g, release(0, 390, 390))

	if once != 1 || other != 2 {
		t.Errorf("once = %d, other = %d, want 1 and 2", once, other)
	}
	if enterOnce != 1 || leaveOnce != 1 {
		t.Errorf("enter = %d, leave = %d, want 1 each", enterOnce, leaveOnce)
	}
}

func TestInvalidPointersIgnored(t *testing.T) {
	g, _, _ := newTestGestures(t)
	fired := false
	g.OnEntityClick(func(ClickContext) { fired = true })

	for _, ev := range []PointerEvent{
		press(-1, 150, 150), press(maxPointers, 150, 150), press(0, math.NaN(), 150),
	} {
		frame(g, ev)
		frame(g, PointerEvent{ID: ev.ID, X: 150, Y: 150})
	}
	if fired {
		t.Error("invalid pointer tapped")
	}
}

func TestGesturesReset(t *testing.T) {
	g, _, _ := newTestGestures(t)
	fired := false
	g.OnEntityClick(func(ClickContext) { fired = true })

	frame(g, press(0, 150, 150))
	g.Reset()
	frame(g, release(0, 150, 150))
	if fired {
		t.Error("release after Reset tapped")
	}
}

func TestEntityAtDegenerateViewport(t *testing.T) {
	g, vp, _ := newTestGestures(t)
	vp.Resize(0, 0)
	if e, _ := g.EntityAt(150, 150); e != nil {
		t.Errorf("EntityAt = %s on a 0x0 display", e.ID)
	}
	fired := false
	g.OnEntityClick(func(ClickContext) { fired = true })
	frame(g, press(0, 150, 150))
	frame(g, release(0, 150, 150))
	if fired {
		t.Error("tap resolved without a mapping")
	}
}
