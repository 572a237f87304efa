package bota

import (
	"math"
	"slices"
)

// --- Constants ---

const (
	maxPointers          = 10  // pointer 0 = mouse, 1-9 = touch
	DefaultDragDeadZone  = 4.0 // pixels
	DefaultWheelZoomStep = 1.1 // scale factor per wheel notch
)

// PointerEvent is one pointer sample in screen coordinates relative to the
// map's top-left corner. ID 0 is the mouse, 1-9 are touches.
type PointerEvent struct {
	ID      int
	X, Y    float64
	Pressed bool
}

// WheelEvent is a scroll sample at cursor position (X, Y). Positive DY
// zooms in.
type WheelEvent struct {
	X, Y float64
	DY   float64
}

// MapEvent is the payload delivered to an EventSink.
type MapEvent struct {
	Type      EventType
	EntityID  string // empty for pan and zoom
	PointerID int
	ScreenX   float64
	ScreenY   float64
	SourceX   float64
	SourceY   float64
	Scale     float64 // viewport scale after the change
	OffsetX   float64
	OffsetY   float64
}

// EventSink receives map events for optional ECS integration.
type EventSink interface {
	EmitEvent(event MapEvent)
}

// ClickContext describes a tap that resolved to an entity.
type ClickContext struct {
	Entity    *Entity
	PointerID int
	ScreenX   float64
	ScreenY   float64
	Source    Vec2
}

// HoverContext describes the hover pointer entering or leaving an entity.
type HoverContext struct {
	Entity  *Entity
	ScreenX float64
	ScreenY float64
	Source  Vec2
}

// --- Per-pointer state ---

type pointerState struct {
	down     bool
	startX   float64
	startY   float64
	lastX    float64
	lastY    float64
	dragging bool
	pinched  bool // took part in a pinch; never taps or pans
	hover    *Entity
}

type pinchState struct {
	active   bool
	pointer0 int
	pointer1 int
	prevDist float64
	prevCX   float64
	prevCY   float64
}

// --- Handler registry ---

type clickHandler struct {
	id uint32
	fn func(ClickContext)
}

type hoverHandler struct {
	id uint32
	fn func(HoverContext)
}

type handlerRegistry struct {
	click  []clickHandler
	enter  []hoverHandler
	leave  []hoverHandler
	nextID uint32
}

// CallbackHandle allows removing a registered callback.
type CallbackHandle struct {
	id    uint32
	reg   *handlerRegistry
	event EventType
}

// Remove unregisters this callback so it no longer fires.
func (h CallbackHandle) Remove() {
	if h.reg == nil {
		return
	}
	switch h.event {
	case EventEntityClick:
		h.reg.click = removeHandler(h.reg.click, func(c clickHandler) bool { return c.id == h.id })
	case EventEntityEnter:
		h.reg.enter = removeHandler(h.reg.enter, func(c hoverHandler) bool { return c.id == h.id })
	case EventEntityLeave:
		h.reg.leave = removeHandler(h.reg.leave, func(c hoverHandler) bool { return c.id == h.id })
	}
}

func removeHandler[T any](s []T, match func(T) bool) []T {
	for i := range s {
		if match(s[i]) {
			var zero T
			copy(s[i:], s[i+1:])
			s[len(s)-1] = zero
			return s[:len(s)-1]
		}
	}
	return s
}

// Gestures turns raw pointer and wheel samples into viewport changes and
// entity events. Feed it every pointer sample of a frame, then call
// EndFrame so pinches see both fingers' positions.
//
// Gestures is not safe for concurrent use; callbacks run synchronously on
// the calling goroutine.
type Gestures struct {
	// DragDeadZone is the movement in pixels a press may make and still
	// count as a tap.
	DragDeadZone float64
	// WheelZoomStep is the zoom factor per unit of wheel DY.
	WheelZoomStep float64
	// Hover enables entity enter/leave tracking for the mouse pointer.
	Hover bool

	viewport *Viewport
	dataset  *Dataset
	tester   *HitTester
	sink     EventSink

	pointers [maxPointers]pointerState
	pinch    pinchState
	handlers handlerRegistry
}

// NewGestures wires a gesture interpreter to a viewport, dataset and hit
// tester. A nil tester selects NewHitTester.
func NewGestures(vp *Viewport, ds *Dataset, ht *HitTester) *Gestures {
	if ht == nil {
		ht = NewHitTester()
	}
	return &Gestures{
		DragDeadZone:  DefaultDragDeadZone,
		WheelZoomStep: DefaultWheelZoomStep,
		viewport:      vp,
		dataset:       ds,
		tester:        ht,
	}
}

// SetEventSink installs an optional sink for map events. Nil disables it.
func (g *Gestures) SetEventSink(sink EventSink) { g.sink = sink }

// OnEntityClick registers fn to run when a tap lands on an entity.
func (g *Gestures) OnEntityClick(fn func(ClickContext)) CallbackHandle {
	g.handlers.nextID++
	g.handlers.click = append(g.handlers.click, clickHandler{id: g.handlers.nextID, fn: fn})
	return CallbackHandle{id: g.handlers.nextID, reg: &g.handlers, event: EventEntityClick}
}

// OnEntityEnter registers fn to run when the hover pointer moves onto an entity.
func (g *Gestures) OnEntityEnter(fn func(HoverContext)) CallbackHandle {
	g.handlers.nextID++
	g.handlers.enter = append(g.handlers.enter, hoverHandler{id: g.handlers.nextID, fn: fn})
	return CallbackHandle{id: g.handlers.nextID, reg: &g.handlers, event: EventEntityEnter}
}

// OnEntityLeave registers fn to run when the hover pointer leaves an entity.
func (g *Gestures) OnEntityLeave(fn func(HoverContext)) CallbackHandle {
	g.handlers.nextID++
	g.handlers.leave = append(g.handlers.leave, hoverHandler{id: g.handlers.nextID, fn: fn})
	return CallbackHandle{id: g.handlers.nextID, reg: &g.handlers, event: EventEntityLeave}
}

// EntityAt returns the entity under the screen point, or nil.
func (g *Gestures) EntityAt(x, y float64) (*Entity, Vec2) {
	if g.dataset == nil {
		return nil, Vec2{}
	}
	p, ok := g.viewport.ScreenToSource(x, y)
	if !ok {
		return nil, Vec2{}
	}
	return g.tester.Hit(p, g.dataset.Entities()), p
}

// Pointer runs the pointer state machine for one sample.
func (g *Gestures) Pointer(ev PointerEvent) {
	if ev.ID < 0 || ev.ID >= maxPointers || !finite(ev.X) || !finite(ev.Y) {
		return
	}
	ps := &g.pointers[ev.ID]
	x, y := ev.X, ev.Y

	switch {
	case ev.Pressed && !ps.down:
		ps.down = true
		ps.startX, ps.startY = x, y
		ps.lastX, ps.lastY = x, y
		ps.dragging = false
		ps.pinched = false

	case !ev.Pressed && ps.down:
		if !ps.dragging && !ps.pinched && g.withinDeadZone(ps, x, y) {
			g.tap(ev.ID, x, y)
		}
		ps.down = false
		ps.dragging = false
		ps.pinched = false
		ps.lastX, ps.lastY = x, y

	case ev.Pressed && ps.down:
		if x != ps.lastX || y != ps.lastY {
			if !ps.dragging && !ps.pinched && !g.withinDeadZone(ps, x, y) {
				ps.dragging = true
				// The dead-zone travel is applied on crossing so the map
				// stays under the finger.
				g.pan(ev.ID, x, y, x-ps.startX, y-ps.startY)
			} else if ps.dragging && !ps.pinched && !g.pinch.active {
				g.pan(ev.ID, x, y, x-ps.lastX, y-ps.lastY)
			}
		}
		ps.lastX, ps.lastY = x, y

	default:
		if x != ps.lastX || y != ps.lastY {
			ps.lastX, ps.lastY = x, y
			if g.Hover && ev.ID == 0 {
				g.hover(ps, x, y)
			}
		}
	}
}

func (g *Gestures) withinDeadZone(ps *pointerState, x, y float64) bool {
	return math.Hypot(x-ps.startX, y-ps.startY) <= g.DragDeadZone
}

// EndFrame runs pinch detection over the pointers updated this frame.
func (g *Gestures) EndFrame() {
	var p0, p1 int
	count := 0
	for i := 0; i < maxPointers; i++ {
		if g.pointers[i].down {
			if count == 0 {
				p0 = i
			} else if count == 1 {
				p1 = i
			}
			count++
		}
	}

	if count != 2 {
		g.pinch.active = false
		return
	}

	ps0 := &g.pointers[p0]
	ps1 := &g.pointers[p1]
	cx := (ps0.lastX + ps1.lastX) / 2
	cy := (ps0.lastY + ps1.lastY) / 2
	dist := math.Hypot(ps1.lastX-ps0.lastX, ps1.lastY-ps0.lastY)

	if !g.pinch.active || g.pinch.pointer0 != p0 || g.pinch.pointer1 != p1 {
		g.pinch = pinchState{active: true, pointer0: p0, pointer1: p1, prevDist: dist, prevCX: cx, prevCY: cy}
	} else {
		factor := 1.0
		if g.pinch.prevDist > 0 && dist > 0 {
			factor = dist / g.pinch.prevDist
		}
		g.zoom(factor, cx, cy)
		g.pan(p0, cx, cy, cx-g.pinch.prevCX, cy-g.pinch.prevCY)
		g.pinch.prevDist = dist
		g.pinch.prevCX, g.pinch.prevCY = cx, cy
	}

	ps0.pinched, ps1.pinched = true, true
	ps0.dragging, ps1.dragging = false, false
}

// Wheel zooms by WheelZoomStep^DY about the cursor.
func (g *Gestures) Wheel(ev WheelEvent) {
	if ev.DY == 0 || !finite(ev.DY) {
		return
	}
	step := g.WheelZoomStep
	if step <= 0 {
		step = DefaultWheelZoomStep
	}
	g.zoom(math.Pow(step, ev.DY), ev.X, ev.Y)
}

// Reset forgets all pointer and pinch state, for example after the widget
// loses focus mid-gesture.
func (g *Gestures) Reset() {
	g.pointers = [maxPointers]pointerState{}
	g.pinch = pinchState{}
}

func (g *Gestures) pan(id int, x, y, dx, dy float64) {
	if dx == 0 && dy == 0 {
		return
	}
	before := g.viewport.Offset()
	g.viewport.ApplyPan(dx, dy)
	if g.viewport.Offset() != before {
		g.emitView(EventPan, id, x, y)
	}
}

func (g *Gestures) zoom(factor, x, y float64) {
	if factor == 1 {
		return
	}
	before := g.viewport.Scale()
	g.viewport.ApplyZoom(factor, x, y)
	if g.viewport.Scale() != before {
		g.emitView(EventZoom, 0, x, y)
	}
}

func (g *Gestures) tap(id int, x, y float64) {
	e, p := g.EntityAt(x, y)
	if e == nil {
		return
	}
	ctx := ClickContext{Entity: e, PointerID: id, ScreenX: x, ScreenY: y, Source: p}
	// Handlers may remove themselves, so dispatch over a copy.
	for _, h := range slices.Clone(g.handlers.click) {
		h.fn(ctx)
	}
	g.emitEntity(EventEntityClick, e, id, x, y, p)
}

func (g *Gestures) hover(ps *pointerState, x, y float64) {
	e, p := g.EntityAt(x, y)
	if e == ps.hover {
		return
	}
	if prev := ps.hover; prev != nil {
		ctx := HoverContext{Entity: prev, ScreenX: x, ScreenY: y, Source: p}
		for _, h := range slices.Clone(g.handlers.leave) {
			h.fn(ctx)
		}
		g.emitEntity(EventEntityLeave, prev, 0, x, y, p)
	}
	ps.hover = e
	if e != nil {
		ctx := HoverContext{Entity: e, ScreenX: x, ScreenY: y, Source: p}
		for _, h := range slices.Clone(g.handlers.enter) {
			h.fn(ctx)
		}
		g.emitEntity(EventEntityEnter, e, 0, x, y, p)
	}
}

// --- ECS bridge ---

func (g *Gestures) emitEntity(t EventType, e *Entity, id int, x, y float64, p Vec2) {
	if g.sink == nil {
		return
	}
	off := g.viewport.Offset()
	g.sink.EmitEvent(MapEvent{
		Type: t, EntityID: e.ID, PointerID: id,
		ScreenX: x, ScreenY: y, SourceX: p.X, SourceY: p.Y,
		Scale: g.viewport.Scale(), OffsetX: off.X, OffsetY: off.Y,
	})
}

func (g *Gestures) emitView(t EventType, id int, x, y float64) {
	if g.sink == nil {
		return
	}
	off := g.viewport.Offset()
	src, _ := g.viewport.ScreenToSource(x, y)
	g.sink.EmitEvent(MapEvent{
		Type: t, PointerID: id,
		ScreenX: x, ScreenY: y, SourceX: src.X, SourceY: src.Y,
		Scale: g.viewport.Scale(), OffsetX: off.X, OffsetY: off.Y,
	})
}
