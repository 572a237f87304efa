package bota

import "math"

// injectedFrame is the synthetic input for one frame. Coordinates are in
// widget space, exactly as real pointer input after the origin shift.
type injectedFrame struct {
	pointers []PointerEvent
	wheel    *WheelEvent
}

func (m *WorldMap) inject(f injectedFrame) {
	m.injectQueue = append(m.injectQueue, f)
}

// InjectPress queues a mouse press at (x, y). The event is consumed on the
// next frame.
func (m *WorldMap) InjectPress(x, y float64) {
	m.inject(injectedFrame{pointers: []PointerEvent{{ID: 0, X: x, Y: y, Pressed: true}}})
}

// InjectMove queues a mouse move with the button held. Use this between
// InjectPress and InjectRelease to simulate a drag.
func (m *WorldMap) InjectMove(x, y float64) {
	m.inject(injectedFrame{pointers: []PointerEvent{{ID: 0, X: x, Y: y, Pressed: true}}})
}

// InjectRelease queues a mouse release at (x, y).
func (m *WorldMap) InjectRelease(x, y float64) {
	m.inject(injectedFrame{pointers: []PointerEvent{{ID: 0, X: x, Y: y, Pressed: false}}})
}

// InjectTap queues a press followed by a release at the same point.
// Consumes two frames.
func (m *WorldMap) InjectTap(x, y float64) {
	m.InjectPress(x, y)
	m.InjectRelease(x, y)
}

// InjectDrag queues a full drag: press at (fromX, fromY), linearly
// interpolated moves, and release at (toX, toY). The sequence consumes
// frames frames (minimum 2).
func (m *WorldMap) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	m.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		m.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	m.InjectRelease(toX, toY)
}

// InjectPinch queues a two-finger pinch centred on (cx, cy) whose finger
// distance goes from startDist to endDist over frames frames (minimum 3:
// press, at least one move, release). Touch pointers 1 and 2 are used.
func (m *WorldMap) InjectPinch(cx, cy, startDist, endDist float64, frames int) {
	if frames < 3 {
		frames = 3
	}
	finger := func(d float64, pressed bool) []PointerEvent {
		h := d / 2
		return []PointerEvent{
			{ID: 1, X: cx - h, Y: cy, Pressed: pressed},
			{ID: 2, X: cx + h, Y: cy, Pressed: pressed},
		}
	}
	m.inject(injectedFrame{pointers: finger(startDist, true)})
	moves := frames - 2
	for i := 1; i <= moves; i++ {
		t := float64(i) / float64(moves)
		m.inject(injectedFrame{pointers: finger(startDist+(endDist-startDist)*t, true)})
	}
	m.inject(injectedFrame{pointers: finger(endDist, false)})
}

// InjectWheel queues a wheel scroll of dy notches at (x, y).
func (m *WorldMap) InjectWheel(x, y, dy float64) {
	if math.IsNaN(dy) {
		return
	}
	m.inject(injectedFrame{wheel: &WheelEvent{X: x, Y: y, DY: dy}})
}

// processInjectedInput pops one frame from the inject queue and feeds it to
// the gesture interpreter. Returns true if a frame was consumed (real input
// is skipped for that frame).
func (m *WorldMap) processInjectedInput() bool {
	if len(m.injectQueue) == 0 {
		return false
	}
	f := m.injectQueue[0]
	copy(m.injectQueue, m.injectQueue[1:])
	m.injectQueue[len(m.injectQueue)-1] = injectedFrame{}
	m.injectQueue = m.injectQueue[:len(m.injectQueue)-1]

	for _, ev := range f.pointers {
		m.gestures.Pointer(ev)
	}
	if f.wheel != nil {
		m.gestures.Wheel(*f.wheel)
	}
	m.gestures.EndFrame()
	return true
}
