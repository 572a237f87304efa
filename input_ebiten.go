package bota

import "github.com/hajimehoshi/ebiten/v2"

// ebitenInput polls ebiten's mouse, touch and wheel state once per Update
// and feeds the samples to a Gestures. Coordinates are made relative to the
// widget origin.
type ebitenInput struct {
	prevTouchIDs []ebiten.TouchID
	touchMap     [maxPointers]ebiten.TouchID
	touchUsed    [maxPointers]bool
	lastTouch    [maxPointers]Vec2
}

// poll reads the current input state and feeds g. Mouse samples are
// skipped while touches are active so emulated mouse events from touch
// screens do not double up.
func (in *ebitenInput) poll(g *Gestures, originX, originY float64) {
	touches := in.pollTouches(g, originX, originY)

	if !touches {
		mx, my := ebiten.CursorPosition()
		g.Pointer(PointerEvent{
			ID:      0,
			X:       float64(mx) - originX,
			Y:       float64(my) - originY,
			Pressed: ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
		})

		if _, dy := ebiten.Wheel(); dy != 0 {
			g.Wheel(WheelEvent{X: float64(mx) - originX, Y: float64(my) - originY, DY: dy})
		}
	}

	g.EndFrame()
}

func (in *ebitenInput) pollTouches(g *Gestures, originX, originY float64) bool {
	touchIDs := ebiten.AppendTouchIDs(in.prevTouchIDs[:0])
	in.prevTouchIDs = touchIDs

	var active [maxPointers]bool
	for _, tid := range touchIDs {
		slot := in.touchSlot(tid)
		if slot < 0 {
			continue
		}
		active[slot] = true
		tx, ty := ebiten.TouchPosition(tid)
		x, y := float64(tx)-originX, float64(ty)-originY
		in.lastTouch[slot] = Vec2{X: x, Y: y}
		g.Pointer(PointerEvent{ID: slot, X: x, Y: y, Pressed: true})
	}

	// Release any touch slots that are no longer active.
	for i := 1; i < maxPointers; i++ {
		if in.touchUsed[i] && !active[i] {
			last := in.lastTouch[i]
			g.Pointer(PointerEvent{ID: i, X: last.X, Y: last.Y, Pressed: false})
			in.touchUsed[i] = false
			in.touchMap[i] = 0
		}
	}
	return len(touchIDs) > 0
}

// touchSlot maps an ebiten.TouchID to a pointer slot (1-9).
// Returns the existing slot or allocates a new one. Returns -1 if full.
func (in *ebitenInput) touchSlot(tid ebiten.TouchID) int {
	for i := 1; i < maxPointers; i++ {
		if in.touchUsed[i] && in.touchMap[i] == tid {
			return i
		}
	}
	for i := 1; i < maxPointers; i++ {
		if !in.touchUsed[i] {
			in.touchUsed[i] = true
			in.touchMap[i] = tid
			return i
		}
	}
	return -1
}
