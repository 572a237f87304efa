package bota

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Default zoom limits.
const (
	DefaultMinScale = 0.5
	DefaultMaxScale = 1000
)

// zoomAnim holds an active animated zoom about the display centre.
type zoomAnim struct {
	tween *gween.Tween
}

// panAnim holds active pan tweens. The tweens run over the cumulative
// distance; each frame applies the delta since the previous frame so the
// animation composes with clamping and user gestures.
type panAnim struct {
	tweenX, tweenY *gween.Tween
	lastX, lastY   float64
	doneX, doneY   bool
}

// Viewport maps the intrinsic source space onto a display area.
//
// The mapping is
//
//	screen = C + k*(p - I/2) + offset
//
// where C is the display centre, I the intrinsic size and k = FitScale*Scale.
// At scale 1 and zero offset the whole source is visible, centred and
// letterboxed. Scale stays within [MinScale, MaxScale] and the offset stays
// within ±MaxOffset on each axis after every operation.
//
// A Viewport is not safe for concurrent use.
type Viewport struct {
	// MinScale and MaxScale bound the user zoom. Zero selects the defaults.
	MinScale, MaxScale float64

	intrinsic Vec2
	size      Vec2
	scale     float64
	offset    Vec2

	matrix    [6]float64
	invMatrix [6]float64
	dirty     bool

	zoomTween *zoomAnim
	panTween  *panAnim
}

// NewViewport creates a viewport for a source space of the given size.
// The display size starts at zero; call Resize before mapping points.
func NewViewport(intrinsicW, intrinsicH float64) *Viewport {
	return &Viewport{
		MinScale:  DefaultMinScale,
		MaxScale:  DefaultMaxScale,
		intrinsic: Vec2{X: intrinsicW, Y: intrinsicH},
		scale:     1,
		dirty:     true,
	}
}

// Scale returns the user zoom factor.
func (v *Viewport) Scale() float64 { return v.scale }

// Offset returns the translation in screen pixels.
func (v *Viewport) Offset() Vec2 { return v.offset }

// Size returns the display size.
func (v *Viewport) Size() Vec2 { return v.size }

// Intrinsic returns the source space size.
func (v *Viewport) Intrinsic() Vec2 { return v.intrinsic }

func (v *Viewport) minScale() float64 {
	if v.MinScale > 0 {
		return v.MinScale
	}
	return DefaultMinScale
}

func (v *Viewport) maxScale() float64 {
	if v.MaxScale > 0 {
		return v.MaxScale
	}
	return DefaultMaxScale
}

// FitScale returns min(w/W, h/H), the factor that fits the whole source into
// the display. It reports false when either size is degenerate, in which
// case no mapping exists.
func (v *Viewport) FitScale() (float64, bool) {
	if !(v.size.X > 0) || !(v.size.Y > 0) || !(v.intrinsic.X > 0) || !(v.intrinsic.Y > 0) {
		return 0, false
	}
	return math.Min(v.size.X/v.intrinsic.X, v.size.Y/v.intrinsic.Y), true
}

// computeMatrix recomputes the cached forward and inverse matrices if dirty.
func (v *Viewport) computeMatrix() bool {
	fit, ok := v.FitScale()
	if !ok {
		return false
	}
	if !v.dirty {
		return true
	}
	v.dirty = false

	k := fit * v.scale
	tx := v.size.X/2 - k*v.intrinsic.X/2 + v.offset.X
	ty := v.size.Y/2 - k*v.intrinsic.Y/2 + v.offset.Y
	v.matrix = translateScale(tx, ty, k)
	v.invMatrix = invertAffine(v.matrix)
	return true
}

// Matrix returns the source-to-screen affine [a, b, c, d, tx, ty].
func (v *Viewport) Matrix() ([6]float64, bool) {
	if !v.computeMatrix() {
		return identityTransform, false
	}
	return v.matrix, true
}

// SourceToScreen converts a source point to screen coordinates.
func (v *Viewport) SourceToScreen(x, y float64) (Vec2, bool) {
	if !v.computeMatrix() {
		return Vec2{}, false
	}
	sx, sy := transformPoint(v.matrix, x, y)
	return Vec2{X: sx, Y: sy}, true
}

// ScreenToSource converts a screen point to source coordinates. It is the
// exact inverse of SourceToScreen.
func (v *Viewport) ScreenToSource(x, y float64) (Vec2, bool) {
	if !v.computeMatrix() {
		return Vec2{}, false
	}
	px, py := transformPoint(v.invMatrix, x, y)
	return Vec2{X: px, Y: py}, true
}

// VisibleSource returns the source-space rectangle covered by the display.
func (v *Viewport) VisibleSource() (Rect, bool) {
	if !v.computeMatrix() {
		return Rect{}, false
	}
	return transformRect(v.invMatrix, Rect{Width: v.size.X, Height: v.size.Y}), true
}

// MaxOffset returns the per-axis offset limit, max(0, D*(scale-1)/2).
func (v *Viewport) MaxOffset() Vec2 {
	return Vec2{
		X: math.Max(0, v.size.X*(v.scale-1)/2),
		Y: math.Max(0, v.size.Y*(v.scale-1)/2),
	}
}

func (v *Viewport) clampOffset() {
	m := v.MaxOffset()
	v.offset.X = clamp(v.offset.X, -m.X, m.X)
	v.offset.Y = clamp(v.offset.Y, -m.Y, m.Y)
}

// ApplyPan translates the view by (dx, dy) screen pixels, then clamps.
// Ignored while the display size is degenerate.
func (v *Viewport) ApplyPan(dx, dy float64) {
	if _, ok := v.FitScale(); !ok || !finite(dx) || !finite(dy) {
		return
	}
	v.offset.X += dx
	v.offset.Y += dy
	v.clampOffset()
	v.dirty = true
}

// ApplyZoom multiplies the scale by factor about the screen pivot (px, py).
// The new scale is clamped first and the effective factor is derived from
// it, so the source point under the pivot stays fixed unless the offset
// itself has to be clamped. Non-positive factors are ignored.
func (v *Viewport) ApplyZoom(factor, px, py float64) {
	if _, ok := v.FitScale(); !ok || !(factor > 0) || !finite(factor) || !finite(px) || !finite(py) {
		return
	}
	newScale := clamp(v.scale*factor, v.minScale(), v.maxScale())
	f := newScale / v.scale
	cx, cy := v.size.X/2, v.size.Y/2
	v.offset.X = f*v.offset.X - (px-cx)*(f-1)
	v.offset.Y = f*v.offset.Y - (py-cy)*(f-1)
	v.scale = newScale
	v.clampOffset()
	v.dirty = true
}

// Resize sets the display size. Scale and offset are kept and re-clamped
// against the new bounds. A degenerate size is stored without clamping so
// the view survives a transient 0x0 layout.
func (v *Viewport) Resize(w, h float64) {
	v.size = Vec2{X: w, Y: h}
	v.dirty = true
	if _, ok := v.FitScale(); ok {
		v.clampOffset()
	}
}

// Reset returns to scale 1 with no offset and cancels animations.
func (v *Viewport) Reset() {
	v.scale = 1
	v.offset = Vec2{}
	v.zoomTween = nil
	v.panTween = nil
	v.dirty = true
}

// SetState restores a scale and offset, clamping both.
func (v *Viewport) SetState(scale float64, offset Vec2) {
	if !(scale > 0) || !finite(scale) {
		return
	}
	v.scale = clamp(scale, v.minScale(), v.maxScale())
	v.offset = offset
	if _, ok := v.FitScale(); ok {
		v.clampOffset()
	}
	v.dirty = true
}

// AnimateZoom zooms by factor about the display centre over duration
// seconds. It replaces any zoom animation already running.
func (v *Viewport) AnimateZoom(factor float64, duration float32, easeFn ease.TweenFunc) {
	if !(factor > 0) {
		return
	}
	if easeFn == nil {
		easeFn = ease.OutQuad
	}
	target := clamp(v.scale*factor, v.minScale(), v.maxScale())
	v.zoomTween = &zoomAnim{
		tween: gween.New(float32(v.scale), float32(target), duration, easeFn),
	}
}

// AnimatePan pans by (dx, dy) screen pixels over duration seconds.
// It replaces any pan animation already running.
func (v *Viewport) AnimatePan(dx, dy float64, duration float32, easeFn ease.TweenFunc) {
	if easeFn == nil {
		easeFn = ease.OutQuad
	}
	v.panTween = &panAnim{
		tweenX: gween.New(0, float32(dx), duration, easeFn),
		tweenY: gween.New(0, float32(dy), duration, easeFn),
	}
}

// Animating reports whether a zoom or pan animation is in progress.
func (v *Viewport) Animating() bool {
	return v.zoomTween != nil || v.panTween != nil
}

// Update advances animations by dt seconds and reports whether the view
// changed.
func (v *Viewport) Update(dt float32) bool {
	prevScale, prevOffset := v.scale, v.offset

	if v.zoomTween != nil {
		val, done := v.zoomTween.tween.Update(dt)
		if v.scale > 0 {
			v.ApplyZoom(float64(val)/v.scale, v.size.X/2, v.size.Y/2)
		}
		if done {
			v.zoomTween = nil
		}
	}

	if a := v.panTween; a != nil {
		var dx, dy float64
		if !a.doneX {
			val, done := a.tweenX.Update(dt)
			dx = float64(val) - a.lastX
			a.lastX = float64(val)
			a.doneX = done
		}
		if !a.doneY {
			val, done := a.tweenY.Update(dt)
			dy = float64(val) - a.lastY
			a.lastY = float64(val)
			a.doneY = done
		}
		v.ApplyPan(dx, dy)
		if a.doneX && a.doneY {
			v.panTween = nil
		}
	}

	return v.scale != prevScale || v.offset != prevOffset
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
