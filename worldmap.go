package bota

import (
	"image"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween/ease"
)

// Config configures a WorldMap. Zero values select defaults.
type Config struct {
	// Style sets the map colours. Zero fields use DefaultStyle unless
	// named in Style.Keep.
	Style Style

	// HitStrategy overrides the precise hit test. Nil selects PixelPerfect
	// on a VectorRasterizer.
	HitStrategy HitStrategy
	// DisablePrefilter turns off the bounding-box prefilter.
	DisablePrefilter bool

	// MinScale and MaxScale bound the zoom (defaults 0.5 and 1000).
	MinScale, MaxScale float64
	// DragDeadZone is the tap tolerance in pixels (default 4).
	DragDeadZone float64
	// WheelZoomStep is the zoom factor per wheel notch (default 1.1).
	WheelZoomStep float64
	// Hover enables entity enter/leave callbacks for the mouse.
	Hover bool

	// ControlZoomStep is the factor applied by ZoomIn and ZoomOut (default 1.5).
	ControlZoomStep float64
	// ControlPanFraction is the share of the display moved by PanUp and
	// friends (default 0.2).
	ControlPanFraction float64
	// AnimationDuration is the length of animated controls in seconds
	// (default 0.25). Negative applies controls instantly.
	AnimationDuration float32
	// Ease is the easing of animated controls (default ease.OutQuad).
	Ease ease.TweenFunc

	// ScreenshotDir is where Screenshot writes PNG files (default "screenshots").
	ScreenshotDir string
	// Debug logs per-frame render and hit-test statistics at debug level.
	Debug bool
}

func (c *Config) defaults() {
	if c.DragDeadZone == 0 {
		c.DragDeadZone = DefaultDragDeadZone
	}
	if c.WheelZoomStep == 0 {
		c.WheelZoomStep = DefaultWheelZoomStep
	}
	if c.ControlZoomStep == 0 {
		c.ControlZoomStep = 1.5
	}
	if c.ControlPanFraction == 0 {
		c.ControlPanFraction = 0.2
	}
	if c.AnimationDuration == 0 {
		c.AnimationDuration = 0.25
	}
	if c.Ease == nil {
		c.Ease = ease.OutQuad
	}
	if c.ScreenshotDir == "" {
		c.ScreenshotDir = "screenshots"
	}
}

// WorldMap is an embeddable interactive map widget. It owns a viewport,
// gesture interpreter, hit tester and renderer for one Dataset. Call Update
// and Draw from the host game's Update and Draw, and Resize (or Layout)
// whenever the widget's area changes.
//
// A WorldMap is not safe for concurrent use.
type WorldMap struct {
	// ScreenshotDir is the directory where screenshot PNGs are written.
	ScreenshotDir string

	ds        *Dataset
	cfg       Config
	viewport  *Viewport
	gestures  *Gestures
	tester    *HitTester
	renderer  *Renderer
	highlight HighlightSet
	sink      EventSink

	// Screen position of the widget's top-left corner.
	origin Vec2

	canvas EbitenCanvas
	input  ebitenInput

	injectQueue     []injectedFrame
	testRunner      *TestRunner
	screenshotQueue []string

	debug bool
	frame int
}

// New creates a widget for ds.
func New(ds *Dataset, cfg Config) *WorldMap {
	cfg.defaults()

	vp := NewViewport(ds.Width, ds.Height)
	if cfg.MinScale > 0 {
		vp.MinScale = cfg.MinScale
	}
	if cfg.MaxScale > 0 {
		vp.MaxScale = cfg.MaxScale
	}

	tester := &HitTester{Strategy: cfg.HitStrategy, Prefilter: !cfg.DisablePrefilter}
	if tester.Strategy == nil {
		tester.Strategy = PixelPerfect{Rasterizer: NewVectorRasterizer()}
	}

	g := NewGestures(vp, ds, tester)
	g.DragDeadZone = cfg.DragDeadZone
	g.WheelZoomStep = cfg.WheelZoomStep
	g.Hover = cfg.Hover

	return &WorldMap{
		ScreenshotDir: cfg.ScreenshotDir,
		ds:            ds,
		cfg:           cfg,
		viewport:      vp,
		gestures:      g,
		tester:        tester,
		renderer:      NewRenderer(cfg.Style),
		highlight:     noHighlight,
		canvas:        EbitenCanvas{AntiAlias: true},
		debug:         cfg.Debug,
	}
}

// Dataset returns the widget's shape model.
func (m *WorldMap) Dataset() *Dataset { return m.ds }

// Viewport returns the widget's viewport for direct manipulation.
func (m *WorldMap) Viewport() *Viewport { return m.viewport }

// Gestures returns the widget's gesture interpreter.
func (m *WorldMap) Gestures() *Gestures { return m.gestures }

// HitTester returns the widget's hit tester.
func (m *WorldMap) HitTester() *HitTester { return m.tester }

// SetHighlight installs the set of entities drawn in the highlight colour.
// Nil clears it. The set is read every frame and never modified.
func (m *WorldMap) SetHighlight(hl HighlightSet) {
	if hl == nil {
		hl = noHighlight
	}
	m.highlight = hl
}

// SetStyle replaces the map colours.
func (m *WorldMap) SetStyle(s Style) {
	m.renderer.Style = s.withDefaults()
}

// OnEntityClick registers fn to run when a tap resolves to an entity.
func (m *WorldMap) OnEntityClick(fn func(ClickContext)) CallbackHandle {
	return m.gestures.OnEntityClick(fn)
}

// OnEntityEnter registers a hover enter callback. Requires Config.Hover.
func (m *WorldMap) OnEntityEnter(fn func(HoverContext)) CallbackHandle {
	return m.gestures.OnEntityEnter(fn)
}

// OnEntityLeave registers a hover leave callback. Requires Config.Hover.
func (m *WorldMap) OnEntityLeave(fn func(HoverContext)) CallbackHandle {
	return m.gestures.OnEntityLeave(fn)
}

// SetEventSink sets the optional ECS bridge.
func (m *WorldMap) SetEventSink(sink EventSink) {
	m.sink = sink
	m.gestures.SetEventSink(sink)
}

// SetPosition places the widget's top-left corner on screen. Input
// coordinates are made relative to it.
func (m *WorldMap) SetPosition(x, y float64) {
	m.origin = Vec2{X: x, Y: y}
}

// Bounds returns the widget's screen rectangle.
func (m *WorldMap) Bounds() Rect {
	s := m.viewport.Size()
	return Rect{X: m.origin.X, Y: m.origin.Y, Width: s.X, Height: s.Y}
}

// Resize sets the widget's display size. See Viewport.Resize.
func (m *WorldMap) Resize(w, h float64) {
	m.viewport.Resize(w, h)
}

// Layout implements the ebiten.Game Layout contract for a full-window map.
func (m *WorldMap) Layout(outsideWidth, outsideHeight int) (int, int) {
	m.Resize(float64(outsideWidth), float64(outsideHeight))
	return outsideWidth, outsideHeight
}

// EntityAt returns the entity under a point in widget coordinates, or nil.
func (m *WorldMap) EntityAt(x, y float64) *Entity {
	e, _ := m.gestures.EntityAt(x, y)
	return e
}

// SetDebugMode enables or disables per-frame statistics logging.
func (m *WorldMap) SetDebugMode(enabled bool) {
	m.debug = enabled
}

// Update processes input and advances animations.
func (m *WorldMap) Update() {
	dt := float32(1.0 / float64(ebiten.TPS()))
	m.update(dt)
}

func (m *WorldMap) update(dt float32) {
	m.frame++
	if m.testRunner != nil {
		m.testRunner.step(m)
	}
	prevScale := m.viewport.Scale()
	if m.viewport.Update(dt) {
		if m.viewport.Scale() != prevScale {
			m.emitViewChange(EventZoom)
		} else {
			m.emitViewChange(EventPan)
		}
	}
	m.processInput()
}

// processInput feeds one injected frame if any is queued, otherwise real
// ebiten input.
func (m *WorldMap) processInput() {
	if m.processInjectedInput() {
		return
	}
	m.input.poll(m.gestures, m.origin.X, m.origin.Y)
}

// Draw renders the map into screen at the widget's position.
func (m *WorldMap) Draw(screen *ebiten.Image) {
	size := m.viewport.Size()
	if size.X <= 0 || size.Y <= 0 {
		return
	}
	target := screen
	r := image.Rect(int(m.origin.X), int(m.origin.Y), int(m.origin.X+size.X), int(m.origin.Y+size.Y))
	if r != screen.Bounds() {
		target = screen.SubImage(r).(*ebiten.Image)
	}

	var t0 time.Time
	if m.debug {
		t0 = time.Now()
	}

	// SubImage keeps the parent's coordinates, so shift by the origin.
	m.canvas.Target = target
	m.renderer.Render(&offsetCanvas{inner: &m.canvas, dx: float64(r.Min.X), dy: float64(r.Min.Y)},
		m.ds, m.viewport, m.highlight)
	m.canvas.Target = nil

	if m.debug {
		m.debugLog(time.Since(t0))
	}

	m.flushScreenshots(target)
}

// RenderTo draws the current view onto any Canvas, for example a
// ggraster.Canvas for headless snapshots. It returns ErrNoFitScale while the
// widget has no usable size.
func (m *WorldMap) RenderTo(c Canvas) error {
	if _, ok := m.viewport.FitScale(); !ok {
		return ErrNoFitScale
	}
	m.renderer.Render(c, m.ds, m.viewport, m.highlight)
	return nil
}

// RenderStats returns the statistics of the last frame.
func (m *WorldMap) RenderStats() RenderStats { return m.renderer.Stats() }

// offsetCanvas translates every command by (dx, dy) pixels.
type offsetCanvas struct {
	inner  Canvas
	dx, dy float64
}

func (c *offsetCanvas) shift(m [6]float64) [6]float64 {
	return multiplyAffine(translateScale(c.dx, c.dy, 1), m)
}

func (c *offsetCanvas) Clear(col Color) { c.inner.Clear(col) }

func (c *offsetCanvas) FillPath(p *Path, m [6]float64, col Color) {
	c.inner.FillPath(p, c.shift(m), col)
}

func (c *offsetCanvas) StrokePath(p *Path, m [6]float64, width float64, col Color) {
	c.inner.StrokePath(p, c.shift(m), width, col)
}

func (m *WorldMap) emitViewChange(t EventType) {
	if m.sink == nil {
		return
	}
	off := m.viewport.Offset()
	size := m.viewport.Size()
	m.sink.EmitEvent(MapEvent{
		Type:    t,
		ScreenX: size.X / 2,
		ScreenY: size.Y / 2,
		Scale:   m.viewport.Scale(),
		OffsetX: off.X,
		OffsetY: off.Y,
	})
}
