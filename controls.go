package bota

// Map controls: the zoom and pan buttons of a typical map UI. They animate
// with gween when Config.AnimationDuration is positive.

// ZoomIn zooms in by Config.ControlZoomStep about the display centre.
func (m *WorldMap) ZoomIn() {
	m.zoomControl(m.cfg.ControlZoomStep)
}

// ZoomOut zooms out by Config.ControlZoomStep about the display centre.
func (m *WorldMap) ZoomOut() {
	m.zoomControl(1 / m.cfg.ControlZoomStep)
}

// PanUp reveals the area above the current view.
func (m *WorldMap) PanUp() {
	m.panControl(0, m.viewport.Size().Y*m.cfg.ControlPanFraction)
}

// PanDown reveals the area below the current view.
func (m *WorldMap) PanDown() {
	m.panControl(0, -m.viewport.Size().Y*m.cfg.ControlPanFraction)
}

// PanLeft reveals the area left of the current view.
func (m *WorldMap) PanLeft() {
	m.panControl(m.viewport.Size().X*m.cfg.ControlPanFraction, 0)
}

// PanRight reveals the area right of the current view.
func (m *WorldMap) PanRight() {
	m.panControl(-m.viewport.Size().X*m.cfg.ControlPanFraction, 0)
}

// ResetView returns to the fitted whole-map view.
func (m *WorldMap) ResetView() {
	m.viewport.Reset()
	if m.sink != nil {
		m.emitViewChange(EventZoom)
	}
}

func (m *WorldMap) zoomControl(factor float64) {
	if m.cfg.AnimationDuration < 0 {
		size := m.viewport.Size()
		m.viewport.ApplyZoom(factor, size.X/2, size.Y/2)
		return
	}
	m.viewport.AnimateZoom(factor, m.cfg.AnimationDuration, m.cfg.Ease)
}

func (m *WorldMap) panControl(dx, dy float64) {
	if m.cfg.AnimationDuration < 0 {
		m.viewport.ApplyPan(dx, dy)
		return
	}
	m.viewport.AnimatePan(dx, dy, m.cfg.AnimationDuration, m.cfg.Ease)
}
