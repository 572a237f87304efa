package bota

// Canvas is a drawing surface for the map renderer. Paths are given in
// source units together with the source-to-surface affine m; stroke widths
// are in source units and scale with m.
type Canvas interface {
	Clear(c Color)
	FillPath(p *Path, m [6]float64, c Color)
	StrokePath(p *Path, m [6]float64, width float64, c Color)
}

// Style holds the map colours. The zero value of a field selects its
// default (see DefaultStyle) unless the field is named in Keep.
type Style struct {
	// Background clears the canvas before drawing when its alpha is non-zero.
	Background Color
	// Default fills entities not in the highlight set.
	Default Color
	// Highlight fills entities in the highlight set.
	Highlight Color
	// Stroke outlines every entity.
	Stroke Color
	// StrokeWidth is the outline width in screen pixels. It stays constant
	// while zooming. Negative disables outlines.
	StrokeWidth float64
	// Keep marks fields that are used as given even when zero, so a
	// transparent fill or stroke can be requested.
	Keep StyleFields
}

// StyleFields is a set of Style fields, used by Style.Keep.
type StyleFields uint8

const (
	KeepDefault StyleFields = 1 << iota
	KeepHighlight
	KeepStroke
	KeepStrokeWidth
)

// DefaultStyle returns the stock palette: light grey land, lilac
// highlights and thin black borders.
func DefaultStyle() Style {
	return Style{
		Default:     RGB(0xECECEC),
		Highlight:   RGB(0xC8A2C8),
		Stroke:      ColorBlack,
		StrokeWidth: 0.5,
	}
}

// withDefaults fills zero fields not in Keep from DefaultStyle.
func (s Style) withDefaults() Style {
	d := DefaultStyle()
	if s.Default == (Color{}) && s.Keep&KeepDefault == 0 {
		s.Default = d.Default
	}
	if s.Highlight == (Color{}) && s.Keep&KeepHighlight == 0 {
		s.Highlight = d.Highlight
	}
	if s.Stroke == (Color{}) && s.Keep&KeepStroke == 0 {
		s.Stroke = d.Stroke
	}
	if s.StrokeWidth == 0 && s.Keep&KeepStrokeWidth == 0 {
		s.StrokeWidth = d.StrokeWidth
	}
	return s
}

// RenderStats counts the work done by the last Render call.
type RenderStats struct {
	Entities int // entities considered
	Fills    int // outlines filled
	Strokes  int // outlines stroked
	Culled   int // outlines skipped as off-screen
	Skipped  bool
}

// Renderer draws a Dataset through a Viewport. It only reads the dataset,
// viewport and highlight set.
type Renderer struct {
	Style Style
	// Cull skips outlines whose screen bounds miss the display.
	Cull bool

	stats RenderStats
}

// NewRenderer returns a renderer with the default style and culling on.
func NewRenderer(style Style) *Renderer {
	return &Renderer{Style: style.withDefaults(), Cull: true}
}

// Stats returns the counters from the most recent Render.
func (r *Renderer) Stats() RenderStats { return r.stats }

// Render draws every entity in definition order. Each outline is filled
// with the highlight or default colour and then stroked. Nothing is drawn
// when the viewport has no fit scale.
func (r *Renderer) Render(c Canvas, ds *Dataset, vp *Viewport, hl HighlightSet) {
	r.stats = RenderStats{}
	fit, ok := vp.FitScale()
	m, mok := vp.Matrix()
	if !ok || !mok || ds == nil {
		r.stats.Skipped = true
		return
	}
	if hl == nil {
		hl = noHighlight
	}
	st := r.Style.withDefaults()

	if st.Background.A > 0 {
		c.Clear(st.Background)
	}

	k := fit * vp.Scale()
	strokeW := st.StrokeWidth / k
	size := vp.Size()
	screen := Rect{Width: size.X, Height: size.Y}

	for _, e := range ds.Entities() {
		r.stats.Entities++
		fill := st.Default
		if hl.Has(e.ID) {
			fill = st.Highlight
		}
		for _, o := range e.Outlines {
			if r.Cull {
				sb := transformRect(m, o.Bounds()).Inset(st.StrokeWidth)
				if !sb.Intersects(screen) {
					r.stats.Culled++
					continue
				}
			}
			if !o.Degenerate() {
				c.FillPath(o, m, fill)
				r.stats.Fills++
			}
			if st.StrokeWidth > 0 {
				c.StrokePath(o, m, strokeW, st.Stroke)
				r.stats.Strokes++
			}
		}
	}
}

// --- Command recording ---

// CommandType identifies the kind of recorded draw command.
type CommandType uint8

const (
	CommandClear  CommandType = iota // Clear
	CommandFill                      // FillPath
	CommandStroke                    // StrokePath
)

// RenderCommand is a single recorded draw call.
type RenderCommand struct {
	Type      CommandType
	Path      *Path
	Transform [6]float64
	Color     Color
	Width     float64 // stroke width in source units
}

// Recorder is a Canvas that records draw calls instead of drawing. It is
// used for tests, debug statistics and replaying a frame onto another
// canvas.
type Recorder struct {
	Commands []RenderCommand
}

// Clear implements Canvas.
func (r *Recorder) Clear(c Color) {
	r.Commands = append(r.Commands, RenderCommand{Type: CommandClear, Color: c})
}

// FillPath implements Canvas.
func (r *Recorder) FillPath(p *Path, m [6]float64, c Color) {
	r.Commands = append(r.Commands, RenderCommand{Type: CommandFill, Path: p, Transform: m, Color: c})
}

// StrokePath implements Canvas.
func (r *Recorder) StrokePath(p *Path, m [6]float64, width float64, c Color) {
	r.Commands = append(r.Commands, RenderCommand{Type: CommandStroke, Path: p, Transform: m, Color: c, Width: width})
}

// Reset drops recorded commands, keeping capacity.
func (r *Recorder) Reset() {
	clear(r.Commands)
	r.Commands = r.Commands[:0]
}

// Replay issues the recorded commands onto c in order.
func (r *Recorder) Replay(c Canvas) {
	for _, cmd := range r.Commands {
		switch cmd.Type {
		case CommandClear:
			c.Clear(cmd.Color)
		case CommandFill:
			c.FillPath(cmd.Path, cmd.Transform, cmd.Color)
		case CommandStroke:
			c.StrokePath(cmd.Path, cmd.Transform, cmd.Width, cmd.Color)
		}
	}
}
