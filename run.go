package bota

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title  string
	Width  int
	Height int
	// Resizable lets the user resize the window; the map follows.
	Resizable bool
	// Background fills the window behind the map.
	Background Color
	// ShowFPS draws the debug overlay.
	ShowFPS bool
	// Keyboard maps arrow keys, +/- and 0 to the map controls.
	Keyboard bool
	// UpdateFunc, when set, runs after the map's Update every tick.
	UpdateFunc func() error
}

// game adapts a WorldMap to ebiten.Game.
type game struct {
	m   *WorldMap
	cfg RunConfig
}

func (g *game) Update() error {
	if g.cfg.Keyboard {
		g.handleKeys()
	}
	g.m.Update()
	if g.cfg.UpdateFunc != nil {
		return g.cfg.UpdateFunc()
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	if g.cfg.Background.A > 0 {
		screen.Fill(g.cfg.Background.toRGBA())
	}
	g.m.Draw(screen)
	if g.cfg.ShowFPS {
		g.m.DrawDebugOverlay(screen)
	}
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.m.Layout(outsideWidth, outsideHeight)
}

func (g *game) handleKeys() {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEqual), inpututil.IsKeyJustPressed(ebiten.KeyKPAdd):
		g.m.ZoomIn()
	case inpututil.IsKeyJustPressed(ebiten.KeyMinus), inpututil.IsKeyJustPressed(ebiten.KeyKPSubtract):
		g.m.ZoomOut()
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowUp):
		g.m.PanUp()
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowDown):
		g.m.PanDown()
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft):
		g.m.PanLeft()
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowRight):
		g.m.PanRight()
	case inpututil.IsKeyJustPressed(ebiten.Key0):
		g.m.ResetView()
	}
}

// Run opens a window hosting m and blocks until it is closed.
func Run(m *WorldMap, cfg RunConfig) error {
	if cfg.Width <= 0 {
		cfg.Width = 1000
	}
	if cfg.Height <= 0 {
		cfg.Height = 500
	}
	if cfg.Title == "" {
		cfg.Title = "bota"
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	if cfg.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	m.Resize(float64(cfg.Width), float64(cfg.Height))
	return ebiten.RunGame(&game{m: m, cfg: cfg})
}
