package bota

import (
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// debugLogInterval is the number of frames between debug log lines.
const debugLogInterval = 60

// debugLog reports render and hit-test statistics at debug level. Only
// called when debug mode is on.
func (m *WorldMap) debugLog(renderTime time.Duration) {
	if m.frame%debugLogInterval != 0 {
		return
	}
	rs := m.renderer.Stats()
	hs := m.tester.Stats()
	Logger().Debug("frame",
		"frame", m.frame,
		"render", renderTime,
		"entities", rs.Entities,
		"fills", rs.Fills,
		"strokes", rs.Strokes,
		"culled", rs.Culled,
		"scale", m.viewport.Scale(),
		"hitQueries", hs.Queries,
		"hitRejected", hs.Rejected,
		"hitPrecise", hs.PreciseRuns,
	)
}

// debugText formats the overlay text shown by DrawDebugOverlay.
func (m *WorldMap) debugText() string {
	rs := m.renderer.Stats()
	hs := m.tester.Stats()
	off := m.viewport.Offset()
	return fmt.Sprintf("TPS: %0.1f  FPS: %0.1f\nscale: %.2f  offset: %.0f,%.0f\ndrawn: %d  culled: %d\nhits: %d  rejected: %d  precise: %d",
		ebiten.ActualTPS(), ebiten.ActualFPS(),
		m.viewport.Scale(), off.X, off.Y,
		rs.Fills, rs.Culled,
		hs.Queries, hs.Rejected, hs.PreciseRuns)
}

// DrawDebugOverlay prints frame rate and viewport statistics in the top-left
// corner of screen.
func (m *WorldMap) DrawDebugOverlay(screen *ebiten.Image) {
	ebitenutil.DebugPrintAt(screen, m.debugText(), int(m.origin.X)+4, int(m.origin.Y)+4)
}
