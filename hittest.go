package bota

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// HitStrategy decides whether a source-space point lies inside an outline.
// Degenerate outlines never contain any point.
type HitStrategy interface {
	Contains(p Vec2, path *Path) bool
}

// HitTest returns the top-most entity with an outline containing p, or nil.
// Entities are tested in reverse definition order, so when outlines overlap
// the last-defined entity wins.
func HitTest(p Vec2, entities []*Entity, strategy HitStrategy) *Entity {
	if strategy == nil || !finite(p.X) || !finite(p.Y) {
		return nil
	}
	for i := len(entities) - 1; i >= 0; i-- {
		e := entities[i]
		for _, o := range e.Outlines {
			if strategy.Contains(p, o) {
				return e
			}
		}
	}
	return nil
}

// --- Bounding box ---

// BoundingBox matches points inside an outline's axis-aligned bounds,
// edges inclusive. Cheap but coarse for irregular shapes.
type BoundingBox struct{}

// Contains implements HitStrategy.
func (BoundingBox) Contains(p Vec2, path *Path) bool {
	if path == nil || path.Degenerate() {
		return false
	}
	return path.Bounds().Contains(p.X, p.Y)
}

// --- Pixel perfect ---

// Pixel-perfect defaults.
const (
	DefaultHitPadding   = 10
	DefaultHitThreshold = 0.5
)

// PixelPerfect rasterizes the outline into an offscreen bitmap (black
// background, outline filled white) covering its bounds plus Padding, and
// samples the pixel under the point. A pixel counts as inside when any
// colour channel exceeds Threshold. Points outside the bitmap never match.
// The bitmap is released before Contains returns.
type PixelPerfect struct {
	// Rasterizer renders the outline. Nil uses a pooled VectorRasterizer.
	Rasterizer Rasterizer
	// Padding is the margin in source units around the bounds.
	// Zero selects DefaultHitPadding; negative means no margin.
	Padding float64
	// Threshold is the channel level above which a pixel is inside.
	// Zero selects DefaultHitThreshold.
	Threshold float64
}

func (pp PixelPerfect) padding() float64 {
	switch {
	case pp.Padding == 0:
		return DefaultHitPadding
	case pp.Padding < 0:
		return 0
	}
	return pp.Padding
}

func (pp PixelPerfect) threshold() float64 {
	if pp.Threshold == 0 {
		return DefaultHitThreshold
	}
	return pp.Threshold
}

// Contains implements HitStrategy.
func (pp PixelPerfect) Contains(p Vec2, path *Path) bool {
	if path == nil || path.Degenerate() {
		return false
	}
	pad := pp.padding()
	area := path.Bounds().Inset(pad)
	if !area.Contains(p.X, p.Y) {
		return false
	}

	r := pp.Rasterizer
	if r == nil {
		vr := defaultRasterizers.Get().(*VectorRasterizer)
		defer defaultRasterizers.Put(vr)
		r = vr
	}

	w := int(math.Ceil(area.Width))
	h := int(math.Ceil(area.Height))
	bm := r.NewBitmap(w, h)
	defer bm.Release()

	m := translateScale(-area.X, -area.Y, 1)
	r.FillPath(bm, path, m, ColorWhite)

	ix := int(math.Floor(p.X - area.X))
	iy := int(math.Floor(p.Y - area.Y))
	if ix < 0 || iy < 0 || ix >= bm.Width() || iy >= bm.Height() {
		return false
	}
	c := r.ReadPixel(bm, ix, iy)
	t := pp.threshold()
	return c.R > t || c.G > t || c.B > t
}

// --- Analytic polygon ---

// Polygon tests containment analytically against the flattened outline
// using the even-odd rule. It needs no rasterizer and is exact up to curve
// flattening.
type Polygon struct{}

// Contains implements HitStrategy.
func (Polygon) Contains(p Vec2, path *Path) bool {
	if path == nil || path.Degenerate() || !path.Bounds().Contains(p.X, p.Y) {
		return false
	}
	pt := orb.Point{p.X, p.Y}
	inside := false
	for _, sp := range path.Subpaths() {
		if len(sp) < 3 {
			continue
		}
		if planar.RingContains(toRing(sp), pt) {
			inside = !inside
		}
	}
	return inside
}

func toRing(pts []Vec2) orb.Ring {
	ring := make(orb.Ring, len(pts), len(pts)+1)
	for i, v := range pts {
		ring[i] = orb.Point{v.X, v.Y}
	}
	if ring[0] != ring[len(ring)-1] {
		ring = append(ring, ring[0])
	}
	return ring
}

// --- Two-phase tester ---

// HitStats counts the work done by a HitTester since the last reset.
type HitStats struct {
	Queries     int // calls to Hit
	Rejected    int // entities dismissed by the bounds prefilter
	PreciseRuns int // outlines handed to the precise strategy
}

// HitTester runs an optional bounding-box prefilter before the precise
// strategy, so expensive strategies only see candidate entities.
type HitTester struct {
	Strategy  HitStrategy
	Prefilter bool

	stats HitStats
}

// NewHitTester returns the default tester: prefilter plus pixel-perfect
// testing on a VectorRasterizer.
func NewHitTester() *HitTester {
	return &HitTester{
		Strategy:  PixelPerfect{Rasterizer: NewVectorRasterizer()},
		Prefilter: true,
	}
}

// Hit returns the top-most entity containing p, or nil.
func (h *HitTester) Hit(p Vec2, entities []*Entity) *Entity {
	h.stats.Queries++
	if h.Strategy == nil || !finite(p.X) || !finite(p.Y) {
		return nil
	}
	for i := len(entities) - 1; i >= 0; i-- {
		e := entities[i]
		if h.Prefilter && !e.Bounds().Contains(p.X, p.Y) {
			h.stats.Rejected++
			continue
		}
		for _, o := range e.Outlines {
			if h.Prefilter && !o.Bounds().Contains(p.X, p.Y) {
				continue
			}
			h.stats.PreciseRuns++
			if h.Strategy.Contains(p, o) {
				return e
			}
		}
	}
	return nil
}

// Stats returns counters accumulated since the last ResetStats.
func (h *HitTester) Stats() HitStats { return h.stats }

// ResetStats zeroes the counters.
func (h *HitTester) ResetStats() { h.stats = HitStats{} }
