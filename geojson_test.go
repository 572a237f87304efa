package bota

import (
	"errors"
	"testing"

	"github.com/paulmach/orb"
)

const testFeatures = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {"ISO_A2": "EQ", "NAME": "Equator Box"},
     "geometry": {"type": "Polygon", "coordinates": [[[-18, 9], [18, 9], [18, -9], [-18, -9], [-18, 9]]]}},
    {"type": "Feature", "id": "islands", "properties": {},
     "geometry": {"type": "MultiPolygon", "coordinates": [
       [[[90, 45], [108, 45], [108, 36], [90, 36], [90, 45]]],
       [[[126, 45], [144, 45], [144, 36], [126, 36], [126, 45]]]
     ]}},
    {"type": "Feature", "properties": {"NAME": "Point"},
     "geometry": {"type": "Point", "coordinates": [0, 0]}},
    {"type": "Feature", "properties": {"NAME": "Donut"},
     "geometry": {"type": "Polygon", "coordinates": [
       [[-180, -60], [-144, -60], [-144, -90], [-180, -90], [-180, -60]],
       [[-171, -67.5], [-153, -67.5], [-153, -82.5], [-171, -82.5], [-171, -67.5]]
     ]}}
  ]
}`

func TestLoadGeoJSON(t *testing.T) {
	ds, err := LoadGeoJSON([]byte(testFeatures), GeoJSONOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if ds.Width != 2000 || ds.Height != 1000 {
		t.Errorf("size = %vx%v, want 2000x1000", ds.Width, ds.Height)
	}
	if got := ds.IDs(); len(got) != 3 || got[0] != "EQ" || got[1] != "islands" || got[2] != "feature-3" {
		t.Fatalf("IDs = %v", got)
	}
	if len(ds.Skipped()) != 1 {
		t.Errorf("Skipped = %v, want the point feature", ds.Skipped())
	}

	eq, _ := ds.Lookup("EQ")
	if eq.Name != "Equator Box" {
		t.Errorf("name = %q", eq.Name)
	}
	// lon -18..18 maps to 900..1100, lat 9..-9 to 450..550.
	b := eq.Bounds()
	assertNear(t, "x", b.X, 900)
	assertNear(t, "y", b.Y, 450)
	assertNear(t, "w", b.Width, 200)
	assertNear(t, "h", b.Height, 100)

	islands, _ := ds.Lookup("islands")
	if n := len(islands.Outlines[0].Subpaths()); n != 2 {
		t.Errorf("islands subpaths = %d, want 2", n)
	}
	donut, _ := ds.Lookup("feature-3")
	if donut.Name != "Donut" {
		t.Errorf("donut name = %q", donut.Name)
	}
}

func TestLoadGeoJSONHoleWithPolygonStrategy(t *testing.T) {
	ds, err := LoadGeoJSON([]byte(testFeatures), GeoJSONOptions{})
	if err != nil {
		t.Fatal(err)
	}
	donut, _ := ds.Lookup("feature-3")
	path := donut.Outlines[0]
	// Ring: x 0..200, y 833.3..1000. Hole: x 50..150, y 875..958.3.
	if !(Polygon{}).Contains(Vec2{20, 900}, path) {
		t.Error("ring body should hit")
	}
	if (Polygon{}).Contains(Vec2{100, 900}, path) {
		t.Error("hole should miss")
	}
}

func TestLoadGeoJSONHoleWithPixelPerfect(t *testing.T) {
	ds, err := LoadGeoJSON([]byte(testFeatures), GeoJSONOptions{})
	if err != nil {
		t.Fatal(err)
	}
	// Both donut rings are wound the same way in the source.
	donut, _ := ds.Lookup("feature-3")
	path := donut.Outlines[0]
	if !(PixelPerfect{}).Contains(Vec2{20, 900}, path) {
		t.Error("ring body should hit")
	}
	if (PixelPerfect{}).Contains(Vec2{100, 900}, path) {
		t.Error("hole should miss")
	}
	if got := HitTest(Vec2{100, 900}, ds.Entities(), PixelPerfect{}); got != nil {
		t.Errorf("HitTest in hole = %v, want nil", got.ID)
	}
}

func TestWindRing(t *testing.T) {
	cw := orb.Ring{{0, 0}, {0, 1}, {1, 1}, {1, 0}, {0, 0}}
	ccw := orb.Ring{{0, 0}, {1, 0}, {1, 1}, {0, 1}, {0, 0}}
	tests := []struct {
		name     string
		ring     orb.Ring
		exterior bool
		want     orb.Orientation
	}{
		{"cw exterior", cw, true, orb.CCW},
		{"ccw exterior", ccw, true, orb.CCW},
		{"cw hole", cw, false, orb.CW},
		{"ccw hole", ccw, false, orb.CW},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := tt.ring.Clone()
			got := windRing(tt.ring, tt.exterior)
			if o := got.Orientation(); o != tt.want {
				t.Errorf("orientation = %v, want %v", o, tt.want)
			}
			if !tt.ring.Equal(before) {
				t.Error("input ring was modified")
			}
		})
	}
}

func TestLoadGeoJSONOptions(t *testing.T) {
	ds, err := LoadGeoJSON([]byte(testFeatures), GeoJSONOptions{
		Width: 360, Height: 180, IDProperty: "NAME", NameProperty: "ISO_A2",
	})
	if err != nil {
		t.Fatal(err)
	}
	e, ok := ds.Lookup("Equator Box")
	if !ok {
		t.Fatalf("IDs = %v", ds.IDs())
	}
	if e.Name != "EQ" {
		t.Errorf("name = %q", e.Name)
	}
	assertNear(t, "x", e.Bounds().X, 162)
}

func TestLoadGeoJSONStrict(t *testing.T) {
	_, err := LoadGeoJSON([]byte(testFeatures), GeoJSONOptions{Strict: true})
	if !errors.Is(err, ErrDegenerateGeometry) {
		t.Errorf("err = %v, want unsupported geometry error", err)
	}
	if _, err := LoadGeoJSON([]byte(`{"type": "Nope"`), GeoJSONOptions{}); err == nil {
		t.Error("expected parse error")
	}
}
