package bota

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// GeoJSONOptions configures LoadGeoJSON. Zero values select defaults.
type GeoJSONOptions struct {
	// Width and Height are the intrinsic source size the equirectangular
	// projection maps onto. Defaults: 2000 x 1000.
	Width, Height float64
	// IDProperty and NameProperty name the feature properties used for the
	// entity id and display name. Defaults: "ISO_A2" and "NAME". When the
	// id property is missing the feature id is used.
	IDProperty   string
	NameProperty string
	// Strict fails the load on the first unusable feature.
	Strict bool
}

func (o *GeoJSONOptions) defaults() {
	if o.Width == 0 {
		o.Width = 2000
	}
	if o.Height == 0 {
		o.Height = 1000
	}
	if o.IDProperty == "" {
		o.IDProperty = "ISO_A2"
	}
	if o.NameProperty == "" {
		o.NameProperty = "NAME"
	}
}

// LoadGeoJSON builds a Dataset from a FeatureCollection whose features carry
// Polygon or MultiPolygon geometry in lon/lat degrees. Each ring becomes a
// closed subpath; holes rely on even-odd containment.
func LoadGeoJSON(data []byte, opts GeoJSONOptions) (*Dataset, error) {
	opts.defaults()
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("bota: failed to parse geojson: %w", err)
	}

	var loadOpts []LoadOption
	if opts.Strict {
		loadOpts = append(loadOpts, WithStrict())
	}

	entities := make([]*Entity, 0, len(fc.Features))
	var skipped []error
	for i, f := range fc.Features {
		id := f.Properties.MustString(opts.IDProperty, "")
		if id == "" && f.ID != nil {
			id = fmt.Sprint(f.ID)
		}
		if id == "" {
			id = fmt.Sprintf("feature-%d", i)
		}
		name := f.Properties.MustString(opts.NameProperty, id)

		var mp orb.MultiPolygon
		switch g := f.Geometry.(type) {
		case orb.MultiPolygon:
			mp = g
		case orb.Polygon:
			mp = orb.MultiPolygon{g}
		default:
			err := fmt.Errorf("bota: feature %q: unsupported geometry %T: %w", id, f.Geometry, ErrDegenerateGeometry)
			if opts.Strict {
				return nil, err
			}
			skipped = append(skipped, err)
			Logger().Warn("skipping feature", "id", id, "error", err)
			continue
		}
		entities = append(entities, NewEntity(id, name, []*Path{projectMultiPolygon(mp, opts.Width, opts.Height)}))
	}

	ds, err := NewDataset(opts.Width, opts.Height, entities, loadOpts...)
	if err != nil {
		return nil, err
	}
	ds.skipped = append(skipped, ds.skipped...)
	return ds, nil
}

// projectMultiPolygon maps lon/lat rings into source space with an
// equirectangular projection: lon -180..180 to 0..w, lat 90..-90 to 0..h.
// Rings are rewound so holes run opposite their exterior and stay empty
// under the nonzero fill rule.
func projectMultiPolygon(mp orb.MultiPolygon, w, h float64) *Path {
	var b PathBuilder
	for _, poly := range mp {
		for i, ring := range poly {
			if len(ring) == 0 {
				continue
			}
			ring = windRing(ring, i == 0)
			for j, pt := range ring {
				x := (pt.Lon() + 180) / 360 * w
				y := (90 - pt.Lat()) / 180 * h
				if j == 0 {
					b.MoveTo(x, y)
				} else {
					b.LineTo(x, y)
				}
			}
			b.Close()
		}
	}
	return b.Path()
}

// windRing returns the ring counter-clockwise for an exterior and clockwise
// for a hole. The decoded ring is never modified.
func windRing(r orb.Ring, exterior bool) orb.Ring {
	want := orb.CW
	if exterior {
		want = orb.CCW
	}
	if o := r.Orientation(); o == 0 || o == want {
		return r
	}
	r = r.Clone()
	r.Reverse()
	return r
}
