package bota

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Entity is one selectable region of the map (typically a country).
// Entities are immutable after load.
type Entity struct {
	ID       string
	Name     string
	Outlines []*Path

	bounds Rect
}

// Bounds returns the union of the outline bounds in source units.
func (e *Entity) Bounds() Rect { return e.bounds }

// NewEntity builds an entity from already-parsed outlines.
func NewEntity(id, name string, outlines []*Path) *Entity {
	e := &Entity{ID: id, Name: name, Outlines: outlines}
	for _, o := range outlines {
		e.bounds = e.bounds.Union(o.Bounds())
	}
	return e
}

// Dataset is the shape model: an intrinsic source space and the entities
// drawn in it, in definition order. A Dataset is read-only after load and
// may be shared by any number of widgets without locking.
type Dataset struct {
	Width, Height float64

	entities []*Entity
	byID     map[string]*Entity
	skipped  []error
}

// RawEntity is the unparsed form of an entity: an id, a display name and
// one or more SVG path strings.
type RawEntity struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Paths []string `json:"paths"`
}

// LoadOption configures LoadShapes.
type LoadOption func(*loadConfig)

type loadConfig struct {
	strict bool
}

// WithStrict makes the first malformed or duplicate entity fail the load
// instead of being skipped.
func WithStrict() LoadOption {
	return func(c *loadConfig) { c.strict = true }
}

// LoadShapes parses raw entities into a Dataset with the given intrinsic
// size. By default an entity with a malformed path or a duplicate id is
// skipped and logged; the collected errors are available from Skipped.
func LoadShapes(width, height float64, raw []RawEntity, opts ...LoadOption) (*Dataset, error) {
	var cfg loadConfig
	for _, o := range opts {
		o(&cfg)
	}
	if !(width > 0) || !(height > 0) {
		return nil, fmt.Errorf("bota: intrinsic size %gx%g: %w", width, height, ErrInvalidIntrinsicSize)
	}

	ds := newDataset(width, height, len(raw))
	for _, r := range raw {
		e, err := parseEntity(r)
		if err == nil {
			err = ds.add(e)
		}
		if err != nil {
			if cfg.strict {
				return nil, err
			}
			ds.skip(r.ID, err)
		}
	}
	return ds, nil
}

// NewDataset builds a Dataset from already-constructed entities.
func NewDataset(width, height float64, entities []*Entity, opts ...LoadOption) (*Dataset, error) {
	var cfg loadConfig
	for _, o := range opts {
		o(&cfg)
	}
	if !(width > 0) || !(height > 0) {
		return nil, fmt.Errorf("bota: intrinsic size %gx%g: %w", width, height, ErrInvalidIntrinsicSize)
	}
	ds := newDataset(width, height, len(entities))
	for _, e := range entities {
		if err := ds.add(e); err != nil {
			if cfg.strict {
				return nil, err
			}
			ds.skip(e.ID, err)
		}
	}
	return ds, nil
}

func newDataset(width, height float64, n int) *Dataset {
	return &Dataset{
		Width:    width,
		Height:   height,
		entities: make([]*Entity, 0, n),
		byID:     make(map[string]*Entity, n),
	}
}

func (ds *Dataset) add(e *Entity) error {
	if _, dup := ds.byID[e.ID]; dup {
		return fmt.Errorf("bota: entity %q: %w", e.ID, ErrDuplicateID)
	}
	ds.entities = append(ds.entities, e)
	ds.byID[e.ID] = e
	return nil
}

func (ds *Dataset) skip(id string, err error) {
	ds.skipped = append(ds.skipped, err)
	Logger().Warn("skipping entity", "id", id, "error", err)
}

func parseEntity(r RawEntity) (*Entity, error) {
	outlines := make([]*Path, 0, len(r.Paths))
	for i, d := range r.Paths {
		p, err := ParsePath(d)
		if err != nil {
			var mpe *MalformedPathError
			if errors.As(err, &mpe) {
				mpe.EntityID = r.ID
				mpe.PathIndex = i
			}
			return nil, err
		}
		outlines = append(outlines, p)
	}
	return NewEntity(r.ID, r.Name, outlines), nil
}

// shapesDocument is the JSON form accepted by LoadShapesJSON.
type shapesDocument struct {
	Width    float64     `json:"width"`
	Height   float64     `json:"height"`
	Entities []RawEntity `json:"entities"`
}

// LoadShapesJSON parses a JSON document of the form
//
//	{"width": 2000, "height": 857, "entities": [{"id": "fr", "name": "France", "paths": ["M..."]}]}
func LoadShapesJSON(data []byte, opts ...LoadOption) (*Dataset, error) {
	var doc shapesDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("bota: failed to parse shapes JSON: %w", err)
	}
	return LoadShapes(doc.Width, doc.Height, doc.Entities, opts...)
}

// Size returns the intrinsic source size.
func (ds *Dataset) Size() Vec2 { return Vec2{X: ds.Width, Y: ds.Height} }

// Entities returns the entities in definition order. Later entities are
// drawn on top. The slice must not be modified.
func (ds *Dataset) Entities() []*Entity { return ds.entities }

// Len returns the number of loaded entities.
func (ds *Dataset) Len() int { return len(ds.entities) }

// Lookup returns the entity with the given id.
func (ds *Dataset) Lookup(id string) (*Entity, bool) {
	e, ok := ds.byID[id]
	return e, ok
}

// IDs returns every entity id in definition order.
func (ds *Dataset) IDs() []string {
	ids := make([]string, len(ds.entities))
	for i, e := range ds.entities {
		ids[i] = e.ID
	}
	return ids
}

// Skipped returns the errors for entities dropped during a lenient load.
func (ds *Dataset) Skipped() []error { return ds.skipped }

// Search returns entities whose name contains query, ignoring case, sorted
// by name. An empty query matches every entity.
func (ds *Dataset) Search(query string) []*Entity {
	q := strings.ToLower(strings.TrimSpace(query))
	var out []*Entity
	for _, e := range ds.entities {
		if q == "" || strings.Contains(strings.ToLower(e.Name), q) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}
