package bota

import (
	"errors"
	"fmt"
)

// Sentinel errors for the bota package.
var (
	// ErrMalformedPath is returned when a path command string cannot be
	// parsed into drawing commands.
	ErrMalformedPath = errors.New("bota: malformed path data")

	// ErrDegenerateGeometry is reported for outlines that enclose no area.
	// Such outlines are kept for rendering but never match a hit test.
	ErrDegenerateGeometry = errors.New("bota: degenerate geometry")

	// ErrDuplicateID is returned when two entities in one dataset share an id.
	ErrDuplicateID = errors.New("bota: duplicate entity id")

	// ErrInvalidIntrinsicSize is returned when a dataset declares a
	// non-positive source space.
	ErrInvalidIntrinsicSize = errors.New("bota: intrinsic size must be positive")

	// ErrNoFitScale is returned when the display area is degenerate and no
	// source/screen mapping exists.
	ErrNoFitScale = errors.New("bota: display size is degenerate")
)

// MalformedPathError describes where a path command string failed to parse.
type MalformedPathError struct {
	EntityID  string // empty when parsing a standalone path
	PathIndex int    // index within the entity's path list
	Offset    int    // byte offset into the path string
	Reason    string
}

func (e *MalformedPathError) Error() string {
	if e.EntityID != "" {
		return fmt.Sprintf("bota: entity %q path %d: malformed path at offset %d: %s",
			e.EntityID, e.PathIndex, e.Offset, e.Reason)
	}
	return fmt.Sprintf("bota: malformed path at offset %d: %s", e.Offset, e.Reason)
}

// Unwrap lets errors.Is match ErrMalformedPath.
func (e *MalformedPathError) Unwrap() error {
	return ErrMalformedPath
}
