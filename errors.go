package bar

import (
	"errors"
	"fmt"
	"image"
)

// ErrInvalidGeometry is returned when a viewport or rectangle does not fit
// inside the canvas it is derived from.
var ErrInvalidGeometry = errors.New("bar: invalid geometry")

// GeometryError describes a rejected region.
// It matches ErrInvalidGeometry with errors.Is.
type GeometryError struct {
	Op     string
	Rect   image.Rectangle
	Bounds image.Rectangle
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("bar: invalid geometry: %s %v outside %v", e.Op, e.Rect, e.Bounds)
}

// Is reports whether target is ErrInvalidGeometry.
func (e *GeometryError) Is(target error) bool {
	return target == ErrInvalidGeometry
}

// UnsupportedLayoutError is the panic value raised by DrawModules for
// alignments that have no layout implementation.
type UnsupportedLayoutError struct {
	Align Alignment
}

func (e *UnsupportedLayoutError) Error() string {
	return "bar: unsupported module layout: " + e.Align.String()
}
