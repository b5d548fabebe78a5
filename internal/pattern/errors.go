package pattern

import "errors"

var (
	// ErrUnknownStorageVersion is returned for a storage_version this code cannot read.
	ErrUnknownStorageVersion = errors.New("pattern: unknown storage version")

	// ErrUnknownColor is returned when a cell refers to a color outside the palette.
	ErrUnknownColor = errors.New("pattern: color not in palette")

	// ErrOutOfRange is returned for an edit outside the grid.
	ErrOutOfRange = errors.New("pattern: cell out of range")

	// ErrMalformed is returned for grids that are not rectangular or whose
	// size does not match the recorded dimensions.
	ErrMalformed = errors.New("pattern: malformed grid")
)
