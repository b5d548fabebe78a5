package palette

import (
	"errors"
	"fmt"
)

var (
	// ErrPaletteLoad is returned when the palette source is missing or malformed.
	ErrPaletteLoad = errors.New("palette: load failed")

	// ErrEmptyPalette is returned when no usable colors remain.
	ErrEmptyPalette = errors.New("palette: no colors available")

	// ErrInvalidHex marks a record whose hex value is not 6 hex digits.
	ErrInvalidHex = errors.New("palette: invalid hex value")
)

// HexError describes a single record rejected for its hex value.
type HexError struct {
	Name string
	Code string
	Hex  string
}

func (e *HexError) Error() string {
	return fmt.Sprintf("palette: color %q (code %q) has invalid hex %q", e.Name, e.Code, e.Hex)
}

func (e *HexError) Unwrap() error {
	return ErrInvalidHex
}
