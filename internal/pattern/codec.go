package pattern

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"bead-pattern/internal/board"
	"bead-pattern/internal/palette"
	"bead-pattern/pkg/colorutil"
)

// Storage versions of the wire format.
const (
	StorageHex  = 1 // Legacy: every cell holds "#RRGGBB"
	StorageCode = 2 // Every cell holds a palette code
)

// CurrentStorageVersion is the version Encode writes.
const CurrentStorageVersion = StorageCode

type wireData struct {
	Grid           [][]string `json:"grid"`
	Width          int        `json:"width"`
	Height         int        `json:"height"`
	BoardsWidth    int        `json:"boards_width"`
	BoardsHeight   int        `json:"boards_height"`
	BoardSize      int        `json:"board_size"`
	StorageVersion *int       `json:"storage_version,omitempty"`
	ColorUsage     ColorUsage `json:"color_usage,omitempty"`
}

// Encode serializes d in the current storage version.
func Encode(d *Data) ([]byte, error) {
	if err := d.checkShape(); err != nil {
		return nil, err
	}
	v := CurrentStorageVersion
	w := wireData{
		Grid:           d.Grid,
		Width:          d.Width,
		Height:         d.Height,
		BoardsWidth:    d.BoardsWidth,
		BoardsHeight:   d.BoardsHeight,
		BoardSize:      d.BoardSize,
		StorageVersion: &v,
		ColorUsage:     d.Usage,
	}
	if w.Grid == nil {
		w.Grid = [][]string{}
	}
	return json.Marshal(w)
}

// Decode parses a stored pattern. The storage_version tag selects the cell
// format; untagged legacy data is sniffed by a leading '#' in its first
// non-empty cell. Legacy hex cells are mapped to codes through pal, snapping
// colors no longer in the palette to their nearest entry. Usage is always
// recounted from the decoded grid.
func Decode(b []byte, pal *palette.Palette) (*Data, error) {
	var w wireData
	if err := json.Unmarshal(b, &w); err != nil {
		return nil, fmt.Errorf("decoding pattern: %w", err)
	}

	version := sniffVersion(w.Grid)
	if w.StorageVersion != nil {
		version = *w.StorageVersion
	}

	var (
		g   Grid
		err error
	)
	switch version {
	case StorageHex:
		g, err = decodeHexGrid(w.Grid, pal)
	case StorageCode:
		g, err = decodeCodeGrid(w.Grid, pal)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownStorageVersion, version)
	}
	if err != nil {
		return nil, err
	}

	d := &Data{
		Grid:         g,
		Width:        w.Width,
		Height:       w.Height,
		BoardsWidth:  w.BoardsWidth,
		BoardsHeight: w.BoardsHeight,
		BoardSize:    w.BoardSize,
		Usage:        CountUsage(g),
	}
	if d.Width == 0 && d.Height == 0 {
		d.Width, d.Height = g.Width(), g.Height()
	}
	if d.BoardSize == 0 {
		d.BoardSize = board.BoardSize
	}
	if err := d.checkShape(); err != nil {
		return nil, err
	}
	return d, nil
}

// sniffVersion guesses the format of untagged data.
func sniffVersion(g [][]string) int {
	for _, row := range g {
		for _, cell := range row {
			if cell == "" {
				continue
			}
			if strings.HasPrefix(cell, "#") {
				return StorageHex
			}
			return StorageCode
		}
	}
	return StorageCode
}

func decodeCodeGrid(cells [][]string, pal *palette.Palette) (Grid, error) {
	g := Grid(cells).Clone()
	for y, row := range g {
		for x, code := range row {
			if _, ok := pal.ByCode(code); !ok {
				return nil, fmt.Errorf("%w: code %q at (%d, %d)", ErrUnknownColor, code, x, y)
			}
		}
	}
	return g, nil
}

func decodeHexGrid(cells [][]string, pal *palette.Palette) (Grid, error) {
	g := Grid(cells).Clone()
	resolved := make(map[string]string)
	for y, row := range g {
		for x, hex := range row {
			code, ok := resolved[hex]
			if !ok {
				var err error
				code, err = resolveHex(hex, pal)
				if err != nil {
					return nil, fmt.Errorf("%w at (%d, %d)", err, x, y)
				}
				resolved[hex] = code
			}
			row[x] = code
		}
	}
	return g, nil
}

func resolveHex(hex string, pal *palette.Palette) (string, error) {
	if code, ok := pal.HexToCode(hex); ok {
		return code, nil
	}
	rgb, err := colorutil.ParseHex(hex)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnknownColor, hex)
	}
	e, err := pal.Nearest(rgb)
	if err != nil {
		return "", err
	}
	log.Printf("pattern: legacy color %s not in palette, using nearest %s (%s)", hex, e.Code, e.Hex)
	return e.Code, nil
}
