// Package palette loads the fixed set of bead colors and provides
// code/hex lookup and nearest-color search over it.
package palette

import (
	"encoding/json"
	"fmt"
	"image/color"
	"io"
	"log"
	"math"
	"strings"

	"bead-pattern/pkg/colorutil"
)

// Record is one color as stored in the palette source file.
type Record struct {
	Name string `json:"name"`
	Code string `json:"code"`
	Hex  string `json:"hex"`
}

// Entry is a validated palette color.
type Entry struct {
	Name string
	Code string        // Stable short identifier printed on patterns, e.g. "01"
	Hex  string        // Normalized "#RRGGBB"
	RGB  colorutil.RGB // Parsed form of Hex
}

// Palette is an immutable, ordered set of bead colors with prebuilt lookup maps.
// A Palette is safe for concurrent use; it is never modified after construction.
type Palette struct {
	entries []Entry
	byCode  map[string]int
	byHex   map[string]int
}

// Load decodes a JSON array of records and builds a palette from it.
func Load(r io.Reader) (*Palette, error) {
	var records []Record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPaletteLoad, err)
	}
	return LoadRecords(records)
}

// LoadRecords builds a palette from records. Records with a missing or
// invalid hex value, or with a code or hex already seen, are skipped with a
// warning. It fails with ErrEmptyPalette if nothing is left.
func LoadRecords(records []Record) (*Palette, error) {
	p := &Palette{
		entries: make([]Entry, 0, len(records)),
		byCode:  make(map[string]int, len(records)),
		byHex:   make(map[string]int, len(records)),
	}

	for _, rec := range records {
		if strings.TrimSpace(rec.Hex) == "" {
			log.Printf("palette: skipping color %q (code %q): missing hex value", rec.Name, rec.Code)
			continue
		}
		entry, err := newEntry(rec)
		if err != nil {
			log.Printf("palette: skipping record: %v", err)
			continue
		}
		if _, dup := p.byCode[entry.Code]; dup {
			log.Printf("palette: skipping color %q: duplicate code %q", rec.Name, entry.Code)
			continue
		}
		if _, dup := p.byHex[entry.Hex]; dup {
			log.Printf("palette: skipping color %q: duplicate hex %s", rec.Name, entry.Hex)
			continue
		}
		p.byCode[entry.Code] = len(p.entries)
		p.byHex[entry.Hex] = len(p.entries)
		p.entries = append(p.entries, entry)
	}

	if len(p.entries) == 0 {
		return nil, ErrEmptyPalette
	}
	log.Printf("palette: loaded %d colors", len(p.entries))
	return p, nil
}

func newEntry(rec Record) (Entry, error) {
	rgb, err := colorutil.ParseHex(rec.Hex)
	if err != nil {
		return Entry{}, &HexError{Name: rec.Name, Code: rec.Code, Hex: rec.Hex}
	}
	return Entry{
		Name: rec.Name,
		Code: strings.TrimSpace(rec.Code),
		Hex:  rgb.Hex(),
		RGB:  rgb,
	}, nil
}

// Len returns the number of colors.
func (p *Palette) Len() int {
	if p == nil {
		return 0
	}
	return len(p.entries)
}

// Entries returns a copy of the colors in source order.
func (p *Palette) Entries() []Entry {
	if p == nil {
		return nil
	}
	out := make([]Entry, len(p.entries))
	copy(out, p.entries)
	return out
}

// Index returns the source-order position of code, or -1.
func (p *Palette) Index(code string) int {
	if p == nil {
		return -1
	}
	if i, ok := p.byCode[code]; ok {
		return i
	}
	return -1
}

// ByCode looks up a color by its code.
func (p *Palette) ByCode(code string) (Entry, bool) {
	if p == nil {
		return Entry{}, false
	}
	i, ok := p.byCode[code]
	if !ok {
		return Entry{}, false
	}
	return p.entries[i], true
}

// ByHex looks up a color by hex value. The lookup ignores case and
// tolerates a missing or repeated leading '#'.
func (p *Palette) ByHex(hex string) (Entry, bool) {
	if p == nil {
		return Entry{}, false
	}
	norm, ok := colorutil.NormalizeHex(hex)
	if !ok {
		return Entry{}, false
	}
	i, ok := p.byHex[norm]
	if !ok {
		return Entry{}, false
	}
	return p.entries[i], true
}

// CodeToHex returns the hex value for code.
func (p *Palette) CodeToHex(code string) (string, bool) {
	e, ok := p.ByCode(code)
	return e.Hex, ok
}

// HexToCode returns the code for a hex value.
func (p *Palette) HexToCode(hex string) (string, bool) {
	e, ok := p.ByHex(hex)
	return e.Code, ok
}

// Nearest returns the color closest to c by Euclidean RGB distance.
// Ties go to the color that appears first in the palette.
func (p *Palette) Nearest(c colorutil.RGB) (Entry, error) {
	if p == nil {
		return Entry{}, ErrEmptyPalette
	}
	return NearestIn(c, p.entries)
}

// NearestIn is Nearest restricted to candidates, with the same tie-break
// on candidate order.
func NearestIn(c colorutil.RGB, candidates []Entry) (Entry, error) {
	best := -1
	bestDist := math.MaxInt
	for i, e := range candidates {
		if d := colorutil.DistanceSq(c, e.RGB); d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		return Entry{}, ErrEmptyPalette
	}
	return candidates[best], nil
}

// ColorPalette returns the colors as a color.Palette in source order.
func (p *Palette) ColorPalette() color.Palette {
	if p == nil {
		return nil
	}
	cp := make(color.Palette, len(p.entries))
	for i, e := range p.entries {
		cp[i] = e.RGB.RGBA8()
	}
	return cp
}
