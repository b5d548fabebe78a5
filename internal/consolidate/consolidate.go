// Package consolidate removes rarely used colors from a finished bead grid so
// the pattern needs fewer bead colors to assemble.
package consolidate

import (
	"fmt"
	"log"
	"math"

	"bead-pattern/internal/palette"
	"bead-pattern/internal/pattern"
	"bead-pattern/pkg/colorutil"
)

// DefaultThreshold is the minimum share of cells a color must cover to stay.
const DefaultThreshold = 0.005

// MinCount returns the smallest cell count a color may keep:
// max(1, floor(total*threshold)).
func MinCount(total int, threshold float64) int {
	return max(1, int(math.Floor(float64(total)*threshold)))
}

// Consolidate returns a new grid and usage in which every color covering
// fewer than MinCount cells has been replaced by the nearest color that
// does meet the threshold. When no color survives, every cell gets the most
// frequent original color. The inputs are not modified.
//
// Decisions are made from usage; the returned usage is recounted from the
// returned grid.
func Consolidate(grid pattern.Grid, usage pattern.ColorUsage, pal *palette.Palette, threshold float64) (pattern.Grid, pattern.ColorUsage, error) {
	if math.IsNaN(threshold) || threshold < 0 || threshold > 1 {
		return nil, nil, fmt.Errorf("consolidate: threshold %v outside [0, 1]", threshold)
	}
	if pal.Len() == 0 {
		return nil, nil, palette.ErrEmptyPalette
	}

	total := grid.Width() * grid.Height()
	minCount := MinCount(total, threshold)

	// Survivors keep palette order so nearest-color ties resolve the same
	// way as during quantization.
	var survivors []palette.Entry
	for _, e := range pal.Entries() {
		if usage[e.Code] >= minCount {
			survivors = append(survivors, e)
		}
	}
	removed := 0
	for code, n := range usage {
		if n <= 0 {
			continue
		}
		if _, ok := pal.ByCode(code); !ok || n < minCount {
			removed++
		}
	}
	if removed == 0 {
		return grid.Clone(), pattern.CountUsage(grid), nil
	}
	log.Printf("Removing %d colors that appear less than %d times", removed, minCount)

	fallback := mostFrequent(usage, pal)
	replacement := make(map[string]string)
	keep := make(map[string]bool, len(survivors))
	for _, e := range survivors {
		keep[e.Code] = true
	}

	out := grid.Clone()
	for _, row := range out {
		for x, code := range row {
			if keep[code] {
				continue
			}
			to, ok := replacement[code]
			if !ok {
				to = replace(code, pal, survivors, fallback)
				replacement[code] = to
			}
			row[x] = to
		}
	}

	newUsage := pattern.CountUsage(out)
	log.Printf("After filtering: %d unique colors remaining", len(newUsage))
	return out, newUsage, nil
}

// replace picks the surviving color nearest to code's own color. Codes the
// palette does not know are resolved as hex if possible.
func replace(code string, pal *palette.Palette, survivors []palette.Entry, fallback string) string {
	if len(survivors) == 0 {
		return fallback
	}
	var rgb colorutil.RGB
	if e, ok := pal.ByCode(code); ok {
		rgb = e.RGB
	} else if parsed, err := colorutil.ParseHex(code); err == nil {
		rgb = parsed
	} else {
		return fallback
	}
	e, err := palette.NearestIn(rgb, survivors)
	if err != nil {
		return fallback
	}
	return e.Code
}

// mostFrequent returns the palette code with the highest count. Ties go to
// the earlier palette entry. If no palette color is used at all, the first
// palette entry is returned.
func mostFrequent(usage pattern.ColorUsage, pal *palette.Palette) string {
	entries := pal.Entries()
	best, bestCount := entries[0].Code, -1
	for _, e := range entries {
		if n := usage[e.Code]; n > bestCount {
			best, bestCount = e.Code, n
		}
	}
	return best
}
