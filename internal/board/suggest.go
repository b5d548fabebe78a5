package board

import (
	"fmt"
	"math"
	"strings"
)

// SizeName identifies one of the preset pattern sizes.
type SizeName string

const (
	SizeSmall  SizeName = "small"
	SizeMedium SizeName = "medium"
	SizeLarge  SizeName = "large"
)

// SizePreset caps the number of boards along the longer image side.
type SizePreset struct {
	Name      SizeName `json:"name"`
	MaxBoards int      `json:"max_boards"`
}

// Presets lists the built-in sizes from smallest to largest.
var Presets = []SizePreset{
	{Name: SizeSmall, MaxBoards: 2},  // up to 58 beads
	{Name: SizeMedium, MaxBoards: 4}, // up to 116 beads
	{Name: SizeLarge, MaxBoards: 6},  // up to 174 beads
}

// ParseSizeName validates a size name.
func ParseSizeName(s string) (SizeName, error) {
	name := SizeName(strings.ToLower(strings.TrimSpace(s)))
	for _, p := range Presets {
		if p.Name == name {
			return name, nil
		}
	}
	return "", fmt.Errorf("unknown pattern size %q (want small, medium or large)", s)
}

// SizeOption is the board layout of one preset for a particular image.
type SizeOption struct {
	Name         SizeName `json:"name"`
	BoardsWidth  int      `json:"boards_width"`
	BoardsHeight int      `json:"boards_height"`
	BeadsWidth   int      `json:"beads_width"`
	BeadsHeight  int      `json:"beads_height"`
	TotalBeads   int      `json:"total_beads"`
}

// Suggestion holds the preset layouts for an image and the recommended one.
type Suggestion struct {
	Sizes       []SizeOption `json:"sizes"`
	Suggested   SizeName     `json:"suggested_size"`
	AspectRatio float64      `json:"aspect_ratio"`
	ImageWidth  int          `json:"image_width"`
	ImageHeight int          `json:"image_height"`
}

// Option returns the layout for name.
func (s Suggestion) Option(name SizeName) (SizeOption, bool) {
	for _, o := range s.Sizes {
		if o.Name == name {
			return o, true
		}
	}
	return SizeOption{}, false
}

// Suggest computes board counts for every preset from the source image
// dimensions. The longer side gets the preset's board count, the shorter side
// is scaled by the aspect ratio and rounded, never below one board. Larger
// images are steered towards larger presets by megapixel count.
func Suggest(srcW, srcH int) (Suggestion, error) {
	if srcW <= 0 || srcH <= 0 {
		return Suggestion{}, fmt.Errorf("invalid image dimensions %dx%d", srcW, srcH)
	}
	aspect := float64(srcW) / float64(srcH)

	s := Suggestion{
		AspectRatio: aspect,
		ImageWidth:  srcW,
		ImageHeight: srcH,
	}
	for _, p := range Presets {
		var bw, bh int
		if srcW >= srcH {
			bw = p.MaxBoards
			bh = max(1, int(math.RoundToEven(float64(p.MaxBoards)/aspect)))
		} else {
			bh = p.MaxBoards
			bw = max(1, int(math.RoundToEven(float64(p.MaxBoards)*aspect)))
		}
		s.Sizes = append(s.Sizes, SizeOption{
			Name:         p.Name,
			BoardsWidth:  bw,
			BoardsHeight: bh,
			BeadsWidth:   bw * BoardSize,
			BeadsHeight:  bh * BoardSize,
			TotalBeads:   bw * bh * BoardSize * BoardSize,
		})
	}

	megapixels := float64(srcW) * float64(srcH) / 1_000_000
	switch {
	case megapixels < 0.5:
		s.Suggested = SizeSmall
	case megapixels < 2:
		s.Suggested = SizeMedium
	default:
		s.Suggested = SizeLarge
	}
	return s, nil
}
