package quantize

import (
	"fmt"
	"image"
	"strings"

	"github.com/KononK/resize"
)

// Resampler selects the interpolation used when shrinking to grid size.
type Resampler int

const (
	// Smooth averages neighboring pixels (Lanczos3). Best for photos.
	Smooth Resampler = iota
	// Nearest keeps hard edges between flat color regions, e.g. for images
	// that were already stylized into flat colors.
	Nearest
)

func (r Resampler) String() string {
	switch r {
	case Smooth:
		return "lanczos"
	case Nearest:
		return "nearest"
	default:
		return "unknown"
	}
}

// ParseResampler accepts "lanczos" (or "smooth") and "nearest".
func ParseResampler(s string) (Resampler, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "lanczos", "smooth":
		return Smooth, nil
	case "nearest":
		return Nearest, nil
	default:
		return Smooth, fmt.Errorf("unknown resampler %q (want lanczos or nearest)", s)
	}
}

func (r Resampler) interpolation() resize.InterpolationFunction {
	if r == Nearest {
		return resize.NearestNeighbor
	}
	return resize.Lanczos3
}

// Resample scales img to exactly w x h pixels.
func Resample(img image.Image, w, h int, r Resampler) image.Image {
	return resize.Resize(uint(w), uint(h), img, r.interpolation())
}
