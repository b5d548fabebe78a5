// Package quantize turns a preprocessed image into a grid of palette codes
// sized to a whole number of pegboards.
package quantize

import (
	"errors"
	"fmt"
	"image"
	"log"

	"bead-pattern/internal/board"
	"bead-pattern/internal/palette"
	"bead-pattern/internal/pattern"
	"bead-pattern/pkg/colorutil"
)

// ErrEmptyImage is returned for an image with no pixels.
var ErrEmptyImage = errors.New("quantize: image has no pixels")

// Options controls grid sizing and color reduction.
type Options struct {
	BoardsWidth  int       // Boards across; the grid is at most BoardsWidth*BoardSize wide
	BoardsHeight int       // Boards down
	Resampler    Resampler // Interpolation for the downscale
	PreQuantize  bool      // Reduce towards the palette before the nearest-color pass
	Dither       bool      // Floyd-Steinberg during PreQuantize
}

// DefaultOptions returns a single board with smooth resampling and a plain
// palette pre-reduction.
func DefaultOptions() Options {
	return Options{
		BoardsWidth:  1,
		BoardsHeight: 1,
		Resampler:    Smooth,
		PreQuantize:  true,
	}
}

// Result is the quantized grid and its color counts.
type Result struct {
	Grid   pattern.Grid
	Usage  pattern.ColorUsage
	Width  int
	Height int
}

// Quantize resizes img to board-aligned dimensions and snaps every pixel to
// its nearest palette color.
func Quantize(img image.Image, pal *palette.Palette, opts Options) (Result, error) {
	if pal.Len() == 0 {
		return Result{}, palette.ErrEmptyPalette
	}
	if opts.BoardsWidth <= 0 || opts.BoardsHeight <= 0 {
		return Result{}, fmt.Errorf("quantize: invalid board count %dx%d", opts.BoardsWidth, opts.BoardsHeight)
	}
	b := img.Bounds()
	if b.Empty() {
		return Result{}, ErrEmptyImage
	}

	maxW := opts.BoardsWidth * board.BoardSize
	maxH := opts.BoardsHeight * board.BoardSize
	w, h := ComputeDimensions(b.Dx(), b.Dy(), maxW, maxH)

	small := Resample(img, w, h, opts.Resampler)
	log.Printf("Resized image to %dx%d using %s", w, h, opts.Resampler)

	if opts.PreQuantize {
		small = ReduceToPalette(small, pal, opts.Dither)
	}

	grid, usage, err := assign(small, pal)
	if err != nil {
		return Result{}, err
	}
	return Result{Grid: grid, Usage: usage, Width: w, Height: h}, nil
}

// assign maps every pixel to the code of its nearest palette color.
// Results are memoized per distinct color.
func assign(img image.Image, pal *palette.Palette) (pattern.Grid, pattern.ColorUsage, error) {
	b := img.Bounds()
	grid := pattern.NewGrid(b.Dx(), b.Dy())
	usage := make(pattern.ColorUsage)
	memo := make(map[colorutil.RGB]string)

	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			c := colorutil.FromColor(img.At(b.Min.X+x, b.Min.Y+y))
			code, ok := memo[c]
			if !ok {
				e, err := pal.Nearest(c)
				if err != nil {
					return nil, nil, err
				}
				code = e.Code
				memo[c] = code
			}
			grid[y][x] = code
			usage[code]++
		}
	}
	return grid, usage, nil
}
