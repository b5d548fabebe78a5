// Package render draws finished patterns: a raster preview and a printable
// multi-page PDF with one page per board.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"bead-pattern/internal/palette"
	"bead-pattern/internal/pattern"
	"bead-pattern/pkg/colorutil"
)

// ErrEmptyGrid is returned when a pattern has no cells to draw.
var ErrEmptyGrid = errors.New("render: pattern grid is empty")

// Shape is how a single bead is drawn in the preview.
type Shape int

const (
	Square Shape = iota
	Circle
)

func (s Shape) String() string {
	switch s {
	case Square:
		return "square"
	case Circle:
		return "circle"
	default:
		return "unknown"
	}
}

// ParseShape accepts "square" or "circle".
func ParseShape(s string) (Shape, error) {
	switch s {
	case "square", "":
		return Square, nil
	case "circle":
		return Circle, nil
	default:
		return Square, fmt.Errorf("unknown bead shape %q", s)
	}
}

// PreviewOptions controls the raster preview.
type PreviewOptions struct {
	Scale      int           // Pixels per bead along each side
	Shape      Shape         // Square fills the cell, Circle simulates a bead
	Background colorutil.RGB // Shown around circles
	ShowCodes  bool          // Print palette codes inside cells large enough to hold them
}

// DefaultPreviewOptions returns flat 20px squares on white.
func DefaultPreviewOptions() PreviewOptions {
	return PreviewOptions{
		Scale:      20,
		Shape:      Square,
		Background: colorutil.White,
	}
}

// minCodeScale is the smallest cell that fits a two-character code in the
// 7x13 bitmap font.
const minCodeScale = 16

// Preview draws every cell of d as a Scale x Scale block.
func Preview(d *pattern.Data, pal *palette.Palette, opts PreviewOptions) (*image.RGBA, error) {
	if err := checkDrawable(d); err != nil {
		return nil, err
	}
	fills, err := resolveColors(d, pal)
	if err != nil {
		return nil, err
	}
	scale := opts.Scale
	if scale <= 0 {
		scale = DefaultPreviewOptions().Scale
	}

	img := image.NewRGBA(image.Rect(0, 0, d.Width*scale, d.Height*scale))
	draw.Draw(img, img.Bounds(), image.NewUniform(opts.Background.RGBA8()), image.Point{}, draw.Src)

	mask := cellMask(scale, opts.Shape)
	for y, row := range d.Grid {
		for x, code := range row {
			fill := image.NewUniform(fills[code].RGBA8())
			cell := image.Rect(x*scale, y*scale, (x+1)*scale, (y+1)*scale)
			draw.DrawMask(img, cell, fill, image.Point{}, mask, image.Point{}, draw.Over)
		}
	}

	if opts.ShowCodes && scale >= minCodeScale {
		drawCodes(img, d, fills, scale)
	}
	return img, nil
}

// PreviewPNG renders the preview and encodes it as PNG.
func PreviewPNG(d *pattern.Data, pal *palette.Palette, opts PreviewOptions) ([]byte, error) {
	img, err := Preview(d, pal, opts)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding preview: %w", err)
	}
	return buf.Bytes(), nil
}

// cellMask returns a binary mask for one cell. For circles a pixel is inside
// when its center lies within the inscribed circle, so nothing is painted
// outside the bead.
func cellMask(scale int, shape Shape) *image.Alpha {
	m := image.NewAlpha(image.Rect(0, 0, scale, scale))
	r := float64(scale) / 2
	for py := 0; py < scale; py++ {
		for px := 0; px < scale; px++ {
			if shape == Circle {
				dx := float64(px) + 0.5 - r
				dy := float64(py) + 0.5 - r
				if dx*dx+dy*dy > r*r {
					continue
				}
			}
			m.SetAlpha(px, py, color.Alpha{A: 255})
		}
	}
	return m
}

func drawCodes(img *image.RGBA, d *pattern.Data, fills map[string]colorutil.RGB, scale int) {
	face := basicfont.Face7x13
	dr := &font.Drawer{Dst: img, Face: face}
	metrics := face.Metrics()
	textHeight := (metrics.Ascent + metrics.Descent).Ceil()

	for y, row := range d.Grid {
		for x, code := range row {
			dr.Src = image.NewUniform(colorutil.ContrastText(fills[code]).RGBA8())
			adv := dr.MeasureString(code)
			left := fixed.I(x*scale) + (fixed.I(scale)-adv)/2
			baseline := fixed.I(y*scale+(scale-textHeight)/2) + metrics.Ascent
			dr.Dot = fixed.Point26_6{X: left, Y: baseline}
			dr.DrawString(code)
		}
	}
}

func checkDrawable(d *pattern.Data) error {
	if d == nil || d.Width <= 0 || d.Height <= 0 || len(d.Grid) == 0 || len(d.Grid[0]) == 0 {
		return ErrEmptyGrid
	}
	if !d.Grid.Rectangular() || d.Grid.Width() != d.Width || d.Grid.Height() != d.Height {
		return fmt.Errorf("%w: grid is %dx%d, recorded %dx%d",
			pattern.ErrMalformed, d.Grid.Width(), d.Grid.Height(), d.Width, d.Height)
	}
	return nil
}

// resolveColors looks up the fill of every code used in d.
func resolveColors(d *pattern.Data, pal *palette.Palette) (map[string]colorutil.RGB, error) {
	fills := make(map[string]colorutil.RGB)
	for y, row := range d.Grid {
		for x, code := range row {
			if _, ok := fills[code]; ok {
				continue
			}
			e, ok := pal.ByCode(code)
			if !ok {
				return nil, fmt.Errorf("%w: %q at (%d, %d)", pattern.ErrUnknownColor, code, x, y)
			}
			fills[code] = e.RGB
		}
	}
	return fills, nil
}
