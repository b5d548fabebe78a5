package quantize

import (
	"image"
	"image/draw"

	"github.com/esimov/colorquant"
	"github.com/makeworld-the-better-one/dither/v2"

	"bead-pattern/internal/palette"
)

// maxReduceColors is the most colors an image.Paletted can index.
const maxReduceColors = 256

// ReduceToPalette pulls img towards the bead palette before the per-pixel
// nearest-color pass. With ditherFS the image is dithered onto the palette
// Floyd-Steinberg style; otherwise every pixel is mapped to a palette color
// directly. The result only steers the final assignment; it is never used
// as the grid itself.
func ReduceToPalette(img image.Image, pal *palette.Palette, ditherFS bool) image.Image {
	cp := pal.ColorPalette()
	if len(cp) > maxReduceColors {
		cp = cp[:maxReduceColors]
	}
	if len(cp) < 2 {
		return img
	}

	if ditherFS {
		d := dither.NewDitherer(cp)
		if d == nil {
			return img
		}
		d.Matrix = dither.FloydSteinberg
		// A draw.Image is dithered in place and Dither returns nil.
		c := copyRGBA(img)
		if out := d.Dither(c); out != nil {
			return out
		}
		return c
	}

	// Map straight onto the bead palette held by dst, no median cut.
	dst := image.NewPaletted(img.Bounds(), cp)
	colorquant.NoDither.Quantize(img, dst, len(cp), false, false)
	return dst
}

func copyRGBA(img image.Image) *image.RGBA {
	out := image.NewRGBA(img.Bounds())
	draw.Draw(out, out.Bounds(), img, img.Bounds().Min, draw.Src)
	return out
}
