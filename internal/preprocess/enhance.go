package preprocess

import (
	"image"
	"math"

	"gonum.org/v1/gonum/stat"
)

// Enhancement factors interpolate between a degenerate image and the input:
// out = degenerate + factor*(in - degenerate). A factor of 1 returns the
// input unchanged, 0 returns the degenerate image, and values above 1
// extrapolate away from it.

// Saturation scales color saturation. The degenerate image is the grayscale
// version of img.
func Saturation(img *image.RGBA, factor float64) *image.RGBA {
	return blendPerPixel(img, factor, func(r, g, b uint8) (float64, float64, float64) {
		l := float64(luma(r, g, b))
		return l, l, l
	})
}

// Contrast scales contrast around the mean gray level of img.
func Contrast(img *image.RGBA, factor float64) *image.RGBA {
	mean := math.Floor(meanLuma(img) + 0.5)
	return blendPerPixel(img, factor, func(_, _, _ uint8) (float64, float64, float64) {
		return mean, mean, mean
	})
}

// Brightness scales every channel towards or away from black.
func Brightness(img *image.RGBA, factor float64) *image.RGBA {
	return blendPerPixel(img, factor, func(_, _, _ uint8) (float64, float64, float64) {
		return 0, 0, 0
	})
}

func blendPerPixel(img *image.RGBA, factor float64, degenerate func(r, g, b uint8) (float64, float64, float64)) *image.RGBA {
	src := packed(img)
	out := image.NewRGBA(src.Rect)
	for i := 0; i+3 < len(src.Pix); i += 4 {
		r, g, b := src.Pix[i], src.Pix[i+1], src.Pix[i+2]
		dr, dg, db := degenerate(r, g, b)
		out.Pix[i+0] = blend(dr, float64(r), factor)
		out.Pix[i+1] = blend(dg, float64(g), factor)
		out.Pix[i+2] = blend(db, float64(b), factor)
		out.Pix[i+3] = 255
	}
	return out
}

func blend(deg, v, factor float64) uint8 {
	x := deg + factor*(v-deg)
	switch {
	case x <= 0:
		return 0
	case x >= 255:
		return 255
	default:
		return uint8(x + 0.5)
	}
}

// luma is the ITU-R 601 gray level with integer rounding.
func luma(r, g, b uint8) uint8 {
	return uint8((uint32(r)*299 + uint32(g)*587 + uint32(b)*114 + 500) / 1000)
}

func meanLuma(img *image.RGBA) float64 {
	n := len(img.Pix) / 4
	if n == 0 {
		return 0
	}
	values := make([]float64, 0, n)
	for i := 0; i+3 < len(img.Pix); i += 4 {
		values = append(values, float64(luma(img.Pix[i], img.Pix[i+1], img.Pix[i+2])))
	}
	return stat.Mean(values, nil)
}
