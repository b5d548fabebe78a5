// Package preprocess prepares a source image for quantization: background
// removal, color enhancement and detail simplification.
//
// Every function returns a new image and leaves its input untouched.
package preprocess

import (
	"image"
	"image/color"
	"image/draw"
	"log"
)

// Basic pipeline defaults.
const (
	DefaultContrast = 1.2
	BasicBlurRadius = 0.8
)

// ToRGB returns an opaque copy of img with its origin at (0, 0).
// Transparent areas are composited over white.
func ToRGB(img image.Image) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Over)
	return out
}

// Basic converts img to RGB, applies a contrast factor (1.0 leaves it as is)
// and a light gaussian blur that suppresses single-pixel noise before
// downsampling.
func Basic(img image.Image, contrast float64) *image.RGBA {
	out := ToRGB(img)
	if contrast != 1.0 {
		out = Contrast(out, contrast)
	}
	return GaussianBlur(out, BasicBlurRadius)
}

// AdvancedOptions configures the advanced pipeline. Each enhancement factor
// is a multiplier where 1.0 leaves the image unchanged.
type AdvancedOptions struct {
	RemoveBackground bool
	Segmenter        Segmenter // nil uses DefaultGrabCut

	EnhanceColors bool
	Saturation    float64
	Contrast      float64
	Brightness    float64

	Simplify bool
	Method   Method
	Strength Strength
}

// DefaultAdvancedOptions boosts color and contrast and applies strong
// bilateral simplification, without background removal.
func DefaultAdvancedOptions() AdvancedOptions {
	return AdvancedOptions{
		EnhanceColors: true,
		Saturation:    1.5,
		Contrast:      1.3,
		Brightness:    1.0,
		Simplify:      true,
		Method:        Bilateral,
		Strength:      Strong,
	}
}

// Advanced runs the configured stages in order: background removal,
// saturation, contrast, brightness, simplification.
func Advanced(img image.Image, opts AdvancedOptions) (*image.RGBA, error) {
	log.Printf("Starting enhanced preprocessing (bg_removal=%v, enhance_colors=%v, simplify=%v)",
		opts.RemoveBackground, opts.EnhanceColors, opts.Simplify)

	out := ToRGB(img)

	if opts.RemoveBackground {
		seg := opts.Segmenter
		if seg == nil {
			seg = DefaultGrabCut()
		}
		var err error
		if out, err = RemoveBackground(out, seg); err != nil {
			return nil, err
		}
	}

	if opts.EnhanceColors {
		if opts.Saturation != 1.0 {
			out = Saturation(out, opts.Saturation)
		}
		if opts.Contrast != 1.0 {
			out = Contrast(out, opts.Contrast)
		}
		if opts.Brightness != 1.0 {
			out = Brightness(out, opts.Brightness)
		}
	}

	if opts.Simplify {
		log.Printf("Simplifying details using %s filter (strength=%s)", opts.Method, opts.Strength)
		var err error
		if out, err = Simplify(out, opts.Method, opts.Strength); err != nil {
			return nil, err
		}
	}
	return out, nil
}
