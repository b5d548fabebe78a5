package preprocess

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// halves is red on the left half and blue on the right.
func halves(w, h int) *image.RGBA {
	img := solid(w, h, color.RGBA{B: 255, A: 255})
	for y := 0; y < h; y++ {
		for x := 0; x < w/2; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 255, A: 255})
		}
	}
	return img
}

func TestToRGB_FlattensAlphaOnWhite(t *testing.T) {
	src := image.NewNRGBA(image.Rect(5, 5, 7, 6))
	src.SetNRGBA(5, 5, color.NRGBA{R: 255, A: 0})
	src.SetNRGBA(6, 5, color.NRGBA{R: 255, A: 255})

	out := ToRGB(src)
	assert.Equal(t, image.Rect(0, 0, 2, 1), out.Bounds())
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, out.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{R: 255, A: 255}, out.RGBAAt(1, 0))
}

func TestEnhance_FactorOneIsIdentity(t *testing.T) {
	img := halves(8, 4)
	img.SetRGBA(3, 2, color.RGBA{R: 12, G: 200, B: 77, A: 255})

	assert.Equal(t, img.Pix, Saturation(img, 1).Pix)
	assert.Equal(t, img.Pix, Contrast(img, 1).Pix)
	assert.Equal(t, img.Pix, Brightness(img, 1).Pix)
}

func TestSaturation_ZeroIsGray(t *testing.T) {
	img := solid(2, 2, color.RGBA{R: 200, G: 100, B: 50, A: 255})
	out := Saturation(img, 0)
	// 200*.299 + 100*.587 + 50*.114 = 124.2
	assert.Equal(t, color.RGBA{R: 124, G: 124, B: 124, A: 255}, out.RGBAAt(1, 1))
}

func TestContrast_PivotsOnMean(t *testing.T) {
	img := solid(2, 1, color.RGBA{R: 100, G: 100, B: 100, A: 255})
	img.SetRGBA(1, 0, color.RGBA{R: 200, G: 200, B: 200, A: 255})

	out := Contrast(img, 2)
	// Mean gray is 150: 100 -> 50, 200 -> 250.
	assert.Equal(t, uint8(50), out.RGBAAt(0, 0).R)
	assert.Equal(t, uint8(250), out.RGBAAt(1, 0).R)

	flat := Contrast(img, 0)
	assert.Equal(t, flat.RGBAAt(0, 0), flat.RGBAAt(1, 0))
}

func TestBrightness_Scales(t *testing.T) {
	img := solid(1, 1, color.RGBA{R: 100, G: 200, B: 10, A: 255})
	out := Brightness(img, 1.5)
	assert.Equal(t, color.RGBA{R: 150, G: 255, B: 15, A: 255}, out.RGBAAt(0, 0))
}

func TestEnhance_DoesNotMutateInput(t *testing.T) {
	img := halves(4, 4)
	before := append([]uint8(nil), img.Pix...)
	Saturation(img, 2)
	Contrast(img, 2)
	Brightness(img, 0.5)
	GaussianBlur(img, 1.5)
	MeanShiftFilter(img, 2, 10)
	assert.Equal(t, before, img.Pix)
}

func TestPresetFor(t *testing.T) {
	tests := []struct {
		m    Method
		s    Strength
		want Preset
	}{
		{Bilateral, Light, Preset{Method: Bilateral, Diameter: 5, SigmaColor: 50, SigmaSpace: 50}},
		{Bilateral, Medium, Preset{Method: Bilateral, Diameter: 9, SigmaColor: 75, SigmaSpace: 75}},
		{Bilateral, Strong, Preset{Method: Bilateral, Diameter: 15, SigmaColor: 100, SigmaSpace: 100}},
		{MeanShift, Light, Preset{Method: MeanShift, SpatialRadius: 5, ColorRadius: 10}},
		{MeanShift, Medium, Preset{Method: MeanShift, SpatialRadius: 10, ColorRadius: 20}},
		{MeanShift, Strong, Preset{Method: MeanShift, SpatialRadius: 20, ColorRadius: 40}},
		{Gaussian, Light, Preset{Method: Gaussian, BlurRadius: 0.5}},
		{Gaussian, Medium, Preset{Method: Gaussian, BlurRadius: 0.8}},
		{Gaussian, Strong, Preset{Method: Gaussian, BlurRadius: 1.5}},
	}
	for _, tt := range tests {
		t.Run(tt.m.String()+"/"+tt.s.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, PresetFor(tt.m, tt.s))
		})
	}

	assert.Equal(t, Gaussian, PresetFor(Method(7), Light).Method)
}

func TestParseMethodAndStrength(t *testing.T) {
	for _, m := range []Method{Bilateral, MeanShift, Gaussian} {
		got, err := ParseMethod(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
	for _, s := range []Strength{Light, Medium, Strong} {
		got, err := ParseStrength(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}

	_, err := ParseMethod("median")
	assert.Error(t, err)
	_, err = ParseStrength("extreme")
	assert.Error(t, err)
}

func TestMeanShift_FlattensNoise(t *testing.T) {
	img := solid(9, 9, color.RGBA{R: 100, G: 100, B: 100, A: 255})
	img.SetRGBA(4, 4, color.RGBA{R: 104, G: 100, B: 100, A: 255})

	out := MeanShiftFilter(img, 3, 20)
	assert.Equal(t, color.RGBA{R: 100, G: 100, B: 100, A: 255}, out.RGBAAt(4, 4))
}

func TestMeanShift_KeepsDistantColorsApart(t *testing.T) {
	img := halves(10, 4)
	out := MeanShiftFilter(img, 5, 40)
	assert.Equal(t, color.RGBA{R: 255, A: 255}, out.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{B: 255, A: 255}, out.RGBAAt(9, 3))
}

func TestGaussianBlur_UniformStaysUniform(t *testing.T) {
	c := color.RGBA{R: 30, G: 60, B: 90, A: 255}
	out := GaussianBlur(solid(6, 6, c), 1.5)
	for y := 0; y < 6; y++ {
		for x := 0; x < 6; x++ {
			assert.Equal(t, c, out.RGBAAt(x, y))
		}
	}
}

func TestBasic(t *testing.T) {
	img := halves(10, 10)
	out := Basic(img, DefaultContrast)
	assert.Equal(t, img.Bounds(), out.Bounds())
	// Far from the edge, the halves stay saturated.
	assert.Equal(t, uint8(255), out.RGBAAt(0, 5).R)
	assert.Equal(t, uint8(255), out.RGBAAt(9, 5).B)
}

func TestRemoveBackground_WithSegmenter(t *testing.T) {
	img := halves(4, 2)
	seg := SegmenterFunc(func(img *image.RGBA) (*image.Alpha, error) {
		mask := image.NewAlpha(img.Bounds())
		for y := 0; y < 2; y++ {
			mask.SetAlpha(0, y, color.Alpha{A: 255})
			mask.SetAlpha(1, y, color.Alpha{A: 255})
		}
		return mask, nil
	})

	out, err := RemoveBackground(img, seg)
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 255, A: 255}, out.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, out.RGBAAt(3, 1))
	assert.Equal(t, color.RGBA{B: 255, A: 255}, img.RGBAAt(3, 1))
}

func TestAdvanced_SegmentationFailure(t *testing.T) {
	boom := errors.New("model unavailable")
	opts := DefaultAdvancedOptions()
	opts.RemoveBackground = true
	opts.Segmenter = SegmenterFunc(func(*image.RGBA) (*image.Alpha, error) {
		return nil, boom
	})

	_, err := Advanced(halves(4, 4), opts)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSegmentation)
	assert.ErrorIs(t, err, boom)

	var segErr *SegmentationError
	assert.ErrorAs(t, err, &segErr)
}

func TestAdvanced_GaussianPipeline(t *testing.T) {
	opts := AdvancedOptions{
		EnhanceColors: true,
		Saturation:    1.0,
		Contrast:      1.0,
		Brightness:    1.0,
		Simplify:      true,
		Method:        Gaussian,
		Strength:      Light,
	}
	c := color.RGBA{R: 10, G: 20, B: 30, A: 255}
	out, err := Advanced(solid(5, 5, c), opts)
	require.NoError(t, err)
	assert.Equal(t, c, out.RGBAAt(2, 2))
}

func TestBilateralFilter_PreservesFlatRegions(t *testing.T) {
	img := halves(20, 20)
	out, err := Simplify(img, Bilateral, Medium)
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), out.Bounds())
	assert.Equal(t, color.RGBA{R: 255, A: 255}, out.RGBAAt(1, 10))
	assert.Equal(t, color.RGBA{B: 255, A: 255}, out.RGBAAt(18, 10))
}
