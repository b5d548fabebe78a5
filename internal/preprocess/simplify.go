package preprocess

import (
	"fmt"
	"image"
	"log"
	"strings"

	"github.com/disintegration/gift"
	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/floats"
)

// Method selects the detail-simplification filter.
type Method int

const (
	Bilateral Method = iota // Edge-preserving smoothing
	MeanShift               // Flattens regions of similar color
	Gaussian                // Plain blur
)

func (m Method) String() string {
	switch m {
	case Bilateral:
		return "bilateral"
	case MeanShift:
		return "mean_shift"
	case Gaussian:
		return "gaussian"
	default:
		return "unknown"
	}
}

// ParseMethod accepts "bilateral", "mean_shift" or "gaussian".
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bilateral":
		return Bilateral, nil
	case "mean_shift", "meanshift", "mean-shift":
		return MeanShift, nil
	case "gaussian":
		return Gaussian, nil
	default:
		return Bilateral, fmt.Errorf("unknown simplification method %q", s)
	}
}

// Strength selects one of the fixed parameter presets.
type Strength int

const (
	Light Strength = iota
	Medium
	Strong
)

func (s Strength) String() string {
	switch s {
	case Light:
		return "light"
	case Medium:
		return "medium"
	case Strong:
		return "strong"
	default:
		return "unknown"
	}
}

// ParseStrength accepts "light", "medium" or "strong".
func ParseStrength(s string) (Strength, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "light":
		return Light, nil
	case "medium":
		return Medium, nil
	case "strong":
		return Strong, nil
	default:
		return Medium, fmt.Errorf("unknown simplification strength %q", s)
	}
}

// Preset holds the numeric parameters of one (Method, Strength) pair.
// Only the fields of the preset's Method are set.
type Preset struct {
	Method Method

	// Bilateral
	Diameter   int
	SigmaColor float64
	SigmaSpace float64

	// MeanShift
	SpatialRadius int
	ColorRadius   float64

	// Gaussian
	BlurRadius float64
}

var presets = [...][3]Preset{
	Bilateral: {
		Light:  {Method: Bilateral, Diameter: 5, SigmaColor: 50, SigmaSpace: 50},
		Medium: {Method: Bilateral, Diameter: 9, SigmaColor: 75, SigmaSpace: 75},
		Strong: {Method: Bilateral, Diameter: 15, SigmaColor: 100, SigmaSpace: 100},
	},
	MeanShift: {
		Light:  {Method: MeanShift, SpatialRadius: 5, ColorRadius: 10},
		Medium: {Method: MeanShift, SpatialRadius: 10, ColorRadius: 20},
		Strong: {Method: MeanShift, SpatialRadius: 20, ColorRadius: 40},
	},
	Gaussian: {
		Light:  {Method: Gaussian, BlurRadius: 0.5},
		Medium: {Method: Gaussian, BlurRadius: 0.8},
		Strong: {Method: Gaussian, BlurRadius: 1.5},
	},
}

// PresetFor returns the parameters for m at strength s.
// Out-of-range values fall back to a medium gaussian blur.
func PresetFor(m Method, s Strength) Preset {
	if m < 0 || int(m) >= len(presets) || s < 0 || int(s) >= len(presets[m]) {
		return presets[Gaussian][Medium]
	}
	return presets[m][s]
}

// Simplify applies the filter and strength preset to img and returns a new image.
func Simplify(img *image.RGBA, m Method, s Strength) (*image.RGBA, error) {
	p := PresetFor(m, s)
	switch p.Method {
	case Bilateral:
		return BilateralFilter(img, p.Diameter, p.SigmaColor, p.SigmaSpace)
	case MeanShift:
		return MeanShiftFilter(img, p.SpatialRadius, p.ColorRadius), nil
	default:
		return GaussianBlur(img, p.BlurRadius), nil
	}
}

// BilateralFilter smooths img while keeping strong edges.
func BilateralFilter(img *image.RGBA, diameter int, sigmaColor, sigmaSpace float64) (*image.RGBA, error) {
	src, err := imageToMat(img)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	dst := gocv.NewMat()
	defer dst.Close()
	gocv.BilateralFilter(src, &dst, diameter, sigmaColor, sigmaSpace)
	if dst.Empty() {
		return nil, fmt.Errorf("bilateral filter produced no output")
	}
	return matToImage(dst), nil
}

// GaussianBlur blurs img with standard deviation radius.
func GaussianBlur(img *image.RGBA, radius float64) *image.RGBA {
	if radius <= 0 {
		return ToRGB(img)
	}
	g := gift.New(gift.GaussianBlur(float32(radius)))
	out := image.NewRGBA(g.Bounds(img.Bounds()))
	g.Draw(out, img)
	return opaque(out)
}

// meanShiftIterations caps the per-pixel search.
const meanShiftIterations = 5

// MeanShiftFilter flattens regions of similar color. For each pixel a window
// of spatialRadius is moved to the centroid of the neighbors whose color lies
// within colorRadius of the current mean color, until it settles; the pixel
// takes the color the window settled on.
func MeanShiftFilter(img *image.RGBA, spatialRadius int, colorRadius float64) *image.RGBA {
	src := packed(img)
	w, h := src.Rect.Dx(), src.Rect.Dy()
	out := image.NewRGBA(src.Rect)
	sr2 := colorRadius * colorRadius

	// sums holds x, y, r, g, b of the accepted neighbors.
	sums := make([]float64, 5)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := src.PixOffset(x, y)
			cx, cy := float64(x), float64(y)
			cr, cg, cb := float64(src.Pix[i]), float64(src.Pix[i+1]), float64(src.Pix[i+2])

			for iter := 0; iter < meanShiftIterations; iter++ {
				ix, iy := int(cx+0.5), int(cy+0.5)
				x0, x1 := max(ix-spatialRadius, 0), min(ix+spatialRadius, w-1)
				y0, y1 := max(iy-spatialRadius, 0), min(iy+spatialRadius, h-1)

				for k := range sums {
					sums[k] = 0
				}
				n := 0
				for ny := y0; ny <= y1; ny++ {
					for nx := x0; nx <= x1; nx++ {
						j := src.PixOffset(nx, ny)
						r, g, b := float64(src.Pix[j]), float64(src.Pix[j+1]), float64(src.Pix[j+2])
						if (r-cr)*(r-cr)+(g-cg)*(g-cg)+(b-cb)*(b-cb) > sr2 {
							continue
						}
						sums[0] += float64(nx)
						sums[1] += float64(ny)
						sums[2] += r
						sums[3] += g
						sums[4] += b
						n++
					}
				}
				if n == 0 {
					break
				}
				floats.Scale(1/float64(n), sums)

				shift := (sums[0]-cx)*(sums[0]-cx) + (sums[1]-cy)*(sums[1]-cy) +
					(sums[2]-cr)*(sums[2]-cr) + (sums[3]-cg)*(sums[3]-cg) + (sums[4]-cb)*(sums[4]-cb)
				cx, cy, cr, cg, cb = sums[0], sums[1], sums[2], sums[3], sums[4]
				if shift < 1 {
					break
				}
			}

			o := out.PixOffset(x, y)
			out.Pix[o+0] = clamp8(cr)
			out.Pix[o+1] = clamp8(cg)
			out.Pix[o+2] = clamp8(cb)
			out.Pix[o+3] = 255
		}
	}
	log.Printf("Mean shift filter applied (sp=%d, sr=%.0f) to %dx%d image", spatialRadius, colorRadius, w, h)
	return out
}

func clamp8(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	default:
		return uint8(v + 0.5)
	}
}

// opaque forces every alpha value to 255.
func opaque(img *image.RGBA) *image.RGBA {
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 255
	}
	return img
}
