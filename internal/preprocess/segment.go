package preprocess

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// ErrSegmentation is the sentinel for background-removal failures.
var ErrSegmentation = errors.New("preprocess: background segmentation failed")

// SegmentationError wraps the cause of a failed background removal.
type SegmentationError struct {
	Err error
}

func (e *SegmentationError) Error() string {
	return fmt.Sprintf("%v: %v", ErrSegmentation, e.Err)
}

// Unwrap exposes both the sentinel and the underlying cause.
func (e *SegmentationError) Unwrap() []error {
	return []error{ErrSegmentation, e.Err}
}

// Segmenter separates the foreground subject from the background.
// The returned mask has the bounds of img; 255 is foreground, 0 background,
// and values in between blend.
type Segmenter interface {
	Segment(img *image.RGBA) (*image.Alpha, error)
}

// SegmenterFunc adapts a function to Segmenter.
type SegmenterFunc func(img *image.RGBA) (*image.Alpha, error)

func (f SegmenterFunc) Segment(img *image.RGBA) (*image.Alpha, error) {
	return f(img)
}

// GrabCutSegmenter finds the foreground with OpenCV's GrabCut, seeded with a
// rectangle inset from the image border. It assumes the subject is roughly
// centered and does not touch the edges.
type GrabCutSegmenter struct {
	Iterations int     // GrabCut iterations (default 5)
	Margin     float64 // Inset of the seed rectangle as a fraction of each side (default 0.05)
}

// DefaultGrabCut returns a GrabCut segmenter with default settings.
func DefaultGrabCut() GrabCutSegmenter {
	return GrabCutSegmenter{Iterations: 5, Margin: 0.05}
}

// Segment implements Segmenter.
func (s GrabCutSegmenter) Segment(img *image.RGBA) (*image.Alpha, error) {
	iters := s.Iterations
	if iters <= 0 {
		iters = 5
	}
	margin := s.Margin
	if margin <= 0 || margin >= 0.5 {
		margin = 0.05
	}

	w, h := img.Rect.Dx(), img.Rect.Dy()
	mx := max(1, int(float64(w)*margin))
	my := max(1, int(float64(h)*margin))
	rect := image.Rect(mx, my, w-mx, h-my)
	if rect.Dx() < 2 || rect.Dy() < 2 {
		return nil, fmt.Errorf("image %dx%d too small for grabcut", w, h)
	}

	bgr, err := imageToMat(img)
	if err != nil {
		return nil, err
	}
	defer bgr.Close()

	mask := gocv.NewMat()
	defer mask.Close()
	bgdModel := gocv.NewMat()
	defer bgdModel.Close()
	fgdModel := gocv.NewMat()
	defer fgdModel.Close()

	gocv.GrabCut(bgr, &mask, rect, &bgdModel, &fgdModel, iters, gocv.GCInitWithRect)
	if mask.Empty() || mask.Rows() != h || mask.Cols() != w {
		return nil, fmt.Errorf("grabcut returned no mask")
	}

	// Mask values: 0 background, 1 foreground, 2 probable background,
	// 3 probable foreground.
	out := image.NewAlpha(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if v := mask.GetUCharAt(y, x); v == 1 || v == 3 {
				out.SetAlpha(x, y, color.Alpha{A: 255})
			}
		}
	}
	return out, nil
}

// RemoveBackground segments img and replaces the background with white.
func RemoveBackground(img *image.RGBA, seg Segmenter) (*image.RGBA, error) {
	src := packed(img)
	mask, err := seg.Segment(src)
	if err != nil {
		return nil, &SegmentationError{Err: err}
	}
	if mask == nil || mask.Rect.Dx() != src.Rect.Dx() || mask.Rect.Dy() != src.Rect.Dy() {
		return nil, &SegmentationError{Err: errors.New("mask does not match image size")}
	}

	out := image.NewRGBA(src.Rect)
	w, h := src.Rect.Dx(), src.Rect.Dy()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			a := uint32(mask.AlphaAt(mask.Rect.Min.X+x, mask.Rect.Min.Y+y).A)
			i := src.PixOffset(x, y)
			for c := 0; c < 3; c++ {
				v := uint32(src.Pix[i+c])
				out.Pix[i+c] = uint8((v*a + 255*(255-a) + 127) / 255)
			}
			out.Pix[i+3] = 255
		}
	}
	return out, nil
}
