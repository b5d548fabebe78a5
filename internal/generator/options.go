package generator

import (
	"errors"
	"fmt"
	"math"

	"bead-pattern/internal/board"
	"bead-pattern/internal/consolidate"
	"bead-pattern/internal/preprocess"
	"bead-pattern/internal/quantize"
)

// MaxBoards caps boards along one side. Rows are further limited to
// board.MaxRows so every row has a single-letter label.
const MaxBoards = 50

// Options configures one pattern generation run.
type Options struct {
	BoardsWidth  int
	BoardsHeight int

	// Preprocessing. The basic pipeline only applies Contrast and a light
	// blur; the advanced pipeline uses Preprocess.
	Advanced   bool
	Contrast   float64
	Preprocess preprocess.AdvancedOptions

	// Quantization
	Resampler   quantize.Resampler
	PreQuantize bool
	Dither      bool

	// RareColorThreshold is the minimum share of cells a color must cover
	// to stay in the pattern. Zero keeps every color.
	RareColorThreshold float64

	// Stylizer, if set, restyles the source image once before anything else.
	Stylizer Stylizer
}

// DefaultOptions returns the settings used for a one-board pattern.
func DefaultOptions() Options {
	return Options{
		// One 29x29 board
		BoardsWidth:  1,
		BoardsHeight: 1,

		Advanced:   false,
		Contrast:   preprocess.DefaultContrast,
		Preprocess: preprocess.DefaultAdvancedOptions(),

		Resampler:   quantize.Smooth,
		PreQuantize: true,
		Dither:      false,

		RareColorThreshold: consolidate.DefaultThreshold, // 0.5%
	}
}

// WithBoards returns a copy of opts laid out on bw x bh boards.
func (o Options) WithBoards(bw, bh int) Options {
	o.BoardsWidth = bw
	o.BoardsHeight = bh
	return o
}

// WithThreshold returns a copy of opts with a different rare-color threshold.
func (o Options) WithThreshold(p float64) Options {
	o.RareColorThreshold = p
	return o
}

// WithAdvanced returns a copy of opts using the advanced preprocessing pipeline.
func (o Options) WithAdvanced(p preprocess.AdvancedOptions) Options {
	o.Advanced = true
	o.Preprocess = p
	return o
}

// Validate reports the first invalid setting.
func (o Options) Validate() error {
	var errs []error
	if o.BoardsWidth < 1 || o.BoardsWidth > MaxBoards {
		errs = append(errs, fmt.Errorf("boards_width %d outside 1..%d", o.BoardsWidth, MaxBoards))
	}
	if o.BoardsHeight < 1 || o.BoardsHeight > board.MaxRows {
		errs = append(errs, fmt.Errorf("boards_height %d outside 1..%d", o.BoardsHeight, board.MaxRows))
	}
	if bad(o.RareColorThreshold) || o.RareColorThreshold > 1 {
		errs = append(errs, fmt.Errorf("rare_color_threshold %v outside 0..1", o.RareColorThreshold))
	}
	if bad(o.Contrast) {
		errs = append(errs, fmt.Errorf("contrast %v must be a non-negative number", o.Contrast))
	}
	if o.Advanced && o.Preprocess.EnhanceColors {
		p := o.Preprocess
		for name, v := range map[string]float64{"saturation": p.Saturation, "contrast": p.Contrast, "brightness": p.Brightness} {
			if bad(v) {
				errs = append(errs, fmt.Errorf("%s %v must be a non-negative number", name, v))
			}
		}
	}
	return errors.Join(errs...)
}

func bad(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0) || v < 0
}
