// Package generator runs the full pipeline from a source image to a finished
// bead pattern: preprocessing, quantization and rare-color consolidation.
package generator

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"bead-pattern/internal/board"
	"bead-pattern/internal/consolidate"
	"bead-pattern/internal/palette"
	"bead-pattern/internal/pattern"
	"bead-pattern/internal/preprocess"
	"bead-pattern/internal/quantize"
)

// Stylizer restyles an image before pattern generation, e.g. an external
// AI style-transfer service.
type Stylizer interface {
	Stylize(ctx context.Context, img image.Image) (image.Image, error)
}

// StylizerFunc adapts a function to Stylizer.
type StylizerFunc func(ctx context.Context, img image.Image) (image.Image, error)

func (f StylizerFunc) Stylize(ctx context.Context, img image.Image) (image.Image, error) {
	return f(ctx, img)
}

// DecodeImage decodes PNG, JPEG, GIF, BMP, TIFF or WebP data.
func DecodeImage(b []byte) (image.Image, string, error) {
	img, format, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, "", fmt.Errorf("decoding image: %w", err)
	}
	return img, format, nil
}

// GenerateFromBytes decodes an encoded image and generates its pattern.
func GenerateFromBytes(ctx context.Context, b []byte, pal *palette.Palette, opts Options) (*pattern.Data, error) {
	img, format, err := DecodeImage(b)
	if err != nil {
		return nil, err
	}
	log.Printf("Loaded %s image %dx%d", format, img.Bounds().Dx(), img.Bounds().Dy())
	return Generate(ctx, img, pal, opts)
}

// Generate converts img into a bead pattern. The context is checked before
// work starts; once started, a run completes without interruption.
func Generate(ctx context.Context, img image.Image, pal *palette.Palette, opts Options) (*pattern.Data, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if opts.Stylizer != nil {
		styled, err := opts.Stylizer.Stylize(ctx, img)
		if err != nil {
			return nil, fmt.Errorf("stylizing image: %w", err)
		}
		img = styled
		opts.Stylizer = nil
	}
	return run(img, pal, opts)
}

func run(img image.Image, pal *palette.Palette, opts Options) (*pattern.Data, error) {
	if err := check(pal, opts); err != nil {
		return nil, err
	}
	prepped, err := prepare(img, opts)
	if err != nil {
		return nil, err
	}
	return finish(prepped, pal, opts)
}

func check(pal *palette.Palette, opts Options) error {
	if err := opts.Validate(); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}
	if pal.Len() == 0 {
		return palette.ErrEmptyPalette
	}
	return nil
}

// prepare runs the size-independent preprocessing stage.
func prepare(img image.Image, opts Options) (*image.RGBA, error) {
	if opts.Advanced {
		return preprocess.Advanced(img, opts.Preprocess)
	}
	return preprocess.Basic(img, opts.Contrast), nil
}

// finish quantizes a preprocessed image onto opts' boards and drops rare colors.
func finish(prepped *image.RGBA, pal *palette.Palette, opts Options) (*pattern.Data, error) {
	res, err := quantize.Quantize(prepped, pal, quantize.Options{
		BoardsWidth:  opts.BoardsWidth,
		BoardsHeight: opts.BoardsHeight,
		Resampler:    opts.Resampler,
		PreQuantize:  opts.PreQuantize,
		Dither:       opts.Dither,
	})
	if err != nil {
		return nil, err
	}

	grid, usage, err := consolidate.Consolidate(res.Grid, res.Usage, pal, opts.RareColorThreshold)
	if err != nil {
		return nil, err
	}
	log.Printf("Unique colors used: %d", len(usage))

	return &pattern.Data{
		Grid:         grid,
		Width:        res.Width,
		Height:       res.Height,
		BoardsWidth:  opts.BoardsWidth,
		BoardsHeight: opts.BoardsHeight,
		BoardSize:    board.BoardSize,
		Usage:        usage,
	}, nil
}
