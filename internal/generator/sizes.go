package generator

import (
	"context"
	"fmt"
	"image"
	"log"
	"runtime"

	"golang.org/x/sync/errgroup"

	"bead-pattern/internal/board"
	"bead-pattern/internal/palette"
	"bead-pattern/internal/pattern"
)

// Size is one requested pattern size.
type Size struct {
	Name         string
	BoardsWidth  int
	BoardsHeight int
}

// SizeResult is the outcome for one Size. Exactly one of Data and Err is set.
type SizeResult struct {
	Size Size
	Data *pattern.Data
	Err  error
}

// SizesFromSuggestion converts the preset layouts of a suggestion to sizes.
func SizesFromSuggestion(s board.Suggestion) []Size {
	out := make([]Size, 0, len(s.Sizes))
	for _, o := range s.Sizes {
		out = append(out, Size{Name: string(o.Name), BoardsWidth: o.BoardsWidth, BoardsHeight: o.BoardsHeight})
	}
	return out
}

// GenerateSizes generates one pattern per size from the same source image.
//
// The optional stylizer and the preprocessing stage run once up front; if
// either fails, every size reports that error. The sizes then run in
// parallel and are joined before returning. A failing or panicking size
// never affects the others: results are reported per size, in the order
// requested. The context is only consulted before a step starts.
func GenerateSizes(ctx context.Context, img image.Image, pal *palette.Palette, opts Options, sizes []Size) []SizeResult {
	results := make([]SizeResult, len(sizes))
	for i, s := range sizes {
		results[i].Size = s
	}

	if opts.Stylizer != nil {
		if err := ctx.Err(); err != nil {
			return failAll(results, err)
		}
		styled, err := opts.Stylizer.Stylize(ctx, img)
		if err != nil {
			return failAll(results, fmt.Errorf("stylizing image: %w", err))
		}
		img = styled
		opts.Stylizer = nil
	}

	if err := ctx.Err(); err != nil {
		return failAll(results, err)
	}
	if err := check(pal, opts.WithBoards(1, 1)); err != nil {
		return failAll(results, err)
	}
	var prepped *image.RGBA
	if err := protect("preprocess", func() (err error) {
		prepped, err = prepare(img, opts)
		return err
	}); err != nil {
		return failAll(results, err)
	}

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range sizes {
		g.Go(func() error {
			r := &results[i]
			if err := ctx.Err(); err != nil {
				r.Err = err
				return nil
			}
			sized := opts.WithBoards(r.Size.BoardsWidth, r.Size.BoardsHeight)
			r.Err = protect(r.Size.Name, func() (err error) {
				if err = sized.Validate(); err != nil {
					return fmt.Errorf("invalid options: %w", err)
				}
				r.Data, err = finish(prepped, pal, sized)
				return err
			})
			if r.Err != nil {
				r.Data = nil
				log.Printf("generator: size %q failed: %v", r.Size.Name, r.Err)
			}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// protect runs fn and turns a panic into an error naming the step.
func protect(step string, fn func() error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%s: panic: %v", step, p)
		}
	}()
	return fn()
}

func failAll(results []SizeResult, err error) []SizeResult {
	for i := range results {
		results[i].Err = err
	}
	return results
}
