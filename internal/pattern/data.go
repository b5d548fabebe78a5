package pattern

import (
	"fmt"
	"sort"

	"bead-pattern/internal/board"
	"bead-pattern/internal/palette"
)

// Data is a finished pattern. Values returned by this package are never
// modified afterwards; edits produce a new Data.
type Data struct {
	Grid         Grid
	Width        int
	Height       int
	BoardsWidth  int
	BoardsHeight int
	BoardSize    int
	Usage        ColorUsage
}

// New builds a Data from a grid and its board layout, counting usage.
func New(g Grid, boardsWidth, boardsHeight int) *Data {
	return &Data{
		Grid:         g,
		Width:        g.Width(),
		Height:       g.Height(),
		BoardsWidth:  boardsWidth,
		BoardsHeight: boardsHeight,
		BoardSize:    board.BoardSize,
		Usage:        CountUsage(g),
	}
}

// Partition returns the board layout for the pattern.
func (d *Data) Partition() board.Partition {
	p := board.NewPartition(d.Width, d.Height, d.BoardsWidth, d.BoardsHeight)
	if d.BoardSize > 0 {
		p.BoardSize = d.BoardSize
	}
	return p
}

// Validate checks the grid shape, palette membership of every cell and that
// Usage matches the grid.
func (d *Data) Validate(pal *palette.Palette) error {
	if err := d.checkShape(); err != nil {
		return err
	}
	for y, row := range d.Grid {
		for x, code := range row {
			if _, ok := pal.ByCode(code); !ok {
				return fmt.Errorf("%w: %q at (%d, %d)", ErrUnknownColor, code, x, y)
			}
		}
	}
	if total := d.Usage.Total(); total != d.Width*d.Height {
		return fmt.Errorf("%w: usage sums to %d, grid has %d cells", ErrMalformed, total, d.Width*d.Height)
	}
	if !d.Usage.Equal(CountUsage(d.Grid)) {
		return fmt.Errorf("%w: usage does not match grid", ErrMalformed)
	}
	return nil
}

func (d *Data) checkShape() error {
	if !d.Grid.Rectangular() {
		return fmt.Errorf("%w: rows have different lengths", ErrMalformed)
	}
	if d.Grid.Width() != d.Width || d.Grid.Height() != d.Height {
		return fmt.Errorf("%w: grid is %dx%d, recorded %dx%d",
			ErrMalformed, d.Grid.Width(), d.Grid.Height(), d.Width, d.Height)
	}
	return nil
}

func (d *Data) with(g Grid) *Data {
	out := *d
	out.Grid = g
	out.Usage = CountUsage(g)
	return &out
}

// WithCell returns a copy of the pattern with the cell at (x, y) set to code.
func (d *Data) WithCell(pal *palette.Palette, x, y int, code string) (*Data, error) {
	if x < 0 || y < 0 || y >= len(d.Grid) || x >= len(d.Grid[y]) {
		return nil, fmt.Errorf("%w: (%d, %d) in %dx%d grid", ErrOutOfRange, x, y, d.Width, d.Height)
	}
	if _, ok := pal.ByCode(code); !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColor, code)
	}
	g := d.Grid.Clone()
	g[y][x] = code
	return d.with(g), nil
}

// WithColorReplaced returns a copy of the pattern with every cell holding
// from changed to to.
func (d *Data) WithColorReplaced(pal *palette.Palette, from, to string) (*Data, error) {
	if _, ok := pal.ByCode(to); !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColor, to)
	}
	g := d.Grid.Clone()
	for _, row := range g {
		for x, code := range row {
			if code == from {
				row[x] = to
			}
		}
	}
	return d.with(g), nil
}

// ColorUse is one line of a pattern's color list.
type ColorUse struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	Hex   string `json:"hex"`
	Count int    `json:"count"`
}

// ColorsUsed lists the colors in the pattern, most used first, then by code.
// Codes missing from pal are listed without name or hex.
func (d *Data) ColorsUsed(pal *palette.Palette) []ColorUse {
	out := make([]ColorUse, 0, len(d.Usage))
	for code, n := range d.Usage {
		if n <= 0 {
			continue
		}
		use := ColorUse{Code: code, Count: n}
		if e, ok := pal.ByCode(code); ok {
			use.Name = e.Name
			use.Hex = e.Hex
		}
		out = append(out, use)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Code < out[j].Code
	})
	return out
}
