// Package pattern holds the bead pattern data model: the code grid, color
// usage counts, board layout metadata, and its versioned JSON wire format.
package pattern

// Grid is a row-major matrix of palette codes: Grid[y][x].
type Grid [][]string

// NewGrid allocates a width x height grid of empty cells.
func NewGrid(width, height int) Grid {
	g := make(Grid, height)
	cells := make([]string, width*height)
	for y := range g {
		g[y] = cells[y*width : (y+1)*width : (y+1)*width]
	}
	return g
}

// Height returns the number of rows.
func (g Grid) Height() int {
	return len(g)
}

// Width returns the length of the first row.
func (g Grid) Width() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

// Rectangular reports whether every row has the same length.
func (g Grid) Rectangular() bool {
	w := g.Width()
	for _, row := range g {
		if len(row) != w {
			return false
		}
	}
	return true
}

// At returns the code at (x, y).
func (g Grid) At(x, y int) string {
	return g[y][x]
}

// Clone returns a deep copy.
func (g Grid) Clone() Grid {
	if g == nil {
		return nil
	}
	out := make(Grid, len(g))
	for y, row := range g {
		out[y] = append([]string(nil), row...)
	}
	return out
}

// Each calls fn for every cell in row-major order.
func (g Grid) Each(fn func(x, y int, code string)) {
	for y, row := range g {
		for x, code := range row {
			fn(x, y, code)
		}
	}
}

// ColorUsage counts cells per palette code.
type ColorUsage map[string]int

// CountUsage tallies the codes in g.
func CountUsage(g Grid) ColorUsage {
	u := make(ColorUsage)
	g.Each(func(_, _ int, code string) {
		u[code]++
	})
	return u
}

// Total returns the sum of all counts.
func (u ColorUsage) Total() int {
	n := 0
	for _, c := range u {
		n += c
	}
	return n
}

// Clone returns a copy.
func (u ColorUsage) Clone() ColorUsage {
	out := make(ColorUsage, len(u))
	for k, v := range u {
		out[k] = v
	}
	return out
}

// Equal reports whether both tallies hold the same non-zero counts.
func (u ColorUsage) Equal(other ColorUsage) bool {
	for k, v := range u {
		if v != 0 && other[k] != v {
			return false
		}
	}
	for k, v := range other {
		if v != 0 && u[k] != v {
			return false
		}
	}
	return true
}
