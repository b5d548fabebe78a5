// Package board maps a bead grid onto the physical square pegboards it is
// assembled from and suggests board counts for a source image.
package board

import (
	"fmt"
	"image"
)

// BoardSize is the number of pegs along each side of one physical board.
const BoardSize = 29

// MaxRows is the number of board rows that can be labeled with a single letter.
const MaxRows = 26

// Board is one labeled sub-rectangle of the grid.
type Board struct {
	Label  string `json:"label"`
	Col    int    `json:"col"`    // Board column (bx)
	Row    int    `json:"row"`    // Board row (by)
	X      int    `json:"x"`      // Left edge in grid cells
	Y      int    `json:"y"`      // Top edge in grid cells
	Width  int    `json:"width"`  // Populated cells, may be < BoardSize or 0
	Height int    `json:"height"` // Populated cells, may be < BoardSize or 0
}

// Bounds returns the board's populated cells as a rectangle in grid coordinates.
func (b Board) Bounds() image.Rectangle {
	return image.Rect(b.X, b.Y, b.X+b.Width, b.Y+b.Height)
}

// Empty reports whether no populated cell falls on this board.
func (b Board) Empty() bool {
	return b.Width <= 0 || b.Height <= 0
}

// Partition describes how a width x height grid is laid out over
// BoardsWidth x BoardsHeight boards. It has no mutable state.
type Partition struct {
	Width        int
	Height       int
	BoardsWidth  int
	BoardsHeight int
	BoardSize    int
}

// NewPartition returns a partition using the standard BoardSize.
func NewPartition(width, height, boardsWidth, boardsHeight int) Partition {
	return Partition{
		Width:        width,
		Height:       height,
		BoardsWidth:  boardsWidth,
		BoardsHeight: boardsHeight,
		BoardSize:    BoardSize,
	}
}

func (p Partition) size() int {
	if p.BoardSize <= 0 {
		return BoardSize
	}
	return p.BoardSize
}

func (p Partition) check(bx, by int) {
	if bx < 0 || bx >= p.BoardsWidth || by < 0 || by >= p.BoardsHeight {
		panic(fmt.Sprintf("board: position (%d, %d) outside %dx%d boards", bx, by, p.BoardsWidth, p.BoardsHeight))
	}
}

// Label returns the board label: a row letter followed by the 1-based column.
// Row 0 is "A", so (0, 0) is "A1" and (2, 1) is "B3".
func (p Partition) Label(bx, by int) string {
	p.check(bx, by)
	return label(bx, by)
}

func label(bx, by int) string {
	return fmt.Sprintf("%c%d", rune('A'+by), bx+1)
}

// Span returns the grid range [startX, endX) x [startY, endY) covered by the
// board, clipped to the populated grid.
func (p Partition) Span(bx, by int) (startX, startY, endX, endY int) {
	p.check(bx, by)
	size := p.size()
	startX = bx * size
	startY = by * size
	endX = min(startX+size, p.Width)
	endY = min(startY+size, p.Height)
	// Boards past the populated edge collapse to an empty span at the edge.
	startX = min(startX, max(p.Width, 0))
	startY = min(startY, max(p.Height, 0))
	endX = max(endX, startX)
	endY = max(endY, startY)
	return startX, startY, endX, endY
}

// Board returns the labeled board at (bx, by).
func (p Partition) Board(bx, by int) Board {
	x0, y0, x1, y1 := p.Span(bx, by)
	return Board{
		Label:  label(bx, by),
		Col:    bx,
		Row:    by,
		X:      x0,
		Y:      y0,
		Width:  x1 - x0,
		Height: y1 - y0,
	}
}

// Boards returns every board in row-major order (A1, A2, ..., B1, ...).
func (p Partition) Boards() []Board {
	if p.BoardsWidth <= 0 || p.BoardsHeight <= 0 {
		return nil
	}
	out := make([]Board, 0, p.Count())
	for by := 0; by < p.BoardsHeight; by++ {
		for bx := 0; bx < p.BoardsWidth; bx++ {
			out = append(out, p.Board(bx, by))
		}
	}
	return out
}

// Count returns the number of physical boards.
func (p Partition) Count() int {
	if p.BoardsWidth <= 0 || p.BoardsHeight <= 0 {
		return 0
	}
	return p.BoardsWidth * p.BoardsHeight
}

// MaxWidth returns the widest grid the boards can hold.
func (p Partition) MaxWidth() int {
	return p.BoardsWidth * p.size()
}

// MaxHeight returns the tallest grid the boards can hold.
func (p Partition) MaxHeight() int {
	return p.BoardsHeight * p.size()
}
