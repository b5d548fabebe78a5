package render

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"bead-pattern/internal/board"
	"bead-pattern/internal/palette"
	"bead-pattern/internal/pattern"
	"bead-pattern/pkg/colorutil"
)

// PrintOptions controls the printable layout.
type PrintOptions struct {
	// PatternSizeMM is the printed side length of one full board. Every
	// pattern prints at this physical size regardless of bead count.
	PatternSizeMM float64
	Title         string
}

// DefaultPrintOptions prints boards 15 cm wide.
func DefaultPrintOptions() PrintOptions {
	return PrintOptions{
		PatternSizeMM: 150,
		Title:         "Bead pattern",
	}
}

// Page geometry in millimetres (A4 portrait).
const (
	pageWidthMM  = 210.0
	pageHeightMM = 297.0

	mapMaxMM    = 120.0 // Board map fits in this square
	mapSquareMM = 30.0  // Largest square per board on the map

	legendRowMM   = 5.0
	legendColumns = 3
	footerMM      = 20.0

	mmPerPoint = 25.4 / 72
)

// Print renders d as an A4 PDF: a cover page with the board map and color
// list, then one page per board in label order (A1, A2, ..., B1, ...).
func Print(d *pattern.Data, pal *palette.Palette, opts PrintOptions) ([]byte, error) {
	pdf, err := buildDocument(d, pal, opts)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func buildDocument(d *pattern.Data, pal *palette.Palette, opts PrintOptions) (*fpdf.Fpdf, error) {
	if err := checkDrawable(d); err != nil {
		return nil, err
	}
	fills, err := resolveColors(d, pal)
	if err != nil {
		return nil, err
	}
	if opts.PatternSizeMM <= 0 {
		opts.PatternSizeMM = DefaultPrintOptions().PatternSizeMM
	}
	if opts.Title == "" {
		opts.Title = DefaultPrintOptions().Title
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(opts.Title, true)
	pdf.SetCreator("beadgen", true)

	part := d.Partition()
	drawCover(pdf, d, pal, part, opts)
	for _, b := range part.Boards() {
		drawBoard(pdf, d, pal, fills, b, part.BoardSize, opts)
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("building pdf: %w", err)
	}
	return pdf, nil
}

func centered(pdf *fpdf.Fpdf, y float64, text string) {
	pdf.SetXY(0, y)
	pdf.CellFormat(pageWidthMM, 6, text, "", 0, "CM", false, 0, "")
}

func drawCover(pdf *fpdf.Fpdf, d *pattern.Data, pal *palette.Palette, part board.Partition, opts PrintOptions) {
	pdf.AddPage()
	pdf.SetTextColor(0, 0, 0)

	pdf.SetFont("Helvetica", "B", 24)
	centered(pdf, 27, opts.Title)

	pdf.SetFont("Helvetica", "", 12)
	centered(pdf, 40, fmt.Sprintf("Pattern size: %d x %d beads", d.Width, d.Height))
	centered(pdf, 46, fmt.Sprintf("Boards: %d x %d", d.BoardsWidth, d.BoardsHeight))

	pdf.SetFont("Helvetica", "", 10)
	centered(pdf, 60, "Board layout:")

	// The map shows physical board positions, not pixel content.
	square := min(mapMaxMM/float64(part.BoardsWidth), mapMaxMM/float64(part.BoardsHeight), mapSquareMM)
	left := (pageWidthMM - square*float64(part.BoardsWidth)) / 2
	top := 70.0
	labelPt := min(square*0.4/mmPerPoint, 18)

	pdf.SetDrawColor(51, 51, 51)
	pdf.SetFillColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", labelPt)
	for _, b := range part.Boards() {
		x := left + float64(b.Col)*square
		y := top + float64(b.Row)*square
		pdf.Rect(x, y, square, square, "FD")
		pdf.SetXY(x, y)
		pdf.SetTextColor(51, 51, 51)
		pdf.CellFormat(square, square, b.Label, "", 0, "CM", false, 0, "")
	}

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "", 10)
	notes := top + square*float64(part.BoardsHeight) + 10
	centered(pdf, notes, "Put the boards together in the order shown above.")
	centered(pdf, notes+5, "Each board is marked with a letter and a number.")

	drawLegend(pdf, d.ColorsUsed(pal), notes+15)
}

// drawLegend lists colors in columns from top down to the footer. Colors that
// do not fit are summarized in a final line.
func drawLegend(pdf *fpdf.Fpdf, uses []pattern.ColorUse, top float64) {
	if len(uses) == 0 {
		return
	}
	const margin = 20.0
	colWidth := (pageWidthMM - 2*margin) / legendColumns

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(margin, top)
	pdf.CellFormat(0, 6, fmt.Sprintf("Colors (%d):", len(uses)), "", 0, "LM", false, 0, "")

	rows := int((pageHeightMM - footerMM - top - 8) / legendRowMM)
	if rows <= 0 {
		return
	}
	capacity := rows * legendColumns
	shown := uses
	if len(uses) > capacity {
		shown = uses[:capacity-1]
	}

	pdf.SetFont("Helvetica", "", 8)
	for i, u := range shown {
		col, row := i/rows, i%rows
		x := margin + float64(col)*colWidth
		y := top + 8 + float64(row)*legendRowMM

		rgb, err := colorutil.ParseHex(u.Hex)
		if err != nil {
			rgb = colorutil.White
		}
		pdf.SetFillColor(int(rgb.R), int(rgb.G), int(rgb.B))
		pdf.SetDrawColor(120, 120, 120)
		pdf.Rect(x, y+0.5, 4, 4, "FD")

		pdf.SetXY(x+6, y)
		pdf.CellFormat(colWidth-6, legendRowMM, fmt.Sprintf("%s %s (%d)", u.Code, u.Name, u.Count), "", 0, "LM", false, 0, "")
	}
	if len(shown) < len(uses) {
		i := len(shown)
		pdf.SetXY(margin+float64(i/rows)*colWidth+6, top+8+float64(i%rows)*legendRowMM)
		pdf.CellFormat(colWidth-6, legendRowMM, fmt.Sprintf("... and %d more", len(uses)-len(shown)), "", 0, "LM", false, 0, "")
	}
}

func drawBoard(pdf *fpdf.Fpdf, d *pattern.Data, pal *palette.Palette, fills map[string]colorutil.RGB, b board.Board, boardSize int, opts PrintOptions) {
	pdf.AddPage()

	bead := opts.PatternSizeMM / float64(boardSize)
	left := (pageWidthMM - opts.PatternSizeMM) / 2
	top := (pageHeightMM - opts.PatternSizeMM) / 2

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Text(left, top-10, "Board "+b.Label)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Text(left, top-4, fmt.Sprintf("%d x %d beads", b.Width, b.Height))

	fontPt := max(4, min(bead/mmPerPoint*0.5, 12))
	pdf.SetFont("Helvetica", "B", fontPt)
	fontMM := fontPt * mmPerPoint

	counts := make(pattern.ColorUsage)
	r := b.Bounds()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			code := d.Grid[y][x]
			counts[code]++
			fill := fills[code]

			cx := left + float64(x-b.X)*bead + bead/2
			cy := top + float64(y-b.Y)*bead + bead/2
			pdf.SetFillColor(int(fill.R), int(fill.G), int(fill.B))
			pdf.Circle(cx, cy, bead/2, "F")

			text := colorutil.ContrastText(fill)
			pdf.SetTextColor(int(text.R), int(text.G), int(text.B))
			pdf.Text(cx-pdf.GetStringWidth(code)/2, cy+fontMM*0.35, code)
		}
	}

	onBoard := pattern.Data{Usage: counts}
	drawLegend(pdf, onBoard.ColorsUsed(pal), top+opts.PatternSizeMM+8)
}
