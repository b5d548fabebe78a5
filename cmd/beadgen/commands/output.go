package commands

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"bead-pattern/pkg/colorutil"
)

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
)

func success(w io.Writer, format string, a ...any) {
	green.Fprintf(w, "✓ "+format+"\n", a...)
}

func warning(w io.Writer, format string, a ...any) {
	yellow.Fprintf(w, "⚠️  "+format+"\n", a...)
}

// swatch renders two spaces on the given background with a readable label color.
func swatch(c colorutil.RGB) string {
	fg := colorutil.ContrastText(c)
	return color.RGB(int(fg.R), int(fg.G), int(fg.B)).AddBgRGB(int(c.R), int(c.G), int(c.B)).Sprint("  ")
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
