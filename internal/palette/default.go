package palette

import (
	"bytes"
	_ "embed"
	"sync"
)

//go:embed data/perle-colors.json
var defaultColors []byte

var loadDefault = sync.OnceValues(func() (*Palette, error) {
	return Load(bytes.NewReader(defaultColors))
})

// Default returns the built-in bead palette.
func Default() (*Palette, error) {
	return loadDefault()
}

// DefaultSource serves the built-in palette document.
func DefaultSource() Source {
	return BytesSource(defaultColors)
}
