package commands

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bead-pattern/internal/board"
	"bead-pattern/internal/palette"
	"bead-pattern/internal/pattern"
)

// run executes the real root command with fresh flag values.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := Execute()
	return buf.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func writeImage(t *testing.T, dir string, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.RGBA{R: 255, A: 255}
			if x >= w/2 {
				c = color.RGBA{B: 255, A: 255}
			}
			img.SetRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	path := filepath.Join(dir, "input.png")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
	return path
}

func writePalette(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "colors.json")
	err := os.WriteFile(path, []byte(`[
  {"name": "Red", "code": "R", "hex": "#FF0000"},
  {"name": "Blue", "code": "B", "hex": "#0000FF"}
]`), 0644)
	require.NoError(t, err)
	return path
}

func TestRootCommand_ShowsHelpWhenNoSubcommand(t *testing.T) {
	out, err := run(t)
	assert.NoError(t, err)
	assert.Contains(t, out, "Usage:")
	assert.Contains(t, out, "beadgen")
}

func TestRootCommand_RejectsUnknownFlags(t *testing.T) {
	_, err := run(t, "--unknown-flag", "value")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown flag")
}

func TestGenerateCommand_WritesPatternAndOutputs(t *testing.T) {
	dir := t.TempDir()
	in := writeImage(t, dir, 60, 30)
	pal := writePalette(t, dir)
	out := filepath.Join(dir, "pattern.json")
	preview := filepath.Join(dir, "preview.png")
	pdf := filepath.Join(dir, "pattern.pdf")

	_, err := run(t, "generate", in, "--palette", pal, "-b", "2",
		"-o", out, "--preview", preview, "--print", pdf, "--shape", "circle")
	require.NoError(t, err)

	raw, err := os.ReadFile(out)
	require.NoError(t, err)
	p, err := palette.NewStore(palette.FileSource(pal)).Get()
	require.NoError(t, err)
	d, err := pattern.Decode(raw, p)
	require.NoError(t, err)
	assert.Equal(t, 2, d.BoardsWidth)
	assert.Equal(t, 58, d.Width)
	assert.Equal(t, 29, d.Height)
	assert.Equal(t, "R", d.Grid.At(0, 0))
	assert.Equal(t, "B", d.Grid.At(57, 28))

	pngData, err := os.ReadFile(preview)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(pngData))
	require.NoError(t, err)
	assert.Equal(t, 58*20, img.Bounds().Dx())

	pdfData, err := os.ReadFile(pdf)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdfData, []byte("%PDF-")))
}

func TestGenerateCommand_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	in := writeImage(t, dir, 40, 40)
	writePalette(t, dir)
	cfg := filepath.Join(dir, "beadgen.yml")
	require.NoError(t, os.WriteFile(cfg, []byte("boards_height: 2\npalette: colors.json\n"), 0644))

	out, err := run(t, "generate", in, "--config", cfg, "--boards-width", "2")
	require.NoError(t, err)

	var wire map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &wire))
	assert.EqualValues(t, 2, wire["boards_width"])
	assert.EqualValues(t, 2, wire["boards_height"])
	assert.EqualValues(t, 2, wire["storage_version"])
}

func TestGenerateCommand_InvalidInput(t *testing.T) {
	dir := t.TempDir()
	in := writeImage(t, dir, 10, 10)

	_, err := run(t, "generate", in, "--boards-height", "27")
	assert.Error(t, err)

	_, err = run(t, "generate", in, "--resampler", "bicubic")
	assert.Error(t, err)

	_, err = run(t, "generate", filepath.Join(dir, "missing.png"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read image")
}

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	in := writeImage(t, dir, 30, 30)
	pal := writePalette(t, dir)
	js := filepath.Join(dir, "p.json")
	_, err := run(t, "generate", in, "--palette", pal, "-o", js)
	require.NoError(t, err)

	_, err = run(t, "render", js, "--palette", pal)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nothing to do")

	preview := filepath.Join(dir, "p.png")
	_, err = run(t, "render", js, "--palette", pal, "--preview", preview, "--scale", "4")
	require.NoError(t, err)
	data, err := os.ReadFile(preview)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 29*4, 29*4), img.Bounds())
}

func TestSizesCommand_PrintsSuggestion(t *testing.T) {
	dir := t.TempDir()
	in := writeImage(t, dir, 300, 600)

	out, err := run(t, "sizes", in)
	require.NoError(t, err)

	var s board.Suggestion
	require.NoError(t, json.Unmarshal([]byte(out), &s))
	assert.Equal(t, board.SizeSmall, s.Suggested)
	require.Len(t, s.Sizes, 3)
	assert.Equal(t, 1, s.Sizes[0].BoardsWidth)
	assert.Equal(t, 2, s.Sizes[0].BoardsHeight)
}

func TestSizesCommand_GeneratesSelectedSizes(t *testing.T) {
	dir := t.TempDir()
	in := writeImage(t, dir, 60, 30)
	pal := writePalette(t, dir)
	outDir := filepath.Join(dir, "out")

	out, err := run(t, "sizes", in, "--palette", pal, "--out-dir", outDir, "--only", "small,medium", "--preview")
	require.NoError(t, err)
	assert.Contains(t, out, "small")
	assert.Contains(t, out, "medium")

	for _, name := range []string{"small.json", "small.png", "medium.json", "medium.png"} {
		assert.FileExists(t, filepath.Join(outDir, name))
	}
	assert.NoFileExists(t, filepath.Join(outDir, "large.json"))

	_, err = run(t, "sizes", in, "--out-dir", outDir, "--only", "huge")
	assert.Error(t, err)
}

func TestPaletteCommand(t *testing.T) {
	dir := t.TempDir()
	pal := writePalette(t, dir)

	out, err := run(t, "palette", "--palette", pal)
	require.NoError(t, err)
	assert.Contains(t, out, "CODE")
	assert.Contains(t, out, "Red")
	assert.Contains(t, out, "2 colors")

	out, err = run(t, "palette", "--palette", pal, "--json")
	require.NoError(t, err)
	var records []palette.Record
	require.NoError(t, json.Unmarshal([]byte(out), &records))
	require.Len(t, records, 2)
	assert.Equal(t, "B", records[1].Code)

	out, err = run(t, "palette")
	require.NoError(t, err)
	assert.Contains(t, out, "White")
}

func TestPaletteCommand_WatchNeedsFile(t *testing.T) {
	_, err := run(t, "palette", "--watch")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--watch needs a palette file")
}
