package palette

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bead-pattern/pkg/colorutil"
)

func smallPalette(t *testing.T) *Palette {
	t.Helper()
	p, err := LoadRecords([]Record{
		{Name: "Black", Code: "18", Hex: "#000000"},
		{Name: "White", Code: "01", Hex: "#FFFFFF"},
		{Name: "Red", Code: "05", Hex: "#FF0000"},
		{Name: "Green", Code: "10", Hex: "#00FF00"},
		{Name: "Blue", Code: "08", Hex: "#0000FF"},
		{Name: "Grey", Code: "17", Hex: "#808080"},
	})
	require.NoError(t, err)
	return p
}

func TestLoad_DropsRecordWithoutHex(t *testing.T) {
	src := `[
		{"name": "White", "code": "01", "hex": "#FDFCF5"},
		{"name": "Mystery", "code": "99"},
		{"name": "Cream", "code": "02", "hex": "#f0e8b9"}
	]`

	p, err := Load(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, 2, p.Len())

	_, ok := p.ByCode("99")
	assert.False(t, ok)
}

func TestLoad_DropsInvalidAndDuplicateRecords(t *testing.T) {
	p, err := LoadRecords([]Record{
		{Name: "White", Code: "01", Hex: "#FFFFFF"},
		{Name: "Short", Code: "02", Hex: "#FFF"},
		{Name: "Bogus", Code: "03", Hex: "#GG0000"},
		{Name: "Same code", Code: "01", Hex: "#000000"},
		{Name: "Same hex", Code: "04", Hex: "ffffff"},
		{Name: "Black", Code: "05", Hex: "000000"},
	})
	require.NoError(t, err)

	var codes []string
	for _, e := range p.Entries() {
		codes = append(codes, e.Code)
	}
	assert.Equal(t, []string{"01", "05"}, codes)

	black, ok := p.ByCode("05")
	require.True(t, ok)
	assert.Equal(t, "#000000", black.Hex)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(strings.NewReader("{not json"))
	assert.ErrorIs(t, err, ErrPaletteLoad)

	_, err = Load(strings.NewReader(`[{"name": "Nothing", "code": "01"}]`))
	assert.ErrorIs(t, err, ErrEmptyPalette)

	_, err = LoadRecords(nil)
	assert.ErrorIs(t, err, ErrEmptyPalette)
}

func TestHexError_Unwrap(t *testing.T) {
	_, err := newEntry(Record{Name: "Bad", Code: "01", Hex: "#12345"})
	require.Error(t, err)

	var hexErr *HexError
	require.True(t, errors.As(err, &hexErr))
	assert.Equal(t, "#12345", hexErr.Hex)
	assert.ErrorIs(t, err, ErrInvalidHex)
}

func TestLookup_HexNormalization(t *testing.T) {
	p, err := Default()
	require.NoError(t, err)

	for _, hex := range []string{"#FDFCF5", "#fdfcf5", "FDFCF5", "##fdfcf5", " #FdFcF5 "} {
		code, ok := p.HexToCode(hex)
		assert.True(t, ok, hex)
		assert.Equal(t, "01", code, hex)
	}

	hex, ok := p.CodeToHex("02")
	require.True(t, ok)
	assert.Equal(t, "#F0E8B9", hex)

	_, ok = p.HexToCode("#123")
	assert.False(t, ok)
	_, ok = p.CodeToHex("nope")
	assert.False(t, ok)
}

func TestLookup_RoundTrip(t *testing.T) {
	p, err := Default()
	require.NoError(t, err)

	for _, e := range p.Entries() {
		code, ok := p.HexToCode(e.Hex)
		require.True(t, ok)
		hex, ok := p.CodeToHex(code)
		require.True(t, ok)
		again, ok := p.HexToCode(hex)
		require.True(t, ok)
		assert.Equal(t, code, again)
	}
}

func TestNearest_IsMinimal(t *testing.T) {
	p := smallPalette(t)
	entries := p.Entries()

	for r := 0; r < 256; r += 15 {
		for g := 0; g < 256; g += 15 {
			for b := 0; b < 256; b += 15 {
				px := colorutil.RGB{R: uint8(r), G: uint8(g), B: uint8(b)}
				got, err := p.Nearest(px)
				require.NoError(t, err)

				d := colorutil.DistanceSq(px, got.RGB)
				for _, e := range entries {
					assert.LessOrEqual(t, d, colorutil.DistanceSq(px, e.RGB))
				}
			}
		}
	}
}

func TestNearest_TieGoesToFirstEntry(t *testing.T) {
	p, err := LoadRecords([]Record{
		{Name: "Dark", Code: "a", Hex: "#000000"},
		{Name: "Light", Code: "b", Hex: "#020202"},
	})
	require.NoError(t, err)

	got, err := p.Nearest(colorutil.RGB{R: 1, G: 1, B: 1})
	require.NoError(t, err)
	assert.Equal(t, "a", got.Code)
}

func TestNearest_Empty(t *testing.T) {
	var p *Palette
	_, err := p.Nearest(colorutil.White)
	assert.ErrorIs(t, err, ErrEmptyPalette)

	_, err = NearestIn(colorutil.White, nil)
	assert.ErrorIs(t, err, ErrEmptyPalette)
}

func TestColorPalette_PreservesOrder(t *testing.T) {
	p := smallPalette(t)
	cp := p.ColorPalette()
	require.Len(t, cp, p.Len())
	for i, e := range p.Entries() {
		assert.Equal(t, e.RGB.RGBA8(), cp[i])
	}
}

func TestStore_LoadInvalidateReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "colors.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"name":"White","code":"01","hex":"#FFFFFF"}]`), 0644))

	s := NewStore(FileSource(path))
	p1, err := s.Get()
	require.NoError(t, err)
	assert.Equal(t, 1, p1.Len())

	p2, err := s.Get()
	require.NoError(t, err)
	assert.Same(t, p1, p2)

	require.NoError(t, os.WriteFile(path, []byte(`[
		{"name":"White","code":"01","hex":"#FFFFFF"},
		{"name":"Black","code":"18","hex":"#000000"}
	]`), 0644))

	// Readers holding p1 still see the old colors.
	s.Invalidate()
	p3, err := s.Get()
	require.NoError(t, err)
	assert.Equal(t, 2, p3.Len())
	assert.Equal(t, 1, p1.Len())

	// A failed reload keeps the last good palette.
	require.NoError(t, os.WriteFile(path, []byte(`garbage`), 0644))
	assert.ErrorIs(t, s.Reload(), ErrPaletteLoad)
	p4, err := s.Get()
	require.NoError(t, err)
	assert.Same(t, p3, p4)
}

func TestStore_MissingSource(t *testing.T) {
	s := NewStore(FileSource(filepath.Join(t.TempDir(), "missing.json")))
	_, err := s.Get()
	assert.ErrorIs(t, err, ErrPaletteLoad)

	_, err = NewStore(nil).Get()
	assert.ErrorIs(t, err, ErrPaletteLoad)
}

func TestStore_ConcurrentGet(t *testing.T) {
	s := NewStore(DefaultSource())

	var wg sync.WaitGroup
	results := make([]*Palette, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p, err := s.Get()
			if err == nil {
				results[i] = p
			}
		}(i)
	}
	wg.Wait()

	for _, p := range results {
		require.NotNil(t, p)
		assert.Same(t, results[0], p)
	}
}
