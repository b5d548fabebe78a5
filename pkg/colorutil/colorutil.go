// Package colorutil provides shared RGB helpers for palette matching and rendering.
package colorutil

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"
)

// Common colors used by the renderers.
var (
	Black = RGB{R: 0, G: 0, B: 0}
	White = RGB{R: 255, G: 255, B: 255}
)

// RGB is an opaque 8-bit color.
type RGB struct {
	R, G, B uint8
}

// RGBA implements color.Color.
func (c RGB) RGBA() (r, g, b, a uint32) {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}.RGBA()
}

// Hex formats the color as "#RRGGBB".
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// RGBA8 returns the color as an opaque color.RGBA.
func (c RGB) RGBA8() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

// FromColor converts any color to RGB, dropping alpha.
func FromColor(c color.Color) RGB {
	if rgb, ok := c.(RGB); ok {
		return rgb
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return RGB{R: n.R, G: n.G, B: n.B}
}

// NormalizeHex strips surrounding whitespace and any leading '#' characters
// and returns the upper-case "#RRGGBB" form. The second result is false when
// the remainder is not exactly six hex digits.
func NormalizeHex(s string) (string, bool) {
	s = strings.TrimLeft(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return "", false
	}
	for i := 0; i < len(s); i++ {
		if !isHexDigit(s[i]) {
			return "", false
		}
	}
	return "#" + strings.ToUpper(s), true
}

// ParseHex decodes "#RRGGBB" (leading '#' optional, case-insensitive).
func ParseHex(s string) (RGB, error) {
	norm, ok := NormalizeHex(s)
	if !ok {
		return RGB{}, fmt.Errorf("invalid hex color %q: want 6 hex digits", s)
	}
	v, err := strconv.ParseUint(norm[1:], 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

func isHexDigit(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

// DistanceSq returns the squared Euclidean distance between two colors in RGB space.
func DistanceSq(a, b RGB) int {
	dr := int(a.R) - int(b.R)
	dg := int(a.G) - int(b.G)
	db := int(a.B) - int(b.B)
	return dr*dr + dg*dg + db*db
}

// Distance returns the Euclidean distance between two colors in RGB space.
func Distance(a, b RGB) float64 {
	return math.Sqrt(float64(DistanceSq(a, b)))
}

// Luminance returns the perceived brightness of c in [0, 1] using the
// ITU-R 601 weights (0.299, 0.587, 0.114).
func Luminance(c RGB) float64 {
	return (float64(c.R)*299 + float64(c.G)*587 + float64(c.B)*114) / 1000 / 255
}

// LuminanceMidpoint separates light fills from dark fills.
const LuminanceMidpoint = 0.5

// ContrastText returns black for light fills and white for dark fills.
func ContrastText(fill RGB) RGB {
	if Luminance(fill) > LuminanceMidpoint {
		return Black
	}
	return White
}
