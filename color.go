package bar

import (
	"fmt"
	"image/color"
	"strings"
)

// Color is a packed 32-bit ARGB8888 value with straight (non-premultiplied)
// alpha. The layout matches the compositor-visible wl_shm ARGB8888 format:
// alpha in the high byte, blue in the low byte.
type Color uint32

// ARGB packs the four channels into a Color.
func ARGB(a, r, g, b uint8) Color {
	return Color(uint32(a)<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}

// RGB creates an opaque color.
func RGB(r, g, b uint8) Color {
	return ARGB(0xFF, r, g, b)
}

// A returns the alpha channel.
func (c Color) A() uint8 { return uint8(c >> 24) }

// R returns the red channel.
func (c Color) R() uint8 { return uint8(c >> 16) }

// G returns the green channel.
func (c Color) G() uint8 { return uint8(c >> 8) }

// B returns the blue channel.
func (c Color) B() uint8 { return uint8(c) }

// WithAlpha returns c with its alpha channel replaced.
func (c Color) WithAlpha(a uint8) Color {
	return c&0x00FFFFFF | Color(a)<<24
}

// NRGBA converts c to the standard non-premultiplied color type.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R(), G: c.G(), B: c.B(), A: c.A()}
}

// RGBA implements the color.Color interface.
// The returned values are alpha-premultiplied, as the interface requires.
func (c Color) RGBA() (r, g, b, a uint32) {
	return c.NRGBA().RGBA()
}

// String formats the color as #AARRGGBB.
func (c Color) String() string {
	return fmt.Sprintf("#%08X", uint32(c))
}

// FromColor converts a standard color.Color to Color.
func FromColor(c color.Color) Color {
	if cc, ok := c.(Color); ok {
		return cc
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return ARGB(n.A, n.R, n.G, n.B)
}

// ColorModel converts any color to Color.
var ColorModel = color.ModelFunc(func(c color.Color) color.Color {
	return FromColor(c)
})

// ParseHex parses a hex color string.
// Supported formats (leading '#' optional): "RGB", "RRGGBB" (opaque) and
// "AARRGGBB", which follows the packed ARGB order of Color.
func ParseHex(s string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	hex = strings.TrimPrefix(strings.TrimPrefix(hex, "0x"), "0X")

	var v uint32
	for i := 0; i < len(hex); i++ {
		d, ok := hexDigit(hex[i])
		if !ok {
			return 0, fmt.Errorf("bar: invalid hex color %q", s)
		}
		v = v<<4 | d
	}

	switch len(hex) {
	case 3:
		r := (v >> 8 & 0xF) * 17
		g := (v >> 4 & 0xF) * 17
		b := (v & 0xF) * 17
		return RGB(uint8(r), uint8(g), uint8(b)), nil
	case 6:
		return Color(0xFF000000 | v), nil
	case 8:
		return Color(v), nil
	default:
		return 0, fmt.Errorf("bar: invalid hex color %q", s)
	}
}

// MustParseHex is like ParseHex but panics on malformed input.
// Intended for package-level color tables.
func MustParseHex(s string) Color {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

func hexDigit(c byte) (uint32, bool) {
	switch {
	case '0' <= c && c <= '9':
		return uint32(c - '0'), true
	case 'a' <= c && c <= 'f':
		return uint32(c - 'a' + 10), true
	case 'A' <= c && c <= 'F':
		return uint32(c - 'A' + 10), true
	default:
		return 0, false
	}
}

// Common colors
const (
	Black       Color = 0xFF000000
	White       Color = 0xFFFFFFFF
	Red         Color = 0xFFFF0000
	Green       Color = 0xFF00FF00
	Blue        Color = 0xFF0000FF
	Transparent Color = 0x00000000
)
