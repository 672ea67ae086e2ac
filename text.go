package bar

import (
	"golang.org/x/text/unicode/norm"

	"github.com/gogpu/bar/internal/blend"
)

// Glyph is a rasterized character: a coverage bitmap plus the metrics needed
// to place it.
type Glyph struct {
	// Width and Height are the bitmap dimensions in pixels.
	Width  int
	Height int

	// YMin is the signed distance from the baseline to the bottom edge of the
	// bitmap, positive upwards. Glyphs with descenders have a negative YMin.
	YMin int

	// Advance is the horizontal distance to the next glyph origin.
	Advance float64

	// Coverage holds Width*Height opacity values, row-major, top row first.
	Coverage []uint8
}

// Empty reports whether the glyph has no visible pixels.
func (g Glyph) Empty() bool {
	return g.Width == 0 || g.Height == 0 || len(g.Coverage) < g.Width*g.Height
}

// GlyphRasterizer turns a character at a point size into a coverage bitmap.
// Implementations live in the glyph package. A rasterizer that cannot render
// a rune returns an empty Glyph.
type GlyphRasterizer interface {
	Rasterize(r rune, size float64) Glyph
}

// BlendPixel composites fg over bg using coverage/255 as an additional
// multiplier on the foreground alpha (source-over, straight alpha).
// An opaque fg at full coverage yields fg exactly.
func BlendPixel(fg, bg Color, coverage uint8) Color {
	return Color(blend.SourceOver(uint32(fg), uint32(bg), coverage))
}

// DrawChar renders one character with its baseline at y and its left edge at
// x. Every bitmap cell with non-zero coverage that falls inside the view is
// blended over the existing pixel. It returns the glyph advance in whole
// pixels.
func (c *Canvas) DrawChar(x, y int, r rune, col Color, g GlyphRasterizer, size float64) int {
	if g == nil {
		return 0
	}
	glyph := g.Rasterize(r, size)
	c.drawGlyph(x, y, glyph, col)
	return int(glyph.Advance)
}

func (c *Canvas) drawGlyph(x, y int, glyph Glyph, col Color) {
	if glyph.Empty() {
		return
	}
	baseline := glyph.Height + glyph.YMin

	c.buf.mu.Lock()
	defer c.buf.mu.Unlock()

	for row := 0; row < glyph.Height; row++ {
		py := y + row - baseline
		for column := 0; column < glyph.Width; column++ {
			px := x + column
			if !c.contains(px, py) {
				continue
			}
			alpha := glyph.Coverage[row*glyph.Width+column]
			if alpha == 0 {
				continue
			}
			i := c.index(px, py)
			c.buf.pix[i] = BlendPixel(col, c.buf.pix[i], alpha)
		}
	}
}

// DrawString renders a single line of text with its baseline at y, advancing
// a cursor by each glyph's advance width. There is no kerning and no
// wrapping. The text is NFC-normalized first so precomposed characters are
// drawn as one glyph. It returns the total advance in pixels.
func (c *Canvas) DrawString(x, y int, text string, col Color, g GlyphRasterizer, size float64) int {
	if g == nil || text == "" {
		return 0
	}
	cursor := x
	for _, r := range norm.NFC.String(text) {
		cursor += c.DrawChar(cursor, y, r, col, g, size)
	}
	return cursor - x
}

// MeasureString returns the width DrawString would advance for text.
func MeasureString(text string, g GlyphRasterizer, size float64) int {
	if g == nil {
		return 0
	}
	width := 0
	for _, r := range norm.NFC.String(text) {
		width += int(g.Rasterize(r, size).Advance)
	}
	return width
}
