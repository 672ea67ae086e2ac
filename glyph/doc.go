// Package glyph provides [bar.GlyphRasterizer] implementations backed by real
// font files.
//
// Two backends are registered:
//
//   - "sfnt" (default): golang.org/x/image/font/opentype faces, one per
//     point size, rendered with Face.Glyph.
//   - "gotext": github.com/go-text/typesetting outlines scaled by size/upem and
//     filled with golang.org/x/image/vector.
//
// Both cache rasterized glyphs keyed by rune and size, so a status bar that
// redraws the same labels every tick rasterizes each glyph once.
//
//	face, err := glyph.Load("", "/usr/share/fonts/TTF/DejaVuSans.ttf")
//	if err != nil {
//	    face = glyph.Default()
//	}
//	canvas.DrawString(10, 28, "12:00", bar.White, face, 20)
//
// [Default] returns the embedded Go Regular font and never fails.
package glyph
