// Package bar is a software framebuffer for status bars.
//
// A bar is painted pixel by pixel into a [Canvas]: a view with an offset and
// a stride into a shared [PixelBuffer] of packed ARGB8888 [Color] values.
// Views alias the same pixels, so a module drawing into its viewport writes
// straight into the bar's framebuffer without copies.
//
// # Drawing
//
// The canvas provides a small set of integer rasterization primitives:
//
//	c := bar.NewCanvas(1920, 40, bar.Black)
//	c.Fill(0xFFCF4345)
//	c.FillRoundedRect(5, 5, 100, 30, 15, 0xFF181818)
//	c.DrawLine(0, 39, 1919, 39, bar.White)
//	c.DrawString(120, 30, "Hello, World!", bar.Black, face, 20)
//
// Text is composited with [BlendPixel] from coverage bitmaps produced by a
// [GlyphRasterizer]; see the glyph package for implementations.
//
// # Modules
//
// A [Module] is a fixed-width drawing unit. [Canvas.DrawModules] gives each
// module of a [Modules] list its own viewport, left to right.
//
// # Presentation
//
// Canvases are presented by the client package, which owns the per-bar buffer
// lifecycle and the render loop, using a display host from the host package.
//
// # Logging
//
// The package is silent by default. Use [SetLogger] to route diagnostics from
// bar and its sub-packages to a [log/slog.Logger].
package bar
