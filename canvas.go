package bar

import (
	"image"
)

// Canvas is a rectangular view into a shared PixelBuffer.
//
// A Canvas does not own its pixels: every view derived with View or Clone
// aliases the same buffer, addressed as offset + x + y*stride (in pixels).
// The root canvas of a bar is created once and kept for the bar's lifetime;
// viewports are cheap and are created per render pass.
//
// Drawing methods clip to the view silently. Geometry that would let a view
// reach outside its parent is rejected by View.
type Canvas struct {
	width  int
	height int
	offset int // in pixels, not bytes
	stride int // in pixels, not bytes

	buf *PixelBuffer

	background Color
}

// NewCanvas allocates a width x height framebuffer filled with background.
func NewCanvas(width, height int, background Color) *Canvas {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Canvas{
		width:      width,
		height:     height,
		stride:     width,
		buf:        NewPixelBuffer(width*height, background),
		background: background,
	}
}

// Width returns the width of the view in pixels.
func (c *Canvas) Width() int { return c.width }

// Height returns the height of the view in pixels.
func (c *Canvas) Height() int { return c.height }

// Offset returns the index of the view's top-left pixel in the shared buffer.
func (c *Canvas) Offset() int { return c.offset }

// Stride returns the row length of the shared buffer in pixels.
func (c *Canvas) Stride() int { return c.stride }

// Background returns the color the framebuffer was created with.
func (c *Canvas) Background() Color { return c.background }

// Buffer returns the shared pixel buffer.
func (c *Canvas) Buffer() *PixelBuffer { return c.buf }

// Bounds returns the view rectangle in its own coordinates.
// It implements image.Image.
func (c *Canvas) Bounds() image.Rectangle {
	return image.Rect(0, 0, c.width, c.height)
}

// View returns a sub-region of c that shares the same pixel buffer.
// The stride is unchanged and the offset is moved to (x, y).
//
// The region must lie inside c; otherwise a *GeometryError matching
// ErrInvalidGeometry is returned, since an oversized view would write into
// neighboring screen regions.
func (c *Canvas) View(x, y, w, h int) (*Canvas, error) {
	r := image.Rect(x, y, x+w, y+h)
	if x < 0 || y < 0 || w < 0 || h < 0 || x+w > c.width || y+h > c.height {
		return nil, &GeometryError{Op: "view", Rect: r, Bounds: c.Bounds()}
	}
	return &Canvas{
		width:      w,
		height:     h,
		offset:     c.offset + x + y*c.stride,
		stride:     c.stride,
		buf:        c.buf,
		background: c.background,
	}, nil
}

// Clone returns a new view of the same region. The pixel buffer is shared,
// so writes through either value are visible through the other.
func (c *Canvas) Clone() *Canvas {
	cc := *c
	return &cc
}

// index maps view coordinates to a buffer index.
// Callers must have checked the bounds.
func (c *Canvas) index(x, y int) int {
	return c.offset + x + y*c.stride
}

func (c *Canvas) contains(x, y int) bool {
	return x >= 0 && y >= 0 && x < c.width && y < c.height
}

// SetPixel sets one pixel. Coordinates outside the view are ignored.
func (c *Canvas) SetPixel(x, y int, col Color) {
	if !c.contains(x, y) {
		return
	}
	c.buf.mu.Lock()
	c.buf.pix[c.index(x, y)] = col
	c.buf.mu.Unlock()
}

// Pixel returns the color at (x, y), or Transparent outside the view.
func (c *Canvas) Pixel(x, y int) Color {
	if !c.contains(x, y) {
		return Transparent
	}
	c.buf.mu.Lock()
	defer c.buf.mu.Unlock()
	return c.buf.pix[c.index(x, y)]
}

// FillRect sets every pixel of the rectangle that lies inside the view.
func (c *Canvas) FillRect(x, y, w, h int, col Color) {
	r := image.Rect(x, y, x+w, y+h).Intersect(c.Bounds())
	if w <= 0 || h <= 0 || r.Empty() {
		return
	}

	c.buf.mu.Lock()
	defer c.buf.mu.Unlock()
	for py := r.Min.Y; py < r.Max.Y; py++ {
		row := c.buf.pix[c.index(r.Min.X, py):c.index(r.Max.X, py)]
		for i := range row {
			row[i] = col
		}
	}
}

// Fill paints the whole view.
func (c *Canvas) Fill(col Color) {
	c.FillRect(0, 0, c.width, c.height, col)
}

// Clear paints the whole view with the framebuffer's background color.
func (c *Canvas) Clear() {
	c.Fill(c.background)
}

// DrawRect draws the one pixel wide outline of a rectangle.
func (c *Canvas) DrawRect(x, y, w, h int, col Color) {
	if w <= 0 || h <= 0 {
		return
	}
	xEnd := x + w - 1
	yEnd := y + h - 1

	for px := x; px <= xEnd; px++ {
		c.SetPixel(px, y, col)
		c.SetPixel(px, yEnd, col)
	}
	for py := y; py <= yEnd; py++ {
		c.SetPixel(x, py, col)
		c.SetPixel(xEnd, py, col)
	}
}
