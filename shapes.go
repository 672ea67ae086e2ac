package bar

// DrawLine draws a line with the integer Bresenham algorithm.
//
// The walk stops as soon as it reaches (x1, y1) and the end point itself is
// not plotted: DrawLine(0, 0, 4, 0, c) colors x = 0..3. A line whose end
// points coincide draws nothing.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int, col Color) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := -1, -1
	if x0 < x1 {
		sx = 1
	}
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy

	x, y := x0, y0
	for x != x1 || y != y1 {
		c.SetPixel(x, y, col)
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

// DrawOval plots the pixels of the w x h bounding box at (x, y) that lie
// exactly on the ellipse boundary. Integer points rarely satisfy the equality
// for larger radii, so the ring may come out dotted.
func (c *Canvas) DrawOval(x, y, w, h int, col Color) {
	c.oval(x, y, w, h, col, func(lhs, rhs int64) bool { return lhs == rhs })
}

// FillOval fills the ellipse inscribed in the w x h bounding box at (x, y).
func (c *Canvas) FillOval(x, y, w, h int, col Color) {
	c.oval(x, y, w, h, col, func(lhs, rhs int64) bool { return lhs <= rhs })
}

// oval iterates the bounding box and tests dx²·ry² + dy²·rx² against (rx·ry)².
// The center is (x+w/2, y+h/2); columns and rows run over [0, w) and [0, h).
func (c *Canvas) oval(x, y, w, h int, col Color, accept func(lhs, rhs int64) bool) {
	if w <= 0 || h <= 0 {
		return
	}
	rx := int64(w / 2)
	ry := int64(h / 2)
	rhs := (rx * ry) * (rx * ry)

	for row := 0; row < h; row++ {
		dy := int64(row) - ry
		for col0 := 0; col0 < w; col0++ {
			dx := int64(col0) - rx
			if accept(dx*dx*ry*ry+dy*dy*rx*rx, rhs) {
				c.SetPixel(x+col0, y+row, col)
			}
		}
	}
}

// DrawRoundedRect approximates a rounded outline: four straight edges inset
// by the arc size plus a single marker pixel at each corner. The edges are
// drawn with DrawLine and so stop one pixel short of their end.
func (c *Canvas) DrawRoundedRect(x, y, w, h, arcW, arcH int, col Color) {
	if w <= 0 || h <= 0 {
		return
	}
	c.DrawLine(x+arcW, y, x+w-arcW, y, col)
	c.DrawLine(x+arcW, y+h-1, x+w-arcW, y+h-1, col)
	c.DrawLine(x, y+arcH, x, y+h-arcH, col)
	c.DrawLine(x+w-1, y+arcH, x+w-1, y+h-arcH, col)

	c.SetPixel(x+arcW-1, y+arcH-1, col)
	c.SetPixel(x+w-arcW, y+arcH-1, col)
	c.SetPixel(x+arcW-1, y+h-arcH, col)
	c.SetPixel(x+w-arcW, y+h-arcH, col)
}

// FillRoundedRect fills a rectangle with circular corners.
// A zero radius is a plain FillRect. Larger radii are clamped to half of the
// shorter side; the shape is four corner disks plus a cross of rectangles.
func (c *Canvas) FillRoundedRect(x, y, w, h, radius int, col Color) {
	if radius <= 0 {
		c.FillRect(x, y, w, h, col)
		return
	}
	if w <= 0 || h <= 0 {
		return
	}

	r := min(radius, w/2, h/2)
	d := r * 2

	c.FillOval(x, y, d, d, col)
	c.FillOval(x+w-d, y, d, d, col)
	c.FillOval(x, y+h-d, d, d, col)
	c.FillOval(x+w-d, y+h-d, d, d, col)

	// top and bottom strips
	c.FillRect(x+r, y, w-d, r, col)
	c.FillRect(x+r, y+h-r, w-d, r, col)

	// left and right strips
	c.FillRect(x, y+r, r, h-d, col)
	c.FillRect(x+w-r, y+r, r, h-d, col)

	c.FillRect(x+r, y+r, w-d, h-d, col)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
