package bar

import (
	"image"
	"image/color"
	"image/png"
	"os"
)

// ColorModel implements the image.Image interface.
func (c *Canvas) ColorModel() color.Model {
	return ColorModel
}

// At implements the image.Image interface.
func (c *Canvas) At(x, y int) color.Color {
	return c.Pixel(x, y)
}

// Set implements the draw.Image interface.
func (c *Canvas) Set(x, y int, col color.Color) {
	c.SetPixel(x, y, FromColor(col))
}

// ToImage copies the view into a new image.NRGBA.
func (c *Canvas) ToImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, c.width, c.height))

	c.buf.mu.Lock()
	defer c.buf.mu.Unlock()
	for y := 0; y < c.height; y++ {
		for x := 0; x < c.width; x++ {
			p := c.buf.pix[c.index(x, y)]
			i := img.PixOffset(x, y)
			img.Pix[i+0] = p.R()
			img.Pix[i+1] = p.G()
			img.Pix[i+2] = p.B()
			img.Pix[i+3] = p.A()
		}
	}
	return img
}

// SavePNG saves the view to a PNG file.
func (c *Canvas) SavePNG(path string) error {
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()

	return png.Encode(f, c.ToImage())
}
