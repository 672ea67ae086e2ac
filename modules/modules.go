package modules

import (
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/gogpu/bar"
	"github.com/gogpu/bar/glyph"
)

// Align places a label horizontally inside a module.
type Align uint8

const (
	AlignStart Align = iota
	AlignMiddle
	AlignEnd
)

// Spacing returns a blank module of the given width.
func Spacing(width int) bar.Module {
	return bar.ModuleFunc{W: width}
}

// Color fills its viewport with a solid color.
type Color struct {
	W     int
	Color bar.Color
}

func (m *Color) Width() int { return m.W }

func (m *Color) Draw(c *bar.Canvas) { c.Fill(m.Color) }

// Oval draws an ellipse outline inscribed in the largest square that fits
// the viewport, centered vertically.
type Oval struct {
	W     int
	Color bar.Color
	// Filled fills the oval instead of outlining it.
	Filled bool
}

func (m *Oval) Width() int { return m.W }

func (m *Oval) Draw(c *bar.Canvas) {
	d := min(c.Width(), c.Height())
	y := (c.Height() - d) / 2
	if m.Filled {
		c.FillOval(0, y, d, d, m.Color)
		return
	}
	c.DrawOval(0, y, d, d, m.Color)
}

// Text draws a static label.
type Text struct {
	W          int
	Label      string
	Color      bar.Color
	Background bar.Color
	Face       glyph.Face
	Size       float64
	Align      Align
}

func (m *Text) Width() int { return m.W }

func (m *Text) Draw(c *bar.Canvas) {
	paintBackground(c, m.Background)
	drawLabel(c, m.Label, m.Face, m.Size, m.Color, m.Align)
}

// DefaultClockLayout is the time layout used when a Clock has none.
const DefaultClockLayout = "15:04"

// Clock draws the current time formatted with a time layout.
type Clock struct {
	W          int
	Layout     string
	Color      bar.Color
	Background bar.Color
	Face       glyph.Face
	Size       float64
	Align      Align
	// Clock defaults to the real clock.
	Clock clockwork.Clock
}

func (m *Clock) Width() int { return m.W }

func (m *Clock) Draw(c *bar.Canvas) {
	paintBackground(c, m.Background)
	drawLabel(c, m.Text(), m.Face, m.Size, m.Color, m.Align)
}

// Text returns the label the clock currently shows.
func (m *Clock) Text() string {
	layout := m.Layout
	if layout == "" {
		layout = DefaultClockLayout
	}
	return m.now().Format(layout)
}

func (m *Clock) now() time.Time {
	if m.Clock == nil {
		return time.Now()
	}
	return m.Clock.Now()
}

// Pill draws a rounded rectangle inset from the viewport edges with an
// optional centered label.
type Pill struct {
	W          int
	Fill       bar.Color
	Background bar.Color
	Radius     int
	// Inset is the margin around the pill on every side.
	Inset     int
	Label     string
	TextColor bar.Color
	Face      glyph.Face
	Size      float64
}

func (m *Pill) Width() int { return m.W }

func (m *Pill) Draw(c *bar.Canvas) {
	paintBackground(c, m.Background)
	w := c.Width() - 2*m.Inset
	h := c.Height() - 2*m.Inset
	c.FillRoundedRect(m.Inset, m.Inset, w, h, m.Radius, m.Fill)
	if m.Label != "" {
		drawLabel(c, m.Label, m.Face, m.Size, m.TextColor, AlignMiddle)
	}
}

// paintBackground resets the viewport, since the bar canvas keeps its pixels
// between frames. A transparent color restores the bar background.
func paintBackground(c *bar.Canvas, bg bar.Color) {
	if bg.A() == 0 {
		c.Clear()
		return
	}
	c.Fill(bg)
}

// drawLabel draws one line of text vertically centered in c.
func drawLabel(c *bar.Canvas, label string, face glyph.Face, size float64, col bar.Color, align Align) {
	if label == "" || face == nil || size <= 0 {
		return
	}
	x := 0
	switch align {
	case AlignMiddle:
		x = (c.Width() - bar.MeasureString(label, face, size)) / 2
	case AlignEnd:
		x = c.Width() - bar.MeasureString(label, face, size)
	}
	y := face.Metrics(size).CenterBaseline(c.Height())
	c.DrawString(x, y, label, col, face, size)
}
