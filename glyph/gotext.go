package glyph

import (
	"bytes"
	"fmt"
	"image"
	"math"
	"sync"

	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/font/opentype"
	"golang.org/x/image/vector"

	"github.com/gogpu/bar"
)

// gotextFace renders glyph outlines from go-text/typesetting with an
// x/image/vector rasterizer.
type gotextFace struct {
	face   *font.Face
	upem   float32
	glyphs glyphCache

	// mu guards ras, which is reused between glyphs.
	mu  sync.Mutex
	ras *vector.Rasterizer
}

func openGoText(data []byte) (Face, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFontData
	}
	face, err := font.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("glyph: failed to parse font: %w", err)
	}
	upem := float32(face.Upem())
	if upem == 0 {
		upem = 1000
	}
	return &gotextFace{
		face:   face,
		upem:   upem,
		glyphs: newGlyphCache(),
		ras:    vector.NewRasterizer(0, 0),
	}, nil
}

func (f *gotextFace) Name() string {
	return f.face.Describe().Family
}

func (f *gotextFace) Metrics(size float64) Metrics {
	ext, ok := f.face.FontHExtents()
	if !ok {
		return Metrics{}
	}
	scale := size / float64(f.upem)
	return Metrics{
		Ascent:     float64(ext.Ascender) * scale,
		Descent:    -float64(ext.Descender) * scale,
		LineHeight: float64(ext.Ascender-ext.Descender+ext.LineGap) * scale,
	}
}

func (f *gotextFace) Rasterize(r rune, size float64) bar.Glyph {
	if size <= 0 {
		return bar.Glyph{}
	}
	return f.glyphs.get(r, size, func() bar.Glyph {
		return f.render(r, size)
	})
}

func (f *gotextFace) render(r rune, size float64) bar.Glyph {
	gid, ok := f.face.NominalGlyph(r)
	if !ok {
		bar.Logger().Debug("glyph: rune not in font", "rune", string(r))
		return bar.Glyph{}
	}
	scale := float32(size) / f.upem
	g := bar.Glyph{Advance: float64(f.face.HorizontalAdvance(gid) * scale)}

	outline, ok := f.face.GlyphData(gid).(font.GlyphOutline)
	if !ok || len(outline.Segments) == 0 {
		return g
	}

	minY, maxX, maxY := outlineBounds(outline, scale)
	top := int(math.Ceil(float64(maxY)))
	bottom := int(math.Floor(float64(minY)))
	width := int(math.Ceil(float64(maxX)))
	if width <= 0 || top <= bottom {
		return g
	}
	g.Width = width
	g.Height = top - bottom
	g.YMin = bottom

	f.mu.Lock()
	defer f.mu.Unlock()

	// Font units are y-up; the bitmap is y-down with row 0 at top.
	ty := float32(top)
	pt := func(p opentype.SegmentPoint) (float32, float32) {
		return p.X * scale, ty - p.Y*scale
	}

	f.ras.Reset(g.Width, g.Height)
	for _, s := range outline.Segments {
		switch s.Op {
		case opentype.SegmentOpMoveTo:
			x, y := pt(s.Args[0])
			f.ras.MoveTo(x, y)
		case opentype.SegmentOpLineTo:
			x, y := pt(s.Args[0])
			f.ras.LineTo(x, y)
		case opentype.SegmentOpQuadTo:
			bx, by := pt(s.Args[0])
			cx, cy := pt(s.Args[1])
			f.ras.QuadTo(bx, by, cx, cy)
		case opentype.SegmentOpCubeTo:
			bx, by := pt(s.Args[0])
			cx, cy := pt(s.Args[1])
			dx, dy := pt(s.Args[2])
			f.ras.CubeTo(bx, by, cx, cy, dx, dy)
		}
	}
	f.ras.ClosePath()

	mask := image.NewAlpha(image.Rect(0, 0, g.Width, g.Height))
	f.ras.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	g.Coverage = mask.Pix
	return g
}

// outlineBounds returns the scaled extent of the outline's points.
// Control points are included, which can only make the box larger.
func outlineBounds(o font.GlyphOutline, scale float32) (minY, maxX, maxY float32) {
	minY, maxX, maxY = math.MaxFloat32, -math.MaxFloat32, -math.MaxFloat32
	for _, s := range o.Segments {
		n := 1
		switch s.Op {
		case opentype.SegmentOpQuadTo:
			n = 2
		case opentype.SegmentOpCubeTo:
			n = 3
		}
		for _, p := range s.Args[:n] {
			minY = min(minY, p.Y*scale)
			maxX = max(maxX, p.X*scale)
			maxY = max(maxY, p.Y*scale)
		}
	}
	return minY, maxX, maxY
}
