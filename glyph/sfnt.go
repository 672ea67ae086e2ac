package glyph

import (
	"fmt"
	"image"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/bar"
	"github.com/gogpu/bar/internal/cache"
)

// sfntFace renders glyphs through x/image opentype faces.
// opentype faces are not safe for concurrent use, so every access to them
// happens under mu.
type sfntFace struct {
	font   *opentype.Font
	name   string
	glyphs glyphCache

	mu    sync.Mutex
	faces *cache.Cache[fixed.Int26_6, font.Face]
}

func openSFNT(data []byte) (Face, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFontData
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("glyph: failed to parse font: %w", err)
	}
	name, _ := f.Name(nil, sfnt.NameIDFamily)
	return &sfntFace{
		font:   f,
		name:   name,
		glyphs: newGlyphCache(),
		faces:  cache.New[fixed.Int26_6, font.Face](8),
	}, nil
}

func (f *sfntFace) Name() string { return f.name }

// face returns the x/image face for size. Caller must hold f.mu.
func (f *sfntFace) face(size float64) (font.Face, error) {
	key := fixed.Int26_6(size * 64)
	if face, ok := f.faces.Get(key); ok {
		return face, nil
	}
	face, err := opentype.NewFace(f.font, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, err
	}
	f.faces.Set(key, face)
	return face, nil
}

func (f *sfntFace) Metrics(size float64) Metrics {
	f.mu.Lock()
	defer f.mu.Unlock()

	face, err := f.face(size)
	if err != nil {
		return Metrics{}
	}
	m := face.Metrics()
	return Metrics{
		Ascent:     fixedToFloat64(m.Ascent),
		Descent:    fixedToFloat64(m.Descent),
		LineHeight: fixedToFloat64(m.Height),
	}
}

func (f *sfntFace) Rasterize(r rune, size float64) bar.Glyph {
	if size <= 0 {
		return bar.Glyph{}
	}
	return f.glyphs.get(r, size, func() bar.Glyph {
		return f.render(r, size)
	})
}

func (f *sfntFace) render(r rune, size float64) bar.Glyph {
	f.mu.Lock()
	defer f.mu.Unlock()

	face, err := f.face(size)
	if err != nil {
		bar.Logger().Warn("glyph: face creation failed", "size", size, "error", err)
		return bar.Glyph{}
	}

	dr, mask, maskp, advance, ok := face.Glyph(fixed.Point26_6{}, r)
	if !ok {
		bar.Logger().Debug("glyph: rune not in font", "rune", string(r), "family", f.name)
		return bar.Glyph{}
	}
	g := bar.Glyph{Advance: fixedToFloat64(advance)}
	if dr.Empty() || dr.Max.X <= 0 {
		return g
	}

	// The bitmap starts at the pen position, so the left side bearing becomes
	// blank columns. Ink left of the pen is dropped.
	g.Width = dr.Max.X
	g.Height = dr.Dy()
	g.YMin = -dr.Max.Y
	g.Coverage = make([]uint8, g.Width*g.Height)
	copyCoverage(g, dr, mask, maskp)
	return g
}

func copyCoverage(g bar.Glyph, dr image.Rectangle, mask image.Image, maskp image.Point) {
	alpha, _ := mask.(*image.Alpha)
	for y := 0; y < g.Height; y++ {
		for x := max(dr.Min.X, 0); x < dr.Max.X; x++ {
			mx := maskp.X + x - dr.Min.X
			my := maskp.Y + y
			var a uint8
			if alpha != nil {
				a = alpha.AlphaAt(mx, my).A
			} else {
				_, _, _, a32 := mask.At(mx, my).RGBA()
				a = uint8(a32 >> 8)
			}
			g.Coverage[y*g.Width+x] = a
		}
	}
}

func fixedToFloat64(x fixed.Int26_6) float64 {
	return float64(x) / 64.0
}
