package glyph

import (
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/bar"
	"github.com/gogpu/bar/internal/cache"
)

// glyphCacheSize bounds the number of bitmaps kept per face. A bar with a
// handful of labels at two or three sizes stays far below it.
const glyphCacheSize = 2048

// glyphKey identifies a rasterized glyph. Sizes are quantized to 26.6 fixed
// point, so sizes closer than 1/64 pixel share an entry.
type glyphKey struct {
	r    rune
	size fixed.Int26_6
}

// glyphCache memoizes a rasterization function.
type glyphCache struct {
	entries *cache.Cache[glyphKey, bar.Glyph]
}

func newGlyphCache() glyphCache {
	return glyphCache{entries: cache.New[glyphKey, bar.Glyph](glyphCacheSize)}
}

func (c glyphCache) get(r rune, size float64, render func() bar.Glyph) bar.Glyph {
	key := glyphKey{r: r, size: fixed.Int26_6(size * 64)}
	return c.entries.GetOrCreate(key, render)
}

func (c glyphCache) stats() cache.Stats {
	return c.entries.Stats()
}
