package glyph

import (
	"fmt"
	"os"
	"sort"
	"sync"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/bar"
)

// DefaultBackend is the backend used when no name is given.
const DefaultBackend = "sfnt"

// Metrics are font-wide vertical metrics in pixels at a given size.
type Metrics struct {
	// Ascent is the distance from the baseline to the top of the font (positive).
	Ascent float64
	// Descent is the distance from the baseline to the bottom of the font
	// (positive, below the baseline).
	Descent float64
	// LineHeight is the recommended baseline-to-baseline distance.
	LineHeight float64
}

// CenterBaseline returns the baseline that vertically centers a line of text
// in a box of the given height.
func (m Metrics) CenterBaseline(height int) int {
	return int((float64(height) + m.Ascent - m.Descent) / 2)
}

// Face is a parsed font that can rasterize glyphs at any size.
// Faces are safe for concurrent use.
type Face interface {
	bar.GlyphRasterizer

	// Name returns the font family name, or "" if unknown.
	Name() string

	// Metrics returns vertical metrics at size.
	Metrics(size float64) Metrics
}

// Backend turns font file bytes into a Face.
type Backend interface {
	Open(data []byte) (Face, error)
}

// BackendFunc adapts a function to the Backend interface.
type BackendFunc func(data []byte) (Face, error)

// Open implements Backend.
func (f BackendFunc) Open(data []byte) (Face, error) { return f(data) }

var (
	registryMu sync.RWMutex
	registry   = map[string]Backend{
		"sfnt":   BackendFunc(openSFNT),
		"gotext": BackendFunc(openGoText),
	}
)

// Register makes a backend available under name, replacing any existing one.
func Register(name string, b Backend) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = b
}

// Backends returns the registered backend names in sorted order.
func Backends() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open parses font data with the named backend. An empty name selects
// DefaultBackend.
func Open(name string, data []byte) (Face, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFontData
	}
	if name == "" {
		name = DefaultBackend
	}

	registryMu.RLock()
	b, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, &BackendNotFoundError{Name: name}
	}

	face, err := b.Open(data)
	if err != nil {
		return nil, err
	}
	bar.Logger().Debug("glyph: font opened", "backend", name, "family", face.Name())
	return face, nil
}

// Load reads a font file and opens it with the named backend.
func Load(name, path string) (Face, error) {
	data, err := os.ReadFile(path) //nolint:gosec // font path comes from configuration
	if err != nil {
		return nil, fmt.Errorf("glyph: read font: %w", err)
	}
	return Open(name, data)
}

var (
	defaultOnce sync.Once
	defaultFace Face
)

// Default returns the embedded Go Regular font rendered by the sfnt backend.
func Default() Face {
	defaultOnce.Do(func() {
		f, err := openSFNT(goregular.TTF)
		if err != nil {
			panic("glyph: embedded font: " + err.Error())
		}
		defaultFace = f
	})
	return defaultFace
}
