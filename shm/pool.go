package shm

import (
	"encoding/binary"
	"fmt"
	"image"
	"sync"

	"github.com/gogpu/bar"
)

// Format is a buffer pixel format, numbered as in the wl_shm protocol.
type Format uint32

const (
	// FormatARGB8888 is 32-bit ARGB with straight alpha, little-endian.
	FormatARGB8888 Format = 0
	// FormatXRGB8888 is 32-bit RGB with the alpha byte ignored.
	FormatXRGB8888 Format = 1
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatARGB8888:
		return "argb8888"
	case FormatXRGB8888:
		return "xrgb8888"
	default:
		return fmt.Sprintf("Format(%d)", uint32(f))
	}
}

// Allocator creates pools over storage. The zero value is ready to use.
type Allocator struct{}

// CreatePool maps the first size bytes of storage.
func (Allocator) CreatePool(storage *Storage, size int) (*Pool, error) {
	if storage == nil || size <= 0 || int64(size) > storage.Size() {
		return nil, fmt.Errorf("shm: pool size %d: %w", size, ErrInvalidBuffer)
	}
	m, err := mapStorage(storage, size)
	if err != nil {
		return nil, fmt.Errorf("shm: map pool: %w", err)
	}
	bar.Logger().Debug("shm: pool created", "size", size)
	return &Pool{storage: storage, size: size, mapping: m}, nil
}

// Pool is a mapped region of storage that buffers are carved from.
type Pool struct {
	storage *Storage
	size    int

	mu      sync.Mutex
	mapping mapping
}

// mapping gives access to the bytes of a pool.
type mapping interface {
	bytes(off, n int) ([]byte, error)
	unmap() error
}

// readBack copies pool bytes out of the storage on every access. It serves
// platforms without mmap.
type readBack struct {
	storage *Storage
}

func (m readBack) bytes(off, n int) ([]byte, error) {
	p := make([]byte, n)
	if _, err := m.storage.ReadAt(p, int64(off)); err != nil {
		return nil, fmt.Errorf("shm: read back %d bytes at %d: %w", n, off, err)
	}
	return p, nil
}

func (readBack) unmap() error { return nil }

// Size returns the pool size in bytes.
func (p *Pool) Size() int { return p.size }

// CreateBuffer describes a width x height image at offset within the pool.
func (p *Pool) CreateBuffer(offset, width, height, stride int, format Format) (*Buffer, error) {
	if format != FormatARGB8888 && format != FormatXRGB8888 {
		return nil, fmt.Errorf("shm: %v: %w", format, ErrUnsupportedFormat)
	}
	if offset < 0 || width <= 0 || height <= 0 || stride < width*4 || offset+stride*height > p.size {
		return nil, fmt.Errorf("shm: buffer %dx%d stride %d at %d in pool of %d: %w",
			width, height, stride, offset, p.size, ErrInvalidBuffer)
	}
	return &Buffer{pool: p, offset: offset, width: width, height: height, stride: stride, format: format}, nil
}

// Close unmaps the pool. Buffers created from it become unusable.
func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.mapping == nil {
		return nil
	}
	err := p.mapping.unmap()
	p.mapping = nil
	return err
}

func (p *Pool) bytes(off, n int) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.mapping == nil {
		return nil, ErrClosed
	}
	return p.mapping.bytes(off, n)
}

// Buffer is a region of a pool holding one image.
type Buffer struct {
	pool                  *Pool
	offset                int
	width, height, stride int
	format                Format
}

// Width returns the image width in pixels.
func (b *Buffer) Width() int { return b.width }

// Height returns the image height in pixels.
func (b *Buffer) Height() int { return b.height }

// Stride returns the row length in bytes.
func (b *Buffer) Stride() int { return b.stride }

// Format returns the pixel format.
func (b *Buffer) Format() Format { return b.format }

// Bytes returns the compositor-visible bytes of the buffer.
func (b *Buffer) Bytes() ([]byte, error) {
	return b.pool.bytes(b.offset, b.stride*b.height)
}

// ToImage decodes the buffer into an image.
func (b *Buffer) ToImage() (*image.NRGBA, error) {
	data, err := b.Bytes()
	if err != nil {
		return nil, err
	}
	img := image.NewNRGBA(image.Rect(0, 0, b.width, b.height))
	for y := 0; y < b.height; y++ {
		row := data[y*b.stride:]
		for x := 0; x < b.width; x++ {
			c := bar.Color(binary.LittleEndian.Uint32(row[x*4:]))
			if b.format == FormatXRGB8888 {
				c = c.WithAlpha(0xFF)
			}
			img.SetNRGBA(x, y, c.NRGBA())
		}
	}
	return img, nil
}
