package bar

import (
	"encoding/binary"
	"io"
	"sync"
)

// PixelBuffer is the flat pixel store shared by every Canvas view of a
// framebuffer. A single mutex guards the whole buffer; views never copy pixel
// data, they only carry an offset and a stride into it.
//
// PixelBuffer is safe for concurrent use.
type PixelBuffer struct {
	mu  sync.Mutex
	pix []Color
}

// NewPixelBuffer allocates n pixels set to fill.
func NewPixelBuffer(n int, fill Color) *PixelBuffer {
	pix := make([]Color, n)
	if fill != 0 {
		for i := range pix {
			pix[i] = fill
		}
	}
	return &PixelBuffer{pix: pix}
}

// Len returns the number of pixels in the buffer.
func (b *PixelBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pix)
}

// Update runs fn with exclusive access to the pixel slice.
// fn must not retain the slice after returning.
func (b *PixelBuffer) Update(fn func(pix []Color)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fn(b.pix)
}

// Snapshot returns a copy of the pixel data.
func (b *PixelBuffer) Snapshot() []Color {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Color, len(b.pix))
	copy(out, b.pix)
	return out
}

// ByteLen returns the serialized size in bytes (4 per pixel).
func (b *PixelBuffer) ByteLen() int {
	return b.Len() * 4
}

// WriteTo serializes the buffer as little-endian 32-bit words, which is the
// in-memory layout of ARGB8888 seen by the compositor. It implements
// io.WriterTo.
func (b *PixelBuffer) WriteTo(w io.Writer) (int64, error) {
	b.mu.Lock()
	buf := make([]byte, len(b.pix)*4)
	for i, p := range b.pix {
		binary.LittleEndian.PutUint32(buf[i*4:], uint32(p))
	}
	b.mu.Unlock()

	n, err := w.Write(buf)
	return int64(n), err
}
