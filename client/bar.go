package client

import (
	"errors"
	"fmt"

	"github.com/gogpu/bar"
	"github.com/gogpu/bar/host"
	"github.com/gogpu/bar/shm"
)

// Position is the screen edge a bar is anchored to.
type Position uint8

const (
	Top Position = iota
	Bottom
)

func (p Position) anchor() host.Anchor {
	if p == Bottom {
		return host.AnchorBottom
	}
	return host.AnchorTop
}

// String returns the position name.
func (p Position) String() string {
	return p.anchor().String()
}

// DrawFunc paints a frame. The canvas keeps its pixels between frames.
type DrawFunc func(c *bar.Canvas)

// Bar is one status bar surface and its presentation resources.
type Bar struct {
	position   Position
	height     int
	background bar.Color
	draw       DrawFunc
	surface    host.Surface

	// binding is nil while the bar is Unbound.
	binding *binding
}

// binding holds the resources of a Bound bar. They are created on the first
// successful render and never replaced.
type binding struct {
	width   int
	storage *shm.Storage
	canvas  *bar.Canvas
	pool    *shm.Pool
	buffer  *shm.Buffer
}

// BarOption configures a Bar.
type BarOption func(*Bar)

// WithBackground sets the color the canvas starts with and Clear restores.
// The default is opaque black.
func WithBackground(c bar.Color) BarOption {
	return func(b *Bar) { b.background = c }
}

// Position returns the anchored edge.
func (b *Bar) Position() Position { return b.position }

// Height returns the bar height in pixels.
func (b *Bar) Height() int { return b.height }

// Surface returns the host surface.
func (b *Bar) Surface() host.Surface { return b.surface }

// Bound reports whether presentation resources exist.
func (b *Bar) Bound() bool { return b.binding != nil }

// Canvas returns the bar canvas, or nil while Unbound.
func (b *Bar) Canvas() *bar.Canvas {
	if b.binding == nil {
		return nil
	}
	return b.binding.canvas
}

// Width returns the bound width, or 0 while Unbound.
func (b *Bar) Width() int {
	if b.binding == nil {
		return 0
	}
	return b.binding.width
}

// render presents one frame. An unbound bar binds with width; a bound bar
// keeps its original size.
func (b *Bar) render(width int, alloc host.BufferAllocator) error {
	bd := b.binding
	fresh := bd == nil
	if fresh {
		if width <= 0 || b.height <= 0 {
			return fmt.Errorf("client: bar size %dx%d: %w", width, b.height, bar.ErrInvalidGeometry)
		}
		storage, err := shm.NewStorage("gbar", int64(width*b.height*4))
		if err != nil {
			return err
		}
		bd = &binding{
			width:   width,
			storage: storage,
			canvas:  bar.NewCanvas(width, b.height, b.background),
		}
	}

	if b.draw != nil {
		b.draw(bd.canvas)
	}

	if err := b.present(bd, alloc); err != nil {
		if fresh {
			// Nothing of a failed bind survives; the next frame starts over.
			if rerr := bd.release(); rerr != nil {
				err = errors.Join(err, rerr)
			}
		}
		return err
	}

	if fresh {
		b.binding = bd
		bar.Logger().Info("client: bar bound",
			"surface", b.surface.ID(), "position", b.position, "width", bd.width, "height", b.height)
	}
	return nil
}

func (b *Bar) present(bd *binding, alloc host.BufferAllocator) error {
	if err := bd.storage.Rewind(); err != nil {
		return fmt.Errorf("client: rewind storage: %w", err)
	}
	if _, err := bd.canvas.Buffer().WriteTo(bd.storage); err != nil {
		return fmt.Errorf("client: write frame: %w", err)
	}

	if bd.pool == nil {
		pool, err := alloc.CreatePool(bd.storage, int(bd.storage.Size()))
		if err != nil {
			return fmt.Errorf("client: create pool: %w", err)
		}
		bd.pool = pool
	}
	if bd.buffer == nil {
		stride := bd.width * 4
		buf, err := bd.pool.CreateBuffer(0, bd.width, b.height, stride, shm.FormatARGB8888)
		if err != nil {
			return fmt.Errorf("client: create buffer: %w", err)
		}
		bd.buffer = buf
	}

	if err := b.surface.Attach(bd.buffer); err != nil {
		return fmt.Errorf("client: attach: %w", err)
	}
	if err := b.surface.Commit(); err != nil {
		return fmt.Errorf("client: commit: %w", err)
	}
	return nil
}

// release frees the bar resources and returns it to Unbound.
func (b *Bar) release() error {
	if b.binding == nil {
		return nil
	}
	err := b.binding.release()
	b.binding = nil
	return err
}

func (bd *binding) release() error {
	var errs []error
	if bd.pool != nil {
		errs = append(errs, bd.pool.Close())
	}
	if bd.storage != nil {
		errs = append(errs, bd.storage.Close())
	}
	return errors.Join(errs...)
}
