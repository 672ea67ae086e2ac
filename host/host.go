// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package host

import (
	"context"
	"fmt"

	"github.com/gogpu/bar/shm"
)

// Anchor is the screen edge a bar surface is attached to. Surfaces are always
// stretched across the full width of the output.
type Anchor uint8

const (
	AnchorTop Anchor = iota
	AnchorBottom
)

// String returns the anchor name.
func (a Anchor) String() string {
	switch a {
	case AnchorTop:
		return "top"
	case AnchorBottom:
		return "bottom"
	default:
		return fmt.Sprintf("Anchor(%d)", uint8(a))
	}
}

// Layer is the stacking layer of a surface.
type Layer uint8

const (
	LayerBackground Layer = iota
	LayerBottom
	LayerTop
	LayerOverlay
)

// SurfaceConfig describes a layer surface.
type SurfaceConfig struct {
	// Namespace identifies the client to the compositor.
	Namespace string
	Anchor    Anchor
	// Height is the requested height in pixels. The width is chosen by the
	// host and reported in the Configured event.
	Height int
	// ExclusiveZone is the number of pixels other windows must keep clear.
	ExclusiveZone int
	Layer         Layer
}

// SurfaceID identifies a surface within its host.
type SurfaceID uint32

// Surface is a layer surface created by a Host.
type Surface interface {
	ID() SurfaceID
	Config() SurfaceConfig

	// AckConfigure acknowledges the Configured event with serial.
	AckConfigure(serial uint32) error

	// Attach sets the buffer shown on the next Commit.
	Attach(buf *shm.Buffer) error

	// Commit presents the attached buffer.
	Commit() error
}

// BufferAllocator creates shared-memory pools. [shm.Allocator] implements it.
type BufferAllocator interface {
	CreatePool(storage *shm.Storage, size int) (*shm.Pool, error)
}

var _ BufferAllocator = shm.Allocator{}

// Host is a display server connection.
type Host interface {
	// CreateSurface creates a layer surface. The host answers with a
	// Configured event for it.
	CreateSurface(cfg SurfaceConfig) (Surface, error)

	// Allocator returns the shared-memory allocator, or
	// ErrCapabilityUnavailable if the host has none.
	Allocator() (BufferAllocator, error)

	// NextEvent blocks until an event is available, ctx is done or the host
	// is closed.
	NextEvent(ctx context.Context) (Event, error)

	// PendingEvent returns an already queued event without blocking.
	PendingEvent() (Event, bool)

	Close() error
}

// Event is a message from the host. It is one of Configured, Closed or
// BufferReleased.
type Event interface {
	Target() SurfaceID
}

// Configured asks the client to acknowledge serial and use the given size.
// A zero Width leaves the choice to the client.
type Configured struct {
	Surface       SurfaceID
	Serial        uint32
	Width, Height int
}

// Closed reports that the host closed the surface.
type Closed struct {
	Surface SurfaceID
}

// BufferReleased reports that the host is done reading the surface's buffer.
type BufferReleased struct {
	Surface SurfaceID
}

func (e Configured) Target() SurfaceID     { return e.Surface }
func (e Closed) Target() SurfaceID         { return e.Surface }
func (e BufferReleased) Target() SurfaceID { return e.Surface }
