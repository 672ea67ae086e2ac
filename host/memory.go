// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package host

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/gogpu/bar"
	"github.com/gogpu/bar/shm"
)

// DefaultHistory is the number of frames a Memory host retains by default.
const DefaultHistory = 16

// Frame is a buffer committed to a memory host.
type Frame struct {
	Surface SurfaceID
	Config  SurfaceConfig
	// Seq numbers commits across all surfaces, starting at 1.
	Seq   int
	Image *image.NRGBA
}

// MemoryOption configures a Memory host.
type MemoryOption func(*Memory)

// WithWidth sets the width reported in Configured events.
func WithWidth(width int) MemoryOption {
	return func(m *Memory) { m.width = width }
}

// WithoutSHM makes Allocator report ErrCapabilityUnavailable.
func WithoutSHM() MemoryOption {
	return func(m *Memory) { m.noSHM = true }
}

// WithHistory sets how many recent frames Frames returns. The last frame of
// every surface is kept regardless; n <= 0 keeps no history.
func WithHistory(n int) MemoryOption {
	return func(m *Memory) { m.history = max(n, 0) }
}

// WithCommitHook runs fn for every committed frame. An error from fn is
// returned by Surface.Commit.
func WithCommitHook(fn func(Frame) error) MemoryOption {
	return func(m *Memory) { m.onCommit = fn }
}

// Memory is a headless host that keeps the last committed frame of every
// surface, plus a bounded history, in memory.
// Events can be injected with Send to script a session.
//
// Memory is safe for concurrent use.
type Memory struct {
	width    int
	noSHM    bool
	history  int
	onCommit func(Frame) error

	mu       sync.Mutex
	queue    []Event
	notify   chan struct{}
	closed   bool
	surfaces map[SurfaceID]*memorySurface
	nextID   SurfaceID
	serial   uint32
	seq      int
	frames   []Frame
	last     map[SurfaceID]Frame
}

// NewMemory creates a memory host.
func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{
		notify:   make(chan struct{}, 1),
		surfaces: make(map[SurfaceID]*memorySurface),
		history:  DefaultHistory,
		last:     make(map[SurfaceID]Frame),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// CreateSurface implements Host. The new surface is configured right away.
func (m *Memory) CreateSurface(cfg SurfaceConfig) (Surface, error) {
	if cfg.Height <= 0 {
		return nil, fmt.Errorf("host: surface height %d must be positive", cfg.Height)
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil, ErrClosed
	}
	m.nextID++
	s := &memorySurface{host: m, id: m.nextID, cfg: cfg}
	m.surfaces[s.id] = s
	m.serial++
	m.push(Configured{Surface: s.id, Serial: m.serial, Width: m.width, Height: cfg.Height})
	m.mu.Unlock()

	bar.Logger().Debug("host: surface created", "surface", s.id, "namespace", cfg.Namespace, "anchor", cfg.Anchor)
	return s, nil
}

// Allocator implements Host.
func (m *Memory) Allocator() (BufferAllocator, error) {
	if m.noSHM {
		return nil, ErrCapabilityUnavailable
	}
	return shm.Allocator{}, nil
}

// NextEvent implements Host.
func (m *Memory) NextEvent(ctx context.Context) (Event, error) {
	for {
		m.mu.Lock()
		ev, ok := m.pop()
		closed := m.closed
		m.mu.Unlock()
		if ok {
			return ev, nil
		}
		if closed {
			return nil, ErrClosed
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-m.notify:
		}
	}
}

// PendingEvent implements Host.
func (m *Memory) PendingEvent() (Event, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pop()
}

// Send queues an event as if the compositor had sent it.
func (m *Memory) Send(ev Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.push(ev)
}

// Reconfigure queues a new Configured event for surface.
func (m *Memory) Reconfigure(id SurfaceID, width, height int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.serial++
	m.push(Configured{Surface: id, Serial: m.serial, Width: width, Height: height})
}

// Frames returns the most recent frames in commit order, at most as many as
// the history allows.
func (m *Memory) Frames() []Frame {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Frame(nil), m.frames...)
}

// LastFrame returns the most recent frame committed to surface.
func (m *Memory) LastFrame(id SurfaceID) (Frame, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.last[id]
	return f, ok
}

// Commits returns the number of frames committed so far.
func (m *Memory) Commits() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.seq
}

// Acked returns the serials acknowledged by surface.
func (m *Memory) Acked(id SurfaceID) []uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.surfaces[id]
	if !ok {
		return nil
	}
	return append([]uint32(nil), s.acked...)
}

// Close implements Host. Pending events are still delivered; after that
// NextEvent returns ErrClosed.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	m.closed = true
	m.wake()
	return nil
}

// pop removes the oldest queued event. Caller must hold m.mu.
func (m *Memory) pop() (Event, bool) {
	if len(m.queue) == 0 {
		return nil, false
	}
	ev := m.queue[0]
	m.queue[0] = nil
	m.queue = m.queue[1:]
	return ev, true
}

// push appends an event. Caller must hold m.mu.
func (m *Memory) push(ev Event) {
	m.queue = append(m.queue, ev)
	m.wake()
}

func (m *Memory) wake() {
	select {
	case m.notify <- struct{}{}:
	default:
	}
}

func (m *Memory) commit(s *memorySurface, buf *shm.Buffer) error {
	var img *image.NRGBA
	if buf != nil {
		var err error
		if img, err = buf.ToImage(); err != nil {
			return fmt.Errorf("host: read buffer: %w", err)
		}
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}
	m.seq++
	f := Frame{Surface: s.id, Config: s.cfg, Seq: m.seq, Image: img}
	m.last[s.id] = f
	if m.history > 0 {
		if len(m.frames) == m.history {
			copy(m.frames, m.frames[1:])
			m.frames = m.frames[:len(m.frames)-1]
		}
		m.frames = append(m.frames, f)
	}
	hook := m.onCommit
	m.mu.Unlock()

	var err error
	if hook != nil && img != nil {
		err = hook(f)
	}

	// The frame has been read either way, so the buffer goes back.
	m.Send(BufferReleased{Surface: s.id})
	return err
}

type memorySurface struct {
	host *Memory
	id   SurfaceID
	cfg  SurfaceConfig

	// Guarded by host.mu.
	acked    []uint32
	attached *shm.Buffer
}

func (s *memorySurface) ID() SurfaceID         { return s.id }
func (s *memorySurface) Config() SurfaceConfig { return s.cfg }

func (s *memorySurface) AckConfigure(serial uint32) error {
	s.host.mu.Lock()
	defer s.host.mu.Unlock()
	s.acked = append(s.acked, serial)
	return nil
}

func (s *memorySurface) Attach(buf *shm.Buffer) error {
	if buf == nil {
		return errors.New("host: attach nil buffer")
	}
	s.host.mu.Lock()
	defer s.host.mu.Unlock()
	s.attached = buf
	return nil
}

func (s *memorySurface) Commit() error {
	s.host.mu.Lock()
	buf := s.attached
	s.host.mu.Unlock()
	return s.host.commit(s, buf)
}
