// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package host

import (
	"context"
	"errors"
	"image/png"
	"os"
	"testing"
	"time"

	"github.com/gogpu/bar"
	"github.com/gogpu/bar/shm"
)

// present writes c into fresh storage and commits it to s.
func present(t *testing.T, h Host, s Surface, c *bar.Canvas) {
	t.Helper()
	size := c.Buffer().ByteLen()
	storage, err := shm.NewStorage("test", int64(size))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = storage.Close() })
	if _, err := c.Buffer().WriteTo(storage); err != nil {
		t.Fatal(err)
	}

	alloc, err := h.Allocator()
	if err != nil {
		t.Fatal(err)
	}
	pool, err := alloc.CreatePool(storage, size)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = pool.Close() })
	buf, err := pool.CreateBuffer(0, c.Width(), c.Height(), c.Width()*4, shm.FormatARGB8888)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Attach(buf); err != nil {
		t.Fatal(err)
	}
	if err := s.Commit(); err != nil {
		t.Fatal(err)
	}
}

func nextEvent(t *testing.T, h Host) Event {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	ev, err := h.NextEvent(ctx)
	if err != nil {
		t.Fatalf("NextEvent() error = %v", err)
	}
	return ev
}

func TestMemory_ConfiguresNewSurfaces(t *testing.T) {
	m := NewMemory(WithWidth(1280))
	defer m.Close()

	top, err := m.CreateSurface(SurfaceConfig{Namespace: "gbar", Anchor: AnchorTop, Height: 40})
	if err != nil {
		t.Fatal(err)
	}
	bottom, err := m.CreateSurface(SurfaceConfig{Namespace: "gbar", Anchor: AnchorBottom, Height: 30})
	if err != nil {
		t.Fatal(err)
	}
	if top.ID() == bottom.ID() {
		t.Fatal("surfaces share an ID")
	}

	ev := nextEvent(t, m)
	cfg, ok := ev.(Configured)
	if !ok || cfg.Surface != top.ID() || cfg.Width != 1280 || cfg.Height != 40 {
		t.Errorf("first event = %#v", ev)
	}
	ev = nextEvent(t, m)
	if cfg2, ok := ev.(Configured); !ok || cfg2.Surface != bottom.ID() || cfg2.Serial == cfg.Serial {
		t.Errorf("second event = %#v", ev)
	}

	if err := top.AckConfigure(cfg.Serial); err != nil {
		t.Fatal(err)
	}
	if got := m.Acked(top.ID()); len(got) != 1 || got[0] != cfg.Serial {
		t.Errorf("Acked() = %v", got)
	}
}

func TestMemory_CreateSurfaceInvalid(t *testing.T) {
	m := NewMemory()
	if _, err := m.CreateSurface(SurfaceConfig{Height: 0}); err == nil {
		t.Error("zero-height surface accepted")
	}
}

func TestMemory_CommitRecordsFrameAndReleases(t *testing.T) {
	m := NewMemory()
	defer m.Close()
	s, err := m.CreateSurface(SurfaceConfig{Namespace: "gbar", Height: 2})
	if err != nil {
		t.Fatal(err)
	}
	nextEvent(t, m) // Configured

	c := bar.NewCanvas(4, 2, 0xFF44848C)
	c.SetPixel(3, 1, bar.White)
	present(t, m, s, c)

	if ev := nextEvent(t, m); ev != (BufferReleased{Surface: s.ID()}) {
		t.Errorf("event after commit = %#v, want BufferReleased", ev)
	}

	f, ok := m.LastFrame(s.ID())
	if !ok {
		t.Fatal("no frame recorded")
	}
	if f.Seq != 1 || f.Image.Bounds().Dx() != 4 {
		t.Errorf("frame = seq %d, bounds %v", f.Seq, f.Image.Bounds())
	}
	if got := bar.FromColor(f.Image.At(3, 1)); got != bar.White {
		t.Errorf("frame pixel = %v, want white", got)
	}
	if got := bar.FromColor(f.Image.At(0, 0)); got != 0xFF44848C {
		t.Errorf("frame pixel = %v, want background", got)
	}
	if len(m.Frames()) != 1 {
		t.Errorf("Frames() = %d, want 1", len(m.Frames()))
	}
}

func TestMemory_WithoutSHM(t *testing.T) {
	m := NewMemory(WithoutSHM())
	if _, err := m.Allocator(); !errors.Is(err, ErrCapabilityUnavailable) {
		t.Errorf("Allocator() error = %v, want ErrCapabilityUnavailable", err)
	}
}

func TestMemory_NextEventBlocksUntilSend(t *testing.T) {
	m := NewMemory()
	go func() {
		time.Sleep(10 * time.Millisecond)
		m.Send(Closed{Surface: 7})
	}()
	if ev := nextEvent(t, m); ev != (Closed{Surface: 7}) {
		t.Errorf("NextEvent() = %#v", ev)
	}
}

func TestMemory_NextEventContext(t *testing.T) {
	m := NewMemory()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := m.NextEvent(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("NextEvent() error = %v, want context.Canceled", err)
	}
}

func TestMemory_Close(t *testing.T) {
	m := NewMemory()
	m.Send(Closed{Surface: 1})
	if err := m.Close(); err != nil {
		t.Fatal(err)
	}

	// Queued events drain first.
	if ev := nextEvent(t, m); ev != (Closed{Surface: 1}) {
		t.Errorf("NextEvent() = %#v", ev)
	}
	if _, err := m.NextEvent(context.Background()); !errors.Is(err, ErrClosed) {
		t.Errorf("NextEvent() after Close error = %v, want ErrClosed", err)
	}
	if _, err := m.CreateSurface(SurfaceConfig{Height: 1}); !errors.Is(err, ErrClosed) {
		t.Errorf("CreateSurface() after Close error = %v, want ErrClosed", err)
	}
}

func TestMemory_Reconfigure(t *testing.T) {
	m := NewMemory()
	m.Reconfigure(3, 2560, 40)
	if ev, ok := nextEvent(t, m).(Configured); !ok || ev.Width != 2560 || ev.Surface != 3 {
		t.Errorf("event = %#v", ev)
	}
}

func TestPNG_WritesFrames(t *testing.T) {
	dir := t.TempDir()
	p, err := NewPNG(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	cfg := SurfaceConfig{Namespace: "gbar", Height: 3}
	s, err := p.CreateSurface(cfg)
	if err != nil {
		t.Fatal(err)
	}
	c := bar.NewCanvas(5, 3, bar.Red)
	present(t, p, s, c)

	f, err := os.Open(p.Path(cfg, s.ID()))
	if err != nil {
		t.Fatalf("frame file: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 5 || img.Bounds().Dy() != 3 {
		t.Errorf("frame size = %v", img.Bounds())
	}
	if got := bar.FromColor(img.At(2, 2)); got != bar.Red {
		t.Errorf("frame pixel = %v, want red", got)
	}
}

func TestMemory_HistoryIsBounded(t *testing.T) {
	tests := []struct {
		name    string
		opts    []MemoryOption
		commits int
		want    int
	}{
		{"default", nil, 3 * DefaultHistory, DefaultHistory},
		{"short", []MemoryOption{WithHistory(4)}, 10, 4},
		{"none", []MemoryOption{WithHistory(0)}, 10, 0},
		{"below limit", []MemoryOption{WithHistory(8)}, 3, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMemory(tt.opts...)
			defer m.Close()
			other, err := m.CreateSurface(SurfaceConfig{Height: 1})
			if err != nil {
				t.Fatal(err)
			}
			s, err := m.CreateSurface(SurfaceConfig{Height: 1})
			if err != nil {
				t.Fatal(err)
			}

			present(t, m, other, bar.NewCanvas(2, 1, bar.Red))
			present(t, m, s, bar.NewCanvas(2, 1, bar.Blue))
			for i := 1; i < tt.commits; i++ {
				if err := s.Commit(); err != nil {
					t.Fatal(err)
				}
			}

			frames := m.Frames()
			if len(frames) != tt.want {
				t.Fatalf("Frames() = %d, want %d", len(frames), tt.want)
			}
			total := tt.commits + 1
			if m.Commits() != total {
				t.Errorf("Commits() = %d, want %d", m.Commits(), total)
			}
			if tt.want > 0 && frames[len(frames)-1].Seq != total {
				t.Errorf("newest frame seq = %d, want %d", frames[len(frames)-1].Seq, total)
			}
			if f, ok := m.LastFrame(other.ID()); !ok || f.Seq != 1 {
				t.Errorf("LastFrame(other) = seq %d, %v; want seq 1", f.Seq, ok)
			}
			if f, ok := m.LastFrame(s.ID()); !ok || f.Seq != total {
				t.Errorf("LastFrame(s) = seq %d, %v; want seq %d", f.Seq, ok, total)
			}
		})
	}
}

func TestMemory_PendingEvent(t *testing.T) {
	m := NewMemory()
	defer m.Close()

	if _, ok := m.PendingEvent(); ok {
		t.Fatal("PendingEvent() on an empty queue reported an event")
	}
	s, err := m.CreateSurface(SurfaceConfig{Height: 1})
	if err != nil {
		t.Fatal(err)
	}
	m.Send(Closed{Surface: s.ID()})

	ev, ok := m.PendingEvent()
	if _, isConf := ev.(Configured); !ok || !isConf {
		t.Errorf("first PendingEvent() = %#v, want Configured", ev)
	}
	if ev, ok := m.PendingEvent(); !ok || ev != (Closed{Surface: s.ID()}) {
		t.Errorf("second PendingEvent() = %#v, want Closed", ev)
	}
	if _, ok := m.PendingEvent(); ok {
		t.Error("queue not empty")
	}
}
