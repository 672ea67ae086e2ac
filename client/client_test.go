package client

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/bar"
	"github.com/gogpu/bar/host"
	"github.com/gogpu/bar/shm"
)

func newClient(t *testing.T, opts ...host.MemoryOption) (*Client, *host.Memory) {
	t.Helper()
	m := host.NewMemory(opts...)
	c := New(m, WithClock(clockwork.NewFakeClock()))
	t.Cleanup(func() { _ = c.Close() })
	return c, m
}

// configure applies every queued event.
func configure(t *testing.T, c *Client) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, c.Dispatch(ctx))
	require.True(t, c.State().Running)
}

func fill(col bar.Color) DrawFunc {
	return func(cv *bar.Canvas) { cv.Fill(col) }
}

func TestAddBar(t *testing.T) {
	c, _ := newClient(t)

	b, err := c.AddBar(Bottom, 30, nil)
	require.NoError(t, err)
	require.Equal(t, Bottom, b.Position())
	require.Equal(t, 30, b.Height())
	require.False(t, b.Bound())
	require.Nil(t, b.Canvas())

	cfg := b.Surface().Config()
	require.Equal(t, host.AnchorBottom, cfg.Anchor)
	require.Equal(t, 30, cfg.ExclusiveZone)
	require.Equal(t, host.LayerTop, cfg.Layer)
	require.Equal(t, DefaultNamespace, cfg.Namespace)

	_, err = c.AddBar(Top, 0, nil)
	require.ErrorIs(t, err, bar.ErrInvalidGeometry)
}

func TestRenderBeforeConfigureDoesNothing(t *testing.T) {
	c, m := newClient(t)
	b, err := c.AddBar(Top, 40, fill(bar.Red))
	require.NoError(t, err)

	require.NoError(t, c.RenderOnce())
	require.False(t, b.Bound())
	require.Empty(t, m.Frames())
}

func TestFirstRenderBindsWithDefaultWidth(t *testing.T) {
	c, m := newClient(t)
	b, err := c.AddBar(Top, 40, fill(0xFFCF4345))
	require.NoError(t, err)

	configure(t, c)
	require.True(t, c.State().Configured)
	require.NoError(t, c.RenderOnce())

	require.True(t, b.Bound())
	require.Equal(t, DefaultWidth, b.Width())
	require.Equal(t, DefaultWidth, b.Canvas().Width())
	require.Equal(t, 40, b.Canvas().Height())

	f, ok := m.LastFrame(b.Surface().ID())
	require.True(t, ok)
	require.Equal(t, 1920, f.Image.Bounds().Dx())
	require.Equal(t, bar.Color(0xFFCF4345), bar.FromColor(f.Image.At(100, 20)))
	require.Len(t, m.Acked(b.Surface().ID()), 1)
}

func TestConfiguredWidthIsUsed(t *testing.T) {
	c, _ := newClient(t, host.WithWidth(800))
	b, err := c.AddBar(Top, 20, nil)
	require.NoError(t, err)

	configure(t, c)
	require.Equal(t, 800, c.State().Width)
	require.NoError(t, c.RenderOnce())
	require.Equal(t, 800, b.Width())
}

func TestResourcesCreatedOnce(t *testing.T) {
	c, m := newClient(t)
	frame := 0
	b, err := c.AddBar(Top, 10, func(cv *bar.Canvas) {
		// The canvas is not cleared between frames, so every marker stays.
		cv.SetPixel(frame, 0, bar.White)
		frame++
	})
	require.NoError(t, err)
	configure(t, c)

	require.NoError(t, c.RenderOnce())
	canvas, binding := b.Canvas(), b.binding
	require.NoError(t, c.RenderOnce())
	require.NoError(t, c.RenderOnce())

	require.Same(t, canvas, b.Canvas())
	require.Same(t, binding.storage, b.binding.storage)
	require.Same(t, binding.pool, b.binding.pool)
	require.Same(t, binding.buffer, b.binding.buffer)

	frames := m.Frames()
	require.Len(t, frames, 3)
	last := frames[2].Image
	for x := 0; x < 3; x++ {
		require.Equal(t, bar.White, bar.FromColor(last.At(x, 0)), "marker %d", x)
	}
	require.Equal(t, bar.Black, bar.FromColor(last.At(3, 0)))
}

func TestNoResizeAfterBind(t *testing.T) {
	c, m := newClient(t)
	b, err := c.AddBar(Top, 10, nil)
	require.NoError(t, err)
	configure(t, c)
	require.NoError(t, c.RenderOnce())

	m.Reconfigure(b.Surface().ID(), 2560, 10)
	ctx := context.Background()
	for {
		ev, err := m.NextEvent(ctx)
		require.NoError(t, err)
		c.Apply(ev)
		if _, ok := ev.(host.Configured); ok {
			break
		}
	}
	require.Len(t, m.Acked(b.Surface().ID()), 2)
	require.Equal(t, 2560, c.State().Width)

	require.NoError(t, c.RenderOnce())
	require.Equal(t, DefaultWidth, b.Width())
	f, _ := m.LastFrame(b.Surface().ID())
	require.Equal(t, DefaultWidth, f.Image.Bounds().Dx())
}

func TestMissingSharedMemorySkipsFrame(t *testing.T) {
	c, m := newClient(t, host.WithoutSHM())
	b, err := c.AddBar(Top, 10, nil)
	require.NoError(t, err)
	configure(t, c)

	err = c.RenderOnce()
	require.ErrorIs(t, err, host.ErrCapabilityUnavailable)
	require.False(t, b.Bound())
	require.Empty(t, m.Frames())
}

// failingHost hands out an allocator that fails a fixed number of times.
type failingHost struct {
	*host.Memory
	failures int
}

type failingAllocator struct {
	h *failingHost
}

var errPool = errors.New("pool refused")

func (a failingAllocator) CreatePool(s *shm.Storage, size int) (*shm.Pool, error) {
	if a.h.failures > 0 {
		a.h.failures--
		return nil, errPool
	}
	return shm.Allocator{}.CreatePool(s, size)
}

func (h *failingHost) Allocator() (host.BufferAllocator, error) {
	return failingAllocator{h: h}, nil
}

func TestFailedBindStaysUnboundAndRetries(t *testing.T) {
	h := &failingHost{Memory: host.NewMemory(), failures: 1}
	c := New(h, WithClock(clockwork.NewFakeClock()))
	defer c.Close()

	b, err := c.AddBar(Top, 10, fill(bar.Blue))
	require.NoError(t, err)
	configure(t, c)

	require.ErrorIs(t, c.RenderOnce(), errPool)
	require.False(t, b.Bound())
	require.Empty(t, h.Frames())

	require.NoError(t, c.RenderOnce())
	require.True(t, b.Bound())
	require.Len(t, h.Frames(), 1)
}

func TestGlobalConfiguredRendersAllBars(t *testing.T) {
	c, m := newClient(t)
	top, err := c.AddBar(Top, 10, fill(bar.Red))
	require.NoError(t, err)
	bottom, err := c.AddBar(Bottom, 12, fill(bar.Green))
	require.NoError(t, err)

	// One Configured event is enough to render every bar.
	ev, err := m.NextEvent(context.Background())
	require.NoError(t, err)
	c.Apply(ev)
	require.NoError(t, c.RenderOnce())

	require.True(t, top.Bound())
	require.True(t, bottom.Bound())
	f, ok := m.LastFrame(bottom.Surface().ID())
	require.True(t, ok)
	require.Equal(t, bar.Green, bar.FromColor(f.Image.At(0, 11)))
}

func TestApplyClosed(t *testing.T) {
	c, _ := newClient(t)
	require.True(t, c.State().Running)
	c.Apply(host.Closed{Surface: 1})
	require.False(t, c.State().Running)
}

func TestRunStopsOnClosed(t *testing.T) {
	m := host.NewMemory()
	clock := clockwork.NewFakeClock()
	c := New(m, WithClock(clock), WithInterval(time.Second))
	defer c.Close()

	b, err := c.AddBar(Top, 10, fill(bar.Red))
	require.NoError(t, err)
	m.Send(host.Closed{Surface: b.Surface().ID()})

	// Configured and Closed are applied together, so Run renders once and
	// returns without sleeping.
	require.NoError(t, c.Run(context.Background()))
	require.False(t, c.State().Running)
	require.Equal(t, 1, m.Commits())
}

func TestDispatchDrainsQueuedEvents(t *testing.T) {
	c, m := newClient(t)
	for _, pos := range []Position{Top, Bottom, Top} {
		_, err := c.AddBar(pos, 10, nil)
		require.NoError(t, err)
	}
	configure(t, c)

	require.NoError(t, c.RenderOnce())
	require.NoError(t, c.Dispatch(context.Background()))

	_, pending := m.PendingEvent()
	require.False(t, pending, "one BufferReleased per bar left queued")
}

func TestRunHandlesClosedWithinOneTick(t *testing.T) {
	m := host.NewMemory()
	clock := clockwork.NewFakeClock()
	c := New(m, WithClock(clock), WithInterval(time.Second))
	defer c.Close()

	top, err := c.AddBar(Top, 10, fill(bar.Red))
	require.NoError(t, err)
	_, err = c.AddBar(Bottom, 10, fill(bar.Blue))
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- c.Run(context.Background()) }()

	// Two renders before the first sleep, then one per tick.
	const ticks = 20
	for i := 0; i < ticks; i++ {
		clock.BlockUntil(1)
		clock.Advance(time.Second)
	}
	clock.BlockUntil(1)
	m.Send(host.Closed{Surface: top.Surface().ID()})
	clock.Advance(time.Second)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return one tick after Closed")
	}
	require.False(t, c.State().Running)
	require.Equal(t, 2*(2+ticks+1), m.Commits())

	// Only the releases of the last frame remain.
	var left int
	for {
		if _, ok := m.PendingEvent(); !ok {
			break
		}
		left++
	}
	require.Equal(t, 2, left)
}

func TestRunStopsOnContextCancel(t *testing.T) {
	m := host.NewMemory()
	clock := clockwork.NewFakeClock()
	c := New(m, WithClock(clock))
	defer c.Close()

	_, err := c.AddBar(Top, 10, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	clock.BlockUntil(1)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return")
	}
	require.Len(t, m.Frames(), 2)
}

func TestRunStopsWhenHostCloses(t *testing.T) {
	m := host.NewMemory()
	c := New(m, WithClock(clockwork.NewFakeClock()))
	require.NoError(t, m.Close())

	require.NoError(t, c.Run(context.Background()))
	require.False(t, c.State().Running)
}
