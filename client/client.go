package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/gogpu/bar"
	"github.com/gogpu/bar/host"
)

// DefaultInterval is the pause between frames.
const DefaultInterval = time.Second

// DefaultNamespace identifies bar surfaces to the host.
const DefaultNamespace = "gbar"

// Option configures a Client.
type Option func(*Client)

// WithClock sets the clock used to pace the run loop.
func WithClock(clock clockwork.Clock) Option {
	return func(c *Client) { c.clock = clock }
}

// WithInterval sets the pause between frames.
func WithInterval(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.interval = d
		}
	}
}

// WithDefaultWidth sets the width used when the host does not report one.
func WithDefaultWidth(w int) Option {
	return func(c *Client) {
		if w > 0 {
			c.defaultWidth = w
		}
	}
}

// WithNamespace sets the surface namespace.
func WithNamespace(ns string) Option {
	return func(c *Client) { c.namespace = ns }
}

// Client drives bars on a host. It is not safe for concurrent use; Run owns
// the client until it returns.
type Client struct {
	host         host.Host
	clock        clockwork.Clock
	interval     time.Duration
	defaultWidth int
	namespace    string

	state State
	bars  []*Bar
}

// New creates a client on h.
func New(h host.Host, opts ...Option) *Client {
	c := &Client{
		host:         h,
		clock:        clockwork.NewRealClock(),
		interval:     DefaultInterval,
		defaultWidth: DefaultWidth,
		namespace:    DefaultNamespace,
		state:        State{Running: true},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current driver state.
func (c *Client) State() State { return c.state }

// Bars returns the bars in the order they were added.
func (c *Client) Bars() []*Bar {
	return append([]*Bar(nil), c.bars...)
}

// AddBar creates a layer surface for a new bar. The bar is drawn by draw on
// every frame once the host has configured the session.
func (c *Client) AddBar(pos Position, height int, draw DrawFunc, opts ...BarOption) (*Bar, error) {
	if height <= 0 {
		return nil, fmt.Errorf("client: bar height %d: %w", height, bar.ErrInvalidGeometry)
	}
	s, err := c.host.CreateSurface(host.SurfaceConfig{
		Namespace:     c.namespace,
		Anchor:        pos.anchor(),
		Height:        height,
		ExclusiveZone: height,
		Layer:         host.LayerTop,
	})
	if err != nil {
		return nil, fmt.Errorf("client: create surface: %w", err)
	}

	b := &Bar{
		position:   pos,
		height:     height,
		background: bar.Black,
		draw:       draw,
		surface:    s,
	}
	for _, opt := range opts {
		opt(b)
	}
	c.bars = append(c.bars, b)
	return b, nil
}

// Apply updates the state for one host event.
func (c *Client) Apply(ev host.Event) {
	log := bar.Logger()

	switch ev := ev.(type) {
	case host.Configured:
		b := c.barFor(ev.Surface)
		if b != nil {
			if err := b.surface.AckConfigure(ev.Serial); err != nil {
				log.Warn("client: ack configure failed", "surface", ev.Surface, "error", err)
			}
			if b.Bound() && ev.Width > 0 && ev.Width != b.Width() {
				log.Debug("client: resize ignored for bound bar", "surface", ev.Surface, "width", ev.Width)
			}
		}
		if !c.state.Configured {
			log.Info("client: host configured", "width", ev.Width, "height", ev.Height)
		}
		c.state.Configured = true
		if ev.Width > 0 {
			c.state.Width = ev.Width
		}
	case host.Closed:
		log.Info("client: surface closed", "surface", ev.Surface)
		c.state.Running = false
	case host.BufferReleased:
		log.Debug("client: buffer released", "surface", ev.Surface)
	}
}

// Dispatch blocks for one host event, then applies it and every event
// already queued behind it. A closed host or a done context stops the client
// like a Closed event.
func (c *Client) Dispatch(ctx context.Context) error {
	ev, err := c.host.NextEvent(ctx)
	switch {
	case err == nil:
		c.Apply(ev)
		for {
			ev, ok := c.host.PendingEvent()
			if !ok {
				return nil
			}
			c.Apply(ev)
		}
	case errors.Is(err, host.ErrClosed), ctx.Err() != nil:
		c.state.Running = false
		return nil
	default:
		return fmt.Errorf("client: next event: %w", err)
	}
}

// RenderOnce renders every bar once. Nothing happens before the host has
// configured the session. A bar that fails is skipped; the errors of all
// failed bars are returned joined.
func (c *Client) RenderOnce() error {
	if !c.state.Configured {
		return nil
	}

	alloc, err := c.host.Allocator()
	if err != nil {
		bar.Logger().Warn("client: frame skipped", "error", err)
		return fmt.Errorf("client: shared memory: %w", err)
	}

	width := c.state.width(c.defaultWidth)
	var errs []error
	for _, b := range c.bars {
		start := c.clock.Now()
		if err := b.render(width, alloc); err != nil {
			bar.Logger().Warn("client: frame skipped", "surface", b.surface.ID(), "error", err)
			errs = append(errs, err)
			continue
		}
		bar.Logger().Debug("client: frame presented", "surface", b.surface.ID(), "elapsed", c.clock.Since(start))
	}
	return errors.Join(errs...)
}

// Run dispatches the first events and renders, then loops while the state is
// Running: block for the next event, apply it and everything queued, render
// every bar and sleep for the interval. The sleep is skipped once the
// session has stopped. Frame errors are logged and retried on the next tick.
// Run returns nil when the host closes the session or ctx is done.
func (c *Client) Run(ctx context.Context) error {
	if err := c.Dispatch(ctx); err != nil {
		return err
	}
	_ = c.RenderOnce()

	for c.state.Running {
		if err := c.Dispatch(ctx); err != nil {
			return err
		}
		_ = c.RenderOnce()
		if !c.state.Running {
			break
		}

		select {
		case <-ctx.Done():
			c.state.Running = false
		case <-c.clock.After(c.interval):
		}
	}
	bar.Logger().Info("client: run loop finished")
	return nil
}

// Close releases every bar and closes the host.
func (c *Client) Close() error {
	var errs []error
	for _, b := range c.bars {
		errs = append(errs, b.release())
	}
	errs = append(errs, c.host.Close())
	return errors.Join(errs...)
}

func (c *Client) barFor(id host.SurfaceID) *Bar {
	for _, b := range c.bars {
		if b.surface.ID() == id {
			return b
		}
	}
	return nil
}
