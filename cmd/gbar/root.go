package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/gogpu/bar"
	"github.com/gogpu/bar/client"
	"github.com/gogpu/bar/config"
	"github.com/gogpu/bar/glyph"
	"github.com/gogpu/bar/host"
	"github.com/gogpu/bar/modules"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gbar",
		Short: "Software-rendered status bars",
		Long: `gbar paints status bars pixel by pixel into shared-memory buffers and
presents them on a display host.

Bars and their modules are described in ~/.config/gbar/gbar.yml; run
'gbar config init' to write the defaults.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newSnapshotCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newVersionCmd())
	return cmd
}

// setupLogger routes library logs to w at the configured level.
func setupLogger(w io.Writer, cfg *config.Config) error {
	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	bar.SetLogger(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
	return nil
}

// loadFace opens the configured font, or the embedded default.
func loadFace(cfg config.FontConfig) (glyph.Face, error) {
	if cfg.Path == "" && (cfg.Backend == "" || cfg.Backend == glyph.DefaultBackend) {
		return glyph.Default(), nil
	}
	if cfg.Path == "" {
		return nil, fmt.Errorf("font backend %q needs a font path", cfg.Backend)
	}
	return glyph.Load(cfg.Backend, cfg.Path)
}

func parsePosition(s string) (client.Position, error) {
	switch s {
	case "", "top":
		return client.Top, nil
	case "bottom":
		return client.Bottom, nil
	default:
		return 0, fmt.Errorf("unknown bar position %q", s)
	}
}

// newClient creates a client on h with one bar per configured bar.
func newClient(h host.Host, cfg *config.Config, opts ...client.Option) (*client.Client, error) {
	face, err := loadFace(cfg.Font)
	if err != nil {
		return nil, fmt.Errorf("loading font: %w", err)
	}

	opts = append([]client.Option{
		client.WithInterval(cfg.Interval),
		client.WithDefaultWidth(cfg.DefaultWidth),
	}, opts...)
	c := client.New(h, opts...)

	deps := modules.Deps{Face: face, FontSize: cfg.Font.Size}
	for i, bc := range cfg.Bars {
		pos, err := parsePosition(bc.Position)
		if err != nil {
			return nil, fmt.Errorf("bar %d: %w", i, err)
		}
		var barOpts []client.BarOption
		if bc.Background != "" {
			bg, err := bar.ParseHex(bc.Background)
			if err != nil {
				return nil, fmt.Errorf("bar %d: background: %w", i, err)
			}
			barOpts = append(barOpts, client.WithBackground(bg))
		}
		mods, err := modules.Build(bc.Modules, deps)
		if err != nil {
			return nil, fmt.Errorf("bar %d: %w", i, err)
		}
		if _, err := c.AddBar(pos, bc.Height, modules.Painter(mods), barOpts...); err != nil {
			return nil, fmt.Errorf("bar %d: %w", i, err)
		}
	}
	return c, nil
}
