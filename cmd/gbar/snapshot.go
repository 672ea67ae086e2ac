package main

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gogpu/bar/client"
	"github.com/gogpu/bar/config"
	"github.com/gogpu/bar/host"
)

type snapshotFlags struct {
	config string
	out    string
}

func newSnapshotCmd() *cobra.Command {
	var flags snapshotFlags

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Render one frame of every bar to PNG files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return snapshot(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.config, "config", "c", "", "Config file (merged over the global config)")
	cmd.Flags().StringVar(&flags.out, "out", ".", "Directory the PNG files are written to")
	return cmd
}

func snapshot(cmd *cobra.Command, flags snapshotFlags) error {
	cfg, err := config.Load(flags.config, nil)
	if err != nil {
		return err
	}

	h := host.NewMemory(host.WithWidth(cfg.DefaultWidth))
	c, err := newClient(h, cfg)
	if err != nil {
		_ = h.Close()
		return err
	}
	defer func() { _ = c.Close() }()

	// Every bar gets a Configured event; one dispatch applies them all.
	if err := c.Dispatch(cmd.Context()); err != nil {
		return err
	}
	if err := c.RenderOnce(); err != nil {
		return fmt.Errorf("rendering: %w", err)
	}

	if err := os.MkdirAll(flags.out, 0o750); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	for i, b := range c.Bars() {
		path := filepath.Join(flags.out, snapshotName(i, b))
		if err := writeFrame(h, b, path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	}
	return nil
}

func snapshotName(i int, b *client.Bar) string {
	return fmt.Sprintf("bar-%d-%s.png", i, b.Position())
}

func writeFrame(h *host.Memory, b *client.Bar, path string) error {
	frame, ok := h.LastFrame(b.Surface().ID())
	if !ok {
		return fmt.Errorf("bar %s: no frame was committed", b.Position())
	}

	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	if err := png.Encode(f, frame.Image); err != nil {
		_ = f.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return f.Close()
}
