package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/gogpu/bar/config"
	"github.com/gogpu/bar/host"
)

type runFlags struct {
	config string
}

func newRunCmd() *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Draw the configured bars until the host closes them",
		Long: `Draw the configured bars until the host closes them or gbar is interrupted.

Configuration is read from the global config file, the file given with
--config, GBAR_* environment variables and the flags below, in increasing
order of precedence.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runBar(ctx, cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.config, "config", "c", "", "Config file (merged over the global config)")
	cmd.Flags().StringP("backend", "b", "", "Display host backend (default: best available)")
	cmd.Flags().StringP("output-dir", "o", "frames", "Output directory for file-writing backends")
	cmd.Flags().Duration("interval", time.Second, "Pause between frames")
	cmd.Flags().String("log-level", "info", "Log level: debug, info, warn or error")
	return cmd
}

func runBar(ctx context.Context, cmd *cobra.Command, flags runFlags) error {
	cfg, err := config.Load(flags.config, cmd.Flags())
	if err != nil {
		return err
	}
	if err := setupLogger(cmd.ErrOrStderr(), cfg); err != nil {
		return err
	}

	h, err := host.NewByName(cfg.Backend, host.Options{OutputDir: cfg.OutputDir})
	if err != nil {
		return fmt.Errorf("creating host: %w", err)
	}

	c, err := newClient(h, cfg)
	if err != nil {
		_ = h.Close()
		return err
	}
	defer func() {
		if err := c.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error during shutdown: %v\n", err)
		}
	}()

	return c.Run(ctx)
}
