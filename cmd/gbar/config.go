package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gogpu/bar/config"
)

type configInitFlags struct {
	path  string
	force bool
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the gbar configuration file",
	}
	cmd.AddCommand(newConfigInitCmd())
	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var flags configInitFlags

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration",
		Long: `Write the default configuration with the two demo bars.

By default, creates a global config at ~/.config/gbar/gbar.yml.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := flags.path
			if path == "" {
				path = config.GlobalPath()
			}
			if path == "" {
				return errors.New("cannot determine the config directory (HOME is not set); use --path")
			}
			if err := config.WriteDefault(path, flags.force); err != nil {
				if errors.Is(err, config.ErrExists) {
					return fmt.Errorf("%w\n\nUse --force to overwrite", err)
				}
				return fmt.Errorf("failed to write config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Config written to: %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&flags.path, "path", "p", "", "Config file to write (default: global config)")
	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "Overwrite existing config file")
	return cmd
}
