// Package cmd implements the fluxwl command line interface
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bnema/fluxwl/internal/config"
	"github.com/bnema/fluxwl/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "fluxwl",
	Short: "A Fluxbox-style stacking window manager for Wayland",
	Long: `fluxwl is a stacking/tabbing Wayland compositor in the Fluxbox
tradition: workspaces per head, window tabs, a scriptable command
language bound to keys and mouse buttons, and apps rules for
per-client window policy.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Init(); err != nil {
			return fmt.Errorf("config: %w", err)
		}
		return nil
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
}
