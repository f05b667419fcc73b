package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bnema/fluxwl/internal/config"
	"github.com/bnema/fluxwl/internal/event"
	"github.com/bnema/fluxwl/internal/geom"
	"github.com/bnema/fluxwl/internal/logger"
	"github.com/bnema/fluxwl/internal/server"
)

var runHeadless bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the compositor",
	Long: `Starts the window manager core on the compositor event loop.

The wire backends (Wayland socket, X11 bridge, renderer) attach through
the server's surface and input entry points; --headless runs the core
with a single synthetic output, which is mainly useful for development.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !runHeadless {
			return fmt.Errorf("no display backend compiled in; run with --headless")
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		loop := event.NewLoop()
		cancelCtx, cancel := context.WithCancel(ctx)
		defer cancel()

		outputs := []*geom.Output{
			{Name: "HEADLESS-1", Box: geom.Box{Width: 1920, Height: 1080}, Enabled: true},
		}
		srv := server.New(server.Options{
			Outputs:   outputs,
			Clock:     loop,
			Config:    config.Get(),
			Terminate: cancel,
		})
		defer srv.Shutdown()

		if stopWatch, err := srv.WatchConfigFiles(loop); err == nil {
			defer stopWatch()
		} else {
			logger.Warnf("run: config watch disabled: %v", err)
		}

		srv.Core.Screens.Log("startup")
		logger.Info("run: compositor core started", "outputs", len(outputs),
			"workspaces", srv.Core.WorkspaceCount())

		loop.Run(cancelCtx)
		logger.Info("run: shutting down")
		return nil
	},
}

func init() {
	runCmd.Flags().BoolVar(&runHeadless, "headless", false, "run without a display backend")
	rootCmd.AddCommand(runCmd)
}
