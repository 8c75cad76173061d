package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/srg/wearlink/internal/audioroute"
)

// routesCmd represents the routes command
var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "Log audio route changes until interrupted",
	Long: `Watches Bluetooth audio transports through BlueZ on the system bus and
logs every audio route change: its reason, the previous output and the
current output. Press Ctrl+C to stop.

Logs at info level unless --log-level asks for more.`,
	Args: cobra.NoArgs,
	RunE: runRoutes,
}

func runRoutes(cmd *cobra.Command, _ []string) error {
	env, err := setup(cmd)
	if err != nil {
		return err
	}
	if env.logger.GetLevel() < logrus.InfoLevel {
		env.logger.SetLevel(logrus.InfoLevel)
	}
	env.logger.SetOutput(cmd.OutOrStdout())

	cmd.SilenceUsage = true

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	src, err := audioroute.OpenBlueZ(ctx, env.logger)
	if err != nil {
		return err
	}
	return audioroute.Watch(ctx, src, env.logger)
}
