package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/srg/wearlink/internal/home"
	"github.com/srg/wearlink/internal/mainloop"
)

// reconnectCmd represents the reconnect command
var reconnectCmd = &cobra.Command{
	Use:   "reconnect",
	Short: "Silently reconnect to the most recent wearable",
	Long: `Waits for the most recently connected wearable to advertise with a
strong signal and connects to it without asking. Gives up after the
reconnect timeout.

Examples:
  # Reconnect with the configured timeout (15s by default)
  wearlink reconnect

  # Wait up to a minute
  wearlink reconnect --timeout 1m`,
	Args: cobra.NoArgs,
	RunE: runReconnect,
}

var reconnectTimeout time.Duration

func init() {
	reconnectCmd.Flags().DurationVar(&reconnectTimeout, "timeout", 0, "Reconnect timeout (overrides ble.reconnect_timeout)")
}

func runReconnect(cmd *cobra.Command, _ []string) error {
	env, err := setup(cmd)
	if err != nil {
		return err
	}
	if reconnectTimeout > 0 {
		env.cfg.BLE.ReconnectTimeout = reconnectTimeout
	}

	cmd.SilenceUsage = true

	dev, ok, err := env.store.MostRecent()
	if err != nil {
		return err
	}
	if !ok {
		return ErrNoRecentDevice
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	progress := NewCountdownProgressPrinter(cmd.OutOrStdout(),
		fmt.Sprintf("Reconnecting to %s", dev.DisplayName()), "waiting", env.cfg.BLE.ReconnectTimeout)
	defer progress.Stop()

	shot := &oneShot{env: env, out: cmd.OutOrStdout(), before: progress.Stop}
	return shot.run(ctx, mainloop.New(0, env.logger), func(c *home.Controller) error {
		if !c.Reconnect() {
			return ErrNoRecentDevice
		}
		progress.Start()
		return nil
	})
}
