package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/srg/wearlink/internal/connectui"
	"github.com/srg/wearlink/internal/console"
	"github.com/srg/wearlink/internal/home"
	"github.com/srg/wearlink/internal/mainloop"
)

// connectCmd represents the connect command
var connectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Search for a wearable and connect to it",
	Long: `Scans for nearby wearables and lists them as they are discovered.
Enter the number of a device to connect to it or q to cancel.

The connected device is remembered for 'wearlink reconnect' and for the
silent reconnect of 'wearlink home'.

Examples:
  # Search for any wearable
  wearlink connect

  # Only list devices advertising a service
  wearlink connect --service 180d`,
	Args: cobra.NoArgs,
	RunE: runConnect,
}

var connectServices []string

func init() {
	connectCmd.Flags().StringSliceVar(&connectServices, "service", nil, "Only list devices advertising these service UUIDs (overrides ble.services)")
}

func runConnect(cmd *cobra.Command, _ []string) error {
	env, err := setup(cmd)
	if err != nil {
		return err
	}
	if len(connectServices) > 0 {
		env.cfg.BLE.Services = connectServices
	}

	cmd.SilenceUsage = true

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	loop := mainloop.New(0, env.logger)
	con := console.New(cmd.InOrStdin(), loop, env.logger)
	con.Start(ctx)

	shot := &oneShot{
		env: env,
		out: cmd.OutOrStdout(),
		ui:  connectui.NewInteractive(cmd.OutOrStdout(), con, env.logger),
	}
	return shot.run(ctx, loop, func(c *home.Controller) error {
		c.Connect()
		return nil
	})
}
