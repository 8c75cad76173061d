package main

import (
	"github.com/spf13/cobra"
	"github.com/srg/wearlink/internal/home"
	"github.com/srg/wearlink/internal/mainloop"
)

// simulateCmd represents the simulate command
var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Open a simulated wearable session",
	Long: `Creates a session backed by a simulated wearable. No Bluetooth adapter is
needed and the session is never remembered as the most recent device.`,
	Args: cobra.NoArgs,
	RunE: runSimulate,
}

func runSimulate(cmd *cobra.Command, _ []string) error {
	env, err := setup(cmd)
	if err != nil {
		return err
	}

	cmd.SilenceUsage = true

	shot := &oneShot{env: env, out: cmd.OutOrStdout()}
	return shot.run(cmd.Context(), mainloop.New(0, env.logger), func(c *home.Controller) error {
		c.UseSimulated()
		return nil
	})
}
