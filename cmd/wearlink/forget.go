package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// forgetCmd represents the forget command
var forgetCmd = &cobra.Command{
	Use:   "forget",
	Short: "Forget the most recent wearable",
	Long:  `Clears the last-device store so that no silent reconnect is attempted.`,
	Args:  cobra.NoArgs,
	RunE:  runForget,
}

func runForget(cmd *cobra.Command, _ []string) error {
	env, err := setup(cmd)
	if err != nil {
		return err
	}

	cmd.SilenceUsage = true

	dev, ok, err := env.store.MostRecent()
	if err != nil {
		env.logger.WithError(err).Warn("Unreadable last device store, clearing it")
	}
	if err := env.store.Forget(); err != nil {
		return fmt.Errorf("failed to forget most recent device: %w", err)
	}

	if ok {
		fmt.Fprintf(cmd.OutOrStdout(), "Forgot %s\n", dev)
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), "No recent connected device")
	}
	return nil
}
