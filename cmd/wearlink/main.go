package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"unicode"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// formatVersion adds 'v' prefix if version starts with a digit
func formatVersion(ver string) string {
	if len(ver) > 0 && unicode.IsDigit(rune(ver[0])) {
		return "v" + ver
	}
	return ver
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "wearlink",
	Short: "Wearable connectivity home screen",
	Long: `Command-line home screen for a BLE motion-sensing wearable:

- Silently reconnect to the most recently connected wearable
- Search for nearby wearables and connect interactively
- Work offline against a simulated wearable
- Log audio route changes caused by Bluetooth audio devices

Run 'wearlink home' for the interactive home screen.`,
	Version: formatVersion(version),
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Ctrl+C is a normal exit, not an error - exit silently
		if errors.Is(err, context.Canceled) {
			return
		}
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", FormatUserError(err))
		os.Exit(1)
	}
}

func init() {
	// main() prints clean errors
	rootCmd.SilenceErrors = true
	rootCmd.SetVersionTemplate(fmt.Sprintf("wearlink {{.Version}} (commit %s, built %s)\n", commit, date))

	rootCmd.AddCommand(homeCmd)
	rootCmd.AddCommand(connectCmd)
	rootCmd.AddCommand(reconnectCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(forgetCmd)
	rootCmd.AddCommand(routesCmd)

	// Global flags
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("config", "", "Config file (default "+defaultConfigHint+")")
	rootCmd.PersistentFlags().String("store", "", "Last device store file (overrides store.path)")

	// Add -v as a short flag for --version
	rootCmd.Flags().BoolP("version", "v", false, "Show version information")
}
