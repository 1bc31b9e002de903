// Package cli wires the kanjigate commands.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath string
	rootCmd    *cobra.Command
)

func init() {
	rootCmd = &cobra.Command{
		Use:   "kanjigate",
		Short: "Keep your notes locked until today's reviews are done",
		Long: `kanjigate fetches your pending WaniKani reviews and keeps the session open
until you have completed the daily minimum.

Run "kanjigate review" before opening your notes, or run "kanjigate bot" to review in Telegram.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (environment variables take precedence)")
}

// Execute runs the root command
func Execute(version string) error {
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(botCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(skipTodayCmd)
	rootCmd.AddCommand(gateCmd)
	rootCmd.AddCommand(exportCmd)

	rootCmd.Version = version
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}
