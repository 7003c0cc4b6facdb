// Package cli provides the command-line interface for tweetwatch.
package cli

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Version and Commit are set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "none"
)

var rootCmd = &cobra.Command{
	Use:   "tweetwatch",
	Short: "Relay new posts from an X account to a Telegram chat",
	Long: "tweetwatch watches one X account for new original posts and forwards " +
		"them to a Telegram chat, tracking a durable cursor so re-runs never " +
		"re-deliver old posts. It is meant to be invoked on a schedule (cron); " +
		"it does no scheduling of its own.",
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("tweetwatch %s (%s)\n", Version, Commit)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func configureLogging(level string) {
	parsed, err := log.ParseLevel(level)
	if err != nil {
		parsed = log.InfoLevel
	}
	log.SetLevel(parsed)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
