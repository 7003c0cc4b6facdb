package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"tweetwatch/internal/config"
	"tweetwatch/internal/cursor"
	"tweetwatch/internal/telegram"
	"tweetwatch/internal/twitter"
	"tweetwatch/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run the monitor once: fetch new posts and forward them",
	RunE:  watchAction,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func watchAction(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadWatch()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	configureLogging(cfg.Log.Level)

	source, err := twitter.NewClient(cfg.Twitter.BearerToken)
	if err != nil {
		return fmt.Errorf("create twitter client: %w", err)
	}

	notifier, err := telegram.NewNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
	if err != nil {
		return fmt.Errorf("create telegram notifier: %w", err)
	}

	cursors, err := cursor.NewFileStore(cfg.State.Path)
	if err != nil {
		return fmt.Errorf("create cursor store: %w", err)
	}

	runner := &watch.Runner{
		Handle:   cfg.Twitter.Username,
		Source:   source,
		Notifier: notifier,
		Cursors:  cursors,
	}
	return runner.Run(cmd.Context())
}
