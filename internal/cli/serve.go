package cli

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"tweetwatch/internal/config"
	"tweetwatch/internal/todo"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the task-list web application",
	RunE:  serveAction,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serveAction(_ *cobra.Command, _ []string) error {
	cfg, err := config.LoadServe()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	configureLogging(cfg.Log.Level)

	store, err := todo.Open(cfg.Server.DBPath)
	if err != nil {
		return fmt.Errorf("open todo store: %w", err)
	}
	defer func() { _ = store.Close() }()

	router := todo.NewRouter(store)

	log.WithFields(log.Fields{"port": cfg.Server.Port}).Info("Starting todo server")
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}
