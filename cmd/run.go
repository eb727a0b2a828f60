package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/quizling/internal/app"
	"github.com/abhisek/quizling/internal/feedback"
	"github.com/abhisek/quizling/internal/rewards"
)

// runApp opens the store and catalog and launches the TUI, optionally
// straight into one game.
func runApp(cmd *cobra.Command, gameID string) error {
	e, err := openEnv(cmd, envOpts{store: true, catalog: true})
	if err != nil {
		return err
	}
	defer e.Close()

	eventRepo := e.store.EventRepo()
	return app.Run(app.Options{
		Catalog:      e.catalog,
		EventRepo:    eventRepo,
		SnapshotRepo: e.store.SnapshotRepo(),
		Rewards:      rewards.NewService(eventRepo, e.logger),
		Feedback: feedback.Config{
			FlashFor:    e.cfg.Feedback.FlashFor,
			ConfettiFor: e.cfg.Feedback.ConfettiFor,
		},
		Logger:    e.logger,
		StartGame: gameID,
	})
}
