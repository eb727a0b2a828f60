package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizling/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent plays",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		gameID, _ := cmd.Flags().GetString("game")

		e, err := openEnv(cmd, envOpts{store: true, catalog: true})
		if err != nil {
			return err
		}
		defer e.Close()

		out := cmd.OutOrStdout()
		sessions, err := e.store.EventRepo().QuerySessionSummaries(cmd.Context(), store.QueryOpts{Limit: limit, GameID: gameID})
		if err != nil {
			return fmt.Errorf("query history: %w", err)
		}
		if len(sessions) == 0 {
			fmt.Fprintln(out, "No games played yet.")
			return nil
		}

		fmt.Fprintf(out, "%-16s  %-30s  %5s  %5s  %4s  %5s  %6s  %s\n",
			"When", "Game", "Score", "Acc", "XP", "Coins", "Time", "Passed")
		fmt.Fprintln(out, strings.Repeat("─", 92))
		for _, s := range sessions {
			title := s.GameID
			if g, ok := e.catalog.Lookup(s.GameID); ok {
				title = g.Title
			}
			mark := "✗"
			if s.Passed {
				mark = "✓"
			}
			fmt.Fprintf(out, "%-16s  %-30s  %2d/%-2d  %4d%%  %4d  %5d  %3d:%02d  %s\n",
				s.Timestamp.Local().Format("2006-01-02 15:04"),
				truncate(title, 30),
				s.Score, s.Total, s.Accuracy, s.XP, s.Coins,
				s.DurationSecs/60, s.DurationSecs%60,
				mark)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of plays to show")
	historyCmd.Flags().StringP("game", "g", "", "Only show plays of this game")
}
