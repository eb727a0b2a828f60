package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizling/internal/rewards"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show coins, XP, badges and game progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, envOpts{store: true, catalog: true})
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		out := cmd.OutOrStdout()
		eventRepo := e.store.EventRepo()

		w, err := rewards.NewService(eventRepo, e.logger).Wallet(ctx)
		if err != nil {
			return err
		}
		best, err := eventRepo.BestResults(ctx)
		if err != nil {
			return fmt.Errorf("query results: %w", err)
		}

		fmt.Fprintf(out, "Coins:   %d\n", w.Coins)
		fmt.Fprintf(out, "XP:      %d\n", w.XP)
		var badges []string
		for _, k := range rewards.BadgeKinds() {
			badges = append(badges, fmt.Sprintf("%s %s %d", k.Icon(), k.DisplayName(), w.Badges[k]))
		}
		fmt.Fprintf(out, "Badges:  %s\n", strings.Join(badges, "   "))

		var passed int
		for _, r := range best {
			if r.Passed {
				passed++
			}
		}
		fmt.Fprintf(out, "Games:   %d played, %d passed, %d in catalog\n", len(best), passed, e.catalog.Len())

		if len(best) == 0 {
			return nil
		}

		ids := make([]string, 0, len(best))
		for id := range best {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		fmt.Fprintln(out)
		fmt.Fprintf(out, "%-32s  %6s  %5s  %s\n", "Game", "Best", "Plays", "Passed")
		fmt.Fprintln(out, strings.Repeat("─", 56))
		for _, id := range ids {
			r := best[id]
			title := id
			if g, ok := e.catalog.Lookup(id); ok {
				title = g.Title
			}
			mark := "✗"
			if r.Passed {
				mark = "✓"
			}
			fmt.Fprintf(out, "%-32s  %6d  %5d  %s\n", truncate(title, 32), r.BestScore, r.Plays, mark)
		}
		return nil
	},
}
