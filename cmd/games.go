package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizling/internal/catalog"
)

var gamesCmd = &cobra.Command{
	Use:   "games",
	Short: "List, inspect and check game files",
}

var gamesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every game in the catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, envOpts{catalog: true})
		if err != nil {
			return err
		}
		defer e.Close()

		topic, _ := cmd.Flags().GetString("topic")
		games := e.catalog.All()
		if topic != "" {
			games = e.catalog.ByTopic(topic)
		}
		if len(games) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No games found.")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tKIND\tTOPIC\tQS\tTITLE")
		for _, g := range games {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", g.ID, g.PlayKind(), g.Topic, g.Total(), g.Title)
		}
		return w.Flush()
	},
}

var gamesShowCmd = &cobra.Command{
	Use:   "show <game-id>",
	Short: "Show a game's settings and questions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, envOpts{catalog: true})
		if err != nil {
			return err
		}
		defer e.Close()

		g, ok := e.catalog.Lookup(args[0])
		if !ok {
			return fmt.Errorf("unknown game %q", args[0])
		}
		printGame(cmd.OutOrStdout(), g, catalog.ResolveRewards(g, catalog.Rewards{}, e.logger))
		return nil
	},
}

func printGame(out io.Writer, g *catalog.Game, r catalog.Rewards) {
	fmt.Fprintf(out, "%s  (%s)\n", g.Title, g.ID)
	if g.Subtitle != "" {
		fmt.Fprintln(out, g.Subtitle)
	}
	fmt.Fprintln(out, strings.Repeat("─", 60))
	fmt.Fprintf(out, "Topic:     %s\n", catalog.TopicTitle(g.Topic))
	fmt.Fprintf(out, "Kind:      %s\n", g.PlayKind().DisplayName())
	if g.Pass.MinScore > 0 {
		fmt.Fprintf(out, "Pass:      score >= %d\n", g.Pass.MinScore)
	} else {
		acc := g.Pass.MinAccuracy
		if acc == 0 {
			acc = catalog.DefaultMinAccuracy
		}
		fmt.Fprintf(out, "Pass:      accuracy >= %d%%\n", acc)
	}
	fmt.Fprintf(out, "Rewards:   %d coins per correct, %d XP when passed\n", g.CoinsPerCorrect(r), r.TotalXP)
	fmt.Fprintf(out, "Delays:    %s correct, %s incorrect\n", g.CorrectDelay(), g.IncorrectDelay())
	if g.Timed() {
		fmt.Fprintf(out, "Countdown: %s per question\n", g.TimeLimit)
	}
	if g.Next != "" {
		fmt.Fprintf(out, "Next:      %s\n", g.Next)
	}
	fmt.Fprintf(out, "Source:    %s\n", g.Source)

	for i, q := range g.Questions {
		fmt.Fprintf(out, "\n%d. %s\n", i+1, q.Text)
		for j, o := range q.Options {
			mark := " "
			if o.Correct {
				mark = "✓"
			}
			fmt.Fprintf(out, "   %s %d) %s\n", mark, j+1, o.Text)
		}
	}
}

var gamesValidateCmd = &cobra.Command{
	Use:   "validate [file...]",
	Short: "Check game files against the game schema",
	Long: "Check the given game files. Without arguments, every built-in game and\n" +
		"every file under the games directory is checked, including next links.",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		if len(args) > 0 {
			var failed int
			for _, p := range args {
				if err := validateFile(p); err != nil {
					failed++
					fmt.Fprintf(out, "✗ %v\n", err)
					continue
				}
				fmt.Fprintf(out, "✓ %s\n", p)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files failed validation", failed, len(args))
			}
			return nil
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		c := catalog.New(nil)
		var errs []error
		if err := c.LoadFS(catalog.Builtin(), "builtin", version); err != nil {
			errs = append(errs, err)
		}
		if _, statErr := os.Stat(cfg.GamesDir); statErr == nil {
			if err := c.LoadFS(os.DirFS(cfg.GamesDir), cfg.GamesDir, version); err != nil {
				errs = append(errs, err)
			}
		}
		errs = append(errs, c.CheckLinks()...)

		if err := errors.Join(errs...); err != nil {
			fmt.Fprintln(out, err)
			return fmt.Errorf("game files have problems")
		}
		fmt.Fprintf(out, "All %d games are valid.\n", c.Len())
		return nil
	},
}

func validateFile(p string) error {
	data, err := os.ReadFile(p)
	if err != nil {
		return err
	}
	_, err = catalog.Parse(data, p, version)
	return err
}

func init() {
	gamesListCmd.Flags().StringP("topic", "t", "", "Only list games of this topic")

	gamesCmd.AddCommand(gamesListCmd)
	gamesCmd.AddCommand(gamesShowCmd)
	gamesCmd.AddCommand(gamesValidateCmd)
}
