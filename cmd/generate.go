package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizling/internal/bankgen"
	"github.com/abhisek/quizling/internal/catalog"
	"github.com/abhisek/quizling/internal/config"
	"github.com/abhisek/quizling/internal/llm"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write a new game file with an LLM",
	Long: "Ask the configured LLM provider for a question bank on a topic and save it\n" +
		"as a game file in the games directory. The file is checked like any other\n" +
		"game before it is written.",
	RunE: func(cmd *cobra.Command, args []string) error {
		topic, _ := cmd.Flags().GetString("topic")
		title, _ := cmd.Flags().GetString("title")
		count, _ := cmd.Flags().GetInt("count")
		kind, _ := cmd.Flags().GetString("kind")
		id, _ := cmd.Flags().GetString("id")
		next, _ := cmd.Flags().GetString("next")
		notes, _ := cmd.Flags().GetString("notes")
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		force, _ := cmd.Flags().GetBool("force")

		e, err := openEnv(cmd, envOpts{store: true})
		if err != nil {
			return err
		}
		defer e.Close()

		settings, ok := llm.Discover(llm.FromConfig(e.cfg.LLM))
		if !ok {
			return fmt.Errorf("no LLM provider configured: %w", settings.Validate())
		}
		provider, err := llm.NewProvider(cmd.Context(), settings, e.store.EventRepo(), e.logger)
		if err != nil {
			return err
		}

		gcfg := bankgen.DefaultConfig()
		gcfg.AppVersion = version
		gen := bankgen.New(provider, gcfg, e.logger)

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Asking %s (%s) for %s questions...\n", settings.Provider, provider.ModelID(), topic)

		res, err := gen.Generate(cmd.Context(), bankgen.Request{
			Topic: topic,
			Title: title,
			Count: count,
			Kind:  catalog.Kind(kind),
			ID:    id,
			Next:  next,
			Notes: notes,
		})
		if err != nil {
			return err
		}

		if dryRun {
			_, err := out.Write(res.YAML)
			return err
		}

		path := filepath.Join(e.cfg.GamesDir, res.Game.ID+".yaml")
		if _, err := os.Stat(path); err == nil && !force {
			return fmt.Errorf("%s already exists; use --force to replace it", path)
		} else if err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		if err := config.EnsureDir(path); err != nil {
			return fmt.Errorf("create games dir: %w", err)
		}
		if err := os.WriteFile(path, res.YAML, 0o644); err != nil {
			return fmt.Errorf("write game: %w", err)
		}

		fmt.Fprintf(out, "Wrote %q (%d questions) to %s\n", res.Game.Title, res.Game.Total(), path)
		fmt.Fprintf(out, "Play it with: quizling play %s\n", res.Game.ID)
		return nil
	},
}

func init() {
	generateCmd.Flags().String("topic", "", "Topic of the game, e.g. sustainability (required)")
	generateCmd.Flags().String("title", "", "Game title; the model picks one when empty")
	generateCmd.Flags().IntP("count", "n", bankgen.DefaultQuestions, "Number of questions")
	generateCmd.Flags().String("kind", string(catalog.KindQuiz), "Game kind: quiz, story or reflex")
	generateCmd.Flags().String("id", "", "Game id; derived from topic and title when empty")
	generateCmd.Flags().String("next", "", "Id of the game offered after passing")
	generateCmd.Flags().String("notes", "", "Extra guidance for the model")
	generateCmd.Flags().Bool("dry-run", false, "Print the game instead of saving it")
	generateCmd.Flags().Bool("force", false, "Replace an existing game file")
	_ = generateCmd.MarkFlagRequired("topic")
}
