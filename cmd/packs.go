package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizling/internal/packs"
)

var packsCmd = &cobra.Command{
	Use:   "packs",
	Short: "Install and manage content packs",
}

func newInstaller(e *env, force bool) *packs.Installer {
	return packs.NewInstaller(e.cfg.GamesDir, version,
		packs.WithLogger(e.logger),
		packs.WithTimeout(2*time.Minute),
		packs.WithForce(force))
}

var packsInstallCmd = &cobra.Command{
	Use:   "install <url-or-file>",
	Short: "Install a content pack (.tar.gz)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sum, _ := cmd.Flags().GetString("sha256")
		force, _ := cmd.Flags().GetBool("force")

		e, err := openEnv(cmd, envOpts{})
		if err != nil {
			return err
		}
		defer e.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
		defer cancel()

		out := cmd.OutOrStdout()
		p, err := newInstaller(e, force).Install(ctx, args[0], sum, func(p packs.Progress) {
			fmt.Fprintln(out, p.Message)
		})
		if errors.Is(err, packs.ErrAlreadyLatest) {
			fmt.Fprintln(out, "Already installed. Use --force to reinstall.")
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%d new games: %v\n", len(p.Games), p.Games)
		return nil
	},
}

var packsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List installed content packs",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, envOpts{})
		if err != nil {
			return err
		}
		defer e.Close()

		installed, err := newInstaller(e, false).List()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(installed) == 0 {
			fmt.Fprintln(out, "No packs installed.")
			return nil
		}
		for _, p := range installed {
			title := p.Title
			if title == "" {
				title = p.Name
			}
			fmt.Fprintf(out, "%-20s  %-10s  %3d games  %s\n", p.Name, p.Version, len(p.Games), title)
		}
		return nil
	},
}

var packsRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove an installed content pack",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, envOpts{})
		if err != nil {
			return err
		}
		defer e.Close()

		if err := newInstaller(e, false).Remove(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s.\n", args[0])
		return nil
	},
}

func init() {
	packsInstallCmd.Flags().String("sha256", "", "Expected SHA-256 of the archive (required)")
	packsInstallCmd.Flags().Bool("force", false, "Reinstall even when the same version is installed")
	_ = packsInstallCmd.MarkFlagRequired("sha256")

	packsCmd.AddCommand(packsInstallCmd)
	packsCmd.AddCommand(packsListCmd)
	packsCmd.AddCommand(packsRemoveCmd)
}
