package cmd

import (
	"github.com/spf13/cobra"
)

var playCmd = &cobra.Command{
	Use:   "play [game-id]",
	Short: "Play a game, or open the arcade",
	Long:  "Play the game with the given id directly. Without an id the arcade opens on the home screen.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var id string
		if len(args) == 1 {
			id = args[0]
		}
		return runApp(cmd, id)
	},
}
