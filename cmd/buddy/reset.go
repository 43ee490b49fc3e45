package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var flagResetYes bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Start over from a fresh world",
	Long: `Delete the saved world, stars, completed missions and stickers of a
profile. Settings are kept.

Examples:
  buddy reset --yes
  buddy reset --profile sam --yes`,
	Args: cobra.NoArgs,
	Run:  runReset,
}

func init() {
	resetCmd.Flags().BoolVarP(&flagResetYes, "yes", "y", false, "Confirm the reset")
}

func runReset(_ *cobra.Command, _ []string) {
	g := mustOpenGame()
	defer g.Close()

	if !flagResetYes {
		fmt.Fprintf(os.Stderr, "This deletes all progress of profile %q. Run again with --yes to confirm.\n", g.cfg.Storage.Profile)
		os.Exit(1)
	}
	if err := g.backend.ClearAll(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error resetting: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Profile %q reset. Ready for a fresh build!\n", g.cfg.Storage.Profile)
}
