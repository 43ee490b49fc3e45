package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/block-buddy/internal/settings"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change settings",
	Long: `Show every setting of a profile, or read and write one by key.

Keys:
  larger_controls        true/false
  camera_sensitivity     1-10
  blueprint_assist       true/false
  daily_challenge_mode   true/false
  feedback_cues_enabled  true/false
  sensory_calm_mode      true/false

Examples:
  buddy settings
  buddy settings get blueprint_assist
  buddy settings set sensory_calm_mode true`,
	Args: cobra.NoArgs,
	Run:  runSettingsList,
}

var settingsGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print one setting",
	Args:  cobra.ExactArgs(1),
	Run:   runSettingsGet,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one setting",
	Args:  cobra.ExactArgs(2),
	Run:   runSettingsSet,
}

func init() {
	settingsCmd.AddCommand(settingsGetCmd)
	settingsCmd.AddCommand(settingsSetCmd)
}

func runSettingsList(_ *cobra.Command, _ []string) {
	g := mustOpenGame()
	defer g.Close()

	hub := settings.NewHub(context.Background(), g.backend, g.logger)
	defer hub.Close()
	printSettings(hub.Current())
}

func runSettingsGet(_ *cobra.Command, args []string) {
	g := mustOpenGame()
	defer g.Close()

	hub := settings.NewHub(context.Background(), g.backend, g.logger)
	defer hub.Close()
	value, err := hub.Current().Get(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(value)
}

func runSettingsSet(_ *cobra.Command, args []string) {
	g := mustOpenGame()
	defer g.Close()

	hub := settings.NewHub(context.Background(), g.backend, g.logger)
	defer hub.Close()
	next, err := hub.Set(context.Background(), args[0], args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	value, _ := next.Get(args[0])
	fmt.Printf("%s = %s\n", args[0], value)
}

func printSettings(s settings.Settings) {
	for _, key := range settings.Keys() {
		value, _ := s.Get(key)
		fmt.Printf("  %-22s %s\n", key, value)
	}
}
