// buddy is a calm block-building game for young players, played in the
// terminal or over SSH.
//
// Usage:
//
//	buddy play                  - Build in the terminal
//	buddy serve                 - Start SSH server, one save per SSH user
//	buddy status                - Show stars, mission and stickers
//	buddy missions              - List the mission catalog
//	buddy settings [get|set]    - Show or change settings
//	buddy export <file>         - Write a compressed save archive
//	buddy import <file>         - Restore a save archive
//	buddy reset --yes           - Start over from a fresh world
//	buddy backends              - List save backends
//
// Global flags:
//
//	--config <path>   - Engine config YAML
//	--data <dir>      - Save directory (default: ~/.blockbuddy)
//	--backend <name>  - Save backend: file, sqlite or memory
//	--profile <name>  - Player profile
//	--assist <preset> - gentle, standard, independent or custom
package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/block-buddy/internal/config"
	"github.com/vovakirdan/block-buddy/internal/mission"
	"github.com/vovakirdan/block-buddy/internal/registry"
	"github.com/vovakirdan/block-buddy/internal/snapshot"
	"github.com/vovakirdan/block-buddy/internal/storage" // Registers the save backends
)

var (
	// Global flags
	flagConfig  string
	flagDataDir string
	flagBackend string
	flagProfile string
	flagAssist  string
	flagVerbose bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "buddy",
	Short: "Block Buddy - a calm block-building game",
	Long: `Block Buddy is a small sandbox builder: place grass, wood, stone and
flower blocks on a board to finish friendly missions, earn stars and
collect stickers. No chat. No ads. Offline-friendly by default.

Available commands:
  play      - Build in the terminal
  serve     - Start SSH server for remote play
  status    - Show a profile's progress
  missions  - List missions
  settings  - Show or change settings
  export    - Export a save archive
  import    - Import a save archive
  reset     - Start over
  backends  - List save backends

Examples:
  buddy play
  buddy play --profile sam --assist gentle
  buddy settings set daily_challenge_mode true
  buddy export sam.bbz --profile sam
  buddy serve --ssh :2222`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to engine config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data", "", "Save directory (overrides storage.dir)")
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "", "Save backend: file, sqlite or memory")
	rootCmd.PersistentFlags().StringVar(&flagProfile, "profile", "", "Player profile name")
	rootCmd.PersistentFlags().StringVar(&flagAssist, "assist", "", "Assist preset: gentle, standard, independent, custom")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Debug logging")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(missionsCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(backendsCmd)
}

// loadConfig loads the engine config and applies the global flags.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return config.Config{}, err
	}
	if flagDataDir != "" {
		cfg.Storage.Dir = flagDataDir
	}
	if flagBackend != "" {
		cfg.Storage.Backend = flagBackend
	}
	if flagProfile != "" {
		cfg.Storage.Profile = flagProfile
	}
	if flagAssist != "" && !config.ApplyAssistPreset(&cfg, config.AssistPreset(flagAssist)) {
		return config.Config{}, fmt.Errorf("unknown assist preset %q", flagAssist)
	}
	cfg.Storage.Profile = storage.SanitizeProfile(cfg.Storage.Profile)
	if !registry.Exists(cfg.Storage.Backend) {
		return config.Config{}, fmt.Errorf("unknown backend %q (run 'buddy backends')", cfg.Storage.Backend)
	}
	return cfg, cfg.Validate()
}

// newLogger creates the command logger.
func newLogger(w io.Writer) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Prefix:          "buddy",
	})
	if flagVerbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// game is what every profile command needs.
type game struct {
	cfg     config.Config
	catalog mission.Catalog
	backend registry.Backend
	logger  *log.Logger
}

// openGame loads config and catalog and opens the profile's backend.
func openGame(logger *log.Logger) (*game, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	catalog, err := mission.LoadCatalog(cfg.Missions.Catalog)
	if err != nil {
		return nil, err
	}

	g := &game{cfg: cfg, catalog: catalog, logger: logger}
	g.backend, err = registry.Open(cfg.Storage.Backend, registry.Options{
		Dir:      cfg.Storage.Dir,
		Profile:  cfg.Storage.Profile,
		Fallback: g.fresh,
		Logger:   logger,
	})
	if err != nil {
		return nil, err
	}
	logger.Debug("profile opened", "backend", cfg.Storage.Backend, "profile", cfg.Storage.Profile)
	return g, nil
}

// fresh returns the fresh-start snapshot for this config.
func (g *game) fresh() snapshot.WorldSnapshot {
	return snapshot.Default(g.catalog.First(), g.cfg.Grid.Width, g.cfg.Grid.Height, time.Now())
}

func (g *game) Close() {
	if err := g.backend.Close(); err != nil {
		g.logger.Warn("closing backend", "err", err)
	}
}

// mustOpenGame is openGame for commands that cannot continue without it.
func mustOpenGame() *game {
	g, err := openGame(newLogger(os.Stderr))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return g
}
