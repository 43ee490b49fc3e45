package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/block-buddy/internal/daily"
	"github.com/vovakirdan/block-buddy/internal/mission"
	"github.com/vovakirdan/block-buddy/internal/storage"
)

var flagAllProfiles bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show a profile's progress",
	Long: `Show stars, the active mission, completed missions and stickers.

With --all, lists every profile stored in the SQLite database.

Examples:
  buddy status
  buddy status --profile sam
  buddy status --all`,
	Args: cobra.NoArgs,
	Run:  runStatus,
}

func init() {
	statusCmd.Flags().BoolVar(&flagAllProfiles, "all", false, "List every profile in the SQLite database")
}

func runStatus(_ *cobra.Command, _ []string) {
	if flagAllProfiles {
		listProfiles()
		return
	}

	g := mustOpenGame()
	defer g.Close()

	snap, err := g.backend.Load(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading world: %v\n", err)
		os.Exit(1)
	}

	m := snap.ActiveMission
	p := mission.Evaluate(snap.World, m)

	fmt.Printf("Profile - %s (%s)\n", g.cfg.Storage.Profile, g.cfg.Storage.Backend)
	fmt.Println()
	fmt.Printf("  %-10s %d\n", "Stars", snap.Stars)
	fmt.Printf("  %-10s %s (%d%%)\n", "Mission", m.Title, int(p.CompletionRatio*100))
	fmt.Printf("  %-10s %s\n", "Next step", mission.NextHint(p, m))
	fmt.Printf("  %-10s %d of %d\n", "Completed", len(snap.CompletedMissionIDs), g.catalog.Len())
	stickers := "none yet"
	if len(snap.StickerBook) > 0 {
		stickers = strings.Join(snap.StickerBook, ", ")
	}
	fmt.Printf("  %-10s %s\n", "Stickers", stickers)
	fmt.Printf("  %-10s %s\n", "Last save", humanize.Time(snap.UpdatedAt()))

	if today, err := daily.MissionOfDay(g.catalog.All(), time.Now().UnixMilli(), 0); err == nil {
		fmt.Println()
		fmt.Printf("Today's daily build: %s\n", today.Title)
	}
}

// listProfiles prints every profile in the SQLite database.
func listProfiles() {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	store, err := storage.Open(filepath.Join(cfg.Storage.Dir, storage.DatabaseFile))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening save database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	profiles, err := store.Profiles(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing profiles: %v\n", err)
		os.Exit(1)
	}
	if len(profiles) == 0 {
		fmt.Println("No profiles saved yet.")
		return
	}

	fmt.Printf("  %-20s  %-8s  %s\n", "Profile", "Stars", "Last save")
	fmt.Printf("  %-20s  %-8s  %s\n", "-------", "-----", "---------")
	for _, p := range profiles {
		fmt.Printf("  %-20s  %-8s  %s\n", p.Profile, humanize.Comma(int64(p.Stars)), humanize.Time(p.UpdatedAt))
	}
}
