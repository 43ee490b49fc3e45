package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/block-buddy/internal/daily"
	"github.com/vovakirdan/block-buddy/internal/mission"
	"github.com/vovakirdan/block-buddy/internal/platform/tui"
)

var missionsCmd = &cobra.Command{
	Use:   "missions",
	Short: "List all missions",
	Long:  `Shows the mission catalog in play order. Today's daily build is marked with *.`,
	Args:  cobra.NoArgs,
	Run:   runMissions,
}

func runMissions(_ *cobra.Command, _ []string) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	catalog, err := mission.LoadCatalog(cfg.Missions.Catalog)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cards := catalog.All()
	today, _ := daily.MissionOfDay(cards, time.Now().UnixMilli(), 0)

	// Calculate column widths
	maxIDLen, maxTitleLen := 2, 5 // "ID", "Title" headers
	for _, c := range cards {
		maxIDLen = max(maxIDLen, len(c.ID))
		maxTitleLen = max(maxTitleLen, len(c.Title))
	}

	fmt.Println("Missions:")
	fmt.Println()
	fmt.Printf("   %-*s  %-*s  %-5s  %s\n", maxIDLen, "ID", maxTitleLen, "Title", "Stars", "Goal")
	fmt.Printf("   %-*s  %-*s  %-5s  %s\n", maxIDLen, "--", maxTitleLen, "-----", "-----", "----")
	for _, c := range cards {
		mark := " "
		if c.ID == today.ID {
			mark = "*"
		}
		fmt.Printf(" %s %-*s  %-*s  %-5d  %s\n", mark, maxIDLen, c.ID, maxTitleLen, c.Title, c.RewardStars, tui.GoalSummary(c))
	}

	fmt.Println()
	fmt.Println("Run 'buddy play' and press N for the next mission.")
}
