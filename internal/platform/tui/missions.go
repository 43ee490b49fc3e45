package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/block-buddy/internal/mission"
	"github.com/vovakirdan/block-buddy/internal/session"
)

// MissionList is the mission overview shown over the board.
type MissionList struct {
	catalog mission.Catalog
	table   table.Model
}

// NewMissionList creates the overview for a catalog.
func NewMissionList(catalog mission.Catalog, height int) MissionList {
	columns := []table.Column{
		{Title: "", Width: 2},
		{Title: "Mission", Width: 22},
		{Title: "Goal", Width: 34},
		{Title: "Stars", Width: 6},
		{Title: "Sticker", Width: 22},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return MissionList{catalog: catalog, table: t}
}

// SetView refreshes completion marks from the latest view.
func (l *MissionList) SetView(v session.View) {
	cards := l.catalog.All()
	rows := make([]table.Row, len(cards))
	for i, c := range cards {
		mark := " "
		switch {
		case c.ID == v.Mission.ID:
			mark = ">"
		case slices.Contains(v.CompletedMissionIDs, c.ID):
			mark = "+"
		}
		sticker := c.StickerReward
		if sticker != "" && !slices.Contains(v.StickerBook, sticker) {
			sticker = "?"
		}
		rows[i] = table.Row{mark, c.Title, GoalSummary(c), fmt.Sprintf("%d", c.RewardStars), sticker}
	}
	l.table.SetRows(rows)
}

// Update scrolls the list.
func (l MissionList) Update(msg tea.Msg) (MissionList, tea.Cmd) {
	var cmd tea.Cmd
	l.table, cmd = l.table.Update(msg)
	return l, cmd
}

// View renders the list with today's daily mission named above it.
func (l MissionList) View(theme Theme, todays string) string {
	var b strings.Builder
	b.WriteString(theme.MenuTitle.Render("MISSIONS"))
	if todays != "" {
		b.WriteString(theme.HUDSeparator.Render(" | "))
		b.WriteString(theme.MenuActive.Render("Today: " + todays))
	}
	b.WriteString("\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	b.WriteString(tableStyle.Render(l.table.View()))
	return b.String()
}

// GoalSummary describes a mission goal in one line, e.g.
// "8 blocks: grass 4, flower 2".
func GoalSummary(c mission.Card) string {
	parts := make([]string, 0, len(c.RequiredByType))
	for _, r := range c.RequiredByType {
		parts = append(parts, fmt.Sprintf("%s %d", r.Type, r.Count))
	}
	goal := fmt.Sprintf("%d blocks", c.MinTotalBlocks)
	if len(parts) > 0 {
		goal += ": " + strings.Join(parts, ", ")
	}
	return goal
}
