package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/block-buddy/internal/core"
	"github.com/vovakirdan/block-buddy/internal/session"
	"github.com/vovakirdan/block-buddy/internal/world"
)

// Screen layout. The board's top-left cell sits below four header lines and
// the board border, one column of padding in.
const (
	boardTop      = 5
	boardLeft     = 2
	progressWidth = 20
)

// Layout maps terminal cells to board positions for mouse hit testing.
type Layout struct {
	Board core.Rect
	CellW int
}

// NewLayout computes the layout of a w x h board. Larger controls double the
// cell width.
func NewLayout(w, h int, larger bool) Layout {
	cellW := 2
	if larger {
		cellW = 4
	}
	return Layout{Board: core.NewRect(boardLeft, boardTop, w*cellW, h), CellW: cellW}
}

// CellAt returns the board position under the terminal cell (x, y).
func (l Layout) CellAt(x, y int) (world.GridPosition, bool) {
	if !l.Board.Contains(x, y) {
		return world.GridPosition{}, false
	}
	return world.Pos((x-l.Board.X)/l.CellW, y-l.Board.Y), true
}

// renderBoard draws the grid with the cursor and the last changed cell marked.
func renderBoard(v session.View, cursor world.GridPosition, theme Theme, cellW int) string {
	var sb strings.Builder
	g := v.World
	for y := 0; y < g.Height(); y++ {
		if y > 0 {
			sb.WriteRune('\n')
		}
		for x := 0; x < g.Width(); x++ {
			p := world.Pos(x, y)
			b := g.BlockAt(p)

			glyph := strings.Repeat("█", cellW)
			if b == world.Empty {
				glyph = "·" + strings.Repeat(" ", cellW-1)
			}
			style := theme.Block(b)
			if v.LastChanged != nil && *v.LastChanged == p {
				style = style.Inherit(theme.LastChanged)
			}
			if p == cursor {
				bg := theme.Cursor
				if v.EraseMode {
					bg = theme.Erase
				}
				style = style.Background(bg.GetBackground())
			}
			sb.WriteString(style.Render(glyph))
		}
	}
	return theme.BoardBorder.Render(sb.String())
}

// renderHUD draws the title, status, progress and hint lines.
func renderHUD(v session.View, theme Theme) string {
	sep := theme.HUDSeparator.Render(" | ")

	title := theme.HUDTitle.Render("BLOCK BUDDY") + sep + theme.HUDValue.Render(v.Mission.Title)
	if v.Settings.DailyChallengeMode {
		title += sep + theme.HUDValue.Render("Daily")
	}

	status := []string{
		theme.HUDValue.Render(fmt.Sprintf("Stars %d", v.Stars)),
		theme.HUDValue.Render(fmt.Sprintf("Stickers %d", len(v.StickerBook))),
	}
	if v.ComboStreak > 1 {
		status = append(status, theme.HUDValue.Render(fmt.Sprintf("Combo x%d", v.ComboStreak)))
	}
	if v.EraseMode {
		status = append(status, theme.Erase.Render(" ERASE "))
	}

	lines := []string{
		title,
		strings.Join(status, sep),
		renderProgress(v, theme),
		theme.HUDHint.Render(v.HintText),
	}
	return strings.Join(lines, "\n")
}

// renderProgress draws the completion bar followed by each goal.
func renderProgress(v session.View, theme Theme) string {
	ratio := core.ClampF(v.Progress.CompletionRatio, 0, 1)
	filled := int(math.Round(ratio * progressWidth))

	bar := theme.ProgressFull.Render(strings.Repeat("█", filled)) +
		theme.ProgressDim.Render(strings.Repeat("░", progressWidth-filled))

	goals := []string{fmt.Sprintf("blocks %d/%d", v.Progress.TotalPlaced, v.Mission.MinTotalBlocks)}
	for _, r := range v.Mission.RequiredByType {
		goals = append(goals, fmt.Sprintf("%s %d/%d", r.Type, v.Progress.Count(r.Type), r.Count))
	}
	return bar + " " + strings.Join(goals, "  ")
}

// renderPalette lists the placeable blocks. With the blueprint on, block
// types that are still needed are starred.
func renderPalette(v session.View, theme Theme) string {
	parts := make([]string, 0, 4)
	for i, b := range world.PlaceableTypes() {
		label := fmt.Sprintf("%d %s", i+1, b)
		if b == v.SelectedBlock && !v.EraseMode {
			label = "[" + label + "]"
		} else {
			label = " " + label + " "
		}
		style := theme.Block(b)
		if v.ShowBlueprint() && v.Progress.Count(b) < v.Mission.Required(b) {
			label += theme.Blueprint.Render("*")
		} else {
			label += " "
		}
		parts = append(parts, style.Render(label))
	}
	return strings.Join(parts, " ")
}

// renderCelebration draws the mission complete card.
func renderCelebration(c session.Celebration, theme Theme) string {
	lines := []string{
		theme.OverlayTitle.Render("Mission complete!"),
		"",
		theme.OverlayText.Render(c.MissionTitle),
	}
	if c.CheerLine != "" {
		lines = append(lines, theme.OverlayText.Render(c.CheerLine))
	}
	lines = append(lines, "")
	if c.StarsEarned > 0 {
		lines = append(lines, theme.OverlayText.Render(fmt.Sprintf("+%d stars", c.StarsEarned)))
	}
	if c.ComboBonus > 0 {
		lines = append(lines, theme.OverlayText.Render(fmt.Sprintf("+%d combo star", c.ComboBonus)))
	}
	if c.StickerUnlocked != "" {
		lines = append(lines, theme.OverlayText.Render("New sticker: "+c.StickerUnlocked))
	}
	lines = append(lines, "", theme.HUDSafety.Render("esc to keep building, n for the next mission"))
	return theme.OverlayBorder.Render(lipgloss.JoinVertical(lipgloss.Center, lines...))
}

// centerText centers text within the given width.
func centerText(text string, width int) string {
	textWidth := lipgloss.Width(text)
	if textWidth >= width {
		return text
	}
	return strings.Repeat(" ", (width-textWidth)/2) + text
}
