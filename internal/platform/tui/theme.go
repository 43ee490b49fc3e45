package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/block-buddy/internal/settings"
	"github.com/vovakirdan/block-buddy/internal/world"
)

// Theme contains all visual styles for the build screen.
type Theme struct {
	// Block colors
	Grass  lipgloss.Style
	Wood   lipgloss.Style
	Stone  lipgloss.Style
	Flower lipgloss.Style
	Empty  lipgloss.Style

	// Board decorations
	Cursor      lipgloss.Style
	Erase       lipgloss.Style
	LastChanged lipgloss.Style
	Blueprint   lipgloss.Style
	BoardBorder lipgloss.Style

	// HUD styles
	HUDTitle     lipgloss.Style
	HUDValue     lipgloss.Style
	HUDSeparator lipgloss.Style
	HUDHint      lipgloss.Style
	HUDSafety    lipgloss.Style
	ProgressFull lipgloss.Style
	ProgressDim  lipgloss.Style

	// Overlay styles
	OverlayBorder lipgloss.Style
	OverlayTitle  lipgloss.Style
	OverlayText   lipgloss.Style

	// Mission list styles
	MenuTitle  lipgloss.Style
	MenuActive lipgloss.Style
	MenuDone   lipgloss.Style
}

// DefaultTheme returns the bright default theme.
func DefaultTheme() Theme {
	return Theme{
		Grass:  lipgloss.NewStyle().Foreground(lipgloss.Color("46")),  // Lime green
		Wood:   lipgloss.NewStyle().Foreground(lipgloss.Color("130")), // Brown
		Stone:  lipgloss.NewStyle().Foreground(lipgloss.Color("250")), // Light gray
		Flower: lipgloss.NewStyle().Foreground(lipgloss.Color("205")), // Hot pink
		Empty:  lipgloss.NewStyle().Foreground(lipgloss.Color("238")), // Dark gray

		Cursor:      lipgloss.NewStyle().Background(lipgloss.Color("57")),
		Erase:       lipgloss.NewStyle().Background(lipgloss.Color("88")),
		LastChanged: lipgloss.NewStyle().Bold(true).Underline(true),
		Blueprint:   lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		BoardBorder: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1),

		HUDTitle:     lipgloss.NewStyle().Foreground(lipgloss.Color("51")).Bold(true),
		HUDValue:     lipgloss.NewStyle().Foreground(lipgloss.Color("255")),
		HUDSeparator: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		HUDHint:      lipgloss.NewStyle().Foreground(lipgloss.Color("229")),
		HUDSafety:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true),
		ProgressFull: lipgloss.NewStyle().Foreground(lipgloss.Color("46")),
		ProgressDim:  lipgloss.NewStyle().Foreground(lipgloss.Color("238")),

		OverlayBorder: lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("226")).
			Padding(1, 3),
		OverlayTitle: lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		OverlayText:  lipgloss.NewStyle().Foreground(lipgloss.Color("255")),

		MenuTitle:  lipgloss.NewStyle().Foreground(lipgloss.Color("51")).Bold(true),
		MenuActive: lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		MenuDone:   lipgloss.NewStyle().Foreground(lipgloss.Color("46")),
	}
}

// CalmTheme returns a softer theme with muted colors and no bold accents.
func CalmTheme() Theme {
	theme := DefaultTheme()
	theme.Grass = lipgloss.NewStyle().Foreground(lipgloss.Color("108"))  // Sage
	theme.Wood = lipgloss.NewStyle().Foreground(lipgloss.Color("137"))   // Tan
	theme.Stone = lipgloss.NewStyle().Foreground(lipgloss.Color("247"))  // Gray
	theme.Flower = lipgloss.NewStyle().Foreground(lipgloss.Color("182")) // Pastel pink
	theme.Cursor = lipgloss.NewStyle().Background(lipgloss.Color("60"))
	theme.Erase = lipgloss.NewStyle().Background(lipgloss.Color("95"))
	theme.LastChanged = lipgloss.NewStyle().Underline(true)
	theme.Blueprint = lipgloss.NewStyle().Foreground(lipgloss.Color("187"))
	theme.HUDTitle = lipgloss.NewStyle().Foreground(lipgloss.Color("110"))
	theme.OverlayBorder = theme.OverlayBorder.Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("187"))
	theme.OverlayTitle = lipgloss.NewStyle().Foreground(lipgloss.Color("187"))
	return theme
}

// ThemeFor picks the theme matching the player's settings.
func ThemeFor(s settings.Settings) Theme {
	if s.SensoryCalmMode {
		return CalmTheme()
	}
	return DefaultTheme()
}

// Block returns the style for a block type.
func (t Theme) Block(b world.BlockType) lipgloss.Style {
	switch b {
	case world.Grass:
		return t.Grass
	case world.Wood:
		return t.Wood
	case world.Stone:
		return t.Stone
	case world.Flower:
		return t.Flower
	default:
		return t.Empty
	}
}
