package session

import (
	"github.com/vovakirdan/block-buddy/internal/settings"
	"github.com/vovakirdan/block-buddy/internal/world"
)

// Intent is a player action or environment change handled by Session.Handle.
// The set is closed: only the types in this file implement it.
type Intent interface {
	intent()
}

// SelectBlock picks the block type used by PlaceAt and leaves erase mode.
type SelectBlock struct {
	Type world.BlockType
}

// ToggleErase switches PlaceAt between placing and removing.
type ToggleErase struct{}

// PlaceAt places the selected block, or removes one in erase mode.
type PlaceAt struct {
	Pos world.GridPosition
}

// Undo restores the board before the last successful change.
type Undo struct{}

// RequestHint asks for guidance on the active mission.
type RequestHint struct{}

// NextMission moves on to the next mission with a fresh board.
type NextMission struct{}

// LoadDailyPrompt activates the mission of the day with a fresh board.
type LoadDailyPrompt struct{}

// DismissCelebration closes the mission-complete card.
type DismissCelebration struct{}

// ConsumeFeedback acknowledges a feedback event once the shell has played it.
type ConsumeFeedback struct {
	ID int64
}

// ResetProgress erases all saved progress and starts over.
type ResetProgress struct{}

// SettingsChanged delivers a new settings value.
type SettingsChanged struct {
	Settings settings.Settings
}

func (SelectBlock) intent()        {}
func (ToggleErase) intent()        {}
func (PlaceAt) intent()            {}
func (Undo) intent()               {}
func (RequestHint) intent()        {}
func (NextMission) intent()        {}
func (LoadDailyPrompt) intent()    {}
func (DismissCelebration) intent() {}
func (ConsumeFeedback) intent()    {}
func (ResetProgress) intent()      {}
func (SettingsChanged) intent()    {}
