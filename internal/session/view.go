package session

import (
	"fmt"

	"github.com/vovakirdan/block-buddy/internal/difficulty"
	"github.com/vovakirdan/block-buddy/internal/mission"
	"github.com/vovakirdan/block-buddy/internal/settings"
	"github.com/vovakirdan/block-buddy/internal/world"
)

// Player-facing texts.
const (
	HintStart         = "Tap blocks to start building!"
	HintFailed        = "Try tapping inside the build board."
	HintIdleNudge     = "Need help? Tap Hint for a friendly guide."
	HintBlueprint     = " Blueprint assist is ON: place required block colors first."
	HintReset         = "Progress reset. Ready for a fresh build!"
	SafetyMessage     = "No chat. No ads. Offline-friendly by default."
	comboHintFormat   = "Combo x%d! Bonus star earned."
	dailyHintFormat   = "Daily build: %s. %s"
	missionHintFormat = "New mission unlocked: %s"
)

func comboHint(streak int) string {
	return fmt.Sprintf(comboHintFormat, streak)
}

// Phase is the session lifecycle state.
type Phase int

const (
	PhaseLoading Phase = iota
	PhaseReady
)

func (p Phase) String() string {
	if p == PhaseReady {
		return "ready"
	}
	return "loading"
}

// FeedbackKind tells the shell which cue to play.
type FeedbackKind int

const (
	FeedbackPlaceSuccess FeedbackKind = iota
	FeedbackPlaceError
	FeedbackCombo
	FeedbackMissionComplete
)

func (k FeedbackKind) String() string {
	switch k {
	case FeedbackPlaceSuccess:
		return "place_success"
	case FeedbackPlaceError:
		return "place_error"
	case FeedbackCombo:
		return "combo"
	case FeedbackMissionComplete:
		return "mission_complete"
	default:
		return "unknown"
	}
}

// Feedback is a one-shot cue. IDs increase per session.
type Feedback struct {
	ID   int64
	Kind FeedbackKind
}

// Celebration is shown when a mission completes.
type Celebration struct {
	MissionTitle    string
	StarsEarned     int
	ComboBonus      int
	StickerUnlocked string // Empty when the sticker was already owned
	CheerLine       string
}

// View is the published, read-only session state. A View is never modified
// after it has been published; every change produces a new one.
type View struct {
	Phase               Phase
	World               world.WorldGrid
	SelectedBlock       world.BlockType
	EraseMode           bool
	Stars               int
	Mission             mission.Card
	Progress            mission.Progress
	HintText            string
	SafetyMessage       string
	Settings            settings.Settings
	Recommendation      difficulty.Recommendation
	ComboStreak         int
	StickerBook         []string
	CompletedMissionIDs []string
	LastChanged         *world.GridPosition
	Celebration         *Celebration
	Feedback            *Feedback
	TodaysMissionTitle  string
}

// ShowBlueprint reports whether the shell should highlight required block
// colors: assist was recommended and the player allows it.
func (v View) ShowBlueprint() bool {
	return v.Recommendation.HighlightBlueprint && v.Settings.BlueprintAssist
}
