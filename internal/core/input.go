package core

// Action is a semantic player action, abstracted from physical key presses.
// The terminal shell maps keys to actions and actions to session intents.
type Action int

const (
	ActionNone        Action = iota
	ActionUp                 // Up arrow, k - move cursor up
	ActionDown               // Down arrow, j - move cursor down
	ActionLeft               // Left arrow, h - move cursor left
	ActionRight              // Right arrow, l - move cursor right
	ActionPlace              // Space, Enter - place or erase at cursor
	ActionSelectGrass        // 1
	ActionSelectWood         // 2
	ActionSelectStone        // 3
	ActionSelectFlower       // 4
	ActionToggleErase        // e
	ActionUndo               // u
	ActionHint               // ?
	ActionNextMission        // n
	ActionDailyMode          // d - toggle daily challenge mode
	ActionDismiss            // c, Escape - close the celebration card
	ActionMissions           // Tab - mission list overlay
	ActionCalmMode           // m - toggle sensory calm mode
	ActionQuit               // q, Ctrl+C
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionPlace:
		return "Place"
	case ActionSelectGrass:
		return "SelectGrass"
	case ActionSelectWood:
		return "SelectWood"
	case ActionSelectStone:
		return "SelectStone"
	case ActionSelectFlower:
		return "SelectFlower"
	case ActionToggleErase:
		return "ToggleErase"
	case ActionUndo:
		return "Undo"
	case ActionHint:
		return "Hint"
	case ActionNextMission:
		return "NextMission"
	case ActionDailyMode:
		return "DailyMode"
	case ActionDismiss:
		return "Dismiss"
	case ActionMissions:
		return "Missions"
	case ActionCalmMode:
		return "CalmMode"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// IsMove reports whether the action moves the cursor.
func (a Action) IsMove() bool {
	return a >= ActionUp && a <= ActionRight
}

// Delta returns the cursor offset for a move action, or (0, 0).
func (a Action) Delta() (dx, dy int) {
	switch a {
	case ActionUp:
		return 0, -1
	case ActionDown:
		return 0, 1
	case ActionLeft:
		return -1, 0
	case ActionRight:
		return 1, 0
	default:
		return 0, 0
	}
}
