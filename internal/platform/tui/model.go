package tui

import (
	"context"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/block-buddy/internal/core"
	"github.com/vovakirdan/block-buddy/internal/mission"
	"github.com/vovakirdan/block-buddy/internal/session"
	"github.com/vovakirdan/block-buddy/internal/settings"
	"github.com/vovakirdan/block-buddy/internal/world"
)

// SettingsUpdater changes settings from the shell. *settings.Hub implements it.
type SettingsUpdater interface {
	Current() settings.Settings
	Set(ctx context.Context, key, value string) (settings.Settings, error)
}

// Model is the Bubble Tea model for the build screen.
type Model struct {
	ctx      context.Context
	session  *session.Session
	settings SettingsUpdater
	logger   *log.Logger
	done     <-chan struct{}

	keys     KeyMap
	help     help.Model
	missions MissionList

	view         session.View
	cursor       world.GridPosition
	lastFeedback int64
	showMissions bool
	width        int
	height       int
	quitting     bool
}

// NewModel creates the build screen for a started session. done must close
// when the program ends so the view listener can stop.
func NewModel(ctx context.Context, s *session.Session, set SettingsUpdater, catalog mission.Catalog, done <-chan struct{}, logger *log.Logger) Model {
	if logger == nil {
		logger = log.Default()
	}
	h := help.New()
	h.ShowAll = false

	v := s.View()
	m := Model{
		ctx:      ctx,
		session:  s,
		settings: set,
		logger:   logger,
		done:     done,
		keys:     DefaultKeyMap(),
		help:     h,
		missions: NewMissionList(catalog, 12),
		view:     v,
	}
	m.missions.SetView(v)
	return m
}

// Init starts listening for session views.
func (m Model) Init() tea.Cmd {
	return waitForView(m.session, m.done)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case viewMsg:
		return m.handleView(session.View(msg))

	case feedbackDoneMsg:
		m.session.Handle(session.ConsumeFeedback{ID: msg.id})
		return m, nil

	case sessionClosedMsg:
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

func (m Model) handleView(v session.View) (tea.Model, tea.Cmd) {
	m.view = v
	m.missions.SetView(v)
	m.cursor = world.Pos(
		core.Clamp(m.cursor.X, 0, v.World.Width()-1),
		core.Clamp(m.cursor.Y, 0, v.World.Height()-1),
	)

	cmds := []tea.Cmd{waitForView(m.session, m.done)}
	if v.Feedback != nil && v.Feedback.ID != m.lastFeedback {
		m.lastFeedback = v.Feedback.ID
		cmds = append(cmds, feedbackCmd(v.Feedback.ID))
	}
	return m, tea.Batch(cmds...)
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action := m.keys.MapKey(msg)
	if action == core.ActionQuit {
		m.quitting = true
		return m, tea.Quit
	}

	if m.showMissions {
		switch action {
		case core.ActionMissions, core.ActionDismiss:
			m.showMissions = false
			return m, nil
		}
		var cmd tea.Cmd
		m.missions, cmd = m.missions.Update(msg)
		return m, cmd
	}

	return m.apply(action)
}

// apply turns an action into a session intent.
func (m Model) apply(action core.Action) (tea.Model, tea.Cmd) {
	if m.view.Phase != session.PhaseReady {
		return m, nil
	}

	if action.IsMove() {
		dx, dy := action.Delta()
		next := m.cursor.Add(dx, dy)
		m.cursor = world.Pos(
			core.Clamp(next.X, 0, m.view.World.Width()-1),
			core.Clamp(next.Y, 0, m.view.World.Height()-1),
		)
		return m, nil
	}

	switch action {
	case core.ActionPlace:
		m.session.Handle(session.PlaceAt{Pos: m.cursor})
	case core.ActionSelectGrass:
		m.session.Handle(session.SelectBlock{Type: world.Grass})
	case core.ActionSelectWood:
		m.session.Handle(session.SelectBlock{Type: world.Wood})
	case core.ActionSelectStone:
		m.session.Handle(session.SelectBlock{Type: world.Stone})
	case core.ActionSelectFlower:
		m.session.Handle(session.SelectBlock{Type: world.Flower})
	case core.ActionToggleErase:
		m.session.Handle(session.ToggleErase{})
	case core.ActionUndo:
		m.session.Handle(session.Undo{})
	case core.ActionHint:
		m.session.Handle(session.RequestHint{})
	case core.ActionNextMission:
		m.session.Handle(session.NextMission{})
	case core.ActionDismiss:
		m.session.Handle(session.DismissCelebration{})
	case core.ActionDailyMode:
		m.toggle(settings.KeyDailyChallengeMode, !m.settings.Current().DailyChallengeMode)
	case core.ActionCalmMode:
		m.toggle(settings.KeySensoryCalmMode, !m.settings.Current().SensoryCalmMode)
	case core.ActionMissions:
		m.showMissions = true
	}
	return m, nil
}

// toggle writes a boolean setting. The session picks up the change from
// the settings hub.
func (m Model) toggle(key string, value bool) {
	if _, err := m.settings.Set(m.ctx, key, strconv.FormatBool(value)); err != nil {
		m.logger.Warn("setting not saved", "key", key, "err", err)
	}
}

// handleMouse places at the clicked cell.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.showMissions || m.view.Phase != session.PhaseReady {
		return m, nil
	}
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}
	layout := NewLayout(m.view.World.Width(), m.view.World.Height(), m.view.Settings.LargerControls)
	if pos, ok := layout.CellAt(msg.X, msg.Y); ok {
		m.cursor = pos
		m.session.Handle(session.PlaceAt{Pos: pos})
	}
	return m, nil
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	theme := ThemeFor(m.view.Settings)
	if m.view.Phase != session.PhaseReady {
		return centerText(theme.HUDTitle.Render("Loading your world..."), m.width)
	}

	var b strings.Builder
	b.WriteString(renderHUD(m.view, theme))
	b.WriteString("\n")

	if m.showMissions {
		b.WriteString(m.missions.View(theme, m.view.TodaysMissionTitle))
	} else {
		layout := NewLayout(m.view.World.Width(), m.view.World.Height(), m.view.Settings.LargerControls)
		board := renderBoard(m.view, m.cursor, theme, layout.CellW)
		if m.view.Celebration != nil {
			board = lipgloss.JoinHorizontal(lipgloss.Top, board, "  ", renderCelebration(*m.view.Celebration, theme))
		}
		b.WriteString(board)
		b.WriteString("\n")
		b.WriteString(renderPalette(m.view, theme))
		if cue := feedbackCue(m.view); cue != "" {
			b.WriteString("  ")
			b.WriteString(theme.HUDValue.Render(cue))
		}
	}

	b.WriteString("\n")
	b.WriteString(theme.HUDSafety.Render(m.view.SafetyMessage))
	b.WriteString("\n")
	b.WriteString(theme.HUDSeparator.Render(m.help.View(m.keys)))
	return b.String()
}

// feedbackCue is the short on-screen cue for the current feedback event.
func feedbackCue(v session.View) string {
	if v.Feedback == nil || !v.Settings.FeedbackCuesEnabled {
		return ""
	}
	switch v.Feedback.Kind {
	case session.FeedbackPlaceSuccess:
		return "pop!"
	case session.FeedbackPlaceError:
		return "oops"
	case session.FeedbackCombo:
		return "combo!"
	case session.FeedbackMissionComplete:
		return "hooray!"
	default:
		return ""
	}
}

// ProgramOptions are the Bubble Tea options for the build screen.
func ProgramOptions() []tea.ProgramOption {
	return []tea.ProgramOption{
		tea.WithAltScreen(),       // Use alternate screen buffer
		tea.WithMouseCellMotion(), // Click to build
	}
}

// Run starts the Bubble Tea program for a started session and blocks until
// the player quits or ctx ends.
func Run(ctx context.Context, s *session.Session, set SettingsUpdater, catalog mission.Catalog, logger *log.Logger) error {
	done := make(chan struct{})
	defer close(done)

	model := NewModel(ctx, s, set, catalog, done, logger)
	opts := append(ProgramOptions(), tea.WithContext(ctx))
	_, err := tea.NewProgram(model, opts...).Run()
	return err
}
