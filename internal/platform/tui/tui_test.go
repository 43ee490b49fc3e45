package tui

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/block-buddy/internal/core"
	"github.com/vovakirdan/block-buddy/internal/mission"
	"github.com/vovakirdan/block-buddy/internal/session"
	"github.com/vovakirdan/block-buddy/internal/settings"
	"github.com/vovakirdan/block-buddy/internal/snapshot"
	"github.com/vovakirdan/block-buddy/internal/storage"
	"github.com/vovakirdan/block-buddy/internal/world"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestMapKey(t *testing.T) {
	keys := DefaultKeyMap()
	tests := []struct {
		msg  tea.KeyMsg
		want core.Action
	}{
		{tea.KeyMsg{Type: tea.KeyUp}, core.ActionUp},
		{runes("j"), core.ActionDown},
		{tea.KeyMsg{Type: tea.KeyLeft}, core.ActionLeft},
		{runes("l"), core.ActionRight},
		{tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}, core.ActionPlace},
		{tea.KeyMsg{Type: tea.KeyEnter}, core.ActionPlace},
		{runes("1"), core.ActionSelectGrass},
		{runes("4"), core.ActionSelectFlower},
		{runes("e"), core.ActionToggleErase},
		{runes("u"), core.ActionUndo},
		{runes("?"), core.ActionHint},
		{runes("n"), core.ActionNextMission},
		{runes("d"), core.ActionDailyMode},
		{runes("m"), core.ActionCalmMode},
		{tea.KeyMsg{Type: tea.KeyTab}, core.ActionMissions},
		{tea.KeyMsg{Type: tea.KeyEsc}, core.ActionDismiss},
		{runes("q"), core.ActionQuit},
		{tea.KeyMsg{Type: tea.KeyCtrlC}, core.ActionQuit},
		{runes("x"), core.ActionNone},
	}
	for _, tc := range tests {
		t.Run(tc.msg.String(), func(t *testing.T) {
			if got := keys.MapKey(tc.msg); got != tc.want {
				t.Errorf("MapKey(%q) = %s, want %s", tc.msg.String(), got, tc.want)
			}
		})
	}
}

func TestLayoutCellAt(t *testing.T) {
	l := NewLayout(10, 6, false)
	tests := []struct {
		x, y int
		want world.GridPosition
		ok   bool
	}{
		{boardLeft, boardTop, world.Pos(0, 0), true},
		{boardLeft + 1, boardTop, world.Pos(0, 0), true},
		{boardLeft + 2, boardTop + 1, world.Pos(1, 1), true},
		{boardLeft + 19, boardTop + 5, world.Pos(9, 5), true},
		{boardLeft + 20, boardTop, world.GridPosition{}, false},
		{boardLeft - 1, boardTop, world.GridPosition{}, false},
		{boardLeft, boardTop + 6, world.GridPosition{}, false},
	}
	for _, tc := range tests {
		got, ok := l.CellAt(tc.x, tc.y)
		if ok != tc.ok || got != tc.want {
			t.Errorf("CellAt(%d, %d) = %v, %v; want %v, %v", tc.x, tc.y, got, ok, tc.want, tc.ok)
		}
	}

	if large := NewLayout(10, 6, true); large.CellW != 4 || large.Board.W != 40 {
		t.Errorf("larger controls layout = %+v", large)
	}
}

func TestGoalSummary(t *testing.T) {
	c := mission.Card{
		ID: "park", MinTotalBlocks: 8,
		RequiredByType: mission.Requirements{{Type: world.Grass, Count: 4}, {Type: world.Flower, Count: 2}},
	}
	if got := GoalSummary(c); got != "8 blocks: grass 4, flower 2" {
		t.Errorf("GoalSummary() = %q", got)
	}
	if got := GoalSummary(mission.Card{ID: "free", MinTotalBlocks: 1}); got != "1 blocks" {
		t.Errorf("GoalSummary() = %q", got)
	}
}

func TestFeedbackCueRespectsSetting(t *testing.T) {
	v := session.View{Feedback: &session.Feedback{ID: 1, Kind: session.FeedbackCombo}}
	v.Settings.FeedbackCuesEnabled = true
	if feedbackCue(v) != "combo!" {
		t.Errorf("cue = %q", feedbackCue(v))
	}
	v.Settings.FeedbackCuesEnabled = false
	if feedbackCue(v) != "" {
		t.Error("cues disabled should show nothing")
	}
}

func newTestModel(t *testing.T) (Model, *session.Session, *settings.Hub) {
	t.Helper()
	logger := log.New(io.Discard)
	catalog := mission.DefaultCatalog()
	repo := storage.NewMemoryRepository(func() snapshot.WorldSnapshot {
		return snapshot.Default(catalog.First(), 4, 3, time.Now())
	})
	hub := settings.NewHub(context.Background(), repo, logger)
	s := session.New(session.Options{
		Catalog: catalog, GridWidth: 4, GridHeight: 3,
		IdleTick: time.Hour, Logger: logger,
	}, repo, hub)
	if err := s.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	done := make(chan struct{})
	t.Cleanup(func() {
		close(done)
		s.Close(context.Background())
		hub.Close()
	})
	return NewModel(context.Background(), s, hub, catalog, done, logger), s, hub
}

func press(m Model, msgs ...tea.Msg) Model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func TestModelBuildsWithKeys(t *testing.T) {
	m, s, _ := newTestModel(t)

	m = press(m, runes("2"), tea.KeyMsg{Type: tea.KeyRight}, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyEnter})
	if got := s.View().World.BlockAt(world.Pos(1, 1)); got != world.Wood {
		t.Errorf("block at (1,1) = %s, want wood", got)
	}

	// The cursor stays on the board
	for i := 0; i < 10; i++ {
		m = press(m, tea.KeyMsg{Type: tea.KeyRight})
	}
	if m.cursor.X != 3 {
		t.Errorf("cursor x = %d, want 3", m.cursor.X)
	}

	press(m, runes("u"))
	if s.View().World.FilledCount() != 0 {
		t.Error("undo key should remove the block")
	}
}

func TestModelMouseClickPlaces(t *testing.T) {
	m, s, _ := newTestModel(t)
	m = press(m, tea.MouseMsg{X: boardLeft + 4, Y: boardTop + 2, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if got := s.View().World.BlockAt(world.Pos(2, 2)); got != world.Grass {
		t.Errorf("block at (2,2) = %s, want grass", got)
	}
	if m.cursor != world.Pos(2, 2) {
		t.Errorf("cursor = %v", m.cursor)
	}
	press(m, tea.MouseMsg{X: 0, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if s.View().World.FilledCount() != 1 {
		t.Error("clicks outside the board must not place")
	}
}

func TestModelTogglesDailyMode(t *testing.T) {
	m, _, hub := newTestModel(t)
	press(m, runes("d"))
	if !hub.Current().DailyChallengeMode {
		t.Error("d should turn daily mode on")
	}
	press(m, runes("d"))
	if hub.Current().DailyChallengeMode {
		t.Error("d again should turn it off")
	}
}

func TestModelMissionOverlay(t *testing.T) {
	m, s, _ := newTestModel(t)
	m = press(m, tea.KeyMsg{Type: tea.KeyTab})
	if !m.showMissions {
		t.Fatal("tab should open the mission list")
	}
	if !strings.Contains(m.View(), "MISSIONS") {
		t.Error("overlay not rendered")
	}

	// Building keys are ignored while the list is open
	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if s.View().World.FilledCount() != 0 {
		t.Error("enter in the mission list must not build")
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.showMissions {
		t.Error("esc should close the list")
	}
}

func TestModelViewShowsHUD(t *testing.T) {
	m, _, _ := newTestModel(t)
	out := m.View()
	for _, want := range []string{"BLOCK BUDDY", mission.DefaultCatalog().First().Title, session.SafetyMessage} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}
