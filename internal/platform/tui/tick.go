// Package tui is the terminal shell for the game: it maps keys and mouse
// clicks to session intents and renders published views.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/block-buddy/internal/session"
)

// feedbackFlash is how long a feedback cue stays on screen.
const feedbackFlash = 600 * time.Millisecond

// viewMsg carries a view published by the session.
type viewMsg session.View

// sessionClosedMsg is sent once the session stops publishing.
type sessionClosedMsg struct{}

// feedbackDoneMsg asks the session to drop the cue with the given id.
type feedbackDoneMsg struct{ id int64 }

// waitForView returns a command that blocks until the session publishes.
func waitForView(s *session.Session, done <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		select {
		case v := <-s.Updates():
			return viewMsg(v)
		case <-done:
			return sessionClosedMsg{}
		}
	}
}

// feedbackCmd expires a feedback cue after the flash interval.
func feedbackCmd(id int64) tea.Cmd {
	return tea.Tick(feedbackFlash, func(time.Time) tea.Msg {
		return feedbackDoneMsg{id: id}
	})
}
