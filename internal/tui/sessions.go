package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/dailylog/internal/models"
	"github.com/julianstephens/dailylog/internal/session"
)

// Subscriber is the change feed of the session store.
type Subscriber interface {
	Subscribe(fn session.Observer) func()
}

// ForwardSessions delivers every session change to p as a SessionChangedMsg
// and returns the unsubscribe func. Observers may fire on the program's own
// event loop (sign-out from a key press), so each send runs on its own goroutine.
func ForwardSessions(p *tea.Program, s Subscriber) func() {
	return s.Subscribe(func(sess models.Session) {
		go p.Send(SessionChangedMsg{Session: sess})
	})
}
