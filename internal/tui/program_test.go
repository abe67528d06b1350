package tui

import (
	"context"
	"io"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/dailylog/internal/models"
	"github.com/julianstephens/dailylog/internal/nutrition"
	"github.com/julianstephens/dailylog/internal/session"
)

// storeService answers every call with nothing and signs out through the
// real session store, as the api client does.
type storeService struct {
	sessions *session.Store
}

func (s *storeService) SignIn(context.Context, models.SignInRequest) (models.Session, error) {
	return models.Anonymous(), nil
}

func (s *storeService) SignUp(context.Context, models.SignUpRequest) (models.Session, error) {
	return models.Anonymous(), nil
}

func (s *storeService) SignOut() { s.sessions.Clear() }

func (s *storeService) LogEntry(context.Context, string) (models.DailySummary, error) {
	return models.DailySummary{}, nil
}

func (s *storeService) DaySummary(context.Context, time.Time) (models.DaySummary, error) {
	return models.DaySummary{}, nil
}

func (s *storeService) ListWeights(context.Context) ([]models.WeightEntry, error) {
	return []models.WeightEntry{}, nil
}

func (s *storeService) RecordWeight(_ context.Context, v float64, _ *time.Time) (models.WeightEntry, error) {
	return models.WeightEntry{ValueKg: v}, nil
}

func TestSignOutInRunningProgram(t *testing.T) {
	sessions := session.New(nil, "")
	if err := sessions.Establish(models.UserProfile{Username: "alice"}, "tok-alice"); err != nil {
		t.Fatalf("Establish failed: %v", err)
	}

	m := NewModel(&storeService{sessions: sessions}, sessions, nutrition.DefaultPolicy(), testToday)
	p := tea.NewProgram(m,
		tea.WithInput(nil),
		tea.WithOutput(io.Discard),
		tea.WithoutRenderer(),
		tea.WithoutSignalHandler(),
	)
	unsubscribe := ForwardSessions(p, sessions)
	defer unsubscribe()

	done := make(chan Model, 1)
	go func() {
		final, err := p.Run()
		if err != nil {
			t.Errorf("Run failed: %v", err)
		}
		fm, _ := final.(Model)
		done <- fm
	}()

	p.Send(tea.KeyMsg{Type: tea.KeyCtrlX})
	p.Quit()

	select {
	case final := <-done:
		if final.State() != StateAuth {
			t.Errorf("State() = %v, want StateAuth after sign-out", final.State())
		}
	case <-time.After(3 * time.Second):
		t.Fatal("program did not exit after signing out")
	}

	if !sessions.Current().Anonymous() {
		t.Error("session should be anonymous after sign-out")
	}
}
