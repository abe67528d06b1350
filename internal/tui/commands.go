package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/dailylog/internal/calendar"
	"github.com/julianstephens/dailylog/internal/epoch"
	"github.com/julianstephens/dailylog/internal/models"
)

type authDoneMsg struct {
	session models.Session
	err     error
}

type daySummaryMsg struct {
	epoch epoch.Epoch
	day   models.DaySummary
	err   error
}

type loggedMsg struct {
	epoch   epoch.Epoch
	summary models.DailySummary
	err     error
}

type weightsMsg struct {
	epoch   epoch.Epoch
	entries []models.WeightEntry
	err     error
}

type weightRecordedMsg struct {
	entry models.WeightEntry
	err   error
}

type calendarDayMsg struct {
	ticket calendar.Ticket
	day    models.DaySummary
	err    error
}

func (m *Model) signIn(fm AuthFormModel) tea.Cmd {
	svc := m.service
	m.pending++
	if fm.Mode == authSignUp {
		req := models.SignUpRequest{
			Username:       fm.Username,
			Password:       fm.Password,
			WeightKg:       number(fm.Weight),
			TargetWeightKg: number(fm.Target),
			HeightCm:       number(fm.Height),
			Gender:         fm.Gender,
			ActivityLevel:  fm.Activity,
		}
		return func() tea.Msg {
			sess, err := svc.SignUp(context.Background(), req)
			return authDoneMsg{session: sess, err: err}
		}
	}

	req := models.SignInRequest{Username: fm.Username, Password: fm.Password}
	return func() tea.Msg {
		sess, err := svc.SignIn(context.Background(), req)
		return authDoneMsg{session: sess, err: err}
	}
}

// fetchToday starts a dashboard fetch that supersedes any in flight.
func (m *Model) fetchToday() tea.Cmd {
	svc := m.service
	date := m.today
	e := m.summary.Begin()
	m.pending++
	return func() tea.Msg {
		day, err := svc.DaySummary(context.Background(), date)
		return daySummaryMsg{epoch: e, day: day, err: err}
	}
}

// logEntry submits a sentence. Its totals compete with dashboard fetches for
// the same slot, so it takes an epoch like one.
func (m *Model) logEntry(sentence string) tea.Cmd {
	svc := m.service
	e := m.summary.Begin()
	m.pending++
	return func() tea.Msg {
		summary, err := svc.LogEntry(context.Background(), sentence)
		return loggedMsg{epoch: e, summary: summary, err: err}
	}
}

func (m *Model) fetchWeights() tea.Cmd {
	svc := m.service
	e := m.weights.Begin()
	m.pending++
	return func() tea.Msg {
		entries, err := svc.ListWeights(context.Background())
		return weightsMsg{epoch: e, entries: entries, err: err}
	}
}

func (m *Model) recordWeight(value float64, at *time.Time) tea.Cmd {
	svc := m.service
	m.pending++
	return func() tea.Msg {
		entry, err := svc.RecordWeight(context.Background(), value, at)
		return weightRecordedMsg{entry: entry, err: err}
	}
}

func (m *Model) fetchCalendarDay(t calendar.Ticket) tea.Cmd {
	svc := m.service
	m.pending++
	return func() tea.Msg {
		day, err := svc.DaySummary(context.Background(), t.Date)
		return calendarDayMsg{ticket: t, day: day, err: err}
	}
}
