package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/dailylog/internal/calendar"
	"github.com/julianstephens/dailylog/internal/epoch"
	"github.com/julianstephens/dailylog/internal/models"
	"github.com/julianstephens/dailylog/internal/nutrition"
	"github.com/julianstephens/dailylog/internal/tui/components/dayview"
	"github.com/julianstephens/dailylog/internal/tui/components/weightlist"
	"github.com/julianstephens/dailylog/internal/weight"
)

type SessionState int

const (
	StateDashboard SessionState = iota
	StateWeight
	StateCalendar
	StateAuth
	StateAddWeight
)

const tabCount = 3

// Service is the remote surface the views drive.
type Service interface {
	SignIn(ctx context.Context, req models.SignInRequest) (models.Session, error)
	SignUp(ctx context.Context, req models.SignUpRequest) (models.Session, error)
	SignOut()
	LogEntry(ctx context.Context, sentence string) (models.DailySummary, error)
	DaySummary(ctx context.Context, date time.Time) (models.DaySummary, error)
	ListWeights(ctx context.Context) ([]models.WeightEntry, error)
	RecordWeight(ctx context.Context, valueKg float64, recordedAt *time.Time) (models.WeightEntry, error)
}

// Sessions exposes the live session.
type Sessions interface {
	Current() models.Session
}

// SessionChangedMsg is delivered when the session store establishes or
// clears a session outside the model, e.g. a 401 handled by the gateway.
type SessionChangedMsg struct {
	Session models.Session
}

type Model struct {
	service  Service
	sessions Sessions
	policy   nutrition.Policy
	today    time.Time

	state    SessionState
	keys     KeyMap
	help     help.Model
	spinner  spinner.Model
	input    textinput.Model
	form     *huh.Form
	auth     *AuthFormModel
	entry    *WeightFormModel
	quitting bool
	width    int
	height   int
	pending  int

	// submitting is set while a sign-in or sign-up request is in flight.
	submitting bool

	// dashboard
	summary    *epoch.Slot[models.DaySummary]
	todayView  *nutrition.View
	dashboard  dayview.Model
	dashStatus string

	// weight
	weights      *weight.Tracker
	chart        weight.Chart
	weightList   weightlist.Model
	weightStatus string

	// calendar
	cal     *calendar.Calendar
	calView dayview.Model

	authMessage string
}

func NewModel(service Service, sessions Sessions, policy nutrition.Policy, today time.Time) Model {
	in := textinput.New()
	in.Placeholder = "I ate 2 chapatis and walked 5 km"
	in.CharLimit = 500
	in.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		service:    service,
		sessions:   sessions,
		policy:     policy,
		today:      today,
		keys:       DefaultKeyMap(),
		help:       help.New(),
		spinner:    sp,
		input:      in,
		summary:    &epoch.Slot[models.DaySummary]{},
		dashboard:  dayview.New(0, 0),
		weights:    &weight.Tracker{},
		weightList: weightlist.New(nil, 0, 0),
		cal:        calendar.New(today, policy),
		calView:    dayview.New(0, 0),
	}

	if sessions.Current().Valid() {
		m.state = StateDashboard
	} else {
		m.openAuth("")
	}
	return m
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	switch m.state {
	case StateDashboard:
		keys = append(keys, m.keys.Submit)
	case StateWeight:
		keys = append(keys, weightlist.DefaultKeyMap().Add)
	case StateCalendar:
		keys = append(keys, m.keys.PrevMonth, m.keys.NextMonth)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help, m.keys.SignOut}

	var actions []key.Binding
	switch m.state {
	case StateDashboard:
		actions = []key.Binding{m.keys.Submit}
	case StateWeight:
		wk := weightlist.DefaultKeyMap()
		actions = []key.Binding{wk.Add, wk.Refresh}
	case StateCalendar:
		actions = []key.Binding{m.keys.Left, m.keys.Right, m.keys.Up, m.keys.Down, m.keys.PrevMonth, m.keys.NextMonth, m.keys.Today}
	}

	return [][]key.Binding{global, actions}
}

func (m Model) Init() tea.Cmd {
	if m.state == StateAuth {
		return m.form.Init()
	}
	return tea.Batch(m.spinner.Tick, m.loadAll())
}

// State is the active view.
func (m Model) State() SessionState {
	return m.state
}

// loadAll fetches everything the signed-in views show.
func (m *Model) loadAll() tea.Cmd {
	return tea.Batch(m.fetchToday(), m.fetchWeights(), m.fetchCalendarDay(m.cal.Refresh()))
}

// enterApp leaves the sign-in form for the dashboard.
func (m *Model) enterApp() tea.Cmd {
	if m.state != StateAuth {
		return nil
	}
	m.state = StateDashboard
	m.form = nil
	m.auth = nil
	m.authMessage = ""
	m.input.Focus()
	return m.loadAll()
}

// openAuth drops everything fetched for the previous user and shows the
// sign-in form with msg above it.
func (m *Model) openAuth(msg string) tea.Cmd {
	m.summary.Reset()
	m.todayView = nil
	m.dashboard.SetDay(nil, "")
	m.dashStatus = ""
	m.weights.Reset()
	m.chart = weight.Chart{}
	m.weightList.SetEntries(nil)
	m.weightStatus = ""
	m.cal.Reset()
	m.calView.SetDay(nil, "")
	m.input.Reset()
	m.pending = 0

	m.state = StateAuth
	m.authMessage = msg
	m.auth = &AuthFormModel{Mode: authSignIn, Gender: models.GenderMale, Activity: models.ActivityModerate}
	m.form = newAuthForm(m.auth)
	return m.form.Init()
}
