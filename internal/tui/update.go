package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/dailylog/internal/calendar"
	"github.com/julianstephens/dailylog/internal/constants"
	"github.com/julianstephens/dailylog/internal/errors"
	"github.com/julianstephens/dailylog/internal/logger"
	"github.com/julianstephens/dailylog/internal/models"
	"github.com/julianstephens/dailylog/internal/nutrition"
	"github.com/julianstephens/dailylog/internal/tui/components/weightlist"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.resize()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case SessionChangedMsg:
		// Sends are not ordered; the store holds the truth.
		if m.sessions.Current().Valid() {
			return m, m.enterApp()
		}
		if m.state != StateAuth {
			return m, m.openAuth("")
		}
		return m, nil

	case authDoneMsg:
		m.done()
		m.submitting = false
		if m.state != StateAuth {
			return m, nil
		}
		if msg.err != nil {
			return m, m.retryAuth(errors.Message(msg.err))
		}
		return m, m.enterApp()

	case daySummaryMsg:
		m.done()
		return m, m.applyToday(msg)

	case loggedMsg:
		m.done()
		return m, m.applyLogged(msg)

	case weightsMsg:
		m.done()
		return m, m.applyWeights(msg)

	case weightRecordedMsg:
		m.done()
		return m, m.applyRecorded(msg)

	case calendarDayMsg:
		m.done()
		return m, m.applyCalendarDay(msg)

	case weightlist.AddWeightMsg:
		m.entry = &WeightFormModel{}
		m.form = newWeightForm(m.entry)
		m.state = StateAddWeight
		return m, m.form.Init()

	case weightlist.RefreshMsg:
		return m, m.fetchWeights()

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.quitting = true
			return m, tea.Quit
		}
	}

	if m.state == StateAuth || m.state == StateAddWeight {
		return m.updateForm(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m *Model) done() {
	if m.pending > 0 {
		m.pending--
	}
}

func (m *Model) resize() {
	w := max(m.width-4, 0)
	m.input.Width = max(w-4, 0)
	m.dashboard.SetSize(w, max(m.height-10, 0))
	m.weightList.SetSize(w, max(m.height-20, 0))
	m.calView.SetSize(w, max(m.height-20, 0))
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}
	if k, ok := msg.(tea.KeyMsg); ok && m.state == StateAddWeight && k.String() == "esc" {
		m.state = StateWeight
		m.form = nil
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		if m.state == StateAuth {
			if m.submitting {
				return m, cmd
			}
			m.submitting = true
			return m, tea.Batch(cmd, m.signIn(*m.auth))
		}
		m.state = StateWeight
		m.form = nil
		value, at, err := m.entry.parse(m.today.Location())
		if err != nil {
			m.weightStatus = errors.Message(err)
			return m, nil
		}
		return m, m.recordWeight(value, at)

	case huh.StateAborted:
		if m.state == StateAuth {
			m.quitting = true
			return m, tea.Quit
		}
		m.state = StateWeight
		m.form = nil
		return m, nil
	}
	return m, cmd
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Tab):
		m.switchTab(1)
		return m, nil
	case key.Matches(msg, m.keys.ShiftTab):
		m.switchTab(tabCount - 1)
		return m, nil
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.SignOut):
		m.service.SignOut()
		return m, m.openAuth("")
	}

	switch m.state {
	case StateDashboard:
		if key.Matches(msg, m.keys.Submit) {
			sentence := m.input.Value()
			m.input.Reset()
			return m, m.logEntry(sentence)
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd

	case StateWeight:
		var cmd tea.Cmd
		m.weightList, cmd = m.weightList.Update(msg)
		return m, cmd

	case StateCalendar:
		switch {
		case key.Matches(msg, m.keys.Left):
			return m, m.fetchCalendarDay(m.cal.MoveSelection(-1))
		case key.Matches(msg, m.keys.Right):
			return m, m.fetchCalendarDay(m.cal.MoveSelection(1))
		case key.Matches(msg, m.keys.Up):
			return m, m.fetchCalendarDay(m.cal.MoveSelection(-7))
		case key.Matches(msg, m.keys.Down):
			return m, m.fetchCalendarDay(m.cal.MoveSelection(7))
		case key.Matches(msg, m.keys.Today):
			return m, m.fetchCalendarDay(m.cal.SelectDate(m.cal.Today()))
		case key.Matches(msg, m.keys.PrevMonth):
			m.cal.PrevMonth()
		case key.Matches(msg, m.keys.NextMonth):
			m.cal.NextMonth()
		}
	}
	return m, nil
}

func (m *Model) switchTab(delta int) {
	m.state = SessionState((int(m.state) + delta) % tabCount)
	if m.state == StateDashboard {
		m.input.Focus()
	} else {
		m.input.Blur()
	}
}

// retryAuth rebuilds the sign-in form after a failed attempt, keeping what
// was typed except the password.
func (m *Model) retryAuth(msg string) tea.Cmd {
	m.authMessage = msg
	m.auth.Password = ""
	m.form = newAuthForm(m.auth)
	return m.form.Init()
}

// fail reports err on status, or returns to sign-in when the session is gone.
func (m *Model) fail(err error, status *string) tea.Cmd {
	if errors.KindOf(err) == errors.KindSessionExpired {
		if m.state == StateAuth {
			m.authMessage = constants.MsgSessionExpired
			return nil
		}
		return m.openAuth(constants.MsgSessionExpired)
	}
	if m.state == StateAuth {
		return nil
	}
	*status = errors.Message(err)
	logger.Debug("Request failed", "kind", errors.KindOf(err), "error", err)
	return nil
}

func (m *Model) applyToday(msg daySummaryMsg) tea.Cmd {
	if !m.summary.Current(msg.epoch) {
		return nil
	}
	if msg.err != nil {
		return m.fail(msg.err, &m.dashStatus)
	}
	m.summary.Commit(msg.epoch, msg.day)
	v := nutrition.Build(msg.day, m.policy)
	m.todayView = &v
	m.dashboard.SetDay(&v, "")
	return nil
}

func (m *Model) applyLogged(msg loggedMsg) tea.Cmd {
	if msg.err != nil {
		return m.fail(msg.err, &m.dashStatus)
	}
	if m.state == StateAuth {
		return nil
	}
	m.dashStatus = "✓ Logged"

	// Totals first, over the lists already shown; the refetch brings the new entries.
	if m.summary.Current(msg.epoch) {
		var foods []models.FoodEntry
		var activities []models.ActivityEntry
		if m.todayView != nil {
			foods, activities = m.todayView.Foods, m.todayView.Activities
		}
		v := nutrition.FromSummary(msg.summary, foods, activities, m.policy)
		m.todayView = &v
		m.dashboard.SetDay(&v, "")
	}

	cmds := []tea.Cmd{m.fetchToday()}
	if m.cal.Selected().Equal(m.cal.Today()) {
		cmds = append(cmds, m.fetchCalendarDay(m.cal.Refresh()))
	}
	return tea.Batch(cmds...)
}

func (m *Model) applyWeights(msg weightsMsg) tea.Cmd {
	if !m.weights.Current(msg.epoch) {
		return nil
	}
	if msg.err != nil {
		return m.fail(msg.err, &m.weightStatus)
	}
	m.weights.Commit(msg.epoch, msg.entries)
	m.chart = m.weights.Chart(m.sessions.Current().Profile)
	m.weightList.SetEntries(m.chart.Newest())
	return nil
}

func (m *Model) applyRecorded(msg weightRecordedMsg) tea.Cmd {
	if msg.err != nil {
		return m.fail(msg.err, &m.weightStatus)
	}
	if m.state == StateAuth {
		return nil
	}
	m.weightStatus = fmt.Sprintf("✓ Recorded %.1f kg", msg.entry.ValueKg)
	return m.fetchWeights()
}

func (m *Model) applyCalendarDay(msg calendarDayMsg) tea.Cmd {
	switch m.cal.Apply(msg.ticket, msg.day, msg.err) {
	case calendar.OutcomeSessionExpired:
		return m.fail(msg.err, nil)
	case calendar.OutcomeFailed:
		logger.Debug("Calendar day failed", "date", msg.ticket.Date.Format(constants.DateFormat), "error", msg.err)
		fallthrough
	case calendar.OutcomeApplied:
		v, text := m.cal.Displayed()
		m.calView.SetDay(v, text)
	}
	return nil
}
