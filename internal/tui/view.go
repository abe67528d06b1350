package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/dailylog/internal/calendar"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	switch m.state {
	case StateAuth:
		return m.viewAuth()
	case StateAddWeight:
		return docStyle.Render(m.form.View())
	}

	var content string
	switch m.state {
	case StateDashboard:
		content = m.viewDashboard()
	case StateWeight:
		content = m.viewWeight()
	case StateCalendar:
		content = m.viewCalendar()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		docStyle.Render(content),
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	var tabs []string
	for i, title := range []string{"Dashboard", "Weight", "Calendar"} {
		if m.state == SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}

	status := mutedStyle.Render("  " + m.sessions.Current().Username())
	if m.pending > 0 {
		status = " " + m.spinner.View() + status
	}
	tabs = append(tabs, status)
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewAuth() string {
	var b strings.Builder
	if m.authMessage != "" {
		b.WriteString(dangerStyle.Render(m.authMessage) + "\n\n")
	}
	if m.submitting {
		b.WriteString(m.spinner.View() + " Signing in...")
		return docStyle.Render(b.String())
	}
	if m.form != nil {
		b.WriteString(m.form.View())
	}
	return docStyle.Render(b.String())
}

func (m Model) viewDashboard() string {
	var b strings.Builder
	b.WriteString(m.today.Format("Monday, January 2") + "\n\n")
	b.WriteString(m.input.View() + "\n")
	b.WriteString(statusLine(m.dashStatus) + "\n")
	b.WriteString(m.dashboard.View())
	return b.String()
}

func (m Model) viewWeight() string {
	var b strings.Builder
	if !m.weights.Loaded() {
		b.WriteString(mutedStyle.Render("Loading weights...") + "\n")
		b.WriteString(statusLine(m.weightStatus))
		return b.String()
	}

	fmt.Fprintf(&b, "Current %.1f kg   Target %.1f kg\n\n", m.chart.Current, m.chart.Target)
	if len(m.chart.Points) > 0 {
		width := max(m.width-16, 20)
		for _, line := range Plot(m.chart, width, 10) {
			b.WriteString(line + "\n")
		}
		b.WriteString("\n")
	}
	b.WriteString(statusLine(m.weightStatus) + "\n")
	b.WriteString(m.weightList.View())
	return b.String()
}

func (m Model) viewCalendar() string {
	var b strings.Builder
	b.WriteString(m.cal.Title() + "\n")
	b.WriteString(mutedStyle.Render(" Su  Mo  Tu  We  Th  Fr  Sa") + "\n")

	days := m.cal.Days()
	for i, d := range days {
		b.WriteString(renderCell(d))
		if i%7 == 6 {
			b.WriteString("\n")
		}
	}

	b.WriteString("\n" + m.cal.Selected().Format("Monday, January 2, 2006") + "\n\n")
	b.WriteString(m.calView.View())
	return b.String()
}

func renderCell(d calendar.CalendarDay) string {
	if d.Empty {
		return "    "
	}
	num := fmt.Sprintf("%3d", d.Date.Day())
	switch {
	case d.Selected:
		num = selectedDayStyle.Render(num)
	case d.Today:
		num = todayStyle.Render(num)
	case d.HasData:
		num = dataDayStyle.Render(num)
	}
	return num + " "
}

func statusLine(s string) string {
	switch {
	case s == "":
		return ""
	case strings.HasPrefix(s, "✓"):
		return okStyle.Render(s)
	default:
		return dangerStyle.Render(s)
	}
}
