package dayview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/dailylog/internal/nutrition"
)

var (
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(14)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true)

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("208")).
			Bold(true)

	itemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))
)

// Model shows one day's nutrition in a scrollable viewport.
type Model struct {
	viewport viewport.Model
	day      *nutrition.View
	empty    string
	notice   string
	width    int
	height   int
}

func New(width, height int) Model {
	return Model{
		viewport: viewport.New(width, height),
		empty:    "Nothing logged yet.",
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.day == nil {
		return itemStyle.Render(m.empty)
	}
	return m.viewport.View()
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
	m.Render()
}

// SetDay replaces the shown day. With a nil day msg replaces it; otherwise
// msg is shown above the day.
func (m *Model) SetDay(v *nutrition.View, msg string) {
	m.day = v
	m.notice = ""
	switch {
	case v != nil:
		m.notice = msg
	case msg != "":
		m.empty = msg
	}
	m.Render()
}

func (m *Model) Render() {
	if m.day == nil {
		m.viewport.SetContent(m.empty)
		return
	}
	content := Render(*m.day)
	if m.notice != "" {
		content = warnStyle.Render(m.notice) + "\n\n" + content
	}
	m.viewport.SetContent(content)
	m.viewport.GotoTop()
}

// Render formats v as the dashboard totals followed by the entry lists.
func Render(v nutrition.View) string {
	s := v.Summary
	var b strings.Builder
	row := func(label, value string) {
		b.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}

	row("Calories in", fmt.Sprintf("%.0f kcal", s.CaloriesIntake))
	row("Calories out", fmt.Sprintf("%.0f kcal", s.CaloriesBurned))
	row("Net", fmt.Sprintf("%.0f kcal", v.Net))
	row("Protein", fmt.Sprintf("%.1f g", s.Protein))
	row("Carbs", fmt.Sprintf("%.1f g", s.Carbs))
	row("Fat", fmt.Sprintf("%.1f g", v.Fat))
	row("Fibre", fmt.Sprintf("%.1f g", s.Fibre))

	sugar := fmt.Sprintf("%.1f / %.0f g", s.Sugar, v.SugarLimit)
	if v.SugarExceeded {
		b.WriteString(labelStyle.Render("Sugar") + warnStyle.Render(sugar+"  over limit") + "\n")
	} else {
		row("Sugar", sugar)
	}

	if len(v.Foods) > 0 {
		b.WriteString("\nFoods\n")
		for _, f := range v.Foods {
			b.WriteString(itemStyle.Render(fmt.Sprintf("  %-22s %g %s  %.0f kcal", f.Name, f.Quantity, f.Unit, f.Calories)) + "\n")
		}
	}
	if len(v.Activities) > 0 {
		b.WriteString("\nActivities\n")
		for _, a := range v.Activities {
			b.WriteString(itemStyle.Render(fmt.Sprintf("  %-22s %g %s  %.0f kcal", a.Type, a.Quantity, a.Unit, a.CaloriesBurned)) + "\n")
		}
	}
	return b.String()
}
