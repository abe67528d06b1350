package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/dailylog/internal/calendar"
	"github.com/julianstephens/dailylog/internal/constants"
	"github.com/julianstephens/dailylog/internal/errors"
	"github.com/julianstephens/dailylog/internal/logger"
	"github.com/julianstephens/dailylog/internal/nutrition"
)

type LogCmd struct {
	Sentence []string `arg:"" help:"What you ate or did, e.g. \"I ate 2 chapatis and walked 5 km\"."`
}

func (cmd *LogCmd) Run(ctx *Context) error {
	if _, err := ctx.RequireSession(); err != nil {
		return err
	}

	sentence := strings.Join(cmd.Sentence, " ")
	summary, err := ctx.Client.LogEntry(context.Background(), sentence)
	if err != nil {
		return err
	}
	ctx.printf("✓ Logged: %s\n\n", strings.TrimSpace(sentence))

	// The log response carries totals only; fetch the day for the entry lists.
	day, err := ctx.Client.DaySummary(context.Background(), ctx.Today())
	if err != nil {
		if errors.KindOf(err) == errors.KindSessionExpired {
			return err
		}
		logger.Warn("Failed to load day after logging", "error", err)
		ctx.printDay(nutrition.FromSummary(summary, nil, nil, ctx.Policy()))
		return nil
	}
	ctx.printDay(nutrition.Build(day, ctx.Policy()))
	return nil
}

type TodayCmd struct {
	Date string `arg:"" optional:"" help:"Date to show (YYYY-MM-DD, 'today' or 'yesterday')."`
}

func (cmd *TodayCmd) Run(ctx *Context) error {
	if _, err := ctx.RequireSession(); err != nil {
		return err
	}
	date, err := ParseDate(cmd.Date, ctx.Today())
	if err != nil {
		return err
	}

	day, err := ctx.Client.DaySummary(context.Background(), date)
	if err != nil {
		return err
	}

	ctx.printf("%s\n\n", date.Format("Monday, January 2, 2006"))
	ctx.printDay(nutrition.Build(day, ctx.Policy()))
	return nil
}

type CalendarCmd struct {
	Month string `help:"Month to show (YYYY-MM). Defaults to the selected date's month."`
	Date  string `help:"Date to select (YYYY-MM-DD). Defaults to today."`
}

func (cmd *CalendarCmd) Run(ctx *Context) error {
	if _, err := ctx.RequireSession(); err != nil {
		return err
	}

	today := ctx.Today()
	cal := calendar.New(today, ctx.Policy())

	ticket := cal.Refresh()
	if cmd.Date != "" {
		date, err := ParseDate(cmd.Date, today)
		if err != nil {
			return err
		}
		ticket = cal.SelectDate(date)
	}
	if cmd.Month != "" {
		month, err := ParseMonth(cmd.Month, today)
		if err != nil {
			return err
		}
		cal.ShowMonth(month.Year(), month.Month())
	}

	day, err := ctx.Client.DaySummary(context.Background(), ticket.Date)
	outcome := cal.Apply(ticket, day, err)
	if outcome == calendar.OutcomeSessionExpired {
		return err
	}

	ctx.printf("%s\n", renderMonth(cal.Title(), cal.Days()))

	ctx.printf("%s\n\n", ticket.Date.Format("Monday, January 2, 2006"))
	view, msg := cal.Displayed()
	if outcome == calendar.OutcomeFailed {
		logger.Warn("Failed to load day", "date", ticket.Date.Format(constants.DateFormat), "error", err)
	}
	if msg != "" {
		ctx.printf("%s\n", msg)
	}
	if view != nil {
		ctx.printDay(*view)
	}
	return nil
}

// renderMonth draws a Sunday-first grid. [d] marks the selection, * today
// and a trailing dot a day with logged data.
func renderMonth(title string, days []calendar.CalendarDay) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", title)
	b.WriteString(" Sun  Mon  Tue  Wed  Thu  Fri  Sat\n")

	for i, d := range days {
		cell := "     "
		if !d.Empty {
			num := fmt.Sprintf("%2d", d.Date.Day())
			switch {
			case d.Selected:
				num = "[" + num + "]"
			case d.Today:
				num = "*" + num + " "
			default:
				num = " " + num + " "
			}
			mark := " "
			if d.HasData {
				mark = "•"
			}
			cell = num + mark
		}
		b.WriteString(cell)
		if i%7 == 6 {
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n ") + "\n"
}

func (c *Context) printDay(v nutrition.View) {
	s := v.Summary
	c.printf("Calories in:   %6.0f kcal\n", s.CaloriesIntake)
	c.printf("Calories out:  %6.0f kcal\n", s.CaloriesBurned)
	c.printf("Net:           %6.0f kcal\n", v.Net)
	c.printf("Protein %.1f g · Carbs %.1f g · Fat %.1f g · Fibre %.1f g\n", s.Protein, s.Carbs, v.Fat, s.Fibre)

	sugar := fmt.Sprintf("Sugar %.1f g / %.0f g", s.Sugar, v.SugarLimit)
	if v.SugarExceeded {
		sugar += "  ⚠ over the daily limit"
	}
	c.printf("%s\n", sugar)

	if len(v.Foods) > 0 {
		c.printf("\nFoods\n")
		for _, f := range v.Foods {
			c.printf("  %-24s %s  %5.0f kcal\n", f.Name, quantity(f.Quantity, f.Unit), f.Calories)
		}
	}
	if len(v.Activities) > 0 {
		c.printf("\nActivities\n")
		for _, a := range v.Activities {
			c.printf("  %-24s %s  %5.0f kcal\n", a.Type, quantity(a.Quantity, a.Unit), a.CaloriesBurned)
		}
	}
	if len(v.Foods) == 0 && len(v.Activities) == 0 {
		c.printf("\nNothing logged for this day.\n")
	}
}

func quantity(q float64, unit string) string {
	if q == 0 {
		return fmt.Sprintf("%-10s", unit)
	}
	return fmt.Sprintf("%-10s", strings.TrimSpace(fmt.Sprintf("%g %s", q, unit)))
}

// dateLabel formats a reading's date, or a dash when the service sent none.
func dateLabel(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.Format(constants.DateFormat)
}
