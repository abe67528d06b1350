package calendar

import (
	"errors"
	"testing"
	"time"

	"github.com/julianstephens/dailylog/internal/constants"
	apperrors "github.com/julianstephens/dailylog/internal/errors"
	"github.com/julianstephens/dailylog/internal/models"
	"github.com/julianstephens/dailylog/internal/nutrition"
)

var today = time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC)

func dayWithIntake(kcal float64) models.DaySummary {
	return models.DaySummary{
		Summary: &models.SummaryPayload{CaloriesIntake: &kcal},
		Foods:   []models.FoodEntry{{Name: "rice", Calories: kcal}},
	}
}

func TestBuildGridThirtyDayMonthStartingWednesday(t *testing.T) {
	// April 2026 starts on a Wednesday
	cells := BuildGrid(2026, time.April, time.UTC)

	if len(cells) != constants.CalendarCells {
		t.Fatalf("len(cells) = %d, want %d", len(cells), constants.CalendarCells)
	}

	var lead, days, trail int
	for i, c := range cells {
		switch {
		case !c.Empty:
			days++
		case days == 0:
			lead++
		default:
			trail++
		}
		if !c.Empty && c.Date.Day() != i-2 {
			t.Errorf("cell %d = %s, want day %d", i, c.Date.Format(constants.DateFormat), i-2)
		}
	}
	if lead != 3 || days != 30 || trail != 9 {
		t.Errorf("lead/days/trail = %d/%d/%d, want 3/30/9", lead, days, trail)
	}
}

func TestBuildGridAlwaysSixWeeks(t *testing.T) {
	for m := time.January; m <= time.December; m++ {
		if n := len(BuildGrid(2026, m, time.UTC)); n != 42 {
			t.Errorf("%s 2026: %d cells, want 42", m, n)
		}
	}
	// February 2026 starts on a Sunday: no leading padding
	if cells := BuildGrid(2026, time.February, time.UTC); cells[0].Empty {
		t.Error("February 2026 should start in the first cell")
	}
}

func TestNewSelectsToday(t *testing.T) {
	c := New(today, nutrition.DefaultPolicy())

	if !c.Selected().Equal(time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Selected() = %v, want 2026-10-15", c.Selected())
	}
	if y, m := c.Month(); y != 2026 || m != time.October {
		t.Errorf("Month() = %d %s, want October 2026", y, m)
	}
	if c.Title() != "October 2026" {
		t.Errorf("Title() = %q", c.Title())
	}
}

func TestMonthNavigationKeepsSelection(t *testing.T) {
	c := New(today, nutrition.DefaultPolicy())
	before := c.slot.Latest()

	c.NextMonth()
	c.NextMonth()
	c.NextMonth()
	if y, m := c.Month(); y != 2027 || m != time.January {
		t.Errorf("Month() = %d %s, want January 2027", y, m)
	}
	c.PrevMonth()
	if _, m := c.Month(); m != time.December {
		t.Errorf("Month() = %s, want December", m)
	}

	if !c.Selected().Equal(DateAt(today, time.UTC)) {
		t.Error("month navigation changed the selection")
	}
	if c.slot.Latest() != before {
		t.Error("month navigation issued a fetch")
	}
}

func TestSelectCell(t *testing.T) {
	c := New(today, nutrition.DefaultPolicy())

	// October 2026 starts on a Thursday: cells 0-3 are padding
	if _, ok := c.SelectCell(2); ok {
		t.Error("SelectCell(empty) returned a ticket")
	}
	if _, ok := c.SelectCell(99); ok {
		t.Error("SelectCell(out of range) returned a ticket")
	}

	ticket, ok := c.SelectCell(4)
	if !ok {
		t.Fatal("SelectCell(4) returned no ticket")
	}
	if ticket.Date.Day() != 1 || !c.Selected().Equal(ticket.Date) {
		t.Errorf("ticket = %v, selected = %v; want October 1", ticket.Date, c.Selected())
	}
}

func TestLateResponseForEarlierSelectionIsDiscarded(t *testing.T) {
	c := New(today, nutrition.DefaultPolicy())

	a := c.SelectDate(time.Date(2026, 10, 3, 0, 0, 0, 0, time.UTC))
	b := c.SelectDate(time.Date(2026, 10, 4, 0, 0, 0, 0, time.UTC))

	// B answers first, then A arrives late
	if got := c.Apply(b, dayWithIntake(500), nil); got != OutcomeApplied {
		t.Fatalf("Apply(B) = %s, want applied", got)
	}
	if got := c.Apply(a, dayWithIntake(1200), nil); got != OutcomeStale {
		t.Fatalf("Apply(A) = %s, want stale", got)
	}

	view, msg := c.Displayed()
	if view == nil || view.Summary.CaloriesIntake != 500 || msg != "" {
		t.Errorf("displayed = %+v, %q; want B's 500 kcal", view, msg)
	}
	if c.Selected().Day() != 4 {
		t.Errorf("Selected() = %v, want October 4", c.Selected())
	}
}

func TestEarlierSelectionArrivingFirstIsStillStale(t *testing.T) {
	c := New(today, nutrition.DefaultPolicy())

	a := c.SelectDate(time.Date(2026, 10, 3, 0, 0, 0, 0, time.UTC))
	b := c.SelectDate(time.Date(2026, 10, 4, 0, 0, 0, 0, time.UTC))

	if got := c.Apply(a, dayWithIntake(1200), nil); got != OutcomeStale {
		t.Errorf("Apply(A) = %s, want stale", got)
	}
	if view, _ := c.Displayed(); view != nil {
		t.Error("stale response reached the display")
	}
	if got := c.Apply(b, dayWithIntake(500), nil); got != OutcomeApplied {
		t.Errorf("Apply(B) = %s, want applied", got)
	}
}

func TestApplyFailures(t *testing.T) {
	c := New(today, nutrition.DefaultPolicy())
	first := c.Refresh()
	c.Apply(first, dayWithIntake(800), nil)

	expired := c.Refresh()
	if got := c.Apply(expired, models.DaySummary{}, apperrors.ErrSessionExpired); got != OutcomeSessionExpired {
		t.Fatalf("Apply(expired) = %s", got)
	}
	if view, msg := c.Displayed(); view == nil || view.Summary.CaloriesIntake != 800 || msg != "" {
		t.Errorf("session expiry changed the display: %+v %q", view, msg)
	}

	rejected := c.Refresh()
	if got := c.Apply(rejected, models.DaySummary{}, apperrors.Request(500, "Internal Server Error", nil)); got != OutcomeFailed {
		t.Fatalf("Apply(rejected) = %s", got)
	}
	if view, msg := c.Displayed(); view == nil || view.Summary.CaloriesIntake != 800 || msg != constants.MsgDayLoadFailed {
		t.Errorf("displayed = %+v, %q; want the last day kept with the load message", view, msg)
	}

	failed := c.Refresh()
	if got := c.Apply(failed, models.DaySummary{}, apperrors.Transport(errors.New("refused"))); got != OutcomeFailed {
		t.Fatalf("Apply(failed) = %s", got)
	}
	if view, msg := c.Displayed(); view != nil || msg != constants.MsgDayLoadFailed {
		t.Errorf("displayed = %+v, %q; want cleared with the load message", view, msg)
	}
}

func TestDaysReflectCache(t *testing.T) {
	c := New(today, nutrition.DefaultPolicy())

	ticket := c.SelectDate(time.Date(2026, 10, 3, 0, 0, 0, 0, time.UTC))
	c.Apply(ticket, dayWithIntake(640), nil)

	empty := c.SelectDate(time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC))
	c.Apply(empty, models.DaySummary{}, nil)

	days := c.Days()
	if len(days) != 42 {
		t.Fatalf("len(Days()) = %d, want 42", len(days))
	}

	// Oct 1 is cell 4, so Oct n is cell n+3
	third, fifth, fifteenth := days[6], days[8], days[18]
	if !third.HasData || third.Summary == nil || third.Summary.CaloriesIntake != 640 {
		t.Errorf("Oct 3 = %+v, want cached 640 kcal", third)
	}
	if fifth.HasData || !fifth.Selected {
		t.Errorf("Oct 5 = %+v, want selected without data", fifth)
	}
	if !fifteenth.Today || fifteenth.Selected {
		t.Errorf("Oct 15 = %+v, want today and not selected", fifteenth)
	}
	if !days[0].Empty {
		t.Error("cell 0 should be padding")
	}

	// cache survives a round trip through another month
	c.NextMonth()
	c.PrevMonth()
	if !c.Days()[6].HasData {
		t.Error("Oct 3 lost its data after month navigation")
	}
}

func TestSelectDateBringsMonthIntoView(t *testing.T) {
	c := New(today, nutrition.DefaultPolicy())
	c.MoveSelection(-15)

	if y, m := c.Month(); y != 2026 || m != time.September {
		t.Errorf("Month() = %d %s, want September 2026", y, m)
	}
	if c.Selected().Day() != 30 {
		t.Errorf("Selected() = %v, want September 30", c.Selected())
	}
}

func TestResetSupersedesInFlight(t *testing.T) {
	c := New(today, nutrition.DefaultPolicy())
	ticket := c.Refresh()
	c.Reset()

	if got := c.Apply(ticket, dayWithIntake(100), nil); got != OutcomeStale {
		t.Errorf("Apply after Reset = %s, want stale", got)
	}
}
