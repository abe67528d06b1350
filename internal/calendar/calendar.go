package calendar

import (
	"time"

	"github.com/julianstephens/dailylog/internal/constants"
	"github.com/julianstephens/dailylog/internal/epoch"
	"github.com/julianstephens/dailylog/internal/errors"
	"github.com/julianstephens/dailylog/internal/models"
	"github.com/julianstephens/dailylog/internal/nutrition"
)

// Ticket is the fetch a selection change asks for. Hand it back to Apply
// together with the result.
type Ticket struct {
	Date  time.Time
	Epoch epoch.Epoch
}

type Outcome int

const (
	// OutcomeStale means a newer selection superseded the fetch; nothing changed.
	OutcomeStale Outcome = iota
	// OutcomeSessionExpired leaves the display alone; the caller re-authenticates.
	OutcomeSessionExpired
	// OutcomeFailed cleared the display and set the load-failure message.
	OutcomeFailed
	// OutcomeApplied replaced the displayed day.
	OutcomeApplied
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSessionExpired:
		return "session-expired"
	case OutcomeFailed:
		return "failed"
	case OutcomeApplied:
		return "applied"
	default:
		return "stale"
	}
}

// CalendarDay is one rendered grid cell.
type CalendarDay struct {
	Date     time.Time
	Empty    bool
	HasData  bool
	Summary  *models.DailySummary
	Today    bool
	Selected bool
}

// Calendar is driven from a single UI goroutine; only the epoch slot is
// shared with in-flight fetches.
type Calendar struct {
	loc      *time.Location
	policy   nutrition.Policy
	today    time.Time
	selected time.Time
	year     int
	month    time.Month

	slot      epoch.Slot[models.DaySummary]
	cache     map[string]models.DailySummary
	displayed *nutrition.View
	message   string
}

// New starts on today's month with today selected.
func New(today time.Time, policy nutrition.Policy) *Calendar {
	loc := today.Location()
	t := DateAt(today, loc)
	return &Calendar{
		loc:      loc,
		policy:   policy,
		today:    t,
		selected: t,
		year:     t.Year(),
		month:    t.Month(),
		cache:    make(map[string]models.DailySummary),
	}
}

// Month returns the visible month.
func (c *Calendar) Month() (int, time.Month) {
	return c.year, c.month
}

// Title is the visible month, e.g. "October 2026".
func (c *Calendar) Title() string {
	return time.Date(c.year, c.month, 1, 0, 0, 0, 0, c.loc).Format("January 2006")
}

func (c *Calendar) Selected() time.Time {
	return c.selected
}

func (c *Calendar) Today() time.Time {
	return c.today
}

// Displayed returns the view for the selected day, or nil with a message
// when the last load failed.
func (c *Calendar) Displayed() (*nutrition.View, string) {
	return c.displayed, c.message
}

// PrevMonth moves the visible grid back one month. Selection is unchanged.
func (c *Calendar) PrevMonth() {
	c.shiftMonth(-1)
}

// NextMonth moves the visible grid forward one month. Selection is unchanged.
func (c *Calendar) NextMonth() {
	c.shiftMonth(1)
}

// ShowMonth makes the given month visible. Selection is unchanged.
func (c *Calendar) ShowMonth(year int, month time.Month) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, c.loc)
	c.year, c.month = first.Year(), first.Month()
}

func (c *Calendar) shiftMonth(delta int) {
	first := time.Date(c.year, c.month, 1, 0, 0, 0, 0, c.loc).AddDate(0, delta, 0)
	c.year, c.month = first.Year(), first.Month()
}

// SelectCell selects the date in grid cell i of the visible month. Empty or
// out-of-range cells select nothing and return no ticket.
func (c *Calendar) SelectCell(i int) (Ticket, bool) {
	cells := BuildGrid(c.year, c.month, c.loc)
	if i < 0 || i >= len(cells) || cells[i].Empty {
		return Ticket{}, false
	}
	return c.selectDate(cells[i].Date), true
}

// SelectDate selects d, bringing its month into view.
func (c *Calendar) SelectDate(d time.Time) Ticket {
	d = DateAt(d, c.loc)
	c.year, c.month = d.Year(), d.Month()
	return c.selectDate(d)
}

// MoveSelection selects the date days away from the current selection.
func (c *Calendar) MoveSelection(days int) Ticket {
	return c.SelectDate(c.selected.AddDate(0, 0, days))
}

// Refresh asks for the selected day again, e.g. on first load or after logging.
func (c *Calendar) Refresh() Ticket {
	return Ticket{Date: c.selected, Epoch: c.slot.Begin()}
}

func (c *Calendar) selectDate(d time.Time) Ticket {
	c.selected = d
	return c.Refresh()
}

// Apply folds the result of the fetch for t into the calendar.
func (c *Calendar) Apply(t Ticket, day models.DaySummary, err error) Outcome {
	if !c.slot.Current(t.Epoch) {
		return OutcomeStale
	}

	if err != nil {
		switch errors.KindOf(err) {
		case errors.KindSessionExpired:
			return OutcomeSessionExpired
		case errors.KindRequest:
			// The service answered; what is shown stays up under the message.
		default:
			c.displayed = nil
		}
		c.message = constants.MsgDayLoadFailed
		return OutcomeFailed
	}

	c.slot.Commit(t.Epoch, day)
	view := nutrition.Build(day, c.policy)
	c.displayed = &view
	c.message = ""

	k := key(t.Date)
	if day.HasData() {
		c.cache[k] = view.Summary
	} else {
		delete(c.cache, k)
	}
	return OutcomeApplied
}

// Reset drops cached days and supersedes in-flight fetches, e.g. after sign-out.
func (c *Calendar) Reset() {
	c.slot.Reset()
	c.cache = make(map[string]models.DailySummary)
	c.displayed = nil
	c.message = ""
}

// Days renders the visible month from the cache.
func (c *Calendar) Days() []CalendarDay {
	cells := BuildGrid(c.year, c.month, c.loc)
	days := make([]CalendarDay, len(cells))
	for i, cell := range cells {
		if cell.Empty {
			days[i] = CalendarDay{Empty: true}
			continue
		}
		day := CalendarDay{
			Date:     cell.Date,
			Today:    cell.Date.Equal(c.today),
			Selected: cell.Date.Equal(c.selected),
		}
		if s, ok := c.cache[key(cell.Date)]; ok {
			summary := s
			day.HasData = true
			day.Summary = &summary
		}
		days[i] = day
	}
	return days
}
