package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/julianstephens/dailylog/internal/api"
	"github.com/julianstephens/dailylog/internal/config"
	"github.com/julianstephens/dailylog/internal/constants"
	"github.com/julianstephens/dailylog/internal/errors"
	"github.com/julianstephens/dailylog/internal/models"
	"github.com/julianstephens/dailylog/internal/nutrition"
	"github.com/julianstephens/dailylog/internal/session"
	"github.com/julianstephens/dailylog/internal/storage"
)

type Context struct {
	Config   *config.Config
	Store    storage.RecordStore
	Sessions *session.Store
	Client   *api.Client

	// Out receives command output; nil means stdout.
	Out io.Writer
	// Now is the clock used for "today"; nil means time.Now.
	Now func() time.Time
}

func (c *Context) Stdout() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) printf(format string, args ...any) {
	fmt.Fprintf(c.Stdout(), format, args...)
}

func (c *Context) Today() time.Time {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	t := now()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Policy is the configured nutrition policy, or the default without config.
func (c *Context) Policy() nutrition.Policy {
	if c.Config == nil {
		return nutrition.DefaultPolicy()
	}
	return nutrition.Policy{
		Source:     c.Config.Nutrition.SummarySource,
		SugarLimit: c.Config.Nutrition.SugarLimitG,
	}
}

// RequireSession returns the live session or a validation error telling the
// user to sign in.
func (c *Context) RequireSession() (models.Session, error) {
	sess := c.Sessions.Current()
	if !sess.Valid() {
		return sess, errors.Validation(constants.MsgNotSignedIn)
	}
	return sess, nil
}

// ParseDate accepts YYYY-MM-DD, "today" or "yesterday".
func ParseDate(s string, today time.Time) (time.Time, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "today":
		return today, nil
	case "yesterday":
		return today.AddDate(0, 0, -1), nil
	}
	d, err := time.ParseInLocation(constants.DateFormat, strings.TrimSpace(s), today.Location())
	if err != nil {
		return time.Time{}, errors.Validation(fmt.Sprintf("Invalid date %q, use YYYY-MM-DD.", s))
	}
	return d, nil
}

// ParseMonth accepts YYYY-MM; empty means the month of today.
func ParseMonth(s string, today time.Time) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location()), nil
	}
	m, err := time.ParseInLocation(constants.MonthFormat, strings.TrimSpace(s), today.Location())
	if err != nil {
		return time.Time{}, errors.Validation(fmt.Sprintf("Invalid month %q, use YYYY-MM.", s))
	}
	return m, nil
}

// FormatKg renders a weight with one decimal.
func FormatKg(v float64) string {
	return fmt.Sprintf("%.1f kg", v)
}
