package weight

import (
	"github.com/julianstephens/dailylog/internal/epoch"
	"github.com/julianstephens/dailylog/internal/models"
)

// Tracker keeps the most recently fetched weight list. Only the newest
// fetch may replace it.
type Tracker struct {
	slot epoch.Slot[[]models.WeightEntry]
}

// Begin marks a new weight-list fetch.
func (t *Tracker) Begin() epoch.Epoch {
	return t.slot.Begin()
}

// Commit installs entries fetched under e and reports whether they were current.
func (t *Tracker) Commit(e epoch.Epoch, entries []models.WeightEntry) bool {
	return t.slot.Commit(e, entries)
}

// Current reports whether e is still the newest fetch.
func (t *Tracker) Current(e epoch.Epoch) bool {
	return t.slot.Current(e)
}

// Loaded reports whether any list has been committed.
func (t *Tracker) Loaded() bool {
	_, ok := t.slot.Value()
	return ok
}

// Chart builds the chart for the committed list.
func (t *Tracker) Chart(profile *models.UserProfile) Chart {
	entries, _ := t.slot.Value()
	return BuildChart(entries, profile)
}

// Reset forgets the list, e.g. after sign-out.
func (t *Tracker) Reset() {
	t.slot.Reset()
}
