package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/dailylog/internal/constants"
)

// Timestamp accepts the date and date-time spellings the service emits:
// YYYY-MM-DD, RFC 3339, and naive ISO 8601 without a zone.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	constants.DateFormat,
}

// ParseTimestamp parses s with the accepted layouts. Zone-less values are
// interpreted in loc.
func ParseTimestamp(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	if strings.TrimSpace(s) == "" {
		t.Time = time.Time{}
		return nil
	}
	parsed, err := ParseTimestamp(s, time.Local)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return json.Marshal(t.Format(constants.DateFormat))
	}
	return json.Marshal(t.Format(time.RFC3339))
}

// FoodEntry is one parsed food item. It is a snapshot of server state.
type FoodEntry struct {
	Name      string     `json:"name"`
	Quantity  float64    `json:"quantity"`
	Unit      string     `json:"unit"`
	Calories  float64    `json:"calories"`
	Protein   float64    `json:"protein"`
	Carbs     float64    `json:"carbs"`
	Fat       float64    `json:"fat"`
	Fibre     float64    `json:"fibre"`
	Sugar     float64    `json:"sugar"`
	Timestamp *Timestamp `json:"timestamp,omitempty"`
}

// ActivityEntry is one parsed activity.
type ActivityEntry struct {
	Type           string  `json:"type"`
	Quantity       float64 `json:"quantity"`
	Unit           string  `json:"unit"`
	CaloriesBurned float64 `json:"calories_burned"`
}

// DailySummary holds the aggregate totals for one date. All fields are
// always populated; absent values are zero.
type DailySummary struct {
	CaloriesIntake float64 `json:"calories_intake"`
	CaloriesBurned float64 `json:"calories_burned"`
	Protein        float64 `json:"protein"`
	Carbs          float64 `json:"carbs"`
	Fibre          float64 `json:"fibre"`
	Sugar          float64 `json:"sugar"`
}

// IsZero reports whether nothing was logged.
func (s DailySummary) IsZero() bool {
	return s == DailySummary{}
}

// SummaryPayload is the wire form of a summary where any field may be absent.
type SummaryPayload struct {
	CaloriesIntake *float64 `json:"calories_intake"`
	CaloriesBurned *float64 `json:"calories_burned"`
	Protein        *float64 `json:"protein"`
	Carbs          *float64 `json:"carbs"`
	Fibre          *float64 `json:"fibre"`
	Sugar          *float64 `json:"sugar"`
}

// Normalize fills absent fields with zero.
func (p SummaryPayload) Normalize() DailySummary {
	return DailySummary{
		CaloriesIntake: deref(p.CaloriesIntake),
		CaloriesBurned: deref(p.CaloriesBurned),
		Protein:        deref(p.Protein),
		Carbs:          deref(p.Carbs),
		Fibre:          deref(p.Fibre),
		Sugar:          deref(p.Sugar),
	}
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// DaySummary is the payload of the day summary endpoint. Summary is nil when
// the service did not send a pre-aggregated object.
type DaySummary struct {
	Summary    *SummaryPayload `json:"summary"`
	Foods      []FoodEntry     `json:"foods"`
	Activities []ActivityEntry `json:"activities"`
}

// HasData reports whether anything was logged on the day.
func (d DaySummary) HasData() bool {
	if len(d.Foods) > 0 || len(d.Activities) > 0 {
		return true
	}
	return d.Summary != nil && !d.Summary.Normalize().IsZero()
}

// WeightEntry is one weight reading. RecordedAt is nil when the service did
// not attach a date.
type WeightEntry struct {
	ValueKg    float64    `json:"value_kg"`
	RecordedAt *Timestamp `json:"recorded_at,omitempty"`
}

// Dated reports whether the entry carries a usable date.
func (w WeightEntry) Dated() bool {
	return w.RecordedAt != nil && !w.RecordedAt.IsZero()
}
