// Package weight maps weight readings onto a 0-100 chart square.
package weight

import (
	"math"
	"slices"
	"sort"
	"time"

	"github.com/julianstephens/dailylog/internal/constants"
	"github.com/julianstephens/dailylog/internal/models"
)

// Point is one reading in chart space. X and Y are percentages; Y grows downwards.
type Point struct {
	X     float64
	Y     float64
	Entry models.WeightEntry
}

type Chart struct {
	Points  []Point
	TargetY float64
	Min     float64
	Max     float64
	Current float64
	Target  float64
	// Entries is oldest first.
	Entries []models.WeightEntry
}

// Newest returns the entries newest first, the order the entry list shows them.
func (c Chart) Newest() []models.WeightEntry {
	out := slices.Clone(c.Entries)
	slices.Reverse(out)
	return out
}

// Ascending orders entries oldest first. The service sends newest first, so
// its order is reversed before sorting; an undated entry keeps its place next
// to the dated reading that precedes it.
func Ascending(entries []models.WeightEntry) []models.WeightEntry {
	out := slices.Clone(entries)
	slices.Reverse(out)

	effective := make([]time.Time, len(out))
	idx := make([]int, len(out))
	var last time.Time
	for i, e := range out {
		if e.Dated() {
			last = e.RecordedAt.Time
		}
		effective[i] = last
		idx[i] = i
	}

	sort.SliceStable(idx, func(a, b int) bool {
		return effective[idx[a]].Before(effective[idx[b]])
	})

	sorted := make([]models.WeightEntry, len(out))
	for i, j := range idx {
		sorted[i] = out[j]
	}
	return sorted
}

// Current is the newest reading, else the profile weight, else 0.
func Current(ascending []models.WeightEntry, profile *models.UserProfile) float64 {
	if n := len(ascending); n > 0 {
		return ascending[n-1].ValueKg
	}
	if profile != nil && profile.WeightKg > 0 {
		return profile.WeightKg
	}
	return 0
}

// Target is the profile's positive target, else a modest goal below current.
func Target(current float64, profile *models.UserProfile) float64 {
	if profile != nil {
		if t, ok := profile.Target(); ok {
			return t
		}
	}
	return math.Max(0, current-constants.DefaultTargetDeltaKg)
}

// BuildChart normalizes entries, in any order, against the profile's target.
func BuildChart(entries []models.WeightEntry, profile *models.UserProfile) Chart {
	asc := Ascending(entries)
	current := Current(asc, profile)
	target := Target(current, profile)

	hi, lo := target, target
	for _, e := range asc {
		hi = math.Max(hi, e.ValueKg)
		lo = math.Min(lo, e.ValueKg)
	}
	// keep the range non-negative and never empty
	hi = math.Max(hi, 1)
	lo = math.Max(lo, 0)

	span := hi - lo
	if span == 0 {
		span = 1
	}
	scale := func(v float64) float64 {
		return (hi - v) / span * 100
	}

	points := make([]Point, len(asc))
	for i, e := range asc {
		x := 0.0
		if len(asc) > 1 {
			x = float64(i) / float64(len(asc)-1) * 100
		}
		points[i] = Point{X: x, Y: scale(e.ValueKg), Entry: e}
	}

	return Chart{
		Points:  points,
		TargetY: scale(target),
		Min:     lo,
		Max:     hi,
		Current: current,
		Target:  target,
		Entries: asc,
	}
}
