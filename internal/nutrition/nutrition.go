// Package nutrition turns a fetched day into the numbers the dashboard shows.
package nutrition

import (
	"github.com/julianstephens/dailylog/internal/constants"
	"github.com/julianstephens/dailylog/internal/models"
)

// Policy decides which figures win and where the sugar line sits.
type Policy struct {
	// Source is "server" to trust the service's pre-aggregated summary when
	// present, or "local" to always re-sum the entry lists.
	Source     string
	SugarLimit float64
}

// DefaultPolicy trusts the service and flags sugar above 25 g.
func DefaultPolicy() Policy {
	return Policy{Source: constants.DefaultSummarySource, SugarLimit: constants.DefaultSugarLimitG}
}

func (p Policy) limit() float64 {
	if p.SugarLimit <= 0 {
		return constants.DefaultSugarLimitG
	}
	return p.SugarLimit
}

// View is the dashboard's nutrition block.
type View struct {
	Summary       models.DailySummary
	Fat           float64
	Net           float64
	SugarLimit    float64
	SugarExceeded bool
	Foods         []models.FoodEntry
	Activities    []models.ActivityEntry
}

// Aggregate sums foods into intake and macros and activities into calories burned.
func Aggregate(foods []models.FoodEntry, activities []models.ActivityEntry) models.DailySummary {
	var s models.DailySummary
	for _, f := range foods {
		s.CaloriesIntake += f.Calories
		s.Protein += f.Protein
		s.Carbs += f.Carbs
		s.Fibre += f.Fibre
		s.Sugar += f.Sugar
	}
	for _, a := range activities {
		s.CaloriesBurned += a.CaloriesBurned
	}
	return s
}

// Fat totals fat across foods; the service summary carries no fat figure.
func Fat(foods []models.FoodEntry) float64 {
	var total float64
	for _, f := range foods {
		total += f.Fat
	}
	return total
}

// Build derives the view for one fetched day.
func Build(day models.DaySummary, policy Policy) View {
	summary := Aggregate(day.Foods, day.Activities)
	if policy.Source != constants.SummarySourceLocal && day.Summary != nil {
		summary = day.Summary.Normalize()
	}
	return FromSummary(summary, day.Foods, day.Activities, policy)
}

// FromSummary builds a view around an already known summary, such as the
// totals returned after logging a sentence.
func FromSummary(summary models.DailySummary, foods []models.FoodEntry, activities []models.ActivityEntry, policy Policy) View {
	limit := policy.limit()
	if foods == nil {
		foods = []models.FoodEntry{}
	}
	if activities == nil {
		activities = []models.ActivityEntry{}
	}
	return View{
		Summary:       summary,
		Fat:           Fat(foods),
		Net:           summary.CaloriesIntake - summary.CaloriesBurned,
		SugarLimit:    limit,
		SugarExceeded: summary.Sugar > limit,
		Foods:         foods,
		Activities:    activities,
	}
}
