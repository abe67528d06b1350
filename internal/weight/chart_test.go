package weight

import (
	"math"
	"testing"
	"time"

	"github.com/julianstephens/dailylog/internal/models"
)

func dated(v float64, day int) models.WeightEntry {
	return models.WeightEntry{
		ValueKg:    v,
		RecordedAt: &models.Timestamp{Time: time.Date(2026, 10, day, 0, 0, 0, 0, time.UTC)},
	}
}

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestBuildChartNormalization(t *testing.T) {
	// service order: newest first
	entries := []models.WeightEntry{dated(178, 9), dated(179, 5), dated(180, 1)}
	profile := &models.UserProfile{Username: "alice", TargetWeightKg: models.Float(174)}

	c := BuildChart(entries, profile)

	if c.Min != 174 || c.Max != 180 {
		t.Fatalf("range = [%v, %v], want [174, 180]", c.Min, c.Max)
	}
	if len(c.Points) != 3 {
		t.Fatalf("len(Points) = %d, want 3", len(c.Points))
	}
	if c.Points[0].Entry.ValueKg != 180 || !near(c.Points[0].Y, 0) || c.Points[0].X != 0 {
		t.Errorf("first point = %+v, want 180 kg at (0, 0)", c.Points[0])
	}
	if !near(c.Points[1].X, 50) || !near(c.Points[2].X, 100) {
		t.Errorf("x = %v, %v; want 50, 100", c.Points[1].X, c.Points[2].X)
	}
	if !near(c.Points[2].Y, 100.0/3*1) {
		t.Errorf("last y = %v, want %v", c.Points[2].Y, 100.0/3)
	}
	if !near(c.TargetY, 100) {
		t.Errorf("TargetY = %v, want 100", c.TargetY)
	}
	if c.Current != 178 || c.Target != 174 {
		t.Errorf("current/target = %v/%v, want 178/174", c.Current, c.Target)
	}
}

func TestBuildChartOrderIndependent(t *testing.T) {
	a := BuildChart([]models.WeightEntry{dated(180, 1), dated(178, 9), dated(179, 5)}, nil)
	b := BuildChart([]models.WeightEntry{dated(178, 9), dated(179, 5), dated(180, 1)}, nil)

	for i := range a.Points {
		if a.Points[i].Entry.ValueKg != b.Points[i].Entry.ValueKg || a.Points[i].Y != b.Points[i].Y {
			t.Errorf("point %d differs: %+v vs %+v", i, a.Points[i], b.Points[i])
		}
	}
	if a.Current != 178 {
		t.Errorf("Current = %v, want the newest reading 178", a.Current)
	}
}

func TestSinglePoint(t *testing.T) {
	c := BuildChart([]models.WeightEntry{dated(70, 1)}, &models.UserProfile{TargetWeightKg: models.Float(70)})

	if c.Points[0].X != 0 {
		t.Errorf("single point X = %v, want 0", c.Points[0].X)
	}
	if math.IsNaN(c.Points[0].Y) || math.IsInf(c.Points[0].Y, 0) {
		t.Errorf("single point Y = %v, want a finite value", c.Points[0].Y)
	}
}

func TestCurrentFallbacks(t *testing.T) {
	profile := &models.UserProfile{WeightKg: 82}

	if got := BuildChart(nil, profile).Current; got != 82 {
		t.Errorf("no entries: Current = %v, want profile weight 82", got)
	}
	if got := BuildChart(nil, nil).Current; got != 0 {
		t.Errorf("no entries, no profile: Current = %v, want 0", got)
	}
}

func TestTargetFallbacks(t *testing.T) {
	tests := []struct {
		name    string
		profile *models.UserProfile
		current float64
		want    float64
	}{
		{name: "profile target", profile: &models.UserProfile{TargetWeightKg: models.Float(65)}, current: 70, want: 65},
		{name: "missing target", profile: &models.UserProfile{}, current: 70, want: 65},
		{name: "zero target", profile: &models.UserProfile{TargetWeightKg: models.Float(0)}, current: 70, want: 65},
		{name: "negative target", profile: &models.UserProfile{TargetWeightKg: models.Float(-3)}, current: 70, want: 65},
		{name: "clamped at zero", profile: nil, current: 3, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Target(tt.current, tt.profile); got != tt.want {
				t.Errorf("Target() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEmptyChartHasRange(t *testing.T) {
	c := BuildChart(nil, nil)
	if c.Max != 1 || c.Min != 0 {
		t.Errorf("range = [%v, %v], want [0, 1]", c.Min, c.Max)
	}
	if c.TargetY != 100 {
		t.Errorf("TargetY = %v, want 100", c.TargetY)
	}
}

func TestAscendingKeepsUndatedNextToNeighbour(t *testing.T) {
	undated := models.WeightEntry{ValueKg: 77}
	// newest first, with an undated reading between the 9th and the 5th
	got := Ascending([]models.WeightEntry{dated(76, 9), undated, dated(78, 5), dated(79, 1)})

	want := []float64{79, 78, 77, 76}
	for i, w := range want {
		if got[i].ValueKg != w {
			t.Fatalf("Ascending() = %v, want values %v", got, want)
		}
	}
}

func TestNewest(t *testing.T) {
	c := BuildChart([]models.WeightEntry{dated(78, 9), dated(79, 5)}, nil)
	newest := c.Newest()
	if newest[0].ValueKg != 78 || c.Entries[0].ValueKg != 79 {
		t.Errorf("Newest() = %v, Entries = %v", newest, c.Entries)
	}
}

func TestTrackerKeepsNewestFetch(t *testing.T) {
	var tr Tracker
	older := tr.Begin()
	newer := tr.Begin()

	if !tr.Commit(newer, []models.WeightEntry{dated(70, 2)}) {
		t.Fatal("newest fetch rejected")
	}
	if tr.Commit(older, []models.WeightEntry{dated(90, 1)}) {
		t.Error("superseded fetch accepted")
	}
	if got := tr.Chart(nil).Current; got != 70 {
		t.Errorf("Current = %v, want 70", got)
	}

	tr.Reset()
	if tr.Loaded() {
		t.Error("Loaded() after Reset")
	}
}
