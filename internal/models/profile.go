package models

import (
	"fmt"
	"strings"
)

// Gender is the profile's gender as the service spells it.
type Gender string

// ActivityLevel is the self-reported activity level used by the service's
// calorie estimates.
type ActivityLevel string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"

	ActivitySedentary ActivityLevel = "sedentary"
	ActivityLow       ActivityLevel = "low"
	ActivityModerate  ActivityLevel = "moderate"
	ActivityHigh      ActivityLevel = "high"
	ActivityVeryHigh  ActivityLevel = "very_high"
)

// Genders lists the accepted genders in display order.
var Genders = []Gender{GenderMale, GenderFemale, GenderOther}

// ActivityLevels lists the accepted activity levels in display order.
var ActivityLevels = []ActivityLevel{ActivitySedentary, ActivityLow, ActivityModerate, ActivityHigh, ActivityVeryHigh}

func (g Gender) Valid() bool {
	for _, v := range Genders {
		if g == v {
			return true
		}
	}
	return false
}

func (a ActivityLevel) Valid() bool {
	for _, v := range ActivityLevels {
		if a == v {
			return true
		}
	}
	return false
}

// Label returns the human readable form, e.g. "Very high".
func (a ActivityLevel) Label() string {
	s := strings.ReplaceAll(string(a), "_", " ")
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// ParseGender parses a case-insensitive gender name.
func ParseGender(s string) (Gender, error) {
	g := Gender(strings.ToLower(strings.TrimSpace(s)))
	if !g.Valid() {
		return "", fmt.Errorf("invalid gender %q (want male, female or other)", s)
	}
	return g, nil
}

// ParseActivityLevel parses a case-insensitive activity level; "very high"
// and "very-high" are accepted for very_high.
func ParseActivityLevel(s string) (ActivityLevel, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer(" ", "_", "-", "_").Replace(norm)
	a := ActivityLevel(norm)
	if !a.Valid() {
		return "", fmt.Errorf("invalid activity level %q (want sedentary, low, moderate, high or very_high)", s)
	}
	return a, nil
}

// UserProfile is the service's user record. Username is immutable once created.
type UserProfile struct {
	Username       string        `json:"username"`
	WeightKg       float64       `json:"weight_kg"`
	TargetWeightKg *float64      `json:"target_weight_kg"`
	HeightCm       float64       `json:"height_cm"`
	Gender         Gender        `json:"gender"`
	ActivityLevel  ActivityLevel `json:"activity_level"`
}

// Target returns the profile target when it is set and positive.
func (p UserProfile) Target() (float64, bool) {
	if p.TargetWeightKg == nil || *p.TargetWeightKg <= 0 {
		return 0, false
	}
	return *p.TargetWeightKg, true
}

// Clone returns a deep copy so callers never share the target pointer.
func (p UserProfile) Clone() UserProfile {
	if p.TargetWeightKg != nil {
		t := *p.TargetWeightKg
		p.TargetWeightKg = &t
	}
	return p
}

// Float returns a pointer to v; handy for optional profile fields.
func Float(v float64) *float64 {
	return &v
}
