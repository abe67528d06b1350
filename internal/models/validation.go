package models

import (
	"math"
	"strings"

	"github.com/julianstephens/dailylog/internal/constants"
	"github.com/julianstephens/dailylog/internal/errors"
)

// SignInRequest is the body of POST /signin.
type SignInRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate trims the username and rejects empty credentials.
func (r *SignInRequest) Validate() error {
	r.Username = strings.TrimSpace(r.Username)
	if r.Username == "" || r.Password == "" {
		return errors.Validation(constants.MsgEnterCredentials)
	}
	return nil
}

// SignUpRequest is the body of POST /signup.
type SignUpRequest struct {
	Username       string        `json:"username"`
	Password       string        `json:"password"`
	WeightKg       float64       `json:"weight_kg"`
	TargetWeightKg float64       `json:"target_weight_kg"`
	HeightCm       float64       `json:"height_cm"`
	Gender         Gender        `json:"gender"`
	ActivityLevel  ActivityLevel `json:"activity_level"`
}

// Validate applies the sign-up form rules in the order the form reports them.
func (r *SignUpRequest) Validate() error {
	r.Username = strings.TrimSpace(r.Username)
	if r.Username == "" || r.Password == "" {
		return errors.Validation(constants.MsgEnterCredentials)
	}
	if !positive(r.WeightKg) || !positive(r.HeightCm) {
		return errors.Validation(constants.MsgEnterBody)
	}
	if !positive(r.TargetWeightKg) {
		return errors.Validation(constants.MsgEnterTarget)
	}
	if r.Gender == "" {
		r.Gender = GenderMale
	}
	if r.ActivityLevel == "" {
		r.ActivityLevel = ActivityModerate
	}
	if !r.Gender.Valid() {
		return errors.Validation("Choose a gender: male, female or other.")
	}
	if !r.ActivityLevel.Valid() {
		return errors.Validation("Choose an activity level: sedentary, low, moderate, high or very_high.")
	}
	return nil
}

// LogRequest is the body of POST /log_input.
type LogRequest struct {
	Sentence string `json:"sentence"`
}

// Validate trims the sentence and rejects blank input.
func (r *LogRequest) Validate() error {
	r.Sentence = strings.TrimSpace(r.Sentence)
	if r.Sentence == "" {
		return errors.Validation(constants.MsgEnterSentence)
	}
	return nil
}

// WeightRequest is the body of POST /weights.
type WeightRequest struct {
	ValueKg    float64    `json:"value_kg"`
	RecordedAt *Timestamp `json:"recorded_at,omitempty"`
}

// Validate rejects non-positive readings.
func (r WeightRequest) Validate() error {
	if !positive(r.ValueKg) {
		return errors.Validation(constants.MsgEnterWeight)
	}
	return nil
}

func positive(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}
