package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/dailylog/internal/models"
)

// credentialForm backs the interactive sign-in and sign-up prompts.
type credentialForm struct {
	Username string
	Password string
	Weight   string
	Target   string
	Height   string
	Gender   models.Gender
	Activity models.ActivityLevel
}

func notBlank(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s cannot be empty", field)
		}
		return nil
	}
}

func positiveNumber(s string) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v <= 0 {
		return fmt.Errorf("enter a number greater than zero")
	}
	return nil
}

func credentialFields(fm *credentialForm) []huh.Field {
	return []huh.Field{
		huh.NewInput().
			Title("Username").
			Value(&fm.Username).
			Validate(notBlank("username")),
		huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(&fm.Password).
			Validate(notBlank("password")),
	}
}

// newSignInForm asks for username and password.
func newSignInForm(fm *credentialForm) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(credentialFields(fm)...),
	).WithTheme(huh.ThemeDracula())
}

// newSignUpForm asks for credentials and the body profile.
func newSignUpForm(fm *credentialForm) *huh.Form {
	genders := make([]huh.Option[models.Gender], 0, len(models.Genders))
	for _, g := range models.Genders {
		genders = append(genders, huh.NewOption(string(g), g))
	}
	levels := make([]huh.Option[models.ActivityLevel], 0, len(models.ActivityLevels))
	for _, a := range models.ActivityLevels {
		levels = append(levels, huh.NewOption(a.Label(), a))
	}

	return huh.NewForm(
		huh.NewGroup(credentialFields(fm)...),
		huh.NewGroup(
			huh.NewInput().
				Title("Weight (kg)").
				Value(&fm.Weight).
				Validate(positiveNumber),
			huh.NewInput().
				Title("Target weight (kg)").
				Value(&fm.Target).
				Validate(positiveNumber),
			huh.NewInput().
				Title("Height (cm)").
				Value(&fm.Height).
				Validate(positiveNumber),
			huh.NewSelect[models.Gender]().
				Title("Gender").
				Options(genders...).
				Value(&fm.Gender),
			huh.NewSelect[models.ActivityLevel]().
				Title("Activity level").
				Options(levels...).
				Value(&fm.Activity),
		),
	).WithTheme(huh.ThemeDracula())
}

// parseFloat reads a form field; blank and malformed values become 0 and
// are rejected by request validation.
func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

func formatFloat(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
