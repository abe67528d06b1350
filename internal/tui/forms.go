package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/dailylog/internal/constants"
	"github.com/julianstephens/dailylog/internal/errors"
	"github.com/julianstephens/dailylog/internal/models"
)

type authMode string

const (
	authSignIn authMode = "signin"
	authSignUp authMode = "signup"
)

type AuthFormModel struct {
	Mode     authMode
	Username string
	Password string
	Weight   string
	Target   string
	Height   string
	Gender   models.Gender
	Activity models.ActivityLevel
}

type WeightFormModel struct {
	Value string
	Date  string
}

func newAuthForm(fm *AuthFormModel) *huh.Form {
	genders := make([]huh.Option[models.Gender], 0, len(models.Genders))
	for _, g := range models.Genders {
		genders = append(genders, huh.NewOption(string(g), g))
	}
	levels := make([]huh.Option[models.ActivityLevel], 0, len(models.ActivityLevels))
	for _, a := range models.ActivityLevels {
		levels = append(levels, huh.NewOption(a.Label(), a))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[authMode]().
				Title("Daily Log").
				Options(
					huh.NewOption("Sign in", authSignIn),
					huh.NewOption("Create account", authSignUp),
				).
				Value(&fm.Mode),
			huh.NewInput().
				Title("Username").
				Value(&fm.Username),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&fm.Password),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Weight (kg)").
				Value(&fm.Weight),
			huh.NewInput().
				Title("Target weight (kg)").
				Value(&fm.Target),
			huh.NewInput().
				Title("Height (cm)").
				Value(&fm.Height),
			huh.NewSelect[models.Gender]().
				Title("Gender").
				Options(genders...).
				Value(&fm.Gender),
			huh.NewSelect[models.ActivityLevel]().
				Title("Activity level").
				Options(levels...).
				Value(&fm.Activity),
		).WithHideFunc(func() bool { return fm.Mode != authSignUp }),
	).WithTheme(huh.ThemeDracula()).WithShowHelp(false)
}

func newWeightForm(fm *WeightFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Weight (kg)").
				Value(&fm.Value),
			huh.NewInput().
				Title("Date (YYYY-MM-DD, blank for now)").
				Value(&fm.Date),
		),
	).WithTheme(huh.ThemeDracula()).WithShowHelp(false)
}

// number reads a form field; blank and malformed values become 0 and are
// rejected by request validation.
func number(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

func (fm *WeightFormModel) parse(loc *time.Location) (float64, *time.Time, error) {
	value, err := strconv.ParseFloat(strings.TrimSpace(fm.Value), 64)
	if err != nil {
		return 0, nil, errors.Validation(constants.MsgEnterWeight)
	}
	if strings.TrimSpace(fm.Date) == "" {
		return value, nil, nil
	}
	d, err := time.ParseInLocation(constants.DateFormat, strings.TrimSpace(fm.Date), loc)
	if err != nil {
		return 0, nil, errors.Validation(fmt.Sprintf("Invalid date %q, use YYYY-MM-DD.", fm.Date))
	}
	return value, &d, nil
}
