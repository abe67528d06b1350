package cli

import (
	"context"
	"time"

	"github.com/julianstephens/dailylog/internal/api"
	"github.com/julianstephens/dailylog/internal/errors"
	"github.com/julianstephens/dailylog/internal/models"
)

type SignInCmd struct {
	Username string `arg:"" optional:"" help:"Account username."`
	Password string `help:"Account password. Prompted for when omitted." env:"DAILYLOG_PASSWORD"`
}

func (cmd *SignInCmd) Run(ctx *Context) error {
	fm := &credentialForm{Username: cmd.Username, Password: cmd.Password}
	if fm.Username == "" || fm.Password == "" {
		if err := newSignInForm(fm).Run(); err != nil {
			return err
		}
	}

	sess, err := ctx.Client.SignIn(context.Background(), models.SignInRequest{
		Username: fm.Username,
		Password: fm.Password,
	})
	return ctx.reportSignIn(sess, err)
}

type SignUpCmd struct {
	Username string  `arg:"" optional:"" help:"Account username."`
	Password string  `help:"Account password. Prompted for when omitted." env:"DAILYLOG_PASSWORD"`
	Weight   float64 `help:"Current weight in kg."`
	Target   float64 `help:"Target weight in kg."`
	Height   float64 `help:"Height in cm."`
	Gender   string  `help:"male, female or other." default:"male"`
	Activity string  `help:"sedentary, low, moderate, high or very_high." default:"moderate"`
}

func (cmd *SignUpCmd) Run(ctx *Context) error {
	gender, err := models.ParseGender(cmd.Gender)
	if err != nil {
		return errors.Validation(err.Error())
	}
	activity, err := models.ParseActivityLevel(cmd.Activity)
	if err != nil {
		return errors.Validation(err.Error())
	}

	fm := &credentialForm{
		Username: cmd.Username,
		Password: cmd.Password,
		Weight:   formatFloat(cmd.Weight),
		Target:   formatFloat(cmd.Target),
		Height:   formatFloat(cmd.Height),
		Gender:   gender,
		Activity: activity,
	}
	if fm.Username == "" || fm.Password == "" || cmd.Weight == 0 || cmd.Target == 0 || cmd.Height == 0 {
		if err := newSignUpForm(fm).Run(); err != nil {
			return err
		}
	}

	sess, err := ctx.Client.SignUp(context.Background(), models.SignUpRequest{
		Username:       fm.Username,
		Password:       fm.Password,
		WeightKg:       parseFloat(fm.Weight),
		TargetWeightKg: parseFloat(fm.Target),
		HeightCm:       parseFloat(fm.Height),
		Gender:         fm.Gender,
		ActivityLevel:  fm.Activity,
	})
	return ctx.reportSignIn(sess, err)
}

func (c *Context) reportSignIn(sess models.Session, err error) error {
	if err != nil && !errors.Is(err, api.ErrNotPersisted) {
		return err
	}
	c.printf("✓ Signed in as %s\n", sess.Username())
	if err != nil {
		c.printf("⚠ %v\n", err)
	}
	return nil
}

type SignOutCmd struct{}

func (cmd *SignOutCmd) Run(ctx *Context) error {
	sess := ctx.Sessions.Current()
	if sess.Anonymous() {
		ctx.printf("Not signed in.\n")
		return nil
	}
	ctx.Client.SignOut()
	ctx.printf("✓ Signed out %s\n", sess.Username())
	return nil
}

type WhoAmICmd struct{}

func (cmd *WhoAmICmd) Run(ctx *Context) error {
	sess, err := ctx.RequireSession()
	if err != nil {
		return err
	}

	p := sess.Profile
	ctx.printf("User:      %s\n", p.Username)
	if p.WeightKg > 0 {
		ctx.printf("Weight:    %s\n", FormatKg(p.WeightKg))
	}
	if target, ok := p.Target(); ok {
		ctx.printf("Target:    %s\n", FormatKg(target))
	}
	if p.HeightCm > 0 {
		ctx.printf("Height:    %.0f cm\n", p.HeightCm)
	}
	if p.Gender != "" {
		ctx.printf("Gender:    %s\n", p.Gender)
	}
	if p.ActivityLevel != "" {
		ctx.printf("Activity:  %s\n", p.ActivityLevel.Label())
	}
	if exp, ok := ctx.Sessions.ExpiresAt(); ok {
		ctx.printf("Expires:   %s\n", exp.Local().Format(time.RFC1123))
	}
	if ctx.Store != nil {
		ctx.printf("Stored in: %s\n", ctx.Store.GetConfigPath())
	}
	return nil
}
