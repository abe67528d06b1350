package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/dailylog/internal/api"
	"github.com/julianstephens/dailylog/internal/cli"
	"github.com/julianstephens/dailylog/internal/config"
	"github.com/julianstephens/dailylog/internal/constants"
	"github.com/julianstephens/dailylog/internal/errors"
	"github.com/julianstephens/dailylog/internal/gateway"
	"github.com/julianstephens/dailylog/internal/logger"
	"github.com/julianstephens/dailylog/internal/session"
	"github.com/julianstephens/dailylog/internal/storage"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Config file path. Defaults to ~/.config/dailylog/config.yaml when present." type:"path"`
	Debug   bool   `help:"Log debug output to stderr as well as the log file."`

	Tui      cli.TuiCmd      `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Signin   cli.SignInCmd   `cmd:"" name:"signin" help:"Sign in to the daily log service."`
	Signup   cli.SignUpCmd   `cmd:"" name:"signup" help:"Create an account and sign in."`
	Signout  cli.SignOutCmd  `cmd:"" name:"signout" help:"Forget the stored session."`
	Whoami   cli.WhoAmICmd   `cmd:"" help:"Show the signed-in profile."`
	Log      cli.LogCmd      `cmd:"" help:"Log a meal or activity in plain words."`
	Today    cli.TodayCmd    `cmd:"" help:"Show the nutrition summary for a day."`
	Weight   cli.WeightCmd   `cmd:"" help:"Track body weight."`
	Calendar cli.CalendarCmd `cmd:"" help:"Show a month and the selected day."`
	Doctor   cli.DoctorCmd   `cmd:"" help:"Run health checks and diagnostics."`
	DebugCmd cli.DebugCmd    `cmd:"" name:"debug" help:"Debug commands for troubleshooting."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Log meals, activities and weight against the Daily Log service"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.Formatf("%v", err))
		os.Exit(1)
	}
	if CLI.Debug {
		cfg.Log.Debug = true
	}

	if err := logger.Init(logger.Config{Debug: cfg.Log.Debug, ConfigDir: cfg.Dir}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: file logging disabled: %v\n", err)
	}

	path, err := cfg.SessionPath()
	if err != nil {
		errors.Fatal(err)
	}
	store, err := storage.Open(cfg.Session.Backend, path)
	if err != nil {
		if errors.Is(err, storage.ErrEmbeddedCredentials) {
			fmt.Fprintf(os.Stderr, "❌ Error: PostgreSQL connection strings with embedded credentials are NOT allowed.\n")
			fmt.Fprintf(os.Stderr, "       Use a .pgpass file or PGPASSWORD instead, e.g. \"postgresql://user@host:5432/dailylog\"\n")
			os.Exit(1)
		}
		errors.Fatal(err)
	}
	defer store.Close()

	// Without working storage the session still lives for this process.
	records := storage.RecordStore(store)
	if err := store.Init(); err != nil {
		logger.Warn("Session storage unavailable", "backend", cfg.Session.Backend, "error", err)
		fmt.Fprintf(os.Stderr, "⚠ Session storage (%s) unavailable; sign-ins will not be remembered.\n", store.GetConfigPath())
		records = nil
	}

	sessions := session.New(records, cfg.Session.Key)
	sessions.Restore()

	gw := gateway.New(cfg.API.BaseURL, cfg.API.Timeout, sessions)
	appCtx := &cli.Context{
		Config:   cfg,
		Store:    store,
		Sessions: sessions,
		Client:   api.New(gw, sessions),
	}

	if err := ctx.Run(appCtx); err != nil {
		store.Close()
		errors.Fatal(err)
	}
}
