package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/dailylog/internal/constants"
	"github.com/julianstephens/dailylog/internal/keyring"
	"github.com/julianstephens/dailylog/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *Context) error {
	model := tui.NewModel(ctx.Client, ctx.Sessions, ctx.Policy(), ctx.Today())
	p := tea.NewProgram(model, tea.WithAltScreen())

	unsubscribe := tui.ForwardSessions(p, ctx.Sessions)
	defer unsubscribe()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

type DoctorCmd struct {
	Timeout time.Duration `help:"How long to wait for the service." default:"5s"`
}

func (cmd *DoctorCmd) Run(ctx *Context) error {
	ctx.printf("Running diagnostics...\n\n")
	hasError := false

	// Check 1: session storage reachable
	if err := ctx.Store.Load(); err != nil {
		ctx.printf("❌ Session storage (%s): FAIL\n", ctx.Store.GetConfigPath())
		ctx.printf("   Error: %v\n", err)
		hasError = true
	} else {
		ctx.printf("✓ Session storage (%s): OK\n", ctx.Store.GetConfigPath())
	}

	// Check 2: OS keyring (warning only unless it is the backend)
	if keyring.IsAvailable() {
		ctx.printf("✓ OS keyring: OK\n")
	} else if ctx.Config != nil && ctx.Config.Session.Backend == constants.BackendKeyring {
		ctx.printf("❌ OS keyring: FAIL\n")
		ctx.printf("   Set session.backend to sqlite or json in %s\n", constants.DefaultConfigFile)
		hasError = true
	} else {
		ctx.printf("⚠ OS keyring: WARNING (not available)\n")
	}

	// Check 3: signed-in session
	sess := ctx.Sessions.Current()
	switch {
	case !sess.Valid():
		ctx.printf("⚠ Session: WARNING (not signed in)\n")
	default:
		if exp, ok := ctx.Sessions.ExpiresAt(); ok {
			ctx.printf("✓ Session: OK (%s, expires %s)\n", sess.Username(), exp.Local().Format(time.RFC1123))
		} else {
			ctx.printf("✓ Session: OK (%s)\n", sess.Username())
		}
	}

	// Check 4: service reachable
	baseURL := constants.DefaultAPIBaseURL
	if ctx.Config != nil {
		baseURL = ctx.Config.API.BaseURL
	}
	if status, err := probe(baseURL, cmd.Timeout); err != nil {
		ctx.printf("❌ Service %s: FAIL\n", baseURL)
		ctx.printf("   Error: %s\n", constants.MsgNetworkError)
		hasError = true
	} else {
		ctx.printf("✓ Service %s: OK (HTTP %d)\n", baseURL, status)
	}

	// Check 5: clock sanity
	if now := time.Now(); now.Year() < 2020 || now.Year() > 2100 {
		ctx.printf("❌ Clock/timezone: FAIL\n")
		ctx.printf("   Error: system time appears incorrect: %s\n", now.Format(time.RFC3339))
		hasError = true
	} else {
		ctx.printf("✓ Clock/timezone: OK\n")
	}

	ctx.printf("\n")
	if hasError {
		return fmt.Errorf("diagnostics failed")
	}
	ctx.printf("All checks passed.\n")
	return nil
}

// probe reports the HTTP status of the service root. Any answer counts as reachable.
func probe(baseURL string, timeout time.Duration) (int, error) {
	c, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(c, http.MethodGet, baseURL+"/", nil)
	if err != nil {
		return 0, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return 0, err
	}
	resp.Body.Close()
	return resp.StatusCode, nil
}

type DebugCmd struct {
	Paths DebugPathsCmd `cmd:"" help:"Show configuration and session storage locations."`
}

type DebugPathsCmd struct{}

func (cmd *DebugPathsCmd) Run(ctx *Context) error {
	output := map[string]string{
		"session": ctx.Store.GetConfigPath(),
	}
	if ctx.Config != nil {
		output["config_dir"] = ctx.Config.Dir
		output["backend"] = ctx.Config.Session.Backend
		output["api"] = ctx.Config.API.BaseURL
	}

	jsonBytes, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}

	ctx.printf("%s\n", jsonBytes)
	return nil
}
