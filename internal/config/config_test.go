package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.API.BaseURL != "http://127.0.0.1:8000" {
		t.Errorf("API.BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 15*time.Second {
		t.Errorf("API.Timeout = %v", cfg.API.Timeout)
	}
	if cfg.Session.Backend != "keyring" || cfg.Session.Key != "daily_log_auth" {
		t.Errorf("Session = %+v", cfg.Session)
	}
	if cfg.Nutrition.SugarLimitG != 25 || cfg.Nutrition.SummarySource != "server" {
		t.Errorf("Nutrition = %+v", cfg.Nutrition)
	}
	if want := filepath.Join(home, ".config", "dailylog"); cfg.Dir != want {
		t.Errorf("Dir = %q, want %q", cfg.Dir, want)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
api:
  baseURL: https://log.example.com/
  timeout: 5s
session:
  backend: sqlite
nutrition:
  sugarLimitG: 30
  summarySource: local
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.API.BaseURL != "https://log.example.com" {
		t.Errorf("API.BaseURL = %q, want trailing slash trimmed", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 5*time.Second {
		t.Errorf("API.Timeout = %v", cfg.API.Timeout)
	}
	if cfg.Nutrition.SugarLimitG != 30 || cfg.Nutrition.SummarySource != "local" {
		t.Errorf("Nutrition = %+v", cfg.Nutrition)
	}

	sessionPath, err := cfg.SessionPath()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(filepath.Dir(path), "session.db"); sessionPath != want {
		t.Errorf("SessionPath() = %q, want %q", sessionPath, want)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "api:\n  baseURL: https://file.example.com\n")
	t.Setenv("DAILYLOG_API_BASEURL", "https://env.example.com")
	t.Setenv("DAILYLOG_NUTRITION_SUGARLIMITG", "40")
	t.Setenv("DAILYLOG_SESSION_BACKEND", "json")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.API.BaseURL != "https://env.example.com" {
		t.Errorf("API.BaseURL = %q, want the env value", cfg.API.BaseURL)
	}
	if cfg.Nutrition.SugarLimitG != 40 {
		t.Errorf("SugarLimitG = %v, want 40", cfg.Nutrition.SugarLimitG)
	}
	sessionPath, _ := cfg.SessionPath()
	if filepath.Base(sessionPath) != "session.json" {
		t.Errorf("SessionPath() = %q, want session.json", sessionPath)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "relative url", body: "api:\n  baseURL: localhost:8000\n"},
		{name: "unknown backend", body: "session:\n  backend: redis\n"},
		{name: "postgres without connection", body: "session:\n  backend: postgres\n"},
		{name: "unknown summary source", body: "nutrition:\n  summarySource: both\n"},
		{name: "zero sugar limit", body: "nutrition:\n  sugarLimitG: 0\n"},
		{name: "negative timeout", body: "api:\n  timeout: -1s\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.body)); err == nil {
				t.Error("Load() error = nil, want a validation error")
			}
		})
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Load() of a missing explicit file should fail")
	}
}

func TestCanonicalizeEnvKey(t *testing.T) {
	existing := map[string]any{
		"api": map[string]any{
			"baseURL": "",
			"timeout": "",
		},
		"nutrition": map[string]any{
			"sugarLimitG":   25,
			"summarySource": "server",
		},
	}

	tests := []struct {
		envKey string
		want   string
	}{
		{envKey: "API_BASEURL", want: "api.baseURL"},
		{envKey: "NUTRITION_SUMMARYSOURCE", want: "nutrition.summarySource"},
		{envKey: "NUTRITION_SUGARLIMITG", want: "nutrition.sugarLimitG"},
		{envKey: "NEW_FEATURE_FLAG", want: "new.feature.flag"},
	}

	for _, tt := range tests {
		t.Run(tt.envKey, func(t *testing.T) {
			if got := canonicalizeEnvKey(tt.envKey, existing); got != tt.want {
				t.Fatalf("canonicalizeEnvKey(%q) = %q, want %q", tt.envKey, got, tt.want)
			}
		})
	}
}

func TestExpandHome(t *testing.T) {
	t.Setenv("HOME", "/home/tester")

	got, err := ExpandHome("~/.config/dailylog")
	if err != nil || got != "/home/tester/.config/dailylog" {
		t.Errorf("ExpandHome() = %q, %v", got, err)
	}
	if got, _ := ExpandHome("/etc/dailylog"); got != "/etc/dailylog" {
		t.Errorf("ExpandHome(absolute) = %q", got)
	}
}
