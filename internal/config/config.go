// Package config loads dailylog settings from defaults, an optional YAML file
// and DAILYLOG_* environment variables, in that order of precedence.
package config

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"

	"github.com/julianstephens/dailylog/internal/constants"
)

type Config struct {
	API struct {
		BaseURL string        `json:"baseURL" yaml:"baseURL"`
		Timeout time.Duration `json:"timeout" yaml:"timeout"`
	} `json:"api" yaml:"api"`

	Session struct {
		// Backend is one of keyring, sqlite, postgres or json.
		Backend string `json:"backend" yaml:"backend"`
		// Path is a file for sqlite/json or a password-free connection
		// string for postgres. Empty picks a file in the config directory.
		Path string `json:"path" yaml:"path"`
		Key  string `json:"key" yaml:"key"`
	} `json:"session" yaml:"session"`

	Nutrition struct {
		SugarLimitG   float64 `json:"sugarLimitG" yaml:"sugarLimitG"`
		SummarySource string  `json:"summarySource" yaml:"summarySource"`
	} `json:"nutrition" yaml:"nutrition"`

	Log struct {
		Debug bool `json:"debug" yaml:"debug"`
	} `json:"log" yaml:"log"`

	// Dir is the resolved configuration directory; it is not read from the file.
	Dir string `json:"-" yaml:"-"`
}

var defaults = map[string]any{
	"api.baseURL":             constants.DefaultAPIBaseURL,
	"api.timeout":             constants.DefaultAPITimeout.String(),
	"session.backend":         constants.DefaultSessionBackend,
	"session.path":            "",
	"session.key":             constants.SessionStorageKey,
	"nutrition.sugarLimitG":   constants.DefaultSugarLimitG,
	"nutrition.summarySource": constants.DefaultSummarySource,
	"log.debug":               false,
}

// Load reads configuration. An empty path means the default config file,
// which may be absent; an explicit path must exist.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = filepath.Join(constants.DefaultConfigDir, constants.DefaultConfigFile)
	}
	path, err := ExpandHome(path)
	if err != nil {
		return nil, err
	}

	k := koanf.New(".")
	for key, value := range defaults {
		if err := k.Set(key, value); err != nil {
			return nil, errors.Wrapf(err, "set default %s", key)
		}
	}

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "read config %s failed", path)
		}
	} else if explicit {
		return nil, errors.Errorf("config file %s not found", path)
	}

	existing := k.Raw()
	if err := k.Load(env.Provider(".", env.Opt{
		Prefix: constants.EnvPrefix,
		TransformFunc: func(key, value string) (string, any) {
			// DAILYLOG_API_BASEURL -> api.baseURL
			return canonicalizeEnvKey(strings.TrimPrefix(key, constants.EnvPrefix), existing), value
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables failed")
	}

	cfg := new(Config)
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
			MatchName: func(mapKey, fieldName string) bool {
				return strings.EqualFold(mapKey, fieldName)
			},
		},
	}); err != nil {
		return nil, errors.Wrap(err, "unmarshal config failed")
	}

	cfg.Dir = filepath.Dir(path)
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) normalize() error {
	c.API.BaseURL = strings.TrimRight(strings.TrimSpace(c.API.BaseURL), "/")
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.Errorf("api.baseURL %q is not an absolute URL", c.API.BaseURL)
	}
	if c.API.Timeout <= 0 {
		return errors.Errorf("api.timeout must be positive, got %s", c.API.Timeout)
	}

	c.Session.Backend = strings.ToLower(strings.TrimSpace(c.Session.Backend))
	switch c.Session.Backend {
	case constants.BackendKeyring, constants.BackendSQLite, constants.BackendPostgres, constants.BackendJSON:
	default:
		return errors.Errorf("session.backend %q is not one of keyring, sqlite, postgres, json", c.Session.Backend)
	}
	if c.Session.Key == "" {
		c.Session.Key = constants.SessionStorageKey
	}
	if c.Session.Backend == constants.BackendPostgres && c.Session.Path == "" {
		return errors.New("session.path must hold a connection string for the postgres backend")
	}

	if c.Nutrition.SugarLimitG <= 0 {
		return errors.Errorf("nutrition.sugarLimitG must be positive, got %v", c.Nutrition.SugarLimitG)
	}
	c.Nutrition.SummarySource = strings.ToLower(strings.TrimSpace(c.Nutrition.SummarySource))
	switch c.Nutrition.SummarySource {
	case constants.SummarySourceServer, constants.SummarySourceLocal:
	default:
		return errors.Errorf("nutrition.summarySource %q is not one of server, local", c.Nutrition.SummarySource)
	}
	return nil
}

// SessionPath resolves where the session record lives for file backends.
func (c *Config) SessionPath() (string, error) {
	switch c.Session.Backend {
	case constants.BackendPostgres:
		return c.Session.Path, nil
	case constants.BackendKeyring:
		return "", nil
	}
	if c.Session.Path != "" {
		return ExpandHome(c.Session.Path)
	}
	name := constants.DefaultSessionDBFile
	if c.Session.Backend == constants.BackendJSON {
		name = "session.json"
	}
	return filepath.Join(c.Dir, name), nil
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "os.UserHomeDir")
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

func canonicalizeEnvKey(rawKey string, existing map[string]any) string {
	segments := strings.Split(strings.ToLower(rawKey), "_")
	canonical := make([]string, 0, len(segments))
	current := existing

	for _, segment := range segments {
		if segment == "" {
			continue
		}

		if matched, next, ok := findExistingSegment(current, segment); ok {
			canonical = append(canonical, matched)
			current = next
		} else {
			canonical = append(canonical, segment)
			current = nil
		}
	}

	return strings.Join(canonical, ".")
}

func findExistingSegment(current map[string]any, segment string) (matched string, next map[string]any, ok bool) {
	if len(current) == 0 {
		return "", nil, false
	}

	needle := normalizeToken(segment)
	for key, value := range current {
		if normalizeToken(key) != needle {
			continue
		}

		child, _ := value.(map[string]any)

		return key, child, true
	}

	return "", nil, false
}

func normalizeToken(s string) string {
	var normalized strings.Builder
	normalized.Grow(len(s))

	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		normalized.WriteRune(unicode.ToLower(r))
	}

	return normalized.String()
}
