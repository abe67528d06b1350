// Package logger writes the application log to a rotating file under the
// config directory. Every key/value pair passes through Redact first, so a
// session credential cannot reach the log by accident.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/julianstephens/dailylog/internal/constants"
)

// Logger is the process-wide logger; nil until Init and safe to leave nil.
var Logger *log.Logger

// Redacted replaces sensitive values.
const Redacted = "[redacted]"

type Config struct {
	Debug     bool
	ConfigDir string
	// Output replaces the rotating file, e.g. a buffer in tests.
	Output io.Writer
}

// Init points Logger at <ConfigDir>/logs/dailylog.log, or at cfg.Output.
func Init(cfg Config) error {
	writer := cfg.Output
	if writer == nil {
		logDir := filepath.Join(cfg.ConfigDir, "logs")
		if err := os.MkdirAll(logDir, 0o700); err != nil {
			return err
		}
		writer = &lumberjack.Logger{
			Filename:   filepath.Join(logDir, constants.AppName+".log"),
			MaxSize:    5, // megabytes
			MaxBackups: 3,
			MaxAge:     14, // days
			Compress:   true,
		}
		if cfg.Debug {
			writer = io.MultiWriter(os.Stderr, writer)
		}
	}

	level := log.InfoLevel
	if cfg.Debug {
		level = log.DebugLevel
	}

	Logger = log.NewWithOptions(writer, log.Options{
		ReportCaller:    cfg.Debug,
		ReportTimestamp: true,
		Level:           level,
		Prefix:          constants.AppName,
	})
	return nil
}

var sensitiveKeys = []string{"token", "credential", "password", "authorization", "secret"}

var (
	bearerPattern = regexp.MustCompile(`(?i)bearer\s+[^\s"',]+`)
	jwtPattern    = regexp.MustCompile(`eyJ[\w-]*\.[\w-]+\.[\w-]*`)
)

// Redact returns keyvals with sensitive values masked. A value is masked when
// its key names a secret; bearer headers and JWTs inside any string or error
// are masked in place.
func Redact(keyvals ...interface{}) []interface{} {
	out := make([]interface{}, len(keyvals))
	for i := 0; i < len(keyvals); i++ {
		out[i] = keyvals[i]
		if i%2 == 0 {
			continue
		}
		if key, ok := keyvals[i-1].(string); ok && sensitiveKey(key) {
			out[i] = Redacted
			continue
		}
		out[i] = scrubValue(keyvals[i])
	}
	return out
}

func sensitiveKey(key string) bool {
	k := strings.ToLower(key)
	for _, s := range sensitiveKeys {
		if strings.Contains(k, s) {
			return true
		}
	}
	return false
}

func scrubValue(v interface{}) interface{} {
	switch val := v.(type) {
	case string:
		return scrub(val)
	case error:
		if s := val.Error(); scrub(s) != s {
			return scrub(s)
		}
		return val
	case fmt.Stringer:
		if s := val.String(); scrub(s) != s {
			return scrub(s)
		}
		return val
	default:
		return v
	}
}

func scrub(s string) string {
	s = bearerPattern.ReplaceAllString(s, "Bearer "+Redacted)
	return jwtPattern.ReplaceAllString(s, Redacted)
}

func Debug(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Debug(scrub(msg), Redact(keyvals...)...)
	}
}

func Info(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Info(scrub(msg), Redact(keyvals...)...)
	}
}

func Warn(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Warn(scrub(msg), Redact(keyvals...)...)
	}
}

func Error(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Error(scrub(msg), Redact(keyvals...)...)
	}
}

// Fatal logs and exits with status 1 whether or not Logger is set.
func Fatal(msg string, keyvals ...interface{}) {
	Error(msg, keyvals...)
	os.Exit(1)
}
