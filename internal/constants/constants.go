package constants

import "time"

const (
	AppName           = "dailylog"
	Version           = "v0.1.0"
	DefaultConfigDir  = "~/.config/dailylog"
	DefaultConfigFile = "config.yaml"
	EnvPrefix         = "DAILYLOG_"

	// SessionStorageKey is the single well-known key the persisted session
	// record lives under, whichever backend holds it.
	SessionStorageKey = "daily_log_auth"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// MonthFormat is used by the calendar command (YYYY-MM)
	MonthFormat = "2006-01"

	// Remote service defaults
	DefaultAPIBaseURL = "http://127.0.0.1:8000"
	DefaultAPITimeout = 15 * time.Second

	// Session backends
	BackendKeyring  = "keyring"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendJSON     = "json"

	DefaultSessionBackend = BackendKeyring
	DefaultSessionDBFile  = "session.db"

	// Nutrition defaults
	DefaultSugarLimitG   = 25.0
	SummarySourceServer  = "server"
	SummarySourceLocal   = "local"
	DefaultSummarySource = SummarySourceServer

	// DefaultTargetDeltaKg is subtracted from the current weight when the
	// profile has no usable target.
	DefaultTargetDeltaKg = 5.0

	// CalendarCells is six full weeks.
	CalendarCells = 42

	// User-facing messages
	MsgSessionExpired   = "Session expired. Please sign in again."
	MsgRequestFailed    = "Request failed"
	MsgNetworkError     = "Network error. Is the backend running?"
	MsgInvalidResponse  = "Invalid response from server"
	MsgNoToken          = "No token received"
	MsgSignInFailed     = "Sign in failed"
	MsgSignUpFailed     = "Sign up failed"
	MsgDayLoadFailed    = "Could not load data for this date."
	MsgEnterCredentials = "Enter username and password."
	MsgEnterBody        = "Enter valid weight (kg) and height (cm)."
	MsgEnterTarget      = "Enter valid target weight (kg)."
	MsgEnterWeight      = "Enter a valid weight (kg)."
	MsgEnterSentence    = "Describe a meal or an activity."
	MsgNotSignedIn      = "Not signed in. Run 'dailylog signin' first."
)
