package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/dailylog/internal/constants"
	"github.com/julianstephens/dailylog/internal/logger"
)

// Kind classifies a failure by how the caller has to react to it.
type Kind int

const (
	KindUnknown Kind = iota
	// KindValidation is locally detected bad input; it never reaches the network.
	KindValidation
	// KindSessionExpired means the service rejected the credential and the
	// session has been torn down.
	KindSessionExpired
	// KindRequest means the service answered with a non-success status.
	KindRequest
	// KindTransport means no response was received at all.
	KindTransport
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindSessionExpired:
		return "session-expired"
	case KindRequest:
		return "request-failure"
	case KindTransport:
		return "transport-failure"
	default:
		return "unknown"
	}
}

// Error is the single error shape returned by the gateway and the view layers.
type Error struct {
	Kind    Kind
	Message string
	Status  int
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Kind != KindSessionExpired {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so errors.Is(err, ErrSessionExpired)
// holds for every session-expired error regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// ErrSessionExpired is returned for every authentication rejection.
var ErrSessionExpired = &Error{Kind: KindSessionExpired, Message: constants.MsgSessionExpired}

// Validation builds a KindValidation error.
func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

// Request builds a KindRequest error for a non-success response.
func Request(status int, msg string, err error) *Error {
	if msg == "" {
		msg = constants.MsgRequestFailed
	}
	return &Error{Kind: KindRequest, Status: status, Message: msg, Err: err}
}

// Transport builds a KindTransport error.
func Transport(err error) *Error {
	return &Error{Kind: KindTransport, Message: constants.MsgNetworkError, Err: err}
}

// KindOf reports the kind of err, or KindUnknown when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Message returns the user-facing message for err without wrapped causes.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if stderrors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool {
	return stderrors.As(err, target)
}

// New returns an error that formats as the given text.
func New(text string) error {
	return stderrors.New(text)
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %s", Message(err))
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err, "kind", KindOf(err))
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		if KindOf(err) == KindSessionExpired {
			fmt.Fprintf(os.Stderr, "Run '%s signin' to start a new session.\n", constants.AppName)
		}
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}
