package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/eshaffer321/booking-go/pkg/booking"
)

// Exit codes
const (
	ExitSuccess       = 0
	ExitFailed        = 1
	ExitUsage         = 2
	ExitLoginRequired = 3
	ExitAPIError      = 4
)

// ErrLoginRequired is returned when a command needs a session and has none
var ErrLoginRequired = errors.New("login required")

// ExitError is an error that carries an exit code
type ExitError struct {
	Code    int
	Message string
	Cause   error
}

func (e *ExitError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Cause
}

// ExitCode maps err to a process exit code
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	if errors.Is(err, ErrLoginRequired) || booking.IsAuthError(err) {
		return ExitLoginRequired
	}

	if _, ok := booking.AsError(err); ok {
		return ExitAPIError
	}

	return ExitFailed
}

// ReportError prints err unless the user has already seen it as a toast
func ReportError(w io.Writer, err error) {
	if err == nil {
		return
	}

	if _, ok := booking.AsError(err); ok {
		return
	}

	fmt.Fprintln(w, "Error:", err.Error())
}
