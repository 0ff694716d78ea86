package dispatch

import (
	"errors"
	"fmt"
)

var (
	// ErrGuildOnly is returned by commands that need a guild.
	ErrGuildOnly = errors.New("this command must be used in a guild")
	// ErrDuplicateCommand is returned when two definitions share a name or alias.
	ErrDuplicateCommand = errors.New("duplicate command name or alias")
	// ErrDuplicateComponent is returned when a component id is registered twice.
	ErrDuplicateComponent = errors.New("duplicate component id")

	errEmptyContext = errors.New("context has no invocation")
)

// UserError is an error whose message is meant for the invoking user,
// such as a missing argument or an unmet precondition.
type UserError struct {
	msg string
}

func (e *UserError) Error() string { return e.msg }

// UserErrorf formats a UserError.
func UserErrorf(format string, args ...any) error {
	return &UserError{msg: fmt.Sprintf(format, args...)}
}

// IsUserError reports whether err or anything it wraps is a UserError.
func IsUserError(err error) bool {
	var ue *UserError
	return errors.As(err, &ue)
}

// PanicError wraps a value recovered from a panicking command.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("command panicked: %v", e.Value)
}
