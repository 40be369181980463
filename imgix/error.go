package imgix

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/greut/imgix/config"
)

// Parameter level failures.
var (
	ErrUnknownKey   = errors.New("unknown parameter")
	ErrEmptyValue   = errors.New("empty value")
	ErrInvalidValue = errors.New("invalid value")
	ErrReservedKey  = errors.New("reserved parameter")
)

// Builder level failures.
var (
	ErrInvalidHost       = errors.New("invalid host")
	ErrInvalidPath       = errors.New("invalid path")
	ErrConflictingParams = errors.New("conflicting parameters")
	ErrInvalidSourceSet  = errors.New("invalid source set")
)

// ParamError is returned when a parameter is refused by the Store.
type ParamError struct {
	Err    error
	Key    string
	Value  string
	Reason string
}

// Error formats the ParamError message.
func (e *ParamError) Error() string {
	msg := fmt.Sprintf("%s `%s`", e.Err, e.Key)
	if e.Value != "" {
		msg += fmt.Sprintf(": %#v", e.Value)
	}
	if e.Reason != "" {
		msg += " (" + e.Reason + ")"
	}
	return msg
}

// Unwrap exposes the sentinel error.
func (e *ParamError) Unwrap() error {
	return e.Err
}

// BuildError is returned when a Builder cannot be created or rendered.
type BuildError struct {
	Err    error
	Host   string
	Path   string
	Keys   []string
	Reason string
}

// Error formats the BuildError message.
func (e *BuildError) Error() string {
	var msg string
	switch {
	case len(e.Keys) > 0:
		msg = fmt.Sprintf("%s `%s`", e.Err, strings.Join(e.Keys, "`, `"))
	case errors.Is(e.Err, ErrInvalidHost):
		msg = fmt.Sprintf("%s %#v", e.Err, e.Host)
	case errors.Is(e.Err, ErrInvalidPath):
		msg = fmt.Sprintf("%s %#v", e.Err, e.Path)
	default:
		msg = e.Err.Error()
	}
	if e.Reason != "" {
		msg += " (" + e.Reason + ")"
	}
	return msg
}

// Unwrap exposes the sentinel error.
func (e *BuildError) Unwrap() error {
	return e.Err
}

// HTTPError represents a HTTP error to be shown to the user.
type HTTPError struct {
	StatusCode int
	Message    string
}

// Error formats the HTTPError message.
func (e HTTPError) Error() string {
	return fmt.Sprintf("%d (%s) %s", e.StatusCode, http.StatusText(e.StatusCode), e.Message)
}

// asHTTPError maps the builder errors onto a status code.
func asHTTPError(err error) HTTPError {
	var he HTTPError
	if errors.As(err, &he) {
		return he
	}

	if errors.Is(err, config.ErrUnknownPreset) {
		return HTTPError{http.StatusNotFound, err.Error()}
	}

	var pe *ParamError
	var be *BuildError
	if errors.As(err, &pe) || errors.As(err, &be) {
		return HTTPError{http.StatusBadRequest, err.Error()}
	}

	return HTTPError{http.StatusInternalServerError, err.Error()}
}
