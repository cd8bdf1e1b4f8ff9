package config

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrCandidateNotFound marks a config candidate that could not be opened. It is never fatal on its own.
	ErrCandidateNotFound = errors.New("configuration file not found")
	// ErrSyntax is returned when a config file exists but cannot be parsed.
	ErrSyntax = errors.New("configuration file contains errors and cannot be parsed")
	// ErrValidation is returned for out-of-range numbers and unrecognised enum values.
	ErrValidation = errors.New("invalid configuration value")
	// ErrNoConfig is returned when every candidate path was missing.
	ErrNoConfig = errors.New("couldn't find any valid configuration files")
	// ErrCLIParse is returned for unknown flags, missing flag arguments and stray arguments.
	ErrCLIParse = errors.New("invalid command line")
	// ErrConflictingFlags is returned when --debug and --quiet are both given.
	ErrConflictingFlags = errors.New("specifying --debug and --quiet at the same time does not make any sense")
)

// Error describes a failed resolution step. Kind is one of the Err* sentinels above,
// so callers can match with errors.Is.
type Error struct {
	Kind    error
	Path    string
	Section string
	Key     string
	Value   string
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Path != "" {
		b.WriteString(e.Path)
		b.WriteString(": ")
	}

	switch {
	case e.Kind == ErrValidation && e.Section != "":
		fmt.Fprintf(&b, "'%s' in section '%s' must be a non-negative value", e.Key, e.Section)
	case e.Kind == ErrValidation && e.Key != "":
		fmt.Fprintf(&b, "invalid value for option '%s': '%s'", e.Key, e.Value)
	default:
		b.WriteString(e.Kind.Error())
	}

	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Is reports whether target is the sentinel this error was classified as.
func (e *Error) Is(target error) bool {
	return target == e.Kind
}

func (e *Error) Unwrap() error {
	return e.Err
}
