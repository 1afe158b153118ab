package pipeline

import (
	"fmt"
	"strings"
)

// SetupKind tags a run-level failure.
type SetupKind string

const (
	KindMissingColumns          SetupKind = "missing_columns"
	KindInvalidInput            SetupKind = "invalid_input"
	KindDestinationUnresolvable SetupKind = "destination_unresolvable"
	KindSearchFailed            SetupKind = "search_failed"
)

// SetupError aborts a run before any contact is processed.
type SetupError struct {
	Kind    SetupKind
	Message string
	Missing []string
	Err     error
}

func (e *SetupError) Error() string {
	msg := e.Message
	if len(e.Missing) > 0 {
		msg = fmt.Sprintf("%s: %s", msg, strings.Join(e.Missing, ", "))
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, msg)
}

func (e *SetupError) Unwrap() error {
	return e.Err
}
