package model

import (
	"errors"
	"fmt"
)

// Sentinel errors for upstream collaborator failures. All of them are
// recovered at the turn boundary; no single turn's failure terminates the
// process.
var (
	ErrTranscription = errors.New("transcription failed")
	ErrModelCall     = errors.New("model call failed")
	ErrStorage       = errors.New("storage failed")
)

// SchemaError reports an extraction payload that fails validation even after
// normalization. It names the offending field and triggers the heuristic
// fallback, never reaching the user.
type SchemaError struct {
	Field  string
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("invalid daily events payload: field %q: %s", e.Field, e.Reason)
}

// ReminderParseError reports an event date that cannot be parsed into a
// calendar date. The caller drops the reminder; the event itself is still
// saved.
type ReminderParseError struct {
	Date string
	Err  error
}

func (e *ReminderParseError) Error() string {
	return fmt.Sprintf("unparseable event date %q: %v", e.Date, e.Err)
}

func (e *ReminderParseError) Unwrap() error { return e.Err }
