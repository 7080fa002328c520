package domain

import (
	"errors"
	"fmt"
)

// ErrOperationInFlight is returned when a preview or apply is requested for a
// key that already has an outstanding request.
var ErrOperationInFlight = errors.New("an operation is already in flight for this violation")

// Reasons carried by ValidationError.
const (
	ReasonPathMissing = "cannot fix: file path missing"
	ReasonNotFixable  = "rule is not fixable"
)

// NetworkError is a transport failure: no response was received.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string { return fmt.Sprintf("%s: network error: %v", e.Op, e.Err) }
func (e *NetworkError) Unwrap() error { return e.Err }

// ServerError is a non-2xx response. Detail is the server-provided reason.
type ServerError struct {
	Op         string
	StatusCode int
	Detail     string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("%s: server returned %d: %s", e.Op, e.StatusCode, e.Detail)
}

// ValidationError is raised locally before anything is sent to the server.
type ValidationError struct {
	RuleID string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.RuleID != "" && e.Reason == ReasonNotFixable {
		return fmt.Sprintf("%s: %s", e.Reason, e.RuleID)
	}
	return e.Reason
}

// ParseError is a malformed server payload.
type ParseError struct {
	Op  string
	Err error
}

func (e *ParseError) Error() string { return fmt.Sprintf("%s: malformed response: %v", e.Op, e.Err) }
func (e *ParseError) Unwrap() error { return e.Err }

// RejectedError is a well-formed answer with success=false, e.g. when the
// server has no automatic fix for the file or a dry run produced no diff.
type RejectedError struct {
	Message string
}

func (e *RejectedError) Error() string { return e.Message }

// TransitionError is an event that is not legal from the key's current phase.
type TransitionError struct {
	Event string
	From  Phase
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("the action '%s' is not allowed while the violation is in the '%s' state", e.Event, e.From)
}

// IsNotFixable reports whether err is a ValidationError for a rule outside the allow-list.
func IsNotFixable(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve) && ve.Reason == ReasonNotFixable
}

// IsPathMissing reports whether err is a ValidationError for an empty path.
func IsPathMissing(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve) && ve.Reason == ReasonPathMissing
}

// Reason returns the user-facing reason for a failed operation. Server errors
// yield the server's detail verbatim.
func Reason(err error) string {
	if err == nil {
		return ""
	}
	var se *ServerError
	if errors.As(err, &se) && se.Detail != "" {
		return se.Detail
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Error()
	}
	var re *RejectedError
	if errors.As(err, &re) {
		return re.Message
	}
	return err.Error()
}
