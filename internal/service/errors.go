package service

import (
	"errors"
	"fmt"
)

// maxRawLen caps how much of a model response a PlanParseError carries.
const maxRawLen = 2048

// ErrEmptyQuery rejects planning requests with no usable input.
var ErrEmptyQuery = errors.New("query must not be empty")

// ErrEmptySnippet rejects comparison requests with no reference code.
var ErrEmptySnippet = errors.New("snippet must not be empty")

// ErrNoSearchTerms means a snippet contained nothing worth searching for.
var ErrNoSearchTerms = errors.New("snippet yielded no searchable tokens")

// PlanningServiceError reports that the language-model call itself failed.
// The model never produced output; retrying later may succeed.
type PlanningServiceError struct {
	Provider string
	Err      error
}

func (e *PlanningServiceError) Error() string {
	return fmt.Sprintf("planning service (%s): %v", e.Provider, e.Err)
}

func (e *PlanningServiceError) Unwrap() error {
	return e.Err
}

// PlanParseError reports that the model responded but the output could not
// be turned into a usable plan. Raw carries the (truncated) response for
// diagnostics.
type PlanParseError struct {
	Reason string
	Raw    string
}

func (e *PlanParseError) Error() string {
	return fmt.Sprintf("plan parse: %s", e.Reason)
}

// newPlanParseError truncates raw so log lines and API errors stay bounded.
func newPlanParseError(reason, raw string) *PlanParseError {
	if len(raw) > maxRawLen {
		raw = raw[:maxRawLen]
	}
	return &PlanParseError{Reason: reason, Raw: raw}
}

// IsPlanParse reports whether err is a plan-parse failure.
func IsPlanParse(err error) bool {
	var target *PlanParseError
	return errors.As(err, &target)
}

// IsPlanningService reports whether err is a planning-service failure.
func IsPlanningService(err error) bool {
	var target *PlanningServiceError
	return errors.As(err, &target)
}
