package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
	ErrNotFound      = errors.New("not found")
	ErrPreflight     = errors.New("preflight failed")
	ErrLocked        = errors.New("output locked")
	ErrTransient     = errors.New("transient failure")
)

// Run statuses persisted in history.
const (
	StatusCompleted = "completed"
	StatusPartial   = "partial"
	StatusCanceled  = "canceled"
	StatusAborted   = "aborted"
	StatusFailed    = "failed"
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later status classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// RunStatus maps the error that ended a run to the status recorded for it.
// A nil error with failed items is "partial"; callers pass failed > 0 for that.
func RunStatus(err error, failed int) string {
	switch {
	case err == nil && failed == 0:
		return StatusCompleted
	case err == nil:
		return StatusPartial
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return StatusCanceled
	case errors.Is(err, ErrValidation), errors.Is(err, ErrConfiguration),
		errors.Is(err, ErrNotFound), errors.Is(err, ErrPreflight), errors.Is(err, ErrLocked):
		return StatusAborted
	default:
		return StatusFailed
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
