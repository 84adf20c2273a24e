package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrJobNotFound      = fmt.Errorf("job %w", ErrNotFound)
	ErrProposalNotFound = fmt.Errorf("proposal %w", ErrNotFound)
	ErrUserNotFound     = fmt.Errorf("user %w", ErrNotFound)

	ErrForbidden          = errors.New("access forbidden")
	ErrDuplicateProposal  = errors.New("proposal already submitted for this job")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrStoreUnavailable   = errors.New("record store unavailable")
	ErrPartialCleanup     = errors.New("job deleted but proposal cleanup failed")
	ErrSessionExpired     = errors.New("session expired")
	ErrUnauthenticated    = errors.New("authentication required")
)

// FieldError describes a single rejected field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is returned when a record is missing or has malformed fields.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

// PartialCleanupError reports a job that was removed while some of its
// proposals could not be.
type PartialCleanupError struct {
	JobID string
	Err   error
}

func (e *PartialCleanupError) Error() string {
	return fmt.Sprintf("job %s: %v: %v", e.JobID, ErrPartialCleanup, e.Err)
}

func (e *PartialCleanupError) Unwrap() []error {
	return []error{ErrPartialCleanup, e.Err}
}
