package recommend

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidCombination is returned when the engine meets a combination that
// breaks a catalog invariant. It never skips such entries.
var ErrInvalidCombination = errors.New("invalid combination")

// FieldProblem describes one rejected request field
type FieldProblem struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError reports request fields outside the accepted contract
type ValidationError struct {
	Problems []FieldProblem `json:"problems"`
}

// NewValidationError builds a ValidationError for a single field
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Problems: []FieldProblem{{Field: field, Message: message}}}
}

func (e *ValidationError) Error() string {
	if len(e.Problems) == 0 {
		return "invalid request"
	}
	parts := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		parts[i] = fmt.Sprintf("%s %s", p.Field, p.Message)
	}
	return "invalid request: " + strings.Join(parts, "; ")
}

// Fields returns the names of the rejected fields in report order
func (e *ValidationError) Fields() []string {
	fields := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		fields[i] = p.Field
	}
	return fields
}

// NotFoundError is returned when a combination id is absent from the catalog
type NotFoundError struct {
	ID int `json:"id"`
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("combination %d not found", e.ID)
}

// IsValidation reports whether err is or wraps a *ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsNotFound reports whether err is or wraps a *NotFoundError
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
