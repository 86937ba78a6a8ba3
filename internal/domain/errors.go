package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound signals that a referenced project does not exist. Callers
// map it to a 404 or return to a safe list view.
var ErrNotFound = errors.New("project not found")

// ErrSuggestionUnavailable marks any failure to obtain a suggestion
// from the model server. Callers degrade to manual entry instead of
// aborting the edit flow.
var ErrSuggestionUnavailable = errors.New("suggestion service unavailable")

// ValidationError names the record and field that failed the shape check
// and the constraint it violated. Index is the position within the child
// collection, or -1 for the overview.
type ValidationError struct {
	Kind       string
	Index      int
	Field      string
	Constraint string
}

func (e *ValidationError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%s.%s: %s", e.Kind, e.Field, e.Constraint)
	}
	return fmt.Sprintf("%s[%d].%s: %s", e.Kind, e.Index, e.Field, e.Constraint)
}

func invalid(kind string, index int, field, constraint string) error {
	return &ValidationError{Kind: kind, Index: index, Field: field, Constraint: constraint}
}
