package analysis

import (
	"errors"
	"fmt"
)

// ErrUnknownAggregate is returned for names not registered in a catalog.
var ErrUnknownAggregate = errors.New("unknown aggregate")

// CategoryNotFoundError reports a lookup of a label that is not in the
// domain of an aggregate result.
type CategoryNotFoundError struct {
	Source string
	Label  string
}

func (e *CategoryNotFoundError) Error() string {
	return fmt.Sprintf("category not found: %q in %s", e.Label, e.Source)
}

func notFound(source, label string) error {
	return &CategoryNotFoundError{Source: source, Label: label}
}

func indexOf(labels []string, label string) int {
	for i, l := range labels {
		if l == label {
			return i
		}
	}
	return -1
}
