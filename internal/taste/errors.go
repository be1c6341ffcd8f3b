package taste

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidAnswers is matched by every *ValidationError.
	ErrInvalidAnswers = errors.New("invalid quiz answers")
	ErrUnknownLabel   = errors.New("unknown taste type")
	ErrInvalidCatalog = errors.New("invalid taste catalog")
	// ErrStalePlan means a retake plan no longer matches the profile it was computed for.
	ErrStalePlan = errors.New("retake plan is stale")
)

// ValidationError lists what is wrong with a submitted answer set. All lists are sorted.
type ValidationError struct {
	Missing       []string `json:"missing,omitempty"`
	Extra         []string `json:"extra,omitempty"`
	InvalidChoice []string `json:"invalid_choice,omitempty"`
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	parts := make([]string, 0, 3)
	if len(e.Missing) > 0 {
		parts = append(parts, fmt.Sprintf("missing %s", strings.Join(e.Missing, ",")))
	}
	if len(e.Extra) > 0 {
		parts = append(parts, fmt.Sprintf("unexpected %s", strings.Join(e.Extra, ",")))
	}
	if len(e.InvalidChoice) > 0 {
		parts = append(parts, fmt.Sprintf("invalid choice for %s", strings.Join(e.InvalidChoice, ",")))
	}
	return ErrInvalidAnswers.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidAnswers }

func (e *ValidationError) empty() bool {
	return len(e.Missing) == 0 && len(e.Extra) == 0 && len(e.InvalidChoice) == 0
}
