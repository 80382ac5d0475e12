package validation

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrInvalid is matched by every ValidationError.
var ErrInvalid = errors.New("validation: draft is invalid")

// Violations maps a field path to one human-readable message.
type Violations map[string]string

// Empty reports whether no violation was recorded.
func (v Violations) Empty() bool { return len(v) == 0 }

// Paths returns the violated paths in sorted order.
func (v Violations) Paths() []string {
	paths := make([]string, 0, len(v))
	for path := range v {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// Filter keeps the violations whose path satisfies keep.
func (v Violations) Filter(keep func(path string) bool) Violations {
	out := Violations{}
	for path, message := range v {
		if keep(path) {
			out[path] = message
		}
	}
	return out
}

// Issues converts the mapping into a sorted slice.
func (v Violations) Issues() []Issue {
	issues := make([]Issue, 0, len(v))
	for _, path := range v.Paths() {
		issues = append(issues, Issue{Field: path, Message: v[path]})
	}
	return issues
}

// Issue is one violation in list form.
type Issue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Result captures a validation outcome for API responses.
type Result struct {
	Valid      bool       `json:"valid"`
	Violations Violations `json:"violations"`
	Issues     []Issue    `json:"issues,omitempty"`
}

// NewResult builds a Result from a mapping.
func NewResult(v Violations) Result {
	if v == nil {
		v = Violations{}
	}
	return Result{Valid: v.Empty(), Violations: v, Issues: v.Issues()}
}

// ValidationError reports a rejected submission.
type ValidationError struct {
	Violations Violations
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Violations) == 0 {
		return ErrInvalid.Error()
	}
	parts := make([]string, 0, len(e.Violations))
	for _, path := range e.Violations.Paths() {
		parts = append(parts, fmt.Sprintf("%s: %s", path, e.Violations[path]))
	}
	return fmt.Sprintf("%s (%s)", ErrInvalid.Error(), strings.Join(parts, "; "))
}

// Is matches ErrInvalid.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalid
}

// Check returns a *ValidationError when v is not empty.
func Check(v Violations) error {
	if v.Empty() {
		return nil
	}
	return &ValidationError{Violations: v}
}
