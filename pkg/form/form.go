// Package form holds the state of one registration form instance: the draft
// being edited, which fields were changed or visited, and whether a submit
// was attempted. A Form is not safe for concurrent use.
package form

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-regforms/pkg/registration"
	"github.com/goliatone/go-regforms/pkg/validation"
)

var (
	// ErrUnknownField is returned for paths the draft does not have.
	ErrUnknownField = errors.New("form: unknown field")
	// ErrInvalidValue is returned when a value cannot be coerced to the field type.
	ErrInvalidValue = errors.New("form: invalid value")
	// ErrLastHobby is returned when removing the only remaining hobby.
	ErrLastHobby = errors.New("form: cannot remove the last hobby")
	// ErrNoHobbies is returned by hobby operations on variants without hobbies.
	ErrNoHobbies = errors.New("form: variant has no hobbies")
)

// Status is the lifecycle state of a form instance.
type Status string

const (
	StatusEditing   Status = "editing"
	StatusSubmitted Status = "submitted"
)

// Submitter receives drafts that passed validation.
type Submitter interface {
	Submit(ctx context.Context, variant registration.Variant, draft registration.Draft) error
}

// SubmitterFunc adapts a function to Submitter.
type SubmitterFunc func(ctx context.Context, variant registration.Variant, draft registration.Draft) error

// Submit implements Submitter.
func (fn SubmitterFunc) Submit(ctx context.Context, variant registration.Variant, draft registration.Draft) error {
	return fn(ctx, variant, draft)
}

// LogSubmitter logs the redacted draft and accepts it.
func LogSubmitter(logger *zap.Logger) Submitter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return SubmitterFunc(func(_ context.Context, variant registration.Variant, draft registration.Draft) error {
		logger.Info("form submitted",
			zap.String("form", variant.ID),
			zap.Any("draft", draft.Redacted()),
		)
		return nil
	})
}

// Option customises a Form.
type Option func(*Form)

// WithRules overrides the rules derived from the variant.
func WithRules(rules validation.Rules) Option {
	return func(f *Form) {
		f.rules = rules
	}
}

// WithMessages overrides violation messages on top of the current rules.
func WithMessages(messages validation.Messages) Option {
	return func(f *Form) {
		f.rules = f.rules.WithMessages(messages)
	}
}

// WithSubmitter sets the receiver of successful submissions.
func WithSubmitter(submitter Submitter) Option {
	return func(f *Form) {
		if submitter != nil {
			f.submitter = submitter
		}
	}
}

// WithLogger wires a logger used by the default submitter.
func WithLogger(logger *zap.Logger) Option {
	return func(f *Form) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithSanitizer applies fn to free-text inputs before they enter the draft.
func WithSanitizer(fn func(string) string) Option {
	return func(f *Form) {
		f.sanitize = fn
	}
}

// Form is one instance of a registration variant.
type Form struct {
	variant   registration.Variant
	rules     validation.Rules
	draft     registration.Draft
	dirty     map[string]bool
	touched   map[string]bool
	attempted bool
	status    Status

	submitter Submitter
	sanitize  func(string) string
	logger    *zap.Logger
}

// New creates a form seeded with the variant defaults.
func New(variant registration.Variant, opts ...Option) *Form {
	f := &Form{
		variant: variant,
		rules:   validation.RulesFor(variant),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	if f.submitter == nil {
		f.submitter = LogSubmitter(f.logger)
	}
	f.Reset()
	return f
}

// Variant returns the descriptor the form was created with.
func (f *Form) Variant() registration.Variant { return f.variant }

// Rules returns the rules used for validation.
func (f *Form) Rules() validation.Rules { return f.rules }

// Draft returns a copy of the current draft.
func (f *Form) Draft() registration.Draft { return f.draft.Clone() }

// Status returns the lifecycle state.
func (f *Form) Status() Status { return f.status }

// Submitted reports whether the last submit succeeded and nothing changed since.
func (f *Form) Submitted() bool { return f.status == StatusSubmitted }

// Attempted reports whether a submit was attempted since the last reset.
func (f *Form) Attempted() bool { return f.attempted }

// Dirty reports whether path was changed since the last reset.
func (f *Form) Dirty(path string) bool { return f.dirty[path] }

// Touched reports whether path was visited since the last reset.
func (f *Form) Touched(path string) bool { return f.touched[path] }

// Touch marks path as visited.
func (f *Form) Touch(path string) error {
	path = strings.TrimSpace(path)
	if !f.knownPath(path) {
		return fmt.Errorf("%w: %q", ErrUnknownField, path)
	}
	f.touched[path] = true
	return nil
}

// Violations re-evaluates the predicate set against the current draft.
func (f *Form) Violations() validation.Violations {
	return validation.Validate(f.draft, f.rules)
}

// VisibleViolations returns the violations the user should see right now.
func (f *Form) VisibleViolations() validation.Violations {
	all := f.Violations()
	if f.attempted {
		return all
	}
	marks := f.dirty
	if f.variant.Mode == registration.ValidationModeOnTouched {
		marks = f.touched
	}
	return all.Filter(func(path string) bool {
		if marks[path] {
			return true
		}
		if path == validation.FieldHobbies {
			for mark := range marks {
				if strings.HasPrefix(mark, validation.FieldHobbies+".") {
					return true
				}
			}
		}
		return false
	})
}

// Valid reports whether the draft has no violations.
func (f *Form) Valid() bool { return f.Violations().Empty() }

// Pristine reports whether the draft equals the variant defaults.
func (f *Form) Pristine() bool { return f.draft.Equal(f.variant.Defaults()) }

// CanSubmit reports whether the submit action should be offered.
func (f *Form) CanSubmit() bool {
	switch f.variant.Gate {
	case registration.SubmitGateDirty:
		return !f.Pristine()
	default:
		return f.Valid()
	}
}

// Submit validates the draft and hands it to the submitter. Nothing is
// emitted when violations exist; the returned error is a
// *validation.ValidationError in that case.
func (f *Form) Submit(ctx context.Context) (registration.Draft, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	f.attempted = true
	if err := validation.Check(f.Violations()); err != nil {
		return registration.Draft{}, err
	}
	if err := ctx.Err(); err != nil {
		return registration.Draft{}, fmt.Errorf("form: submit: %w", err)
	}
	emitted := f.draft.Clone()
	if err := f.submitter.Submit(ctx, f.variant, emitted.Clone()); err != nil {
		return registration.Draft{}, fmt.Errorf("form: submit: %w", err)
	}
	f.status = StatusSubmitted
	return emitted, nil
}

// Reset restores the variant defaults and clears every mark.
func (f *Form) Reset() {
	f.draft = f.variant.Defaults()
	f.dirty = make(map[string]bool)
	f.touched = make(map[string]bool)
	f.attempted = false
	f.status = StatusEditing
}

// Preview renders the draft as indented JSON.
func (f *Form) Preview() ([]byte, error) {
	raw, err := json.MarshalIndent(f.draft, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("form: preview: %w", err)
	}
	return raw, nil
}

// Values returns the draft keyed by field path, the shape renderers consume.
func (f *Form) Values() map[string]any {
	values := map[string]any{
		validation.FieldName:      f.draft.Name,
		validation.FieldSurname:   f.draft.Surname,
		validation.FieldEmail:     f.draft.Email,
		validation.FieldPassword:  f.draft.Password,
		validation.FieldGender:    f.draft.Gender,
		validation.FieldInterests: append([]string{}, f.draft.Interests...),
		validation.FieldCountry:   f.draft.Country,
		validation.FieldSubscribe: f.draft.Subscribe,
		validation.FieldTerms:     f.draft.AcceptedTerms,
		validation.FieldBio:       f.draft.Bio,
		validation.FieldColor:     f.draft.FavoriteColor,
		validation.FieldBirthDate: f.draft.BirthDate,
	}
	if f.draft.Age != nil {
		values[validation.FieldAge] = *f.draft.Age
	} else {
		values[validation.FieldAge] = nil
	}
	if f.variant.Hobbies {
		hobbies := make([]any, 0, len(f.draft.Hobbies))
		for _, hobby := range f.draft.Hobbies {
			hobbies = append(hobbies, map[string]any{"name": hobby.Name, "level": hobby.Level})
		}
		values[validation.FieldHobbies] = hobbies
	}
	return values
}

func (f *Form) mark(path string) {
	f.dirty[path] = true
	f.touched[path] = true
	f.status = StatusEditing
}
