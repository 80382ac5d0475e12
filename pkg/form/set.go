package form

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-regforms/pkg/registration"
	"github.com/goliatone/go-regforms/pkg/validation"
)

// Set assigns one field. value may be a typed Go value or the string form an
// HTML form submits ("18", "on", a list of strings). Hobby entries are
// addressed as hobbies.<i>.name and hobbies.<i>.level.
func (f *Form) Set(path string, value any) error {
	path = strings.TrimSpace(path)
	switch path {
	case validation.FieldName:
		return f.setText(path, value, &f.draft.Name, true)
	case validation.FieldSurname:
		return f.setText(path, value, &f.draft.Surname, true)
	case validation.FieldEmail:
		return f.setText(path, value, &f.draft.Email, false)
	case validation.FieldPassword:
		return f.setText(path, value, &f.draft.Password, false)
	case validation.FieldBio:
		return f.setText(path, value, &f.draft.Bio, true)
	case validation.FieldGender:
		return f.setText(path, value, &f.draft.Gender, false)
	case validation.FieldCountry:
		return f.setText(path, value, &f.draft.Country, false)
	case validation.FieldColor:
		return f.setText(path, value, &f.draft.FavoriteColor, false)
	case validation.FieldBirthDate:
		if ts, ok := value.(time.Time); ok {
			value = ts.Format(time.DateOnly)
		}
		return f.setText(path, value, &f.draft.BirthDate, false)
	case validation.FieldAge:
		age, err := coerceAge(value)
		if err != nil {
			return fieldError(path, err)
		}
		f.draft.Age = age
	case validation.FieldSubscribe:
		flag, err := coerceBool(value)
		if err != nil {
			return fieldError(path, err)
		}
		f.draft.Subscribe = flag
	case validation.FieldTerms:
		flag, err := coerceBool(value)
		if err != nil {
			return fieldError(path, err)
		}
		f.draft.AcceptedTerms = flag
	case validation.FieldInterests:
		interests, err := coerceStrings(value)
		if err != nil {
			return fieldError(path, err)
		}
		f.draft.Interests = dedupe(interests)
	case validation.FieldHobbies:
		if !f.variant.Hobbies {
			return fmt.Errorf("%w: %q", ErrUnknownField, path)
		}
		hobbies, err := coerceHobbies(value)
		if err != nil {
			return fieldError(path, err)
		}
		f.draft.Hobbies = hobbies
	default:
		return f.setHobbyField(path, value)
	}
	f.mark(path)
	return nil
}

// Apply sets every entry in sorted key order and joins the errors.
func (f *Form) Apply(values map[string]any) error {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var errs []error
	for _, key := range keys {
		if err := f.Set(key, values[key]); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Update applies values like Apply but leaves the marks of paths whose value
// did not change untouched. HTML forms resend every control on each post.
func (f *Form) Update(values map[string]any) error {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var errs []error
	for _, key := range keys {
		path := strings.TrimSpace(key)
		before := f.draft.Clone()
		wasDirty, wasTouched, status := f.dirty[path], f.touched[path], f.status

		if err := f.Set(path, values[key]); err != nil {
			errs = append(errs, err)
			continue
		}
		if !f.draft.Equal(before) {
			continue
		}
		if !wasDirty {
			delete(f.dirty, path)
		}
		if !wasTouched {
			delete(f.touched, path)
		}
		f.status = status
	}
	return errors.Join(errs...)
}

// AppendHobby adds an empty beginner entry.
func (f *Form) AppendHobby() error {
	if !f.variant.Hobbies {
		return ErrNoHobbies
	}
	f.draft.Hobbies = append(f.draft.Hobbies, registration.NewHobby())
	f.mark(validation.FieldHobbies)
	return nil
}

// RemoveHobby deletes the entry at index. The last remaining entry cannot be
// removed.
func (f *Form) RemoveHobby(index int) error {
	if !f.variant.Hobbies {
		return ErrNoHobbies
	}
	if index < 0 || index >= len(f.draft.Hobbies) {
		return fmt.Errorf("%w: hobby index %d", ErrUnknownField, index)
	}
	if len(f.draft.Hobbies) <= 1 {
		return ErrLastHobby
	}
	hobbies := make([]registration.Hobby, 0, len(f.draft.Hobbies)-1)
	hobbies = append(hobbies, f.draft.Hobbies[:index]...)
	hobbies = append(hobbies, f.draft.Hobbies[index+1:]...)
	f.draft.Hobbies = hobbies
	f.dirty = shiftHobbyMarks(f.dirty, index)
	f.touched = shiftHobbyMarks(f.touched, index)
	f.mark(validation.FieldHobbies)
	return nil
}

func (f *Form) setText(path string, value any, dst *string, sanitize bool) error {
	text, err := coerceString(value)
	if err != nil {
		return fieldError(path, err)
	}
	if sanitize && f.sanitize != nil {
		text = f.sanitize(text)
	}
	*dst = text
	f.mark(path)
	return nil
}

func (f *Form) setHobbyField(path string, value any) error {
	index, field, ok := parseHobbyPath(path)
	if !ok || !f.variant.Hobbies || index >= len(f.draft.Hobbies) {
		return fmt.Errorf("%w: %q", ErrUnknownField, path)
	}
	text, err := coerceString(value)
	if err != nil {
		return fieldError(path, err)
	}
	switch field {
	case "name":
		if f.sanitize != nil {
			text = f.sanitize(text)
		}
		f.draft.Hobbies[index].Name = text
	case "level":
		f.draft.Hobbies[index].Level = text
	}
	f.mark(path)
	return nil
}

func (f *Form) knownPath(path string) bool {
	switch path {
	case validation.FieldName, validation.FieldSurname, validation.FieldEmail,
		validation.FieldPassword, validation.FieldAge, validation.FieldGender,
		validation.FieldInterests, validation.FieldCountry, validation.FieldSubscribe,
		validation.FieldTerms, validation.FieldBio, validation.FieldColor,
		validation.FieldBirthDate:
		return true
	case validation.FieldHobbies:
		return f.variant.Hobbies
	}
	index, _, ok := parseHobbyPath(path)
	return ok && f.variant.Hobbies && index < len(f.draft.Hobbies)
}

func parseHobbyPath(path string) (int, string, bool) {
	parts := strings.Split(path, ".")
	if len(parts) != 3 || parts[0] != validation.FieldHobbies {
		return 0, "", false
	}
	index, err := strconv.Atoi(parts[1])
	if err != nil || index < 0 || strconv.Itoa(index) != parts[1] {
		return 0, "", false
	}
	if parts[2] != "name" && parts[2] != "level" {
		return 0, "", false
	}
	return index, parts[2], true
}

// shiftHobbyMarks drops marks of the removed entry and moves later entries
// down by one index.
func shiftHobbyMarks(marks map[string]bool, removed int) map[string]bool {
	out := make(map[string]bool, len(marks))
	for path, set := range marks {
		index, field, ok := parseHobbyPath(path)
		switch {
		case !ok:
			out[path] = set
		case index < removed:
			out[path] = set
		case index > removed:
			out[validation.HobbyPath(index-1, field)] = set
		}
	}
	return out
}

func fieldError(path string, err error) error {
	return fmt.Errorf("form: field %q: %w", path, err)
}

func coerceString(value any) (string, error) {
	switch typed := value.(type) {
	case nil:
		return "", nil
	case string:
		return typed, nil
	case []string:
		if len(typed) == 0 {
			return "", nil
		}
		return typed[len(typed)-1], nil
	case fmt.Stringer:
		return typed.String(), nil
	default:
		return "", fmt.Errorf("%w: expected text, got %T", ErrInvalidValue, value)
	}
}

func coerceAge(value any) (*int, error) {
	switch typed := value.(type) {
	case nil:
		return nil, nil
	case *int:
		if typed == nil {
			return nil, nil
		}
		age := *typed
		return &age, nil
	case int:
		return &typed, nil
	case int64:
		age := int(typed)
		return &age, nil
	case float64:
		if typed != math.Trunc(typed) || math.IsInf(typed, 0) {
			return nil, fmt.Errorf("%w: age must be a whole number", ErrInvalidValue)
		}
		age := int(typed)
		return &age, nil
	case json.Number:
		return coerceAge(typed.String())
	case string, []string:
		text, _ := coerceString(typed)
		text = strings.TrimSpace(text)
		if text == "" {
			return nil, nil
		}
		age, err := strconv.Atoi(text)
		if err != nil {
			return nil, fmt.Errorf("%w: age %q is not a number", ErrInvalidValue, text)
		}
		return &age, nil
	default:
		return nil, fmt.Errorf("%w: expected a number, got %T", ErrInvalidValue, value)
	}
}

func coerceBool(value any) (bool, error) {
	switch typed := value.(type) {
	case nil:
		return false, nil
	case bool:
		return typed, nil
	case string, []string:
		text, _ := coerceString(typed)
		switch strings.ToLower(strings.TrimSpace(text)) {
		case "on", "true", "1", "yes":
			return true, nil
		case "", "off", "false", "0", "no":
			return false, nil
		}
		return false, fmt.Errorf("%w: %q is not a boolean", ErrInvalidValue, text)
	default:
		return false, fmt.Errorf("%w: expected a boolean, got %T", ErrInvalidValue, value)
	}
}

func coerceStrings(value any) ([]string, error) {
	switch typed := value.(type) {
	case nil:
		return []string{}, nil
	case string:
		if typed == "" {
			return []string{}, nil
		}
		return []string{typed}, nil
	case []string:
		return append([]string{}, typed...), nil
	case []any:
		out := make([]string, 0, len(typed))
		for _, item := range typed {
			text, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%w: expected a list of text, got %T entry", ErrInvalidValue, item)
			}
			out = append(out, text)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: expected a list, got %T", ErrInvalidValue, value)
	}
}

func coerceHobbies(value any) ([]registration.Hobby, error) {
	switch typed := value.(type) {
	case nil:
		return []registration.Hobby{}, nil
	case []registration.Hobby:
		return append([]registration.Hobby{}, typed...), nil
	case []any:
		out := make([]registration.Hobby, 0, len(typed))
		for _, item := range typed {
			entry, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%w: expected hobby objects, got %T entry", ErrInvalidValue, item)
			}
			name, err := coerceString(entry["name"])
			if err != nil {
				return nil, err
			}
			level, err := coerceString(entry["level"])
			if err != nil {
				return nil, err
			}
			out = append(out, registration.Hobby{Name: name, Level: level})
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: expected a hobby list, got %T", ErrInvalidValue, value)
	}
}

func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" || seen[value] {
			continue
		}
		seen[value] = true
		out = append(out, value)
	}
	return out
}
