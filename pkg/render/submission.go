package render

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Control field names posted alongside the form values.
const (
	ActionFieldName = "_action"
	IndexFieldName  = "_index"
)

// Actions a rendered form can post in ActionFieldName.
const (
	ActionChange      = "change"
	ActionSubmit      = "submit"
	ActionReset       = "reset"
	ActionAddHobby    = "add-hobby"
	ActionRemoveHobby = "remove-hobby"
)

// IsControlField reports whether name is a control input rather than a draft
// field.
func IsControlField(name string) bool {
	return strings.HasPrefix(strings.TrimSpace(name), "_")
}

// HiddenField represents a hidden form input emitted alongside the visible
// fields.
type HiddenField struct {
	Name  string
	Value string
}

// Hidden returns a HiddenField for an arbitrary name/value pair.
func Hidden(name string, value any) HiddenField {
	return HiddenField{
		Name:  strings.TrimSpace(name),
		Value: fmt.Sprint(value),
	}
}

// ActionField selects the action run when the form posts without a button
// value, for example on enter.
func ActionField(action string) HiddenField {
	return Hidden(ActionFieldName, action)
}

// IndexField carries the hobby index targeted by remove-hobby.
func IndexField(index int) HiddenField {
	return Hidden(IndexFieldName, strconv.Itoa(index))
}

// MergeHiddenFields returns a copy of base with the provided fields applied.
// Empty names are ignored; later fields win on name collisions.
func MergeHiddenFields(base map[string]string, fields ...HiddenField) map[string]string {
	if len(base) == 0 && len(fields) == 0 {
		return nil
	}
	out := make(map[string]string, len(base)+len(fields))
	for key, value := range base {
		if trimmed := strings.TrimSpace(key); trimmed != "" {
			out[trimmed] = value
		}
	}
	for _, field := range fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			continue
		}
		out[name] = field.Value
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// SortedHiddenFields normalises and sorts hidden fields for deterministic
// rendering. Empty names are dropped.
func SortedHiddenFields(fields map[string]string) []HiddenField {
	if len(fields) == 0 {
		return nil
	}

	names := make([]string, 0, len(fields))
	clean := make(map[string]string, len(fields))
	for name, value := range fields {
		key := strings.TrimSpace(name)
		if key == "" {
			continue
		}
		if _, seen := clean[key]; !seen {
			names = append(names, key)
		}
		clean[key] = value
	}
	if len(names) == 0 {
		return nil
	}
	sort.Strings(names)

	result := make([]HiddenField, 0, len(names))
	for _, name := range names {
		result = append(result, HiddenField{Name: name, Value: clean[name]})
	}
	return result
}
