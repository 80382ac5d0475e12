package model

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

const extensionNamespace = "x-formgen"

// Keys read from the x-formgen namespace.
const (
	extLabel       = "label"
	extPlaceholder = "placeholder"
	extWidget      = "widget"
	extSection     = "section"
	extLabels      = "labels"
	extOrder       = "order"
	extSections    = "sections"
	extFlags       = "pattern-flags"
)

// namespace merges the nested x-formgen object with flattened x-formgen-*
// keys. Flattened keys win.
func namespace(ext map[string]any) map[string]any {
	if len(ext) == 0 {
		return nil
	}
	out := make(map[string]any)
	if nested, ok := ext[extensionNamespace].(map[string]any); ok {
		for key, value := range nested {
			out[key] = value
		}
	}
	for key, value := range ext {
		if strings.HasPrefix(key, extensionNamespace+"-") {
			out[strings.TrimPrefix(key, extensionNamespace+"-")] = value
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func stringValue(ns map[string]any, key string) string {
	value, ok := ns[key]
	if !ok {
		return ""
	}
	str, _ := CanonicalizeExtensionValue(value)
	return str
}

func stringList(ns map[string]any, key string) []string {
	raw, ok := ns[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if str, ok := item.(string); ok && str != "" {
			out = append(out, str)
		}
	}
	return out
}

func labelMap(ns map[string]any) map[string]string {
	raw, ok := ns[extLabels].(map[string]any)
	if !ok {
		return nil
	}
	out := make(map[string]string, len(raw))
	for key, value := range raw {
		if str, ok := value.(string); ok {
			out[key] = str
		}
	}
	return out
}

func sectionList(ns map[string]any) []Section {
	raw, ok := ns[extSections].([]any)
	if !ok {
		return nil
	}
	var out []Section
	for _, item := range raw {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		id, _ := entry["id"].(string)
		if id == "" {
			continue
		}
		title, _ := entry["title"].(string)
		out = append(out, Section{ID: id, Title: title})
	}
	return out
}

// metadataFromExtensions flattens the scalar entries of the namespace into
// string metadata. Keys that the builder maps onto typed Field attributes are
// left out.
func metadataFromExtensions(ext map[string]any) map[string]string {
	ns := namespace(ext)
	if len(ns) == 0 {
		return nil
	}
	result := make(map[string]string)
	for key, value := range ns {
		switch key {
		case extLabel, extPlaceholder, extWidget, extSection, extLabels, extOrder, extSections:
			continue
		}
		if str, ok := CanonicalizeExtensionValue(value); ok {
			result[key] = str
		}
	}
	if len(result) == 0 {
		return nil
	}
	return result
}

// ParseExtensions returns the scalar x-formgen metadata of an extension map.
func ParseExtensions(ext map[string]any) map[string]string {
	return metadataFromExtensions(ext)
}

// CanonicalizeExtensionValue converts scalar extension values into strings.
func CanonicalizeExtensionValue(value any) (string, bool) {
	switch typed := value.(type) {
	case string:
		return typed, typed != ""
	case bool:
		return strconv.FormatBool(typed), true
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64), true
	case int:
		return strconv.Itoa(typed), true
	case fmt.Stringer:
		return typed.String(), true
	default:
		return "", false
	}
}

func sortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
