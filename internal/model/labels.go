package model

import (
	"regexp"
	"strings"
	"unicode"
)

var wordSeparators = regexp.MustCompile(`[_\-\s.]+`)

// DefaultLabeler turns a field name into a label: "firstName" becomes
// "First name", "birth_date" becomes "Birth date".
func DefaultLabeler(name string) string {
	if name == "" {
		return ""
	}

	var words []string
	for _, chunk := range wordSeparators.Split(name, -1) {
		words = append(words, splitCamel(chunk)...)
	}
	for i, word := range words {
		words[i] = strings.ToLower(word)
	}
	label := strings.Join(words, " ")
	if label == "" {
		return ""
	}
	runes := []rune(label)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func splitCamel(input string) []string {
	var (
		words   []string
		current []rune
	)
	runes := []rune(input)
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) && unicode.IsLower(runes[i-1]) {
			words = append(words, string(current))
			current = current[:0]
		}
		current = append(current, r)
	}
	if len(current) > 0 {
		words = append(words, string(current))
	}
	return words
}
