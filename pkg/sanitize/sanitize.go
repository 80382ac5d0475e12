// Package sanitize strips markup from free-text form inputs.
package sanitize

import (
	"html"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

// Text removes every HTML element from raw and returns plain text. Entities
// escaped by the policy are decoded again so "Tom & Jerry" survives intact;
// the renderer escapes on output.
func Text(raw string) string {
	if raw == "" {
		return ""
	}
	return html.UnescapeString(textSanitizer().Sanitize(raw))
}

func textSanitizer() *bluemonday.Policy {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return textPolicy
}
