package service

import (
	"fmt"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	appErrors "github.com/noah-isme/land-registry-api/pkg/errors"
)

// maxSanitizePasses bounds how many layers of entity encoding Clean peels off.
const maxSanitizePasses = 4

// TextSanitizer strips markup from free-text workflow fields such as remarks and reasons.
type TextSanitizer struct {
	policy *bluemonday.Policy
}

// NewTextSanitizer returns a sanitizer that keeps plain text only.
func NewTextSanitizer() *TextSanitizer {
	return &TextSanitizer{policy: bluemonday.StrictPolicy()}
}

// Clean removes tags and surrounding whitespace. Entities are decoded so stored text reads as
// typed, and the policy runs again on the decoded text until nothing changes. Input that still
// changes after maxSanitizePasses is returned in its escaped form.
func (s *TextSanitizer) Clean(value string) string {
	if s == nil || s.policy == nil {
		return strings.TrimSpace(value)
	}
	current := strings.TrimSpace(value)
	for pass := 0; pass < maxSanitizePasses; pass++ {
		sanitized := s.policy.Sanitize(current)
		next := strings.TrimSpace(html.UnescapeString(sanitized))
		if next == current {
			return next
		}
		current = next
	}
	return strings.TrimSpace(s.policy.Sanitize(current))
}

// CleanPtr cleans value and returns nil when nothing remains.
func (s *TextSanitizer) CleanPtr(value string) *string {
	cleaned := s.Clean(value)
	if cleaned == "" {
		return nil
	}
	return &cleaned
}

// CleanOptional applies CleanPtr to an optional field.
func (s *TextSanitizer) CleanOptional(value *string) *string {
	if value == nil {
		return nil
	}
	return s.CleanPtr(*value)
}

// Required cleans a mandatory field and fails validation when only markup was supplied.
func (s *TextSanitizer) Required(field, value string) (string, error) {
	cleaned := s.Clean(value)
	if cleaned == "" {
		return "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%s is required", field))
	}
	return cleaned, nil
}
