package gateway

import (
	"errors"
	"fmt"
	"html"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/platinummonkey/rococo/pkg/httputil"
	"github.com/platinummonkey/rococo/pkg/media"
)

// Field limits shared by the resources
const (
	minNameLength        = 3
	maxNameLength        = 255
	minDescriptionLength = 10
	maxDescriptionLength = 2000
	maxUserNameLength    = 255
)

// Sanitizer strips markup from free text before it is forwarded
type Sanitizer struct {
	policy *bluemonday.Policy
}

func NewSanitizer() *Sanitizer {
	return &Sanitizer{policy: bluemonday.StrictPolicy()}
}

// maxSanitizePasses bounds the sanitize and unescape loop for nested entities
const maxSanitizePasses = 8

// Text removes every tag and trims the result. Entities escaped by the
// policy are decoded again so plain text round-trips unchanged, and the
// decoded text is sanitized again until it is stable.
func (s *Sanitizer) Text(value string) string {
	out := value
	for i := 0; i < maxSanitizePasses; i++ {
		next := strings.TrimSpace(html.UnescapeString(s.policy.Sanitize(out)))
		if next == out {
			return out
		}
		out = next
	}
	// still decoding into markup: keep the escaped form
	return strings.TrimSpace(s.policy.Sanitize(out))
}

// validator collects field violations so they are reported together
type validator struct {
	maxPhotoBytes int
	violations    []httputil.ErrorDetail
}

func newValidator(maxPhotoBytes int) *validator {
	return &validator{maxPhotoBytes: maxPhotoBytes}
}

func (v *validator) add(field, format string, args ...interface{}) {
	v.violations = append(v.violations, httputil.ErrorDetail{
		Reason:  field,
		Message: fmt.Sprintf(format, args...),
	})
}

// length checks that value has between min and max characters
func (v *validator) length(field, value string, min, max int) {
	n := utf8.RuneCountInString(value)
	if n < min || n > max {
		v.add(field, "%s must be between %d and %d characters", field, min, max)
	}
}

func (v *validator) maxLength(field, value string, max int) {
	if utf8.RuneCountInString(value) > max {
		v.add(field, "%s must be at most %d characters", field, max)
	}
}

func (v *validator) requiredID(field string, id uuid.UUID) {
	if id == uuid.Nil {
		v.add(field, "%s is required", field)
	}
}

// photo checks a data URL. An empty value is a violation only when required.
func (v *validator) photo(field, value string, required bool) {
	if value == "" {
		if required {
			v.add(field, "%s is required", field)
		}
		return
	}
	_, err := media.ParsePhoto(value, v.maxPhotoBytes)
	switch {
	case err == nil:
	case errors.Is(err, media.ErrTooLarge):
		v.add(field, "%s must be at most %d bytes", field, v.maxPhotoBytes)
	case errors.Is(err, media.ErrNotImage):
		v.add(field, "%s must be an image", field)
	default:
		v.add(field, "%s must be a base64 data URL", field)
	}
}

func (v *validator) err() error {
	if len(v.violations) == 0 {
		return nil
	}
	return &ValidationError{Violations: v.violations}
}
