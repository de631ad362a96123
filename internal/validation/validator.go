package validation

import (
	"strings"

	"studynote-ai/internal/domain"
)

// Validator provides request validation functionality
type Validator struct {
	maxImageBytes int
}

// NewValidator creates a new validator instance. maxImageBytes <= 0 disables
// the size check.
func NewValidator(maxImageBytes int) *Validator {
	return &Validator{maxImageBytes: maxImageBytes}
}

// ValidateLevel validates the academic level option. Empty means "use the default".
func (v *Validator) ValidateLevel(level string) domain.ValidationErrors {
	var errors domain.ValidationErrors
	if _, ok := domain.ParseLevel(level, domain.DefaultLevel); !ok {
		errors = append(errors, domain.NewInvalidFormatError("level", level))
	}
	return errors
}

// ValidateImage validates one uploaded image part.
func (v *Validator) ValidateImage(mimeType string, size int) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if !isImageMIMEType(mimeType) {
		errors = append(errors, domain.NewInvalidFormatError("image", mimeType))
	}
	if size <= 0 {
		errors = append(errors, domain.NewMissingFieldError("image"))
	} else if v.maxImageBytes > 0 && size > v.maxImageBytes {
		errors = append(errors, domain.NewOutOfRangeError("image", size, 1, v.maxImageBytes))
	}

	return errors
}

// isImageMIMEType accepts any image/* type; the vision model decides what it can read.
func isImageMIMEType(mimeType string) bool {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	return strings.HasPrefix(mimeType, "image/") && len(mimeType) > len("image/")
}
