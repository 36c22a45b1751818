package errors

import (
	"math"
	"unicode"
)

// maxIDLength bounds entity and session identifiers.
const maxIDLength = 128

// ValidateID validates an opaque node, pin, wire or session identifier.
//
// The rules are intentionally conservative:
//   - No empty ids
//   - No control characters or whitespace
//   - Maximum length of 128 characters
func ValidateID(kind, id string) error {
	if id == "" {
		return New(ErrCodeInvalidID, "%s id cannot be empty", kind)
	}
	if len(id) > maxIDLength {
		return New(ErrCodeInvalidID, "%s id too long (max %d characters)", kind, maxIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidID, "%s id %q contains invalid characters", kind, id)
		}
	}
	return nil
}

// ValidateGridSize validates a grid cell size. It must be finite and positive.
func ValidateGridSize(size float64) error {
	if math.IsNaN(size) || math.IsInf(size, 0) {
		return New(ErrCodeInvalidConfig, "grid size must be finite")
	}
	if size <= 0 {
		return New(ErrCodeInvalidConfig, "grid size must be positive, got %g", size)
	}
	return nil
}

// ValidateFinite validates that every value is a finite number.
// It is used on coordinates arriving from untrusted event sources.
func ValidateFinite(what string, values ...float64) error {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return New(ErrCodeInvalidInput, "%s must be finite", what)
		}
	}
	return nil
}
