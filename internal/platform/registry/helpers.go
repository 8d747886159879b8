// internal/platform/registry/helpers.go
package registry

import (
	"fmt"
	"time"
)

// Validation helpers compartidos por las factories de sources y el
// cargador de catálogos.

// ValidateRequiredString validates that a required string field is not empty.
func ValidateRequiredString(fieldName, value string) error {
	if value == "" {
		return fmt.Errorf("%s is required and cannot be empty", fieldName)
	}
	return nil
}

// ValidatePositiveInt validates that an int field is positive (> 0).
func ValidatePositiveInt(fieldName string, value int) error {
	if value <= 0 {
		return fmt.Errorf("%s must be positive, got %d", fieldName, value)
	}
	return nil
}

// ValidateNonNegativeInt validates that an int field is non-negative (>= 0).
func ValidateNonNegativeInt(fieldName string, value int) error {
	if value < 0 {
		return fmt.Errorf("%s cannot be negative, got %d", fieldName, value)
	}
	return nil
}

// ValidateIntRange validates that an int field is within [min, max].
func ValidateIntRange(fieldName string, value, min, max int) error {
	if value < min || value > max {
		return fmt.Errorf("%s must be between %d and %d, got %d", fieldName, min, max, value)
	}
	return nil
}

// ValidatePositiveDuration validates that a duration is positive.
func ValidatePositiveDuration(fieldName string, value time.Duration) error {
	if value <= 0 {
		return fmt.Errorf("%s must be positive, got %v", fieldName, value)
	}
	return nil
}

// ValidateNonEmptySlice validates that a slice is not empty.
func ValidateNonEmptySlice(fieldName string, value []string) error {
	if len(value) == 0 {
		return fmt.Errorf("%s cannot be empty", fieldName)
	}
	return nil
}

// ValidateEnum validates that a string value is one of the allowed options.
func ValidateEnum(fieldName, value string, allowed []string) error {
	for _, option := range allowed {
		if value == option {
			return nil
		}
	}
	return fmt.Errorf("%s must be one of %v, got %s", fieldName, allowed, value)
}
