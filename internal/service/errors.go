package service

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingRequiredField is matched by every FieldError.
	ErrMissingRequiredField = errors.New("missing required field")
	// ErrStoreUnavailable wraps any failure reported by the database.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// FieldError lists the required form fields that were left blank.
type FieldError struct {
	Fields []string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingRequiredField, strings.Join(e.Fields, ", "))
}

func (e *FieldError) Is(target error) bool {
	return target == ErrMissingRequiredField
}

type requiredField struct {
	name  string
	value string
}

// requireFields returns a FieldError naming every blank field, in order.
func requireFields(fields ...requiredField) error {
	var missing []string
	for _, field := range fields {
		if strings.TrimSpace(field.value) == "" {
			missing = append(missing, field.name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return &FieldError{Fields: missing}
}

func storeError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
}
