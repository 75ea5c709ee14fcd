package apperrors

import (
	"errors"
	"sort"
	"strings"

	"gorm.io/gorm"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrUniquenessViolation = errors.New("uniqueness violation")
)

// ValidationErrors maps a form field name to its message. Static and
// template-synthesized fields are reported the same way.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	keys := make([]string, 0, len(v))
	for key := range v {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+": "+v[key])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (v ValidationErrors) Add(field, message string) {
	if _, exists := v[field]; !exists {
		v[field] = message
	}
}

func (v ValidationErrors) HasErrors() bool {
	return len(v) > 0
}

// AsValidation unwraps err into ValidationErrors when it carries them.
func AsValidation(err error) (ValidationErrors, bool) {
	var verrs ValidationErrors
	if errors.As(err, &verrs) {
		return verrs, true
	}
	return nil, false
}

// IsUniqueViolation reports duplicate-key failures from either driver. gorm
// translates them when TranslateError is set; the string checks cover
// connections opened without it.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || errors.Is(err, ErrUniquenessViolation) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound)
}
