package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Ошибки, которые возвращают use case'ы
var (
	ErrPropertyNotFound   = errors.New("property not found")
	ErrDraftNotFound      = errors.New("property draft not found")
	ErrSettingsConflict   = errors.New("homepage settings were changed by another administrator")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenInvalid       = errors.New("invalid jwt token")
	ErrForbidden          = errors.New("insufficient role")
	ErrUnknownStep        = errors.New("unknown form step")
	ErrEmptyMessage       = errors.New("chat message is empty")
)

// ValidationError - ошибки заполнения полей одного шага (или настроек).
// Ключ Fields - путь поля, значение - текст ошибки.
type ValidationError struct {
	Step   FormStep
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	if e.Step != "" {
		return fmt.Sprintf("validation failed for step %s: %s", e.Step, strings.Join(parts, "; "))
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(parts, "; "))
}

// Add регистрирует ошибку поля
func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, exists := e.Fields[field]; !exists {
		e.Fields[field] = message
	}
}

// OrNil возвращает nil, если ошибок не накоплено
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

// AsValidationError - удобная обертка над errors.As
func AsValidationError(err error) (*ValidationError, bool) {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr, true
	}
	return nil, false
}
