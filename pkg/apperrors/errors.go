package apperrors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"maps"
)

// AppError - основная структура ошибки приложения.
//
// A single value type covers every Kind; there is no per-kind subtype.
// Values are built once by New (or a constructor) and never mutated
// afterwards: the With* options only apply during construction.
type AppError struct {
	Kind        Kind
	Message     string
	StatusCode  int
	Field       string
	Metadata    map[string]any
	Operational bool

	cause error
}

// Option configures an AppError while it is being built.
type Option func(*AppError)

// WithField names the offending input field.
func WithField(field string) Option {
	return func(e *AppError) { e.Field = field }
}

// WithMetadata merges md into the error metadata.
func WithMetadata(md map[string]any) Option {
	return func(e *AppError) {
		if len(md) == 0 {
			return
		}
		if e.Metadata == nil {
			e.Metadata = make(map[string]any, len(md))
		}
		maps.Copy(e.Metadata, md)
	}
}

// WithOperational overrides the kind's default operational flag.
func WithOperational(operational bool) Option {
	return func(e *AppError) { e.Operational = operational }
}

// WithCause keeps err in the unwrap chain. It is never serialized.
func WithCause(err error) Option {
	return func(e *AppError) { e.cause = err }
}

// New - базовый конструктор. statusCode <= 0 falls back to kind.StatusCode().
func New(kind Kind, message string, statusCode int, opts ...Option) *AppError {
	if statusCode <= 0 {
		statusCode = kind.StatusCode()
	}
	e := &AppError{
		Kind:        kind,
		Message:     message,
		StatusCode:  statusCode,
		Operational: kind.DefaultOperational(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *AppError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.cause
}

// Is matches another *AppError by kind, so sentinel-style comparisons
// like errors.Is(err, apperrors.NotFound("")) work.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Kind == t.Kind
}

// External - client-facing shape of an AppError.
type External struct {
	Kind     Kind           `json:"kind"`
	Message  string         `json:"message"`
	Field    string         `json:"field,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// ToExternal returns the serializable view. Field and metadata are left
// out entirely when they were not supplied.
func (e *AppError) ToExternal() External {
	ext := External{
		Kind:    e.Kind,
		Message: e.Message,
		Field:   e.Field,
	}
	if len(e.Metadata) > 0 {
		ext.Metadata = maps.Clone(e.Metadata)
	}
	return ext
}

// MarshalJSON - для кастомного вывода JSON
func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.ToExternal())
}

// Is - обертка над стандартной функцией errors.Is
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As - обертка над стандартной функцией errors.As
func As(err error, target any) bool {
	return stderrors.As(err, target)
}

// AsAppError - пытается преобразовать error в *AppError
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) && appErr != nil {
		return appErr, true
	}
	return nil, false
}

// IsOperational reports whether err is an expected business failure.
// Anything that is not an AppError counts as unexpected.
func IsOperational(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Operational
	}
	return false
}

// KindOf returns the kind of err, or KindInternal for foreign errors.
func KindOf(err error) Kind {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Kind
	}
	return KindInternal
}
