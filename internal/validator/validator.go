package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"webstarter/pkg/apperrors"
)

// ValidationError carries every failed check, in declaration order.
// The error conversion layer recognises it through Issues().
type ValidationError struct {
	issues []apperrors.Issue
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.issues))
	for _, is := range e.issues {
		msgs = append(msgs, strings.Join(is.Path, ".")+": "+is.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Issues() []apperrors.Issue {
	return e.issues
}

var _ apperrors.IssueLister = (*ValidationError)(nil)

// Validator — обертка над go-playground/validator.
type Validator struct {
	validate *validator.Validate
}

// New создает новый экземпляр Validator.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Имена полей берем из json-тегов, чтобы путь в ошибке совпадал с DTO.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	registerCustomRules(v)

	return &Validator{validate: v}
}

// Validate выполняет валидацию структуры.
// Returns *ValidationError when a check fails.
func (v *Validator) Validate(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	return &ValidationError{issues: apperrors.IssuesFromValidator(validationErrors)}
}

// Engine exposes the underlying instance, e.g. for gin's binding.
func (v *Validator) Engine() *validator.Validate {
	return v.validate
}
