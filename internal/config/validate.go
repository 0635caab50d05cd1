package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError lists every invalid variable at once.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid environment variables:\n  " + strings.Join(e.Problems, "\n  ")
}

func validate(cfg *Config) error {
	v := validator.New()
	// ошибки называем по имени переменной окружения
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if name := fld.Tag.Get("env"); name != "" {
			return name
		}
		return fld.Name
	})

	err := v.Struct(cfg)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	problems := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		problems = append(problems, problem(fe))
	}
	return &ValidationError{Problems: problems}
}

func problem(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_unless":
		return fmt.Sprintf("%s: required", fe.Field())
	case "url":
		return fmt.Sprintf("%s: must be a valid URL", fe.Field())
	case "email":
		return fmt.Sprintf("%s: must contain valid e-mail addresses", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s: must be one of %s", fe.Field(), fe.Param())
	case "min":
		return fmt.Sprintf("%s: must be at least %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s: failed on '%s'", fe.Field(), fe.Tag())
	}
}
