package apperrors

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// MetadataIssues is the metadata key holding the validation issue list.
const MetadataIssues = "issues"

// Issue - one failed check on one input field.
type Issue struct {
	Path    []string `json:"path"`
	Code    string   `json:"code"`
	Message string   `json:"message"`
}

// IssueLister is implemented by structured validation errors that already
// carry their issues (see internal/validator).
type IssueLister interface {
	error
	Issues() []Issue
}

// IssuesFromValidator converts go-playground errors one-to-one, keeping order.
func IssuesFromValidator(errs validator.ValidationErrors) []Issue {
	issues := make([]Issue, 0, len(errs))
	for _, fe := range errs {
		issues = append(issues, IssueFromFieldError(fe))
	}
	return issues
}

func IssueFromFieldError(fe validator.FieldError) Issue {
	return Issue{
		Path:    fieldPath(fe),
		Code:    fe.Tag(),
		Message: issueMessage(fe),
	}
}

// fieldPath drops the root struct name from the namespace: "CreateItemInput.name" -> ["name"].
func fieldPath(fe validator.FieldError) []string {
	ns := fe.Namespace()
	if ns == "" {
		if fe.Field() == "" {
			return []string{}
		}
		return []string{fe.Field()}
	}
	parts := strings.Split(ns, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	return parts
}

func issueMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Must be a valid email address"
	case "min":
		if isSized(fe.Kind()) {
			return fmt.Sprintf("Must be at least %s characters long", fe.Param())
		}
		return fmt.Sprintf("Must be at least %s", fe.Param())
	case "max":
		if isSized(fe.Kind()) {
			return fmt.Sprintf("Must be at most %s characters long", fe.Param())
		}
		return fmt.Sprintf("Must be at most %s", fe.Param())
	case "len":
		return fmt.Sprintf("Must be exactly %s characters long", fe.Param())
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "url":
		return "Must be a valid URL"
	case "uuid", "uuid4":
		return "Must be a valid UUID"
	default:
		return fmt.Sprintf("Invalid value (failed on '%s' tag)", fe.Tag())
	}
}

func isSized(k reflect.Kind) bool {
	return k == reflect.String || k == reflect.Slice || k == reflect.Map || k == reflect.Array
}
