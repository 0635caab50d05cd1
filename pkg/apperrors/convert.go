package apperrors

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"
)

const redactedMessage = "An unexpected error occurred"

// Driver diagnostics kept in metadata. MetadataDBMessage is raw driver
// text and is stripped from client payloads in production.
const (
	MetadataDBCode    = "db_code"
	MetadataDBMessage = "db_message"
)

// Hook observes every conversion: original is what was caught, converted
// is what will be shown. Hooks must not modify converted.
type Hook func(ctx context.Context, original error, converted *AppError)

// Converter normalizes any failure into an *AppError. It holds no state
// between calls and is safe for concurrent use.
type Converter struct {
	production bool
	logger     func(ctx context.Context) *slog.Logger
	hooks      []Hook
}

type ConverterOption func(*Converter)

// WithLogger sets the request-scoped logger source.
func WithLogger(fn func(ctx context.Context) *slog.Logger) ConverterOption {
	return func(c *Converter) { c.logger = fn }
}

// WithHook adds an observer (metrics, error reporting).
func WithHook(h Hook) ConverterOption {
	return func(c *Converter) { c.hooks = append(c.hooks, h) }
}

// NewConverter builds a converter for the given environment mode.
// Only "development" and "test" reveal raw error messages.
func NewConverter(env string, opts ...ConverterOption) *Converter {
	c := &Converter{
		production: IsProductionEnv(env),
		logger:     func(context.Context) *slog.Logger { return slog.Default() },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// IsProductionEnv treats every mode except development and test as production.
func IsProductionEnv(env string) bool {
	return env != "development" && env != "test"
}

// Production reports whether messages of unknown errors are redacted.
func (c *Converter) Production() bool {
	return c.production
}

// Normalize converts err, in this order: AppError passthrough, structured
// validation errors, database driver errors, everything else.
// A nil err yields nil.
func (c *Converter) Normalize(ctx context.Context, err error) *AppError {
	if err == nil {
		return nil
	}
	if isNilAppError(err) {
		err = errNilAppError
	}

	converted := c.convert(err)
	c.observe(ctx, err, converted)
	return converted
}

func (c *Converter) convert(err error) *AppError {
	if appErr, ok := AsAppError(err); ok {
		return appErr
	}

	if issues, ok := validationIssues(err); ok {
		return ValidationIssues(issues)
	}

	if de, ok := AsDriverError(err); ok {
		return fromDriverError(de, err)
	}

	msg := redactedMessage
	if !c.production {
		msg = err.Error()
		if msg == "" {
			msg = "Unknown error"
		}
	}
	return New(KindInternal, msg, 0, WithCause(err))
}

// errNilAppError stands in for a typed-nil *AppError stored in an error.
var errNilAppError = stderrors.New("nil *AppError")

func isNilAppError(err error) bool {
	var appErr *AppError
	return As(err, &appErr) && appErr == nil
}

// external is the client view of appErr for this mode.
func (c *Converter) external(appErr *AppError) External {
	ext := appErr.ToExternal()
	if c.production && ext.Metadata != nil {
		delete(ext.Metadata, MetadataDBMessage)
		if len(ext.Metadata) == 0 {
			ext.Metadata = nil
		}
	}
	return ext
}

func validationIssues(err error) ([]Issue, bool) {
	var lister IssueLister
	if As(err, &lister) {
		return lister.Issues(), true
	}
	var verrs validator.ValidationErrors
	if As(err, &verrs) {
		return IssuesFromValidator(verrs), true
	}
	return nil, false
}

func fromDriverError(de *DriverError, cause error) *AppError {
	md := map[string]any{MetadataDBCode: de.Code}
	switch de.Class {
	case DriverErrorUnique:
		target := de.Target
		if target == "" {
			target = "value"
		}
		return New(KindConflict, fmt.Sprintf("A record with this %s already exists", target), 0,
			WithField(de.Target), WithMetadata(md), WithCause(cause))
	case DriverErrorNotFound:
		return New(KindNotFound, "Record not found", 0, WithMetadata(md), WithCause(cause))
	case DriverErrorForeignKey:
		return New(KindValidation, "Invalid reference to related record", 0, WithMetadata(md), WithCause(cause))
	default:
		md[MetadataDBMessage] = de.Message
		return New(KindInternal, "Database error", 0, WithMetadata(md), WithCause(cause))
	}
}

func (c *Converter) observe(ctx context.Context, original error, converted *AppError) {
	log := c.logger(ctx)
	attrs := []any{
		"error", original.Error(),
		"kind", converted.Kind,
		"status", converted.StatusCode,
	}
	if converted.Operational {
		log.Warn("request failed", attrs...)
	} else {
		log.Error("unexpected error", attrs...)
	}

	for _, h := range c.hooks {
		h(ctx, original, converted)
	}
}
