package apperrors

import "fmt"

/*
Фабрики для частых ошибок. Each one pre-fills kind and status code and
takes only what varies between call sites.
*/

func orDefault(message, fallback string) string {
	if message == "" {
		return fallback
	}
	return message
}

// --- Auth ---

func Unauthorized(message string) *AppError {
	return New(KindUnauthorized, orDefault(message, "Unauthorized"), 0)
}

func Forbidden(message string) *AppError {
	return New(KindForbidden, orDefault(message, "Forbidden"), 0)
}

func InvalidCredentials() *AppError {
	return New(KindInvalidCredentials, "Invalid email or password", 0)
}

func SessionExpired() *AppError {
	return New(KindSessionExpired, "Your session has expired, please sign in again", 0)
}

// --- Validation ---

// Validation builds a VALIDATION_ERROR; field and metadata are optional.
func Validation(message, field string, metadata map[string]any) *AppError {
	return New(KindValidation, message, 0, WithField(field), WithMetadata(metadata))
}

func InvalidInput(message, field string) *AppError {
	return New(KindInvalidInput, orDefault(message, "Invalid input"), 0, WithField(field))
}

// ValidationIssues wraps a full issue list. Every issue is kept.
func ValidationIssues(issues []Issue) *AppError {
	return Validation("Validation failed", "", map[string]any{MetadataIssues: issues})
}

// --- Not found ---

// NotFound: "<resource> not found", resource defaults to "Resource".
func NotFound(resource string) *AppError {
	return New(KindNotFound, fmt.Sprintf("%s not found", orDefault(resource, "Resource")), 0)
}

// NotFoundMessage overrides the generated message.
func NotFoundMessage(resource, message string) *AppError {
	if message == "" {
		return NotFound(resource)
	}
	return New(KindNotFound, message, 0)
}

// --- Conflicts ---

func Conflict(message string, metadata map[string]any) *AppError {
	return New(KindConflict, orDefault(message, "Conflict"), 0, WithMetadata(metadata))
}

func AlreadyExists(resource string) *AppError {
	return New(KindAlreadyExists, fmt.Sprintf("%s already exists", orDefault(resource, "Resource")), 0)
}

// --- Rate limiting ---

func RateLimited(message string) *AppError {
	return New(KindRateLimitExceeded, orDefault(message, "Too many requests"), 0)
}

// --- System ---

// Internal is non-operational.
func Internal(message string, metadata map[string]any) *AppError {
	return New(KindInternal, orDefault(message, "Internal server error"), 0, WithMetadata(metadata))
}

// InternalFrom wraps an unexpected error without exposing its text.
func InternalFrom(err error) *AppError {
	return New(KindInternal, "Internal server error", 0, WithCause(err))
}

// Database is non-operational.
func Database(message string, metadata map[string]any) *AppError {
	return New(KindDatabase, orDefault(message, "Database error"), 0, WithMetadata(metadata))
}

func ExternalService(service string, cause error) *AppError {
	return New(KindExternalService, fmt.Sprintf("%s is unavailable", orDefault(service, "External service")), 0,
		WithCause(cause),
		WithMetadata(map[string]any{"service": service}),
	)
}

// --- Бизнес-логика ---

func InsufficientStock(productName string, available int) *AppError {
	return New(KindInsufficientStock, fmt.Sprintf("Insufficient stock for %s", productName), 0,
		WithMetadata(map[string]any{"productName": productName, "available": available}),
	)
}

// PaymentFailed keeps the reason in metadata even when it is empty.
func PaymentFailed(reason string) *AppError {
	return New(KindPaymentFailed, orDefault(reason, "Payment failed"), 0,
		WithMetadata(map[string]any{"reason": reason}),
	)
}

func InvalidState(message string) *AppError {
	return New(KindInvalidState, orDefault(message, "Operation not allowed in the current state"), 0)
}
