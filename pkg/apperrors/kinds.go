package apperrors

import "net/http"

// Kind - stable identifier of a failure category. Clients match on these
// values, so a published Kind is never renamed.
type Kind string

const (
	// Аутентификация и авторизация
	KindUnauthorized       Kind = "UNAUTHORIZED"
	KindForbidden          Kind = "FORBIDDEN"
	KindInvalidCredentials Kind = "INVALID_CREDENTIALS"
	KindSessionExpired     Kind = "SESSION_EXPIRED"

	// Валидация
	KindValidation   Kind = "VALIDATION_ERROR"
	KindInvalidInput Kind = "INVALID_INPUT"

	// Ресурсы
	KindNotFound         Kind = "NOT_FOUND"
	KindResourceNotFound Kind = "RESOURCE_NOT_FOUND"

	// Конфликты
	KindConflict      Kind = "CONFLICT"
	KindAlreadyExists Kind = "ALREADY_EXISTS"

	KindRateLimitExceeded Kind = "RATE_LIMIT_EXCEEDED"

	// Системные ошибки
	KindInternal        Kind = "INTERNAL_ERROR"
	KindDatabase        Kind = "DATABASE_ERROR"
	KindExternalService Kind = "EXTERNAL_SERVICE_ERROR"

	// Бизнес-логика
	KindInsufficientStock Kind = "INSUFFICIENT_STOCK"
	KindPaymentFailed     Kind = "PAYMENT_FAILED"
	KindInvalidState      Kind = "INVALID_STATE"
)

var kindStatus = map[Kind]int{
	KindUnauthorized:       http.StatusUnauthorized,
	KindForbidden:          http.StatusForbidden,
	KindInvalidCredentials: http.StatusUnauthorized,
	KindSessionExpired:     http.StatusUnauthorized,

	KindValidation:   http.StatusBadRequest,
	KindInvalidInput: http.StatusBadRequest,

	KindNotFound:         http.StatusNotFound,
	KindResourceNotFound: http.StatusNotFound,

	KindConflict:      http.StatusConflict,
	KindAlreadyExists: http.StatusConflict,

	KindRateLimitExceeded: http.StatusTooManyRequests,

	KindInternal:        http.StatusInternalServerError,
	KindDatabase:        http.StatusInternalServerError,
	KindExternalService: http.StatusBadGateway,

	KindInsufficientStock: http.StatusBadRequest,
	KindPaymentFailed:     http.StatusPaymentRequired,
	KindInvalidState:      http.StatusConflict,
}

// Kinds returns the closed set of failure kinds.
func Kinds() []Kind {
	return []Kind{
		KindUnauthorized, KindForbidden, KindInvalidCredentials, KindSessionExpired,
		KindValidation, KindInvalidInput,
		KindNotFound, KindResourceNotFound,
		KindConflict, KindAlreadyExists,
		KindRateLimitExceeded,
		KindInternal, KindDatabase, KindExternalService,
		KindInsufficientStock, KindPaymentFailed, KindInvalidState,
	}
}

// Valid reports whether k belongs to the taxonomy.
func (k Kind) Valid() bool {
	_, ok := kindStatus[k]
	return ok
}

// StatusCode returns the transport status documented for k.
// Unknown kinds map to 500.
func (k Kind) StatusCode() int {
	if code, ok := kindStatus[k]; ok {
		return code
	}
	return http.StatusInternalServerError
}

// DefaultOperational is false only for internal and database failures.
func (k Kind) DefaultOperational() bool {
	return k != KindInternal && k != KindDatabase
}

func (k Kind) String() string {
	return string(k)
}
