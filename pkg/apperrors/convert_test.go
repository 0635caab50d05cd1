package apperrors

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestConverter(env string, opts ...ConverterOption) *Converter {
	discard := slog.New(slog.NewTextHandler(io.Discard, nil))
	opts = append([]ConverterOption{WithLogger(func(context.Context) *slog.Logger { return discard })}, opts...)
	return NewConverter(env, opts...)
}

type signupInput struct {
	Name  string `validate:"required,max=5"`
	Email string `validate:"required,email"`
}

func TestNormalize_AppErrorPassthrough(t *testing.T) {
	conv := newTestConverter("production")
	original := Forbidden("keep out")

	got := conv.Normalize(context.Background(), fmt.Errorf("wrapped: %w", original))
	assert.Same(t, original, got)
}

func TestNormalize_Nil(t *testing.T) {
	assert.Nil(t, newTestConverter("test").Normalize(context.Background(), nil))
}

func TestNormalize_ValidatorErrors(t *testing.T) {
	err := validator.New().Struct(signupInput{Name: "too long name", Email: "nope"})
	require.Error(t, err)

	got := newTestConverter("production").Normalize(context.Background(), err)
	assert.Equal(t, KindValidation, got.Kind)
	assert.Equal(t, 400, got.StatusCode)
	assert.Equal(t, "Validation failed", got.Message)

	issues, ok := got.Metadata[MetadataIssues].([]Issue)
	require.True(t, ok)
	require.Len(t, issues, 2)
	assert.Equal(t, []string{"Name"}, issues[0].Path)
	assert.Equal(t, "max", issues[0].Code)
	assert.Equal(t, []string{"Email"}, issues[1].Path)
	assert.Equal(t, "email", issues[1].Code)
	assert.Equal(t, "Must be a valid email address", issues[1].Message)
}

type listedIssues []Issue

func (l listedIssues) Error() string   { return "invalid" }
func (l listedIssues) Issues() []Issue { return l }

func TestNormalize_IssueLister(t *testing.T) {
	in := listedIssues{
		{Path: []string{"a"}, Code: "required", Message: "This field is required"},
		{Path: []string{"b", "c"}, Code: "min", Message: "Must be at least 1"},
		{Path: []string{"a"}, Code: "max", Message: "Must be at most 3"},
	}
	got := newTestConverter("test").Normalize(context.Background(), fmt.Errorf("bind: %w", in))
	assert.Equal(t, KindValidation, got.Kind)
	assert.Equal(t, []Issue(in), got.Metadata[MetadataIssues])
}

func TestNormalize_DriverErrors(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		kind        Kind
		status      int
		message     string
		field       string
		dbCode      string
		operational bool
	}{
		{
			name:    "pgx unique with detail",
			err:     &pgconn.PgError{Code: "23505", Detail: "Key (email)=(a@b.c) already exists.", ConstraintName: "users_email_key"},
			kind:    KindConflict, status: 409,
			message: "A record with this email already exists", field: "email", dbCode: "23505", operational: true,
		},
		{
			name:    "pgx unique from constraint name",
			err:     &pgconn.PgError{Code: "23505", ConstraintName: "idx_products_slug", TableName: "products"},
			kind:    KindConflict, status: 409,
			message: "A record with this slug already exists", field: "slug", dbCode: "23505", operational: true,
		},
		{
			name:    "pgx unique without target",
			err:     &pgconn.PgError{Code: "23505"},
			kind:    KindConflict, status: 409,
			message: "A record with this value already exists", field: "", dbCode: "23505", operational: true,
		},
		{
			name:    "lib/pq foreign key",
			err:     &pq.Error{Code: "23503", Detail: `Key (user_id)=(42) is not present in table "users".`},
			kind:    KindValidation, status: 400,
			message: "Invalid reference to related record", dbCode: "23503", operational: true,
		},
		{
			name:    "mysql duplicate entry",
			err:     &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'a@b.c' for key 'users.idx_users_email'"},
			kind:    KindConflict, status: 409,
			message: "A record with this email already exists", field: "email", dbCode: "1062", operational: true,
		},
		{
			name:    "mysql foreign key",
			err:     &mysql.MySQLError{Number: 1452, Message: "Cannot add or update a child row"},
			kind:    KindValidation, status: 400,
			message: "Invalid reference to related record", dbCode: "1452", operational: true,
		},
		{
			name:    "gorm record not found",
			err:     fmt.Errorf("find item: %w", gorm.ErrRecordNotFound),
			kind:    KindNotFound, status: 404,
			message: "Record not found", dbCode: "RECORD_NOT_FOUND", operational: true,
		},
		{
			name:    "sql no rows",
			err:     sql.ErrNoRows,
			kind:    KindNotFound, status: 404,
			message: "Record not found", dbCode: "RECORD_NOT_FOUND", operational: true,
		},
		{
			name:    "gorm duplicated key",
			err:     gorm.ErrDuplicatedKey,
			kind:    KindConflict, status: 409,
			message: "A record with this value already exists", dbCode: "DUPLICATED_KEY", operational: true,
		},
		{
			name:    "gorm foreign key",
			err:     gorm.ErrForeignKeyViolated,
			kind:    KindValidation, status: 400,
			message: "Invalid reference to related record", dbCode: "FOREIGN_KEY_VIOLATED", operational: true,
		},
		{
			name:    "other postgres code",
			err:     &pgconn.PgError{Code: "42P01", Message: `relation "items" does not exist`},
			kind:    KindInternal, status: 500,
			message: "Database error", dbCode: "42P01", operational: false,
		},
	}

	conv := newTestConverter("production")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := conv.Normalize(context.Background(), tt.err)
			assert.Equal(t, tt.kind, got.Kind)
			assert.Equal(t, tt.status, got.StatusCode)
			assert.Equal(t, tt.message, got.Message)
			assert.Equal(t, tt.field, got.Field)
			assert.Equal(t, tt.dbCode, got.Metadata["db_code"])
			assert.Equal(t, tt.operational, got.Operational)
			assert.ErrorIs(t, got, tt.err)
		})
	}
}

func TestNormalize_OtherDriverErrorKeepsDiagnostics(t *testing.T) {
	driverErr := &pgconn.PgError{Code: "42P01", Message: `relation "secret_internal_table" does not exist`}

	tests := []struct {
		env         string
		showMessage bool
	}{
		{"production", false},
		{"development", true},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			conv := newTestConverter(tt.env)

			got := conv.Normalize(context.Background(), driverErr)
			assert.Equal(t, driverErr.Message, got.Metadata[MetadataDBMessage])
			assert.Equal(t, "42P01", got.Metadata[MetadataDBCode])

			w, body := serve(t, conv, func(c *gin.Context) { conv.Respond(c, driverErr) })
			assert.Equal(t, 500, w.Code)
			md, ok := body["metadata"].(map[string]any)
			require.True(t, ok)
			assert.Equal(t, "42P01", md[MetadataDBCode])

			failure := conv.ActionFailure(context.Background(), driverErr)
			assert.Equal(t, "42P01", failure.Metadata[MetadataDBCode])

			if tt.showMessage {
				assert.Equal(t, driverErr.Message, md[MetadataDBMessage])
				assert.Equal(t, driverErr.Message, failure.Metadata[MetadataDBMessage])
			} else {
				assert.NotContains(t, md, MetadataDBMessage)
				assert.NotContains(t, failure.Metadata, MetadataDBMessage)
				assert.NotContains(t, w.Body.String(), "secret_internal_table")
			}
		})
	}
}

func TestNormalize_TypedNilAppError(t *testing.T) {
	var appErr *AppError
	conv := newTestConverter("production")

	got := conv.Normalize(context.Background(), error(appErr))
	require.NotNil(t, got)
	assert.Equal(t, KindInternal, got.Kind)
	assert.Equal(t, 500, got.StatusCode)
	assert.Equal(t, "An unexpected error occurred", got.Message)

	wrapped := conv.Normalize(context.Background(), fmt.Errorf("repo: %w", appErr))
	require.NotNil(t, wrapped)
	assert.Equal(t, KindInternal, wrapped.Kind)

	failure := conv.ActionFailure(context.Background(), error(appErr))
	assert.Equal(t, KindInternal, failure.Kind)

	w := httptest.NewRecorder()
	conv.WriteHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil), error(appErr))
	assert.Equal(t, 500, w.Code)
	assert.JSONEq(t, `{"kind":"INTERNAL_ERROR","message":"An unexpected error occurred"}`, w.Body.String())
}

func TestNormalize_UnknownErrorRedaction(t *testing.T) {
	tests := []struct {
		env     string
		err     error
		message string
	}{
		{"production", errors.New("pq: password authentication failed"), "An unexpected error occurred"},
		{"staging", errors.New("secret path /etc/app"), "An unexpected error occurred"},
		{"", errors.New("secret"), "An unexpected error occurred"},
		{"development", errors.New("nil pointer in handler"), "nil pointer in handler"},
		{"test", errors.New("boom"), "boom"},
		{"development", errors.New(""), "Unknown error"},
	}

	for _, tt := range tests {
		t.Run(tt.env+"/"+tt.message, func(t *testing.T) {
			got := newTestConverter(tt.env).Normalize(context.Background(), tt.err)
			assert.Equal(t, KindInternal, got.Kind)
			assert.Equal(t, 500, got.StatusCode)
			assert.False(t, got.Operational)
			assert.Equal(t, tt.message, got.Message)
		})
	}
}

func TestNormalize_HooksSeeOriginalAndConverted(t *testing.T) {
	var (
		seenOriginal  error
		seenConverted *AppError
	)
	conv := newTestConverter("production", WithHook(func(_ context.Context, original error, converted *AppError) {
		seenOriginal = original
		seenConverted = converted
	}))

	original := errors.New("kaboom")
	got := conv.Normalize(context.Background(), original)

	assert.Same(t, original, seenOriginal)
	assert.Same(t, got, seenConverted)
}

func TestIsProductionEnv(t *testing.T) {
	assert.True(t, IsProductionEnv("production"))
	assert.True(t, IsProductionEnv(""))
	assert.False(t, IsProductionEnv("development"))
	assert.False(t, IsProductionEnv("test"))
}

func TestFieldFromConstraint(t *testing.T) {
	assert.Equal(t, "email", fieldFromConstraint("users_email_key", "users"))
	assert.Equal(t, "email", fieldFromConstraint("idx_users_email", "users"))
	assert.Equal(t, "email", fieldFromConstraint("uni_users_email", "users"))
	assert.Equal(t, "", fieldFromConstraint("users_pkey", "users"))
	assert.Equal(t, "", fieldFromConstraint("", "users"))
}
