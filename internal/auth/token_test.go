package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"webstarter/internal/models"
	"webstarter/pkg/apperrors"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type mockUsers struct {
	mock.Mock
}

func (m *mockUsers) FindByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func testUser() *models.User {
	u := &models.User{Email: "user@example.com", Name: "Demo", Role: models.RoleUser}
	u.ID = "user-1"
	return u
}

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour, "webstarter")

	token, expires, err := tm.Issue(testUser())
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expires, 5*time.Second)

	claims, err := tm.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, models.RoleUser, claims.Role)
}

func TestTokenExpired(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour, "webstarter")
	tm.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, _, err := tm.Issue(testUser())
	require.NoError(t, err)

	tm.now = time.Now
	_, err = tm.Parse(token)
	assert.Equal(t, apperrors.KindSessionExpired, apperrors.KindOf(err))
}

func TestTokenWrongSecret(t *testing.T) {
	token, _, err := NewTokenManager(testSecret, time.Hour, "webstarter").Issue(testUser())
	require.NoError(t, err)

	_, err = NewTokenManager("another-secret-another-secret-xx", time.Hour, "webstarter").Parse(token)
	assert.Equal(t, apperrors.KindUnauthorized, apperrors.KindOf(err))

	_, err = NewTokenManager(testSecret, time.Hour, "webstarter").Parse("garbage")
	assert.Equal(t, apperrors.KindUnauthorized, apperrors.KindOf(err))
}

func TestJWTSessionProvider(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour, "webstarter")
	token, _, err := tm.Issue(testUser())
	require.NoError(t, err)

	users := new(mockUsers)
	users.On("FindByID", mock.Anything, "user-1").Return(testUser(), nil)
	p := NewJWTSessionProvider(tm, users)

	t.Run("bearer header", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer "+token)
		u, err := p.Session(r.Context(), r)
		require.NoError(t, err)
		require.NotNil(t, u)
		assert.Equal(t, "user@example.com", u.Email)
	})

	t.Run("cookie", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
		u, err := p.Session(r.Context(), r)
		require.NoError(t, err)
		require.NotNil(t, u)
	})

	t.Run("no token", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		u, err := p.Session(r.Context(), r)
		assert.NoError(t, err)
		assert.Nil(t, u)
	})

	t.Run("invalid token is anonymous", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer nope")
		u, err := p.Session(r.Context(), r)
		assert.NoError(t, err)
		assert.Nil(t, u)
	})
}

func TestJWTSessionProvider_DeletedUser(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour, "webstarter")
	token, _, err := tm.Issue(testUser())
	require.NoError(t, err)

	users := new(mockUsers)
	users.On("FindByID", mock.Anything, "user-1").Return(nil, gorm.ErrRecordNotFound)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	u, err := NewJWTSessionProvider(tm, users).Session(r.Context(), r)
	assert.NoError(t, err)
	assert.Nil(t, u)
	users.AssertExpectations(t)
}

func TestPasswordHelpers(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)
	assert.True(t, CheckPasswordHash("correct horse", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))

	assert.NoError(t, ValidatePassword("long enough"))
	err = ValidatePassword("short")
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}
