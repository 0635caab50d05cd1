package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"

	"gorm.io/gorm"

	"webstarter/internal/models"
	"webstarter/pkg/apperrors"
)

// SessionCookie - имя cookie с session токеном.
const SessionCookie = "session"

// SessionUser - пользователь текущей сессии.
type SessionUser struct {
	ID    string      `json:"id"`
	Email string      `json:"email"`
	Name  string      `json:"name,omitempty"`
	Role  models.Role `json:"role"`
}

// SessionProvider resolves the session of a request. No session is
// (nil, nil); an error means the lookup itself failed or the session expired.
type SessionProvider interface {
	Session(ctx context.Context, r *http.Request) (*SessionUser, error)
}

// UserFinder is the part of the user repository sessions need.
type UserFinder interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// JWTSessionProvider reads a bearer token or the session cookie and
// reloads the user so role changes apply immediately.
type JWTSessionProvider struct {
	tokens *TokenManager
	users  UserFinder
}

func NewJWTSessionProvider(tokens *TokenManager, users UserFinder) *JWTSessionProvider {
	return &JWTSessionProvider{tokens: tokens, users: users}
}

func (p *JWTSessionProvider) Session(ctx context.Context, r *http.Request) (*SessionUser, error) {
	raw := TokenFromRequest(r)
	if raw == "" {
		return nil, nil
	}

	claims, err := p.tokens.Parse(raw)
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindSessionExpired {
			return nil, err
		}
		// битый токен = анонимный запрос
		return nil, nil
	}

	u, err := p.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &SessionUser{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role}, nil
}

// TokenFromRequest - "Authorization: Bearer <t>" first, then the cookie.
func TokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	if c, err := r.Cookie(SessionCookie); err == nil {
		return c.Value
	}
	return ""
}

type sessionKey struct{}

type sessionCache struct {
	once sync.Once
	load func(context.Context) (*SessionUser, error)
	user *SessionUser
	err  error
}

// BindSession installs a per-request memo: the provider is called at most
// once per request, however many guards run.
func BindSession(r *http.Request, p SessionProvider) *http.Request {
	cache := &sessionCache{
		load: func(ctx context.Context) (*SessionUser, error) { return p.Session(ctx, r) },
	}
	return r.WithContext(context.WithValue(r.Context(), sessionKey{}, cache))
}

// WithSession binds a fixed session (or none), e.g. for background jobs and tests.
func WithSession(ctx context.Context, u *SessionUser) context.Context {
	cache := &sessionCache{load: func(context.Context) (*SessionUser, error) { return u, nil }}
	return context.WithValue(ctx, sessionKey{}, cache)
}

// CurrentSession returns the memoized session; nil when nothing is bound.
func CurrentSession(ctx context.Context) (*SessionUser, error) {
	cache, ok := ctx.Value(sessionKey{}).(*sessionCache)
	if !ok {
		return nil, nil
	}
	cache.once.Do(func() {
		cache.user, cache.err = cache.load(ctx)
	})
	return cache.user, cache.err
}
