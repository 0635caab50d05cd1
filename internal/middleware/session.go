package middleware

import (
	"github.com/gin-gonic/gin"

	"webstarter/internal/auth"
	"webstarter/internal/logger"
	"webstarter/pkg/apperrors"
)

// SessionMiddleware binds the request-scoped session memo. When a token
// is present the session is resolved here so the user id reaches the
// logs; guards reuse the memoized result.
func SessionMiddleware(provider auth.SessionProvider) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request = auth.BindSession(c.Request, provider)

		if auth.TokenFromRequest(c.Request) != "" {
			// ошибку вернет guard, если маршруту нужна сессия
			if user, err := auth.CurrentSession(c.Request.Context()); err == nil && user != nil {
				c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), user.ID))
			}
		}
		c.Next()
	}
}

// RequireAdmin - middleware для админских групп.
func RequireAdmin(guard *auth.Guard, conv *apperrors.Converter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := guard.RequireAdmin(c.Request.Context()); err != nil {
			conv.Respond(c, err)
			return
		}
		c.Next()
	}
}
