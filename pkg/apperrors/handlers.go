package apperrors

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Respond - основная логика обработки ошибок для Gin: converts err and
// writes status = StatusCode, body = ToExternal() with raw driver text
// dropped in production. The handler chain is aborted. It never panics and always writes a response.
func (c *Converter) Respond(ctx *gin.Context, err error) {
	appErr := c.Normalize(ctx.Request.Context(), err)
	if appErr == nil {
		appErr = InternalFrom(nil)
	}
	ctx.AbortWithStatusJSON(appErr.StatusCode, c.external(appErr))
}

// WriteHTTP is Respond for plain net/http handlers.
func (c *Converter) WriteHTTP(w http.ResponseWriter, r *http.Request, err error) {
	appErr := c.Normalize(r.Context(), err)
	if appErr == nil {
		appErr = InternalFrom(nil)
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(appErr.StatusCode)
	if encErr := json.NewEncoder(w).Encode(c.external(appErr)); encErr != nil {
		c.logger(r.Context()).Error("failed to encode error response", slog.String("error", encErr.Error()))
	}
}

// ErrorMiddleware turns errors attached with ctx.Error() into a response
// when the handler itself did not write one.
func (c *Converter) ErrorMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Next()

		if len(ctx.Errors) == 0 || ctx.Writer.Written() {
			return
		}
		c.Respond(ctx, ctx.Errors.Last().Err)
	}
}

// RecoveryMiddleware converts panics into an internal error response.
func (c *Converter) RecoveryMiddleware() gin.HandlerFunc {
	return gin.CustomRecovery(func(ctx *gin.Context, recovered any) {
		err, ok := recovered.(error)
		if !ok {
			err = &panicError{value: recovered}
		}
		c.Respond(ctx, err)
	})
}

type panicError struct {
	value any
}

func (p *panicError) Error() string {
	if s, ok := p.value.(string); ok {
		return "panic: " + s
	}
	b, _ := json.Marshal(p.value)
	return "panic: " + string(b)
}
