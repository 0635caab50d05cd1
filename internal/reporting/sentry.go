// Package reporting отправляет неожиданные ошибки в Sentry.
package reporting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"

	"webstarter/internal/logger"
	"webstarter/pkg/apperrors"
)

type Options struct {
	DSN         string
	Environment string
	Release     string
}

// Reporter - no-op when the DSN is empty.
type Reporter struct {
	hub     *sentry.Hub
	capture func(ctx context.Context, err error)
}

func Init(opts Options) (*Reporter, error) {
	r := &Reporter{capture: func(context.Context, error) {}}
	if opts.DSN == "" {
		return r, nil
	}

	client, err := sentry.NewClient(ClientOptions(opts))
	if err != nil {
		return nil, fmt.Errorf("sentry init: %w", err)
	}
	r.hub = sentry.NewHub(client, sentry.NewScope())
	r.capture = r.captureWithHub
	logger.Info("sentry enabled", "environment", opts.Environment)
	return r, nil
}

// ClientOptions - трассировка 10% в production, иначе всё; debug только
// в development.
func ClientOptions(opts Options) sentry.ClientOptions {
	traces := 1.0
	if apperrors.IsProductionEnv(opts.Environment) {
		traces = 0.1
	}
	return sentry.ClientOptions{
		Dsn:              opts.DSN,
		Environment:      opts.Environment,
		Release:          opts.Release,
		SampleRate:       1.0,
		TracesSampleRate: traces,
		Debug:            opts.Environment == "development",
		BeforeSend:       beforeSend,
	}
}

// beforeSend drops operational errors.
func beforeSend(event *sentry.Event, hint *sentry.EventHint) *sentry.Event {
	if hint == nil || hint.OriginalException == nil {
		return event
	}
	if apperrors.IsOperational(hint.OriginalException) {
		return nil
	}
	return event
}

// Hook forwards non-operational errors from the converter.
func (r *Reporter) Hook() apperrors.Hook {
	return func(ctx context.Context, original error, converted *apperrors.AppError) {
		if converted.Operational {
			return
		}
		r.capture(ctx, original)
	}
}

func (r *Reporter) captureWithHub(ctx context.Context, err error) {
	hub := r.hub.Clone()
	hub.WithScope(func(scope *sentry.Scope) {
		if id := logger.GetRequestID(ctx); id != "" {
			scope.SetTag("request_id", id)
		}
		if id := logger.GetUserID(ctx); id != "" {
			scope.SetUser(sentry.User{ID: id})
		}
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			scope.SetTag("kind", string(appErr.Kind))
		}
		hub.CaptureException(err)
	})
}

// Flush ждет отправки событий перед выходом.
func (r *Reporter) Flush(timeout time.Duration) bool {
	if r.hub == nil {
		return true
	}
	return r.hub.Flush(timeout)
}
