// Package ratelimit - ограничение частоты запросов (fixed window).
package ratelimit

import (
	"context"
	"time"
)

// Result of one Allow call.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// Limiter counts one request for key within the window.
type Limiter interface {
	Allow(ctx context.Context, key string) (*Result, error)
}

// Config - лимит на окно.
type Config struct {
	Requests int
	Window   time.Duration
}

func (c Config) withDefaults() Config {
	if c.Requests <= 0 {
		c.Requests = 100
	}
	if c.Window <= 0 {
		c.Window = time.Minute
	}
	return c
}

// windowStart aligns t to the beginning of its fixed window.
func windowStart(t time.Time, window time.Duration) time.Time {
	return t.Truncate(window)
}

func result(count int64, cfg Config, start time.Time) *Result {
	remaining := cfg.Requests - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return &Result{
		Allowed:   count <= int64(cfg.Requests),
		Limit:     cfg.Requests,
		Remaining: remaining,
		ResetAt:   start.Add(cfg.Window),
	}
}
