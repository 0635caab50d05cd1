package ratelimit

import (
	"context"
	"sync"
	"time"
)

// defaultMaxKeys bounds the number of tracked keys. Once it is reached
// within a single window, new keys share the overflow bucket.
const defaultMaxKeys = 10000

const overflowKey = "\x00overflow"

type memoryWindow struct {
	start time.Time
	count int64
}

// MemoryLimiter - счетчики в памяти процесса, для одного инстанса и
// когда Redis не настроен.
type MemoryLimiter struct {
	mu      sync.Mutex
	cfg     Config
	windows map[string]*memoryWindow
	maxKeys int
	now     func() time.Time
}

func NewMemoryLimiter(cfg Config) *MemoryLimiter {
	return &MemoryLimiter{
		cfg:     cfg.withDefaults(),
		windows: make(map[string]*memoryWindow),
		maxKeys: defaultMaxKeys,
		now:     time.Now,
	}
}

func (l *MemoryLimiter) Allow(ctx context.Context, key string) (*Result, error) {
	start := windowStart(l.now(), l.cfg.Window)

	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[key]
	if !ok && len(l.windows) >= l.maxKeys {
		l.evict(start)
		if len(l.windows) >= l.maxKeys {
			key = overflowKey
			w, ok = l.windows[key]
		}
	}
	if !ok || !w.start.Equal(start) {
		w = &memoryWindow{start: start}
		l.windows[key] = w
	}
	w.count++
	return result(w.count, l.cfg, start), nil
}

// evict drops windows that already ended. Caller holds mu.
func (l *MemoryLimiter) evict(current time.Time) {
	for k, w := range l.windows {
		if w.start.Before(current) {
			delete(l.windows, k)
		}
	}
}
