package search

import (
	"context"
	"sync"
)

// Latest - Latest-request-wins bookkeeping. Each Begin stamps a new generation and cancels the
// context handed out by the previous one; only the current generation may deliver results.
type Latest struct {
	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
}

// Begin - Start a new request, superseding (and cancelling) whatever was in flight
func (l *Latest) Begin(parent context.Context) (context.Context, uint64) {
	ctx, cancel := context.WithCancel(parent)

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		l.cancel()
	}
	l.gen++
	l.cancel = cancel
	return ctx, l.gen
}

// IsCurrent - whether gen is still the newest request
func (l *Latest) IsCurrent(gen uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return gen == l.gen
}

// Finish - Release a request's context. Reports whether its results should be used.
func (l *Latest) Finish(gen uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if gen != l.gen {
		return false
	}
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	return true
}

// Stop - Cancel the in-flight request and make every outstanding generation stale
func (l *Latest) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.gen++
}
