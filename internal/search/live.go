package search

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"mizan/internal/constants"
)

const DefaultDebounce = 300 * time.Millisecond

// LiveResult - What a search-as-you-type session pushes back for one query
type LiveResult struct {
	Seq      uint64                   `json:"seq"`
	Query    string                   `json:"query"`
	Headings []constants.HeadingMatch `json:"headings"`
	Hadiths  []constants.HadithMatch  `json:"hadiths"`
}

// Session - Search-as-you-type. Queries are debounced; a new query cancels the one before it and
// results of superseded queries are never delivered.
type Session struct {
	engine   *Engine
	debounce time.Duration
	logger   *zap.Logger

	latest Latest
	mu     sync.Mutex
	timer  *time.Timer
	ctx    context.Context
	stop   context.CancelFunc
	out    chan LiveResult
}

func NewSession(parent context.Context, engine *Engine, debounce time.Duration, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, stop := context.WithCancel(parent)
	return &Session{
		engine:   engine,
		debounce: debounce,
		logger:   logger,
		ctx:      ctx,
		stop:     stop,
		out:      make(chan LiveResult, 1),
	}
}

// Results - Receives one LiveResult per query that survived. Not closed; select on Done as well.
func (s *Session) Results() <-chan LiveResult {
	return s.out
}

func (s *Session) Done() <-chan struct{} {
	return s.ctx.Done()
}

// Current - whether seq is still the latest query (a consumer can use it to drop a result it was slow to handle)
func (s *Session) Current(seq uint64) bool {
	return s.latest.IsCurrent(seq)
}

// Submit - Queue a query. Anything submitted earlier and not yet delivered is dropped.
func (s *Session) Submit(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctx.Err() != nil {
		return
	}

	if s.timer != nil {
		s.timer.Stop()
	}
	ctx, seq := s.latest.Begin(s.ctx)
	s.timer = time.AfterFunc(s.debounce, func() {
		s.run(ctx, seq, query)
	})
}

func (s *Session) run(ctx context.Context, seq uint64, query string) {
	if ctx.Err() != nil {
		return
	}
	res := LiveResult{
		Seq:      seq,
		Query:    query,
		Headings: s.engine.SearchHeadings(ctx, query),
		Hadiths:  s.engine.SearchHadiths(ctx, query),
	}
	if !s.latest.Finish(seq) {
		s.logger.Debug("Dropping stale live search", zap.String("query", query), zap.Uint64("seq", seq))
		return
	}

	select {
	case s.out <- res:
	case <-s.ctx.Done():
	}
}

// Close - Stop the session, cancelling any pending or running search
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.latest.Stop()
	s.stop()
}
