package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"giftshop.GO/catalog"
	"giftshop.GO/core/metrics"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidSort     = errors.New("invalid sort key")
)

// SessionState is what a client sees of its browse session.
type SessionState struct {
	ID     string              `json:"id"`
	Screen catalog.Screen      `json:"screen"`
	Filter catalog.FilterState `json:"filter"`
	Page   catalog.PageState   `json:"page"`
}

type session struct {
	// update orders filter changes so filter and page always agree
	update   sync.Mutex
	id       string
	screen   catalog.Screen
	filter   catalog.FilterState
	pager    *catalog.Paginator
	lastSeen time.Time
}

// Sessions tracks one paginated result list per mounted screen. Every filter
// change recomputes the list synchronously before pagination is reset.
type Sessions struct {
	engine   *catalog.Engine
	shuffler *catalog.Shuffler
	delay    time.Duration
	metrics  *metrics.Metrics
	log      *zap.Logger
	now      func() time.Time
	newID    func() string

	mu       sync.Mutex
	sessions map[string]*session
}

// SessionsOption configures Sessions.
type SessionsOption func(*Sessions)

func WithSessionMetrics(m *metrics.Metrics) SessionsOption {
	return func(s *Sessions) { s.metrics = m }
}
func WithSessionLogger(l *zap.Logger) SessionsOption {
	return func(s *Sessions) { s.log = l }
}
func WithSessionClock(now func() time.Time) SessionsOption {
	return func(s *Sessions) { s.now = now }
}

// NewSessions returns a session store; delay paces LoadMore.
func NewSessions(engine *catalog.Engine, shuffler *catalog.Shuffler, delay time.Duration, opts ...SessionsOption) *Sessions {
	s := &Sessions{
		engine:   engine,
		shuffler: shuffler,
		delay:    delay,
		log:      zap.NewNop(),
		now:      time.Now,
		newID:    func() string { return uuid.NewString() },
		sessions: make(map[string]*session),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open mounts a screen with an initial filter and shows its first page.
func (s *Sessions) Open(screen catalog.Screen, f catalog.FilterState) (SessionState, error) {
	results, err := s.results(screen, f)
	if err != nil {
		return SessionState{}, err
	}
	sess := &session{
		id:       s.newID(),
		screen:   screen,
		filter:   f,
		pager:    catalog.NewPaginator(screen.PageSize(), s.delay),
		lastSeen: s.now(),
	}
	page := sess.pager.Reset(results)

	s.mu.Lock()
	s.sessions[sess.id] = sess
	n := len(s.sessions)
	s.mu.Unlock()
	s.gaugeOpen(n)

	return SessionState{ID: sess.id, Screen: screen, Filter: f, Page: page}, nil
}

// Update applies a new filter, recomputing the list and resetting to page 1.
// A load in flight for the old filter is discarded.
func (s *Sessions) Update(id string, f catalog.FilterState) (SessionState, error) {
	sess, err := s.get(id)
	if err != nil {
		return SessionState{}, err
	}
	sess.update.Lock()
	defer sess.update.Unlock()
	results, err := s.results(sess.screen, f)
	if err != nil {
		return SessionState{}, err
	}
	s.mu.Lock()
	sess.filter = f
	sess.lastSeen = s.now()
	s.mu.Unlock()
	page := sess.pager.Reset(results)
	return SessionState{ID: id, Screen: sess.screen, Filter: f, Page: page}, nil
}

// LoadMore appends the next page. Concurrent calls collapse into one.
func (s *Sessions) LoadMore(ctx context.Context, id string) (SessionState, error) {
	sess, err := s.get(id)
	if err != nil {
		return SessionState{}, err
	}
	before := sess.pager.State()
	page := sess.pager.LoadMore(ctx)
	if s.metrics != nil {
		outcome := "dropped"
		if page.CurrentPage > before.CurrentPage {
			outcome = "appended"
		}
		s.metrics.LoadMore.WithLabelValues(outcome).Inc()
	}

	s.mu.Lock()
	sess.lastSeen = s.now()
	f := sess.filter
	s.mu.Unlock()
	return SessionState{ID: id, Screen: sess.screen, Filter: f, Page: page}, nil
}

// State returns the session without changing it.
func (s *Sessions) State(id string) (SessionState, error) {
	sess, err := s.get(id)
	if err != nil {
		return SessionState{}, err
	}
	sess.update.Lock()
	defer sess.update.Unlock()
	s.mu.Lock()
	f := sess.filter
	s.mu.Unlock()
	return SessionState{ID: id, Screen: sess.screen, Filter: f, Page: sess.pager.State()}, nil
}

// Close unmounts the session; a pending LoadMore returns without touching it.
func (s *Sessions) Close(id string) error {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	if ok {
		delete(s.sessions, id)
	}
	n := len(s.sessions)
	s.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}
	sess.pager.Close()
	s.gaugeOpen(n)
	return nil
}

// Sweep closes sessions idle for longer than idle and returns how many.
func (s *Sessions) Sweep(idle time.Duration) int {
	cutoff := s.now().Add(-idle)
	var stale []*session
	s.mu.Lock()
	for id, sess := range s.sessions {
		if sess.lastSeen.Before(cutoff) {
			stale = append(stale, sess)
			delete(s.sessions, id)
		}
	}
	n := len(s.sessions)
	s.mu.Unlock()

	for _, sess := range stale {
		sess.pager.Close()
	}
	if len(stale) > 0 {
		s.log.Info("closed idle sessions", zap.Int("closed", len(stale)), zap.Int("open", n))
	}
	s.gaugeOpen(n)
	return len(stale)
}

// Len is the number of open sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Sessions) get(id string) (*session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// results computes the filtered list the screen shows for f.
func (s *Sessions) results(screen catalog.Screen, f catalog.FilterState) ([]catalog.Product, error) {
	if !catalog.IsValidSort(f.Sort) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSort, f.Sort)
	}
	if s.metrics != nil {
		s.metrics.Queries.WithLabelValues(string(screen)).Inc()
	}
	switch screen {
	case catalog.ScreenDeals:
		return s.engine.Deals(f, s.shuffler), nil
	case catalog.ScreenBundle:
		return s.engine.CollectionProducts(f.CollectionID, f)
	}
	return s.engine.Query(f), nil
}

func (s *Sessions) gaugeOpen(n int) {
	if s.metrics != nil {
		s.metrics.OpenSessions.Set(float64(n))
	}
}

// Shuffler is the random source ordering the deals feed.
func (s *Sessions) Shuffler() *catalog.Shuffler {
	return s.shuffler
}
