// Package session keeps one modal per browser session in memory.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/splitleasesharath/emergency-report/internal/modal"
	"github.com/splitleasesharath/emergency-report/internal/service"
)

type FlashKind string

const (
	FlashSuccess FlashKind = "success"
	FlashError   FlashKind = "error"
)

type Flash struct {
	Kind    FlashKind
	Message string
}

type Session struct {
	ID      uuid.UUID
	Modal   *modal.Modal
	Reports *service.ReportService

	mu       sync.Mutex
	flash    *Flash
	lastSeen time.Time
}

func (s *Session) SetFlash(kind FlashKind, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flash = &Flash{Kind: kind, Message: msg}
}

// PopFlash returns the pending flash once.
func (s *Session) PopFlash() *Flash {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := s.flash
	s.flash = nil
	return f
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}

// Factory builds the modal and report service of a new session.
type Factory func(id uuid.UUID) (*modal.Modal, *service.ReportService)

type Store struct {
	sync.RWMutex
	sessions map[uuid.UUID]*Session
	factory  Factory
	ttl      time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

func NewStore(factory Factory, ttl time.Duration, logger *slog.Logger) *Store {
	return &Store{
		sessions: make(map[uuid.UUID]*Session),
		factory:  factory,
		ttl:      ttl,
		logger:   logger,
		now:      time.Now,
	}
}

// Get returns the live session for id.
func (st *Store) Get(id uuid.UUID) (*Session, bool) {
	st.RLock()
	s, ok := st.sessions[id]
	st.RUnlock()
	if ok {
		s.touch(st.now())
	}
	return s, ok
}

func (st *Store) Create() *Session {
	id := uuid.New()
	m, reports := st.factory(id)
	s := &Session{ID: id, Modal: m, Reports: reports, lastSeen: st.now()}

	st.Lock()
	st.sessions[id] = s
	st.Unlock()

	st.logger.Debug("session created", slog.String("session_id", id.String()))
	return s
}

func (st *Store) Len() int {
	st.RLock()
	defer st.RUnlock()
	return len(st.sessions)
}

// Sweep drops sessions idle for longer than the TTL and returns how many went.
func (st *Store) Sweep() int {
	now := st.now()
	st.Lock()
	defer st.Unlock()
	n := 0
	for id, s := range st.sessions {
		if s.idleSince(now) > st.ttl {
			delete(st.sessions, id)
			n++
		}
	}
	return n
}

// Run sweeps every interval until ctx is done.
func (st *Store) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			st.logger.Info("session sweeper stopped", slog.String("reason", ctx.Err().Error()))
			return
		case <-ticker.C:
			if n := st.Sweep(); n > 0 {
				st.logger.Info("expired sessions removed", slog.Int("count", n))
			}
		}
	}
}

type ctxKey struct{}

func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(*Session)
	return s, ok
}
