// Package session keeps one timeline view per visitor. Each view is owned by
// its session and only touched under that session's lock.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/adee/portfolio/internal/timeline"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// ErrNotFound is returned for unknown or expired session ids.
var ErrNotFound = errors.New("session not found")

type Config struct {
	Clock   clockwork.Clock
	IdleTTL time.Duration
	// NewView builds the view a fresh session starts with.
	NewView func() *timeline.View
}

func (cfg *Config) Validate() error {
	if cfg.IdleTTL <= 0 {
		return errors.New("idle ttl must be greater than 0")
	}
	if cfg.NewView == nil {
		return errors.New("view factory is required")
	}
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	return nil
}

// Session is one visitor's interaction state.
type Session struct {
	ID string

	mu       sync.Mutex
	view     *timeline.View
	lastSeen time.Time
}

type Store struct {
	cfg Config

	mu       sync.Mutex
	sessions map[string]*Session
}

func New(cfg Config) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Store{
		cfg:      cfg,
		sessions: make(map[string]*Session),
	}, nil
}

// Create starts a new session.
func (s *Store) Create() *Session {
	sess := &Session{
		ID:       uuid.NewString(),
		view:     s.cfg.NewView(),
		lastSeen: s.cfg.Clock.Now(),
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return sess
}

// Get returns a live session and marks it as seen.
func (s *Store) Get(id string) (*Session, error) {
	now := s.cfg.Clock.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	if s.expired(sess, now) {
		delete(s.sessions, id)
		return nil, ErrNotFound
	}
	sess.lastSeen = now
	return sess, nil
}

// GetOrCreate returns the session for id, or a new one when id is unknown.
// created reports which happened.
func (s *Store) GetOrCreate(id string) (sess *Session, created bool) {
	if id != "" {
		if sess, err := s.Get(id); err == nil {
			return sess, false
		}
	}
	return s.Create(), true
}

// Do runs fn with exclusive access to the session's view.
func (s *Store) Do(id string, fn func(*timeline.View) error) error {
	sess, err := s.Get(id)
	if err != nil {
		return err
	}
	return sess.Do(fn)
}

// Do runs fn with exclusive access to the view.
func (sess *Session) Do(fn func(*timeline.View) error) error {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return fn(sess.view)
}

// Len is the number of sessions held, expired ones included until the next sweep.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Evict drops sessions idle for longer than the TTL and returns how many went.
func (s *Store) Evict() int {
	now := s.cfg.Clock.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for id, sess := range s.sessions {
		if s.expired(sess, now) {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}

// Run sweeps expired sessions every interval until ctx is done. onSweep, if
// set, receives the number of live sessions after each sweep.
func (s *Store) Run(ctx context.Context, interval time.Duration, onSweep func(live int)) {
	ticker := s.cfg.Clock.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			s.Evict()
			if onSweep != nil {
				onSweep(s.Len())
			}
		}
	}
}

func (s *Store) expired(sess *Session, now time.Time) bool {
	return now.Sub(sess.lastSeen) > s.cfg.IdleTTL
}
