// Package session keeps per-viewer state: the selected date and its results,
// the chat conversation and the comparison selection.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"go-akashdhara/internal/domain"
	"go-akashdhara/internal/missions"
	"go-akashdhara/internal/observability"

	"github.com/google/uuid"
)

// ErrNotFound is returned for unknown or expired session ids
var ErrNotFound = errors.New("session not found")

// MissionLookup finds catalog missions by id
type MissionLookup interface {
	Mission(id string) (domain.Mission, bool)
}

// Session is one viewer's state
type Session struct {
	ID           string
	CreatedAt    time.Time
	View         *View
	Conversation *Conversation

	mu        sync.Mutex
	selection *missions.Selection
	lastSeen  time.Time
}

// Snapshot is the JSON form of a session
type Snapshot struct {
	ID         string    `json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	View       ViewState `json:"view"`
	Selection  []string  `json:"selection"`
	CanCompare bool      `json:"can_compare"`
}

// Snapshot returns a consistent copy of the session
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	ids := s.selection.IDs()
	canCompare := s.selection.CanCompare()
	s.mu.Unlock()

	return Snapshot{
		ID:         s.ID,
		CreatedAt:  s.CreatedAt,
		View:       s.View.State(),
		Selection:  ids,
		CanCompare: canCompare,
	}
}

// ToggleSelection adds or removes a mission from the comparison selection.
// It reports false when an add was refused because the selection is full.
func (s *Session) ToggleSelection(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection.Toggle(id)
}

// ClearSelection empties the comparison selection
func (s *Session) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection.Clear()
}

// Selection returns the selected mission ids in selection order
func (s *Session) Selection() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection.IDs()
}

// Compare builds the comparison of the selected missions
func (s *Session) Compare(lookup MissionLookup, now time.Time) (*missions.Comparison, error) {
	ids := s.Selection()
	selected := make([]domain.Mission, 0, len(ids))
	for _, id := range ids {
		if m, ok := lookup.Mission(id); ok {
			selected = append(selected, m)
		}
	}
	return missions.Compare(selected, now)
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Store holds live sessions in memory
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	base     context.Context
	resolver Resolver
	greeting string
	ttl      time.Duration
	now      func() time.Time
}

// StoreOption configures a Store
type StoreOption func(*Store)

// WithClock replaces time.Now
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

// WithGreeting seeds new conversations with greeting
func WithGreeting(greeting string) StoreOption {
	return func(s *Store) { s.greeting = greeting }
}

// NewStore creates a session store. View fetches run under base, so
// cancelling base stops every session's in-flight fetches.
func NewStore(base context.Context, resolver Resolver, ttl time.Duration, opts ...StoreOption) *Store {
	s := &Store{
		sessions: make(map[string]*Session),
		base:     base,
		resolver: resolver,
		ttl:      ttl,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create starts a session without a selected date
func (s *Store) Create() *Session {
	now := s.now()
	sess := &Session{
		ID:           uuid.NewString(),
		CreatedAt:    now,
		View:         NewView(s.base, s.resolver),
		Conversation: NewConversation(s.greeting, s.now),
		selection:    missions.NewSelection(),
		lastSeen:     now,
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	observability.Logger().Debug("session created", "session_id", sess.ID)
	return sess
}

// Get returns a live session and marks it as used
func (s *Store) Get(id string) (*Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	sess.touch(s.now())
	return sess, nil
}

// Len returns the number of live sessions
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep drops sessions idle for longer than the TTL and returns how many were dropped
func (s *Store) Sweep() int {
	cutoff := s.now().Add(-s.ttl)

	s.mu.Lock()
	var expired []*Session
	for id, sess := range s.sessions {
		if sess.idleSince().Before(cutoff) {
			expired = append(expired, sess)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, sess := range expired {
		sess.View.Close()
	}
	return len(expired)
}

// Run sweeps on every tick until ctx is done
func (s *Store) Run(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				observability.Logger().Info("expired sessions swept", "count", n, "live", s.Len())
			}
		}
	}
}
