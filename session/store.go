// Package session owns the authenticated-session state: the bearer token,
// the current user, the persisted copy that survives restarts, and the
// one-shot timer that signs the user out when the token expires.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"gametrade/users"
)

var (
	// ErrNoExpiry rejects tokens whose payload carries no usable exp claim.
	// Unknown expiry is treated conservatively: the session is refused and
	// the user must log in again with a well-formed token.
	ErrNoExpiry = errors.New("token carries no usable expiry")

	// ErrExpired rejects tokens that are already past their expiry.
	ErrExpired = errors.New("token already expired")
)

// Notification tells observers how the session state changed.
type Notification int

const (
	SignedIn  Notification = iota // a session was established or restored
	SignedOut                     // explicit logout
	Expired                       // the expiry timer fired; UI should tell the user
)

// CacheInvalidator is anything holding response data that must not survive
// a session change. api.Client satisfies it.
type CacheInvalidator interface {
	InvalidateCache()
}

// Store is the authoritative "is there a valid session" state. The token
// is the one piece of mutable state shared with every outgoing request;
// all mutation happens under the write lock so concurrent reads see either
// the whole old session or the whole new one.
//
// State machine: Unauthenticated → Establish → Authenticated →
// (Clear | timer fires | Restore finds expired) → Unauthenticated.
type Store struct {
	mu         sync.RWMutex
	token      string
	user       *users.AuthenticatedUser
	expiresAt  time.Time
	generation uint64
	timer      *time.Timer

	listenerMu sync.Mutex
	listeners  []func(Notification)

	storage     Storage
	invalidator CacheInvalidator
	now         func() time.Time
	log         zerolog.Logger
}

// StoreOption modifies a Store at construction time.
type StoreOption func(*Store)

// WithNowTime sets the clock (primarily for testing).
func WithNowTime(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

// WithCacheInvalidator wires the response cache that must be wiped on
// every session change.
func WithCacheInvalidator(ci CacheInvalidator) StoreOption {
	return func(s *Store) { s.invalidator = ci }
}

// WithStoreLogger sets the store logger.
func WithStoreLogger(l zerolog.Logger) StoreOption {
	return func(s *Store) { s.log = l }
}

func NewStore(storage Storage, opts ...StoreOption) *Store {
	s := &Store{
		storage: storage,
		now:     time.Now,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OnChange registers an observer for session state notifications.
// Observers are invoked synchronously, outside the store lock.
func (s *Store) OnChange(fn func(Notification)) {
	s.listenerMu.Lock()
	defer s.listenerMu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Token implements api.TokenProvider. A token past its expiry is never
// handed out: detection purges the session on the spot. The purge is
// generation-keyed, like the timer, so a detection that loses a race with
// a new login cannot destroy the session that replaced the expired one.
func (s *Store) Token() (string, bool) {
	s.mu.RLock()
	token := s.token
	gen := s.generation
	expired := token != "" && !s.expiresAt.After(s.now())
	s.mu.RUnlock()

	if token == "" {
		return "", false
	}
	if expired {
		s.expire(gen)
		return "", false
	}
	return token, true
}

// IsValid reports whether a session is held and its expiry is still ahead.
func (s *Store) IsValid() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != "" && s.expiresAt.After(s.now())
}

// CurrentUser returns a copy of the authenticated user, if any.
func (s *Store) CurrentUser() (users.AuthenticatedUser, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return users.AuthenticatedUser{}, false
	}
	return *s.user, true
}

// Establish replaces any current session with a new one. The expiry is
// decoded from the token payload; tokens without a usable expiry are
// refused. The triple (token, user, expiry) is persisted before the new
// session becomes visible to readers.
func (s *Store) Establish(token string, user users.AuthenticatedUser) error {
	expiresAt, ok := ExpiryFromToken(token)
	if !ok {
		return ErrNoExpiry
	}
	if !expiresAt.After(s.now()) {
		return ErrExpired
	}

	s.mu.Lock()
	hadSession := s.token != ""
	s.clearLocked()
	rec := Record{Token: token, User: user, ExpiresAt: expiresAt.Unix()}
	if err := s.storage.Save(rec); err != nil {
		s.mu.Unlock()
		// The old session is already gone; observers must not keep
		// treating it as live.
		if hadSession {
			s.notify(SignedOut)
		}
		return fmt.Errorf("persist session: %w", err)
	}
	s.token = token
	s.user = &user
	s.expiresAt = expiresAt
	s.generation++
	s.armTimerLocked()
	s.mu.Unlock()

	s.log.Info().Str("user", user.Email).Str("role", string(user.Role)).
		Time("expires_at", expiresAt).Msg("session established")
	s.notify(SignedIn)
	return nil
}

// Restore loads the persisted session at startup. An expired or partially
// persisted session is purged immediately, without user interaction, and
// the store stays unauthenticated.
func (s *Store) Restore() error {
	rec, err := s.storage.Load()
	switch {
	case errors.Is(err, ErrNotFound):
		return nil
	case errors.Is(err, ErrCorrupt):
		s.log.Warn().Err(err).Msg("purging unusable persisted session")
		if derr := s.storage.Delete(); derr != nil {
			return fmt.Errorf("purge corrupt session: %w", derr)
		}
		return nil
	case err != nil:
		return fmt.Errorf("load persisted session: %w", err)
	}

	expiresAt := time.Unix(rec.ExpiresAt, 0)
	if !expiresAt.After(s.now()) {
		s.log.Info().Msg("persisted session expired, purging")
		if derr := s.storage.Delete(); derr != nil {
			return fmt.Errorf("purge expired session: %w", derr)
		}
		return nil
	}

	user := rec.User
	s.mu.Lock()
	s.token = rec.Token
	s.user = &user
	s.expiresAt = expiresAt
	s.generation++
	s.armTimerLocked()
	s.mu.Unlock()

	s.log.Info().Str("user", user.Email).Time("expires_at", expiresAt).
		Msg("session restored")
	s.notify(SignedIn)
	return nil
}

// Clear signs out. Idempotent: clearing an already-unauthenticated store
// does nothing and raises nothing.
func (s *Store) Clear() {
	s.mu.Lock()
	wasAuthenticated := s.token != ""
	s.clearLocked()
	s.mu.Unlock()

	if wasAuthenticated {
		s.notify(SignedOut)
	}
}

// clearLocked wipes memory and storage, cancels the pending expiry timer
// and empties the response cache. Callers hold the write lock and decide
// which notification, if any, to emit.
func (s *Store) clearLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.token = ""
	s.user = nil
	s.expiresAt = time.Time{}
	s.generation++
	if err := s.storage.Delete(); err != nil {
		s.log.Warn().Err(err).Msg("failed to remove persisted session")
	}
	if s.invalidator != nil {
		s.invalidator.InvalidateCache()
	}
}

// armTimerLocked schedules the one-shot expiry callback, keyed by the
// current generation so a timer armed for a replaced session can never
// clear its successor.
func (s *Store) armTimerLocked() {
	gen := s.generation
	s.timer = time.AfterFunc(s.expiresAt.Sub(s.now()), func() {
		s.expire(gen)
	})
}

func (s *Store) expire(gen uint64) {
	s.mu.Lock()
	if gen != s.generation || s.token == "" {
		s.mu.Unlock()
		return
	}
	s.clearLocked()
	s.mu.Unlock()

	s.log.Info().Msg("session expired, signed out")
	s.notify(Expired)
}

func (s *Store) notify(n Notification) {
	s.listenerMu.Lock()
	observers := make([]func(Notification), len(s.listeners))
	copy(observers, s.listeners)
	s.listenerMu.Unlock()

	for _, fn := range observers {
		fn(n)
	}
}
