package auth

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"github.com/nakulp007/amplify-semanticui-auth/internal/identity"
)

// SignupState is the derived state of a registration attempt. The
// progression is forward-only: registration-pending becomes
// confirmation-pending on a successful sign-up call and nothing moves
// it back; the terminal authenticated state is reached by dropping the
// attempt after the confirmation flow signs the user in.
type SignupState int

const (
	SignupStateRegistrationPending SignupState = iota
	SignupStateConfirmationPending
)

// SignupAttempt is the in-memory record of one in-progress
// registration. It exists only from a successful sign-up call until
// confirmation completes, the session abandons it, or the sweep expires
// it; it is never persisted, so a server restart loses an in-flight
// confirmation. That forces an affected visitor to register again --
// a known limitation carried over deliberately, since resuming would
// require a resend-code capability the provider contract doesn't have.
type SignupAttempt struct {
	ID          string
	Email       string
	Password    string
	PendingUser *identity.PendingUser
	CreatedAt   time.Time
}

// State derives the attempt's position in the signup flow. A nil
// attempt reads as registration-pending: there is nothing to confirm.
func (a *SignupAttempt) State() SignupState {
	if a == nil || a.PendingUser == nil {
		return SignupStateRegistrationPending
	}
	return SignupStateConfirmationPending
}

// AttemptStore holds in-flight signup attempts, keyed by attempt ID.
// Purely in-memory; the session carries only the ID.
type AttemptStore struct {
	mu       sync.Mutex
	attempts map[string]*SignupAttempt
	ttl      time.Duration
	now      func() time.Time
}

// NewAttemptStore creates a store whose attempts expire after ttl
// (zero means no expiry).
func NewAttemptStore(ttl time.Duration) *AttemptStore {
	return &AttemptStore{
		attempts: make(map[string]*SignupAttempt),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Begin records a registration that the provider accepted. The returned
// attempt is already confirmation-pending.
func (s *AttemptStore) Begin(email, password string, pending *identity.PendingUser) (*SignupAttempt, error) {
	id, err := randomID()
	if err != nil {
		return nil, err
	}

	attempt := &SignupAttempt{
		ID:          id,
		Email:       email,
		Password:    password,
		PendingUser: pending,
		CreatedAt:   s.now(),
	}

	s.mu.Lock()
	s.attempts[id] = attempt
	s.mu.Unlock()

	return attempt, nil
}

// Get returns the attempt for id, or nil if it never existed, was
// completed, or has expired.
func (s *AttemptStore) Get(id string) *SignupAttempt {
	if id == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	attempt, ok := s.attempts[id]
	if !ok {
		return nil
	}
	if s.expired(attempt) {
		delete(s.attempts, id)
		return nil
	}
	return attempt
}

// Drop removes an attempt, completing or abandoning it.
func (s *AttemptStore) Drop(id string) {
	s.mu.Lock()
	delete(s.attempts, id)
	s.mu.Unlock()
}

// Sweep removes expired attempts and reports how many were dropped.
func (s *AttemptStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	dropped := 0
	for id, attempt := range s.attempts {
		if s.expired(attempt) {
			delete(s.attempts, id)
			dropped++
		}
	}
	return dropped
}

// Len reports the number of live attempts.
func (s *AttemptStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.attempts)
}

func (s *AttemptStore) expired(attempt *SignupAttempt) bool {
	if s.ttl <= 0 {
		return false
	}
	return s.now().Sub(attempt.CreatedAt) > s.ttl
}

func randomID() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
