package otp

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hd-notes-api/internal/domain"
)

// Store holds pending verifications in memory, keyed by request id.
// It is process-local: records do not survive a restart, which bounds the
// blast radius of a leaked store to codes that were already minutes from
// expiring.
type Store struct {
	mu      sync.Mutex
	pending map[string]*domain.PendingVerification
	ttl     time.Duration
	now     func() time.Time
}

// NewStore returns an empty store whose records expire ttl after issuance.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		pending: make(map[string]*domain.PendingVerification),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Put assigns v a fresh random request id, stamps CreatedAt/ExpiresAt and
// stores it. The returned id is the only handle to the record; ids are never
// reused, so a resend is always a brand-new record.
func (s *Store) Put(v *domain.PendingVerification) string {
	now := s.now().UTC()
	v.RequestID = uuid.NewString()
	v.CreatedAt = now
	v.ExpiresAt = now.Add(s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[v.RequestID] = v
	return v.RequestID
}

// Take atomically fetches and removes the record for requestID. Under
// concurrent calls for the same id exactly one caller receives the record;
// the rest observe ok=false.
func (s *Store) Take(requestID string) (*domain.PendingVerification, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.pending[requestID]
	if !ok {
		return nil, false
	}
	delete(s.pending, requestID)
	return v, true
}

// Delete removes the record for requestID if present. Used to roll back an
// issuance whose email never went out.
func (s *Store) Delete(requestID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, requestID)
}

// Sweep removes every record whose expiry is before now and returns the
// number removed. Purely memory reclamation: Take callers re-check expiry
// themselves, so a missed sweep never makes a stale code valid.
func (s *Store) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, v := range s.pending {
		if v.ExpiresAt.Before(now) {
			delete(s.pending, id)
			removed++
		}
	}
	return removed
}

// Len reports the number of live records.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}
