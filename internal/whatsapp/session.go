package whatsapp

import (
	"context"
	"sync"
	"time"
)

// Step is the tracker's position in the booking dialogue.
type Step int

const (
	// StepNone means no booking flow is active for the sender.
	StepNone Step = iota
	StepName
	StepPhone
	StepTreatment
	StepDate
	StepTime
	StepConfirm
)

// Session is the per-sender conversation state: the current step plus the
// partially collected booking fields. It lives only until the booking is
// confirmed or cancelled.
type Session struct {
	Step      Step   `json:"step"`
	Name      string `json:"name,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Treatment string `json:"treatment,omitempty"`
	Date      string `json:"date,omitempty"`
	Time      string `json:"time,omitempty"`
}

// SessionStore keeps conversation state keyed by sender address. Get returns
// (nil, nil) when no session exists.
type SessionStore interface {
	Get(ctx context.Context, sender string) (*Session, error)
	Put(ctx context.Context, sender string, sess *Session) error
	Delete(ctx context.Context, sender string) error
}

type memoryEntry struct {
	sess      Session
	expiresAt time.Time
}

// MemorySessionStore holds sessions in process memory. A zero TTL keeps
// sessions until confirm/cancel or process restart; a positive TTL expires
// stale flows lazily on access.
type MemorySessionStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]memoryEntry
	now      func() time.Time
}

// NewMemorySessionStore creates a memory-backed store.
func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	return &MemorySessionStore{
		ttl:      ttl,
		sessions: make(map[string]memoryEntry),
		now:      time.Now,
	}
}

func (s *MemorySessionStore) Get(ctx context.Context, sender string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.sessions[sender]
	if !ok {
		return nil, nil
	}
	if s.ttl > 0 && s.now().After(entry.expiresAt) {
		delete(s.sessions, sender)
		return nil, nil
	}
	sess := entry.sess
	return &sess, nil
}

func (s *MemorySessionStore) Put(ctx context.Context, sender string, sess *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sender] = memoryEntry{sess: *sess, expiresAt: s.now().Add(s.ttl)}
	return nil
}

func (s *MemorySessionStore) Delete(ctx context.Context, sender string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sender)
	return nil
}
