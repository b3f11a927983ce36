package tokenstore

import (
	"context"
	"sync"
	"time"

	"wellportal/models"
)

// MemoryProvider keeps sessions in process. Used in development and tests.
type MemoryProvider struct {
	mu       sync.RWMutex
	sessions map[string]memoryEntry
	ttl      time.Duration
	now      func() time.Time
}

type memoryEntry struct {
	session   models.AuthSession
	expiresAt time.Time
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// NewMemoryProvider creates a provider whose entries expire after ttl
// (zero disables expiry).
func NewMemoryProvider(ttl time.Duration) *MemoryProvider {
	return &MemoryProvider{
		sessions: make(map[string]memoryEntry),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (p *MemoryProvider) For(sid string) Store {
	if sid == "" {
		return emptyStore{}
	}
	return &memoryStore{p: p, sid: sid}
}

// Len reports how many sessions are held, expired ones included.
func (p *MemoryProvider) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.sessions)
}

// Sweep drops expired sessions and returns how many went.
func (p *MemoryProvider) Sweep() int {
	now := p.now()
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for sid, e := range p.sessions {
		if e.expired(now) {
			delete(p.sessions, sid)
			n++
		}
	}
	return n
}

// Run sweeps every interval until ctx is done.
func (p *MemoryProvider) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Sweep()
		}
	}
}

type memoryStore struct {
	p   *MemoryProvider
	sid string
}

// Load returns a copy of the session and pushes its expiry out by the TTL.
func (s *memoryStore) Load(context.Context) (*models.AuthSession, error) {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	e, ok := s.p.sessions[s.sid]
	if !ok {
		return nil, nil
	}
	now := s.p.now()
	if e.expired(now) {
		delete(s.p.sessions, s.sid)
		return nil, nil
	}
	if s.p.ttl > 0 {
		e.expiresAt = now.Add(s.p.ttl)
		s.p.sessions[s.sid] = e
	}
	session := e.session
	if e.session.User != nil {
		u := *e.session.User
		session.User = &u
	}
	return &session, nil
}

func (s *memoryStore) Save(_ context.Context, session *models.AuthSession) error {
	if session == nil {
		return s.Clear(context.Background())
	}
	e := memoryEntry{session: *session}
	if session.User != nil {
		u := *session.User
		e.session.User = &u
	}
	if s.p.ttl > 0 {
		e.expiresAt = s.p.now().Add(s.p.ttl)
	}
	s.p.mu.Lock()
	s.p.sessions[s.sid] = e
	s.p.mu.Unlock()
	return nil
}

func (s *memoryStore) Clear(context.Context) error {
	s.p.mu.Lock()
	delete(s.p.sessions, s.sid)
	s.p.mu.Unlock()
	return nil
}
