package playback

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrSessionNotFound = errors.New("play session not found")

// Registry keeps live play sessions in process memory. Sessions idle for
// longer than the ttl are dropped on access or by Sweep.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	clock    func() time.Time
}

func NewRegistry(ttl time.Duration, clock func() time.Time) *Registry {
	if clock == nil {
		clock = time.Now
	}
	return &Registry{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		clock:    clock,
	}
}

func (r *Registry) Add(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = s
}

func (r *Registry) expired(s *Session) bool {
	return r.ttl > 0 && r.clock().Sub(s.LastActive()) > r.ttl
}

// lookup must be called with mu held. Sessions of other learners are
// reported as missing.
func (r *Registry) lookup(id, learnerID string) (*Session, error) {
	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if r.expired(s) {
		delete(r.sessions, id)
		return nil, ErrSessionNotFound
	}
	if s.LearnerID != learnerID {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// WithSession runs fn with exclusive access to the session.
func (r *Registry) WithSession(id, learnerID string, fn func(*Session) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, err := r.lookup(id, learnerID)
	if err != nil {
		return err
	}
	return fn(s)
}

func (r *Registry) Remove(id, learnerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.lookup(id, learnerID); err != nil {
		return err
	}
	delete(r.sessions, id)
	return nil
}

// Sweep drops expired sessions and returns how many were removed.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, s := range r.sessions {
		if r.expired(s) {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// RunSweeper sweeps on every tick until ctx is done.
func (r *Registry) RunSweeper(ctx context.Context, interval time.Duration, onSweep func(removed int)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 && onSweep != nil {
				onSweep(n)
			}
		}
	}
}
