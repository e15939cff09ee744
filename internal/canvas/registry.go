package canvas

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Registry owns every live session. Lookup, insertion and deletion are safe
// for concurrent use; idle sessions are evicted after the configured TTL so
// abandoned dialogs do not accumulate.
type Registry struct {
	sessions *expirable.LRU[string, *Session]
}

// NewRegistry creates a registry bounded to maxSessions entries with the
// given idle TTL. Non-positive arguments fall back to 1024 sessions / 24h.
func NewRegistry(maxSessions int, ttl time.Duration) *Registry {
	if maxSessions <= 0 {
		maxSessions = 1024
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Registry{
		sessions: expirable.NewLRU[string, *Session](maxSessions, nil, ttl),
	}
}

func (r *Registry) Put(s *Session) {
	if r == nil || s == nil {
		return
	}
	r.sessions.Add(s.ID, s)
}

func (r *Registry) Get(id string) (*Session, bool) {
	if r == nil {
		return nil, false
	}
	return r.sessions.Get(id)
}

// Delete removes a session and reports whether it existed.
func (r *Registry) Delete(id string) bool {
	if r == nil {
		return false
	}
	return r.sessions.Remove(id)
}

func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return r.sessions.Len()
}
