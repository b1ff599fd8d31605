package memory

import (
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/vigneshgurumohan/tngrm-agent-store-sub000/pkg/store"
)

// SessionRegistry holds the live conversation stores for this process.
// A conversation falls out of the registry after the TTL and is resumed
// from the persister on next access.
type SessionRegistry struct {
	cache *cache.Cache
}

func NewSessionRegistry(ttl time.Duration) *SessionRegistry {
	return &SessionRegistry{
		cache: cache.New(ttl, 10*time.Minute),
	}
}

func (r *SessionRegistry) Get(sessionID string) (*store.Store, bool) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*store.Store), true
	}
	return nil, false
}

func (r *SessionRegistry) Put(sessionID string, s *store.Store) {
	r.cache.Set(sessionID, s, cache.DefaultExpiration)
}

// Rekey moves a store to a new session id after a conversation reset.
// The store object itself is untouched, so in-flight round-trips holding
// a reference still patch (and miss) against the reset message list.
func (r *SessionRegistry) Rekey(oldID, newID string, s *store.Store) {
	r.cache.Delete(oldID)
	r.cache.Set(newID, s, cache.DefaultExpiration)
}

func (r *SessionRegistry) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}
