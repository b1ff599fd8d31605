package memory

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// WidgetState is the presentation state of one widget shell, independent
// of conversation content.
type WidgetState struct {
	SessionID string `json:"session_id"`
	State     string `json:"state"`

	// InitialQueryFired guards the one-shot auto-submit on open.
	InitialQueryFired bool `json:"-"`
}

// WidgetRepository keeps widget shell states in memory; shell state is
// ephemeral chrome and deliberately not persisted.
type WidgetRepository struct {
	cache *cache.Cache
}

func NewWidgetRepository() *WidgetRepository {
	return &WidgetRepository{
		cache: cache.New(1*time.Hour, 10*time.Minute),
	}
}

func (r *WidgetRepository) Save(state *WidgetState) {
	r.cache.Set(state.SessionID, state, cache.DefaultExpiration)
}

func (r *WidgetRepository) Get(sessionID string) (*WidgetState, bool) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*WidgetState), true
	}
	return nil, false
}

func (r *WidgetRepository) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}
