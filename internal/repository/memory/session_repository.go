package memory

import (
	"time"

	"ar-storefront-be/internal/entity"

	"github.com/patrickmn/go-cache"
)

// SessionRepository keeps AR session snapshots in process memory.
type SessionRepository struct {
	cache *cache.Cache
}

func NewSessionRepository(ttl time.Duration) *SessionRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &SessionRepository{
		cache: cache.New(ttl, 10*time.Minute),
	}
}

// Save stores a copy, so later widget updates never race with readers.
func (r *SessionRepository) Save(session *entity.ARSession) {
	cp := *session
	r.cache.Set(session.Id, &cp, cache.DefaultExpiration)
}

func (r *SessionRepository) Get(sessionID string) (*entity.ARSession, bool) {
	if x, found := r.cache.Get(sessionID); found {
		cp := *x.(*entity.ARSession)
		return &cp, true
	}
	return nil, false
}

func (r *SessionRepository) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}

func (r *SessionRepository) Count() int {
	return r.cache.ItemCount()
}
