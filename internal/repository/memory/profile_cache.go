package memory

import (
	"time"

	"docassist-be/internal/entity"

	"github.com/patrickmn/go-cache"
)

// ProfileCache keeps recently read user profiles in process memory so chat
// turns do not hit the database for every prompt assembly.
type ProfileCache struct {
	cache *cache.Cache
}

func NewProfileCache() *ProfileCache {
	// Create a cache with a default expiration time of 30 minutes, and which
	// purges expired items every 10 minutes
	c := cache.New(30*time.Minute, 10*time.Minute)
	return &ProfileCache{
		cache: c,
	}
}

func (r *ProfileCache) Save(userId string, profile *entity.UserProfile) {
	r.cache.Set(userId, profile, cache.DefaultExpiration)
}

func (r *ProfileCache) Get(userId string) (*entity.UserProfile, bool) {
	if x, found := r.cache.Get(userId); found {
		return x.(*entity.UserProfile), true
	}
	return nil, false
}

func (r *ProfileCache) Delete(userId string) {
	r.cache.Delete(userId)
}
