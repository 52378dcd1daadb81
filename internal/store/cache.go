package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"catdistribution-api/internal/models"
)

// CachedUsers puts a TTL cache in front of GetByID. Every generation tick
// resolves its owner, so without it the store sees one lookup per record.
type CachedUsers struct {
	next  UserRepository
	cache *cache.Cache
}

func NewCachedUsers(next UserRepository, ttl time.Duration) *CachedUsers {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &CachedUsers{next: next, cache: cache.New(ttl, 2*ttl)}
}

func (c *CachedUsers) GetByID(ctx context.Context, id uuid.UUID) (models.User, error) {
	key := id.String()
	if v, ok := c.cache.Get(key); ok {
		return v.(models.User), nil
	}
	u, err := c.next.GetByID(ctx, id)
	if err != nil {
		return models.User{}, err
	}
	c.cache.SetDefault(key, u)
	return u, nil
}

func (c *CachedUsers) Create(ctx context.Context, u models.User) error {
	if err := c.next.Create(ctx, u); err != nil {
		return err
	}
	c.cache.SetDefault(u.ID.String(), u)
	return nil
}
