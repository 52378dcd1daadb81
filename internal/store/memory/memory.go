package memory

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"

	"catdistribution-api/internal/models"
	"catdistribution-api/internal/store"
)

type CatRepo struct {
	mu     sync.RWMutex
	order  []models.Cat
	byName map[string]struct{}
}

func NewCatRepo() *CatRepo {
	return &CatRepo{byName: make(map[string]struct{})}
}

func (r *CatRepo) Save(ctx context.Context, c models.Cat) (models.Cat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(c.Name) == "" {
		return models.Cat{}, errors.New("cat name required")
	}
	if _, exists := r.byName[c.Name]; exists {
		return models.Cat{}, store.ErrDuplicateName
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.byName[c.Name] = struct{}{}
	r.order = append(r.order, c)
	return c, nil
}

func (r *CatRepo) FindAll(ctx context.Context) ([]models.Cat, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Cat, len(r.order))
	copy(out, r.order)
	return out, nil
}

func (r *CatRepo) ExistsByName(ctx context.Context, name string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.byName[name]
	return ok, nil
}

func (r *CatRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

type UserRepo struct {
	mu     sync.RWMutex
	byID   map[uuid.UUID]models.User
	byName map[string]uuid.UUID
}

func NewUserRepo() *UserRepo {
	return &UserRepo{
		byID:   make(map[uuid.UUID]models.User),
		byName: make(map[string]uuid.UUID),
	}
}

func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return models.User{}, store.ErrNotFound
	}
	return u, nil
}

func (r *UserRepo) Create(ctx context.Context, u models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u.ID == uuid.Nil {
		return errors.New("user id required")
	}
	if _, exists := r.byName[u.Username]; exists {
		return store.ErrDuplicateUser
	}
	if _, exists := r.byID[u.ID]; exists {
		return errors.New("user already exists")
	}
	r.byID[u.ID] = u
	r.byName[u.Username] = u.ID
	return nil
}
