package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"catdistribution-api/internal/models"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrDuplicateName = errors.New("cat name already exists")
	ErrDuplicateUser = errors.New("username already exists")
)

type CatRepository interface {
	Save(ctx context.Context, c models.Cat) (models.Cat, error)
	FindAll(ctx context.Context) ([]models.Cat, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
}

type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (models.User, error)
	Create(ctx context.Context, u models.User) error
}
