package memory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catdistribution-api/internal/models"
	"catdistribution-api/internal/store"
)

func TestCatRepo_SaveListExists(t *testing.T) {
	ctx := context.Background()
	r := NewCatRepo()

	saved, err := r.Save(ctx, models.Cat{Name: "Luna7", Gender: models.Female, Age: 2})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, saved.ID)

	_, err = r.Save(ctx, models.Cat{Name: "Max7", Gender: models.Male, Age: 9})
	require.NoError(t, err)

	ok, err := r.ExistsByName(ctx, "Luna7")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = r.ExistsByName(ctx, "Luna8")
	require.NoError(t, err)
	assert.False(t, ok)

	all, err := r.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Luna7", all[0].Name)
	assert.Equal(t, "Max7", all[1].Name)
}

func TestCatRepo_DuplicateName(t *testing.T) {
	ctx := context.Background()
	r := NewCatRepo()

	_, err := r.Save(ctx, models.Cat{Name: "Leo1"})
	require.NoError(t, err)
	_, err = r.Save(ctx, models.Cat{Name: "Leo1"})
	assert.ErrorIs(t, err, store.ErrDuplicateName)
	assert.Equal(t, 1, r.Len())
}

func TestCatRepo_FindAllReturnsCopy(t *testing.T) {
	ctx := context.Background()
	r := NewCatRepo()
	_, _ = r.Save(ctx, models.Cat{Name: "Leo1"})

	all, _ := r.FindAll(ctx)
	all[0].Name = "changed"

	again, _ := r.FindAll(ctx)
	assert.Equal(t, "Leo1", again[0].Name)
}

func TestUserRepo(t *testing.T) {
	ctx := context.Background()
	r := NewUserRepo()
	u := models.User{ID: uuid.New(), Username: "maria"}

	require.NoError(t, r.Create(ctx, u))
	assert.ErrorIs(t, r.Create(ctx, models.User{ID: uuid.New(), Username: "maria"}), store.ErrDuplicateUser)

	got, err := r.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u, got)

	_, err = r.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, store.ErrNotFound)
}
