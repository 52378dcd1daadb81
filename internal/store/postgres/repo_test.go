package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catdistribution-api/internal/models"
	"catdistribution-api/internal/store"
)

// Runs against a real database only when TEST_DATABASE_URL is set.
func TestRepos_Postgres(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("Skipping integration test: TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := Open(dsn)
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, Migrate(ctx, db))

	users := NewUsersRepo(db)
	cats := NewCatsRepo(db)

	u := models.User{ID: uuid.New(), Username: "it-" + uuid.NewString()[:8], CreatedAt: time.Now().UTC()}
	require.NoError(t, users.Create(ctx, u))
	assert.ErrorIs(t, users.Create(ctx, models.User{ID: uuid.New(), Username: u.Username}), store.ErrDuplicateUser)

	got, err := users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Username, got.Username)

	_, err = users.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, store.ErrNotFound)

	name := "Cleo-" + uuid.NewString()[:8]
	saved, err := cats.Save(ctx, models.Cat{
		Name:        name,
		Gender:      models.Female,
		Age:         4,
		Weight:      3.7,
		Description: "test",
		Image:       "https://example.com/c.png",
		UserID:      u.ID,
	})
	require.NoError(t, err)

	_, err = cats.Save(ctx, models.Cat{Name: name, Gender: models.Male, UserID: u.ID})
	assert.ErrorIs(t, err, store.ErrDuplicateName)

	exists, err := cats.ExistsByName(ctx, name)
	require.NoError(t, err)
	assert.True(t, exists)

	all, err := cats.FindAll(ctx)
	require.NoError(t, err)
	var found bool
	for _, c := range all {
		if c.ID == saved.ID {
			found = true
			assert.Equal(t, 3.7, c.Weight)
			assert.Equal(t, models.Female, c.Gender)
			assert.Equal(t, u.ID, c.UserID)
		}
	}
	assert.True(t, found)
}
