package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"catdistribution-api/internal/models"
	"catdistribution-api/internal/store"
)

type CatsRepo struct {
	db *sql.DB
}

func NewCatsRepo(db *sql.DB) *CatsRepo {
	return &CatsRepo{db: db}
}

func (r *CatsRepo) Save(ctx context.Context, c models.Cat) (models.Cat, error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO cats (
			id, name, gender, age, weight,
			description, image, user_id, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`,
		c.ID,
		c.Name,
		string(c.Gender),
		c.Age,
		c.Weight,
		c.Description,
		c.Image,
		c.UserID,
		c.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "name_key") {
			return models.Cat{}, store.ErrDuplicateName
		}
		return models.Cat{}, err
	}
	return c, nil
}

func (r *CatsRepo) FindAll(ctx context.Context) ([]models.Cat, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, name, gender, age, weight,
			description, image, user_id, created_at
		FROM cats
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.Cat, 0)
	for rows.Next() {
		var c models.Cat
		var gender string
		if err := rows.Scan(
			&c.ID,
			&c.Name,
			&gender,
			&c.Age,
			&c.Weight,
			&c.Description,
			&c.Image,
			&c.UserID,
			&c.CreatedAt,
		); err != nil {
			return nil, err
		}
		c.Gender = models.Gender(gender)
		out = append(out, c)
	}

	return out, rows.Err()
}

func (r *CatsRepo) ExistsByName(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM cats WHERE name = $1)`, name).Scan(&exists)
	return exists, err
}
