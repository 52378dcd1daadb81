package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"catdistribution-api/internal/models"
	"catdistribution-api/internal/store"
)

type catDoc struct {
	ID          string    `bson:"_id"`
	Name        string    `bson:"name"`
	Gender      string    `bson:"gender"`
	Age         int       `bson:"age"`
	Weight      float64   `bson:"weight"`
	Description string    `bson:"description"`
	Image       string    `bson:"image"`
	UserID      string    `bson:"user_id"`
	CreatedAt   time.Time `bson:"created_at"`
}

type userDoc struct {
	ID        string    `bson:"_id"`
	Username  string    `bson:"username"`
	CreatedAt time.Time `bson:"created_at"`
}

// Connect dials the server, pings it and makes sure the unique indexes the
// repositories rely on exist.
func Connect(ctx context.Context, uri, dbName string) (*mongo.Database, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	db := client.Database(dbName)
	if err := ensureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return db, nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	unique := options.Index().SetUnique(true)
	if _, err := db.Collection("cats").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "name", Value: 1}}, Options: unique,
	}); err != nil {
		return err
	}
	_, err := db.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "username", Value: 1}}, Options: unique,
	})
	return err
}

type CatsRepo struct {
	coll *mongo.Collection
}

func NewCatsRepo(db *mongo.Database) *CatsRepo {
	return &CatsRepo{coll: db.Collection("cats")}
}

func (r *CatsRepo) Save(ctx context.Context, c models.Cat) (models.Cat, error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	_, err := r.coll.InsertOne(ctx, catDoc{
		ID:          c.ID.String(),
		Name:        c.Name,
		Gender:      string(c.Gender),
		Age:         c.Age,
		Weight:      c.Weight,
		Description: c.Description,
		Image:       c.Image,
		UserID:      c.UserID.String(),
		CreatedAt:   c.CreatedAt,
	})
	if mongo.IsDuplicateKeyError(err) {
		return models.Cat{}, store.ErrDuplicateName
	}
	if err != nil {
		return models.Cat{}, err
	}
	return c, nil
}

func (r *CatsRepo) FindAll(ctx context.Context) ([]models.Cat, error) {
	cur, err := r.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]models.Cat, 0)
	for cur.Next(ctx) {
		var d catDoc
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		c := models.Cat{
			Name:        d.Name,
			Gender:      models.Gender(d.Gender),
			Age:         d.Age,
			Weight:      d.Weight,
			Description: d.Description,
			Image:       d.Image,
			CreatedAt:   d.CreatedAt,
		}
		c.ID, _ = uuid.Parse(d.ID)
		c.UserID, _ = uuid.Parse(d.UserID)
		out = append(out, c)
	}
	return out, cur.Err()
}

func (r *CatsRepo) ExistsByName(ctx context.Context, name string) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.D{{Key: "name", Value: name}}, options.Count().SetLimit(1))
	return n > 0, err
}

type UsersRepo struct {
	coll *mongo.Collection
}

func NewUsersRepo(db *mongo.Database) *UsersRepo {
	return &UsersRepo{coll: db.Collection("users")}
}

func (r *UsersRepo) GetByID(ctx context.Context, id uuid.UUID) (models.User, error) {
	var d userDoc
	err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id.String()}}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, store.ErrNotFound
	}
	if err != nil {
		return models.User{}, err
	}
	return models.User{ID: id, Username: d.Username, CreatedAt: d.CreatedAt}, nil
}

func (r *UsersRepo) Create(ctx context.Context, u models.User) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	_, err := r.coll.InsertOne(ctx, userDoc{ID: u.ID.String(), Username: u.Username, CreatedAt: u.CreatedAt})
	if mongo.IsDuplicateKeyError(err) {
		return store.ErrDuplicateUser
	}
	return err
}
