package generator

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"

	"catdistribution-api/internal/models"
)

const (
	MinAge = 0
	MaxAge = 20

	// weights are drawn in tenths of a kilogram: 2.5 .. 7.9
	minWeightTenths = 25
	maxWeightTenths = 79

	DefaultImageURL = "https://mymodernmet.com/wp/wp-content/uploads/archive/3SVSdXInLL8ORNm6uCsk_1065304886.jpeg"
)

var ErrNameExhausted = errors.New("generator: no unique cat name available")

// NameChecker reports whether a cat with the given name is already stored.
type NameChecker interface {
	ExistsByName(ctx context.Context, name string) (bool, error)
}

// ImageSource yields the image URL for a new record. An empty string means
// "no image available".
type ImageSource interface {
	ImageURL(ctx context.Context) string
}

type StaticImage string

func (s StaticImage) ImageURL(context.Context) string { return string(s) }

type BuilderConfig struct {
	// MaxNameAttempts bounds the first-name + second draws before a random
	// suffix is appended.
	MaxNameAttempts int
	Seed            int64
	Image           ImageSource
	// FallbackImage is used when Image yields "". Defaults to DefaultImageURL.
	FallbackImage string
	Now           func() time.Time
}

type Builder struct {
	names    NameChecker
	image    ImageSource
	fallback StaticImage
	attempts int
	now      func() time.Time

	mu    sync.Mutex
	faker *gofakeit.Faker
}

func NewBuilder(names NameChecker, cfg BuilderConfig) *Builder {
	if cfg.MaxNameAttempts <= 0 {
		cfg.MaxNameAttempts = 100
	}
	if cfg.Image == nil {
		cfg.Image = StaticImage(DefaultImageURL)
	}
	if cfg.FallbackImage == "" {
		cfg.FallbackImage = DefaultImageURL
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Builder{
		names:    names,
		image:    cfg.Image,
		fallback: StaticImage(cfg.FallbackImage),
		attempts: cfg.MaxNameAttempts,
		now:      cfg.Now,
		faker:    gofakeit.New(cfg.Seed),
	}
}

// Build draws a new cat with a name unique against the NameChecker. The
// returned record has no id and no owner yet.
func (b *Builder) Build(ctx context.Context) (models.Cat, error) {
	name, err := b.uniqueName(ctx)
	if err != nil {
		return models.Cat{}, err
	}

	b.mu.Lock()
	gender := models.Female
	if b.faker.Bool() {
		gender = models.Male
	}
	age := b.faker.Number(MinAge, MaxAge)
	weight := float64(b.faker.Number(minWeightTenths, maxWeightTenths)) / 10
	trait := b.faker.RandomString(traits)
	b.mu.Unlock()

	image := b.image.ImageURL(ctx)
	if image == "" {
		image = b.fallback.ImageURL(ctx)
	}

	return models.Cat{
		Name:        name,
		Gender:      gender,
		Age:         age,
		Weight:      weight,
		Description: Describe(name, gender, age, trait),
		Image:       image,
	}, nil
}

func (b *Builder) uniqueName(ctx context.Context) (string, error) {
	for i := 0; i < b.attempts; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		name := b.firstName() + strconv.Itoa(b.now().Second())
		taken, err := b.names.ExistsByName(ctx, name)
		if err != nil {
			return "", fmt.Errorf("check name: %w", err)
		}
		if !taken {
			return name, nil
		}
	}

	name := b.firstName() + "-" + uuid.NewString()[:8]
	taken, err := b.names.ExistsByName(ctx, name)
	if err != nil {
		return "", fmt.Errorf("check name: %w", err)
	}
	if taken {
		return "", ErrNameExhausted
	}
	return name, nil
}

func (b *Builder) firstName() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.faker.FirstName()
}
