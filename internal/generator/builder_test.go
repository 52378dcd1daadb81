package generator

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catdistribution-api/internal/models"
	"catdistribution-api/internal/store/memory"
)

type scriptedNames struct {
	taken func(call int, name string) bool
	err   error
	calls int
	seen  []string
}

func (s *scriptedNames) ExistsByName(_ context.Context, name string) (bool, error) {
	s.calls++
	s.seen = append(s.seen, name)
	if s.err != nil {
		return false, s.err
	}
	return s.taken(s.calls, name), nil
}

func fixedClock(sec int) func() time.Time {
	return func() time.Time { return time.Date(2024, 5, 1, 10, 30, sec, 0, time.UTC) }
}

func TestBuild_FieldRanges(t *testing.T) {
	b := NewBuilder(memory.NewCatRepo(), BuilderConfig{Seed: 7})

	for i := 0; i < 1000; i++ {
		c, err := b.Build(context.Background())
		require.NoError(t, err)

		assert.True(t, c.Gender.Valid(), "gender %q", c.Gender)
		assert.GreaterOrEqual(t, c.Age, 0)
		assert.LessOrEqual(t, c.Age, 20)
		assert.GreaterOrEqual(t, c.Weight, 2.5)
		assert.Less(t, c.Weight, 8.0)
		assert.InDelta(t, math.Round(c.Weight*10)/10, c.Weight, 1e-9, "weight %v has more than one decimal", c.Weight)
		assert.Equal(t, DefaultImageURL, c.Image)
		assert.True(t, strings.HasPrefix(c.Description, c.Name+" is a "))
	}
}

func TestBuild_NameCarriesSecondOfMinute(t *testing.T) {
	b := NewBuilder(memory.NewCatRepo(), BuilderConfig{Seed: 1, Now: fixedClock(42)})

	c, err := b.Build(context.Background())
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(c.Name, "42"), c.Name)
}

func TestBuild_RetriesUntilNameIsFree(t *testing.T) {
	names := &scriptedNames{taken: func(call int, _ string) bool { return call <= 3 }}
	b := NewBuilder(names, BuilderConfig{Seed: 3, Now: fixedClock(5)})

	c, err := b.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, names.calls)
	assert.Equal(t, names.seen[3], c.Name)
}

func TestBuild_FallsBackToSuffixAfterMaxAttempts(t *testing.T) {
	names := &scriptedNames{taken: func(call int, _ string) bool { return call <= 5 }}
	b := NewBuilder(names, BuilderConfig{Seed: 3, MaxNameAttempts: 5})

	c, err := b.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 6, names.calls)
	assert.Contains(t, c.Name, "-")
}

func TestBuild_NameExhausted(t *testing.T) {
	names := &scriptedNames{taken: func(int, string) bool { return true }}
	b := NewBuilder(names, BuilderConfig{Seed: 3, MaxNameAttempts: 4})

	_, err := b.Build(context.Background())
	assert.ErrorIs(t, err, ErrNameExhausted)
	assert.Equal(t, 5, names.calls)
}

func TestBuild_CheckerErrorIsReturned(t *testing.T) {
	boom := errors.New("db down")
	b := NewBuilder(&scriptedNames{err: boom}, BuilderConfig{Seed: 3})

	_, err := b.Build(context.Background())
	assert.ErrorIs(t, err, boom)
}

type emptyImage struct{}

func (emptyImage) ImageURL(context.Context) string { return "" }

func TestBuild_ImageSource(t *testing.T) {
	b := NewBuilder(memory.NewCatRepo(), BuilderConfig{Image: StaticImage("https://example.com/cat.png")})
	c, err := b.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/cat.png", c.Image)

	b = NewBuilder(memory.NewCatRepo(), BuilderConfig{Image: emptyImage{}})
	c, err = b.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DefaultImageURL, c.Image)

	b = NewBuilder(memory.NewCatRepo(), BuilderConfig{Image: emptyImage{}, FallbackImage: "https://example.com/other.png"})
	c, err = b.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/other.png", c.Image)
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		name   string
		gender models.Gender
		age    int
		want   string
	}{
		{"kitten he", models.Male, 0, "He is still very young and loves to play all day long."},
		{"kitten she", models.Female, 2, "She is still very young and loves to play all day long."},
		{"young he", models.Male, 3, "He enjoys both playtime and naps, making him the perfect companion."},
		{"young she", models.Female, 5, "She enjoys both playtime and naps, making her the perfect companion."},
		{"adult he", models.Male, 6, "He has a gentle personality and loves cuddles but also appreciates his space."},
		{"adult she", models.Female, 10, "She has a gentle personality and loves cuddles but also appreciates her space."},
		{"senior he", models.Male, 11, "He is a wise and relaxed cat who enjoys quiet moments and cozy spots."},
		{"senior she", models.Female, 20, "She is a wise and relaxed cat who enjoys quiet moments and cozy spots."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Describe("Milo12", tt.gender, tt.age, traits[0])
			assert.Equal(t, "Milo12 is a playful and full of energy cat. "+tt.want, got)
		})
	}
}

func TestBuild_DescriptionMatchesRecord(t *testing.T) {
	b := NewBuilder(memory.NewCatRepo(), BuilderConfig{Seed: 11})

	for i := 0; i < 200; i++ {
		c, err := b.Build(context.Background())
		require.NoError(t, err)

		pronoun := "She "
		if c.Gender == models.Male {
			pronoun = "He "
		}
		assert.Contains(t, c.Description, ". "+pronoun)

		var band string
		switch {
		case c.Age <= 2:
			band = "still very young"
		case c.Age <= 5:
			band = "both playtime and naps"
		case c.Age <= 10:
			band = "gentle personality"
		default:
			band = "wise and relaxed"
		}
		assert.Contains(t, c.Description, band)
	}
}
