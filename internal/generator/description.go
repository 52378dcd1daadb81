package generator

import (
	"fmt"

	"catdistribution-api/internal/models"
)

var traits = []string{
	"playful and full of energy",
	"calm and affectionate",
	"curious about everything",
	"a little mischievous but very loving",
	"shy at first, but warms up quickly",
	"always looking for a warm lap to sit on",
	"a big talker who loves attention",
	"an independent spirit with a gentle heart",
	"a little clumsy but incredibly sweet",
	"a brave explorer who loves adventure",
}

type pronouns struct{ subject, object, possessive string }

func pronounsFor(g models.Gender) pronouns {
	if g == models.Male {
		return pronouns{"He", "him", "his"}
	}
	return pronouns{"She", "her", "her"}
}

// Describe renders the description for a cat with the given trait. The
// second sentence depends on the age band: up to 2, up to 5, up to 10, older.
func Describe(name string, g models.Gender, age int, trait string) string {
	p := pronounsFor(g)
	base := fmt.Sprintf("%s is a %s cat. ", name, trait)

	switch {
	case age <= 2:
		return base + p.subject + " is still very young and loves to play all day long."
	case age <= 5:
		return base + p.subject + " enjoys both playtime and naps, making " + p.object + " the perfect companion."
	case age <= 10:
		return base + p.subject + " has a gentle personality and loves cuddles but also appreciates " + p.possessive + " space."
	default:
		return base + p.subject + " is a wise and relaxed cat who enjoys quiet moments and cozy spots."
	}
}
