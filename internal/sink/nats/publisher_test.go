package nats

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"catdistribution-api/internal/stream"
)

func TestSubject(t *testing.T) {
	p := &Publisher{prefix: "cats"}
	assert.Equal(t, "cats.topic.cats", p.Subject(stream.TopicCats))
	assert.Equal(t, "cats.topic.cats-list", p.Subject(stream.TopicCatsList))
}
