package rabbitmq

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catdistribution-api/internal/stream"
)

func TestPublishing_FromMessage(t *testing.T) {
	m, err := stream.NewMessage(stream.TopicCats, map[string]string{"name": "Mia12"})
	require.NoError(t, err)

	p := publishing(m)
	assert.Equal(t, "application/json", p.ContentType)
	assert.Equal(t, m.ID, p.MessageId)
	assert.Equal(t, m.TS, p.Timestamp)
	assert.JSONEq(t, `{"name":"Mia12"}`, string(p.Body))
}

// Runs against a real broker only when TEST_AMQP_URL is set.
func TestPublisher_Send(t *testing.T) {
	url := os.Getenv("TEST_AMQP_URL")
	if url == "" {
		t.Skip("Skipping integration test: TEST_AMQP_URL not set")
	}
	exchange := "cats-it-" + uuid.NewString()[:8]

	p, err := New(url, exchange)
	require.NoError(t, err)
	defer p.Close()

	ch, err := p.conn.Channel()
	require.NoError(t, err)
	defer ch.Close()
	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	require.NoError(t, err)
	require.NoError(t, ch.QueueBind(q.Name, "topic.cats-list", exchange, false, nil))

	m, err := stream.NewMessage(stream.TopicCatsList, []string{"Mia12"})
	require.NoError(t, err)
	require.NoError(t, p.Send(context.Background(), m))

	var got bool
	require.Eventually(t, func() bool {
		d, ok, err := ch.Get(q.Name, true)
		if err != nil || !ok {
			return false
		}
		got = d.MessageId == m.ID && d.RoutingKey == "topic.cats-list"
		return true
	}, 5*time.Second, 50*time.Millisecond)
	assert.True(t, got)
}
