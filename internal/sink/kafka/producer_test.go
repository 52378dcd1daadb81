package kafka

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catdistribution-api/internal/stream"
)

func TestRecord_KeyAndHeaders(t *testing.T) {
	m, err := stream.NewMessage(stream.TopicCatsList, []string{"Nala4"})
	require.NoError(t, err)

	r := record(m)
	assert.Equal(t, stream.TopicCatsList, string(r.Key))
	assert.JSONEq(t, `["Nala4"]`, string(r.Value))
	assert.Equal(t, m.TS, r.Time)
	assert.Equal(t, []kafka.Header{
		{Key: "message-id", Value: []byte(m.ID)},
		{Key: "channel", Value: []byte(stream.TopicCatsList)},
	}, r.Headers)
}

// Runs against a real broker only when TEST_KAFKA_BROKERS is set.
func TestProducer_Send(t *testing.T) {
	brokers := os.Getenv("TEST_KAFKA_BROKERS")
	if brokers == "" {
		t.Skip("Skipping integration test: TEST_KAFKA_BROKERS not set")
	}
	addrs := strings.Split(brokers, ",")
	topic := "cats-it-" + uuid.NewString()[:8]

	p := New(addrs, topic)
	defer p.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	m, err := stream.NewMessage(stream.TopicCats, map[string]string{"name": "Leo9"})
	require.NoError(t, err)
	require.NoError(t, p.Send(ctx, m))

	r := kafka.NewReader(kafka.ReaderConfig{Brokers: addrs, Topic: topic, Partition: 0})
	defer r.Close()
	got, err := r.ReadMessage(ctx)
	require.NoError(t, err)
	assert.Equal(t, stream.TopicCats, string(got.Key))
	assert.JSONEq(t, `{"name":"Leo9"}`, string(got.Value))
}
