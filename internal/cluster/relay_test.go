package cluster

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catdistribution-api/internal/stream"
)

type collect struct {
	mu  sync.Mutex
	got []stream.Message
}

func (c *collect) Send(_ context.Context, m stream.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.got = append(c.got, m)
	return nil
}

func encode(t *testing.T, origin, topic string) []byte {
	t.Helper()
	m, err := stream.NewMessage(topic, map[string]string{"name": "Nala7"})
	require.NoError(t, err)
	m.Origin = origin
	b, err := json.Marshal(m)
	require.NoError(t, err)
	return b
}

func TestDeliver_SkipsOwnMessages(t *testing.T) {
	local := &collect{}
	r := New(nil, "cats:cluster", "node-a", local)

	require.NoError(t, r.deliver(context.Background(), encode(t, "node-a", stream.TopicCats)))
	assert.Empty(t, local.got)
}

func TestDeliver_ForwardsRemoteMessages(t *testing.T) {
	local := &collect{}
	r := New(nil, "cats:cluster", "node-a", local)

	require.NoError(t, r.deliver(context.Background(), encode(t, "node-b", stream.TopicCatsList)))
	require.Len(t, local.got, 1)
	assert.Equal(t, stream.TopicCatsList, local.got[0].Topic)
	assert.Equal(t, "node-b", local.got[0].Origin)
	assert.JSONEq(t, `{"name":"Nala7"}`, string(local.got[0].Payload))
}

func TestDeliver_BadPayload(t *testing.T) {
	r := New(nil, "cats:cluster", "node-a", &collect{})
	assert.Error(t, r.deliver(context.Background(), []byte("{not json")))
}
