// Package cluster shares broadcast messages between API instances over Redis
// pub/sub, so a subscriber connected to any instance sees every record.
package cluster

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"catdistribution-api/internal/stream"
)

type Relay struct {
	rdb     *redis.Client
	channel string
	node    string
	local   stream.Sink
}

// New builds a relay for node. Messages from other nodes are delivered to
// local, usually the instance's hub.
func New(rdb *redis.Client, channel, node string, local stream.Sink) *Relay {
	return &Relay{rdb: rdb, channel: channel, node: node, local: local}
}

func (r *Relay) Send(ctx context.Context, m stream.Message) error {
	if m.Origin == "" {
		m.Origin = r.node
	}
	b, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return r.rdb.Publish(ctx, r.channel, b).Err()
}

// Run forwards remote messages into the local sink until ctx is done.
func (r *Relay) Run(ctx context.Context) error {
	pubsub := r.rdb.Subscribe(ctx, r.channel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return err
	}
	ch := pubsub.Channel()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			if err := r.deliver(ctx, []byte(msg.Payload)); err != nil {
				log.Warn().Err(err).Msg("cluster decode")
			}
		}
	}
}

func (r *Relay) deliver(ctx context.Context, raw []byte) error {
	var m stream.Message
	if err := json.Unmarshal(raw, &m); err != nil {
		return err
	}
	if m.Origin == r.node {
		return nil
	}
	return r.local.Send(ctx, m)
}
