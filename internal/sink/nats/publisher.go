package nats

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"catdistribution-api/internal/stream"
)

// Publisher forwards broadcast messages to core NATS subjects of the form
// <prefix>.<routing key>, e.g. "cats.topic.cats-list".
type Publisher struct {
	nc     *nats.Conn
	prefix string
}

func New(url, prefix string) (*Publisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("catdistribution-api"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(5),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	return &Publisher{nc: nc, prefix: prefix}, nil
}

func (p *Publisher) Subject(topic string) string {
	return p.prefix + "." + stream.RoutingKey(topic)
}

func (p *Publisher) Send(_ context.Context, m stream.Message) error {
	msg := nats.NewMsg(p.Subject(m.Topic))
	msg.Header.Set("Nats-Msg-Id", m.ID)
	msg.Data = m.Payload
	return p.nc.PublishMsg(msg)
}

func (p *Publisher) Close() {
	if p.nc != nil {
		p.nc.Close()
	}
}
