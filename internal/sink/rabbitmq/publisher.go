package rabbitmq

import (
	"context"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"catdistribution-api/internal/stream"
)

// Publisher forwards broadcast messages to a topic exchange. The routing key
// is the dotted channel name, e.g. "topic.cats".
type Publisher struct {
	conn     *amqp.Connection
	exchange string

	mu sync.Mutex
	ch *amqp.Channel
}

func New(url, exchange string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	return &Publisher{conn: conn, exchange: exchange, ch: ch}, nil
}

func (p *Publisher) Send(ctx context.Context, m stream.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ch.PublishWithContext(ctx, p.exchange, stream.RoutingKey(m.Topic), false, false, publishing(m))
}

func publishing(m stream.Message) amqp.Publishing {
	return amqp.Publishing{
		ContentType: "application/json",
		MessageId:   m.ID,
		Timestamp:   m.TS,
		Body:        m.Payload,
	}
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	_ = p.ch.Close()
	return p.conn.Close()
}
