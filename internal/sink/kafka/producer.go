package kafka

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"

	"catdistribution-api/internal/stream"
)

// Producer forwards broadcast messages to a single Kafka topic, keyed by
// channel name so both channels keep their own ordering per partition.
type Producer struct {
	writer *kafka.Writer
}

func New(brokers []string, topic string) *Producer {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		BatchTimeout:           10 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}
	return &Producer{writer: w}
}

func (p *Producer) Send(ctx context.Context, m stream.Message) error {
	return p.writer.WriteMessages(ctx, record(m))
}

func record(m stream.Message) kafka.Message {
	return kafka.Message{
		Key:   []byte(m.Topic),
		Value: m.Payload,
		Time:  m.TS,
		Headers: []kafka.Header{
			{Key: "message-id", Value: []byte(m.ID)},
			{Key: "channel", Value: []byte(m.Topic)},
		},
	}
}

func (p *Producer) Close() error { return p.writer.Close() }
