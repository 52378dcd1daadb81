package stream

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Channel names subscribers listen on. TopicCats carries a single record,
// TopicCatsList the full current list.
const (
	TopicCats     = "/topic/cats"
	TopicCatsList = "/topic/cats-list"
)

type Message struct {
	ID      string          `json:"id"`
	Topic   string          `json:"topic"`
	Payload json.RawMessage `json:"payload"`
	TS      time.Time       `json:"ts"`
	Origin  string          `json:"origin,omitempty"`
}

func NewMessage(topic string, payload any) (Message, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{
		ID:      uuid.NewString(),
		Topic:   topic,
		Payload: b,
		TS:      time.Now().UTC(),
	}, nil
}

// Sink receives every broadcast message: the local hub, the cluster relay
// and the broker forwarders.
type Sink interface {
	Send(ctx context.Context, m Message) error
}

// Broadcaster encodes a payload once and hands it to every sink.
type Broadcaster struct {
	origin string
	sinks  []Sink
}

func NewBroadcaster(origin string, sinks ...Sink) *Broadcaster {
	return &Broadcaster{origin: origin, sinks: sinks}
}

func (b *Broadcaster) Add(s Sink) { b.sinks = append(b.sinks, s) }

func (b *Broadcaster) Publish(ctx context.Context, topic string, payload any) error {
	m, err := NewMessage(topic, payload)
	if err != nil {
		return err
	}
	m.Origin = b.origin

	var errs []error
	for _, s := range b.sinks {
		if err := s.Send(ctx, m); err != nil {
			sinkErrors.Inc()
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RoutingKey turns a channel name into a dotted broker key:
// "/topic/cats-list" becomes "topic.cats-list".
func RoutingKey(topic string) string {
	return strings.ReplaceAll(strings.Trim(topic, "/"), "/", ".")
}
