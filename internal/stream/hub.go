package stream

import (
	"context"
	"sync"
	"time"
)

type Subscriber chan Message

type topicSet map[string]struct{}

func (t topicSet) match(topic string) bool {
	if len(t) == 0 {
		return true
	}
	_, ok := t[topic]
	return ok
}

func newTopicSet(topics []string) topicSet {
	set := topicSet{}
	for _, t := range topics {
		if t != "" {
			set[t] = struct{}{}
		}
	}
	return set
}

type Hub struct {
	mu      sync.RWMutex
	subs    map[Subscriber]topicSet
	hmu     sync.RWMutex
	hist    []Message
	histMax int
	histTTL time.Duration
}

func NewHub(histMax int) *Hub {
	if histMax <= 0 {
		histMax = 1000
	}
	return &Hub{
		subs:    make(map[Subscriber]topicSet),
		hist:    make([]Message, 0, histMax),
		histMax: histMax,
		histTTL: time.Hour,
	}
}

// Subscribe registers a buffered subscriber for the given topics (all topics
// when none are given). The channel is closed once ctx is done.
func (h *Hub) Subscribe(ctx context.Context, buf int, topics ...string) Subscriber {
	return h.SubscribeSince(ctx, buf, time.Time{}, topics...)
}

// SubscribeSince is Subscribe preceded by a replay of the history newer than
// since. Replay and registration happen under the subscriber lock, so every
// message reaches the channel once and in publish order.
func (h *Hub) SubscribeSince(ctx context.Context, buf int, since time.Time, topics ...string) Subscriber {
	ch := make(Subscriber, buf)
	set := newTopicSet(topics)

	h.mu.Lock()
	if !since.IsZero() {
		h.replay(since, ch, set)
	}
	h.subs[ch] = set
	h.mu.Unlock()
	subsGauge.Inc()

	go func() {
		<-ctx.Done()
		h.mu.Lock()
		delete(h.subs, ch)
		close(ch)
		h.mu.Unlock()
		subsGauge.Dec()
	}()
	return ch
}

func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Send delivers m to every matching subscriber without blocking; a full
// subscriber loses the message.
func (h *Hub) Send(_ context.Context, m Message) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch, topics := range h.subs {
		if !topics.match(m.Topic) {
			continue
		}
		select {
		case ch <- m:
		default:
			dropsCtr.Inc()
		}
	}
	publishedCtr.WithLabelValues(m.Topic).Inc()

	h.hmu.Lock()
	cut := time.Now().Add(-h.histTTL)
	h.hist = append(h.hist, m)
	if len(h.hist) > h.histMax {
		h.hist = h.hist[len(h.hist)-h.histMax:]
	}
	i := 0
	for ; i < len(h.hist) && h.hist[i].TS.Before(cut); i++ {
	}
	if i > 0 {
		h.hist = h.hist[i:]
	}
	h.hmu.Unlock()
	return nil
}

// ReplaySince copies the history newer than since into out without blocking.
func (h *Hub) ReplaySince(since time.Time, out Subscriber, topics ...string) {
	h.replay(since, out, newTopicSet(topics))
}

func (h *Hub) replay(since time.Time, out Subscriber, set topicSet) {
	h.hmu.RLock()
	defer h.hmu.RUnlock()
	for _, m := range h.hist {
		if m.TS.After(since) && set.match(m.Topic) {
			select {
			case out <- m:
			default:
			}
		}
	}
}
