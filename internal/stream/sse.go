package stream

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

func parseSince(r *http.Request) time.Time {
	if id := r.Header.Get("Last-Event-ID"); id != "" {
		if ns, err := strconv.ParseInt(id, 10, 64); err == nil {
			return time.Unix(0, ns)
		}
	}
	if s := r.URL.Query().Get("since"); s != "" {
		if d, err := time.ParseDuration(s); err == nil {
			return time.Now().Add(-d)
		}
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// ParseTopics reads the comma separated ?topics= list. Empty means every topic.
func ParseTopics(r *http.Request) []string {
	var out []string
	for _, t := range strings.Split(r.URL.Query().Get("topics"), ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func SSE(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "stream unsupported", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")

		topics := ParseTopics(r)

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()
		sub := hub.SubscribeSince(ctx, 512, parseSince(r), topics...)

		w.WriteHeader(http.StatusOK)
		flusher.Flush()

		ping := time.NewTicker(15 * time.Second)
		defer ping.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ping.C:
				_, _ = fmt.Fprintf(w, ": ping\n\n")
				flusher.Flush()
			case m, ok := <-sub:
				if !ok {
					return
				}
				_, _ = fmt.Fprintf(w, "id: %d\n", m.TS.UnixNano())
				_, _ = fmt.Fprintf(w, "event: %s\n", m.Topic)
				_, _ = fmt.Fprintf(w, "data: %s\n\n", m.Payload)
				flusher.Flush()
			}
		}
	}
}
