package stream

import "github.com/prometheus/client_golang/prometheus"

var (
	subsGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "stream_subscribers",
		Help: "active subscribers",
	})
	dropsCtr = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "stream_dropped_messages_total",
		Help: "messages dropped because a subscriber buffer was full",
	})
	publishedCtr = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stream_published_messages_total",
		Help: "messages delivered to the local hub by topic",
	}, []string{"topic"})
	sinkErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "stream_sink_errors_total",
		Help: "sink send failures",
	})
)

func init() { prometheus.MustRegister(subsGauge, dropsCtr, publishedCtr, sinkErrors) }
