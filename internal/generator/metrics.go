package generator

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	ticksCtr = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "generator_ticks_total",
		Help: "generation ticks by outcome",
	}, []string{"outcome"})
	tickFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "generator_tick_failures_total",
		Help: "failed ticks by stage",
	}, []string{"stage"})
	tickDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "generator_tick_duration_seconds",
		Help:    "duration of completed ticks",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
	})
	sessionsActive = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "generator_session_active",
		Help: "1 while a generation session runs",
	})
)

func init() { prometheus.MustRegister(ticksCtr, tickFailures, tickDuration, sessionsActive) }

func observe(res TickResult) {
	switch {
	case res.Skipped:
		ticksCtr.WithLabelValues("skipped").Inc()
	case res.Err != nil:
		ticksCtr.WithLabelValues("failed").Inc()
		var te *TickError
		if errors.As(res.Err, &te) {
			tickFailures.WithLabelValues(string(te.Stage)).Inc()
		}
	default:
		ticksCtr.WithLabelValues("ok").Inc()
		tickDuration.Observe(res.Duration.Seconds())
	}
}
