package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	sendsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "conversync_sends_total",
			Help: "Total number of optimistic sends, by outcome.",
		},
		[]string{"result"},
	)
	refetchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "conversync_refetches_total",
			Help: "Total number of wholesale message list refetches, by trigger.",
		},
		[]string{"reason"},
	)
	pushEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "conversync_push_events_total",
			Help: "Total number of push events dispatched to subscribers.",
		},
		[]string{"type"},
	)
	dedupHitsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "conversync_dedup_hits_total",
			Help: "Total number of push events ignored as already materialized.",
		},
	)
	reactionTogglesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "conversync_reaction_toggles_total",
			Help: "Total number of reaction toggles, by action.",
		},
		[]string{"action"},
	)
	activeListeners = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "conversync_active_listeners",
			Help: "Number of running push listeners.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		sendsTotal,
		refetchesTotal,
		pushEventsTotal,
		dedupHitsTotal,
		reactionTogglesTotal,
		activeListeners,
	)
}

func IncSend(result string) {
	sendsTotal.WithLabelValues(result).Inc()
}

func IncRefetch(reason string) {
	refetchesTotal.WithLabelValues(reason).Inc()
}

func IncPushEvent(eventType string) {
	pushEventsTotal.WithLabelValues(eventType).Inc()
}

func IncDedupHit() {
	dedupHitsTotal.Inc()
}

func IncReactionToggle(action string) {
	reactionTogglesTotal.WithLabelValues(action).Inc()
}

func IncActiveListeners() {
	activeListeners.Inc()
}

func DecActiveListeners() {
	activeListeners.Dec()
}
