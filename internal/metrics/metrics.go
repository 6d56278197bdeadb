// Package metrics exposes Prometheus counters for the relay workflow.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// SubmissionsTotal counts relayed submissions by outcome: "forwarded" or "failed".
	SubmissionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "relay_submissions_total",
		Help: "Total number of media submissions handled",
	}, []string{"outcome"})

	// DecisionsTotal counts moderator actions by result: "approved", "rejected" or "failed".
	DecisionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "relay_decisions_total",
		Help: "Total number of moderation decisions processed",
	}, []string{"result"})

	ConversationTimeouts = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "relay_conversation_timeouts_total",
		Help: "Conversations that ended without a media submission",
	})

	AwaitingConversations = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "relay_awaiting_conversations",
		Help: "Conversations currently waiting for media",
	})
)

func init() {
	prometheus.MustRegister(
		SubmissionsTotal,
		DecisionsTotal,
		ConversationTimeouts,
		AwaitingConversations,
	)
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
