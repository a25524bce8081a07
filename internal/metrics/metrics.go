// Package metrics defines Prometheus metrics for the backoffice.
//
// Metric naming follows Prometheus conventions: backoffice_ prefix, _total
// suffix for counters.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// LeadFetches counts lead list fetches by outcome (ready, empty).
	LeadFetches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backoffice_lead_fetches_total",
			Help: "Total number of lead list fetches by outcome.",
		},
		[]string{"outcome"},
	)

	// LeadDeletions counts lead delete attempts by outcome (ok, error).
	LeadDeletions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backoffice_lead_deletions_total",
			Help: "Total number of lead deletions by outcome.",
		},
		[]string{"outcome"},
	)

	// ChatMessages counts simulator log entries by role.
	ChatMessages = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backoffice_chat_messages_total",
			Help: "Total number of chat simulator messages by role.",
		},
		[]string{"role"},
	)

	// Logins counts login attempts by outcome (ok, error).
	Logins = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backoffice_logins_total",
			Help: "Total number of login attempts by outcome.",
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(LeadFetches, LeadDeletions, ChatMessages, Logins)
}
