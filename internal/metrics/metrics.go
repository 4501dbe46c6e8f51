// Package metrics exposes Prometheus instrumentation for the simulator:
// per-peer phase progress, decisions reached, and adversarial actions taken.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// PhasesExecuted counts how many phases each peer has stepped through.
	PhasesExecuted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "benor",
		Name:      "phases_executed_total",
		Help:      "Number of phases executed by a peer.",
	}, []string{"peer"})

	// Decided is a gauge of 1 once a peer reaches Done, 0 while Pending.
	Decided = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "benor",
		Name:      "peer_decided",
		Help:      "1 if the peer has decided, 0 while pending.",
	}, []string{"peer"})

	// AdversarialActions counts how many times an adversarial peer deviated
	// from the correct step function (crash, garbage-send, stall) rather
	// than running correct behavior that phase.
	AdversarialActions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "benor",
		Name:      "adversarial_actions_total",
		Help:      "Number of times an adversarial peer deviated from correct behavior.",
	}, []string{"peer", "action"})
)

func init() {
	prometheus.MustRegister(PhasesExecuted, Decided, AdversarialActions)
}

// PeerLabel formats a peer identity as the label value used across every
// metric in this package.
func PeerLabel(id int) string {
	return strconv.Itoa(id)
}
