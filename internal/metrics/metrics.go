// Package metrics exposes Prometheus instrumentation for the ledger.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Mutations counts ledger writes by operation and result.
	Mutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tripledger",
		Name:      "mutations_total",
		Help:      "Ledger mutations by operation and result.",
	}, []string{"op", "result"})

	// BridgeTransactions counts personal transactions created by the budget bridge.
	BridgeTransactions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tripledger",
		Name:      "bridge_transactions_total",
		Help:      "Personal transactions created by the budget bridge, by case.",
	}, []string{"case"})

	// DroppedCurrencies counts currencies left out of unified balances.
	DroppedCurrencies = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tripledger",
		Name:      "unified_dropped_currencies_total",
		Help:      "Currencies dropped from unified balances for lack of a rate.",
	}, []string{"currency"})

	// EventPublishFailures counts ledger events that could not be published.
	EventPublishFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tripledger",
		Name:      "event_publish_failures_total",
		Help:      "Ledger events that failed to publish.",
	})

	// RPCDuration observes RPC latency by procedure and code.
	RPCDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "tripledger",
		Name:      "rpc_duration_seconds",
		Help:      "RPC latency by procedure and result code.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"procedure", "code"})
)

// Result maps an error to a result label.
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// ObserveMutation records one ledger write.
func ObserveMutation(op string, err error) {
	Mutations.WithLabelValues(op, Result(err)).Inc()
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
