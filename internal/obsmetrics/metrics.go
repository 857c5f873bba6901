// Package obsmetrics exposes optional Prometheus instrumentation for the
// anonymity driver. Importing it is enough to have the collectors
// registered; serving /metrics is left to cmd/ppcalc.
package obsmetrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// SourcesProcessed counts sources whose message sequence has been
	// fully reduced to candidate destination sets.
	SourcesProcessed = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "ppcalc",
		Subsystem: "anonymity",
		Name:      "sources_processed_total",
		Help:      "Number of sources whose anonymity sets have been computed.",
	})

	// MessagesProcessed counts messages folded into a candidate set,
	// across all sources.
	MessagesProcessed = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "ppcalc",
		Subsystem: "anonymity",
		Name:      "messages_processed_total",
		Help:      "Number of messages whose relationship-anonymity set has been computed.",
	})

	// AnonymitySetSize observes the final anonymity-set size of every
	// message processed, for distribution analysis.
	AnonymitySetSize = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "ppcalc",
		Subsystem: "anonymity",
		Name:      "set_size",
		Help:      "Distribution of per-message anonymity set sizes.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 16),
	})
)

func init() {
	prometheus.MustRegister(SourcesProcessed, MessagesProcessed, AnonymitySetSize)
}

// Registry returns the default Prometheus registerer these collectors are
// registered with.
func Registry() prometheus.Registerer {
	return prometheus.DefaultRegisterer
}

// Gatherer returns the default Prometheus gatherer, for wiring a /metrics
// HTTP handler.
func Gatherer() prometheus.Gatherer {
	return prometheus.DefaultGatherer
}
