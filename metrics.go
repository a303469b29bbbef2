package statichosts

import (
	"github.com/coredns/coredns/plugin"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	resultHit  = "hit"
	resultMiss = "miss"

	reloadSuccess = "success"
	reloadError   = "error"

	dropParse   = "parse_error"
	dropInvalid = "invalid_address"
)

var (
	// hostsEntries is the number of records currently served.
	hostsEntries = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: plugin.Namespace,
		Subsystem: "statichosts",
		Name:      "entries",
		Help:      "The number of records currently served.",
	})

	// droppedLines counts hosts lines skipped while parsing.
	droppedLines = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: plugin.Namespace,
		Subsystem: "statichosts",
		Name:      "dropped_lines_total",
		Help:      "Counter of hosts lines skipped because of a bad or refused address.",
	}, []string{"reason"})

	// reloadsTotal counts reload attempts that found new content.
	reloadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: plugin.Namespace,
		Subsystem: "statichosts",
		Name:      "reloads_total",
		Help:      "Counter of hosts reloads by result.",
	}, []string{"result"})

	queriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: plugin.Namespace,
		Subsystem: "statichosts",
		Name:      "queries_total",
		Help:      "Counter of queries by type and result.",
	}, []string{"qtype", "result"})

	queryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: plugin.Namespace,
		Subsystem: "statichosts",
		Name:      "query_duration_seconds",
		Help:      "Histogram of query handling time.",
		Buckets:   plugin.TimeBuckets,
	}, []string{"qtype"})
)
