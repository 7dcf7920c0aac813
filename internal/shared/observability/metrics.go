package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	ParsingDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ccheck_parsing_seconds",
		Help:    "Time spent parsing a source file.",
		Buckets: prometheus.DefBuckets,
	}, []string{"language"})

	ASTNodes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ccheck_ast_nodes",
		Help: "Number of nodes in the most recently parsed syntax tree.",
	})

	ParserLeases = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ccheck_parser_leases",
		Help: "Number of pooled tree-sitter parsers currently in use.",
	})

	RuleDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ccheck_rule_seconds",
		Help:    "Time spent running a single diagnostic rule over a tree.",
		Buckets: prometheus.DefBuckets,
	}, []string{"rule"})

	DiagnosticsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ccheck_diagnostics_total",
		Help: "Total number of diagnostics emitted, by rule.",
	}, []string{"rule"})

	SkippedNodesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ccheck_skipped_nodes_total",
		Help: "Total number of nodes a rule skipped after a local error.",
	}, []string{"rule", "reason"})
)

// WriteTextfile dumps the default registry in the node_exporter textfile format.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
