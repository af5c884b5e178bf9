package gauntlet

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// runsTotal counts gauntlet runs by outcome.
	// Labels: outcome (pass, fail, fatal)
	runsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "complianced",
			Subsystem: "gauntlet",
			Name:      "runs_total",
			Help:      "Total number of gauntlet runs by outcome",
		},
		[]string{"outcome"},
	)

	// runDuration tracks end-to-end gauntlet latency.
	runDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "complianced",
			Subsystem: "gauntlet",
			Name:      "run_duration_seconds",
			Help:      "Duration of gauntlet runs in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)

	// verdictsTotal counts individual evaluator verdicts.
	// Labels: evaluator, passed (true, false)
	verdictsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "complianced",
			Subsystem: "gauntlet",
			Name:      "evaluator_verdicts_total",
			Help:      "Total number of evaluator verdicts",
		},
		[]string{"evaluator", "passed"},
	)
)

func recordRun(outcome string, elapsed time.Duration) {
	runsTotal.WithLabelValues(outcome).Inc()
	runDuration.Observe(elapsed.Seconds())
}

func recordVerdict(evaluator string, passed bool) {
	label := "false"
	if passed {
		label = "true"
	}
	verdictsTotal.WithLabelValues(evaluator, label).Inc()
}
