package session

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	finalizedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "glyphwrite",
		Subsystem: "practice",
		Name:      "sessions_finalized_total",
		Help:      "Finalized practice attempts by score source.",
	}, []string{"score_source"})

	evaluationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "glyphwrite",
		Subsystem: "practice",
		Name:      "evaluations_total",
		Help:      "Capability calls made during practice by outcome.",
	}, []string{"capability", "outcome"})

	staleTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "glyphwrite",
		Subsystem: "practice",
		Name:      "stale_results_total",
		Help:      "Submissions whose results were discarded because the attempt changed.",
	})
)

func observeEvaluation(r EvaluationResult) {
	outcome := "success"
	if !r.Succeeded {
		outcome = string(r.ErrorKind)
	}
	evaluationsTotal.WithLabelValues(string(r.Capability), outcome).Inc()
}
