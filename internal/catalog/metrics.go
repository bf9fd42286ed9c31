package catalog

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	refreshTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "glyphwrite_catalog_refresh_total",
			Help: "Model catalog refresh attempts by outcome",
		},
		[]string{"outcome"},
	)

	modelsOffered = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "glyphwrite_catalog_models",
			Help: "Models offered per capability after the last successful refresh",
		},
		[]string{"capability"},
	)
)
