package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	noSearches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "comparefinder_searches_total",
		Help: "The total number of processed searches",
	}, []string{"category"})
	facetRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "comparefinder_facets_total",
		Help: "The total number of processed facet requests",
	}, []string{"category"})
	compareToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "comparefinder_compare_toggles_total",
		Help: "Comparison toggles by outcome",
	}, []string{"category", "result"})
	searchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "comparefinder_search_duration_seconds",
		Help:    "Time spent filtering and sorting a catalog",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
	}, []string{"category"})
)
