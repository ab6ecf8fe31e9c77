package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var cacheRequests = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "ytcast",
		Name:      "cache_requests_total",
		Help:      "Memoized lookups by namespace and result (hit, miss, error).",
	},
	[]string{"namespace", "result"},
)
