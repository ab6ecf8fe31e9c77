package feed

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	feedBuilds = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ytcast",
			Name:      "feed_builds_total",
			Help:      "Feed builds by result (ok, error).",
		},
		[]string{"result"},
	)

	feedBuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "ytcast",
			Name:      "feed_build_duration_seconds",
			Help:      "Time to resolve, list and render a feed.",
			Buckets:   prometheus.DefBuckets,
		},
	)

	notifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ytcast",
			Name:      "video_server_notifications_total",
			Help:      "Video server notifications by result (ok, error).",
		},
		[]string{"result"},
	)
)
