// Package metrics provides Prometheus metrics for the gallery service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// GalleryLoadsTotal counts gallery loads by where the records came from
	// (remote, fallback-empty, fallback-error).
	GalleryLoadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gallery",
		Name:      "loads_total",
		Help:      "Total number of gallery loads, by record source.",
	}, []string{"source"})

	// MutationsTotal counts add/delete attempts by outcome.
	MutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gallery",
		Name:      "mutations_total",
		Help:      "Total number of gallery mutations, by operation and result.",
	}, []string{"op", "result"})

	ThumbnailResolutionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gallery",
		Name:      "thumbnail_resolutions_total",
		Help:      "Total number of server-side thumbnail resolutions, by final state.",
	}, []string{"state"})

	SignInsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gallery",
		Name:      "sign_ins_total",
		Help:      "Total number of sign-in attempts, by result.",
	}, []string{"result"})

	RateLimitedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "gallery",
		Name:      "ratelimit_exceeded_total",
		Help:      "Total rate limit rejections.",
	})
)
