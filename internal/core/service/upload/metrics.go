package upload

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	uploadsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "roomfiles",
		Subsystem: "uploads",
		Name:      "started_total",
		Help:      "Number of multipart upload sessions started.",
	})

	uploadsCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "roomfiles",
		Subsystem: "uploads",
		Name:      "completed_total",
		Help:      "Number of multipart upload sessions finalized successfully.",
	})

	uploadsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "roomfiles",
		Subsystem: "uploads",
		Name:      "failed_total",
		Help:      "Number of multipart upload sessions that reached the failed state.",
	})

	uploadsAborted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "roomfiles",
		Subsystem: "uploads",
		Name:      "aborted_total",
		Help:      "Number of multipart upload sessions aborted.",
	})

	partsCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "roomfiles",
		Subsystem: "uploads",
		Name:      "parts_completed_total",
		Help:      "Number of upload parts confirmed by callers.",
	})
)
