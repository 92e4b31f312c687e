package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	unitsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "streamflow",
		Subsystem: "pipeline",
		Name:      "units_total",
		Help:      "Processed pipeline units by outcome status.",
	}, []string{"status"})

	unitDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "streamflow",
		Subsystem: "pipeline",
		Name:      "unit_duration_seconds",
		Help:      "Wall time spent processing one video.",
		Buckets:   []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300},
	})

	batchesProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "streamflow",
		Subsystem: "pipeline",
		Name:      "batches_total",
		Help:      "Completed ProcessVideos batches.",
	})

	audioBytesDownloaded = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "streamflow",
		Subsystem: "pipeline",
		Name:      "audio_downloaded_bytes_total",
		Help:      "Total bytes of audio fetched and stored.",
	})
)
