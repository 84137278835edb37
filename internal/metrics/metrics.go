// file: internal/metrics/metrics.go
// version: 1.0.0
// guid: 9e1b3d5f-7a0c-4e2f-a4b6-6c8e0a2d4f71

package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "drive_video_sync"

var (
	registerOnce sync.Once

	syncRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sync_runs_total",
		Help:      "Total number of sync runs by result (success, failed, dry_run)",
	}, []string{"result"})
	syncFiles = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sync_files_total",
		Help:      "Total number of listed files by match status",
	}, []string{"status"})
	videosInserted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "song_videos_inserted_total",
		Help:      "Total number of song_videos rows confirmed inserted",
	})
	batchFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "insert_batch_failures_total",
		Help:      "Total number of insert batches that failed",
	})
	syncDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "sync_duration_seconds",
		Help:      "Histogram of sync run durations in seconds",
		Buckets:   prometheus.ExponentialBuckets(0.05, 1.6, 12),
	})

	catalogGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "catalog_songs",
		Help:      "Number of songs in the catalog at the last sync",
	})
)

// Register initializes metrics with the global Prometheus registry (idempotent)
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(syncRuns, syncFiles, videosInserted, batchFailures, syncDuration, catalogGauge)
	})
}

// Sync lifecycle helpers
func IncSyncRun(result string)            { syncRuns.WithLabelValues(result).Inc() }
func AddSyncFiles(status string, n int)   { syncFiles.WithLabelValues(status).Add(float64(n)) }
func AddVideosInserted(n int)             { videosInserted.Add(float64(n)) }
func IncBatchFailure()                    { batchFailures.Inc() }
func ObserveSyncDuration(d time.Duration) { syncDuration.Observe(d.Seconds()) }
func SetCatalogSongs(n int)               { catalogGauge.Set(float64(n)) }
