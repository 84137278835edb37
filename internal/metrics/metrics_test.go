// file: internal/metrics/metrics_test.go
// version: 1.0.0
// guid: 1b3d5f7a-9c2e-4a4b-b6d8-8e0a2c4f6b93

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRegisterIsIdempotent(t *testing.T) {
	Register()
	Register()
}

func TestIncSyncRun(t *testing.T) {
	before := testutil.ToFloat64(syncRuns.WithLabelValues("success"))
	IncSyncRun("success")
	assert.Equal(t, before+1, testutil.ToFloat64(syncRuns.WithLabelValues("success")))
}

func TestAddSyncFiles(t *testing.T) {
	before := testutil.ToFloat64(syncFiles.WithLabelValues("matched"))
	AddSyncFiles("matched", 3)
	assert.Equal(t, before+3, testutil.ToFloat64(syncFiles.WithLabelValues("matched")))
}

func TestInsertCounters(t *testing.T) {
	inserted := testutil.ToFloat64(videosInserted)
	failures := testutil.ToFloat64(batchFailures)

	AddVideosInserted(50)
	IncBatchFailure()

	assert.Equal(t, inserted+50, testutil.ToFloat64(videosInserted))
	assert.Equal(t, failures+1, testutil.ToFloat64(batchFailures))
}

func TestSetCatalogSongs(t *testing.T) {
	SetCatalogSongs(42)
	assert.Equal(t, float64(42), testutil.ToFloat64(catalogGauge))
}

func TestObserveSyncDuration(t *testing.T) {
	ObserveSyncDuration(100 * time.Millisecond)
}
