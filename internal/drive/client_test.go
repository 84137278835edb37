// file: internal/drive/client_test.go
// version: 1.0.0
// guid: 7c9e1b3d-5f8a-4c0d-9e2a-4a6c8e0b2d5f

package drive

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdfalk/drive-video-sync/internal/models"
)

const (
	pageOne = `{"nextPageToken": "p2", "files": [
		{"id": "f1", "name": "Wonderwall - Oasis.mp4", "mimeType": "video/mp4", "size": "2048",
		 "thumbnailLink": "https://thumb/f1",
		 "videoMediaMetadata": {"width": 1920, "height": 1080, "durationMillis": "61000"}},
		{"id": "doc", "name": "notes.pdf", "mimeType": "application/pdf"}
	]}`
	pageTwo = `{"files": [
		{"id": "f2", "name": "Blackbird.mov", "mimeType": "video/quicktime", "size": "4096"}
	]}`
	folderHit = `{"files": [{"id": "sub-1", "name": "Lessons"}]}`
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(context.Background(), Config{Endpoint: srv.URL + "/"})
	require.NoError(t, err)
	return client
}

func TestListFilesInFolder_PaginatesAndFilters(t *testing.T) {
	var (
		mu      sync.Mutex
		queries []string
	)
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/files", r.URL.Path)
		mu.Lock()
		queries = append(queries, r.URL.Query().Get("q"))
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("pageToken") == "p2" {
			w.Write([]byte(pageTwo))
			return
		}
		w.Write([]byte(pageOne))
	})

	files, err := client.ListFilesInFolder(context.Background(), "folder-1", "video/")

	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "f1", files[0].ID)
	assert.Equal(t, int64(2048), files[0].Size)
	assert.Equal(t, "https://thumb/f1", files[0].ThumbnailLink)
	assert.Equal(t, "f2", files[1].ID)
	assert.Equal(t, "video/quicktime", files[1].MimeType)

	vm, ok := files[0].Metadata.(models.VideoMetadata)
	require.True(t, ok)
	assert.Equal(t, "https://thumb/f1", vm.ThumbnailURL)
	require.NotNil(t, vm.Width)
	assert.Equal(t, 1920, *vm.Width)
	require.NotNil(t, vm.DurationSeconds)
	assert.Equal(t, 61, *vm.DurationSeconds)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, queries, 2)
	assert.Equal(t, "'folder-1' in parents and trashed = false and mimeType contains 'video/'", queries[0])
}

func TestListFilesInFolder_Error(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"code": 404, "message": "File not found"}}`, http.StatusNotFound)
	})

	_, err := client.ListFilesInFolder(context.Background(), "missing", "video/")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listing drive folder missing")
}

func TestFindFolderByName_CachesHits(t *testing.T) {
	var calls int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		q := r.URL.Query().Get("q")
		assert.Contains(t, q, "mimeType = 'application/vnd.google-apps.folder'")
		w.Header().Set("Content-Type", "application/json")
		if strings.Contains(q, "name = 'Lessons'") {
			w.Write([]byte(folderHit))
			return
		}
		w.Write([]byte(`{"files": []}`))
	})
	ctx := context.Background()

	id, err := client.FindFolderByName(ctx, "root-1", "Lessons")
	require.NoError(t, err)
	assert.Equal(t, "sub-1", id)

	id, err = client.FindFolderByName(ctx, "root-1", "Lessons")
	require.NoError(t, err)
	assert.Equal(t, "sub-1", id)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	id, err = client.FindFolderByName(ctx, "root-1", "Missing")
	require.NoError(t, err)
	assert.Equal(t, "", id)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestNewClient_RequiresCredentials(t *testing.T) {
	_, err := NewClient(context.Background(), Config{})
	assert.ErrorIs(t, err, ErrNoCredentials)

	_, err = NewClient(context.Background(), Config{CredentialsFile: "/nonexistent/creds.json"})
	assert.Error(t, err)
}

func TestEscapeQuery(t *testing.T) {
	assert.Equal(t, `O\'Brien`, escapeQuery("O'Brien"))
	assert.Equal(t, `a\\b`, escapeQuery(`a\b`))
}
