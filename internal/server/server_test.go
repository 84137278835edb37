// file: internal/server/server_test.go
// version: 1.0.0
// guid: 6d8f0a2c-4e1b-4c3d-a5f7-8b0d2f4a6c93

package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdfalk/drive-video-sync/internal/database"
	"github.com/jdfalk/drive-video-sync/internal/models"
	"github.com/jdfalk/drive-video-sync/internal/videosync"
)

// recordingSyncer captures the options of every run.
type recordingSyncer struct {
	mu    sync.Mutex
	calls []videosync.Options
	err   error
}

func (r *recordingSyncer) Sync(_ context.Context, opts videosync.Options) (*videosync.SyncResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, opts)
	if r.err != nil {
		return nil, r.err
	}
	return &videosync.SyncResult{FolderID: opts.Folder.ID, DryRun: opts.DryRun}, nil
}

func (r *recordingSyncer) last(t *testing.T) videosync.Options {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	require.NotEmpty(t, r.calls)
	return r.calls[len(r.calls)-1]
}

func testDefaults() SyncDefaults {
	return SyncDefaults{
		Folder:     videosync.FolderRef{ID: "root"},
		MimePrefix: "video/",
		UploadedBy: "instructor-1",
		BatchSize:  25,
	}
}

func songStore() *database.MockStore {
	return &database.MockStore{
		ListSongsFunc: func(context.Context) ([]models.Song, error) {
			return []models.Song{
				{ID: "s1", Title: "Wonderwall", Author: "Oasis"},
				{ID: "s2", Title: "Blackbird", Author: "The Beatles"},
				{ID: "s3", Title: "Hotel California", Author: "Eagles"},
			}, nil
		},
	}
}

func newTestServer(syncer Syncer, store database.Store) *Server {
	gin.SetMode(gin.TestMode)
	return NewServer(syncer, store, testDefaults(), "pebble", GetDefaultServerConfig())
}

func doRequest(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	s := newTestServer(&recordingSyncer{}, songStore())

	w := doRequest(t, s, http.MethodGet, "/api/v1/health", "")

	require.Equal(t, http.StatusOK, w.Code)
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 3, resp.Songs)
	assert.Equal(t, "pebble", resp.DatabaseType)
}

func TestHealthCheck_Degraded(t *testing.T) {
	store := &database.MockStore{
		ListSongsFunc: func(context.Context) ([]models.Song, error) { return nil, errors.New("db down") },
	}
	s := newTestServer(&recordingSyncer{}, store)

	w := doRequest(t, s, http.MethodGet, "/api/v1/health", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "degraded")
	assert.Contains(t, w.Body.String(), "db down")
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(&recordingSyncer{}, songStore())

	w := doRequest(t, s, http.MethodGet, "/metrics", "")

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPreviewDriveSync_IsDryRun(t *testing.T) {
	syncer := &recordingSyncer{}
	s := newTestServer(syncer, songStore())

	w := doRequest(t, s, http.MethodGet, "/api/v1/drive-sync?subfolder=Lessons", "")

	require.Equal(t, http.StatusOK, w.Code)
	opts := syncer.last(t)
	assert.True(t, opts.DryRun)
	assert.Equal(t, videosync.FolderRef{ID: "root", Subfolder: "Lessons"}, opts.Folder)
	assert.Equal(t, "video/", opts.MimePrefix)
	assert.Equal(t, 25, opts.BatchSize)
	assert.Contains(t, w.Body.String(), `"dryRun":true`)
}

func TestRunDriveSync_Actions(t *testing.T) {
	tests := []struct {
		name          string
		body          string
		wantStatus    int
		wantOnly      bool
		wantUploader  string
		wantOverrides map[string]string
	}{
		{
			name:         "empty body accepts high scores",
			body:         "",
			wantStatus:   http.StatusOK,
			wantUploader: "instructor-1",
		},
		{
			name:          "accept high scores with overrides",
			body:          `{"action":"accept-high-scores","overrides":{"f1":"s2"}}`,
			wantStatus:    http.StatusOK,
			wantUploader:  "instructor-1",
			wantOverrides: map[string]string{"f1": "s2"},
		},
		{
			name:          "accept selected",
			body:          `{"action":"accept-selected","overrides":{"f9":"s1"},"uploadedBy":"instructor-2"}`,
			wantStatus:    http.StatusOK,
			wantOnly:      true,
			wantUploader:  "instructor-2",
			wantOverrides: map[string]string{"f9": "s1"},
		},
		{
			name:       "unknown action",
			body:       `{"action":"accept-everything"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed body",
			body:       `{"action":`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			syncer := &recordingSyncer{}
			s := newTestServer(syncer, songStore())

			w := doRequest(t, s, http.MethodPost, "/api/v1/drive-sync", tt.body)

			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			if tt.wantStatus != http.StatusOK {
				assert.Empty(t, syncer.calls)
				return
			}
			opts := syncer.last(t)
			assert.False(t, opts.DryRun)
			assert.Equal(t, tt.wantOnly, opts.OnlyOverrides)
			assert.Equal(t, tt.wantUploader, opts.UploadedBy)
			assert.Equal(t, tt.wantOverrides, opts.Overrides)
		})
	}
}

func TestRunDriveSync_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"config", videosync.ErrConfig, http.StatusBadRequest},
		{"missing folder", &videosync.NotFoundError{Name: "Lessons", ParentID: "root"}, http.StatusNotFound},
		{"drive failure", errors.New("drive unavailable"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(&recordingSyncer{err: tt.err}, songStore())

			w := doRequest(t, s, http.MethodPost, "/api/v1/drive-sync", `{"action":"accept-high-scores"}`)

			assert.Equal(t, tt.want, w.Code)
			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.want, resp.Status)
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestRunDriveSync_RateLimited(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := GetDefaultServerConfig()
	cfg.SyncRequestsPerMinute = 1
	s := NewServer(&recordingSyncer{}, songStore(), testDefaults(), "pebble", cfg)

	codes := make([]int, 0, 3)
	for range 3 {
		codes = append(codes, doRequest(t, s, http.MethodPost, "/api/v1/drive-sync", "").Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestSongVideos_ListAndDelete(t *testing.T) {
	var gotLimit, gotOffset int
	var deleted []string
	store := &database.MockStore{
		ListSongVideosFunc: func(_ context.Context, limit, offset int) ([]database.SongVideo, error) {
			gotLimit, gotOffset = limit, offset
			return []database.SongVideo{{ID: "v1", SongID: "s1", DriveFileID: "f1"}}, nil
		},
		DeleteSongVideoFunc: func(_ context.Context, id string) error {
			if id == "missing" {
				return database.ErrNotFound
			}
			deleted = append(deleted, id)
			return nil
		},
	}
	s := newTestServer(&recordingSyncer{}, store)

	w := doRequest(t, s, http.MethodGet, "/api/v1/song-videos?limit=10&offset=5", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 10, gotLimit)
	assert.Equal(t, 5, gotOffset)
	var list struct {
		Items []database.SongVideo `json:"items"`
		Count int                  `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, 1, list.Count)
	assert.Equal(t, "f1", list.Items[0].DriveFileID)

	w = doRequest(t, s, http.MethodDelete, "/api/v1/song-videos/v1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"v1"}, deleted)

	w = doRequest(t, s, http.MethodDelete, "/api/v1/song-videos/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSongVideos_PaginationDefaults(t *testing.T) {
	var gotLimit, gotOffset int
	store := &database.MockStore{
		ListSongVideosFunc: func(_ context.Context, limit, offset int) ([]database.SongVideo, error) {
			gotLimit, gotOffset = limit, offset
			return nil, nil
		},
	}
	s := newTestServer(&recordingSyncer{}, store)

	w := doRequest(t, s, http.MethodGet, "/api/v1/song-videos?limit=abc&offset=-3", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 50, gotLimit)
	assert.Equal(t, 0, gotOffset)
}

func TestSearchSongs(t *testing.T) {
	s := newTestServer(&recordingSyncer{}, songStore())

	w := doRequest(t, s, http.MethodGet, "/api/v1/songs?q=hotel", "")
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Items []models.Song `json:"items"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "s3", resp.Items[0].ID)

	w = doRequest(t, s, http.MethodGet, "/api/v1/songs?limit=2", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Items, 2)

	w = doRequest(t, s, http.MethodGet, "/api/v1/songs?q=zzzzqqq", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"items":[]`)
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(&recordingSyncer{}, songStore())

	w := doRequest(t, s, http.MethodOptions, "/api/v1/drive-sync", "")

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

type staticFiles struct {
	files []models.RemoteFile
}

func (s staticFiles) ListFilesInFolder(context.Context, string, string) ([]models.RemoteFile, error) {
	return s.files, nil
}

func (s staticFiles) FindFolderByName(context.Context, string, string) (string, error) {
	return "", nil
}

func TestRunDriveSync_WithService(t *testing.T) {
	var inserted []database.SongVideo
	store := songStore()
	store.InsertSongVideosFunc = func(_ context.Context, rows []database.SongVideo) ([]string, error) {
		inserted = append(inserted, rows...)
		ids := make([]string, len(rows))
		for i := range rows {
			ids[i] = "v-" + rows[i].DriveFileID
		}
		return ids, nil
	}
	files := staticFiles{files: []models.RemoteFile{
		{ID: "f1", Name: "Wonderwall - Oasis.mp4", MimeType: "video/mp4"},
		{ID: "f2", Name: "Zzzz Qqqq.mp4", MimeType: "video/mp4"},
	}}
	s := newTestServer(videosync.NewService(files, store), store)

	w := doRequest(t, s, http.MethodPost, "/api/v1/drive-sync", `{"action":"accept-high-scores"}`)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var result struct {
		TotalFiles int `json:"totalFiles"`
		Matched    int `json:"matched"`
		Unmatched  int `json:"unmatched"`
		Inserted   int `json:"inserted"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, 2, result.TotalFiles)
	assert.Equal(t, 1, result.Matched)
	assert.Equal(t, 1, result.Unmatched)
	assert.Equal(t, 1, result.Inserted)
	require.Len(t, inserted, 1)
	assert.Equal(t, "s1", inserted[0].SongID)
	assert.Equal(t, "instructor-1", inserted[0].UploadedBy)
}
