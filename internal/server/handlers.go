// file: internal/server/handlers.go
// version: 1.0.0
// guid: 3b5d7f9a-1c2e-4a6b-8d0f-6a8c0e2b4d71

package server

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jdfalk/drive-video-sync/internal/matcher"
	"github.com/jdfalk/drive-video-sync/internal/models"
	"github.com/jdfalk/drive-video-sync/internal/videosync"
)

const (
	actionAcceptHighScores = "accept-high-scores"
	actionAcceptSelected   = "accept-selected"
)

// driveSyncRequest is the body of POST /drive-sync.
type driveSyncRequest struct {
	Action     string            `json:"action"`
	Overrides  map[string]string `json:"overrides"`
	UploadedBy string            `json:"uploadedBy"`
	Subfolder  string            `json:"subfolder"`
}

func (s *Server) healthCheck(c *gin.Context) {
	resp := HealthResponse{
		Status:       "ok",
		Timestamp:    time.Now().Unix(),
		Version:      Version,
		DatabaseType: s.databaseType,
	}
	if s.store != nil {
		songs, err := s.store.ListSongs(c.Request.Context())
		if err != nil {
			resp.Status = "degraded"
			resp.PartialError = err.Error()
		} else {
			resp.Songs = len(songs)
		}
	}
	c.JSON(http.StatusOK, resp)
}

// syncOptions builds run options from the server defaults.
func (s *Server) syncOptions(subfolder string) videosync.Options {
	folder := s.defaults.Folder
	if sub := strings.TrimSpace(subfolder); sub != "" {
		folder.Subfolder = sub
	}
	return videosync.Options{
		Folder:     folder,
		MimePrefix: s.defaults.MimePrefix,
		UploadedBy: s.defaults.UploadedBy,
		BatchSize:  s.defaults.BatchSize,
	}
}

// previewDriveSync runs a dry run so the caller can review matches.
func (s *Server) previewDriveSync(c *gin.Context) {
	opts := s.syncOptions(c.Query("subfolder"))
	opts.DryRun = true

	result, err := s.syncer.Sync(c.Request.Context(), opts)
	if err != nil {
		respondWithSyncError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// runDriveSync persists matches. accept-high-scores links every matched
// file plus overrides; accept-selected links only the overrides.
func (s *Server) runDriveSync(c *gin.Context) {
	var req driveSyncRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		HandleBindError(c, err)
		return
	}

	opts := s.syncOptions(req.Subfolder)
	opts.Overrides = req.Overrides
	if uploader := strings.TrimSpace(req.UploadedBy); uploader != "" {
		opts.UploadedBy = uploader
	}

	switch req.Action {
	case "", actionAcceptHighScores:
	case actionAcceptSelected:
		opts.OnlyOverrides = true
	default:
		RespondWithBadRequest(c, "unknown action: "+req.Action)
		return
	}

	s.syncMu.Lock()
	defer s.syncMu.Unlock()

	result, err := s.syncer.Sync(c.Request.Context(), opts)
	if err != nil {
		respondWithSyncError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) listSongVideos(c *gin.Context) {
	params := ParsePaginationParams(c)
	videos, err := s.store.ListSongVideos(c.Request.Context(), params.Limit, params.Offset)
	if err != nil {
		RespondWithInternalError(c, err.Error())
		return
	}
	RespondWithList(c, videos, len(videos), params.Limit, params.Offset)
}

func (s *Server) deleteSongVideo(c *gin.Context) {
	id := c.Param("id")
	if err := s.store.DeleteSongVideo(c.Request.Context(), id); err != nil {
		respondWithSyncError(c, err)
		return
	}
	c.JSON(http.StatusOK, DeleteResponse{Deleted: true, ID: id})
}

// searchSongs answers ?q= with the closest catalog songs; without q it
// lists the catalog.
func (s *Server) searchSongs(c *gin.Context) {
	limit := ParseQueryInt(c, "limit", 20)
	songs, err := s.store.ListSongs(c.Request.Context())
	if err != nil {
		RespondWithInternalError(c, err.Error())
		return
	}

	if q := c.Query("q"); strings.TrimSpace(q) != "" {
		songs = matcher.SearchSongs(q, songs, limit)
	} else if limit > 0 && len(songs) > limit {
		songs = songs[:limit]
	}
	if songs == nil {
		songs = []models.Song{}
	}
	RespondWithList(c, songs, len(songs), limit, 0)
}
