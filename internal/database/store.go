// file: internal/database/store.go
// version: 1.0.0
// guid: 4b6d8f0a-2c5e-4a7b-8d9f-1e3a5c7e9b20

package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jdfalk/drive-video-sync/internal/models"
)

var (
	// ErrDuplicateVideo is returned when a Drive file is already linked.
	ErrDuplicateVideo = errors.New("drive file already linked to a song")
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")
)

// Match sources stored in SongVideo.MatchSource.
const (
	MatchSourceAuto   = "auto"
	MatchSourceManual = "manual"
)

// SongVideo links a Drive video to a catalog song.
type SongVideo struct {
	ID              string    `json:"id"`
	SongID          string    `json:"song_id"`
	UploadedBy      string    `json:"uploaded_by"`
	DriveFileID     string    `json:"google_drive_file_id"`
	DriveFolderID   string    `json:"google_drive_folder_id"`
	Title           string    `json:"title"`
	Filename        string    `json:"filename"`
	MimeType        string    `json:"mime_type"`
	FileSizeBytes   int64     `json:"file_size_bytes"`
	ThumbnailURL    string    `json:"thumbnail_url,omitempty"`
	DisplayOrder    int       `json:"display_order"`
	MatchConfidence int       `json:"match_confidence"`
	MatchSource     string    `json:"match_source"`
	CreatedAt       time.Time `json:"created_at"`
}

// SyncedVideo is the existing link for a Drive file.
type SyncedVideo struct {
	ID        string    `json:"id"`
	SongID    string    `json:"song_id"`
	SongTitle string    `json:"song_title"`
	SyncedAt  time.Time `json:"synced_at"`
}

// Store is the catalog and song_videos persistence.
type Store interface {
	Close() error

	// Songs
	ListSongs(ctx context.Context) ([]models.Song, error)
	GetSongByID(ctx context.Context, id string) (*models.Song, error)
	CreateSong(ctx context.Context, song *models.Song) (*models.Song, error)

	// Song videos
	GetSyncedVideos(ctx context.Context) (map[string]SyncedVideo, error)
	InsertSongVideos(ctx context.Context, rows []SongVideo) ([]string, error)
	ListSongVideos(ctx context.Context, limit, offset int) ([]SongVideo, error)
	DeleteSongVideo(ctx context.Context, id string) error
}

// Open opens the store of the given type. SQLite must be explicitly enabled.
func Open(dbType, path string, enableSQLite bool) (Store, error) {
	switch dbType {
	case "sqlite", "sqlite3":
		if !enableSQLite {
			return nil, fmt.Errorf("SQLite3 is not enabled. To use SQLite3, you must explicitly enable it with --enable-sqlite3-i-know-the-risks or set 'enable_sqlite3_i_know_the_risks: true' in your config file. PebbleDB is the recommended database")
		}
		store, err := NewSQLiteStore(path)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite store: %w", err)
		}
		return store, nil
	case "pebble", "":
		store, err := NewPebbleStore(path)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize PebbleDB store: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported database type: %s (supported: pebble, sqlite)", dbType)
	}
}

func validateSong(song *models.Song) error {
	if song == nil || song.Title == "" {
		return fmt.Errorf("song title is required")
	}
	return nil
}

func validateSongVideo(row SongVideo) error {
	if row.SongID == "" || row.DriveFileID == "" {
		return fmt.Errorf("song video requires song_id and google_drive_file_id")
	}
	return nil
}
