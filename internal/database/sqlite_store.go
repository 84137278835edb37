// file: internal/database/sqlite_store.go
// version: 1.0.0
// guid: 8f0b2d4e-6a9c-4e1f-b3d5-5b7d9f1a3e64

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/jdfalk/drive-video-sync/internal/logging"
	"github.com/jdfalk/drive-video-sync/internal/models"
)

type rowScanner interface {
	Scan(dest ...interface{}) error
}

const songVideoSelectColumns = `
	id, song_id, uploaded_by, google_drive_file_id, google_drive_folder_id,
	title, filename, mime_type, file_size_bytes, thumbnail_url,
	display_order, match_confidence, match_source, created_at
`

func scanSongVideo(scanner rowScanner, v *SongVideo) error {
	return scanner.Scan(
		&v.ID, &v.SongID, &v.UploadedBy, &v.DriveFileID, &v.DriveFolderID,
		&v.Title, &v.Filename, &v.MimeType, &v.FileSizeBytes, &v.ThumbnailURL,
		&v.DisplayOrder, &v.MatchConfidence, &v.MatchSource, &v.CreatedAt,
	)
}

// SQLiteStore implements the Store interface using SQLite3
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	store := &SQLiteStore{db: db}

	if err := store.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return store, nil
}

// createTables creates all required tables
func (s *SQLiteStore) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS songs (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		author TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS song_videos (
		id TEXT PRIMARY KEY,
		song_id TEXT NOT NULL REFERENCES songs(id),
		uploaded_by TEXT NOT NULL,
		google_drive_file_id TEXT NOT NULL,
		google_drive_folder_id TEXT NOT NULL DEFAULT '',
		title TEXT NOT NULL,
		filename TEXT NOT NULL,
		mime_type TEXT NOT NULL DEFAULT '',
		file_size_bytes INTEGER NOT NULL DEFAULT 0,
		thumbnail_url TEXT NOT NULL DEFAULT '',
		display_order INTEGER NOT NULL DEFAULT 0,
		match_confidence INTEGER NOT NULL DEFAULT 0,
		match_source TEXT NOT NULL DEFAULT 'auto',
		created_at DATETIME NOT NULL
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_song_videos_drive_file ON song_videos(google_drive_file_id);
	CREATE INDEX IF NOT EXISTS idx_song_videos_song ON song_videos(song_id);
	CREATE INDEX IF NOT EXISTS idx_song_videos_created ON song_videos(created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Song operations

func (s *SQLiteStore) ListSongs(ctx context.Context) ([]models.Song, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, title, author FROM songs ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var songs []models.Song
	for rows.Next() {
		var song models.Song
		if err := rows.Scan(&song.ID, &song.Title, &song.Author); err != nil {
			return nil, err
		}
		songs = append(songs, song)
	}
	return songs, rows.Err()
}

func (s *SQLiteStore) GetSongByID(ctx context.Context, id string) (*models.Song, error) {
	var song models.Song
	err := s.db.QueryRowContext(ctx, `SELECT id, title, author FROM songs WHERE id = ?`, id).
		Scan(&song.ID, &song.Title, &song.Author)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &song, nil
}

// CreateSong inserts a song, replacing an existing song with the same id.
func (s *SQLiteStore) CreateSong(ctx context.Context, song *models.Song) (*models.Song, error) {
	if err := validateSong(song); err != nil {
		return nil, err
	}
	saved := *song
	if saved.ID == "" {
		id, err := newULID()
		if err != nil {
			return nil, err
		}
		saved.ID = id
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO songs (id, title, author) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET title = excluded.title, author = excluded.author`,
		saved.ID, saved.Title, saved.Author)
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// Song video operations

func (s *SQLiteStore) GetSyncedVideos(ctx context.Context) (map[string]SyncedVideo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT v.google_drive_file_id, v.id, v.song_id, COALESCE(s.title, ''), v.created_at
		FROM song_videos v
		LEFT JOIN songs s ON s.id = v.song_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	synced := make(map[string]SyncedVideo)
	for rows.Next() {
		var fileID string
		var v SyncedVideo
		if err := rows.Scan(&fileID, &v.ID, &v.SongID, &v.SongTitle, &v.SyncedAt); err != nil {
			return nil, err
		}
		synced[fileID] = v
	}
	return synced, rows.Err()
}

// InsertSongVideos inserts all rows in one transaction and returns their
// ids. Nothing is written if any row fails.
func (s *SQLiteStore) InsertSongVideos(ctx context.Context, rows []SongVideo) (ids []string, err error) {
	start := time.Now()
	defer func() {
		logging.LogDatabaseOperation("insert", "song_videos", time.Since(start), len(ids), err)
	}()

	if len(rows) == 0 {
		return nil, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO song_videos (`+songVideoSelectColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	now := time.Now().UTC()
	inserted := make([]string, 0, len(rows))
	for _, row := range rows {
		if err = validateSongVideo(row); err != nil {
			return nil, err
		}
		if row.ID == "" {
			if row.ID, err = newULID(); err != nil {
				return nil, err
			}
		}
		if row.CreatedAt.IsZero() {
			row.CreatedAt = now
		}
		if row.MatchSource == "" {
			row.MatchSource = MatchSourceAuto
		}
		_, err = stmt.ExecContext(ctx,
			row.ID, row.SongID, row.UploadedBy, row.DriveFileID, row.DriveFolderID,
			row.Title, row.Filename, row.MimeType, row.FileSizeBytes, row.ThumbnailURL,
			row.DisplayOrder, row.MatchConfidence, row.MatchSource, row.CreatedAt)
		if err != nil {
			if isUniqueViolation(err) {
				err = fmt.Errorf("%w: %s", ErrDuplicateVideo, row.DriveFileID)
			}
			return nil, err
		}
		inserted = append(inserted, row.ID)
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return inserted, nil
}

func (s *SQLiteStore) ListSongVideos(ctx context.Context, limit, offset int) ([]SongVideo, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+songVideoSelectColumns+`
		FROM song_videos
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var videos []SongVideo
	for rows.Next() {
		var v SongVideo
		if err := scanSongVideo(rows, &v); err != nil {
			return nil, err
		}
		videos = append(videos, v)
	}
	return videos, rows.Err()
}

func (s *SQLiteStore) DeleteSongVideo(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM song_videos WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: song video %s", ErrNotFound, id)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
