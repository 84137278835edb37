// file: internal/database/pebble_store.go
// version: 1.0.0
// guid: 0b2d4f6a-8c1e-4a3b-9d5f-7d9f1b3e5a86

package database

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/pebble/v2"

	"github.com/jdfalk/drive-video-sync/internal/logging"
	"github.com/jdfalk/drive-video-sync/internal/models"
)

// PebbleStore implements the Store interface using PebbleDB (LSM key-value store)
//
// Key Schema:
// - song:<id>                -> Song JSON
// - video:<id>               -> SongVideo JSON
// - video:drive:<file_id>    -> video_id (unique Drive file index)
type PebbleStore struct {
	db *pebble.DB
	// mu serializes writers so the Drive file index check and the batch
	// commit happen as one step.
	mu sync.Mutex
}

const driveIndexPrefix = "video:drive:"

// NewPebbleStore creates a new PebbleDB store
func NewPebbleStore(path string) (*PebbleStore, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open PebbleDB: %w", err)
	}
	return &PebbleStore{db: db}, nil
}

// Close closes the database
func (p *PebbleStore) Close() error {
	return p.db.Close()
}

// Helper functions

func songKey(id string) []byte       { return []byte("song:" + id) }
func videoKey(id string) []byte      { return []byte("video:" + id) }
func driveIndexKey(id string) []byte { return []byte(driveIndexPrefix + id) }

// getJSON loads key into v, reporting false when the key is absent.
func (p *PebbleStore) getJSON(key []byte, v any) (bool, error) {
	value, closer, err := p.db.Get(key)
	if err == pebble.ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	defer closer.Close()
	if err := json.Unmarshal(value, v); err != nil {
		return false, err
	}
	return true, nil
}

func (p *PebbleStore) exists(key []byte) (bool, error) {
	_, closer, err := p.db.Get(key)
	if err == pebble.ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	closer.Close()
	return true, nil
}

// scanPrefix calls fn for every key under prefix in key order.
func (p *PebbleStore) scanPrefix(prefix string, fn func(key string, value []byte) error) error {
	iter, err := p.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte(prefix),
		UpperBound: []byte(prefix[:len(prefix)-1] + ";"),
	})
	if err != nil {
		return err
	}
	defer iter.Close()

	for iter.First(); iter.Valid(); iter.Next() {
		if err := fn(string(iter.Key()), iter.Value()); err != nil {
			return err
		}
	}
	return iter.Error()
}

// Song operations

func (p *PebbleStore) ListSongs(ctx context.Context) ([]models.Song, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var songs []models.Song
	err := p.scanPrefix("song:", func(_ string, value []byte) error {
		var song models.Song
		if err := json.Unmarshal(value, &song); err != nil {
			return err
		}
		songs = append(songs, song)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return songs, nil
}

func (p *PebbleStore) GetSongByID(ctx context.Context, id string) (*models.Song, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var song models.Song
	found, err := p.getJSON(songKey(id), &song)
	if err != nil || !found {
		return nil, err
	}
	return &song, nil
}

// CreateSong stores a song, replacing an existing song with the same id.
func (p *PebbleStore) CreateSong(ctx context.Context, song *models.Song) (*models.Song, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
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

	data, err := json.Marshal(saved)
	if err != nil {
		return nil, err
	}
	if err := p.db.Set(songKey(saved.ID), data, pebble.Sync); err != nil {
		return nil, err
	}
	return &saved, nil
}

// Song video operations

func (p *PebbleStore) listAllVideos() ([]SongVideo, error) {
	var videos []SongVideo
	err := p.scanPrefix("video:", func(key string, value []byte) error {
		// Skip index keys
		if strings.HasPrefix(key, driveIndexPrefix) {
			return nil
		}
		var v SongVideo
		if err := json.Unmarshal(value, &v); err != nil {
			return err
		}
		videos = append(videos, v)
		return nil
	})
	return videos, err
}

func (p *PebbleStore) GetSyncedVideos(ctx context.Context) (map[string]SyncedVideo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	videos, err := p.listAllVideos()
	if err != nil {
		return nil, err
	}

	titles := make(map[string]string)
	synced := make(map[string]SyncedVideo, len(videos))
	for _, v := range videos {
		title, ok := titles[v.SongID]
		if !ok {
			var song models.Song
			if _, err := p.getJSON(songKey(v.SongID), &song); err != nil {
				return nil, err
			}
			title = song.Title
			titles[v.SongID] = title
		}
		synced[v.DriveFileID] = SyncedVideo{
			ID:        v.ID,
			SongID:    v.SongID,
			SongTitle: title,
			SyncedAt:  v.CreatedAt,
		}
	}
	return synced, nil
}

// InsertSongVideos writes all rows in one batch and returns their ids.
// Nothing is written if any row fails.
func (p *PebbleStore) InsertSongVideos(ctx context.Context, rows []SongVideo) (ids []string, err error) {
	start := time.Now()
	defer func() {
		logging.LogDatabaseOperation("insert", "song_videos", time.Since(start), len(ids), err)
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	batch := p.db.NewBatch()
	defer batch.Close()

	now := time.Now().UTC()
	seen := make(map[string]bool, len(rows))
	inserted := make([]string, 0, len(rows))
	for _, row := range rows {
		if err := validateSongVideo(row); err != nil {
			return nil, err
		}
		linked, err := p.exists(driveIndexKey(row.DriveFileID))
		if err != nil {
			return nil, err
		}
		if linked || seen[row.DriveFileID] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateVideo, row.DriveFileID)
		}
		seen[row.DriveFileID] = true

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

		data, err := json.Marshal(row)
		if err != nil {
			return nil, err
		}
		if err := batch.Set(videoKey(row.ID), data, nil); err != nil {
			return nil, err
		}
		if err := batch.Set(driveIndexKey(row.DriveFileID), []byte(row.ID), nil); err != nil {
			return nil, err
		}
		inserted = append(inserted, row.ID)
	}

	if err := batch.Commit(pebble.Sync); err != nil {
		return nil, err
	}
	return inserted, nil
}

func (p *PebbleStore) ListSongVideos(ctx context.Context, limit, offset int) ([]SongVideo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	videos, err := p.listAllVideos()
	if err != nil {
		return nil, err
	}

	// Newest first
	sort.SliceStable(videos, func(i, j int) bool {
		if !videos[i].CreatedAt.Equal(videos[j].CreatedAt) {
			return videos[i].CreatedAt.After(videos[j].CreatedAt)
		}
		return videos[i].ID > videos[j].ID
	})

	if offset < 0 {
		offset = 0
	}
	if offset >= len(videos) {
		return []SongVideo{}, nil
	}
	videos = videos[offset:]
	if limit > 0 && limit < len(videos) {
		videos = videos[:limit]
	}
	return videos, nil
}

func (p *PebbleStore) DeleteSongVideo(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	var v SongVideo
	found, err := p.getJSON(videoKey(id), &v)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: song video %s", ErrNotFound, id)
	}

	batch := p.db.NewBatch()
	defer batch.Close()
	if err := batch.Delete(videoKey(id), nil); err != nil {
		return err
	}
	if err := batch.Delete(driveIndexKey(v.DriveFileID), nil); err != nil {
		return err
	}
	return batch.Commit(pebble.Sync)
}
