// file: internal/database/mock_store.go
// version: 1.0.0
// guid: 2d4f6b8c-0e3a-4c5d-b7f9-9f1b3d5a7c08

package database

import (
	"context"

	"github.com/jdfalk/drive-video-sync/internal/models"
)

// MockStore is a simple mock implementation for testing services
type MockStore struct {
	CloseFunc func() error

	// Song methods
	ListSongsFunc   func(ctx context.Context) ([]models.Song, error)
	GetSongByIDFunc func(ctx context.Context, id string) (*models.Song, error)
	CreateSongFunc  func(ctx context.Context, song *models.Song) (*models.Song, error)

	// Song video methods
	GetSyncedVideosFunc  func(ctx context.Context) (map[string]SyncedVideo, error)
	InsertSongVideosFunc func(ctx context.Context, rows []SongVideo) ([]string, error)
	ListSongVideosFunc   func(ctx context.Context, limit, offset int) ([]SongVideo, error)
	DeleteSongVideoFunc  func(ctx context.Context, id string) error
}

func (m *MockStore) Close() error {
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

func (m *MockStore) ListSongs(ctx context.Context) ([]models.Song, error) {
	if m.ListSongsFunc != nil {
		return m.ListSongsFunc(ctx)
	}
	return nil, nil
}

func (m *MockStore) GetSongByID(ctx context.Context, id string) (*models.Song, error) {
	if m.GetSongByIDFunc != nil {
		return m.GetSongByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockStore) CreateSong(ctx context.Context, song *models.Song) (*models.Song, error) {
	if m.CreateSongFunc != nil {
		return m.CreateSongFunc(ctx, song)
	}
	return song, nil
}

func (m *MockStore) GetSyncedVideos(ctx context.Context) (map[string]SyncedVideo, error) {
	if m.GetSyncedVideosFunc != nil {
		return m.GetSyncedVideosFunc(ctx)
	}
	return map[string]SyncedVideo{}, nil
}

func (m *MockStore) InsertSongVideos(ctx context.Context, rows []SongVideo) ([]string, error) {
	if m.InsertSongVideosFunc != nil {
		return m.InsertSongVideosFunc(ctx, rows)
	}
	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}
	return ids, nil
}

func (m *MockStore) ListSongVideos(ctx context.Context, limit, offset int) ([]SongVideo, error) {
	if m.ListSongVideosFunc != nil {
		return m.ListSongVideosFunc(ctx, limit, offset)
	}
	return nil, nil
}

func (m *MockStore) DeleteSongVideo(ctx context.Context, id string) error {
	if m.DeleteSongVideoFunc != nil {
		return m.DeleteSongVideoFunc(ctx, id)
	}
	return nil
}
