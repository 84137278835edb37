// file: internal/videosync/types.go
// version: 1.0.0
// guid: 5f7a9c1e-3b6d-4e8f-a0c2-2c4e6a8d0f37

package videosync

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/jdfalk/drive-video-sync/internal/database"
	"github.com/jdfalk/drive-video-sync/internal/matcher"
	"github.com/jdfalk/drive-video-sync/internal/models"
)

const (
	DefaultBatchSize  = 50
	DefaultMimePrefix = "video/"
)

// FileStore lists remote files. drive.Client implements it.
type FileStore interface {
	ListFilesInFolder(ctx context.Context, folderID, mimePrefix string) ([]models.RemoteFile, error)
	FindFolderByName(ctx context.Context, parentID, name string) (string, error)
}

// Store is the persistence a sync run needs.
type Store interface {
	ListSongs(ctx context.Context) ([]models.Song, error)
	GetSyncedVideos(ctx context.Context) (map[string]database.SyncedVideo, error)
	InsertSongVideos(ctx context.Context, rows []database.SongVideo) ([]string, error)
}

// FolderRef names the folder to sync: ID alone, or the Subfolder called
// that name inside ID.
type FolderRef struct {
	ID        string
	Subfolder string
}

// CleanFolderID trims an id and drops a pasted "?query" suffix such as
// "1AbC?usp=sharing".
func CleanFolderID(id string) string {
	id = strings.TrimSpace(id)
	if i := strings.Index(id, "?"); i >= 0 {
		id = id[:i]
	}
	return strings.TrimSpace(id)
}

// Options configure one sync run.
type Options struct {
	Folder     FolderRef
	MimePrefix string
	UploadedBy string
	// Overrides maps a Drive file id to the song id it must link to.
	Overrides map[string]string
	DryRun    bool
	// OnlyOverrides persists only the manually overridden files.
	OnlyOverrides bool
	BatchSize     int
	// OnBatch, when set, is called after every insert batch.
	OnBatch func(BatchOutcome)
}

// Duplicate is a listed file that is already linked.
type Duplicate struct {
	File     models.RemoteFile    `json:"file"`
	Existing database.SyncedVideo `json:"existing"`
}

// BatchOutcome is the result of one insert batch covering rows
// [Start, End).
type BatchOutcome struct {
	Start    int
	End      int
	Inserted int
	Err      error
}

// Success reports whether the batch was written.
func (b BatchOutcome) Success() bool { return b.Err == nil }

func (b BatchOutcome) MarshalJSON() ([]byte, error) {
	out := struct {
		Start    int    `json:"start"`
		End      int    `json:"end"`
		Inserted int    `json:"inserted"`
		Success  bool   `json:"success"`
		Error    string `json:"error,omitempty"`
	}{Start: b.Start, End: b.End, Inserted: b.Inserted, Success: b.Success()}
	if b.Err != nil {
		out.Error = b.Err.Error()
	}
	return json.Marshal(out)
}

// SyncResult summarizes a sync run.
type SyncResult struct {
	FolderID   string                     `json:"folderId"`
	TotalFiles int                        `json:"totalFiles"`
	Matched    int                        `json:"matched"`
	Ambiguous  int                        `json:"reviewQueue"`
	Unmatched  int                        `json:"unmatched"`
	Skipped    int                        `json:"skipped"`
	Inserted   int                        `json:"inserted"`
	DryRun     bool                       `json:"dryRun"`
	Results    []matcher.VideoMatchResult `json:"results"`
	Duplicates []Duplicate                `json:"duplicates"`
	Batches    []BatchOutcome             `json:"batches,omitempty"`
}

// FailedBatches returns the batches that were not written.
func (r *SyncResult) FailedBatches() []BatchOutcome {
	var failed []BatchOutcome
	for _, b := range r.Batches {
		if !b.Success() {
			failed = append(failed, b)
		}
	}
	return failed
}
