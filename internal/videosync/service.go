// file: internal/videosync/service.go
// version: 1.0.0
// guid: 7a9c1e3b-5d8f-4a0b-b2d4-4e6a8c0f2b59

package videosync

import (
	"context"
	"fmt"
	"time"

	"github.com/jdfalk/drive-video-sync/internal/database"
	"github.com/jdfalk/drive-video-sync/internal/logging"
	"github.com/jdfalk/drive-video-sync/internal/matcher"
	"github.com/jdfalk/drive-video-sync/internal/metrics"
	"github.com/jdfalk/drive-video-sync/internal/models"
)

// Service links Drive lesson videos to catalog songs.
type Service struct {
	files FileStore
	store Store
}

// NewService creates a sync service over the given collaborators.
func NewService(files FileStore, store Store) *Service {
	return &Service{files: files, store: store}
}

// Sync lists the folder, matches every new file against the catalog and,
// unless opts.DryRun, links the matched files. Folder, listing and catalog
// failures abort the run; a failed insert batch is recorded in
// SyncResult.Batches and the run continues.
func (s *Service) Sync(ctx context.Context, opts Options) (result *SyncResult, err error) {
	log := logging.NewServiceLogger("videosync", "")
	start := time.Now()
	defer func() {
		metrics.ObserveSyncDuration(time.Since(start))
		switch {
		case err != nil:
			metrics.IncSyncRun("failed")
			log.LogError("Sync", err)
		case opts.DryRun:
			metrics.IncSyncRun("dry_run")
		default:
			metrics.IncSyncRun("success")
		}
	}()

	opts, err = normalizeOptions(opts)
	if err != nil {
		return nil, err
	}

	folderID, err := s.resolveFolder(ctx, opts.Folder)
	if err != nil {
		return nil, err
	}
	log.LogOperation("Sync", map[string]any{
		"folder":  folderID,
		"dry_run": opts.DryRun,
		"prefix":  opts.MimePrefix,
	})

	files, err := s.files.ListFilesInFolder(ctx, folderID, opts.MimePrefix)
	if err != nil {
		return nil, fmt.Errorf("listing files in folder %s: %w", folderID, err)
	}
	songs, err := s.store.ListSongs(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching song catalog: %w", err)
	}
	synced, err := s.store.GetSyncedVideos(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching synced videos: %w", err)
	}
	metrics.SetCatalogSongs(len(songs))

	newFiles, duplicates := partition(files, synced)
	results := matcher.MatchAll(newFiles, songs)
	results = applyOverrides(results, opts.Overrides, songs, log)

	result = &SyncResult{
		FolderID:   folderID,
		TotalFiles: len(files),
		Skipped:    len(duplicates),
		DryRun:     opts.DryRun,
		Results:    results,
		Duplicates: duplicates,
	}
	for _, r := range results {
		switch r.Status {
		case matcher.StatusMatched:
			result.Matched++
		case matcher.StatusAmbiguous:
			result.Ambiguous++
		default:
			result.Unmatched++
		}
	}
	metrics.AddSyncFiles(string(matcher.StatusMatched), result.Matched)
	metrics.AddSyncFiles(string(matcher.StatusAmbiguous), result.Ambiguous)
	metrics.AddSyncFiles(string(matcher.StatusUnmatched), result.Unmatched)
	metrics.AddSyncFiles("duplicate", result.Skipped)

	if !opts.DryRun {
		rows := buildRows(results, folderID, opts)
		s.persist(ctx, rows, opts, result, log)
	}

	log.LogOperation("Sync.Done", map[string]any{
		"total":     result.TotalFiles,
		"matched":   result.Matched,
		"review":    result.Ambiguous,
		"unmatched": result.Unmatched,
		"skipped":   result.Skipped,
		"inserted":  result.Inserted,
	})
	return result, nil
}

func normalizeOptions(opts Options) (Options, error) {
	opts.Folder.ID = CleanFolderID(opts.Folder.ID)
	if opts.Folder.ID == "" {
		return opts, configError("folder id is required")
	}
	if !opts.DryRun && opts.UploadedBy == "" {
		return opts, configError("uploader identity is required unless dry-run")
	}
	if opts.OnlyOverrides && len(opts.Overrides) == 0 {
		return opts, configError("at least one override is required to accept selected files")
	}
	if opts.MimePrefix == "" {
		opts.MimePrefix = DefaultMimePrefix
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	return opts, nil
}

func (s *Service) resolveFolder(ctx context.Context, ref FolderRef) (string, error) {
	if ref.Subfolder == "" {
		return ref.ID, nil
	}
	id, err := s.files.FindFolderByName(ctx, ref.ID, ref.Subfolder)
	if err != nil {
		return "", fmt.Errorf("resolving folder %q: %w", ref.Subfolder, err)
	}
	if id == "" {
		return "", &NotFoundError{Name: ref.Subfolder, ParentID: ref.ID}
	}
	return id, nil
}

// partition splits files into not-yet-linked files and duplicates, keyed
// by Drive file id. Listing order is preserved.
func partition(files []models.RemoteFile, synced map[string]database.SyncedVideo) ([]models.RemoteFile, []Duplicate) {
	newFiles := make([]models.RemoteFile, 0, len(files))
	duplicates := []Duplicate{}
	for _, f := range files {
		if existing, ok := synced[f.ID]; ok {
			duplicates = append(duplicates, Duplicate{File: f, Existing: existing})
			continue
		}
		newFiles = append(newFiles, f)
	}
	return newFiles, duplicates
}

// applyOverrides forces each overridden file onto its chosen song.
// Overrides naming an unknown song or a file outside this run are ignored.
func applyOverrides(results []matcher.VideoMatchResult, overrides map[string]string, songs []models.Song, log *logging.ServiceLogger) []matcher.VideoMatchResult {
	if len(overrides) == 0 {
		return results
	}

	applied := make(map[string]bool, len(overrides))
	for i := range results {
		songID, ok := overrides[results[i].File.ID]
		if !ok {
			continue
		}
		applied[results[i].File.ID] = true

		song, found := matcher.FindSong(songs, songID)
		if !found {
			log.LogWarning("Sync.Override", fmt.Sprintf("song %s for file %s is not in the catalog", songID, results[i].File.ID))
			continue
		}
		results[i].BestMatch = &matcher.MatchCandidate{Song: song, Score: 100}
		results[i].RunnerUp = nil
		results[i].Status = matcher.StatusMatched
		results[i].Source = matcher.SourceManual
	}

	for fileID := range overrides {
		if !applied[fileID] {
			log.LogWarning("Sync.Override", fmt.Sprintf("file %s is not a new file in this folder", fileID))
		}
	}

	matcher.SortByStatus(results)
	return results
}

func buildRows(results []matcher.VideoMatchResult, folderID string, opts Options) []database.SongVideo {
	var rows []database.SongVideo
	for _, r := range results {
		if r.Status != matcher.StatusMatched || r.BestMatch == nil {
			continue
		}
		if opts.OnlyOverrides && r.Source != matcher.SourceManual {
			continue
		}

		title := r.Parsed.Title
		if title == "" {
			title = r.File.Name
		}
		thumbnail := models.ThumbnailURL(r.File.Metadata)
		if thumbnail == "" {
			thumbnail = r.File.ThumbnailLink
		}

		rows = append(rows, database.SongVideo{
			SongID:          r.BestMatch.Song.ID,
			UploadedBy:      opts.UploadedBy,
			DriveFileID:     r.File.ID,
			DriveFolderID:   folderID,
			Title:           title,
			Filename:        r.File.Name,
			MimeType:        r.File.MimeType,
			FileSizeBytes:   r.File.Size,
			ThumbnailURL:    thumbnail,
			DisplayOrder:    0,
			MatchConfidence: r.BestMatch.Score,
			MatchSource:     string(r.Source),
		})
	}
	return rows
}

// persist inserts rows in fixed-size batches. A failed batch is recorded
// and skipped.
func (s *Service) persist(ctx context.Context, rows []database.SongVideo, opts Options, result *SyncResult, log *logging.ServiceLogger) {
	for start := 0; start < len(rows); start += opts.BatchSize {
		end := min(start+opts.BatchSize, len(rows))
		outcome := BatchOutcome{Start: start, End: end}

		ids, err := s.store.InsertSongVideos(ctx, rows[start:end])
		if err != nil {
			outcome.Err = err
			metrics.IncBatchFailure()
			log.LogError("Sync.Insert", fmt.Errorf("batch [%d,%d): %w", start, end, err))
		} else {
			outcome.Inserted = len(ids)
			result.Inserted += len(ids)
			metrics.AddVideosInserted(len(ids))
		}

		result.Batches = append(result.Batches, outcome)
		if opts.OnBatch != nil {
			opts.OnBatch(outcome)
		}
	}
}
