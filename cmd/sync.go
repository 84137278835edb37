// file: cmd/sync.go
// version: 1.0.0
// guid: 2e4a6c8f-0b1d-4e3f-a5c7-9d1f3b5e7a02

package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/jdfalk/drive-video-sync/internal/config"
	"github.com/jdfalk/drive-video-sync/internal/videosync"
)

// syncFlags holds the flag values of one sync-style command.
type syncFlags struct {
	folderID      string
	subfolder     string
	mimePrefix    string
	uploadedBy    string
	overrides     []string
	overridesFile string
	dryRun        bool
	onlyOverrides bool
	batchSize     int
	timeout       time.Duration
}

var (
	syncArgs syncFlags
	scanArgs syncFlags
)

// syncCmd represents the sync command
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Match Drive videos to songs and link them",
	Long: `List the Drive folder, match every new video against the song catalog
and link the confident matches. Overrides pin a file to a song and are
always linked.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSync(cmd, &syncArgs)
	},
}

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Preview matches without linking anything",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		scanArgs.dryRun = true
		return runSync(cmd, &scanArgs)
	},
}

func init() {
	for _, c := range []struct {
		cmd   *cobra.Command
		flags *syncFlags
	}{{syncCmd, &syncArgs}, {scanCmd, &scanArgs}} {
		f := c.cmd.Flags()
		f.StringVar(&c.flags.folderID, "folder-id", "", "Drive folder id (default drive.folder_id)")
		f.StringVar(&c.flags.subfolder, "subfolder", "", "name of a subfolder inside the folder")
		f.StringVar(&c.flags.mimePrefix, "mime-prefix", "", "only list files whose MIME type starts with this (default video/)")
		f.StringArrayVar(&c.flags.overrides, "override", nil, "pin a file to a song as fileId=songId (repeatable)")
		f.StringVar(&c.flags.overridesFile, "overrides-file", "", "YAML map of fileId: songId")
		f.DurationVar(&c.flags.timeout, "timeout", 10*time.Minute, "deadline for the whole run")
	}

	f := syncCmd.Flags()
	f.StringVar(&syncArgs.uploadedBy, "uploaded-by", "", "user id recorded on linked videos (default sync.uploaded_by)")
	f.BoolVar(&syncArgs.dryRun, "dry-run", false, "match only, write nothing")
	f.BoolVar(&syncArgs.onlyOverrides, "only-overrides", false, "link only the overridden files")
	f.IntVar(&syncArgs.batchSize, "batch-size", 0, "rows per insert batch (default sync.batch_size)")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// options merges flag values over the loaded configuration.
func (f *syncFlags) options() (videosync.Options, error) {
	cfg := config.AppConfig

	var fromFile map[string]string
	if path := firstNonEmpty(f.overridesFile, cfg.Sync.OverridesFile); path != "" {
		loaded, err := config.LoadOverrides(path)
		if err != nil {
			return videosync.Options{}, err
		}
		fromFile = loaded
	}
	fromFlags, err := config.ParseOverrideFlags(f.overrides)
	if err != nil {
		return videosync.Options{}, err
	}

	batchSize := f.batchSize
	if batchSize <= 0 {
		batchSize = cfg.Sync.BatchSize
	}

	return videosync.Options{
		Folder: videosync.FolderRef{
			ID:        firstNonEmpty(f.folderID, cfg.Drive.FolderID),
			Subfolder: firstNonEmpty(f.subfolder, cfg.Drive.Subfolder),
		},
		MimePrefix:    firstNonEmpty(f.mimePrefix, cfg.Drive.MimePrefix),
		UploadedBy:    firstNonEmpty(f.uploadedBy, cfg.Sync.UploadedBy),
		Overrides:     config.MergeOverrides(fromFile, fromFlags),
		DryRun:        f.dryRun,
		OnlyOverrides: f.onlyOverrides,
		BatchSize:     batchSize,
	}, nil
}

func runSync(cmd *cobra.Command, f *syncFlags) error {
	opts, err := f.options()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	files, err := newFileStore(ctx)
	if err != nil {
		return fmt.Errorf("failed to create Drive client: %w", err)
	}

	if !opts.DryRun {
		bar := progressbar.NewOptions(-1,
			progressbar.OptionSetWriter(cmd.ErrOrStderr()),
			progressbar.OptionSetDescription("linking videos"),
			progressbar.OptionShowCount(),
		)
		opts.OnBatch = func(b videosync.BatchOutcome) {
			_ = bar.Add(b.End - b.Start)
		}
		defer func() { _ = bar.Finish() }()
	}

	result, err := videosync.NewService(files, store).Sync(ctx, opts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printResults(out, result.Results)
	printSummary(out, result)

	if failed := result.FailedBatches(); len(failed) > 0 {
		return fmt.Errorf("%d of %d insert batches failed", len(failed), len(result.Batches))
	}
	return nil
}
