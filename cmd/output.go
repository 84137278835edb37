// file: cmd/output.go
// version: 1.0.0
// guid: 4a6c8e0b-2d3f-4a5b-c7e9-1f3b5d7a9c14

package cmd

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/jdfalk/drive-video-sync/internal/database"
	"github.com/jdfalk/drive-video-sync/internal/matcher"
	"github.com/jdfalk/drive-video-sync/internal/models"
	"github.com/jdfalk/drive-video-sync/internal/videosync"
)

func newTable(out io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
}

func truncateString(in string, max int) string {
	if len(in) <= max {
		return in
	}
	return in[:max] + "..."
}

func describeCandidate(c *matcher.MatchCandidate) string {
	if c == nil {
		return "-"
	}
	label := c.Song.Title
	if c.Song.Author != "" {
		label += " (" + c.Song.Author + ")"
	}
	return fmt.Sprintf("%s [%d]", truncateString(label, 40), c.Score)
}

// printResults prints one row per matched file.
func printResults(out io.Writer, results []matcher.VideoMatchResult) {
	if len(results) == 0 {
		return
	}
	w := newTable(out)
	fmt.Fprintln(w, "STATUS\tFILE\tBEST MATCH\tRUNNER-UP\tSOURCE")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			r.Status, truncateString(r.File.Name, 48),
			describeCandidate(r.BestMatch), describeCandidate(r.RunnerUp), r.Source)
	}
	w.Flush()
}

// printSummary prints the run totals and any failed batches.
func printSummary(out io.Writer, result *videosync.SyncResult) {
	fmt.Fprintf(out, "\nFolder: %s\n", result.FolderID)
	fmt.Fprintf(out, "- Files:        %d\n", result.TotalFiles)
	fmt.Fprintf(out, "- Matched:      %d\n", result.Matched)
	fmt.Fprintf(out, "- Needs review: %d\n", result.Ambiguous)
	fmt.Fprintf(out, "- Unmatched:    %d\n", result.Unmatched)
	fmt.Fprintf(out, "- Already linked: %d\n", result.Skipped)
	if result.DryRun {
		fmt.Fprintln(out, "Dry run: nothing was linked.")
		return
	}
	fmt.Fprintf(out, "- Linked:       %d\n", result.Inserted)
	for _, b := range result.FailedBatches() {
		fmt.Fprintf(out, "  batch %d-%d failed: %v\n", b.Start, b.End, b.Err)
	}
}

func printSongs(out io.Writer, songs []models.Song) {
	w := newTable(out)
	fmt.Fprintln(w, "ID\tTITLE\tAUTHOR")
	for _, s := range songs {
		fmt.Fprintf(w, "%s\t%s\t%s\n", s.ID, s.Title, s.Author)
	}
	w.Flush()
}

func printSongVideos(out io.Writer, videos []database.SongVideo) {
	w := newTable(out)
	fmt.Fprintln(w, "ID\tSONG\tFILE\tCONFIDENCE\tSOURCE\tCREATED")
	for _, v := range videos {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			v.ID, v.SongID, truncateString(v.Filename, 48),
			strconv.Itoa(v.MatchConfidence), v.MatchSource,
			v.CreatedAt.Format("2006-01-02 15:04"))
	}
	w.Flush()
}
