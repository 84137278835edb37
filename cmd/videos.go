// file: cmd/videos.go
// version: 1.0.0
// guid: 8e0a2c4f-6b7d-4e9f-a1c3-5d7f9b1e3a38

package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jdfalk/drive-video-sync/internal/database"
)

var videosCmd = &cobra.Command{
	Use:   "videos",
	Short: "Inspect and remove linked song videos",
}

var videosListCmd = &cobra.Command{
	Use:   "list",
	Short: "List linked videos, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		offset, _ := cmd.Flags().GetInt("offset")

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		videos, err := store.ListSongVideos(cmd.Context(), limit, offset)
		if err != nil {
			return fmt.Errorf("failed to list videos: %w", err)
		}
		if len(videos) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No linked videos.")
			return nil
		}
		printSongVideos(cmd.OutOrStdout(), videos)
		return nil
	},
}

var videosDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Unlink a video so the next sync can match it again",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("yes")
		if !force {
			ok, err := confirm(cmd.InOrStdin(), cmd.OutOrStdout(), fmt.Sprintf("Delete video %s? Type 'yes' to continue: ", args[0]))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
				return nil
			}
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.DeleteSongVideo(cmd.Context(), args[0]); err != nil {
			if errors.Is(err, database.ErrNotFound) {
				return fmt.Errorf("video %s not found", args[0])
			}
			return fmt.Errorf("failed to delete video: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted video %s\n", args[0])
		return nil
	},
}

func confirm(in io.Reader, out io.Writer, prompt string) (bool, error) {
	fmt.Fprint(out, prompt)
	reader := bufio.NewReader(in)
	response, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "yes", nil
}

func init() {
	videosListCmd.Flags().Int("limit", 50, "number of videos to show")
	videosListCmd.Flags().Int("offset", 0, "number of videos to skip")
	videosDeleteCmd.Flags().Bool("yes", false, "skip confirmation prompt")

	videosCmd.AddCommand(videosListCmd)
	videosCmd.AddCommand(videosDeleteCmd)
}
