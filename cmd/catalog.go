// file: cmd/catalog.go
// version: 1.0.0
// guid: 6c8e0a2d-4f5b-4c7d-e9a1-3b5d7f9c1e26

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jdfalk/drive-video-sync/internal/config"
	"github.com/jdfalk/drive-video-sync/internal/matcher"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the song catalog videos are matched against",
}

var catalogImportCmd = &cobra.Command{
	Use:   "import <songs.yaml>",
	Short: "Import or update songs from a YAML file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		songs, err := config.LoadCatalog(args[0])
		if err != nil {
			return err
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		for i := range songs {
			if _, err := store.CreateSong(cmd.Context(), &songs[i]); err != nil {
				return fmt.Errorf("failed to store song %q: %w", songs[i].Title, err)
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d songs into %s\n", len(songs), config.AppConfig.DatabasePath)
		return nil
	},
}

var catalogSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Fuzzy-search the catalog by title and author",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		songs, err := store.ListSongs(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list songs: %w", err)
		}

		hits := matcher.SearchSongs(strings.Join(args, " "), songs, limit)
		if len(hits) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No matching songs.")
			return nil
		}
		printSongs(cmd.OutOrStdout(), hits)
		return nil
	},
}

func init() {
	catalogSearchCmd.Flags().Int("limit", 10, "maximum number of results")

	catalogCmd.AddCommand(catalogImportCmd)
	catalogCmd.AddCommand(catalogSearchCmd)
}
