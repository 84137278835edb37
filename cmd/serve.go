// file: cmd/serve.go
// version: 1.0.0
// guid: 0a2c4e6b-8d9f-4a1b-c3e5-7f9b1d3a5c4a

package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jdfalk/drive-video-sync/internal/config"
	"github.com/jdfalk/drive-video-sync/internal/server"
	"github.com/jdfalk/drive-video-sync/internal/videosync"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long:  `Serve the drive-sync review and accept API plus Prometheus metrics.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		fmt.Printf("Using database: %s (%s)\n", config.AppConfig.DatabasePath, config.AppConfig.DatabaseType)

		files, err := newFileStore(context.Background())
		if err != nil {
			return fmt.Errorf("failed to create Drive client: %w", err)
		}

		cfg := server.GetDefaultServerConfig()
		if port := cmd.Flag("port").Value.String(); port != "" {
			cfg.Port = port
		}
		if host := cmd.Flag("host").Value.String(); host != "" {
			cfg.Host = host
		}
		if rt := cmd.Flag("read-timeout").Value.String(); rt != "" {
			if d, err := time.ParseDuration(rt); err == nil {
				cfg.ReadTimeout = d
			}
		}
		if wt := cmd.Flag("write-timeout").Value.String(); wt != "" {
			if d, err := time.ParseDuration(wt); err == nil {
				cfg.WriteTimeout = d
			}
		}
		if it := cmd.Flag("idle-timeout").Value.String(); it != "" {
			if d, err := time.ParseDuration(it); err == nil {
				cfg.IdleTimeout = d
			}
		}

		defaults := server.SyncDefaults{
			Folder: videosync.FolderRef{
				ID:        config.AppConfig.Drive.FolderID,
				Subfolder: config.AppConfig.Drive.Subfolder,
			},
			MimePrefix: config.AppConfig.Drive.MimePrefix,
			UploadedBy: config.AppConfig.Sync.UploadedBy,
			BatchSize:  config.AppConfig.Sync.BatchSize,
		}
		srv := server.NewServer(videosync.NewService(files, store), store, defaults, config.AppConfig.DatabaseType, cfg)
		return srv.Start(cfg)
	},
}

func init() {
	serveCmd.Flags().String("port", "8080", "port to run the web server on")
	serveCmd.Flags().String("host", "localhost", "host to bind the web server to")
	serveCmd.Flags().String("read-timeout", "15s", "read timeout (e.g. 15s, 1m)")
	serveCmd.Flags().String("write-timeout", "5m", "write timeout; a sync can take minutes")
	serveCmd.Flags().String("idle-timeout", "60s", "idle timeout (e.g. 60s, 2m)")
}
