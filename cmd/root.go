// file: cmd/root.go
// version: 2.0.0
// guid: 6a7b8c9d-0e1f-2a3b-4c5d-6e7f8a9b0c1d

package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jdfalk/drive-video-sync/internal/config"
	"github.com/jdfalk/drive-video-sync/internal/database"
	"github.com/jdfalk/drive-video-sync/internal/drive"
	"github.com/jdfalk/drive-video-sync/internal/videosync"
)

var cfgFile string
var databasePath string
var databaseType string
var enableSQLite bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "drive-video-sync",
	Short: "Link Google Drive lesson videos to catalog songs",
	Long: `drive-video-sync lists the videos in a Google Drive folder, fuzzy-matches
each filename against the song catalog and links confident matches.

Run "sync --dry-run" (or "scan") to review matches before writing anything.`,
	SilenceUsage: true,
}

// newFileStore builds the Drive client for a run. Tests replace it.
var newFileStore = func(ctx context.Context) (videosync.FileStore, error) {
	return drive.NewClient(ctx, drive.Config{
		CredentialsFile:   config.AppConfig.Drive.CredentialsFile,
		APIKey:            config.AppConfig.Drive.APIKey,
		RequestsPerSecond: config.AppConfig.Drive.RequestsPerSecond,
	})
}

// openStore opens the configured database.
func openStore() (database.Store, error) {
	store, err := database.Open(config.AppConfig.DatabaseType, config.AppConfig.DatabasePath, config.AppConfig.EnableSQLite)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return store, nil
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.drive-video-sync.yaml)")
	rootCmd.PersistentFlags().StringVar(&databasePath, "db", "drive-video-sync.pebble", "path to database")
	rootCmd.PersistentFlags().StringVar(&databaseType, "db-type", "pebble", "database type: pebble (default) or sqlite")
	rootCmd.PersistentFlags().BoolVar(&enableSQLite, "enable-sqlite3-i-know-the-risks", false, "enable SQLite3 database (WARNING: needs cgo, PebbleDB recommended)")

	viper.BindPFlag("database_path", rootCmd.PersistentFlags().Lookup("db"))
	viper.BindPFlag("database_type", rootCmd.PersistentFlags().Lookup("db-type"))
	viper.BindPFlag("enable_sqlite3_i_know_the_risks", rootCmd.PersistentFlags().Lookup("enable-sqlite3-i-know-the-risks"))

	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(videosCmd)
	rootCmd.AddCommand(serveCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".drive-video-sync")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	// Ensure database directory exists
	if databasePath != "" {
		dbDir := filepath.Dir(databasePath)
		if dbDir != "." {
			if err := os.MkdirAll(dbDir, 0755); err != nil {
				fmt.Fprintf(os.Stderr, "Error creating database directory: %v\n", err)
			}
		}
	}

	config.InitConfig()
}
