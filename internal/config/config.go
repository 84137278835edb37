// file: internal/config/config.go
// version: 2.0.0
// guid: 7b8c9d0e-1f2a-3b4c-5d6e-7f8a9b0c1d2e

package config

import (
	"strings"

	"github.com/spf13/viper"
)

// DriveConfig selects the Drive folder and how to reach it.
type DriveConfig struct {
	FolderID          string
	Subfolder         string
	CredentialsFile   string
	APIKey            string
	MimePrefix        string
	RequestsPerSecond float64
}

// SyncConfig holds defaults for sync runs.
type SyncConfig struct {
	UploadedBy    string
	BatchSize     int
	OverridesFile string
}

// Config holds application configuration
type Config struct {
	DatabasePath string
	DatabaseType string // "pebble" (default) or "sqlite"
	EnableSQLite bool   // Must be true to use SQLite (safety flag)
	Drive        DriveConfig
	Sync         SyncConfig
}

var AppConfig Config

// InitConfig initializes the application configuration
func InitConfig() {
	// Set defaults
	viper.SetDefault("database_type", "pebble")
	viper.SetDefault("database_path", "drive-video-sync.pebble")
	viper.SetDefault("enable_sqlite3_i_know_the_risks", false)
	viper.SetDefault("drive.mime_prefix", "video/")
	viper.SetDefault("drive.requests_per_second", 5.0)
	viper.SetDefault("sync.batch_size", 50)

	// drive.folder_id <- DRIVE_FOLDER_ID, and the name used by the web app
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	_ = viper.BindEnv("drive.folder_id", "DRIVE_FOLDER_ID", "GOOGLE_DRIVE_FOLDER_ID")

	AppConfig = Config{
		DatabasePath: viper.GetString("database_path"),
		DatabaseType: viper.GetString("database_type"),
		EnableSQLite: viper.GetBool("enable_sqlite3_i_know_the_risks"),
		Drive: DriveConfig{
			FolderID:          viper.GetString("drive.folder_id"),
			Subfolder:         viper.GetString("drive.subfolder"),
			CredentialsFile:   viper.GetString("drive.credentials_file"),
			APIKey:            viper.GetString("drive.api_key"),
			MimePrefix:        viper.GetString("drive.mime_prefix"),
			RequestsPerSecond: viper.GetFloat64("drive.requests_per_second"),
		},
		Sync: SyncConfig{
			UploadedBy:    viper.GetString("sync.uploaded_by"),
			BatchSize:     viper.GetInt("sync.batch_size"),
			OverridesFile: viper.GetString("sync.overrides_file"),
		},
	}

	// Normalize database type
	if AppConfig.DatabaseType == "sqlite3" {
		AppConfig.DatabaseType = "sqlite"
	}
	if AppConfig.DatabaseType == "" {
		AppConfig.DatabaseType = "pebble"
	}
	// Folder links are often pasted with "?usp=sharing"
	if i := strings.Index(AppConfig.Drive.FolderID, "?"); i >= 0 {
		AppConfig.Drive.FolderID = AppConfig.Drive.FolderID[:i]
	}
	if AppConfig.Sync.BatchSize <= 0 {
		AppConfig.Sync.BatchSize = 50
	}
}
