// file: internal/config/config_test.go
// version: 2.0.0
// guid: b2c3d4e5-f6a7-8b9c-0d1e-2f3a4b5c6d7e

package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

// TestInitConfig tests configuration initialization with defaults
func TestInitConfig(t *testing.T) {
	// Arrange
	viper.Reset()

	// Act
	InitConfig()

	// Assert
	assert.Equal(t, "pebble", AppConfig.DatabaseType)
	assert.Equal(t, "drive-video-sync.pebble", AppConfig.DatabasePath)
	assert.False(t, AppConfig.EnableSQLite)
	assert.Equal(t, "video/", AppConfig.Drive.MimePrefix)
	assert.Equal(t, 5.0, AppConfig.Drive.RequestsPerSecond)
	assert.Equal(t, 50, AppConfig.Sync.BatchSize)
}

func TestInitConfig_NormalizesValues(t *testing.T) {
	viper.Reset()
	viper.Set("database_type", "sqlite3")
	viper.Set("drive.folder_id", "1AbC?usp=sharing")
	viper.Set("sync.batch_size", 0)

	InitConfig()

	assert.Equal(t, "sqlite", AppConfig.DatabaseType)
	assert.Equal(t, "1AbC", AppConfig.Drive.FolderID)
	assert.Equal(t, 50, AppConfig.Sync.BatchSize)
}

func TestInitConfig_ReadsEnvironment(t *testing.T) {
	viper.Reset()
	t.Setenv("GOOGLE_DRIVE_FOLDER_ID", "env-folder?x=1")
	t.Setenv("SYNC_UPLOADED_BY", "instructor-9")
	viper.AutomaticEnv()

	InitConfig()

	assert.Equal(t, "env-folder", AppConfig.Drive.FolderID)
	assert.Equal(t, "instructor-9", AppConfig.Sync.UploadedBy)
}
