// file: internal/config/files.go
// version: 1.0.0
// guid: b3d5f7a9-1c4e-4a6b-8d0f-8e0a2c4e6b9d

package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jdfalk/drive-video-sync/internal/models"
)

// LoadOverrides reads a YAML map of Drive file id to song id:
//
//	1AbCdEf: song-123
//	1XyZ: song-456
func LoadOverrides(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read overrides file: %w", err)
	}

	overrides := map[string]string{}
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("failed to parse overrides file %s: %w", path, err)
	}
	for fileID, songID := range overrides {
		if strings.TrimSpace(fileID) == "" || strings.TrimSpace(songID) == "" {
			return nil, fmt.Errorf("overrides file %s: empty file or song id", path)
		}
	}
	return overrides, nil
}

// ParseOverrideFlags parses repeated "fileId=songId" values.
func ParseOverrideFlags(values []string) (map[string]string, error) {
	overrides := make(map[string]string, len(values))
	for _, v := range values {
		fileID, songID, ok := strings.Cut(v, "=")
		fileID, songID = strings.TrimSpace(fileID), strings.TrimSpace(songID)
		if !ok || fileID == "" || songID == "" {
			return nil, fmt.Errorf("invalid override %q (want fileId=songId)", v)
		}
		overrides[fileID] = songID
	}
	return overrides, nil
}

// MergeOverrides combines override maps; later maps win.
func MergeOverrides(maps ...map[string]string) map[string]string {
	merged := map[string]string{}
	for _, m := range maps {
		for k, v := range m {
			merged[k] = v
		}
	}
	return merged
}

// LoadCatalog reads a YAML sequence of songs keyed by id, title and author.
// An empty id is filled in when the song is stored.
func LoadCatalog(path string) ([]models.Song, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var songs []models.Song
	if err := yaml.Unmarshal(data, &songs); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file %s: %w", path, err)
	}
	for i, s := range songs {
		if strings.TrimSpace(s.Title) == "" {
			return nil, fmt.Errorf("catalog file %s: song %d has no title", path, i+1)
		}
	}
	return songs, nil
}
