// file: internal/config/files_test.go
// version: 1.0.0
// guid: d5f7a9c1-3e6a-4c8d-a0b2-0a2c4e6a8d1f

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadOverrides(t *testing.T) {
	path := writeFile(t, "overrides.yaml", "f1: s1\nf2: s2\n")

	overrides, err := LoadOverrides(path)

	require.NoError(t, err)
	assert.Equal(t, map[string]string{"f1": "s1", "f2": "s2"}, overrides)
}

func TestLoadOverrides_Errors(t *testing.T) {
	_, err := LoadOverrides(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = LoadOverrides(writeFile(t, "bad.yaml", "- not\n- a map\n"))
	assert.Error(t, err)

	_, err = LoadOverrides(writeFile(t, "empty.yaml", "f1: \"\"\n"))
	assert.Error(t, err)
}

func TestParseOverrideFlags(t *testing.T) {
	overrides, err := ParseOverrideFlags([]string{"f1=s1", " f2 = s2 "})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"f1": "s1", "f2": "s2"}, overrides)

	for _, bad := range []string{"f1", "=s1", "f1="} {
		_, err := ParseOverrideFlags([]string{bad})
		assert.Error(t, err, bad)
	}
}

func TestMergeOverrides(t *testing.T) {
	merged := MergeOverrides(map[string]string{"f1": "s1", "f2": "s2"}, map[string]string{"f2": "s9"}, nil)
	assert.Equal(t, map[string]string{"f1": "s1", "f2": "s9"}, merged)
}

func TestLoadCatalog(t *testing.T) {
	path := writeFile(t, "songs.yaml", `
- id: s1
  title: Wonderwall
  author: Oasis
- title: Blackbird
`)

	songs, err := LoadCatalog(path)

	require.NoError(t, err)
	require.Len(t, songs, 2)
	assert.Equal(t, "s1", songs[0].ID)
	assert.Equal(t, "Oasis", songs[0].Author)
	assert.Equal(t, "", songs[1].ID)
	assert.Equal(t, "Blackbird", songs[1].Title)

	_, err = LoadCatalog(writeFile(t, "bad.yaml", "- id: s1\n"))
	assert.Error(t, err)
}
