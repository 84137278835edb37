// file: internal/matcher/catalog_test.go
// version: 1.0.0
// guid: 8b0d2f4a-6c3e-4a7b-9d1f-4e6a8c0e2b7c

package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchSongs(t *testing.T) {
	songs := testCatalog()

	got := SearchSongs("wonder", songs, 0)
	require.Len(t, got, 1)
	assert.Equal(t, "s1", got[0].ID)

	got = SearchSongs("BEATLES", songs, 0)
	require.Len(t, got, 1)
	assert.Equal(t, "s2", got[0].ID)

	assert.Empty(t, SearchSongs("   ", songs, 0))
	assert.Empty(t, SearchSongs("metallica", songs, 0))
}

func TestSearchSongs_Limit(t *testing.T) {
	songs := testCatalog()
	// "a" is contained in both entries
	assert.Len(t, SearchSongs("a", songs, 0), 2)
	assert.Len(t, SearchSongs("a", songs, 1), 1)
}

func TestFindSong(t *testing.T) {
	s, ok := FindSong(testCatalog(), "s2")
	assert.True(t, ok)
	assert.Equal(t, "Blackbird", s.Title)

	_, ok = FindSong(testCatalog(), "missing")
	assert.False(t, ok)
}
