// file: internal/matcher/catalog.go
// version: 1.0.0
// guid: 9a1c3e5f-7b2d-4f6a-8c0e-2d4f6a8c0e47

package matcher

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/jdfalk/drive-video-sync/internal/models"
)

// SearchSongs returns catalog songs whose "title author" text fuzzily
// contains query, closest first. A limit <= 0 returns every hit.
func SearchSongs(query string, songs []models.Song, limit int) []models.Song {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	targets := make([]string, len(songs))
	for i, s := range songs {
		targets[i] = strings.TrimSpace(s.Title + " " + s.Author)
	}

	ranks := fuzzy.RankFindNormalizedFold(query, targets)
	sort.Stable(ranks)

	var out []models.Song
	for _, r := range ranks {
		out = append(out, songs[r.OriginalIndex])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// FindSong returns the song with the given id.
func FindSong(songs []models.Song, id string) (models.Song, bool) {
	for _, s := range songs {
		if s.ID == id {
			return s, true
		}
	}
	return models.Song{}, false
}
