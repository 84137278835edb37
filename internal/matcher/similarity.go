// file: internal/matcher/similarity.go
// version: 1.0.0
// guid: 7d9f1b3c-5e2a-4c6d-8f0b-1a3c5e7d9f24

package matcher

import (
	"math"
	"regexp"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/jdfalk/drive-video-sync/internal/models"
)

// Score thresholds used to classify a match.
const (
	MatchedThreshold   = 75
	AmbiguousThreshold = 60
	RunnerUpGap        = 10

	titleWeight  = 0.6
	artistWeight = 0.4
)

var nonWordPattern = regexp.MustCompile(`[^\w\s]`)

// normalize lowercases, trims and strips everything that is not an ASCII
// word character or whitespace.
func normalize(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	return nonWordPattern.ReplaceAllString(s, "")
}

// Similarity scores two strings from 0 to 100 by normalized edit distance.
// Two strings that normalize to empty are identical and score 100.
func Similarity(a, b string) int {
	na, nb := normalize(a), normalize(b)
	maxLen := max(len([]rune(na)), len([]rune(nb)))
	if maxLen == 0 {
		return 100
	}
	dist := levenshtein.ComputeDistance(na, nb)
	return int(math.Round(100 * float64(maxLen-dist) / float64(maxLen)))
}

// CombinedScore scores a parsed filename against a catalog song. The artist
// only contributes when both sides carry one.
func CombinedScore(p ParsedFilename, song models.Song) int {
	titleScore := Similarity(p.Title, song.Title)
	if !p.HasArtist() || strings.TrimSpace(song.Author) == "" {
		return titleScore
	}
	artistScore := Similarity(*p.Artist, song.Author)
	return int(math.Round(titleWeight*float64(titleScore) + artistWeight*float64(artistScore)))
}
