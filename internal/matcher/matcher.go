// file: internal/matcher/matcher.go
// version: 1.0.0
// guid: 4e6a8c0d-2f1b-4d3e-a5c7-9b1d3f5a7c36

package matcher

import (
	"sort"

	"github.com/jdfalk/drive-video-sync/internal/models"
)

// MatchStatus is the confidence tier of a match.
type MatchStatus string

const (
	StatusMatched   MatchStatus = "matched"
	StatusAmbiguous MatchStatus = "ambiguous"
	StatusUnmatched MatchStatus = "unmatched"
)

// Rank orders statuses matched < ambiguous < unmatched.
func (s MatchStatus) Rank() int {
	switch s {
	case StatusMatched:
		return 0
	case StatusAmbiguous:
		return 1
	default:
		return 2
	}
}

// MatchSource records how a match was decided.
type MatchSource string

const (
	SourceAuto   MatchSource = "auto"
	SourceManual MatchSource = "manual"
)

// MatchCandidate is a catalog song with its score against one file.
type MatchCandidate struct {
	Song  models.Song `json:"song"`
	Score int         `json:"score"`
}

// VideoMatchResult is the match decision for one remote file.
type VideoMatchResult struct {
	File      models.RemoteFile `json:"file"`
	Parsed    ParsedFilename    `json:"parsed"`
	BestMatch *MatchCandidate   `json:"bestMatch"`
	RunnerUp  *MatchCandidate   `json:"runnerUp"`
	Status    MatchStatus       `json:"status"`
	Source    MatchSource       `json:"source"`
}

// Classify decides the status from the best and runner-up candidates.
func Classify(best, runnerUp *MatchCandidate) MatchStatus {
	switch {
	case best == nil:
		return StatusUnmatched
	case best.Score >= MatchedThreshold:
		if runnerUp != nil && best.Score-runnerUp.Score < RunnerUpGap {
			return StatusAmbiguous
		}
		return StatusMatched
	case best.Score >= AmbiguousThreshold:
		return StatusAmbiguous
	}
	return StatusUnmatched
}

// ScoreSongs scores every song against the parsed filename, best first.
// Equal scores keep catalog order.
func ScoreSongs(parsed ParsedFilename, songs []models.Song) []MatchCandidate {
	candidates := make([]MatchCandidate, len(songs))
	for i, song := range songs {
		candidates[i] = MatchCandidate{Song: song, Score: CombinedScore(parsed, song)}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	return candidates
}

// MatchOne matches a single remote file against the catalog.
func MatchOne(file models.RemoteFile, songs []models.Song) VideoMatchResult {
	result := VideoMatchResult{
		File:   file,
		Parsed: ParseFilename(file.Name),
		Source: SourceAuto,
	}

	candidates := ScoreSongs(result.Parsed, songs)
	if len(candidates) > 0 {
		best := candidates[0]
		result.BestMatch = &best
	}
	if len(candidates) > 1 {
		second := candidates[1]
		result.RunnerUp = &second
	}
	result.Status = Classify(result.BestMatch, result.RunnerUp)
	return result
}

// MatchAll matches every file and orders the results by status, keeping
// listing order within a status.
func MatchAll(files []models.RemoteFile, songs []models.Song) []VideoMatchResult {
	results := make([]VideoMatchResult, 0, len(files))
	for _, f := range files {
		results = append(results, MatchOne(f, songs))
	}
	SortByStatus(results)
	return results
}

// SortByStatus stable-sorts results matched first, unmatched last.
func SortByStatus(results []VideoMatchResult) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Status.Rank() < results[j].Status.Rank()
	})
}
