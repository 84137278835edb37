// file: internal/matcher/parser.go
// version: 1.0.0
// guid: 2b4d6f8a-0c1e-4a3b-9d5f-7e6a8c0b2d13

package matcher

import (
	"regexp"
	"strings"
)

// ParsedFilename is the (title, artist) guess extracted from a filename.
type ParsedFilename struct {
	Title  string  `json:"title"`
	Artist *string `json:"artist"`
	Raw    string  `json:"raw"`
}

// HasArtist reports whether an artist part was found.
func (p ParsedFilename) HasArtist() bool {
	return p.Artist != nil && strings.TrimSpace(*p.Artist) != ""
}

var (
	extensionPattern   = regexp.MustCompile(`\.[^/.]+$`)
	trackNumberPattern = regexp.MustCompile(`^\d{1,3}[\s._-]+`)
	separatorPattern   = regexp.MustCompile(`\s*[-–—]\s*`)

	// Trailing edit notes that are never an artist name: "to cut",
	// "129BPM", "slow", "chords", "v1.2", "re-record" and friends.
	noiseSuffixPattern = regexp.MustCompile(
		`(?i)\s*[-–—]\s*(?:to[\s_-]*cut|\d+\s*bpm|slow|fast|chords?|v\d+(?:\.\d+)*|re-?record)\s*$`)
)

// ParseFilename extracts a title and optional artist from a lesson video
// filename such as "01 - Hotel California - Eagles.mp4".
func ParseFilename(name string) ParsedFilename {
	parsed := ParsedFilename{Raw: name}

	base := extensionPattern.ReplaceAllString(name, "")
	base = trackNumberPattern.ReplaceAllString(strings.TrimSpace(base), "")
	base = strings.TrimSpace(base)

	if loc := noiseSuffixPattern.FindStringIndex(base); loc != nil {
		if rest := strings.TrimSpace(base[:loc[0]]); rest != "" {
			parsed.Title = strings.Join(splitParts(rest), " - ")
			return parsed
		}
	}

	parts := splitParts(base)
	switch len(parts) {
	case 0:
	case 1:
		parsed.Title = parts[0]
	default:
		parsed.Title = parts[0]
		artist := parts[1]
		parsed.Artist = &artist
	}
	return parsed
}

func splitParts(s string) []string {
	var parts []string
	for _, p := range separatorPattern.Split(s, -1) {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}
