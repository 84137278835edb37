// file: internal/models/metadata.go
// version: 1.0.0
// guid: 8a2d4c6e-1f3b-4a5d-8e7c-0b9f2a4d6c81

package models

import "strings"

// MediaKind names a Metadata variant.
type MediaKind string

const (
	MediaAudio MediaKind = "audio"
	MediaVideo MediaKind = "video"
	MediaPdf   MediaKind = "pdf"
)

// Metadata is per-media-type detail attached to a remote file. The set of
// variants is closed: AudioMetadata, VideoMetadata and PdfMetadata.
type Metadata interface {
	Kind() MediaKind
	isMetadata()
}

// AudioMetadata describes an audio recording.
type AudioMetadata struct {
	DurationSeconds *int    `json:"duration_seconds,omitempty"`
	Artist          *string `json:"artist,omitempty"`
	Album           *string `json:"album,omitempty"`
	Genre           *string `json:"genre,omitempty"`
}

// VideoMetadata describes a video recording.
type VideoMetadata struct {
	DurationSeconds *int   `json:"duration_seconds,omitempty"`
	ThumbnailURL    string `json:"thumbnail_url,omitempty"`
	Width           *int   `json:"width,omitempty"`
	Height          *int   `json:"height,omitempty"`
}

// PdfMetadata describes a document.
type PdfMetadata struct {
	PageCount *int `json:"page_count,omitempty"`
}

func (AudioMetadata) Kind() MediaKind { return MediaAudio }
func (VideoMetadata) Kind() MediaKind { return MediaVideo }
func (PdfMetadata) Kind() MediaKind   { return MediaPdf }

func (AudioMetadata) isMetadata() {}
func (VideoMetadata) isMetadata() {}
func (PdfMetadata) isMetadata()   {}

// MetadataFor picks the metadata variant for a MIME type. Unknown types
// yield nil.
func MetadataFor(mimeType, thumbnail string) Metadata {
	mt := strings.ToLower(mimeType)
	switch {
	case strings.HasPrefix(mt, "video/"):
		return VideoMetadata{ThumbnailURL: thumbnail}
	case strings.HasPrefix(mt, "audio/"):
		return AudioMetadata{}
	case mt == "application/pdf":
		return PdfMetadata{}
	}
	return nil
}

// ThumbnailURL returns the thumbnail carried by m, or "" for variants
// without one.
func ThumbnailURL(m Metadata) string {
	switch v := m.(type) {
	case VideoMetadata:
		return v.ThumbnailURL
	case *VideoMetadata:
		if v != nil {
			return v.ThumbnailURL
		}
	}
	return ""
}
