// file: internal/models/song.go
// version: 1.0.0
// guid: 3f1c9a2e-7b4d-4e8a-9c61-2d5f8e0b7a14

package models

// Song is a catalog entry a lesson video can be linked to.
type Song struct {
	ID     string `json:"id" yaml:"id" db:"id"`
	Title  string `json:"title" yaml:"title" db:"title"`
	Author string `json:"author,omitempty" yaml:"author" db:"author"`
}

// RemoteFile is a file listed from the remote file store.
type RemoteFile struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	MimeType      string   `json:"mimeType"`
	Size          int64    `json:"size,omitempty"`
	ThumbnailLink string   `json:"thumbnailLink,omitempty"`
	Metadata      Metadata `json:"-"`
}
