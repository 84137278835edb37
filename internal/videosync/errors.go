// file: internal/videosync/errors.go
// version: 1.0.0
// guid: 3d5f7a9c-1e4b-4c6d-8f0a-0a2c4e6b8d15

package videosync

import (
	"errors"
	"fmt"
)

var (
	// ErrConfig marks a run that cannot start because of bad options.
	ErrConfig = errors.New("sync configuration error")
	// ErrNotFound marks a requested folder that does not exist.
	ErrNotFound = errors.New("not found")
)

// NotFoundError reports a named subfolder missing from its parent.
type NotFoundError struct {
	Name     string
	ParentID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("folder %q not found in parent %s", e.Name, e.ParentID)
}

// Is lets errors.Is(err, ErrNotFound) match.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func configError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfig, fmt.Sprintf(format, args...))
}
