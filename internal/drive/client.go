// file: internal/drive/client.go
// version: 1.0.0
// guid: 5a7c9e1b-3d6f-4a8b-8c0e-2e4a6c8e0b3d

package drive

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2/google"
	"golang.org/x/time/rate"
	drivev3 "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/jdfalk/drive-video-sync/internal/cache"
	"github.com/jdfalk/drive-video-sync/internal/logging"
	"github.com/jdfalk/drive-video-sync/internal/models"
)

const (
	folderMimeType = "application/vnd.google-apps.folder"
	pageSize       = 1000
	folderCacheTTL = 10 * time.Minute

	listFields   = "nextPageToken, files(id, name, mimeType, size, thumbnailLink, videoMediaMetadata(width, height, durationMillis))"
	folderFields = "files(id, name)"
)

// ErrNoCredentials is returned when neither a credentials file nor an API
// key is configured.
var ErrNoCredentials = errors.New("drive: no credentials configured (set drive.credentials_file or drive.api_key)")

// Config selects how the Drive client authenticates.
type Config struct {
	// CredentialsFile is a service account JSON key.
	CredentialsFile string
	// APIKey works for folders shared publicly.
	APIKey string
	// RequestsPerSecond throttles page fetches; <= 0 disables throttling.
	RequestsPerSecond float64
	// Endpoint overrides the API base URL and disables authentication.
	Endpoint string
}

// Client lists files and folders in Google Drive. It is safe for
// concurrent use.
type Client struct {
	svc     *drivev3.Service
	limiter *rate.Limiter
	folders *cache.Cache[string]
}

// NewClient builds a Drive v3 client from cfg.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	var opts []option.ClientOption
	switch {
	case cfg.Endpoint != "":
		opts = append(opts, option.WithEndpoint(cfg.Endpoint), option.WithoutAuthentication())
	case cfg.CredentialsFile != "":
		data, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("reading drive credentials: %w", err)
		}
		creds, err := google.CredentialsFromJSON(ctx, data, drivev3.DriveReadonlyScope)
		if err != nil {
			return nil, fmt.Errorf("parsing drive credentials: %w", err)
		}
		opts = append(opts, option.WithCredentials(creds))
	case cfg.APIKey != "":
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	default:
		return nil, ErrNoCredentials
	}

	svc, err := drivev3.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating drive service: %w", err)
	}
	return NewClientWithService(svc, cfg.RequestsPerSecond), nil
}

// NewClientWithService wraps an already configured Drive service.
func NewClientWithService(svc *drivev3.Service, requestsPerSecond float64) *Client {
	limit := rate.Inf
	if requestsPerSecond > 0 {
		limit = rate.Limit(requestsPerSecond)
	}
	return &Client{
		svc:     svc,
		limiter: rate.NewLimiter(limit, 1),
		folders: cache.New[string](folderCacheTTL),
	}
}

// ListFilesInFolder returns every non-trashed file directly inside folderID
// whose MIME type starts with mimePrefix, following all result pages.
func (c *Client) ListFilesInFolder(ctx context.Context, folderID, mimePrefix string) ([]models.RemoteFile, error) {
	q := fmt.Sprintf("'%s' in parents and trashed = false", escapeQuery(folderID))
	if mimePrefix != "" {
		q += fmt.Sprintf(" and mimeType contains '%s'", escapeQuery(mimePrefix))
	}

	var files []models.RemoteFile
	pageToken := ""
	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		call := c.svc.Files.List().
			Q(q).
			Fields(listFields).
			PageSize(pageSize).
			OrderBy("name").
			SupportsAllDrives(true).
			IncludeItemsFromAllDrives(true)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		resp, err := call.Context(ctx).Do()
		if err != nil {
			return nil, fmt.Errorf("listing drive folder %s: %w", folderID, err)
		}

		for _, f := range resp.Files {
			if mimePrefix != "" && !strings.HasPrefix(f.MimeType, mimePrefix) {
				continue
			}
			files = append(files, toRemoteFile(f))
		}

		if resp.NextPageToken == "" {
			break
		}
		pageToken = resp.NextPageToken
	}
	return files, nil
}

// FindFolderByName returns the id of the folder called name inside
// parentID, or "" when there is none.
func (c *Client) FindFolderByName(ctx context.Context, parentID, name string) (string, error) {
	key := parentID + "/" + name
	if id, ok := c.folders.Get(key); ok {
		logging.LogCacheHit("drive", key)
		return id, nil
	}
	logging.LogCacheMiss("drive", key)

	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	q := fmt.Sprintf("'%s' in parents and name = '%s' and mimeType = '%s' and trashed = false",
		escapeQuery(parentID), escapeQuery(name), folderMimeType)
	resp, err := c.svc.Files.List().
		Q(q).
		Fields(folderFields).
		PageSize(1).
		SupportsAllDrives(true).
		IncludeItemsFromAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("looking up drive folder %q in %s: %w", name, parentID, err)
	}
	if len(resp.Files) == 0 {
		return "", nil
	}

	id := resp.Files[0].Id
	c.folders.Set(key, id)
	return id, nil
}

func toRemoteFile(f *drivev3.File) models.RemoteFile {
	rf := models.RemoteFile{
		ID:            f.Id,
		Name:          f.Name,
		MimeType:      f.MimeType,
		Size:          f.Size,
		ThumbnailLink: f.ThumbnailLink,
		Metadata:      models.MetadataFor(f.MimeType, f.ThumbnailLink),
	}
	if vm, ok := rf.Metadata.(models.VideoMetadata); ok && f.VideoMediaMetadata != nil {
		width := int(f.VideoMediaMetadata.Width)
		height := int(f.VideoMediaMetadata.Height)
		duration := int(f.VideoMediaMetadata.DurationMillis / 1000)
		vm.Width, vm.Height, vm.DurationSeconds = &width, &height, &duration
		rf.Metadata = vm
	}
	return rf
}

// escapeQuery escapes a value for a single-quoted Drive query literal.
func escapeQuery(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `'`, `\'`)
}
