// Package storage archives accepted uploads so a dataset can be replayed
// or audited later. The in-memory tables remain the source of truth; the
// archive is write-only from the application's point of view.
package storage

import (
	"fmt"
	"time"

	"github.com/chartmuseum/storage"

	"github.com/opsintel/backend-go/internal/config"
	"github.com/opsintel/backend-go/internal/domain"
)

// Archive persists raw upload payloads through a chartmuseum storage
// backend: local filesystem by default, S3-compatible when a bucket is
// configured.
type Archive struct {
	backend storage.Backend
	enabled bool
}

// NewArchive builds an archive from configuration. Disabled archives
// swallow writes.
func NewArchive(cfg config.ArchiveConfig) (*Archive, error) {
	if !cfg.Enabled {
		return &Archive{}, nil
	}

	if cfg.S3Bucket != "" {
		region := cfg.S3Region
		if region == "" {
			region = "us-east-1"
		}
		backend := storage.NewAmazonS3BackendWithOptions(
			cfg.S3Bucket,
			"uploads",
			region,
			cfg.S3Endpoint,
			"",
			&storage.AmazonS3Options{},
		)
		return &Archive{backend: backend, enabled: true}, nil
	}

	if cfg.Dir == "" {
		return nil, fmt.Errorf("archive directory must be configured")
	}
	return &Archive{backend: storage.NewLocalFilesystemBackend(cfg.Dir), enabled: true}, nil
}

// Store writes one upload payload under a kind- and time-scoped key and
// returns that key. Disabled archives return an empty key.
func (a *Archive) Store(kind domain.DatasetKind, filename string, data []byte) (string, error) {
	if !a.enabled {
		return "", nil
	}

	key := fmt.Sprintf("%s/%s_%s", kind, time.Now().UTC().Format("20060102T150405"), filename)
	if err := a.backend.PutObject(key, data); err != nil {
		return "", fmt.Errorf("archive write failed for %s: %w", key, err)
	}
	return key, nil
}

// List returns the archived object keys for one dataset kind.
func (a *Archive) List(kind domain.DatasetKind) ([]string, error) {
	if !a.enabled {
		return nil, nil
	}

	objects, err := a.backend.ListObjects(string(kind))
	if err != nil {
		return nil, fmt.Errorf("archive list failed: %w", err)
	}

	keys := make([]string, 0, len(objects))
	for _, obj := range objects {
		keys = append(keys, obj.Path)
	}
	return keys, nil
}
