// Package images stores product preview images either on the local disk or
// in an S3-compatible bucket.
package images

import (
	"context"
	"fmt"
	"io"

	"github.com/dmitrijs2005/baibai/internal/server/config"
)

// Store persists preview images by file name. Get returns
// common.ErrorNotFound for unknown names.
type Store interface {
	Put(ctx context.Context, name, contentType string, r io.Reader, size int64) error
	Get(ctx context.Context, name string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, name string) error
}

// New builds the store selected by cfg.ImageStorage.
func New(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.ImageStorage {
	case config.ImageStorageDisk:
		return NewDiskStore(cfg.UploadsDir)
	case config.ImageStorageS3:
		return NewS3StoreFromConfig(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown image storage %q", cfg.ImageStorage)
	}
}
