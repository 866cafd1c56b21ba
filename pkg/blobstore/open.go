package blobstore

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sakib-101-git/EDU-ClassRepo/config"
)

// Open builds the Store selected by storage.driver.
func Open(ctx context.Context, cfg *config.StorageConfig, logger *zap.Logger) (Store, error) {
	switch cfg.Driver {
	case "local":
		return NewLocalStore(cfg.Local.Dir)
	case "minio":
		return NewMinIOStore(ctx, cfg.MinIO, logger)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
