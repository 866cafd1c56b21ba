package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sakib-101-git/EDU-ClassRepo/pkg/blobstore"
	"github.com/sakib-101-git/EDU-ClassRepo/pkg/metrics"
)

// isUUID guards id parameters before they reach a uuid column.
func isUUID(id string) bool {
	return uuid.Validate(id) == nil
}

// removeBlobs deletes binaries whose rows are already gone. Failures are
// logged and counted; the orphan sweep picks up whatever is left.
func removeBlobs(ctx context.Context, store blobstore.Store, keys []string, logger *zap.Logger) {
	for _, key := range keys {
		if err := store.Delete(ctx, key); err != nil {
			metrics.BlobCleanupFailures.Inc()
			logger.Warn("remove stored file failed", zap.String("key", key), zap.Error(err))
		}
	}
}
