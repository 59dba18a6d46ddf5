package job

import (
	"context"

	"github.com/pagemill/pagemill/internal/store"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

// VersionRetentionJob trims the history of content items that accumulated
// more versions than the configured ceiling. Only intermediate versions go;
// the latest and release end markers always survive, so a trimmed item still
// resolves identically in every release.
type VersionRetentionJob struct {
	collections store.CollectionStore
	contents    store.ContentStore
	versions    store.VersionStore
	maxVersions int
}

func NewVersionRetentionJob(collections store.CollectionStore, contents store.ContentStore,
	versions store.VersionStore, maxVersions int) *VersionRetentionJob {
	return &VersionRetentionJob{
		collections: collections,
		contents:    contents,
		versions:    versions,
		maxVersions: maxVersions,
	}
}

func (j *VersionRetentionJob) Name() string {
	return "version_retention"
}

func (j *VersionRetentionJob) Run(ctx context.Context) error {
	if j.maxVersions <= 0 {
		return nil
	}
	logger := logutil.GetLogger(ctx)
	collections, err := j.collections.List(ctx)
	if err != nil {
		return err
	}
	for _, collection := range collections {
		items, err := j.contents.ListByCollection(ctx, collection.ID)
		if err != nil {
			logger.Error("list contents fail", zap.String("collection_id", collection.ID), zap.Error(err))
			continue
		}
		for _, item := range items {
			history, err := j.versions.History(ctx, item.ID, 0)
			if err != nil {
				logger.Error("read history fail", zap.String("content_id", item.ID), zap.Error(err))
				continue
			}
			if len(history) <= j.maxVersions {
				continue
			}
			deleted, err := j.versions.PurgeIntermediate(ctx, item.ID)
			if err != nil {
				logger.Error("purge versions fail", zap.String("content_id", item.ID), zap.Error(err))
				continue
			}
			if deleted > 0 {
				logger.Info("versions purged",
					zap.String("content_id", item.ID),
					zap.Int("history", len(history)),
					zap.Int64("deleted", deleted),
				)
			}
		}
	}
	return nil
}
