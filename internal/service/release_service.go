package service

import (
	"context"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/pagemill/pagemill/internal/model"
	appErr "github.com/pagemill/pagemill/internal/pkg/errors"
	"github.com/pagemill/pagemill/internal/pkg/timeutil"
	"github.com/pagemill/pagemill/internal/store"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

// ReleaseService owns the release timeline of each collection and resolves
// content against it. A version carries the name of the release that was
// active when it was written; resolving a release walks a content item's
// history from newest to oldest and returns the first version whose release
// is at or before the requested one on the collection's timeline.
type ReleaseService struct {
	releases    store.ReleaseStore
	collections store.CollectionStore
	contents    store.ContentStore
	versions    store.VersionStore
	cache       *expirable.LRU[string, []string]
}

func NewReleaseService(releases store.ReleaseStore, collections store.CollectionStore,
	contents store.ContentStore, versions store.VersionStore, cacheSize int, cacheTTL time.Duration) *ReleaseService {
	s := &ReleaseService{
		releases:    releases,
		collections: collections,
		contents:    contents,
		versions:    versions,
	}
	if cacheSize > 0 && cacheTTL > 0 {
		s.cache = expirable.NewLRU[string, []string](cacheSize, nil, cacheTTL)
	}
	return s
}

// Create cuts a new release for a collection. Every content item's current
// latest version is marked as the end of the previous release window; with
// copyContents each item additionally receives an unchanged snapshot tagged
// with the new release, so the release has a version of its own even for
// untouched items. The per-item sweep tolerates partial failure: markers are
// idempotent, so rerunning the sweep after a crash only re-marks what is
// already marked.
func (s *ReleaseService) Create(ctx context.Context, collectionID string, name string, copyContents bool, creatorID string) (*model.Release, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, appErr.ErrInvalid
	}
	if _, err := s.collections.Get(ctx, collectionID); err != nil {
		return nil, err
	}
	exists, err := s.releases.Exists(ctx, collectionID, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, appErr.ErrDuplicateRelease
	}
	release := &model.Release{
		ID:           newID(),
		CollectionID: collectionID,
		Name:         name,
		CreatorID:    creatorID,
		Ctime:        timeutil.NowUnix(),
	}
	if err := s.releases.Create(ctx, release); err != nil {
		return nil, err
	}
	s.invalidate(collectionID)
	s.sweep(ctx, release, copyContents, creatorID)
	return release, nil
}

func (s *ReleaseService) sweep(ctx context.Context, release *model.Release, copyContents bool, creatorID string) {
	logger := logutil.GetLogger(ctx).With(zap.String("collection_id", release.CollectionID), zap.String("release", release.Name))
	items, err := s.contents.ListByCollection(ctx, release.CollectionID)
	if err != nil {
		logger.Error("list contents for release sweep fail", zap.Error(err))
		return
	}
	for _, item := range items {
		marked, err := s.versions.MarkLatestReleaseEnd(ctx, item.ID)
		if err != nil {
			if appErr.IsNotFound(err) {
				continue
			}
			logger.Error("mark release end fail", zap.String("content_id", item.ID), zap.Error(err))
			continue
		}
		if !copyContents {
			continue
		}
		copied := &model.Version{
			ID:            newID(),
			ContentID:     item.ID,
			VersionNumber: marked.VersionNumber + 1,
			Snapshot:      marked.Snapshot.Clone(),
			ChangeNote:    "carried into release " + release.Name,
			Release:       release.Name,
			CreatorID:     creatorID,
			Ctime:         timeutil.NowUnix(),
		}
		if err := s.versions.Append(ctx, copied); err != nil {
			// A conflict means a concurrent edit already opened the new
			// window for this item, which is exactly what the copy is for.
			if appErr.IsVersionConflict(err) {
				continue
			}
			logger.Error("append release copy fail", zap.String("content_id", item.ID), zap.Error(err))
		}
	}
}

func (s *ReleaseService) Get(ctx context.Context, collectionID string, name string) (*model.Release, error) {
	return s.releases.Get(ctx, collectionID, name)
}

func (s *ReleaseService) List(ctx context.Context, collectionID string) ([]*model.Release, error) {
	return s.releases.List(ctx, collectionID)
}

// ActiveReleaseName returns the name new versions of the collection should be
// tagged with, which is the most recently created release. Before the first
// release it returns the empty basis name.
func (s *ReleaseService) ActiveReleaseName(ctx context.Context, collectionID string) (string, error) {
	names, err := s.releaseNames(ctx, collectionID)
	if err != nil {
		return "", err
	}
	if len(names) == 0 {
		return "", nil
	}
	return names[len(names)-1], nil
}

// ResolveContent returns the version of a content item that belongs to the
// named release. Items whose entire history postdates the release resolve to
// not found.
func (s *ReleaseService) ResolveContent(ctx context.Context, contentID string, releaseName string) (*model.Version, error) {
	content, err := s.contents.Get(ctx, contentID)
	if err != nil {
		return nil, err
	}
	names, ord, err := s.releaseOrdinal(ctx, content.CollectionID, releaseName)
	if err != nil {
		return nil, err
	}
	return s.resolve(ctx, contentID, names, ord)
}

// ResolveCollection resolves every content item of a collection against the
// named release, in creation order. Items not present in the release are
// left out.
func (s *ReleaseService) ResolveCollection(ctx context.Context, collectionID string, releaseName string) ([]*model.Version, error) {
	names, ord, err := s.releaseOrdinal(ctx, collectionID, releaseName)
	if err != nil {
		return nil, err
	}
	items, err := s.contents.ListByCollection(ctx, collectionID)
	if err != nil {
		return nil, err
	}
	resolved := make([]*model.Version, 0, len(items))
	for _, item := range items {
		version, err := s.resolve(ctx, item.ID, names, ord)
		if err != nil {
			if appErr.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		resolved = append(resolved, version)
	}
	return resolved, nil
}

func (s *ReleaseService) resolve(ctx context.Context, contentID string, names []string, ord int) (*model.Version, error) {
	summaries, err := s.versions.History(ctx, contentID, 0)
	if err != nil {
		return nil, err
	}
	for _, summary := range summaries {
		if ordinalOf(names, summary.Release) <= ord {
			return s.versions.Get(ctx, contentID, summary.VersionNumber)
		}
	}
	return nil, appErr.ErrNotFound
}

func (s *ReleaseService) releaseOrdinal(ctx context.Context, collectionID string, releaseName string) ([]string, int, error) {
	if releaseName == "" {
		return nil, 0, appErr.ErrInvalid
	}
	names, err := s.releaseNames(ctx, collectionID)
	if err != nil {
		return nil, 0, err
	}
	ord := ordinalOf(names, releaseName)
	if ord >= len(names) {
		return nil, 0, appErr.ErrNotFound
	}
	return names, ord, nil
}

// ordinalOf places a release tag on the collection timeline. The empty basis
// tag sits before every release; a tag that is not on the timeline sorts
// after everything so it never leaks into an older release.
func ordinalOf(names []string, name string) int {
	if name == "" {
		return -1
	}
	for i, candidate := range names {
		if candidate == name {
			return i
		}
	}
	return len(names)
}

func (s *ReleaseService) releaseNames(ctx context.Context, collectionID string) ([]string, error) {
	if s.cache != nil {
		if cached, ok := s.cache.Get(collectionID); ok {
			return cached, nil
		}
	}
	releases, err := s.releases.List(ctx, collectionID)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(releases))
	for _, release := range releases {
		names = append(names, release.Name)
	}
	if s.cache != nil {
		s.cache.Add(collectionID, names)
	}
	return names, nil
}

func (s *ReleaseService) invalidate(collectionID string) {
	if s.cache != nil {
		s.cache.Remove(collectionID)
	}
}
