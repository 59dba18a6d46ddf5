package memstore

import (
	"context"
	"sync"

	"github.com/pagemill/pagemill/internal/model"
	"github.com/pagemill/pagemill/internal/pkg/errors"
)

type VersionStore struct {
	mu sync.Mutex
	// byContent holds each item's history in ascending version order.
	byContent map[string][]*model.Version
}

func NewVersionStore() *VersionStore {
	return &VersionStore{byContent: make(map[string][]*model.Version)}
}

func (s *VersionStore) Append(_ context.Context, version *model.Version) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	log := s.byContent[version.ContentID]
	for _, v := range log {
		if v.VersionNumber == version.VersionNumber {
			return errors.ErrVersionConflict
		}
	}
	if len(log) > 0 && version.VersionNumber < log[len(log)-1].VersionNumber {
		// Numbers only ever grow; an older number slipping in means the
		// caller raced and lost.
		return errors.ErrVersionConflict
	}
	s.byContent[version.ContentID] = append(log, version.Clone())
	return nil
}

func (s *VersionStore) Get(_ context.Context, contentID string, number int) (*model.Version, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range s.byContent[contentID] {
		if v.VersionNumber == number {
			return v.Clone(), nil
		}
	}
	return nil, errors.ErrNotFound
}

func (s *VersionStore) Latest(_ context.Context, contentID string) (*model.Version, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	log := s.byContent[contentID]
	if len(log) == 0 {
		return nil, errors.ErrNotFound
	}
	return log[len(log)-1].Clone(), nil
}

func (s *VersionStore) History(_ context.Context, contentID string, limit int) ([]*model.VersionSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	log := s.byContent[contentID]
	out := make([]*model.VersionSummary, 0, len(log))
	for i := len(log) - 1; i >= 0; i-- {
		if limit > 0 && len(out) >= limit {
			break
		}
		summary := log[i].Summary()
		out = append(out, &summary)
	}
	return out, nil
}

func (s *VersionStore) MarkLatestReleaseEnd(_ context.Context, contentID string) (*model.Version, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	log := s.byContent[contentID]
	if len(log) == 0 {
		return nil, errors.ErrNotFound
	}
	log[len(log)-1].IsReleaseEnd = true
	return log[len(log)-1].Clone(), nil
}

func (s *VersionStore) PurgeIntermediate(_ context.Context, contentID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	log := s.byContent[contentID]
	if len(log) == 0 {
		return 0, nil
	}
	kept := make([]*model.Version, 0, len(log))
	for i, v := range log {
		if i == len(log)-1 || v.IsReleaseEnd {
			kept = append(kept, v)
		}
	}
	deleted := int64(len(log) - len(kept))
	s.byContent[contentID] = kept
	return deleted, nil
}

func (s *VersionStore) CountPurgeable(_ context.Context, contentID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	log := s.byContent[contentID]
	if len(log) == 0 {
		return 0, nil
	}
	var count int64
	for i, v := range log {
		if i != len(log)-1 && !v.IsReleaseEnd {
			count++
		}
	}
	return count, nil
}

func (s *VersionStore) DeleteByContent(_ context.Context, contentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byContent, contentID)
	return nil
}
