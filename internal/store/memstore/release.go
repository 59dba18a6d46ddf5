package memstore

import (
	"context"
	"sync"

	"github.com/pagemill/pagemill/internal/model"
	"github.com/pagemill/pagemill/internal/pkg/errors"
)

type ReleaseStore struct {
	mu sync.RWMutex
	// byCollection holds releases in creation order, oldest first.
	byCollection map[string][]*model.Release
}

func NewReleaseStore() *ReleaseStore {
	return &ReleaseStore{byCollection: make(map[string][]*model.Release)}
}

func (s *ReleaseStore) Create(_ context.Context, release *model.Release) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.byCollection[release.CollectionID] {
		if r.Name == release.Name {
			return errors.ErrDuplicateRelease
		}
	}
	cp := *release
	s.byCollection[release.CollectionID] = append(s.byCollection[release.CollectionID], &cp)
	return nil
}

func (s *ReleaseStore) Get(_ context.Context, collectionID string, name string) (*model.Release, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.byCollection[collectionID] {
		if r.Name == name {
			cp := *r
			return &cp, nil
		}
	}
	return nil, errors.ErrNotFound
}

func (s *ReleaseStore) List(_ context.Context, collectionID string) ([]*model.Release, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	releases := s.byCollection[collectionID]
	out := make([]*model.Release, 0, len(releases))
	for _, r := range releases {
		cp := *r
		out = append(out, &cp)
	}
	return out, nil
}

func (s *ReleaseStore) Exists(_ context.Context, collectionID string, name string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.byCollection[collectionID] {
		if r.Name == name {
			return true, nil
		}
	}
	return false, nil
}
