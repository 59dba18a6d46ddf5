// Package memstore implements the store interfaces on plain maps. It
// backs the engine tests and single-binary runs without a database;
// records are cloned on the way in and out so callers never share
// mutable state with the store.
package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/pagemill/pagemill/internal/model"
	"github.com/pagemill/pagemill/internal/pkg/errors"
)

type CollectionStore struct {
	mu    sync.RWMutex
	items map[string]*model.Collection
}

func NewCollectionStore() *CollectionStore {
	return &CollectionStore{items: make(map[string]*model.Collection)}
}

func (s *CollectionStore) Create(_ context.Context, collection *model.Collection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[collection.ID]; ok {
		return errors.ErrConflict
	}
	cp := *collection
	s.items[collection.ID] = &cp
	return nil
}

func (s *CollectionStore) Get(_ context.Context, id string) (*model.Collection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[id]
	if !ok {
		return nil, errors.ErrNotFound
	}
	cp := *item
	return &cp, nil
}

func (s *CollectionStore) List(_ context.Context) ([]*model.Collection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*model.Collection, 0, len(s.items))
	for _, item := range s.items {
		cp := *item
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Ctime != out[j].Ctime {
			return out[i].Ctime < out[j].Ctime
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *CollectionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return errors.ErrNotFound
	}
	delete(s.items, id)
	return nil
}
