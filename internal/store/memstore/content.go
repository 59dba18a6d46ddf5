package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/pagemill/pagemill/internal/model"
	"github.com/pagemill/pagemill/internal/pkg/errors"
)

type ContentStore struct {
	mu    sync.RWMutex
	items map[string]*model.Content
}

func NewContentStore() *ContentStore {
	return &ContentStore{items: make(map[string]*model.Content)}
}

func (s *ContentStore) Create(_ context.Context, content *model.Content) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[content.ID]; ok {
		return errors.ErrConflict
	}
	s.items[content.ID] = content.Clone()
	return nil
}

func (s *ContentStore) Get(_ context.Context, id string) (*model.Content, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[id]
	if !ok {
		return nil, errors.ErrNotFound
	}
	return item.Clone(), nil
}

func (s *ContentStore) Update(_ context.Context, content *model.Content) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[content.ID]; !ok {
		return errors.ErrNotFound
	}
	s.items[content.ID] = content.Clone()
	return nil
}

func (s *ContentStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return errors.ErrNotFound
	}
	delete(s.items, id)
	return nil
}

func (s *ContentStore) ListByCollection(_ context.Context, collectionID string) ([]*model.Content, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*model.Content, 0)
	for _, item := range s.items {
		if item.CollectionID == collectionID {
			out = append(out, item.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Ctime != out[j].Ctime {
			return out[i].Ctime < out[j].Ctime
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
