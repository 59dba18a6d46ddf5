package memstore

import (
	"context"
	"sync"

	"github.com/pagemill/pagemill/internal/model"
	"github.com/pagemill/pagemill/internal/pkg/errors"
)

type LockStore struct {
	mu    sync.Mutex
	items map[string]*model.ContentLock
}

func NewLockStore() *LockStore {
	return &LockStore{items: make(map[string]*model.ContentLock)}
}

func (s *LockStore) Acquire(_ context.Context, lock *model.ContentLock) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.items[lock.ContentID]
	if ok && current.OwnerID != lock.OwnerID && !current.ExpiredAt(lock.Ctime) {
		return errors.ErrLocked
	}
	cp := *lock
	s.items[lock.ContentID] = &cp
	return nil
}

func (s *LockStore) Get(_ context.Context, contentID string) (*model.ContentLock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.items[contentID]
	if !ok {
		return nil, errors.ErrNotFound
	}
	cp := *lock
	return &cp, nil
}

func (s *LockStore) Release(_ context.Context, contentID string, ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.items[contentID]
	if !ok || lock.OwnerID != ownerID {
		return errors.ErrNotFound
	}
	delete(s.items, contentID)
	return nil
}

func (s *LockStore) DeleteExpired(_ context.Context, now int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var removed int64
	for id, lock := range s.items {
		if lock.ExpiredAt(now) {
			delete(s.items, id)
			removed++
		}
	}
	return removed, nil
}
