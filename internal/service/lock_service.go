package service

import (
	"context"

	"github.com/pagemill/pagemill/internal/model"
	appErr "github.com/pagemill/pagemill/internal/pkg/errors"
	"github.com/pagemill/pagemill/internal/pkg/timeutil"
	"github.com/pagemill/pagemill/internal/store"
)

// LockService hands out time-limited edit locks on content items. Acquiring
// is first writer wins; the holder refreshes by acquiring again, and an
// expired lock is up for grabs without a sweep having run.
type LockService struct {
	locks      store.LockStore
	ttlSeconds int64
}

func NewLockService(locks store.LockStore, ttlSeconds int64) *LockService {
	return &LockService{locks: locks, ttlSeconds: ttlSeconds}
}

func (s *LockService) Acquire(ctx context.Context, contentID string, ownerID string) (*model.ContentLock, error) {
	if contentID == "" || ownerID == "" {
		return nil, appErr.ErrInvalid
	}
	now := timeutil.NowUnix()
	lock := &model.ContentLock{
		ContentID: contentID,
		OwnerID:   ownerID,
		Ctime:     now,
		ExpiresAt: now + s.ttlSeconds,
	}
	if err := s.locks.Acquire(ctx, lock); err != nil {
		return nil, err
	}
	return lock, nil
}

// Get reports the live lock on a content item. An expired row reads as no
// lock at all.
func (s *LockService) Get(ctx context.Context, contentID string) (*model.ContentLock, error) {
	lock, err := s.locks.Get(ctx, contentID)
	if err != nil {
		return nil, err
	}
	if lock.ExpiredAt(timeutil.NowUnix()) {
		return nil, appErr.ErrNotFound
	}
	return lock, nil
}

func (s *LockService) Release(ctx context.Context, contentID string, ownerID string) error {
	return s.locks.Release(ctx, contentID, ownerID)
}

// SweepExpired clears expired lock rows and returns how many went away.
func (s *LockService) SweepExpired(ctx context.Context) (int64, error) {
	return s.locks.DeleteExpired(ctx, timeutil.NowUnix())
}
