// Package store declares the persistence boundary of the engine. Two
// implementations exist: the postgres repos under internal/repo and an
// in-memory store under memstore used by tests and single-binary runs.
//
// Every implementation maps a missing record to errors.ErrNotFound, a
// (content_id, version_number) collision to errors.ErrVersionConflict,
// a (collection_id, name) release collision to errors.ErrDuplicateRelease
// and a live foreign lock to errors.ErrLocked.
package store

import (
	"context"

	"github.com/pagemill/pagemill/internal/model"
)

type CollectionStore interface {
	Create(ctx context.Context, collection *model.Collection) error
	Get(ctx context.Context, id string) (*model.Collection, error)
	List(ctx context.Context) ([]*model.Collection, error)
	Delete(ctx context.Context, id string) error
}

type ContentStore interface {
	Create(ctx context.Context, content *model.Content) error
	Get(ctx context.Context, id string) (*model.Content, error)
	Update(ctx context.Context, content *model.Content) error
	Delete(ctx context.Context, id string) error
	ListByCollection(ctx context.Context, collectionID string) ([]*model.Content, error)
}

// VersionStore is the append-only history log. Versions are never
// updated after insert except for the IsReleaseEnd flag, and are only
// deleted by PurgeIntermediate or DeleteByContent.
type VersionStore interface {
	// Append inserts a fully populated version row. A duplicate
	// (content_id, version_number) pair fails with ErrVersionConflict;
	// the caller re-reads the latest number and retries if it wants to.
	Append(ctx context.Context, version *model.Version) error
	Get(ctx context.Context, contentID string, number int) (*model.Version, error)
	Latest(ctx context.Context, contentID string) (*model.Version, error)
	// History lists version summaries newest first. A non-positive
	// limit means no limit.
	History(ctx context.Context, contentID string, limit int) ([]*model.VersionSummary, error)
	// MarkLatestReleaseEnd flags the newest version as a release
	// boundary and returns it. Re-marking an already flagged version is
	// a harmless repeat. No versions at all reports ErrNotFound.
	MarkLatestReleaseEnd(ctx context.Context, contentID string) (*model.Version, error)
	// PurgeIntermediate deletes every version except the newest one and
	// all release ends, as one atomic set subtraction, and returns the
	// number of rows removed.
	PurgeIntermediate(ctx context.Context, contentID string) (int64, error)
	// CountPurgeable reports how many rows PurgeIntermediate would
	// delete, without deleting them.
	CountPurgeable(ctx context.Context, contentID string) (int64, error)
	DeleteByContent(ctx context.Context, contentID string) error
}

type ReleaseStore interface {
	// Create appends a release checkpoint. A name collision within the
	// collection fails with ErrDuplicateRelease before any state change.
	Create(ctx context.Context, release *model.Release) error
	Get(ctx context.Context, collectionID string, name string) (*model.Release, error)
	// List returns the collection's releases in creation order, oldest
	// first.
	List(ctx context.Context, collectionID string) ([]*model.Release, error)
	Exists(ctx context.Context, collectionID string, name string) (bool, error)
}

// LockStore hands out advisory edit locks, one per content item.
type LockStore interface {
	// Acquire claims the lock in a single atomic step. It succeeds when
	// the slot is free, expired, or already held by the same owner, and
	// fails with ErrLocked while another owner holds a live lock.
	// lock.Ctime is used as the acquisition time.
	Acquire(ctx context.Context, lock *model.ContentLock) error
	Get(ctx context.Context, contentID string) (*model.ContentLock, error)
	// Release drops the lock when held by ownerID. Releasing a lock that
	// is absent or owned by someone else reports ErrNotFound.
	Release(ctx context.Context, contentID string, ownerID string) error
	// DeleteExpired removes every lock whose expiry is at or before the
	// given unix time and returns how many were removed.
	DeleteExpired(ctx context.Context, now int64) (int64, error)
}
