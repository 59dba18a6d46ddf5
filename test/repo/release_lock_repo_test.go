package repo_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pagemill/pagemill/internal/model"
	appErr "github.com/pagemill/pagemill/internal/pkg/errors"
	"github.com/pagemill/pagemill/internal/pkg/timeutil"
	"github.com/pagemill/pagemill/internal/repo"
	"github.com/pagemill/pagemill/test/testutil"
)

func TestReleaseRepoCreateAndList(t *testing.T) {
	db, cleanup := testutil.OpenTestDB(t)
	defer cleanup()
	ctx := context.Background()

	releases := repo.NewReleaseRepo(db)
	collectionID := uuid.NewString()

	first := &model.Release{ID: uuid.NewString(), CollectionID: collectionID, Name: "2024-Q1", CreatorID: "tester", Ctime: timeutil.NowUnix()}
	require.NoError(t, releases.Create(ctx, first))

	dup := &model.Release{ID: uuid.NewString(), CollectionID: collectionID, Name: "2024-Q1", CreatorID: "tester", Ctime: timeutil.NowUnix()}
	require.ErrorIs(t, releases.Create(ctx, dup), appErr.ErrDuplicateRelease)

	second := &model.Release{ID: uuid.NewString(), CollectionID: collectionID, Name: "2024-Q2", CreatorID: "tester", Ctime: timeutil.NowUnix() + 1}
	require.NoError(t, releases.Create(ctx, second))

	exists, err := releases.Exists(ctx, collectionID, "2024-Q1")
	require.NoError(t, err)
	require.True(t, exists)
	exists, err = releases.Exists(ctx, collectionID, "2024-Q3")
	require.NoError(t, err)
	require.False(t, exists)

	got, err := releases.Get(ctx, collectionID, "2024-Q2")
	require.NoError(t, err)
	require.Equal(t, second.ID, got.ID)
	_, err = releases.Get(ctx, collectionID, "2024-Q3")
	require.ErrorIs(t, err, appErr.ErrNotFound)

	listed, err := releases.List(ctx, collectionID)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	require.Equal(t, "2024-Q1", listed[0].Name)
	require.Equal(t, "2024-Q2", listed[1].Name)
}

func TestLockRepoAcquireReleaseExpire(t *testing.T) {
	db, cleanup := testutil.OpenTestDB(t)
	defer cleanup()
	ctx := context.Background()

	locks := repo.NewLockRepo(db)
	contentID := uuid.NewString()
	now := timeutil.NowUnix()

	require.NoError(t, locks.Acquire(ctx, &model.ContentLock{ContentID: contentID, OwnerID: "alice", Ctime: now, ExpiresAt: now + 60}))

	// A live lock blocks other owners but not its holder.
	err := locks.Acquire(ctx, &model.ContentLock{ContentID: contentID, OwnerID: "bob", Ctime: now + 1, ExpiresAt: now + 61})
	require.ErrorIs(t, err, appErr.ErrLocked)
	require.NoError(t, locks.Acquire(ctx, &model.ContentLock{ContentID: contentID, OwnerID: "alice", Ctime: now + 2, ExpiresAt: now + 120}))

	got, err := locks.Get(ctx, contentID)
	require.NoError(t, err)
	require.Equal(t, "alice", got.OwnerID)
	require.Equal(t, now+120, got.ExpiresAt)

	// Expired locks can be stolen.
	require.NoError(t, locks.Acquire(ctx, &model.ContentLock{ContentID: contentID, OwnerID: "bob", Ctime: now + 200, ExpiresAt: now + 260}))
	got, err = locks.Get(ctx, contentID)
	require.NoError(t, err)
	require.Equal(t, "bob", got.OwnerID)

	require.ErrorIs(t, locks.Release(ctx, contentID, "alice"), appErr.ErrNotFound)
	require.NoError(t, locks.Release(ctx, contentID, "bob"))
	_, err = locks.Get(ctx, contentID)
	require.ErrorIs(t, err, appErr.ErrNotFound)

	require.NoError(t, locks.Acquire(ctx, &model.ContentLock{ContentID: contentID, OwnerID: "alice", Ctime: now, ExpiresAt: now + 10}))
	removed, err := locks.DeleteExpired(ctx, now+10)
	require.NoError(t, err)
	require.GreaterOrEqual(t, removed, int64(1))
	_, err = locks.Get(ctx, contentID)
	require.ErrorIs(t, err, appErr.ErrNotFound)
}
