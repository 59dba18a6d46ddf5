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

func newVersion(contentID string, number int, release string) *model.Version {
	return &model.Version{
		ID:            uuid.NewString(),
		ContentID:     contentID,
		VersionNumber: number,
		Snapshot: model.Snapshot{
			Title:  "title",
			Status: model.ContentStatusDraft,
			Elements: []model.Element{
				{ID: "a", Type: model.ElementText, Order: 0},
			},
		},
		Release:   release,
		CreatorID: "tester",
		Ctime:     timeutil.NowUnix(),
	}
}

func TestVersionRepoAppendAndLookup(t *testing.T) {
	db, cleanup := testutil.OpenTestDB(t)
	defer cleanup()
	ctx := context.Background()

	versions := repo.NewVersionRepo(db)
	contentID := uuid.NewString()
	defer func() { _ = versions.DeleteByContent(ctx, contentID) }()

	_, err := versions.Latest(ctx, contentID)
	require.ErrorIs(t, err, appErr.ErrNotFound)

	require.NoError(t, versions.Append(ctx, newVersion(contentID, 1, "")))
	require.NoError(t, versions.Append(ctx, newVersion(contentID, 2, "2024-Q1")))

	// The unique index turns a duplicate number into a conflict.
	err = versions.Append(ctx, newVersion(contentID, 2, ""))
	require.ErrorIs(t, err, appErr.ErrVersionConflict)

	latest, err := versions.Latest(ctx, contentID)
	require.NoError(t, err)
	require.Equal(t, 2, latest.VersionNumber)
	require.Equal(t, "2024-Q1", latest.Release)
	require.Len(t, latest.Snapshot.Elements, 1)

	got, err := versions.Get(ctx, contentID, 1)
	require.NoError(t, err)
	require.Equal(t, 1, got.VersionNumber)
	_, err = versions.Get(ctx, contentID, 99)
	require.ErrorIs(t, err, appErr.ErrNotFound)

	history, err := versions.History(ctx, contentID, 0)
	require.NoError(t, err)
	require.Len(t, history, 2)
	require.Equal(t, 2, history[0].VersionNumber)
	require.Equal(t, "title", history[0].Title)

	limited, err := versions.History(ctx, contentID, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	require.Equal(t, 2, limited[0].VersionNumber)
}

func TestVersionRepoMarkAndPurge(t *testing.T) {
	db, cleanup := testutil.OpenTestDB(t)
	defer cleanup()
	ctx := context.Background()

	versions := repo.NewVersionRepo(db)
	contentID := uuid.NewString()
	defer func() { _ = versions.DeleteByContent(ctx, contentID) }()

	_, err := versions.MarkLatestReleaseEnd(ctx, contentID)
	require.ErrorIs(t, err, appErr.ErrNotFound)

	require.NoError(t, versions.Append(ctx, newVersion(contentID, 1, "")))
	require.NoError(t, versions.Append(ctx, newVersion(contentID, 2, "")))
	marked, err := versions.MarkLatestReleaseEnd(ctx, contentID)
	require.NoError(t, err)
	require.Equal(t, 2, marked.VersionNumber)
	require.True(t, marked.IsReleaseEnd)

	// Marking again is a harmless repeat.
	marked, err = versions.MarkLatestReleaseEnd(ctx, contentID)
	require.NoError(t, err)
	require.Equal(t, 2, marked.VersionNumber)

	require.NoError(t, versions.Append(ctx, newVersion(contentID, 3, "r1")))
	require.NoError(t, versions.Append(ctx, newVersion(contentID, 4, "r1")))
	require.NoError(t, versions.Append(ctx, newVersion(contentID, 5, "r1")))

	count, err := versions.CountPurgeable(ctx, contentID)
	require.NoError(t, err)
	require.Equal(t, int64(3), count)

	deleted, err := versions.PurgeIntermediate(ctx, contentID)
	require.NoError(t, err)
	require.Equal(t, count, deleted)

	history, err := versions.History(ctx, contentID, 0)
	require.NoError(t, err)
	numbers := make([]int, 0, len(history))
	for _, h := range history {
		numbers = append(numbers, h.VersionNumber)
	}
	require.Equal(t, []int{5, 2}, numbers)

	latest, err := versions.Latest(ctx, contentID)
	require.NoError(t, err)
	require.Equal(t, 5, latest.VersionNumber)
}
