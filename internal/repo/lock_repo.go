package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/pagemill/pagemill/internal/model"
	"github.com/pagemill/pagemill/internal/pkg/dbutil"
	appErr "github.com/pagemill/pagemill/internal/pkg/errors"
)

type LockRepo struct {
	db *sql.DB
}

func NewLockRepo(db *sql.DB) *LockRepo {
	return &LockRepo{db: db}
}

// Acquire claims the lock in one statement: insert when free, steal
// when expired, refresh when already ours. Zero affected rows means a
// live lock held by someone else.
func (r *LockRepo) Acquire(ctx context.Context, lock *model.ContentLock) error {
	sqlStr := `
		INSERT INTO content_locks (content_id, owner_id, ctime, expires_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (content_id) DO UPDATE
		SET owner_id = EXCLUDED.owner_id, ctime = EXCLUDED.ctime, expires_at = EXCLUDED.expires_at
		WHERE content_locks.owner_id = EXCLUDED.owner_id
		   OR content_locks.expires_at <= EXCLUDED.ctime
	`
	result, err := r.db.ExecContext(ctx, sqlStr, lock.ContentID, lock.OwnerID, lock.Ctime, lock.ExpiresAt)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return appErr.ErrLocked
	}
	return nil
}

func (r *LockRepo) Get(ctx context.Context, contentID string) (*model.ContentLock, error) {
	where := map[string]interface{}{
		"content_id": contentID,
	}
	sqlStr, args, err := builder.BuildSelect("content_locks", where, []string{"content_id", "owner_id", "ctime", "expires_at"})
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	if !rows.Next() {
		return nil, appErr.ErrNotFound
	}
	var lock model.ContentLock
	if err := rows.Scan(&lock.ContentID, &lock.OwnerID, &lock.Ctime, &lock.ExpiresAt); err != nil {
		return nil, err
	}
	return &lock, nil
}

func (r *LockRepo) Release(ctx context.Context, contentID string, ownerID string) error {
	where := map[string]interface{}{
		"content_id": contentID,
		"owner_id":   ownerID,
	}
	sqlStr, args, err := builder.BuildDelete("content_locks", where)
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	result, err := r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return appErr.ErrNotFound
	}
	return nil
}

func (r *LockRepo) DeleteExpired(ctx context.Context, now int64) (int64, error) {
	where := map[string]interface{}{
		"expires_at <=": now,
	}
	sqlStr, args, err := builder.BuildDelete("content_locks", where)
	if err != nil {
		return 0, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	result, err := r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
