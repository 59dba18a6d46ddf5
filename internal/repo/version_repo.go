package repo

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/didi/gendry/builder"

	"github.com/pagemill/pagemill/internal/model"
	"github.com/pagemill/pagemill/internal/pkg/dbutil"
	appErr "github.com/pagemill/pagemill/internal/pkg/errors"
)

type VersionRepo struct {
	db *sql.DB
}

func NewVersionRepo(db *sql.DB) *VersionRepo {
	return &VersionRepo{db: db}
}

var versionColumns = []string{"id", "content_id", "version_number", "title", "snapshot_json", "change_note", "release_tag", "is_release_end", "creator_id", "ctime"}

func (r *VersionRepo) Append(ctx context.Context, version *model.Version) error {
	snapshotJSON, _ := json.Marshal(version.Snapshot)
	data := map[string]interface{}{
		"id":             version.ID,
		"content_id":     version.ContentID,
		"version_number": version.VersionNumber,
		"title":          version.Snapshot.Title,
		"snapshot_json":  string(snapshotJSON),
		"change_note":    version.ChangeNote,
		"release_tag":    version.Release,
		"is_release_end": version.IsReleaseEnd,
		"creator_id":     version.CreatorID,
		"ctime":          version.Ctime,
	}
	sqlStr, args, err := builder.BuildInsert("content_versions", []map[string]interface{}{data})
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		// The unique (content_id, version_number) index is what turns a
		// lost append race into a retryable conflict.
		if dbutil.IsConflict(err) {
			return appErr.ErrVersionConflict
		}
		return err
	}
	return nil
}

func (r *VersionRepo) Get(ctx context.Context, contentID string, number int) (*model.Version, error) {
	where := map[string]interface{}{
		"content_id":     contentID,
		"version_number": number,
	}
	sqlStr, args, err := builder.BuildSelect("content_versions", where, versionColumns)
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
	return scanVersion(rows)
}

func (r *VersionRepo) Latest(ctx context.Context, contentID string) (*model.Version, error) {
	where := map[string]interface{}{
		"content_id": contentID,
		"_orderby":   "version_number desc",
		"_limit":     []uint{0, 1},
	}
	sqlStr, args, err := builder.BuildSelect("content_versions", where, versionColumns)
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
	return scanVersion(rows)
}

func (r *VersionRepo) History(ctx context.Context, contentID string, limit int) ([]*model.VersionSummary, error) {
	where := map[string]interface{}{
		"content_id": contentID,
		"_orderby":   "version_number desc",
	}
	if limit > 0 {
		where["_limit"] = []uint{0, uint(limit)}
	}
	sqlStr, args, err := builder.BuildSelect("content_versions", where, []string{"id", "content_id", "version_number", "title", "change_note", "release_tag", "is_release_end", "creator_id", "ctime"})
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	summaries := make([]*model.VersionSummary, 0)
	for rows.Next() {
		var s model.VersionSummary
		if err := rows.Scan(&s.ID, &s.ContentID, &s.VersionNumber, &s.Title, &s.ChangeNote, &s.Release, &s.IsReleaseEnd, &s.CreatorID, &s.Ctime); err != nil {
			return nil, err
		}
		summaries = append(summaries, &s)
	}
	return summaries, rows.Err()
}

func (r *VersionRepo) MarkLatestReleaseEnd(ctx context.Context, contentID string) (*model.Version, error) {
	sqlStr := `
		UPDATE content_versions
		SET is_release_end = TRUE
		WHERE content_id = $1
		  AND version_number = (
			SELECT MAX(version_number)
			FROM content_versions
			WHERE content_id = $2
		  )
	`
	result, err := r.db.ExecContext(ctx, sqlStr, contentID, contentID)
	if err != nil {
		return nil, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, appErr.ErrNotFound
	}
	return r.Latest(ctx, contentID)
}

// PurgeIntermediate runs as one set-subtraction delete so a failure can
// never leave the latest version or a release end half-removed.
func (r *VersionRepo) PurgeIntermediate(ctx context.Context, contentID string) (int64, error) {
	sqlStr := `
		DELETE FROM content_versions
		WHERE content_id = $1
		  AND is_release_end = FALSE
		  AND version_number <> (
			SELECT MAX(version_number)
			FROM content_versions
			WHERE content_id = $2
		  )
	`
	result, err := r.db.ExecContext(ctx, sqlStr, contentID, contentID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *VersionRepo) CountPurgeable(ctx context.Context, contentID string) (int64, error) {
	sqlStr := `
		SELECT COUNT(*)
		FROM content_versions
		WHERE content_id = $1
		  AND is_release_end = FALSE
		  AND version_number <> (
			SELECT MAX(version_number)
			FROM content_versions
			WHERE content_id = $2
		  )
	`
	rows, err := r.db.QueryContext(ctx, sqlStr, contentID, contentID)
	if err != nil {
		return 0, err
	}
	defer func() { _ = rows.Close() }()
	if !rows.Next() {
		return 0, rows.Err()
	}
	var count int64
	if err := rows.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *VersionRepo) DeleteByContent(ctx context.Context, contentID string) error {
	where := map[string]interface{}{
		"content_id": contentID,
	}
	sqlStr, args, err := builder.BuildDelete("content_versions", where)
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

func scanVersion(rows *sql.Rows) (*model.Version, error) {
	var v model.Version
	var title string
	var snapshotJSON string
	if err := rows.Scan(&v.ID, &v.ContentID, &v.VersionNumber, &title, &snapshotJSON, &v.ChangeNote, &v.Release, &v.IsReleaseEnd, &v.CreatorID, &v.Ctime); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(snapshotJSON), &v.Snapshot); err != nil {
		return nil, err
	}
	return &v, nil
}
