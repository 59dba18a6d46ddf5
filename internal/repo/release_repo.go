package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/pagemill/pagemill/internal/model"
	"github.com/pagemill/pagemill/internal/pkg/dbutil"
	appErr "github.com/pagemill/pagemill/internal/pkg/errors"
)

type ReleaseRepo struct {
	db *sql.DB
}

func NewReleaseRepo(db *sql.DB) *ReleaseRepo {
	return &ReleaseRepo{db: db}
}

var releaseColumns = []string{"id", "collection_id", "name", "creator_id", "ctime"}

func (r *ReleaseRepo) Create(ctx context.Context, release *model.Release) error {
	data := map[string]interface{}{
		"id":            release.ID,
		"collection_id": release.CollectionID,
		"name":          release.Name,
		"creator_id":    release.CreatorID,
		"ctime":         release.Ctime,
	}
	sqlStr, args, err := builder.BuildInsert("releases", []map[string]interface{}{data})
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		if dbutil.IsConflict(err) {
			return appErr.ErrDuplicateRelease
		}
		return err
	}
	return nil
}

func (r *ReleaseRepo) Get(ctx context.Context, collectionID string, name string) (*model.Release, error) {
	where := map[string]interface{}{
		"collection_id": collectionID,
		"name":          name,
	}
	sqlStr, args, err := builder.BuildSelect("releases", where, releaseColumns)
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
	var release model.Release
	if err := rows.Scan(&release.ID, &release.CollectionID, &release.Name, &release.CreatorID, &release.Ctime); err != nil {
		return nil, err
	}
	return &release, nil
}

func (r *ReleaseRepo) List(ctx context.Context, collectionID string) ([]*model.Release, error) {
	where := map[string]interface{}{
		"collection_id": collectionID,
		"_orderby":      "ctime asc, id asc",
	}
	sqlStr, args, err := builder.BuildSelect("releases", where, releaseColumns)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	releases := make([]*model.Release, 0)
	for rows.Next() {
		var release model.Release
		if err := rows.Scan(&release.ID, &release.CollectionID, &release.Name, &release.CreatorID, &release.Ctime); err != nil {
			return nil, err
		}
		releases = append(releases, &release)
	}
	return releases, rows.Err()
}

func (r *ReleaseRepo) Exists(ctx context.Context, collectionID string, name string) (bool, error) {
	where := map[string]interface{}{
		"collection_id": collectionID,
		"name":          name,
		"_limit":        []uint{0, 1},
	}
	sqlStr, args, err := builder.BuildSelect("releases", where, []string{"id"})
	if err != nil {
		return false, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return false, err
	}
	defer func() { _ = rows.Close() }()
	return rows.Next(), rows.Err()
}
