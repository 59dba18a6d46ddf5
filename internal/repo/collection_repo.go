package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/pagemill/pagemill/internal/model"
	"github.com/pagemill/pagemill/internal/pkg/dbutil"
	appErr "github.com/pagemill/pagemill/internal/pkg/errors"
)

type CollectionRepo struct {
	db *sql.DB
}

func NewCollectionRepo(db *sql.DB) *CollectionRepo {
	return &CollectionRepo{db: db}
}

func (r *CollectionRepo) Create(ctx context.Context, collection *model.Collection) error {
	data := map[string]interface{}{
		"id":    collection.ID,
		"name":  collection.Name,
		"ctime": collection.Ctime,
	}
	sqlStr, args, err := builder.BuildInsert("collections", []map[string]interface{}{data})
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		if dbutil.IsConflict(err) {
			return appErr.ErrConflict
		}
		return err
	}
	return nil
}

func (r *CollectionRepo) Get(ctx context.Context, id string) (*model.Collection, error) {
	where := map[string]interface{}{
		"id": id,
	}
	sqlStr, args, err := builder.BuildSelect("collections", where, []string{"id", "name", "ctime"})
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
	var collection model.Collection
	if err := rows.Scan(&collection.ID, &collection.Name, &collection.Ctime); err != nil {
		return nil, err
	}
	return &collection, nil
}

func (r *CollectionRepo) List(ctx context.Context) ([]*model.Collection, error) {
	where := map[string]interface{}{
		"_orderby": "ctime asc, id asc",
	}
	sqlStr, args, err := builder.BuildSelect("collections", where, []string{"id", "name", "ctime"})
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	collections := make([]*model.Collection, 0)
	for rows.Next() {
		var collection model.Collection
		if err := rows.Scan(&collection.ID, &collection.Name, &collection.Ctime); err != nil {
			return nil, err
		}
		collections = append(collections, &collection)
	}
	return collections, rows.Err()
}

func (r *CollectionRepo) Delete(ctx context.Context, id string) error {
	where := map[string]interface{}{
		"id": id,
	}
	sqlStr, args, err := builder.BuildDelete("collections", where)
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
