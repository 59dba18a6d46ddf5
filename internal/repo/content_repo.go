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

type ContentRepo struct {
	db *sql.DB
}

func NewContentRepo(db *sql.DB) *ContentRepo {
	return &ContentRepo{db: db}
}

var contentColumns = []string{"id", "collection_id", "title", "slug", "status", "editions_json", "elements_json", "metadata_json", "ctime", "mtime"}

func (r *ContentRepo) Create(ctx context.Context, content *model.Content) error {
	editionsJSON, _ := json.Marshal(content.Editions)
	elementsJSON, _ := json.Marshal(content.Elements)
	metadataJSON, _ := json.Marshal(content.Metadata)
	data := map[string]interface{}{
		"id":            content.ID,
		"collection_id": content.CollectionID,
		"title":         content.Title,
		"slug":          content.Slug,
		"status":        string(content.Status),
		"editions_json": string(editionsJSON),
		"elements_json": string(elementsJSON),
		"metadata_json": string(metadataJSON),
		"ctime":         content.Ctime,
		"mtime":         content.Mtime,
	}
	sqlStr, args, err := builder.BuildInsert("contents", []map[string]interface{}{data})
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

func (r *ContentRepo) Get(ctx context.Context, id string) (*model.Content, error) {
	where := map[string]interface{}{
		"id": id,
	}
	sqlStr, args, err := builder.BuildSelect("contents", where, contentColumns)
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
	return scanContent(rows)
}

func (r *ContentRepo) Update(ctx context.Context, content *model.Content) error {
	editionsJSON, _ := json.Marshal(content.Editions)
	elementsJSON, _ := json.Marshal(content.Elements)
	metadataJSON, _ := json.Marshal(content.Metadata)
	where := map[string]interface{}{
		"id": content.ID,
	}
	update := map[string]interface{}{
		"title":         content.Title,
		"slug":          content.Slug,
		"status":        string(content.Status),
		"editions_json": string(editionsJSON),
		"elements_json": string(elementsJSON),
		"metadata_json": string(metadataJSON),
		"mtime":         content.Mtime,
	}
	sqlStr, args, err := builder.BuildUpdate("contents", where, update)
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

func (r *ContentRepo) Delete(ctx context.Context, id string) error {
	where := map[string]interface{}{
		"id": id,
	}
	sqlStr, args, err := builder.BuildDelete("contents", where)
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

func (r *ContentRepo) ListByCollection(ctx context.Context, collectionID string) ([]*model.Content, error) {
	where := map[string]interface{}{
		"collection_id": collectionID,
		"_orderby":      "ctime asc, id asc",
	}
	sqlStr, args, err := builder.BuildSelect("contents", where, contentColumns)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	contents := make([]*model.Content, 0)
	for rows.Next() {
		content, err := scanContent(rows)
		if err != nil {
			return nil, err
		}
		contents = append(contents, content)
	}
	return contents, rows.Err()
}

func scanContent(rows *sql.Rows) (*model.Content, error) {
	var c model.Content
	var status string
	var editionsJSON, elementsJSON, metadataJSON string
	if err := rows.Scan(&c.ID, &c.CollectionID, &c.Title, &c.Slug, &status, &editionsJSON, &elementsJSON, &metadataJSON, &c.Ctime, &c.Mtime); err != nil {
		return nil, err
	}
	c.Status = model.ContentStatus(status)
	if err := json.Unmarshal([]byte(editionsJSON), &c.Editions); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(elementsJSON), &c.Elements); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(metadataJSON), &c.Metadata); err != nil {
		return nil, err
	}
	return &c, nil
}
