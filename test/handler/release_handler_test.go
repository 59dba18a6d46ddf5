package handler_test

import (
	"archive/zip"
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pagemill/pagemill/internal/model"
	"github.com/pagemill/pagemill/internal/pkg/errcode"
)

func TestReleaseEndpoints(t *testing.T) {
	router, token := setupRouter(t)

	collection := createCollection(t, router, token, "docs")
	content := createContent(t, router, token, collection.ID, map[string]interface{}{
		"title":    "Article",
		"slug":     "article",
		"elements": []map[string]interface{}{{"id": "intro", "type": "text", "order": 0, "data": map[string]string{"text": "v1"}}},
	})

	envelope := doRequest(t, router, token, http.MethodPost, "/api/v1/collections/"+collection.ID+"/releases",
		map[string]interface{}{"name": "2024-Q1"})
	var release model.Release
	decodeData(t, envelope, &release)
	require.Equal(t, "2024-Q1", release.Name)
	require.Equal(t, "user-1", release.CreatorID)

	envelope = doRequest(t, router, token, http.MethodPost, "/api/v1/collections/"+collection.ID+"/releases",
		map[string]interface{}{"name": "2024-Q1"})
	require.Equal(t, errcode.ErrDuplicateRelease, envelope.Code)

	envelope = doRequest(t, router, token, http.MethodPut, "/api/v1/contents/"+content.ID, map[string]interface{}{
		"title":    "Article",
		"slug":     "article",
		"elements": []map[string]interface{}{{"id": "intro", "type": "text", "order": 0, "data": map[string]string{"text": "v2"}}},
	})
	require.Equal(t, 0, envelope.Code)

	envelope = doRequest(t, router, token, http.MethodGet, "/api/v1/collections/"+collection.ID+"/releases", nil)
	var releases []*model.Release
	decodeData(t, envelope, &releases)
	require.Len(t, releases, 1)

	envelope = doRequest(t, router, token, http.MethodGet, "/api/v1/collections/"+collection.ID+"/releases/2024-Q1", nil)
	decodeData(t, envelope, &release)
	require.Equal(t, "2024-Q1", release.Name)

	envelope = doRequest(t, router, token, http.MethodGet, "/api/v1/collections/"+collection.ID+"/releases/2024-Q1/contents", nil)
	var resolved []*model.Version
	decodeData(t, envelope, &resolved)
	require.Len(t, resolved, 1)
	require.Equal(t, 2, resolved[0].VersionNumber)

	envelope = doRequest(t, router, token, http.MethodGet, "/api/v1/contents/"+content.ID+"/at/2024-Q1", nil)
	var atRelease model.Version
	decodeData(t, envelope, &atRelease)
	require.Equal(t, 2, atRelease.VersionNumber)
	require.JSONEq(t, `{"text":"v2"}`, string(atRelease.Snapshot.Elements[0].Data))

	envelope = doRequest(t, router, token, http.MethodGet, "/api/v1/contents/"+content.ID+"/at/2024-Q9", nil)
	require.Equal(t, errcode.ErrNotFound, envelope.Code)
}

func TestExportEndpoints(t *testing.T) {
	router, token := setupRouter(t)

	collection := createCollection(t, router, token, "docs")
	createContent(t, router, token, collection.ID, map[string]interface{}{
		"title":    "Guide",
		"slug":     "guide",
		"elements": []map[string]interface{}{{"id": "intro", "type": "text", "order": 0, "data": map[string]string{"text": "# Hi"}}},
	})
	envelope := doRequest(t, router, token, http.MethodPost, "/api/v1/collections/"+collection.ID+"/releases",
		map[string]interface{}{"name": "r1", "copy_contents": true})
	require.Equal(t, 0, envelope.Code)

	envelope = doRequest(t, router, token, http.MethodPost, "/api/v1/collections/"+collection.ID+"/releases/r1/export", nil)
	var export struct {
		Key string `json:"key"`
	}
	decodeData(t, envelope, &export)
	require.NotEmpty(t, export.Key)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/exports/"+export.Key, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, "application/zip", resp.Header().Get("Content-Type"))

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	archive, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	require.NoError(t, err)
	names := make([]string, 0, len(archive.File))
	for _, file := range archive.File {
		names = append(names, file.Name)
	}
	require.Contains(t, names, "guide.html")
	require.Contains(t, names, "guide.json")
}
