package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/xxxsen/common/webapi"

	"github.com/pagemill/pagemill/internal/config"
	"github.com/pagemill/pagemill/internal/filestore"
	"github.com/pagemill/pagemill/internal/handler"
	"github.com/pagemill/pagemill/internal/middleware"
	"github.com/pagemill/pagemill/internal/pkg/jwt"
	"github.com/pagemill/pagemill/internal/service"
	"github.com/pagemill/pagemill/internal/store/memstore"
)

type apiEnvelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

func setupRouter(t *testing.T) (http.Handler, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	collectionStore := memstore.NewCollectionStore()
	contentStore := memstore.NewContentStore()
	versionStore := memstore.NewVersionStore()
	releaseStore := memstore.NewReleaseStore()
	lockStore := memstore.NewLockStore()

	releaseService := service.NewReleaseService(releaseStore, collectionStore, contentStore, versionStore, 16, time.Minute)
	contentService := service.NewContentService(contentStore, versionStore, collectionStore, lockStore, releaseService)
	collectionService := service.NewCollectionService(collectionStore)
	lockService := service.NewLockService(lockStore, 300)

	store, err := filestore.New(config.FileStoreConfig{
		Type: "local",
		Data: map[string]interface{}{
			"dir": t.TempDir(),
		},
	})
	require.NoError(t, err)
	exportService := service.NewExportService(releaseService, store)

	jwtSecret := []byte("test-secret")
	deps := handler.RouterDeps{
		Collections: handler.NewCollectionHandler(collectionService),
		Contents:    handler.NewContentHandler(contentService),
		Versions:    handler.NewVersionHandler(contentService, 50),
		Releases:    handler.NewReleaseHandler(releaseService),
		Locks:       handler.NewLockHandler(lockService),
		Export:      handler.NewExportHandler(exportService),
		JWTSecret:   jwtSecret,
	}

	engine, err := webapi.NewEngine(
		"/api/v1",
		"",
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.CORS(nil),
		),
	)
	require.NoError(t, err)

	token, err := jwt.GenerateToken("user-1", "alice", jwtSecret, time.Hour)
	require.NoError(t, err)
	return engine, token
}

func doRequest(t *testing.T, router http.Handler, token, method, path string, body interface{}) *apiEnvelope {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code)
	var envelope apiEnvelope
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	return &envelope
}

func decodeData(t *testing.T, envelope *apiEnvelope, out interface{}) {
	t.Helper()
	require.Equal(t, 0, envelope.Code, "unexpected error: %s", envelope.Msg)
	require.NoError(t, json.Unmarshal(envelope.Data, out))
}
