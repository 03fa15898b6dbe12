package workspaces

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inlock-ai/ragserver/internal/connectors"
	apperrors "github.com/inlock-ai/ragserver/internal/errors"
	"github.com/inlock-ai/ragserver/internal/ingestion"
	"github.com/inlock-ai/ragserver/internal/store"
)

type fakeRepo struct {
	workspaces map[string]*store.Workspace
	sources    []store.DataSource
	created    *store.DataSource
}

func (f *fakeRepo) GetWorkspace(_ context.Context, id string) (*store.Workspace, error) {
	ws, ok := f.workspaces[id]
	if !ok {
		return nil, apperrors.NewNotFound("workspace", id)
	}

	return ws, nil
}

func (f *fakeRepo) CreateDataSource(_ context.Context, src *store.DataSource) error {
	src.ID = "src-new"
	f.created = src

	return nil
}

func (f *fakeRepo) ListDataSources(_ context.Context, _ string) ([]store.DataSource, error) {
	return f.sources, nil
}

type fakeIngestor struct {
	result       ingestion.Result
	err          error
	gotWorkspace string
	gotSource    string
}

func (f *fakeIngestor) IngestDataSource(_ context.Context, workspaceID, dataSourceID string, _ int) (ingestion.Result, error) {
	f.gotWorkspace = workspaceID
	f.gotSource = dataSourceID

	return f.result, f.err
}

type strictConnector struct{}

func (strictConnector) Type() string { return "filesystem" }

func (strictConnector) ValidateConfig(config json.RawMessage) error {
	var cfg struct {
		Path string `json:"path"`
	}

	if err := json.Unmarshal(config, &cfg); err != nil {
		return err
	}

	if cfg.Path == "" {
		return errors.New("path is required")
	}

	return nil
}

func (strictConnector) ListFiles(_ context.Context, _ json.RawMessage, _ string) ([]connectors.FileObject, error) {
	return nil, nil
}

func (strictConnector) GetFileContent(_ context.Context, _ json.RawMessage, _ string) ([]byte, error) {
	return nil, nil
}

func setupRouter(repo *fakeRepo, ing Ingestor) *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	v1 := router.Group("/api/v1")
	RegisterRoutes(v1, repo, connectors.NewRegistry(strictConnector{}), ing)

	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w
}

func knownWorkspace() *fakeRepo {
	return &fakeRepo{workspaces: map[string]*store.Workspace{
		"ws-1": {ID: "ws-1", Name: "Acme"},
	}}
}

func TestCreateDataSource(t *testing.T) {
	repo := knownWorkspace()
	router := setupRouter(repo, &fakeIngestor{})

	w := doJSON(t, router, http.MethodPost, "/api/v1/workspaces/ws-1/data-sources",
		`{"name":"docs","type":"filesystem","config":{"path":"/data/docs"}}`)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.NotNil(t, repo.created)
	assert.Equal(t, "ws-1", repo.created.WorkspaceID)
	assert.Equal(t, "filesystem", repo.created.Type)
}

func TestCreateDataSourceUnknownType(t *testing.T) {
	router := setupRouter(knownWorkspace(), &fakeIngestor{})

	w := doJSON(t, router, http.MethodPost, "/api/v1/workspaces/ws-1/data-sources",
		`{"name":"docs","type":"gdrive","config":{"path":"/x"}}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "unsupported connector type")
}

func TestCreateDataSourceInvalidConfig(t *testing.T) {
	router := setupRouter(knownWorkspace(), &fakeIngestor{})

	w := doJSON(t, router, http.MethodPost, "/api/v1/workspaces/ws-1/data-sources",
		`{"name":"docs","type":"filesystem","config":{}}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateDataSourceMissingWorkspace(t *testing.T) {
	router := setupRouter(&fakeRepo{workspaces: map[string]*store.Workspace{}}, &fakeIngestor{})

	w := doJSON(t, router, http.MethodPost, "/api/v1/workspaces/nope/data-sources",
		`{"name":"docs","type":"filesystem","config":{"path":"/x"}}`)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListDataSources(t *testing.T) {
	repo := knownWorkspace()
	repo.sources = []store.DataSource{{ID: "s1", WorkspaceID: "ws-1", Name: "docs", Type: "filesystem"}}

	w := doJSON(t, setupRouter(repo, &fakeIngestor{}), http.MethodGet, "/api/v1/workspaces/ws-1/data-sources", "")

	require.Equal(t, http.StatusOK, w.Code)

	var got []store.DataSource
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "s1", got[0].ID)
}

func TestListDataSourcesEmptyArray(t *testing.T) {
	w := doJSON(t, setupRouter(knownWorkspace(), &fakeIngestor{}), http.MethodGet, "/api/v1/workspaces/ws-1/data-sources", "")

	require.Equal(t, http.StatusOK, w.Code)
	// empty listing is [], not null
	assert.Equal(t, "[]", strings.TrimSpace(w.Body.String()))
}

func TestIngest(t *testing.T) {
	ing := &fakeIngestor{result: ingestion.Result{Ingested: 3, Failed: 1}}

	w := doJSON(t, setupRouter(knownWorkspace(), ing), http.MethodPost, "/api/v1/workspaces/ws-1/ingest",
		`{"dataSourceId":"src-1"}`)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "ws-1", ing.gotWorkspace)
	assert.Equal(t, "src-1", ing.gotSource)

	var resp IngestResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Ingested)
	assert.Equal(t, 1, resp.Failed)
	assert.Equal(t, "Ingested 3 documents", resp.Message)
}

func TestIngestMissingDataSource(t *testing.T) {
	ing := &fakeIngestor{err: apperrors.NewNotFound("data source", "src-1")}

	w := doJSON(t, setupRouter(knownWorkspace(), ing), http.MethodPost, "/api/v1/workspaces/ws-1/ingest",
		`{"dataSourceId":"src-1"}`)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestIngestValidation(t *testing.T) {
	w := doJSON(t, setupRouter(knownWorkspace(), &fakeIngestor{}), http.MethodPost, "/api/v1/workspaces/ws-1/ingest", `{}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
