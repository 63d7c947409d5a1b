package releases_test

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"cardcommand/core/reconcile"
	storagemocks "cardcommand/core/storage/mocks"
	"cardcommand/core/upstream"
	"cardcommand/feature/releases"
	"cardcommand/feature/releases/mocks"

	"github.com/gofiber/fiber/v2"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestApp(t *testing.T, fetcher *mocks.Fetcher, backend *mocks.Backend) *fiber.App {
	t.Helper()
	svc := releases.NewService(fetcher, backend, newCache(), zap.NewNop())

	app := fiber.New()
	releases.NewHandler(svc, time.Second).RegisterRoutes(app)
	return app
}

func decode(t *testing.T, body io.Reader, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(body).Decode(v))
}

func TestHandleGetProducts(t *testing.T) {
	asOf := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	fetcher := new(mocks.Fetcher)
	fetcher.On("Fetch", mock.Anything, reconcile.Query{
		FromDate:   "2025-01-01",
		Categories: []string{"pokemon"},
		Status:     "released",
	}).Return(&reconcile.Result{
		Products: []reconcile.ReleaseProduct{{ID: "sv8-1", Name: "Pikachu", Category: "pokemon"}},
		AsOf:     &asOf,
		Source:   reconcile.SourceCatalog,
	}, nil)

	app := setupTestApp(t, fetcher, new(mocks.Backend))

	req := httptest.NewRequest("GET", "/releases/products?fromDate=2025-01-01&categories=pokemon,%20&status=released", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body releases.ProductsResponse
	decode(t, resp.Body, &body)
	assert.True(t, body.Success)
	require.Len(t, body.Data, 1)
	assert.Equal(t, "sv8-1", body.Data[0].ID)
	assert.Equal(t, reconcile.SourceCatalog, body.Meta.Source)
	assert.Equal(t, 1, body.Meta.Count)
	require.NotNil(t, body.Meta.AsOf)
	assert.True(t, asOf.Equal(*body.Meta.AsOf))
}

func TestHandleGetProducts_EmptyListIsNotNull(t *testing.T) {
	fetcher := new(mocks.Fetcher)
	fetcher.On("Fetch", mock.Anything, mock.Anything).Return(&reconcile.Result{Source: reconcile.SourceLegacy}, nil)

	app := setupTestApp(t, fetcher, new(mocks.Backend))

	resp, err := app.Test(httptest.NewRequest("GET", "/releases/products", nil))
	require.NoError(t, err)

	raw, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(raw), `"data":[]`)
}

func TestHandleGetProducts_UpstreamFailure(t *testing.T) {
	fetcher := new(mocks.Fetcher)
	fetcher.On("Fetch", mock.Anything, mock.Anything).Return(nil, &upstream.Error{
		Method: "GET", Path: "/releases/products", StatusCode: 503, Code: "MAINTENANCE", Message: "down for maintenance",
	})

	app := setupTestApp(t, fetcher, new(mocks.Backend))

	resp, err := app.Test(httptest.NewRequest("GET", "/releases/products", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)

	var body releases.ErrorResponse
	decode(t, resp.Body, &body)
	assert.False(t, body.Success)
	assert.Equal(t, "MAINTENANCE", body.Error.Code)
	assert.Contains(t, body.Error.Message, "down for maintenance")
}

func TestHandleGetChanges(t *testing.T) {
	backend := new(mocks.Backend)
	backend.On("ListReleaseChanges", mock.Anything, 3, "").Return([]upstream.ReleaseChange{{ID: "c1", Field: "msrp"}}, nil)

	app := setupTestApp(t, new(mocks.Fetcher), backend)

	resp, err := app.Test(httptest.NewRequest("GET", "/releases/changes?limit=3", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body releases.ChangesResponse
	decode(t, resp.Body, &body)
	require.Len(t, body.Data, 1)
	assert.Equal(t, "msrp", body.Data[0].Field)
}

func TestHandleSync(t *testing.T) {
	backend := new(mocks.Backend)
	backend.On("TriggerReleaseSync", mock.Anything).Return(&upstream.SyncResult{
		Message: "Sync complete",
		Counts:  map[string]int{"pokemon": 12, "mtg": 4},
	}, nil)

	app := setupTestApp(t, new(mocks.Fetcher), backend)

	resp, err := app.Test(httptest.NewRequest("POST", "/releases/sync", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body releases.SyncResponse
	decode(t, resp.Body, &body)
	assert.Equal(t, "Sync complete", body.Message)
	assert.Equal(t, map[string]int{"pokemon": 12, "mtg": 4}, body.Data)
}

func TestHandleSync_Failure(t *testing.T) {
	backend := new(mocks.Backend)
	backend.On("TriggerReleaseSync", mock.Anything).Return(nil, errors.New("connection refused"))

	app := setupTestApp(t, new(mocks.Fetcher), backend)

	resp, err := app.Test(httptest.NewRequest("POST", "/releases/sync", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)

	var body releases.ErrorResponse
	decode(t, resp.Body, &body)
	assert.Equal(t, "UPSTREAM_ERROR", body.Error.Code)
}

func TestHandleArchive_Disabled(t *testing.T) {
	app := setupTestApp(t, new(mocks.Fetcher), new(mocks.Backend))

	for _, req := range []struct{ method, path string }{
		{"POST", "/releases/archive"},
		{"GET", "/releases/archive/latest"},
	} {
		resp, err := app.Test(httptest.NewRequest(req.method, req.path, nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode, req.path)
	}
}


func TestHandleArchive(t *testing.T) {
	fetcher := new(mocks.Fetcher)
	fetcher.On("Fetch", mock.Anything, mock.Anything).Return(catalogResult("a", "b"), nil)

	store := new(storagemocks.Client)
	store.On("BucketExists", mock.Anything, "releases").Return(true, nil)
	store.On("PutObject", mock.Anything, "releases", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(minio.UploadInfo{}, nil)
	store.On("ListObjects", mock.Anything, "releases", mock.Anything).Return(func() <-chan minio.ObjectInfo {
		ch := make(chan minio.ObjectInfo)
		close(ch)
		return ch
	}())

	svc := releases.NewService(fetcher, new(mocks.Backend), newCache(), zap.NewNop(),
		releases.WithArchiver(releases.NewArchiver(store, "releases")))
	app := fiber.New()
	releases.NewHandler(svc, 0).RegisterRoutes(app)

	resp, err := app.Test(httptest.NewRequest("POST", "/releases/archive?categories=pokemon", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body releases.ArchiveResponse
	decode(t, resp.Body, &body)
	assert.Equal(t, 2, body.Data.Count)
	assert.Equal(t, reconcile.SourceCatalog, body.Data.Source)
	assert.Regexp(t, `^releases/\d{4}/\d{2}/\d{2}/\d{19}-catalog\.json$`, body.Data.Key)

	resp, err = app.Test(httptest.NewRequest("GET", "/releases/archive/latest", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
