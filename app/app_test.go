package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"giftshop.GO/catalog"
	"giftshop.GO/config"
	catalogEntity "giftshop.GO/model/entity/catalog"
)

func testConfig(t *testing.T) *config.Config {
	t.Setenv("GORM_LOG", "off")
	return &config.Config{
		AppName:             "giftshop-test",
		DBDriver:            "sqlite",
		SQLitePath:          filepath.Join(t.TempDir(), "app.db"),
		AuthType:            "basic",
		APIUser:             "admin",
		APIPass:             "secret",
		RefreshSchedule:     "@every 15m",
		RecommendationLimit: 12,
	}
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	ctx := context.Background()
	a, err := New(ctx, testConfig(t), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	require.NoError(t, a.Migrate())

	require.NoError(t, a.DB.Create(&[]catalogEntity.Product{
		{ID: "mug", Name: "Coffee Mug", Price: 20, DiscountPercentage: 25},
		{ID: "scarf", Name: "Wool Scarf", Price: 45},
	}).Error)
	require.NoError(t, a.Start(ctx))
	return a
}

func TestNew_LoadsCatalog(t *testing.T) {
	a := newTestApp(t)

	st := a.Catalog.Stats()
	assert.Equal(t, 2, st.Products)
	assert.Equal(t, 1, st.Deals)
	assert.False(t, a.Search.Enabled())
	assert.Nil(t, a.Archive)

	p, ok := a.Catalog.Engine().Product("mug")
	require.True(t, ok)
	assert.Equal(t, catalog.Money(1500), p.Price)
}

func TestNew_BadKeywordsFile(t *testing.T) {
	cfg := testConfig(t)
	cfg.KeywordsFile = filepath.Join(t.TempDir(), "missing.yaml")
	_, err := New(context.Background(), cfg, nil)
	assert.Error(t, err)
}

func TestReindex_WithoutElasticsearch(t *testing.T) {
	a := newTestApp(t)
	_, err := a.Reindex(context.Background())
	assert.Error(t, err)
}

func TestCronJobs(t *testing.T) {
	a := newTestApp(t)
	jobs := a.CronJobs()
	require.Contains(t, jobs, "catalogrefresh")
	require.Contains(t, jobs, "sessionsweep")
	assert.Equal(t, "@every 15m", jobs["catalogrefresh"].Schedule)

	before := a.Catalog.Stats().Refreshes
	jobs["catalogrefresh"].Run()
	assert.Equal(t, before+1, a.Catalog.Stats().Refreshes)

	_, err := a.Sessions.Open(catalog.ScreenHome, catalog.FilterState{})
	require.NoError(t, err)
	jobs["sessionsweep"].Run()
	assert.Equal(t, 1, a.Sessions.Len())
}

func TestServer_Routes(t *testing.T) {
	a := newTestApp(t)
	e := NewServer(a)

	do := func(method, target string, auth bool) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, target, nil)
		if auth {
			req.SetBasicAuth("admin", "secret")
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	rec := do(http.MethodGet, "/api/catalog/stats", false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = do(http.MethodGet, "/api/catalog/stats", true)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(http.MethodGet, "/api/catalog/products", false)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-Duration-ms"))
	var page catalog.PageState
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, 2, page.Total)

	rec = do(http.MethodGet, "/api/catalog/products/mug", false)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(http.MethodGet, "/health", false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)

	rec = do(http.MethodGet, "/metrics", false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "giftshop_catalog_refreshes_total")

	req := httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(`{"query":"{ deals { totalCount } }"}`))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"totalCount":1`)
}
