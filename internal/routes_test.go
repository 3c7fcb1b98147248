package internal

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fbconsole/internal/controllers"
	"fbconsole/internal/services"
	"fbconsole/internal/session"
	"fbconsole/internal/storage"
	"fbconsole/internal/structures"
	"fbconsole/internal/testutil"
	"fbconsole/internal/view"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMux(t *testing.T) *http.ServeMux {
	t.Helper()
	conf := &structures.Config{
		Pager:   structures.PagerConfig{PageSize: 10},
		Session: structures.SessionConfig{CookieName: "fbc_session", TTL: time.Hour},
	}
	logger := &testutil.MockLogger{}
	store := session.NewMemoryStore(time.Hour)
	api := &testutil.MockFeedbackAPI{Records: testutil.Records(3, 1)}
	svc := services.NewFeedbackService(api, store, testutil.NewMockCache(), logger, testutil.NewMockMetrics())
	renderer, err := view.NewRenderer()
	require.NoError(t, err)
	signer, err := storage.NewSigner(conf, logger)
	require.NoError(t, err)

	console := controllers.NewConsoleController(conf, logger, svc, store, renderer, storage.NewLinkResolver(conf))
	router := InitRoutes(console, controllers.NewDownloadController(signer, logger))

	mux := http.NewServeMux()
	for _, r := range router.GetRoutes() {
		mux.Handle(r.Url, r.Handler)
	}
	return mux
}

func TestInitRoutes_RegistersFiveRoutes(t *testing.T) {
	console := controllers.NewConsoleController(&structures.Config{}, &testutil.MockLogger{}, nil, nil, nil, nil)
	router := InitRoutes(console, controllers.NewDownloadController(nil, &testutil.MockLogger{}))
	routes := router.GetRoutes()

	require.Len(t, routes, 5)

	urls := make([]string, len(routes))
	for i, r := range routes {
		urls[i] = r.Url
	}

	assert.Contains(t, urls, "/{$}")
	assert.Contains(t, urls, "/delete")
	assert.Contains(t, urls, "/api/page")
	assert.Contains(t, urls, "/legacy")
	assert.Contains(t, urls, "/download")
}

func TestInitRoutes_MethodEnforcement(t *testing.T) {
	mux := newTestMux(t)

	// GET /delete should fail
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/delete", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)

	// POST / should fail
	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestInitRoutes_ConsoleRootOnlyMatchesExactly(t *testing.T) {
	mux := newTestMux(t)

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/favicon.ico", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestInitRoutes_DownloadDisabledByDefault(t *testing.T) {
	mux := newTestMux(t)

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/download?file=a.zip", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
