package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"fbconsole/internal/backend"
	"fbconsole/internal/models"
	"fbconsole/internal/providers"
	"fbconsole/internal/services"
	"fbconsole/internal/session"
	"fbconsole/internal/structures"
	"fbconsole/internal/testutil"
	"fbconsole/internal/view"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- local mocks (scoped to controller tests) ---

type mockLogger struct{}

func (m *mockLogger) Errorf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (m *mockLogger) Warnf(_ providers.TypeEnum, _ string, _ ...interface{})  {}
func (m *mockLogger) Debugf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (m *mockLogger) Infof(_ providers.TypeEnum, _ string, _ ...interface{})  {}
func (m *mockLogger) Fatalf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (m *mockLogger) Close()                                                  {}

type mockService struct {
	loadErr   error
	deleteErr error
	lastPage  *models.Page
}

func (m *mockService) LoadPage(_ context.Context, _ string, state models.PagerState, _ int) (*models.Page, models.PagerState, error) {
	return nil, state, m.loadErr
}
func (m *mockService) DeleteRecord(_ context.Context, _ string, state models.PagerState, _, _ int) (*models.Page, models.PagerState, error) {
	return nil, state, m.deleteErr
}
func (m *mockService) LastPage(_ string) (*models.Page, bool) { return m.lastPage, m.lastPage != nil }
func (m *mockService) ListLegacy(_ context.Context) ([]models.LegacySubmission, error) {
	return nil, m.loadErr
}
func (m *mockService) LegacyDownloadURL(p string) string { return p }

type directLinks struct{}

func (directLinks) FileURL(f models.FileRef) string { return f.FilePathOnOss }

// --- helpers ---

const cookieName = "fbc_session"
const testSession = "0b6f6d2e-3b0c-4b5e-9a39-6e2f0d8b2c11"

func testConsoleConfig() *structures.Config {
	return &structures.Config{
		Pager:   structures.PagerConfig{PageSize: 10},
		Session: structures.SessionConfig{CookieName: cookieName, TTL: time.Hour},
	}
}

type consoleFixture struct {
	api   *testutil.MockFeedbackAPI
	store *session.MemoryStore
	cc    *ConsoleController
}

func newConsoleFixture(t *testing.T, records int) *consoleFixture {
	t.Helper()
	api := &testutil.MockFeedbackAPI{Records: testutil.Records(records, 2)}
	store := session.NewMemoryStore(time.Hour)
	svc := services.NewFeedbackService(api, store, testutil.NewMockCache(), &mockLogger{}, testutil.NewMockMetrics())
	return &consoleFixture{api: api, store: store, cc: newTestController(t, svc, store)}
}

func newTestController(t *testing.T, svc services.FeedbackServiceInterface, store session.Store) *ConsoleController {
	t.Helper()
	renderer, err := view.NewRenderer()
	require.NoError(t, err)
	return NewConsoleController(testConsoleConfig(), &mockLogger{}, svc, store, renderer, directLinks{})
}

func withSession(req *http.Request) *http.Request {
	req.AddCookie(&http.Cookie{Name: cookieName, Value: testSession})
	return req
}

func deleteRequest(id, page, rows string) *http.Request {
	form := url.Values{"id": {id}, "page": {page}, "rows": {rows}}
	req := httptest.NewRequest(http.MethodPost, "/delete", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return withSession(req)
}

// --- Index tests ---

func TestIndex_RendersFirstPageAndIssuesCookie(t *testing.T) {
	f := newConsoleFixture(t, 25)

	rr := httptest.NewRecorder()
	f.cc.Index(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, view.HTMLContentType, rr.Header().Get("Content-Type"))
	body := rr.Body.String()
	assert.Equal(t, 10, strings.Count(body, `class="feedback-row"`))
	assert.Equal(t, 20, strings.Count(body, `class="file-link"`))
	assert.Equal(t, 3, strings.Count(body, `<button type="submit" name="page"`))

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, cookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, 1, f.store.Count())
}

func TestIndex_PageParam(t *testing.T) {
	f := newConsoleFixture(t, 25)

	rr := httptest.NewRecorder()
	f.cc.Index(rr, withSession(httptest.NewRequest(http.MethodGet, "/?page=2", nil)))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 5, strings.Count(rr.Body.String(), `class="feedback-row"`))
	assert.Empty(t, rr.Result().Cookies())

	state, ok, _ := f.store.Get(context.Background(), testSession)
	require.True(t, ok)
	assert.Equal(t, 2, state.PageIndex)
}

func TestIndex_RestoresSessionPosition(t *testing.T) {
	f := newConsoleFixture(t, 25)
	require.NoError(t, f.store.Put(context.Background(), testSession, models.PagerState{PageIndex: 1, PageSize: 99}))

	rr := httptest.NewRecorder()
	f.cc.Index(rr, withSession(httptest.NewRequest(http.MethodGet, "/", nil)))

	assert.Equal(t, http.StatusOK, rr.Code)
	queries := f.api.Queries()
	require.Len(t, queries, 1)
	assert.Equal(t, testutil.QueryCall{PageIndex: 1, PageSize: 10}, queries[0])
}

func TestIndex_InvalidPage(t *testing.T) {
	f := newConsoleFixture(t, 5)

	for _, raw := range []string{"-1", "abc"} {
		rr := httptest.NewRecorder()
		f.cc.Index(rr, withSession(httptest.NewRequest(http.MethodGet, "/?page="+raw, nil)))

		assert.Equal(t, http.StatusBadRequest, rr.Code, raw)
		assert.Contains(t, rr.Body.String(), `class="error"`)
	}
	assert.Empty(t, f.api.Queries())
}

func TestIndex_BackendFailureShowsLastPageWithBanner(t *testing.T) {
	f := newConsoleFixture(t, 5)
	rr := httptest.NewRecorder()
	f.cc.Index(rr, withSession(httptest.NewRequest(http.MethodGet, "/", nil)))
	require.Equal(t, http.StatusOK, rr.Code)

	f.api.QueryFn = func(_ context.Context, _, _ int) (*models.Page, error) {
		return nil, backend.ErrNetwork
	}
	rr = httptest.NewRecorder()
	f.cc.Index(rr, withSession(httptest.NewRequest(http.MethodGet, "/?page=0", nil)))

	assert.Equal(t, http.StatusBadGateway, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, `class="error"`)
	assert.Contains(t, body, "Could not load feedback")
	assert.Equal(t, 5, strings.Count(body, `class="feedback-row"`))
}

func TestIndex_BackendFailureWithoutHistory(t *testing.T) {
	cc := newTestController(t, &mockService{loadErr: backend.ErrMalformedResponse}, session.NewMemoryStore(time.Hour))

	rr := httptest.NewRecorder()
	cc.Index(rr, withSession(httptest.NewRequest(http.MethodGet, "/", nil)))

	assert.Equal(t, http.StatusBadGateway, rr.Code)
	assert.Contains(t, rr.Body.String(), "malformed feedback backend response")
	assert.NotContains(t, rr.Body.String(), `class="feedback-row"`)
}

func TestIndex_StaleResponse(t *testing.T) {
	cc := newTestController(t, &mockService{loadErr: services.ErrStaleResponse}, session.NewMemoryStore(time.Hour))

	rr := httptest.NewRecorder()
	cc.Index(rr, withSession(httptest.NewRequest(http.MethodGet, "/", nil)))

	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestIndex_DeleteFlash(t *testing.T) {
	f := newConsoleFixture(t, 3)

	rr := httptest.NewRecorder()
	f.cc.Index(rr, withSession(httptest.NewRequest(http.MethodGet, "/?page=0&error=delete", nil)))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "could not be deleted")
}

// --- Delete tests ---

func TestDelete_LastRowRedirectsToPreviousPage(t *testing.T) {
	f := newConsoleFixture(t, 21)

	rr := httptest.NewRecorder()
	f.cc.Delete(rr, deleteRequest("21", "2", "1"))

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/?page=1&reloaded=1", rr.Header().Get("Location"))
	assert.Equal(t, [][]int{{21}}, f.api.DeleteCalls)
}

func TestDelete_KeepsPageWhenRowsRemain(t *testing.T) {
	f := newConsoleFixture(t, 25)

	rr := httptest.NewRecorder()
	f.cc.Delete(rr, deleteRequest("22", "2", "5"))

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/?page=2&reloaded=1", rr.Header().Get("Location"))
}

func TestDelete_RedirectIsServedFromReloadedPage(t *testing.T) {
	f := newConsoleFixture(t, 21)

	rr := httptest.NewRecorder()
	f.cc.Delete(rr, deleteRequest("21", "2", "1"))
	require.Equal(t, http.StatusSeeOther, rr.Code)
	require.Len(t, f.api.Queries(), 1)
	location := rr.Header().Get("Location")

	rr = httptest.NewRecorder()
	f.cc.Index(rr, withSession(httptest.NewRequest(http.MethodGet, location, nil)))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 10, strings.Count(rr.Body.String(), `class="feedback-row"`))
	assert.Len(t, f.api.Queries(), 1)
}

func TestIndex_ReloadedMarkerFallsBackToBackend(t *testing.T) {
	f := newConsoleFixture(t, 25)

	// no page cached for the session yet
	rr := httptest.NewRecorder()
	f.cc.Index(rr, withSession(httptest.NewRequest(http.MethodGet, "/?page=1&reloaded=1", nil)))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, []testutil.QueryCall{{PageIndex: 1, PageSize: 10}}, f.api.Queries())
}

func TestDelete_ReloadFailureStillMovesToNextPage(t *testing.T) {
	f := newConsoleFixture(t, 21)
	f.api.QueryFn = func(_ context.Context, _, _ int) (*models.Page, error) {
		return nil, backend.ErrNetwork
	}

	rr := httptest.NewRecorder()
	f.cc.Delete(rr, deleteRequest("21", "2", "1"))

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/?page=1", rr.Header().Get("Location"))
	assert.Equal(t, [][]int{{21}}, f.api.DeleteCalls)
	assert.Len(t, f.api.Records, 20)
}

func TestDelete_BackendFailureFlashesError(t *testing.T) {
	f := newConsoleFixture(t, 25)
	f.api.DeleteErr = &backend.StatusError{Operation: "delete", StatusCode: 500}

	rr := httptest.NewRecorder()
	f.cc.Delete(rr, deleteRequest("22", "2", "1"))

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/?error=delete&page=2", rr.Header().Get("Location"))
	assert.Empty(t, f.api.Queries())
}

func TestDelete_BadForm(t *testing.T) {
	f := newConsoleFixture(t, 5)

	for _, req := range []*http.Request{
		deleteRequest("x", "0", "1"),
		deleteRequest("1", "", "1"),
		deleteRequest("0", "0", "1"),
		deleteRequest("1", "0", "0"),
		deleteRequest("1", "-1", "1"),
	} {
		rr := httptest.NewRecorder()
		f.cc.Delete(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	}
	assert.Empty(t, f.api.DeleteCalls)
}

func TestDelete_StaleRedirectsHome(t *testing.T) {
	cc := newTestController(t, &mockService{deleteErr: services.ErrStaleResponse}, session.NewMemoryStore(time.Hour))

	rr := httptest.NewRecorder()
	cc.Delete(rr, deleteRequest("3", "0", "2"))

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/", rr.Header().Get("Location"))
}

// --- PageJSON tests ---

func TestPageJSON_ReturnsViewModel(t *testing.T) {
	f := newConsoleFixture(t, 25)

	rr := httptest.NewRecorder()
	f.cc.PageJSON(rr, withSession(httptest.NewRequest(http.MethodGet, "/api/page?page=1", nil)))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var pv view.PageView
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &pv))
	assert.Equal(t, 1, pv.PageIndex)
	assert.Len(t, pv.Rows, 10)
	assert.Equal(t, 3, pv.Pagination.PageCount)
	assert.True(t, pv.Pagination.Buttons[1].Current)
}

func TestPageJSON_Errors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		query    string
		expected int
	}{
		{"bad page", nil, "?page=x", http.StatusBadRequest},
		{"stale", services.ErrStaleResponse, "", http.StatusConflict},
		{"backend", backend.ErrNetwork, "", http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cc := newTestController(t, &mockService{loadErr: tt.err}, session.NewMemoryStore(time.Hour))

			rr := httptest.NewRecorder()
			cc.PageJSON(rr, withSession(httptest.NewRequest(http.MethodGet, "/api/page"+tt.query, nil)))

			assert.Equal(t, tt.expected, rr.Code)
			var resp errorResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Error)
		})
	}
}

// --- Legacy tests ---

func TestLegacy_RendersSubmissions(t *testing.T) {
	f := newConsoleFixture(t, 0)
	f.api.Legacy = []models.LegacySubmission{
		{ID: 1, Title: "a", FileInfos: []models.LegacyFileInfo{{OriginalName: "x.png", ServerPath: "up/x.png"}}},
		{ID: 2, Title: "b"},
	}

	rr := httptest.NewRecorder()
	f.cc.Legacy(rr, httptest.NewRequest(http.MethodGet, "/legacy", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Equal(t, 2, strings.Count(body, `class="legacy-row"`))
	assert.Contains(t, body, "http://backend.test/downloadFile?file=up/x.png")
}

func TestLegacy_BackendFailure(t *testing.T) {
	cc := newTestController(t, &mockService{loadErr: backend.ErrNetwork}, session.NewMemoryStore(time.Hour))

	rr := httptest.NewRecorder()
	cc.Legacy(rr, httptest.NewRequest(http.MethodGet, "/legacy", nil))

	assert.Equal(t, http.StatusBadGateway, rr.Code)
	assert.Contains(t, rr.Body.String(), `class="error"`)
}
