package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"fbconsole/internal/models"
	"fbconsole/internal/providers"
	"fbconsole/internal/services"
	"fbconsole/internal/session"
	"fbconsole/internal/structures"
	"fbconsole/internal/view"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
)

const (
	maxFormSize   = 1 << 16
	// reloadedParam marks the redirect that follows a successful delete.
	reloadedParam = "reloaded"
)

var flashMessages = map[string]string{
	"delete": "The feedback could not be deleted. The list below may be out of date.",
}

type ConsoleController struct {
	conf     *structures.Config
	logger   providers.Logger
	service  services.FeedbackServiceInterface
	sessions session.Store
	renderer view.RendererInterface
	links    view.LinkResolver
}

func NewConsoleController(conf *structures.Config, logger providers.Logger, service services.FeedbackServiceInterface, sessions session.Store, renderer view.RendererInterface, links view.LinkResolver) *ConsoleController {
	return &ConsoleController{
		conf:     conf,
		logger:   logger,
		service:  service,
		sessions: sessions,
		renderer: renderer,
		links:    links,
	}
}

// sessionID returns the console session of the request, issuing a new
// cookie when there is none.
func (cc *ConsoleController) sessionID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(cc.conf.Session.CookieName); err == nil {
		if _, err := uuid.Parse(c.Value); err == nil {
			return c.Value
		}
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     cc.conf.Session.CookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(cc.conf.Session.TTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

// pagerState restores the session position. The page size always follows
// the configuration.
func (cc *ConsoleController) pagerState(ctx context.Context, sessionID string) models.PagerState {
	state, ok, err := cc.sessions.Get(ctx, sessionID)
	if err != nil {
		cc.logger.Warnf(providers.TypeApp, "Unable to restore session %s: %s", sessionID, err)
	}
	if !ok || err != nil {
		return models.NewPagerState(cc.conf.Pager.PageSize)
	}
	state.PageSize = cc.conf.Pager.PageSize
	if state.PageIndex < 0 {
		state.PageIndex = 0
	}
	return state
}

// requestedPage reads ?page=, falling back to the session position.
func requestedPage(r *http.Request, state models.PagerState) (int, error) {
	raw := r.URL.Query().Get("page")
	if raw == "" {
		return state.PageIndex, nil
	}
	idx, err := strconv.Atoi(raw)
	if err != nil || idx < 0 {
		return 0, services.ErrInvalidPager
	}
	return idx, nil
}

func (cc *ConsoleController) Index(w http.ResponseWriter, r *http.Request) {
	sid := cc.sessionID(w, r)
	state := cc.pagerState(r.Context(), sid)

	pageIndex, err := requestedPage(r, state)
	if err != nil {
		cc.renderError(w, sid, http.StatusBadRequest, "Invalid page number.")
		return
	}

	if page, ok := cc.reloadedPage(r, sid, pageIndex); ok {
		cc.writePage(w, http.StatusOK, view.NewPageView(page, state.PageSize, cc.links))
		return
	}

	page, state, err := cc.service.LoadPage(r.Context(), sid, state, pageIndex)
	if errors.Is(err, services.ErrStaleResponse) {
		http.Error(w, "Superseded by a newer request", http.StatusConflict)
		return
	}
	if err != nil {
		cc.renderError(w, sid, http.StatusBadGateway, "Could not load feedback: "+err.Error())
		return
	}

	pv := view.NewPageView(page, state.PageSize, cc.links)
	pv.Error = flashMessages[r.URL.Query().Get("error")]
	cc.writePage(w, http.StatusOK, pv)
}

// reloadedPage returns the page a delete just loaded for the session, so the
// redirect after it does not query the backend again.
func (cc *ConsoleController) reloadedPage(r *http.Request, sid string, pageIndex int) (*models.Page, bool) {
	if r.URL.Query().Get(reloadedParam) != "1" {
		return nil, false
	}
	page, ok := cc.service.LastPage(sid)
	if !ok || page.CurrentPageIndex != pageIndex {
		return nil, false
	}
	return page, true
}

// renderError shows the last page the session saw, marked stale, under an
// error banner.
func (cc *ConsoleController) renderError(w http.ResponseWriter, sid string, status int, message string) {
	pv := view.PageView{Title: "User Feedback"}
	if page, ok := cc.service.LastPage(sid); ok {
		pv = view.NewPageView(page, cc.conf.Pager.PageSize, cc.links)
		pv.Stale = true
	}
	pv.Error = message
	cc.writePage(w, status, pv)
}

func (cc *ConsoleController) writePage(w http.ResponseWriter, status int, pv view.PageView) {
	body, err := cc.renderer.RenderPage(pv)
	if err != nil {
		cc.logger.Errorf(providers.TypeApp, "Render console page: %s", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", view.HTMLContentType)
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func (cc *ConsoleController) Delete(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormSize)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	id, errID := strconv.Atoi(r.PostFormValue("id"))
	pageIndex, errPage := strconv.Atoi(r.PostFormValue("page"))
	rows, errRows := strconv.Atoi(r.PostFormValue("rows"))
	if errID != nil || errPage != nil || errRows != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	sid := cc.sessionID(w, r)
	state := cc.pagerState(r.Context(), sid).WithPage(pageIndex)

	_, next, err := cc.service.DeleteRecord(r.Context(), sid, state, id, rows)
	switch {
	case err == nil:
		http.Redirect(w, r, pageURL(next.PageIndex, "")+"&"+reloadedParam+"=1", http.StatusSeeOther)
	case errors.Is(err, services.ErrReloadFailed):
		// the record is gone, only the fresh page is missing
		http.Redirect(w, r, pageURL(next.PageIndex, ""), http.StatusSeeOther)
	case errors.Is(err, services.ErrInvalidPager), errors.Is(err, services.ErrInvalidRecord):
		http.Error(w, "Bad Request", http.StatusBadRequest)
	case errors.Is(err, services.ErrStaleResponse):
		http.Redirect(w, r, "/", http.StatusSeeOther)
	default:
		http.Redirect(w, r, pageURL(pageIndex, "delete"), http.StatusSeeOther)
	}
}

func pageURL(pageIndex int, flash string) string {
	q := url.Values{}
	q.Set("page", strconv.Itoa(pageIndex))
	if flash != "" {
		q.Set("error", flash)
	}
	return "/?" + q.Encode()
}

type errorResponse struct {
	Error string `json:"error"`
}

func (cc *ConsoleController) PageJSON(w http.ResponseWriter, r *http.Request) {
	sid := cc.sessionID(w, r)
	state := cc.pagerState(r.Context(), sid)

	pageIndex, err := requestedPage(r, state)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	page, state, err := cc.service.LoadPage(r.Context(), sid, state, pageIndex)
	switch {
	case errors.Is(err, services.ErrStaleResponse):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case err != nil:
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error()})
	default:
		writeJSON(w, http.StatusOK, view.NewPageView(page, state.PageSize, cc.links))
	}
}

func (cc *ConsoleController) Legacy(w http.ResponseWriter, r *http.Request) {
	lv := view.LegacyView{Title: "Older submissions"}
	status := http.StatusOK

	items, err := cc.service.ListLegacy(r.Context())
	if err != nil {
		lv.Error = "Could not load submissions: " + err.Error()
		status = http.StatusBadGateway
	} else {
		lv.Rows = view.BuildLegacyRows(items, cc.service.LegacyDownloadURL)
	}

	body, err := cc.renderer.RenderLegacy(lv)
	if err != nil {
		cc.logger.Errorf(providers.TypeApp, "Render legacy page: %s", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", view.HTMLContentType)
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	gson, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}
