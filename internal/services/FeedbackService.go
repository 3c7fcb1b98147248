package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fbconsole/internal/backend"
	"fbconsole/internal/models"
	"fbconsole/internal/providers"
	"fbconsole/internal/session"

	json "github.com/goccy/go-json"
)

var (
	ErrStaleResponse = errors.New("response superseded by a newer request")
	ErrInvalidPager  = errors.New("invalid pagination parameters")
	ErrInvalidRecord = errors.New("invalid feedback id")
	// ErrReloadFailed means the delete went through but the page after it
	// could not be loaded.
	ErrReloadFailed  = errors.New("feedback deleted but the page could not be reloaded")
)

type FeedbackServiceInterface interface {
	LoadPage(ctx context.Context, sessionID string, state models.PagerState, pageIndex int) (*models.Page, models.PagerState, error)
	DeleteRecord(ctx context.Context, sessionID string, state models.PagerState, id, rowsOnPage int) (*models.Page, models.PagerState, error)
	LastPage(sessionID string) (*models.Page, bool)
	ListLegacy(ctx context.Context) ([]models.LegacySubmission, error)
	LegacyDownloadURL(serverPath string) string
}

type FeedbackService struct {
	api       backend.FeedbackAPIInterface
	sessions  session.Store
	cache     providers.CacheProviderInterface
	sequencer *Sequencer
	logger    providers.Logger
	metrics   providers.MetricsProviderInterface
}

func NewFeedbackService(api backend.FeedbackAPIInterface, sessions session.Store, cache providers.CacheProviderInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) FeedbackServiceInterface {
	return &FeedbackService{
		api:       api,
		sessions:  sessions,
		cache:     cache,
		sequencer: NewSequencer(),
		logger:    logger,
		metrics:   metrics,
	}
}

func viewKey(sessionID string) string {
	return "view:" + sessionID
}

// LoadPage fetches pageIndex with the page size of state. On success the
// session state and its last rendered page are replaced; on failure both are
// left untouched.
func (fs *FeedbackService) LoadPage(ctx context.Context, sessionID string, state models.PagerState, pageIndex int) (*models.Page, models.PagerState, error) {
	next := state.WithPage(pageIndex)
	if !next.Valid() {
		return nil, state, fmt.Errorf("%w: pageIndex=%d pageSize=%d", ErrInvalidPager, pageIndex, state.PageSize)
	}

	reqCtx, token, done := fs.sequencer.Begin(ctx, sessionID)
	defer done()

	page, err := fs.api.QueryFeedback(reqCtx, next.PageIndex, next.PageSize)
	if err != nil {
		if !fs.sequencer.IsCurrent(sessionID, token) {
			fs.metrics.IncStaleResponses()
			return nil, state, ErrStaleResponse
		}
		fs.logger.Errorf(providers.TypeGet, "Load page %d for session %s failed: %s", pageIndex, sessionID, err)
		return nil, state, err
	}

	next.PageIndex = page.CurrentPageIndex
	next.LastSeen = time.Now()
	committed, err := fs.sequencer.Commit(sessionID, token, func() error {
		if err := fs.sessions.Put(ctx, sessionID, next); err != nil {
			return err
		}
		if gson, err := json.Marshal(page); err == nil {
			fs.cache.Set(viewKey(sessionID), gson)
		}
		return nil
	})
	if !committed {
		fs.metrics.IncStaleResponses()
		fs.logger.Debugf(providers.TypeGet, "Discarded stale page %d for session %s", pageIndex, sessionID)
		return nil, state, ErrStaleResponse
	}
	if err != nil {
		// the page itself is fine, only remembering the position failed
		fs.logger.Warnf(providers.TypeApp, "Unable to save session %s: %s", sessionID, err)
	}

	return page, next, nil
}

// DeleteRecord removes one record and reloads the page the user should see
// next. When the deleted row was the only one on its page the previous page
// is loaded instead. If only the reload fails the error wraps
// ErrReloadFailed and the returned state already points at that page.
func (fs *FeedbackService) DeleteRecord(ctx context.Context, sessionID string, state models.PagerState, id, rowsOnPage int) (*models.Page, models.PagerState, error) {
	if id <= 0 {
		return nil, state, fmt.Errorf("%w: %d", ErrInvalidRecord, id)
	}
	if rowsOnPage < 1 || !state.Valid() {
		return nil, state, fmt.Errorf("%w: rows=%d pageIndex=%d", ErrInvalidPager, rowsOnPage, state.PageIndex)
	}

	if err := fs.api.DeleteFeedback(ctx, []int{id}); err != nil {
		fs.logger.Errorf(providers.TypePost, "Delete of feedback %d for session %s failed: %s", id, sessionID, err)
		return nil, state, err
	}
	fs.logger.Infof(providers.TypePost, "Feedback %d deleted by session %s", id, sessionID)

	nextIndex := state.NextIndexAfterDelete(rowsOnPage)
	page, next, err := fs.LoadPage(ctx, sessionID, state, nextIndex)
	if err != nil && !errors.Is(err, ErrStaleResponse) {
		return nil, state.WithPage(nextIndex), fmt.Errorf("%w: %w", ErrReloadFailed, err)
	}
	return page, next, err
}

func (fs *FeedbackService) LastPage(sessionID string) (*models.Page, bool) {
	data, ok := fs.cache.Get(viewKey(sessionID))
	if !ok {
		return nil, false
	}
	var page models.Page
	if err := json.Unmarshal(data, &page); err != nil {
		fs.cache.Del(viewKey(sessionID))
		return nil, false
	}
	return &page, true
}

func (fs *FeedbackService) ListLegacy(ctx context.Context) ([]models.LegacySubmission, error) {
	items, err := fs.api.ListLegacy(ctx)
	if err != nil {
		fs.logger.Errorf(providers.TypeGet, "Legacy listing failed: %s", err)
		return nil, err
	}
	return items, nil
}

func (fs *FeedbackService) LegacyDownloadURL(serverPath string) string {
	return fs.api.LegacyDownloadURL(serverPath)
}
