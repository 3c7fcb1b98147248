package backend

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"fbconsole/internal/models"
	"fbconsole/internal/providers"
	"fbconsole/internal/structures"

	json "github.com/goccy/go-json"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	queryPath          = "/api/queryFeedback"
	deletePath         = "/api/deleteFeedback"
	legacyListPath     = "/feedback"
	legacyDownloadPath = "/downloadFile"

	maxResponseSize  = 8 << 20
	maxErrorBodySize = 512
)

type FeedbackAPIInterface interface {
	QueryFeedback(ctx context.Context, pageIndex, pageSize int) (*models.Page, error)
	DeleteFeedback(ctx context.Context, ids []int) error
	ListLegacy(ctx context.Context) ([]models.LegacySubmission, error)
	LegacyDownloadURL(serverPath string) string
}

type Client struct {
	baseURL     string
	queryMethod string
	httpClient  *http.Client
	logger      providers.Logger
	metrics     providers.MetricsProviderInterface
}

func NewClient(conf *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface) FeedbackAPIInterface {
	return &Client{
		baseURL:     strings.TrimRight(conf.Backend.BaseURL, "/"),
		queryMethod: conf.Backend.QueryMethod,
		httpClient: &http.Client{
			Timeout:   conf.Backend.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger:  logger,
		metrics: metrics,
	}
}

type queryRequest struct {
	PageSize  int `json:"pageSize"`
	PageIndex int `json:"pageIndex"`
}

// pageEnvelope keeps pointers so that absent fields can be told apart from
// zero values.
type pageEnvelope struct {
	PageData         *[]models.FeedbackRecord `json:"pageData"`
	TotalSize        *int                     `json:"totalSize"`
	CurrentPageIndex *int                     `json:"currentPageIndex"`
}

type deleteRequest struct {
	FeedbackID []int `json:"feedbackID"`
}

func (c *Client) QueryFeedback(ctx context.Context, pageIndex, pageSize int) (*models.Page, error) {
	var (
		req *http.Request
		err error
	)
	if c.queryMethod == http.MethodGet {
		q := url.Values{}
		q.Set("pageIndex", strconv.Itoa(pageIndex))
		q.Set("pageSize", strconv.Itoa(pageSize))
		req, err = http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+queryPath+"?"+q.Encode(), nil)
	} else {
		req, err = c.newJSONRequest(ctx, queryPath, queryRequest{PageSize: pageSize, PageIndex: pageIndex})
	}
	if err != nil {
		return nil, err
	}

	var page *models.Page
	err = c.do("query", req, func(body []byte) error {
		page, err = decodePage(body)
		return err
	})
	if err != nil {
		return nil, err
	}
	return page, nil
}

func decodePage(body []byte) (*models.Page, error) {
	var env pageEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	if env.PageData == nil || env.TotalSize == nil || env.CurrentPageIndex == nil {
		return nil, fmt.Errorf("%w: pageData, totalSize and currentPageIndex are required", ErrMalformedResponse)
	}

	page := &models.Page{
		PageData:         *env.PageData,
		TotalSize:        *env.TotalSize,
		CurrentPageIndex: *env.CurrentPageIndex,
	}
	if err := page.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	return page, nil
}

func (c *Client) DeleteFeedback(ctx context.Context, ids []int) error {
	if len(ids) == 0 {
		return ErrNoFeedbackIDs
	}
	req, err := c.newJSONRequest(ctx, deletePath, deleteRequest{FeedbackID: ids})
	if err != nil {
		return err
	}

	return c.do("delete", req, func(body []byte) error {
		c.logger.Debugf(providers.TypePost, "Backend acknowledged delete of %v: %s", ids, strings.TrimSpace(string(body)))
		return nil
	})
}

func (c *Client) ListLegacy(ctx context.Context) ([]models.LegacySubmission, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+legacyListPath, nil)
	if err != nil {
		return nil, err
	}

	var submissions []models.LegacySubmission
	err = c.do("legacy", req, func(body []byte) error {
		if err := json.Unmarshal(body, &submissions); err != nil {
			return fmt.Errorf("%w: %w", ErrMalformedResponse, err)
		}
		for i := range submissions {
			if err := submissions[i].Validate(); err != nil {
				return fmt.Errorf("%w: submission %d: %w", ErrMalformedResponse, submissions[i].ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return submissions, nil
}

func (c *Client) LegacyDownloadURL(serverPath string) string {
	return c.baseURL + legacyDownloadPath + "?" + url.Values{"file": {serverPath}}.Encode()
}

func (c *Client) newJSONRequest(ctx context.Context, path string, payload any) (*http.Request, error) {
	gson, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(gson))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// do sends req and hands the body of a 2xx response to decode.
func (c *Client) do(operation string, req *http.Request, decode func([]byte) error) error {
	start := time.Now()
	body, err := c.roundTrip(operation, req)
	if err == nil {
		err = decode(body)
	}
	// failures are logged by the caller, which knows the session
	c.metrics.ObserveBackendCall(operation, outcome(err), time.Since(start))
	return err
}

func (c *Client) roundTrip(operation string, req *http.Request) ([]byte, error) {
	req.Header.Set("Accept", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		return nil, &StatusError{
			Operation:  operation,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(snippet)),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	return body, nil
}
