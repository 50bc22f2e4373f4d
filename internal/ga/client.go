// Package ga executes report queries against the Core Reporting API v3.
package ga

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/api/googleapi"

	"gareport/internal/domain"
)

// DefaultBaseURL is the Core Reporting API v3 root.
const DefaultBaseURL = "https://www.googleapis.com/analytics/v3"

// Options configures a Client.
type Options struct {
	KeyFile    string        // service-account JSON key, used by Connect
	BaseURL    string        // API root (default DefaultBaseURL)
	RateLimit  float64       // requests per second; <= 0 disables pacing
	Burst      int           // limiter burst (default 1)
	Timeout    time.Duration // per-request timeout; 0 means none
	MaxRetries int           // retries on 429 and 5xx
	PageSize   int           // max-results sent when the payload sets none
	Backoff    time.Duration // first retry delay, doubled per attempt (default 100ms)
}

// Compile-time check.
var _ domain.QueryExecutor = (*Client)(nil)

// Client is a domain.QueryExecutor backed by the reporting API. It is safe
// for concurrent use; all callers share one rate limiter.
type Client struct {
	http       *http.Client
	baseURL    string
	limiter    *rate.Limiter
	timeout    time.Duration
	maxRetries int
	pageSize   int
	backoff    time.Duration
	logger     *slog.Logger
}

// NewClient creates a Client that sends requests with httpClient. The
// client is expected to attach credentials itself (see Connect).
func NewClient(httpClient *http.Client, opts Options, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Burst < 1 {
		opts.Burst = 1
	}
	if opts.Backoff <= 0 {
		opts.Backoff = 100 * time.Millisecond
	}
	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}
	return &Client{
		http:       httpClient,
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		limiter:    rate.NewLimiter(limit, opts.Burst),
		timeout:    opts.Timeout,
		maxRetries: max(opts.MaxRetries, 0),
		pageSize:   opts.PageSize,
		backoff:    opts.Backoff,
		logger:     logger,
	}
}

// Execute fetches one page of the report described by payload.
//
// Rate limiting applies to every attempt. Responses with status 429 or 5xx
// and transport errors are retried with exponential backoff; any other
// non-2xx status fails immediately with a *googleapi.Error. A body that is
// not a valid report yields a *domain.MalformedResponseError.
func (c *Client) Execute(ctx context.Context, payload domain.QueryPayload) (*domain.RawPage, error) {
	endpoint := c.baseURL + "/data/ga?" + c.params(payload).Encode()

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			wait := c.backoff << (attempt - 1)
			c.logger.Warn("retrying report request",
				"attempt", attempt,
				"start_index", payload.StartIndex,
				"wait", wait,
				"error", lastErr,
			)
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			case <-timer.C:
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, fmt.Errorf("rate limiter: %w", err)
		}

		page, retry, err := c.do(ctx, endpoint)
		if err == nil {
			return page, nil
		}
		lastErr = err
		if !retry {
			return nil, err
		}
	}
	return nil, fmt.Errorf("giving up after %d retries: %w", c.maxRetries, lastErr)
}

// do performs a single request. The boolean reports whether the failure is
// worth retrying.
func (c *Client) do(ctx context.Context, endpoint string) (*domain.RawPage, bool, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, false, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, false, err
		}
		return nil, true, fmt.Errorf("GET data/ga: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if err := googleapi.CheckResponse(resp); err != nil {
		return nil, retryable(resp.StatusCode), err
	}

	var page domain.RawPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, false, &domain.MalformedResponseError{Message: fmt.Sprintf("decode report: %v", err)}
	}
	return &page, false, nil
}

func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}

// params encodes payload as Core Reporting query parameters.
func (c *Client) params(p domain.QueryPayload) url.Values {
	v := url.Values{}
	v.Set("ids", p.IDs)
	v.Set("start-date", p.StartDate)
	v.Set("end-date", p.EndDate)
	v.Set("metrics", strings.Join(domain.QualifiedNames(p.Metrics), ","))
	if len(p.Dimensions) > 0 {
		v.Set("dimensions", strings.Join(domain.QualifiedNames(p.Dimensions), ","))
	}
	if len(p.Sort) > 0 {
		v.Set("sort", strings.Join(domain.QualifiedNames(p.Sort), ","))
	}
	if p.Segment != "" {
		v.Set("segment", p.Segment)
	}
	if p.Filters != "" {
		v.Set("filters", p.Filters)
	}
	if p.StartIndex > 0 {
		v.Set("start-index", strconv.Itoa(p.StartIndex))
	}
	switch {
	case p.MaxResults > 0:
		v.Set("max-results", strconv.Itoa(p.MaxResults))
	case c.pageSize > 0:
		v.Set("max-results", strconv.Itoa(c.pageSize))
	}
	if p.SamplingLevel != "" {
		v.Set("samplingLevel", p.SamplingLevel)
	}
	if p.IncludeEmptyRows != nil {
		v.Set("include-empty-rows", strconv.FormatBool(*p.IncludeEmptyRows))
	}
	return v
}
