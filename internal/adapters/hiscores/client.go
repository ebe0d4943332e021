// Package hiscores fetches lite hiscore records from the external service.
//
// The service answers a GET with the player name appended to a fixed URL.
// A 200 body holds one line per catalog index, each "rank,score[,xp]".
package hiscores

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/okian/hiscorewatch/pkg/logger"
	"github.com/okian/hiscorewatch/pkg/metrics"
)

// Default client configuration constants.
const (
	DefaultBaseURL           = "https://secure.runescape.com/m=hiscore_oldschool/index_lite.ws?player="
	DefaultTimeout           = 30 * time.Second
	DefaultRequestsPerSecond = 2.0
	maxBodyBytes             = 1 << 20
	errorBodyPreview         = 200
)

// Client performs rate-limited lookups.
type Client struct {
	httpClient *http.Client
	baseURL    string
	timeout    time.Duration
	rps        float64
	limiter    *rate.Limiter
	logger     logger.Logger
}

// NewClient creates a lookup client with configuration options.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		timeout: DefaultTimeout,
		rps:     DefaultRequestsPerSecond,
		logger:  logger.GetOr(logger.Nop()).Named("hiscores"),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: c.timeout}
	}
	if c.rps > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(c.rps), 1)
	}

	return c
}

// URL returns the lookup URL for subject.
func (c *Client) URL(subject string) string {
	return c.baseURL + url.QueryEscape(subject)
}

// Lookup fetches the raw lite record for subject.
// Non-2xx responses return an error wrapping ErrNoData; network failures wrap ErrTransport.
func (c *Client) Lookup(ctx context.Context, subject string) (string, error) {
	if strings.TrimSpace(subject) == "" {
		return "", ErrEmptySubject
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			metrics.RecordLookup("rate_limited")
			return "", fmt.Errorf("%w: rate limit wait: %w", ErrTransport, err)
		}
	}

	start := time.Now()
	defer func() {
		metrics.RecordLookupLatency(float64(time.Since(start).Milliseconds()))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(subject), nil)
	if err != nil {
		metrics.RecordLookup("bad_request")
		return "", fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordLookup("transport_error")
		metrics.RecordErrorByComponent("hiscores", "transport")
		return "", fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		metrics.RecordLookup("transport_error")
		return "", fmt.Errorf("%w: read response body: %w", ErrTransport, err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		metrics.RecordLookup("no_data")
		return "", fmt.Errorf("%w: status %d: %s", ErrNoData, resp.StatusCode, truncate(body, errorBodyPreview))
	}

	metrics.RecordLookup("ok")
	c.logger.Debug(ctx, "lookup succeeded",
		logger.String("subject", subject),
		logger.Int("bytes", len(body)),
		logger.Duration("latency", time.Since(start)),
	)
	return string(body), nil
}

func truncate(b []byte, maxLen int) string {
	if len(b) <= maxLen {
		return string(b)
	}
	return string(b[:maxLen]) + "..."
}
