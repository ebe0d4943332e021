package simulate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/hiscorewatch/pkg/logger"
)

// HTTPClient wraps http.Client with timeout
type HTTPClient struct {
	client  *http.Client
	baseURL string
}

func newHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// Do sends body as JSON and decodes the response into out when it is non-nil.
func (c *HTTPClient) Do(ctx context.Context, method, path string, body, out any) (int, error) {
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("failed to marshal request body: %w", err)
		}
		rd = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, err
	}
	if out != nil && resp.StatusCode < http.StatusBadRequest {
		if err := json.Unmarshal(data, out); err != nil {
			return resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return resp.StatusCode, nil
}

type nameBody struct {
	Name      string `json:"name"`
	LocalSelf bool   `json:"local_self,omitempty"`
}

type membersBody struct {
	Members []string `json:"members"`
}

type membersReply struct {
	Detections []struct {
		Name    string `json:"name"`
		Outcome string `json:"outcome"`
	} `json:"detections"`
}

type counters struct {
	submitted, accepted, rejected, backpressure, failed atomic.Int64
}

// submitEvents posts events concurrently with a bounded worker pool.
func submitEvents(ctx context.Context, cfg *Config, events []Event, stats *Stats) error {
	log := logger.GetOr(logger.Nop())
	log.Info(ctx, "submitting events", logger.Int("events", len(events)), logger.Int("workers", cfg.Workers))

	client := newHTTPClient(cfg.BaseURL, cfg.Timeout)
	var c counters

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(cfg.Workers, 1))
	for _, e := range events {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			submitSingleEvent(gctx, client, e, &c)
			if cfg.Verbose {
				log.Debug(gctx, "event submitted", logger.String("id", e.ID), logger.String("kind", e.Kind.String()))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	stats.Submitted = int(c.submitted.Load())
	stats.Accepted = int(c.accepted.Load())
	stats.Rejected = int(c.rejected.Load())
	stats.Backpressure = int(c.backpressure.Load())
	stats.Failed = int(c.failed.Load())

	log.Info(ctx, "event submission completed",
		logger.Int("accepted", stats.Accepted),
		logger.Int("rejected", stats.Rejected),
		logger.Int("backpressure", stats.Backpressure),
		logger.Int("failed", stats.Failed),
	)
	return ctx.Err()
}

func submitSingleEvent(ctx context.Context, client *HTTPClient, e Event, c *counters) {
	c.submitted.Add(1)

	if e.Kind == KindMembers {
		var reply membersReply
		status, err := client.Do(ctx, http.MethodPut, "/events/channel/members", membersBody{Members: e.Members}, &reply)
		if err != nil || status != http.StatusOK {
			c.failed.Add(1)
			return
		}
		for _, d := range reply.Detections {
			switch d.Outcome {
			case "accepted":
				c.accepted.Add(1)
			case "rejected_backpressure":
				c.backpressure.Add(1)
			default:
				c.rejected.Add(1)
			}
		}
		return
	}

	path := "/events/observed"
	if e.Kind == KindJoin {
		path = "/events/channel/join"
	}
	status, err := client.Do(ctx, http.MethodPost, path, nameBody{Name: e.Name, LocalSelf: e.LocalSelf}, nil)
	switch {
	case err != nil:
		c.failed.Add(1)
	case status == http.StatusAccepted:
		c.accepted.Add(1)
	case status == http.StatusOK:
		c.rejected.Add(1)
	case status == http.StatusTooManyRequests:
		c.backpressure.Add(1)
	default:
		c.failed.Add(1)
	}
}
