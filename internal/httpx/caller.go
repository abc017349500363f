// Package httpx provides a resilient JSON-over-HTTP caller with bounded
// retries and exponential backoff, for upstream endpoints that fail
// transiently under real network conditions.
package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"
)

// Defaults match the behaviour the vision endpoint was tuned against:
// five attempts, a fixed 90s budget per attempt, and 1s/2s/4s/8s pauses
// between them.
const (
	DefaultMaxAttempts    = 5
	DefaultAttemptTimeout = 90 * time.Second
	DefaultBackoffBase    = 1 * time.Second
)

// Config controls the retry behaviour of a Caller.
type Config struct {
	MaxAttempts    int           // total attempts, including the first (0 = default)
	AttemptTimeout time.Duration // per-attempt deadline, independent of the caller's context (0 = default)
	BackoffBase    time.Duration // first pause; doubles each further attempt (0 = default)
}

// Caller issues JSON POST requests with bounded retries. Every failure
// class is retried the same way: timeouts, connection errors, and non-2xx
// statuses alike. After the last attempt the most recent error propagates.
type Caller struct {
	client         *http.Client
	maxAttempts    int
	attemptTimeout time.Duration
	backoffBase    time.Duration

	// sleep waits between attempts. Swapped out in tests to avoid
	// real wall-clock delays.
	sleep func(ctx context.Context, d time.Duration) error
}

// New creates a Caller with the given configuration, filling in defaults
// for zero values.
func New(cfg Config) *Caller {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.AttemptTimeout <= 0 {
		cfg.AttemptTimeout = DefaultAttemptTimeout
	}
	if cfg.BackoffBase <= 0 {
		cfg.BackoffBase = DefaultBackoffBase
	}

	return &Caller{
		client:         &http.Client{},
		maxAttempts:    cfg.MaxAttempts,
		attemptTimeout: cfg.AttemptTimeout,
		backoffBase:    cfg.BackoffBase,
		sleep:          waitFor,
	}
}

// PostJSON marshals payload, POSTs it to url, and returns the raw response
// body of the first successful attempt. Failed attempts are retried with
// exponential backoff until the attempt budget is exhausted, at which
// point the last error is returned.
func (c *Caller) PostJSON(ctx context.Context, url string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshalling request payload: %w", err)
	}

	// The schedule yields backoffBase, 2x, 4x, ... and stops after
	// maxAttempts-1 pauses, so exactly maxAttempts requests go out.
	schedule := retry.WithMaxRetries(uint64(c.maxAttempts-1), retry.NewExponential(c.backoffBase))

	for {
		data, err := c.attempt(ctx, url, body)
		if err == nil {
			return data, nil
		}

		delay, stop := schedule.Next()
		if stop {
			return nil, err
		}
		if serr := c.sleep(ctx, delay); serr != nil {
			return nil, serr
		}
	}
}

// attempt issues one request under the per-attempt timeout. Any non-2xx/3xx
// status is an error; the transport decides nothing about retryability.
func (c *Caller) attempt(ctx context.Context, url string, body []byte) ([]byte, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.attemptTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("upstream returned status %d: %s", resp.StatusCode, truncateBody(data))
	}

	return data, nil
}

// waitFor blocks for d or until the context is cancelled.
func waitFor(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

const maxErrorBodyLen = 512

func truncateBody(data []byte) string {
	if len(data) > maxErrorBodyLen {
		return string(data[:maxErrorBodyLen]) + "..."
	}
	return string(data)
}
