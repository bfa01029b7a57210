package repository

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
)

// DefaultMaxRateLimitWait caps how long a request waits for a primary rate limit to reset.
const DefaultMaxRateLimitWait = 60 * time.Second

var errRateLimited = errors.New("rate limit exceeded")

// rateLimitTransport retries a request once after a primary rate limit and
// only reports secondary (abuse) limits.
type rateLimitTransport struct {
	base    http.RoundTripper
	log     *zap.Logger
	maxWait time.Duration
}

// NewRateLimitTransport wraps base with rate limit handling.
func NewRateLimitTransport(base http.RoundTripper, log *zap.Logger, maxWait time.Duration) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &rateLimitTransport{base: base, log: log, maxWait: maxWait}
}

func (t *rateLimitTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	var (
		resp    *http.Response
		wait    time.Duration
		attempt int
	)
	backoff := retry.WithMaxRetries(1, retry.BackoffFunc(func() (time.Duration, bool) {
		return wait, false
	}))
	err := retry.Do(req.Context(), backoff, func(_ context.Context) error {
		attempt++
		r := req
		var err error
		if attempt > 1 {
			if r, err = rewindRequest(req); err != nil {
				return err
			}
		}
		resp, err = t.base.RoundTrip(r)
		if err != nil {
			return err
		}
		switch {
		case isPrimaryRateLimit(resp):
			wait = t.resetDelay(resp)
			if attempt > 1 || !replayable(req) {
				t.log.Warn("Request quota exhausted",
					zap.String("method", req.Method),
					zap.String("url", req.URL.String()))
				return nil
			}
			t.log.Warn("Request quota exhausted, retrying",
				zap.String("method", req.Method),
				zap.String("url", req.URL.String()),
				zap.Duration("retry_after", wait))
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()
			return retry.RetryableError(errRateLimited)
		case isSecondaryRateLimit(resp):
			t.log.Warn("Secondary rate limit detected",
				zap.String("method", req.Method),
				zap.String("url", req.URL.String()))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// resetDelay reads Retry-After, then X-RateLimit-Reset, bounded by maxWait.
func (t *rateLimitTransport) resetDelay(resp *http.Response) time.Duration {
	var d time.Duration
	if secs, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil {
		d = time.Duration(secs) * time.Second
	} else if epoch, err := strconv.ParseInt(resp.Header.Get("X-RateLimit-Reset"), 10, 64); err == nil {
		d = time.Until(time.Unix(epoch, 0))
	}
	if d < 0 {
		d = 0
	}
	if t.maxWait > 0 && d > t.maxWait {
		d = t.maxWait
	}
	return d
}

func isPrimaryRateLimit(resp *http.Response) bool {
	if resp.StatusCode != http.StatusForbidden && resp.StatusCode != http.StatusTooManyRequests {
		return false
	}
	return resp.Header.Get("X-RateLimit-Remaining") == "0"
}

func isSecondaryRateLimit(resp *http.Response) bool {
	if resp.StatusCode != http.StatusForbidden && resp.StatusCode != http.StatusTooManyRequests {
		return false
	}
	return resp.Header.Get("Retry-After") != ""
}

func replayable(req *http.Request) bool {
	return req.Body == nil || req.Body == http.NoBody || req.GetBody != nil
}

func rewindRequest(req *http.Request) (*http.Request, error) {
	r := req.Clone(req.Context())
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, err
		}
		r.Body = body
	}
	return r, nil
}
