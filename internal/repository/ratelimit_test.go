package repository

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.WarnLevel)
	return zap.New(core), logs
}

func TestRateLimitTransport(t *testing.T) {
	t.Run("Should retry once after a primary rate limit", func(t *testing.T) {
		var hits atomic.Int32
		var bodies []string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)
			bodies = append(bodies, string(body))
			if hits.Add(1) == 1 {
				w.Header().Set("X-RateLimit-Remaining", "0")
				w.Header().Set("Retry-After", "0")
				w.WriteHeader(http.StatusForbidden)
				return
			}
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()
		log, logs := newObservedLogger()
		client := &http.Client{Transport: NewRateLimitTransport(nil, log, time.Second)}
		req, err := http.NewRequest(http.MethodPost, server.URL, strings.NewReader("payload"))
		require.NoError(t, err)
		resp, err := client.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, int32(2), hits.Load())
		assert.Equal(t, []string{"payload", "payload"}, bodies)
		assert.Equal(t, 1, logs.FilterMessage("Request quota exhausted, retrying").Len())
	})
	t.Run("Should give up after the single retry", func(t *testing.T) {
		var hits atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			hits.Add(1)
			w.Header().Set("X-RateLimit-Remaining", "0")
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer server.Close()
		log, logs := newObservedLogger()
		client := &http.Client{Transport: NewRateLimitTransport(nil, log, time.Millisecond)}
		resp, err := client.Get(server.URL)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
		assert.Equal(t, int32(2), hits.Load())
		assert.Equal(t, 1, logs.FilterMessage("Request quota exhausted").Len())
	})
	t.Run("Should only warn on a secondary rate limit", func(t *testing.T) {
		var hits atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			hits.Add(1)
			w.Header().Set("X-RateLimit-Remaining", "4999")
			w.Header().Set("Retry-After", "60")
			w.WriteHeader(http.StatusForbidden)
		}))
		defer server.Close()
		log, logs := newObservedLogger()
		client := &http.Client{Transport: NewRateLimitTransport(nil, log, time.Second)}
		resp, err := client.Get(server.URL)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		assert.Equal(t, int32(1), hits.Load())
		assert.Equal(t, 1, logs.FilterMessage("Secondary rate limit detected").Len())
	})
	t.Run("Should pass other responses through", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()
		log, logs := newObservedLogger()
		client := &http.Client{Transport: NewRateLimitTransport(nil, log, time.Second)}
		resp, err := client.Get(server.URL)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, 0, logs.Len())
	})
}

func TestRateLimitTransport_ResetDelay(t *testing.T) {
	tr := &rateLimitTransport{maxWait: 10 * time.Second}
	t.Run("Should prefer Retry-After", func(t *testing.T) {
		resp := &http.Response{Header: http.Header{}}
		resp.Header.Set("Retry-After", "3")
		assert.Equal(t, 3*time.Second, tr.resetDelay(resp))
	})
	t.Run("Should cap the wait", func(t *testing.T) {
		resp := &http.Response{Header: http.Header{}}
		resp.Header.Set("Retry-After", "3600")
		assert.Equal(t, 10*time.Second, tr.resetDelay(resp))
	})
	t.Run("Should not wait for a reset in the past", func(t *testing.T) {
		resp := &http.Response{Header: http.Header{}}
		resp.Header.Set("X-RateLimit-Reset", "1")
		assert.Equal(t, time.Duration(0), tr.resetDelay(resp))
	})
}
