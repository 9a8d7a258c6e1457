package request

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRequester(opts ...RequesterOption) *Requester {
	opts = append([]RequesterOption{WithBackoff(func(int) time.Duration { return time.Millisecond })}, opts...)
	return New("test", &http.Client{Timeout: 5 * time.Second}, opts...)
}

func TestSendPayloadDecodesResult(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"greeting":"hello"}`))
	}))
	defer srv.Close()

	var result struct {
		Greeting string `json:"greeting"`
	}
	err := testRequester().SendPayload(context.Background(), Unset, func() (*Item, error) {
		return &Item{Method: http.MethodGet, Path: srv.URL, Result: &result}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "hello", result.Greeting)
}

func TestSendPayloadRegeneratesPerAttempt(t *testing.T) {
	t.Parallel()
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&hits, 1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	var generated int32
	err := testRequester().SendPayload(context.Background(), Unset, func() (*Item, error) {
		atomic.AddInt32(&generated, 1)
		return &Item{Method: http.MethodGet, Path: srv.URL}, nil
	})
	require.NoError(t, err)
	assert.EqualValues(t, 3, atomic.LoadInt32(&hits))
	// Signatures and nonces are produced inside Generate, so each attempt
	// must invoke it anew
	assert.EqualValues(t, 3, atomic.LoadInt32(&generated))
}

func TestSendPayloadRetriesExhausted(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`rate limited`))
	}))
	defer srv.Close()

	err := testRequester().SendPayload(context.Background(), Unset, func() (*Item, error) {
		return &Item{Method: http.MethodGet, Path: srv.URL}, nil
	})
	assert.ErrorIs(t, err, ErrFailedToRetryRequest)

	// The final response survives in the chain so callers can still
	// classify the failure
	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusTooManyRequests, httpErr.Status)
}

func TestSendPayloadHTTPError(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"rc":1,"mc":"COMMON_003"}`))
	}))
	defer srv.Close()

	err := testRequester().SendPayload(context.Background(), Unset, func() (*Item, error) {
		return &Item{Method: http.MethodGet, Path: srv.URL}, nil
	})
	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Contains(t, string(httpErr.Body), "COMMON_003")
}

func TestSendPayloadNilChecks(t *testing.T) {
	t.Parallel()
	var r *Requester
	assert.ErrorIs(t, r.SendPayload(context.Background(), Unset, nil), errRequestSystemIsNil)
	assert.ErrorIs(t, testRequester().SendPayload(context.Background(), Unset, nil), errRequestFunctionIsNil)
	err := testRequester().SendPayload(context.Background(), Unset, func() (*Item, error) {
		return &Item{Method: http.MethodGet}, nil
	})
	assert.ErrorIs(t, err, errInvalidPath)
	wantErr := errors.New("generation failed")
	err = testRequester().SendPayload(context.Background(), Unset, func() (*Item, error) {
		return nil, wantErr
	})
	assert.ErrorIs(t, err, wantErr)
}

func TestRetryAfter(t *testing.T) {
	t.Parallel()
	now := time.Now()
	resp := &http.Response{Header: http.Header{}}
	assert.Zero(t, RetryAfter(nil, now))
	assert.Zero(t, RetryAfter(resp, now))

	resp.Header.Set("Retry-After", "2")
	assert.Equal(t, 2*time.Second, RetryAfter(resp, now))

	resp.Header.Set("Retry-After", now.Add(3*time.Second).UTC().Format(time.RFC1123))
	after := RetryAfter(resp, now)
	assert.Greater(t, after, time.Second)
}

func TestEndpointLimits(t *testing.T) {
	t.Parallel()
	const limited EndpointLimit = 1
	limits := EndpointLimits{limited: NewRateLimit(time.Second, 1)}

	// Unknown endpoints pass straight through
	require.NoError(t, limits.Limit(context.Background(), EndpointLimit(99)))

	start := time.Now()
	require.NoError(t, limits.Limit(context.Background(), limited))
	require.NoError(t, limits.Limit(context.Background(), limited))
	assert.GreaterOrEqual(t, time.Since(start), 500*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, limits.Limit(ctx, limited))
}
