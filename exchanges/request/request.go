// Package request provides a rate-limited, retrying HTTP transport shared by
// every exchange implementation.
package request

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
)

// Defaults for the requester
const (
	MaxRetryAttempts = 3
	drainBodyLimit   = 100000
	userAgentHeader  = "User-Agent"
)

var (
	errRequestSystemIsNil   = errors.New("request system is nil")
	errRequestFunctionIsNil = errors.New("request function is nil")
	errRequestItemNil       = errors.New("request item is nil")
	errInvalidPath          = errors.New("invalid path")

	// ErrFailedToRetryRequest is returned when retry attempts are exhausted
	ErrFailedToRetryRequest = errors.New("failed to retry request")
)

// Item is a temporary holder for a single request's parameters. Generate
// closures return a fresh Item per attempt so nonces and signatures are
// never reused across retries.
type Item struct {
	Method  string
	Path    string
	Headers map[string]string
	Body    io.Reader
	Result  any
	Verbose bool
}

// Generate defines a closure for the requester to generate a new request
// item on each attempt
type Generate func() (*Item, error)

// RetryPolicy determines whether a failed attempt may be retried
type RetryPolicy func(resp *http.Response, err error) (retry bool, checkErr error)

// Backoff returns how long to wait before retry attempt n
type Backoff func(n int) time.Duration

// Requester struct for the request client
type Requester struct {
	name        string
	httpClient  *http.Client
	limiter     Limiter
	userAgent   string
	backoff     Backoff
	retryPolicy RetryPolicy
	maxRetries  int
	log         *logrus.Entry
}

// RequesterOption is a function option for the Requester constructor
type RequesterOption func(*Requester)

// WithLimiter applies a rate limiter to the requester
func WithLimiter(l Limiter) RequesterOption {
	return func(r *Requester) { r.limiter = l }
}

// WithUserAgent sets the outbound user agent
func WithUserAgent(ua string) RequesterOption {
	return func(r *Requester) { r.userAgent = ua }
}

// WithBackoff replaces the default exponential backoff
func WithBackoff(b Backoff) RequesterOption {
	return func(r *Requester) { r.backoff = b }
}

// WithRetryPolicy replaces the default retry policy
func WithRetryPolicy(p RetryPolicy) RequesterOption {
	return func(r *Requester) { r.retryPolicy = p }
}

// New returns a new Requester
func New(name string, httpClient *http.Client, opts ...RequesterOption) *Requester {
	r := &Requester{
		name:        name,
		httpClient:  httpClient,
		backoff:     DefaultBackoff(),
		retryPolicy: DefaultRetryPolicy,
		maxRetries:  MaxRetryAttempts,
		log:         logrus.WithField("requester", name),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// DefaultBackoff is exponential from 100ms doubling per attempt
func DefaultBackoff() Backoff {
	return func(n int) time.Duration {
		return time.Duration(math.Pow(2, float64(n-1))) * 100 * time.Millisecond
	}
}

// DefaultRetryPolicy retries on transport errors, 429 and 5xx responses.
// Application-level failures inside a 200 envelope are never retried here.
func DefaultRetryPolicy(resp *http.Response, err error) (bool, error) {
	if err != nil {
		return true, nil
	}
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
		return true, nil
	}
	return false, nil
}

// HTTPError is returned for responses outside the 2xx range. The body is
// retained so callers can classify exchange-specific failure envelopes that
// arrive with transport-level status codes.
type HTTPError struct {
	Status int
	Body   []byte
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("unsuccessful HTTP status code: %d raw response: %s", e.Status, e.Body)
}

// RetryAfter interprets the response Retry-After header, either as a delay
// in seconds or an HTTP date
func RetryAfter(resp *http.Response, now time.Time) time.Duration {
	if resp == nil {
		return 0
	}
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.ParseInt(h, 10, 64); err == nil {
		return time.Duration(secs) * time.Second
	}
	if when, err := time.Parse(time.RFC1123, h); err == nil {
		if d := when.Sub(now); d > 0 {
			return d
		}
	}
	return 0
}

func (i *Item) validateRequest(ctx context.Context, r *Requester) (*http.Request, error) {
	if i == nil {
		return nil, errRequestItemNil
	}
	if i.Path == "" {
		return nil, errInvalidPath
	}

	req, err := http.NewRequestWithContext(ctx, i.Method, i.Path, i.Body)
	if err != nil {
		return nil, err
	}
	for k, v := range i.Headers {
		req.Header.Set(k, v)
	}
	if r.userAgent != "" && req.Header.Get(userAgentHeader) == "" {
		req.Header.Set(userAgentHeader, r.userAgent)
	}
	return req, nil
}

// SendPayload handles sending HTTP/HTTPS requests
func (r *Requester) SendPayload(ctx context.Context, ep EndpointLimit, newRequest Generate) error {
	if r == nil {
		return errRequestSystemIsNil
	}
	if newRequest == nil {
		return errRequestFunctionIsNil
	}
	return r.doRequest(ctx, ep, newRequest)
}

func (r *Requester) doRequest(ctx context.Context, endpoint EndpointLimit, newRequest Generate) error {
	for attempt := 1; ; attempt++ {
		if err := r.InitiateRateLimit(ctx, endpoint); err != nil {
			return err
		}

		p, err := newRequest()
		if err != nil {
			return err
		}

		req, err := p.validateRequest(ctx, r)
		if err != nil {
			return err
		}

		if p.Verbose {
			r.log.Debugf("attempt %d %s %s", attempt, p.Method, p.Path)
			for k, v := range req.Header {
				r.log.Debugf("request header [%s]: %s", k, v)
			}
		}

		resp, err := r.httpClient.Do(req)
		var contents []byte
		if err == nil {
			contents, err = io.ReadAll(io.LimitReader(resp.Body, drainBodyLimit))
			resp.Body.Close()
			if err != nil {
				return err
			}
		}

		retry, checkErr := r.retryPolicy(resp, err)
		if checkErr != nil {
			return checkErr
		}
		if retry {
			if attempt > r.maxRetries {
				if err != nil {
					return fmt.Errorf("%w, err: %w", ErrFailedToRetryRequest, err)
				}
				return fmt.Errorf("%w: %w", ErrFailedToRetryRequest, &HTTPError{Status: resp.StatusCode, Body: contents})
			}

			delay := r.backoff(attempt)
			if after := RetryAfter(resp, time.Now()); after > delay {
				delay = after
			}

			if d, ok := req.Context().Deadline(); ok && time.Now().Add(delay).After(d) {
				if err != nil {
					return fmt.Errorf("deadline would be exceeded by retry, err: %w", err)
				}
				return fmt.Errorf("deadline would be exceeded by retry: %w", &HTTPError{Status: resp.StatusCode, Body: contents})
			}

			if p.Verbose {
				r.log.Warnf("request failed, retrying in %s, attempt %d", delay, attempt)
			}

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			continue
		}

		if resp.StatusCode < http.StatusOK || resp.StatusCode > http.StatusAccepted {
			return &HTTPError{Status: resp.StatusCode, Body: contents}
		}

		if p.Verbose {
			r.log.Debugf("HTTP status: %s, raw response: %s", resp.Status, string(contents))
		}

		if p.Result != nil {
			return json.Unmarshal(contents, p.Result)
		}
		return nil
	}
}
