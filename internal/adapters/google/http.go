package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"
)

// Google web service status values that are worth retrying.
const (
	statusOK             = "OK"
	statusZeroResults    = "ZERO_RESULTS"
	statusOverQueryLimit = "OVER_QUERY_LIMIT"
	statusUnknownError   = "UNKNOWN_ERROR"
)

type httpStatusError struct {
	Code int
	Body string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("Code %d: %s", e.Code, e.Body)
}

// apiStatusError is a 200 response whose payload status is not OK.
type apiStatusError struct {
	Status  string
	Message string
}

func (e *apiStatusError) Error() string {
	if e.Message == "" {
		return "google api status " + e.Status
	}
	return fmt.Sprintf("google api status %s: %s", e.Status, e.Message)
}

// client is the shared HTTP plumbing for Google web services: key injection,
// retry with exponential backoff and a circuit breaker per service.
type client struct {
	session *http.Client
	apiKey  string
	baseURL string
	breaker *gobreaker.CircuitBreaker

	maxAttempts int
	backoff     time.Duration
}

func newClient(name, apiKey, baseURL string, httpClient *http.Client) (*client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%s: api key is empty", name)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	return &client{
		session:     httpClient,
		apiKey:      apiKey,
		baseURL:     strings.TrimRight(baseURL, "/"),
		breaker:     breaker,
		maxAttempts: 4,
		backoff:     200 * time.Millisecond,
	}, nil
}

func (c *client) newRequest(ctx context.Context, path string, query url.Values) (*http.Request, error) {
	q := url.Values{}
	for k, v := range query {
		q[k] = v
	}
	q.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func (c *client) do(req *http.Request) (*http.Response, error) {
	resp, err := c.session.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, &httpStatusError{
			Code: resp.StatusCode,
			Body: strings.TrimSpace(string(b)),
		}
	}
	return resp, nil
}

// getJSON issues a GET with retries and decodes the body into out.
// Transient failures (network errors, 429/5xx, OVER_QUERY_LIMIT) are retried
// with exponential backoff while respecting context cancellation.
func (c *client) getJSON(ctx context.Context, path string, query url.Values, out statusCarrier) error {
	backoff := c.backoff
	var lastErr error

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		_, err := c.breaker.Execute(func() (interface{}, error) {
			return nil, c.fetch(ctx, path, query, out)
		})
		if err == nil {
			return nil
		}
		lastErr = err

		if !retryable(err) || attempt == c.maxAttempts {
			return lastErr
		}

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		backoff *= 2
	}

	return lastErr
}

func (c *client) fetch(ctx context.Context, path string, query url.Values, out statusCarrier) error {
	req, err := c.newRequest(ctx, path, query)
	if err != nil {
		return err
	}

	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	// Retries reuse out; drop whatever an earlier attempt decoded.
	out.reset()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	status, msg := out.apiStatus()
	switch status {
	case statusOK, statusZeroResults:
		return nil
	default:
		return &apiStatusError{Status: status, Message: msg}
	}
}

func retryable(err error) bool {
	var he *httpStatusError
	if errors.As(err, &he) {
		switch he.Code {
		case 429, 500, 502, 503, 504:
			return true
		}
		return false
	}

	var ae *apiStatusError
	if errors.As(err, &ae) {
		return ae.Status == statusOverQueryLimit || ae.Status == statusUnknownError
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}

// statusCarrier is implemented by every Google response envelope.
type statusCarrier interface {
	apiStatus() (status string, message string)
	reset()
}
