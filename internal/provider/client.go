// Package provider adapts the API-Football v3 REST API to the shapes the
// prediction engine consumes.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "https://api-football-v1.p.rapidapi.com/v3"
	DefaultHost    = "api-football-v1.p.rapidapi.com"
)

var (
	// ErrNotConfigured is returned by every call when no API key is set.
	ErrNotConfigured = errors.New("api-football: no api key configured")
	// ErrNotFound means the provider answered but had no matching entity.
	ErrNotFound = errors.New("api-football: not found")
)

// APIError is a non-success answer from the provider.
type APIError struct {
	Endpoint   string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api-football %s: status %d: %s", e.Endpoint, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api-football %s: status %d", e.Endpoint, e.StatusCode)
}

func (e *APIError) retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

var providerRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "lineup_provider_requests_total",
	Help: "Requests sent to the football data provider by endpoint and status",
}, []string{"endpoint", "status"})

// Config configures the API-Football client
type Config struct {
	APIKey            string
	BaseURL           string
	Host              string
	Timeout           time.Duration
	MaxRetries        int
	RetryBackoff      time.Duration
	RequestsPerSecond float64
	Burst             int
	HTTPClient        *http.Client
	Logger            *zap.Logger
}

// Client talks to API-Football. It is safe for concurrent use; the rate
// limiter and circuit breaker are shared by all requests.
type Client struct {
	cfg     Config
	http    *http.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
	logger  *zap.SugaredLogger
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Host == "" {
		cfg.Host = DefaultHost
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = 500 * time.Millisecond
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 5
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 10
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	logger := cfg.Logger.Sugar()

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "api-football",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			var apiErr *APIError
			if errors.As(err, &apiErr) {
				return !apiErr.retryable()
			}
			return err == nil || errors.Is(err, ErrNotFound) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warnw("Circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	})

	return &Client{
		cfg:     cfg,
		http:    httpClient,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		breaker: breaker,
		logger:  logger,
	}
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool {
	return c.cfg.APIKey != ""
}

type envelope struct {
	Errors   json.RawMessage `json:"errors"`
	Results  int             `json:"results"`
	Paging   paging          `json:"paging"`
	Response json.RawMessage `json:"response"`
}

type paging struct {
	Current int `json:"current"`
	Total   int `json:"total"`
}

// providerMessage extracts an error message from the "errors" field, which
// is an empty array on success and an object or array of strings otherwise.
func providerMessage(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("[]")) || bytes.Equal(raw, []byte("{}")) || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var byKey map[string]string
	if err := json.Unmarshal(raw, &byKey); err == nil && len(byKey) > 0 {
		keys := make([]string, 0, len(byKey))
		for k := range byKey {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		msgs := make([]string, len(keys))
		for i, k := range keys {
			msgs[i] = k + ": " + byKey[k]
		}
		return strings.Join(msgs, "; ")
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil && len(list) > 0 {
		return list[0]
	}
	return string(raw)
}

// fetch performs one GET and decodes the "response" array into []T.
func fetch[T any](ctx context.Context, c *Client, endpoint string, params url.Values) ([]T, paging, error) {
	env, err := c.get(ctx, endpoint, params)
	if err != nil {
		return nil, paging{}, err
	}
	var out []T
	if len(env.Response) > 0 {
		if err := json.Unmarshal(env.Response, &out); err != nil {
			return nil, env.Paging, fmt.Errorf("api-football %s: decode response: %w", endpoint, err)
		}
	}
	return out, env.Paging, nil
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values) (*envelope, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}
	res, err := c.breaker.Execute(func() (interface{}, error) {
		return c.getWithRetry(ctx, endpoint, params)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			providerRequests.WithLabelValues(endpoint, "breaker_open").Inc()
		}
		return nil, err
	}
	return res.(*envelope), nil
}

func (c *Client) getWithRetry(ctx context.Context, endpoint string, params url.Values) (*envelope, error) {
	var lastErr error
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			wait := c.cfg.RetryBackoff * time.Duration(1<<(attempt-1))
			c.logger.Warnw("Retrying provider request", "endpoint", endpoint, "attempt", attempt, "wait", wait, "error", lastErr)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
			}
		}

		env, err := c.do(ctx, endpoint, params)
		if err == nil {
			return env, nil
		}
		lastErr = err
		if !retryable(err) || ctx.Err() != nil {
			return nil, err
		}
	}
	return nil, lastErr
}

func retryable(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.retryable()
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, io.ErrUnexpectedEOF)
}

func (c *Client) do(ctx context.Context, endpoint string, params url.Values) (*envelope, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	u := c.cfg.BaseURL + endpoint
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("api-football %s: build request: %w", endpoint, err)
	}
	req.Header.Set("X-RapidAPI-Key", c.cfg.APIKey)
	req.Header.Set("X-RapidAPI-Host", c.cfg.Host)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		providerRequests.WithLabelValues(endpoint, "error").Inc()
		return nil, fmt.Errorf("api-football %s: %w", endpoint, err)
	}
	defer resp.Body.Close()
	providerRequests.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &APIError{Endpoint: endpoint, StatusCode: resp.StatusCode, Message: string(bytes.TrimSpace(body))}
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("api-football %s: decode: %w", endpoint, err)
	}
	if msg := providerMessage(env.Errors); msg != "" {
		return nil, &APIError{Endpoint: endpoint, StatusCode: resp.StatusCode, Message: msg}
	}
	return &env, nil
}
