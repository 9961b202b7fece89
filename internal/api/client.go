package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/time/rate"

	"github.com/amcards/amcards-go/internal/apierrors"
)

// Default configuration values.
const (
	DefaultBaseURL   = "https://amcards.com"
	DefaultTimeout   = 30 * time.Second
	DefaultUserAgent = "amcards-go"

	// maxBodySize bounds how much of a response body is read.
	maxBodySize = 1 << 20
)

// Config holds configuration for creating a new API client.
type Config struct {
	BaseURL        string
	AccessToken    string
	HTTPClient     *http.Client
	Timeout        time.Duration
	UserAgent      string
	Logger         *slog.Logger
	Metrics        *Metrics
	TracerProvider trace.TracerProvider
	Breaker        *BreakerConfig
	Limiter        *rate.Limiter
}

// Client is the HTTP API client. It sends exactly one HTTP request per call
// and never retries.
type Client struct {
	baseURL     string
	accessToken string
	userAgent   string
	httpClient  *http.Client
	logger      *slog.Logger
	metrics     *Metrics
	tracer      trace.Tracer
	breaker     *gobreaker.CircuitBreaker[*Response]
	limiter     *rate.Limiter
}

// NewClient creates a new API client from cfg.
func NewClient(cfg Config) (*Client, error) {
	if cfg.AccessToken == "" {
		return nil, apierrors.ErrMissingAccessToken
	}

	c := &Client{
		baseURL:     cfg.BaseURL,
		accessToken: cfg.AccessToken,
		userAgent:   cfg.UserAgent,
		httpClient:  cfg.HTTPClient,
		logger:      cfg.Logger,
		metrics:     cfg.Metrics,
		limiter:     cfg.Limiter,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if _, err := url.Parse(c.baseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", c.baseURL, err)
	}
	if c.userAgent == "" {
		c.userAgent = DefaultUserAgent
	}
	if c.httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		c.httpClient = &http.Client{Timeout: timeout}
	}
	if c.logger == nil {
		c.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	tp := cfg.TracerProvider
	if tp == nil {
		tp = noop.NewTracerProvider()
	}
	c.tracer = tp.Tracer(tracerName)

	if cfg.Breaker != nil {
		c.breaker = newBreaker(*cfg.Breaker, c.logger, c.metrics)
	}

	return c, nil
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Request describes one call to the service.
type Request struct {
	Operation Operation
	Method    string
	Path      string
	Query     url.Values
	Body      any
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Body       []byte
	RequestID  string
}

// Do sends req and returns the raw response. It does not interpret the
// status code; that is CheckStatus's job. A nil error with a non-2xx status
// is normal.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	var body []byte
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		body = data
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	requestID := uuid.NewString()
	ctx, span := c.startSpan(ctx, req, requestID)
	defer span.End()

	start := time.Now()
	resp, err := c.execute(ctx, req, body, requestID)
	elapsed := time.Since(start)

	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	c.metrics.observe(req.Operation, status, elapsed)
	endSpan(span, status, err)

	log := withTraceContext(ctx, c.logger)
	if err != nil {
		log.DebugContext(ctx, "amcards request failed",
			slog.String("operation", string(req.Operation)),
			slog.String("method", req.Method),
			slog.String("path", req.Path),
			slog.String("request_id", requestID),
			slog.Duration("duration", elapsed),
			slog.Any("error", err),
		)
		return nil, err
	}

	log.DebugContext(ctx, "amcards request",
		slog.String("operation", string(req.Operation)),
		slog.String("method", req.Method),
		slog.String("path", req.Path),
		slog.Int("status", status),
		slog.String("request_id", requestID),
		slog.Duration("duration", elapsed),
	)
	return resp, nil
}

// execute runs the round trip, through the breaker when one is configured.
func (c *Client) execute(ctx context.Context, req Request, body []byte, requestID string) (*Response, error) {
	if c.breaker == nil {
		return c.roundTrip(ctx, req, body, requestID)
	}

	resp, err := c.breaker.Execute(func() (*Response, error) {
		resp, err := c.roundTrip(ctx, req, body, requestID)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= 500 {
			return nil, &serverError{resp: resp}
		}
		return resp, nil
	})

	// A 5xx counts against the breaker but is still handed to the caller.
	var se *serverError
	if errors.As(err, &se) {
		return se.resp, nil
	}
	return resp, err
}

func (c *Client) roundTrip(ctx context.Context, req Request, body []byte, requestID string) (*Response, error) {
	u := c.baseURL + req.Path
	if len(req.Query) > 0 {
		u += "?" + req.Query.Encode()
	}

	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Authorization", "Bearer "+c.accessToken)
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set("X-Request-ID", requestID)
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &apierrors.NetworkError{Err: err, URL: u, RequestID: requestID}
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(httpResp.Body, maxBodySize))
	if err != nil {
		return nil, &apierrors.NetworkError{Err: fmt.Errorf("read response body: %w", err), URL: u, RequestID: requestID}
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Body:       data,
		RequestID:  requestID,
	}, nil
}

// serverError carries a 5xx response through the breaker as a failure.
type serverError struct {
	resp *Response
}

func (e *serverError) Error() string {
	return fmt.Sprintf("server error %d", e.resp.StatusCode)
}
