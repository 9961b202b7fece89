package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"golang.org/x/time/rate"

	"github.com/amcards/amcards-go/internal/apierrors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, mutate ...func(*Config)) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := Config{BaseURL: server.URL, AccessToken: "test-token"}
	for _, m := range mutate {
		m(&cfg)
	}
	client, err := NewClient(cfg)
	require.NoError(t, err)
	return client
}

func TestNewClient_RequiresAccessToken(t *testing.T) {
	_, err := NewClient(Config{})
	assert.ErrorIs(t, err, apierrors.ErrMissingAccessToken)
}

func TestNewClient_DefaultValues(t *testing.T) {
	client, err := NewClient(Config{AccessToken: "test-token"})
	require.NoError(t, err)

	assert.Equal(t, DefaultBaseURL, client.BaseURL())
	assert.Equal(t, DefaultUserAgent, client.userAgent)
	assert.Equal(t, DefaultTimeout, client.httpClient.Timeout)
	assert.NotNil(t, client.logger)
	assert.Nil(t, client.breaker)
	assert.Equal(t, gobreaker.StateClosed, client.BreakerState())
}

func TestNewClient_CustomValues(t *testing.T) {
	httpClient := &http.Client{Timeout: time.Minute}
	client, err := NewClient(Config{
		AccessToken: "test-token",
		BaseURL:     "https://staging.amcards.com",
		HTTPClient:  httpClient,
		UserAgent:   "my-app/1.0",
	})
	require.NoError(t, err)

	assert.Equal(t, "https://staging.amcards.com", client.BaseURL())
	assert.Same(t, httpClient, client.httpClient)
	assert.Equal(t, "my-app/1.0", client.userAgent)
}

func TestNewClient_InvalidBaseURL(t *testing.T) {
	_, err := NewClient(Config{AccessToken: "test-token", BaseURL: "://bad"})
	assert.Error(t, err)
}

func TestClient_Do_Headers(t *testing.T) {
	var got http.Header
	var gotQuery string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		gotQuery = r.URL.RawQuery
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{}`))
	})

	resp, err := client.Do(context.Background(), Request{
		Operation: OpListCards,
		Method:    http.MethodGet,
		Path:      "/.api/v1/card/",
		Query:     map[string][]string{"limit": {"5"}},
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearer test-token", got.Get("Authorization"))
	assert.Equal(t, "application/json", got.Get("Accept"))
	assert.Equal(t, DefaultUserAgent, got.Get("User-Agent"))
	assert.Empty(t, got.Get("Content-Type"))
	assert.NotEmpty(t, got.Get("X-Request-ID"))
	assert.Equal(t, got.Get("X-Request-ID"), resp.RequestID)
	assert.Equal(t, "limit=5", gotQuery)
}

func TestClient_Do_WithBody(t *testing.T) {
	var body map[string]any
	var contentType string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &body)
		w.WriteHeader(http.StatusCreated)
	})

	resp, err := client.Do(context.Background(), Request{
		Operation: OpSendCard,
		Method:    http.MethodPost,
		Path:      "/cards/open-card-form-oa/",
		Body:      map[string]any{"template_id": 77},
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "application/json", contentType)
	assert.Equal(t, float64(77), body["template_id"])
}

func TestClient_Do_UniqueRequestIDs(t *testing.T) {
	seen := map[string]bool{}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		seen[r.Header.Get("X-Request-ID")] = true
	})

	for n := 0; n < 3; n++ {
		_, err := client.Do(context.Background(), Request{Operation: OpGetUser, Method: http.MethodGet, Path: "/"})
		require.NoError(t, err)
	}
	assert.Len(t, seen, 3)
}

func TestClient_Do_NoRetryOnServerError(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	resp, err := client.Do(context.Background(), Request{Operation: OpSendCard, Method: http.MethodPost, Path: "/"})
	require.NoError(t, err)

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_Do_ContextCancellation(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Do(ctx, Request{Operation: OpGetUser, Method: http.MethodGet, Path: "/"})
	require.Error(t, err)

	var netErr *apierrors.NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotEmpty(t, netErr.RequestID)
}

func TestClient_Do_MarshalError(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	})

	_, err := client.Do(context.Background(), Request{
		Operation: OpSendCard,
		Method:    http.MethodPost,
		Path:      "/",
		Body:      map[string]any{"bad": make(chan int)},
	})
	assert.Error(t, err)
	assert.Zero(t, calls.Load())
}

func TestClient_Do_RateLimiter(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}, func(cfg *Config) {
		cfg.Limiter = rate.NewLimiter(rate.Every(time.Hour), 1)
	})

	_, err := client.Do(context.Background(), Request{Operation: OpGetUser, Method: http.MethodGet, Path: "/"})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = client.Do(ctx, Request{Operation: OpGetUser, Method: http.MethodGet, Path: "/"})
	assert.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_Do_CircuitBreakerOpens(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}, func(cfg *Config) {
		bc := DefaultBreakerConfig("test")
		bc.MinRequests = 2
		bc.Timeout = time.Hour
		cfg.Breaker = &bc
	})

	for n := 0; n < 2; n++ {
		resp, err := client.Do(context.Background(), Request{Operation: OpGetUser, Method: http.MethodGet, Path: "/"})
		require.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	}
	assert.Equal(t, gobreaker.StateOpen, client.BreakerState())

	_, err := client.Do(context.Background(), Request{Operation: OpGetUser, Method: http.MethodGet, Path: "/"})
	assert.True(t, errors.Is(err, ErrCircuitOpen))
	assert.Equal(t, int32(2), calls.Load())
}

func TestClient_Do_CircuitBreakerIgnoresClientErrors(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}, func(cfg *Config) {
		bc := DefaultBreakerConfig("test")
		bc.MinRequests = 1
		cfg.Breaker = &bc
	})

	for n := 0; n < 3; n++ {
		_, err := client.Do(context.Background(), Request{Operation: OpGetTemplate, Method: http.MethodGet, Path: "/"})
		require.NoError(t, err)
	}
	assert.Equal(t, gobreaker.StateClosed, client.BreakerState())
}

func TestClient_Do_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics, err := NewMetrics(reg)
	require.NoError(t, err)

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
	}, func(cfg *Config) {
		cfg.Metrics = metrics
	})

	_, err = client.Do(context.Background(), Request{Operation: OpSendCard, Method: http.MethodPost, Path: "/"})
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.requests.WithLabelValues("send_card", "402")))
	assert.Equal(t, 1, testutil.CollectAndCount(metrics.duration))
}

func TestNewMetrics_SharedRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewMetrics(reg)
	require.NoError(t, err)
	second, err := NewMetrics(reg)
	require.NoError(t, err)

	assert.Same(t, first.requests, second.requests)
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.observe(OpGetUser, 200, time.Second)
		m.breakerState("x", gobreaker.StateOpen)
	})
}

func TestClient_Do_Tracing(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}, func(cfg *Config) {
		cfg.TracerProvider = tp
	})

	_, err := client.Do(context.Background(), Request{Operation: OpGetCard, Method: http.MethodGet, Path: "/.api/v1/card/9/"})
	require.NoError(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "amcards.get_card", spans[0].Name())
	assert.Equal(t, "Error", spans[0].Status().Code.String())

	attrs := map[string]any{}
	for _, kv := range spans[0].Attributes() {
		attrs[string(kv.Key)] = kv.Value.AsInterface()
	}
	assert.Equal(t, "GET", attrs["http.request.method"])
	assert.Equal(t, int64(404), attrs["http.response.status_code"])
}

func TestClient_Do_BodyLimit(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(make([]byte, maxBodySize+100))
	})

	resp, err := client.Do(context.Background(), Request{Operation: OpGetUser, Method: http.MethodGet, Path: "/"})
	require.NoError(t, err)
	assert.Len(t, resp.Body, maxBodySize)
}
