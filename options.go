package amcards

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/amcards/amcards-go/internal/api"
)

// Version is sent in the User-Agent header.
const Version = "0.3.0"

const (
	defaultBaseURL   = api.DefaultBaseURL
	defaultInitiator = "amcards-go"
)

// BreakerSettings configures the optional circuit breaker.
type BreakerSettings = api.BreakerConfig

// DefaultBreakerSettings returns the breaker defaults: trip when at least
// half of 5 or more requests in a minute fail, stay open for 30 seconds.
func DefaultBreakerSettings() BreakerSettings {
	return api.DefaultBreakerConfig("amcards")
}

// clientConfig holds configuration for the client.
type clientConfig struct {
	baseURL        string
	httpClient     *http.Client
	timeout        time.Duration
	logger         *slog.Logger
	initiator      string
	registerer     prometheus.Registerer
	tracerProvider trace.TracerProvider
	breaker        *BreakerSettings
	limiter        *rate.Limiter
	now            func() time.Time
}

// sendConfig holds the optional parameters of a send.
type sendConfig struct {
	returnAddress Address
	sendDate      string
	sendIfError   bool
}

// listConfig holds the query parameters of a list call.
type listConfig struct {
	limit   int
	offset  int
	filters map[string]string
}

// Option configures the client.
type Option func(*clientConfig)

// SendOption configures a single send or cost calculation.
type SendOption func(*sendConfig)

// ListOption configures a list call.
type ListOption func(*listConfig)

// WithBaseURL sets the API base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *clientConfig) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient sets a custom HTTP client. It takes precedence over
// WithTimeout.
func WithHTTPClient(client *http.Client) Option {
	return func(c *clientConfig) {
		c.httpClient = client
	}
}

// WithTimeout sets the per-request timeout.
// Default: 30 seconds
func WithTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) {
		c.timeout = timeout
	}
}

// WithLogger sets the logger. Requests are logged at debug level.
// Default: discard
func WithLogger(logger *slog.Logger) Option {
	return func(c *clientConfig) {
		c.logger = logger
	}
}

// WithInitiator sets the initiator recorded by the service on every send.
// Default: "amcards-go"
func WithInitiator(initiator string) Option {
	return func(c *clientConfig) {
		c.initiator = initiator
	}
}

// WithMetrics registers request metrics with reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(c *clientConfig) {
		c.registerer = reg
	}
}

// WithTracerProvider sets the OpenTelemetry tracer provider used to create a
// client span per request.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *clientConfig) {
		c.tracerProvider = tp
	}
}

// WithCircuitBreaker wraps the transport in a circuit breaker. 5xx responses
// and network failures count as failures. An open breaker rejects calls with
// ErrCircuitOpen; nothing is ever retried.
func WithCircuitBreaker(settings BreakerSettings) Option {
	return func(c *clientConfig) {
		c.breaker = &settings
	}
}

// WithRateLimit paces outgoing requests to limit per second with the given
// burst. Calls wait for a token until their context is done.
func WithRateLimit(limit rate.Limit, burst int) Option {
	return func(c *clientConfig) {
		c.limiter = rate.NewLimiter(limit, burst)
	}
}

// WithClock sets the clock used to fill the default batch send date.
func WithClock(now func() time.Time) Option {
	return func(c *clientConfig) {
		c.now = now
	}
}

// WithReturnAddress sets the return address printed on the envelope. Only
// the keys present in addr are sent.
func WithReturnAddress(addr Address) SendOption {
	return func(c *sendConfig) {
		c.returnAddress = addr
	}
}

// WithSendDate schedules the send for date, in YYYY-MM-DD form.
func WithSendDate(date string) SendOption {
	return func(c *sendConfig) {
		c.sendDate = date
	}
}

// WithSendIfError lets the remaining recipients of a batch be sent when one
// of them fails. By default the first failure halts the batch.
func WithSendIfError(sendIfError bool) SendOption {
	return func(c *sendConfig) {
		c.sendIfError = sendIfError
	}
}

// WithLimit sets the page size of a list call.
func WithLimit(limit int) ListOption {
	return func(c *listConfig) {
		c.limit = limit
	}
}

// WithOffset sets the number of objects a list call skips.
func WithOffset(offset int) ListOption {
	return func(c *listConfig) {
		c.offset = offset
	}
}

// WithFilter adds a field filter to a list call, for example
// WithFilter("status", "sent").
func WithFilter(field, value string) ListOption {
	return func(c *listConfig) {
		if c.filters == nil {
			c.filters = make(map[string]string)
		}
		c.filters[field] = value
	}
}

func newSendConfig(opts []SendOption) *sendConfig {
	cfg := &sendConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// query renders the list options as query parameters.
func (c *listConfig) query() url.Values {
	q := url.Values{}
	if c.limit > 0 {
		q.Set("limit", strconv.Itoa(c.limit))
	}
	if c.offset > 0 {
		q.Set("offset", strconv.Itoa(c.offset))
	}
	for field, value := range c.filters {
		q.Set(field, value)
	}
	return q
}

func newListConfig(opts []ListOption) *listConfig {
	cfg := &listConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
