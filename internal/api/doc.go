// Package api provides the HTTP transport for the AMcards REST API. It handles
// bearer authentication, JSON request/response serialization, and mapping of
// HTTP status codes to the domain errors in package apierrors.
//
// # Requests
//
// Every call sends exactly one HTTP request. The client never retries: card
// sends are not idempotent, and a retried send can mail a second card. Each
// request carries a fresh X-Request-ID header, which is echoed in errors and
// logs.
//
// # Status Mapping
//
// [CheckStatus] turns a non-2xx [Response] into an [apierrors.Error]. The
// mapping depends on the [Operation]:
//
//   - 401 on any operation: authentication failure.
//   - 402 on a send: insufficient credits.
//   - 403 on a send: the template or campaign is not owned by the account.
//   - 409 on a campaign send: duplicate send not allowed by the campaign.
//   - 403 or 404 on a get-by-id: the resource is not owned by the account.
//
// Any other non-2xx status on a send maps to that operation's send failure;
// elsewhere it maps to [apierrors.KindUnexpectedStatus].
//
// # Optional Middleware
//
// A [Config] may add a circuit breaker (sony/gobreaker), a client-side rate
// limiter (x/time/rate), Prometheus [Metrics] and an OpenTelemetry tracer
// provider. All of them are off by default.
//
// # Thread Safety
//
// The [Client] type is safe for concurrent use.
package api
