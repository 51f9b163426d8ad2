package external

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/freelansire/hrh/internal/domain"
	"github.com/freelansire/hrh/pkg/logging"
	"github.com/freelansire/hrh/pkg/metrics"
	"github.com/freelansire/hrh/pkg/resilience"
	"github.com/freelansire/hrh/pkg/tracing"
)

// ErrMissingAPIKey is returned without calling out when a credential is not configured
var ErrMissingAPIKey = errors.New("api key is not configured")

// maxErrorBody bounds how much of an unexpected response body ends up in errors
const maxErrorBody = 512

// Call outcomes reported to metrics
const (
	OutcomeSuccess  = "success"
	OutcomeError    = "error"
	OutcomeNotFound = "not_found"
	OutcomeRejected = "rejected"
)

// StatusError is an unexpected HTTP status from a third-party API
type StatusError struct {
	Service    string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s returned status %d", e.Service, e.StatusCode)
	}
	return fmt.Sprintf("%s returned status %d: %s", e.Service, e.StatusCode, e.Body)
}

// CheckStatus returns a StatusError for any non-200 response
func CheckStatus(service string, resp *http.Response) error {
	if resp.StatusCode == http.StatusOK {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &StatusError{
		Service:    service,
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(body)),
	}
}

// Outcome classifies a call result for metrics
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case resilience.IsRejection(err):
		return OutcomeRejected
	case errors.Is(err, domain.ErrNoRoute):
		return OutcomeNotFound
	default:
		return OutcomeError
	}
}

// Caller runs calls to one third-party API through its circuit breaker,
// bounded by a timeout, inside a span, and reports them to logs and metrics.
type Caller struct {
	service string
	host    string
	timeout time.Duration
	breaker *resilience.CircuitBreaker
	tracer  trace.Tracer
	logger  *logging.Logger
	metrics *metrics.Metrics
}

// NewCaller creates a Caller. breaker and m may be nil; a zero timeout
// leaves the caller's context deadline in charge.
func NewCaller(
	service, endpoint string,
	timeout time.Duration,
	breaker *resilience.CircuitBreaker,
	logger *logging.Logger,
	m *metrics.Metrics,
) *Caller {
	host := endpoint
	if u, err := url.Parse(endpoint); err == nil && u.Host != "" {
		host = u.Host
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Caller{
		service: service,
		host:    host,
		timeout: timeout,
		breaker: breaker,
		tracer:  tracing.Tracer("hrh/external/" + service),
		logger:  logger,
		metrics: m,
	}
}

// Service returns the API name used in logs, metrics and spans
func (c *Caller) Service() string {
	return c.service
}

// Do executes fn once. There is no retry: user actions call each API at most once.
func Do[T any](ctx context.Context, c *Caller, operation, method string, fn func(ctx context.Context) (T, error)) (T, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	result, err := tracing.TracedOperation(ctx, c.tracer, c.service+"."+operation,
		func(ctx context.Context) (T, error) {
			return resilience.Run(ctx, c.breaker, func() (T, error) {
				return fn(ctx)
			})
		},
		tracing.ExternalCallSpanAttributes(c.service, method, c.host)...,
	)
	duration := time.Since(start)

	c.logger.ExternalCall(ctx, c.service, operation, duration, err)
	if c.metrics != nil {
		c.metrics.RecordExternalCall(c.service, Outcome(err), duration)
	}

	return result, err
}
