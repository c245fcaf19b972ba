package mapbox

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	gobreaker "github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/samirrijal/milelog/internal/core/domain"
	"github.com/samirrijal/milelog/internal/pkg/metrics"
	"github.com/samirrijal/milelog/internal/pkg/telemetry"
)

// maxBodyBytes bounds provider responses; static images are well below this.
const maxBodyBytes = 8 << 20

type response struct {
	body        []byte
	contentType string
}

// Client performs outbound Mapbox requests with per-attempt timeouts,
// exponential-backoff retries on transient failures and a circuit breaker.
type Client struct {
	http       *http.Client
	cb         *gobreaker.CircuitBreaker[*response]
	maxRetries uint64
	newBackOff func() backoff.BackOff
}

// NewClient creates a Client. timeout applies to each attempt.
func NewClient(timeout time.Duration, maxRetries int) *Client {
	c := &Client{
		http:       &http.Client{Timeout: timeout},
		maxRetries: uint64(maxRetries),
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 200 * time.Millisecond
			b.MaxInterval = 2 * time.Second
			b.MaxElapsedTime = 3 * timeout
			return b
		},
	}

	c.cb = gobreaker.NewCircuitBreaker[*response](gobreaker.Settings{
		Name:        "mapbox",
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
		// Rejections and callers giving up say nothing about provider health.
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, domain.ErrProviderRejected) ||
				errors.Is(err, context.Canceled) ||
				errors.Is(err, context.DeadlineExceeded)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
		},
	})
	return c
}

// FetchImage downloads a rendered static map.
func (c *Client) FetchImage(ctx context.Context, rawURL string) (*domain.MapImage, error) {
	resp, err := c.get(ctx, "static_image", rawURL)
	if err != nil {
		return nil, err
	}
	return &domain.MapImage{ContentType: resp.contentType, Data: resp.body}, nil
}

// get performs a GET through the breaker and retry loop.
func (c *Client) get(ctx context.Context, operation, rawURL string) (*response, error) {
	if err := ctx.Err(); err != nil {
		metrics.ProviderRequests.WithLabelValues(operation, outcome(err)).Inc()
		return nil, err
	}

	ctx, span := telemetry.Tracer("mapbox").Start(ctx, "mapbox."+operation)
	defer span.End()

	start := time.Now()
	resp, err := c.cb.Execute(func() (*response, error) {
		var out *response
		op := func() error {
			r, err := c.do(ctx, rawURL)
			if err != nil {
				if errors.Is(err, domain.ErrProviderRejected) || ctx.Err() != nil {
					return backoff.Permanent(err)
				}
				return err
			}
			out = r
			return nil
		}
		b := backoff.WithContext(backoff.WithMaxRetries(c.newBackOff(), c.maxRetries), ctx)
		if err := backoff.Retry(op, b); err != nil {
			return nil, err
		}
		return out, nil
	})
	metrics.ProviderDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			err = fmt.Errorf("%w: circuit open", domain.ErrProviderUnavailable)
		}
		metrics.ProviderRequests.WithLabelValues(operation, outcome(err)).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	metrics.ProviderRequests.WithLabelValues(operation, "success").Inc()
	span.SetAttributes(attribute.Int("mapbox.response_bytes", len(resp.body)))
	return resp, nil
}

func (c *Client) do(ctx context.Context, rawURL string) (*response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", domain.ErrProviderRejected, err)
	}

	res, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		// url.Error embeds the full URL, token included.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", domain.ErrProviderUnavailable, err)
	}

	if res.StatusCode != http.StatusOK {
		return nil, statusError(res.StatusCode, body)
	}
	return &response{body: body, contentType: res.Header.Get("Content-Type")}, nil
}

func outcome(err error) string {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	case errors.Is(err, domain.ErrProviderRejected):
		return "rejected"
	case errors.Is(err, domain.ErrProviderUnavailable):
		return "unavailable"
	default:
		return "error"
	}
}
