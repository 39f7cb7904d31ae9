package search

import (
	"context"
	"errors"
	"net/http"
	"time"

	"golang.org/x/sync/singleflight"

	"zask/internal/config"
	"zask/internal/domain"
	"zask/internal/logging"
)

// DefaultTimeout bounds a single candidate attempt
const DefaultTimeout = 8 * time.Second

// ErrNoBackends is returned by a chain without candidates
var ErrNoBackends = errors.New("no search backends configured")

// ExhaustedError is returned when every candidate failed.
// Its message is the message of the last failure.
type ExhaustedError struct {
	Attempts int
	Last     error
}

func (e *ExhaustedError) Error() string {
	return e.Last.Error()
}

func (e *ExhaustedError) Unwrap() error {
	return e.Last
}

// Result is the outcome of a successful chain lookup
type Result struct {
	Items   []domain.SearchResult
	Backend string
}

// Searcher runs a query to completion
type Searcher interface {
	Search(ctx context.Context, q Query) (Result, error)
}

// Chain tries backends in order and returns the first success. A non-2xx
// answer and a transport error are the same failure: fall through to the
// next candidate with no retry and no backoff.
type Chain struct {
	backends []Backend
	timeout  time.Duration
	sf       singleflight.Group
}

// NewChain creates a chain over backends; timeout applies per candidate
func NewChain(timeout time.Duration, backends ...Backend) *Chain {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Chain{
		backends: backends,
		timeout:  timeout,
	}
}

// NewChainFromEndpoints builds the backends for resolved endpoints
func NewChainFromEndpoints(eps config.Endpoints, client *http.Client, timeout time.Duration) *Chain {
	backends := make([]Backend, 0, len(eps.Candidates))
	for _, ep := range eps.Candidates {
		switch ep.Kind {
		case config.KindREST:
			backends = append(backends, NewRESTBackend(ep.Name, ep.URL, ep.Table, ep.AnonKey, client))
		default:
			backends = append(backends, NewHTTPBackend(ep.Name, ep.URL, client))
		}
	}
	return NewChain(timeout, backends...)
}

// Backends returns the candidate names in order
func (c *Chain) Backends() []string {
	names := make([]string, len(c.backends))
	for i, b := range c.backends {
		names[i] = b.Name()
	}
	return names
}

// Search runs q through the candidates. Identical queries already in flight
// share the same attempt.
func (c *Chain) Search(ctx context.Context, q Query) (Result, error) {
	v, err, _ := c.sf.Do(q.key(), func() (interface{}, error) {
		return c.search(ctx, q)
	})
	if err != nil {
		return Result{}, err
	}
	return v.(Result), nil
}

func (c *Chain) search(ctx context.Context, q Query) (Result, error) {
	if len(c.backends) == 0 {
		return Result{}, &ExhaustedError{Last: ErrNoBackends}
	}

	logger := logging.Ctx(ctx)
	var last error
	attempts := 0

	for _, b := range c.backends {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		attempts++
		start := time.Now()
		attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
		items, err := b.Search(attemptCtx, q)
		cancel()

		if err == nil {
			logger.Debug().
				Str(logging.FieldBackend, b.Name()).
				Str(logging.FieldQuery, q.Text).
				Int(logging.FieldLimit, q.PageSize).
				Int(logging.FieldOffset, q.Offset).
				Int(logging.FieldCount, len(items)).
				Int64(logging.FieldLatency, time.Since(start).Milliseconds()).
				Msg("search succeeded")
			return Result{Items: items, Backend: b.Name()}, nil
		}

		logger.Warn().
			Err(err).
			Str(logging.FieldBackend, b.Name()).
			Str(logging.FieldQuery, q.Text).
			Int64(logging.FieldLatency, time.Since(start).Milliseconds()).
			Msg("search backend failed, trying next")
		last = err
	}

	return Result{}, &ExhaustedError{Attempts: attempts, Last: last}
}
