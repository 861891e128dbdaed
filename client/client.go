// Package client exposes the caller-facing request facade of the
// outbound layer.  A Client owns exactly one transport backend, fixed
// at construction time; every request is forwarded through that
// handle until Close.
package client

import (
	"context"
	"io"
	"net/http"
	"sync"

	"github.com/rs/zerolog"

	"outbound/config"
	oberr "outbound/internal/errors"
	"outbound/internal/metrics"
	"outbound/internal/transport"
)

// Client is the synchronous facade.  Safe for concurrent use: all
// requests share the backend's connection pool with no ordering
// guarantee relative to each other.
type Client struct {
	cfg     *config.Settings
	backend transport.Backend // nil → system default transport
	httpc   *http.Client
	logger  zerolog.Logger
	stats   *metrics.Collector

	mu     sync.Mutex
	closed bool
}

// New builds a facade from an immutable configuration snapshot.
// Transport selection happens exactly once, here; construction
// failures of the TLS context or connector surface as a
// *errors.ConstructionError and are fatal.
func New(cfg *config.Settings, logger zerolog.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	stats := metrics.New()
	backend, err := transport.Select(cfg, logger, stats)
	if err != nil {
		return nil, err
	}

	var rt http.RoundTripper = http.DefaultTransport
	if backend != nil {
		rt = backend
	}

	return &Client{
		cfg:     cfg,
		backend: backend,
		httpc:   &http.Client{Transport: rt},
		logger:  logger,
		stats:   stats,
	}, nil
}

// Do sends the request through the fixed backend and returns the
// response or a classified *errors.RequestError.  Errors are never
// swallowed or retried here; retry policy belongs to the layer
// above.
//
// When ctx carries no deadline and the configured read timeout is
// positive, a per-request deadline is applied.  Deadline expiry
// aborts only this request; the shared session is untouched, so
// concurrent requests on the same facade are unaffected.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	cancel := func() {}
	if _, ok := ctx.Deadline(); !ok && c.cfg.ReadTimeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, c.cfg.ReadTimeout)
	}

	c.stats.RequestStarted()
	defer c.stats.RequestFinished()

	resp, err := c.httpc.Do(req.WithContext(ctx))
	if err != nil {
		cancel()
		werr := oberr.WrapRequest("send", req.URL.String(), err)
		c.stats.RecordFailure(failureKind(werr.Kind), werr.Error())
		c.logger.Debug().Err(werr).Str("kind", werr.Kind.String()).Msg("request failed")
		return nil, werr
	}

	// The deadline must survive until the body is consumed.
	resp.Body = &cancelBody{ReadCloser: resp.Body, cancel: cancel}
	return resp, nil
}

// Get issues a GET request to url.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	return c.Do(ctx, req)
}

// Post issues a POST request with the given content type and body.
func (c *Client) Post(ctx context.Context, url, contentType string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodPost, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	return c.Do(ctx, req)
}

// Metrics returns a point-in-time snapshot of the facade's counters.
func (c *Client) Metrics() metrics.Snapshot {
	return c.stats.Snapshot()
}

// Close releases the backend's resources.  Safe to call repeatedly
// and before any request was ever issued; never errors for
// already-closed resources.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true

	if c.backend != nil {
		return c.backend.Close()
	}
	return nil
}

// failureKind maps the error taxonomy onto metric buckets.
func failureKind(k oberr.Kind) metrics.FailureKind {
	switch k {
	case oberr.KindTLS:
		return metrics.FailTLS
	case oberr.KindTimeout:
		return metrics.FailTimeout
	default:
		return metrics.FailConnection
	}
}

// cancelBody releases the per-request deadline when the caller
// finishes reading the response.
type cancelBody struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (b *cancelBody) Close() error {
	err := b.ReadCloser.Close()
	b.cancel()
	return err
}
