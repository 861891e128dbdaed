package client

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"outbound/config"
)

// Result carries the outcome of an asynchronous send.  Exactly one of
// Response and Err is set.
type Result struct {
	Response *http.Response
	Err      error
}

// AsyncClient is the fire-and-collect variant of the facade.  Every
// Do returns immediately with a channel that yields one Result when
// the network settles; completion order across calls matches network
// scheduling, not issue order.  All in-flight sends share the same
// backend session.
type AsyncClient struct {
	c *Client
}

// NewAsync builds an asynchronous facade over the same transport
// selection and lifecycle as [New].
func NewAsync(cfg *config.Settings, logger zerolog.Logger) (*AsyncClient, error) {
	c, err := New(cfg, logger)
	if err != nil {
		return nil, err
	}
	return &AsyncClient{c: c}, nil
}

// Do sends the request on its own goroutine and returns a channel
// yielding exactly one Result.  The channel is buffered, so an
// abandoned result never leaks the goroutine.
func (a *AsyncClient) Do(ctx context.Context, req *http.Request) <-chan Result {
	ch := make(chan Result, 1)
	go func() {
		resp, err := a.c.Do(ctx, req)
		ch <- Result{Response: resp, Err: err}
	}()
	return ch
}

// Get issues an asynchronous GET request to url.
func (a *AsyncClient) Get(ctx context.Context, url string) <-chan Result {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		ch := make(chan Result, 1)
		ch <- Result{Err: err}
		return ch
	}
	return a.Do(ctx, req)
}

// Sync returns the underlying synchronous facade, sharing the same
// backend and metrics.
func (a *AsyncClient) Sync() *Client { return a.c }

// Close releases the shared backend.  Idempotent.
func (a *AsyncClient) Close() error { return a.c.Close() }
