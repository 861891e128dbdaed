// Package transport selects and constructs the outbound backend that
// moves bytes for a facade: a pooled connector with explicit TLS
// context, a standard IPv4-constrained transport, or no override at
// all.  Backends handle the "how" of reaching an upstream (socket
// pooling, TLS, DNS family, optional bastion egress) independent of
// what travels over the connection, which is the facade's caller's
// job.
package transport

import (
	"context"
	"net"
	"net/http"

	"github.com/rs/zerolog"

	"outbound/config"
	"outbound/internal/tunnel"
)

// Backend is a fixed transport handle owned by exactly one facade.
// Implementations are safe for concurrent use by multiple goroutines.
type Backend interface {
	http.RoundTripper

	// Close releases any long-lived resources held by the backend
	// (socket pools, bastion tunnels).  Idempotent.
	Close() error
}

// dialFunc is the DialContext shape net/http's Transport expects.
type dialFunc func(ctx context.Context, network, address string) (net.Conn, error)

// newDialFunc builds the dial path shared by every backend: a plain
// net.Dialer, or the bastion tunnel when one is configured, with the
// address family pinned to IPv4 when requested.  The returned closer
// is nil unless a tunnel owns resources.
func newDialFunc(cfg *config.Settings, logger zerolog.Logger) (dialFunc, func() error) {
	network := "tcp"
	if cfg.ForceIPv4 {
		network = "tcp4"
	}

	if cfg.TunnelEnabled {
		td := tunnel.NewDialer(&tunnel.SSHConfig{
			User:          cfg.TunnelUser,
			Host:          cfg.TunnelHost,
			Port:          cfg.TunnelPort,
			KeyPath:       cfg.SSHKeyPath,
			KeyPassphrase: cfg.SSHPassphrase,
			UseAgent:      cfg.UseSSHAgent,
			StrictHostKey: cfg.StrictHostKey,
			KnownHosts:    cfg.KnownHosts,
			ConnTimeout:   cfg.ConnectTimeout,
		}, logger)

		dial := func(ctx context.Context, _, address string) (net.Conn, error) {
			return td.DialContext(ctx, network, address)
		}
		return dial, td.Close
	}

	d := &net.Dialer{
		Timeout:   cfg.ConnectTimeout,
		KeepAlive: config.DefaultKeepAlive,
	}
	dial := func(ctx context.Context, _, address string) (net.Conn, error) {
		return d.DialContext(ctx, network, address)
	}
	return dial, nil
}
