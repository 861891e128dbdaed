package tunnel

import (
	"context"
	"fmt"
	"net"
	"sync"

	"github.com/rs/zerolog"
)

// Dialer adapts a Tunnel to the DialContext shape net/http's
// Transport expects.  The tunnel is connected lazily on the first
// Dial call and torn down on Close, so constructing a backend with a
// bastion configured performs no network I/O by itself.
type Dialer struct {
	tunnel    Tunnel
	config    *SSHConfig
	logger    zerolog.Logger
	mu        sync.Mutex
	connected bool
}

// NewDialer creates a dialer that forwards upstream connections
// through the bastion.  The tunnel is not connected until the first
// Dial.
func NewDialer(cfg *SSHConfig, logger zerolog.Logger) *Dialer {
	return &Dialer{
		tunnel: NewSSHTunnel(cfg, logger),
		config: cfg,
		logger: logger,
	}
}

// connect establishes the tunnel if not already connected.  Reconnects
// transparently when the bastion dropped the previous connection.
func (d *Dialer) connect(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.connected && d.tunnel.IsAlive() {
		return nil
	}

	d.logger.Debug().
		Str("bastion", fmt.Sprintf("%s:%d", d.config.Host, d.config.Port)).
		Msg("establishing egress tunnel")

	if err := d.tunnel.Connect(ctx); err != nil {
		return fmt.Errorf("tunnel: %w", err)
	}

	d.connected = true
	return nil
}

// DialContext connects to address through the bastion, lazily
// establishing the tunnel on the first call.
func (d *Dialer) DialContext(ctx context.Context, network, address string) (net.Conn, error) {
	if err := d.connect(ctx); err != nil {
		return nil, err
	}
	return d.tunnel.Dial(ctx, network, address)
}

// Close tears down the underlying tunnel.  Safe to call repeatedly.
func (d *Dialer) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.connected {
		d.connected = false
		return d.tunnel.Close()
	}
	return nil
}
