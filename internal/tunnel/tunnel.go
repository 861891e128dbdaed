// Package tunnel routes outbound upstream connections through an SSH
// egress bastion, backed by golang.org/x/crypto/ssh.
//
// A gateway deployment that is not allowed to open direct egress can
// point the transport layer at a bastion; every backend then dials
// upstream hosts with ssh.Client.Dial instead of a local net.Dialer.
package tunnel

import (
	"context"
	"net"
)

// Tunnel abstracts an encrypted channel through which upstream TCP
// connections are forwarded.
type Tunnel interface {
	// Connect establishes the tunnel to the bastion.
	Connect(ctx context.Context) error

	// Dial opens a connection to address through the tunnel.
	Dial(ctx context.Context, network, address string) (net.Conn, error)

	// Close tears down the tunnel and frees resources.
	Close() error

	// IsAlive reports whether the underlying connection is still up.
	IsAlive() bool
}
