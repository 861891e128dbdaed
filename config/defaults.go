package config

import "time"

// ── Default values ───────────────────────────────────────────────────
//
// All tuneable defaults live here so they are easy to audit and reuse
// across CLI flags, config file parsing, and environment variable
// loading.

const (
	// DefaultSSHPort is the standard SSH port for the egress bastion.
	DefaultSSHPort = 22

	// DefaultConnectTimeout is the TCP connect deadline for upstream
	// dials.
	DefaultConnectTimeout = 30 * time.Second

	// DefaultReadTimeout bounds how long a request waits for upstream
	// response headers.
	DefaultReadTimeout = 60 * time.Second

	// DefaultTLSHandshakeTimeout bounds the TLS handshake with an
	// upstream host.
	DefaultTLSHandshakeTimeout = 10 * time.Second

	// DefaultKeepAlive is the TCP keep-alive interval on upstream
	// connections.
	DefaultKeepAlive = 30 * time.Second

	// DefaultMaxIdleConns is the total idle connection budget of the
	// pooled backend across all upstream hosts.
	DefaultMaxIdleConns = 100

	// DefaultMaxIdleConnsPerHost raises the per-host idle budget from
	// net/http's default of 2, which starves gateway workloads that
	// fan many concurrent callers into a handful of upstreams.
	DefaultMaxIdleConnsPerHost = 10

	// DefaultIdleConnTimeout is how long an idle upstream connection
	// stays in the pool before being closed.
	DefaultIdleConnTimeout = 90 * time.Second
)

// ── Environment variable names ───────────────────────────────────────
//
// The TLS and trust-env variables keep the names the wider ecosystem
// already sets; everything else uses the OUTBOUND_ prefix.

const (
	// EnvSecurityLevel overlays Settings.SecurityLevel.
	EnvSecurityLevel = "SSL_SECURITY_LEVEL"

	// EnvTrustEnv forces the session trust-env flag on when set to the
	// literal "True".  Any other value defers to the configured
	// default, including the literal "False".
	EnvTrustEnv = "AIOHTTP_TRUST_ENV"
)
