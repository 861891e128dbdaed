package transport

import (
	"crypto/tls"
	"net/http"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/net/http2"

	"outbound/config"
	oberr "outbound/internal/errors"
	"outbound/internal/metrics"
)

// Session is the pooled backend's persistent unit: one connector
// (socket pool) plus the environment-trust decision resolved when it
// was created.  At most one live Session exists per PooledBackend.
type Session struct {
	connector *http.Transport
	tlsConf   *tls.Config
	trustEnv  bool
	open      bool // guarded by the owning backend's mutex
}

// TrustEnv reports whether the session honors system proxy settings.
func (s *Session) TrustEnv() bool { return s.trustEnv }

// TLSConfig returns the TLS configuration the connector was bound to.
func (s *Session) TLSConfig() *tls.Config { return s.tlsConf }

// PooledBackend is the alternate transport: a lazily created,
// connection-reusing session shared by every request forwarded
// through the same facade.
type PooledBackend struct {
	cfg      *config.Settings
	logger   zerolog.Logger
	stats    *metrics.Collector
	closeTun func() error

	mu      sync.Mutex
	session *Session
}

// NewPooledBackend constructs the pooled backend.  The TLS context is
// built once here so that bundle corruption or a bad security-level
// directive fails facade construction rather than the first request;
// a fresh context is then rebuilt for each session.
func NewPooledBackend(cfg *config.Settings, logger zerolog.Logger, stats *metrics.Collector) (*PooledBackend, error) {
	if _, err := BuildTLSConfig(cfg.SSLVerify, cfg.TLSConfig, cfg.SecurityLevel); err != nil {
		return nil, oberr.Construction("tls-context", err)
	}

	logger.Debug().Msg("pooled backend constructed")

	return &PooledBackend{
		cfg:    cfg,
		logger: logger,
		stats:  stats,
	}, nil
}

// getSession returns the live session, creating it on first use.  The
// mutex makes concurrent first calls observe exactly one session;
// after Close the next call produces a new, distinct one.
func (p *PooledBackend) getSession() (*Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.session != nil && p.session.open {
		return p.session, nil
	}

	s, closeTun, err := p.newSession()
	if err != nil {
		return nil, err
	}

	p.session = s
	p.closeTun = closeTun
	p.stats.SessionCreated()
	p.logger.Debug().Bool("trust_env", s.trustEnv).Msg("session created")

	return s, nil
}

// newSession builds the connector and resolves the environment-trust
// flag.  Called with the mutex held.
func (p *PooledBackend) newSession() (*Session, func() error, error) {
	tlsConf, err := BuildTLSConfig(p.cfg.SSLVerify, p.cfg.TLSConfig, p.cfg.SecurityLevel)
	if err != nil {
		return nil, nil, oberr.Construction("tls-context", err)
	}

	dial, closeTun := newDialFunc(p.cfg, p.logger)

	connector := &http.Transport{
		DialContext:           dial,
		TLSClientConfig:       tlsConf,
		TLSHandshakeTimeout:   config.DefaultTLSHandshakeTimeout,
		ResponseHeaderTimeout: p.cfg.ReadTimeout,
		MaxIdleConns:          config.DefaultMaxIdleConns,
		MaxIdleConnsPerHost:   config.DefaultMaxIdleConnsPerHost,
		IdleConnTimeout:       config.DefaultIdleConnTimeout,
	}

	trustEnv := config.ResolveTrustEnv(p.cfg.TrustEnv)
	if trustEnv {
		connector.Proxy = http.ProxyFromEnvironment
	}

	// Explicit HTTP/2 with connection health checks: long-lived
	// streaming responses otherwise hang on silently dead upstream
	// connections.
	if h2, err := http2.ConfigureTransports(connector); err == nil {
		h2.ReadIdleTimeout = config.DefaultKeepAlive
		h2.PingTimeout = config.DefaultTLSHandshakeTimeout
	} else {
		return nil, nil, oberr.Construction("connector", err)
	}

	return &Session{
		connector: connector,
		tlsConf:   tlsConf,
		trustEnv:  trustEnv,
		open:      true,
	}, closeTun, nil
}

// RoundTrip forwards the request over the shared session, creating it
// on first use.
func (p *PooledBackend) RoundTrip(req *http.Request) (*http.Response, error) {
	s, err := p.getSession()
	if err != nil {
		return nil, err
	}
	return s.connector.RoundTrip(req)
}

// Close releases the live session and any bastion tunnel.  Idempotent
// and a no-op when no session was ever created.  A later RoundTrip
// lazily materializes a fresh session.
func (p *PooledBackend) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.session == nil || !p.session.open {
		return nil
	}

	p.session.open = false
	p.session.connector.CloseIdleConnections()
	p.stats.SessionClosed()
	p.logger.Debug().Msg("session closed")

	if p.closeTun != nil {
		err := p.closeTun()
		p.closeTun = nil
		return err
	}
	return nil
}
