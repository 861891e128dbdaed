package transport

import (
	"net/http"

	"github.com/rs/zerolog"

	"outbound/config"
	oberr "outbound/internal/errors"
)

// IPv4Backend is the standard transport constrained to IPv4-only
// address resolution.  It carries no lazy state: the connector is
// built eagerly at construction and failures there are fatal.
type IPv4Backend struct {
	connector *http.Transport
	closeTun  func() error
	logger    zerolog.Logger
}

// NewIPv4Backend builds the IPv4-constrained standard backend.
func NewIPv4Backend(cfg *config.Settings, logger zerolog.Logger) (*IPv4Backend, error) {
	tlsConf, err := BuildTLSConfig(cfg.SSLVerify, cfg.TLSConfig, cfg.SecurityLevel)
	if err != nil {
		return nil, oberr.Construction("tls-context", err)
	}

	dial, closeTun := newDialFunc(cfg, logger)

	connector := &http.Transport{
		DialContext:           dial,
		TLSClientConfig:       tlsConf,
		TLSHandshakeTimeout:   config.DefaultTLSHandshakeTimeout,
		ResponseHeaderTimeout: cfg.ReadTimeout,
		MaxIdleConns:          config.DefaultMaxIdleConns,
		MaxIdleConnsPerHost:   config.DefaultMaxIdleConnsPerHost,
		IdleConnTimeout:       config.DefaultIdleConnTimeout,
		Proxy:                 http.ProxyFromEnvironment,
	}

	logger.Debug().Msg("ipv4 backend constructed")

	return &IPv4Backend{
		connector: connector,
		closeTun:  closeTun,
		logger:    logger,
	}, nil
}

// RoundTrip forwards the request over the IPv4-only connector.
func (b *IPv4Backend) RoundTrip(req *http.Request) (*http.Response, error) {
	return b.connector.RoundTrip(req)
}

// Close drains the idle socket pool.  Idempotent.
func (b *IPv4Backend) Close() error {
	b.connector.CloseIdleConnections()
	if b.closeTun != nil {
		return b.closeTun()
	}
	return nil
}
