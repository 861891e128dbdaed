package transport

import (
	"github.com/rs/zerolog"

	"outbound/config"
	"outbound/internal/metrics"
)

// Select maps a configuration snapshot onto exactly one backend.
// This is the single dispatch point, invoked once per facade
// construction; the decision is never re-evaluated afterwards.
//
// A nil Backend with a nil error means "no override": the facade runs
// on the process's generic default transport.
//
//	DisablePooledTransport  ForceIPv4  →  backend
//	true                    true          IPv4Backend
//	true                    false         nil (system default)
//	false                   either        PooledBackend
func Select(cfg *config.Settings, logger zerolog.Logger, stats *metrics.Collector) (Backend, error) {
	switch {
	case cfg.DisablePooledTransport && cfg.ForceIPv4:
		logger.Debug().Msg("selecting ipv4 backend")
		return NewIPv4Backend(cfg, logger)

	case cfg.DisablePooledTransport:
		logger.Debug().Msg("pooled backend disabled, using system default transport")
		return nil, nil

	default:
		logger.Debug().Msg("selecting pooled backend")
		return NewPooledBackend(cfg, logger, stats)
	}
}
