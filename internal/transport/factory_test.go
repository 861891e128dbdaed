package transport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"outbound/config"
	oberr "outbound/internal/errors"
	"outbound/util"
)

// The decision table is total: every flag combination maps to exactly
// one backend (or explicitly to no override at all).
func TestSelectDecisionTable(t *testing.T) {
	logger := util.Nop()

	t.Run("disabled pool with ipv4 forcing", func(t *testing.T) {
		cfg := config.New()
		cfg.DisablePooledTransport = true
		cfg.ForceIPv4 = true

		b, err := Select(cfg, logger, nil)
		require.NoError(t, err)
		assert.IsType(t, &IPv4Backend{}, b)
	})

	t.Run("disabled pool without ipv4 forcing", func(t *testing.T) {
		cfg := config.New()
		cfg.DisablePooledTransport = true

		b, err := Select(cfg, logger, nil)
		require.NoError(t, err)
		assert.Nil(t, b, "no override: the system default transport applies")
	})

	t.Run("pooled regardless of ipv4 flag", func(t *testing.T) {
		for _, ipv4 := range []bool{false, true} {
			cfg := config.New()
			cfg.ForceIPv4 = ipv4

			b, err := Select(cfg, logger, nil)
			require.NoError(t, err)
			assert.IsType(t, &PooledBackend{}, b)
			require.NoError(t, b.Close())
		}
	})
}

// The pooled backend's session must carry a TLS context with peer
// verification disabled when the configuration says so.
func TestSelectPooledNoVerify(t *testing.T) {
	cfg := config.New()
	cfg.SSLVerify = false

	b, err := Select(cfg, util.Nop(), nil)
	require.NoError(t, err)
	pooled := b.(*PooledBackend)
	defer pooled.Close()

	s, err := pooled.getSession()
	require.NoError(t, err)
	assert.True(t, s.TLSConfig().InsecureSkipVerify)
}

func TestSelectConstructionFailureIsFatal(t *testing.T) {
	cfg := config.New()
	cfg.SecurityLevel = "DEFAULT@SECLEVEL=9"

	_, err := Select(cfg, util.Nop(), nil)
	require.Error(t, err)

	var ce *oberr.ConstructionError
	assert.ErrorAs(t, err, &ce)
}
