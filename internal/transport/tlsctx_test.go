package transport

import (
	"crypto/tls"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"outbound/config"
)

func TestBuildTLSConfigDefault(t *testing.T) {
	t.Setenv(config.EnvSecurityLevel, "")

	tc, err := BuildTLSConfig(true, nil, "")
	require.NoError(t, err)

	assert.False(t, tc.InsecureSkipVerify)
	assert.NotNil(t, tc.RootCAs, "roots must come from the bundled certificate set")
	assert.Zero(t, tc.MinVersion, "no directive leaves the platform default floor")
}

func TestBuildTLSConfigFreshPerCall(t *testing.T) {
	a, err := BuildTLSConfig(true, nil, "")
	require.NoError(t, err)
	b, err := BuildTLSConfig(true, nil, "")
	require.NoError(t, err)

	assert.NotSame(t, a, b, "each call must return a fresh instance")
	assert.NotNil(t, a.RootCAs)
	assert.NotNil(t, b.RootCAs)
}

func TestBuildTLSConfigNoVerify(t *testing.T) {
	tc, err := BuildTLSConfig(false, nil, "")
	require.NoError(t, err)

	// The exact trust decision of any no-verification client: skip
	// peer and hostname checks, no root pool loaded.
	assert.True(t, tc.InsecureSkipVerify)
	assert.Nil(t, tc.RootCAs)
}

func TestBuildTLSConfigCustomCarriedOver(t *testing.T) {
	custom := &tls.Config{ServerName: "pinned.example.com"}

	tc, err := BuildTLSConfig(true, custom, "")
	require.NoError(t, err)
	assert.NotSame(t, custom, tc, "the caller's object must not be handed out for mutation")
	assert.Equal(t, "pinned.example.com", tc.ServerName)
	assert.Nil(t, tc.RootCAs, "no bundle loading for a pre-built config")
	assert.False(t, tc.InsecureSkipVerify)
}

func TestBuildTLSConfigSecurityLevelFloor(t *testing.T) {
	tc, err := BuildTLSConfig(true, nil, "DEFAULT@SECLEVEL=2")
	require.NoError(t, err)
	assert.Equal(t, uint16(tls.VersionTLS12), tc.MinVersion)
	assert.NotEmpty(t, tc.CipherSuites, "level 2 restricts to AEAD suites")

	tc, err = BuildTLSConfig(true, nil, "DEFAULT@SECLEVEL=1")
	require.NoError(t, err)
	assert.Equal(t, uint16(tls.VersionTLS10), tc.MinVersion)

	tc, err = BuildTLSConfig(true, nil, "HIGH@SECLEVEL=3")
	require.NoError(t, err)
	assert.Equal(t, uint16(tls.VersionTLS13), tc.MinVersion)
}

func TestBuildTLSConfigSecurityLevelFromEnv(t *testing.T) {
	t.Setenv(config.EnvSecurityLevel, "DEFAULT@SECLEVEL=2")

	// The env override applies even with verification disabled.
	tc, err := BuildTLSConfig(false, nil, "")
	require.NoError(t, err)
	assert.True(t, tc.InsecureSkipVerify)
	assert.Equal(t, uint16(tls.VersionTLS12), tc.MinVersion)
}

func TestBuildTLSConfigBadDirective(t *testing.T) {
	_, err := BuildTLSConfig(true, nil, "DEFAULT@SECLEVEL=8")
	assert.Error(t, err)
}
