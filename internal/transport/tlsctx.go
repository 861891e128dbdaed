package transport

import (
	"crypto/tls"
	"fmt"

	"github.com/certifi/gocertifi"

	"outbound/config"
)

// BuildTLSConfig constructs a fresh TLS client configuration.
//
// The trust decision is deterministic and reproducible across
// environments: the root pool always comes from the bundled,
// versioned certificate set, never the OS trust store.
//
//   - custom != nil: the caller's trust decision is carried over
//     unchanged via Clone, no bundle loading.  Cloning keeps the
//     caller's object untouched when the connector later installs
//     ALPN protocols on its copy.
//   - verify == false: peer certificate and hostname checks are
//     skipped entirely, the same trust decision as any HTTP client
//     built with verification off.
//   - otherwise: bundled roots with full verification.
//
// A non-empty security-level directive (explicit, or the
// SSL_SECURITY_LEVEL environment variable) tightens or lowers the
// cipher policy floor; absence leaves platform defaults untouched.
// Each call returns a new instance; callers own any caching.
func BuildTLSConfig(verify bool, custom *tls.Config, secLevel string) (*tls.Config, error) {
	if custom != nil {
		return custom.Clone(), nil
	}

	var tc *tls.Config
	if !verify {
		tc = &tls.Config{InsecureSkipVerify: true} // #nosec G402 -- caller disabled verification
	} else {
		pool, err := gocertifi.CACerts()
		if err != nil {
			return nil, fmt.Errorf("loading bundled CA certificates: %w", err)
		}
		tc = &tls.Config{RootCAs: pool}
	}

	directive := config.ResolveSecurityLevel(secLevel)
	if directive != "" {
		if err := applySecurityLevel(tc, directive); err != nil {
			return nil, err
		}
	}

	return tc, nil
}

// applySecurityLevel maps an OpenSSL-style "...@SECLEVEL=n" directive
// onto the crypto/tls knobs that express the same floor:
//
//	n ≤ 1  → permissive: allow TLS 1.0+ (SECLEVEL=1 is used in the
//	         wild to talk to legacy upstreams)
//	n == 2 → TLS 1.2 minimum, AEAD-only cipher suites
//	n ≥ 3  → TLS 1.3 minimum
//
// A directive without a @SECLEVEL clause is accepted and leaves the
// config untouched, matching OpenSSL's treatment of a bare cipher
// string.
func applySecurityLevel(tc *tls.Config, directive string) error {
	level, err := config.ParseSecurityLevel(directive)
	if err != nil {
		return err
	}

	switch {
	case level < 0:
		// no floor clause
	case level <= 1:
		tc.MinVersion = tls.VersionTLS10
	case level == 2:
		tc.MinVersion = tls.VersionTLS12
		tc.CipherSuites = aeadCipherSuites()
	default:
		tc.MinVersion = tls.VersionTLS13
	}
	return nil
}

// aeadCipherSuites returns the TLS 1.2 suites with AEAD modes only,
// dropping the CBC suites a SECLEVEL=2 floor excludes.
func aeadCipherSuites() []uint16 {
	return []uint16{
		tls.TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256,
		tls.TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384,
		tls.TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256,
		tls.TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384,
		tls.TLS_ECDHE_RSA_WITH_CHACHA20_POLY1305_SHA256,
		tls.TLS_ECDHE_ECDSA_WITH_CHACHA20_POLY1305_SHA256,
	}
}
