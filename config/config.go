// Package config defines the runtime configuration for the outbound
// transport layer and provides helpers for parsing tunnel
// specifications and security-level directives.
package config

import (
	"crypto/tls"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"time"
)

// Settings holds every tuneable for one outbound facade.  A Settings
// value is read once at facade construction and never re-read, so
// mutating it afterwards has no effect on live facades.
type Settings struct {
	// ── Transport selection ──────────────────────────────────────────
	ForceIPv4              bool // resolve upstream addresses over IPv4 only
	DisablePooledTransport bool // opt out of the pooled backend entirely

	// ── TLS ──────────────────────────────────────────────────────────
	SSLVerify bool // false disables peer and hostname verification
	// TLSConfig, when non-nil, is used verbatim and no bundle loading
	// occurs.  SSLVerify is ignored in that case.
	TLSConfig *tls.Config
	// SecurityLevel is an OpenSSL-style cipher floor directive such as
	// "DEFAULT@SECLEVEL=2".  Empty means platform default.  The
	// SSL_SECURITY_LEVEL environment variable overlays this when the
	// field is unset.
	SecurityLevel string

	// ── Session environment trust ────────────────────────────────────
	// TrustEnv is the configured default for whether the pooled
	// session honors system proxy settings.  The AIOHTTP_TRUST_ENV
	// environment variable, when equal to the literal "True", forces
	// the flag on; any other value defers to this default.
	TrustEnv bool

	// ── Timeouts ─────────────────────────────────────────────────────
	ConnectTimeout time.Duration // TCP connect deadline
	ReadTimeout    time.Duration // response-header deadline per request

	// ── Egress bastion ───────────────────────────────────────────────
	TunnelSpec    string // raw [user@]host[:port]; empty disables
	TunnelEnabled bool
	TunnelUser    string
	TunnelHost    string
	TunnelPort    int
	SSHKeyPath    string
	// SSHPassphrase decrypts an encrypted key file.  Set it through
	// the environment or the config file; never on the command line.
	SSHPassphrase string
	UseSSHAgent   bool
	StrictHostKey bool
	KnownHosts    string

	// ── Output ───────────────────────────────────────────────────────
	Verbose int
}

// New returns Settings populated with defaults, before any file, env,
// or flag overlay.
func New() *Settings {
	return &Settings{
		SSLVerify:      true,
		ConnectTimeout: DefaultConnectTimeout,
		ReadTimeout:    DefaultReadTimeout,
	}
}

// ── Tunnel-spec parser ───────────────────────────────────────────────

// tunnelRe matches [user@]host[:port].
var tunnelRe = regexp.MustCompile(`^(?:([^@]+)@)?([^:]+)(?::(\d+))?$`)

// ParseTunnelSpec extracts user, host, and port from a string such as
// "egress@bastion.example.com:2222".  Port defaults to 22.
func ParseTunnelSpec(spec string) (user, host string, port int, err error) {
	m := tunnelRe.FindStringSubmatch(spec)
	if m == nil {
		return "", "", 0, fmt.Errorf("invalid tunnel spec %q – expected [user@]host[:port]", spec)
	}
	user = m[1]
	host = m[2]
	port = DefaultSSHPort
	if m[3] != "" {
		port, err = strconv.Atoi(m[3])
		if err != nil || port < 1 || port > 65535 {
			return "", "", 0, fmt.Errorf("invalid tunnel port %q", m[3])
		}
	}
	if host == "" {
		return "", "", 0, fmt.Errorf("tunnel host is required")
	}
	return user, host, port, nil
}

// ── Security-level parser ────────────────────────────────────────────

var secLevelRe = regexp.MustCompile(`@SECLEVEL=(\d+)$`)

// ParseSecurityLevel extracts the numeric floor from a directive like
// "DEFAULT@SECLEVEL=2".  A directive with no @SECLEVEL clause is
// valid and yields -1 (no floor).
func ParseSecurityLevel(directive string) (int, error) {
	if directive == "" {
		return -1, nil
	}
	m := secLevelRe.FindStringSubmatch(directive)
	if m == nil {
		return -1, nil
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n > 5 {
		return -1, fmt.Errorf("invalid security level in %q", directive)
	}
	return n, nil
}

// ── Validation ───────────────────────────────────────────────────────

// Validate checks that the configuration is internally consistent.
func (s *Settings) Validate() error {
	if s.ConnectTimeout < 0 || s.ReadTimeout < 0 {
		return fmt.Errorf("timeouts must be non-negative")
	}

	if _, err := ParseSecurityLevel(s.SecurityLevel); err != nil {
		return err
	}

	if s.TunnelEnabled && s.TunnelHost == "" {
		return fmt.Errorf("tunnel host is required")
	}

	if s.TLSConfig != nil && !s.SSLVerify {
		return fmt.Errorf("a custom TLS config and ssl-verify=false are mutually exclusive")
	}

	return nil
}

// ValidateTarget checks that raw parses as an absolute http(s) URL.
// Used by the CLI before handing a target to the facade.
func ValidateTarget(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid URL %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported scheme %q (need http or https)", u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("URL %q has no host", raw)
	}
	return u, nil
}
