package config

// loader.go - configuration loading from TOML files and environment
// variables.
//
// Precedence order (highest wins):
//   1. CLI flags   (handled by cmd/root.go)
//   2. Environment variables   (LoadFromEnv)
//   3. Config file (LoadFile)
//   4. Defaults    (defaults.go / New)

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// fileSettings is the TOML shape of a config file.  Durations are
// strings ("30s", "2m") so files stay human-editable.
type fileSettings struct {
	ForceIPv4              *bool  `toml:"force_ipv4"`
	DisablePooledTransport *bool  `toml:"disable_pooled_transport"`
	SSLVerify              *bool  `toml:"ssl_verify"`
	SecurityLevel          string `toml:"security_level"`
	TrustEnv               *bool  `toml:"trust_env"`
	ConnectTimeout         string `toml:"connect_timeout"`
	ReadTimeout            string `toml:"read_timeout"`

	Tunnel struct {
		Spec          string `toml:"spec"`
		SSHKey        string `toml:"ssh_key"`
		KeyPassphrase string `toml:"key_passphrase"`
		UseAgent      *bool  `toml:"ssh_agent"`
		StrictHostKey *bool  `toml:"strict_hostkey"`
		KnownHosts    string `toml:"known_hosts"`
	} `toml:"tunnel"`
}

// LoadFile overlays a TOML config file onto cfg.  A missing file is an
// error; callers treating the file as optional should stat it first.
func LoadFile(cfg *Settings, path string) error {
	var fs fileSettings
	if _, err := toml.DecodeFile(path, &fs); err != nil {
		return fmt.Errorf("config file %s: %w", path, err)
	}

	if fs.ForceIPv4 != nil {
		cfg.ForceIPv4 = *fs.ForceIPv4
	}
	if fs.DisablePooledTransport != nil {
		cfg.DisablePooledTransport = *fs.DisablePooledTransport
	}
	if fs.SSLVerify != nil {
		cfg.SSLVerify = *fs.SSLVerify
	}
	if fs.SecurityLevel != "" {
		cfg.SecurityLevel = fs.SecurityLevel
	}
	if fs.TrustEnv != nil {
		cfg.TrustEnv = *fs.TrustEnv
	}

	if fs.ConnectTimeout != "" {
		d, err := time.ParseDuration(fs.ConnectTimeout)
		if err != nil {
			return fmt.Errorf("config file %s: connect_timeout: %w", path, err)
		}
		cfg.ConnectTimeout = d
	}
	if fs.ReadTimeout != "" {
		d, err := time.ParseDuration(fs.ReadTimeout)
		if err != nil {
			return fmt.Errorf("config file %s: read_timeout: %w", path, err)
		}
		cfg.ReadTimeout = d
	}

	if fs.Tunnel.Spec != "" {
		cfg.TunnelSpec = fs.Tunnel.Spec
	}
	if fs.Tunnel.SSHKey != "" {
		cfg.SSHKeyPath = fs.Tunnel.SSHKey
	}
	if fs.Tunnel.KeyPassphrase != "" {
		cfg.SSHPassphrase = fs.Tunnel.KeyPassphrase
	}
	if fs.Tunnel.UseAgent != nil {
		cfg.UseSSHAgent = *fs.Tunnel.UseAgent
	}
	if fs.Tunnel.StrictHostKey != nil {
		cfg.StrictHostKey = *fs.Tunnel.StrictHostKey
	}
	if fs.Tunnel.KnownHosts != "" {
		cfg.KnownHosts = fs.Tunnel.KnownHosts
	}

	return nil
}

// LoadFromEnv overlays environment variables onto cfg.  Only non-empty
// env vars override the existing value.  This should be called BEFORE
// CLI flag parsing so that flags take precedence.
//
// AIOHTTP_TRUST_ENV is deliberately NOT resolved here: the pooled
// session reads it at session-creation time (see ResolveTrustEnv), so
// the overlay only covers the remaining variables.
func LoadFromEnv(cfg *Settings) {
	if v := os.Getenv(EnvSecurityLevel); v != "" && cfg.SecurityLevel == "" {
		cfg.SecurityLevel = v
	}

	if envBool("OUTBOUND_FORCE_IPV4") {
		cfg.ForceIPv4 = true
	}
	if envBool("OUTBOUND_DISABLE_POOL") {
		cfg.DisablePooledTransport = true
	}
	if envBool("OUTBOUND_INSECURE") {
		cfg.SSLVerify = false
	}
	if v := os.Getenv("OUTBOUND_TUNNEL"); v != "" {
		cfg.TunnelSpec = v
	}
	if v := os.Getenv("OUTBOUND_SSH_KEY"); v != "" {
		cfg.SSHKeyPath = v
	}
	if v := os.Getenv("OUTBOUND_SSH_PASSPHRASE"); v != "" {
		cfg.SSHPassphrase = v
	}
	if envBool("OUTBOUND_SSH_AGENT") {
		cfg.UseSSHAgent = true
	}
	if envDuration("OUTBOUND_CONNECT_TIMEOUT") > 0 {
		cfg.ConnectTimeout = envDuration("OUTBOUND_CONNECT_TIMEOUT")
	}
	if envDuration("OUTBOUND_READ_TIMEOUT") > 0 {
		cfg.ReadTimeout = envDuration("OUTBOUND_READ_TIMEOUT")
	}
}

// ResolveTrustEnv applies the trust-env precedence at session-creation
// time: the AIOHTTP_TRUST_ENV variable equal to the literal "True"
// (case-sensitive) is authoritative; every other value, including the
// literal "False", defers to the configured default.
func ResolveTrustEnv(configured bool) bool {
	if os.Getenv(EnvTrustEnv) == "True" {
		return true
	}
	return configured
}

// ResolveSecurityLevel returns the effective cipher-floor directive:
// the explicitly configured value when present, otherwise the
// SSL_SECURITY_LEVEL environment variable.  Evaluated wherever a TLS
// config is built so library callers get the override without going
// through LoadFromEnv.
func ResolveSecurityLevel(configured string) string {
	if configured != "" {
		return configured
	}
	return os.Getenv(EnvSecurityLevel)
}

// ── helpers ──────────────────────────────────────────────────────────

func envBool(key string) bool {
	v := strings.ToLower(os.Getenv(key))
	return v == "1" || v == "true" || v == "yes"
}

func envDuration(key string) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return 0
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0
	}
	return d
}
