package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestResolveTrustEnv(t *testing.T) {
	// No env var: configured default governs.
	os.Unsetenv(EnvTrustEnv)
	if ResolveTrustEnv(false) {
		t.Error("no env var, default false: want false")
	}
	if !ResolveTrustEnv(true) {
		t.Error("no env var, default true: want true")
	}

	// Literal "True" is authoritative.
	t.Setenv(EnvTrustEnv, "True")
	if !ResolveTrustEnv(false) {
		t.Error(`env "True": want true regardless of default`)
	}

	// Anything else, including "False", defers to the default.
	t.Setenv(EnvTrustEnv, "False")
	if !ResolveTrustEnv(true) {
		t.Error(`env "False", default true: configured default must still govern`)
	}
	if ResolveTrustEnv(false) {
		t.Error(`env "False", default false: want false`)
	}

	// Case-sensitive: "true" is not the literal "True".
	t.Setenv(EnvTrustEnv, "true")
	if ResolveTrustEnv(false) {
		t.Error(`env "true" is not authoritative`)
	}
}

func TestResolveSecurityLevel(t *testing.T) {
	t.Setenv(EnvSecurityLevel, "DEFAULT@SECLEVEL=1")

	if got := ResolveSecurityLevel(""); got != "DEFAULT@SECLEVEL=1" {
		t.Errorf("env fallback = %q", got)
	}
	// Explicit config wins over the env var.
	if got := ResolveSecurityLevel("HIGH@SECLEVEL=3"); got != "HIGH@SECLEVEL=3" {
		t.Errorf("explicit value = %q", got)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("OUTBOUND_FORCE_IPV4", "true")
	t.Setenv("OUTBOUND_DISABLE_POOL", "1")
	t.Setenv("OUTBOUND_INSECURE", "yes")
	t.Setenv("OUTBOUND_READ_TIMEOUT", "45s")
	t.Setenv("OUTBOUND_SSH_PASSPHRASE", "hunter2")
	t.Setenv(EnvSecurityLevel, "DEFAULT@SECLEVEL=2")

	cfg := New()
	LoadFromEnv(cfg)

	if !cfg.ForceIPv4 {
		t.Error("ForceIPv4 not loaded")
	}
	if !cfg.DisablePooledTransport {
		t.Error("DisablePooledTransport not loaded")
	}
	if cfg.SSLVerify {
		t.Error("SSLVerify should be disabled")
	}
	if cfg.ReadTimeout != 45*time.Second {
		t.Errorf("ReadTimeout = %v", cfg.ReadTimeout)
	}
	if cfg.SecurityLevel != "DEFAULT@SECLEVEL=2" {
		t.Errorf("SecurityLevel = %q", cfg.SecurityLevel)
	}
	if cfg.SSHPassphrase != "hunter2" {
		t.Error("SSHPassphrase not loaded")
	}
}

func TestLoadFromEnvDoesNotClobberExplicitSecurityLevel(t *testing.T) {
	t.Setenv(EnvSecurityLevel, "DEFAULT@SECLEVEL=1")

	cfg := New()
	cfg.SecurityLevel = "HIGH@SECLEVEL=3"
	LoadFromEnv(cfg)

	if cfg.SecurityLevel != "HIGH@SECLEVEL=3" {
		t.Errorf("explicit SecurityLevel overridden: %q", cfg.SecurityLevel)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "outbound.toml")
	doc := `
force_ipv4 = true
ssl_verify = false
security_level = "DEFAULT@SECLEVEL=2"
trust_env = true
connect_timeout = "10s"
read_timeout = "2m"

[tunnel]
spec = "egress@bastion:2222"
ssh_agent = true
`
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg := New()
	if err := LoadFile(cfg, path); err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if !cfg.ForceIPv4 || cfg.SSLVerify || !cfg.TrustEnv || !cfg.UseSSHAgent {
		t.Errorf("bool fields not loaded: %+v", cfg)
	}
	if cfg.SecurityLevel != "DEFAULT@SECLEVEL=2" {
		t.Errorf("SecurityLevel = %q", cfg.SecurityLevel)
	}
	if cfg.ConnectTimeout != 10*time.Second || cfg.ReadTimeout != 2*time.Minute {
		t.Errorf("timeouts = %v / %v", cfg.ConnectTimeout, cfg.ReadTimeout)
	}
	if cfg.TunnelSpec != "egress@bastion:2222" {
		t.Errorf("TunnelSpec = %q", cfg.TunnelSpec)
	}
}

func TestLoadFileMissing(t *testing.T) {
	cfg := New()
	if err := LoadFile(cfg, filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Error("missing config file should error")
	}
}
