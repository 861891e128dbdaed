// Package cmd wires up the CLI flags and dispatches to the outbound
// facade.  The binary is a probe tool: it builds a fully configured
// facade, issues one request, and prints the result over the same
// code path a gateway embeds as a library.
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	flag "github.com/spf13/pflag"

	"outbound/client"
	"outbound/config"
	"outbound/util"
)

// version is overridable at link time:
//
//	go build -ldflags "-X outbound/cmd.version=2.0.0"
var version = "1.0.0" //nolint:gochecknoglobals

// Execute parses args and runs one probe request.
//
// Precedence is defaults < config file < environment < flags: the
// file and env overlays run before flag registration, so flag parsing
// overrides exactly the values the user set on the command line.
func Execute(ctx context.Context, args []string) error {
	cfg := config.New()

	if cfgFile := scanConfigFlag(args); cfgFile != "" {
		if err := config.LoadFile(cfg, cfgFile); err != nil {
			return err
		}
	}
	config.LoadFromEnv(cfg)

	fs := flag.NewFlagSet("outbound", flag.ContinueOnError)

	// ── request ──────────────────────────────────────────────────
	var (
		method   string
		data     string
		headers  []string
		cfgFile  string
		insecure bool
	)
	fs.StringVarP(&method, "request", "X", "GET", "HTTP method")
	fs.StringVarP(&data, "data", "d", "", "Request body")
	fs.StringArrayVarP(&headers, "header", "H", nil, "Request header 'Name: value' (repeatable)")

	// ── transport selection ──────────────────────────────────────
	fs.BoolVarP(&cfg.ForceIPv4, "ipv4", "4", cfg.ForceIPv4, "Resolve upstream addresses over IPv4 only")
	fs.BoolVar(&cfg.DisablePooledTransport, "no-pool", cfg.DisablePooledTransport, "Disable the pooled backend")

	// ── TLS ──────────────────────────────────────────────────────
	fs.BoolVarP(&insecure, "insecure", "k", false, "Skip TLS peer verification")
	fs.StringVar(&cfg.SecurityLevel, "security-level", cfg.SecurityLevel, "Cipher floor directive (e.g. DEFAULT@SECLEVEL=2)")

	// ── session ──────────────────────────────────────────────────
	fs.BoolVar(&cfg.TrustEnv, "trust-env", cfg.TrustEnv, "Honor system proxy settings in the pooled session")

	// ── timeouts ─────────────────────────────────────────────────
	var connectSec, readSec int
	fs.IntVar(&connectSec, "connect-timeout", 0, "Connect timeout in seconds")
	fs.IntVarP(&readSec, "timeout", "w", 0, "Response timeout in seconds")

	// ── egress bastion ───────────────────────────────────────────
	fs.StringVarP(&cfg.TunnelSpec, "tunnel", "T", cfg.TunnelSpec, "Egress bastion via [user@]host[:port]")
	fs.StringVar(&cfg.SSHKeyPath, "ssh-key", cfg.SSHKeyPath, "SSH private key file (passphrase via OUTBOUND_SSH_PASSPHRASE)")
	fs.BoolVar(&cfg.UseSSHAgent, "ssh-agent", cfg.UseSSHAgent, "Use SSH agent")
	fs.BoolVar(&cfg.StrictHostKey, "strict-hostkey", cfg.StrictHostKey, "Verify SSH host keys")
	fs.StringVar(&cfg.KnownHosts, "known-hosts", cfg.KnownHosts, "Custom known_hosts path")

	// ── output ───────────────────────────────────────────────────
	fs.CountVarP(&cfg.Verbose, "verbose", "v", "Increase verbosity (repeatable)")
	fs.StringVarP(&cfgFile, "config", "c", "", "TOML config file (loaded before flags)")

	var showVersion, showHelp bool
	fs.BoolVar(&showVersion, "version", false, "Print version and exit")
	fs.BoolVarP(&showHelp, "help", "h", false, "Show this help")

	fs.Usage = func() { printUsage(fs) }

	if err := fs.Parse(args); err != nil {
		return err
	}

	if showHelp || len(args) == 0 {
		printUsage(fs)
		return nil
	}
	if showVersion {
		fmt.Printf("outbound %s\n", version)
		return nil
	}

	if insecure {
		cfg.SSLVerify = false
	}
	if connectSec > 0 {
		cfg.ConnectTimeout = time.Duration(connectSec) * time.Second
	}
	if readSec > 0 {
		cfg.ReadTimeout = time.Duration(readSec) * time.Second
	}

	// ── positional argument ──────────────────────────────────────
	rest := fs.Args()
	if len(rest) != 1 {
		return fmt.Errorf("exactly one URL is required (use --help for usage)")
	}
	target, err := config.ValidateTarget(rest[0])
	if err != nil {
		return err
	}

	// ── tunnel spec ──────────────────────────────────────────────
	if cfg.TunnelSpec != "" {
		user, host, port, err := config.ParseTunnelSpec(cfg.TunnelSpec)
		if err != nil {
			return fmt.Errorf("tunnel: %w", err)
		}
		cfg.TunnelEnabled = true
		cfg.TunnelUser = user
		cfg.TunnelHost = host
		cfg.TunnelPort = port
	}

	// ── validate ─────────────────────────────────────────────────
	if err := cfg.Validate(); err != nil {
		return err
	}

	return probe(ctx, cfg, method, target.String(), data, headers)
}

// probe issues one request through a freshly built facade.
func probe(ctx context.Context, cfg *config.Settings, method, url, data string, headers []string) error {
	logger := util.NewLogger(cfg.Verbose)

	c, err := client.New(cfg, logger)
	if err != nil {
		return err
	}
	defer c.Close()

	var body io.Reader
	if data != "" {
		body = strings.NewReader(data)
	}

	req, err := buildRequest(ctx, method, url, body, headers)
	if err != nil {
		return err
	}

	resp, err := c.Do(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	fmt.Printf("%s %s\n", resp.Proto, resp.Status)
	preview, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if len(preview) > 0 {
		os.Stdout.Write(preview)
		if preview[len(preview)-1] != '\n' {
			fmt.Println()
		}
	}

	if cfg.Verbose > 0 {
		snap, _ := json.MarshalIndent(c.Metrics(), "", "  ")
		fmt.Fprintf(os.Stderr, "%s\n", snap)
	}
	return nil
}

// buildRequest assembles the probe request, parsing "Name: value"
// header flags.
func buildRequest(ctx context.Context, method, url string, body io.Reader, headers []string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	for _, h := range headers {
		name, value, ok := strings.Cut(h, ":")
		if !ok {
			return nil, fmt.Errorf("invalid header %q – expected 'Name: value'", h)
		}
		req.Header.Set(strings.TrimSpace(name), strings.TrimSpace(value))
	}
	return req, nil
}

// scanConfigFlag finds the --config / -c value ahead of flag parsing
// so the file overlay can run before flags are registered.
func scanConfigFlag(args []string) string {
	for i, a := range args {
		switch {
		case a == "--config" || a == "-c":
			if i+1 < len(args) {
				return args[i+1]
			}
		case strings.HasPrefix(a, "--config="):
			return strings.TrimPrefix(a, "--config=")
		case strings.HasPrefix(a, "-c="):
			return strings.TrimPrefix(a, "-c=")
		}
	}
	return ""
}

func printUsage(fs *flag.FlagSet) {
	fmt.Fprintf(os.Stderr, `outbound %s - outbound transport probe

Usage:
  outbound [options] <url>

Examples:
  outbound https://api.example.com/v1/models
  outbound -4 --no-pool https://legacy.example.com/status
  outbound -k --security-level 'DEFAULT@SECLEVEL=1' https://old.example.com
  outbound -T egress@bastion:22 --ssh-agent https://internal.example.com

Options:
%s`, version, fs.FlagUsages())
}
