// Package errors provides domain-specific error types for the
// outbound transport layer.
//
// These types carry structured context (operation, URL, failure kind)
// so that callers layered above the transport, such as retry policy
// or routing, can differentiate hard connection failures, TLS
// failures, and deadline expiry without string matching.
package errors

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"
)

// ── Sentinel errors ──────────────────────────────────────────────────

var (
	ErrSessionClosed = errors.New("session is closed")
	ErrNotConnected  = errors.New("tunnel is not connected")
)

// ── Failure kinds ────────────────────────────────────────────────────

// Kind partitions per-request failures for upstream policy decisions.
type Kind int

const (
	// KindConnection covers DNS failures, refused or reset
	// connections, and everything else that is neither TLS nor a
	// deadline.
	KindConnection Kind = iota

	// KindTLS covers handshake and certificate verification failures.
	KindTLS

	// KindTimeout covers caller-specified deadline expiry.
	KindTimeout
)

func (k Kind) String() string {
	switch k {
	case KindTLS:
		return "tls"
	case KindTimeout:
		return "timeout"
	default:
		return "connection"
	}
}

// ── Structured error types ───────────────────────────────────────────

// ConstructionError is a fatal failure while building a transport
// backend: the TLS context or connector could not be constructed.
// There is no partial or degraded backend behind it.
type ConstructionError struct {
	Component string // "tls-context", "connector", "tunnel"
	Err       error
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("transport construction: %s: %v", e.Component, e.Err)
}

func (e *ConstructionError) Unwrap() error { return e.Err }

// RequestError represents a per-request failure, classified but never
// downgraded: the underlying error is always reachable via Unwrap.
type RequestError struct {
	Op   string // "send"
	URL  string // request URL
	Kind Kind
	Err  error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s %s: %s: %v", e.Op, e.URL, e.Kind, e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

// ── Constructors ─────────────────────────────────────────────────────

// Construction wraps a fatal backend-construction failure.
func Construction(component string, err error) *ConstructionError {
	return &ConstructionError{Component: component, Err: err}
}

// WrapRequest classifies err and wraps it with request context.
func WrapRequest(op, rawURL string, err error) *RequestError {
	return &RequestError{Op: op, URL: rawURL, Kind: Classify(err), Err: err}
}

// ── Classification ───────────────────────────────────────────────────

// Classify maps an underlying transport error onto a Kind.  Timeout
// wins over TLS and connection so deadline expiry during a handshake
// still reads as a timeout to retry policy.
func Classify(err error) Kind {
	if err == nil {
		return KindConnection
	}

	if isTimeout(err) {
		return KindTimeout
	}
	if isTLS(err) {
		return KindTLS
	}
	return KindConnection
}

// IsTimeout reports whether err represents deadline expiry at any
// wrapping depth.
func IsTimeout(err error) bool {
	var re *RequestError
	if errors.As(err, &re) {
		return re.Kind == KindTimeout
	}
	return isTimeout(err)
}

// IsTLS reports whether err represents a TLS handshake or
// verification failure.
func IsTLS(err error) bool {
	var re *RequestError
	if errors.As(err, &re) {
		return re.Kind == KindTLS
	}
	return isTLS(err)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || os.IsTimeout(err) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

func isTLS(err error) bool {
	var (
		recErr  tls.RecordHeaderError
		vrfErr  *tls.CertificateVerificationError
		unkErr  x509.UnknownAuthorityError
		hostErr x509.HostnameError
		certErr x509.CertificateInvalidError
		urlErr  *url.Error
	)
	if errors.As(err, &recErr) || errors.As(err, &vrfErr) ||
		errors.As(err, &unkErr) || errors.As(err, &hostErr) ||
		errors.As(err, &certErr) {
		return true
	}
	// net/http wraps handshake alerts in *url.Error with an opaque
	// "tls:"-prefixed message.
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		return strings.HasPrefix(urlErr.Err.Error(), "tls:")
	}
	return false
}

// ── Re-exports for convenience ───────────────────────────────────────
//
// These allow callers to use outbound/internal/errors as a drop-in
// replacement for the standard library in common operations.

// As is [errors.As].
func As(err error, target interface{}) bool { return errors.As(err, target) }

// Is is [errors.Is].
func Is(err, target error) bool { return errors.Is(err, target) }

// New is [errors.New].
func New(text string) error { return errors.New(text) }

// Unwrap is [errors.Unwrap].
func Unwrap(err error) error { return errors.Unwrap(err) }

// Join is [errors.Join].
func Join(errs ...error) error { return errors.Join(errs...) }
