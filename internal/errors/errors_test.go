package errors

import (
	"context"
	"crypto/x509"
	"fmt"
	"net"
	"net/url"
	"testing"
)

func TestClassifyTimeout(t *testing.T) {
	cases := []error{
		context.DeadlineExceeded,
		fmt.Errorf("send: %w", context.DeadlineExceeded),
		&url.Error{Op: "Get", URL: "http://x", Err: context.DeadlineExceeded},
		&net.DNSError{Err: "lookup timeout", IsTimeout: true},
	}
	for _, err := range cases {
		if got := Classify(err); got != KindTimeout {
			t.Errorf("Classify(%v) = %v, want timeout", err, got)
		}
	}
}

func TestClassifyTLS(t *testing.T) {
	cases := []error{
		x509.UnknownAuthorityError{},
		&url.Error{Op: "Get", URL: "https://x", Err: x509.HostnameError{}},
		fmt.Errorf("send: %w", x509.CertificateInvalidError{}),
	}
	for _, err := range cases {
		if got := Classify(err); got != KindTLS {
			t.Errorf("Classify(%v) = %v, want tls", err, got)
		}
	}
}

func TestClassifyConnection(t *testing.T) {
	cases := []error{
		&net.DNSError{Err: "no such host", IsNotFound: true},
		&net.OpError{Op: "dial", Err: New("connection refused")},
		New("broken pipe"),
	}
	for _, err := range cases {
		if got := Classify(err); got != KindConnection {
			t.Errorf("Classify(%v) = %v, want connection", err, got)
		}
	}
}

func TestWrapRequestPreservesCause(t *testing.T) {
	cause := &net.DNSError{Err: "no such host"}
	err := WrapRequest("send", "https://api.example.com", cause)

	if err.Kind != KindConnection {
		t.Errorf("Kind = %v", err.Kind)
	}

	var dns *net.DNSError
	if !As(err, &dns) {
		t.Error("cause not reachable through Unwrap chain")
	}
	if err.Error() == "" || err.URL != "https://api.example.com" {
		t.Errorf("context lost: %v", err)
	}
}

func TestKindPredicates(t *testing.T) {
	timeout := WrapRequest("send", "http://x", context.DeadlineExceeded)
	if !IsTimeout(timeout) {
		t.Error("IsTimeout on a wrapped timeout")
	}
	if IsTLS(timeout) {
		t.Error("timeout is not a TLS failure")
	}

	tlsFail := WrapRequest("send", "https://x", x509.UnknownAuthorityError{})
	if !IsTLS(tlsFail) {
		t.Error("IsTLS on a wrapped verification failure")
	}
	if IsTimeout(tlsFail) {
		t.Error("TLS failure is not a timeout")
	}
}

func TestConstructionError(t *testing.T) {
	cause := New("corrupted bundle")
	err := Construction("tls-context", cause)

	if !Is(err, cause) {
		t.Error("cause not reachable")
	}
	var ce *ConstructionError
	if !As(fmt.Errorf("facade: %w", err), &ce) {
		t.Error("type not recoverable through wrapping")
	}
}
