package ssdp

import (
	"errors"
	"fmt"
	"net"
	"testing"
)

func TestDiscoveryError_Error(t *testing.T) {
	plain := NewConfigError("search target must not be empty")
	if got := plain.Error(); got != "Invalid Configuration: search target must not be empty" {
		t.Errorf("Error() = %q", got)
	}

	cause := errors.New("permission denied")
	wrapped := NewSocketError("cannot bind UDP socket", cause)
	if got := wrapped.Error(); got != "Socket Error: cannot bind UDP socket (caused by: permission denied)" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(wrapped, cause) {
		t.Error("errors.Is() does not reach the wrapped cause")
	}
}

func TestErrorPredicates(t *testing.T) {
	tests := []struct {
		err           error
		wantConfig    bool
		wantSocket    bool
		wantTransport bool
	}{
		{NewConfigError("bad"), true, false, false},
		{NewSocketError("bind", nil), false, true, false},
		{NewTransportError("send", nil), false, false, true},
		{fmt.Errorf("wrapped: %w", NewTransportError("send", nil)), false, false, true},
		{errors.New("plain"), false, false, false},
		{nil, false, false, false},
	}

	for _, tt := range tests {
		if got := IsConfigError(tt.err); got != tt.wantConfig {
			t.Errorf("IsConfigError(%v) = %v, want %v", tt.err, got, tt.wantConfig)
		}
		if got := IsSocketError(tt.err); got != tt.wantSocket {
			t.Errorf("IsSocketError(%v) = %v, want %v", tt.err, got, tt.wantSocket)
		}
		if got := IsTransportError(tt.err); got != tt.wantTransport {
			t.Errorf("IsTransportError(%v) = %v, want %v", tt.err, got, tt.wantTransport)
		}
	}
}

func TestIsTimeout(t *testing.T) {
	if !isTimeout(timeoutError{}) {
		t.Error("isTimeout(net timeout) = false")
	}
	if !isTimeout(&net.OpError{Op: "read", Err: timeoutError{}}) {
		t.Error("isTimeout(wrapped op timeout) = false")
	}
	if isTimeout(errors.New("connection refused")) {
		t.Error("isTimeout(plain error) = true")
	}
	if isTimeout(nil) {
		t.Error("isTimeout(nil) = true")
	}
}
