package ssdp

import (
	"errors"
	"fmt"
	"net"
	"os"
	"syscall"
)

// Error types for discovery operations

// ErrorType represents the category of error that occurred
type ErrorType int

const (
	// ErrTypeConfig indicates invalid discovery parameters (empty search
	// target, out-of-range wait/timeout/retry values). Surfaced before any
	// network I/O.
	ErrTypeConfig ErrorType = iota
	// ErrTypeSocket indicates the multicast socket could not be opened,
	// bound, or configured. Fatal: the session ends with no results.
	ErrTypeSocket
	// ErrTypeTransport indicates a send attempt failed after the socket was
	// established. Non-fatal: the round proceeds to listening.
	ErrTypeTransport
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeConfig:
		return "Invalid Configuration"
	case ErrTypeSocket:
		return "Socket Error"
	case ErrTypeTransport:
		return "Transport Error"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// DiscoveryError represents an error that occurred while setting up or
// running a discovery session
type DiscoveryError struct {
	Type    ErrorType // Category of error
	Message string    // Human-readable error message
	Err     error     // Underlying error (if any)
}

// Error implements the error interface
func (e *DiscoveryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *DiscoveryError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a configuration validation error
func NewConfigError(message string) *DiscoveryError {
	return &DiscoveryError{
		Type:    ErrTypeConfig,
		Message: message,
	}
}

// NewSocketError creates a fatal socket setup error
func NewSocketError(message string, err error) *DiscoveryError {
	return &DiscoveryError{
		Type:    ErrTypeSocket,
		Message: message,
		Err:     err,
	}
}

// NewTransportError creates a non-fatal send error
func NewTransportError(message string, err error) *DiscoveryError {
	return &DiscoveryError{
		Type:    ErrTypeTransport,
		Message: message,
		Err:     err,
	}
}

// IsConfigError checks if an error is a configuration error
func IsConfigError(err error) bool {
	var de *DiscoveryError
	return errors.As(err, &de) && de.Type == ErrTypeConfig
}

// IsSocketError checks if an error is a socket setup error
func IsSocketError(err error) bool {
	var de *DiscoveryError
	return errors.As(err, &de) && de.Type == ErrTypeSocket
}

// IsTransportError checks if an error is a send/transport error
func IsTransportError(err error) bool {
	var de *DiscoveryError
	return errors.As(err, &de) && de.Type == ErrTypeTransport
}

// isTimeout reports whether err is a read-deadline expiry rather than a
// real socket failure. Deadline expiry is the normal end of a listen
// window, never an error condition.
func isTimeout(err error) bool {
	if err == nil {
		return false
	}
	if os.IsTimeout(err) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if opErr.Timeout() || errors.Is(opErr.Err, syscall.EAGAIN) {
			return true
		}
	}
	return false
}

// GetShortErrorMessage returns a concise, user-friendly error message
func GetShortErrorMessage(err error) string {
	var de *DiscoveryError
	if !errors.As(err, &de) {
		return err.Error()
	}

	switch de.Type {
	case ErrTypeConfig:
		return de.Message
	case ErrTypeSocket:
		return "Cannot open multicast socket - check network interfaces and permissions"
	case ErrTypeTransport:
		return "Failed to send discovery probe - check network connection"
	default:
		return de.Message
	}
}
