package network

import (
	"context"
	"errors"
	"io"
	"net"
	"syscall"
)

// connectionErrnos are the low-level failures reported as ErrConnection.
var connectionErrnos = []syscall.Errno{
	syscall.ECONNREFUSED,
	syscall.ECONNRESET,
	syscall.ECONNABORTED,
	syscall.EHOSTUNREACH,
	syscall.ENETUNREACH,
	syscall.EPIPE,
}

// IsConnectionFailure reports whether err is a timeout, an unreachable host,
// or a refused or lost connection. Cancellation is not a connection failure.
func IsConnectionFailure(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	for _, errno := range connectionErrnos {
		if errors.Is(err, errno) {
			return true
		}
	}
	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
}

// classify wraps connection failures and returns everything else unchanged.
func classify(err error) error {
	if IsConnectionFailure(err) {
		return &ConnectionError{Err: err}
	}
	return err
}
