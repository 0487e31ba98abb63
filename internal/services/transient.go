package services

import (
	"context"
	"errors"
	"io"
	"net"
	"net/url"
	"syscall"
)

// IsTransient reports whether retrying the failed request may succeed:
// timeouts, refused or reset connections, truncated responses, and errors
// that classify themselves through a Transient method.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var classified interface{ Transient() bool }
	if errors.As(err, &classified) {
		return classified.Transient()
	}

	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return true
	}
	return false
}
