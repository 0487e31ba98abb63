package services_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"syscall"
	"testing"

	"diarist/internal/services"
)

type classifiedError struct{ transient bool }

func (e classifiedError) Error() string   { return "classified" }
func (e classifiedError) Transient() bool { return e.transient }

type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

func TestIsTransient(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain", errors.New("bad request"), false},
		{"canceled", context.Canceled, false},
		{"deadline", fmt.Errorf("poll: %w", context.DeadlineExceeded), false},
		{"refused", &net.OpError{Op: "dial", Err: syscall.ECONNREFUSED}, true},
		{"reset", fmt.Errorf("read: %w", syscall.ECONNRESET), true},
		{"truncated", io.ErrUnexpectedEOF, true},
		{"net timeout", fmt.Errorf("get: %w", timeoutError{}), true},
		{"classified transient", classifiedError{transient: true}, true},
		{"classified permanent", fmt.Errorf("wrap: %w", classifiedError{}), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := services.IsTransient(tc.err); got != tc.want {
				t.Fatalf("IsTransient(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}
