// Package natsutil holds NATS helpers shared by the store implementations.
package natsutil

import (
	"context"
	"errors"
	"strings"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/arloliu/tawzi/types"
)

// IsConnectivityError checks if an error is caused by connectivity issues.
//
// This includes NATS timeouts, expired operation deadlines, connection
// refused, disconnections, etc.
// Store implementations wrap such errors with types.ErrStoreUnavailable so
// callers can tell a down backend from a bad record.
//
// Parameters:
//   - err: Error to check
//
// Returns:
//   - bool: true if error indicates connectivity issue
func IsConnectivityError(err error) bool {
	if err == nil {
		return false
	}

	return errors.Is(err, types.ErrStoreUnavailable) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, nats.ErrTimeout) ||
		errors.Is(err, nats.ErrNoServers) ||
		errors.Is(err, nats.ErrDisconnected) ||
		errors.Is(err, nats.ErrConnectionClosed) ||
		errors.Is(err, jetstream.ErrNoStreamResponse) ||
		strings.Contains(err.Error(), "connection refused") ||
		strings.Contains(err.Error(), "i/o timeout")
}

// Classify wraps err with the store sentinel matching its cause.
//
// Parameters:
//   - op: Operation name used as error context ("save", "load", ...)
//   - err: Error returned by the NATS client
//
// Returns:
//   - error: nil for nil, otherwise err wrapped with ErrStoreUnavailable or ErrStoreFailed
func Classify(op string, err error) error {
	if err == nil {
		return nil
	}

	if IsConnectivityError(err) {
		return &opError{op: op, sentinel: types.ErrStoreUnavailable, err: err}
	}

	return &opError{op: op, sentinel: types.ErrStoreFailed, err: err}
}

type opError struct {
	op       string
	sentinel error
	err      error
}

func (e *opError) Error() string {
	return e.sentinel.Error() + ": " + e.op + ": " + e.err.Error()
}

func (e *opError) Unwrap() []error {
	return []error{e.sentinel, e.err}
}
