// Package testing provides test utilities for the tawzi library.
//
// It follows Go's convention of providing testing utilities in a dedicated
// package (similar to net/http/httptest).
//
// Key utilities:
//   - StartEmbeddedNATS: In-process NATS server with JetStream for store tests
//   - NewJetStream: JetStream context bound to the embedded server
//   - NewTestLogger: types.Logger writing to the test log
//   - NewRecordingLogger: types.Logger capturing messages for assertions
//
// Example usage:
//
//	import (
//	    "testing"
//	    tawzitest "github.com/arloliu/tawzi/testing"
//	)
//
//	func TestMyStore(t *testing.T) {
//	    _, nc := tawzitest.StartEmbeddedNATS(t)
//	    st, err := store.NewNATSKV(tawzitest.NewJetStream(t, nc))
//	}
package testing
