// Package testing provides a shared conformance test suite for backend
// implementations. RunBackendTests exercises every operation and its edge
// cases against an arbitrary backend, so the in-memory store and both rpc
// dispatch modes are verified by the exact same assertions.
package testing
