// Package client provides the two dispatch modes for reaching a backend.
//
// NewLocalClient wraps an in-process backend directly: calls pass SDK input
// and output structs by pointer with no serialization in between. This is
// the fast path for embedding the store in tests or applications.
//
// NewRemoteClient returns a generated DynamoDB client pointed at a server
// endpoint, so requests cross the real wire protocol. Both constructors
// return the same IClient surface, and both modes surface the same modeled
// error types for the same failures.
//
// Usage Example:
//
//	// in-process
//	c := client.NewLocalClient(memory.NewBackend())
//
//	// over the network
//	c := client.NewRemoteClient(common.ClientConfig{Endpoint: "localhost:8000"})
package client
