// Package server implements the network dispatch mode: an HTTP listener
// that exposes a single backend over the DynamoDB JSON protocol. Any
// generated DynamoDB client pointed at the listener's address can drive it,
// including the network client in rpc/client.
//
// Requests are routed by the X-Amz-Target header (DynamoDB_20120810.<Op>).
// Responses and errors use the same envelope as the real service, so the
// SDK's deserializers surface backend errors as their modeled exception
// types. The listener also exposes Prometheus metrics under GET /metrics.
//
// Usage Example:
//
//	config := common.ServerConfig{Endpoint: ":8000", LogLevel: "info"}
//	s := server.NewRPCServer(config, memory.NewBackend())
//
//	if err := s.Serve(); err != nil {
//		panic(err)
//	}
package server
