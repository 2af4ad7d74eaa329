// Package common provides configuration structures shared between the rpc
// server and client packages.
//
// Key Components:
//
//   - ServerConfig: Configuration for the network listener, including the
//     bind endpoint, request timeout and logging level.
//
//   - ClientConfig: Configuration for network clients, controlling the
//     endpoint, timeouts, and retry behavior.
package common
