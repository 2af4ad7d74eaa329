// Package rpc provides the dispatch layer of the emulator. It connects
// calling code to a backend either directly in-process or across a network
// boundary speaking the DynamoDB JSON protocol.
//
// The package is organized into several subpackages:
//
//   - common: Configuration structures shared by the server and client.
//
//   - wire: The server-side protocol codec, converting between DynamoDB
//     JSON request/response shapes and the SDK structs the backend consumes.
//
//   - server: The HTTP listener exposing a backend to any generated
//     DynamoDB client, plus Prometheus metrics.
//
//   - client: The two client constructors, one wrapping an in-process
//     backend with zero serialization and one wrapping a generated client
//     pointed at a listener endpoint.
package rpc
