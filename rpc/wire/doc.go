// Package wire implements the server side of the DynamoDB JSON protocol
// (Content-Type application/x-amz-json-1.0). It defines the request and
// response shapes the HTTP listener exchanges with generated AWS SDK
// clients, converts them to and from the SDK input/output structs the
// backend consumes, and maps backend errors onto the __type error envelope.
//
// The in-process dispatch mode never touches this package; values pass
// through it only when a request crosses the network boundary.
package wire
