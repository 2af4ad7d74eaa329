// Package backend defines the capability interface (IBackend) a storage
// implementation must satisfy to be bound by the rpc dispatch layer.
//
// The interface is deliberately the operation surface and nothing else: no
// shared base state, no registration side effects. Multiple backend
// instances in one process are fully independent; the table registry is
// owned by the instance, never by the process.
package backend
