// Package memory provides the built-in in-memory IBackend implementation.
//
// Tables live in a concurrent registry owned by the backend instance; each
// table serializes its writes through a single mutex so the condition check
// and the mutation of a conditional write form one critical section. The
// store is volatile: nothing survives the instance.
package memory
