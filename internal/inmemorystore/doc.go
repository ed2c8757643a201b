// Package inmemorystore provides a thread-safe, in-memory implementation
// of the nodestore.Store interface. It holds the outputs of a single pipeline
// run and is discarded when the run ends.
package inmemorystore
