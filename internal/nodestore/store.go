// Package nodestore defines the interface for caching asset outputs during a
// pipeline run.
//
// # Why Node Store Exists
//
// The store separates run data from the asset graph, which never changes
// while a run is in progress. The executor writes each output as its asset
// succeeds; materialization functions read their upstream outputs from it.
// Status and errors live on the node itself. A store is created once per run
// and discarded afterwards.
package nodestore

import "context"

// Store is the interface for managing the outputs of materialized assets.
//
// # Thread-Safety Requirements
//
// Implementations MUST be safe for concurrent reads and writes, as multiple
// workers materialize assets in parallel and read upstream outputs.
type Store interface {
	// SetOutput records the successful materialization result of an asset.
	// An error fails the asset.
	SetOutput(ctx context.Context, name string, output any) error

	// GetOutput retrieves the recorded output of a completed asset.
	//
	// The boolean is false if the asset has not produced an output. A nil
	// output is a legitimate result and is distinguished from "missing".
	GetOutput(ctx context.Context, name string) (any, bool, error)
}
