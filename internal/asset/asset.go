// Package asset defines the unit of work in the pipeline: a named,
// idempotent transformation that consumes the outputs of the assets it
// depends on and produces a value of its own.
package asset

import (
	"context"
	"fmt"

	"github.com/specialistvlad/residencygrid/internal/config"
	"github.com/specialistvlad/residencygrid/internal/warehouse"
)

// MaterializeFunc produces an asset's value from its dependencies' outputs.
type MaterializeFunc func(ctx context.Context, rc *RunContext, in Inputs) (any, error)

// Asset is a named node of the pipeline.
type Asset struct {
	Name        string
	Deps        []string
	Group       string
	Description string
	Materialize MaterializeFunc
	Checks      []Check
}

// RunContext is handed to every materialization and check of a run.
type RunContext struct {
	RunID  string
	Job    string
	Store  warehouse.Store
	Config *config.Model
}

// Inputs holds the outputs of an asset's declared dependencies, keyed by
// dependency name.
type Inputs map[string]any

// Input fetches a dependency output and asserts its type.
func Input[T any](in Inputs, name string) (T, error) {
	var zero T
	v, ok := in[name]
	if !ok {
		return zero, fmt.Errorf("input %q not provided", name)
	}
	if v == nil {
		return zero, nil
	}
	typed, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("input %q has type %T, want %T", name, v, zero)
	}
	return typed, nil
}
