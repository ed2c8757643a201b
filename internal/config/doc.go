// Package config defines the format-agnostic configuration model of the
// application and the Loader interface that fills it from a concrete
// format.
//
// The Model is the single source of truth for the pipeline, the warehouse
// backend, the scheduler and logging. Default returns a complete model; a
// loader only overrides what a file sets. The HCL implementation lives in
// the hcl_adapter package.
package config
