// Package app contains the core application logic. It owns the loaded
// configuration, the warehouse connection and the asset graph, and exposes
// the run and serve lifecycles independently of the CLI.
package app
