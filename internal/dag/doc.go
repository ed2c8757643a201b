// Package dag holds the dependency structure of the asset pipeline: a set of
// string-identified nodes joined by directed "depends on" edges.
//
// The graph answers structural questions only. It knows nothing about what a
// node does when it runs; the asset and executor packages layer behaviour on
// top. Every listing it returns is ordered by node insertion, so two graphs
// built from the same registrations always yield the same execution order.
package dag
