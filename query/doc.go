// Package query provides fluent single-result and range query builders
// whose predicates, ordering keys, and projections are opaque values
// translated by the store adapter that executes the finalized
// configuration.
package query
