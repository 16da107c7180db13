// Package store defines the adapter contract the repository engine
// executes finalized builder configurations against. Two adapters ship
// with the module: store/bunstore for relational backends via Bun and
// store/memstore for in-memory use.
package store
