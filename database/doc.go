// Package database provides connection management, configuration loading,
// health checks, query logging hooks, model registration, and SQL error
// classification built on top of Bun.
package database
