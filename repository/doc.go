// Package repository provides the generic execution engine: it resolves
// target-selection strategies, applies the timeout/cancellation envelope
// around every store adapter call, drives the soft-delete/restore state
// machine, and translates adapter faults into the domain error taxonomy.
package repository
