// Package parallel provides the concurrency helpers used while preparing
// chunks: a bounded parallel-for built on errgroup and a lock-free dirty
// bitmap over a chunk grid.
package parallel
