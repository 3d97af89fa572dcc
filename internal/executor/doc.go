// Package executor evaluates a node graph concurrently.
//
// Execution follows the dependency structure: a pool of workers consumes a
// ready channel, each completed node unlocks the dependents whose last
// unmet dependency it was, and a failure cancels the run and skips
// everything downstream. Node outputs are stored per output pin so
// downstream calc handlers can read them.
package executor
