// Package registry provides the central "glue" for the node type system.
//
// The Registry stores the mappings between the handler names used in
// manifests (e.g. "CalcBinop") and the compiled Go functions that implement
// a node type's calc logic, alongside the parsed, format-agnostic type
// definitions themselves.
//
// During application startup the registry is populated and then validated,
// so that a mismatch between the Go code and the public-facing manifests is
// caught before any graph runs.
package registry
