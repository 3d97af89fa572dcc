// Package config defines the format-agnostic configuration model shared by
// the rest of the engine.
//
// Manifests and graph files are written in a concrete syntax (HCL today),
// but nothing outside the loader knows that. The loader translates whatever
// it parses into the structs in this package, and a matching Converter
// bridges raw argument expressions to the Go structs used by calc handlers.
package config
