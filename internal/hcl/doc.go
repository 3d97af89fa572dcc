// Package hcl implements the HCL-backed config.Loader and config.Converter.
// It owns every detail of the concrete syntax: parsing, schema decoding,
// type expressions, and cty value binding.
package hcl
