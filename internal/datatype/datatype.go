// Package datatype models the data types carried by node pins and the rules
// for connecting them. A connection is legal when the source pin's type can
// target the destination pin's type.
package datatype

// Type describes the data flowing through a pin.
type Type interface {
	// ID returns the canonical identifier of the type (e.g. "number").
	ID() string

	// CanTarget reports whether a source pin of this type may feed a
	// target pin of the other type.
	CanTarget(other Type) bool

	// CanSource reports whether a target pin of this type may accept a
	// source pin of the other type.
	CanSource(other Type) bool
}

// Any is the wildcard type. It connects to and from everything.
type Any struct{}

func (Any) ID() string            { return "any" }
func (Any) CanTarget(_ Type) bool { return true }
func (Any) CanSource(_ Type) bool { return true }

// Simple is a named scalar type. Two simple types are compatible only when
// their identifiers match.
type Simple struct {
	Name string
}

func (s Simple) ID() string { return s.Name }

func (s Simple) CanTarget(other Type) bool {
	return compatible(s, other)
}

func (s Simple) CanSource(other Type) bool {
	return compatible(s, other)
}

// compatible resolves the pairwise rule, deferring to the wildcard on
// either side of the connection.
func compatible(s Simple, other Type) bool {
	switch o := other.(type) {
	case Any:
		return true
	case Simple:
		return s.Name == o.Name
	default:
		return false
	}
}

// Number is the numeric type used by the built-in math nodes.
var Number = Simple{Name: "number"}

// FromID resolves a type keyword from a manifest into a Type. Unknown
// keywords become named simple types, so user manifests can introduce their
// own opaque types without code changes.
func FromID(id string) Type {
	if id == "" || id == "any" {
		return Any{}
	}
	return Simple{Name: id}
}
