package config

import (
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// Model is the unified, format-agnostic representation of the entire
// application configuration: all node type manifests plus the user's graph.
type Model struct {
	NodeTypes map[string]*NodeTypeDefinition
	Graph     *Graph
}

// Graph represents the user's node graph definition.
type Graph struct {
	Nodes       []*NodeInstance
	Connections []*Connection
}

// NodeInstance is the format-agnostic representation of a `node` block.
type NodeInstance struct {
	TypeID    string
	Name      string
	Arguments map[string]hcl.Expression
}

// Connection is the format-agnostic representation of a `connect` block.
// Endpoints use the "<node>.<pin>" form.
type Connection struct {
	From string
	To   string
}

// --- Node type manifest models ---

// NodeTypeDefinition is the format-agnostic representation of a node type
// manifest. It is the descriptor consumed by the registry, the executor,
// and the stub emitter.
type NodeTypeDefinition struct {
	Category    []string
	ID          string
	Name        string
	Description string
	Lifecycle   *Lifecycle
	Properties  map[string]*PropertyDefinition
	Pins        []*PinDefinition
}

// RegistrationKey returns the namespaced key under which the host editor
// knows this type, e.g. "math/binop".
func (d *NodeTypeDefinition) RegistrationKey() string {
	return strings.Join(append(append([]string{}, d.Category...), d.ID), "/")
}

// Pin returns the pin definition with the given id, or nil.
func (d *NodeTypeDefinition) Pin(id string) *PinDefinition {
	for _, p := range d.Pins {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// InputPins returns the type's input pins in declaration order.
func (d *NodeTypeDefinition) InputPins() []*PinDefinition {
	return d.pinsByDirection(DirIn)
}

// OutputPins returns the type's output pins in declaration order.
func (d *NodeTypeDefinition) OutputPins() []*PinDefinition {
	return d.pinsByDirection(DirOut)
}

func (d *NodeTypeDefinition) pinsByDirection(dir Direction) []*PinDefinition {
	var pins []*PinDefinition
	for _, p := range d.Pins {
		if p.Direction == dir {
			pins = append(pins, p)
		}
	}
	return pins
}

// Lifecycle maps a node type's events to Go handler names.
type Lifecycle struct {
	Calc string
}

// PropertyDefinition defines a single configurable property of a node type.
type PropertyDefinition struct {
	Name        string
	Type        cty.Type
	Description string
	Default     *cty.Value
	Optional    bool
	// Choices restricts string properties to a fixed set when non-empty.
	Choices []string
	// Low and High bound numeric properties when set.
	Low  *float64
	High *float64
}

// Direction tells whether a pin consumes or produces values.
type Direction string

const (
	DirIn  Direction = "in"
	DirOut Direction = "out"
)

// PinDefinition defines a single typed port of a node type.
type PinDefinition struct {
	ID        string
	Label     string
	Direction Direction
	TypeID    string
}
