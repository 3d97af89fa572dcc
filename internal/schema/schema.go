// Package schema declares the HCL shapes for node type manifests and graph
// files. These structs are decode targets only; the hcl loader translates
// them into the format-agnostic config model.
package schema

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// --- Graph file structures ---

// NodeArgs represents the content of the 'arguments' block within a node.
type NodeArgs struct {
	Body hcl.Body `hcl:",remain"`
}

// Node represents a `node` block from a user's graph file. It is a live
// instance of a defined node type.
type Node struct {
	Name      string    `hcl:"instance_name,label"`
	TypeKey   string    `hcl:"type_key,label"`
	Arguments *NodeArgs `hcl:"arguments,block"`
}

// Connection represents a `connect` block wiring a source pin to a target
// pin. Both endpoints use the "<node>.<pin>" form.
type Connection struct {
	From string `hcl:"from"`
	To   string `hcl:"to"`
}

// --- Node type manifest schemas ---

// Lifecycle defines the mapping from a node type's calc event to a
// registered Go handler function.
type Lifecycle struct {
	Calc string `hcl:"calc"`
}

// PropertyDefinition defines a single configurable property of a node type.
type PropertyDefinition struct {
	Name        string         `hcl:"name,label"`
	Type        hcl.Expression `hcl:"type"`
	Description string         `hcl:"description,optional"`
	Default     *cty.Value     `hcl:"default,optional"`
	Choices     []string       `hcl:"choices,optional"`
	Low         *float64       `hcl:"low,optional"`
	High        *float64       `hcl:"high,optional"`
}

// PinDefinition defines a single typed port of a node type.
type PinDefinition struct {
	ID        string `hcl:"id,label"`
	Label     string `hcl:"label,optional"`
	Direction string `hcl:"direction"`
	Type      string `hcl:"type,optional"`
}

// NodeTypeDefinition represents the HCL manifest for a `node_type` block.
type NodeTypeDefinition struct {
	Category    string                `hcl:"category,label"`
	ID          string                `hcl:"type_id,label"`
	Name        string                `hcl:"name"`
	Description string                `hcl:"description,optional"`
	Lifecycle   *Lifecycle            `hcl:"lifecycle,block"`
	Properties  []*PropertyDefinition `hcl:"property,block"`
	Pins        []*PinDefinition      `hcl:"pin,block"`
}
