package registry

import (
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/nodesmith/internal/config"
)

// Module is the interface that all built-in node type modules must implement
// to be registered.
type Module interface {
	Register(r *Registry)
}

// PinValues carries per-pin values into and out of a calc handler, keyed by
// pin id. An input pin with no upstream connection is simply absent; the
// handler decides the default (the built-in math nodes use zero).
type PinValues map[string]cty.Value

// Number reads a numeric pin value, substituting zero when the pin is
// absent or not a number.
func (v PinValues) Number(pin string) float64 {
	val, ok := v[pin]
	if !ok || val.IsNull() || val.Type() != cty.Number {
		return 0
	}
	f, _ := val.AsBigFloat().Float64()
	return f
}

// Registry holds all registered calc handlers and node type definitions for
// a single application instance.
type Registry struct {
	CalcRegistry       map[string]*RegisteredCalc
	DefinitionRegistry map[string]*config.NodeTypeDefinition
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{
		CalcRegistry:       make(map[string]*RegisteredCalc),
		DefinitionRegistry: make(map[string]*config.NodeTypeDefinition),
	}
}

// PopulateDefinitionsFromModel copies the loaded node type definitions from
// the config model into the registry, keyed by registration key.
func (r *Registry) PopulateDefinitionsFromModel(model *config.Model) {
	for key, def := range model.NodeTypes {
		r.DefinitionRegistry[key] = def
	}
}

// Definition returns the node type definition registered under the given
// key, or nil.
func (r *Registry) Definition(key string) *config.NodeTypeDefinition {
	return r.DefinitionRegistry[key]
}
