package config

import (
	"context"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// Loader is the interface for a format-specific configuration loader.
type Loader interface {
	// Load reads configuration from the given paths, translates it into
	// the format-agnostic model, and returns a matching Converter.
	Load(ctx context.Context, paths ...string) (*Model, Converter, error)
}

// Converter is the interface for a format-specific data binding and type
// conversion implementation. It acts as the bridge between raw argument
// expressions and the Go structs used by calc handlers.
type Converter interface {
	// DecodeArguments decodes a node's raw `arguments` block into a target
	// Go struct, applying defaults and per-property validation.
	DecodeArguments(
		ctx context.Context,
		inputStruct any,
		args map[string]hcl.Expression,
		defs map[string]*PropertyDefinition,
		evalCtx *hcl.EvalContext,
	) error

	// ToCtyValue converts a native Go value produced by a calc handler
	// into its equivalent cty.Value for the engine's internal use.
	ToCtyValue(v any) (cty.Value, error)
}
