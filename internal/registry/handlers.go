package registry

import (
	"fmt"
	"log/slog"
	"reflect"
)

// RegisteredCalc holds the compiled Go parts of a node type's calc handler.
//
// Fn must have the shape
//
//	func(ctx context.Context, input *T, ins PinValues) (map[string]any, error)
//
// where T is the handler's property struct (tagged with `nsm`) and the
// returned map is keyed by output pin id.
type RegisteredCalc struct {
	NewInput  func() any
	InputType reflect.Type
	Fn        any
}

// RegisterCalc registers a Go function for a node type's calc lifecycle
// event. Registering the same name twice is a programmer error.
func (r *Registry) RegisterCalc(name string, handler *RegisteredCalc) {
	if _, exists := r.CalcRegistry[name]; exists {
		panic(fmt.Sprintf("calc handler with name '%s' already registered", name))
	}
	slog.Debug("Registering calc handler.", "name", name)
	r.CalcRegistry[name] = handler
}
