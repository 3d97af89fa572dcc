package registry

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/vk/nodesmith/internal/ctxlog"
)

// ValidateRegistry performs a strict parity check between manifests and Go
// code. Every node type with a calc lifecycle must resolve to a registered
// handler, and the handler's property struct must match the manifest's
// property set both by presence and by type.
func (r *Registry) ValidateRegistry(ctx context.Context) error {
	var errs []string
	logger := ctxlog.FromContext(ctx)

	for key, def := range r.DefinitionRegistry {
		if def.Lifecycle == nil || def.Lifecycle.Calc == "" {
			// Purely declarative types (emitted but never evaluated) are fine.
			continue
		}

		handler, ok := r.CalcRegistry[def.Lifecycle.Calc]
		if !ok {
			errs = append(errs, fmt.Sprintf("node type '%s': manifest references calc handler '%s' which is not registered", key, def.Lifecycle.Calc))
			continue
		}

		if handler.InputType == nil {
			if len(def.Properties) > 0 {
				errs = append(errs, fmt.Sprintf("node type '%s': manifest declares properties, but Go handler has no input struct", key))
			}
			continue
		}

		manifestProps := make(map[string]struct{})
		for name := range def.Properties {
			manifestProps[name] = struct{}{}
		}

		goProps := make(map[string]reflect.StructField)
		inputType := handler.InputType
		for i := 0; i < inputType.NumField(); i++ {
			field := inputType.Field(i)
			if !field.IsExported() {
				continue
			}
			tag := field.Tag.Get("nsm")
			tagName := strings.Split(tag, ",")[0]
			if tagName != "" && tagName != "-" {
				goProps[tagName] = field
			}
		}

		// Presence mismatches in either direction.
		for name := range goProps {
			if _, ok := manifestProps[name]; !ok {
				errs = append(errs, fmt.Sprintf("node type '%s': Go struct has field for property '%s' which is not declared in manifest", key, name))
			}
		}
		for name := range manifestProps {
			if _, ok := goProps[name]; !ok {
				errs = append(errs, fmt.Sprintf("node type '%s': manifest declares property '%s' which is not found in Go struct", key, name))
			}
		}

		// Type mismatches.
		for name, propDef := range def.Properties {
			goField, ok := goProps[name]
			if !ok {
				continue // Already reported by the presence check.
			}

			manifestType := propDef.Type
			if manifestType.Equals(cty.DynamicPseudoType) {
				logger.Warn("Manifest property uses 'type = any', which disables static type checking.", "node_type", key, "property", name)
				continue
			}

			goFieldType, err := gocty.ImpliedType(reflect.Zero(goField.Type).Interface())
			if err != nil {
				errs = append(errs, fmt.Sprintf("node type '%s', property '%s': could not imply cty type from Go field type %s: %v", key, name, goField.Type, err))
				continue
			}

			if !manifestType.Equals(goFieldType) {
				errs = append(errs, fmt.Sprintf("node type '%s', property '%s': type mismatch. Manifest requires '%s' but Go struct field '%s' provides '%s'",
					key, name, manifestType.FriendlyName(), goField.Name, goFieldType.FriendlyName()))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}

	return nil
}
