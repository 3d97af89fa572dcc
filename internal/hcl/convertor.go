package hcl

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/vk/nodesmith/internal/config"
	"github.com/vk/nodesmith/internal/ctxlog"
	"github.com/vk/nodesmith/internal/schema"
)

// Converter is the HCL-specific implementation of the config.Converter
// interface.
type Converter struct{}

// NewConverter creates a new HCL converter.
func NewConverter() *Converter {
	return &Converter{}
}

// DecodeArguments evaluates HCL expressions, applies defaults, validates
// against the property definitions, and populates the provided Go struct
// using reflection. Struct fields opt in with the `nsm` tag.
func (c *Converter) DecodeArguments(
	ctx context.Context,
	inputStruct any,
	args map[string]hcl.Expression,
	defs map[string]*config.PropertyDefinition,
	evalCtx *hcl.EvalContext,
) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Starting argument decoding.")

	structVal := reflect.ValueOf(inputStruct)
	if structVal.Kind() != reflect.Ptr || structVal.IsNil() {
		return fmt.Errorf("inputStruct must be a non-nil pointer")
	}
	structVal = structVal.Elem()
	structType := structVal.Type()

	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		fieldVal := structVal.Field(i)

		if !fieldVal.CanSet() {
			continue
		}

		lookupName := field.Name
		if tag := field.Tag.Get("nsm"); tag != "" {
			lookupName = strings.Split(tag, ",")[0]
		}

		propDef, defExists := defs[lookupName]
		if !defExists {
			continue
		}

		targetPtr := fieldVal.Addr().Interface()
		argExpr, argProvided := args[lookupName]

		if argProvided {
			val, diags := argExpr.Value(evalCtx)
			if diags.HasErrors() {
				return diags
			}
			if err := validateValue(propDef, val); err != nil {
				return fmt.Errorf("invalid value for property '%s': %w", lookupName, err)
			}
			if err := c.decode(ctx, val, targetPtr); err != nil {
				return fmt.Errorf("failed to decode argument '%s': %w", lookupName, err)
			}
			continue
		}

		if propDef.Default == nil && !propDef.Optional {
			return fmt.Errorf("missing required argument %q", lookupName)
		}
		if propDef.Default != nil {
			if err := c.decode(ctx, *propDef.Default, targetPtr); err != nil {
				return fmt.Errorf("failed to apply default for '%s': %w", lookupName, err)
			}
		}
	}

	logger.Debug("Finished argument decoding successfully.")
	return nil
}

// validateValue enforces the declarative restrictions a manifest can place
// on a property: a fixed choice set for strings, low/high bounds for numbers.
func validateValue(def *config.PropertyDefinition, val cty.Value) error {
	if val.IsNull() || !val.IsKnown() {
		return nil
	}

	if len(def.Choices) > 0 && val.Type() == cty.String {
		s := val.AsString()
		for _, choice := range def.Choices {
			if s == choice {
				return nil
			}
		}
		return fmt.Errorf("%q is not one of the allowed choices %v", s, def.Choices)
	}

	if val.Type() == cty.Number && (def.Low != nil || def.High != nil) {
		f, _ := val.AsBigFloat().Float64()
		if def.Low != nil && f < *def.Low {
			return fmt.Errorf("%v is below the minimum %v", f, *def.Low)
		}
		if def.High != nil && f > *def.High {
			return fmt.Errorf("%v is above the maximum %v", f, *def.High)
		}
	}

	return nil
}

// decode handles the conversion and decoding of a cty.Value into a Go pointer.
func (c *Converter) decode(ctx context.Context, val cty.Value, goVal any) error {
	logger := ctxlog.FromContext(ctx)
	valPtr := reflect.ValueOf(goVal)
	if valPtr.Kind() != reflect.Ptr {
		return fmt.Errorf("target for decoding must be a pointer, got %T", goVal)
	}

	impliedType, err := gocty.ImpliedType(valPtr.Elem().Interface())
	if err != nil {
		logger.Debug("Could not imply cty.Type from Go type, attempting direct decoding.", "go_type", valPtr.Elem().Type().String(), "error", err)
		return gocty.FromCtyValue(val, goVal)
	}

	convertedVal, err := convertValue(val, impliedType)
	if err != nil {
		return err
	}

	return gocty.FromCtyValue(convertedVal, goVal)
}

// convertValue converts a cty value to the required type with a friendlier
// error than the raw convert package produces.
func convertValue(val cty.Value, ty cty.Type) (cty.Value, error) {
	converted, err := convert.Convert(val, ty)
	if err != nil {
		return cty.NilVal, fmt.Errorf("cannot convert %s to required type %s: %w", val.Type().FriendlyName(), ty.FriendlyName(), err)
	}
	return converted, nil
}

// ToCtyValue converts a native Go value into its corresponding cty.Value.
func (c *Converter) ToCtyValue(v any) (cty.Value, error) {
	if v == nil {
		return cty.NilVal, nil
	}
	if val, ok := v.(cty.Value); ok {
		return val, nil
	}
	ty, err := gocty.ImpliedType(v)
	if err != nil {
		return cty.NilVal, fmt.Errorf("unable to infer cty.Type: %w", err)
	}
	return gocty.ToCtyValue(v, ty)
}

// extractBodyAttributes flattens the attributes of a decoded arguments block
// into a name-to-expression map. A nil block yields an empty map.
func extractBodyAttributes(args *schema.NodeArgs) map[string]hcl.Expression {
	exprs := make(map[string]hcl.Expression)
	if args == nil || args.Body == nil {
		return exprs
	}
	// JustAttributes errors on nested blocks; arguments blocks are flat.
	attrs, _ := args.Body.JustAttributes()
	for name, attr := range attrs {
		exprs[name] = attr.Expr
	}
	return exprs
}
