// Package math provides the built-in numeric node types: constant, printer,
// and binop.
package math

import (
	"context"
	"fmt"
	"reflect"

	"github.com/vk/nodesmith/internal/ctxlog"
	"github.com/vk/nodesmith/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// ConstantInput defines the properties for the constant node type.
type ConstantInput struct {
	Value float64 `nsm:"value"`
}

// CalcConstant is the handler for the 'constant' node type's calc event.
func CalcConstant(ctx context.Context, input *ConstantInput, ins registry.PinValues) (map[string]any, error) {
	return map[string]any{"out": input.Value}, nil
}

// PrinterInput is empty because the printer node has no properties.
type PrinterInput struct{}

// CalcPrinter is the handler for the 'printer' node type's calc event.
// An unconnected input prints as zero, matching the emitted stub semantics.
func CalcPrinter(ctx context.Context, input *PrinterInput, ins registry.PinValues) (map[string]any, error) {
	ctxlog.FromContext(ctx).Info("🖨️ printer", "value", ins.Number("in"))
	return nil, nil
}

// BinopInput defines the properties for the binop node type.
type BinopInput struct {
	OperatorName string `nsm:"operator_name"`
}

// CalcBinop is the handler for the 'binop' node type's calc event. Absent
// inputs default to zero.
func CalcBinop(ctx context.Context, input *BinopInput, ins registry.PinValues) (map[string]any, error) {
	a := ins.Number("a")
	b := ins.Number("b")

	var res float64
	switch input.OperatorName {
	case "add":
		res = a + b
	case "sub":
		res = a - b
	case "mul":
		res = a * b
	case "div":
		if b == 0 {
			return nil, fmt.Errorf("division by zero")
		}
		res = a / b
	default:
		return nil, fmt.Errorf("unknown operator %q", input.OperatorName)
	}

	return map[string]any{"res": res}, nil
}

// Register registers the calc handlers with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterCalc("CalcConstant", &registry.RegisteredCalc{
		NewInput:  func() any { return new(ConstantInput) },
		InputType: reflect.TypeOf(ConstantInput{}),
		Fn:        CalcConstant,
	})
	r.RegisterCalc("CalcPrinter", &registry.RegisteredCalc{
		NewInput:  func() any { return new(PrinterInput) },
		InputType: reflect.TypeOf(PrinterInput{}),
		Fn:        CalcPrinter,
	})
	r.RegisterCalc("CalcBinop", &registry.RegisteredCalc{
		NewInput:  func() any { return new(BinopInput) },
		InputType: reflect.TypeOf(BinopInput{}),
		Fn:        CalcBinop,
	})
}
