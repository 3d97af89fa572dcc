package executor

import (
	"context"
	"fmt"
	"reflect"

	"github.com/vk/nodesmith/internal/ctxlog"
	"github.com/vk/nodesmith/internal/graph"
	"github.com/vk/nodesmith/internal/registry"
)

// runNode executes a single node: decode its arguments, gather its input
// pin values from upstream outputs, call the registered calc handler, and
// store the converted outputs on the node.
func (e *Executor) runNode(ctx context.Context, n *graph.Node) error {
	logger := ctxlog.FromContext(ctx).With("node", n.Name)
	logger.Info("▶️ Starting node")

	def := n.Def
	if def.Lifecycle == nil || def.Lifecycle.Calc == "" {
		return fmt.Errorf("node type '%s' has no calc lifecycle and cannot be evaluated", def.RegistrationKey())
	}
	handlerName := def.Lifecycle.Calc
	handler, ok := e.registry.CalcRegistry[handlerName]
	if !ok {
		return fmt.Errorf("calc handler '%s' not registered", handlerName)
	}

	inputStruct := handler.NewInput()
	if inputStruct != nil {
		if err := e.converter.DecodeArguments(ctx, inputStruct, n.Config.Arguments, def.Properties, nil); err != nil {
			return fmt.Errorf("failed to decode arguments for node '%s': %w", n.Name, err)
		}
	}

	ins, err := e.gatherInputs(n)
	if err != nil {
		return err
	}

	logger.Debug("Calling calc handler.", "handler", handlerName)
	handlerFunc := reflect.ValueOf(handler.Fn)
	callArgs := []reflect.Value{reflect.ValueOf(ctx)}

	if inputStruct == nil {
		callArgs = append(callArgs, reflect.Zero(handlerFunc.Type().In(1)))
	} else {
		callArgs = append(callArgs, reflect.ValueOf(inputStruct))
	}
	callArgs = append(callArgs, reflect.ValueOf(ins))

	results := handlerFunc.Call(callArgs)
	nativeOutput, errResult := results[0].Interface(), results[1].Interface()
	if errResult != nil {
		return errResult.(error)
	}

	output := make(registry.PinValues)
	if nativeOutput != nil {
		for pin, v := range nativeOutput.(map[string]any) {
			val, err := e.converter.ToCtyValue(v)
			if err != nil {
				return fmt.Errorf("failed to convert output pin '%s' of node '%s': %w", pin, n.Name, err)
			}
			output[pin] = val
		}
	}
	n.Output = output

	logger.Info("✅ Finished node")
	return nil
}

// gatherInputs reads the upstream output value for each connected input pin.
// Unconnected pins are simply absent from the result; when several sources
// feed one pin, the first wired connection wins.
func (e *Executor) gatherInputs(n *graph.Node) (registry.PinValues, error) {
	sources, err := e.Graph.Sources(n.Name)
	if err != nil {
		return nil, err
	}

	ins := make(registry.PinValues)
	for pin, remotes := range sources {
		remote := remotes[0]
		upstream, ok := e.Graph.Node(remote.Node)
		if !ok {
			return nil, fmt.Errorf("upstream node '%s' of '%s' not found", remote.Node, n.Name)
		}
		if upstream.Output == nil {
			return nil, fmt.Errorf("upstream node '%s' of '%s' has no output yet", remote.Node, n.Name)
		}
		if val, ok := upstream.Output[remote.Pin]; ok {
			ins[pin] = val
		}
	}
	return ins, nil
}
