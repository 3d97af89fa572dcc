package app

import (
	"context"

	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io/v2/socket"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/nodesmith/internal/registry"
)

// newBridge builds the socket.io server connected editors talk to. On
// connection a client receives the current registration keys; it may then
// request a graph evaluation and receives the per-node results.
func (a *App) newBridge(ctx context.Context, appConfig *Config) *socket.Server {
	opts := socket.DefaultServerOptions()
	opts.SetCors(&types.Cors{Origin: "*"})

	io := socket.NewServer(nil, opts)
	io.On("connection", func(clients ...any) {
		client := clients[0].(*socket.Socket)
		a.logger.Info("Editor connected.", "sid", client.Id())

		client.Emit("types", a.registrationKeys())

		client.On("evaluate", func(...any) {
			results, err := a.evaluateForResults(ctx, appConfig.WorkerCount)
			if err != nil {
				a.logger.Error("Bridge evaluation failed.", "error", err)
				client.Emit("evaluate_error", err.Error())
				return
			}
			client.Emit("results", flattenResults(results))
		})

		client.On("disconnect", func(...any) {
			a.logger.Info("Editor disconnected.", "sid", client.Id())
		})
	})

	return io
}

// registrationKeys lists every registered node type key in bundle order.
func (a *App) registrationKeys() []string {
	defs := a.sortedDefinitions()
	keys := make([]string, 0, len(defs))
	for _, def := range defs {
		keys = append(keys, def.RegistrationKey())
	}
	return keys
}

// flattenResults converts executor results into plain JSON-friendly values,
// keyed "<node>.<pin>".
func flattenResults(results map[string]registry.PinValues) map[string]any {
	flat := make(map[string]any)
	for node, pins := range results {
		for pin, val := range pins {
			flat[node+"."+pin] = jsonValue(val)
		}
	}
	return flat
}

func jsonValue(val cty.Value) any {
	if val.IsNull() || !val.IsKnown() {
		return nil
	}
	switch val.Type() {
	case cty.Number:
		f, _ := val.AsBigFloat().Float64()
		return f
	case cty.String:
		return val.AsString()
	case cty.Bool:
		return val.True()
	default:
		return val.GoString()
	}
}
